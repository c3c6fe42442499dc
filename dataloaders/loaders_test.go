package dataloaders

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestLoadFileMissing(t *testing.T) {
	is := is.New(t)
	called := false
	res := LoadFile(filepath.Join(t.TempDir(), "nope"), func(io.Reader) LoadResult {
		called = true
		return Loaded
	})
	is.Equal(res, NotFound)
	is.True(!called)
}

func TestLoadFilePassesResult(t *testing.T) {
	is := is.New(t)
	p := filepath.Join(t.TempDir(), "data")
	is.NoErr(os.WriteFile(p, []byte("hello"), 0o644))
	var got []byte
	res := LoadFile(p, func(r io.Reader) LoadResult {
		got, _ = io.ReadAll(r)
		return Malformed
	})
	is.Equal(res, Malformed)
	is.Equal(string(got), "hello")
	is.Equal(res.String(), "malformed")
}
