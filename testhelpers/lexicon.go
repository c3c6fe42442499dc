// Package testhelpers builds small on-disk lexicons for tests.
package testhelpers

import (
	"os"
	"testing"

	"github.com/domino14/tilefinder/indexmaker"
	"github.com/domino14/tilefinder/wordcode"
)

const (
	ShardPrefix = "list-"
	ShardSuffix = ".bin"
)

// CommonWords is a small word list good enough to solve simple boards.
var CommonWords = []string{
	"a", "i",
	"ad", "at", "do", "go", "od", "so", "to", "as", "is", "it", "of", "on", "og",
	"cat", "cot", "cog", "dog", "god", "sod", "dos", "ods", "tag", "act", "sat", "tog",
	"cats", "dogs", "gods", "scat", "acts", "cast", "coat", "togs", "tods",
	"coats", "costa", "tacos", "coast",
}

// WriteShards encodes words into shard files under a fresh temp dir and
// returns the dir. Shards use ShardPrefix and ShardSuffix.
func WriteShards(t testing.TB, words []string) string {
	t.Helper()
	dir := t.TempDir()
	split := indexmaker.SplitByLength(words)
	for length := 1; length <= wordcode.MaxLength; length++ {
		opts := indexmaker.Options{OutDir: dir, Prefix: ShardPrefix, Suffix: ShardSuffix}
		f, err := os.Create(opts.ShardPath(length))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := indexmaker.EncodeShard(f, split[length]); err != nil {
			t.Fatal(err)
		}
		if err := f.Close(); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}
