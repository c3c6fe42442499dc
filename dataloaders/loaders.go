// Package dataloaders opens the small data files the solver depends on
// (power-ups, letter scores, board state) and classifies how loading went.
package dataloaders

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
)

// LoadResult says how loading a data file went. Callers fall back to
// zero-value defaults for anything but Loaded.
type LoadResult uint8

const (
	Loaded LoadResult = iota
	NotFound
	Malformed
)

func (r LoadResult) String() string {
	switch r {
	case Loaded:
		return "loaded"
	case NotFound:
		return "not-found"
	case Malformed:
		return "malformed"
	}
	return "unknown"
}

// Open opens a data file. A missing or unreadable file is logged and
// reported as NotFound.
func Open(path string) (io.ReadCloser, LoadResult) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("path", path).Msg("data-file-not-found")
		} else {
			log.Warn().Err(err).Str("path", path).Msg("data-file-unreadable")
		}
		return nil, NotFound
	}
	return f, Loaded
}

// LoadFile opens path and hands it to load, closing it afterwards.
func LoadFile(path string, load func(io.Reader) LoadResult) LoadResult {
	f, res := Open(path)
	if res != Loaded {
		return res
	}
	defer f.Close()
	res = load(f)
	if res != Loaded {
		log.Warn().Str("path", path).Stringer("result", res).Msg("data-file-not-fully-loaded")
	}
	return res
}
