// Package wordindex holds a sorted collection of encoded words that all have
// the same length.
package wordindex

import (
	"bufio"
	"errors"
	"io"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tilefinder/wordcode"
)

// WordIndex is a collection of WordCodes sorted by key, so that all codes
// with the same letter set are contiguous.
type WordIndex struct {
	codes []wordcode.WordCode
}

func New() *WordIndex {
	return &WordIndex{}
}

// Len returns the number of words in the index.
func (w *WordIndex) Len() int {
	return len(w.codes)
}

// Load reads fixed-size records from r until a short record or the end of
// the stream. A short trailing record ends the load without an error.
// It returns the number of words added.
func (w *WordIndex) Load(r io.Reader) (int, error) {
	br := bufio.NewReader(r)
	buf := make([]byte, wordcode.RecordSize)
	added := 0
	skipped := 0
	for {
		n, err := io.ReadFull(br, buf)
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			log.Debug().Int("bytes", n).Msg("short-record-ends-stream")
			break
		}
		if err != nil {
			return added, err
		}
		wc := wordcode.Decode(buf)
		if !wc.Valid() || !wc.Sortable() {
			skipped++
			continue
		}
		w.codes = append(w.codes, wc)
		added++
	}
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("skipped-undecodable-records")
	}
	if !slices.IsSortedFunc(w.codes, wordcode.Compare) {
		log.Warn().Int("words", len(w.codes)).Msg("index-stream-not-sorted-sorting")
		slices.SortStableFunc(w.codes, wordcode.Compare)
	}
	return added, nil
}

// Add inserts a word code, keeping the index sorted. Codes with blanks or
// invalid codes are refused.
func (w *WordIndex) Add(wc wordcode.WordCode) bool {
	if !wc.Valid() || !wc.Sortable() {
		return false
	}
	// Insert after any equal keys, so insertion order is kept within a run.
	idx, _ := slices.BinarySearchFunc(w.codes, wc, func(a, b wordcode.WordCode) int {
		if wordcode.Compare(a, b) <= 0 {
			return -1
		}
		return 1
	})
	w.codes = slices.Insert(w.codes, idx, wc)
	return true
}

// search returns the index of some code with the given key, or -1.
func (w *WordIndex) search(key uint32) int {
	lo, hi := 0, len(w.codes)-1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		k := w.codes[mid].Key()
		switch {
		case k < key:
			lo = mid + 1
		case k > key:
			hi = mid - 1
		default:
			return mid
		}
	}
	return -1
}

// run returns the bounds [start, end) of the run of codes sharing key,
// expanding backwards and forwards from a binary search hit.
func (w *WordIndex) run(key uint32) (int, int) {
	hit := w.search(key)
	if hit < 0 {
		return 0, 0
	}
	start := hit
	for start > 0 && w.codes[start-1].Key() == key {
		start--
	}
	end := hit + 1
	for end < len(w.codes) && w.codes[end].Key() == key {
		end++
	}
	return start, end
}

// FindMatches returns all words that can be made from the letters of query
// (using its blanks as needed) and that satisfy mask, if given.
func (w *WordIndex) FindMatches(query wordcode.WordCode, mask *wordcode.PositionMask) []wordcode.WordCode {
	var found []wordcode.WordCode
	accept := func(wc wordcode.WordCode) {
		if query.MatchesAmounts(wc) && wc.MatchesPositionalMask(mask) {
			found = append(found, wc)
		}
	}
	if query.HasBlanks() {
		// Blanks widen the key space; the ordering can't help us.
		for _, wc := range w.codes {
			accept(wc)
		}
		return found
	}
	start, end := w.run(query.Key())
	for i := start; i < end; i++ {
		accept(w.codes[i])
	}
	return found
}

// HasExact returns true if the index holds a word equal to query
// slot-for-slot, treating the query's blanks as wildcards.
func (w *WordIndex) HasExact(query wordcode.WordCode) bool {
	if query.HasBlanks() {
		for _, wc := range w.codes {
			if wc.MatchesPattern(query) {
				return true
			}
		}
		return false
	}
	start, end := w.run(query.Key())
	for i := start; i < end; i++ {
		if w.codes[i].MatchesPattern(query) {
			return true
		}
	}
	return false
}

// FindPatternMatches returns every word that fits pattern: fixed letters at
// their slots and any letter at the pattern's blank slots.
func (w *WordIndex) FindPatternMatches(pattern wordcode.WordCode) []wordcode.WordCode {
	var found []wordcode.WordCode
	for _, wc := range w.codes {
		if wc.MatchesPattern(pattern) {
			found = append(found, wc)
		}
	}
	return found
}
