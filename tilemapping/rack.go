package tilemapping

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyRack is returned when a rack string holds no tiles.
var ErrEmptyRack = errors.New("rack is empty")

// Rack is a multiset of tiles. Blanks are counted separately.
type Rack struct {
	LetArr   [NumLetters]int
	Blanks   int
	numTiles int
}

// RackFromString parses a user-visible rack: letters plus `?` for blanks.
func RackFromString(s string) (*Rack, error) {
	r := &Rack{}
	for i := 0; i < len(s); i++ {
		if err := r.Add(s[i]); err != nil {
			return nil, fmt.Errorf("rack %q: %w", s, err)
		}
	}
	if r.numTiles == 0 {
		return nil, ErrEmptyRack
	}
	return r, nil
}

// Add puts a tile on the rack.
func (r *Rack) Add(letter byte) error {
	idx, ok := tileIdx(letter)
	if !ok {
		return fmt.Errorf("invalid tile %q", letter)
	}
	if idx == blankIdx {
		r.Blanks++
	} else {
		r.LetArr[idx]++
	}
	r.numTiles++
	return nil
}

// Has reports whether a real (non-blank) copy of letter is on the rack.
func (r *Rack) Has(letter byte) bool {
	idx, ok := tileIdx(letter)
	if !ok {
		return false
	}
	if idx == blankIdx {
		return r.Blanks > 0
	}
	return r.LetArr[idx] > 0
}

// Take removes one letter from the rack, returning false if it isn't there.
func (r *Rack) Take(letter byte) bool {
	if !r.Has(letter) {
		return false
	}
	idx, _ := tileIdx(letter)
	if idx == blankIdx {
		r.Blanks--
	} else {
		r.LetArr[idx]--
	}
	r.numTiles--
	return true
}

func (r *Rack) NumTiles() int {
	return r.numTiles
}

// Copy returns an independent copy.
func (r *Rack) Copy() *Rack {
	n := *r
	return &n
}

// Tiles lists the rack's tiles in letter order, blanks last.
func (r *Rack) Tiles() []byte {
	out := make([]byte, 0, r.numTiles)
	for i, ct := range r.LetArr {
		for j := 0; j < ct; j++ {
			out = append(out, byte('a'+i))
		}
	}
	for j := 0; j < r.Blanks; j++ {
		out = append(out, BlankToken)
	}
	return out
}

// String returns the user-visible, alphabetized rack.
func (r *Rack) String() string {
	return string(r.Tiles())
}

// Score is the face value of the tiles left on the rack.
func (r *Rack) Score(ld *LetterDistribution) int {
	score := 0
	for i, ct := range r.LetArr {
		score += ct * ld.scores[i]
	}
	return score + r.Blanks*ld.scores[blankIdx]
}

// NormalizeRack lowercases a rack string and drops whitespace.
func NormalizeRack(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "")
}
