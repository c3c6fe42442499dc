// Package move holds scored word placements and the orderings used to rank
// them.
package move

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/domino14/tilefinder/board"
	"github.com/domino14/tilefinder/movegen"
)

// Solution is a scored placement of a word. It can't be changed once made.
type Solution struct {
	word                 string
	position             movegen.WordPosition
	boardLettersConsumed int
	score                int
	// blanks has bit i set if slot i of word is filled by a blank tile.
	blanks uint16
}

func NewSolution(word string, pos movegen.WordPosition, score int, blanks uint16) *Solution {
	return &Solution{
		word:                 word,
		position:             pos,
		boardLettersConsumed: pos.BoardLetters(),
		score:                score,
		blanks:               blanks,
	}
}

// String provides a string just for debugging purposes.
func (s *Solution) String() string {
	return fmt.Sprintf("<solution word: %v %v score: %v tp: %v blanks: %016b>",
		s.Coords(), s.word, s.score, s.TilesPlayed(), s.blanks)
}

func (s *Solution) Word() string                   { return s.word }
func (s *Solution) Position() movegen.WordPosition { return s.position }
func (s *Solution) BoardLettersConsumed() int      { return s.boardLettersConsumed }
func (s *Solution) Score() int                     { return s.score }
func (s *Solution) Blanks() uint16                 { return s.blanks }

// TilesPlayed is the number of tiles that came off the rack.
func (s *Solution) TilesPlayed() int {
	return s.position.LettersUsed
}

// Coords gives the start of the play like 8H (horizontal) or H8 (vertical).
func (s *Solution) Coords() string {
	return s.position.Start.Notation(s.position.Direction)
}

// TilesString is the word with blank-tile slots in uppercase.
func (s *Solution) TilesString() string {
	var sb strings.Builder
	for i := 0; i < len(s.word); i++ {
		ch := s.word[i]
		if s.blanks&(1<<i) != 0 {
			ch = ch - 'a' + 'A'
		}
		sb.WriteByte(ch)
	}
	return sb.String()
}

// ShortDescription provides a short description, useful for logging or
// user display.
func (s *Solution) ShortDescription() string {
	return fmt.Sprintf("%v %v", s.Coords(), s.TilesString())
}

// footprint identifies the word and the cells it covers.
type footprint struct {
	word  string
	start board.Coord
	dir   board.Direction
}

func (s *Solution) footprint() footprint {
	return footprint{word: s.word, start: s.position.Start, dir: s.position.Direction}
}

// Compare orders by score, then word, then position, so that sorting is
// deterministic.
func Compare(a, b *Solution) int {
	return cmp.Or(
		cmp.Compare(a.score, b.score),
		cmp.Compare(a.word, b.word),
		cmp.Compare(a.position.Start.Row, b.position.Start.Row),
		cmp.Compare(a.position.Start.Col, b.position.Start.Col),
		cmp.Compare(a.position.Direction, b.position.Direction),
	)
}

// Sort sorts solutions in place, lowest score first.
func Sort(solutions []*Solution) {
	slices.SortFunc(solutions, Compare)
}

// Dedupe keeps only the best-scoring solution for each word and footprint.
// Order of first appearance is kept.
func Dedupe(solutions []*Solution) []*Solution {
	best := make(map[footprint]int, len(solutions))
	out := make([]*Solution, 0, len(solutions))
	for _, s := range solutions {
		fp := s.footprint()
		if idx, ok := best[fp]; ok {
			if s.score > out[idx].score {
				out[idx] = s
			}
			continue
		}
		best[fp] = len(out)
		out = append(out, s)
	}
	return out
}

// Top returns the n best solutions, best first. It doesn't modify its input.
func Top(solutions []*Solution, n int) []*Solution {
	sorted := slices.Clone(solutions)
	Sort(sorted)
	if n > len(sorted) || n < 0 {
		n = len(sorted)
	}
	top := sorted[len(sorted)-n:]
	slices.Reverse(top)
	return top
}
