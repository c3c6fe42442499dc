package movegen

import (
	"fmt"

	"github.com/domino14/tilefinder/board"
)

// WordPosition is a candidate placement window: the full contiguous
// footprint of a word, of which LettersUsed cells are filled from the rack
// and the rest are already on the board.
type WordPosition struct {
	Start       board.Coord
	Length      int
	LettersUsed int
	Direction   board.Direction
}

// CoordAt steps i cells from Start along the position's direction.
func (p WordPosition) CoordAt(i int) board.Coord {
	return p.Start.WithOffset(p.Direction, i)
}

// End is the last cell of the window.
func (p WordPosition) End() board.Coord {
	return p.CoordAt(p.Length - 1)
}

// BoardLetters is how many cells of the window are already occupied.
func (p WordPosition) BoardLetters() int {
	return p.Length - p.LettersUsed
}

func (p WordPosition) String() string {
	return fmt.Sprintf("%v len=%d used=%d %v", p.Start, p.Length, p.LettersUsed, p.Direction)
}
