package board

import "fmt"

type Direction uint8

const (
	Horizontal Direction = iota
	Vertical
)

func (d Direction) String() string {
	if d == Horizontal {
		return "(horizontal)"
	}
	return "(vertical)"
}

// Other returns the perpendicular direction.
func (d Direction) Other() Direction {
	if d == Horizontal {
		return Vertical
	}
	return Horizontal
}

// Coord is a zero-based board coordinate.
type Coord struct {
	Row int
	Col int
}

// WithOffset returns the coordinate delta cells away along dir.
func (c Coord) WithOffset(dir Direction, delta int) Coord {
	if dir == Horizontal {
		return Coord{Row: c.Row, Col: c.Col + delta}
	}
	return Coord{Row: c.Row + delta, Col: c.Col}
}

// Along is the coordinate component that changes when moving along dir.
func (c Coord) Along(dir Direction) int {
	if dir == Horizontal {
		return c.Col
	}
	return c.Row
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Notation gives the familiar crossword-game coordinate of a play starting
// at c: row number first for horizontal plays ("8H"), column letter first
// for vertical ones ("H8").
func (c Coord) Notation(dir Direction) string {
	col := string(rune('A' + c.Col))
	row := fmt.Sprint(c.Row + 1)
	if dir == Horizontal {
		return row + col
	}
	return col + row
}
