// Package board holds the grid of placed tiles and power-ups, plus the
// geometry helpers the position generator and solver walk it with.
package board

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash"
)

// DefaultDim is the side length of a standard board.
const DefaultDim = 15

var (
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	ErrBadLetter   = errors.New("letter must be in a-z")
)

// Board is a square grid. Squares are stored row-major.
type Board struct {
	dim         int
	squares     []Square
	tilesPlayed int
}

// New creates an empty board with no power-ups.
func New(dim int) *Board {
	if dim <= 0 {
		dim = DefaultDim
	}
	return &Board{dim: dim, squares: make([]Square, dim*dim)}
}

// FromRows creates a default-sized board and fills it from board-file rows.
func FromRows(rows []string) *Board {
	b := New(DefaultDim)
	b.SetRows(rows)
	return b
}

func (b *Board) Dim() int {
	return b.dim
}

func (b *Board) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < b.dim && c.Col >= 0 && c.Col < b.dim
}

func (b *Board) sq(c Coord) *Square {
	return &b.squares[c.Row*b.dim+c.Col]
}

// Square returns a copy of the square at c. Out-of-bounds squares are empty.
func (b *Board) Square(c Coord) Square {
	if !b.InBounds(c) {
		return Square{}
	}
	return *b.sq(c)
}

// IsEmpty is true for empty squares and for anything off the board.
func (b *Board) IsEmpty(c Coord) bool {
	return !b.InBounds(c) || b.sq(c).IsEmpty()
}

func (b *Board) IsBlankTile(c Coord) bool {
	return b.InBounds(c) && b.sq(c).blank
}

// Letter returns the lowercase letter at c, or 0.
func (b *Board) Letter(c Coord) byte {
	if !b.InBounds(c) {
		return 0
	}
	return b.sq(c).letter
}

func (b *Board) PowerUp(c Coord) PowerUp {
	if !b.InBounds(c) {
		return None
	}
	return b.sq(c).powerUp
}

func (b *Board) SetPowerUp(c Coord, p PowerUp) error {
	if !b.InBounds(c) {
		return ErrOutOfBounds
	}
	b.sq(c).powerUp = p
	return nil
}

// SetLetter places a tile. A zero letter clears the square.
func (b *Board) SetLetter(c Coord, letter byte, blank bool) error {
	if !b.InBounds(c) {
		return ErrOutOfBounds
	}
	if letter != 0 && (letter < 'a' || letter > 'z') {
		return fmt.Errorf("%w: %q", ErrBadLetter, letter)
	}
	s := b.sq(c)
	if s.letter == 0 && letter != 0 {
		b.tilesPlayed++
	} else if s.letter != 0 && letter == 0 {
		b.tilesPlayed--
	}
	s.letter = letter
	s.blank = letter != 0 && blank
	return nil
}

// HasContents distinguishes a board with tiles from an opening position.
func (b *Board) HasContents() bool {
	return b.tilesPlayed > 0
}

func (b *Board) TilesPlayed() int {
	return b.tilesPlayed
}

func (b *Board) Center() Coord {
	return Coord{Row: b.dim / 2, Col: b.dim / 2}
}

// Neighbours returns the in-bounds orthogonal neighbours of c.
func (b *Board) Neighbours(c Coord) []Coord {
	cands := [4]Coord{
		c.WithOffset(Vertical, -1), c.WithOffset(Vertical, 1),
		c.WithOffset(Horizontal, -1), c.WithOffset(Horizontal, 1),
	}
	out := make([]Coord, 0, 4)
	for _, n := range cands {
		if b.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// HasNeighbourLetter reports whether any orthogonal neighbour of c holds a tile.
func (b *Board) HasNeighbourLetter(c Coord) bool {
	for _, n := range b.Neighbours(c) {
		if !b.IsEmpty(n) {
			return true
		}
	}
	return false
}

// Tiles lists every tile on the board; blank tiles are given as '?'.
func (b *Board) Tiles() []byte {
	out := make([]byte, 0, b.tilesPlayed)
	for i := range b.squares {
		s := &b.squares[i]
		switch {
		case s.letter == 0:
		case s.blank:
			out = append(out, '?')
		default:
			out = append(out, s.letter)
		}
	}
	return out
}

// ClearLetters removes every tile but keeps power-ups.
func (b *Board) ClearLetters() {
	for i := range b.squares {
		b.squares[i].letter = 0
		b.squares[i].blank = false
	}
	b.tilesPlayed = 0
}

// SetRows fills the board from board-file rows: lowercase letters are
// regular tiles, uppercase letters are blank tiles, anything else is empty.
// Rows and columns beyond the board are ignored.
func (b *Board) SetRows(rows []string) {
	b.ClearLetters()
	for r, line := range rows {
		if r >= b.dim {
			break
		}
		for c := 0; c < len(line) && c < b.dim; c++ {
			ch := line[c]
			switch {
			case ch >= 'a' && ch <= 'z':
				b.SetLetter(Coord{r, c}, ch, false)
			case ch >= 'A' && ch <= 'Z':
				b.SetLetter(Coord{r, c}, ch-'A'+'a', true)
			}
		}
	}
}

// Rows renders the tiles back into board-file rows.
func (b *Board) Rows() []string {
	rows := make([]string, b.dim)
	for r := 0; r < b.dim; r++ {
		var sb strings.Builder
		for c := 0; c < b.dim; c++ {
			s := b.sq(Coord{r, c})
			if s.letter == 0 {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(s.displayLetter())
			}
		}
		rows[r] = sb.String()
	}
	return rows
}

// PlaceWord writes word onto the board starting at start. Slots whose bit is
// set in blanks are blank tiles. Squares already holding a tile are left as
// they are.
func (b *Board) PlaceWord(start Coord, dir Direction, word string, blanks uint16) error {
	end := start.WithOffset(dir, len(word)-1)
	if !b.InBounds(start) || !b.InBounds(end) {
		return ErrOutOfBounds
	}
	for i := 0; i < len(word); i++ {
		c := start.WithOffset(dir, i)
		if !b.IsEmpty(c) {
			continue
		}
		if err := b.SetLetter(c, word[i], blanks&(1<<i) != 0); err != nil {
			return err
		}
	}
	return nil
}

// Copy returns a deep copy of the board.
func (b *Board) Copy() *Board {
	n := &Board{dim: b.dim, tilesPlayed: b.tilesPlayed, squares: make([]Square, len(b.squares))}
	copy(n.squares, b.squares)
	return n
}

// Fingerprint hashes the dimension and tiles (including blank flags). Two
// boards with the same tiles share a fingerprint regardless of power-ups.
func (b *Board) Fingerprint() uint64 {
	buf := make([]byte, 0, 4+len(b.squares))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(b.dim))
	for i := range b.squares {
		s := &b.squares[i]
		ch := s.letter
		if s.blank {
			ch |= 0x80
		}
		buf = append(buf, ch)
	}
	return xxhash.Sum64(buf)
}
