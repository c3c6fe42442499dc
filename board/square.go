package board

import (
	"fmt"
	"os"
)

var (
	ColorSupport = os.Getenv("TILEFINDER_DISABLE_COLOR") != "on"
)

// A PowerUp is a cell modifier multiplying the letter or word score.
type PowerUp uint8

const (
	None PowerUp = iota
	DoubleLetter
	TripleLetter
	DoubleWord
	TripleWord
)

// PowerUpFromRune maps a power-up file character to its PowerUp. Anything
// unrecognized is no bonus.
func PowerUpFromRune(r rune) PowerUp {
	switch r {
	case 'd':
		return DoubleLetter
	case 't':
		return TripleLetter
	case 'D':
		return DoubleWord
	case 'T':
		return TripleWord
	}
	return None
}

func (p PowerUp) LetterMultiplier() int {
	switch p {
	case DoubleLetter:
		return 2
	case TripleLetter:
		return 3
	}
	return 1
}

func (p PowerUp) WordMultiplier() int {
	switch p {
	case DoubleWord:
		return 2
	case TripleWord:
		return 3
	}
	return 1
}

func (p PowerUp) String() string {
	switch p {
	case DoubleLetter:
		return "DL"
	case TripleLetter:
		return "TL"
	case DoubleWord:
		return "DW"
	case TripleWord:
		return "TW"
	}
	return "none"
}

// glyph is the single-character marker used in board display.
func (p PowerUp) glyph() byte {
	switch p {
	case DoubleLetter:
		return '\''
	case TripleLetter:
		return '"'
	case DoubleWord:
		return '-'
	case TripleWord:
		return '='
	}
	return ' '
}

func (p PowerUp) displayString() string {
	g := string(p.glyph())
	if !ColorSupport {
		return g
	}
	switch p {
	case TripleWord:
		return fmt.Sprintf("\033[31m%s\033[0m", g)
	case DoubleWord:
		return fmt.Sprintf("\033[35m%s\033[0m", g)
	case TripleLetter:
		return fmt.Sprintf("\033[34m%s\033[0m", g)
	case DoubleLetter:
		return fmt.Sprintf("\033[36m%s\033[0m", g)
	}
	return g
}

// A Square is a single cell of the board: a letter (0 if empty), whether
// that letter came from a blank tile, and the cell's power-up.
type Square struct {
	letter  byte
	blank   bool
	powerUp PowerUp
}

func (s Square) String() string {
	return fmt.Sprintf("<(%c) (%v) blank=%v>", s.displayLetter(), s.powerUp, s.blank)
}

func (s *Square) IsEmpty() bool {
	return s.letter == 0
}

func (s *Square) Letter() byte {
	return s.letter
}

func (s *Square) IsBlankTile() bool {
	return s.blank
}

func (s *Square) PowerUp() PowerUp {
	return s.powerUp
}

func (s Square) displayLetter() byte {
	if s.letter == 0 {
		return ' '
	}
	if s.blank {
		return s.letter - 'a' + 'A'
	}
	return s.letter
}

func (s Square) DisplayString() string {
	if s.letter == 0 {
		return s.powerUp.displayString()
	}
	if s.blank && ColorSupport {
		return fmt.Sprintf("\033[33m%c\033[0m", s.displayLetter())
	}
	return string(s.displayLetter())
}
