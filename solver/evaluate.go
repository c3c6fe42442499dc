package solver

import (
	"github.com/domino14/tilefinder/board"
	"github.com/domino14/tilefinder/movegen"
)

// Evaluate scores word laid at pos, where blanks marks the newly placed
// slots filled by blank tiles. Every cross-word formed by a new tile must
// be a dictionary word; if any isn't, or the word doesn't fit the board,
// it returns InvalidScore and false. Multipliers count only under new
// tiles, and the bingo bonus is included. The end-game bonus is not, as it
// depends on the rack.
func (s *Solver) Evaluate(pos movegen.WordPosition, word string, blanks uint16) (int, bool) {
	if len(word) != pos.Length || pos.Length < 1 {
		return InvalidScore, false
	}
	if !s.board.InBounds(pos.Start) || !s.board.InBounds(pos.End()) ||
		!s.board.IsEmpty(pos.CoordAt(-1)) || !s.board.IsEmpty(pos.CoordAt(pos.Length)) {
		return InvalidScore, false
	}
	if !s.lex.HasExactWord(word) {
		return InvalidScore, false
	}

	mainScore := 0
	wordMultiplier := 1
	crossScores := 0
	placed := 0
	cross := pos.Direction.Other()
	for i := 0; i < len(word); i++ {
		c := pos.CoordAt(i)
		if existing := s.board.Letter(c); existing != 0 {
			if existing != word[i] {
				return InvalidScore, false
			}
			mainScore += s.boardTileScore(c)
			continue
		}
		placed++
		ls := s.ld.Score(word[i])
		if blanks&(1<<i) != 0 {
			ls = 0
		}
		pu := s.board.PowerUp(c)
		mainScore += ls * pu.LetterMultiplier()
		wordMultiplier *= pu.WordMultiplier()

		cs, ok := s.crossScore(c, cross, word[i], ls)
		if !ok {
			return InvalidScore, false
		}
		crossScores += cs
	}
	if placed != pos.LettersUsed {
		return InvalidScore, false
	}
	score := mainScore*wordMultiplier + crossScores
	if placed >= s.opts.BingoSize {
		score += BingoBonus
	}
	return score, true
}

func (s *Solver) boardTileScore(c board.Coord) int {
	if s.board.IsBlankTile(c) {
		return 0
	}
	return s.ld.Score(s.board.Letter(c))
}

// crossScore scores the word formed along dir through the new tile at c.
// A tile with no neighbours along dir forms no word and scores nothing.
func (s *Solver) crossScore(c board.Coord, dir board.Direction, letter byte, letterScore int) (int, bool) {
	first, last := c, c
	for !s.board.IsEmpty(first.WithOffset(dir, -1)) {
		first = first.WithOffset(dir, -1)
	}
	for !s.board.IsEmpty(last.WithOffset(dir, 1)) {
		last = last.WithOffset(dir, 1)
	}
	if first == last {
		return 0, true
	}
	length := last.Along(dir) - first.Along(dir) + 1
	crossWord := make([]byte, length)
	score := 0
	for i := 0; i < length; i++ {
		cc := first.WithOffset(dir, i)
		if cc == c {
			crossWord[i] = letter
			continue
		}
		crossWord[i] = s.board.Letter(cc)
		score += s.boardTileScore(cc)
	}
	if !s.lex.HasExactWord(string(crossWord)) {
		return 0, false
	}
	pu := s.board.PowerUp(c)
	score += letterScore * pu.LetterMultiplier()
	return score * pu.WordMultiplier(), true
}
