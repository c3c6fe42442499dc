// Package movegen enumerates the windows on a board where a given number of
// rack tiles could be laid down.
package movegen

import (
	"github.com/rs/zerolog/log"

	"github.com/domino14/tilefinder/board"
)

// Generate returns every placement window for letterCount new tiles, in
// both directions, horizontal windows first.
func Generate(b *board.Board, letterCount int) []WordPosition {
	positions := GenerateDirection(b, letterCount, board.Horizontal)
	positions = append(positions, GenerateDirection(b, letterCount, board.Vertical)...)
	log.Debug().Int("letters", letterCount).Int("positions", len(positions)).Msg("generated-positions")
	return positions
}

// GenerateDirection returns the placement windows along one direction.
// On an empty board the windows lie on the centre line and cover the centre
// square; a single tile gets one horizontal window on the centre square.
// Otherwise every window must touch a tile already on the board, and windows
// shorter than two cells are left to the perpendicular direction.
func GenerateDirection(b *board.Board, letterCount int, dir board.Direction) []WordPosition {
	if letterCount < 1 {
		return nil
	}
	if !b.HasContents() {
		return openingPositions(b, letterCount, dir)
	}
	var positions []WordPosition
	dim := b.Dim()
	for line := 0; line < dim; line++ {
		var lineStart board.Coord
		if dir == board.Horizontal {
			lineStart = board.Coord{Row: line, Col: 0}
		} else {
			lineStart = board.Coord{Row: 0, Col: line}
		}
		for i := 0; i < dim; i++ {
			start := lineStart.WithOffset(dir, i)
			if !b.IsEmpty(start) {
				continue
			}
			if pos, ok := windowFrom(b, start, letterCount, dir); ok {
				positions = append(positions, pos)
			}
		}
	}
	return positions
}

func openingPositions(b *board.Board, letterCount int, dir board.Direction) []WordPosition {
	center := b.Center()
	if letterCount == 1 {
		if dir != board.Horizontal {
			return nil
		}
		return []WordPosition{{Start: center, Length: 1, LettersUsed: 1, Direction: dir}}
	}
	if letterCount > b.Dim() {
		return nil
	}
	positions := make([]WordPosition, 0, letterCount)
	for back := letterCount - 1; back >= 0; back-- {
		start := center.WithOffset(dir, -back)
		pos := WordPosition{Start: start, Length: letterCount, LettersUsed: letterCount, Direction: dir}
		if !b.InBounds(start) || !b.InBounds(pos.End()) {
			continue
		}
		positions = append(positions, pos)
	}
	return positions
}

// windowFrom lays letterCount new tiles starting at the free cell start,
// skipping occupied cells. It reports false if they don't fit or the window
// touches nothing already on the board.
func windowFrom(b *board.Board, start board.Coord, letterCount int, dir board.Direction) (WordPosition, bool) {
	placed := 0
	touches := false
	cur := start
	last := start
	for placed < letterCount {
		if !b.InBounds(cur) {
			return WordPosition{}, false
		}
		if b.IsEmpty(cur) {
			if b.HasNeighbourLetter(cur) {
				touches = true
			}
			placed++
			last = cur
		}
		cur = cur.WithOffset(dir, 1)
	}
	span := last.Along(dir) - start.Along(dir) + 1
	before := start.WithOffset(dir, -1)
	after := last.WithOffset(dir, 1)
	if span > letterCount || !b.IsEmpty(before) || !b.IsEmpty(after) {
		touches = true
	}
	if !touches {
		return WordPosition{}, false
	}

	// Stretch across tiles adjoining either end.
	first := start
	for !b.IsEmpty(first.WithOffset(dir, -1)) {
		first = first.WithOffset(dir, -1)
	}
	for !b.IsEmpty(last.WithOffset(dir, 1)) {
		last = last.WithOffset(dir, 1)
	}
	length := last.Along(dir) - first.Along(dir) + 1
	if length < 2 {
		return WordPosition{}, false
	}
	return WordPosition{Start: first, Length: length, LettersUsed: letterCount, Direction: dir}, true
}
