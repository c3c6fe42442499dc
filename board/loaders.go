package board

import (
	"bufio"
	"io"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tilefinder/dataloaders"
)

// LoadPowerUps reads a power-up grid: one character per cell, row-major,
// newlines ignored. If the grid holds a different square number of cells
// and the board has no tiles yet, the board is resized to fit it. A grid
// that doesn't fill the board leaves the rest as None and is Malformed.
func (b *Board) LoadPowerUps(r io.Reader) dataloaders.LoadResult {
	data, err := io.ReadAll(r)
	if err != nil {
		log.Warn().Err(err).Msg("powerups-read-error")
		return dataloaders.Malformed
	}
	cells := make([]PowerUp, 0, len(data))
	for _, ch := range data {
		if ch == '\n' || ch == '\r' {
			continue
		}
		cells = append(cells, PowerUpFromRune(rune(ch)))
	}
	if side := int(math.Sqrt(float64(len(cells)))); side > 0 && side*side == len(cells) &&
		side != b.dim && !b.HasContents() {
		log.Debug().Int("from", b.dim).Int("to", side).Msg("resizing-board-for-powerups")
		b.dim = side
		b.squares = make([]Square, side*side)
	}
	for i := range b.squares {
		b.squares[i].powerUp = None
	}
	for i, p := range cells {
		if i >= len(b.squares) {
			break
		}
		b.squares[i].powerUp = p
	}
	if len(cells) != len(b.squares) {
		log.Warn().Int("cells", len(cells)).Int("expected", len(b.squares)).
			Msg("powerups-size-mismatch")
		return dataloaders.Malformed
	}
	return dataloaders.Loaded
}

// LoadLetters reads a board-state file. See SetRows for the format.
func (b *Board) LoadLetters(r io.Reader) dataloaders.LoadResult {
	var rows []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() && len(rows) < b.dim {
		rows = append(rows, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		log.Warn().Err(err).Msg("board-read-error")
		return dataloaders.Malformed
	}
	b.SetRows(rows)
	return dataloaders.Loaded
}

// LoadPowerUpsFile loads power-ups from path. A missing file leaves every
// square without a bonus.
func (b *Board) LoadPowerUpsFile(path string) dataloaders.LoadResult {
	res := dataloaders.LoadFile(path, b.LoadPowerUps)
	if res == dataloaders.NotFound {
		for i := range b.squares {
			b.squares[i].powerUp = None
		}
	}
	return res
}

// LoadLettersFile loads tiles from path. A missing file leaves the board empty.
func (b *Board) LoadLettersFile(path string) dataloaders.LoadResult {
	res := dataloaders.LoadFile(path, b.LoadLetters)
	if res == dataloaders.NotFound {
		b.ClearLetters()
	}
	return res
}
