// Package solver finds every valid placement of a rack on a board and
// scores it.
package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/tilefinder/board"
	"github.com/domino14/tilefinder/config"
	"github.com/domino14/tilefinder/lexicon"
	"github.com/domino14/tilefinder/move"
	"github.com/domino14/tilefinder/movegen"
	"github.com/domino14/tilefinder/tilemapping"
	"github.com/domino14/tilefinder/wordcode"
)

const (
	// InvalidScore marks a placement that forms a non-word somewhere.
	InvalidScore = -1
	BingoBonus   = 50
	// DefaultBingoSize is the number of tiles that earns the bingo bonus.
	DefaultBingoSize = 7
	// RackSize is the most tiles a player can hold; when the unseen pool
	// fits in one rack the bag is empty.
	RackSize = 7
)

var (
	ErrNoRack        = errors.New("no rack given")
	ErrRackTooLong   = fmt.Errorf("rack is longer than %d tiles", wordcode.MaxLength)
	ErrNotConfigured = errors.New("solver is missing a board or lexicon")
)

type Options struct {
	Threads   int
	BingoSize int
	// EndgameBonus credits the unseen tiles to a play that empties the rack
	// once the bag is empty.
	EndgameBonus bool
	// Timeout bounds a whole Solve call; zero means no limit.
	Timeout time.Duration
}

// OptionsFrom reads solver options from the program configuration.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		Threads:      cfg.GetInt(config.ConfigThreads),
		BingoSize:    DefaultBingoSize,
		EndgameBonus: cfg.GetBool(config.ConfigEndgameBonus),
		Timeout:      cfg.GetDuration(config.ConfigSolveTimeout),
	}
}

// Solver scores placements on one board with one lexicon and letter
// distribution. It only reads them, so several solves may share them.
type Solver struct {
	lex   *lexicon.Lexicon
	board *board.Board
	ld    *tilemapping.LetterDistribution
	opts  Options
}

func New(lex *lexicon.Lexicon, b *board.Board, ld *tilemapping.LetterDistribution, opts Options) *Solver {
	if opts.Threads < 1 {
		opts.Threads = 1
	}
	if opts.BingoSize < 1 {
		opts.BingoSize = DefaultBingoSize
	}
	if ld == nil {
		ld = &tilemapping.LetterDistribution{}
	}
	return &Solver{lex: lex, board: b, ld: ld, opts: opts}
}

func (s *Solver) Board() *board.Board {
	return s.board
}

func (s *Solver) Lexicon() *lexicon.Lexicon {
	return s.lex
}

func (s *Solver) LetterDistribution() *tilemapping.LetterDistribution {
	return s.ld
}

type task struct {
	pos     movegen.WordPosition
	subsets []string
}

// Solve returns every valid placement of rack's tiles, lowest score first,
// keeping only the best score for each word and footprint. If ctx ends
// early the solutions found so far are returned with ctx's error.
func (s *Solver) Solve(ctx context.Context, rackStr string) ([]*move.Solution, error) {
	if s.lex == nil || s.board == nil {
		return nil, ErrNotConfigured
	}
	rackStr = tilemapping.NormalizeRack(rackStr)
	if rackStr == "" {
		return nil, ErrNoRack
	}
	if len(rackStr) > wordcode.MaxLength {
		return nil, ErrRackTooLong
	}
	rack, err := tilemapping.RackFromString(rackStr)
	if err != nil {
		return nil, err
	}
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	logger := zerolog.Ctx(ctx)
	tstart := time.Now()

	// Everything a window could need is loaded before workers fan out.
	s.lex.EnsureLoaded(s.board.Dim())

	combos := lexicon.WordCombinationsByCount(rack.String())
	var tasks []task
	for n := rack.NumTiles(); n >= 1; n-- {
		for _, pos := range movegen.Generate(s.board, n) {
			tasks = append(tasks, task{pos: pos, subsets: combos[n]})
		}
	}
	bonus := s.endgameBonus(rack)

	results := make([][]*move.Solution, len(tasks))
	g := errgroup.Group{}
	g.SetLimit(s.opts.Threads)
	for i, t := range tasks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.solvePosition(t, rack, bonus)
			return nil
		})
	}
	err = g.Wait()

	solutions := move.Dedupe(lo.Flatten(results))
	move.Sort(solutions)
	logger.Debug().Str("rack", rackStr).Int("positions", len(tasks)).
		Int("solutions", len(solutions)).Dur("elapsed", time.Since(tstart)).Msg("solved")
	if err != nil {
		return solutions, fmt.Errorf("solve interrupted: %w", err)
	}
	return solutions, nil
}

// endgameBonus is what a rack-emptying play earns when the bag is empty:
// the value of the tiles the opponent is left holding.
func (s *Solver) endgameBonus(rack *tilemapping.Rack) int {
	if !s.opts.EndgameBonus {
		return 0
	}
	seen := append(s.board.Tiles(), rack.Tiles()...)
	unseen := s.ld.Unseen(seen)
	if len(unseen) > RackSize {
		return 0
	}
	return s.ld.WordScore(string(unseen))
}

func (s *Solver) solvePosition(t task, rack *tilemapping.Rack, endgameBonus int) []*move.Solution {
	pos := t.pos
	var mask wordcode.PositionMask
	onBoard := make([]byte, 0, pos.BoardLetters())
	for i := 0; i < pos.Length; i++ {
		c := pos.CoordAt(i)
		if l := s.board.Letter(c); l != 0 {
			mask.Set(i, l)
			onBoard = append(onBoard, l)
		}
	}
	var maskp *wordcode.PositionMask
	if len(onBoard) > 0 {
		maskp = &mask
	}

	var found []*move.Solution
	for _, subset := range t.subsets {
		for _, word := range s.lex.FindMatchStrings(subset+string(onBoard), false, maskp) {
			blanks, ok := s.assignBlanks(pos, word, rack)
			if !ok {
				continue
			}
			score, ok := s.Evaluate(pos, word, blanks)
			if !ok {
				continue
			}
			if endgameBonus > 0 && pos.LettersUsed == rack.NumTiles() {
				score += endgameBonus
			}
			found = append(found, move.NewSolution(word, pos, score, blanks))
		}
	}
	return found
}

// assignBlanks decides which newly placed slots of word come from blank
// tiles: real tiles are used first, left to right, and blanks cover the
// rest. It reports false if the rack can't make the word at all.
func (s *Solver) assignBlanks(pos movegen.WordPosition, word string, rack *tilemapping.Rack) (uint16, bool) {
	r := rack.Copy()
	var blanks uint16
	for i := 0; i < len(word); i++ {
		if !s.board.IsEmpty(pos.CoordAt(i)) {
			continue
		}
		if r.Take(word[i]) {
			continue
		}
		if !r.Take(tilemapping.BlankToken) {
			return 0, false
		}
		blanks |= 1 << i
	}
	return blanks, true
}
