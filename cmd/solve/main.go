// solve prints the best placements of a rack on a board. Run it as
//
//	solve [flags] <letters> [gameboard]
//
// With no board it lists the dictionary words made from the letters.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tilefinder/board"
	"github.com/domino14/tilefinder/config"
	"github.com/domino14/tilefinder/lexicon"
	"github.com/domino14/tilefinder/move"
	"github.com/domino14/tilefinder/solver"
	"github.com/domino14/tilefinder/store"
	"github.com/domino14/tilefinder/tilemapping"
)

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.AdjustRelativePaths(exPath)

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	logger := zerolog.New(output).With().Timestamp().Logger()
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
	log.Logger = logger

	if !cfg.FindWords() {
		fmt.Fprintln(os.Stderr, "usage: solve [flags] <letters> [gameboard]")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(logger.WithContext(context.Background()),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lex, err := lexicon.Get(lexicon.ConfigFrom(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-open-lexicon")
	}
	letters := tilemapping.NormalizeRack(cfg.GetString(config.ConfigLetters))

	if !cfg.SolveGame() {
		for _, w := range lex.FindMatchStrings(letters, true, nil) {
			fmt.Println(w)
		}
		return
	}

	b := board.New(board.DefaultDim)
	b.LoadPowerUpsFile(cfg.GetString(config.ConfigPowerUps))
	b.LoadLettersFile(cfg.GetString(config.ConfigGameBoard))
	ld, _ := tilemapping.LoadLetterDistribution(cfg.GetString(config.ConfigLetterScores))

	sols, err := solver.New(lex, b, ld, solver.OptionsFrom(cfg)).Solve(ctx, letters)
	if err != nil && len(sols) == 0 {
		log.Fatal().Err(err).Msg("could-not-solve")
	}
	if err != nil {
		log.Warn().Err(err).Msg("partial-results")
	}

	if dbPath := cfg.GetString(config.ConfigDBPath); dbPath != "" {
		st, err := store.Open(ctx, dbPath)
		if err != nil {
			log.Err(err).Str("path", dbPath).Msg("history-disabled")
		} else {
			if _, err := st.Record(ctx, store.NewEntry(letters, b, sols, cfg.GetInt(config.ConfigTop))); err != nil {
				log.Err(err).Msg("could-not-record-solve")
			}
			st.Close()
		}
	}

	// Worst first, so the best play ends up right above the prompt.
	top := move.Top(sols, cfg.GetInt(config.ConfigTop))
	for i := len(top) - 1; i >= 0; i-- {
		fmt.Printf("%-22s %4d\n", top[i].ShortDescription(), top[i].Score())
	}
}
