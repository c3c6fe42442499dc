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
	"github.com/domino14/tilefinder/bot"
	"github.com/domino14/tilefinder/config"
	"github.com/domino14/tilefinder/lexicon"
	"github.com/domino14/tilefinder/solver"
	"github.com/domino14/tilefinder/store"
	"github.com/domino14/tilefinder/tilemapping"
)

const (
	GracefulShutdownTimeout = 20 * time.Second
	ConnectAttempts         = 10
)

func main() {
	// Determine the directory of the executable. We will use this
	// directory to find the data files if an absolute path is not
	// provided for these!
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
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	log.Info().Msgf("Loaded config: %v, exPath: %v", cfg.SanitizedSettings(), exPath)

	ctx, cancel := context.WithCancel(logger.WithContext(context.Background()))
	defer cancel()

	lex, err := lexicon.Get(lexicon.ConfigFrom(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-open-lexicon")
	}
	lex.Preload()
	log.Info().Int("words", lex.WordCount()).Msg("lexicon-loaded")

	template := board.New(board.DefaultDim)
	template.LoadPowerUpsFile(cfg.GetString(config.ConfigPowerUps))
	ld, _ := tilemapping.LoadLetterDistribution(cfg.GetString(config.ConfigLetterScores))
	b := bot.NewBot(lex, template, ld, solver.OptionsFrom(cfg))

	if dbPath := cfg.GetString(config.ConfigDBPath); dbPath != "" {
		st, err := store.Open(ctx, dbPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", dbPath).Msg("could-not-open-history")
		}
		defer st.Close()
		b.WithHistory(st)
	}

	nc, err := bot.Connect(ctx, cfg.GetString(config.ConfigNatsURL), ConnectAttempts)
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-connect")
	}

	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		// We received an interrupt signal, shut down.
		log.Info().Msg("got quit signal...")
		cancel()
	}()

	go func() {
		defer close(idleConnsClosed)
		if err := b.Serve(ctx, nc, bot.DefaultSubject); err != nil {
			log.Err(err).Msg("serve-failed")
		}
	}()

	<-idleConnsClosed
	log.Info().Msg("server gracefully shutting down")
	if err := nc.FlushTimeout(GracefulShutdownTimeout); err != nil {
		log.Err(err).Msg("flush-failed")
	}
	nc.Close()
}
