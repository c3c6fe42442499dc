// make_index encodes the word lists under word-list-dir into one sorted
// shard per word length under lexicon-dir.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tilefinder/config"
	"github.com/domino14/tilefinder/indexmaker"
	"github.com/domino14/tilefinder/wordcode"
)

func main() {
	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

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
	log.Logger = logger

	opts := indexmaker.Options{
		Sources: []string{cfg.GetString(config.ConfigWordListDir)},
		OutDir:  cfg.GetString(config.ConfigLexiconDir),
		Prefix:  cfg.GetString(config.ConfigShardPrefix),
		Suffix:  cfg.GetString(config.ConfigShardSuffix),
	}
	report, err := indexmaker.MakeIndex(logger.WithContext(context.Background()), opts)
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-make-index")
	}
	for length := 1; length <= wordcode.MaxLength; length++ {
		if n, ok := report.Shards[length]; ok {
			fmt.Printf("%2d letters: %7d words  %s\n", length, n, opts.ShardPath(length))
		}
	}
	fmt.Printf("%d words\n", report.Words)
}
