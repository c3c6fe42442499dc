// Package bot serves solve requests over NATS and provides a client for
// them.
package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tilefinder/board"
	"github.com/domino14/tilefinder/lexicon"
	"github.com/domino14/tilefinder/move"
	"github.com/domino14/tilefinder/solver"
	"github.com/domino14/tilefinder/store"
	"github.com/domino14/tilefinder/tilemapping"
)

const (
	DefaultSubject = "tilefinder.solve"
	QueueGroup     = "tilefinder-solvers"
	DefaultTop     = 10
)

// SolveRequest asks for the best placements of Rack on a board given as
// board-file rows (lowercase tiles, uppercase blank tiles).
type SolveRequest struct {
	Rack  string   `json:"rack"`
	Board []string `json:"board"`
	Top   int      `json:"top,omitempty"`
}

type SolutionMsg struct {
	Word        string `json:"word"`
	Coords      string `json:"coords"`
	Description string `json:"description"`
	Score       int    `json:"score"`
	TilesPlayed int    `json:"tilesPlayed"`
	Blanks      uint16 `json:"blanks,omitempty"`
}

// SolveResponse holds the best solutions first, or an error message.
type SolveResponse struct {
	Solutions []SolutionMsg `json:"solutions,omitempty"`
	Error     string        `json:"error,omitempty"`
}

func errorResponse(message string, err error) *SolveResponse {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &SolveResponse{Error: msg}
}

// Bot answers solve requests. Every request gets its own board built on
// a shared power-up layout.
type Bot struct {
	lex      *lexicon.Lexicon
	template *board.Board
	ld       *tilemapping.LetterDistribution
	opts     solver.Options
	history  *store.Store
}

// NewBot makes a bot. template supplies the dimension and power-ups; its
// tiles are ignored.
func NewBot(lex *lexicon.Lexicon, template *board.Board, ld *tilemapping.LetterDistribution, opts solver.Options) *Bot {
	t := template.Copy()
	t.ClearLetters()
	return &Bot{lex: lex, template: t, ld: ld, opts: opts}
}

// WithHistory records every successful solve in st.
func (bot *Bot) WithHistory(st *store.Store) *Bot {
	bot.history = st
	return bot
}

// Handle decodes a request, solves it and returns the response.
func (bot *Bot) Handle(ctx context.Context, data []byte) *SolveResponse {
	logger := zerolog.Ctx(ctx)
	req := SolveRequest{}
	if err := json.Unmarshal(data, &req); err != nil {
		return errorResponse("Could not parse request", err)
	}
	top := req.Top
	if top <= 0 {
		top = DefaultTop
	}
	b := bot.template.Copy()
	b.SetRows(req.Board)

	sols, err := solver.New(bot.lex, b, bot.ld, bot.opts).Solve(ctx, req.Rack)
	if err != nil {
		return errorResponse("Could not solve", err)
	}
	resp := &SolveResponse{}
	for _, s := range move.Top(sols, top) {
		resp.Solutions = append(resp.Solutions, SolutionMsg{
			Word:        s.Word(),
			Coords:      s.Coords(),
			Description: s.ShortDescription(),
			Score:       s.Score(),
			TilesPlayed: s.TilesPlayed(),
			Blanks:      s.Blanks(),
		})
	}
	if bot.history != nil {
		if _, err := bot.history.Record(ctx, store.NewEntry(req.Rack, b, sols, top)); err != nil {
			logger.Err(err).Msg("could-not-record-solve")
		}
	}
	logger.Info().Str("rack", req.Rack).Int("solutions", len(sols)).Msg("solved-request")
	return resp
}

// Serve answers requests on subject until ctx is done, then drains the
// subscription.
func (bot *Bot) Serve(ctx context.Context, nc *nats.Conn, subject string) error {
	logger := zerolog.Ctx(ctx)
	sub, err := nc.QueueSubscribe(subject, QueueGroup, func(m *nats.Msg) {
		logger.Debug().Msgf("RECV: %d bytes", len(m.Data))
		resp := bot.Handle(ctx, m.Data)
		data, err := json.Marshal(resp)
		if err != nil {
			// Should never happen, ideally, but we need to do something sensible here.
			data = []byte(`{"error":"could not encode response"}`)
		}
		if err := m.Respond(data); err != nil {
			logger.Err(err).Msg("respond-failed")
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", subject, err)
	}
	if err := nc.Flush(); err != nil {
		return err
	}
	if err := nc.LastError(); err != nil {
		return err
	}
	logger.Info().Msgf("Listening on [%s]", subject)

	<-ctx.Done()
	logger.Info().Msg("draining-subscription")
	return sub.Drain()
}

// Connect dials the NATS server, backing off between failed attempts.
func Connect(ctx context.Context, url string, attempts uint) (*nats.Conn, error) {
	return retry.DoWithData(
		func() (*nats.Conn, error) {
			return nats.Connect(url, nats.Name("tilefinder"))
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Str("url", url).Msg("could-not-connect-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
}
