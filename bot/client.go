package bot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

type Client struct {
	// NATS connection
	nc      *nats.Conn
	subject string
	timeout time.Duration
}

func NewClient(nc *nats.Conn, subject string) *Client {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Client{nc: nc, subject: subject, timeout: 10 * time.Second}
}

// RequestSolve sends a request to a solver and waits for its answer. It
// retries while no solver is listening.
func (c *Client) RequestSolve(ctx context.Context, req SolveRequest) (*SolveResponse, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	res, err := retry.DoWithData(
		func() (*nats.Msg, error) {
			rctx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			return c.nc.RequestWithContext(rctx, c.subject, data)
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, nats.ErrNoResponders)
		}),
	)
	if err != nil {
		if c.nc.LastError() != nil {
			log.Error().Msgf("%v for request", c.nc.LastError())
		}
		log.Error().Msgf("%v for request", err)
		return nil, err
	}
	log.Debug().Msgf("res: %v", string(res.Data))

	resp := &SolveResponse{}
	if err := json.Unmarshal(res.Data, resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return resp, errors.New("solver returned: " + resp.Error)
	}
	return resp, nil
}
