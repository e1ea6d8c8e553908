// Package notify publishes match results to the configured sinks.
package notify

import (
	"context"
	"errors"
	"io"

	"arena-league/internal/config"
	"arena-league/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Notifier interface {
	MatchCompleted(ctx context.Context, res domain.MatchResult) error
}

type Nop struct{}

func (Nop) MatchCompleted(context.Context, domain.MatchResult) error { return nil }

// Multi fans a notification out to every sink and waits for all of them.
type Multi []Notifier

func (m Multi) MatchCompleted(ctx context.Context, res domain.MatchResult) error {
	var g errgroup.Group
	for _, n := range m {
		g.Go(func() error {
			return n.MatchCompleted(ctx, res)
		})
	}
	return g.Wait()
}

// Close closes every sink that holds a connection.
func (m Multi) Close() error {
	var errs []error
	for _, n := range m {
		if c, ok := n.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}

// New builds the notifier for the configured sinks. Without any sink it
// returns Nop.
func New(cfg *config.Config, logger zerolog.Logger) (Notifier, error) {
	var sinks Multi

	if cfg.RedisURL != "" {
		r, err := NewRedis(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, r)
		logger.Info().Str("stream", r.stream).Msg("redis notifications enabled")
	}
	if cfg.WebhookURL != "" {
		sinks = append(sinks, NewWebhook(cfg.WebhookURL))
		logger.Info().Msg("webhook notifications enabled")
	}

	switch len(sinks) {
	case 0:
		return Nop{}, nil
	case 1:
		return sinks[0], nil
	}
	return sinks, nil
}
