package messaging

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
)

// EventSource delivers settings events until it fails or ctx is cancelled
type EventSource interface {
	Run(ctx context.Context, handler Handler) error
	Close() error
}

// Dialer opens a fresh EventSource
type Dialer func() (EventSource, error)

// Supervisor keeps a subscriber alive, redialing with exponential backoff
// whenever it stops.
type Supervisor struct {
	dial       Dialer
	newBackOff func() backoff.BackOff
	logger     *logging.ChanneledLogger
}

func NewSupervisor(dial Dialer, logger *logging.ChanneledLogger) *Supervisor {
	return &Supervisor{dial: dial, newBackOff: defaultBackOff, logger: logger}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// Run consumes from source and redials after every failure. Events published
// while disconnected are lost, so each reconnect hands the handler an event
// naming no options, which invalidates all of them. Returns once ctx is done.
func (s *Supervisor) Run(ctx context.Context, source EventSource, handler Handler) {
	for {
		err := source.Run(ctx, handler)
		source.Close()
		if ctx.Err() != nil {
			return
		}
		s.logger.Messaging().Warn("Settings event subscriber stopped, reconnecting", "error", err)

		source = s.redial(ctx)
		if source == nil {
			return
		}
		s.logger.Messaging().Info("Settings event subscriber reconnected")
		if err := handler(ctx, NewSettingsEvent("reconnect")); err != nil {
			s.logger.Messaging().Error("Failed to invalidate options after reconnect", "error", err)
		}
	}
}

func (s *Supervisor) redial(ctx context.Context) EventSource {
	var source EventSource
	attempt := 0
	operation := func() error {
		attempt++
		next, err := s.dial()
		if err != nil {
			s.logger.Messaging().Warn("Reconnect attempt failed", "attempt", attempt, "error", err)
			return err
		}
		source = next
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(s.newBackOff(), ctx)); err != nil {
		return nil
	}
	if ctx.Err() != nil {
		source.Close()
		return nil
	}
	return source
}
