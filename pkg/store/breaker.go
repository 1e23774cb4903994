package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker"

	"github.com/telcokit/radiusd/pkg/log"
)

// BreakerSessionStore wraps a SessionStore with a circuit breaker so a dead
// backend sheds load fast instead of stalling every accounting request.
// Domain results (ErrNotFound, ErrDuplicate) do not count as failures.
type BreakerSessionStore struct {
	inner  SessionStore
	cb     *gobreaker.CircuitBreaker
	logger log.Logger
}

// NewBreakerSessionStore wraps inner with a circuit breaker that opens after
// five consecutive backend failures.
func NewBreakerSessionStore(inner SessionStore, logger log.Logger) *BreakerSessionStore {
	settings := gobreaker.Settings{
		Name:        "session-store",
		MaxRequests: 1,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(log.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("session store circuit breaker state change")
		},
	}

	return &BreakerSessionStore{
		inner:  inner,
		cb:     gobreaker.NewCircuitBreaker(settings),
		logger: logger,
	}
}

func (s *BreakerSessionStore) execute(op func() error) error {
	result, err := s.cb.Execute(func() (any, error) {
		if err := op(); err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate) {
				return err, nil
			}
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: circuit open", ErrUnavailable)
		}
		return err
	}
	if domainErr, ok := result.(error); ok {
		return domainErr
	}
	return nil
}

// FindOpen implements SessionStore.
func (s *BreakerSessionStore) FindOpen(ctx context.Context, sessionID, nasIP string) (*Session, error) {
	var session *Session
	err := s.execute(func() error {
		var opErr error
		session, opErr = s.inner.FindOpen(ctx, sessionID, nasIP)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Insert implements SessionStore.
func (s *BreakerSessionStore) Insert(ctx context.Context, session *Session) error {
	return s.execute(func() error {
		return s.inner.Insert(ctx, session)
	})
}

// UpdateOpen implements SessionStore.
func (s *BreakerSessionStore) UpdateOpen(ctx context.Context, sessionID, nasIP string, update SessionUpdate) error {
	return s.execute(func() error {
		return s.inner.UpdateOpen(ctx, sessionID, nasIP, update)
	})
}

// Close implements SessionStore.
func (s *BreakerSessionStore) Close(ctx context.Context, sessionID, nasIP string, stop SessionStop) error {
	return s.execute(func() error {
		return s.inner.Close(ctx, sessionID, nasIP, stop)
	})
}

// InsertClosed implements SessionStore.
func (s *BreakerSessionStore) InsertClosed(ctx context.Context, session *Session) error {
	return s.execute(func() error {
		return s.inner.InsertClosed(ctx, session)
	})
}
