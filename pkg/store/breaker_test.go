package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telcokit/radiusd/pkg/log"
)

// flakySessionStore fails every call with a fixed error and counts calls.
type flakySessionStore struct {
	err   error
	calls int
}

func (f *flakySessionStore) FindOpen(context.Context, string, string) (*Session, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &Session{SessionID: "sess-1"}, nil
}

func (f *flakySessionStore) Insert(context.Context, *Session) error {
	f.calls++
	return f.err
}

func (f *flakySessionStore) UpdateOpen(context.Context, string, string, SessionUpdate) error {
	f.calls++
	return f.err
}

func (f *flakySessionStore) Close(context.Context, string, string, SessionStop) error {
	f.calls++
	return f.err
}

func (f *flakySessionStore) InsertClosed(context.Context, *Session) error {
	f.calls++
	return f.err
}

func TestBreakerPassesThrough(t *testing.T) {
	inner := &flakySessionStore{}
	s := NewBreakerSessionStore(inner, log.NewDefaultLogger())

	got, err := s.FindOpen(context.Background(), "sess-1", "192.168.1.1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", got.SessionID)

	require.NoError(t, s.Insert(context.Background(), &Session{}))
	assert.Equal(t, 2, inner.calls)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	inner := &flakySessionStore{err: ErrUnavailable}
	s := NewBreakerSessionStore(inner, log.NewDefaultLogger())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := s.Insert(ctx, &Session{})
		assert.ErrorIs(t, err, ErrUnavailable)
	}
	assert.Equal(t, 5, inner.calls)

	// Circuit is open now, the backend is no longer called
	err := s.Insert(ctx, &Session{})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 5, inner.calls)
}

func TestBreakerIgnoresDomainErrors(t *testing.T) {
	inner := &flakySessionStore{err: ErrNotFound}
	s := NewBreakerSessionStore(inner, log.NewDefaultLogger())
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		err := s.UpdateOpen(ctx, "sess-1", "192.168.1.1", SessionUpdate{})
		assert.ErrorIs(t, err, ErrNotFound)
	}
	// Every call reached the backend, the circuit never opened
	assert.Equal(t, 10, inner.calls)

	inner.err = ErrDuplicate
	err := s.Insert(ctx, &Session{})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 11, inner.calls)
}
