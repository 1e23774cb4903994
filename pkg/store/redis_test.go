package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisSessionStore(client), mr
}

func testSession() *Session {
	return &Session{
		UniqueID:         "f3b9a1c4-0000-4000-8000-000000000001",
		SessionID:        "sess-42",
		NASIP:            "192.168.1.1",
		Username:         "alice",
		NASPort:          7,
		StartTime:        time.Unix(1700000000, 0).UTC(),
		UpdateTime:       time.Unix(1700000000, 0).UTC(),
		CalledStationID:  "isp-gw",
		CallingStationID: "00:11:22:33:44:55",
		FramedIP:         "10.64.0.9",
	}
}

func TestInsertAndFindOpen(t *testing.T) {
	s, _ := newTestSessionStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, testSession()))

	got, err := s.FindOpen(ctx, "sess-42", "192.168.1.1")
	require.NoError(t, err)

	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, uint32(7), got.NASPort)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), got.StartTime)
	assert.True(t, got.Open())
}

func TestInsertDuplicate(t *testing.T) {
	s, _ := newTestSessionStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, testSession()))

	err := s.Insert(ctx, testSession())
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestFindOpenMissing(t *testing.T) {
	s, _ := newTestSessionStore(t)

	_, err := s.FindOpen(context.Background(), "nope", "192.168.1.1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateOpen(t *testing.T) {
	s, _ := newTestSessionStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, testSession()))

	update := SessionUpdate{
		UpdateTime:    time.Unix(1700000300, 0).UTC(),
		SessionTime:   300,
		InputOctets:   1024,
		OutputOctets:  4096,
		InputPackets:  10,
		OutputPackets: 40,
	}
	require.NoError(t, s.UpdateOpen(ctx, "sess-42", "192.168.1.1", update))

	got, err := s.FindOpen(ctx, "sess-42", "192.168.1.1")
	require.NoError(t, err)

	assert.Equal(t, uint32(300), got.SessionTime)
	assert.Equal(t, uint64(1024), got.InputOctets)
	assert.Equal(t, uint64(4096), got.OutputOctets)
	assert.Equal(t, time.Unix(1700000300, 0).UTC(), got.UpdateTime)
	assert.True(t, got.Open())
}

func TestUpdateOpenMissing(t *testing.T) {
	s, _ := newTestSessionStore(t)

	err := s.UpdateOpen(context.Background(), "nope", "192.168.1.1", SessionUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCloseArchivesSession(t *testing.T) {
	s, mr := newTestSessionStore(t)
	ctx := context.Background()

	session := testSession()
	require.NoError(t, s.Insert(ctx, session))

	stop := SessionStop{
		StopTime:       time.Unix(1700003600, 0).UTC(),
		SessionTime:    3600,
		InputOctets:    123456,
		OutputOctets:   654321,
		InputPackets:   100,
		OutputPackets:  200,
		TerminateCause: 1,
	}
	require.NoError(t, s.Close(ctx, "sess-42", "192.168.1.1", stop))

	_, err := s.FindOpen(ctx, "sess-42", "192.168.1.1")
	assert.ErrorIs(t, err, ErrNotFound)

	archived := closedKey(session.UniqueID)
	assert.True(t, mr.Exists(archived))
	assert.Equal(t, "3600", mr.HGet(archived, "session_time"))
	assert.Equal(t, "1", mr.HGet(archived, "terminate_cause"))
	assert.Equal(t, "1700003600", mr.HGet(archived, "stop_time"))
	assert.Equal(t, "alice", mr.HGet(archived, "username"))
}

func TestCloseMissing(t *testing.T) {
	s, _ := newTestSessionStore(t)

	err := s.Close(context.Background(), "nope", "192.168.1.1", SessionStop{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCloseIsNotRepeatable(t *testing.T) {
	s, _ := newTestSessionStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, testSession()))
	require.NoError(t, s.Close(ctx, "sess-42", "192.168.1.1", SessionStop{StopTime: time.Now()}))

	err := s.Close(ctx, "sess-42", "192.168.1.1", SessionStop{StopTime: time.Now()})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInsertClosed(t *testing.T) {
	s, mr := newTestSessionStore(t)
	ctx := context.Background()

	session := testSession()
	session.StopTime = time.Unix(1700003600, 0).UTC()
	session.SessionTime = 3600
	require.NoError(t, s.InsertClosed(ctx, session))

	archived := closedKey(session.UniqueID)
	assert.True(t, mr.Exists(archived))
	assert.Equal(t, "sess-42", mr.HGet(archived, "session_id"))
	assert.Equal(t, "1700003600", mr.HGet(archived, "stop_time"))

	// The archive never creates an open record
	_, err := s.FindOpen(ctx, "sess-42", "192.168.1.1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreUnavailable(t *testing.T) {
	s, mr := newTestSessionStore(t)
	mr.Close()

	_, err := s.FindOpen(context.Background(), "sess-42", "192.168.1.1")
	assert.ErrorIs(t, err, ErrUnavailable)

	err = s.Insert(context.Background(), testSession())
	assert.ErrorIs(t, err, ErrUnavailable)
}
