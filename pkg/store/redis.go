package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefixOpen   = "acct:open:"
	keyPrefixClosed = "acct:closed:"

	redisConnectTimeout = 3 * time.Second
	redisCommandTimeout = 2 * time.Second
	redisPoolSize       = 16
)

func openKey(nasIP, sessionID string) string {
	return keyPrefixOpen + nasIP + ":" + sessionID
}

func closedKey(uniqueID string) string {
	return keyPrefixClosed + uniqueID
}

// The conditional scripts make the open-session existence check and the write
// a single atomic step, so concurrent retransmissions cannot interleave.
var (
	insertScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
for i = 1, #ARGV, 2 do
	redis.call('HSET', KEYS[1], ARGV[i], ARGV[i+1])
end
return 1
`)

	updateScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
for i = 1, #ARGV, 2 do
	redis.call('HSET', KEYS[1], ARGV[i], ARGV[i+1])
end
return 1
`)

	closeScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
for i = 1, #ARGV, 2 do
	redis.call('HSET', KEYS[1], ARGV[i], ARGV[i+1])
end
redis.call('RENAME', KEYS[1], KEYS[2])
return 1
`)
)

// NewRedisClient connects to Redis and verifies the connection with a ping.
func NewRedisClient(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  redisConnectTimeout,
		ReadTimeout:  redisCommandTimeout,
		WriteTimeout: redisCommandTimeout,
		PoolSize:     redisPoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// RedisSessionStore keeps accounting sessions in Redis hashes. Open sessions
// live under acct:open:<nasIP>:<sessionID>; closing a session moves the hash
// to acct:closed:<uniqueID>.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a SessionStore on an existing Redis client.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// FindOpen implements SessionStore.
func (s *RedisSessionStore) FindOpen(ctx context.Context, sessionID, nasIP string) (*Session, error) {
	m, err := s.client.HGetAll(ctx, openKey(nasIP, sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(m) == 0 {
		return nil, ErrNotFound
	}
	return sessionFromMap(m)
}

// Insert implements SessionStore.
func (s *RedisSessionStore) Insert(ctx context.Context, session *Session) error {
	args := argsFromMap(sessionToMap(session))
	key := openKey(session.NASIP, session.SessionID)

	created, err := insertScript.Run(ctx, s.client, []string{key}, args...).Int()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if created == 0 {
		return ErrDuplicate
	}
	return nil
}

// UpdateOpen implements SessionStore.
func (s *RedisSessionStore) UpdateOpen(ctx context.Context, sessionID, nasIP string, update SessionUpdate) error {
	args := argsFromMap(map[string]any{
		"update_time":    update.UpdateTime.Unix(),
		"session_time":   update.SessionTime,
		"input_octets":   update.InputOctets,
		"output_octets":  update.OutputOctets,
		"input_packets":  update.InputPackets,
		"output_packets": update.OutputPackets,
	})

	updated, err := updateScript.Run(ctx, s.client, []string{openKey(nasIP, sessionID)}, args...).Int()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if updated == 0 {
		return ErrNotFound
	}
	return nil
}

// Close implements SessionStore. The unique ID is read first to build the
// archive key; it never changes after Insert, so the read is race-free.
func (s *RedisSessionStore) Close(ctx context.Context, sessionID, nasIP string, stop SessionStop) error {
	key := openKey(nasIP, sessionID)

	uniqueID, err := s.client.HGet(ctx, key, "unique_id").Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	args := argsFromMap(map[string]any{
		"stop_time":       stop.StopTime.Unix(),
		"update_time":     stop.StopTime.Unix(),
		"session_time":    stop.SessionTime,
		"input_octets":    stop.InputOctets,
		"output_octets":   stop.OutputOctets,
		"input_packets":   stop.InputPackets,
		"output_packets":  stop.OutputPackets,
		"terminate_cause": stop.TerminateCause,
	})

	closed, err := closeScript.Run(ctx, s.client, []string{key, closedKey(uniqueID)}, args...).Int()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if closed == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertClosed implements SessionStore.
func (s *RedisSessionStore) InsertClosed(ctx context.Context, session *Session) error {
	m := sessionToMap(session)
	if err := s.client.HSet(ctx, closedKey(session.UniqueID), m).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// sessionToMap flattens a session for HSET, adding the time columns that the
// redis tags skip. A zero time is stored as 0, not a huge negative unix value.
func sessionToMap(session *Session) map[string]any {
	m := structToMap(session)
	m["start_time"] = unixOrZero(session.StartTime)
	m["update_time"] = unixOrZero(session.UpdateTime)
	m["stop_time"] = unixOrZero(session.StopTime)
	return m
}

func sessionFromMap(m map[string]string) (*Session, error) {
	var session Session
	if err := mapToStruct(m, &session); err != nil {
		return nil, fmt.Errorf("session deserialization error: %w", err)
	}
	session.StartTime = timeFromField(m["start_time"])
	session.UpdateTime = timeFromField(m["update_time"])
	session.StopTime = timeFromField(m["stop_time"])
	return &session, nil
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func timeFromField(s string) time.Time {
	unix, err := strconv.ParseInt(s, 10, 64)
	if err != nil || unix == 0 {
		return time.Time{}
	}
	return time.Unix(unix, 0).UTC()
}

func argsFromMap(m map[string]any) []any {
	args := make([]any, 0, len(m)*2)
	for field, value := range m {
		args = append(args, field, value)
	}
	return args
}
