package event

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/telcokit/radiusd/pkg/log"
)

// LogSink writes every event to the structured log at info level.
type LogSink struct {
	logger log.Logger
}

// NewLogSink creates a sink on the given logger.
func NewLogSink(logger log.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Emit implements Sink.
func (s *LogSink) Emit(_ context.Context, ev Event) {
	fields := log.Fields{
		"event":    string(ev.Type),
		"username": ev.Username,
		"nas_ip":   ev.NASIP,
	}
	if ev.SessionID != "" {
		fields["session_id"] = ev.SessionID
	}
	if ev.Method != "" {
		fields["method"] = ev.Method
	}
	if ev.Reason != "" {
		fields["reason"] = ev.Reason
	}
	s.logger.WithFields(fields).Info("radius event")
}

// RedisSink publishes events as JSON on a Redis pub/sub channel, replacing a
// direct socket fan-out with something any number of consumers can subscribe
// to. Publish failures are logged and dropped.
type RedisSink struct {
	client  *redis.Client
	channel string
	logger  log.Logger
}

// NewRedisSink creates a sink publishing on channel.
func NewRedisSink(client *redis.Client, channel string, logger log.Logger) *RedisSink {
	return &RedisSink{client: client, channel: channel, logger: logger}
}

// Emit implements Sink.
func (s *RedisSink) Emit(ctx context.Context, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		s.logger.WithFields(log.Fields{"event": string(ev.Type)}).Errorf("marshal event: %v", err)
		return
	}
	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		s.logger.WithFields(log.Fields{
			"event":   string(ev.Type),
			"channel": s.channel,
		}).Errorf("publish event: %v", err)
	}
}
