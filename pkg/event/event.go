// Package event publishes authentication and accounting notifications to
// interested consumers. Delivery is fire-and-forget; a slow or broken sink
// never blocks packet handling.
package event

import (
	"context"
	"time"
)

// Type identifies what happened.
type Type string

const (
	TypeAuthSuccess   Type = "auth-success"
	TypeAuthFailure   Type = "auth-failure"
	TypeSessionStart  Type = "session-start"
	TypeSessionUpdate Type = "session-update"
	TypeSessionStop   Type = "session-stop"
)

// Event is one notification. Counter fields are only set for session events,
// Method and Reason only for authentication events.
type Event struct {
	Type           Type      `json:"type"`
	Time           time.Time `json:"time"`
	Username       string    `json:"username,omitempty"`
	NASIP          string    `json:"nas_ip,omitempty"`
	SessionID      string    `json:"session_id,omitempty"`
	Method         string    `json:"method,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	SessionTime    uint32    `json:"session_time,omitempty"`
	InputOctets    uint64    `json:"input_octets,omitempty"`
	OutputOctets   uint64    `json:"output_octets,omitempty"`
	TerminateCause uint32    `json:"terminate_cause,omitempty"`
}

// Sink consumes events. Emit must not block on consumer failures and must
// never surface an error into the request path.
type Sink interface {
	Emit(ctx context.Context, ev Event)
}

// MultiSink fans one event out to several sinks in order.
type MultiSink []Sink

// Emit implements Sink.
func (m MultiSink) Emit(ctx context.Context, ev Event) {
	for _, sink := range m {
		sink.Emit(ctx, ev)
	}
}

// NopSink discards all events.
type NopSink struct{}

// Emit implements Sink.
func (NopSink) Emit(context.Context, Event) {}
