// Package acct maintains the accounting session lifecycle: Start opens a
// session, Interim-Update refreshes its counters, Stop closes and archives
// it. Duplicate and out-of-order datagrams are absorbed here, not surfaced
// to the NAS.
package acct

import (
	"context"
	"errors"
	"time"

	"github.com/telcokit/radiusd/pkg/event"
	"github.com/telcokit/radiusd/pkg/log"
	"github.com/telcokit/radiusd/pkg/packet"
	"github.com/telcokit/radiusd/pkg/store"
)

// Engine processes Accounting-Requests against the session store.
type Engine struct {
	sessions store.SessionStore
	sink     event.Sink
	logger   log.Logger
	now      func() time.Time
}

// NewEngine creates an accounting engine.
func NewEngine(sessions store.SessionStore, sink event.Sink, logger log.Logger) *Engine {
	return &Engine{
		sessions: sessions,
		sink:     sink,
		logger:   logger,
		now:      time.Now,
	}
}

// Handle processes one Accounting-Request. A nil return means the request
// was absorbed (including duplicates and orphans) and must be acknowledged;
// a non-nil error means the store write failed and no acknowledgement may be
// sent, keeping accounting at-most-once.
func (e *Engine) Handle(ctx context.Context, req *packet.Packet, srcIP string) error {
	rec := ParseRecord(req, srcIP)

	switch rec.StatusType {
	case packet.AcctStatusStart:
		return e.handleStart(ctx, rec)
	case packet.AcctStatusInterimUpdate:
		return e.handleInterim(ctx, rec)
	case packet.AcctStatusStop:
		return e.handleStop(ctx, rec)
	case packet.AcctStatusAccountingOn, packet.AcctStatusAccountingOff:
		e.logger.WithFields(log.Fields{
			"nas_ip":      rec.NASIP,
			"status_type": rec.StatusType,
		}).Info("NAS accounting marker")
		return nil
	default:
		e.logger.WithFields(log.Fields{
			"nas_ip":      rec.NASIP,
			"status_type": rec.StatusType,
		}).Warn("unknown accounting status type")
		return nil
	}
}

func (e *Engine) handleStart(ctx context.Context, rec *Record) error {
	now := e.now()
	session := &store.Session{
		UniqueID:         rec.UniqueID(),
		SessionID:        rec.SessionID,
		NASIP:            rec.NASIP,
		Username:         rec.Username,
		NASPort:          rec.NASPort,
		StartTime:        now,
		UpdateTime:       now,
		CalledStationID:  rec.CalledStationID,
		CallingStationID: rec.CallingStationID,
		FramedIP:         rec.FramedIP,
	}

	err := e.sessions.Insert(ctx, session)
	if errors.Is(err, store.ErrDuplicate) {
		e.logger.WithFields(e.sessionFields(rec)).Debug("duplicate accounting start dropped")
		return nil
	}
	if err != nil {
		return err
	}

	e.sink.Emit(ctx, event.Event{
		Type:      event.TypeSessionStart,
		Time:      now,
		Username:  rec.Username,
		NASIP:     rec.NASIP,
		SessionID: rec.SessionID,
	})
	return nil
}

func (e *Engine) handleInterim(ctx context.Context, rec *Record) error {
	now := e.now()
	update := store.SessionUpdate{
		UpdateTime:    now,
		SessionTime:   rec.SessionTime,
		InputOctets:   rec.InputOctets,
		OutputOctets:  rec.OutputOctets,
		InputPackets:  rec.InputPackets,
		OutputPackets: rec.OutputPackets,
	}

	err := e.sessions.UpdateOpen(ctx, rec.SessionID, rec.NASIP, update)
	if errors.Is(err, store.ErrNotFound) {
		// The update carries no reliable start time, so an orphan cannot be
		// turned into a session.
		e.logger.WithFields(e.sessionFields(rec)).Warn("interim update for unknown session dropped")
		return nil
	}
	if err != nil {
		return err
	}

	e.sink.Emit(ctx, event.Event{
		Type:         event.TypeSessionUpdate,
		Time:         now,
		Username:     rec.Username,
		NASIP:        rec.NASIP,
		SessionID:    rec.SessionID,
		SessionTime:  rec.SessionTime,
		InputOctets:  rec.InputOctets,
		OutputOctets: rec.OutputOctets,
	})
	return nil
}

func (e *Engine) handleStop(ctx context.Context, rec *Record) error {
	now := e.now()
	stop := store.SessionStop{
		StopTime:       now,
		SessionTime:    rec.SessionTime,
		InputOctets:    rec.InputOctets,
		OutputOctets:   rec.OutputOctets,
		InputPackets:   rec.InputPackets,
		OutputPackets:  rec.OutputPackets,
		TerminateCause: rec.TerminateCause,
	}

	err := e.sessions.Close(ctx, rec.SessionID, rec.NASIP, stop)
	if errors.Is(err, store.ErrNotFound) {
		// The Start was lost. Synthesize a closed record spanning the
		// reported session time so the usage is not lost with it. The
		// deterministic unique ID makes a redelivered Stop overwrite this
		// record instead of minting another.
		if err := e.sessions.InsertClosed(ctx, e.syntheticSession(rec, now)); err != nil {
			return err
		}
		e.logger.WithFields(e.sessionFields(rec)).Warn("stop without open session, synthesized record")
	} else if err != nil {
		return err
	}

	e.sink.Emit(ctx, event.Event{
		Type:           event.TypeSessionStop,
		Time:           now,
		Username:       rec.Username,
		NASIP:          rec.NASIP,
		SessionID:      rec.SessionID,
		SessionTime:    rec.SessionTime,
		InputOctets:    rec.InputOctets,
		OutputOctets:   rec.OutputOctets,
		TerminateCause: rec.TerminateCause,
	})
	return nil
}

func (e *Engine) syntheticSession(rec *Record, now time.Time) *store.Session {
	return &store.Session{
		UniqueID:         rec.UniqueID(),
		SessionID:        rec.SessionID,
		NASIP:            rec.NASIP,
		Username:         rec.Username,
		NASPort:          rec.NASPort,
		StartTime:        now.Add(-time.Duration(rec.SessionTime) * time.Second),
		UpdateTime:       now,
		StopTime:         now,
		SessionTime:      rec.SessionTime,
		InputOctets:      rec.InputOctets,
		OutputOctets:     rec.OutputOctets,
		InputPackets:     rec.InputPackets,
		OutputPackets:    rec.OutputPackets,
		TerminateCause:   rec.TerminateCause,
		CalledStationID:  rec.CalledStationID,
		CallingStationID: rec.CallingStationID,
		FramedIP:         rec.FramedIP,
	}
}

func (e *Engine) sessionFields(rec *Record) log.Fields {
	return log.Fields{
		"session_id": rec.SessionID,
		"nas_ip":     rec.NASIP,
		"username":   rec.Username,
	}
}
