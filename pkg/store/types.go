// Package store defines the collaborator interfaces the protocol engines
// depend on (credentials, NAS registry, accounting sessions) together with
// the file- and Redis-backed implementations shipped with the server.
package store

import "time"

// ReplyAttribute is a stored per-user authorization attribute, returned
// verbatim in Access-Accept replies.
type ReplyAttribute struct {
	Name  string `yaml:"name"`
	Op    string `yaml:"op"`
	Value string `yaml:"value"`
}

// Session is one accounting session row, keyed by (SessionID, NASIP).
// A zero StopTime means the session is open.
type Session struct {
	UniqueID         string    `redis:"unique_id"`
	SessionID        string    `redis:"session_id"`
	NASIP            string    `redis:"nas_ip"`
	Username         string    `redis:"username"`
	NASPort          uint32    `redis:"nas_port"`
	StartTime        time.Time `redis:"-"`
	UpdateTime       time.Time `redis:"-"`
	StopTime         time.Time `redis:"-"`
	SessionTime      uint32    `redis:"session_time"`
	InputOctets      uint64    `redis:"input_octets"`
	OutputOctets     uint64    `redis:"output_octets"`
	InputPackets     uint64    `redis:"input_packets"`
	OutputPackets    uint64    `redis:"output_packets"`
	TerminateCause   uint32    `redis:"terminate_cause"`
	CalledStationID  string    `redis:"called_station_id"`
	CallingStationID string    `redis:"calling_station_id"`
	FramedIP         string    `redis:"framed_ip"`
}

// Open reports whether the session has not been stopped yet.
func (s *Session) Open() bool {
	return s.StopTime.IsZero()
}

// SessionUpdate carries the fields an Interim-Update may change on an open
// session.
type SessionUpdate struct {
	UpdateTime    time.Time
	SessionTime   uint32
	InputOctets   uint64
	OutputOctets  uint64
	InputPackets  uint64
	OutputPackets uint64
}

// SessionStop carries the final fields written when a session closes.
type SessionStop struct {
	StopTime       time.Time
	SessionTime    uint32
	InputOctets    uint64
	OutputOctets   uint64
	InputPackets   uint64
	OutputPackets  uint64
	TerminateCause uint32
}
