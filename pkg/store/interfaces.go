package store

import "context"

// CredentialStore resolves subscriber credentials. The engine only ever reads
// credentials; provisioning happens elsewhere.
type CredentialStore interface {
	// LookupSecret returns the stored cleartext secret for a username.
	// Returns ErrNotFound when the user is unknown.
	LookupSecret(ctx context.Context, username string) (string, error)

	// LookupReplyAttributes returns the user's stored reply attributes in
	// their stored order. An unknown user yields an empty slice, not an error.
	LookupReplyAttributes(ctx context.Context, username string) ([]ReplyAttribute, error)
}

// NASRegistry resolves the shared secret of a network access server by its
// source IP address. Returns ErrNotFound for unregistered clients.
type NASRegistry interface {
	LookupSecretByIP(ctx context.Context, ip string) (string, error)
}

// SessionStore persists accounting sessions. Update and Close only apply to a
// session that is still open; the conditional check is the store's
// responsibility and must be atomic.
type SessionStore interface {
	// FindOpen returns the open session for (sessionID, nasIP), or ErrNotFound.
	FindOpen(ctx context.Context, sessionID, nasIP string) (*Session, error)

	// Insert stores a new open session. Returns ErrDuplicate when an open
	// session with the same key already exists.
	Insert(ctx context.Context, session *Session) error

	// UpdateOpen applies an interim update to the open session for the key.
	// Returns ErrNotFound when no open session exists.
	UpdateOpen(ctx context.Context, sessionID, nasIP string, update SessionUpdate) error

	// Close stops the open session for the key and archives it.
	// Returns ErrNotFound when no open session exists.
	Close(ctx context.Context, sessionID, nasIP string, stop SessionStop) error

	// InsertClosed stores an already-closed session record, used to synthesize
	// accounting for a Stop whose Start was lost.
	InsertClosed(ctx context.Context, session *Session) error
}
