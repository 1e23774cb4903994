package store

import "errors"

var (
	// ErrNotFound is returned when a lookup matches nothing.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicate is returned when inserting a session whose key already has
	// an open record.
	ErrDuplicate = errors.New("store: duplicate session")

	// ErrUnavailable wraps transport failures talking to the backing store.
	ErrUnavailable = errors.New("store: unavailable")
)
