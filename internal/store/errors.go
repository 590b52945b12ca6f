package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrKeyNotFound is returned by the key-value store when the requested
	// key has never been written (or has been deleted).
	ErrKeyNotFound = errors.New("key not found")

	// ErrEmailAlreadyExists is returned when an attempt to register a new
	// account fails because an account with the same email (compared
	// case-insensitively) already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrNoAccountWasFound is returned when a lookup expected to match an
	// account produces no result.
	ErrNoAccountWasFound = errors.New("no account was found")

	// ErrEntryNotFound is returned when an operation targets an entry
	// (identified by id within the current user's partition) that does not
	// exist.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrSessionNotFound is returned when the persisted session slot is
	// empty.
	ErrSessionNotFound = errors.New("session not found")

	// ErrStorageUnavailable wraps failures of the underlying persistence
	// layer (the database file is unreadable, serialization fails, and so
	// on). Callers that need to distinguish "store is broken" from "no
	// data yet" must match against this sentinel.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
