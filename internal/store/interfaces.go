package store

import (
	"context"

	"github.com/akaretnikov/welltrack/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// KeyValue is the single persisted key-value store every document lives
// in. It mirrors the storage API of the original application: whole string
// values under well-known keys, no partial writes, no transactions.
type KeyValue interface {
	// Get returns the value stored under key, or an error wrapping
	// [ErrKeyNotFound] when the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// EntryRepository persists wellness entries, partitioned by user id inside
// a single entries document.
type EntryRepository interface {
	// EntriesFor returns the user's partition in stored order. A missing
	// document, missing partition, or malformed partition all yield an
	// empty slice.
	EntriesFor(ctx context.Context, userID int64) ([]models.Entry, error)

	// SaveEntriesFor replaces the user's partition with entries and
	// writes the whole document back.
	SaveEntriesFor(ctx context.Context, userID int64, entries []models.Entry) error

	// DeletePartition removes the user's partition from the document.
	DeletePartition(ctx context.Context, userID int64) error
}

// SettingsRepository persists per-user preference bags inside a single
// settings document.
type SettingsRepository interface {
	// SettingsFor returns the stored bag and whether one was present.
	SettingsFor(ctx context.Context, userID int64) (models.Settings, bool, error)

	// SaveSettingsFor replaces the user's bag and writes the whole
	// document back.
	SaveSettingsFor(ctx context.Context, userID int64, settings models.Settings) error

	// DeletePartition removes the user's bag from the document.
	DeletePartition(ctx context.Context, userID int64) error
}

// SessionRepository owns the single persisted session slot, the auth flag,
// and the shared theme key.
type SessionRepository interface {
	// SaveSession persists session and raises the auth flag.
	SaveSession(ctx context.Context, session models.Session) error

	// GetSession returns the persisted session, or an error wrapping
	// [ErrSessionNotFound] when the slot is empty.
	GetSession(ctx context.Context) (models.Session, error)

	// ClearSession drops the auth flag and the session slot. Idempotent.
	ClearSession(ctx context.Context) error

	// IsAuthenticated reports whether the auth flag is raised AND the
	// session slot is populated.
	IsAuthenticated(ctx context.Context) (bool, error)

	// Theme returns the persisted theme name, defaulting to "system".
	Theme(ctx context.Context) (string, error)

	// SetTheme persists the theme name. The value is not validated.
	SetTheme(ctx context.Context, theme string) error
}

// AccountRepository holds registered accounts for the lifetime of the
// process. Accounts are never persisted; only the derived session is.
type AccountRepository interface {
	// FindByEmail looks an account up by email, case-insensitively.
	// Returns an error wrapping [ErrNoAccountWasFound] on a miss.
	FindByEmail(ctx context.Context, email string) (models.Account, error)

	// CreateAccount appends a new account. Returns an error wrapping
	// [ErrEmailAlreadyExists] when the email is already taken.
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)
}
