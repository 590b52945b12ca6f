// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"time"

	"github.com/akaretnikov/welltrack/models"
)

// AuthService manages accounts and the single persisted session. There is
// at most one active session at a time; logging in replaces whatever
// session was stored before.
type AuthService interface {
	// Login authenticates the email/password pair against the account
	// directory, issues a session token, and persists the session.
	// Returns ErrInvalidCredentials when the pair does not match any
	// account.
	Login(ctx context.Context, email, password string) (models.Session, error)

	// Signup registers a new account and logs it in. The duplicate-email
	// check runs before any field validation, so a taken email is
	// reported even when other fields are missing.
	// Returns ErrDuplicateEmail or a validators sentinel.
	Signup(ctx context.Context, email, password, name string) (models.Session, error)

	// Logout clears the persisted session. Logging out while already
	// logged out is not an error.
	Logout(ctx context.Context) error

	// IsAuthenticated reports whether a session is currently persisted.
	// Storage failures read as "not authenticated".
	IsAuthenticated(ctx context.Context) bool

	// CurrentUser returns the persisted session.
	// Returns ErrNotAuthenticated when no session is stored.
	CurrentUser(ctx context.Context) (models.Session, error)

	// UpdateUser applies the non-nil fields of update to the persisted
	// session and re-persists it. The session ID can never change.
	UpdateUser(ctx context.Context, update models.SessionUpdate) (models.Session, error)

	// ValidateSession reports whether the persisted session is still
	// valid. An expired session (older than the configured TTL, or
	// carrying a token that no longer verifies) is cleared as a side
	// effect and reported as invalid.
	ValidateSession(ctx context.Context) bool
}

// EntryService manages the current user's wellness entries. Reads against
// a logged-out store return empty results; mutations require a session and
// fail with ErrNotAuthenticated without one.
type EntryService interface {
	// List returns the current user's entries sorted by date, newest
	// first. Returns an empty slice when no session is stored.
	List(ctx context.Context) ([]models.Entry, error)

	// Create validates input, assigns identity and timestamps, and
	// appends the entry to the current user's partition.
	Create(ctx context.Context, input models.EntryInput) (models.Entry, error)

	// Get returns the entry with the given id from the current user's
	// partition, or ErrEntryNotFound.
	Get(ctx context.Context, id int64) (models.Entry, error)

	// Update applies the non-nil fields of update to the entry,
	// refreshes its updatedAt timestamp, and validates the result before
	// persisting. ID and owner are immutable.
	Update(ctx context.Context, id int64, update models.EntryUpdate) (models.Entry, error)

	// Delete removes the entry with the given id.
	// Returns ErrEntryNotFound when no such entry exists.
	Delete(ctx context.Context, id int64) error

	// InRange returns entries whose date falls inside [start, end],
	// inclusive on both ends. Dates are YYYY-MM-DD strings.
	InRange(ctx context.Context, start, end string) ([]models.Entry, error)

	// Stats summarises the current user's persisted footprint: entry
	// count, boundary dates, and approximate serialized sizes.
	Stats(ctx context.Context) (models.StorageStats, error)

	// ClearAll deletes the current user's entries and settings
	// partitions. The session itself survives.
	ClearAll(ctx context.Context) error

	// PruneOld removes entries older than the retention window from the
	// current user's partition and returns how many were removed. A
	// logged-out store prunes nothing.
	PruneOld(ctx context.Context) (int, error)
}

// SettingsService manages the per-user preference bag and the global
// theme.
type SettingsService interface {
	// Get returns the current user's settings, or the defaults when no
	// session is stored or nothing was saved yet.
	Get(ctx context.Context) (models.Settings, error)

	// Update applies the non-nil fields of update over the current
	// effective settings and persists the complete bag.
	Update(ctx context.Context, update models.SettingsUpdate) (models.Settings, error)

	// Theme returns the stored UI theme, defaulting to "system".
	Theme(ctx context.Context) (string, error)

	// SetTheme stores the UI theme. The value is not validated.
	SetTheme(ctx context.Context, theme string) error
}

// ExportService moves entries in and out of the store as portable
// bundles.
type ExportService interface {
	// Export renders the current user's entries as an indented JSON
	// bundle tagged with the bundle version and export timestamp.
	Export(ctx context.Context) ([]byte, error)

	// ExportCSV renders the current user's entries as CSV with a fixed
	// header row.
	ExportCSV(ctx context.Context) ([]byte, error)

	// Import merges a JSON bundle into the current user's partition.
	// Entries whose date already exists locally are skipped; imported
	// entries get fresh ids, the current user as owner, and an
	// importedAt timestamp. Returns how many entries were added, or
	// ErrInvalidImportFormat / ErrNoNewEntries.
	Import(ctx context.Context, data []byte) (int, error)
}

// RetentionJob is a background worker that periodically prunes entries
// older than the retention window for the logged-in user.
type RetentionJob interface {
	// Start launches the background goroutine. It prunes every interval,
	// defaulting to 1 hour if interval is zero or negative. Any
	// previously running job is stopped before the new one begins.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it
	// has fully terminated.
	Stop()
}
