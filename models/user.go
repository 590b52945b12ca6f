package models

import "time"

// Account represents a registered user of the tracker.
// Accounts live only for the lifetime of the process: the account list is
// seeded at start-up and grows on signup, but is never persisted. Only the
// derived Session survives a restart.
type Account struct {
	// ID is the unique identifier of the account, assigned at signup.
	// Immutable for the lifetime of the account.
	ID int64 `json:"id"`

	// Email is the unique login identifier. Stored lower-cased; lookups
	// are case-insensitive.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the account password.
	// Never exposed via JSON and never compared in plain text.
	PasswordHash []byte `json:"-"`

	// Name is the display name of the user. Non-sensitive, shown in UI.
	Name string `json:"name"`

	// CreatedAt is the timestamp when the account was registered.
	CreatedAt time.Time `json:"createdAt"`
}

// Session is the authenticated identity persisted in the single session
// slot of the local store. It carries no credential material; the password
// is stripped before the session is written.
type Session struct {
	// ID is the account identifier the session belongs to.
	ID int64 `json:"id"`

	// Email is the account email at login time.
	Email string `json:"email"`

	// Name is the display name at login time.
	Name string `json:"name"`

	// CreatedAt is the account creation timestamp, copied into the
	// session for display purposes.
	CreatedAt time.Time `json:"createdAt"`

	// LoginTime is when the session was established. A session older
	// than the configured window (7 days) is treated as expired.
	LoginTime time.Time `json:"loginTime"`

	// Token is the compact signed JWT issued at login. It mirrors the
	// session lifetime and is an extension over the original payload
	// shape; readers that do not know the field ignore it.
	Token string `json:"token,omitempty"`

	// UpdatedAt is refreshed whenever the session payload is re-persisted
	// through a profile update.
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// SessionUpdate is an explicit field-level update for the persisted
// session. Nil fields are left untouched; the session ID can never be
// changed through an update.
type SessionUpdate struct {
	Email *string `json:"email,omitempty"`
	Name  *string `json:"name,omitempty"`
}
