package service

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password; callers are told which one never.
	ErrInvalidCredentials = errors.New("Invalid email or password")

	ErrDuplicateEmail   = errors.New("An account with this email already exists")
	ErrNotAuthenticated = errors.New("Not authenticated")

	ErrEntryNotFound = errors.New("Entry not found")

	ErrInvalidImportFormat = errors.New("Invalid import data format")
	ErrNoNewEntries        = errors.New("No new entries to import")

	ErrInvalidDateRange = errors.New("invalid date range")
)
