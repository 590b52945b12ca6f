package validators

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	// Entry rule violations. The messages are part of the user-facing
	// contract and are shown verbatim in the UI.
	ErrDateRequired      = errors.New("Date is required")
	ErrInvalidSteps      = errors.New("Steps must be a positive number")
	ErrInvalidSleepHours = errors.New("Sleep hours must be between 0 and 24")
	ErrMoodRequired      = errors.New("Mood is required")
	ErrInvalidMood       = errors.New("Mood must be one of the known values")
	ErrNotesTooLong      = errors.New("Notes must be 500 characters or less")
	ErrInvalidDateFormat = errors.New("Date must be in YYYY-MM-DD format")

	// Credential rule violations, shown verbatim on the signup screen.
	ErrAllFieldsRequired = errors.New("All fields are required")
	ErrInvalidEmail      = errors.New("Please enter a valid email address")
	ErrPasswordTooShort  = errors.New("Password must be at least 6 characters long")
)

// FieldErrors maps a field name to the rule it failed. A validation pass
// reports every failing field at once, not just the first one, so callers
// can surface one message per field.
//
// FieldErrors implements error. Unwrap exposes the individual rule
// sentinels, so errors.Is keeps matching them through a FieldErrors value.
type FieldErrors map[string]error

// Error renders the single failure bare (the message is shown verbatim in
// the UI) and prefixes each message with its field when several fail.
// Fields are ordered alphabetically for a stable string.
func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	keys := e.sortedKeys()
	if len(keys) == 1 {
		return e[keys[0]].Error()
	}

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k].Error())
	}
	return strings.Join(parts, "; ")
}

// Unwrap returns the underlying rule sentinels for errors.Is / errors.As.
func (e FieldErrors) Unwrap() []error {
	keys := e.sortedKeys()
	errs := make([]error, 0, len(keys))
	for _, k := range keys {
		errs = append(errs, e[k])
	}
	return errs
}

// Messages returns the field-to-message mapping.
func (e FieldErrors) Messages() map[string]string {
	msgs := make(map[string]string, len(e))
	for field, err := range e {
		msgs[field] = err.Error()
	}
	return msgs
}

func (e FieldErrors) sortedKeys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
