package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when merged
// configuration values are unusable.
var (
	// ErrInvalidStorageConfigs indicates invalid local storage settings
	// (for example, a DSN pointing at a directory).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, a negative session TTL).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
)
