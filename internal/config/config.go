// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// welltrack application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line
// flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as session token
	// parameters and the application version.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the local persistence backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values that control the
// session lifecycle and versioning.
type App struct {
	// TokenSignKey is the secret key used to sign and verify the session
	// JWT persisted in the local store.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued session
	// token and validated when the token is parsed back.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// SessionTTL is how long a persisted session remains valid after
	// login before it is expired and cleared (e.g. "168h").
	// Env: APP_SESSION_TTL
	SessionTTL time.Duration `env:"SESSION_TTL"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for the persistence backend.
type Storage struct {
	// DB holds the local database settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database backing the
// key-value store.
type DB struct {
	// DSN is the path to the SQLite database file (e.g. "welltrack.db").
	// The file is created on first start when it does not exist.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// RetentionInterval is how often the retention worker scans the
	// logged-in user's entries and prunes those older than the
	// configured data retention window.
	// Env: WORKERS_RETENTION_INTERVAL
	RetentionInterval time.Duration `env:"RETENTION_INTERVAL"`

	// SessionSweepInterval is how often the session sweeper re-checks the
	// persisted session and clears it once it expires.
	// Env: WORKERS_SESSION_SWEEP_INTERVAL
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL"`
}

// Defaults applied by validate for fields left empty by every source.
const (
	defaultDSN                  = "welltrack.db"
	defaultTokenIssuer          = "welltrack"
	defaultSessionTTL           = 7 * 24 * time.Hour
	defaultRetentionInterval    = time.Hour
	defaultSessionSweepInterval = time.Minute

	// defaultTokenSignKey is the fallback signing key for local
	// single-user installs that never configure their own.
	defaultTokenSignKey = "welltrack-local-sign-key"
)

// GetConfig loads, merges, and validates the application configuration
// from all available sources in the following priority order (last source
// wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
