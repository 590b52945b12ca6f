// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"APP_TOKEN_SIGN_KEY": "jwt_secret",
		"APP_TOKEN_ISSUER":   "test_issuer",
		"APP_SESSION_TTL":    "168h",
		"APP_VERSION":        "1.2.3",

		// Storage has nested prefixes: STORAGE_ + DB_
		"STORAGE_DB_DATABASE_URI": "/var/lib/welltrack/welltrack.db",

		"WORKERS_RETENTION_INTERVAL":     "30m",
		"WORKERS_SESSION_SWEEP_INTERVAL": "5m",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, "jwt_secret", cfg.App.TokenSignKey)
	assert.Equal(t, "test_issuer", cfg.App.TokenIssuer)
	assert.Equal(t, 168*time.Hour, cfg.App.SessionTTL)
	assert.Equal(t, "1.2.3", cfg.App.Version)

	assert.Equal(t, "/var/lib/welltrack/welltrack.db", cfg.Storage.DB.DSN)

	assert.Equal(t, 30*time.Minute, cfg.Workers.RetentionInterval)
	assert.Equal(t, 5*time.Minute, cfg.Workers.SessionSweepInterval)
}

func TestParseEnv_PartialFields(t *testing.T) {
	setEnvVars(t, map[string]string{
		"APP_TOKEN_ISSUER": "only_issuer",
	})

	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	require.NoError(t, err)
	assert.Equal(t, "only_issuer", cfg.App.TokenIssuer)
	assert.Empty(t, cfg.App.TokenSignKey)
	assert.Zero(t, cfg.App.SessionTTL)
	assert.Empty(t, cfg.Storage.DB.DSN)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	setEnvVars(t, map[string]string{
		"APP_SESSION_TTL": "not-a-duration",
	})

	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	assert.Error(t, err)
}
