package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-d database file path for the local store
//	-c/-config json file path with configs
//	-token-sign-key session token signing key
//	-token-issuer session token issuer name
//	-session-ttl session lifetime (e.g., "168h")
//	-retention-interval retention worker interval (e.g., "1h")
//	-session-sweep-interval session sweeper interval (e.g., "1m")
func ParseFlags() *StructuredConfig {
	var databaseDSN string
	var jsonConfigPath string
	var tokenSignKey string
	var tokenIssuer string
	var sessionTTL time.Duration
	var retentionInterval time.Duration
	var sessionSweepInterval time.Duration

	flag.StringVar(&databaseDSN, "d", "", "Local database file path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Session token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Session token issuer")
	flag.DurationVar(&sessionTTL, "session-ttl", 0, "Session lifetime (e.g., 168h)")
	flag.DurationVar(&retentionInterval, "retention-interval", 0, "Retention worker interval (e.g., 1h)")
	flag.DurationVar(&sessionSweepInterval, "session-sweep-interval", 0, "Session sweeper interval (e.g., 1m)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			TokenSignKey: tokenSignKey,
			TokenIssuer:  tokenIssuer,
			SessionTTL:   sessionTTL,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Workers: Workers{
			RetentionInterval:    retentionInterval,
			SessionSweepInterval: sessionSweepInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}
