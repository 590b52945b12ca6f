// SPDX-License-Identifier: Apache-2.0

package config

import "strings"

// validate checks the final merged [StructuredConfig] and fills in
// defaults for everything a local install may reasonably leave unset.
// The application must be able to start with no configuration at all.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.SessionTTL < 0 {
		return ErrInvalidAppConfigs
	}
	if strings.HasSuffix(cfg.Storage.DB.DSN, "/") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Storage.DB.DSN == "" {
		cfg.Storage.DB.DSN = defaultDSN
	}
	if cfg.App.TokenSignKey == "" {
		cfg.App.TokenSignKey = defaultTokenSignKey
	}
	if cfg.App.TokenIssuer == "" {
		cfg.App.TokenIssuer = defaultTokenIssuer
	}
	if cfg.App.SessionTTL == 0 {
		cfg.App.SessionTTL = defaultSessionTTL
	}
	if cfg.Workers.RetentionInterval == 0 {
		cfg.Workers.RetentionInterval = defaultRetentionInterval
	}
	if cfg.Workers.SessionSweepInterval == 0 {
		cfg.Workers.SessionSweepInterval = defaultSessionSweepInterval
	}

	return nil
}
