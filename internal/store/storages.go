package store

import (
	"context"
	"fmt"

	"github.com/akaretnikov/welltrack/internal/config"
	"github.com/akaretnikov/welltrack/internal/logger"
)

// Storages bundles every repository over one local database connection.
type Storages struct {
	DB       *DB
	KV       KeyValue
	Entries  EntryRepository
	Settings SettingsRepository
	Sessions SessionRepository
	Accounts AccountRepository
}

func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectSQLite(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to local database: %w", err)
	}

	if err = db.Migrate(); err != nil {
		log.Err(err).Str("func", "NewStorages").Msg("error applying migrations")
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	kv := NewKeyValueStorage(db, log)

	return &Storages{
		DB:       db,
		KV:       kv,
		Entries:  NewEntryRepository(kv, log),
		Settings: NewSettingsRepository(kv, log),
		Sessions: NewSessionRepository(kv, log),
		Accounts: NewAccountRepository(log),
	}, nil
}

func (s *Storages) Close() error {
	if s.DB == nil || s.DB.DB == nil {
		return nil
	}
	return s.DB.DB.Close()
}
