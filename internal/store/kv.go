package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/akaretnikov/welltrack/internal/logger"
)

// kvStorage is the SQLite-backed implementation of [KeyValue]. All
// application documents live as whole string values in a single kv table;
// every write replaces the full value under its key.
type kvStorage struct {
	*DB
	logger *logger.Logger
}

func NewKeyValueStorage(db *DB, logger *logger.Logger) KeyValue {
	return &kvStorage{
		DB:     db,
		logger: logger,
	}
}

func (s *kvStorage) Get(ctx context.Context, key string) (string, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("value").
		From("kv").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		log.Err(err).
			Str("func", "kvStorage.Get").
			Str("key", key).
			Msg("failed to build select query")
		return "", fmt.Errorf("%w: building select for key %q: %v", ErrStorageUnavailable, key, err)
	}

	var value string
	scanErr := s.DB.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if scanErr != nil {
		log.Err(scanErr).
			Str("func", "kvStorage.Get").
			Str("key", key).
			Msg("failed to read key")
		return "", fmt.Errorf("%w: reading key %q: %v", ErrStorageUnavailable, key, scanErr)
	}

	return value, nil
}

func (s *kvStorage) Set(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Insert("kv").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value").
		ToSql()
	if err != nil {
		log.Err(err).
			Str("func", "kvStorage.Set").
			Str("key", key).
			Msg("failed to build upsert query")
		return fmt.Errorf("%w: building upsert for key %q: %v", ErrStorageUnavailable, key, err)
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "kvStorage.Set").
			Str("key", key).
			Msg("failed to write key")
		return fmt.Errorf("%w: writing key %q: %v", ErrStorageUnavailable, key, err)
	}

	return nil
}

func (s *kvStorage) Delete(ctx context.Context, key string) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Delete("kv").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		log.Err(err).
			Str("func", "kvStorage.Delete").
			Str("key", key).
			Msg("failed to build delete query")
		return fmt.Errorf("%w: building delete for key %q: %v", ErrStorageUnavailable, key, err)
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "kvStorage.Delete").
			Str("key", key).
			Msg("failed to delete key")
		return fmt.Errorf("%w: deleting key %q: %v", ErrStorageUnavailable, key, err)
	}

	return nil
}
