package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/akaretnikov/welltrack/internal/logger"
	"github.com/akaretnikov/welltrack/models"
)

// settingsRepository stores all users' preference bags inside one JSON
// document under the settings key, mirroring the entries layout.
type settingsRepository struct {
	kv     KeyValue
	logger *logger.Logger
}

func NewSettingsRepository(kv KeyValue, logger *logger.Logger) SettingsRepository {
	return &settingsRepository{
		kv:     kv,
		logger: logger,
	}
}

func (r *settingsRepository) readDocument(ctx context.Context) (map[string]json.RawMessage, error) {
	log := logger.FromContext(ctx)

	raw, err := r.kv.Get(ctx, settingsKey)
	if errors.Is(err, ErrKeyNotFound) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "settingsRepository.readDocument").
			Msg("failed to read settings document")
		return nil, fmt.Errorf("failed to read settings document: %w", err)
	}

	var doc map[string]json.RawMessage
	if err = json.Unmarshal([]byte(raw), &doc); err != nil {
		log.Err(err).
			Str("func", "settingsRepository.readDocument").
			Msg("failed to decode settings document")
		return nil, fmt.Errorf("%w: decoding settings document: %v", ErrStorageUnavailable, err)
	}
	if doc == nil {
		doc = map[string]json.RawMessage{}
	}

	return doc, nil
}

func (r *settingsRepository) writeDocument(ctx context.Context, doc map[string]json.RawMessage) error {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(doc)
	if err != nil {
		log.Err(err).
			Str("func", "settingsRepository.writeDocument").
			Msg("failed to encode settings document")
		return fmt.Errorf("%w: encoding settings document: %v", ErrStorageUnavailable, err)
	}

	if err = r.kv.Set(ctx, settingsKey, string(payload)); err != nil {
		log.Err(err).
			Str("func", "settingsRepository.writeDocument").
			Msg("failed to write settings document")
		return fmt.Errorf("failed to write settings document: %w", err)
	}

	return nil
}

func (r *settingsRepository) SettingsFor(ctx context.Context, userID int64) (models.Settings, bool, error) {
	doc, err := r.readDocument(ctx)
	if err != nil {
		return models.Settings{}, false, err
	}

	partition, ok := doc[partitionKey(userID)]
	if !ok {
		return models.Settings{}, false, nil
	}

	var settings models.Settings
	if err = json.Unmarshal(partition, &settings); err != nil {
		logger.FromContext(ctx).Warn().
			Str("func", "settingsRepository.SettingsFor").
			Int64("user_id", userID).
			Msg("malformed settings partition, treating as absent")
		return models.Settings{}, false, nil
	}

	return settings, true, nil
}

func (r *settingsRepository) SaveSettingsFor(ctx context.Context, userID int64, settings models.Settings) error {
	log := logger.FromContext(ctx)

	doc, err := r.readDocument(ctx)
	if err != nil {
		return err
	}

	partition, err := json.Marshal(settings)
	if err != nil {
		log.Err(err).
			Str("func", "settingsRepository.SaveSettingsFor").
			Int64("user_id", userID).
			Msg("failed to encode settings partition")
		return fmt.Errorf("%w: encoding settings partition: %v", ErrStorageUnavailable, err)
	}

	doc[partitionKey(userID)] = partition
	return r.writeDocument(ctx, doc)
}

func (r *settingsRepository) DeletePartition(ctx context.Context, userID int64) error {
	doc, err := r.readDocument(ctx)
	if err != nil {
		return err
	}

	delete(doc, partitionKey(userID))
	return r.writeDocument(ctx, doc)
}
