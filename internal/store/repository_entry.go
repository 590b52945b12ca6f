package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/akaretnikov/welltrack/internal/logger"
	"github.com/akaretnikov/welltrack/models"
)

// entryRepository stores all users' entries inside one JSON document under
// the entries key: an object mapping stringified user ids to entry lists.
// Every mutation rewrites the whole document; there is exactly one logical
// writer, so no finer-grained coordination is needed.
type entryRepository struct {
	kv     KeyValue
	logger *logger.Logger
}

func NewEntryRepository(kv KeyValue, logger *logger.Logger) EntryRepository {
	return &entryRepository{
		kv:     kv,
		logger: logger,
	}
}

// readDocument loads and decodes the full entries document. A missing key
// yields an empty document.
func (r *entryRepository) readDocument(ctx context.Context) (map[string]json.RawMessage, error) {
	log := logger.FromContext(ctx)

	raw, err := r.kv.Get(ctx, entriesKey)
	if errors.Is(err, ErrKeyNotFound) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "entryRepository.readDocument").
			Msg("failed to read entries document")
		return nil, fmt.Errorf("failed to read entries document: %w", err)
	}

	var doc map[string]json.RawMessage
	if err = json.Unmarshal([]byte(raw), &doc); err != nil {
		log.Err(err).
			Str("func", "entryRepository.readDocument").
			Msg("failed to decode entries document")
		return nil, fmt.Errorf("%w: decoding entries document: %v", ErrStorageUnavailable, err)
	}
	if doc == nil {
		doc = map[string]json.RawMessage{}
	}

	return doc, nil
}

func (r *entryRepository) writeDocument(ctx context.Context, doc map[string]json.RawMessage) error {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(doc)
	if err != nil {
		log.Err(err).
			Str("func", "entryRepository.writeDocument").
			Msg("failed to encode entries document")
		return fmt.Errorf("%w: encoding entries document: %v", ErrStorageUnavailable, err)
	}

	if err = r.kv.Set(ctx, entriesKey, string(payload)); err != nil {
		log.Err(err).
			Str("func", "entryRepository.writeDocument").
			Msg("failed to write entries document")
		return fmt.Errorf("failed to write entries document: %w", err)
	}

	return nil
}

func (r *entryRepository) EntriesFor(ctx context.Context, userID int64) ([]models.Entry, error) {
	doc, err := r.readDocument(ctx)
	if err != nil {
		return nil, err
	}

	partition, ok := doc[partitionKey(userID)]
	if !ok {
		return []models.Entry{}, nil
	}

	var entries []models.Entry
	if err = json.Unmarshal(partition, &entries); err != nil {
		// A partition that is not an entry list is treated as empty
		// rather than poisoning the whole store.
		logger.FromContext(ctx).Warn().
			Str("func", "entryRepository.EntriesFor").
			Int64("user_id", userID).
			Msg("malformed entries partition, treating as empty")
		return []models.Entry{}, nil
	}
	if entries == nil {
		entries = []models.Entry{}
	}

	return entries, nil
}

func (r *entryRepository) SaveEntriesFor(ctx context.Context, userID int64, entries []models.Entry) error {
	log := logger.FromContext(ctx)

	doc, err := r.readDocument(ctx)
	if err != nil {
		return err
	}

	partition, err := json.Marshal(entries)
	if err != nil {
		log.Err(err).
			Str("func", "entryRepository.SaveEntriesFor").
			Int64("user_id", userID).
			Msg("failed to encode entries partition")
		return fmt.Errorf("%w: encoding entries partition: %v", ErrStorageUnavailable, err)
	}

	doc[partitionKey(userID)] = partition
	return r.writeDocument(ctx, doc)
}

func (r *entryRepository) DeletePartition(ctx context.Context, userID int64) error {
	doc, err := r.readDocument(ctx)
	if err != nil {
		return err
	}

	delete(doc, partitionKey(userID))
	return r.writeDocument(ctx, doc)
}

// partitionKey renders a user id the way the document keys it.
func partitionKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
