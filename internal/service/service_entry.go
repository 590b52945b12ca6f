package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/akaretnikov/welltrack/internal/logger"
	"github.com/akaretnikov/welltrack/internal/notify"
	"github.com/akaretnikov/welltrack/internal/store"
	"github.com/akaretnikov/welltrack/internal/validators"
	"github.com/akaretnikov/welltrack/models"
)

type entryService struct {
	entries   store.EntryRepository
	settings  store.SettingsRepository
	sessions  store.SessionRepository
	validator validators.Validator
	hub       *notify.Hub
	logger    *logger.Logger
}

func NewEntryService(entries store.EntryRepository, settings store.SettingsRepository, sessions store.SessionRepository, validator validators.Validator, hub *notify.Hub, log *logger.Logger) EntryService {
	return &entryService{
		entries:   entries,
		settings:  settings,
		sessions:  sessions,
		validator: validator,
		hub:       hub,
		logger:    log,
	}
}

// currentSession resolves the logged-in identity. Every failure collapses
// to ErrNotAuthenticated; callers on read paths translate that to empty
// results.
func (s *entryService) currentSession(ctx context.Context) (models.Session, error) {
	ok, err := s.sessions.IsAuthenticated(ctx)
	if err != nil || !ok {
		return models.Session{}, ErrNotAuthenticated
	}

	session, err := s.sessions.GetSession(ctx)
	if err != nil {
		return models.Session{}, ErrNotAuthenticated
	}

	return session, nil
}

// effectiveSettings is the stored bag when present, the defaults
// otherwise.
func (s *entryService) effectiveSettings(ctx context.Context, userID int64) models.Settings {
	stored, found, err := s.settings.SettingsFor(ctx, userID)
	if err != nil || !found {
		return models.DefaultSettings()
	}
	return stored
}

func (s *entryService) List(ctx context.Context) ([]models.Entry, error) {
	session, err := s.currentSession(ctx)
	if err != nil {
		return []models.Entry{}, nil
	}

	entries, err := s.entries.EntriesFor(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	// YYYY-MM-DD strings order lexicographically the same way they order
	// chronologically
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})

	return entries, nil
}

func (s *entryService) Create(ctx context.Context, input models.EntryInput) (models.Entry, error) {
	log := logger.FromContext(ctx)

	session, err := s.currentSession(ctx)
	if err != nil {
		return models.Entry{}, err
	}

	if err = s.validator.Validate(ctx, input); err != nil {
		return models.Entry{}, err
	}

	entries, err := s.entries.EntriesFor(ctx, session.ID)
	if err != nil {
		return models.Entry{}, err
	}

	now := time.Now()
	entry := models.Entry{
		ID:         nextEntryID(entries, now.UnixMilli()),
		UserID:     session.ID,
		Date:       input.Date,
		Steps:      input.Steps,
		SleepHours: input.SleepHours,
		Mood:       input.Mood,
		Notes:      input.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	entries = append(entries, entry)
	if err = s.entries.SaveEntriesFor(ctx, session.ID, entries); err != nil {
		return models.Entry{}, err
	}

	s.hub.Publish(notify.Event{Kind: notify.KindEntries, UserID: session.ID})

	log.Info().
		Str("func", "entryService.Create").
		Int64("user_id", session.ID).
		Int64("entry_id", entry.ID).
		Str("date", entry.Date).
		Msg("entry created")

	return entry, nil
}

// nextEntryID returns candidate, bumped past any ids already present in
// the partition. Millisecond timestamps collide when entries are created
// in a tight loop.
func nextEntryID(entries []models.Entry, candidate int64) int64 {
	used := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		used[e.ID] = struct{}{}
	}
	for {
		if _, taken := used[candidate]; !taken {
			return candidate
		}
		candidate++
	}
}

func (s *entryService) Get(ctx context.Context, id int64) (models.Entry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return models.Entry{}, err
	}

	for _, entry := range entries {
		if entry.ID == id {
			return entry, nil
		}
	}

	return models.Entry{}, ErrEntryNotFound
}

func (s *entryService) Update(ctx context.Context, id int64, update models.EntryUpdate) (models.Entry, error) {
	session, err := s.currentSession(ctx)
	if err != nil {
		return models.Entry{}, err
	}

	entries, err := s.entries.EntriesFor(ctx, session.ID)
	if err != nil {
		return models.Entry{}, err
	}

	idx := -1
	for i, entry := range entries {
		if entry.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.Entry{}, ErrEntryNotFound
	}

	updated := entries[idx]
	update.Apply(&updated)
	updated.UpdatedAt = time.Now()

	if err = s.validator.Validate(ctx, updated); err != nil {
		return models.Entry{}, err
	}

	entries[idx] = updated
	if err = s.entries.SaveEntriesFor(ctx, session.ID, entries); err != nil {
		return models.Entry{}, err
	}

	s.hub.Publish(notify.Event{Kind: notify.KindEntries, UserID: session.ID})

	return updated, nil
}

func (s *entryService) Delete(ctx context.Context, id int64) error {
	session, err := s.currentSession(ctx)
	if err != nil {
		return err
	}

	entries, err := s.entries.EntriesFor(ctx, session.ID)
	if err != nil {
		return err
	}

	kept := entries[:0:0]
	for _, entry := range entries {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(entries) {
		return ErrEntryNotFound
	}

	if err = s.entries.SaveEntriesFor(ctx, session.ID, kept); err != nil {
		return err
	}

	s.hub.Publish(notify.Event{Kind: notify.KindEntries, UserID: session.ID})

	return nil
}

func (s *entryService) InRange(ctx context.Context, start, end string) ([]models.Entry, error) {
	from, err := time.Parse(models.DateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDateRange, start)
	}
	to, err := time.Parse(models.DateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDateRange, end)
	}

	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	inRange := make([]models.Entry, 0, len(entries))
	for _, entry := range entries {
		day, parseErr := time.Parse(models.DateLayout, entry.Date)
		if parseErr != nil {
			continue
		}
		if !day.Before(from) && !day.After(to) {
			inRange = append(inRange, entry)
		}
	}

	return inRange, nil
}

func (s *entryService) Stats(ctx context.Context) (models.StorageStats, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return models.StorageStats{}, err
	}

	settings := models.DefaultSettings()
	if session, sessionErr := s.currentSession(ctx); sessionErr == nil {
		settings = s.effectiveSettings(ctx, session.ID)
	}

	entriesJSON, err := json.Marshal(entries)
	if err != nil {
		return models.StorageStats{}, fmt.Errorf("failed to size entries: %w", err)
	}
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return models.StorageStats{}, fmt.Errorf("failed to size settings: %w", err)
	}

	stats := models.StorageStats{
		TotalEntries: len(entries),
		Size: models.StorageSize{
			Entries:  len(entriesJSON),
			Settings: len(settingsJSON),
			Total:    len(entriesJSON) + len(settingsJSON),
		},
	}

	// entries are sorted newest first
	if len(entries) > 0 {
		stats.NewestEntry = entries[0].Date
		stats.OldestEntry = entries[len(entries)-1].Date
	}

	return stats, nil
}

func (s *entryService) ClearAll(ctx context.Context) error {
	log := logger.FromContext(ctx)

	session, err := s.currentSession(ctx)
	if err != nil {
		return err
	}

	if err = s.entries.DeletePartition(ctx, session.ID); err != nil {
		return err
	}
	if err = s.settings.DeletePartition(ctx, session.ID); err != nil {
		return err
	}

	s.hub.Publish(notify.Event{Kind: notify.KindEntries, UserID: session.ID})
	s.hub.Publish(notify.Event{Kind: notify.KindSettings, UserID: session.ID})

	log.Info().
		Str("func", "entryService.ClearAll").
		Int64("user_id", session.ID).
		Msg("user data cleared")

	return nil
}

func (s *entryService) PruneOld(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	session, err := s.currentSession(ctx)
	if err != nil {
		return 0, nil
	}

	days := s.effectiveSettings(ctx, session.ID).DataRetentionDays
	if days <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	entries, err := s.entries.EntriesFor(ctx, session.ID)
	if err != nil {
		return 0, err
	}

	kept := entries[:0:0]
	for _, entry := range entries {
		day, parseErr := time.Parse(models.DateLayout, entry.Date)
		if parseErr != nil {
			// entries with unreadable dates are never pruned
			kept = append(kept, entry)
			continue
		}
		if !day.Before(cutoff) {
			kept = append(kept, entry)
		}
	}

	removed := len(entries) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	if err = s.entries.SaveEntriesFor(ctx, session.ID, kept); err != nil {
		return 0, err
	}

	s.hub.Publish(notify.Event{Kind: notify.KindEntries, UserID: session.ID})

	log.Info().
		Str("func", "entryService.PruneOld").
		Int64("user_id", session.ID).
		Int("removed", removed).
		Int("retention_days", days).
		Msg("old entries pruned")

	return removed, nil
}
