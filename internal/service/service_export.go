package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/akaretnikov/welltrack/internal/logger"
	"github.com/akaretnikov/welltrack/internal/notify"
	"github.com/akaretnikov/welltrack/internal/store"
	"github.com/akaretnikov/welltrack/models"
)

// csvHeader is the fixed first row of every CSV export.
var csvHeader = []string{"Date", "Steps", "Sleep Hours", "Mood", "Notes"}

type exportService struct {
	entrySvc EntryService
	entries  store.EntryRepository
	sessions store.SessionRepository
	hub      *notify.Hub
	logger   *logger.Logger
}

func NewExportService(entrySvc EntryService, entries store.EntryRepository, sessions store.SessionRepository, hub *notify.Hub, log *logger.Logger) ExportService {
	return &exportService{
		entrySvc: entrySvc,
		entries:  entries,
		sessions: sessions,
		hub:      hub,
		logger:   log,
	}
}

func (s *exportService) Export(ctx context.Context) ([]byte, error) {
	entries, err := s.entrySvc.List(ctx)
	if err != nil {
		return nil, err
	}

	bundle := models.ExportBundle{
		Entries:    entries,
		ExportDate: time.Now().UTC().Format(time.RFC3339),
		Version:    models.BundleVersion,
	}

	if session, sessionErr := s.sessions.GetSession(ctx); sessionErr == nil {
		bundle.User = &models.BundleUser{
			ID:    session.ID,
			Name:  session.Name,
			Email: session.Email,
		}
	}

	payload, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export bundle: %w", err)
	}

	return payload, nil
}

func (s *exportService) ExportCSV(ctx context.Context) ([]byte, error) {
	entries, err := s.entrySvc.List(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err = w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, entry := range entries {
		record := []string{
			entry.Date,
			strconv.Itoa(entry.Steps),
			strconv.FormatFloat(entry.SleepHours, 'f', -1, 64),
			string(entry.Mood),
			entry.Notes,
		}
		if err = w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	w.Flush()
	if err = w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *exportService) Import(ctx context.Context, data []byte) (int, error) {
	log := logger.FromContext(ctx)

	ok, err := s.sessions.IsAuthenticated(ctx)
	if err != nil || !ok {
		return 0, ErrNotAuthenticated
	}
	session, err := s.sessions.GetSession(ctx)
	if err != nil {
		return 0, ErrNotAuthenticated
	}

	var bundle models.ExportBundle
	if err = json.Unmarshal(data, &bundle); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidImportFormat, err)
	}
	if bundle.Entries == nil {
		return 0, ErrInvalidImportFormat
	}

	current, err := s.entries.EntriesFor(ctx, session.ID)
	if err != nil {
		return 0, err
	}

	// dedupe is by exact date string against the entries that existed
	// before the import; candidates within one bundle do not shadow
	// each other
	existingDates := make(map[string]struct{}, len(current))
	for _, entry := range current {
		existingDates[entry.Date] = struct{}{}
	}

	now := time.Now()
	imported := 0
	for _, candidate := range bundle.Entries {
		if _, seen := existingDates[candidate.Date]; seen {
			continue
		}

		candidate.ID = nextEntryID(current, now.UnixMilli())
		candidate.UserID = session.ID
		importedAt := now
		candidate.ImportedAt = &importedAt

		current = append(current, candidate)
		imported++
	}

	if imported == 0 {
		return 0, ErrNoNewEntries
	}

	if err = s.entries.SaveEntriesFor(ctx, session.ID, current); err != nil {
		return 0, err
	}

	s.hub.Publish(notify.Event{Kind: notify.KindEntries, UserID: session.ID})

	log.Info().
		Str("func", "exportService.Import").
		Int64("user_id", session.ID).
		Int("imported", imported).
		Msg("entries imported")

	return imported, nil
}
