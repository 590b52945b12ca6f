package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/akaretnikov/welltrack/internal/logger"
	"github.com/akaretnikov/welltrack/internal/mock"
	"github.com/akaretnikov/welltrack/internal/notify"
	"github.com/akaretnikov/welltrack/internal/validators"
	"github.com/akaretnikov/welltrack/models"
)

func newTestExportSvc(t *testing.T, ctrl *gomock.Controller) (ExportService, *mock.MockEntryRepository, *mock.MockSessionRepository, *notify.Hub) {
	t.Helper()
	entries := mock.NewMockEntryRepository(ctrl)
	settings := mock.NewMockSettingsRepository(ctrl)
	sessions := mock.NewMockSessionRepository(ctrl)
	hub := notify.NewHub()
	log := logger.NewLogger("test")

	entrySvc := NewEntryService(entries, settings, sessions, validators.NewEntryValidator(), hub, log)
	svc := NewExportService(entrySvc, entries, sessions, hub, log)
	return svc, entries, sessions, hub
}

// ── Export ───────────────────────────────────────────────────────────────

func TestExportService_Export(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, entries, sessions, _ := newTestExportSvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	entries.EXPECT().EntriesFor(ctx, int64(1)).Return([]models.Entry{dayEntry(1, "2025-03-10")}, nil)

	payload, err := svc.Export(ctx)
	require.NoError(t, err)

	// the bundle is pretty-printed
	assert.True(t, strings.HasPrefix(string(payload), "{\n  "))

	var bundle models.ExportBundle
	require.NoError(t, json.Unmarshal(payload, &bundle))
	assert.Equal(t, models.BundleVersion, bundle.Version)
	assert.NotEmpty(t, bundle.ExportDate)
	require.NotNil(t, bundle.User)
	assert.Equal(t, int64(1), bundle.User.ID)
	assert.Equal(t, "demo@wellness.com", bundle.User.Email)
	require.Len(t, bundle.Entries, 1)
	assert.Equal(t, "2025-03-10", bundle.Entries[0].Date)
}

func TestExportService_ExportCSV(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, entries, sessions, _ := newTestExportSvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	entry := dayEntry(1, "2025-03-10")
	entry.SleepHours = 7.5
	entry.Notes = "walked, then \"rested\""
	entries.EXPECT().EntriesFor(ctx, int64(1)).Return([]models.Entry{entry}, nil)

	payload, err := svc.ExportCSV(ctx)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Steps,Sleep Hours,Mood,Notes", lines[0])
	assert.Contains(t, lines[1], "2025-03-10,8000,7.5,good")
}

// ── Import ───────────────────────────────────────────────────────────────

func importBundle(t *testing.T, entries []models.Entry) []byte {
	t.Helper()
	payload, err := json.Marshal(models.ExportBundle{Entries: entries, Version: models.BundleVersion})
	require.NoError(t, err)
	return payload
}

func TestExportService_Import_SkipsExistingDates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, entries, sessions, hub := newTestExportSvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	var events []notify.Event
	hub.Subscribe(func(e notify.Event) { events = append(events, e) })

	existing := dayEntry(1, "2025-03-10")
	entries.EXPECT().EntriesFor(ctx, int64(1)).Return([]models.Entry{existing}, nil)

	var saved []models.Entry
	entries.EXPECT().SaveEntriesFor(ctx, int64(1), gomock.Any()).DoAndReturn(func(_ context.Context, _ int64, list []models.Entry) error {
		saved = list
		return nil
	})

	incoming := []models.Entry{
		{ID: 900, UserID: 42, Date: "2025-03-10", Steps: 1, SleepHours: 1, Mood: models.MoodSick},
		{ID: 901, UserID: 42, Date: "2025-03-11", Steps: 5000, SleepHours: 8, Mood: models.MoodGood},
	}

	imported, err := svc.Import(ctx, importBundle(t, incoming))
	require.NoError(t, err)
	assert.Equal(t, 1, imported)

	require.Len(t, saved, 2)
	added := saved[1]
	assert.Equal(t, "2025-03-11", added.Date)
	// imported entries get a fresh id, the current owner, and a stamp
	assert.NotEqual(t, int64(901), added.ID)
	assert.Equal(t, int64(1), added.UserID)
	require.NotNil(t, added.ImportedAt)

	require.Len(t, events, 1)
	assert.Equal(t, notify.KindEntries, events[0].Kind)
}

func TestExportService_Import_KeepsDuplicateDatesWithinBundle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, entries, sessions, _ := newTestExportSvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	entries.EXPECT().EntriesFor(ctx, int64(1)).Return([]models.Entry{}, nil)

	var saved []models.Entry
	entries.EXPECT().SaveEntriesFor(ctx, int64(1), gomock.Any()).DoAndReturn(func(_ context.Context, _ int64, list []models.Entry) error {
		saved = list
		return nil
	})

	// the date filter only applies against entries present before the
	// import, so a bundle can carry two entries for the same day
	incoming := []models.Entry{
		{ID: 900, UserID: 42, Date: "2025-03-11", Steps: 5000, SleepHours: 8, Mood: models.MoodGood},
		{ID: 901, UserID: 42, Date: "2025-03-11", Steps: 6000, SleepHours: 7, Mood: models.MoodNeutral},
	}

	imported, err := svc.Import(ctx, importBundle(t, incoming))
	require.NoError(t, err)
	assert.Equal(t, 2, imported)

	require.Len(t, saved, 2)
	assert.Equal(t, "2025-03-11", saved[0].Date)
	assert.Equal(t, "2025-03-11", saved[1].Date)
	assert.NotEqual(t, saved[0].ID, saved[1].ID)
}

func TestExportService_Import_NoNewEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, entries, sessions, _ := newTestExportSvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	entries.EXPECT().EntriesFor(ctx, int64(1)).Return([]models.Entry{dayEntry(1, "2025-03-10")}, nil)

	_, err := svc.Import(ctx, importBundle(t, []models.Entry{dayEntry(2, "2025-03-10")}))
	assert.ErrorIs(t, err, ErrNoNewEntries)
}

func TestExportService_Import_InvalidFormat(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, sessions, _ := newTestExportSvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "not json"},
		{name: "entries missing", data: `{"version":"1.0"}`},
		{name: "entries not a list", data: `{"entries":42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Import(ctx, []byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidImportFormat)
		})
	}
}

func TestExportService_Import_NotAuthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, sessions, _ := newTestExportSvc(t, ctrl)
	expectLoggedOut(sessions)

	_, err := svc.Import(context.Background(), importBundle(t, []models.Entry{dayEntry(1, "2025-03-10")}))
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestExportService_Import_RoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, entries, sessions, _ := newTestExportSvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	// export from a populated store, then import into an empty one
	entries.EXPECT().EntriesFor(ctx, int64(1)).Return([]models.Entry{dayEntry(1, "2025-03-10")}, nil)
	payload, err := svc.Export(ctx)
	require.NoError(t, err)

	entries.EXPECT().EntriesFor(ctx, int64(1)).Return([]models.Entry{}, nil)
	entries.EXPECT().SaveEntriesFor(ctx, int64(1), gomock.Any()).Return(nil)

	imported, err := svc.Import(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
}
