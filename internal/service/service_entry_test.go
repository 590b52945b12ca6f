package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/akaretnikov/welltrack/internal/logger"
	"github.com/akaretnikov/welltrack/internal/mock"
	"github.com/akaretnikov/welltrack/internal/notify"
	"github.com/akaretnikov/welltrack/internal/validators"
	"github.com/akaretnikov/welltrack/models"
)

func newTestEntrySvc(t *testing.T, ctrl *gomock.Controller) (EntryService, *mock.MockEntryRepository, *mock.MockSettingsRepository, *mock.MockSessionRepository, *notify.Hub) {
	t.Helper()
	entries := mock.NewMockEntryRepository(ctrl)
	settings := mock.NewMockSettingsRepository(ctrl)
	sessions := mock.NewMockSessionRepository(ctrl)
	hub := notify.NewHub()

	svc := NewEntryService(entries, settings, sessions, validators.NewEntryValidator(), hub, logger.NewLogger("test"))
	return svc, entries, settings, sessions, hub
}

// expectLoggedIn wires the session mocks for an authenticated user.
func expectLoggedIn(sessions *mock.MockSessionRepository, userID int64) {
	sessions.EXPECT().IsAuthenticated(gomock.Any()).Return(true, nil).AnyTimes()
	sessions.EXPECT().GetSession(gomock.Any()).Return(models.Session{ID: userID, Email: "demo@wellness.com", Name: "Demo User"}, nil).AnyTimes()
}

func expectLoggedOut(sessions *mock.MockSessionRepository) {
	sessions.EXPECT().IsAuthenticated(gomock.Any()).Return(false, nil).AnyTimes()
}

func dayEntry(id int64, date string) models.Entry {
	return models.Entry{
		ID: id, UserID: 1, Date: date,
		Steps: 8000, SleepHours: 7.5, Mood: models.MoodGood,
	}
}

// ── List ─────────────────────────────────────────────────────────────────

func TestEntryService_List_SortedNewestFirst(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, entries, _, sessions, _ := newTestEntrySvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	entries.EXPECT().EntriesFor(ctx, int64(1)).Return([]models.Entry{
		dayEntry(1, "2025-03-08"),
		dayEntry(2, "2025-03-10"),
		dayEntry(3, "2025-03-09"),
	}, nil)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2025-03-10", got[0].Date)
	assert.Equal(t, "2025-03-09", got[1].Date)
	assert.Equal(t, "2025-03-08", got[2].Date)
}

func TestEntryService_List_LoggedOutIsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, sessions, _ := newTestEntrySvc(t, ctrl)
	expectLoggedOut(sessions)

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ── Create ───────────────────────────────────────────────────────────────

func TestEntryService_Create_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, entries, _, sessions, hub := newTestEntrySvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	var events []notify.Event
	hub.Subscribe(func(e notify.Event) { events = append(events, e) })

	var saved []models.Entry
	entries.EXPECT().EntriesFor(ctx, int64(1)).Return([]models.Entry{}, nil)
	entries.EXPECT().SaveEntriesFor(ctx, int64(1), gomock.Any()).DoAndReturn(func(_ context.Context, _ int64, list []models.Entry) error {
		saved = list
		return nil
	})

	created, err := svc.Create(ctx, models.EntryInput{
		Date: "2025-03-10", Steps: 8000, SleepHours: 7.5, Mood: models.MoodGood, Notes: "walked",
	})
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, int64(1), created.UserID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Nil(t, created.ImportedAt)

	require.Len(t, saved, 1)
	assert.Equal(t, created, saved[0])

	require.Len(t, events, 1)
	assert.Equal(t, notify.KindEntries, events[0].Kind)
	assert.Equal(t, int64(1), events[0].UserID)
}

func TestEntryService_Create_InvalidInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, sessions, _ := newTestEntrySvc(t, ctrl)
	expectLoggedIn(sessions, 1)

	_, err := svc.Create(context.Background(), models.EntryInput{
		Date: "2025-03-10", Steps: 0, SleepHours: 7.5, Mood: models.MoodGood,
	})
	assert.ErrorIs(t, err, validators.ErrInvalidSteps)
}

func TestEntryService_Create_NotAuthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, sessions, _ := newTestEntrySvc(t, ctrl)
	expectLoggedOut(sessions)

	_, err := svc.Create(context.Background(), models.EntryInput{
		Date: "2025-03-10", Steps: 8000, SleepHours: 7.5, Mood: models.MoodGood,
	})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestNextEntryID_BumpsPastCollisions(t *testing.T) {
	existing := []models.Entry{{ID: 100}, {ID: 101}, {ID: 103}}

	assert.Equal(t, int64(102), nextEntryID(existing, 100))
	assert.Equal(t, int64(104), nextEntryID(existing, 103))
	assert.Equal(t, int64(50), nextEntryID(existing, 50))
	assert.Equal(t, int64(1), nextEntryID(nil, 1))
}

// ── Get / Update / Delete ────────────────────────────────────────────────

func TestEntryService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, entries, _, sessions, _ := newTestEntrySvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	entries.EXPECT().EntriesFor(ctx, int64(1)).Return([]models.Entry{dayEntry(7, "2025-03-10")}, nil).Times(2)

	got, err := svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)

	_, err = svc.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestEntryService_Update_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, entries, _, sessions, _ := newTestEntrySvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	original := dayEntry(7, "2025-03-10")
	original.CreatedAt = time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	original.UpdatedAt = original.CreatedAt

	var saved []models.Entry
	entries.EXPECT().EntriesFor(ctx, int64(1)).Return([]models.Entry{original}, nil)
	entries.EXPECT().SaveEntriesFor(ctx, int64(1), gomock.Any()).DoAndReturn(func(_ context.Context, _ int64, list []models.Entry) error {
		saved = list
		return nil
	})

	steps := 12000
	mood := models.MoodTired
	updated, err := svc.Update(ctx, 7, models.EntryUpdate{Steps: &steps, Mood: &mood})
	require.NoError(t, err)

	assert.Equal(t, int64(7), updated.ID)
	assert.Equal(t, int64(1), updated.UserID)
	assert.Equal(t, 12000, updated.Steps)
	assert.Equal(t, models.MoodTired, updated.Mood)
	assert.Equal(t, "2025-03-10", updated.Date)
	assert.True(t, updated.UpdatedAt.After(original.UpdatedAt))

	require.Len(t, saved, 1)
	assert.Equal(t, updated, saved[0])
}

func TestEntryService_Update_InvalidResultRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, entries, _, sessions, _ := newTestEntrySvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	entries.EXPECT().EntriesFor(ctx, int64(1)).Return([]models.Entry{dayEntry(7, "2025-03-10")}, nil)

	bad := 30.0
	_, err := svc.Update(ctx, 7, models.EntryUpdate{SleepHours: &bad})
	assert.ErrorIs(t, err, validators.ErrInvalidSleepHours)
}

func TestEntryService_Update_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, entries, _, sessions, _ := newTestEntrySvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	entries.EXPECT().EntriesFor(ctx, int64(1)).Return([]models.Entry{}, nil)

	steps := 1
	_, err := svc.Update(ctx, 999, models.EntryUpdate{Steps: &steps})
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestEntryService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, entries, _, sessions, _ := newTestEntrySvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	var saved []models.Entry
	entries.EXPECT().EntriesFor(ctx, int64(1)).Return([]models.Entry{dayEntry(7, "2025-03-10"), dayEntry(8, "2025-03-11")}, nil)
	entries.EXPECT().SaveEntriesFor(ctx, int64(1), gomock.Any()).DoAndReturn(func(_ context.Context, _ int64, list []models.Entry) error {
		saved = list
		return nil
	})

	require.NoError(t, svc.Delete(ctx, 7))
	require.Len(t, saved, 1)
	assert.Equal(t, int64(8), saved[0].ID)
}

func TestEntryService_Delete_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, entries, _, sessions, _ := newTestEntrySvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	entries.EXPECT().EntriesFor(ctx, int64(1)).Return([]models.Entry{dayEntry(8, "2025-03-11")}, nil)

	assert.ErrorIs(t, svc.Delete(ctx, 7), ErrEntryNotFound)
}

// ── InRange ──────────────────────────────────────────────────────────────

func TestEntryService_InRange_Inclusive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, entries, _, sessions, _ := newTestEntrySvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	entries.EXPECT().EntriesFor(ctx, int64(1)).Return([]models.Entry{
		dayEntry(1, "2025-03-07"),
		dayEntry(2, "2025-03-08"),
		dayEntry(3, "2025-03-09"),
		dayEntry(4, "2025-03-10"),
	}, nil)

	got, err := svc.InRange(ctx, "2025-03-08", "2025-03-09")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-03-09", got[0].Date)
	assert.Equal(t, "2025-03-08", got[1].Date)
}

func TestEntryService_InRange_BadDates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _, _ := newTestEntrySvc(t, ctrl)

	_, err := svc.InRange(context.Background(), "08.03.2025", "2025-03-09")
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

// ── Stats ────────────────────────────────────────────────────────────────

func TestEntryService_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, entries, settings, sessions, _ := newTestEntrySvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	list := []models.Entry{dayEntry(1, "2025-03-08"), dayEntry(2, "2025-03-10")}
	entries.EXPECT().EntriesFor(ctx, int64(1)).Return(list, nil)
	settings.EXPECT().SettingsFor(ctx, int64(1)).Return(models.Settings{}, false, nil)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, "2025-03-08", stats.OldestEntry)
	assert.Equal(t, "2025-03-10", stats.NewestEntry)
	assert.Positive(t, stats.Size.Entries)
	assert.Positive(t, stats.Size.Settings)
	assert.Equal(t, stats.Size.Entries+stats.Size.Settings, stats.Size.Total)
}

func TestEntryService_Stats_LoggedOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, sessions, _ := newTestEntrySvc(t, ctrl)
	expectLoggedOut(sessions)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalEntries)
	assert.Empty(t, stats.OldestEntry)
	assert.Empty(t, stats.NewestEntry)
}

// ── ClearAll ─────────────────────────────────────────────────────────────

func TestEntryService_ClearAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, entries, settings, sessions, hub := newTestEntrySvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	var events []notify.Event
	hub.Subscribe(func(e notify.Event) { events = append(events, e) })

	entries.EXPECT().DeletePartition(ctx, int64(1)).Return(nil)
	settings.EXPECT().DeletePartition(ctx, int64(1)).Return(nil)

	require.NoError(t, svc.ClearAll(ctx))
	require.Len(t, events, 2)
	assert.Equal(t, notify.KindEntries, events[0].Kind)
	assert.Equal(t, notify.KindSettings, events[1].Kind)
}

// ── PruneOld ─────────────────────────────────────────────────────────────

func TestEntryService_PruneOld(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, entries, settings, sessions, _ := newTestEntrySvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	old := dayEntry(1, time.Now().AddDate(0, 0, -40).Format(models.DateLayout))
	fresh := dayEntry(2, time.Now().AddDate(0, 0, -5).Format(models.DateLayout))

	settings.EXPECT().SettingsFor(ctx, int64(1)).Return(models.Settings{DataRetentionDays: 30}, true, nil)
	entries.EXPECT().EntriesFor(ctx, int64(1)).Return([]models.Entry{old, fresh}, nil)

	var saved []models.Entry
	entries.EXPECT().SaveEntriesFor(ctx, int64(1), gomock.Any()).DoAndReturn(func(_ context.Context, _ int64, list []models.Entry) error {
		saved = list
		return nil
	})

	removed, err := svc.PruneOld(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	require.Len(t, saved, 1)
	assert.Equal(t, int64(2), saved[0].ID)
}

func TestEntryService_PruneOld_NothingToPrune(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, entries, settings, sessions, _ := newTestEntrySvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	fresh := dayEntry(2, time.Now().AddDate(0, 0, -5).Format(models.DateLayout))
	settings.EXPECT().SettingsFor(ctx, int64(1)).Return(models.Settings{DataRetentionDays: 30}, true, nil)
	entries.EXPECT().EntriesFor(ctx, int64(1)).Return([]models.Entry{fresh}, nil)

	removed, err := svc.PruneOld(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestEntryService_PruneOld_LoggedOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, sessions, _ := newTestEntrySvc(t, ctrl)
	expectLoggedOut(sessions)

	removed, err := svc.PruneOld(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
}
