package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akaretnikov/welltrack/internal/logger"
	"github.com/akaretnikov/welltrack/models"
)

// fakeKV is an in-memory KeyValue for repository tests.
type fakeKV struct {
	data map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	value, ok := f.data[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return value, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string) error {
	f.data[key] = value
	return nil
}

func (f *fakeKV) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func testEntry(id int64, userID int64, date string) models.Entry {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	return models.Entry{
		ID:         id,
		UserID:     userID,
		Date:       date,
		Steps:      8000,
		SleepHours: 7.5,
		Mood:       models.MoodGood,
		Notes:      "walked to work",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ── entries ─────────────────────────────────────────────────────────────

func TestEntryRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewEntryRepository(newFakeKV(), logger.NewLogger("test"))

	entries := []models.Entry{
		testEntry(1, 1, "2025-03-09"),
		testEntry(2, 1, "2025-03-10"),
	}
	require.NoError(t, repo.SaveEntriesFor(ctx, 1, entries))

	got, err := repo.EntriesFor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestEntryRepository_EmptyStoreYieldsEmptySlice(t *testing.T) {
	ctx := context.Background()
	repo := NewEntryRepository(newFakeKV(), logger.NewLogger("test"))

	got, err := repo.EntriesFor(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEntryRepository_PartitionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := NewEntryRepository(newFakeKV(), logger.NewLogger("test"))

	require.NoError(t, repo.SaveEntriesFor(ctx, 1, []models.Entry{testEntry(1, 1, "2025-03-09")}))
	require.NoError(t, repo.SaveEntriesFor(ctx, 2, []models.Entry{testEntry(2, 2, "2025-03-10")}))

	first, err := repo.EntriesFor(ctx, 1)
	require.NoError(t, err)
	second, err := repo.EntriesFor(ctx, 2)
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, int64(1), first[0].UserID)
	assert.Equal(t, int64(2), second[0].UserID)
}

func TestEntryRepository_DeletePartition(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	repo := NewEntryRepository(kv, logger.NewLogger("test"))

	require.NoError(t, repo.SaveEntriesFor(ctx, 1, []models.Entry{testEntry(1, 1, "2025-03-09")}))
	require.NoError(t, repo.SaveEntriesFor(ctx, 2, []models.Entry{testEntry(2, 2, "2025-03-10")}))

	require.NoError(t, repo.DeletePartition(ctx, 1))

	gone, err := repo.EntriesFor(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, gone)

	kept, err := repo.EntriesFor(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestEntryRepository_MalformedPartitionTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	kv.data[entriesKey] = `{"1": "not a list"}`
	repo := NewEntryRepository(kv, logger.NewLogger("test"))

	got, err := repo.EntriesFor(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEntryRepository_MalformedDocumentIsStorageError(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	kv.data[entriesKey] = `not json at all`
	repo := NewEntryRepository(kv, logger.NewLogger("test"))

	_, err := repo.EntriesFor(ctx, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorageUnavailable))
}

// ── settings ────────────────────────────────────────────────────────────

func TestSettingsRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(newFakeKV(), logger.NewLogger("test"))

	settings := models.Settings{
		Notifications:     false,
		DarkMode:          true,
		Language:          "de",
		Timezone:          "Europe/Berlin",
		DataRetentionDays: 90,
	}
	require.NoError(t, repo.SaveSettingsFor(ctx, 1, settings))

	got, found, err := repo.SettingsFor(ctx, 1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, settings, got)
}

func TestSettingsRepository_MissingPartition(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(newFakeKV(), logger.NewLogger("test"))

	_, found, err := repo.SettingsFor(ctx, 42)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSettingsRepository_DeletePartition(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(newFakeKV(), logger.NewLogger("test"))

	require.NoError(t, repo.SaveSettingsFor(ctx, 1, models.DefaultSettings()))
	require.NoError(t, repo.DeletePartition(ctx, 1))

	_, found, err := repo.SettingsFor(ctx, 1)
	require.NoError(t, err)
	assert.False(t, found)
}

// ── sessions ────────────────────────────────────────────────────────────

func TestSessionRepository_SaveGetClear(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	repo := NewSessionRepository(kv, logger.NewLogger("test"))

	session := models.Session{
		ID:        1,
		Email:     "demo@wellness.com",
		Name:      "Demo User",
		LoginTime: time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.SaveSession(ctx, session))

	assert.Equal(t, "true", kv.data[authKey])

	got, err := repo.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.Email, got.Email)

	ok, err := repo.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.ClearSession(ctx))

	_, err = repo.GetSession(ctx)
	assert.True(t, errors.Is(err, ErrSessionNotFound))

	ok, err = repo.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionRepository_ClearEmptySlotIsNoError(t *testing.T) {
	repo := NewSessionRepository(newFakeKV(), logger.NewLogger("test"))
	require.NoError(t, repo.ClearSession(context.Background()))
}

func TestSessionRepository_AuthFlagWithoutSession(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	kv.data[authKey] = "true" // stale flag, no session record
	repo := NewSessionRepository(kv, logger.NewLogger("test"))

	ok, err := repo.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionRepository_ThemeDefaultsToSystem(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(newFakeKV(), logger.NewLogger("test"))

	theme, err := repo.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, "system", theme)

	require.NoError(t, repo.SetTheme(ctx, "dark"))
	theme, err = repo.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)
}

// ── accounts ────────────────────────────────────────────────────────────

func TestAccountRepository_DemoAccountsSeeded(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(logger.NewLogger("test"))

	account, err := repo.FindByEmail(ctx, "demo@wellness.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), account.ID)
	assert.Equal(t, "Demo User", account.Name)
	assert.NotEmpty(t, account.PasswordHash)
}

func TestAccountRepository_FindIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(logger.NewLogger("test"))

	account, err := repo.FindByEmail(ctx, "  John.Doe@Email.com ")
	require.NoError(t, err)
	assert.Equal(t, int64(2), account.ID)
}

func TestAccountRepository_FindUnknown(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(logger.NewLogger("test"))

	_, err := repo.FindByEmail(ctx, "nobody@example.com")
	assert.True(t, errors.Is(err, ErrNoAccountWasFound))
}

func TestAccountRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(logger.NewLogger("test"))

	created, err := repo.CreateAccount(ctx, models.Account{
		ID:        100,
		Email:     "New.User@Example.com",
		Name:      "New User",
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "new.user@example.com", created.Email)

	found, err := repo.FindByEmail(ctx, "new.user@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(100), found.ID)
}

func TestAccountRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(logger.NewLogger("test"))

	_, err := repo.CreateAccount(ctx, models.Account{ID: 100, Email: "DEMO@wellness.com"})
	assert.True(t, errors.Is(err, ErrEmailAlreadyExists))
}
