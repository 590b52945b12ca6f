package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/akaretnikov/welltrack/internal/logger"
	"github.com/akaretnikov/welltrack/internal/mock"
	"github.com/akaretnikov/welltrack/internal/notify"
	"github.com/akaretnikov/welltrack/models"
)

func newTestSettingsSvc(t *testing.T, ctrl *gomock.Controller) (SettingsService, *mock.MockSettingsRepository, *mock.MockSessionRepository, *notify.Hub) {
	t.Helper()
	settings := mock.NewMockSettingsRepository(ctrl)
	sessions := mock.NewMockSessionRepository(ctrl)
	hub := notify.NewHub()

	svc := NewSettingsService(settings, sessions, hub, logger.NewLogger("test"))
	return svc, settings, sessions, hub
}

func TestSettingsService_Get_LoggedOutReturnsDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, sessions, _ := newTestSettingsSvc(t, ctrl)
	expectLoggedOut(sessions)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), got)
}

func TestSettingsService_Get_NothingStoredReturnsDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, settings, sessions, _ := newTestSettingsSvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	settings.EXPECT().SettingsFor(ctx, int64(1)).Return(models.Settings{}, false, nil)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), got)
}

func TestSettingsService_Get_StoredFalseStaysFalse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, settings, sessions, _ := newTestSettingsSvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	stored := models.DefaultSettings()
	stored.Notifications = false
	settings.EXPECT().SettingsFor(ctx, int64(1)).Return(stored, true, nil)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	// a saved false must not be resurrected to the default true
	assert.False(t, got.Notifications)
}

func TestSettingsService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, settings, sessions, hub := newTestSettingsSvc(t, ctrl)
	ctx := context.Background()
	expectLoggedIn(sessions, 1)

	var events []notify.Event
	hub.Subscribe(func(e notify.Event) { events = append(events, e) })

	settings.EXPECT().SettingsFor(ctx, int64(1)).Return(models.Settings{}, false, nil)

	var saved models.Settings
	settings.EXPECT().SaveSettingsFor(ctx, int64(1), gomock.Any()).DoAndReturn(func(_ context.Context, _ int64, s models.Settings) error {
		saved = s
		return nil
	})

	dark := true
	days := 90
	updated, err := svc.Update(ctx, models.SettingsUpdate{DarkMode: &dark, DataRetentionDays: &days})
	require.NoError(t, err)

	assert.True(t, updated.DarkMode)
	assert.Equal(t, 90, updated.DataRetentionDays)
	// untouched fields keep their defaults
	assert.Equal(t, "en", updated.Language)
	assert.True(t, updated.Notifications)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, saved, updated)

	require.Len(t, events, 1)
	assert.Equal(t, notify.KindSettings, events[0].Kind)
}

func TestSettingsService_Update_NotAuthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, sessions, _ := newTestSettingsSvc(t, ctrl)
	expectLoggedOut(sessions)

	dark := true
	_, err := svc.Update(context.Background(), models.SettingsUpdate{DarkMode: &dark})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSettingsService_Theme(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, sessions, hub := newTestSettingsSvc(t, ctrl)
	ctx := context.Background()

	var events []notify.Event
	hub.Subscribe(func(e notify.Event) { events = append(events, e) })

	sessions.EXPECT().Theme(ctx).Return("system", nil)
	sessions.EXPECT().SetTheme(ctx, "dark").Return(nil)

	theme, err := svc.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, "system", theme)

	require.NoError(t, svc.SetTheme(ctx, "dark"))
	require.Len(t, events, 1)
	assert.Equal(t, notify.KindTheme, events[0].Kind)
}
