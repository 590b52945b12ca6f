package service

import (
	"context"
	"time"

	"github.com/akaretnikov/welltrack/internal/logger"
	"github.com/akaretnikov/welltrack/internal/notify"
	"github.com/akaretnikov/welltrack/internal/store"
	"github.com/akaretnikov/welltrack/models"
)

type settingsService struct {
	settings store.SettingsRepository
	sessions store.SessionRepository
	hub      *notify.Hub
	logger   *logger.Logger
}

func NewSettingsService(settings store.SettingsRepository, sessions store.SessionRepository, hub *notify.Hub, log *logger.Logger) SettingsService {
	return &settingsService{
		settings: settings,
		sessions: sessions,
		hub:      hub,
		logger:   log,
	}
}

func (s *settingsService) currentSession(ctx context.Context) (models.Session, error) {
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

// Get returns the stored bag when one exists and the defaults otherwise.
// Update always persists complete bags, so no field-level merge is needed
// on the read path: a stored false must stay false.
func (s *settingsService) Get(ctx context.Context) (models.Settings, error) {
	session, err := s.currentSession(ctx)
	if err != nil {
		return models.DefaultSettings(), nil
	}

	stored, found, err := s.settings.SettingsFor(ctx, session.ID)
	if err != nil {
		return models.Settings{}, err
	}
	if !found {
		return models.DefaultSettings(), nil
	}

	return stored, nil
}

func (s *settingsService) Update(ctx context.Context, update models.SettingsUpdate) (models.Settings, error) {
	log := logger.FromContext(ctx)

	session, err := s.currentSession(ctx)
	if err != nil {
		return models.Settings{}, err
	}

	current, err := s.Get(ctx)
	if err != nil {
		return models.Settings{}, err
	}

	update.Apply(&current)
	now := time.Now()
	current.UpdatedAt = &now

	if err = s.settings.SaveSettingsFor(ctx, session.ID, current); err != nil {
		return models.Settings{}, err
	}

	s.hub.Publish(notify.Event{Kind: notify.KindSettings, UserID: session.ID})

	log.Info().
		Str("func", "settingsService.Update").
		Int64("user_id", session.ID).
		Msg("settings updated")

	return current, nil
}

func (s *settingsService) Theme(ctx context.Context) (string, error) {
	return s.sessions.Theme(ctx)
}

func (s *settingsService) SetTheme(ctx context.Context, theme string) error {
	if err := s.sessions.SetTheme(ctx, theme); err != nil {
		return err
	}

	s.hub.Publish(notify.Event{Kind: notify.KindTheme})
	return nil
}
