// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/akaretnikov/welltrack/internal/logger"
	"github.com/akaretnikov/welltrack/models"
)

const defaultTheme = "system"

// sessionRepository keeps the authentication flag, the current session
// snapshot and the theme preference in three separate keys.
type sessionRepository struct {
	kv     KeyValue
	logger *logger.Logger
}

func NewSessionRepository(kv KeyValue, logger *logger.Logger) SessionRepository {
	return &sessionRepository{
		kv:     kv,
		logger: logger,
	}
}

func (r *sessionRepository) SaveSession(ctx context.Context, session models.Session) error {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(session)
	if err != nil {
		log.Err(err).
			Str("func", "sessionRepository.SaveSession").
			Msg("failed to encode session")
		return fmt.Errorf("%w: encoding session: %v", ErrStorageUnavailable, err)
	}

	if err = r.kv.Set(ctx, authKey, "true"); err != nil {
		return fmt.Errorf("failed to raise auth flag: %w", err)
	}
	if err = r.kv.Set(ctx, sessionKey, string(payload)); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	return nil
}

func (r *sessionRepository) GetSession(ctx context.Context) (models.Session, error) {
	log := logger.FromContext(ctx)

	raw, err := r.kv.Get(ctx, sessionKey)
	if errors.Is(err, ErrKeyNotFound) {
		return models.Session{}, ErrSessionNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "sessionRepository.GetSession").
			Msg("failed to read session")
		return models.Session{}, fmt.Errorf("failed to read session: %w", err)
	}

	var session models.Session
	if err = json.Unmarshal([]byte(raw), &session); err != nil {
		log.Err(err).
			Str("func", "sessionRepository.GetSession").
			Msg("malformed session record")
		return models.Session{}, ErrSessionNotFound
	}

	return session, nil
}

// ClearSession removes the auth flag and the session snapshot. Clearing
// an already empty slot is not an error.
func (r *sessionRepository) ClearSession(ctx context.Context) error {
	if err := r.kv.Delete(ctx, authKey); err != nil && !errors.Is(err, ErrKeyNotFound) {
		return fmt.Errorf("failed to clear auth flag: %w", err)
	}
	if err := r.kv.Delete(ctx, sessionKey); err != nil && !errors.Is(err, ErrKeyNotFound) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (r *sessionRepository) IsAuthenticated(ctx context.Context) (bool, error) {
	flag, err := r.kv.Get(ctx, authKey)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read auth flag: %w", err)
	}
	if flag != "true" {
		return false, nil
	}

	_, err = r.GetSession(ctx)
	if errors.Is(err, ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (r *sessionRepository) Theme(ctx context.Context) (string, error) {
	theme, err := r.kv.Get(ctx, themeKey)
	if errors.Is(err, ErrKeyNotFound) {
		return defaultTheme, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read theme: %w", err)
	}
	if theme == "" {
		return defaultTheme, nil
	}
	return theme, nil
}

func (r *sessionRepository) SetTheme(ctx context.Context, theme string) error {
	if err := r.kv.Set(ctx, themeKey, theme); err != nil {
		return fmt.Errorf("failed to write theme: %w", err)
	}
	return nil
}
