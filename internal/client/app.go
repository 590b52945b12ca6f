package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/akaretnikov/welltrack/internal/logger"
	"github.com/akaretnikov/welltrack/internal/service"
	"github.com/akaretnikov/welltrack/internal/tui"
	"github.com/akaretnikov/welltrack/internal/utils"
	"github.com/akaretnikov/welltrack/internal/workers"
	"github.com/akaretnikov/welltrack/models"
)

// App drives the interactive session lifecycle: restore or establish a
// session, run the background workers while the user is signed in, and
// loop back to the login flow after a logout.
type App struct {
	services *service.Services
	tui      *tui.TUI
	workers  *workers.Workers
	logger   *logger.Logger
	runID    string
}

// NewApp wires the application runtime. The worker set is built by the
// caller (see cmd/welltrack) and may be empty.
func NewApp(services *service.Services, ui *tui.TUI, ws *workers.Workers, log *logger.Logger) (*App, error) {
	if services == nil {
		return nil, errors.New("client: services are required")
	}
	if ui == nil {
		return nil, errors.New("client: tui is required")
	}
	if ws == nil {
		ws = workers.New()
	}

	return &App{
		services: services,
		tui:      ui,
		workers:  ws,
		logger:   log,
		runID:    utils.NewUUIDGenerator().Generate(),
	}, nil
}

// Run blocks until the user quits. A logout restarts the cycle with the
// login flow instead of exiting.
func (a *App) Run() error {
	ctx := context.Background()
	log := a.logger.With().Str("run_id", a.runID).Logger()

	for {
		session, err := a.resolveSession(ctx)
		if err != nil {
			if errors.Is(err, tui.ErrUserQuit) {
				return nil
			}
			return err
		}

		log.Info().Str("func", "Run").Int64("user_id", session.ID).Msg("session established")

		a.workers.Run()

		logout, err := a.tui.MainLoop(ctx, session)
		a.workers.Stop()
		if err != nil {
			return fmt.Errorf("main loop: %w", err)
		}
		if !logout {
			return nil
		}

		log.Info().Str("func", "Run").Int64("user_id", session.ID).Msg("user logged out")
	}
}

// resolveSession reuses a still-valid persisted session and falls back to
// the interactive login flow. ValidateSession clears an expired session
// as a side effect, so the fallback always starts from a clean slot.
func (a *App) resolveSession(ctx context.Context) (models.Session, error) {
	if a.services.Auth.ValidateSession(ctx) {
		session, err := a.services.Auth.CurrentUser(ctx)
		if err == nil {
			return session, nil
		}
		a.logger.Warn().Str("func", "resolveSession").Err(err).Msg("stored session unreadable, falling back to login")
	}

	return a.tui.LoginFlow(ctx)
}
