// Package tui implements the interactive terminal front end of the
// tracker on top of Bubble Tea. The login flow and the main loop run as
// two separate programs: LoginFlow routes between the menu, login and
// registration pages until a session is established, and MainLoop owns
// every screen available to a logged-in user.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/akaretnikov/welltrack/internal/logger"
	"github.com/akaretnikov/welltrack/internal/notify"
	"github.com/akaretnikov/welltrack/internal/service"
	"github.com/akaretnikov/welltrack/models"
)

// ErrUserQuit reports that the user closed the program from the login
// flow instead of authenticating.
var ErrUserQuit = errors.New("user quit")

// TUI bundles everything the terminal front end needs to run.
type TUI struct {
	services  *service.Services
	hub       *notify.Hub
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

// New creates a TUI over the given service layer and change hub.
func New(services *service.Services, hub *notify.Hub, buildInfo models.AppBuildInfo, log *logger.Logger) (*TUI, error) {
	if services == nil {
		return nil, errors.New("tui: services are required")
	}
	return &TUI{services: services, hub: hub, buildInfo: buildInfo, logger: log}, nil
}

// LoginFlow runs the menu/login/registration pages until the user
// authenticates or quits. Returns the established session on success and
// ErrUserQuit when the user left without logging in.
func (t *TUI) LoginFlow(ctx context.Context) (models.Session, error) {
	pages := map[string]tea.Model{
		"menu":     NewMenuModel(),
		"login":    NewLoginModel(ctx, t.services.Auth),
		"register": NewRegisterModel(ctx, t.services.Auth),
	}

	root := NewRootModel(pages, "menu", t.buildInfo)
	finalModel, runErr := tea.NewProgram(root, tea.WithAltScreen()).Run()
	if runErr != nil {
		return models.Session{}, runErr
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return models.Session{}, tea.ErrProgramKilled
	}
	if result.quitByUser {
		return models.Session{}, ErrUserQuit
	}

	return result.resultSession, nil
}

// MainLoop runs the logged-in screens until the user logs out or quits.
// Returns logout=true when the session was ended explicitly and the
// login flow should run again.
func (t *TUI) MainLoop(ctx context.Context, session models.Session) (logout bool, err error) {
	model := newMainLoopModel(ctx, t.services, t.hub, session)
	finalModel, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	model.close()
	if runErr != nil {
		return false, runErr
	}

	result, ok := finalModel.(mainLoopModel)
	if !ok {
		return false, tea.ErrProgramKilled
	}
	return result.logout, nil
}
