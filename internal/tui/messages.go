package tui

import (
	"github.com/akaretnikov/welltrack/internal/notify"
	"github.com/akaretnikov/welltrack/models"
)

// NavigateTo switches the login-flow router to another page. An optional
// Payload is re-dispatched to the target page after the switch.
type NavigateTo struct {
	Page    string
	Payload any
}

// LoginResult is produced by the async login and signup commands. A nil
// Err carries the established session and finishes the login flow.
type LoginResult struct {
	Session models.Session
	Err     error
}

type storeChangedMsg struct {
	event notify.Event
}

type entriesLoadedMsg struct {
	entries []models.Entry
	err     error
}

type entrySavedMsg struct {
	err error
}

type entryDeletedMsg struct {
	err error
}

type settingsLoadedMsg struct {
	settings models.Settings
	theme    string
	err      error
}

type settingsSavedMsg struct {
	settings models.Settings
	err      error
}

type themeChangedMsg struct {
	theme string
	err   error
}

type profileSavedMsg struct {
	session models.Session
	err     error
}

type statsLoadedMsg struct {
	stats models.StorageStats
	err   error
}

type exportDoneMsg struct {
	path string
	err  error
}

type importDoneMsg struct {
	imported int
	err      error
}

type clearDoneMsg struct {
	err error
}

type copiedMsg struct{}

type clearStatusMsg struct{}
