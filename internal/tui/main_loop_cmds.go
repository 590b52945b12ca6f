package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/akaretnikov/welltrack/models"
)

func (m mainLoopModel) cmdWaitForChange() tea.Cmd {
	events, done := m.events, m.done
	return func() tea.Msg {
		select {
		case event := <-events:
			return storeChangedMsg{event: event}
		case <-done:
			return nil
		}
	}
}

func (m mainLoopModel) cmdLoadEntries() tea.Cmd {
	ctx := m.ctx
	svc := m.services.Entries
	return func() tea.Msg {
		entries, err := svc.List(ctx)
		return entriesLoadedMsg{entries: entries, err: err}
	}
}

func (m mainLoopModel) cmdLoadSettings() tea.Cmd {
	ctx := m.ctx
	svc := m.services.Settings
	return func() tea.Msg {
		settings, err := svc.Get(ctx)
		if err != nil {
			return settingsLoadedMsg{err: err}
		}
		theme, err := svc.Theme(ctx)
		return settingsLoadedMsg{settings: settings, theme: theme, err: err}
	}
}

func (m mainLoopModel) cmdCreate(input models.EntryInput) tea.Cmd {
	ctx := m.ctx
	svc := m.services.Entries
	return func() tea.Msg {
		_, err := svc.Create(ctx, input)
		return entrySavedMsg{err: err}
	}
}

func (m mainLoopModel) cmdUpdate(id int64, input models.EntryInput) tea.Cmd {
	ctx := m.ctx
	svc := m.services.Entries
	return func() tea.Msg {
		update := models.EntryUpdate{
			Date:       &input.Date,
			Steps:      &input.Steps,
			SleepHours: &input.SleepHours,
			Mood:       &input.Mood,
			Notes:      &input.Notes,
		}
		_, err := svc.Update(ctx, id, update)
		return entrySavedMsg{err: err}
	}
}

func (m mainLoopModel) cmdDelete(id int64) tea.Cmd {
	ctx := m.ctx
	svc := m.services.Entries
	return func() tea.Msg {
		return entryDeletedMsg{err: svc.Delete(ctx, id)}
	}
}

func (m mainLoopModel) cmdSaveSettings(update models.SettingsUpdate) tea.Cmd {
	ctx := m.ctx
	svc := m.services.Settings
	return func() tea.Msg {
		settings, err := svc.Update(ctx, update)
		return settingsSavedMsg{settings: settings, err: err}
	}
}

// cmdCycleTheme advances light -> dark -> system -> light.
func (m mainLoopModel) cmdCycleTheme() tea.Cmd {
	ctx := m.ctx
	svc := m.services.Settings
	return func() tea.Msg {
		current, err := svc.Theme(ctx)
		if err != nil {
			return themeChangedMsg{err: err}
		}

		var next string
		switch current {
		case "light":
			next = "dark"
		case "dark":
			next = "system"
		default:
			next = "light"
		}

		if err := svc.SetTheme(ctx, next); err != nil {
			return themeChangedMsg{err: err}
		}
		return themeChangedMsg{theme: next}
	}
}

func (m mainLoopModel) cmdSaveProfile(update models.SessionUpdate) tea.Cmd {
	ctx := m.ctx
	svc := m.services.Auth
	return func() tea.Msg {
		session, err := svc.UpdateUser(ctx, update)
		return profileSavedMsg{session: session, err: err}
	}
}

func (m mainLoopModel) cmdLoadStats() tea.Cmd {
	ctx := m.ctx
	svc := m.services.Entries
	return func() tea.Msg {
		stats, err := svc.Stats(ctx)
		return statsLoadedMsg{stats: stats, err: err}
	}
}

func (m mainLoopModel) cmdExportFile(csv bool) tea.Cmd {
	ctx := m.ctx
	svc := m.services.Export
	return func() tea.Msg {
		var (
			data []byte
			err  error
			ext  string
		)
		if csv {
			data, err = svc.ExportCSV(ctx)
			ext = "csv"
		} else {
			data, err = svc.Export(ctx)
			ext = "json"
		}
		if err != nil {
			return exportDoneMsg{err: err}
		}

		path := fmt.Sprintf("wellness-data-%s.%s", time.Now().Format(models.DateLayout), ext)
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return exportDoneMsg{err: fmt.Errorf("write export file: %w", err)}
		}
		return exportDoneMsg{path: path}
	}
}

func (m mainLoopModel) cmdCopyExport() tea.Cmd {
	ctx := m.ctx
	svc := m.services.Export
	return func() tea.Msg {
		data, err := svc.Export(ctx)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		if err := clipboard.WriteAll(string(data)); err != nil {
			return exportDoneMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{}
	}
}

func (m mainLoopModel) cmdImport(path string) tea.Cmd {
	ctx := m.ctx
	svc := m.services.Export
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return importDoneMsg{err: fmt.Errorf("read import file: %w", err)}
		}
		imported, err := svc.Import(ctx, data)
		return importDoneMsg{imported: imported, err: err}
	}
}

func (m mainLoopModel) cmdClearAll() tea.Cmd {
	ctx := m.ctx
	svc := m.services.Entries
	return func() tea.Msg {
		return clearDoneMsg{err: svc.ClearAll(ctx)}
	}
}

// cmdLogout clears the session and then quits, so the store write is done
// before the program hands control back to the app loop.
func (m mainLoopModel) cmdLogout() tea.Cmd {
	ctx := m.ctx
	svc := m.services.Auth
	return func() tea.Msg {
		// Errors here are not actionable from a closing program.
		_ = svc.Logout(ctx)
		return tea.QuitMsg{}
	}
}

func cmdCopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return exportDoneMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{}
	}
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
