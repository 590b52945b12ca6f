package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/akaretnikov/welltrack/models"
)

func (m mainLoopModel) View() string {
	var body string
	switch m.screen {
	case screenList:
		body = m.viewList()
	case screenDetail:
		body = m.viewDetail()
	case screenForm:
		body = m.viewForm()
	case screenSettings:
		body = m.viewSettings()
	case screenProfile:
		body = m.viewProfile()
	case screenStats:
		body = m.viewStats()
	case screenExport:
		body = m.viewExport()
	case screenImport:
		body = m.viewImport()
	}

	if m.showConfirm {
		body += "\n\n" + m.confirm.View()
	}

	return appStyle.Render(body)
}

func (m mainLoopModel) statusBlock() string {
	out := ""
	if m.errMsg != "" {
		out += errorStyle.Render("Error: "+m.errMsg) + "\n"
	}
	if m.status != "" {
		out += m.status + "\n"
	}
	if out != "" {
		out += "\n"
	}
	return out
}

func (m mainLoopModel) viewList() string {
	title := "WELLNESS TRACKER"
	if m.session.Name != "" {
		title += " │ " + m.session.Name
	}

	out := m.statusBlock()

	if m.loading {
		out += "Loading entries...\n"
		return renderPage(title, strings.TrimRight(out, "\n"), listHotKeys)
	}

	if len(m.entries) == 0 {
		out += "No entries yet. Press n to record your first day.\n"
		return renderPage(title, strings.TrimRight(out, "\n"), listHotKeys)
	}

	out += "Date       │ Steps  │ Sleep │ Mood      │ Notes\n"
	out += "───────────┼────────┼───────┼───────────┼────────────────────\n"
	for i, entry := range m.entries {
		cursor := " "
		if i == m.idx {
			cursor = ">"
		}
		out += fmt.Sprintf(
			"%s %-9s │ %-6d │ %-5s │ %-9s │ %s\n",
			cursor,
			entry.Date,
			entry.Steps,
			strconv.FormatFloat(entry.SleepHours, 'f', -1, 64),
			entry.Mood,
			fitText(entry.Notes, 20),
		)
	}

	return renderPage(title, strings.TrimRight(out, "\n"), listHotKeys)
}

const listHotKeys = "n: new │ e: edit │ d: delete │ s: settings │ p: profile │ v: stats │ x: export │ i: import │ t: theme │ l: logout │ q: quit"

func (m mainLoopModel) viewDetail() string {
	entry, ok := m.current()
	if !ok {
		return renderPage("ENTRY", "Entry not found", "esc: back")
	}

	out := m.statusBlock()
	out += "Date        : " + entry.Date + "\n"
	out += "Steps       : " + strconv.Itoa(entry.Steps) + "\n"
	out += "Sleep hours : " + strconv.FormatFloat(entry.SleepHours, 'f', -1, 64) + "\n"
	out += "Mood        : " + string(entry.Mood) + "\n"
	out += "Notes       : " + valueOrNA(entry.Notes) + "\n"
	out += "Created     : " + entry.CreatedAt.Format("2006-01-02 15:04") + "\n"
	out += "Updated     : " + entry.UpdatedAt.Format("2006-01-02 15:04")
	if entry.ImportedAt != nil {
		out += "\nImported    : " + entry.ImportedAt.Format("2006-01-02 15:04")
	}

	return renderPage("ENTRY "+entry.Date, strings.TrimRight(out, "\n"), "e: edit │ d: delete │ c: copy │ esc: back")
}

func (m mainLoopModel) viewForm() string {
	title := "NEW ENTRY"
	if m.formEditing {
		title = "EDIT ENTRY"
	}

	mood := m.viewMoodPicker()

	out := "Field       │ Value\n"
	out += "────────────┼──────────────────────────────────────────\n"
	out += "Date        │ [" + m.formInputs[0].View() + "]\n"
	out += "Steps       │ [" + m.formInputs[1].View() + "]\n"
	out += "Sleep hours │ [" + m.formInputs[2].View() + "]\n"
	out += "Mood        │ " + mood + "\n"
	out += "Notes       │ [" + m.formInputs[3].View() + "]\n"

	if m.formSaving {
		out += "\n[Saving...]\n"
	} else {
		out += "\n[Save]\n"
	}
	if m.formErr != "" {
		lines := strings.Split(m.formErr, "\n")
		if len(lines) == 1 {
			out += "\n" + errorStyle.Render("Error: "+lines[0]) + "\n"
		} else {
			out += "\n"
			for _, line := range lines {
				out += errorStyle.Render(line) + "\n"
			}
		}
	}

	return renderPage(title, strings.TrimRight(out, "\n"), "tab: next field │ ←/→: mood │ enter: save │ esc: cancel")
}

// viewMoodPicker renders the mood row. The selected mood is bracketed, and
// the whole row is highlighted while it has focus.
func (m mainLoopModel) viewMoodPicker() string {
	parts := make([]string, 0, len(models.Moods))
	for i, mood := range models.Moods {
		label := string(mood)
		if i == m.formMoodIdx {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}

	row := strings.Join(parts, " ")
	if m.formFocus == formRowMood {
		row = titleStyle.Render(row)
	}
	return row
}

func (m mainLoopModel) viewSettings() string {
	onOff := func(v bool) string {
		if v {
			return "on"
		}
		return "off"
	}

	out := m.statusBlock()
	out += "Setting        │ Value\n"
	out += "───────────────┼──────────────────────────────────────\n"
	out += "Notifications  │ " + onOff(m.settings.Notifications) + "\n"
	out += "Dark mode      │ " + onOff(m.settings.DarkMode) + "\n"
	out += "Language       │ [" + m.settingsInputs[0].View() + "]\n"
	out += "Timezone       │ [" + m.settingsInputs[1].View() + "]\n"
	out += "Retention days │ [" + m.settingsInputs[2].View() + "]\n"
	out += "Theme          │ " + valueOrNA(m.theme) + "\n"

	return renderPage(
		"SETTINGS",
		strings.TrimRight(out, "\n"),
		"ctrl+n: notifications │ ctrl+d: dark mode │ tab: next field │ enter: save │ ctrl+x: clear data │ esc: back",
	)
}

func (m mainLoopModel) viewProfile() string {
	out := m.statusBlock()
	out += "Field │ Value\n"
	out += "──────┼──────────────────────────────────────────────\n"
	out += "Name  │ [" + m.profileInputs[0].View() + "]\n"
	out += "Email │ [" + m.profileInputs[1].View() + "]\n"
	out += "\nMember since " + m.session.CreatedAt.Format("2006-01-02") + "\n"
	out += "Signed in    " + m.session.LoginTime.Format("2006-01-02 15:04")

	return renderPage("PROFILE", strings.TrimRight(out, "\n"), "tab: next field │ enter: save │ esc: back")
}

func (m mainLoopModel) viewStats() string {
	out := m.statusBlock()
	if !m.statsLoaded {
		out += "Calculating..."
		return renderPage("STORAGE STATS", strings.TrimRight(out, "\n"), "esc: back")
	}

	out += "Total entries  : " + strconv.Itoa(m.stats.TotalEntries) + "\n"
	out += "Oldest entry   : " + valueOrNA(m.stats.OldestEntry) + "\n"
	out += "Newest entry   : " + valueOrNA(m.stats.NewestEntry) + "\n"
	out += "Entries size   : " + strconv.Itoa(m.stats.Size.Entries) + " B\n"
	out += "Settings size  : " + strconv.Itoa(m.stats.Size.Settings) + " B\n"
	out += "Total size     : " + strconv.Itoa(m.stats.Size.Total) + " B"

	return renderPage("STORAGE STATS", strings.TrimRight(out, "\n"), "r: recalculate │ esc: back")
}

func (m mainLoopModel) viewExport() string {
	out := m.statusBlock()
	out += "Export your entries to a file in the current directory\n"
	out += "or copy the JSON bundle straight to the clipboard."

	return renderPage("EXPORT", strings.TrimRight(out, "\n"), "j: JSON file │ s: CSV file │ c: copy JSON │ esc: back")
}

func (m mainLoopModel) viewImport() string {
	out := m.statusBlock()
	out += "File │ [" + m.importInput.View() + "]\n\n"
	out += "Entries for dates you already track are skipped."

	return renderPage("IMPORT", strings.TrimRight(out, "\n"), "enter: import │ esc: back")
}

func entrySummary(entry models.Entry) string {
	return fmt.Sprintf(
		"%s: %d steps, %s h sleep, mood %s. %s",
		entry.Date,
		entry.Steps,
		strconv.FormatFloat(entry.SleepHours, 'f', -1, 64),
		entry.Mood,
		entry.Notes,
	)
}
