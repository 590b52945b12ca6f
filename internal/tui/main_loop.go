package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/akaretnikov/welltrack/internal/notify"
	"github.com/akaretnikov/welltrack/internal/service"
	"github.com/akaretnikov/welltrack/internal/validators"
	"github.com/akaretnikov/welltrack/models"
)

type mainScreen int

const (
	screenList mainScreen = iota
	screenDetail
	screenForm
	screenSettings
	screenProfile
	screenStats
	screenExport
	screenImport
)

// mainLoopModel owns every screen available to a logged-in user. It keeps a
// subscription on the change hub so that entries and settings modified by
// background jobs (retention pruning, session sweeping) show up without a
// manual refresh.
type mainLoopModel struct {
	ctx      context.Context
	services *service.Services
	session  models.Session

	events      chan notify.Event
	done        chan struct{}
	unsubscribe func()

	screen  mainScreen
	entries []models.Entry
	idx     int
	loading bool
	status  string
	errMsg  string
	theme   string

	showConfirm   bool
	confirm       confirmModel
	pendingDelete int64
	pendingClear  bool

	formInputs  []textinput.Model
	formFocus   int
	formMoodIdx int
	formEditing bool
	formEntryID int64
	formSaving  bool
	formErr     string

	settings       models.Settings
	settingsInputs []textinput.Model
	settingsFocus  int

	profileInputs []textinput.Model
	profileFocus  int

	stats       models.StorageStats
	statsLoaded bool

	importInput textinput.Model

	logout bool
}

func newMainLoopModel(ctx context.Context, services *service.Services, hub *notify.Hub, session models.Session) mainLoopModel {
	m := mainLoopModel{
		ctx:      ctx,
		services: services,
		session:  session,
		screen:   screenList,
		loading:  true,
		events:   make(chan notify.Event, 8),
		done:     make(chan struct{}),
	}

	if hub != nil {
		events := m.events
		m.unsubscribe = hub.Subscribe(func(e notify.Event) {
			select {
			case events <- e:
			default:
				// A pending refresh is already queued, dropping is fine.
			}
		})
	}

	return m
}

// close releases the hub subscription and wakes the pending event wait.
// The events channel is never closed: a publish snapshotted before the
// unsubscribe may still be delivering into it. Safe to call on a copy of
// the model because the channels and the cancel func are shared.
func (m mainLoopModel) close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	close(m.done)
}

func (m mainLoopModel) Init() tea.Cmd {
	return tea.Batch(m.cmdLoadEntries(), m.cmdLoadSettings(), m.cmdWaitForChange())
}

func (m mainLoopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case storeChangedMsg:
		// Something mutated the store, possibly a background worker.
		// Reload and re-arm the subscription.
		return m, tea.Batch(m.cmdLoadEntries(), m.cmdLoadSettings(), m.cmdWaitForChange())

	case entriesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.entries = msg.entries
		if m.idx >= len(m.entries) {
			m.idx = len(m.entries) - 1
		}
		if m.idx < 0 {
			m.idx = 0
		}
		return m, nil

	case settingsLoadedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.settings = msg.settings
		m.theme = msg.theme
		return m, nil

	case entrySavedMsg:
		m.formSaving = false
		if msg.err != nil {
			m.formErr = formatSaveError(msg.err)
			return m, nil
		}
		m.formErr = ""
		m.screen = screenList
		m.status = "Entry saved"
		m.loading = true
		return m, tea.Batch(m.cmdLoadEntries(), cmdClearStatus())

	case entryDeletedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.screen = screenList
		m.status = "Entry deleted"
		m.loading = true
		return m, tea.Batch(m.cmdLoadEntries(), cmdClearStatus())

	case settingsSavedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.settings = msg.settings
		m.status = "Settings saved"
		return m, cmdClearStatus()

	case themeChangedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.theme = msg.theme
		m.status = "Theme: " + msg.theme
		return m, cmdClearStatus()

	case profileSavedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.session = msg.session
		m.screen = screenList
		m.status = "Profile updated"
		return m, cmdClearStatus()

	case statsLoadedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.stats = msg.stats
		m.statsLoaded = true
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.status = "Exported to " + msg.path
		return m, cmdClearStatus()

	case importDoneMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.screen = screenList
		m.status = fmt.Sprintf("Imported %d entries", msg.imported)
		m.loading = true
		return m, tea.Batch(m.cmdLoadEntries(), cmdClearStatus())

	case clearDoneMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.screen = screenList
		m.status = "All data cleared"
		m.loading = true
		return m, tea.Batch(m.cmdLoadEntries(), m.cmdLoadSettings(), cmdClearStatus())

	case copiedMsg:
		m.status = "Copied to clipboard"
		return m, cmdClearStatus()

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case tea.WindowSizeMsg:
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateFocusedInput(msg)
	}

	if keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showConfirm {
		return m.updateConfirm(keyMsg)
	}

	switch m.screen {
	case screenList:
		return m.updateList(keyMsg)
	case screenDetail:
		return m.updateDetail(keyMsg)
	case screenForm:
		return m.updateForm(keyMsg)
	case screenSettings:
		return m.updateSettings(keyMsg)
	case screenProfile:
		return m.updateProfile(keyMsg)
	case screenStats:
		return m.updateStats(keyMsg)
	case screenExport:
		return m.updateExport(keyMsg)
	case screenImport:
		return m.updateImport(keyMsg)
	}

	return m, nil
}

// ── per-screen key handling ──────────────────────────────────────────

func (m mainLoopModel) updateConfirm(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, keys.yes):
		m.showConfirm = false
		if m.pendingClear {
			m.pendingClear = false
			return m, m.cmdClearAll()
		}
		if m.pendingDelete != 0 {
			id := m.pendingDelete
			m.pendingDelete = 0
			return m, m.cmdDelete(id)
		}
	case key.Matches(keyMsg, keys.no), key.Matches(keyMsg, keys.esc):
		m.showConfirm = false
		m.pendingDelete = 0
		m.pendingClear = false
	}
	return m, nil
}

func (m mainLoopModel) updateList(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, keys.quit):
		return m, tea.Quit
	case key.Matches(keyMsg, keys.logout):
		m.logout = true
		return m, m.cmdLogout()
	case key.Matches(keyMsg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.idx < len(m.entries)-1 {
			m.idx++
		}
	case key.Matches(keyMsg, keys.enter):
		if _, ok := m.current(); !ok {
			m.status = "No entries yet"
			return m, cmdClearStatus()
		}
		m.screen = screenDetail
	case key.Matches(keyMsg, keys.newEntry):
		m.startForm(nil)
	case key.Matches(keyMsg, keys.edit):
		entry, ok := m.current()
		if !ok {
			m.status = "No entries yet"
			return m, cmdClearStatus()
		}
		m.startForm(&entry)
	case key.Matches(keyMsg, keys.delete):
		entry, ok := m.current()
		if !ok {
			m.status = "No entries yet"
			return m, cmdClearStatus()
		}
		m.showConfirm = true
		m.confirm = confirmModel{message: "Delete entry for " + entry.Date + "?"}
		m.pendingDelete = entry.ID
	case key.Matches(keyMsg, keys.settings):
		m.startSettings()
	case key.Matches(keyMsg, keys.profile):
		m.startProfile()
	case key.Matches(keyMsg, keys.stats):
		m.screen = screenStats
		m.statsLoaded = false
		return m, m.cmdLoadStats()
	case key.Matches(keyMsg, keys.export):
		m.screen = screenExport
	case key.Matches(keyMsg, keys.imprt):
		m.startImport()
		return m, textinput.Blink
	case key.Matches(keyMsg, keys.theme):
		return m, m.cmdCycleTheme()
	case key.Matches(keyMsg, keys.refresh):
		m.loading = true
		return m, m.cmdLoadEntries()
	}
	return m, nil
}

func (m mainLoopModel) updateDetail(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entry, ok := m.current()
	if !ok {
		m.screen = screenList
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.esc):
		m.screen = screenList
	case key.Matches(keyMsg, keys.edit):
		m.startForm(&entry)
	case key.Matches(keyMsg, keys.delete):
		m.showConfirm = true
		m.confirm = confirmModel{message: "Delete entry for " + entry.Date + "?"}
		m.pendingDelete = entry.ID
	case key.Matches(keyMsg, keys.copy):
		return m, cmdCopyToClipboard(entrySummary(entry))
	}
	return m, nil
}

// Form focus order: date, steps, sleep hours, mood picker, notes. The mood
// row is a left/right picker over the known moods rather than a text input.
const (
	formRowDate = iota
	formRowSteps
	formRowSleep
	formRowMood
	formRowNotes
	formRowCount
)

func (m *mainLoopModel) startForm(entry *models.Entry) {
	date := textinput.New()
	date.Placeholder = "YYYY-MM-DD"
	date.CharLimit = 10
	date.Width = 40

	steps := textinput.New()
	steps.Placeholder = "steps"
	steps.CharLimit = 9
	steps.Width = 40

	sleep := textinput.New()
	sleep.Placeholder = "sleep hours"
	sleep.CharLimit = 5
	sleep.Width = 40

	notes := textinput.New()
	notes.Placeholder = "notes (optional)"
	notes.CharLimit = 500
	notes.Width = 40

	m.formMoodIdx = 1 // "good" is a sensible starting point
	if entry != nil {
		date.SetValue(entry.Date)
		steps.SetValue(strconv.Itoa(entry.Steps))
		sleep.SetValue(strconv.FormatFloat(entry.SleepHours, 'f', -1, 64))
		notes.SetValue(entry.Notes)
		for i, mood := range models.Moods {
			if mood == entry.Mood {
				m.formMoodIdx = i
				break
			}
		}
		m.formEditing = true
		m.formEntryID = entry.ID
	} else {
		date.SetValue(time.Now().Format(models.DateLayout))
		m.formEditing = false
		m.formEntryID = 0
	}

	date.Focus()
	m.formInputs = []textinput.Model{date, steps, sleep, notes}
	m.formFocus = formRowDate
	m.formErr = ""
	m.formSaving = false
	m.screen = screenForm
}

// formFieldOrder fixes the display order of per-field validation messages
// to the layout of the form itself.
var formFieldOrder = []struct {
	key   string
	label string
}{
	{validators.FieldDate, "Date"},
	{validators.FieldSteps, "Steps"},
	{validators.FieldSleepHours, "Sleep hours"},
	{validators.FieldMood, "Mood"},
	{validators.FieldNotes, "Notes"},
}

// formatSaveError renders validation failures one field per line so the
// form shows everything that needs fixing at once.
func formatSaveError(err error) string {
	var fieldErrs validators.FieldErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) <= 1 {
		return err.Error()
	}
	msgs := fieldErrs.Messages()
	lines := make([]string, 0, len(msgs))
	for _, f := range formFieldOrder {
		if msg, ok := msgs[f.key]; ok {
			lines = append(lines, f.label+": "+msg)
		}
	}
	return strings.Join(lines, "\n")
}

// formInputIndex maps a focus row to its slot in formInputs. The mood row
// has no input.
func formInputIndex(row int) (int, bool) {
	switch row {
	case formRowDate:
		return 0, true
	case formRowSteps:
		return 1, true
	case formRowSleep:
		return 2, true
	case formRowNotes:
		return 3, true
	}
	return 0, false
}

func (m mainLoopModel) updateForm(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "esc":
		if m.formEditing {
			m.screen = screenDetail
		} else {
			m.screen = screenList
		}
		return m, nil
	case "tab", "shift+tab":
		if idx, ok := formInputIndex(m.formFocus); ok {
			m.formInputs[idx].Blur()
		}
		if keyMsg.String() == "tab" {
			m.formFocus = (m.formFocus + 1) % formRowCount
		} else {
			m.formFocus = (m.formFocus - 1 + formRowCount) % formRowCount
		}
		if idx, ok := formInputIndex(m.formFocus); ok {
			m.formInputs[idx].Focus()
		}
		return m, nil
	case "left":
		if m.formFocus == formRowMood {
			m.formMoodIdx = (m.formMoodIdx - 1 + len(models.Moods)) % len(models.Moods)
			return m, nil
		}
	case "right":
		if m.formFocus == formRowMood {
			m.formMoodIdx = (m.formMoodIdx + 1) % len(models.Moods)
			return m, nil
		}
	case "enter":
		if m.formSaving {
			return m, nil
		}
		input, err := m.collectForm()
		if err != nil {
			m.formErr = err.Error()
			return m, nil
		}
		m.formErr = ""
		m.formSaving = true
		if m.formEditing {
			return m, m.cmdUpdate(m.formEntryID, input)
		}
		return m, m.cmdCreate(input)
	}

	idx, ok := formInputIndex(m.formFocus)
	if !ok {
		return m, nil
	}
	var cmd tea.Cmd
	m.formInputs[idx], cmd = m.formInputs[idx].Update(keyMsg)
	return m, cmd
}

// collectForm parses the numeric fields and assembles the service payload.
// Semantic validation (date format, ranges, mood) is left to the service.
func (m mainLoopModel) collectForm() (models.EntryInput, error) {
	input := models.EntryInput{
		Date:  strings.TrimSpace(m.formInputs[0].Value()),
		Mood:  models.Moods[m.formMoodIdx],
		Notes: strings.TrimSpace(m.formInputs[3].Value()),
	}

	stepsRaw := strings.TrimSpace(m.formInputs[1].Value())
	if stepsRaw != "" {
		steps, err := strconv.Atoi(stepsRaw)
		if err != nil {
			return models.EntryInput{}, fmt.Errorf("steps must be a whole number")
		}
		input.Steps = steps
	}

	sleepRaw := strings.TrimSpace(m.formInputs[2].Value())
	if sleepRaw != "" {
		sleep, err := strconv.ParseFloat(sleepRaw, 64)
		if err != nil {
			return models.EntryInput{}, fmt.Errorf("sleep hours must be a number")
		}
		input.SleepHours = sleep
	}

	return input, nil
}

// Settings focus order: language, timezone, retention days.
func (m *mainLoopModel) startSettings() {
	language := textinput.New()
	language.Placeholder = "language"
	language.CharLimit = 10
	language.Width = 20
	language.SetValue(m.settings.Language)
	language.Focus()

	timezone := textinput.New()
	timezone.Placeholder = "timezone"
	timezone.CharLimit = 60
	timezone.Width = 40
	timezone.SetValue(m.settings.Timezone)

	retention := textinput.New()
	retention.Placeholder = "retention days"
	retention.CharLimit = 5
	retention.Width = 20
	retention.SetValue(strconv.Itoa(m.settings.DataRetentionDays))

	m.settingsInputs = []textinput.Model{language, timezone, retention}
	m.settingsFocus = 0
	m.screen = screenSettings
}

func (m mainLoopModel) updateSettings(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "esc":
		m.screen = screenList
		return m, nil
	case "tab":
		m.settingsInputs[m.settingsFocus].Blur()
		m.settingsFocus = (m.settingsFocus + 1) % len(m.settingsInputs)
		m.settingsInputs[m.settingsFocus].Focus()
		return m, nil
	case "shift+tab":
		m.settingsInputs[m.settingsFocus].Blur()
		m.settingsFocus = (m.settingsFocus - 1 + len(m.settingsInputs)) % len(m.settingsInputs)
		m.settingsInputs[m.settingsFocus].Focus()
		return m, nil
	case "ctrl+n":
		m.settings.Notifications = !m.settings.Notifications
		return m, nil
	case "ctrl+d":
		m.settings.DarkMode = !m.settings.DarkMode
		return m, nil
	case "ctrl+x":
		m.showConfirm = true
		m.confirm = confirmModel{message: "Delete all your entries and settings?"}
		m.pendingClear = true
		return m, nil
	case "enter":
		update, err := m.collectSettings()
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		return m, m.cmdSaveSettings(update)
	}

	var cmd tea.Cmd
	m.settingsInputs[m.settingsFocus], cmd = m.settingsInputs[m.settingsFocus].Update(keyMsg)
	return m, cmd
}

func (m mainLoopModel) collectSettings() (models.SettingsUpdate, error) {
	language := strings.TrimSpace(m.settingsInputs[0].Value())
	timezone := strings.TrimSpace(m.settingsInputs[1].Value())
	retentionRaw := strings.TrimSpace(m.settingsInputs[2].Value())

	update := models.SettingsUpdate{
		Notifications: &m.settings.Notifications,
		DarkMode:      &m.settings.DarkMode,
	}
	if language != "" {
		update.Language = &language
	}
	if timezone != "" {
		update.Timezone = &timezone
	}
	if retentionRaw != "" {
		retention, err := strconv.Atoi(retentionRaw)
		if err != nil || retention < 0 {
			return models.SettingsUpdate{}, fmt.Errorf("retention days must be a non-negative whole number")
		}
		update.DataRetentionDays = &retention
	}

	return update, nil
}

func (m *mainLoopModel) startProfile() {
	name := textinput.New()
	name.Placeholder = "name"
	name.CharLimit = 120
	name.Width = 40
	name.SetValue(m.session.Name)
	name.Focus()

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Width = 40
	email.SetValue(m.session.Email)

	m.profileInputs = []textinput.Model{name, email}
	m.profileFocus = 0
	m.screen = screenProfile
}

func (m mainLoopModel) updateProfile(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "esc":
		m.screen = screenList
		return m, nil
	case "tab", "shift+tab":
		m.profileInputs[m.profileFocus].Blur()
		m.profileFocus = (m.profileFocus + 1) % len(m.profileInputs)
		m.profileInputs[m.profileFocus].Focus()
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.profileInputs[0].Value())
		email := strings.TrimSpace(m.profileInputs[1].Value())
		if name == "" || email == "" {
			m.errMsg = "Name and email are required"
			return m, nil
		}
		m.errMsg = ""
		return m, m.cmdSaveProfile(models.SessionUpdate{Name: &name, Email: &email})
	}

	var cmd tea.Cmd
	m.profileInputs[m.profileFocus], cmd = m.profileInputs[m.profileFocus].Update(keyMsg)
	return m, cmd
}

func (m mainLoopModel) updateStats(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, keys.esc):
		m.screen = screenList
	case key.Matches(keyMsg, keys.refresh):
		m.statsLoaded = false
		return m, m.cmdLoadStats()
	}
	return m, nil
}

func (m mainLoopModel) updateExport(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "esc":
		m.screen = screenList
	case "j":
		return m, m.cmdExportFile(false)
	case "s":
		return m, m.cmdExportFile(true)
	case "c":
		return m, m.cmdCopyExport()
	}
	return m, nil
}

func (m *mainLoopModel) startImport() {
	path := textinput.New()
	path.Placeholder = "/path/to/export.json"
	path.CharLimit = 256
	path.Width = 50
	path.Focus()
	m.importInput = path
	m.screen = screenImport
}

func (m mainLoopModel) updateImport(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "esc":
		m.screen = screenList
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.importInput.Value())
		if path == "" {
			m.errMsg = "File path is required"
			return m, nil
		}
		m.errMsg = ""
		return m, m.cmdImport(path)
	}

	var cmd tea.Cmd
	m.importInput, cmd = m.importInput.Update(keyMsg)
	return m, cmd
}

// updateFocusedInput forwards non-key messages (cursor blinks) to whichever
// text input currently has focus.
func (m mainLoopModel) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case screenForm:
		if idx, ok := formInputIndex(m.formFocus); ok {
			m.formInputs[idx], cmd = m.formInputs[idx].Update(msg)
		}
	case screenSettings:
		m.settingsInputs[m.settingsFocus], cmd = m.settingsInputs[m.settingsFocus].Update(msg)
	case screenProfile:
		m.profileInputs[m.profileFocus], cmd = m.profileInputs[m.profileFocus].Update(msg)
	case screenImport:
		m.importInput, cmd = m.importInput.Update(msg)
	}
	return m, cmd
}

func (m mainLoopModel) current() (models.Entry, bool) {
	if len(m.entries) == 0 || m.idx < 0 || m.idx >= len(m.entries) {
		return models.Entry{}, false
	}
	return m.entries[m.idx], true
}
