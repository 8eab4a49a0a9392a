package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sati/internal/models"
	"github.com/desertthunder/sati/internal/records"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MainMenuView ViewState = iota
	NewSessionFormView
	MeditatingView
	PresetsView
	PastSessionsView
)

// Form field indices for the new meditation form.
const (
	durationField = iota
	presetField
	notesField
	fieldCount
)

// Store is the subset of the record access layer the TUI consumes.
type Store interface {
	CreateMeditationSession(ctx context.Context, duration float64, presetID, notes string) (*models.CreateResult, error)
	ListMeditationSessions(ctx context.Context, limit int, cursor string, reverse bool) (*records.SessionPage, error)
	ListPresets(ctx context.Context, limit int, cursor string, reverse bool) (*records.PresetPage, error)
}

// menuEntries are the main menu rows in display order.
var menuEntries = []struct {
	label string
	view  ViewState
}{
	{"Begin meditation", NewSessionFormView},
	{"Presets", PresetsView},
	{"Past sessions", PastSessionsView},
}

type recordsLoadedMsg struct {
	sessions []models.MeditationSession
	presets  []models.Preset
	err      error
}

type sessionSavedMsg struct {
	result *models.CreateResult
	err    error
}

// tickMsg carries the countdown generation that produced it; stale
// generations are dropped, which is how leaving the meditating view cancels
// the timer.
type tickMsg struct {
	seq int
}

// Model represents the TUI application state.
type Model struct {
	ctx   context.Context
	view  ViewState
	store Store
	cache *models.Cache

	width  int
	height int

	status    string
	statusErr bool
	loading   bool

	menuIndex int

	inputs []textinput.Model
	focus  int

	total          int // countdown length in seconds
	remaining      int
	timerSeq       int
	complete       bool
	activePresetID string
	activeNotes    string

	presetList  list.Model
	sessionList list.Model

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, store Store, cache *models.Cache) *Model {
	inputs := make([]textinput.Model, fieldCount)

	duration := textinput.New()
	duration.Placeholder = "minutes (e.g. 10)"
	duration.CharLimit = 6
	duration.Focus()
	inputs[durationField] = duration

	preset := textinput.New()
	preset.Placeholder = "preset (optional)"
	preset.CharLimit = 100
	inputs[presetField] = preset

	notes := textinput.New()
	notes.Placeholder = "notes (optional)"
	notes.CharLimit = 1000
	inputs[notesField] = notes

	if cache == nil {
		cache = models.NewCache()
	}

	return &Model{
		ctx:     ctx,
		view:    MainMenuView,
		store:   store,
		cache:   cache,
		loading: true,
		inputs:  inputs,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by loading records into the cache.
func (m *Model) Init() tea.Cmd {
	return m.loadRecords()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.presetList.SetSize(msg.Width-4, msg.Height-8)
		m.sessionList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tickMsg:
		// A stale generation means the countdown was cancelled.
		if msg.seq != m.timerSeq || m.view != MeditatingView || m.complete {
			return m, nil
		}

		m.remaining--
		if m.remaining <= 0 {
			m.remaining = 0
			m.complete = true
			return m, m.saveSession(float64(m.total), m.activePresetID, m.activeNotes)
		}
		return m, m.tick()

	case recordsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Could not load records: %v", msg.err), true)
			return m, nil
		}
		m.cache.ReplaceSessions(msg.sessions)
		m.cache.ReplacePresets(msg.presets)
		m.rebuildLists()
		return m, nil

	case sessionSavedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Could not save session: %v", msg.err), true)
			return m, nil
		}
		m.setStatus("Session saved", false)
		return m, m.loadRecords()

	case tea.KeyMsg:
		switch m.view {
		case MainMenuView:
			return m.handleMenuKeys(msg)
		case NewSessionFormView:
			return m.handleFormKeys(msg)
		case MeditatingView:
			return m.handleMeditatingKeys(msg)
		case PresetsView:
			return m.handlePresetsKeys(msg)
		case PastSessionsView:
			return m.handleSessionsKeys(msg)
		}
	}

	return m, nil
}

// setView transitions the state machine, cancelling the countdown when
// leaving the meditating view and clearing the status banner when entering
// any non-menu view.
func (m *Model) setView(v ViewState) {
	if m.view == MeditatingView && v != MeditatingView {
		m.timerSeq++
	}
	if v != MainMenuView {
		m.status = ""
		m.statusErr = false
	}
	m.view = v
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// rebuildLists recreates both list models from the cache, so re-entering a
// view always reflects the latest contents.
func (m *Model) rebuildLists() {
	presetItems := make([]list.Item, len(m.cache.Presets()))
	for i, p := range m.cache.Presets() {
		presetItems[i] = presetItem{preset: p}
	}
	m.presetList = list.New(presetItems, list.NewDefaultDelegate(), 0, 0)
	m.presetList.Title = "Presets"
	m.presetList.SetSize(m.width-4, m.height-8)

	sessionItems := make([]list.Item, len(m.cache.Sessions()))
	for i, s := range m.cache.Sessions() {
		sessionItems[i] = sessionItem{session: s}
	}
	m.sessionList = list.New(sessionItems, list.NewDefaultDelegate(), 0, 0)
	m.sessionList.Title = "Past Sessions"
	m.sessionList.SetSize(m.width-4, m.height-8)
}

func (m *Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.up):
		if m.menuIndex > 0 {
			m.menuIndex--
		}
		return m, nil
	case key.Matches(msg, m.keys.down):
		if m.menuIndex < len(menuEntries)-1 {
			m.menuIndex++
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		entry := menuEntries[m.menuIndex]
		m.setView(entry.view)

		switch entry.view {
		case NewSessionFormView:
			m.resetForm()
			return m, nil
		case PresetsView, PastSessionsView:
			m.loading = true
			return m, m.loadRecords()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.setView(MainMenuView)
		return m, nil
	case key.Matches(msg, m.keys.next):
		m.focusField((m.focus + 1) % fieldCount)
		return m, nil
	case key.Matches(msg, m.keys.prev):
		m.focusField((m.focus + fieldCount - 1) % fieldCount)
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if m.focus < fieldCount-1 {
			m.focusField(m.focus + 1)
			return m, nil
		}
		return m.startMeditation()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) handleMeditatingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		// Leaving early cancels the countdown; nothing is recorded.
		m.setView(MainMenuView)
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if m.complete {
			m.setView(MainMenuView)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handlePresetsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.setView(MainMenuView)
		return m, nil
	}

	var cmd tea.Cmd
	m.presetList, cmd = m.presetList.Update(msg)
	return m, cmd
}

func (m *Model) handleSessionsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.setView(MainMenuView)
		return m, nil
	}

	var cmd tea.Cmd
	m.sessionList, cmd = m.sessionList.Update(msg)
	return m, cmd
}

// resetForm clears the form fields and focuses the duration input.
func (m *Model) resetForm() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.focusField(durationField)
}

func (m *Model) focusField(field int) {
	m.focus = field
	for i := range m.inputs {
		if i == field {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// startMeditation validates the form and begins the countdown.
func (m *Model) startMeditation() (tea.Model, tea.Cmd) {
	minutes, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[durationField].Value()), 64)
	if err != nil || minutes <= 0 {
		m.setStatus("Duration must be a positive number of minutes", true)
		return m, nil
	}

	m.activePresetID = strings.TrimSpace(m.inputs[presetField].Value())
	m.activeNotes = strings.TrimSpace(m.inputs[notesField].Value())

	m.total = int(minutes * 60)
	m.remaining = m.total
	m.complete = false

	m.setView(MeditatingView)
	m.timerSeq++
	return m, m.tick()
}

func (m *Model) loadRecords() tea.Cmd {
	return func() tea.Msg {
		sessions, err := m.store.ListMeditationSessions(m.ctx, records.DefaultListLimit, "", false)
		if err != nil {
			return recordsLoadedMsg{err: err}
		}

		presets, err := m.store.ListPresets(m.ctx, records.DefaultListLimit, "", false)
		if err != nil {
			return recordsLoadedMsg{err: err}
		}

		return recordsLoadedMsg{sessions: sessions.Sessions, presets: presets.Presets}
	}
}

func (m *Model) saveSession(duration float64, presetID, notes string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.store.CreateMeditationSession(m.ctx, duration, presetID, notes)
		return sessionSavedMsg{result: result, err: err}
	}
}

// tick schedules the next countdown second, stamped with the current
// timer generation.
func (m *Model) tick() tea.Cmd {
	seq := m.timerSeq
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{seq: seq}
	})
}
