package tui

import (
	"strings"

	"tasklist-cli/internal/logging"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Options configures the interactive task list.
type Options struct {
	Logger *log.Logger
	// Theme is light, dark or auto.
	Theme string
	// Glyphs is unicode or ascii.
	Glyphs string
}

// Run starts the TUI against s and blocks until the user quits. The store is
// opened by the TUI itself; the caller closes it afterwards.
func Run(s TaskStore, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)

	m := newAppModel(s, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

type appModel struct {
	store  TaskStore
	log    *log.Logger
	glyphs glyphSet

	width  int
	height int

	focus    focusArea
	input    textinput.Model
	list     list.Model
	keys     keyMap
	help     help.Model
	showHelp bool

	noteVisible     bool
	overflowVisible bool

	storeState storeState
	pending    []storeOp
	inflight   bool
	loaded     int
	nextKey    int
	// Rows whose add is queued or running, by row key.
	saving map[int]bool
	// Rows deleted before their add reported a store id, by row key.
	orphaned map[int]bool
}

func newAppModel(s TaskStore, opts Options) appModel {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	glyphs := glyphsFor(opts.Glyphs)

	m := appModel{
		store:    s,
		log:      logger,
		glyphs:   glyphs,
		width:    defaultWidth,
		height:   defaultHeight,
		focus:    focusInput,
		keys:     newKeyMap(),
		help:     help.New(),
		saving:   map[int]bool{},
		orphaned: map[int]bool{},
	}

	m.input = textinput.New()
	m.input.Placeholder = "What needs doing?"
	m.input.Prompt = "+ "
	m.input.CharLimit = 0
	m.input.Focus()

	m.list = newTaskList(glyphs)
	m.resize()
	return m
}

func newTaskList(glyphs glyphSet) list.Model {
	l := list.New(nil, newRowDelegate(glyphs, false), 0, 0)
	// The surrounding view draws its own chrome.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName("task", "tasks")
	l.KeyMap.CursorUp.SetKeys("up", "k", "ctrl+p")
	l.KeyMap.CursorDown.SetKeys("down", "j", "ctrl+n")
	return l
}

func (m appModel) Init() tea.Cmd {
	return openStoreCmd(m.store)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case storeOpenedMsg, taskStreamMsg, loadDoneMsg, taskAddedMsg, taskDeletedMsg:
		cmd := m.handleStoreMsg(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit), msg.Type == tea.KeyEsc:
			m.showHelp = false
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.SwitchFocus) {
		return m, m.setFocus(1 - m.focus)
	}

	if m.focus == focusInput {
		if key.Matches(msg, m.keys.Add) {
			return m, m.submit(m.input.Value())
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.toggleSelected()
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		return m, m.deleteSelected()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case msg.Type == tea.KeyEsc:
		return m, m.setFocus(focusInput)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *appModel) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	m.list.SetDelegate(newRowDelegate(m.glyphs, f == focusList))
	if f == focusInput {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func (m *appModel) resize() {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	m.input.Width = w - lipgloss.Width(m.input.Prompt) - 1
	m.help.Width = w

	// Title, input, note and footer plus the frame border.
	h := m.height - 10
	if h < 3 {
		h = 3
	}
	m.list.SetSize(w-4, h)
}

func (m appModel) View() string {
	if m.showHelp {
		return m.helpView()
	}

	parts := []string{
		styleTitle().Render("Tasks"),
		m.input.View(),
	}
	if m.noteVisible {
		parts = append(parts, styleNote().Render(noteText))
	}
	if m.overflowVisible {
		parts = append(parts, styleFrame().Render(m.list.View()))
	}
	parts = append(parts, styleFooter().Render(m.help.View(focusedKeys{keys: m.keys, focus: m.focus})))
	return strings.Join(parts, "\n\n")
}
