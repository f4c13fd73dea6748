package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Add         key.Binding
	SwitchFocus key.Binding
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	Delete      key.Binding
	Help        key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Add: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add task"),
		),
		SwitchFocus: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch focus"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k", "ctrl+p"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "ctrl+n"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle done"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// focusedKeys exposes only the bindings that apply to the focused area.
type focusedKeys struct {
	keys  keyMap
	focus focusArea
}

var _ help.KeyMap = focusedKeys{}

func (k focusedKeys) ShortHelp() []key.Binding {
	if k.focus == focusInput {
		return []key.Binding{k.keys.Add, k.keys.SwitchFocus, k.keys.ForceQuit}
	}
	return []key.Binding{k.keys.Toggle, k.keys.Delete, k.keys.SwitchFocus, k.keys.Help, k.keys.Quit}
}

func (k focusedKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.keys.Add, k.keys.SwitchFocus},
		{k.keys.Up, k.keys.Down, k.keys.Toggle, k.keys.Delete},
		{k.keys.Help, k.keys.Quit, k.keys.ForceQuit},
	}
}
