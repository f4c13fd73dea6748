package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// submit validates the entry text and, when non-empty, adds it as a task.
//
// Blank input only shows the note: no row, no store write, and the input
// field keeps whatever the user typed.
func (m *appModel) submit(raw string) tea.Cmd {
	text := strings.TrimSpace(raw)
	if text == "" {
		m.noteVisible = true
		return nil
	}

	m.noteVisible = false
	m.overflowVisible = true
	r := m.createRow(text, 0)
	m.list.Select(m.rowCount() - 1)
	m.input.Reset()
	if m.storeState != storeFailed {
		m.saving[r.key] = true
	}
	cmd := m.enqueue(addOp(r.key, text))
	m.recompute()
	return cmd
}
