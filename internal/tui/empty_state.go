package tui

const noteText = "No tasks yet. Type one above and press enter."

// recompute derives note and overflow visibility from the live row count.
func (m *appModel) recompute() {
	hasRows := m.rowCount() > 0
	m.noteVisible = !hasRows
	m.overflowVisible = hasRows
}
