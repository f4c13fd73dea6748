package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// taskRow is one visible task.
//
// key identifies the row for the lifetime of the session. id is the store id
// and stays 0 until the add that created the row reports back.
type taskRow struct {
	key  int
	id   int64
	text string
	done bool
}

func (r taskRow) FilterValue() string { return r.text }

// createRow appends a new, unchecked row to the end of the list.
func (m *appModel) createRow(text string, id int64) taskRow {
	m.nextKey++
	r := taskRow{key: m.nextKey, id: id, text: text}
	_ = m.list.InsertItem(len(m.list.Items()), r)
	return r
}

func (m *appModel) rowCount() int { return len(m.list.Items()) }

func (m *appModel) rowIndex(key int) int {
	for i, it := range m.list.Items() {
		if r, ok := it.(taskRow); ok && r.key == key {
			return i
		}
	}
	return -1
}

func (m *appModel) rows() []taskRow {
	items := m.list.Items()
	out := make([]taskRow, 0, len(items))
	for _, it := range items {
		if r, ok := it.(taskRow); ok {
			out = append(out, r)
		}
	}
	return out
}

// toggleSelected flips the completion mark of the focused row. View only:
// nothing is persisted.
func (m *appModel) toggleSelected() {
	r, ok := m.list.SelectedItem().(taskRow)
	if !ok {
		return
	}
	r.done = !r.done
	_ = m.list.SetItem(m.list.Index(), r)
}

// deleteSelected removes the focused row, deletes its task from the store and
// recomputes the empty state.
func (m *appModel) deleteSelected() tea.Cmd {
	r, ok := m.list.SelectedItem().(taskRow)
	if !ok {
		return nil
	}
	m.list.RemoveItem(m.list.Index())
	if n := m.rowCount(); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
	cmd := m.deleteTask(r)
	m.recompute()
	return cmd
}

// deleteTask removes the row's task from the store. A row whose add is still
// queued or running is remembered and deleted once the id arrives; a row that
// was never saved has nothing to delete.
func (m *appModel) deleteTask(r taskRow) tea.Cmd {
	if r.id != 0 {
		return m.enqueue(deleteByIDOp(r.id, r.text))
	}
	if !m.saving[r.key] {
		m.log.Debug("row was never saved; nothing to delete", "text", r.text)
		return nil
	}
	m.orphaned[r.key] = true
	m.log.Debug("delete deferred until add completes", "text", r.text)
	return nil
}
