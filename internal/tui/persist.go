package tui

import (
	"context"

	"tasklist-cli/internal/model"
	"tasklist-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// TaskStore is what the controller needs from the persistence layer.
type TaskStore interface {
	Open(ctx context.Context) error
	Add(ctx context.Context, text string) (model.Task, error)
	Tasks(ctx context.Context) (*store.Cursor, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
}

type storeState int

const (
	storeOpening storeState = iota
	storeLoading
	storeReady
	storeFailed
)

func (s storeState) String() string {
	switch s {
	case storeOpening:
		return "opening"
	case storeLoading:
		return "loading"
	case storeReady:
		return "ready"
	default:
		return "failed"
	}
}

// Store results. Every store call runs in a tea.Cmd and reports back with one
// of these.
type (
	storeOpenedMsg struct{ err error }

	taskStreamMsg struct {
		cur  *store.Cursor
		task model.Task
	}

	loadDoneMsg struct{ err error }

	taskAddedMsg struct {
		key  int
		text string
		task model.Task
		err  error
	}

	taskDeletedMsg struct {
		id      int64
		text    string
		deleted bool
		err     error
	}
)

// storeOp is a store request waiting for the store to become ready.
type storeOp struct {
	name string
	run  func(ctx context.Context, s TaskStore) tea.Msg
}

func addOp(key int, text string) storeOp {
	return storeOp{name: "add", run: func(ctx context.Context, s TaskStore) tea.Msg {
		task, err := s.Add(ctx, text)
		return taskAddedMsg{key: key, text: text, task: task, err: err}
	}}
}

func deleteByIDOp(id int64, text string) storeOp {
	return storeOp{name: "delete", run: func(ctx context.Context, s TaskStore) tea.Msg {
		ok, err := s.DeleteByID(ctx, id)
		return taskDeletedMsg{id: id, text: text, deleted: ok, err: err}
	}}
}

func openStoreCmd(s TaskStore) tea.Cmd {
	return func() tea.Msg {
		return storeOpenedMsg{err: s.Open(context.Background())}
	}
}

func loadTasksCmd(s TaskStore) tea.Cmd {
	return func() tea.Msg {
		cur, err := s.Tasks(context.Background())
		if err != nil {
			return loadDoneMsg{err: err}
		}
		return nextTask(cur)
	}
}

// nextTask advances the cursor by one record. End of sequence is reported as
// loadDoneMsg, never as another taskStreamMsg.
func nextTask(cur *store.Cursor) tea.Msg {
	if cur.Next() {
		return taskStreamMsg{cur: cur, task: cur.Task()}
	}
	err := cur.Err()
	_ = cur.Close()
	return loadDoneMsg{err: err}
}

func (m *appModel) runOp(op storeOp) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return op.run(context.Background(), s)
	}
}

// enqueue queues op behind earlier store requests. Requests run one at a time
// in the order they were made; nothing runs until the load has finished.
// After an open failure requests are dropped.
func (m *appModel) enqueue(op storeOp) tea.Cmd {
	if m.storeState == storeFailed {
		m.log.Warn("task store unavailable; change kept for this session only", "op", op.name)
		return nil
	}
	m.pending = append(m.pending, op)
	if m.storeState != storeReady {
		m.log.Debug("store request buffered", "op", op.name, "state", m.storeState)
	}
	return m.pump()
}

// pump starts the next queued request unless one is already in flight.
func (m *appModel) pump() tea.Cmd {
	if m.storeState != storeReady || m.inflight || len(m.pending) == 0 {
		return nil
	}
	op := m.pending[0]
	m.pending = m.pending[1:]
	m.inflight = true
	return m.runOp(op)
}

func (m *appModel) handleStoreMsg(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case storeOpenedMsg:
		if msg.err != nil {
			m.storeState = storeFailed
			m.log.Error("could not open task store", "err", msg.err)
			if n := len(m.pending); n > 0 {
				m.log.Warn("dropping store requests", "count", n)
				m.pending = nil
			}
			m.saving = map[int]bool{}
			m.orphaned = map[int]bool{}
			m.recompute()
			return nil
		}
		m.storeState = storeLoading
		return loadTasksCmd(m.store)

	case taskStreamMsg:
		m.createRow(msg.task.Text, msg.task.ID)
		m.loaded++
		cur := msg.cur
		return func() tea.Msg { return nextTask(cur) }

	case loadDoneMsg:
		if msg.err != nil {
			m.log.Error("could not load tasks", "err", msg.err)
		} else {
			m.log.Info("tasks loaded", "count", m.loaded)
		}
		m.storeState = storeReady
		m.recompute()
		return m.pump()

	case taskAddedMsg:
		m.inflight = false
		return tea.Batch(m.taskAdded(msg), m.pump())

	case taskDeletedMsg:
		m.inflight = false
		switch {
		case msg.err != nil:
			m.log.Error("could not delete task", "id", msg.id, "err", msg.err)
		case !msg.deleted:
			m.log.Warn("task already gone", "id", msg.id, "text", msg.text)
		default:
			m.log.Info("task deleted", "id", msg.id)
		}
		return m.pump()
	}
	return nil
}

func (m *appModel) taskAdded(msg taskAddedMsg) tea.Cmd {
	delete(m.saving, msg.key)
	orphan := m.orphaned[msg.key]
	delete(m.orphaned, msg.key)

	if msg.err != nil {
		m.log.Error("could not save task", "text", msg.text, "err", msg.err)
		return nil
	}
	m.log.Info("task saved", "id", msg.task.ID)
	if orphan {
		return m.enqueue(deleteByIDOp(msg.task.ID, msg.task.Text))
	}
	if i := m.rowIndex(msg.key); i >= 0 {
		r := m.list.Items()[i].(taskRow)
		r.id = msg.task.ID
		_ = m.list.SetItem(i, r)
	}
	return nil
}
