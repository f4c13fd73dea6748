package tui

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tasklist-cli/internal/logging"
	"tasklist-cli/internal/model"
	"tasklist-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	xansi "github.com/charmbracelet/x/ansi"
)

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyDel   = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}}
	keyHelp  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}}
)

// drain runs cmd and every command it leads to, feeding each message back
// into the model. Only store commands are expected here; none of them block.
func drain(t *testing.T, m appModel, cmd tea.Cmd) appModel {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 1000 {
			t.Fatalf("command chain did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch msg := msg.(type) {
		case nil:
			continue
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		}
		next, nc := m.Update(msg)
		m = next.(appModel)
		queue = append(queue, nc)
	}
	return m
}

// drainAsync runs commands the way the bubbletea runtime does, each in its own
// goroutine, feeding results back into the model as they arrive.
func drainAsync(t *testing.T, m appModel, cmd tea.Cmd) appModel {
	t.Helper()
	msgs := make(chan tea.Msg)
	running := 0
	start := func(c tea.Cmd) {
		if c == nil {
			return
		}
		running++
		go func() { msgs <- c() }()
	}
	start(cmd)
	for steps := 0; running > 0; steps++ {
		if steps > 10000 {
			t.Fatalf("command chain did not settle")
		}
		msg := <-msgs
		running--
		switch msg := msg.(type) {
		case nil:
			continue
		case tea.BatchMsg:
			for _, c := range msg {
				start(c)
			}
			continue
		}
		next, nc := m.Update(msg)
		m = next.(appModel)
		start(nc)
	}
	return m
}

func press(m appModel, msg tea.KeyMsg) (appModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(appModel), cmd
}

func submitText(t *testing.T, m appModel, text string) appModel {
	t.Helper()
	m.input.SetValue(text)
	m, cmd := press(m, keyEnter)
	return drain(t, m, cmd)
}

func openTestGateway(t *testing.T, path string) *store.Gateway {
	t.Helper()
	gw := store.New(path)
	t.Cleanup(func() { _ = gw.Close() })
	return gw
}

func startModel(t *testing.T, s TaskStore) appModel {
	t.Helper()
	m := newAppModel(s, Options{})
	return drain(t, m, m.Init())
}

func storedTasks(t *testing.T, path string) []model.Task {
	t.Helper()
	gw := store.New(path)
	defer gw.Close()
	if err := gw.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	tasks, err := gw.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	return tasks
}

func rowTexts(m appModel) []string {
	var out []string
	for _, r := range m.rows() {
		out = append(out, r.text)
	}
	return out
}

func TestStartup_EmptyStoreShowsNoteAndHidesOverflow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.sqlite")
	m := startModel(t, openTestGateway(t, path))

	if m.storeState != storeReady {
		t.Fatalf("expected store ready, got %v", m.storeState)
	}
	if !m.noteVisible || m.overflowVisible {
		t.Fatalf("expected note shown and overflow hidden, got note=%v overflow=%v", m.noteVisible, m.overflowVisible)
	}
	if !strings.Contains(xansi.Strip(m.View()), noteText) {
		t.Fatalf("expected note in view, got:\n%s", m.View())
	}
}

func TestStartup_LoadsStoredTasksInOrderUnchecked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.sqlite")
	gw := store.New(path)
	if err := gw.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, text := range []string{"one", "two", "three"} {
		if _, err := gw.Add(context.Background(), text); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	_ = gw.Close()

	m := startModel(t, openTestGateway(t, path))
	if got := strings.Join(rowTexts(m), ","); got != "one,two,three" {
		t.Fatalf("expected rows in store order, got %q", got)
	}
	for _, r := range m.rows() {
		if r.done {
			t.Fatalf("expected loaded rows unchecked, got %+v", r)
		}
		if r.id == 0 {
			t.Fatalf("expected loaded rows to carry store ids, got %+v", r)
		}
	}
	if m.noteVisible || !m.overflowVisible {
		t.Fatalf("expected note hidden and overflow shown after load")
	}
	if m.loaded != 3 {
		t.Fatalf("expected 3 loaded, got %d", m.loaded)
	}
}

func TestSubmit_BlankInputShowsNoteWithoutWriting(t *testing.T) {
	cases := []string{"", " ", "\t  \n"}
	for _, in := range cases {
		path := filepath.Join(t.TempDir(), "tasks.sqlite")
		m := startModel(t, openTestGateway(t, path))
		m.noteVisible = false

		m.input.SetValue(in)
		before := m.input.Value()
		m, cmd := press(m, keyEnter)
		if cmd != nil {
			t.Fatalf("input %q: expected no store command", in)
		}
		if m.rowCount() != 0 {
			t.Fatalf("input %q: expected no rows, got %d", in, m.rowCount())
		}
		if !m.noteVisible {
			t.Fatalf("input %q: expected note shown", in)
		}
		if m.input.Value() != before {
			t.Fatalf("input %q: expected input untouched, got %q", in, m.input.Value())
		}
		if got := storedTasks(t, path); len(got) != 0 {
			t.Fatalf("input %q: expected no stored tasks, got %+v", in, got)
		}
	}
}

func TestSubmit_AddsOneRowAndOneRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.sqlite")
	m := startModel(t, openTestGateway(t, path))

	m = submitText(t, m, "  Buy milk  ")

	rows := m.rows()
	if len(rows) != 1 || rows[0].text != "Buy milk" || rows[0].done {
		t.Fatalf("expected one unchecked Buy milk row, got %+v", rows)
	}
	if rows[0].id == 0 {
		t.Fatalf("expected row to carry the store id after save")
	}
	if m.input.Value() != "" {
		t.Fatalf("expected input cleared, got %q", m.input.Value())
	}
	if m.noteVisible || !m.overflowVisible {
		t.Fatalf("expected note hidden and overflow shown")
	}
	got := storedTasks(t, path)
	if len(got) != 1 || got[0].Text != "Buy milk" || got[0].ID != rows[0].id {
		t.Fatalf("expected one stored Buy milk matching the row, got %+v", got)
	}
}

func TestSubmit_PersistsAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.sqlite")
	gw := store.New(path)
	m := startModel(t, gw)
	m = submitText(t, m, "Buy milk")
	_ = gw.Close()

	m2 := startModel(t, openTestGateway(t, path))
	rows := m2.rows()
	if len(rows) != 1 || rows[0].text != "Buy milk" || rows[0].done {
		t.Fatalf("expected Buy milk reloaded unchecked, got %+v", rows)
	}
}

func TestToggle_IsViewOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.sqlite")
	gw := store.New(path)
	m := startModel(t, gw)
	m = submitText(t, m, "Walk dog")

	m, _ = press(m, keyTab)
	m, cmd := press(m, keySpace)
	if cmd != nil {
		t.Fatalf("expected toggle to issue no command")
	}
	if !m.rows()[0].done {
		t.Fatalf("expected row checked after toggle")
	}
	m, _ = press(m, keySpace)
	if m.rows()[0].done {
		t.Fatalf("expected row unchecked after second toggle")
	}
	_, _ = press(m, keySpace)
	_ = gw.Close()

	m2 := startModel(t, openTestGateway(t, path))
	if rows := m2.rows(); len(rows) != 1 || rows[0].done {
		t.Fatalf("expected completion mark lost on reload, got %+v", rows)
	}
}

func TestScenario_AddThenDeleteRestoresEmptyState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.sqlite")
	m := startModel(t, openTestGateway(t, path))
	if !m.noteVisible || m.overflowVisible {
		t.Fatalf("expected empty state at start")
	}

	m = submitText(t, m, "Task A")
	if m.rowCount() != 1 || m.noteVisible || !m.overflowVisible {
		t.Fatalf("expected one row with overflow shown, rows=%d note=%v overflow=%v", m.rowCount(), m.noteVisible, m.overflowVisible)
	}

	m, _ = press(m, keyTab)
	m, cmd := press(m, keyDel)
	m = drain(t, m, cmd)

	if m.rowCount() != 0 {
		t.Fatalf("expected no rows, got %d", m.rowCount())
	}
	if !m.noteVisible || m.overflowVisible {
		t.Fatalf("expected note shown and overflow hidden after last delete")
	}
	if got := storedTasks(t, path); len(got) != 0 {
		t.Fatalf("expected store empty, got %+v", got)
	}
}

func TestDelete_DuplicateTextRemovesOnlyThatRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.sqlite")
	m := startModel(t, openTestGateway(t, path))
	m = submitText(t, m, "dup")
	m = submitText(t, m, "dup")
	rows := m.rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	first := rows[0].id

	// The last added row stays selected.
	m, _ = press(m, keyTab)
	m, cmd := press(m, keyDel)
	m = drain(t, m, cmd)

	if m.rowCount() != 1 {
		t.Fatalf("expected 1 row left, got %d", m.rowCount())
	}
	got := storedTasks(t, path)
	if len(got) != 1 || got[0].ID != first {
		t.Fatalf("expected only the first record left (id %d), got %+v", first, got)
	}
}

func TestDelete_BeforeAddCompletesStillDeletesRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.sqlite")
	m := startModel(t, openTestGateway(t, path))

	m.input.SetValue("racy")
	m, addCmd := press(m, keyEnter)
	if addCmd == nil {
		t.Fatalf("expected add command")
	}

	m, _ = press(m, keyTab)
	m, delCmd := press(m, keyDel)
	if delCmd != nil {
		t.Fatalf("expected delete to wait for the add")
	}
	if len(m.orphaned) != 1 {
		t.Fatalf("expected one orphaned row, got %v", m.orphaned)
	}

	m = drain(t, m, addCmd)
	if len(m.orphaned) != 0 {
		t.Fatalf("expected orphan resolved, got %v", m.orphaned)
	}
	if got := storedTasks(t, path); len(got) != 0 {
		t.Fatalf("expected record deleted once its id arrived, got %+v", got)
	}
}

func TestStoreRequests_BufferedUntilLoadCompletes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.sqlite")
	m := newAppModel(openTestGateway(t, path), Options{})
	initCmd := m.Init()

	var want []string
	for i := 0; i < 20; i++ {
		text := fmt.Sprintf("early %02d", i)
		want = append(want, text)
		m.input.SetValue(text)
		var cmd tea.Cmd
		m, cmd = press(m, keyEnter)
		if cmd != nil {
			t.Fatalf("expected add %d to be buffered while opening", i)
		}
	}
	if len(m.pending) != 20 || m.rowCount() != 20 {
		t.Fatalf("expected 20 pending ops and 20 rows, got pending=%d rows=%d", len(m.pending), m.rowCount())
	}

	m = drainAsync(t, m, initCmd)
	if len(m.pending) != 0 || m.inflight {
		t.Fatalf("expected queue empty, got pending=%d inflight=%v", len(m.pending), m.inflight)
	}
	if got := strings.Join(rowTexts(m), ","); got != strings.Join(want, ",") {
		t.Fatalf("expected rows in typed order, got %q", got)
	}
	var stored []string
	for _, task := range storedTasks(t, path) {
		stored = append(stored, task.Text)
	}
	if strings.Join(stored, ",") != strings.Join(want, ",") {
		t.Fatalf("expected store in typed order, got %v", stored)
	}
}

func TestStoreRequests_RunOneAtATimeInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.sqlite")
	m := startModel(t, openTestGateway(t, path))

	var (
		want []string
		cmds []tea.Cmd
	)
	for i := 0; i < 10; i++ {
		text := fmt.Sprintf("quick %02d", i)
		want = append(want, text)
		m.input.SetValue(text)
		var cmd tea.Cmd
		m, cmd = press(m, keyEnter)
		cmds = append(cmds, cmd)
	}
	if cmds[0] == nil {
		t.Fatalf("expected the first add to start right away")
	}
	for i, cmd := range cmds[1:] {
		if cmd != nil {
			t.Fatalf("expected add %d to wait for the one in flight", i+1)
		}
	}

	// Delete the second row while its add is still queued.
	m, _ = press(m, keyTab)
	m.list.Select(1)
	m, delCmd := press(m, keyDel)
	if delCmd != nil {
		t.Fatalf("expected delete to wait for the queued add")
	}
	want = append(want[:1], want[2:]...)

	m = drainAsync(t, m, tea.Batch(cmds...))
	if len(m.saving) != 0 || len(m.orphaned) != 0 {
		t.Fatalf("expected no outstanding rows, saving=%v orphaned=%v", m.saving, m.orphaned)
	}
	got := storedTasks(t, path)
	var stored []string
	for i, task := range got {
		stored = append(stored, task.Text)
		if r := m.rows()[i]; r.id != task.ID {
			t.Fatalf("row %d: expected id %d, got %d", i, task.ID, r.id)
		}
	}
	if strings.Join(stored, ",") != strings.Join(want, ",") {
		t.Fatalf("expected store in typed order, got %v", stored)
	}
}

func TestOpenFailure_ViewStaysUsable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var buf bytes.Buffer
	logger := logging.New(&buf, logging.Options{Level: log.DebugLevel, Formatter: log.LogfmtFormatter})
	m := newAppModel(openTestGateway(t, filepath.Join(blocker, "tasks.sqlite")), Options{Logger: logger})
	m = drain(t, m, m.Init())

	if m.storeState != storeFailed {
		t.Fatalf("expected failed store, got %v", m.storeState)
	}
	if !strings.Contains(buf.String(), "could not open task store") {
		t.Fatalf("expected open failure logged, got %q", buf.String())
	}
	if !m.noteVisible {
		t.Fatalf("expected note shown on an empty list")
	}

	m = submitText(t, m, "offline")
	if m.rowCount() != 1 || m.noteVisible || !m.overflowVisible {
		t.Fatalf("expected row kept for the session, rows=%d", m.rowCount())
	}
	if !strings.Contains(buf.String(), "task store unavailable") {
		t.Fatalf("expected dropped write logged, got %q", buf.String())
	}

	m, _ = press(m, keyTab)
	m, cmd := press(m, keyDel)
	m = drain(t, m, cmd)
	if m.rowCount() != 0 || !m.noteVisible {
		t.Fatalf("expected delete to work without a store")
	}
	if len(m.orphaned) != 0 || len(m.saving) != 0 {
		t.Fatalf("expected nothing left waiting on the store, saving=%v orphaned=%v", m.saving, m.orphaned)
	}
}

func TestHelp_OpensFromListAndCloses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.sqlite")
	m := startModel(t, openTestGateway(t, path))

	// '?' in the input is just text.
	m, _ = press(m, keyHelp)
	if m.showHelp || m.input.Value() != "?" {
		t.Fatalf("expected ? typed into input, help=%v value=%q", m.showHelp, m.input.Value())
	}
	m.input.Reset()

	m, _ = press(m, keyTab)
	m, _ = press(m, keyHelp)
	if !m.showHelp {
		t.Fatalf("expected help shown")
	}
	view := xansi.Strip(m.View())
	if !strings.Contains(view, "Keys") || !strings.Contains(view, "close help") {
		t.Fatalf("expected key table in help view, got:\n%s", view)
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp {
		t.Fatalf("expected help closed by esc")
	}
}

func TestView_ListsRowsInsideFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.sqlite")
	m := startModel(t, openTestGateway(t, path))
	m = submitText(t, m, "Task A")
	m = submitText(t, m, "Task B")

	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m = next.(appModel)

	view := xansi.Strip(m.View())
	if strings.Contains(view, noteText) {
		t.Fatalf("expected note hidden, got:\n%s", view)
	}
	a := strings.Index(view, "Task A")
	b := strings.Index(view, "Task B")
	if a < 0 || b < 0 || a > b {
		t.Fatalf("expected Task A above Task B, got:\n%s", view)
	}
	if !strings.Contains(view, "╭") {
		t.Fatalf("expected framed list, got:\n%s", view)
	}
}
