package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type glyphSet struct {
	cursor    string
	unchecked string
	checked   string
	delete    string
}

var (
	unicodeGlyphs = glyphSet{cursor: "›", unchecked: "☐", checked: "☑", delete: "✕"}
	asciiGlyphs   = glyphSet{cursor: ">", unchecked: "[ ]", checked: "[x]", delete: "[del]"}
)

func glyphsFor(name string) glyphSet {
	if strings.EqualFold(strings.TrimSpace(name), "ascii") {
		return asciiGlyphs
	}
	return unicodeGlyphs
}

// rowDelegate renders a task row: cursor, checkbox, text, delete marker.
type rowDelegate struct {
	glyphs glyphSet
	// active is true while the list has keyboard focus; only then is the
	// selected row marked.
	active bool
}

func newRowDelegate(glyphs glyphSet, active bool) rowDelegate {
	return rowDelegate{glyphs: glyphs, active: active}
}

func (d rowDelegate) Height() int                             { return 1 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, ok := item.(taskRow)
	if !ok {
		return
	}
	fmt.Fprint(w, d.renderRow(m.Width(), r, d.active && index == m.Index()))
}

func (d rowDelegate) renderRow(width int, r taskRow, selected bool) string {
	cursorW := lipgloss.Width(d.glyphs.cursor)
	cursor := strings.Repeat(" ", cursorW)
	if selected {
		cursor = styleRowCursor().Render(d.glyphs.cursor)
	}

	box := d.glyphs.unchecked
	if r.done {
		box = d.glyphs.checked
	}

	// cursor + " " + box + " " + text + " " + delete
	fixed := cursorW + 1 + lipgloss.Width(box) + 1 + 1 + lipgloss.Width(d.glyphs.delete)
	textW := width - fixed
	if textW < 1 {
		textW = 1
	}
	text := xansi.Truncate(r.text, textW, "…")
	gap := textW - lipgloss.Width(text)
	if gap < 0 {
		gap = 0
	}

	st := styleRowText()
	if r.done {
		st = styleRowDone()
	}
	if selected {
		st = st.Bold(true)
	}

	return cursor + " " + box + " " + st.Render(text) + strings.Repeat(" ", gap) + " " + styleDelete().Render(d.glyphs.delete)
}
