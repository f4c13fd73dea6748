package tui

import (
	"tasklist-cli/internal/docs"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) helpView() string {
	md, _ := docs.Get("keys")
	body := renderMarkdown(md, m.width-4)
	footer := styleFooter().Render("? / esc: close help")
	return lipgloss.JoinVertical(lipgloss.Left, body, "", footer)
}
