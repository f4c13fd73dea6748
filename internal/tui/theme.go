package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette.
//
// The TUI must stay readable on light and dark terminals, so every color is
// adaptive.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted  lipgloss.TerminalColor = ac("240", "243")
	colorAccent lipgloss.TerminalColor = ac("27", "62")
	colorFrame  lipgloss.TerminalColor = ac("250", "240")
	colorNote   lipgloss.TerminalColor = ac("130", "179")
	colorDelete lipgloss.TerminalColor = ac("160", "167")
	colorText   lipgloss.TerminalColor = ac("235", "252")
)

func styleTitle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
}

func styleNote() lipgloss.Style {
	return lipgloss.NewStyle().Italic(true).Foreground(colorNote)
}

func styleFrame() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorFrame).
		Padding(0, 1)
}

func styleRowText() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorText)
}

// Completed rows: struck through and muted.
func styleRowDone() lipgloss.Style {
	return lipgloss.NewStyle().Strikethrough(true).Foreground(colorMuted)
}

func styleRowCursor() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
}

func styleDelete() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorDelete)
}

func styleFooter() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted)
}

// applyColorProfilePreference sets Lip Gloss's color profile for the TUI.
//
// termenv.EnvColorProfile honors CLICOLOR, which can disable colors in a TUI by
// accident; only NO_COLOR is honored here.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures background detection.
//
// Priority:
//  1. theme = light|dark (config / TASKLIST_TUI_THEME)
//  2. COLORFGBG heuristic ("fg;bg")
//  3. Lip Gloss's own detection
func applyThemePreference(theme string) {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}

	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
