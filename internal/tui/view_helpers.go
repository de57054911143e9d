package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const minDividerWidth = 40

var pageBodyStyle = lipgloss.NewStyle().PaddingLeft(2)

// renderPage lays out a titled page: the body between two dividers and the
// hot key line below. The dividers grow with the widest body line.
func renderPage(title, body, hotKeys string) string {
	if strings.TrimSpace(body) == "" {
		body = "-"
	}
	body = pageBodyStyle.Render(body)

	width := lipgloss.Width(body)
	if width < minDividerWidth {
		width = minDividerWidth
	}
	divider := pageBodyStyle.Render(strings.Repeat("─", width-2))

	parts := []string{titleStyle.Render(title), divider, "", body, "", divider}
	if strings.TrimSpace(hotKeys) != "" {
		parts = append(parts, pageBodyStyle.Render(helpStyle.Render(hotKeys)))
	}
	parts = append(parts, pageBodyStyle.Render(helpStyle.Render("ctrl+c: выход")))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func valueOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

// fitText cuts v to max runes, marking the cut with "...".
func fitText(v string, max int) string {
	r := []rune(v)
	if max <= 0 || len(r) <= max {
		return v
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
