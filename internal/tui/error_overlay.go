package tui

import "github.com/charmbracelet/lipgloss"

const overlayTextWidth = 60

// errorOverlayModel blocks the dashboard until the user acknowledges a
// failure that cannot be shown inline, such as a rejected snapshot restore.
type errorOverlayModel struct {
	title  string
	detail string
}

func (m errorOverlayModel) View() string {
	title := m.title
	if title == "" {
		title = "Ошибка"
	}
	detail := lipgloss.NewStyle().Width(overlayTextWidth).Render(m.detail)
	return overlayBoxStyle.Render(errorStyle.Render(title) + "\n\n" + detail + "\n\n" + helpStyle.Render("enter / esc закрыть"))
}
