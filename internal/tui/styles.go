package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sevenoy/GeminiMeds/models"
)

var (
	appStyle        = lipgloss.NewStyle().Padding(1, 2)
	titleStyle      = lipgloss.NewStyle().Bold(true)
	helpStyle       = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	overlayBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	selectedStyle   = lipgloss.NewStyle().Bold(true)
)

var accentColors = map[models.Accent]lipgloss.Color{
	models.AccentLime:   lipgloss.Color("#A3E635"),
	models.AccentBerry:  lipgloss.Color("#DB2777"),
	models.AccentMint:   lipgloss.Color("#34D399"),
	models.AccentSky:    lipgloss.Color("#38BDF8"),
	models.AccentSunset: lipgloss.Color("#FB923C"),
}

func accentMark(a models.Accent) string {
	color, ok := accentColors[a]
	if !ok {
		color = accentColors[models.AccentLime]
	}
	return lipgloss.NewStyle().Foreground(color).Render("●")
}
