package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sevenoy/GeminiMeds/models"
)

type syncModel struct {
	spinner spinner.Model
	running bool
	label   string
}

func newSyncModel() syncModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return syncModel{spinner: s}
}

func (m syncModel) start(label string) (syncModel, tea.Cmd) {
	m.running = true
	m.label = label
	return m, m.spinner.Tick
}

func (m syncModel) stop() syncModel {
	m.running = false
	return m
}

func (m syncModel) Update(msg tea.Msg) (syncModel, tea.Cmd) {
	if !m.running {
		return m, nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m syncModel) View() string {
	if !m.running {
		return ""
	}
	return m.spinner.View() + " " + m.label
}

func reportText(r models.SyncReport) string {
	switch r.Status {
	case models.SyncSkippedUnauthenticated:
		return "Синхронизация пропущена: вход не выполнен"
	case models.SyncSkippedInFlight:
		return "Синхронизация уже идёт"
	}

	text := fmt.Sprintf("Синхронизировано: отправлено %d/%d, получено %d/%d",
		r.MedicationsPushed, r.LogsPushed, r.MedicationsPulled, r.LogsPulled)
	if failed := r.MedicationsFailed + r.LogsFailed; failed > 0 {
		text += fmt.Sprintf(", ошибок %d", failed)
	}
	return text
}
