package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sevenoy/GeminiMeds/internal/validators"
	"github.com/sevenoy/GeminiMeds/models"
)

const (
	fieldName = iota
	fieldDosage
	fieldTime
	fieldAccent
)

var (
	errNameRequired = errors.New("нужно название")
	errBadTime      = errors.New("время в формате ЧЧ:ММ")
	errBadAccent    = errors.New("цвет: lime, berry, mint, sky или sunset")
)

type medicationFormModel struct {
	inputs  []textinput.Model
	focus   int
	editing bool
	source  models.Medication
	err     string
}

func newMedicationForm(item *models.Medication) medicationFormModel {
	inputs := make([]textinput.Model, 4)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 32
	}
	inputs[fieldName].Placeholder = "Название"
	inputs[fieldDosage].Placeholder = "например, 1 таблетка"
	inputs[fieldTime].Placeholder = "08:00"
	inputs[fieldTime].CharLimit = 5
	inputs[fieldAccent].Placeholder = string(models.AccentLime)
	inputs[fieldName].Focus()

	f := medicationFormModel{inputs: inputs}
	if item == nil {
		return f
	}

	f.editing = true
	f.source = *item
	f.inputs[fieldName].SetValue(item.Name)
	f.inputs[fieldDosage].SetValue(item.Dosage)
	f.inputs[fieldTime].SetValue(item.ScheduledTime)
	f.inputs[fieldAccent].SetValue(string(item.Accent))
	return f
}

func (f medicationFormModel) move(delta int) medicationFormModel {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
	return f
}

func (f medicationFormModel) Update(msg tea.Msg) (medicationFormModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.tab):
			return f.move(1), nil
		case key.Matches(keyMsg, keys.backtab):
			return f.move(-1), nil
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// toMedication returns the edited record. Service validation still runs on
// save; this only catches typos before leaving the form.
func (f medicationFormModel) toMedication() (models.Medication, error) {
	m := f.source
	m.Name = strings.TrimSpace(f.inputs[fieldName].Value())
	m.Dosage = strings.TrimSpace(f.inputs[fieldDosage].Value())
	m.ScheduledTime = strings.TrimSpace(f.inputs[fieldTime].Value())
	m.Accent = models.Accent(strings.ToLower(strings.TrimSpace(f.inputs[fieldAccent].Value())))

	if m.Name == "" {
		return models.Medication{}, errNameRequired
	}
	if _, err := time.Parse(validators.ScheduledTimeLayout, m.ScheduledTime); err != nil {
		return models.Medication{}, errBadTime
	}
	if m.Accent != "" && !m.Accent.Valid() {
		return models.Medication{}, errBadAccent
	}
	return m, nil
}

func (f medicationFormModel) View() string {
	title := "Новое лекарство"
	if f.editing {
		title = "Редактирование: " + f.source.Name
	}

	var b strings.Builder
	b.WriteString("Название:  [" + f.inputs[fieldName].View() + "]\n")
	b.WriteString("Дозировка: [" + f.inputs[fieldDosage].View() + "]\n")
	b.WriteString("Время:     [" + f.inputs[fieldTime].View() + "]\n")
	b.WriteString("Цвет:      [" + f.inputs[fieldAccent].View() + "]")
	if f.err != "" {
		b.WriteString("\n\n" + errorStyle.Render(f.err))
	}

	return renderPage(title, b.String(), "esc отмена  tab следующее поле  enter сохранить")
}
