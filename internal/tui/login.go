package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type signInModel struct {
	input      textinput.Model
	submitting bool
	err        string
}

func newSignInModel() signInModel {
	in := textinput.New()
	in.Placeholder = "токен доступа"
	in.Width = 48
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '*'
	in.Focus()
	return signInModel{input: in}
}

func (m signInModel) token() string {
	return strings.TrimSpace(m.input.Value())
}

func (m signInModel) Update(msg tea.Msg) (signInModel, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m signInModel) View() string {
	body := "Токен: [" + m.input.View() + "]"
	if m.submitting {
		body += "\n\nВход и первая синхронизация..."
	}
	if m.err != "" {
		body += "\n\n" + errorStyle.Render(m.err)
	}
	return renderPage("ВХОД", body, "esc отмена  enter войти")
}
