package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/service"
	"github.com/sevenoy/GeminiMeds/models"
)

// Session signs the device in and out. Signing in also runs the first sync
// and opens the realtime subscription.
type Session interface {
	SignIn(ctx context.Context, token string) error
	SignOut(ctx context.Context) error
}

type TUI struct {
	services *service.ClientServices
	session  Session
	build    models.AppBuildInfo

	mu      sync.Mutex
	program *tea.Program

	logger *logger.Logger
}

func New(services *service.ClientServices, session Session, build models.AppBuildInfo, log *logger.Logger) *TUI {
	return &TUI{services: services, session: session, build: build, logger: log}
}

// Run shows the dashboard until the user quits or ctx ends.
func (t *TUI) Run(ctx context.Context) error {
	p := tea.NewProgram(
		newDashboardModel(ctx, t.services, t.session, t.build),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	t.mu.Lock()
	t.program = p
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.program = nil
		t.mu.Unlock()
	}()

	_, err := p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Notify asks a running dashboard to re-read local state after topic
// changed remotely. It matches the client app reload hook.
func (t *TUI) Notify(_ context.Context, topic models.Topic) {
	t.mu.Lock()
	p := t.program
	t.mu.Unlock()

	if p == nil {
		return
	}

	t.logger.Debug().Str("topic", string(topic)).Msg("dashboard reload requested")
	p.Send(reloadMsg{topic: topic})
}
