package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/kubev2v/loopbridge/internal/config"
	"github.com/kubev2v/loopbridge/pkg/bridge"
	"github.com/kubev2v/loopbridge/pkg/worker"
)

// Run shows the interactive demo until the user quits or ctx is done. When
// the program exits the scheduler terminates, which drains the consumers.
func Run(ctx context.Context, cfg *config.Configuration, opts ...tea.ProgramOption) error {
	sched := NewScheduler()
	group := worker.NewGroup()
	defer group.Close()

	b := bridge.New(sched, group, cfg.BridgeOptions()...)
	m := NewModel(sched, b, cfg.Demo)

	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)
	sched.Attach(p.Send)

	_, err := p.Run()
	sched.Terminate()

	if shutdownErr := b.Shutdown(ctx); shutdownErr != nil {
		zap.S().Named("tui").Errorw("shutdown incomplete", "error", shutdownErr)
	}
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
