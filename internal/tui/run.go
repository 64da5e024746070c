package tui

import (
	"context"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nao1215/phishguard/internal/controller"
	"github.com/nao1215/phishguard/internal/render"
	"github.com/nao1215/phishguard/internal/view"
)

// Notifier forwards view commits to a running program as RedrawMsg.
// Register Observe with view.WithObserver before the program starts.
type Notifier struct {
	mu      sync.Mutex
	program *tea.Program
}

// Observe implements view.Observer.
func (n *Notifier) Observe(name view.Name, _ render.Fragment) {
	n.mu.Lock()
	p := n.program
	n.mu.Unlock()
	if p != nil {
		// Send is called from operation goroutines, never from Update.
		p.Send(RedrawMsg{Region: name})
	}
}

func (n *Notifier) attach(p *tea.Program) {
	n.mu.Lock()
	n.program = p
	n.mu.Unlock()
}

// Run starts the interactive client and blocks until the user quits or ctx ends.
func Run(ctx context.Context, ctrl *controller.Controller, n *Notifier, logger *slog.Logger, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(New(ctx, ctrl, logger), opts...)
	if n != nil {
		n.attach(p)
		defer n.attach(nil)
	}
	_, err := p.Run()
	return err
}
