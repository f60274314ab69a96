package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/v6582374-netizen/Auto-note/pkg/capture"
	"github.com/v6582374-netizen/Auto-note/pkg/gateway"
	"github.com/v6582374-netizen/Auto-note/pkg/logging"
)

// Executor runs the agent UI over a connected gateway and an attached
// page document.
type Executor struct {
	gw      *gateway.Client
	doc     capture.Document
	log     *logging.Logger
	program *tea.Program
}

// NewExecutor creates a UI executor. The gateway must be connected and
// its Run loop started; the handshake must have completed so capability
// gating is ready.
func NewExecutor(gw *gateway.Client, doc capture.Document, log *logging.Logger) *Executor {
	return &Executor{gw: gw, doc: doc, log: log}
}

// Run starts the UI and blocks until the user exits or the gateway
// connection drops.
func (e *Executor) Run() error {
	m := newModel(e.gw, e.doc, e.log)

	e.program = tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)

	if _, err := e.program.Run(); err != nil {
		return fmt.Errorf("failed to run UI program: %w", err)
	}
	return nil
}

// Quit asks a running program to exit.
func (e *Executor) Quit() {
	if e.program != nil {
		e.program.Quit()
	}
}
