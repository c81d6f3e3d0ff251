package standalone

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"picomill/protocol"
	"picomill/standalone/command"
	"picomill/standalone/status"
)

// Manager connects the serial line to the controller. The receive side
// (ReceiveByte) may run on another goroutine; everything else runs on the
// goroutine calling Run.
type Manager struct {
	ctrl        *Controller
	interpreter *command.Interpreter
	receiver    *protocol.Receiver
	inbox       *protocol.Inbox
	reporter    status.Reporter

	running atomic.Bool
}

// NewManager creates a manager. Received bytes are echoed to echo.
func NewManager(ctrl *Controller, echo io.Writer) *Manager {
	inbox := protocol.NewInbox()
	return &Manager{
		ctrl:        ctrl,
		interpreter: command.NewInterpreter(ctrl, ctrl.reporter),
		receiver:    protocol.NewReceiver(echo, inbox),
		inbox:       inbox,
		reporter:    ctrl.reporter,
	}
}

// ReceiveByte processes a single received byte
func (m *Manager) ReceiveByte(b byte) {
	m.receiver.ReceiveByte(b)
}

// Receiver returns the receive side, an io.Writer for raw serial input
func (m *Manager) Receiver() *protocol.Receiver {
	return m.receiver
}

// Controller returns the controller being driven
func (m *Manager) Controller() *Controller {
	return m.ctrl
}

// ProcessLine executes one command line. Errors have already been
// reported when it returns.
func (m *Manager) ProcessLine(line string) error {
	return m.interpreter.ExecuteLine(line)
}

// Start announces readiness
func (m *Manager) Start() {
	m.running.Store(true)
	m.reporter.Report(status.Event{Kind: status.KindReady})
}

// Run waits for lines and executes them until ctx is done. Command
// failures never end the loop.
func (m *Manager) Run(ctx context.Context) error {
	m.Start()
	defer m.Stop()

	for {
		line, err := m.inbox.Wait(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		_ = m.ProcessLine(line)
	}
}

// Stop halts the loop bookkeeping and turns the spindle off
func (m *Manager) Stop() {
	m.running.Store(false)
	_ = m.ctrl.Stop()
}

// IsRunning returns whether Run is active
func (m *Manager) IsRunning() bool {
	return m.running.Load()
}
