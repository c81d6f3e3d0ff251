package command

import (
	"errors"

	"picomill/standalone/axis"
	"picomill/standalone/status"
)

// Machine is the set of operations the command layer drives. The
// implementation reports the outcome of each operation itself.
type Machine interface {
	Move(target axis.Position) error
	Home() error
	Zero()
	Load(name string) error
	SetZ(depth int) error
	Spin(duty int) error
	Resize(width, height, x0, y0 int) error
	Jog(id axis.ID, steps int) error
	Position() axis.Position
	Sequences() []string
}

// Interpreter executes command lines against a Machine
type Interpreter struct {
	machine  Machine
	reporter status.Reporter
}

// NewInterpreter creates an interpreter
func NewInterpreter(m Machine, reporter status.Reporter) *Interpreter {
	if reporter == nil {
		reporter = status.Discard
	}
	return &Interpreter{machine: m, reporter: reporter}
}

// ExecuteLine parses and executes one line. Syntax errors are reported
// and returned; nothing on the machine changes.
func (in *Interpreter) ExecuteLine(line string) error {
	cmd, err := Parse(line)
	if err != nil {
		var se *SyntaxError
		if errors.As(err, &se) {
			in.reporter.Report(status.Event{Kind: status.KindSyntax, Text: se.Error()})
		}
		return err
	}
	return in.Execute(cmd)
}

// Execute runs a parsed command. A nil command is a no-op.
func (in *Interpreter) Execute(cmd *Command) error {
	if cmd == nil {
		return nil
	}

	m := in.machine
	switch cmd.Op {
	case OpMove:
		return m.Move(cmd.Target)
	case OpHome:
		return m.Home()
	case OpZero:
		m.Zero()
	case OpLoad:
		return m.Load(cmd.Name)
	case OpSetZ:
		return m.SetZ(cmd.Value)
	case OpSpin:
		return m.Spin(cmd.Value)
	case OpResize:
		return m.Resize(cmd.Width, cmd.Height, cmd.X0, cmd.Y0)
	case OpJog:
		return m.Jog(cmd.Axis, cmd.Value)
	case OpPos:
		in.reporter.Report(status.Event{Kind: status.KindPosition, Pos: m.Position()})
	case OpList:
		for _, name := range m.Sequences() {
			in.reporter.Report(status.Event{Kind: status.KindInfo, Text: name})
		}
	case OpHelp:
		for _, u := range Usage() {
			in.reporter.Report(status.Event{Kind: status.KindInfo, Text: u})
		}
	}
	return nil
}
