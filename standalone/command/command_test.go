package command

import (
	"errors"
	"strings"
	"testing"

	"picomill/standalone/axis"
	"picomill/standalone/status"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"move 100 50 0", Command{Op: OpMove, Target: axis.Position{X: 100, Y: 50}}},
		{"  MOVE -1 2 3  ", Command{Op: OpMove, Target: axis.Position{X: -1, Y: 2, Z: 3}}},
		{"home", Command{Op: OpHome}},
		{"zero", Command{Op: OpZero}},
		{"load square", Command{Op: OpLoad, Name: "square"}},
		{`load "my part"`, Command{Op: OpLoad, Name: "my part"}},
		{"setz 200", Command{Op: OpSetZ, Value: 200}},
		{"spin 128", Command{Op: OpSpin, Value: 128}},
		{"resize 80 20", Command{Op: OpResize, Width: 80, Height: 20}},
		{"resize 80 20 5", Command{Op: OpResize, Width: 80, Height: 20, X0: 5}},
		{"resize 80 20 5 7", Command{Op: OpResize, Width: 80, Height: 20, X0: 5, Y0: 7}},
		{"jog y -25", Command{Op: OpJog, Axis: axis.Y, Value: -25}},
		{"pos", Command{Op: OpPos}},
		{"list", Command{Op: OpList}},
		{"help", Command{Op: OpHelp}},
	}

	for _, tt := range tests {
		got, err := Parse(tt.line)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.line, err)
			continue
		}
		if *got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.line, *got, tt.want)
		}
	}
}

func TestParseBlank(t *testing.T) {
	for _, line := range []string{"", "   ", "\t"} {
		cmd, err := Parse(line)
		if cmd != nil || err != nil {
			t.Errorf("Parse(%q) = %v, %v", line, cmd, err)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"fly 1 2", "fly: unknown command (usage: help)"},
		{"move 1 2", "move: wrong number of arguments (usage: move <x> <y> <z>)"},
		{"move 1 2 three", `move: bad number "three" (usage: move <x> <y> <z>)`},
		{"spin", "spin: wrong number of arguments (usage: spin <duty 0-255>)"},
		{"jog w 5", `jog: unknown axis "w" (usage: jog <x|y|z> <steps>)`},
		{"resize 80", "resize: wrong number of arguments (usage: resize <w> <h> [x0] [y0])"},
		{"home now", "home: wrong number of arguments (usage: home)"},
	}

	for _, tt := range tests {
		_, err := Parse(tt.line)
		if err == nil {
			t.Errorf("Parse(%q) succeeded", tt.line)
			continue
		}
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("Parse(%q) error %v is not ErrMalformed", tt.line, err)
		}
		if err.Error() != tt.want {
			t.Errorf("Parse(%q) error = %q, want %q", tt.line, err.Error(), tt.want)
		}
	}
}

func TestParseUnbalancedQuote(t *testing.T) {
	_, err := Parse(`load "square`)
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("error = %v", err)
	}
}

// fakeMachine records the calls made on it
type fakeMachine struct {
	calls []string
	pos   axis.Position
}

func (f *fakeMachine) Move(target axis.Position) error {
	f.calls = append(f.calls, "move")
	f.pos = target
	return nil
}
func (f *fakeMachine) Home() error { f.calls = append(f.calls, "home"); return nil }
func (f *fakeMachine) Zero() { f.calls = append(f.calls, "zero") }
func (f *fakeMachine) Load(name string) error { f.calls = append(f.calls, "load "+name); return nil }
func (f *fakeMachine) SetZ(depth int) error { f.calls = append(f.calls, "setz"); return nil }
func (f *fakeMachine) Spin(duty int) error { f.calls = append(f.calls, "spin"); return nil }
func (f *fakeMachine) Jog(axis.ID, int) error { f.calls = append(f.calls, "jog"); return nil }
func (f *fakeMachine) Position() axis.Position { return f.pos }
func (f *fakeMachine) Sequences() []string { return []string{"a", "b"} }
func (f *fakeMachine) Resize(w, h, x, y int) error {
	f.calls = append(f.calls, "resize")
	return nil
}

func TestInterpreterDispatch(t *testing.T) {
	m := &fakeMachine{}
	events := &status.Recorder{}
	in := NewInterpreter(m, events)

	lines := []string{"move 1 2 3", "home", "zero", "load star", "setz 10", "spin 5", "resize 10 10", "jog x 1"}
	for _, line := range lines {
		if err := in.ExecuteLine(line); err != nil {
			t.Fatalf("ExecuteLine(%q): %v", line, err)
		}
	}

	want := "move home zero load star setz spin resize jog"
	if got := strings.Join(m.calls, " "); got != want {
		t.Errorf("calls = %q, want %q", got, want)
	}
	if len(events.Events) != 0 {
		t.Errorf("interpreter reported %v", events.Kinds())
	}
}

func TestInterpreterSyntaxLeavesMachineAlone(t *testing.T) {
	m := &fakeMachine{}
	events := &status.Recorder{}
	in := NewInterpreter(m, events)

	if err := in.ExecuteLine("move 1 x 3"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("error = %v", err)
	}
	if len(m.calls) != 0 {
		t.Errorf("machine called: %v", m.calls)
	}
	if ev := events.Last(); ev.Kind != status.KindSyntax || !strings.Contains(ev.Text, "move <x> <y> <z>") {
		t.Errorf("event = %+v", ev)
	}
}

func TestInterpreterQueries(t *testing.T) {
	m := &fakeMachine{pos: axis.Position{X: 4, Y: 5, Z: 6}}
	events := &status.Recorder{}
	in := NewInterpreter(m, events)

	if err := in.ExecuteLine("pos"); err != nil {
		t.Fatal(err)
	}
	if ev := events.Last(); ev.Kind != status.KindPosition || ev.Pos != m.pos {
		t.Errorf("pos event = %+v", ev)
	}

	events.Reset()
	if err := in.ExecuteLine("list"); err != nil {
		t.Fatal(err)
	}
	if len(events.Events) != 2 || events.Events[1].Text != "b" {
		t.Errorf("list events = %+v", events.Events)
	}

	events.Reset()
	if err := in.ExecuteLine("help"); err != nil {
		t.Fatal(err)
	}
	if len(events.Events) != len(Usage()) {
		t.Errorf("help printed %d lines", len(events.Events))
	}
}
