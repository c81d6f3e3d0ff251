package status

import (
	"bytes"
	"testing"

	"picomill/standalone/axis"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{Event{Kind: KindReady}, "Ready for commands..."},
		{Event{Kind: KindMoveComplete, Pos: axis.Position{X: 100, Y: 50}}, "done x=100 y=50 z=0"},
		{Event{Kind: KindNoOp, Pos: axis.Position{Z: 3}}, "already at target x=0 y=0 z=3"},
		{
			OutOfRange(&axis.OutOfRangeError{Name: "X", Value: 9000, Min: 0, Max: 8000}),
			"error: X 9000 out of range (max=8000)",
		},
		{Event{Kind: KindSyntax, Text: "move <x> <y> <z>"}, "syntax: move <x> <y> <z>"},
		{Event{Kind: KindSequenceStart, Name: "square", Count: 5}, "sequence square: 5 waypoints"},
		{Event{Kind: KindWaypoint, Index: 2, Count: 5, Pos: axis.Position{X: 1, Y: 2, Z: 3}}, "waypoint 2/5 x=1 y=2 z=3"},
		{
			Event{Kind: KindSequenceAbort, Name: "star", Index: 3, Axis: "Y", Value: -1, Bound: 0, BoundName: "min"},
			"sequence star aborted at waypoint 3: Y -1 out of range (min=0)",
		},
		{Event{Kind: KindSequenceSkip, Name: "star", Index: 4, Text: "spindle stopped"}, "sequence star skipped waypoint 4: spindle stopped"},
		{Event{Kind: KindSequenceDone, Name: "square"}, "sequence square done"},
		{Event{Kind: KindSpindle, Duty: 128}, "spindle duty=128"},
		{Event{Kind: KindZero}, "zeroed x=0 y=0 z=0"},
		{Event{Kind: KindZReference, Up: 100, Down: 400}, "z reference up=100 down=400"},
		{Event{Kind: KindResize, Width: 80, Height: 20, X0: 1, Y0: 2}, "display 80x20 at 1,2"},
		{Event{Kind: KindError, Text: "boom"}, "error: boom"},
		{Event{Kind: KindInfo, Text: "hello"}, "hello"},
	}

	for _, test := range tests {
		if got := Format(test.ev); got != test.want {
			t.Errorf("Format(%s) = %q, want %q", test.ev.Kind, got, test.want)
		}
	}
}

func TestTextReporterWritesLines(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextReporter(&buf)

	r.Report(Event{Kind: KindSpindle, Duty: 1})
	r.Report(Event{Kind: KindSpindle, Duty: 2})

	if got := buf.String(); got != "spindle duty=1\nspindle duty=2\n" {
		t.Errorf("Unexpected output %q", got)
	}
}

func TestMultiAndRecorder(t *testing.T) {
	var a, b Recorder
	m := Multi{&a, &b, Discard}

	m.Report(Event{Kind: KindZero})
	m.Report(Event{Kind: KindReady})

	if len(a.Events) != 2 || len(b.Events) != 2 {
		t.Fatalf("Expected both recorders to see 2 events, got %d and %d", len(a.Events), len(b.Events))
	}
	if a.Last().Kind != KindReady {
		t.Errorf("Expected last event ready, got %s", a.Last().Kind)
	}
	kinds := a.Kinds()
	if kinds[0] != KindZero || kinds[1] != KindReady {
		t.Errorf("Unexpected kinds %v", kinds)
	}

	a.Reset()
	if len(a.Events) != 0 {
		t.Errorf("Expected empty recorder after reset, got %d events", len(a.Events))
	}
}
