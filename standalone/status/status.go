// Package status defines the structured events the controller emits and
// the renderers that turn them into text on the serial channel.
package status

import "picomill/standalone/axis"

// Kind identifies an event
type Kind uint8

const (
	KindReady Kind = iota
	KindMoveComplete
	KindNoOp
	KindOutOfRange
	KindSyntax
	KindSequenceStart
	KindWaypoint
	KindSequenceSkip
	KindSequenceAbort
	KindSequenceDone
	KindSpindle
	KindZero
	KindZReference
	KindResize
	KindPosition
	KindInfo
	KindError
)

var kindNames = [...]string{
	KindReady:         "ready",
	KindMoveComplete:  "move_complete",
	KindNoOp:          "noop",
	KindOutOfRange:    "out_of_range",
	KindSyntax:        "syntax",
	KindSequenceStart: "sequence_start",
	KindWaypoint:      "waypoint",
	KindSequenceSkip:  "sequence_skip",
	KindSequenceAbort: "sequence_abort",
	KindSequenceDone:  "sequence_done",
	KindSpindle:       "spindle",
	KindZero:          "zero",
	KindZReference:    "z_reference",
	KindResize:        "resize",
	KindPosition:      "position",
	KindInfo:          "info",
	KindError:         "error",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Event is one structured status record. Only the fields relevant to
// Kind are set.
type Event struct {
	Kind Kind
	Pos  axis.Position

	// Out of range
	Axis      string
	Value     int
	Bound     int
	BoundName string

	// Sequences
	Name  string
	Index int // 1-based waypoint index
	Count int

	// Spindle and Z reference
	Duty int
	Up   int
	Down int

	// Display geometry
	Width  int
	Height int
	X0     int
	Y0     int

	Text string
}

// Reporter receives status events. The dashboard renderer is one
// implementation; the controller never formats output itself.
type Reporter interface {
	Report(ev Event)
}

// ReporterFunc adapts a function to the Reporter interface
type ReporterFunc func(ev Event)

// Report calls f(ev)
func (f ReporterFunc) Report(ev Event) {
	f(ev)
}

// Discard drops every event
var Discard Reporter = ReporterFunc(func(Event) {})

// OutOfRange builds an out-of-range event from a validation error
func OutOfRange(e *axis.OutOfRangeError) Event {
	return Event{
		Kind:      KindOutOfRange,
		Axis:      e.Name,
		Value:     e.Value,
		Bound:     e.Bound(),
		BoundName: e.BoundName(),
	}
}

// Multi fans events out to several reporters
type Multi []Reporter

// Report forwards ev to every reporter
func (m Multi) Report(ev Event) {
	for _, r := range m {
		r.Report(ev)
	}
}

// Recorder keeps every event in memory
type Recorder struct {
	Events []Event
}

// Report appends ev
func (r *Recorder) Report(ev Event) {
	r.Events = append(r.Events, ev)
}

// Last returns the most recent event, or a zero event
func (r *Recorder) Last() Event {
	if len(r.Events) == 0 {
		return Event{}
	}
	return r.Events[len(r.Events)-1]
}

// Kinds returns the kinds of all recorded events in order
func (r *Recorder) Kinds() []Kind {
	out := make([]Kind, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Kind
	}
	return out
}

// Reset drops all recorded events
func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
}
