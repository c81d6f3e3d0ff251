package stepgen

import "picomill/standalone/axis"

// EventKind identifies what a Recorder saw
type EventKind uint8

const (
	KindDirection EventKind = iota
	KindSettle
	KindPulse
)

// Event is one call made on a Recorder
type Event struct {
	Kind    EventKind
	Axis    axis.ID // KindDirection only
	Forward bool    // KindDirection only
	Axes    Mask    // KindPulse only
}

// Recorder is a Pulser that records calls instead of timing pins
type Recorder struct {
	Events []Event
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// SetDirection records a direction change
func (r *Recorder) SetDirection(id axis.ID, forward bool) {
	r.Events = append(r.Events, Event{Kind: KindDirection, Axis: id, Forward: forward})
}

// Settle records a settle wait
func (r *Recorder) Settle() {
	r.Events = append(r.Events, Event{Kind: KindSettle})
}

// Pulse records a lock-step pulse
func (r *Recorder) Pulse(axes Mask) {
	r.Events = append(r.Events, Event{Kind: KindPulse, Axes: axes})
}

// Reset drops all recorded events
func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
}

// Pulses returns the pulse masks in order
func (r *Recorder) Pulses() []Mask {
	var out []Mask
	for _, e := range r.Events {
		if e.Kind == KindPulse {
			out = append(out, e.Axes)
		}
	}
	return out
}

// Steps returns the number of pulses an axis received
func (r *Recorder) Steps(id axis.ID) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == KindPulse && e.Axes.Has(id) {
			n++
		}
	}
	return n
}
