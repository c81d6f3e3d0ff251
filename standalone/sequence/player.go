// Package sequence plays ordered lists of waypoints through the motion
// engine and keeps the library of named sequences.
package sequence

import (
	"errors"
	"fmt"
	"strconv"

	"picomill/standalone/axis"
	"picomill/standalone/planner"
	"picomill/standalone/status"
)

// Mover executes one absolute move to completion
type Mover interface {
	Move(target axis.Position) (planner.Result, error)
}

// Policy decides what happens when a waypoint cannot be reached
type Policy uint8

const (
	// PolicyAbort stops the sequence at the first failing waypoint
	PolicyAbort Policy = iota
	// PolicySkip reports the failing waypoint and carries on
	PolicySkip
)

func (p Policy) String() string {
	if p == PolicySkip {
		return "skip"
	}
	return "abort"
}

// ParsePolicy maps a configuration value to a Policy. The empty string
// selects the default.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "abort":
		return PolicyAbort, nil
	case "skip":
		return PolicySkip, nil
	}
	return 0, fmt.Errorf("unknown sequence policy %q", s)
}

// AbortError is returned when a sequence stops early
type AbortError struct {
	Name  string
	Index int // 1-based waypoint index
	Err   error
}

func (e *AbortError) Error() string {
	return "sequence " + e.Name + " aborted at waypoint " + strconv.Itoa(e.Index) + ": " + e.Err.Error()
}

func (e *AbortError) Unwrap() error {
	return e.Err
}

// Player hands waypoints to a Mover one at a time. Each move, including
// any deferred Z phase, completes before the next waypoint is looked at.
type Player struct {
	mover    Mover
	reporter status.Reporter
	policy   Policy
}

// NewPlayer creates a player
func NewPlayer(mover Mover, reporter status.Reporter, policy Policy) *Player {
	if reporter == nil {
		reporter = status.Discard
	}
	return &Player{mover: mover, reporter: reporter, policy: policy}
}

// Play runs every waypoint in order. Under PolicyAbort the first failure
// stops playback and is returned as an *AbortError. Under PolicySkip
// failures are reported and Play returns nil.
func (p *Player) Play(name string, waypoints []axis.Waypoint) error {
	count := len(waypoints)
	p.reporter.Report(status.Event{Kind: status.KindSequenceStart, Name: name, Count: count})

	for i, wp := range waypoints {
		idx := i + 1
		p.reporter.Report(status.Event{
			Kind:  status.KindWaypoint,
			Name:  name,
			Index: idx,
			Count: count,
			Pos:   wp.Position(),
		})

		_, err := p.mover.Move(wp.Position())
		if err == nil {
			continue
		}

		ev := failureEvent(name, idx, err)
		if p.policy == PolicySkip {
			ev.Kind = status.KindSequenceSkip
			p.reporter.Report(ev)
			continue
		}

		ev.Kind = status.KindSequenceAbort
		p.reporter.Report(ev)
		return &AbortError{Name: name, Index: idx, Err: err}
	}

	p.reporter.Report(status.Event{Kind: status.KindSequenceDone, Name: name, Count: count})
	return nil
}

// failureEvent names the first violated axis when the error is a bounds
// failure, otherwise carries the error text
func failureEvent(name string, idx int, err error) status.Event {
	ev := status.Event{Name: name, Index: idx}

	var oor *axis.OutOfRangeError
	if errors.As(err, &oor) {
		ev.Axis = oor.Name
		ev.Value = oor.Value
		ev.Bound = oor.Bound()
		ev.BoundName = oor.BoundName()
		return ev
	}

	ev.Text = err.Error()
	return ev
}
