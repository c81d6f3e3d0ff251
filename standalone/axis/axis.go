// Package axis holds the per-axis position state of the mill and the
// bounds checks every move goes through before hardware is touched.
package axis

import (
	"picomill/core"

	"go.uber.org/multierr"
)

// ID names one of the three linear axes
type ID uint8

const (
	X ID = iota
	Y
	Z
)

// Count is the number of axes on the machine
const Count = 3

// String returns the axis letter
func (id ID) String() string {
	switch id {
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	default:
		return "?"
	}
}

// Parse maps an axis letter (either case) to its ID
func Parse(s string) (ID, bool) {
	switch s {
	case "x", "X":
		return X, true
	case "y", "Y":
		return Y, true
	case "z", "Z":
		return Z, true
	}
	return 0, false
}

// Position is an absolute machine position in step units
type Position struct {
	X int
	Y int
	Z int
}

// Get returns the coordinate for one axis
func (p Position) Get(id ID) int {
	switch id {
	case X:
		return p.X
	case Y:
		return p.Y
	default:
		return p.Z
	}
}

// With returns a copy of p with one coordinate replaced
func (p Position) With(id ID, v int) Position {
	switch id {
	case X:
		p.X = v
	case Y:
		p.Y = v
	default:
		p.Z = v
	}
	return p
}

// Waypoint is one absolute target of a motion sequence
type Waypoint Position

// Position returns the waypoint as a move target
func (w Waypoint) Position() Position {
	return Position(w)
}

// Axis is one independently driven degree of freedom
type Axis struct {
	ID      ID
	Current int // position in steps
	Target  int // last accepted target
	Min     int
	Max     int

	Step core.GPIOPin // step output
	Dir  core.GPIOPin // direction output
}

// New creates an axis at position zero with the given limits
func New(id ID, min, max int, step, dir core.GPIOPin) *Axis {
	return &Axis{
		ID:   id,
		Min:  min,
		Max:  max,
		Step: step,
		Dir:  dir,
	}
}

// Validate checks that target lies inside the axis limits
func (a *Axis) Validate(target int) error {
	if target < a.Min {
		return &OutOfRangeError{Name: a.ID.String(), Value: target, Min: a.Min, Max: a.Max, Below: true}
	}
	if target > a.Max {
		return &OutOfRangeError{Name: a.ID.String(), Value: target, Min: a.Min, Max: a.Max}
	}
	return nil
}

// Set is the machine's axis set, indexed by ID
type Set [Count]*Axis

// Position returns the current position of all axes
func (s *Set) Position() Position {
	return Position{X: s[X].Current, Y: s[Y].Current, Z: s[Z].Current}
}

// ValidateAll checks every coordinate of target before any axis is
// touched. Violations are combined in X, Y, Z order.
func (s *Set) ValidateAll(target Position) error {
	var err error
	for id := X; id <= Z; id++ {
		err = multierr.Append(err, s[id].Validate(target.Get(id)))
	}
	return err
}

// Accept records target as the new target of every axis. It must only be
// called after ValidateAll succeeded.
func (s *Set) Accept(target Position) {
	for id := X; id <= Z; id++ {
		s[id].Target = target.Get(id)
	}
}

// Reset forces the stored position of every axis without moving hardware
func (s *Set) Reset(p Position) {
	for id := X; id <= Z; id++ {
		s[id].Current = p.Get(id)
		s[id].Target = p.Get(id)
	}
}
