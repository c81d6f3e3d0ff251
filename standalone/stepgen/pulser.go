// Package stepgen turns motion decisions into step and direction signals.
// The motion engine only talks to the Pulser interface, so the same
// interpolation code drives real pins, a PIO block or a recording sink.
package stepgen

import "picomill/standalone/axis"

// Mask selects a set of axes that pulse together
type Mask uint8

// Bit returns the mask for a single axis
func Bit(id axis.ID) Mask {
	return 1 << id
}

// Has reports whether the mask includes an axis
func (m Mask) Has(id axis.ID) bool {
	return m&Bit(id) != 0
}

// Count returns the number of axes in the mask
func (m Mask) Count() int {
	n := 0
	for id := axis.X; id <= axis.Z; id++ {
		if m.Has(id) {
			n++
		}
	}
	return n
}

// String returns the axis letters in the mask, e.g. "XY"
func (m Mask) String() string {
	s := ""
	for id := axis.X; id <= axis.Z; id++ {
		if m.Has(id) {
			s += id.String()
		}
	}
	if s == "" {
		return "-"
	}
	return s
}

// Pulser is the blocking pulse primitive used by the motion engine.
// Implementations must not return from Pulse before the low phase of the
// pulse has elapsed.
type Pulser interface {
	// SetDirection drives the direction line of an axis.
	// forward means increasing position (line high unless inverted).
	SetDirection(id axis.ID, forward bool)

	// Settle waits the direction setup time before the first step edge
	Settle()

	// Pulse raises the step line of every axis in the mask, holds it for
	// the pulse width, lowers them together and holds low for the same width
	Pulse(axes Mask)
}
