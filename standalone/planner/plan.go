package planner

import (
	"picomill/standalone/axis"
	"picomill/standalone/stepgen"
)

// ZPhase says when the Z axis moves relative to horizontal travel
type ZPhase uint8

const (
	ZNone   ZPhase = iota // no Z motion
	ZBefore               // retract before travelling
	ZAfter                // plunge once positioned
)

func (z ZPhase) String() string {
	switch z {
	case ZBefore:
		return "before"
	case ZAfter:
		return "after"
	default:
		return "none"
	}
}

// Plan is the per-move breakdown of a target into step work. It is
// computed fresh for every move and never stored.
type Plan struct {
	From  axis.Position
	To    axis.Position
	Delta axis.Position

	// Forward is the direction of each axis, true for increasing position
	Forward [axis.Count]bool

	// Increments is the number of horizontal increments, max(|dx|, |dy|)
	Increments int

	// Coupled counts increments in which X and Y step together,
	// min(|dx|, |dy|) when both move. A 100 by 50 move has 100 increments,
	// 50 of them coupled.
	Coupled int

	ZPhase ZPhase
}

// NewPlan computes the plan to go from one position to another. zUp is the
// tool-retracted Z reference.
func NewPlan(from, to axis.Position, zUp int) Plan {
	p := Plan{
		From: from,
		To:   to,
		Delta: axis.Position{
			X: to.X - from.X,
			Y: to.Y - from.Y,
			Z: to.Z - from.Z,
		},
	}

	for id := axis.X; id <= axis.Z; id++ {
		p.Forward[id] = p.Delta.Get(id) >= 0
	}

	adx, ady := abs(p.Delta.X), abs(p.Delta.Y)
	p.Increments = max(adx, ady)
	if adx != 0 && ady != 0 {
		p.Coupled = min(adx, ady)
	}

	if p.Delta.Z != 0 {
		if from.Z != zUp {
			p.ZPhase = ZBefore
		} else {
			p.ZPhase = ZAfter
		}
	}

	return p
}

// IsNoOp reports whether the target equals the start position
func (p Plan) IsNoOp() bool {
	return p.Delta == axis.Position{}
}

// Interpolated reports whether X and Y both move, which needs the
// interpolation loop rather than single-axis stepping
func (p Plan) Interpolated() bool {
	return p.Delta.X != 0 && p.Delta.Y != 0
}

// Steps returns the total number of pulses each axis will receive
func (p Plan) Steps() axis.Position {
	return axis.Position{X: abs(p.Delta.X), Y: abs(p.Delta.Y), Z: abs(p.Delta.Z)}
}

// Walk calls fn once per horizontal increment k = 1..Increments with the
// set of axes that owe a step in that increment.
//
// The ideal position k*d/n is rounded half away from zero and each axis
// steps only by the difference to its last emitted integer position, so
// the rounding error never exceeds half a step and does not accumulate.
func (p Plan) Walk(fn func(k int, axes stepgen.Mask)) {
	n := int64(p.Increments)
	if n == 0 {
		return
	}

	dx, dy := int64(p.Delta.X), int64(p.Delta.Y)
	var lastX, lastY int64

	for k := int64(1); k <= n; k++ {
		ix := roundDiv(k*dx, n)
		iy := roundDiv(k*dy, n)

		var m stepgen.Mask
		if ix != lastX {
			m |= stepgen.Bit(axis.X)
		}
		if iy != lastY {
			m |= stepgen.Bit(axis.Y)
		}
		lastX, lastY = ix, iy

		fn(int(k), m)
	}
}

// roundDiv returns a/b rounded half away from zero. b must be positive.
func roundDiv(a, b int64) int64 {
	if a >= 0 {
		return (2*a + b) / (2 * b)
	}
	return -((-2*a + b) / (2 * b))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
