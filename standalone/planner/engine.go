// Package planner is the coordinated motion engine. It validates targets,
// sequences Z against the tool-lift reference and interpolates X/Y so
// diagonal moves trace a near-straight line.
package planner

import (
	"picomill/standalone/axis"
	"picomill/standalone/stepgen"
	"picomill/standalone/status"
)

// Outcome is the terminal state of a move
type Outcome uint8

const (
	OutcomeMoved Outcome = iota
	OutcomeNoOp
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMoved:
		return "moved"
	case OutcomeNoOp:
		return "noop"
	default:
		return "rejected"
	}
}

// Result describes a finished (or rejected) move
type Result struct {
	Outcome Outcome
	Final   axis.Position
	Plan    Plan
}

// Engine executes moves synchronously. A move occupies the caller until
// every pulse has been emitted; there is no cancellation.
type Engine struct {
	axes     *axis.Set
	pulser   stepgen.Pulser
	reporter status.Reporter
	zUp      int
}

// NewEngine creates an engine over an axis set and a pulse primitive
func NewEngine(axes *axis.Set, pulser stepgen.Pulser, reporter status.Reporter) *Engine {
	if reporter == nil {
		reporter = status.Discard
	}
	return &Engine{
		axes:     axes,
		pulser:   pulser,
		reporter: reporter,
	}
}

// SetZUp sets the tool-retracted Z reference
func (e *Engine) SetZUp(z int) {
	e.zUp = z
}

// ZUp returns the tool-retracted Z reference
func (e *Engine) ZUp() int {
	return e.zUp
}

// Position returns the current machine position
func (e *Engine) Position() axis.Position {
	return e.axes.Position()
}

// Move drives all three axes to an absolute target.
//
// All coordinates are validated before anything is touched; a rejected
// target leaves positions and direction lines unchanged. Z retracts before
// horizontal travel when the tool is below the up reference, and plunges
// after horizontal travel when it starts at the up reference.
func (e *Engine) Move(target axis.Position) (Result, error) {
	from := e.axes.Position()

	if err := e.axes.ValidateAll(target); err != nil {
		for _, v := range axis.Violations(err) {
			e.reporter.Report(status.OutOfRange(v))
		}
		return Result{Outcome: OutcomeRejected, Final: from}, err
	}

	plan := NewPlan(from, target, e.zUp)
	if plan.IsNoOp() {
		e.reporter.Report(status.Event{Kind: status.KindNoOp, Pos: from})
		e.reporter.Report(status.Event{Kind: status.KindMoveComplete, Pos: from})
		return Result{Outcome: OutcomeNoOp, Final: from, Plan: plan}, nil
	}

	e.axes.Accept(target)

	// Direction lines are fixed for the whole move
	for id := axis.X; id <= axis.Z; id++ {
		if plan.Delta.Get(id) != 0 {
			e.pulser.SetDirection(id, plan.Forward[id])
		}
	}
	e.pulser.Settle()

	if plan.ZPhase == ZBefore {
		e.stepAxis(axis.Z, plan)
	}

	switch {
	case plan.Interpolated():
		plan.Walk(func(_ int, m stepgen.Mask) {
			e.pulse(m, plan)
		})
	case plan.Delta.X != 0:
		e.stepAxis(axis.X, plan)
	case plan.Delta.Y != 0:
		e.stepAxis(axis.Y, plan)
	}

	// Absorb any residual rounding
	e.axes[axis.X].Current = target.X
	e.axes[axis.Y].Current = target.Y

	if plan.ZPhase == ZAfter {
		e.stepAxis(axis.Z, plan)
	}

	final := e.axes.Position()
	e.reporter.Report(status.Event{Kind: status.KindMoveComplete, Pos: final})

	return Result{Outcome: OutcomeMoved, Final: final, Plan: plan}, nil
}

// stepAxis emits every pulse one axis owes, one at a time
func (e *Engine) stepAxis(id axis.ID, plan Plan) {
	n := abs(plan.Delta.Get(id))
	m := stepgen.Bit(id)
	for i := 0; i < n; i++ {
		e.pulse(m, plan)
	}
}

// pulse emits one lock-step pulse and advances the position counters
func (e *Engine) pulse(m stepgen.Mask, plan Plan) {
	if m == 0 {
		return
	}
	e.pulser.Pulse(m)
	for id := axis.X; id <= axis.Z; id++ {
		if !m.Has(id) {
			continue
		}
		if plan.Forward[id] {
			e.axes[id].Current++
		} else {
			e.axes[id].Current--
		}
	}
}
