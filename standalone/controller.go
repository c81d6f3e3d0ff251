// Package standalone runs the mill without a host: it owns the machine
// state and executes text commands received over the serial link.
package standalone

import (
	"errors"
	"fmt"

	"picomill/core"
	"picomill/standalone/axis"
	"picomill/standalone/config"
	"picomill/standalone/planner"
	"picomill/standalone/sequence"
	"picomill/standalone/spindle"
	"picomill/standalone/status"
	"picomill/standalone/stepgen"
)

var (
	// ErrSpindleStopped is returned when the plunge interlock refuses a
	// move that lowers the tool with the spindle off
	ErrSpindleStopped = errors.New("spindle stopped")
	// ErrUnknownSequence is returned by Load for names not in the library
	ErrUnknownSequence = errors.New("unknown sequence")
	// ErrBadGeometry is returned by Resize for non-positive sizes or
	// negative offsets
	ErrBadGeometry = errors.New("bad display geometry")
)

// ZReference is the pair of Z positions sequences are drawn with
type ZReference struct {
	Up   int // tool retracted
	Down int // tool engaged
}

// Display is the dashboard geometry. It has no effect on motion.
type Display struct {
	Width  int
	Height int
	X0     int
	Y0     int
}

// Controller owns every piece of machine state. Operations run to
// completion on the caller's goroutine and report their outcome.
type Controller struct {
	axes     *axis.Set
	engine   *planner.Engine
	player   *sequence.Player
	library  *sequence.Library
	spindle  *spindle.Spindle
	reporter status.Reporter

	zref      ZReference
	display   Display
	interlock string
}

// NewController builds a controller from a validated configuration
func NewController(cfg *config.MachineConfig, pulser stepgen.Pulser, pwm core.PWMDriver, reporter status.Reporter) (*Controller, error) {
	if reporter == nil {
		reporter = status.Discard
	}

	sp, err := spindle.New(pwm, core.PWMPin(cfg.Spindle.Pin), cfg.SpindlePeriod())
	if err != nil {
		return nil, fmt.Errorf("spindle: %w", err)
	}

	library := sequence.NewLibrary()
	for name, strokes := range cfg.Sequences {
		if err := library.Add(name, strokes); err != nil {
			return nil, fmt.Errorf("sequence %q: %w", name, err)
		}
	}

	axes := cfg.NewAxes()
	c := &Controller{
		axes:      axes,
		engine:    planner.NewEngine(axes, pulser, reporter),
		library:   library,
		spindle:   sp,
		reporter:  reporter,
		zref:      ZReference{Up: cfg.ZUp, Down: cfg.ZDown},
		display:   Display{Width: cfg.Display.Width, Height: cfg.Display.Height},
		interlock: cfg.Spindle.Interlock,
	}
	c.engine.SetZUp(cfg.ZUp)
	c.player = sequence.NewPlayer(guardedMover{c}, reporter, cfg.Policy())

	return c, nil
}

// Move performs a coordinated absolute move
func (c *Controller) Move(target axis.Position) error {
	_, err := c.move(target)
	return err
}

// move applies the spindle interlock and hands the target to the engine
func (c *Controller) move(target axis.Position) (planner.Result, error) {
	if err := c.checkInterlock(target); err != nil {
		c.reporter.Report(status.Event{Kind: status.KindError, Text: err.Error()})
		return planner.Result{Outcome: planner.OutcomeRejected, Final: c.axes.Position()}, err
	}
	return c.engine.Move(target)
}

// checkInterlock refuses to take Z further from the up reference while
// the spindle is stopped. Retracting is always allowed.
func (c *Controller) checkInterlock(target axis.Position) error {
	if c.interlock != config.InterlockPlunge || c.spindle.Running() {
		return nil
	}
	up := c.zref.Up
	if distance(target.Z, up) > distance(c.axes[axis.Z].Current, up) {
		return fmt.Errorf("%w: refusing to lower Z to %d", ErrSpindleStopped, target.Z)
	}
	return nil
}

// Home moves to the origin
func (c *Controller) Home() error {
	return c.Move(axis.Position{})
}

// Zero declares the current physical position to be the origin. The Z
// references move with the origin so they keep naming the same physical
// heights.
func (c *Controller) Zero() {
	z := c.axes[axis.Z].Current
	c.zref.Up -= z
	c.zref.Down -= z
	c.engine.SetZUp(c.zref.Up)
	c.axes.Reset(axis.Position{})
	c.reporter.Report(status.Event{Kind: status.KindZero, Pos: c.axes.Position()})
}

// Load plays a named sequence with the current Z references
func (c *Controller) Load(name string) error {
	strokes, ok := c.library.Lookup(name)
	if !ok {
		err := fmt.Errorf("%w %q", ErrUnknownSequence, name)
		c.reporter.Report(status.Event{Kind: status.KindError, Text: err.Error()})
		return err
	}
	return c.player.Play(name, sequence.Resolve(strokes, c.zref.Up, c.zref.Down))
}

// SetZ makes the current Z the up reference and the current Z plus depth
// the down reference. The down reference must lie inside the Z bounds.
func (c *Controller) SetZ(depth int) error {
	cur := c.axes[axis.Z].Current
	down := cur + depth

	if err := c.axes[axis.Z].Validate(down); err != nil {
		var oor *axis.OutOfRangeError
		if errors.As(err, &oor) {
			c.reporter.Report(status.OutOfRange(oor))
		}
		return err
	}

	c.zref = ZReference{Up: cur, Down: down}
	c.engine.SetZUp(cur)
	c.reporter.Report(status.Event{Kind: status.KindZReference, Up: cur, Down: down})
	return nil
}

// Spin sets the spindle duty cycle
func (c *Controller) Spin(duty int) error {
	if err := c.spindle.SetSpeed(duty); err != nil {
		var oor *axis.OutOfRangeError
		if errors.As(err, &oor) {
			c.reporter.Report(status.OutOfRange(oor))
		} else {
			c.reporter.Report(status.Event{Kind: status.KindError, Text: err.Error()})
		}
		return err
	}
	c.reporter.Report(status.Event{Kind: status.KindSpindle, Duty: duty})
	return nil
}

// Resize changes the dashboard geometry
func (c *Controller) Resize(width, height, x0, y0 int) error {
	if width <= 0 || height <= 0 || x0 < 0 || y0 < 0 {
		err := fmt.Errorf("%w: %dx%d at %d,%d", ErrBadGeometry, width, height, x0, y0)
		c.reporter.Report(status.Event{Kind: status.KindError, Text: err.Error()})
		return err
	}

	c.display = Display{Width: width, Height: height, X0: x0, Y0: y0}
	c.reporter.Report(status.Event{Kind: status.KindResize, Width: width, Height: height, X0: x0, Y0: y0})
	return nil
}

// Jog moves one axis by a relative number of steps
func (c *Controller) Jog(id axis.ID, steps int) error {
	pos := c.axes.Position()
	return c.Move(pos.With(id, pos.Get(id)+steps))
}

// Position returns the current machine position
func (c *Controller) Position() axis.Position {
	return c.axes.Position()
}

// Sequences returns the names of all loadable sequences
func (c *Controller) Sequences() []string {
	return c.library.Names()
}

// ZReference returns the current up/down references
func (c *Controller) ZReference() ZReference {
	return c.zref
}

// Display returns the dashboard geometry
func (c *Controller) Display() Display {
	return c.display
}

// SpindleDuty returns the current spindle duty cycle
func (c *Controller) SpindleDuty() int {
	return c.spindle.Duty()
}

// Stop turns the spindle off
func (c *Controller) Stop() error {
	return c.spindle.Stop()
}

// guardedMover lets sequences go through the interlock
type guardedMover struct {
	c *Controller
}

func (g guardedMover) Move(target axis.Position) (planner.Result, error) {
	return g.c.move(target)
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
