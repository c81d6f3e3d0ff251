package stepgen

import (
	"errors"
	"time"

	"picomill/core"
	"picomill/standalone/axis"
)

// Defaults taken from the reference board (DRV8825 drivers, 500us half period)
const (
	DefaultPulseWidth = 500 * time.Microsecond
	DefaultDirSettle  = 5 * time.Microsecond
)

// GPIOConfig configures a GPIOPulser
type GPIOConfig struct {
	PulseWidth time.Duration // high time, low time is the same
	DirSettle  time.Duration // direction setup before first step edge
	InvertDir  [axis.Count]bool

	// Sleep waits for a duration. Targets substitute a busy-wait
	// implementation; nil means time.Sleep.
	Sleep func(time.Duration)
}

// GPIOPulser drives step/dir lines through a core.GPIODriver
type GPIOPulser struct {
	gpio   core.GPIODriver
	step   [axis.Count]core.GPIOPin
	dir    [axis.Count]core.GPIOPin
	invert [axis.Count]bool
	width  time.Duration
	settle time.Duration
	sleep  func(time.Duration)
}

// NewGPIOPulser configures the step and direction pins of every axis as
// outputs, driven low
func NewGPIOPulser(gpio core.GPIODriver, axes *axis.Set, cfg GPIOConfig) (*GPIOPulser, error) {
	if gpio == nil {
		return nil, errors.New("gpio driver is nil")
	}

	p := &GPIOPulser{
		gpio:   gpio,
		invert: cfg.InvertDir,
		width:  cfg.PulseWidth,
		settle: cfg.DirSettle,
		sleep:  cfg.Sleep,
	}
	if p.width <= 0 {
		p.width = DefaultPulseWidth
	}
	if p.settle < 0 {
		p.settle = 0
	}
	if p.sleep == nil {
		p.sleep = time.Sleep
	}

	for id := axis.X; id <= axis.Z; id++ {
		a := axes[id]
		if a == nil {
			return nil, errors.New(id.String() + " axis not configured")
		}
		p.step[id] = a.Step
		p.dir[id] = a.Dir

		if err := gpio.ConfigureOutput(a.Step); err != nil {
			return nil, err
		}
		if err := gpio.ConfigureOutput(a.Dir); err != nil {
			return nil, err
		}
		_ = gpio.SetPin(a.Step, false)
		_ = gpio.SetPin(a.Dir, false)
	}

	return p, nil
}

// SetDirection drives the direction line of an axis
func (p *GPIOPulser) SetDirection(id axis.ID, forward bool) {
	level := forward
	if p.invert[id] {
		level = !level
	}
	_ = p.gpio.SetPin(p.dir[id], level)
}

// Settle waits the direction setup time
func (p *GPIOPulser) Settle() {
	if p.settle > 0 {
		p.sleep(p.settle)
	}
}

// Pulse emits one step on every axis in the mask
func (p *GPIOPulser) Pulse(axes Mask) {
	if axes == 0 {
		return
	}

	for id := axis.X; id <= axis.Z; id++ {
		if axes.Has(id) {
			_ = p.gpio.SetPin(p.step[id], true)
		}
	}
	p.sleep(p.width)

	for id := axis.X; id <= axis.Z; id++ {
		if axes.Has(id) {
			_ = p.gpio.SetPin(p.step[id], false)
		}
	}
	p.sleep(p.width)
}

// PulseWidth returns the configured high/low width
func (p *GPIOPulser) PulseWidth() time.Duration {
	return p.width
}
