// Package spindle drives the spindle motor speed through a PWM output.
package spindle

import (
	"errors"
	"time"

	"picomill/core"
	"picomill/standalone/axis"
)

// Duty cycle range accepted by SetSpeed
const (
	MinDuty = 0
	MaxDuty = 255
)

// DefaultPeriod is the PWM period used when none is configured (1kHz)
const DefaultPeriod = time.Millisecond

var ErrNoDriver = errors.New("spindle: no PWM driver")

// Spindle is one PWM-driven spindle output. It is independent of motion;
// interlocks are the caller's business.
type Spindle struct {
	driver     core.PWMDriver
	pin        core.PWMPin
	cycleTicks uint32
	duty       int
}

// New configures pin for hardware PWM with the given period and starts it
// with the spindle stopped
func New(driver core.PWMDriver, pin core.PWMPin, period time.Duration) (*Spindle, error) {
	if driver == nil {
		return nil, ErrNoDriver
	}
	if period <= 0 {
		period = DefaultPeriod
	}

	ticks, err := driver.ConfigureHardwarePWM(pin, core.TimerFromDuration(period))
	if err != nil {
		return nil, err
	}

	s := &Spindle{driver: driver, pin: pin, cycleTicks: ticks}
	if err := driver.SetDutyCycle(pin, 0); err != nil {
		return nil, err
	}
	return s, nil
}

// SetSpeed applies a duty cycle in [0, 255]. Values outside the range
// fail with an *axis.OutOfRangeError named "spindle" and leave the output
// unchanged.
func (s *Spindle) SetSpeed(duty int) error {
	if duty < MinDuty || duty > MaxDuty {
		return &axis.OutOfRangeError{
			Name:  "spindle",
			Value: duty,
			Min:   MinDuty,
			Max:   MaxDuty,
			Below: duty < MinDuty,
		}
	}

	if err := s.driver.SetDutyCycle(s.pin, s.scale(duty)); err != nil {
		return err
	}
	s.duty = duty
	return nil
}

// Stop sets the duty cycle to zero
func (s *Spindle) Stop() error {
	return s.SetSpeed(0)
}

// Duty returns the last applied duty cycle
func (s *Spindle) Duty() int {
	return s.duty
}

// Running reports whether the spindle has a non-zero duty cycle
func (s *Spindle) Running() bool {
	return s.duty > 0
}

// CycleTicks returns the PWM period the driver actually selected
func (s *Spindle) CycleTicks() uint32 {
	return s.cycleTicks
}

// scale maps 0..255 onto the driver's range, rounding to nearest
func (s *Spindle) scale(duty int) core.PWMValue {
	top := uint64(s.driver.GetMaxValue())
	if top == MaxDuty {
		return core.PWMValue(duty)
	}
	return core.PWMValue((uint64(duty)*top + MaxDuty/2) / MaxDuty)
}
