// Package config holds the machine configuration: axis bounds and pins,
// pulse timing, spindle output and sequence definitions.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"picomill/core"
	"picomill/standalone/axis"
	"picomill/standalone/sequence"
)

// Spindle interlock policies
const (
	InterlockNone   = "none"
	InterlockPlunge = "plunge"
)

// MaxGPIO is the highest usable GPIO number on the RP2040
const MaxGPIO = 29

// AxisConfig is the configuration of one linear axis
type AxisConfig struct {
	Min       int    `yaml:"min" json:"min"`
	Max       int    `yaml:"max" json:"max"`
	StepPin   uint32 `yaml:"step_pin" json:"step_pin"`
	DirPin    uint32 `yaml:"dir_pin" json:"dir_pin"`
	InvertDir bool   `yaml:"invert_dir" json:"invert_dir"`
}

// AxesConfig groups the three axes
type AxesConfig struct {
	X AxisConfig `yaml:"x" json:"x"`
	Y AxisConfig `yaml:"y" json:"y"`
	Z AxisConfig `yaml:"z" json:"z"`
}

// Get returns the configuration for one axis
func (a *AxesConfig) Get(id axis.ID) *AxisConfig {
	switch id {
	case axis.X:
		return &a.X
	case axis.Y:
		return &a.Y
	default:
		return &a.Z
	}
}

// SpindleConfig describes the spindle PWM output
type SpindleConfig struct {
	Pin       uint32 `yaml:"pin" json:"pin"`
	PeriodUS  uint32 `yaml:"period_us" json:"period_us"`
	Interlock string `yaml:"interlock" json:"interlock"`
}

// DisplayConfig is the initial dashboard geometry
type DisplayConfig struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// MachineConfig is the complete machine configuration
type MachineConfig struct {
	Axes AxesConfig `yaml:"axes" json:"axes"`

	PulseWidthUS uint32 `yaml:"pulse_width_us" json:"pulse_width_us"`
	DirSettleUS  uint32 `yaml:"dir_settle_us" json:"dir_settle_us"`

	// ZUp is the initial tool-retracted Z reference; ZDown the engaged one
	ZUp   int `yaml:"z_up" json:"z_up"`
	ZDown int `yaml:"z_down" json:"z_down"`

	Spindle        SpindleConfig `yaml:"spindle" json:"spindle"`
	SequencePolicy string        `yaml:"sequence_policy" json:"sequence_policy"`

	// Stepper driver control lines, driven high at boot
	SleepPin uint32 `yaml:"sleep_pin" json:"sleep_pin"`
	ResetPin uint32 `yaml:"reset_pin" json:"reset_pin"`

	Display   DisplayConfig                `yaml:"display" json:"display"`
	Sequences map[string][]sequence.Stroke `yaml:"sequences" json:"sequences"`
}

// Load parses a YAML (or JSON) document over the default configuration,
// fills remaining zero values and validates the result
func Load(data []byte) (*MachineConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads and parses a configuration file
func LoadFile(path string) (*MachineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

// ApplyDefaults fills in missing configuration values
func ApplyDefaults(cfg *MachineConfig) {
	if cfg.PulseWidthUS == 0 {
		cfg.PulseWidthUS = 500
	}
	if cfg.DirSettleUS == 0 {
		cfg.DirSettleUS = 5
	}
	if cfg.Spindle.PeriodUS == 0 {
		cfg.Spindle.PeriodUS = 1000 // 1kHz
	}
	if cfg.Spindle.Interlock == "" {
		cfg.Spindle.Interlock = InterlockNone
	}
	if cfg.SequencePolicy == "" {
		cfg.SequencePolicy = sequence.PolicyAbort.String()
	}
	if cfg.Display.Width == 0 {
		cfg.Display.Width = 80
	}
	if cfg.Display.Height == 0 {
		cfg.Display.Height = 20
	}
}

var (
	ErrBadBounds    = errors.New("axis min must be below max")
	ErrNoOrigin     = errors.New("axis range must include the power-on position 0")
	ErrPinRange     = errors.New("pin out of range")
	ErrPinReused    = errors.New("pin used twice")
	ErrBadInterlock = errors.New("unknown spindle interlock")
	ErrBadDisplay   = errors.New("display size must be positive")
	ErrBadSequence  = errors.New("invalid sequence")
)

// Validate checks the configuration and returns every problem found
func (c *MachineConfig) Validate() error {
	var err error

	pins := make(map[uint32]string)
	usePin := func(pin uint32, what string) {
		if pin > MaxGPIO {
			err = multierr.Append(err, fmt.Errorf("%s: gpio%d: %w", what, pin, ErrPinRange))
			return
		}
		if prev, ok := pins[pin]; ok {
			err = multierr.Append(err, fmt.Errorf("%s and %s: gpio%d: %w", prev, what, pin, ErrPinReused))
			return
		}
		pins[pin] = what
	}

	for id := axis.X; id <= axis.Z; id++ {
		a := c.Axes.Get(id)
		if a.Min >= a.Max {
			err = multierr.Append(err, fmt.Errorf("axis %s [%d, %d]: %w", id, a.Min, a.Max, ErrBadBounds))
		} else if a.Min > 0 || a.Max < 0 {
			err = multierr.Append(err, fmt.Errorf("axis %s [%d, %d]: %w", id, a.Min, a.Max, ErrNoOrigin))
		}
		usePin(a.StepPin, id.String()+" step")
		usePin(a.DirPin, id.String()+" dir")
	}
	usePin(c.Spindle.Pin, "spindle")
	usePin(c.SleepPin, "sleep")
	usePin(c.ResetPin, "reset")

	z := c.Axes.Z
	if c.ZUp < z.Min || c.ZUp > z.Max {
		err = multierr.Append(err, fmt.Errorf("z_up: %w", &axis.OutOfRangeError{
			Name: "z_up", Value: c.ZUp, Min: z.Min, Max: z.Max, Below: c.ZUp < z.Min,
		}))
	}
	if c.ZDown < z.Min || c.ZDown > z.Max {
		err = multierr.Append(err, fmt.Errorf("z_down: %w", &axis.OutOfRangeError{
			Name: "z_down", Value: c.ZDown, Min: z.Min, Max: z.Max, Below: c.ZDown < z.Min,
		}))
	}

	switch c.Spindle.Interlock {
	case InterlockNone, InterlockPlunge:
	default:
		err = multierr.Append(err, fmt.Errorf("%q: %w", c.Spindle.Interlock, ErrBadInterlock))
	}

	if _, perr := sequence.ParsePolicy(c.SequencePolicy); perr != nil {
		err = multierr.Append(err, perr)
	}

	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("%dx%d: %w", c.Display.Width, c.Display.Height, ErrBadDisplay))
	}

	for name, strokes := range c.Sequences {
		if name == "" || len(strokes) == 0 {
			err = multierr.Append(err, fmt.Errorf("sequence %q: %w", name, ErrBadSequence))
		}
	}

	return err
}

// Policy returns the sequence failure policy. It assumes Validate passed.
func (c *MachineConfig) Policy() sequence.Policy {
	p, _ := sequence.ParsePolicy(c.SequencePolicy)
	return p
}

// PulseWidth returns the step pulse width
func (c *MachineConfig) PulseWidth() time.Duration {
	return time.Duration(c.PulseWidthUS) * time.Microsecond
}

// DirSettle returns the direction settle time
func (c *MachineConfig) DirSettle() time.Duration {
	return time.Duration(c.DirSettleUS) * time.Microsecond
}

// SpindlePeriod returns the spindle PWM period
func (c *MachineConfig) SpindlePeriod() time.Duration {
	return time.Duration(c.Spindle.PeriodUS) * time.Microsecond
}

// NewAxes builds the axis set described by the configuration
func (c *MachineConfig) NewAxes() *axis.Set {
	var set axis.Set
	for id := axis.X; id <= axis.Z; id++ {
		a := c.Axes.Get(id)
		set[id] = axis.New(id, a.Min, a.Max, core.GPIOPin(a.StepPin), core.GPIOPin(a.DirPin))
	}
	return &set
}

// InvertDir returns the per-axis direction inversion flags
func (c *MachineConfig) InvertDir() [axis.Count]bool {
	var inv [axis.Count]bool
	for id := axis.X; id <= axis.Z; id++ {
		inv[id] = c.Axes.Get(id).InvertDir
	}
	return inv
}

// Default returns the configuration of the reference machine
func Default() *MachineConfig {
	return &MachineConfig{
		Axes: AxesConfig{
			X: AxisConfig{Min: 0, Max: 8000, StepPin: 11, DirPin: 12},
			Y: AxisConfig{Min: 0, Max: 5450, StepPin: 13, DirPin: 14},
			Z: AxisConfig{Min: 0, Max: 1800, StepPin: 15, DirPin: 16},
		},
		PulseWidthUS: 500,
		DirSettleUS:  5,
		ZUp:          0,
		ZDown:        0,
		Spindle: SpindleConfig{
			Pin:       20,
			PeriodUS:  1000,
			Interlock: InterlockNone,
		},
		SequencePolicy: sequence.PolicyAbort.String(),
		SleepPin:       17,
		ResetPin:       18,
		Display:        DisplayConfig{Width: 80, Height: 20},
	}
}
