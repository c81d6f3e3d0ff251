package stepgen

import (
	"testing"
	"time"

	"picomill/core"
	"picomill/standalone/axis"
)

func testAxes() *axis.Set {
	return &axis.Set{
		axis.New(axis.X, 0, 8000, 11, 12),
		axis.New(axis.Y, 0, 5450, 13, 14),
		axis.New(axis.Z, 0, 1800, 15, 16),
	}
}

func TestGPIOPulserPulse(t *testing.T) {
	gpio := core.NewMemGPIO()
	var slept []time.Duration

	p, err := NewGPIOPulser(gpio, testAxes(), GPIOConfig{
		PulseWidth: 500 * time.Microsecond,
		Sleep:      func(d time.Duration) { slept = append(slept, d) },
	})
	if err != nil {
		t.Fatalf("NewGPIOPulser failed: %v", err)
	}

	p.Pulse(Bit(axis.X) | Bit(axis.Y))
	p.Pulse(Bit(axis.X))
	p.Pulse(0)

	if got := gpio.Rises(11); got != 2 {
		t.Errorf("Expected 2 X steps, got %d", got)
	}
	if got := gpio.Rises(13); got != 1 {
		t.Errorf("Expected 1 Y step, got %d", got)
	}
	if got := gpio.Rises(15); got != 0 {
		t.Errorf("Expected no Z steps, got %d", got)
	}

	// Every pulse ends low
	for _, pin := range []core.GPIOPin{11, 13, 15} {
		if high, _ := gpio.GetPin(pin); high {
			t.Errorf("Step pin %d left high", pin)
		}
	}

	// Two pulses, high and low phase each, equal widths
	if len(slept) != 4 {
		t.Fatalf("Expected 4 waits, got %d", len(slept))
	}
	for _, d := range slept {
		if d != 500*time.Microsecond {
			t.Errorf("Expected 500us phase, got %v", d)
		}
	}
}

func TestGPIOPulserDirection(t *testing.T) {
	gpio := core.NewMemGPIO()
	cfg := GPIOConfig{Sleep: func(time.Duration) {}}
	cfg.InvertDir[axis.Z] = true

	p, err := NewGPIOPulser(gpio, testAxes(), cfg)
	if err != nil {
		t.Fatalf("NewGPIOPulser failed: %v", err)
	}

	p.SetDirection(axis.X, true)
	p.SetDirection(axis.Y, false)
	p.SetDirection(axis.Z, true)

	if high, _ := gpio.GetPin(12); !high {
		t.Error("Expected X dir high for forward")
	}
	if high, _ := gpio.GetPin(14); high {
		t.Error("Expected Y dir low for reverse")
	}
	if high, _ := gpio.GetPin(16); high {
		t.Error("Expected inverted Z dir low for forward")
	}

	if p.PulseWidth() != DefaultPulseWidth {
		t.Errorf("Expected default pulse width, got %v", p.PulseWidth())
	}
}

func TestGPIOPulserRequiresDriver(t *testing.T) {
	if _, err := NewGPIOPulser(nil, testAxes(), GPIOConfig{}); err == nil {
		t.Error("Expected error for nil driver")
	}

	axes := testAxes()
	axes[axis.Y] = nil
	if _, err := NewGPIOPulser(core.NewMemGPIO(), axes, GPIOConfig{}); err == nil {
		t.Error("Expected error for missing axis")
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.SetDirection(axis.X, false)
	r.Settle()
	r.Pulse(Bit(axis.X) | Bit(axis.Y))
	r.Pulse(Bit(axis.X))

	if got := r.Steps(axis.X); got != 2 {
		t.Errorf("Expected 2 X steps, got %d", got)
	}
	if got := r.Steps(axis.Y); got != 1 {
		t.Errorf("Expected 1 Y step, got %d", got)
	}
	pulses := r.Pulses()
	if len(pulses) != 2 || pulses[0].String() != "XY" || pulses[1].String() != "X" {
		t.Errorf("Unexpected pulses: %v", pulses)
	}

	r.Reset()
	if len(r.Events) != 0 {
		t.Errorf("Expected no events after reset, got %d", len(r.Events))
	}
}

func TestMask(t *testing.T) {
	m := Bit(axis.X) | Bit(axis.Z)
	if !m.Has(axis.X) || m.Has(axis.Y) || !m.Has(axis.Z) {
		t.Errorf("Unexpected membership for %v", m)
	}
	if m.Count() != 2 {
		t.Errorf("Expected count 2, got %d", m.Count())
	}
	if Mask(0).String() != "-" {
		t.Errorf("Expected '-' for empty mask, got %q", Mask(0).String())
	}
}
