package core

import (
	"testing"
	"time"
)

func TestMemGPIOBasic(t *testing.T) {
	driver := NewMemGPIO()

	pin := GPIOPin(25)
	if err := driver.SetPin(pin, true); err == nil {
		t.Error("Expected error setting an unconfigured pin")
	}

	if err := driver.ConfigureOutput(pin); err != nil {
		t.Fatalf("ConfigureOutput failed: %v", err)
	}

	if err := driver.SetPin(pin, true); err != nil {
		t.Fatalf("SetPin(true) failed: %v", err)
	}

	state, err := driver.GetPin(pin)
	if err != nil {
		t.Fatalf("GetPin failed: %v", err)
	}
	if !state {
		t.Errorf("Expected pin to be high, got low")
	}

	if err := driver.SetPin(pin, false); err != nil {
		t.Fatalf("SetPin(false) failed: %v", err)
	}

	state, err = driver.GetPin(pin)
	if err != nil {
		t.Fatalf("GetPin failed: %v", err)
	}
	if state {
		t.Errorf("Expected pin to be low, got high")
	}
}

func TestMemGPIOCountsRisingEdges(t *testing.T) {
	driver := NewMemGPIO()
	pin := GPIOPin(11)
	_ = driver.ConfigureOutput(pin)

	for i := 0; i < 5; i++ {
		_ = driver.SetPin(pin, true)
		_ = driver.SetPin(pin, true) // held high, not a new edge
		_ = driver.SetPin(pin, false)
	}

	if got := driver.Rises(pin); got != 5 {
		t.Errorf("Expected 5 rising edges, got %d", got)
	}
}

func TestMemPWM(t *testing.T) {
	driver := NewMemPWM()
	pin := PWMPin(10)

	if err := driver.SetDutyCycle(pin, 10); err == nil {
		t.Error("Expected error for unconfigured PWM pin")
	}

	if _, err := driver.ConfigureHardwarePWM(pin, TimerFromUS(1000)); err != nil {
		t.Fatalf("ConfigureHardwarePWM failed: %v", err)
	}
	if err := driver.SetDutyCycle(pin, 128); err != nil {
		t.Fatalf("SetDutyCycle failed: %v", err)
	}
	if got := driver.Value(pin); got != 128 {
		t.Errorf("Expected duty 128, got %d", got)
	}
}

func TestTimerConversions(t *testing.T) {
	if got := TimerFromUS(1000); got != 12000 {
		t.Errorf("Expected 12000 ticks for 1ms, got %d", got)
	}
	if got := TimerToUS(12000); got != 1000 {
		t.Errorf("Expected 1000us for 12000 ticks, got %d", got)
	}
	if got := TimerFromDuration(500 * time.Microsecond); got != 6000 {
		t.Errorf("Expected 6000 ticks for 500us, got %d", got)
	}
	if got := TimerFromDuration(-time.Second); got != 0 {
		t.Errorf("Expected 0 ticks for negative duration, got %d", got)
	}
}
