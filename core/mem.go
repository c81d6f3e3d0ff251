package core

import (
	"errors"
	"sync"
)

var (
	errPinNotConfigured = errors.New("pin not configured")
	errPWMNotConfigured = errors.New("pwm pin not configured")
)

// MemGPIO is an in-memory GPIODriver used by host builds and tests.
// It keeps the level of every configured pin and counts rising edges so
// step pulses can be tallied without hardware.
type MemGPIO struct {
	mu     sync.Mutex
	levels map[GPIOPin]bool
	rises  map[GPIOPin]int
}

// NewMemGPIO creates an empty in-memory GPIO driver
func NewMemGPIO() *MemGPIO {
	return &MemGPIO{
		levels: make(map[GPIOPin]bool),
		rises:  make(map[GPIOPin]int),
	}
}

// ConfigureOutput configures a pin as a digital output, initially low
func (m *MemGPIO) ConfigureOutput(pin GPIOPin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.levels[pin]; !ok {
		m.levels[pin] = false
	}
	return nil
}

// SetPin sets the pin level, counting low-to-high transitions
func (m *MemGPIO) SetPin(pin GPIOPin, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.levels[pin]
	if !ok {
		return errPinNotConfigured
	}
	if value && !prev {
		m.rises[pin]++
	}
	m.levels[pin] = value
	return nil
}

// GetPin reads the current pin level
func (m *MemGPIO) GetPin(pin GPIOPin) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.levels[pin]
	if !ok {
		return false, errPinNotConfigured
	}
	return v, nil
}

// Rises returns the number of rising edges seen on a pin
func (m *MemGPIO) Rises(pin GPIOPin) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rises[pin]
}

// MemPWM is an in-memory PWMDriver with an 8-bit range
type MemPWM struct {
	mu     sync.Mutex
	cycles map[PWMPin]uint32
	values map[PWMPin]PWMValue
}

// NewMemPWM creates an empty in-memory PWM driver
func NewMemPWM() *MemPWM {
	return &MemPWM{
		cycles: make(map[PWMPin]uint32),
		values: make(map[PWMPin]PWMValue),
	}
}

// ConfigureHardwarePWM records the cycle time for a pin
func (m *MemPWM) ConfigureHardwarePWM(pin PWMPin, cycleTicks uint32) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cycles[pin] = cycleTicks
	m.values[pin] = 0
	return cycleTicks, nil
}

// SetDutyCycle stores the duty value for a configured pin
func (m *MemPWM) SetDutyCycle(pin PWMPin, value PWMValue) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.cycles[pin]; !ok {
		return errPWMNotConfigured
	}
	if uint32(value) > 255 {
		value = 255
	}
	m.values[pin] = value
	return nil
}

// GetMaxValue returns 255
func (m *MemPWM) GetMaxValue() uint32 {
	return 255
}

// DisablePWM forgets a pin
func (m *MemPWM) DisablePWM(pin PWMPin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.cycles, pin)
	delete(m.values, pin)
	return nil
}

// Value returns the current duty value of a pin
func (m *MemPWM) Value(pin PWMPin) PWMValue {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[pin]
}
