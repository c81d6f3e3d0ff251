//go:build rp2040

package main

import (
	"errors"
	"machine"

	"picomill/core"
)

// pwmMax is the duty resolution exposed to core code
const pwmMax = 255

var errPWMNotConfigured = errors.New("pwm pin not configured")

// pwmPeripheral abstracts over TinyGo's unexported *pwmGroup type
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// RP2040PWMDriver implements core.PWMDriver on the RP2040's 8 PWM slices
type RP2040PWMDriver struct {
	// Key: pin number, Value: PWM channel
	channels map[uint32]uint8

	// Key: slice number (0-7)
	peripherals map[uint8]pwmPeripheral
}

// NewRP2040PWMDriver creates a new RP2040 PWM driver
func NewRP2040PWMDriver() *RP2040PWMDriver {
	return &RP2040PWMDriver{
		channels:    make(map[uint32]uint8),
		peripherals: make(map[uint8]pwmPeripheral),
	}
}

// GetMaxValue returns the maximum PWM value (255)
func (d *RP2040PWMDriver) GetMaxValue() uint32 {
	return pwmMax
}

// ConfigureHardwarePWM configures a pin for hardware PWM output with a
// period given in core timer ticks
func (d *RP2040PWMDriver) ConfigureHardwarePWM(pin core.PWMPin, cycleTicks uint32) (uint32, error) {
	pinNum := uint32(pin)

	// GPIO N maps to slice (N >> 1) & 7, channel N & 1
	sliceNum := uint8((pinNum >> 1) & 0x7)

	pwm, exists := d.peripherals[sliceNum]
	if !exists {
		pwm = pwmSlice(sliceNum)
		d.peripherals[sliceNum] = pwm
	}

	period := uint64(core.TimerToUS(cycleTicks)) * 1000
	if err := pwm.Configure(machine.PWMConfig{Period: period}); err != nil {
		return 0, err
	}

	channel, err := pwm.Channel(machine.Pin(pinNum))
	if err != nil {
		return 0, err
	}
	pwm.Set(channel, 0)

	d.channels[pinNum] = channel
	return cycleTicks, nil
}

// SetDutyCycle sets the duty cycle, 0 (off) to 255 (fully on)
func (d *RP2040PWMDriver) SetDutyCycle(pin core.PWMPin, value core.PWMValue) error {
	pinNum := uint32(pin)

	channel, exists := d.channels[pinNum]
	if !exists {
		return errPWMNotConfigured
	}
	pwm := d.peripherals[uint8((pinNum>>1)&0x7)]

	if value > pwmMax {
		value = pwmMax
	}
	pwm.Set(channel, uint32(value)*pwm.Top()/pwmMax)
	return nil
}

// DisablePWM drives the output low and forgets the pin. TinyGo has no way
// to hand the pin back to the GPIO function.
func (d *RP2040PWMDriver) DisablePWM(pin core.PWMPin) error {
	pinNum := uint32(pin)
	if channel, exists := d.channels[pinNum]; exists {
		d.peripherals[uint8((pinNum>>1)&0x7)].Set(channel, 0)
	}
	delete(d.channels, pinNum)
	return nil
}

func pwmSlice(sliceNum uint8) pwmPeripheral {
	switch sliceNum {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}
