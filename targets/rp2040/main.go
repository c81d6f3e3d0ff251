//go:build rp2040

package main

import (
	"context"
	"machine"
	"time"

	"tinygo.org/x/drivers/delay"

	"picomill/core"
	"picomill/standalone"
	"picomill/standalone/config"
	"picomill/standalone/status"
	"picomill/standalone/stepgen"
)

// usePIO selects hardware-timed step pulses. The GPIO pulser is kept as a
// fallback for boards where PIO0 is taken.
const usePIO = true

func main() {
	cfg := config.Default()

	uart := machine.UART0
	err := uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GPIO0,
		RX:       machine.GPIO1,
	})
	if err != nil {
		halt()
	}

	gpio := NewRPGPIODriver()

	// Wake the stepper drivers and release them from reset
	for _, pin := range []uint32{cfg.SleepPin, cfg.ResetPin} {
		if err := gpio.ConfigureOutput(core.GPIOPin(pin)); err != nil {
			fail(uart, err)
		}
		_ = gpio.SetPin(core.GPIOPin(pin), true)
	}

	pulser, err := newPulser(gpio, cfg)
	if err != nil {
		fail(uart, err)
	}

	ctrl, err := standalone.NewController(cfg, pulser, NewRP2040PWMDriver(), status.NewTextReporter(uart))
	if err != nil {
		fail(uart, err)
	}

	manager := standalone.NewManager(ctrl, uart)
	go receiveLoop(uart, manager)

	_ = manager.Run(context.Background())
}

// newPulser builds the step pulse backend for the configured axes
func newPulser(gpio core.GPIODriver, cfg *config.MachineConfig) (stepgen.Pulser, error) {
	axes := cfg.NewAxes()
	pcfg := stepgen.GPIOConfig{
		PulseWidth: cfg.PulseWidth(),
		DirSettle:  cfg.DirSettle(),
		InvertDir:  cfg.InvertDir(),
		Sleep:      delay.Sleep,
	}

	if usePIO {
		p, err := NewPIOPulser(gpio, axes, pcfg)
		if err == nil {
			return p, nil
		}
	}
	return stepgen.NewGPIOPulser(gpio, axes, pcfg)
}

// receiveLoop drains the UART receive ring into the manager. The UART
// interrupt fills the ring; this goroutine only moves bytes along.
func receiveLoop(uart *machine.UART, m *standalone.Manager) {
	for {
		for uart.Buffered() > 0 {
			b, err := uart.ReadByte()
			if err != nil {
				break
			}
			m.ReceiveByte(b)
		}
		time.Sleep(100 * time.Microsecond)
	}
}

// fail reports a startup error and halts
func fail(uart *machine.UART, err error) {
	status.NewTextReporter(uart).Report(status.Event{Kind: status.KindError, Text: err.Error()})
	halt()
}

// halt flashes the LED rapidly forever
func halt() {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		led.High()
		time.Sleep(100 * time.Millisecond)
		led.Low()
		time.Sleep(100 * time.Millisecond)
	}
}
