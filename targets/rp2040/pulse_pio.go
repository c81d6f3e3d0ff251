//go:build rp2040

package main

import (
	"errors"
	"machine"
	"time"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
	"tinygo.org/x/drivers/delay"

	"picomill/core"
	"picomill/standalone/axis"
	"picomill/standalone/stepgen"
)

// Pulse program, one state machine per axis. Each TX word carries the
// high and low phase lengths in microseconds; the state machine answers
// with an RX word once the low phase is over, which is how Pulse blocks
// until every owing axis has finished.
//
//	0: pull block
//	1: out x, 16      ; high cycles
//	2: out y, 16      ; low cycles
//	3: set pins, 1
//	4: jmp x--, 4
//	5: set pins, 0
//	6: jmp y--, 6
//	7: push block     ; completion
func buildPulseProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		asm.Pull(false, true).Encode(),
		asm.Out(rp2pio.OutDestX, 16).Encode(),
		asm.Out(rp2pio.OutDestY, 16).Encode(),
		asm.Set(rp2pio.SetDestPins, 1).Encode(),
		asm.Jmp(4, rp2pio.JmpXNZeroDec).Encode(),
		asm.Set(rp2pio.SetDestPins, 0).Encode(),
		asm.Jmp(6, rp2pio.JmpYNZeroDec).Encode(),
		asm.Push(false, true).Encode(),
	}
}

// Program must sit at offset 0 for the absolute jump targets
const pulsePIOOrigin = 0

// Fixed instruction overhead of each phase, in state machine cycles
const (
	highOverhead = 2
	lowOverhead  = 3
)

var errPulseWidth = errors.New("pulse width out of PIO range")

// PIOPulser emits step pulses from PIO0 with hardware timing. Direction
// lines stay on plain GPIO.
type PIOPulser struct {
	pio    *rp2pio.PIO
	sms    [axis.Count]rp2pio.StateMachine
	word   uint32
	gpio   core.GPIODriver
	dir    [axis.Count]core.GPIOPin
	invert [axis.Count]bool
	settle time.Duration
}

// NewPIOPulser claims state machines 0-2 of PIO0 for the X, Y and Z step
// pins and configures the direction pins as outputs
func NewPIOPulser(gpio core.GPIODriver, axes *axis.Set, cfg stepgen.GPIOConfig) (*PIOPulser, error) {
	width := cfg.PulseWidth
	if width <= 0 {
		width = stepgen.DefaultPulseWidth
	}
	us := uint32(width.Microseconds())
	if us <= lowOverhead || us > 0xFFFF {
		return nil, errPulseWidth
	}

	p := &PIOPulser{
		pio:    rp2pio.PIO0,
		gpio:   gpio,
		invert: cfg.InvertDir,
		settle: cfg.DirSettle,
		word:   (us - highOverhead) | (us-lowOverhead)<<16,
	}

	program := buildPulseProgram()
	offset, err := p.pio.AddProgram(program, pulsePIOOrigin)
	if err != nil {
		return nil, err
	}

	// One state machine cycle per microsecond
	div := uint16(machine.CPUFrequency() / 1000000)

	for id := axis.X; id <= axis.Z; id++ {
		a := axes[id]
		if a == nil {
			return nil, errors.New(id.String() + " axis not configured")
		}

		p.dir[id] = a.Dir
		if err := gpio.ConfigureOutput(a.Dir); err != nil {
			return nil, err
		}
		_ = gpio.SetPin(a.Dir, false)

		step := machine.Pin(a.Step)
		step.Configure(machine.PinConfig{Mode: p.pio.PinMode()})

		sm := p.pio.StateMachine(uint8(id))
		if !sm.TryClaim() {
			// stop the machines already started
			for prev := axis.X; prev < id; prev++ {
				p.sms[prev].SetEnabled(false)
			}
			return nil, errors.New(id.String() + " state machine in use")
		}

		smCfg := rp2pio.DefaultStateMachineConfig()
		smCfg.SetSetPins(step, 1)
		smCfg.SetOutShift(true, false, 32)
		smCfg.SetWrap(offset+uint8(len(program))-1, offset)
		smCfg.SetClkDivIntFrac(div, 0)

		sm.Init(offset, smCfg)
		sm.SetPindirsConsecutive(step, 1, true)
		sm.SetPinsConsecutive(step, 1, false)
		sm.SetEnabled(true)

		p.sms[id] = sm
	}

	return p, nil
}

// SetDirection drives one direction line, high for forward
func (p *PIOPulser) SetDirection(id axis.ID, forward bool) {
	_ = p.gpio.SetPin(p.dir[id], forward != p.invert[id])
}

// Settle waits for the direction setup time
func (p *PIOPulser) Settle() {
	if p.settle > 0 {
		delay.Sleep(p.settle)
	}
}

// Pulse starts every owing state machine, then waits for each to report
// the end of its low phase
func (p *PIOPulser) Pulse(axes stepgen.Mask) {
	for id := axis.X; id <= axis.Z; id++ {
		if axes.Has(id) {
			p.sms[id].TxPut(p.word)
		}
	}
	for id := axis.X; id <= axis.Z; id++ {
		if !axes.Has(id) {
			continue
		}
		for p.sms[id].IsRxFIFOEmpty() {
		}
		p.sms[id].RxGet()
	}
}
