// Package emulator wires the CPU, MMU, and interrupt controller into a
// single driver loop: load a cartridge, then Step or Run it.
package emulator

import (
	"io"

	"github.com/sirupsen/logrus"

	"gameboy-emulator/internal/cartridge"
	"gameboy-emulator/internal/cpu"
	"gameboy-emulator/internal/interrupt"
	"gameboy-emulator/internal/memory"
)

// Emulator bundles the core with the cartridge it is executing.
type Emulator struct {
	CPU  *cpu.Core
	MMU  *memory.MMU
	Cart *cartridge.Cartridge

	log *logrus.Entry
}

// New loads rom and returns an Emulator ready to Step, with serial output
// forwarded to the given writer (pass nil to discard it).
func New(rom []byte, serial io.Writer, log *logrus.Entry) (*Emulator, error) {
	cart, err := cartridge.LoadFromBytes(rom)
	if err != nil {
		return nil, err
	}

	interrupts := interrupt.NewController()
	mmu := memory.New(cart, interrupts, memory.Options{Serial: serial})
	core := cpu.New(mmu, interrupts)

	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}

	return &Emulator{CPU: core, MMU: mmu, Cart: cart, log: log}, nil
}

// Step runs exactly one CPU step (instruction, interrupt dispatch, or
// halted idle cycle) and ticks the timer by the cycles it consumed. At debug
// log level each step is logged with its starting PC and cycle count.
func (e *Emulator) Step() (uint8, error) {
	pc := e.CPU.Reg.PC
	cycles, err := e.CPU.Step()
	if err != nil {
		e.log.WithFields(logrus.Fields{
			"pc": e.CPU.Reg.PC,
		}).WithError(err).Error("core halted on an unknown opcode")
		return cycles, err
	}
	e.MMU.Tick(cycles)
	if e.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		e.log.WithFields(logrus.Fields{"pc": pc, "cycles": cycles}).Debug("step")
	}
	return cycles, nil
}

// Run steps the core until it returns an error or maxSteps instructions
// have executed (maxSteps <= 0 means unbounded). It returns the step count
// reached and the error, if any, that stopped it.
func (e *Emulator) Run(maxSteps int) (int, error) {
	steps := 0
	for maxSteps <= 0 || steps < maxSteps {
		if _, err := e.Step(); err != nil {
			return steps, err
		}
		steps++
	}
	return steps, nil
}
