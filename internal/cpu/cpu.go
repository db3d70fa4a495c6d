// Package cpu implements the SM83 instruction interpreter: register file,
// opcode fetch/decode/execute, and interrupt/halt sequencing. It knows
// nothing about the address map beyond the Bus interface it is handed.
package cpu

import "gameboy-emulator/internal/interrupt"

// Bus is the 16-bit memory interface the CPU reads instructions and
// operands through. internal/memory.MMU satisfies it.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// Core is the CPU: register file, interrupt-enable state, and the halt
// latch, bound to a Bus and an interrupt controller.
type Core struct {
	Reg Registers

	Bus        Bus
	Interrupts *interrupt.Controller

	ime      bool
	imeDelay uint8 // 2 immediately after EI, 1 the step IME actually takes effect, 0 otherwise
	halted   bool
}

// New returns a Core in the documented DMG post-boot state, fetching its
// first instruction from 0x0100.
func New(bus Bus, interrupts *interrupt.Controller) *Core {
	c := &Core{Bus: bus, Interrupts: interrupts}
	c.Reg.reset()
	return c
}

// IME reports the current interrupt master enable state.
func (c *Core) IME() bool { return c.ime }

// Halted reports whether the core is parked in HALT awaiting an interrupt.
func (c *Core) Halted() bool { return c.halted }

// Step advances the core by exactly one instruction (or one interrupt
// dispatch, or one halted no-op cycle) and returns the machine cycles it
// consumed. Order of operations, per instruction boundary:
//
//  1. Tick the EI-delay counter.
//  2. Service a pending interrupt, if IME is set and one is pending.
//  3. If halted and nothing woke it, burn one cycle and return.
//  4. Otherwise fetch-decode-execute one instruction.
func (c *Core) Step() (uint8, error) {
	c.tickIMEDelay()

	if c.ime {
		if src, ok := c.Interrupts.Pending(); ok {
			return c.serviceInterrupt(src), nil
		}
	}

	if c.halted {
		if c.Interrupts.HasAny() {
			c.halted = false
		} else {
			return 1, nil
		}
	}

	return c.execute()
}

func (c *Core) tickIMEDelay() {
	switch c.imeDelay {
	case 2:
		c.imeDelay = 1
	case 1:
		c.ime = true
		c.imeDelay = 0
	}
}

// serviceInterrupt pushes PC, jumps to the source's vector, clears IME and
// the source's IF bit, and costs 4 machine cycles (spec.md §4.2 step 2).
func (c *Core) serviceInterrupt(src interrupt.Source) uint8 {
	c.ime = false
	c.Interrupts.Clear(src)
	c.pushStack(c.Reg.PC)
	c.Reg.PC = src.Vector()
	return 4
}

func (c *Core) fetch8() uint8 {
	v := c.Bus.Read(c.Reg.PC)
	c.Reg.PC++
	return v
}

func (c *Core) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *Core) pushStack(v uint16) {
	c.Reg.SP--
	c.Bus.Write(c.Reg.SP, uint8(v>>8))
	c.Reg.SP--
	c.Bus.Write(c.Reg.SP, uint8(v))
}

func (c *Core) popStack() uint16 {
	lo := c.Bus.Read(c.Reg.SP)
	c.Reg.SP++
	hi := c.Bus.Read(c.Reg.SP)
	c.Reg.SP++
	return uint16(hi)<<8 | uint16(lo)
}
