// Package memory implements the 16-bit address bus: cartridge ROM/RAM
// delegation, working RAM and its echo region, HRAM, the serial port, and
// dispatch to the timer, interrupt, and peripheral-hook subsystems.
package memory

import (
	"io"

	"gameboy-emulator/internal/audio"
	"gameboy-emulator/internal/cartridge"
	"gameboy-emulator/internal/interrupt"
	"gameboy-emulator/internal/joypad"
	"gameboy-emulator/internal/timer"
	"gameboy-emulator/internal/video"
)

const (
	wramSize = 0x2000
	hramSize = 0x7F
)

// MMU is the unified memory bus. Video, joypad, and audio hooks are
// optional; Options leaves any nil field defaulting to a plain stub so the
// core runs without a PPU, input source, or APU attached.
type MMU struct {
	cart *cartridge.Cartridge

	wram [wramSize]uint8
	hram [hramSize]uint8

	timer      *timer.Timer
	interrupts *interrupt.Controller
	video      video.Hook
	joypad     joypad.Hook
	audio      audio.Hook
	serial     io.Writer
	serialData uint8
	serialCtrl uint8
}

// Options configures optional peripheral hooks; any nil field gets a stub.
type Options struct {
	Video  video.Hook
	Joypad joypad.Hook
	Audio  audio.Hook
	Serial io.Writer
}

// New builds an MMU over the given cartridge and interrupt controller.
// A nil cartridge is valid (an all-0xFF ROM window), useful for CPU unit
// tests that don't need a real ROM image.
func New(cart *cartridge.Cartridge, interrupts *interrupt.Controller, opts Options) *MMU {
	m := &MMU{
		cart:       cart,
		timer:      timer.New(),
		interrupts: interrupts,
		video:      opts.Video,
		joypad:     opts.Joypad,
		audio:      opts.Audio,
		serial:     opts.Serial,
	}
	if m.video == nil {
		m.video = video.NewStub()
	}
	if m.joypad == nil {
		m.joypad = joypad.NewStub()
	}
	if m.audio == nil {
		m.audio = audio.NewStub()
	}
	return m
}

// Timer exposes the bound timer for the driver loop to inspect in tests.
func (m *MMU) Timer() *timer.Timer { return m.timer }

func (m *MMU) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x7FFF, addr >= 0xA000 && addr <= 0xBFFF:
		if m.cart == nil {
			return 0xFF
		}
		return m.cart.Read(addr)

	case addr >= 0x8000 && addr <= 0x9FFF, addr >= 0xFE00 && addr <= 0xFE9F:
		return m.video.Read(addr)

	case addr >= 0xC000 && addr <= 0xDFFF:
		return m.wram[addr-0xC000]
	case addr >= 0xE000 && addr <= 0xFDFF: // echo of 0xC000-0xDDFF
		return m.wram[addr-0xE000]

	case addr == 0xFEA0 || (addr > 0xFEA0 && addr <= 0xFEFF): // unusable
		return 0xFF

	case addr == 0xFF00:
		return m.joypad.Read()
	case addr == 0xFF01:
		return m.serialData
	case addr == 0xFF02:
		return m.serialCtrl
	case timer.IsRegister(addr):
		return m.timer.Read(addr)
	case addr == 0xFF0F:
		return m.interrupts.IF()
	case addr >= 0xFF10 && addr <= 0xFF3F:
		return m.audio.Read(addr)
	case addr >= 0xFF40 && addr <= 0xFF4B:
		return m.video.Read(addr)

	case addr >= 0xFF80 && addr <= 0xFFFE:
		return m.hram[addr-0xFF80]
	case addr == 0xFFFF:
		return m.interrupts.IE()

	default:
		return 0xFF
	}
}

func (m *MMU) Write(addr uint16, value uint8) {
	switch {
	case addr <= 0x7FFF, addr >= 0xA000 && addr <= 0xBFFF:
		if m.cart != nil {
			m.cart.Write(addr, value)
		}

	case addr >= 0x8000 && addr <= 0x9FFF, addr >= 0xFE00 && addr <= 0xFE9F:
		m.video.Write(addr, value)

	case addr >= 0xC000 && addr <= 0xDFFF:
		m.wram[addr-0xC000] = value
	case addr >= 0xE000 && addr <= 0xFDFF:
		m.wram[addr-0xE000] = value

	case addr == 0xFEA0 || (addr > 0xFEA0 && addr <= 0xFEFF): // unusable

	case addr == 0xFF00:
		m.joypad.Write(value)
	case addr == 0xFF01:
		m.serialData = value
		if m.serial != nil {
			m.serial.Write([]byte{value})
		}
	case addr == 0xFF02:
		m.serialCtrl = value
	case timer.IsRegister(addr):
		m.timer.Write(addr, value)
	case addr == 0xFF0F:
		m.interrupts.SetIF(value)
	case addr >= 0xFF10 && addr <= 0xFF3F:
		m.audio.Write(addr, value)
	case addr >= 0xFF40 && addr <= 0xFF4B:
		m.video.Write(addr, value)

	case addr >= 0xFF80 && addr <= 0xFFFE:
		m.hram[addr-0xFF80] = value
	case addr == 0xFFFF:
		m.interrupts.SetIE(value)
	}
}

// Tick advances the timer by elapsed machine cycles, raising the timer
// interrupt the instant TIMA overflows.
func (m *MMU) Tick(elapsed uint8) {
	if m.timer.Tick(elapsed) {
		m.interrupts.Raise(interrupt.Timer)
	}
}
