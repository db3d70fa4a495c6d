// Package video defines the hook interface the MMU delegates VRAM, OAM, and
// PPU register ownership to, plus a default stub used when no real PPU is
// attached (this core interprets CPU instructions; it does not render).
package video

// Hook owns 0x8000-0x9FFF, 0xFE00-0xFE9F, and 0xFF40-0xFF4B.
type Hook interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// lyAddr is the LCD Y-coordinate register; Stub always reports scanline
// 0x90, past the visible range, so a ROM polling "wait for VBlank" by
// spinning on LY never hangs with no PPU actually driving it.
const lyAddr = 0xFF44

// Stub is the default Hook: plain backing memory for VRAM/OAM/registers,
// with LY pinned so VBlank-polling test ROMs make progress headlessly.
type Stub struct {
	vram [0x2000]uint8
	oam  [0xA0]uint8
	regs [0xC]uint8 // 0xFF40-0xFF4B
}

func NewStub() *Stub { return &Stub{} }

func (s *Stub) Read(addr uint16) uint8 {
	switch {
	case addr == lyAddr:
		return 0x90
	case addr >= 0x8000 && addr <= 0x9FFF:
		return s.vram[addr-0x8000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		return s.oam[addr-0xFE00]
	case addr >= 0xFF40 && addr <= 0xFF4B:
		return s.regs[addr-0xFF40]
	default:
		return 0xFF
	}
}

func (s *Stub) Write(addr uint16, value uint8) {
	switch {
	case addr == lyAddr:
		// LY is read-only from the CPU's perspective on real hardware.
	case addr >= 0x8000 && addr <= 0x9FFF:
		s.vram[addr-0x8000] = value
	case addr >= 0xFE00 && addr <= 0xFE9F:
		s.oam[addr-0xFE00] = value
	case addr >= 0xFF40 && addr <= 0xFF4B:
		s.regs[addr-0xFF40] = value
	}
}
