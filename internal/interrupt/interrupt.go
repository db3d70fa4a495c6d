// Package interrupt implements the Game Boy's five-source interrupt
// controller: the enable mask (IE) and flag latch (IF) pair, their fixed
// priority order, and the service vector table.
package interrupt

import "fmt"

// Source identifies one of the five interrupt lines, in priority order
// (lowest value wins when more than one is pending).
type Source uint8

const (
	VBlank Source = iota
	LCDStat
	Timer
	Serial
	Joypad
)

// count is the number of defined interrupt sources.
const count = 5

// Mask returns the bit for this source within IE/IF.
func (s Source) Mask() uint8 {
	return 1 << uint8(s)
}

// Vector returns the fixed service address the CPU jumps to for this source.
func (s Source) Vector() uint16 {
	switch s {
	case VBlank:
		return 0x0040
	case LCDStat:
		return 0x0048
	case Timer:
		return 0x0050
	case Serial:
		return 0x0058
	case Joypad:
		return 0x0060
	default:
		panic(fmt.Sprintf("interrupt: source %d has no vector", s))
	}
}

func (s Source) String() string {
	switch s {
	case VBlank:
		return "VBlank"
	case LCDStat:
		return "LCDStat"
	case Timer:
		return "Timer"
	case Serial:
		return "Serial"
	case Joypad:
		return "Joypad"
	default:
		return "Unknown"
	}
}

// validMask covers the five bits IE/IF actually implement.
const validMask uint8 = 0x1F

// Controller holds the IE (0xFFFF) and IF (0xFF0F) registers and answers
// priority queries against them. It owns no vector-dispatch logic itself;
// the CPU reads Pending/Clear and performs the jump.
type Controller struct {
	ie uint8
	if_ uint8
}

// NewController returns a controller with both registers clear, matching
// the DMG post-boot state.
func NewController() *Controller {
	return &Controller{}
}

// IE returns the Interrupt Enable register.
func (c *Controller) IE() uint8 { return c.ie }

// SetIE writes the Interrupt Enable register. Only the low 5 bits exist.
func (c *Controller) SetIE(v uint8) { c.ie = v & validMask }

// IF returns the Interrupt Flag register; unused bits read high.
func (c *Controller) IF() uint8 { return c.if_ | ^validMask }

// SetIF writes the Interrupt Flag register.
func (c *Controller) SetIF(v uint8) { c.if_ = v & validMask }

// Raise latches a pending interrupt for the given source. Called by
// peripherals (the timer, and externally by the PPU/joypad/serial hooks).
func (c *Controller) Raise(s Source) { c.if_ |= s.Mask() }

// Clear acknowledges a source, dropping it from IF.
func (c *Controller) Clear(s Source) { c.if_ &^= s.Mask() }

// Pending returns the lowest-priority-numbered source that is both enabled
// and flagged, if any.
func (c *Controller) Pending() (Source, bool) {
	active := c.ie & c.if_ & validMask
	if active == 0 {
		return 0, false
	}
	for i := Source(0); i < count; i++ {
		if active&i.Mask() != 0 {
			return i, true
		}
	}
	return 0, false
}

// HasAny reports whether any enabled interrupt is currently flagged,
// regardless of IME — used to wake the CPU from HALT.
func (c *Controller) HasAny() bool {
	_, ok := c.Pending()
	return ok
}
