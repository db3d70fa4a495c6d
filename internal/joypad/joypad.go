// Package joypad defines the hook interface the MMU delegates the 0xFF00
// joypad register to, plus a default stub reporting no buttons pressed.
package joypad

// Hook owns 0xFF00.
type Hook interface {
	Read() uint8
	Write(value uint8)
}

// Stub reports every button released (all data bits high) regardless of
// the select-line writes it receives, since no physical input reaches it.
type Stub struct {
	selectBits uint8
}

func NewStub() *Stub { return &Stub{selectBits: 0x30} }

func (s *Stub) Read() uint8 { return s.selectBits | 0x0F }

func (s *Stub) Write(value uint8) { s.selectBits = value & 0x30 }
