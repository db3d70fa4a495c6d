package cpu

import "fmt"

// UnknownOpcodeError is returned by Step when it fetches an opcode this
// core has no defined behavior for (the eleven structurally-invalid SM83
// slots, e.g. 0xD3, 0xDD, 0xED, 0xFD).
type UnknownOpcodeError struct {
	PC       uint16
	Opcode   uint8
	Prefixed bool
}

func (e *UnknownOpcodeError) Error() string {
	if e.Prefixed {
		return fmt.Sprintf("cpu: unknown CB-prefixed opcode 0x%02X at PC=0x%04X", e.Opcode, e.PC)
	}
	return fmt.Sprintf("cpu: unknown opcode 0x%02X at PC=0x%04X", e.Opcode, e.PC)
}
