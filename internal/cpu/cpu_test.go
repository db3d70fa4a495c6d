package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gameboy-emulator/internal/interrupt"
)

// flatBus is a plain 64KiB array satisfying Bus, used to unit-test the
// interpreter in isolation from the real MMU's address-region rules.
type flatBus struct {
	mem [0x10000]uint8
}

func (b *flatBus) Read(addr uint16) uint8        { return b.mem[addr] }
func (b *flatBus) Write(addr uint16, value uint8) { b.mem[addr] = value }

func newTestCore() (*Core, *flatBus) {
	bus := &flatBus{}
	c := New(bus, interrupt.NewController())
	return c, bus
}

func TestPostBootRegisterState(t *testing.T) {
	c, _ := newTestCore()
	require.Equal(t, uint8(0x01), c.Reg.A)
	require.Equal(t, uint8(0xB0), c.Reg.F)
	require.Equal(t, uint16(0xFFFE), c.Reg.SP)
	require.Equal(t, uint16(0x0100), c.Reg.PC)
}

func TestNOP(t *testing.T) {
	c, bus := newTestCore()
	bus.mem[0x0100] = 0x00
	cycles, err := c.Step()
	require.NoError(t, err)
	require.Equal(t, uint8(1), cycles)
	require.Equal(t, uint16(0x0101), c.Reg.PC)
}

func TestLDRegisterToRegister(t *testing.T) {
	c, bus := newTestCore()
	c.Reg.B = 0x42
	bus.mem[0x0100] = 0x78 // LD A,B
	_, err := c.Step()
	require.NoError(t, err)
	require.Equal(t, uint8(0x42), c.Reg.A)
}

func TestLDImmediate8(t *testing.T) {
	c, bus := newTestCore()
	bus.mem[0x0100] = 0x3E // LD A,n
	bus.mem[0x0101] = 0x99
	_, err := c.Step()
	require.NoError(t, err)
	require.Equal(t, uint8(0x99), c.Reg.A)
	require.Equal(t, uint16(0x0102), c.Reg.PC)
}

func TestADDSetsFlags(t *testing.T) {
	c, bus := newTestCore()
	c.Reg.A = 0xFF
	c.Reg.B = 0x01
	bus.mem[0x0100] = 0x80 // ADD A,B
	_, err := c.Step()
	require.NoError(t, err)
	require.Equal(t, uint8(0x00), c.Reg.A)
	require.True(t, c.Reg.Flag(FlagZ))
	require.True(t, c.Reg.Flag(FlagH))
	require.True(t, c.Reg.Flag(FlagC))
	require.False(t, c.Reg.Flag(FlagN))
}

func TestINCDECHalfCarryAndZero(t *testing.T) {
	c, bus := newTestCore()
	c.Reg.A = 0x0F
	bus.mem[0x0100] = 0x3C // INC A
	_, err := c.Step()
	require.NoError(t, err)
	require.Equal(t, uint8(0x10), c.Reg.A)
	require.True(t, c.Reg.Flag(FlagH))

	c.Reg.A = 0x01
	bus.mem[0x0101] = 0x3D // DEC A
	_, err = c.Step()
	require.NoError(t, err)
	require.Equal(t, uint8(0x00), c.Reg.A)
	require.True(t, c.Reg.Flag(FlagZ))
}

func TestJRRelative(t *testing.T) {
	c, bus := newTestCore()
	bus.mem[0x0100] = 0x18 // JR e
	bus.mem[0x0101] = 0x05
	_, err := c.Step()
	require.NoError(t, err)
	require.Equal(t, uint16(0x0107), c.Reg.PC)
}

func TestCallAndRet(t *testing.T) {
	c, bus := newTestCore()
	bus.mem[0x0100] = 0xCD // CALL nn
	bus.mem[0x0101] = 0x00
	bus.mem[0x0102] = 0x02
	_, err := c.Step()
	require.NoError(t, err)
	require.Equal(t, uint16(0x0200), c.Reg.PC)
	require.Equal(t, uint16(0xFFFC), c.Reg.SP)

	bus.mem[0x0200] = 0xC9 // RET
	_, err = c.Step()
	require.NoError(t, err)
	require.Equal(t, uint16(0x0103), c.Reg.PC)
	require.Equal(t, uint16(0xFFFE), c.Reg.SP)
}

func TestPushPopPreservesAFLowNibbleZero(t *testing.T) {
	c, bus := newTestCore()
	c.Reg.SetAF(0x1234) // low nibble of F (0x04) must be dropped
	bus.mem[0x0100] = 0xF5 // PUSH AF
	_, err := c.Step()
	require.NoError(t, err)

	c.Reg.SetAF(0x0000)
	bus.mem[0x0101] = 0xF1 // POP AF
	_, err = c.Step()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1230), c.Reg.AF())
}

func TestEIDelaysOneInstruction(t *testing.T) {
	c, bus := newTestCore()
	c.Interrupts.SetIE(0x01)
	c.Interrupts.Raise(interrupt.VBlank)

	bus.mem[0x0100] = 0xFB // EI
	bus.mem[0x0101] = 0x00 // NOP
	bus.mem[0x0102] = 0x00 // NOP

	_, err := c.Step() // EI: IME not yet set
	require.NoError(t, err)
	require.False(t, c.IME())

	_, err = c.Step() // NOP executes with IME still clear
	require.NoError(t, err)
	require.False(t, c.IME())

	pcBefore := c.Reg.PC
	cycles, err := c.Step() // IME turns on at this boundary; the interrupt services instead of running the second NOP
	require.NoError(t, err)
	require.Equal(t, interrupt.VBlank.Vector(), c.Reg.PC)
	require.NotEqual(t, pcBefore+1, c.Reg.PC)
	require.Equal(t, uint8(4), cycles, "interrupt dispatch costs 4 machine cycles")
}

func TestHaltWakesOnPendingInterruptWithIMEClear(t *testing.T) {
	c, bus := newTestCore()
	bus.mem[0x0100] = 0x76 // HALT
	_, err := c.Step()
	require.NoError(t, err)
	require.True(t, c.Halted())

	c.Interrupts.SetIE(0x01)
	c.Interrupts.Raise(interrupt.VBlank)

	cycles, err := c.Step()
	require.NoError(t, err)
	require.False(t, c.Halted())
	require.Equal(t, uint8(1), cycles, "with IME clear nothing is dispatched; the wake-up step runs the NOP after HALT")
}

func TestUnknownOpcodeReturnsTypedError(t *testing.T) {
	c, bus := newTestCore()
	bus.mem[0x0100] = 0xD3 // structurally invalid opcode
	_, err := c.Step()
	require.Error(t, err)
	var unknown *UnknownOpcodeError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, uint8(0xD3), unknown.Opcode)
}

func TestCBBitOpcode(t *testing.T) {
	c, bus := newTestCore()
	c.Reg.B = 0x00
	bus.mem[0x0100] = 0xCB
	bus.mem[0x0101] = 0x70 // BIT 6,B
	_, err := c.Step()
	require.NoError(t, err)
	require.True(t, c.Reg.Flag(FlagZ))
	require.True(t, c.Reg.Flag(FlagH))
	require.False(t, c.Reg.Flag(FlagN))
}

func TestDAAAfterBCDAddition(t *testing.T) {
	c, bus := newTestCore()
	c.Reg.A = 0x45
	c.Reg.B = 0x38
	bus.mem[0x0100] = 0x80 // ADD A,B -> 0x7D
	_, err := c.Step()
	require.NoError(t, err)
	require.Equal(t, uint8(0x7D), c.Reg.A)

	bus.mem[0x0101] = 0x27 // DAA
	_, err = c.Step()
	require.NoError(t, err)
	require.Equal(t, uint8(0x83), c.Reg.A, "0x45 + 0x38 = 0x83 in BCD")
}
