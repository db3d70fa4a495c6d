package cpu

// r8 indices follow the standard SM83/Z80 encoding: B C D E H L (HL) A.
const (
	r8B = iota
	r8C
	r8D
	r8E
	r8H
	r8L
	r8HL
	r8A
)

func (c *Core) getR8(idx uint8) uint8 {
	switch idx {
	case r8B:
		return c.Reg.B
	case r8C:
		return c.Reg.C
	case r8D:
		return c.Reg.D
	case r8E:
		return c.Reg.E
	case r8H:
		return c.Reg.H
	case r8L:
		return c.Reg.L
	case r8HL:
		return c.Bus.Read(c.Reg.HL())
	default: // r8A
		return c.Reg.A
	}
}

func (c *Core) setR8(idx uint8, v uint8) {
	switch idx {
	case r8B:
		c.Reg.B = v
	case r8C:
		c.Reg.C = v
	case r8D:
		c.Reg.D = v
	case r8E:
		c.Reg.E = v
	case r8H:
		c.Reg.H = v
	case r8L:
		c.Reg.L = v
	case r8HL:
		c.Bus.Write(c.Reg.HL(), v)
	default: // r8A
		c.Reg.A = v
	}
}

// cost8 accounts for the extra memory cycle the (HL) operand costs over a
// plain register operand.
func cost8(idx uint8, reg, mem uint8) uint8 {
	if idx == r8HL {
		return mem
	}
	return reg
}

// rp16 indices for the 16-bit "group 1" table (LD rp,nn / INC rp / DEC rp / ADD HL,rp).
const (
	rpBC = iota
	rpDE
	rpHL
	rpSP
)

func (c *Core) getRP(idx uint8) uint16 {
	switch idx {
	case rpBC:
		return c.Reg.BC()
	case rpDE:
		return c.Reg.DE()
	case rpHL:
		return c.Reg.HL()
	default:
		return c.Reg.SP
	}
}

func (c *Core) setRP(idx uint8, v uint16) {
	switch idx {
	case rpBC:
		c.Reg.SetBC(v)
	case rpDE:
		c.Reg.SetDE(v)
	case rpHL:
		c.Reg.SetHL(v)
	default:
		c.Reg.SP = v
	}
}

// rp2 table for PUSH/POP: BC DE HL AF.
func (c *Core) getRP2(idx uint8) uint16 {
	if idx == 3 {
		return c.Reg.AF()
	}
	return c.getRP(idx)
}

func (c *Core) setRP2(idx uint8, v uint16) {
	if idx == 3 {
		c.Reg.SetAF(v)
		return
	}
	c.setRP(idx, v)
}

func (c *Core) checkCond(idx uint8) bool {
	switch idx {
	case 0:
		return !c.Reg.Flag(FlagZ)
	case 1:
		return c.Reg.Flag(FlagZ)
	case 2:
		return !c.Reg.Flag(FlagC)
	default:
		return c.Reg.Flag(FlagC)
	}
}

// execute fetches, decodes, and runs exactly one instruction (including the
// CB-prefix escape), returning the machine cycles it consumed.
func (c *Core) execute() (uint8, error) {
	pc := c.Reg.PC
	op := c.fetch8()

	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7
	p := y >> 1
	q := y & 1

	switch {
	case op == 0xCB:
		return c.executeCB()

	case x == 1 && z == 6 && y == 6: // HALT occupies LD (HL),(HL)'s slot
		c.halted = true
		return 1, nil

	case x == 1: // LD r,r' (incl. (HL) operands)
		v := c.getR8(z)
		c.setR8(y, v)
		if z == r8HL || y == r8HL {
			return 2, nil
		}
		return 1, nil

	case x == 2: // ALU A,r
		c.aluOp(y, c.getR8(z))
		return cost8(z, 1, 2), nil

	case x == 0:
		return c.executeX0(op, y, z, p, q)

	case x == 3:
		return c.executeX3(op, pc, y, z, p, q)
	}

	return 0, &UnknownOpcodeError{PC: pc, Opcode: op}
}

// aluOp applies the eight ALU operations (ADD, ADC, SUB, SBC, AND, XOR, OR,
// CP) selected by y against A.
func (c *Core) aluOp(y uint8, operand uint8) {
	switch y {
	case 0:
		c.Reg.A = c.add8(c.Reg.A, operand, false)
	case 1:
		c.Reg.A = c.add8(c.Reg.A, operand, c.Reg.Flag(FlagC))
	case 2:
		c.Reg.A = c.sub8(c.Reg.A, operand, false)
	case 3:
		c.Reg.A = c.sub8(c.Reg.A, operand, c.Reg.Flag(FlagC))
	case 4:
		c.Reg.A = c.and8(c.Reg.A, operand)
	case 5:
		c.Reg.A = c.xor8(c.Reg.A, operand)
	case 6:
		c.Reg.A = c.or8(c.Reg.A, operand)
	case 7:
		c.cp8(c.Reg.A, operand)
	}
}

func (c *Core) executeX0(op, y, z, p, q uint8) (uint8, error) {
	switch z {
	case 0:
		switch y {
		case 0:
			return 1, nil // NOP
		case 1: // LD (nn),SP
			addr := c.fetch16()
			c.Bus.Write(addr, uint8(c.Reg.SP))
			c.Bus.Write(addr+1, uint8(c.Reg.SP>>8))
			return 5, nil
		case 2: // STOP: minimal interpretation, no operand byte consumed
			return 1, nil
		case 3: // JR e
			e := int8(c.fetch8())
			c.Reg.PC = uint16(int32(c.Reg.PC) + int32(e))
			return 3, nil
		default: // JR cc,e (y = 4..7, cc = y-4)
			e := int8(c.fetch8())
			if c.checkCond(y - 4) {
				c.Reg.PC = uint16(int32(c.Reg.PC) + int32(e))
				return 3, nil
			}
			return 2, nil
		}

	case 1:
		if q == 0 { // LD rp,nn
			c.setRP(p, c.fetch16())
			return 3, nil
		}
		c.addHL(c.getRP(p)) // ADD HL,rp
		return 2, nil

	case 2:
		switch {
		case q == 0 && p == 0: // LD (BC),A
			c.Bus.Write(c.Reg.BC(), c.Reg.A)
		case q == 0 && p == 1: // LD (DE),A
			c.Bus.Write(c.Reg.DE(), c.Reg.A)
		case q == 0 && p == 2: // LD (HL+),A
			c.Bus.Write(c.Reg.HL(), c.Reg.A)
			c.Reg.SetHL(c.Reg.HL() + 1)
		case q == 0 && p == 3: // LD (HL-),A
			c.Bus.Write(c.Reg.HL(), c.Reg.A)
			c.Reg.SetHL(c.Reg.HL() - 1)
		case q == 1 && p == 0: // LD A,(BC)
			c.Reg.A = c.Bus.Read(c.Reg.BC())
		case q == 1 && p == 1: // LD A,(DE)
			c.Reg.A = c.Bus.Read(c.Reg.DE())
		case q == 1 && p == 2: // LD A,(HL+)
			c.Reg.A = c.Bus.Read(c.Reg.HL())
			c.Reg.SetHL(c.Reg.HL() + 1)
		case q == 1 && p == 3: // LD A,(HL-)
			c.Reg.A = c.Bus.Read(c.Reg.HL())
			c.Reg.SetHL(c.Reg.HL() - 1)
		}
		return 2, nil

	case 3:
		if q == 0 {
			c.setRP(p, c.getRP(p)+1) // INC rp
		} else {
			c.setRP(p, c.getRP(p)-1) // DEC rp
		}
		return 2, nil

	case 4: // INC r
		c.setR8(y, c.inc8(c.getR8(y)))
		return cost8(y, 1, 3), nil

	case 5: // DEC r
		c.setR8(y, c.dec8(c.getR8(y)))
		return cost8(y, 1, 3), nil

	case 6: // LD r,n
		c.setR8(y, c.fetch8())
		return cost8(y, 2, 3), nil

	case 7:
		return c.executeRotateAccumOrMisc(y)
	}
	return 0, &UnknownOpcodeError{PC: c.Reg.PC - 1, Opcode: op}
}

func (c *Core) executeRotateAccumOrMisc(y uint8) (uint8, error) {
	switch y {
	case 0:
		c.Reg.A = c.rlc(c.Reg.A)
		c.Reg.SetFlag(FlagZ, false)
	case 1:
		c.Reg.A = c.rrc(c.Reg.A)
		c.Reg.SetFlag(FlagZ, false)
	case 2:
		c.Reg.A = c.rl(c.Reg.A)
		c.Reg.SetFlag(FlagZ, false)
	case 3:
		c.Reg.A = c.rr(c.Reg.A)
		c.Reg.SetFlag(FlagZ, false)
	case 4:
		c.daa()
	case 5:
		c.Reg.A = ^c.Reg.A
		c.Reg.SetFlag(FlagN, true)
		c.Reg.SetFlag(FlagH, true)
	case 6:
		c.Reg.SetFlag(FlagN, false)
		c.Reg.SetFlag(FlagH, false)
		c.Reg.SetFlag(FlagC, true)
	case 7:
		c.Reg.SetFlag(FlagN, false)
		c.Reg.SetFlag(FlagH, false)
		c.Reg.SetFlag(FlagC, !c.Reg.Flag(FlagC))
	}
	return 1, nil
}

func (c *Core) executeX3(op uint8, pc uint16, y, z, p, q uint8) (uint8, error) {
	switch z {
	case 0:
		switch y {
		case 0, 1, 2, 3: // RET cc
			if c.checkCond(y) {
				c.Reg.PC = c.popStack()
				return 5, nil
			}
			return 2, nil
		case 4: // LDH (n),A
			addr := 0xFF00 + uint16(c.fetch8())
			c.Bus.Write(addr, c.Reg.A)
			return 3, nil
		case 5: // ADD SP,e
			e := int8(c.fetch8())
			c.Reg.SP = c.addSPSigned(e)
			return 4, nil
		case 6: // LDH A,(n)
			addr := 0xFF00 + uint16(c.fetch8())
			c.Reg.A = c.Bus.Read(addr)
			return 3, nil
		default: // LD HL,SP+e
			e := int8(c.fetch8())
			c.Reg.SetHL(c.addSPSigned(e))
			return 3, nil
		}

	case 1:
		if q == 0 { // POP rp2
			c.setRP2(p, c.popStack())
			return 3, nil
		}
		switch p {
		case 0: // RET
			c.Reg.PC = c.popStack()
			return 4, nil
		case 1: // RETI
			c.Reg.PC = c.popStack()
			c.ime = true
			return 4, nil
		case 2: // JP HL
			c.Reg.PC = c.Reg.HL()
			return 1, nil
		default: // LD SP,HL
			c.Reg.SP = c.Reg.HL()
			return 2, nil
		}

	case 2:
		switch y {
		case 0, 1, 2, 3: // JP cc,nn
			addr := c.fetch16()
			if c.checkCond(y) {
				c.Reg.PC = addr
				return 4, nil
			}
			return 3, nil
		case 4: // LD (C),A
			c.Bus.Write(0xFF00+uint16(c.Reg.C), c.Reg.A)
			return 2, nil
		case 5: // LD (nn),A
			c.Bus.Write(c.fetch16(), c.Reg.A)
			return 4, nil
		case 6: // LD A,(C)
			c.Reg.A = c.Bus.Read(0xFF00 + uint16(c.Reg.C))
			return 2, nil
		default: // LD A,(nn)
			c.Reg.A = c.Bus.Read(c.fetch16())
			return 4, nil
		}

	case 3:
		switch y {
		case 0: // JP nn
			c.Reg.PC = c.fetch16()
			return 4, nil
		case 1: // CB prefix handled earlier
			return 0, &UnknownOpcodeError{PC: pc, Opcode: op}
		case 6: // DI
			c.ime = false
			c.imeDelay = 0
			return 1, nil
		case 7: // EI
			c.imeDelay = 2
			return 1, nil
		default:
			return 0, &UnknownOpcodeError{PC: pc, Opcode: op}
		}

	case 4:
		if y <= 3 { // CALL cc,nn
			addr := c.fetch16()
			if c.checkCond(y) {
				c.pushStack(c.Reg.PC)
				c.Reg.PC = addr
				return 6, nil
			}
			return 3, nil
		}
		return 0, &UnknownOpcodeError{PC: pc, Opcode: op}

	case 5:
		if q == 0 { // PUSH rp2
			c.pushStack(c.getRP2(p))
			return 4, nil
		}
		if p == 0 { // CALL nn
			addr := c.fetch16()
			c.pushStack(c.Reg.PC)
			c.Reg.PC = addr
			return 6, nil
		}
		return 0, &UnknownOpcodeError{PC: pc, Opcode: op}

	case 6: // ALU A,n
		c.aluOp(y, c.fetch8())
		return 2, nil

	case 7: // RST y*8
		c.pushStack(c.Reg.PC)
		c.Reg.PC = uint16(y) * 8
		return 4, nil
	}

	return 0, &UnknownOpcodeError{PC: pc, Opcode: op}
}

// executeCB decodes the 256 bit-operation opcodes behind the 0xCB prefix:
// rotate/shift (x=0), BIT (x=1), RES (x=2), SET (x=3), each against one of
// the eight r8 operands selected by z.
func (c *Core) executeCB() (uint8, error) {
	op := c.fetch8()
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7

	operand := c.getR8(z)

	switch x {
	case 0:
		var result uint8
		switch y {
		case 0:
			result = c.rlc(operand)
		case 1:
			result = c.rrc(operand)
		case 2:
			result = c.rl(operand)
		case 3:
			result = c.rr(operand)
		case 4:
			result = c.sla(operand)
		case 5:
			result = c.sra(operand)
		case 6:
			result = c.swap(operand)
		default:
			result = c.srl(operand)
		}
		c.setR8(z, result)
		return cost8(z, 2, 4), nil

	case 1: // BIT y,r
		c.bit(operand, y)
		return cost8(z, 2, 3), nil

	case 2: // RES y,r
		c.setR8(z, operand&^(1<<y))
		return cost8(z, 2, 4), nil

	default: // SET y,r
		c.setR8(z, operand|(1<<y))
		return cost8(z, 2, 4), nil
	}
}
