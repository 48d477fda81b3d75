package cpu

// Operation suffixes complete whatever an addressing-mode prologue started.
// Load suffixes are pure-consume (no bus request of their own, folding the
// next opcode fetch into the same tick); store and RMW suffixes issue the
// final write themselves. The split is grounded on the teacher's
// loadInstruction/storeInstruction/rmwInstruction wrappers (cpu/cpu.go),
// generalized so each one is a single MicrocodeFn instead of a switch case.

func pureConsume(fn func(c *CPU, v uint8)) MicrocodeFn {
	return func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
		fn(c, resp.Data)
		return BusRequest{}, false, nil
	}
}

// --- Register accessors -----------------------------------------------------
//
// The opcode table is a single package-level slice shared by every CPU
// instance, so an operation can never close over a particular instance's
// register field. Every register access goes through one of these
// instance-agnostic getter/setter pairs instead.

func getA(c *CPU) uint8 { return c.A }
func setA(c *CPU, v uint8) { c.A = v }
func getX(c *CPU) uint8 { return c.X }
func setX(c *CPU, v uint8) { c.X = v }
func getY(c *CPU) uint8 { return c.Y }
func setY(c *CPU, v uint8) { c.Y = v }
func getS(c *CPU) uint8 { return c.S }
func setS(c *CPU, v uint8) { c.S = v }

// --- Loads / transfers -----------------------------------------------------

func loadInto(set func(c *CPU, v uint8)) MicrocodeFn {
	return pureConsume(func(c *CPU, v uint8) {
		set(c, v)
		c.setZN(v)
	})
}

// --- Stores ------------------------------------------------------------

func regVal(get func(c *CPU) uint8) func(c *CPU) uint8 {
	return get
}

// --- ALU ---------------------------------------------------------------

func adcValue(c *CPU, v uint8) {
	carry := uint16(0)
	if c.hasFlag(P_CARRY) {
		carry = 1
	}
	sum := uint16(c.A) + uint16(v) + carry
	overflow := (^(uint16(c.A) ^ uint16(v)) & (uint16(c.A) ^ sum) & 0x80) != 0
	c.A = uint8(sum)
	c.setFlag(P_CARRY, sum > 0xFF)
	c.setFlag(P_OVERFLOW, overflow)
	c.setZN(c.A)
}

func sbcValue(c *CPU, v uint8) {
	adcValue(c, ^v)
}

func andValue(c *CPU, v uint8) {
	c.A &= v
	c.setZN(c.A)
}

func oraValue(c *CPU, v uint8) {
	c.A |= v
	c.setZN(c.A)
}

func eorValue(c *CPU, v uint8) {
	c.A ^= v
	c.setZN(c.A)
}

func compare(reg uint8, v uint8) (zero, negative, carry bool) {
	d := reg - v
	return d == 0, d&P_NEGATIVE != 0, reg >= v
}

func cmpAgainst(get func(c *CPU) uint8) func(c *CPU, v uint8) {
	return func(c *CPU, v uint8) {
		zero, negative, carry := compare(get(c), v)
		c.setFlag(P_ZERO, zero)
		c.setFlag(P_NEGATIVE, negative)
		c.setFlag(P_CARRY, carry)
	}
}

func bitValue(c *CPU, v uint8) {
	c.setFlag(P_ZERO, c.A&v == 0)
	c.setFlag(P_NEGATIVE, v&P_NEGATIVE != 0)
	c.setFlag(P_OVERFLOW, v&P_OVERFLOW != 0)
}

// --- RMW operations (shift/rotate/inc/dec) --------------------------------

func aslOp(c *CPU, v uint8) uint8 {
	c.setFlag(P_CARRY, v&0x80 != 0)
	r := v << 1
	c.setZN(r)
	return r
}

func lsrOp(c *CPU, v uint8) uint8 {
	c.setFlag(P_CARRY, v&0x01 != 0)
	r := v >> 1
	c.setZN(r)
	return r
}

func rolOp(c *CPU, v uint8) uint8 {
	carryIn := uint8(0)
	if c.hasFlag(P_CARRY) {
		carryIn = 1
	}
	c.setFlag(P_CARRY, v&0x80 != 0)
	r := (v << 1) | carryIn
	c.setZN(r)
	return r
}

func rorOp(c *CPU, v uint8) uint8 {
	carryIn := uint8(0)
	if c.hasFlag(P_CARRY) {
		carryIn = 0x80
	}
	c.setFlag(P_CARRY, v&0x01 != 0)
	r := (v >> 1) | carryIn
	c.setZN(r)
	return r
}

func incOp(c *CPU, v uint8) uint8 {
	r := v + 1
	c.setZN(r)
	return r
}

func decOp(c *CPU, v uint8) uint8 {
	r := v - 1
	c.setZN(r)
	return r
}

// --- Accumulator-mode shift/rotate (no memory operand) --------------------

// accumulatorOp wraps an RMW op function (aslOp etc.) for the 2-cycle
// Accumulator addressing mode. The table puts an impliedDummyRead step ahead
// of it; this step itself makes no memory access, reading and writing c.A
// directly and folding the next opcode fetch into its tick.
func accumulatorOp(op func(c *CPU, v uint8) uint8) MicrocodeFn {
	return func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
		c.A = op(c, c.A)
		return BusRequest{}, false, nil
	}
}

// impliedDummyRead reads and discards the byte at PC without advancing it,
// the bus activity every 2-cycle implied/accumulator instruction performs on
// its second cycle.
func impliedDummyRead(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
	return readRequest(c.PC), true, nil
}

// --- Register-only implied operations (INX, TAX, CLC, ...) ----------------

func impliedOp(fn func(c *CPU)) []MicrocodeFn {
	return []MicrocodeFn{
		impliedDummyRead,
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			fn(c)
			return BusRequest{}, false, nil
		},
	}
}

func setFlagOp(mask uint8, v bool) func(c *CPU) {
	return func(c *CPU) { c.setFlag(mask, v) }
}

func transferOp(get func(c *CPU) uint8, set func(c *CPU, v uint8), setFlags bool) func(c *CPU) {
	return func(c *CPU) {
		v := get(c)
		set(c, v)
		if setFlags {
			c.setZN(v)
		}
	}
}

func incDecReg(get func(c *CPU) uint8, set func(c *CPU, v uint8), delta uint8) func(c *CPU) {
	return func(c *CPU) {
		v := get(c) + delta
		set(c, v)
		c.setZN(v)
	}
}

// --- Stack operations ------------------------------------------------------

func pushStack(c *CPU, v uint8) BusRequest {
	req := writeRequest(0x0100+uint16(c.S), v)
	c.S--
	return req
}

func phaOps() []MicrocodeFn {
	return []MicrocodeFn{
		impliedDummyRead,
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			return pushStack(c, c.A), true, nil
		},
	}
}

func phpOps() []MicrocodeFn {
	return []MicrocodeFn{
		impliedDummyRead,
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			return pushStack(c, c.P|P_BREAK|P_S1), true, nil
		},
	}
}

func pullStackPeek(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
	return readRequest(0x0100 + uint16(c.S)), true, nil
}

func pullStackRead(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
	c.S++
	return readRequest(0x0100 + uint16(c.S)), true, nil
}

func plaOps() []MicrocodeFn {
	return []MicrocodeFn{
		impliedDummyRead,
		pullStackPeek,
		pullStackRead,
		loadInto(setA),
	}
}

func plpOps() []MicrocodeFn {
	return []MicrocodeFn{
		impliedDummyRead,
		pullStackPeek,
		pullStackRead,
		pureConsume(func(c *CPU, v uint8) { c.assignP(v) }),
	}
}

// --- Jumps / subroutine linkage --------------------------------------------

func jmpAbsoluteOps() []MicrocodeFn {
	return []MicrocodeFn{
		opFetchOperandByte,
		stepAbsHigh,
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			c.hi = resp.Data
			target := uint16(c.hi)<<8 | uint16(c.lo)
			if target == c.PC-3 {
				c.fireTrap(c.PC - 3)
			}
			c.PC = target
			return BusRequest{}, false, nil
		},
	}
}

func jmpIndirectOps() []MicrocodeFn {
	return []MicrocodeFn{
		opFetchOperandByte,
		stepAbsHigh,
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			c.hi = resp.Data
			c.addr = uint16(c.hi)<<8 | uint16(c.lo)
			return readRequest(c.addr), true, nil
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			c.lo = resp.Data // target low byte, reusing c.lo
			// The classic page-wrap bug: the high-byte fetch wraps within the
			// same page instead of crossing into the next one.
			hiAddr := (c.addr & 0xFF00) | uint16(uint8(c.addr)+1)
			return readRequest(hiAddr), true, nil
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			target := uint16(resp.Data)<<8 | uint16(c.lo)
			if target == c.PC-3 {
				c.fireTrap(c.PC - 3)
			}
			c.PC = target
			return BusRequest{}, false, nil
		},
	}
}

func jsrOps() []MicrocodeFn {
	return []MicrocodeFn{
		opFetchOperandByte,
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			c.lo = resp.Data
			return readRequest(0x0100 + uint16(c.S)), true, nil // internal stack peek
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			return pushStack(c, uint8(c.PC>>8)), true, nil
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			return pushStack(c, uint8(c.PC)), true, nil
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			return readRequest(c.PC), true, nil
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			target := uint16(resp.Data)<<8 | uint16(c.lo)
			if target == c.PC-2 {
				c.fireTrap(c.PC - 2)
			}
			c.PC = target
			return BusRequest{}, false, nil
		},
	}
}

func rtsOps() []MicrocodeFn {
	return []MicrocodeFn{
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			return readRequest(c.PC), true, nil // dummy operand read
		},
		pullStackPeek,
		pullStackRead,
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			c.lo = resp.Data
			c.S++
			return readRequest(0x0100 + uint16(c.S)), true, nil
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			c.PC = uint16(resp.Data)<<8 | uint16(c.lo)
			return readRequest(c.PC), true, nil // dummy read before PC++
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			c.PC++
			return BusRequest{}, false, nil
		},
	}
}

func rtiOps() []MicrocodeFn {
	return []MicrocodeFn{
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			return readRequest(c.PC), true, nil // dummy operand read
		},
		pullStackPeek,
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			c.S++
			return readRequest(0x0100 + uint16(c.S)), true, nil // pull P
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			c.assignP(resp.Data)
			c.S++
			return readRequest(0x0100 + uint16(c.S)), true, nil // pull PCL
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			c.lo = resp.Data
			c.S++
			return readRequest(0x0100 + uint16(c.S)), true, nil // pull PCH
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			c.PC = uint16(resp.Data)<<8 | uint16(c.lo)
			return BusRequest{}, false, nil
		},
	}
}

// --- Branches ---------------------------------------------------------------

func branchSuffix(cond func(c *CPU) bool) MicrocodeFn {
	return func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
		offset := int8(resp.Data)
		if !cond(c) {
			return BusRequest{}, false, nil
		}
		if offset == -2 {
			c.fireTrap(c.PC - 2)
		}
		oldPC := c.PC
		wrongPC := uint16(oldPC&0xFF00) | uint16(uint8(oldPC)+uint8(offset))
		target := uint16(int32(oldPC) + int32(offset))
		if wrongPC == target {
			c.PC = target
			return readRequest(wrongPC), true, nil
		}
		c.PC = wrongPC
		return readRequest(wrongPC), true, func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			c.PC = target
			return readRequest(target), true, nil
		}
	}
}

func condCarrySet(c *CPU) bool     { return c.hasFlag(P_CARRY) }
func condCarryClear(c *CPU) bool   { return !c.hasFlag(P_CARRY) }
func condZeroSet(c *CPU) bool      { return c.hasFlag(P_ZERO) }
func condZeroClear(c *CPU) bool    { return !c.hasFlag(P_ZERO) }
func condNegSet(c *CPU) bool       { return c.hasFlag(P_NEGATIVE) }
func condNegClear(c *CPU) bool     { return !c.hasFlag(P_NEGATIVE) }
func condOverflowSet(c *CPU) bool  { return c.hasFlag(P_OVERFLOW) }
func condOverflowClr(c *CPU) bool  { return !c.hasFlag(P_OVERFLOW) }

// --- NOP ---------------------------------------------------------------

func nopOps() []MicrocodeFn {
	return impliedOp(func(c *CPU) {})
}

// --- BRK -----------------------------------------------------------------

func brkOps() []MicrocodeFn {
	return interruptSequence(vectorIRQ, true, true)
}
