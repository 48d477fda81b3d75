package cpu

// This file builds the per-addressing-mode prologues described in spec.md
// §4.3. Each prologue is a slice of MicrocodeFn that ends with the
// effective address (and, for loads, the value at it) ready for the
// operation's suffix steps. The step split mirrors the teacher's
// opTick-indexed addrZP/addrZPXY/addrIndirectX/addrIndirectY/addrAbsolute/
// addrAbsoluteXY state machine (cpu/cpu.go), re-expressed so that every
// cycle is its own request/response pair instead of a synchronous read —
// matching the microcode_pump.h / address_mode.h shape the pump itself is
// grounded on, generalized to the store and read-modify-write cases that
// reference only sketches.

func regX(c *CPU) uint8 { return c.X }
func regY(c *CPU) uint8 { return c.Y }

// opFetchOperandByte reads the byte at PC (the first byte after the opcode)
// and advances PC. Every addressing mode except Implied/Accumulator starts
// here.
func opFetchOperandByte(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
	req := readRequest(c.PC)
	c.PC++
	return req, true, nil
}

// --- Immediate / Relative -----------------------------------------------

// immediatePrologue is a single step: the operand byte IS the value, handed
// to the operation's suffix as resp.Data on the following tick.
func immediatePrologue() []MicrocodeFn {
	return []MicrocodeFn{opFetchOperandByte}
}

func relativePrologue() []MicrocodeFn {
	return []MicrocodeFn{opFetchOperandByte}
}

// --- Zero page -----------------------------------------------------------

func opZPEffective(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
	c.lo = resp.Data
	c.addr = uint16(c.lo)
	return readRequest(c.addr), true, nil
}

func zeroPagePrologue(kind accessKind) []MicrocodeFn {
	switch kind {
	case accessStore:
		return []MicrocodeFn{opFetchOperandByte}
	default: // load and RMW both read the effective address first
		return []MicrocodeFn{opFetchOperandByte, opZPEffective}
	}
}

func storeZP(val func(c *CPU) uint8) MicrocodeFn {
	return func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
		c.lo = resp.Data
		c.addr = uint16(c.lo)
		return writeRequest(c.addr, val(c)), true, nil
	}
}

// --- Zero page indexed (d,x / d,y) ---------------------------------------

func zpIndexedDummy(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
	c.lo = resp.Data
	c.addr = uint16(c.lo)
	return readRequest(c.addr), true, nil // dummy read at the unindexed address
}

func zpIndexedEffective(reg func(c *CPU) uint8) MicrocodeFn {
	return func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
		c.lo = c.lo + reg(c)
		c.addr = uint16(c.lo)
		return readRequest(c.addr), true, nil
	}
}

func zeroPageIndexedPrologue(kind accessKind, reg func(c *CPU) uint8) []MicrocodeFn {
	switch kind {
	case accessStore:
		return []MicrocodeFn{opFetchOperandByte, zpIndexedDummy}
	default:
		return []MicrocodeFn{opFetchOperandByte, zpIndexedDummy, zpIndexedEffective(reg)}
	}
}

func storeZPIndexed(reg func(c *CPU) uint8, val func(c *CPU) uint8) MicrocodeFn {
	return func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
		c.lo = c.lo + reg(c)
		c.addr = uint16(c.lo)
		return writeRequest(c.addr, val(c)), true, nil
	}
}

// --- Absolute --------------------------------------------------------------

func stepAbsHigh(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
	c.lo = resp.Data
	req := readRequest(c.PC)
	c.PC++
	return req, true, nil
}

func opAbsEffective(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
	c.hi = resp.Data
	c.addr = uint16(c.hi)<<8 | uint16(c.lo)
	return readRequest(c.addr), true, nil
}

func absolutePrologue(kind accessKind) []MicrocodeFn {
	switch kind {
	case accessStore:
		return []MicrocodeFn{opFetchOperandByte, stepAbsHigh}
	default:
		return []MicrocodeFn{opFetchOperandByte, stepAbsHigh, opAbsEffective}
	}
}

func storeAbs(val func(c *CPU) uint8) MicrocodeFn {
	return func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
		c.hi = resp.Data
		c.addr = uint16(c.hi)<<8 | uint16(c.lo)
		return writeRequest(c.addr, val(c)), true, nil
	}
}

// --- Absolute indexed (a,x / a,y) -------------------------------------------

// absIndexedEffectiveLoad computes the effective address, reads it
// immediately (the address is possibly wrong: same low byte arithmetic as
// real hardware, so it reads the wrong page when the add carries), and
// injects a one-cycle fixup re-read at the correct address only when that
// happened — the classic conditional extra cycle on indexed loads.
func absIndexedEffectiveLoad(reg func(c *CPU) uint8) MicrocodeFn {
	return func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
		c.hi = resp.Data
		r := reg(c)
		wrong := uint16(c.hi)<<8 | uint16(uint8(c.lo)+r)
		full := (uint16(c.hi)<<8 | uint16(c.lo)) + uint16(r)
		c.addr = wrong
		if wrong != full {
			return readRequest(wrong), true, func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
				c.addr = full
				return readRequest(full), true, nil
			}
		}
		return readRequest(wrong), true, nil
	}
}

// absIndexedDummy always takes the extra cycle (stores and RMWs can't
// speculatively skip it the way a load can, since the 6502 always commits to
// the write side once it starts).
func absIndexedDummy(reg func(c *CPU) uint8) MicrocodeFn {
	return func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
		c.hi = resp.Data
		r := reg(c)
		wrong := uint16(c.hi)<<8 | uint16(uint8(c.lo)+r)
		full := (uint16(c.hi)<<8 | uint16(c.lo)) + uint16(r)
		c.addr = full
		return readRequest(wrong), true, nil
	}
}

func opReadEffective(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
	return readRequest(c.addr), true, nil
}

func absoluteIndexedPrologue(kind accessKind, reg func(c *CPU) uint8) []MicrocodeFn {
	switch kind {
	case accessStore:
		return []MicrocodeFn{opFetchOperandByte, stepAbsHigh, absIndexedDummy(reg)}
	case accessRMW:
		return []MicrocodeFn{opFetchOperandByte, stepAbsHigh, absIndexedDummy(reg), opReadEffective}
	default:
		return []MicrocodeFn{opFetchOperandByte, stepAbsHigh, absIndexedEffectiveLoad(reg)}
	}
}

func storeAbsIndexed(val func(c *CPU) uint8) MicrocodeFn {
	return func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
		return writeRequest(c.addr, val(c)), true, nil
	}
}

// --- (Indirect,X) ------------------------------------------------------

func indirectXPrologue(kind accessKind) []MicrocodeFn {
	steps := []MicrocodeFn{
		opFetchOperandByte,
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) { // dummy read at d
			c.lo = resp.Data
			return readRequest(uint16(c.lo)), true, nil
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) { // read ptr low at d+X
			c.lo = uint8(c.lo + c.X)
			return readRequest(uint16(c.lo)), true, nil
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) { // read ptr high at d+X+1
			c.val = resp.Data
			next := uint8(c.lo + 1)
			return readRequest(uint16(next)), true, nil
		},
	}
	if kind == accessStore {
		return steps
	}
	steps = append(steps, func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) { // read effective
		c.addr = uint16(resp.Data)<<8 | uint16(c.val)
		return readRequest(c.addr), true, nil
	})
	return steps
}

func storeIndirectX(val func(c *CPU) uint8) MicrocodeFn {
	return func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
		c.addr = uint16(resp.Data)<<8 | uint16(c.val)
		return writeRequest(c.addr, val(c)), true, nil
	}
}

// --- (Indirect),Y --------------------------------------------------------

func indirectYPrologue(kind accessKind) []MicrocodeFn {
	steps := []MicrocodeFn{
		opFetchOperandByte,
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) { // read ptr low at d
			c.lo = resp.Data
			return readRequest(uint16(c.lo)), true, nil
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) { // read ptr high at d+1
			c.val = resp.Data
			next := uint8(c.lo + 1)
			return readRequest(uint16(next)), true, nil
		},
	}
	switch kind {
	case accessLoad:
		steps = append(steps, func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			c.hi = resp.Data
			wrong := uint16(c.hi)<<8 | uint16(uint8(c.val)+c.Y)
			full := (uint16(c.hi)<<8 | uint16(c.val)) + uint16(c.Y)
			c.addr = wrong
			if wrong != full {
				return readRequest(wrong), true, func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
					c.addr = full
					return readRequest(full), true, nil
				}
			}
			return readRequest(wrong), true, nil
		})
	default: // store and RMW always take the extra cycle
		steps = append(steps, func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			c.hi = resp.Data
			wrong := uint16(c.hi)<<8 | uint16(uint8(c.val)+c.Y)
			full := (uint16(c.hi)<<8 | uint16(c.val)) + uint16(c.Y)
			c.addr = full
			return readRequest(wrong), true, nil
		})
		if kind == accessRMW {
			steps = append(steps, opReadEffective)
		}
	}
	return steps
}

func storeIndirectY(val func(c *CPU) uint8) MicrocodeFn {
	return func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
		return writeRequest(c.addr, val(c)), true, nil
	}
}

// --- Read-modify-write shared tail ---------------------------------------

// dummyWriteback performs the 6502's documented write-old-value-back cycle
// that every RMW instruction takes between reading the operand and writing
// the computed result.
func dummyWriteback(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
	c.val = resp.Data
	return writeRequest(c.addr, c.val), true, nil
}

// rmwSuffix applies op to the value latched by dummyWriteback and writes the
// result back, setting flags through op itself.
func rmwSuffix(op func(c *CPU, v uint8) uint8) MicrocodeFn {
	return func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
		newVal := op(c, c.val)
		return writeRequest(c.addr, newVal), true, nil
	}
}
