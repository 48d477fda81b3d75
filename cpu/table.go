package cpu

// instructionTable is the 256-entry decode table. Every documented NMOS
// opcode is built from an addressing-mode prologue (addressing.go) and an
// operation suffix (operations.go); slots spec.md's Non-goals exclude
// (illegal/undocumented opcodes) are left as their zero Instruction, which
// decode treats as an invariant violation if one is ever actually fetched.
var instructionTable = buildInstructionTable()

func buildInstructionTable() [256]Instruction {
	var t [256]Instruction

	// --- LDA / LDX / LDY -----------------------------------------------
	set(&t, 0xA9, "LDA", Immediate, immediatePrologue(), loadInto(setA))
	set(&t, 0xA5, "LDA", ZeroPage, zeroPagePrologue(accessLoad), loadInto(setA))
	set(&t, 0xB5, "LDA", ZeroPageX, zeroPageIndexedPrologue(accessLoad, regX), loadInto(setA))
	set(&t, 0xAD, "LDA", Absolute, absolutePrologue(accessLoad), loadInto(setA))
	set(&t, 0xBD, "LDA", AbsoluteX, absoluteIndexedPrologue(accessLoad, regX), loadInto(setA))
	set(&t, 0xB9, "LDA", AbsoluteY, absoluteIndexedPrologue(accessLoad, regY), loadInto(setA))
	set(&t, 0xA1, "LDA", IndirectX, indirectXPrologue(accessLoad), loadInto(setA))
	set(&t, 0xB1, "LDA", IndirectY, indirectYPrologue(accessLoad), loadInto(setA))

	set(&t, 0xA2, "LDX", Immediate, immediatePrologue(), loadInto(setX))
	set(&t, 0xA6, "LDX", ZeroPage, zeroPagePrologue(accessLoad), loadInto(setX))
	set(&t, 0xB6, "LDX", ZeroPageY, zeroPageIndexedPrologue(accessLoad, regY), loadInto(setX))
	set(&t, 0xAE, "LDX", Absolute, absolutePrologue(accessLoad), loadInto(setX))
	set(&t, 0xBE, "LDX", AbsoluteY, absoluteIndexedPrologue(accessLoad, regY), loadInto(setX))

	set(&t, 0xA0, "LDY", Immediate, immediatePrologue(), loadInto(setY))
	set(&t, 0xA4, "LDY", ZeroPage, zeroPagePrologue(accessLoad), loadInto(setY))
	set(&t, 0xB4, "LDY", ZeroPageX, zeroPageIndexedPrologue(accessLoad, regX), loadInto(setY))
	set(&t, 0xAC, "LDY", Absolute, absolutePrologue(accessLoad), loadInto(setY))
	set(&t, 0xBC, "LDY", AbsoluteX, absoluteIndexedPrologue(accessLoad, regX), loadInto(setY))

	// --- STA / STX / STY -------------------------------------------------
	set(&t, 0x85, "STA", ZeroPage, zeroPagePrologue(accessStore), storeZP(getA))
	set(&t, 0x95, "STA", ZeroPageX, zeroPageIndexedPrologue(accessStore, regX), storeZPIndexed(regX, getA))
	set(&t, 0x8D, "STA", Absolute, absolutePrologue(accessStore), storeAbs(getA))
	set(&t, 0x9D, "STA", AbsoluteX, absoluteIndexedPrologue(accessStore, regX), storeAbsIndexed(getA))
	set(&t, 0x99, "STA", AbsoluteY, absoluteIndexedPrologue(accessStore, regY), storeAbsIndexed(getA))
	set(&t, 0x81, "STA", IndirectX, indirectXPrologue(accessStore), storeIndirectX(getA))
	set(&t, 0x91, "STA", IndirectY, indirectYPrologue(accessStore), storeIndirectY(getA))

	set(&t, 0x86, "STX", ZeroPage, zeroPagePrologue(accessStore), storeZP(getX))
	set(&t, 0x96, "STX", ZeroPageY, zeroPageIndexedPrologue(accessStore, regY), storeZPIndexed(regY, getX))
	set(&t, 0x8E, "STX", Absolute, absolutePrologue(accessStore), storeAbs(getX))

	set(&t, 0x84, "STY", ZeroPage, zeroPagePrologue(accessStore), storeZP(getY))
	set(&t, 0x94, "STY", ZeroPageX, zeroPageIndexedPrologue(accessStore, regX), storeZPIndexed(regX, getY))
	set(&t, 0x8C, "STY", Absolute, absolutePrologue(accessStore), storeAbs(getY))

	// --- Register transfers / increments ---------------------------------
	setImplied(&t, 0xAA, "TAX", transferOp(getA, setX, true))
	setImplied(&t, 0x8A, "TXA", transferOp(getX, setA, true))
	setImplied(&t, 0xA8, "TAY", transferOp(getA, setY, true))
	setImplied(&t, 0x98, "TYA", transferOp(getY, setA, true))
	setImplied(&t, 0xBA, "TSX", transferOp(getS, setX, true))
	setImplied(&t, 0x9A, "TXS", transferOp(getX, setS, false))

	setImplied(&t, 0xE8, "INX", incDecReg(getX, setX, 1))
	setImplied(&t, 0xCA, "DEX", incDecReg(getX, setX, ^uint8(0)))
	setImplied(&t, 0xC8, "INY", incDecReg(getY, setY, 1))
	setImplied(&t, 0x88, "DEY", incDecReg(getY, setY, ^uint8(0)))

	// --- ALU: ADC / SBC / AND / ORA / EOR / CMP / CPX / CPY / BIT --------
	aluFamily(&t, "ADC", map[uint8]addrSlot{0x69: {Immediate, nil}, 0x65: {ZeroPage, nil}, 0x75: {ZeroPageX, regX}, 0x6D: {Absolute, nil}, 0x7D: {AbsoluteX, regX}, 0x79: {AbsoluteY, regY}, 0x61: {IndirectX, nil}, 0x71: {IndirectY, nil}}, adcValue)
	aluFamily(&t, "SBC", map[uint8]addrSlot{0xE9: {Immediate, nil}, 0xE5: {ZeroPage, nil}, 0xF5: {ZeroPageX, regX}, 0xED: {Absolute, nil}, 0xFD: {AbsoluteX, regX}, 0xF9: {AbsoluteY, regY}, 0xE1: {IndirectX, nil}, 0xF1: {IndirectY, nil}}, sbcValue)
	aluFamily(&t, "AND", map[uint8]addrSlot{0x29: {Immediate, nil}, 0x25: {ZeroPage, nil}, 0x35: {ZeroPageX, regX}, 0x2D: {Absolute, nil}, 0x3D: {AbsoluteX, regX}, 0x39: {AbsoluteY, regY}, 0x21: {IndirectX, nil}, 0x31: {IndirectY, nil}}, andValue)
	aluFamily(&t, "ORA", map[uint8]addrSlot{0x09: {Immediate, nil}, 0x05: {ZeroPage, nil}, 0x15: {ZeroPageX, regX}, 0x0D: {Absolute, nil}, 0x1D: {AbsoluteX, regX}, 0x19: {AbsoluteY, regY}, 0x01: {IndirectX, nil}, 0x11: {IndirectY, nil}}, oraValue)
	aluFamily(&t, "EOR", map[uint8]addrSlot{0x49: {Immediate, nil}, 0x45: {ZeroPage, nil}, 0x55: {ZeroPageX, regX}, 0x4D: {Absolute, nil}, 0x5D: {AbsoluteX, regX}, 0x59: {AbsoluteY, regY}, 0x41: {IndirectX, nil}, 0x51: {IndirectY, nil}}, eorValue)
	aluFamily(&t, "CMP", map[uint8]addrSlot{0xC9: {Immediate, nil}, 0xC5: {ZeroPage, nil}, 0xD5: {ZeroPageX, regX}, 0xCD: {Absolute, nil}, 0xDD: {AbsoluteX, regX}, 0xD9: {AbsoluteY, regY}, 0xC1: {IndirectX, nil}, 0xD1: {IndirectY, nil}}, cmpAgainst(getA))

	set(&t, 0xE0, "CPX", Immediate, immediatePrologue(), pureConsume(cmpAgainst(getX)))
	set(&t, 0xE4, "CPX", ZeroPage, zeroPagePrologue(accessLoad), pureConsume(cmpAgainst(getX)))
	set(&t, 0xEC, "CPX", Absolute, absolutePrologue(accessLoad), pureConsume(cmpAgainst(getX)))

	set(&t, 0xC0, "CPY", Immediate, immediatePrologue(), pureConsume(cmpAgainst(getY)))
	set(&t, 0xC4, "CPY", ZeroPage, zeroPagePrologue(accessLoad), pureConsume(cmpAgainst(getY)))
	set(&t, 0xCC, "CPY", Absolute, absolutePrologue(accessLoad), pureConsume(cmpAgainst(getY)))

	set(&t, 0x24, "BIT", ZeroPage, zeroPagePrologue(accessLoad), pureConsume(bitValue))
	set(&t, 0x2C, "BIT", Absolute, absolutePrologue(accessLoad), pureConsume(bitValue))

	// --- RMW: ASL / LSR / ROL / ROR / INC / DEC --------------------------
	rmwFamily(&t, "ASL", map[uint8]addrSlot{0x06: {ZeroPage, nil}, 0x16: {ZeroPageX, regX}, 0x0E: {Absolute, nil}, 0x1E: {AbsoluteX, regX}}, aslOp)
	rmwFamily(&t, "LSR", map[uint8]addrSlot{0x46: {ZeroPage, nil}, 0x56: {ZeroPageX, regX}, 0x4E: {Absolute, nil}, 0x5E: {AbsoluteX, regX}}, lsrOp)
	rmwFamily(&t, "ROL", map[uint8]addrSlot{0x26: {ZeroPage, nil}, 0x36: {ZeroPageX, regX}, 0x2E: {Absolute, nil}, 0x3E: {AbsoluteX, regX}}, rolOp)
	rmwFamily(&t, "ROR", map[uint8]addrSlot{0x66: {ZeroPage, nil}, 0x76: {ZeroPageX, regX}, 0x6E: {Absolute, nil}, 0x7E: {AbsoluteX, regX}}, rorOp)
	rmwFamily(&t, "INC", map[uint8]addrSlot{0xE6: {ZeroPage, nil}, 0xF6: {ZeroPageX, regX}, 0xEE: {Absolute, nil}, 0xFE: {AbsoluteX, regX}}, incOp)
	rmwFamily(&t, "DEC", map[uint8]addrSlot{0xC6: {ZeroPage, nil}, 0xD6: {ZeroPageX, regX}, 0xCE: {Absolute, nil}, 0xDE: {AbsoluteX, regX}}, decOp)

	set(&t, 0x0A, "ASL", Accumulator, []MicrocodeFn{impliedDummyRead}, accumulatorOp(aslOp))
	set(&t, 0x4A, "LSR", Accumulator, []MicrocodeFn{impliedDummyRead}, accumulatorOp(lsrOp))
	set(&t, 0x2A, "ROL", Accumulator, []MicrocodeFn{impliedDummyRead}, accumulatorOp(rolOp))
	set(&t, 0x6A, "ROR", Accumulator, []MicrocodeFn{impliedDummyRead}, accumulatorOp(rorOp))

	// --- Flag operations ---------------------------------------------------
	setImplied(&t, 0x18, "CLC", setFlagOp(P_CARRY, false))
	setImplied(&t, 0x38, "SEC", setFlagOp(P_CARRY, true))
	setImplied(&t, 0x58, "CLI", setFlagOp(P_INTERRUPT, false))
	setImplied(&t, 0x78, "SEI", setFlagOp(P_INTERRUPT, true))
	setImplied(&t, 0xB8, "CLV", setFlagOp(P_OVERFLOW, false))
	setImplied(&t, 0xD8, "CLD", setFlagOp(P_DECIMAL, false))
	setImplied(&t, 0xF8, "SED", setFlagOp(P_DECIMAL, true))

	// --- Stack ---------------------------------------------------------
	t[0x48] = newInstruction(0x48, "PHA", Implied, phaOps())
	t[0x08] = newInstruction(0x08, "PHP", Implied, phpOps())
	t[0x68] = newInstruction(0x68, "PLA", Implied, plaOps())
	t[0x28] = newInstruction(0x28, "PLP", Implied, plpOps())

	// --- Jumps / subroutines / interrupts --------------------------------
	t[0x4C] = newInstruction(0x4C, "JMP", Absolute, jmpAbsoluteOps())
	t[0x6C] = newInstruction(0x6C, "JMP", Indirect, jmpIndirectOps())
	t[0x20] = newInstruction(0x20, "JSR", Absolute, jsrOps())
	t[0x60] = newInstruction(0x60, "RTS", Implied, rtsOps())
	t[0x40] = newInstruction(0x40, "RTI", Implied, rtiOps())
	t[0x00] = newInstruction(0x00, "BRK", Implied, brkOps())

	// --- Branches ------------------------------------------------------
	set(&t, 0x90, "BCC", Relative, relativePrologue(), branchSuffix(condCarryClear))
	set(&t, 0xB0, "BCS", Relative, relativePrologue(), branchSuffix(condCarrySet))
	set(&t, 0xF0, "BEQ", Relative, relativePrologue(), branchSuffix(condZeroSet))
	set(&t, 0xD0, "BNE", Relative, relativePrologue(), branchSuffix(condZeroClear))
	set(&t, 0x30, "BMI", Relative, relativePrologue(), branchSuffix(condNegSet))
	set(&t, 0x10, "BPL", Relative, relativePrologue(), branchSuffix(condNegClear))
	set(&t, 0x50, "BVC", Relative, relativePrologue(), branchSuffix(condOverflowClr))
	set(&t, 0x70, "BVS", Relative, relativePrologue(), branchSuffix(condOverflowSet))

	// --- NOP -------------------------------------------------------------
	t[0xEA] = newInstruction(0xEA, "NOP", Implied, nopOps())

	return t
}

// addrSlot names an addressing mode and, for indexed zero-page modes, which
// register indexes it (needed because ZeroPageX and ZeroPageY share the same
// prologue shape but index by different registers).
type addrSlot struct {
	mode AddressMode
	reg  func(c *CPU) uint8
}

func set(t *[256]Instruction, opcode uint8, mnemonic string, mode AddressMode, prologue []MicrocodeFn, suffix ...MicrocodeFn) {
	t[opcode] = newInstruction(opcode, mnemonic, mode, prologue, suffix...)
}

func setImplied(t *[256]Instruction, opcode uint8, mnemonic string, fn func(c *CPU)) {
	t[opcode] = newInstruction(opcode, mnemonic, Implied, impliedOp(fn))
}

func prologueFor(kind accessKind, slot addrSlot) []MicrocodeFn {
	switch slot.mode {
	case Immediate:
		return immediatePrologue()
	case ZeroPage:
		return zeroPagePrologue(kind)
	case ZeroPageX, ZeroPageY:
		return zeroPageIndexedPrologue(kind, slot.reg)
	case Absolute:
		return absolutePrologue(kind)
	case AbsoluteX, AbsoluteY:
		return absoluteIndexedPrologue(kind, slot.reg)
	case IndirectX:
		return indirectXPrologue(kind)
	case IndirectY:
		return indirectYPrologue(kind)
	}
	panic(InvalidCPUState{Reason: "prologueFor: unsupported addressing mode"})
}

func aluFamily(t *[256]Instruction, mnemonic string, slots map[uint8]addrSlot, op func(c *CPU, v uint8)) {
	for opcode, slot := range slots {
		set(t, opcode, mnemonic, slot.mode, prologueFor(accessLoad, slot), pureConsume(op))
	}
}

func rmwFamily(t *[256]Instruction, mnemonic string, slots map[uint8]addrSlot, op func(c *CPU, v uint8) uint8) {
	for opcode, slot := range slots {
		set(t, opcode, mnemonic, slot.mode, prologueFor(accessRMW, slot), dummyWriteback, rmwSuffix(op))
	}
}
