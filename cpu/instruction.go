package cpu

import "fmt"

// AddressMode tags which addressing-mode prologue an opcode's Ops begin
// with. It exists mainly so disassemble can render operands; the pump
// itself only ever walks the Ops slice.
type AddressMode uint8

const (
	Implied AddressMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX
	IndirectY
	Relative
)

func (m AddressMode) String() string {
	switch m {
	case Implied:
		return "implied"
	case Accumulator:
		return "accumulator"
	case Immediate:
		return "immediate"
	case ZeroPage:
		return "zeropage"
	case ZeroPageX:
		return "zeropage,x"
	case ZeroPageY:
		return "zeropage,y"
	case Absolute:
		return "absolute"
	case AbsoluteX:
		return "absolute,x"
	case AbsoluteY:
		return "absolute,y"
	case Indirect:
		return "indirect"
	case IndirectX:
		return "(indirect,x)"
	case IndirectY:
		return "(indirect),y"
	case Relative:
		return "relative"
	}
	return "unknown"
}

// accessKind distinguishes how an addressing-mode prologue finishes: a load
// reads the effective address and hands the value to the operation, a store
// writes straight through without reading the old value back, and an RMW
// reads the old value, writes it back unchanged (the 6502's documented dummy
// write), then the operation computes and writes the new value.
type accessKind uint8

const (
	accessLoad accessKind = iota
	accessStore
	accessRMW
)

// maxOps bounds the microcode steps any single opcode needs; the longest
// sequence in the table, BRK's, is 7 steps after the opcode fetch.
const maxOps = 7

// MicrocodeFn is a single cycle of work. Given CPU state and the previous
// cycle's bus response, it returns this cycle's bus request. ok == false
// (with injection == nil) means the instruction is complete: the pump will
// issue the next opcode's fetch on this same tick and decode it on the next.
// injection, when non-nil, is spliced in ahead of the next scheduled step —
// used for page-crossing fixups and similar single-cycle detours that are
// only known about once this step runs.
type MicrocodeFn func(c *CPU, resp BusResponse) (req BusRequest, ok bool, injection MicrocodeFn)

// Instruction is one of the 256 opcode table slots.
type Instruction struct {
	Opcode   uint8
	Mnemonic string
	Mode     AddressMode
	Ops      []MicrocodeFn
}

// Lookup returns the decoded Instruction for opcode, for hosts (like
// disassemble) that want to know an opcode's mnemonic and addressing mode
// without driving the CPU.
func Lookup(opcode uint8) Instruction {
	return instructionTable[opcode]
}

// newInstruction concatenates an addressing-mode prologue with an
// operation's suffix steps into one opcode slot, panicking (at table-build
// time, long before any Tick is ever called) if the result can't fit in a
// real 6502 instruction's cycle budget.
func newInstruction(opcode uint8, mnemonic string, mode AddressMode, prologue []MicrocodeFn, suffix ...MicrocodeFn) Instruction {
	ops := make([]MicrocodeFn, 0, len(prologue)+len(suffix))
	ops = append(ops, prologue...)
	ops = append(ops, suffix...)
	if len(ops) == 0 || len(ops) > maxOps {
		panic(InvalidCPUState{Reason: fmt.Sprintf("opcode 0x%.2X %s: %d microcode steps is out of range", opcode, mnemonic, len(ops))})
	}
	return Instruction{Opcode: opcode, Mnemonic: mnemonic, Mode: mode, Ops: ops}
}
