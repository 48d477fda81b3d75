// Package disassemble implements a disassembler driven by the same decode
// table the CPU core runs: a mnemonic and addressing mode are both looked up
// from cpu.Lookup, so the disassembly can never drift out of sync with what
// the core actually executes.
package disassemble

import (
	"fmt"

	"github.com/sketchylizard/sixtwoh/cpu"
	"github.com/sketchylizard/sixtwoh/memory"
)

// Step disassembles the instruction at pc and returns the formatted line
// plus the byte count to advance pc by to reach the next instruction. It
// does not interpret control flow, so a JMP/JSR target is never followed.
func Step(pc uint16, b memory.Bank) (string, int) {
	opcode := b.Read(pc)
	instr := cpu.Lookup(opcode)
	mnemonic := instr.Mnemonic
	if mnemonic == "" {
		mnemonic = "???"
	}

	operand1 := b.Read(pc + 1)
	operand2 := b.Read(pc + 2)
	rel := uint16(int16(int8(operand1)))

	out := fmt.Sprintf("%.4X %.2X ", pc, opcode)
	count := 1
	switch instr.Mode {
	case cpu.Immediate:
		out += fmt.Sprintf("%.2X      %s #%.2X       ", operand1, mnemonic, operand1)
		count = 2
	case cpu.ZeroPage:
		out += fmt.Sprintf("%.2X      %s %.2X        ", operand1, mnemonic, operand1)
		count = 2
	case cpu.ZeroPageX:
		out += fmt.Sprintf("%.2X      %s %.2X,X      ", operand1, mnemonic, operand1)
		count = 2
	case cpu.ZeroPageY:
		out += fmt.Sprintf("%.2X      %s %.2X,Y      ", operand1, mnemonic, operand1)
		count = 2
	case cpu.IndirectX:
		out += fmt.Sprintf("%.2X      %s (%.2X,X)    ", operand1, mnemonic, operand1)
		count = 2
	case cpu.IndirectY:
		out += fmt.Sprintf("%.2X      %s (%.2X),Y    ", operand1, mnemonic, operand1)
		count = 2
	case cpu.Absolute:
		out += fmt.Sprintf("%.2X %.2X   %s %.2X%.2X      ", operand1, operand2, mnemonic, operand2, operand1)
		count = 3
	case cpu.AbsoluteX:
		out += fmt.Sprintf("%.2X %.2X   %s %.2X%.2X,X    ", operand1, operand2, mnemonic, operand2, operand1)
		count = 3
	case cpu.AbsoluteY:
		out += fmt.Sprintf("%.2X %.2X   %s %.2X%.2X,Y    ", operand1, operand2, mnemonic, operand2, operand1)
		count = 3
	case cpu.Indirect:
		out += fmt.Sprintf("%.2X %.2X   %s (%.2X%.2X)    ", operand1, operand2, mnemonic, operand2, operand1)
		count = 3
	case cpu.Implied, cpu.Accumulator:
		out += fmt.Sprintf("        %s           ", mnemonic)
		count = 1
	case cpu.Relative:
		out += fmt.Sprintf("%.2X      %s %.2X (%.4X) ", operand1, mnemonic, operand1, pc+rel+2)
		count = 2
	default:
		out += fmt.Sprintf("        %s (unknown mode)", mnemonic)
	}
	return out, count
}
