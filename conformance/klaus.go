package conformance

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sketchylizard/sixtwoh/cpu"
)

// KlausTest describes one Klaus Dormann functional-test ROM image: where it
// loads, where execution begins, and the PC a passing run traps at. Dormann's
// test programs are self-checking: every sub-test that fails branches to its
// own infinite loop, so a passing run is recognized by which address the CPU
// ultimately traps at, not by any output it produces.
type KlausTest struct {
	Name      string
	Filename  string
	LoadAddr  uint16
	StartPC   uint16
	SuccessPC uint16
}

// KlausTests is the subset of Dormann's suite this core can run. The
// decimal-mode sub-tests (dadc.bin, dsbc.bin, and siblings) are deliberately
// not listed here: this core doesn't implement BCD arithmetic, so they would
// only ever trap in their own decimal-mode section, not at SuccessPC.
var KlausTests = []KlausTest{
	{Name: "functional", Filename: "6502_functional_test.bin", LoadAddr: 0x0000, StartPC: 0x0400, SuccessPC: 0x3469},
}

// klausBank is the flat 64KB RAM a Klaus test image runs against. Unlike a
// single-step fixture's memory.Bank, it needs a reset vector wired up, since
// RunKlaus documents PC the way real hardware would, even though Prime
// bypasses the vector fetch to start execution directly at StartPC.
type klausBank struct {
	ram [65536]uint8
}

func (b *klausBank) Read(addr uint16) uint8       { return b.ram[addr] }
func (b *klausBank) Write(addr uint16, val uint8) { b.ram[addr] = val }

// KlausResult is the outcome of running one KlausTest to completion.
type KlausResult struct {
	Test   KlausTest
	TrapPC uint16
	Cycles uint64
	Passed bool
}

// RunKlaus loads test.Filename from dir, runs it against a fresh cpu.CPU
// until the program traps on itself (the Dormann convention for "done,
// either passed or found the first failing sub-test"), and reports whether
// the trap landed at the documented success address. maxCycles bounds a
// run that never traps at all (a regression that would otherwise hang a
// test run forever).
func RunKlaus(test KlausTest, dir string, maxCycles uint64) (KlausResult, error) {
	rom, err := os.ReadFile(filepath.Join(dir, test.Filename))
	if err != nil {
		return KlausResult{}, err
	}

	bank := &klausBank{}
	copy(bank.ram[test.LoadAddr:], rom)
	bank.ram[0xFFFC] = uint8(test.StartPC)
	bank.ram[0xFFFD] = uint8(test.StartPC >> 8)

	c := cpu.New(cpu.NMOS)
	trapped := false
	var trapPC uint16
	c.SetTrapHandler(func(pc uint16) {
		trapped = true
		trapPC = pc
	})

	req := c.Prime(cpu.Registers{PC: test.StartPC, S: 0xFD, P: cpu.P_S1 | cpu.P_INTERRUPT})

	var cycles uint64
	for !trapped {
		if cycles >= maxCycles {
			return KlausResult{}, fmt.Errorf("%s: no self-trap after %d cycles (PC=0x%.4X)", test.Name, cycles, c.Registers().PC)
		}
		var resp cpu.BusResponse
		if req.IsRead() {
			resp = cpu.BusResponse{Data: bank.Read(req.Address), Ready: true}
		} else {
			bank.Write(req.Address, req.Data)
			resp = cpu.BusResponse{Ready: true}
		}
		cycles++
		req = c.Tick(resp)
	}

	return KlausResult{
		Test:   test,
		TrapPC: trapPC,
		Cycles: cycles,
		Passed: trapPC == test.SuccessPC,
	}, nil
}
