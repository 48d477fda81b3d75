// Package conformance runs the core against two independent third-party test
// corpora: the Harte single-step JSON suite (one fixture per opcode/operand
// combination, with an expected cycle-by-cycle bus trace) and the Klaus
// Dormann functional test image (a single long-running program that traps on
// itself when it detects a failure). Both drive cpu.CPU through nothing but
// its public Tick/Prime contract, the same as any other host.
package conformance

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sketchylizard/sixtwoh/cpu"
	"github.com/sketchylizard/sixtwoh/memory"
)

// SingleStepCase is one Harte-format fixture: a named test, an initial
// machine state, the expected final state, and the expected cycle-by-cycle
// bus trace in between.
type SingleStepCase struct {
	Name    string      `json:"name"`
	Initial StateVector `json:"initial"`
	Final   StateVector `json:"final"`
	Cycles  []BusCycle  `json:"cycles"`
}

// StateVector is a Harte fixture's "initial" or "final" object: the register
// file plus a sparse list of [address, value] RAM cells.
type StateVector struct {
	PC  uint16   `json:"pc"`
	S   uint8    `json:"s"`
	A   uint8    `json:"a"`
	X   uint8    `json:"x"`
	Y   uint8    `json:"y"`
	P   uint8    `json:"p"`
	RAM [][2]int `json:"ram"`
}

// BusCycle is one [address, value, "read"|"write"] entry in a fixture's
// expected cycle trace. Harte fixtures don't distinguish a SYNC fetch from
// an ordinary read, so neither does this comparison.
type BusCycle struct {
	Address uint16
	Value   uint8
	Kind    string
}

// UnmarshalJSON decodes a BusCycle from its 3-element heterogeneous array
// form, e.g. [57, 161, "read"].
func (b *BusCycle) UnmarshalJSON(data []byte) error {
	var raw [3]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	addr, ok := raw[0].(float64)
	if !ok {
		return fmt.Errorf("bus cycle address: expected number, got %T", raw[0])
	}
	val, ok := raw[1].(float64)
	if !ok {
		return fmt.Errorf("bus cycle value: expected number, got %T", raw[1])
	}
	kind, ok := raw[2].(string)
	if !ok {
		return fmt.Errorf("bus cycle kind: expected string, got %T", raw[2])
	}
	b.Address, b.Value, b.Kind = uint16(addr), uint8(val), kind
	return nil
}

// LoadSingleStepFile reads a Harte-format JSON file (a top-level array of
// SingleStepCase) from path.
func LoadSingleStepFile(path string) ([]SingleStepCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cases []SingleStepCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}

// newFixtureBank builds a flat 64KB memory.Bank seeded from a StateVector's
// sparse RAM list; a fixture only ever cares about the bytes it lists.
func newFixtureBank(cells [][2]int) memory.Bank {
	b, err := memory.New8BitRAMBank(1 << 16)
	if err != nil {
		panic(err) // 1<<16 is always a valid size
	}
	for _, cell := range cells {
		b.Write(uint16(cell[0]), uint8(cell[1]))
	}
	return b
}

// SingleStepResult is the outcome of running one SingleStepCase.
type SingleStepResult struct {
	Name          string
	RegisterDiffs []string
	CycleDiffs    []string
}

// Passed reports whether the run matched the fixture's expected final state
// and bus trace exactly.
func (r SingleStepResult) Passed() bool {
	return len(r.RegisterDiffs) == 0 && len(r.CycleDiffs) == 0
}

// RunSingleStep drives a fresh cpu.CPU through one fixture: Prime it at the
// initial state, Tick it once per entry in tc.Cycles through a TracingBank,
// then compare both the recorded bus trace and the final register file
// against what the fixture expects.
func RunSingleStep(tc SingleStepCase) SingleStepResult {
	tracer := memory.NewTracingBank(newFixtureBank(tc.Initial.RAM))
	c := cpu.New(cpu.NMOS)

	req := c.Prime(cpu.Registers{
		PC: tc.Initial.PC,
		A:  tc.Initial.A,
		X:  tc.Initial.X,
		Y:  tc.Initial.Y,
		S:  tc.Initial.S,
		P:  tc.Initial.P,
	})

	result := SingleStepResult{Name: tc.Name}
	for range tc.Cycles {
		// Serve unconditionally, even on the fixture's last listed cycle: a
		// step with no bus need of its own (a load's register write) only
		// takes effect on the tick that consumes this cycle's response, not
		// before it. The fetch this final Tick produces belongs to whatever
		// instruction would come next and is discarded.
		req = c.Tick(tracer.Serve(req))
	}

	for i, want := range tc.Cycles {
		entry := tracer.Trace[i]
		gotValue := entry.Response.Data
		gotKind := kindOf(entry.Request)
		if gotKind == "write" {
			gotValue = entry.Request.Data
		}
		if entry.Request.Address != want.Address || gotValue != want.Value || gotKind != want.Kind {
			result.CycleDiffs = append(result.CycleDiffs, fmt.Sprintf(
				"cycle %d: got {%.4X %.2X %s}, want {%.4X %.2X %s}",
				i, entry.Request.Address, gotValue, gotKind, want.Address, want.Value, want.Kind))
		}
	}

	got := c.Registers()
	want := cpu.Registers{PC: tc.Final.PC, A: tc.Final.A, X: tc.Final.X, Y: tc.Final.Y, S: tc.Final.S, P: tc.Final.P}
	compareRegisters(got, want, &result.RegisterDiffs)
	for _, cell := range tc.Final.RAM {
		addr, expect := uint16(cell[0]), uint8(cell[1])
		if actual := tracer.Read(addr); actual != expect {
			result.RegisterDiffs = append(result.RegisterDiffs,
				fmt.Sprintf("ram[%.4X]: got %.2X, want %.2X", addr, actual, expect))
		}
	}
	return result
}

func compareRegisters(got, want cpu.Registers, diffs *[]string) {
	if got.PC != want.PC {
		*diffs = append(*diffs, fmt.Sprintf("PC: got %.4X, want %.4X", got.PC, want.PC))
	}
	if got.A != want.A {
		*diffs = append(*diffs, fmt.Sprintf("A: got %.2X, want %.2X", got.A, want.A))
	}
	if got.X != want.X {
		*diffs = append(*diffs, fmt.Sprintf("X: got %.2X, want %.2X", got.X, want.X))
	}
	if got.Y != want.Y {
		*diffs = append(*diffs, fmt.Sprintf("Y: got %.2X, want %.2X", got.Y, want.Y))
	}
	if got.S != want.S {
		*diffs = append(*diffs, fmt.Sprintf("S: got %.2X, want %.2X", got.S, want.S))
	}
	if got.P != want.P {
		*diffs = append(*diffs, fmt.Sprintf("P: got %.2X, want %.2X", got.P, want.P))
	}
}

func kindOf(req cpu.BusRequest) string {
	if req.IsRead() {
		return "read"
	}
	return "write"
}
