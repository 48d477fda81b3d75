package conformance

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"

	"github.com/sketchylizard/sixtwoh/cpu"
)

// These fixtures are hand-written in the Harte single-step JSON shape rather
// than pulled from the full suite (tens of thousands of files, one per
// opcode/operand combination) — enough to exercise RunSingleStep's decoding,
// bus-trace comparison, and final-state comparison against a real runner.

func TestSingleStepLDAImmediate(t *testing.T) {
	tc := SingleStepCase{
		Name: "a9 1",
		Initial: StateVector{
			PC: 0x1000, S: 0xFD, A: 0x00, X: 0x00, Y: 0x00, P: 0x20,
			RAM: [][2]int{{0x1000, 0xA9}, {0x1001, 0x42}},
		},
		Final: StateVector{
			PC: 0x1002, S: 0xFD, A: 0x42, X: 0x00, Y: 0x00, P: 0x20,
			RAM: [][2]int{{0x1000, 0xA9}, {0x1001, 0x42}},
		},
		Cycles: []BusCycle{
			{Address: 0x1000, Value: 0xA9, Kind: "read"},
			{Address: 0x1001, Value: 0x42, Kind: "read"},
		},
	}

	result := RunSingleStep(tc)
	if !result.Passed() {
		t.Fatalf("LDA #$42 failed: register diffs %v, cycle diffs %v\n%s",
			result.RegisterDiffs, result.CycleDiffs, spew.Sdump(tc))
	}
}

func TestSingleStepSTAAbsolute(t *testing.T) {
	tc := SingleStepCase{
		Name: "8d store",
		Initial: StateVector{
			PC: 0x2000, S: 0xFD, A: 0x99, X: 0x00, Y: 0x00, P: 0x20,
			RAM: [][2]int{{0x2000, 0x8D}, {0x2001, 0x00}, {0x2002, 0x30}},
		},
		Final: StateVector{
			PC: 0x2003, S: 0xFD, A: 0x99, X: 0x00, Y: 0x00, P: 0x20,
			RAM: [][2]int{{0x2000, 0x8D}, {0x2001, 0x00}, {0x2002, 0x30}, {0x3000, 0x99}},
		},
		Cycles: []BusCycle{
			{Address: 0x2000, Value: 0x8D, Kind: "read"},
			{Address: 0x2001, Value: 0x00, Kind: "read"},
			{Address: 0x2002, Value: 0x30, Kind: "read"},
			{Address: 0x3000, Value: 0x99, Kind: "write"},
		},
	}

	result := RunSingleStep(tc)
	if !result.Passed() {
		t.Fatalf("STA $3000 failed: register diffs %v, cycle diffs %v\n%s",
			result.RegisterDiffs, result.CycleDiffs, spew.Sdump(tc))
	}
}

// TestSingleStepRegistersDiff exercises deep.Equal directly against the
// Registers snapshot, the way a broader single-step run would diff an
// entire batch of final states at once instead of field by field.
func TestSingleStepRegistersDiff(t *testing.T) {
	tc := SingleStepCase{
		Name: "e8 inx",
		Initial: StateVector{PC: 0x500, S: 0xFD, X: 0x7F, P: 0x20, RAM: [][2]int{{0x500, 0xE8}}},
		Final:   StateVector{PC: 0x501, S: 0xFD, X: 0x80, P: 0xA0, RAM: [][2]int{{0x500, 0xE8}}},
		Cycles: []BusCycle{
			{Address: 0x500, Value: 0xE8, Kind: "read"},
			{Address: 0x501, Value: 0x00, Kind: "read"},
		},
	}

	bank := newFixtureBank(tc.Initial.RAM)
	c := cpu.New(cpu.NMOS)
	req := c.Prime(cpu.Registers{PC: tc.Initial.PC, X: tc.Initial.X, S: tc.Initial.S, P: tc.Initial.P})
	for range tc.Cycles {
		resp := cpu.BusResponse{Ready: true}
		if req.IsRead() {
			resp.Data = bank.Read(req.Address)
		}
		req = c.Tick(resp)
	}

	want := cpu.Registers{PC: tc.Final.PC, X: tc.Final.X, S: tc.Final.S, P: tc.Final.P}
	if diff := deep.Equal(c.Registers(), want); diff != nil {
		t.Fatalf("INX final state diff: %v", diff)
	}
}

func TestBusCycleUnmarshal(t *testing.T) {
	var b BusCycle
	if err := b.UnmarshalJSON([]byte(`[57, 161, "read"]`)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := BusCycle{Address: 57, Value: 161, Kind: "read"}
	if diff := deep.Equal(b, want); diff != nil {
		t.Fatalf("BusCycle diff: %v", diff)
	}
}
