package cpu

import "testing"

// TestADCSBCRoundTrip checks spec.md §8's ADC/SBC round-trip property:
// SBC(M, C_in) undoes ADC(M, !C_in) on A. Driven through the carry flag
// itself rather than a bare function call, since that's how real 6502 code
// chains multi-byte arithmetic: ADC #$10 with Carry=1 doesn't overflow, so
// it leaves Carry clear — exactly the complement SBC needs to undo it.
func TestADCSBCRoundTrip(t *testing.T) {
	bank := &flatBank{}
	bank.ram[0x1000] = 0x69 // ADC #$10
	bank.ram[0x1001] = 0x10
	bank.ram[0x1002] = 0xE9 // SBC #$10
	bank.ram[0x1003] = 0x10

	c := New(NMOS)
	req := c.Prime(Registers{PC: 0x1000, A: 0x42, P: P_S1 | P_CARRY})
	req = drive(t, c, bank, req, 2) // ADC #$10 with carry-in 1: 0x42+0x10+1
	if r := c.Registers(); r.A != 0x53 {
		t.Fatalf("after ADC #$10: A=0x%.2X, want 0x53", r.A)
	}
	drive(t, c, bank, req, 2) // SBC #$10
	r := c.Registers()
	if r.A != 0x42 {
		t.Fatalf("ADC/SBC round trip: A=0x%.2X, want 0x42 (back to start)", r.A)
	}
	if r.P&P_CARRY == 0 {
		t.Fatalf("ADC/SBC round trip: Carry=0, want set (no borrow)")
	}
}

// TestADCOverflowSignedWraparound checks the classic positive+positive=
// negative overflow case: 0x50+0x50 sets Overflow and Negative but not Carry.
func TestADCOverflowSignedWraparound(t *testing.T) {
	bank := &flatBank{}
	bank.ram[0x1000] = 0x69 // ADC #$50
	bank.ram[0x1001] = 0x50

	c := New(NMOS)
	req := c.Prime(Registers{PC: 0x1000, A: 0x50, P: P_S1})
	drive(t, c, bank, req, 2)

	r := c.Registers()
	if r.A != 0xA0 {
		t.Fatalf("ADC #$50 (A=0x50): A=0x%.2X, want 0xA0", r.A)
	}
	if r.P&P_OVERFLOW == 0 {
		t.Fatalf("ADC #$50 (A=0x50): Overflow not set, P=0x%.2X", r.P)
	}
	if r.P&P_NEGATIVE == 0 {
		t.Fatalf("ADC #$50 (A=0x50): Negative not set, P=0x%.2X", r.P)
	}
	if r.P&P_CARRY != 0 {
		t.Fatalf("ADC #$50 (A=0x50): Carry set unexpectedly, P=0x%.2X", r.P)
	}
}

// TestSBCBorrowClearsCarry checks that SBC with no incoming carry (a
// pending borrow) and an insufficient accumulator clears Carry on output,
// the 6502's "Carry clear means borrow occurred" convention.
func TestSBCBorrowClearsCarry(t *testing.T) {
	bank := &flatBank{}
	bank.ram[0x1000] = 0xE9 // SBC #$01
	bank.ram[0x1001] = 0x01

	c := New(NMOS)
	req := c.Prime(Registers{PC: 0x1000, A: 0x00, P: P_S1}) // Carry clear: borrow-in
	drive(t, c, bank, req, 2)

	r := c.Registers()
	if r.A != 0xFE {
		t.Fatalf("SBC #$01 (A=0, no carry-in): A=0x%.2X, want 0xFE", r.A)
	}
	if r.P&P_CARRY != 0 {
		t.Fatalf("SBC #$01 (A=0, no carry-in): Carry set, want clear (borrow occurred)")
	}
}

// TestCMPSetsCarryZeroNegative drives all three CMP relationships (equal,
// greater, less) and checks compare()'s documented Carry/Zero/Negative
// encoding: Carry set iff reg >= operand, independent of the subtraction's
// two's-complement sign.
func TestCMPSetsCarryZeroNegative(t *testing.T) {
	cases := []struct {
		name                         string
		a, operand                   uint8
		wantZero, wantCarry, wantNeg bool
	}{
		{"equal", 0x40, 0x40, true, true, false},
		{"greater", 0x40, 0x30, false, true, false},
		{"less", 0x30, 0x40, false, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bank := &flatBank{}
			bank.ram[0x1000] = 0xC9 // CMP #operand
			bank.ram[0x1001] = tc.operand

			c := New(NMOS)
			req := c.Prime(Registers{PC: 0x1000, A: tc.a, P: P_S1})
			drive(t, c, bank, req, 2)

			r := c.Registers()
			if (r.P&P_ZERO != 0) != tc.wantZero {
				t.Errorf("CMP A=0x%.2X #$%.2X: Zero=%v, want %v", tc.a, tc.operand, r.P&P_ZERO != 0, tc.wantZero)
			}
			if (r.P&P_CARRY != 0) != tc.wantCarry {
				t.Errorf("CMP A=0x%.2X #$%.2X: Carry=%v, want %v", tc.a, tc.operand, r.P&P_CARRY != 0, tc.wantCarry)
			}
			if (r.P&P_NEGATIVE != 0) != tc.wantNeg {
				t.Errorf("CMP A=0x%.2X #$%.2X: Negative=%v, want %v", tc.a, tc.operand, r.P&P_NEGATIVE != 0, tc.wantNeg)
			}
			// CMP must never touch A itself.
			if r.A != tc.a {
				t.Errorf("CMP must not modify A: got 0x%.2X, want 0x%.2X", r.A, tc.a)
			}
		})
	}
}

// TestCPXCPYMirrorCMP checks that CPX/CPY apply the exact same compare
// encoding against X and Y respectively, rather than reusing CMP's A-based
// comparison by mistake.
func TestCPXCPYMirrorCMP(t *testing.T) {
	bank := &flatBank{}
	bank.ram[0x1000] = 0xE0 // CPX #$05
	bank.ram[0x1001] = 0x05
	bank.ram[0x1002] = 0xC0 // CPY #$0A
	bank.ram[0x1003] = 0x0A

	c := New(NMOS)
	req := c.Prime(Registers{PC: 0x1000, X: 0x05, Y: 0x05, P: P_S1})
	req = drive(t, c, bank, req, 2) // CPX #$05: X==operand
	if r := c.Registers(); r.P&P_ZERO == 0 || r.P&P_CARRY == 0 {
		t.Fatalf("CPX #$05 (X=0x05): P=0x%.2X, want Zero=1 Carry=1", r.P)
	}
	drive(t, c, bank, req, 2) // CPY #$0A: Y(0x05) < operand
	if r := c.Registers(); r.P&P_CARRY != 0 || r.P&P_ZERO != 0 {
		t.Fatalf("CPY #$0A (Y=0x05): P=0x%.2X, want Carry=0 Zero=0", r.P)
	}
}

// TestTXSDoesNotTouchFlags checks the one documented exception among the
// register transfers: TXS loads S from X but, unlike TAX/TXA/TAY/TYA/TSX,
// leaves Zero and Negative exactly as they were.
func TestTXSDoesNotTouchFlags(t *testing.T) {
	bank := &flatBank{}
	bank.ram[0x1000] = 0x9A // TXS

	c := New(NMOS)
	req := c.Prime(Registers{PC: 0x1000, X: 0x00, P: P_S1 | P_NEGATIVE})
	drive(t, c, bank, req, 2)

	r := c.Registers()
	if r.S != 0x00 {
		t.Fatalf("TXS: S=0x%.2X, want 0x00 (copied from X)", r.S)
	}
	if r.P&P_NEGATIVE == 0 {
		t.Fatalf("TXS must not clear Negative despite X=0x00, P=0x%.2X", r.P)
	}
	if r.P&P_ZERO != 0 {
		t.Fatalf("TXS must not set Zero despite X=0x00, P=0x%.2X", r.P)
	}
}

// TestTSXSetsFlags is TXS's counterpart: TSX goes the other direction and
// does set Zero/Negative off the loaded value, same as any other transfer.
func TestTSXSetsFlags(t *testing.T) {
	bank := &flatBank{}
	bank.ram[0x1000] = 0xBA // TSX

	c := New(NMOS)
	req := c.Prime(Registers{PC: 0x1000, S: 0x00, P: P_S1})
	drive(t, c, bank, req, 2)

	r := c.Registers()
	if r.X != 0x00 {
		t.Fatalf("TSX: X=0x%.2X, want 0x00", r.X)
	}
	if r.P&P_ZERO == 0 {
		t.Fatalf("TSX must set Zero for S=0x00, P=0x%.2X", r.P)
	}
}
