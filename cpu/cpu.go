// Package cpu implements a cycle-accurate MOS 6502 core: the decode table,
// the addressing-mode and operation microcode, and the pump that schedules
// one cycle of it per Tick call. It never touches memory itself — every byte
// in or out crosses the BusRequest/BusResponse boundary, so a host drives it
// one cycle at a time over whatever bus it likes.
package cpu

import (
	"fmt"

	"github.com/sketchylizard/sixtwoh/irq"
)

const (
	vectorNMI   = uint16(0xFFFA)
	vectorReset = uint16(0xFFFC)
	vectorIRQ   = uint16(0xFFFE)
)

// Variant selects among documented 6502 family members. Only NMOS behavior
// (the only variant spec.md's Non-goals leave in scope) changes actual
// emulated behavior today; the others are recorded for hosts that want to
// key memory-map quirks (6510 I/O latch, CMOS BRK clearing Decimal) off of
// it, but this module does not implement those quirks itself.
type Variant int

const (
	NMOS Variant = iota
	NMOSRicoh
	NMOS6510
	CMOS
)

// CPU is one 6502 core. Create it with New, then drive it by calling Tick
// once per clock cycle, feeding back the BusResponse for the BusRequest the
// previous Tick returned.
type CPU struct {
	PC uint16
	A  uint8
	X  uint8
	Y  uint8
	S  uint8
	P  uint8

	variant Variant

	// Scratch state used while building up an address or a stored value.
	// None of it is part of the programmer-visible register file and none
	// of it survives past the instruction that's using it.
	lo, hi, val uint8
	addr        uint16

	pump

	irqLine irq.Sender
	nmiLine irq.Sender
	rdyLine irq.Sender
	nmiEdge irq.EdgeLatch

	trapHandler func(pc uint16)
	pendingTrap *TrapError

	ticks uint64

	haltedErr error // set once TickChecked hits an invariant violation.
}

// New creates a CPU of the given variant, powered on and with the reset
// microcode sequence armed.
func New(variant Variant) *CPU {
	c := &CPU{variant: variant}
	c.PowerOn()
	return c
}

// SetIRQLine installs the source Tick checks each instruction boundary for a
// level-triggered IRQ. Raised() being true while the Interrupt-disable flag
// is clear causes an interrupt sequence at the next opcode boundary.
func (c *CPU) SetIRQLine(s irq.Sender) { c.irqLine = s }

// SetNMILine installs the source Tick checks for NMI. Unlike IRQ, NMI is
// edge-triggered: it fires once on Raised() transitioning false->true,
// regardless of the Interrupt-disable flag.
func (c *CPU) SetNMILine(s irq.Sender) { c.nmiLine = s }

// SetRDYLine installs an optional RDY source. While Raised() is true the
// bus response's Ready is treated as false, modeling a host holding the bus
// for DMA.
func (c *CPU) SetRDYLine(s irq.Sender) { c.rdyLine = s }

// SetTrapHandler installs a callback invoked with the PC of a detected
// self-loop (a branch with offset -2, or an absolute JMP that targets its
// own opcode). The hook is purely observational — the CPU keeps executing
// the loop exactly as real hardware would; it's on the host to act on it,
// typically by stopping its own drive loop. Pass nil to remove it.
//
// With no handler installed, a detected trap is instead delivered as a
// TrapError from the Tick that detects it, returned alongside that tick's
// valid BusRequest rather than halting the core — TickChecked callers can
// errors.As for it; Tick panics on it like any other non-nil error, so a
// host that wants to keep driving through a trap must either install a
// handler or call TickChecked directly.
func (c *CPU) SetTrapHandler(fn func(pc uint16)) { c.trapHandler = fn }

// PowerOn resets all registers to their post-power-on state and arms the
// reset microcode sequence, matching real hardware: the first several Ticks
// after PowerOn or Reset perform the reset vector read, not ordinary opcode
// fetches.
func (c *CPU) PowerOn() {
	c.A, c.X, c.Y = 0, 0, 0
	c.S = 0xFD
	c.P = P_S1 | P_INTERRUPT
	c.lo, c.hi, c.val, c.addr = 0, 0, 0, 0
	c.ticks = 0
	c.haltedErr = nil
	c.pendingTrap = nil
	c.nmiEdge = irq.EdgeLatch{}
	c.pump = pump{}
	c.armReset()
}

// Reset re-arms the reset microcode sequence without otherwise disturbing
// registers, mirroring a mid-run RESET line pulse on real hardware (which
// leaves A/X/Y untouched but forces the same vector fetch PowerOn does, and
// sets Interrupt-disable).
func (c *CPU) Reset() {
	c.armReset()
}

// Prime sets the register file directly to r and arms a fresh opcode fetch
// at r.PC, bypassing the reset vector sequence entirely. It returns the SYNC
// BusRequest for that fetch, which the caller serves and feeds back into the
// next Tick call exactly like any other cycle. This is how a conformance
// harness seeds a fixture's initial state instead of powering on through
// RESET.
func (c *CPU) Prime(r Registers) BusRequest {
	c.PC, c.A, c.X, c.Y, c.S, c.P = r.PC, r.A, r.X, r.Y, r.S, r.P
	c.lo, c.hi, c.val, c.addr = 0, 0, 0, 0
	c.haltedErr = nil
	c.pendingTrap = nil
	c.nmiEdge = irq.EdgeLatch{}
	c.pump = pump{}
	req := c.startFetch()
	c.pump.shouldDecode = true
	c.pump.lastRequest = req
	return req
}

// Registers returns a snapshot of the programmer-visible register file.
func (c *CPU) Registers() Registers {
	return Registers{PC: c.PC, A: c.A, X: c.X, Y: c.Y, S: c.S, P: c.P}
}

// Ticks returns the number of Tick calls that advanced this CPU since
// PowerOn, monotonically increasing. A stalled tick (Ready false) is not
// counted.
func (c *CPU) Ticks() uint64 { return c.ticks }

// CyclesSinceFetch returns how many cycles have elapsed since the most
// recently decoded SYNC (opcode fetch) cycle.
func (c *CPU) CyclesSinceFetch() uint8 { return c.pump.cyclesSinceFetch }

// Variant reports the CPU flavor this core was constructed with.
func (c *CPU) Variant() Variant { return c.variant }

// Tick advances the CPU by exactly one cycle. resp is the BusResponse for
// the BusRequest the previous Tick call returned (ignored on the very first
// call). It returns this cycle's BusRequest.
//
// Tick panics with InvalidCPUState if the pump or decode logic reaches a
// state that should be unreachable; see TickChecked for a variant that
// reports the same condition as an error instead.
func (c *CPU) Tick(resp BusResponse) BusRequest {
	req, err := c.TickChecked(resp)
	if err != nil {
		panic(err)
	}
	return req
}

// TickChecked is Tick, but reports invariant violations as an error instead
// of panicking. Once it has returned an InvalidCPUState error the CPU is in
// an undefined state and must not be ticked again without a PowerOn. A
// TrapError is not one of those: it's only returned when no trap handler is
// installed (see SetTrapHandler), the returned BusRequest is still valid,
// and the core is fine to keep ticking.
func (c *CPU) TickChecked(resp BusResponse) (BusRequest, error) {
	if c.haltedErr != nil {
		return BusRequest{}, c.haltedErr
	}
	if c.rdyLine != nil && c.rdyLine.Raised() {
		resp.Ready = false
	}
	if !resp.Ready {
		return c.pump.lastRequest, nil
	}
	c.ticks++
	req, err := c.pump.tick(c, resp)
	if err != nil {
		c.haltedErr = err
		return BusRequest{}, err
	}
	if c.pendingTrap != nil {
		trap := *c.pendingTrap
		c.pendingTrap = nil
		return req, trap
	}
	return req, nil
}

// fireTrap reports a detected self-loop at pc. With a handler installed that
// handler is the sole notification; with none, the trap is queued and
// TickChecked returns it as a TrapError on this same tick instead.
func (c *CPU) fireTrap(pc uint16) {
	if c.trapHandler != nil {
		c.trapHandler(pc)
		return
	}
	c.pendingTrap = &TrapError{PC: pc}
}

func (c *CPU) invalid(reason string) error {
	return InvalidCPUState{Reason: fmt.Sprintf("PC=0x%.4X: %s", c.PC, reason)}
}
