package cpu

// resetSequence and interruptSequence build the shared push-and-vector-fetch
// microcode that RESET, BRK, IRQ and NMI all drive through. Real 6502
// hardware reuses the same internal sequencer for all four; spec.md §4.5
// asks for the same sharing, grounded here on the documented reset/IRQ
// cycle-by-cycle timing (RESET performs three dummy stack "pushes" with
// writes suppressed, since the hardware doesn't yet know it should leave the
// stack alone until Ready is asserted).

// resetSequence takes 7 cycles after the opcode-fetch slot that arms it:
// two dummy reads, three dummy stack reads (S decrements but nothing is
// written), then the two vector bytes, ending with PC set from them.
func resetSequence() []MicrocodeFn {
	return []MicrocodeFn{
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			return readRequest(c.PC), true, nil
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			return readRequest(c.PC), true, nil
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			req := readRequest(0x0100 + uint16(c.S))
			c.S--
			return req, true, nil
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			req := readRequest(0x0100 + uint16(c.S))
			c.S--
			return req, true, nil
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			req := readRequest(0x0100 + uint16(c.S))
			c.S--
			c.setFlag(P_INTERRUPT, true)
			return req, true, nil
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			return readRequest(vectorReset), true, nil
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			c.lo = resp.Data
			return readRequest(vectorReset + 1), true, nil
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			c.PC = uint16(resp.Data)<<8 | uint16(c.lo)
			return BusRequest{}, false, nil
		},
	}
}

// interruptSequence builds the BRK/IRQ/NMI push-and-vector-fetch sequence.
// pushB controls whether the pushed status byte carries the B flag set
// (BRK, PHP) or clear (hardware IRQ/NMI, which the CPU enters without any
// instruction having executed). incrementPC is true only for BRK, whose
// opcode is followed by a padding byte that PC must skip before the return
// address is pushed.
func interruptSequence(vector uint16, pushB bool, incrementPC bool) []MicrocodeFn {
	statusByte := func(c *CPU) uint8 {
		b := uint8(0)
		if pushB {
			b = P_BREAK
		}
		return c.P | P_S1 | b
	}
	return []MicrocodeFn{
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			// A hardware IRQ/NMI never advanced PC past the opcode fetch it
			// preempted (decode skips that for a recognized interrupt), so
			// the dummy read below and the PC pushed below already land on
			// the instruction that will re-run after RTI. BRK did advance
			// past its own opcode byte and needs one more step past the
			// padding byte that follows it.
			req := readRequest(c.PC)
			if incrementPC {
				c.PC++
			}
			return req, true, nil
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			return pushStack(c, uint8(c.PC>>8)), true, nil
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			return pushStack(c, uint8(c.PC)), true, nil
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			req := pushStack(c, statusByte(c))
			c.setFlag(P_INTERRUPT, true)
			return req, true, nil
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			return readRequest(vector), true, nil
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			c.lo = resp.Data
			return readRequest(vector + 1), true, nil
		},
		func(c *CPU, resp BusResponse) (BusRequest, bool, MicrocodeFn) {
			c.PC = uint16(resp.Data)<<8 | uint16(c.lo)
			return BusRequest{}, false, nil
		},
	}
}
