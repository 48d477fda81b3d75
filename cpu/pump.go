package cpu

// pump is the microcode scheduler embedded in CPU. Each tick it picks
// exactly one action, in this priority order:
//
//  1. a pending injection (a fixup scheduled by the previous step, e.g. a
//     page-crossing reread)
//  2. if the previous tick's response completed an opcode fetch, decode it
//     and arm the new instruction's Ops (or, if an interrupt is pending at
//     this boundary, arm the interrupt sequence instead of decoding)
//  3. the next step of the currently armed Ops
//  4. nothing left to run: arm the next opcode fetch
//
// This is the exact scheduling discipline a hardware 6502 uses to overlap
// the last cycle of one instruction with the first cycle of the next — but
// only when that last cycle has no bus need of its own. A step whose own
// last cycle is a real access (a store or RMW's write) can't double as the
// next fetch, so priority 4 becomes a genuinely separate tick in that case;
// a step whose last cycle needs nothing from the bus (a load latching its
// register) donates that cycle to the next fetch immediately, which is why
// a store's Ops come out one shorter than a load's at the same addressing
// mode even though both take the same number of cycles.
type pump struct {
	ops    []MicrocodeFn
	cursor int

	injected MicrocodeFn

	shouldDecode bool

	cyclesSinceFetch uint8
	lastRequest      BusRequest
}

func (p *pump) tick(c *CPU, resp BusResponse) (BusRequest, error) {
	if p.injected != nil {
		fn := p.injected
		p.injected = nil
		return p.run(c, resp, fn)
	}
	if p.shouldDecode {
		p.shouldDecode = false
		p.cyclesSinceFetch = 0
		if err := c.decode(resp.Data); err != nil {
			return BusRequest{}, err
		}
	}
	if p.cursor < len(p.ops) {
		fn := p.ops[p.cursor]
		p.cursor++
		return p.run(c, resp, fn)
	}
	// Priority 4: the previous step ran its own necessary bus action (a
	// store/RMW write, or a reset/interrupt sequence's final vector read)
	// and left nothing armed. Arm a fresh opcode fetch now; its response
	// gets decoded on the tick after this one.
	p.cyclesSinceFetch++
	req := c.startFetch()
	p.shouldDecode = true
	p.lastRequest = req
	return req, nil
}

// run executes fn and applies the "instruction complete" fold-in: a step
// that reports ok == false with no injection has nothing left to put on the
// bus itself, so this same tick's request becomes the next opcode fetch
// instead (the donated-cycle overlap described above).
func (p *pump) run(c *CPU, resp BusResponse, fn MicrocodeFn) (BusRequest, error) {
	p.cyclesSinceFetch++
	req, ok, injection := fn(c, resp)
	if !ok && injection == nil {
		p.shouldDecode = true
		req = c.startFetch()
	} else {
		p.injected = injection
	}
	p.lastRequest = req
	return req, nil
}

// startFetch returns the SYNC BusRequest for an opcode fetch at PC; its
// callers set shouldDecode so the next tick decodes the response. PC itself
// doesn't move until
// decode actually consumes the byte this fetch comes back with — real
// silicon doesn't advance PC for a fetch it ends up discarding at an
// interrupt boundary, and neither does this.
func (c *CPU) startFetch() BusRequest {
	return fetchRequest(c.PC)
}

// decode is called the instant a fetched opcode byte is available. It picks
// either a pending interrupt sequence or the fetched opcode's own Ops, and
// arms the pump's cursor at the start of it. Only the instruction path
// advances PC past the opcode byte just consumed; a recognized interrupt
// preempts it instead, leaving PC pointing at the instruction that will
// run once the interrupt returns.
func (c *CPU) decode(opcode uint8) error {
	if _, vector, pushB, ok := c.pendingInterrupt(); ok {
		c.ops = interruptSequence(vector, pushB, false)
		c.cursor = 0
		return nil
	}
	c.PC++
	instr := &instructionTable[opcode]
	if len(instr.Ops) == 0 {
		return c.invalid("decoded opcode with no microcode: 0x" + hexByte(opcode))
	}
	c.ops = instr.Ops
	c.cursor = 0
	return nil
}

// pendingInterrupt reports whether an interrupt sequence should be armed
// instead of decoding the just-fetched opcode, checked at every instruction
// boundary exactly once (consistent with real hardware, which only
// recognizes IRQ/NMI between instructions).
func (c *CPU) pendingInterrupt() (name string, vector uint16, pushB bool, ok bool) {
	if c.nmiLine != nil && c.nmiEdge.Edge(c.nmiLine.Raised()) {
		return "nmi", vectorNMI, false, true
	}
	if c.irqLine != nil && c.irqLine.Raised() && !c.hasFlag(P_INTERRUPT) {
		return "irq", vectorIRQ, false, true
	}
	return "", 0, false, false
}

func (c *CPU) armReset() {
	c.ops = resetSequence()
	c.cursor = 0
	c.shouldDecode = false
	c.cyclesSinceFetch = 0
	c.injected = nil
}

func hexByte(v uint8) string {
	const hex = "0123456789ABCDEF"
	return string([]byte{hex[v>>4], hex[v&0xF]})
}
