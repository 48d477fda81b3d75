// Package memory implements the flat RAM bank a CPU core is driven against,
// and the Serve/Drive contract that turns a cpu.BusRequest into the matching
// Read or Write call. A host with nothing fancier than flat RAM behind its
// CPU needs nothing more than this package.
package memory

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sketchylizard/sixtwoh/cpu"
)

// Bank is an addressable byte array a CPU core can be driven against.
type Bank interface {
	// Read returns the data byte stored at addr.
	Read(addr uint16) uint8
	// Write updates addr with the new value.
	Write(addr uint16, val uint8)
	// PowerOn resets the bank to its post-power-on state. This is
	// implementation specific as to whether it's randomized or preset to
	// all zeros.
	PowerOn()
	// Serve turns req into the matching Read or Write call and returns the
	// cpu.BusResponse to feed back into the next Tick call. It's the entire
	// contract between a CPU core and this bank: decode nothing, just
	// perform the access the request asked for.
	Serve(req cpu.BusRequest) cpu.BusResponse
}

// ram implements Bank as a flat byte array. If this is mapped into a larger
// memory map it's up to a parent to mask addr before calling Read/Write.
type ram struct {
	bytes []uint8
}

// New8BitRAMBank creates a flat R/W RAM bank of the given size. Size must be
// a power of 2; if it's smaller than 64k (uint16 max), addressing aliases.
func New8BitRAMBank(size int) (Bank, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, fmt.Errorf("invalid size: %d must be a power of 2", size)
	}
	if size > 1<<16 {
		return nil, fmt.Errorf("invalid size: %d is bigger than 64k", size)
	}
	return &ram{bytes: make([]uint8, size)}, nil
}

// Read implements Bank. addr is masked to fit the bank's size.
func (r *ram) Read(addr uint16) uint8 {
	return r.bytes[addr&uint16(len(r.bytes)-1)]
}

// Write implements Bank. addr is masked to fit the bank's size.
func (r *ram) Write(addr uint16, val uint8) {
	r.bytes[addr&uint16(len(r.bytes)-1)] = val
}

// PowerOn implements Bank and randomizes the RAM, matching real hardware's
// undefined power-on contents.
func (r *ram) PowerOn() {
	rand.Seed(time.Now().UnixNano())
	for i := range r.bytes {
		r.bytes[i] = uint8(rand.Intn(256))
	}
}

// Serve implements Bank.
func (r *ram) Serve(req cpu.BusRequest) cpu.BusResponse {
	return serve(r, req)
}

func serve(b Bank, req cpu.BusRequest) cpu.BusResponse {
	if req.IsRead() {
		return cpu.BusResponse{Data: b.Read(req.Address), Ready: true}
	}
	b.Write(req.Address, req.Data)
	return cpu.BusResponse{Ready: true}
}

// Drive runs c for exactly cycles Ticks against b, the way a host with
// nothing fancier than flat RAM behind the CPU would. It returns the final
// BusRequest the CPU issued, which Drive has already served against b; it is
// an opcode fetch only if the last cycle completed an instruction.
func Drive(c *cpu.CPU, b Bank, cycles int) cpu.BusRequest {
	var resp cpu.BusResponse
	var req cpu.BusRequest
	resp.Ready = true
	for i := 0; i < cycles; i++ {
		req = c.Tick(resp)
		resp = b.Serve(req)
	}
	return req
}

// TraceEntry is one recorded BusRequest/BusResponse pair.
type TraceEntry struct {
	Request  cpu.BusRequest
	Response cpu.BusResponse
}

// TracingBank wraps another Bank and records every BusRequest/BusResponse
// pair that crosses Serve, in order. A conformance run checks this against
// a fixture's documented cycle-by-cycle bus trace instead of re-deriving it
// from the request it's about to serve on every call site.
type TracingBank struct {
	Bank
	Trace []TraceEntry
}

// NewTracingBank wraps b, recording every Serve call made against it.
func NewTracingBank(b Bank) *TracingBank {
	return &TracingBank{Bank: b}
}

// Serve implements Bank, delegating to the wrapped Bank and recording the
// request/response pair before returning it.
func (t *TracingBank) Serve(req cpu.BusRequest) cpu.BusResponse {
	resp := t.Bank.Serve(req)
	t.Trace = append(t.Trace, TraceEntry{Request: req, Response: resp})
	return resp
}
