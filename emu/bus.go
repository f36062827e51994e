package emu

import "fmt"

// Bus is the memory-access collaborator the executor depends on. It is
// not instantiated by this package — the driver supplies one. All
// addresses are little-endian per the RISC-V mandate. A Bus may report
// an access fault for any address; it may also report misalignment on
// its own terms (or silently service a misaligned access) — the
// executor does not check load/store alignment itself.
type Bus interface {
	Load8(addr uint64) (uint8, error)
	Load16(addr uint64) (uint16, error)
	Load32(addr uint64) (uint32, error)
	Load64(addr uint64) (uint64, error)

	Store8(addr uint64, value uint8) error
	Store16(addr uint64, value uint16) error
	Store32(addr uint64, value uint32) error
	Store64(addr uint64, value uint64) error
}

// Memory is a flat, growable byte-array Bus implementation. It never
// reports an access fault or misalignment; it is the default
// collaborator for the driver and for tests. Addresses are
// little-endian.
type Memory struct {
	data []byte
}

// NewMemory creates an empty Memory backing store.
func NewMemory() *Memory {
	return &Memory{}
}

// ensure grows the backing slice so addr+size-1 is addressable.
func (m *Memory) ensure(addr uint64, size uint64) {
	need := addr + size
	if uint64(len(m.data)) >= need {
		return
	}
	grown := make([]byte, need)
	copy(grown, m.data)
	m.data = grown
}

// LoadProgram writes program into memory starting at the given address.
func (m *Memory) LoadProgram(addr uint64, program []byte) {
	m.ensure(addr, uint64(len(program)))
	copy(m.data[addr:], program)
}

// Load8 reads a single byte.
func (m *Memory) Load8(addr uint64) (uint8, error) {
	m.ensure(addr, 1)
	return m.data[addr], nil
}

// Load16 reads a little-endian halfword.
func (m *Memory) Load16(addr uint64) (uint16, error) {
	m.ensure(addr, 2)
	return uint16(m.data[addr]) | uint16(m.data[addr+1])<<8, nil
}

// Load32 reads a little-endian word.
func (m *Memory) Load32(addr uint64) (uint32, error) {
	m.ensure(addr, 4)
	return uint32(m.data[addr]) |
		uint32(m.data[addr+1])<<8 |
		uint32(m.data[addr+2])<<16 |
		uint32(m.data[addr+3])<<24, nil
}

// Load64 reads a little-endian doubleword.
func (m *Memory) Load64(addr uint64) (uint64, error) {
	lo, _ := m.Load32(addr)
	hi, _ := m.Load32(addr + 4)
	return uint64(lo) | uint64(hi)<<32, nil
}

// Store8 writes a single byte.
func (m *Memory) Store8(addr uint64, value uint8) error {
	m.ensure(addr, 1)
	m.data[addr] = value
	return nil
}

// Store16 writes a little-endian halfword.
func (m *Memory) Store16(addr uint64, value uint16) error {
	m.ensure(addr, 2)
	m.data[addr] = byte(value)
	m.data[addr+1] = byte(value >> 8)
	return nil
}

// Store32 writes a little-endian word.
func (m *Memory) Store32(addr uint64, value uint32) error {
	m.ensure(addr, 4)
	m.data[addr] = byte(value)
	m.data[addr+1] = byte(value >> 8)
	m.data[addr+2] = byte(value >> 16)
	m.data[addr+3] = byte(value >> 24)
	return nil
}

// Store64 writes a little-endian doubleword.
func (m *Memory) Store64(addr uint64, value uint64) error {
	_ = m.Store32(addr, uint32(value))
	_ = m.Store32(addr+4, uint32(value>>32))
	return nil
}

// accessFaultError is returned by Bus implementations that want to
// signal an access fault instead of servicing a request; the executor
// turns it into the matching LoadAccessFault/StoreAccessFault exception.
type accessFaultError struct {
	addr uint64
}

func (e *accessFaultError) Error() string {
	return fmt.Sprintf("access fault at 0x%X", e.addr)
}

// ErrAccessFault returns an error a Bus implementation can use to signal
// that an address is inaccessible.
func ErrAccessFault(addr uint64) error {
	return &accessFaultError{addr: addr}
}

// misalignedError is returned by Bus implementations that check
// load/store alignment themselves and want to reject a misaligned
// address rather than service it. Per spec, misalignment handling on
// loads/stores is bus policy: a Bus is free to service any address and
// never return this.
type misalignedError struct {
	addr uint64
}

func (e *misalignedError) Error() string {
	return fmt.Sprintf("misaligned access at 0x%X", e.addr)
}

// ErrMisaligned returns an error a Bus implementation can use to signal
// that an address is improperly aligned for the access size.
func ErrMisaligned(addr uint64) error {
	return &misalignedError{addr: addr}
}

// isMisaligned reports whether err was produced by ErrMisaligned.
func isMisaligned(err error) bool {
	_, ok := err.(*misalignedError)
	return ok
}
