// Package regs provides 32-bit register handles for memory-mapped
// peripherals: a TinyGo MMIO backend, a mmap-backed window for hosts, and a
// journaled simulator for host-side tests.
package regs

// Register is a single 32-bit peripheral register. The method set matches
// TinyGo's runtime/volatile.Register32, so MMIO registers satisfy it
// directly.
type Register interface {
	Get() uint32
	Set(value uint32)
	SetBits(value uint32)
	ClearBits(value uint32)
	// HasBits reports whether any bit of value is set.
	HasBits(value uint32) bool
	// ReplaceBits replaces the field mask<<pos with value<<pos.
	ReplaceBits(value uint32, mask uint32, pos uint8)
}

// Resolver maps a byte offset inside a peripheral block to its register.
type Resolver func(off uintptr) Register
