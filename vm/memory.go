// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"iter"
)

// Memory is the byte store of the machine. The first REGISTERS bytes are
// the register window.
type Memory []byte

// NewMemory allocates a zeroed memory of size bytes.
func NewMemory(size int) (mem Memory, err error) {
	if size < REGISTERS {
		err = ErrMemorySize
		return
	}

	mem = make(Memory, size)
	return
}

// Wrap reduces an address modulo the memory length.
func (mem Memory) Wrap(addr int) int {
	size := len(mem)
	addr %= size
	if addr < 0 {
		addr += size
	}
	return addr
}

// Load reads the byte at addr. Out of range addresses set
// SR_INVALID_MEMORY_ACCESS and fail.
func (mem Memory) Load(addr int) (value byte, err error) {
	if addr < 0 || addr >= len(mem) {
		mem.SetStatus(SR_INVALID_MEMORY_ACCESS)
		err = ErrMemoryAccess
		return
	}

	value = mem[addr]
	return
}

// Store writes the byte at addr. Out of range addresses set
// SR_INVALID_MEMORY_ACCESS and fail.
func (mem Memory) Store(addr int, value byte) (err error) {
	if addr < 0 || addr >= len(mem) {
		mem.SetStatus(SR_INVALID_MEMORY_ACCESS)
		err = ErrMemoryAccess
		return
	}

	mem[addr] = value
	return
}

// Register returns the value of a register.
func (mem Memory) Register(reg Register) byte {
	return mem[reg]
}

// SetRegister sets the value of a register.
func (mem Memory) SetRegister(reg Register, value byte) {
	mem[reg] = value
}

// Registers iterates over the register window.
func (mem Memory) Registers() iter.Seq2[Register, byte] {
	return func(yield func(reg Register, value byte) bool) {
		for reg := REG_ZERO; reg <= REG_TEMP3; reg++ {
			if !yield(reg, mem[reg]) {
				return
			}
		}
	}
}

// Status returns the status register.
func (mem Memory) Status() Status {
	return Status(mem[REG_SR])
}

// SetStatus sets bits in the status register.
func (mem Memory) SetStatus(bits Status) {
	mem[REG_SR] |= byte(bits)
}

// ClearStatus clears bits in the status register.
func (mem Memory) ClearStatus(bits Status) {
	mem[REG_SR] &^= byte(bits)
}

// UpdateStatus sets or clears bits in the status register.
func (mem Memory) UpdateStatus(bits Status, set bool) {
	if set {
		mem.SetStatus(bits)
	} else {
		mem.ClearStatus(bits)
	}
}
