// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"strings"
)

// Register is a named slot in the register window at the bottom of memory.
type Register int

//go:generate go tool stringer -linecomment -type=Register
const (
	REG_ZERO  = Register(0)  // zf
	REG_SIGN  = Register(1)  // sf
	REG_GPR   = Register(2)  // gpr
	REG_IO    = Register(3)  // io
	REG_SP    = Register(4)  // sp
	REG_PC    = Register(5)  // pc
	REG_SR    = Register(6)  // sr
	REG_IR    = Register(7)  // ir
	REG_BP    = Register(8)  // bp
	REG_FR    = Register(9)  // fr
	REG_RAR   = Register(10) // rar
	REG_CR    = Register(11) // cr
	REG_TEMP0 = Register(12) // t0
	REG_TEMP1 = Register(13) // t1
	REG_TEMP2 = Register(14) // t2
	REG_TEMP3 = Register(15) // t3
)

const (
	REGISTERS           = 16    // Size of the register window.
	DEFAULT_MEMORY_SIZE = 65536 // Default memory size, in bytes.
)

// Status is the bitset held in the status register.
type Status uint8

const (
	SR_OVERFLOW                 = Status(1 << 0)
	SR_UNDERFLOW                = Status(1 << 1)
	SR_DIVIDE_BY_ZERO           = Status(1 << 2)
	SR_INVALID_INSTRUCTION      = Status(1 << 3)
	SR_INVALID_MEMORY_ACCESS    = Status(1 << 4)
	SR_INVALID_MEMORY_ALIGNMENT = Status(1 << 5)
	SR_INVALID_MEMORY_SIZE      = Status(1 << 6)
	SR_INVALID_MEMORY_RANGE     = Status(1 << 7)
)

var statusNames = [8]string{
	"overflow",
	"underflow",
	"divide-by-zero",
	"invalid-instruction",
	"invalid-memory-access",
	"invalid-memory-alignment",
	"invalid-memory-size",
	"invalid-memory-range",
}

// Has returns true if all the bits in mask are set.
func (sr Status) Has(mask Status) bool {
	return sr&mask == mask
}

// String returns the set condition names, separated by '|'.
func (sr Status) String() string {
	if sr == 0 {
		return "-"
	}

	var names []string
	for n, name := range statusNames {
		if sr&(1<<n) != 0 {
			names = append(names, name)
		}
	}

	return strings.Join(names, "|")
}
