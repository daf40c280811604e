// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package vm implements the BrainShift tape machine.
//
// The machine consists of a flat byte memory whose first 16 bytes are a
// register window (flags, status, program counter mirrors and temporaries),
// a data pointer that walks the memory past the window, and a call stack of
// big-endian return addresses that grows down from the top of memory.
//
// Programs are executed directly from their source text, one byte per
// instruction. Labels declared as `name:` lines are resolved once before the
// first instruction, and are targets for the J and C instructions. Label lines
// themselves are not executed. Every byte that is not an instruction is a
// no-op, so comments need no special syntax.
//
// Setting Machine.Extended adds the zero flag instructions Z, z, j and n, and
// '"' delimited comments.
package vm
