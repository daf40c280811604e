// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"errors"

	"github.com/ezrec/brainshift/translate"
)

var f = translate.From

var (
	// Machine state errors
	ErrHalted       = errors.New(f("halted"))
	ErrMemorySize   = errors.New(f("memory size invalid"))
	ErrMemoryAccess = errors.New(f("memory access invalid"))
	ErrInput        = errors.New(f("input"))
	ErrOutput       = errors.New(f("output"))

	// Instruction errors
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrChannelInvalid     = errors.New(f("channel invalid"))

	// Control flow errors
	ErrControlFlow = errors.New(f("control flow"))
	ErrLabelSyntax = errors.New(f("label name missing"))

	// Stack faults
	ErrStackFault   = errors.New(f("stack fault"))
	ErrStackEmpty   = errors.New(f("stack empty"))
	ErrStackFull    = errors.New(f("stack full"))
	ErrAddressRange = errors.New(f("return address out of range"))
)

// ErrLabelMissing is returned when a jump or call names an undeclared label.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label '%v' missing", string(el))
}

// ErrEOFMode is returned for an unknown end of input mode name.
type ErrEOFMode string

func (em ErrEOFMode) Error() string {
	return f("eof mode '%v' unknown", string(em))
}

// ErrBracket is returned when the bracket at a program offset has no match.
type ErrBracket struct {
	Pc   int
	Open bool
}

func (eb ErrBracket) Error() string {
	bracket := "]"
	if eb.Open {
		bracket = "["
	}
	return f("unmatched '%v' at %d", bracket, eb.Pc)
}

// ErrOpcode records the instruction that was executing when an error occurred.
type ErrOpcode struct {
	Pc int
	Op Op
}

func (eo ErrOpcode) Error() string {
	return f("pc %d opcode %v", eo.Pc, eo.Op.String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}
