// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"io"
	"slices"
	"strings"
)

// Program is the source text being executed, with its resolved labels.
// Label declaration lines are not executed.
type Program struct {
	Text   string
	Labels Labels

	decls []span
}

// Debug locates a program offset in the source text.
type Debug struct {
	LineNo int // 1-based line number, or 0 if out of range.
	Column int // 1-based column.
	Op     Op  // Instruction at the offset.
}

// NewProgram resolves the labels of a program text.
func NewProgram(text string) (prog *Program) {
	prog = &Program{
		Text:   text,
		Labels: ParseLabels(text),
		decls:  declarations(text),
	}

	return
}

// ReadProgram reads an entire program text.
func ReadProgram(input io.Reader) (prog *Program, err error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return
	}

	prog = NewProgram(string(data))
	return
}

// Len returns the length of the program text.
func (prog *Program) Len() int {
	return len(prog.Text)
}

// Declaration returns true if pc is inside a label declaration line.
func (prog *Program) Declaration(pc int) bool {
	_, found := slices.BinarySearchFunc(prog.decls, pc, func(sp span, pc int) int {
		switch {
		case pc < sp.start:
			return 1
		case pc >= sp.end:
			return -1
		}
		return 0
	})
	return found
}

// Fetch returns the instruction byte and decoded operation at pc. Bytes of
// label declaration lines decode as OP_NOP.
func (prog *Program) Fetch(pc int) (ir byte, op Op, ok bool) {
	if pc < 0 || pc >= len(prog.Text) {
		return
	}

	ir = prog.Text[pc]
	if prog.Declaration(pc) {
		return ir, OP_NOP, true
	}
	return ir, Decode(ir), true
}

// Resolve returns the address of a label.
func (prog *Program) Resolve(name string) (address int, err error) {
	address, ok := prog.Labels[name]
	if !ok {
		err = ErrLabelMissing(name)
	}

	return
}

// Debug returns the source location of pc.
func (prog *Program) Debug(pc int) (dbg Debug) {
	if pc < 0 || pc >= len(prog.Text) {
		return
	}

	_, op, _ := prog.Fetch(pc)
	before := prog.Text[:pc]
	dbg = Debug{
		LineNo: strings.Count(before, "\n") + 1,
		Column: pc - (strings.LastIndexByte(before, '\n') + 1) + 1,
		Op:     op,
	}

	return
}
