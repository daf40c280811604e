// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"

	"github.com/ezrec/brainshift/io"
)

// Channel is an I/O channel interface.
type Channel io.Channel

// EOFMode selects what the input instruction does at end of input.
type EOFMode int

const (
	EOF_ZERO  = EOFMode(0) // Store 0 in the cell.
	EOF_KEEP  = EOFMode(1) // Leave the cell unchanged.
	EOF_ERROR = EOFMode(2) // Stop with ErrInput.
)

var eofModeNames = map[string]EOFMode{
	"zero":  EOF_ZERO,
	"keep":  EOF_KEEP,
	"error": EOF_ERROR,
}

// ParseEOFMode parses an EOF mode name.
func ParseEOFMode(name string) (mode EOFMode, err error) {
	mode, ok := eofModeNames[name]
	if !ok {
		err = ErrEOFMode(name)
	}
	return
}

func (mode EOFMode) String() string {
	for name, value := range eofModeNames {
		if value == mode {
			return name
		}
	}
	return fmt.Sprintf("EOFMode(%d)", int(mode))
}

var _vm_defines = map[string]string{
	"REGISTERS":           fmt.Sprintf("%v", REGISTERS),
	"DEFAULT_MEMORY_SIZE": fmt.Sprintf("%v", DEFAULT_MEMORY_SIZE),
	"STACK_ENTRY":         fmt.Sprintf("%v", STACK_ENTRY),
}

// Defines for the machine.
func Defines() iter.Seq2[string, string] {
	return maps.All(_vm_defines)
}

// Machine is the execution state of a single program run.
type Machine struct {
	Verbose  bool    // Set to enable verbose logging.
	Lenient  bool    // Log and continue past control flow errors.
	Extended bool    // Decode the Z, z, j, n and '"' instructions.
	EOF      EOFMode // End of input behaviour.

	Program *Program // Program being executed.
	Memory  Memory   // Memory, including the register window.
	Stack   Stack    // Call stack, in the top of Memory.
	Channel Channel  // I/O channel for the input and output instructions.

	Pc    int // Program counter; offset into Program.Text.
	Ptr   int // Data pointer.
	Ticks int // Instructions executed.

	halted bool
}

// NewMachine creates a machine with size bytes of memory.
func NewMachine(size int) (m *Machine, err error) {
	mem, err := NewMemory(size)
	if err != nil {
		return
	}

	m = &Machine{
		Memory:  mem,
		Program: &Program{},
	}
	m.Reset()

	return
}

// Reset clears memory and registers, and rewinds the program counter.
func (m *Machine) Reset() {
	if m.Verbose {
		log.Printf("vm: reset")
	}

	clear(m.Memory)
	m.Stack.Reset(m.Memory)
	m.Pc = 0
	m.Ptr = m.Memory.Wrap(REGISTERS)
	m.Ticks = 0
	m.halted = false

	m.Memory.SetRegister(REG_SP, byte(m.Stack.Sp))
}

// Halt stops the machine.
func (m *Machine) Halt() {
	if m.Verbose && !m.halted {
		log.Printf("%04x: halt", m.Pc)
	}
	m.halted = true
}

// Halted returns true once a halt instruction has executed.
func (m *Machine) Halted() bool {
	return m.halted
}

// Done returns true if no further instruction will execute.
func (m *Machine) Done() bool {
	return m.halted || m.Pc < 0 || m.Pc >= m.Program.Len()
}

// String returns the current machine state as a string.
func (m *Machine) String() string {
	var text strings.Builder

	fmt.Fprintf(&text, "% 5s: %04x\n", "PC", m.Pc)
	fmt.Fprintf(&text, "% 5s: %04x\n", "PTR", m.Ptr)
	fmt.Fprintf(&text, "% 5s: %04x\n", "SP", m.Stack.Sp)
	for reg, value := range m.Memory.Registers() {
		fmt.Fprintf(&text, "% 5s: %02x\n", reg.String(), value)
	}
	fmt.Fprintf(&text, "% 5s: %v\n", "flags", m.Memory.Status())

	return text.String()
}

// Tick fetches and executes a single instruction. ErrHalted is returned once
// the program has ended.
func (m *Machine) Tick() (err error) {
	if m.halted {
		return ErrHalted
	}

	ir, op, ok := m.Program.Fetch(m.Pc)
	if !ok {
		m.Halt()
		return ErrHalted
	}
	if op.Extended() && !m.Extended {
		op = OP_NOP
	}

	m.Memory.SetRegister(REG_PC, byte(m.Pc))
	m.Memory.SetRegister(REG_IR, ir)

	return m.Execute(op)
}

// Execute executes a single decoded instruction at the program counter.
func (m *Machine) Execute(op Op) (err error) {
	pc := m.Pc
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode{Pc: pc, Op: op}, err)
		}
	}()

	if m.Verbose {
		log.Printf("%04x: %v", pc, op)
	}

	mem := m.Memory
	text := m.Program.Text
	next_pc := pc + 1

	switch op {
	case OP_NOP:
		// pass
	case OP_RIGHT:
		m.Ptr = mem.Wrap(m.Ptr + 1)
	case OP_LEFT:
		m.Ptr = mem.Wrap(m.Ptr - 1)
	case OP_INC:
		err = m.unary(func(a byte) byte { return a + 1 })
	case OP_DEC:
		err = m.unary(func(a byte) byte { return a - 1 })
	case OP_ZERO:
		err = m.unary(func(a byte) byte { return 0 })
	case OP_NOT, OP_NEG:
		err = m.unary(func(a byte) byte { return ^a })
	case OP_SHR:
		err = m.unary(func(a byte) byte { return a >> 1 })
	case OP_SHL:
		err = m.unary(func(a byte) byte { return a << 1 })
	case OP_AND:
		err = m.binary(func(a, b byte) byte { return a & b })
	case OP_OR:
		err = m.binary(func(a, b byte) byte { return a | b })
	case OP_XOR:
		err = m.binary(func(a, b byte) byte { return a ^ b })
	case OP_MOD:
		err = m.binary(func(a, b byte) byte {
			if b == 0 {
				return a
			}
			return a % b
		})
	case OP_ADD:
		err = m.arith(func(a, b byte) uint16 { return uint16(a) + uint16(b) })
	case OP_SUB:
		err = m.arith(func(a, b byte) uint16 { return uint16(a) - uint16(b) })
	case OP_MUL:
		err = m.arith(func(a, b byte) uint16 { return uint16(a) * uint16(b) })
	case OP_DIV:
		err = m.divide()
	case OP_OUTPUT:
		err = m.output()
	case OP_INPUT:
		err = m.input()
	case OP_LOOP, OP_POOL:
		var value byte
		value, err = mem.Load(m.Ptr)
		if err != nil {
			break
		}
		if (op == OP_LOOP) == (value != 0) {
			break
		}
		var match int
		if m.Extended {
			match, err = MatchBracketQuoted(text, pc)
		} else {
			match, err = MatchBracket(text, pc)
		}
		if err != nil {
			err = m.tolerate(err)
			break
		}
		next_pc = match + 1
	case OP_JUMP, OP_CALL, OP_JZ, OP_JNZ:
		next_pc, err = m.branch(op)
	case OP_RETURN:
		var addr uint16
		addr, err = m.Stack.Pop()
		if err != nil {
			mem.SetStatus(SR_INVALID_MEMORY_RANGE)
			err = errors.Join(ErrStackFault, err)
			break
		}
		mem.SetRegister(REG_RAR, byte(addr))
		next_pc = int(addr)
	case OP_HALT:
		m.Halt()
	case OP_SETZ:
		var value byte
		value, err = mem.Load(m.Ptr)
		if err == nil && value == 0 {
			mem.SetRegister(REG_ZERO, 1)
		}
	case OP_CLRZ:
		mem.SetRegister(REG_ZERO, 0)
	case OP_COMMENT:
		end := strings.IndexByte(text[pc+1:], '"')
		if end < 0 {
			next_pc = len(text)
		} else {
			next_pc = pc + 1 + end + 1
		}
	default:
		mem.SetStatus(SR_INVALID_INSTRUCTION)
		err = ErrInstructionInvalid
	}

	if err != nil {
		return
	}

	m.Pc = next_pc
	m.Ticks++
	mem.SetRegister(REG_SP, byte(m.Stack.Sp))

	return
}

// tolerate handles a control flow failure. In lenient mode it is logged and
// execution continues.
func (m *Machine) tolerate(cause error) (err error) {
	if !m.Lenient {
		err = errors.Join(ErrControlFlow, cause)
		return
	}

	log.Printf("%04x: %v", m.Pc, cause)
	return
}

// unary replaces the cell at the pointer.
func (m *Machine) unary(fn func(a byte) byte) (err error) {
	a, err := m.Memory.Load(m.Ptr)
	if err != nil {
		return
	}

	return m.Memory.Store(m.Ptr, fn(a))
}

// operands loads the cell at the pointer, and the cell after it.
func (m *Machine) operands() (a, b byte, err error) {
	a, err = m.Memory.Load(m.Ptr)
	if err != nil {
		return
	}

	b, err = m.Memory.Load(m.Memory.Wrap(m.Ptr + 1))
	return
}

// binary replaces the cell at the pointer with a function of it and the
// cell after it.
func (m *Machine) binary(fn func(a, b byte) byte) (err error) {
	a, b, err := m.operands()
	if err != nil {
		return
	}

	return m.Memory.Store(m.Ptr, fn(a, b))
}

// arith is binary with the result computed in 16 bits. The overflow status
// is set if the result does not fit in a byte and cleared otherwise, and the
// sign flag is bit 7 of the stored result.
func (m *Machine) arith(fn func(a, b byte) uint16) (err error) {
	a, b, err := m.operands()
	if err != nil {
		return
	}

	result := fn(a, b)
	value := byte(result)

	m.Memory.UpdateStatus(SR_OVERFLOW, result > 0xff)
	m.Memory.SetRegister(REG_SIGN, value>>7)

	return m.Memory.Store(m.Ptr, value)
}

// divide stores the quotient at the pointer and the remainder after it.
func (m *Machine) divide() (err error) {
	a, b, err := m.operands()
	if err != nil {
		return
	}

	if b == 0 {
		m.Memory.SetStatus(SR_DIVIDE_BY_ZERO)
		return
	}

	err = m.Memory.Store(m.Ptr, a/b)
	if err != nil {
		return
	}

	return m.Memory.Store(m.Memory.Wrap(m.Ptr+1), a%b)
}

// output sends the cell at the pointer to the channel.
func (m *Machine) output() (err error) {
	value, err := m.Memory.Load(m.Ptr)
	if err != nil {
		return
	}

	if m.Channel == nil {
		err = errors.Join(ErrOutput, ErrChannelInvalid)
		return
	}

	err = m.Channel.Send(value)
	if err != nil {
		err = errors.Join(ErrOutput, err)
		return
	}

	m.Memory.SetRegister(REG_IO, value)
	return
}

// input receives a byte from the channel into the cell at the pointer.
func (m *Machine) input() (err error) {
	if m.Channel == nil {
		err = errors.Join(ErrInput, ErrChannelInvalid)
		return
	}

	value, err := m.Channel.Receive()
	if errors.Is(err, io.ErrChannelEmpty) {
		switch m.EOF {
		case EOF_KEEP:
			return nil
		case EOF_ZERO:
			value, err = 0, nil
		}
	}
	if err != nil {
		err = errors.Join(ErrInput, err)
		return
	}

	m.Memory.SetRegister(REG_IO, value)
	return m.Memory.Store(m.Ptr, value)
}

// branch executes the labeled instructions, returning the next pc.
func (m *Machine) branch(op Op) (next_pc int, err error) {
	pc := m.Pc
	mem := m.Memory

	name, after, err := labelOperand(m.Program.Text, pc)
	if err == nil {
		next_pc, err = m.Program.Resolve(name)
	}
	if err != nil {
		next_pc = after
		err = m.tolerate(err)
		return
	}

	switch op {
	case OP_JZ:
		if mem.Register(REG_ZERO) == 0 {
			next_pc = after
		}
	case OP_JNZ:
		if mem.Register(REG_ZERO) != 0 {
			next_pc = after
		}
	case OP_CALL:
		if after > 0xffff {
			mem.SetStatus(SR_INVALID_MEMORY_RANGE)
			err = errors.Join(ErrStackFault, ErrAddressRange)
			return
		}
		err = m.Stack.Push(uint16(after))
		if err != nil {
			mem.SetStatus(SR_INVALID_MEMORY_RANGE)
			err = errors.Join(ErrStackFault, err)
			return
		}
		mem.SetRegister(REG_RAR, byte(after))
	}

	if m.Verbose {
		log.Printf("%04x: %v %v => %04x", pc, op, name, next_pc)
	}

	return
}
