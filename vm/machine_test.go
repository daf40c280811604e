package vm

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/brainshift/io"
)

var errTestSteps = errors.New("step limit")

func newTestMachine(t *testing.T, size int, text string, input string) (m *Machine, output *bytes.Buffer) {
	m, err := NewMachine(size)
	if err != nil {
		t.Fatal(err)
	}

	output = &bytes.Buffer{}
	m.Channel = &io.Tape{
		Input:  strings.NewReader(input),
		Output: output,
	}
	m.Program = NewProgram(text)
	m.Reset()

	return
}

func runMachine(m *Machine, limit int) (err error) {
	for range limit {
		err = m.Tick()
		if errors.Is(err, ErrHalted) {
			return nil
		}
		if err != nil {
			return
		}
	}
	return errTestSteps
}

func TestNewMachine(t *testing.T) {
	assert := assert.New(t)

	_, err := NewMachine(REGISTERS - 1)
	assert.ErrorIs(err, ErrMemorySize)

	m, err := NewMachine(64)
	assert.NoError(err)
	assert.Equal(REGISTERS, m.Ptr)
	assert.Equal(64, m.Stack.Sp)
	assert.Equal(byte(64), m.Memory.Register(REG_SP))
	assert.True(m.Done())

	m, err = NewMachine(REGISTERS)
	assert.NoError(err)
	assert.Equal(0, m.Ptr)
}

func TestMachine_IncDec(t *testing.T) {
	assert := assert.New(t)

	m, _ := newTestMachine(t, 32, "+-", "")
	for value := range 256 {
		m.Reset()
		m.Memory[m.Ptr] = byte(value)
		assert.NoError(m.Tick())
		assert.Equal(byte(value+1), m.Memory[m.Ptr])
		assert.NoError(m.Tick())
		assert.Equal(byte(value), m.Memory[m.Ptr])
	}
}

func TestMachine_Pointer(t *testing.T) {
	assert := assert.New(t)

	m, _ := newTestMachine(t, 32, "<>>", "")
	assert.NoError(m.Tick())
	assert.Equal(15, m.Ptr)

	m.Ptr = 31
	assert.NoError(m.Tick())
	assert.Equal(0, m.Ptr)

	m.Ptr = 0
	m.Pc = 0
	assert.NoError(m.Tick())
	assert.Equal(31, m.Ptr)
}

func TestMachine_Loop(t *testing.T) {
	assert := assert.New(t)

	for depth := range 7 {
		text := "[" + strings.Repeat("[", depth) + "-" + strings.Repeat("]", depth) + "]+"

		m, _ := newTestMachine(t, 32, text, "")
		assert.NoError(m.Tick())
		assert.Equal(len(text)-1, m.Pc, text)

		m.Reset()
		m.Pc = len(text) - 2
		m.Memory[m.Ptr] = 1
		assert.NoError(m.Tick())
		assert.Equal(1, m.Pc, text)

		m.Reset()
		m.Memory[m.Ptr] = 1
		assert.NoError(m.Tick())
		assert.Equal(1, m.Pc, text)
	}
}

func TestMachine_CopyLoop(t *testing.T) {
	assert := assert.New(t)

	m, _ := newTestMachine(t, 32, "++[>+<-]", "")
	assert.NoError(runMachine(m, 100))
	assert.Equal(byte(0), m.Memory[16])
	assert.Equal(byte(2), m.Memory[17])
	assert.Equal(16, m.Ptr)
}

func TestMachine_Output(t *testing.T) {
	assert := assert.New(t)

	m, output := newTestMachine(t, 64, "+++++.", "")
	assert.NoError(runMachine(m, 100))
	assert.Equal([]byte{5}, output.Bytes())
	assert.Equal(byte(5), m.Memory.Register(REG_IO))
}

func TestMachine_Arith(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		program  string
		a, b     byte
		result   byte
		overflow bool
	}){
		{"add", "A", 1, 2, 3, false},
		{"add-wrap", "A", 255, 1, 0, true},
		{"add-sign", "A", 100, 100, 200, false},
		{"sub", "S", 5, 3, 2, false},
		{"sub-wrap", "S", 0, 1, 255, true},
		{"mul", "M", 15, 17, 255, false},
		{"mul-wrap", "M", 128, 2, 0, true},
	}

	for _, entry := range table {
		m, _ := newTestMachine(t, 32, entry.program, "")
		m.Memory[16] = entry.a
		m.Memory[17] = entry.b
		if !entry.overflow {
			m.Memory.SetStatus(SR_OVERFLOW)
		}

		assert.NoError(m.Tick(), entry.name)
		assert.Equal(entry.result, m.Memory[16], entry.name)
		assert.Equal(entry.b, m.Memory[17], entry.name)
		assert.Equal(entry.overflow, m.Memory.Status().Has(SR_OVERFLOW), entry.name)
		assert.Equal(entry.result>>7, m.Memory.Register(REG_SIGN), entry.name)
	}
}

func TestMachine_Divide(t *testing.T) {
	assert := assert.New(t)

	m, _ := newTestMachine(t, 32, "D", "")
	for a := range 256 {
		for b := range 256 {
			m.Reset()
			m.Memory[16] = byte(a)
			m.Memory[17] = byte(b)
			if !assert.NoError(m.Tick()) {
				return
			}

			if b == 0 {
				assert.Equal(byte(a), m.Memory[16])
				assert.Equal(byte(0), m.Memory[17])
				assert.True(m.Memory.Status().Has(SR_DIVIDE_BY_ZERO))
				continue
			}

			q, r := int(m.Memory[16]), int(m.Memory[17])
			if !assert.Equal(a, q*b+r, "%d / %d", a, b) {
				return
			}
			assert.Less(r, b)
			assert.False(m.Memory.Status().Has(SR_DIVIDE_BY_ZERO))
		}
	}
}

func TestMachine_DivideSticky(t *testing.T) {
	assert := assert.New(t)

	m, _ := newTestMachine(t, 32, "D>D", "")
	m.Memory[16] = 9
	m.Memory[17] = 0
	m.Memory[18] = 3
	assert.NoError(runMachine(m, 10))
	assert.Equal(byte(0), m.Memory[17])
	assert.Equal(byte(0), m.Memory[18])
	assert.True(m.Memory.Status().Has(SR_DIVIDE_BY_ZERO))
}

func TestMachine_Bitwise(t *testing.T) {
	assert := assert.New(t)

	const a, b = byte(0xc5), byte(0x3a)

	table := map[string]byte{
		"&": a & b,
		"|": a | b,
		"^": a ^ b,
		"~": ^a,
		"!": ^a,
		"#": a >> 1,
		"@": byte(0x8a),
		"0": 0,
		"%": a % b,
	}

	for program, expected := range table {
		m, _ := newTestMachine(t, 32, program, "")
		m.Memory[16] = a
		m.Memory[17] = b
		assert.NoError(m.Tick(), program)
		assert.Equal(expected, m.Memory[16], program)
		assert.Equal(b, m.Memory[17], program)
		assert.Equal(Status(0), m.Memory.Status(), program)
	}
}

func TestMachine_ModZero(t *testing.T) {
	assert := assert.New(t)

	m, _ := newTestMachine(t, 32, "%", "")
	m.Memory[16] = 7
	assert.NoError(m.Tick())
	assert.Equal(byte(7), m.Memory[16])
	assert.False(m.Memory.Status().Has(SR_DIVIDE_BY_ZERO))
}

func TestMachine_Jump(t *testing.T) {
	assert := assert.New(t)

	m, _ := newTestMachine(t, 32, "loop:\n+J loop", "")
	assert.Equal(Labels{"loop": 0}, m.Program.Labels)

	err := runMachine(m, 8*10)
	assert.ErrorIs(err, errTestSteps)
	assert.Equal(byte(10), m.Memory[16])
	assert.Equal(0, m.Pc)
}

func TestMachine_JumpAccounting(t *testing.T) {
	assert := assert.New(t)

	// "back" is at address 2, which is the newline after "++".
	m, _ := newTestMachine(t, 32, "++\nback:\n+J back", "")
	assert.Equal(Labels{"back": 2}, m.Program.Labels)

	err := runMachine(m, 11)
	assert.ErrorIs(err, errTestSteps)
	assert.Equal(2, m.Pc)
	assert.Equal(byte(3), m.Memory[16])

	err = runMachine(m, 9*4)
	assert.ErrorIs(err, errTestSteps)
	assert.Equal(2, m.Pc)
	assert.Equal(byte(7), m.Memory[16])
}

func TestMachine_CallReturn(t *testing.T) {
	assert := assert.New(t)

	text := "sub:\nRC sub\n+;"
	m, _ := newTestMachine(t, 64, text, "")
	m.Pc = strings.IndexByte(text, 'C')

	assert.NoError(m.Tick())
	assert.Equal(0, m.Pc)
	assert.Equal(1, m.Stack.Depth())
	addr, ok := m.Stack.Peek()
	assert.True(ok)
	assert.Equal(uint16(11), addr)
	assert.Equal([]byte{0x00, 0x0b}, []byte(m.Memory[62:64]))
	assert.Equal(byte(62), m.Memory.Register(REG_SP))
	assert.Equal(byte(11), m.Memory.Register(REG_RAR))

	for range 6 {
		assert.NoError(m.Tick())
	}
	assert.Equal(11, m.Pc)
	assert.Equal(0, m.Stack.Depth())
	assert.Equal(byte(64), m.Memory.Register(REG_SP))

	assert.NoError(runMachine(m, 10))
	assert.True(m.Halted())
	assert.Equal(byte(1), m.Memory[16])
}

func TestMachine_CallStackFull(t *testing.T) {
	assert := assert.New(t)

	m, _ := newTestMachine(t, REGISTERS, "x:\nC x", "")
	err := runMachine(m, 10)
	assert.ErrorIs(err, ErrStackFault)
	assert.ErrorIs(err, ErrStackFull)
	assert.ErrorIs(err, ErrOpcode{})
	assert.True(m.Memory.Status().Has(SR_INVALID_MEMORY_RANGE))
	assert.Equal(3, m.Pc)

	var eo ErrOpcode
	assert.True(errors.As(err, &eo))
	assert.Equal(ErrOpcode{Pc: 3, Op: OP_CALL}, eo)
}

func TestMachine_ReturnEmpty(t *testing.T) {
	assert := assert.New(t)

	m, _ := newTestMachine(t, 32, "R", "")
	err := m.Tick()
	assert.ErrorIs(err, ErrStackFault)
	assert.ErrorIs(err, ErrStackEmpty)
	assert.True(m.Memory.Status().Has(SR_INVALID_MEMORY_RANGE))
	assert.Equal(0, m.Pc)
}

func TestMachine_LabelMissing(t *testing.T) {
	assert := assert.New(t)

	m, _ := newTestMachine(t, 32, "J missing +", "")
	err := m.Tick()
	assert.ErrorIs(err, ErrControlFlow)
	var el ErrLabelMissing
	assert.True(errors.As(err, &el))
	assert.Equal(ErrLabelMissing("missing"), el)

	m.Reset()
	m.Lenient = true
	assert.NoError(runMachine(m, 10))
	assert.Equal(byte(1), m.Memory[16])

	m, _ = newTestMachine(t, 32, "J", "")
	assert.ErrorIs(m.Tick(), ErrLabelSyntax)
}

func TestMachine_Unmatched(t *testing.T) {
	assert := assert.New(t)

	m, _ := newTestMachine(t, 32, "[+", "")
	err := m.Tick()
	assert.ErrorIs(err, ErrControlFlow)
	var eb ErrBracket
	assert.True(errors.As(err, &eb))
	assert.True(eb.Open)
	assert.Equal(0, m.Pc)

	m.Reset()
	m.Lenient = true
	assert.NoError(runMachine(m, 10))
	assert.Equal(byte(1), m.Memory[16])

	m, _ = newTestMachine(t, 32, "+]", "")
	err = runMachine(m, 10)
	assert.ErrorIs(err, ErrControlFlow)
	assert.True(errors.As(err, &eb))
	assert.Equal(ErrBracket{Pc: 1}, eb)
}

func TestMachine_Halt(t *testing.T) {
	assert := assert.New(t)

	m, _ := newTestMachine(t, 32, "+;+", "")
	assert.NoError(runMachine(m, 10))
	assert.True(m.Halted())
	assert.True(m.Done())
	assert.Equal(2, m.Pc)
	assert.Equal(byte(1), m.Memory[16])
	assert.ErrorIs(m.Tick(), ErrHalted)

	m.Reset()
	assert.False(m.Halted())
}

func TestMachine_Input(t *testing.T) {
	assert := assert.New(t)

	m, _ := newTestMachine(t, 32, ",>,", "AB")
	assert.NoError(runMachine(m, 10))
	assert.Equal(byte('A'), m.Memory[16])
	assert.Equal(byte('B'), m.Memory[17])
	assert.Equal(byte('B'), m.Memory.Register(REG_IO))
}

func TestMachine_InputEOF(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		mode  EOFMode
		value byte
		err   error
	}){
		{EOF_ZERO, 0, nil},
		{EOF_KEEP, 7, nil},
		{EOF_ERROR, 7, ErrInput},
	}

	for _, entry := range table {
		m, _ := newTestMachine(t, 32, ",", "")
		m.EOF = entry.mode
		m.Memory[16] = 7
		err := m.Tick()
		if entry.err != nil {
			assert.ErrorIs(err, entry.err, entry.mode.String())
			assert.ErrorIs(err, io.ErrChannelEmpty, entry.mode.String())
		} else {
			assert.NoError(err, entry.mode.String())
		}
		assert.Equal(entry.value, m.Memory[16], entry.mode.String())
	}
}

func TestMachine_NoChannel(t *testing.T) {
	assert := assert.New(t)

	m, _ := newTestMachine(t, 32, ".,", "")
	m.Channel = nil
	err := m.Tick()
	assert.ErrorIs(err, ErrOutput)
	assert.ErrorIs(err, ErrChannelInvalid)

	m.Pc = 1
	err = m.Tick()
	assert.ErrorIs(err, ErrInput)
	assert.ErrorIs(err, ErrChannelInvalid)
}

func TestParseEOFMode(t *testing.T) {
	assert := assert.New(t)

	for _, mode := range []EOFMode{EOF_ZERO, EOF_KEEP, EOF_ERROR} {
		parsed, err := ParseEOFMode(mode.String())
		assert.NoError(err)
		assert.Equal(mode, parsed)
	}

	_, err := ParseEOFMode("bogus")
	assert.ErrorIs(err, ErrEOFMode("bogus"))
	assert.Equal("EOFMode(9)", EOFMode(9).String())
}

func TestMachine_ZeroFlag(t *testing.T) {
	assert := assert.New(t)

	m, _ := newTestMachine(t, 32, "Z", "")
	assert.NoError(m.Tick())
	assert.Equal(byte(0), m.Memory.Register(REG_ZERO))

	m.Reset()
	m.Extended = true
	assert.NoError(m.Tick())
	assert.Equal(byte(1), m.Memory.Register(REG_ZERO))

	m, _ = newTestMachine(t, 32, "+Z", "")
	m.Extended = true
	assert.NoError(runMachine(m, 10))
	assert.Equal(byte(0), m.Memory.Register(REG_ZERO))

	m, _ = newTestMachine(t, 32, "z", "")
	m.Extended = true
	m.Memory.SetRegister(REG_ZERO, 1)
	assert.NoError(m.Tick())
	assert.Equal(byte(0), m.Memory.Register(REG_ZERO))
}

func TestMachine_ConditionalJump(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		program string
		zero    byte
		pc      int
	}){
		{"t:\nj t\n+", 1, 0},
		{"t:\nj t\n+", 0, 6},
		{"t:\nn t\n+", 1, 6},
		{"t:\nn t\n+", 0, 0},
	}

	for _, entry := range table {
		m, _ := newTestMachine(t, 32, entry.program, "")
		m.Extended = true
		m.Pc = 3
		m.Memory.SetRegister(REG_ZERO, entry.zero)
		assert.NoError(m.Tick(), entry.program)
		assert.Equal(entry.pc, m.Pc, "%s zf=%d", entry.program, entry.zero)
	}
}

func TestMachine_Comment(t *testing.T) {
	assert := assert.New(t)

	m, _ := newTestMachine(t, 32, `"+[++"+`, "")
	m.Extended = true
	assert.NoError(m.Tick())
	assert.Equal(6, m.Pc)
	assert.NoError(runMachine(m, 10))
	assert.Equal(byte(1), m.Memory[16])

	m, _ = newTestMachine(t, 32, `+"++`, "")
	m.Extended = true
	assert.NoError(runMachine(m, 10))
	assert.Equal(byte(1), m.Memory[16])
	assert.Equal(2, m.Ticks)

	m, _ = newTestMachine(t, 32, `+"+"+`, "")
	assert.NoError(runMachine(m, 10))
	assert.Equal(byte(3), m.Memory[16])
	assert.Equal(5, m.Ticks)

	m, _ = newTestMachine(t, 32, `["]"]+`, "")
	m.Extended = true
	assert.NoError(runMachine(m, 10))
	assert.Equal(byte(1), m.Memory[16])
}

func TestMachine_DefaultInstructions(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program string
	}){
		{"main", "main:\n+++++."},
		{"end", "end:\n+++++."},
		{"sub", "Sub:\n+++++."},
		{"call", "Calc:\n+++++."},
		{"comment", "+++++. done"},
		{"count", "count:\n+++++. jump back when done"},
		{"quote", "+++\"++."},
	}

	for _, entry := range table {
		m, output := newTestMachine(t, 32, entry.program, "")
		assert.NoError(runMachine(m, 100), entry.name)
		assert.Equal([]byte{5}, output.Bytes(), entry.name)
		assert.Equal(Status(0), m.Memory.Status(), entry.name)
	}
}

func TestMachine_JumpNames(t *testing.T) {
	assert := assert.New(t)

	for _, name := range []string{"main", "end", "Sub", "Calc", "jump", "done"} {
		for _, extended := range []bool{false, true} {
			m, _ := newTestMachine(t, 32, name+":\n+J "+name, "")
			m.Extended = extended
			assert.Equal(Labels{name: 0}, m.Program.Labels, name)

			err := runMachine(m, (len(name)+4)*10)
			assert.ErrorIs(err, errTestSteps, name)
			assert.Equal(byte(10), m.Memory[16], "%s extended=%v", name, extended)
			assert.Equal(0, m.Pc, name)
		}
	}
}

func TestMachine_CallNames(t *testing.T) {
	assert := assert.New(t)

	text := "Sub:\nR\nmain:\nC Sub\n+;"
	m, _ := newTestMachine(t, 32, text, "")
	m.Pc = strings.IndexByte(text, 'C')

	assert.NoError(runMachine(m, 100))
	assert.True(m.Halted())
	assert.Equal(byte(1), m.Memory[16])
	assert.Equal(0, m.Stack.Depth())
}

func TestMachine_Registers(t *testing.T) {
	assert := assert.New(t)

	m, _ := newTestMachine(t, 64, "x+", "")
	assert.NoError(m.Tick())
	assert.NoError(m.Tick())
	assert.Equal(byte(1), m.Memory.Register(REG_PC))
	assert.Equal(byte('+'), m.Memory.Register(REG_IR))
	assert.Equal(byte(64), m.Memory.Register(REG_SP))
	assert.Equal(2, m.Ticks)

	// The stack pointer register holds the low byte of the stack pointer.
	m, _ = newTestMachine(t, DEFAULT_MEMORY_SIZE, "x:\nC x", "")
	assert.Equal(byte(0), m.Memory.Register(REG_SP))
	m.Pc = 3
	assert.NoError(m.Tick())
	assert.Equal(byte(0xfe), m.Memory.Register(REG_SP))
}

func TestMachine_Nop(t *testing.T) {
	assert := assert.New(t)

	m, _ := newTestMachine(t, 32, "xy? \n\tq", "")
	assert.NoError(runMachine(m, 100))
	assert.Equal(7, m.Ticks)
	assert.Equal(Status(0), m.Memory.Status())
	assert.Equal(byte(0), m.Memory[16])
}

func TestMachine_Invalid(t *testing.T) {
	assert := assert.New(t)

	m, _ := newTestMachine(t, 32, "+", "")
	err := m.Execute(Op(99))
	assert.ErrorIs(err, ErrInstructionInvalid)
	assert.True(m.Memory.Status().Has(SR_INVALID_INSTRUCTION))
}

func TestMachine_String(t *testing.T) {
	assert := assert.New(t)

	m, _ := newTestMachine(t, 32, "+", "")
	text := m.String()
	assert.Contains(text, "PC")
	assert.Contains(text, "PTR")
	assert.Contains(text, "flags: -")
}
