// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

// Op is a decoded instruction.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_NOP     = Op(0)  // nop
	OP_RIGHT   = Op(1)  // right
	OP_LEFT    = Op(2)  // left
	OP_INC     = Op(3)  // inc
	OP_DEC     = Op(4)  // dec
	OP_OUTPUT  = Op(5)  // out
	OP_INPUT   = Op(6)  // in
	OP_LOOP    = Op(7)  // loop
	OP_POOL    = Op(8)  // pool
	OP_ZERO    = Op(9)  // zero
	OP_AND     = Op(10) // and
	OP_OR      = Op(11) // or
	OP_XOR     = Op(12) // xor
	OP_NOT     = Op(13) // not
	OP_SHR     = Op(14) // shr
	OP_SHL     = Op(15) // shl
	OP_ADD     = Op(16) // add
	OP_MUL     = Op(17) // mul
	OP_SUB     = Op(18) // sub
	OP_DIV     = Op(19) // div
	OP_MOD     = Op(20) // mod
	OP_NEG     = Op(21) // neg
	OP_JUMP    = Op(22) // jump
	OP_CALL    = Op(23) // call
	OP_RETURN  = Op(24) // return
	OP_HALT    = Op(25) // halt
	OP_SETZ    = Op(26) // setz
	OP_CLRZ    = Op(27) // clrz
	OP_JZ      = Op(28) // jz
	OP_JNZ     = Op(29) // jnz
	OP_COMMENT = Op(30) // comment
)

// opDecode maps instruction bytes to operations. Unlisted bytes are OP_NOP.
var opDecode = [256]Op{
	'>': OP_RIGHT,
	'<': OP_LEFT,
	'+': OP_INC,
	'-': OP_DEC,
	'.': OP_OUTPUT,
	',': OP_INPUT,
	'[': OP_LOOP,
	']': OP_POOL,
	'0': OP_ZERO,
	'&': OP_AND,
	'|': OP_OR,
	'^': OP_XOR,
	'~': OP_NOT,
	'#': OP_SHR,
	'@': OP_SHL,
	'A': OP_ADD,
	'M': OP_MUL,
	'S': OP_SUB,
	'D': OP_DIV,
	'%': OP_MOD,
	'!': OP_NEG,
	'J': OP_JUMP,
	'C': OP_CALL,
	'R': OP_RETURN,
	';': OP_HALT,
	'Z': OP_SETZ,
	'z': OP_CLRZ,
	'j': OP_JZ,
	'n': OP_JNZ,
	'"': OP_COMMENT,
}

// opEncode is the inverse of opDecode.
var opEncode [OP_COMMENT + 1]byte

func init() {
	for b, op := range opDecode {
		if op != OP_NOP {
			opEncode[op] = byte(b)
		}
	}
}

// Decode returns the operation for an instruction byte.
func Decode(b byte) Op {
	return opDecode[b]
}

// Byte returns the instruction byte of the operation, or 0 for OP_NOP.
func (op Op) Byte() byte {
	if op < 0 || int(op) >= len(opEncode) {
		return 0
	}
	return opEncode[op]
}

// Extended returns true for operations that only decode when the machine
// has extensions enabled. Otherwise their bytes are no-ops.
func (op Op) Extended() bool {
	switch op {
	case OP_SETZ, OP_CLRZ, OP_JZ, OP_JNZ, OP_COMMENT:
		return true
	}
	return false
}

// Labeled returns true if the operation takes a label operand.
func (op Op) Labeled() bool {
	switch op {
	case OP_JUMP, OP_CALL, OP_JZ, OP_JNZ:
		return true
	}
	return false
}
