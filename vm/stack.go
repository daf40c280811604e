// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

const (
	STACK_ENTRY = 2 // Bytes per return address.
)

// Stack is the call stack. It occupies the top of Memory and grows down
// toward Limit. Entries are big-endian 16-bit return addresses.
type Stack struct {
	Memory Memory // Backing memory.
	Sp     int    // Current top of stack. len(Memory) when empty.
	Limit  int    // Lowest address the stack may occupy.
}

// Reset empties the stack, placing it at the top of mem.
func (s *Stack) Reset(mem Memory) {
	s.Memory = mem
	s.Sp = len(mem)
	s.Limit = REGISTERS
}

// Push decrements the stack pointer, then writes value high byte first.
func (s *Stack) Push(value uint16) (err error) {
	if s.Full() {
		err = ErrStackFull
		return
	}

	s.Sp -= STACK_ENTRY
	s.Memory[s.Sp] = byte(value >> 8)
	s.Memory[s.Sp+1] = byte(value)

	return
}

// Pop reads the top entry, then increments the stack pointer.
func (s *Stack) Pop() (value uint16, err error) {
	value, ok := s.Peek()
	if !ok {
		err = ErrStackEmpty
		return
	}

	s.Sp += STACK_ENTRY
	return
}

// Peek returns the top entry without removing it.
func (s *Stack) Peek() (value uint16, ok bool) {
	if s.Sp < 0 || s.Sp+STACK_ENTRY > len(s.Memory) {
		return
	}

	value = uint16(s.Memory[s.Sp])<<8 | uint16(s.Memory[s.Sp+1])
	return value, true
}

// Empty returns true if no entries can be popped.
func (s *Stack) Empty() bool {
	return s.Sp+STACK_ENTRY > len(s.Memory)
}

// Full returns true if another entry would cross Limit.
func (s *Stack) Full() bool {
	return s.Sp-STACK_ENTRY < s.Limit
}

// Depth returns the number of entries on the stack.
func (s *Stack) Depth() int {
	return (len(s.Memory) - s.Sp) / STACK_ENTRY
}
