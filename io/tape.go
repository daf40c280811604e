// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"errors"
	"io"
)

// flusher is implemented by buffered outputs, such as *bufio.Writer.
type flusher interface {
	Flush() error
}

// Tape provides sequential byte I/O over an io.Reader for input and an
// io.Writer for output. A buffered output is flushed before each blocking
// read, so prompts appear before input is awaited.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	buffer []byte
}

var _ Channel = (*Tape)(nil)

// Rewind drops any buffered input. The underlying reader cannot be rewound.
func (tc *Tape) Rewind() {
	tc.buffer = tc.buffer[:0]
}

// Buffered returns the number of input bytes read but not yet received.
func (tc *Tape) Buffered() int {
	return len(tc.buffer)
}

// Receive consumes one byte of input, blocking on the reader when the
// buffer is empty.
func (tc *Tape) Receive() (value byte, err error) {
	if len(tc.buffer) == 0 {
		if tc.Input == nil {
			err = ErrChannelEmpty
			return
		}
		if fl, ok := tc.Output.(flusher); ok {
			err = fl.Flush()
			if err != nil {
				return
			}
		}
		var one [1]byte
		_, err = io.ReadFull(tc.Input, one[:])
		if errors.Is(err, io.EOF) {
			err = ErrChannelEmpty
		}
		if err != nil {
			return
		}
		tc.buffer = append(tc.buffer, one[0])
	}

	value = tc.buffer[0]
	tc.buffer = tc.buffer[1:]

	return
}

// Send writes a byte to the output stream.
func (tc *Tape) Send(value byte) (err error) {
	if tc.Output == nil {
		err = ErrChannelFull
		return
	}

	_, err = tc.Output.Write([]byte{value})
	return
}
