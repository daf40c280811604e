// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package io provides the byte I/O channels attached to the BrainShift
// machine. The machine reads one byte per input instruction and writes one
// byte per output instruction; Tape adapts those to an io.Reader and an
// io.Writer.
package io

// Channel defines the interface for all I/O channels attached to the machine.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Receive blocks until a byte is available from the channel.
	// ErrChannelEmpty is returned at end of input.
	Receive() (value byte, err error)
	// Send writes a single byte to the channel.
	Send(value byte) error
}
