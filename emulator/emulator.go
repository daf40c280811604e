// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/brainshift/internal"
	"github.com/ezrec/brainshift/io"
	"github.com/ezrec/brainshift/vm"
)

const (
	KB = 1024 // Kilobyte, for memory size expressions.
)

var _emulator_defines = map[string]string{
	"KB": fmt.Sprintf("%v", KB),
}

// Defines returns an iterator over all of the defines of the emulator and
// its machine.
func Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		vm.Defines(),
	)
}

// Emulator state. Machine + program + tape.
type Emulator struct {
	Verbose     bool // If set, enables verbose logging.
	*vm.Machine      // Reference to the machine.

	Tape     io.Tape // Tape IO channel.
	MaxSteps int     // If non-zero, the most instructions Run will execute.
}

// NewEmulator creates a new emulator with size bytes of machine memory.
func NewEmulator(size int) (emu *Emulator, err error) {
	machine, err := vm.NewMachine(size)
	if err != nil {
		return
	}

	emu = &Emulator{
		Machine: machine,
	}
	emu.Machine.Channel = &emu.Tape

	return
}

// Load a program, and reset the machine.
func (emu *Emulator) Load(prog *vm.Program) {
	emu.Machine.Program = prog
	emu.Reset()
}

// Reset the machine and tape state.
func (emu *Emulator) Reset() {
	emu.Machine.Verbose = emu.Verbose
	emu.Machine.Reset()
	emu.Tape.Rewind()

	if emu.Verbose {
		log.Printf("emulator: %d labels, %d bytes of program", len(emu.Program.Labels), emu.Program.Len())
	}
}

// LineNo returns the current line number of the program counter.
func (emu *Emulator) LineNo() int {
	return emu.Program.Debug(emu.Pc).LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set machine verbosity
	emu.Machine.Verbose = emu.Verbose

	dbg := emu.Program.Debug(emu.Pc)
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: dbg.LineNo, Column: dbg.Column, Err: err}
		}
	}()

	if emu.MaxSteps > 0 && !emu.Done() && emu.Ticks >= emu.MaxSteps {
		err = ErrStepLimit
		return
	}

	err = emu.Machine.Tick()
	if errors.Is(err, vm.ErrHalted) {
		err = nil
		done = true
	}

	return
}

// Run ticks until the program ends, fails, or ctx is done.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	for {
		err = ctx.Err()
		if err != nil {
			return
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}
