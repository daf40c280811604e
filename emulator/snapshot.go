// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/fxamacker/cbor/v2"

	"github.com/ezrec/brainshift/vm"
)

// Snapshot is the complete state of a machine.
type Snapshot struct {
	Pc     int    `cbor:"pc"`
	Ptr    int    `cbor:"ptr"`
	Sp     int    `cbor:"sp"`
	Ticks  int    `cbor:"ticks"`
	Halted bool   `cbor:"halted"`
	Memory []byte `cbor:"memory"`
}

// Snapshots are encoded canonically, so equal states encode identically.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("emulator: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalSnapshot serializes a Snapshot to CBOR bytes.
func MarshalSnapshot(snap *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(snap)
}

// UnmarshalSnapshot deserializes a Snapshot from CBOR bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("emulator: unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Snapshot captures the machine state.
func (emu *Emulator) Snapshot() *Snapshot {
	return &Snapshot{
		Pc:     emu.Pc,
		Ptr:    emu.Ptr,
		Sp:     emu.Stack.Sp,
		Ticks:  emu.Ticks,
		Halted: emu.Halted(),
		Memory: slices.Clone([]byte(emu.Memory)),
	}
}

// Restore replaces the machine state with a snapshot. The snapshot must have
// been taken from a machine with the same memory size.
func (emu *Emulator) Restore(snap *Snapshot) (err error) {
	if len(snap.Memory) != len(emu.Memory) {
		err = vm.ErrMemorySize
		return
	}
	if snap.Ptr < 0 || snap.Ptr >= len(emu.Memory) {
		err = vm.ErrMemoryAccess
		return
	}
	if snap.Sp < vm.REGISTERS || snap.Sp > len(emu.Memory) || (len(emu.Memory)-snap.Sp)%vm.STACK_ENTRY != 0 {
		err = errors.Join(vm.ErrStackFault, vm.ErrMemoryAccess)
		return
	}

	emu.Reset()
	copy(emu.Memory, snap.Memory)
	emu.Pc = snap.Pc
	emu.Ptr = snap.Ptr
	emu.Stack.Sp = snap.Sp
	emu.Ticks = snap.Ticks
	if snap.Halted {
		emu.Halt()
	}

	return
}
