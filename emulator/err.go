// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"

	"github.com/ezrec/brainshift/translate"
)

var f = translate.From

var (
	ErrStepLimit = errors.New(f("step limit reached"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Column int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d:%d %v", err.LineNo, err.Column, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
