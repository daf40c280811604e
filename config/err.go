// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package config

import (
	"errors"

	"github.com/ezrec/brainshift/translate"
)

var f = translate.From

var (
	ErrFormat   = errors.New(f("configuration format unknown"))
	ErrSizeType = errors.New(f("memory size must be an integer or expression"))
)

// ErrSizeExpression is returned when a memory size expression does not
// evaluate to an integer.
type ErrSizeExpression string

func (err ErrSizeExpression) Error() string {
	return f("memory size '%v' is not a valid expression", string(err))
}
