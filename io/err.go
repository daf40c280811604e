// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"errors"

	"github.com/ezrec/brainshift/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelEmpty = errors.New(f("channel empty"))
	ErrChannelFull  = errors.New(f("channel full"))
)
