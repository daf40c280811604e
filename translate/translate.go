// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package translate formats user visible messages for the user's locale.
package translate

import (
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

var (
	printerOnce sync.Once
	printer     *message.Printer
)

func loadPrinter() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("brainshift: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// Printer returns the message printer for the user's locale.
func Printer() *message.Printer {
	printerOnce.Do(loadPrinter)
	return printer
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return Printer().Sprintf(key, args...)
}
