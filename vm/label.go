// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"strings"
)

// Labels maps label names to program addresses.
type Labels map[string]int

// ParseLabels scans program text for `name:` declarations.
//
// Addresses count the bytes of every line that is not a declaration, with
// line terminators excluded. A declaration line contributes nothing, not even
// any instructions that follow its colon. A redeclared label replaces the
// earlier address.
func ParseLabels(text string) (labels Labels) {
	labels = make(Labels)

	address := 0
	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		name, _, ok := strings.Cut(line, ":")
		if ok {
			labels[strings.TrimSpace(name)] = address
			continue
		}
		address += len(line)
	}

	return
}

// span is a half-open range of program offsets.
type span struct {
	start, end int
}

// declarations returns the offsets of every label declaration line, in
// order. Line terminators are not included.
func declarations(text string) (spans []span) {
	start := 0
	for line := range strings.SplitSeq(text, "\n") {
		end := start + len(strings.TrimSuffix(line, "\r"))
		if strings.Contains(line, ":") {
			spans = append(spans, span{start: start, end: end})
		}
		start += len(line) + 1
	}

	return
}

// isBlank is true for bytes that terminate a label operand.
func isBlank(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

// labelOperand parses the label that follows the instruction at pc.
// Blanks before the label and a leading '*' sigil are skipped. next is the
// offset of the first byte after the label.
func labelOperand(text string, pc int) (name string, next int, err error) {
	n := pc + 1
	for n < len(text) && (text[n] == ' ' || text[n] == '\t') {
		n++
	}
	if n < len(text) && text[n] == '*' {
		n++
	}

	start := n
	for n < len(text) && !isBlank(text[n]) {
		n++
	}

	name = text[start:n]
	next = n
	if len(name) == 0 {
		err = ErrLabelSyntax
	}

	return
}
