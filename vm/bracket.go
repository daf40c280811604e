// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

// MatchBracket returns the offset of the bracket matching the one at pc.
func MatchBracket(text string, pc int) (match int, err error) {
	return matchBracket(text, pc, false)
}

// MatchBracketQuoted is MatchBracket, ignoring brackets inside "quoted"
// comments.
func MatchBracketQuoted(text string, pc int) (match int, err error) {
	return matchBracket(text, pc, true)
}

func matchBracket(text string, pc int, comments bool) (match int, err error) {
	if pc < 0 || pc >= len(text) {
		err = ErrMemoryAccess
		return
	}

	switch text[pc] {
	case '[':
		match, err = matchForward(text, pc, comments)
	case ']':
		match, err = matchBackward(text, pc, comments)
	default:
		err = ErrBracket{Pc: pc}
	}

	return
}

// matchForward scans forward from the '[' at pc.
func matchForward(text string, pc int, comments bool) (int, error) {
	depth := 1
	quoted := false
	for n := pc + 1; n < len(text); n++ {
		switch text[n] {
		case '"':
			quoted = comments && !quoted
		case '[':
			if !quoted {
				depth++
			}
		case ']':
			if !quoted {
				depth--
				if depth == 0 {
					return n, nil
				}
			}
		}
	}

	return pc, ErrBracket{Pc: pc, Open: true}
}

// matchBackward scans backward from the ']' at pc.
func matchBackward(text string, pc int, comments bool) (int, error) {
	depth := 1
	quoted := false
	for n := pc - 1; n >= 0; n-- {
		switch text[n] {
		case '"':
			quoted = comments && !quoted
		case ']':
			if !quoted {
				depth++
			}
		case '[':
			if !quoted {
				depth--
				if depth == 0 {
					return n, nil
				}
			}
		}
	}

	return pc, ErrBracket{Pc: pc}
}
