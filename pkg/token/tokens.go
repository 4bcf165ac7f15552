package token

import "strings"

// Tokens is an ordered, lossless token stream.
type Tokens []Token

// String joins the source of all tokens.
func (ts Tokens) String() string {
	var sb strings.Builder
	for _, t := range ts {
		sb.WriteString(t.Src)
	}
	return sb.String()
}

// Splice replaces tokens[i:j] with repl. Replacement tokens without a
// position inherit the position of tokens[i], so later offset lookups keep
// working on a stream that has already been edited.
func (ts *Tokens) Splice(i, j int, repl ...Token) {
	old := *ts
	if i < len(old) {
		for k := range repl {
			if repl[k].Line == 0 {
				repl[k].Line, repl[k].Col = old[i].Line, old[i].Col
			}
		}
	}
	out := make(Tokens, 0, len(old)-(j-i)+len(repl))
	out = append(out, old[:i]...)
	out = append(out, repl...)
	out = append(out, old[j:]...)
	*ts = out
}

// IndexAt returns the index of the first token at or after from whose
// offset is not before off. It returns len(ts) if there is none.
func (ts Tokens) IndexAt(from int, off Offset) int {
	for j := from; j < len(ts); j++ {
		if !ts[j].Offset().Less(off) {
			return j
		}
	}
	return len(ts)
}

// Find returns the index of the first token at or after from with the given
// type and source, or -1.
func (ts Tokens) Find(from int, typ TokenType, src string) int {
	for j := from; j < len(ts); j++ {
		if ts[j].Is(typ, src) {
			return j
		}
	}
	return -1
}

// PrevSignificant returns the index of the closest non-trivia token before i,
// or -1.
func (ts Tokens) PrevSignificant(i int) int {
	for j := i - 1; j >= 0; j-- {
		if !IsTrivia(ts[j].Type) {
			return j
		}
	}
	return -1
}
