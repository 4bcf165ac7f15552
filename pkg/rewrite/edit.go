package rewrite

import (
	"sort"

	"github.com/leapstack-labs/leapup/pkg/syntax"
	"github.com/leapstack-labs/leapup/pkg/token"
)

// Edits collects token callbacks by the offset they apply to. Callbacks for
// one offset keep the order they were produced in. Offsets without callbacks
// are never present.
type Edits map[token.Offset][]TokenFunc

func (e Edits) add(ed Edit) {
	if ed.Apply == nil {
		return
	}
	e[ed.Offset] = append(e[ed.Offset], ed.Apply)
}

// Count returns the total number of callbacks.
func (e Edits) Count() int {
	n := 0
	for _, fns := range e {
		n += len(fns)
	}
	return n
}

// Offsets returns the offsets that have callbacks, in source order.
func (e Edits) Offsets() []token.Offset {
	out := make([]token.Offset, 0, len(e))
	for off := range e {
		out = append(out, off)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Replace returns an edit that replaces every token of node with a single
// token holding src.
func Replace(node *syntax.Node, src string) Edit {
	end := node.End()
	return Edit{
		Offset: node.Offset(),
		Apply: func(i int, tokens *token.Tokens) {
			j := tokens.IndexAt(i+1, end)
			tokens.Splice(i, j, token.Token{Type: token.Classify(src), Src: src})
		},
	}
}

// ReplaceToken returns an edit that rewrites the text of the single token
// at node's offset.
func ReplaceToken(node *syntax.Node, src string) Edit {
	return Edit{
		Offset: node.Offset(),
		Apply: func(i int, tokens *token.Tokens) {
			(*tokens)[i].Src = src
		},
	}
}
