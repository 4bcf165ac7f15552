// Package patch applies collected rewrite edits to a token stream.
package patch

import (
	"github.com/leapstack-labs/leapup/pkg/rewrite"
	"github.com/leapstack-labs/leapup/pkg/token"
)

// Apply runs the callbacks in edits against tokens and returns the result.
//
// Tokens are visited from last to first so that a callback splicing tokens
// at or after its own index never shifts the index of a token still to be
// visited. Callbacks registered for the same offset run in collection order.
func Apply(tokens token.Tokens, edits rewrite.Edits) token.Tokens {
	if len(edits) == 0 {
		return tokens
	}
	out := append(token.Tokens(nil), tokens...)
	for i := len(out) - 1; i >= 0; i-- {
		tok := out[i]
		if tok.Src == "" {
			continue
		}
		for _, fn := range edits[tok.Offset()] {
			fn(i, &out)
		}
	}
	return out
}
