// Package openmode removes redundant or obsolete mode arguments of open().
package openmode

import (
	"github.com/leapstack-labs/leapup/pkg/rewrite"
	"github.com/leapstack-labs/leapup/pkg/rewrite/plugins/internal/pyast"
	"github.com/leapstack-labs/leapup/pkg/syntax"
)

// Module is the open_mode rule.
var Module = rewrite.NewModule("open_mode",
	rewrite.On(syntax.KindCall, visitCall),
).WithDescription("normalise universal-newline and text modes passed to open")

// modes maps legacy modes to their modern spelling. The universal-newline
// flag U is a no-op in Python 3 and text mode is the default.
var modes = map[string]string{
	"U":   "r",
	"Ur":  "r",
	"rU":  "r",
	"r":   "r",
	"rt":  "r",
	"tr":  "r",
	"Ub":  "rb",
	"bU":  "rb",
	"rUb": "rb",
	"Urb": "rb",
	"rbU": "rb",
	"Ubr": "rb",
	"bUr": "rb",
	"brU": "rb",
}

func isOpen(fn *syntax.Node) bool {
	if fn == nil {
		return false
	}
	name := pyast.DottedName(fn)
	return name == "open" || name == "io.open"
}

func visitCall(_ rewrite.State, node, _ *syntax.Node) []rewrite.Edit {
	if !isOpen(node.Child("function")) {
		return nil
	}
	positional, keywords, ok := pyast.Arguments(node)
	if !ok {
		return nil
	}

	var mode *syntax.Node
	switch {
	case len(positional) >= 2:
		mode = positional[1]
	case keywords["mode"] != nil:
		mode = keywords["mode"]
	default:
		return nil
	}

	lit, ok := pyast.ParseString(mode)
	if !ok {
		return nil
	}
	replacement, ok := modes[lit.Body]
	if !ok || replacement == lit.Body {
		return nil
	}
	lit.Body = replacement
	return []rewrite.Edit{rewrite.ReplaceToken(mode, lit.String())}
}
