// Package ioopen rewrites io.open(...) to the builtin open(...).
package ioopen

import (
	"github.com/leapstack-labs/leapup/pkg/rewrite"
	"github.com/leapstack-labs/leapup/pkg/rewrite/plugins/internal/pyast"
	"github.com/leapstack-labs/leapup/pkg/syntax"
)

// Module is the io_open rule.
var Module = rewrite.NewModule("io_open",
	rewrite.On(syntax.KindCall, visitCall),
).WithDescription("replace io.open with the builtin open")

func visitCall(_ rewrite.State, node, _ *syntax.Node) []rewrite.Edit {
	fn := node.Child("function")
	if fn == nil || fn.Kind != syntax.KindAttribute || pyast.DottedName(fn) != "io.open" {
		return nil
	}
	return []rewrite.Edit{rewrite.Replace(fn, "open")}
}
