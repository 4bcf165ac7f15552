// Package pep585 replaces typing aliases of builtin collections with the
// builtins themselves (PEP 585).
package pep585

import (
	"github.com/leapstack-labs/leapup/pkg/rewrite"
	"github.com/leapstack-labs/leapup/pkg/rewrite/plugins/internal/pyast"
	"github.com/leapstack-labs/leapup/pkg/syntax"
)

// Module is the typing_pep585 rule.
var Module = rewrite.NewModule("typing_pep585",
	rewrite.On(syntax.KindIdentifier, visitName),
	rewrite.On(syntax.KindAttribute, visitAttribute),
	rewrite.On(syntax.KindMemberType, visitAttribute),
).WithDescription("use builtin generics such as list[int] instead of typing.List[int]")

// Builtins maps typing names to the builtin that replaces them.
var Builtins = map[string]string{
	"Dict":      "dict",
	"FrozenSet": "frozenset",
	"List":      "list",
	"Set":       "set",
	"Tuple":     "tuple",
	"Type":      "type",
}

// applies reports whether builtin generics are valid at this point: either
// the target version supports them at runtime, or annotations are never
// evaluated.
func applies(state rewrite.State) bool {
	s := state.Settings
	if s.MinVersion.AtLeast(3, 9) {
		return true
	}
	return !s.KeepRuntimeTyping && state.InAnnotation && state.FromImports.Has("__future__", "annotations")
}

func visitName(state rewrite.State, node, parent *syntax.Node) []rewrite.Edit {
	builtin, ok := Builtins[node.Text]
	if !ok || !state.FromImports.Has("typing", node.Text) || !pyast.IsReference(node, parent) || !applies(state) {
		return nil
	}
	return []rewrite.Edit{rewrite.ReplaceToken(node, builtin)}
}

func visitAttribute(state rewrite.State, node, _ *syntax.Node) []rewrite.Edit {
	mod, attr, ok := pyast.SplitAttr(node)
	if !ok || mod != "typing" {
		return nil
	}
	builtin, ok := Builtins[attr]
	if !ok || !applies(state) {
		return nil
	}
	return []rewrite.Edit{rewrite.Replace(node, builtin)}
}
