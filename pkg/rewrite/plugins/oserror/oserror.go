// Package oserror rewrites the deprecated aliases of OSError.
package oserror

import (
	"strings"

	"github.com/leapstack-labs/leapup/pkg/rewrite"
	"github.com/leapstack-labs/leapup/pkg/rewrite/plugins/internal/pyast"
	"github.com/leapstack-labs/leapup/pkg/syntax"
	"github.com/leapstack-labs/leapup/pkg/token"
)

// Module is the oserror_aliases rule.
var Module = rewrite.NewModule("oserror_aliases",
	rewrite.On(syntax.KindExceptClause, visitExcept),
	rewrite.On(syntax.KindExceptGroupClause, visitExcept),
	rewrite.On(syntax.KindRaiseStatement, visitRaise),
).WithDescription("replace aliases of OSError in except clauses and raise statements")

// ErrorNames are builtins that have been aliases of OSError since 3.3.
var ErrorNames = []string{"EnvironmentError", "IOError", "WindowsError"}

// ErrorModules export an error attribute that is an alias of OSError.
var ErrorModules = []string{"mmap", "select", "socket"}

var errorNames = func() map[string]bool {
	m := make(map[string]bool, len(ErrorNames))
	for _, n := range ErrorNames {
		m[n] = true
	}
	return m
}()

var errorAttr = map[string]bool{"error": true}

func isAlias(n *syntax.Node, imports *rewrite.FromImports) bool {
	if n.Kind == syntax.KindIdentifier && errorNames[n.Text] {
		return true
	}
	return pyast.IsNameAttr(n, imports, ErrorModules, errorAttr)
}

func visitRaise(state rewrite.State, node, _ *syntax.Node) []rewrite.Edit {
	var exc *syntax.Node
	for _, f := range node.Fields {
		if f.Name != "cause" && len(f.Nodes) > 0 {
			exc = f.Nodes[0]
			break
		}
	}
	if exc == nil {
		return nil
	}
	if exc.Kind == syntax.KindCall {
		exc = exc.Child("function")
	}
	if exc == nil || !isAlias(exc, state.FromImports) {
		return nil
	}
	return []rewrite.Edit{rewrite.Replace(exc, "OSError")}
}

// handlerType returns the exception expression of an except clause,
// without its "as name" binding.
func handlerType(node *syntax.Node) *syntax.Node {
	for _, f := range node.Fields {
		if f.Name == "alias" || len(f.Nodes) == 0 {
			continue
		}
		n := f.Nodes[0]
		if n.Kind == syntax.KindBlock {
			return nil
		}
		if n.Kind == syntax.KindAsPattern {
			kids := n.NamedChildren()
			if len(kids) == 0 {
				return nil
			}
			n = kids[0]
		}
		return n
	}
	return nil
}

func visitExcept(state rewrite.State, node, _ *syntax.Node) []rewrite.Edit {
	exc := handlerType(node)
	if exc == nil {
		return nil
	}

	if inner := pyast.Unparen(exc); inner.Kind != syntax.KindTuple {
		if isAlias(inner, state.FromImports) {
			return []rewrite.Edit{rewrite.Replace(inner, "OSError")}
		}
		return nil
	}
	tuple := pyast.Unparen(exc)

	elts := tuple.NamedChildren()
	found := false
	for _, e := range elts {
		if isAlias(e, state.FromImports) {
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	var names []string
	seen := false
	for _, e := range elts {
		if isAlias(e, state.FromImports) || e.IsName("OSError") {
			if !seen {
				names = append(names, "OSError")
				seen = true
			}
			continue
		}
		names = append(names, e.Text)
	}

	src := names[0]
	if len(names) > 1 {
		src = "(" + strings.Join(names, ", ") + ")"
	}
	end := exc.End()
	return []rewrite.Edit{{
		Offset: exc.Offset(),
		Apply: func(i int, tokens *token.Tokens) {
			repl := src
			if len(names) == 1 && i > 0 && (*tokens)[i-1].Type == token.NAME {
				repl = " " + repl
			}
			j := tokens.IndexAt(i+1, end)
			tokens.Splice(i, j, token.Token{Type: token.Classify(src), Src: repl})
		},
	}}
}
