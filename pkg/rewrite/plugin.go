package rewrite

import (
	"github.com/leapstack-labs/leapup/pkg/syntax"
	"github.com/leapstack-labs/leapup/pkg/token"
)

// TokenFunc rewrites the token stream at index i, the token the edit was
// registered for. It may splice tokens at or after i.
type TokenFunc func(i int, tokens *token.Tokens)

// Edit is a deferred token rewrite anchored at a source offset.
type Edit struct {
	Offset token.Offset
	Apply  TokenFunc
}

// ASTFunc inspects one node and returns the edits it wants applied. The
// parent of the root node is the root itself.
type ASTFunc func(state State, node, parent *syntax.Node) []Edit

// Plugin is one registered rewrite function.
type Plugin struct {
	Name string // owning module's short name
	Kind syntax.Kind
	Func ASTFunc
}

// Registration binds a function to a node kind inside a Module.
type Registration struct {
	Kind syntax.Kind
	Func ASTFunc
}

// On registers fn for nodes of exactly the given kind.
func On(kind syntax.Kind, fn ASTFunc) Registration {
	return Registration{Kind: kind, Func: fn}
}

// Module is a named group of registrations contributed by one rule package.
type Module struct {
	Name          string
	Description   string
	Registrations []Registration
}

// NewModule returns a module with the given short name.
func NewModule(name string, regs ...Registration) Module {
	return Module{Name: name, Registrations: regs}
}

// WithDescription returns a copy of m with a one-line description.
func (m Module) WithDescription(desc string) Module {
	m.Description = desc
	return m
}

// Kinds returns the node kinds the module subscribes to, in registration
// order and without duplicates.
func (m Module) Kinds() []syntax.Kind {
	seen := make(map[syntax.Kind]bool, len(m.Registrations))
	var kinds []syntax.Kind
	for _, r := range m.Registrations {
		if !seen[r.Kind] {
			seen[r.Kind] = true
			kinds = append(kinds, r.Kind)
		}
	}
	return kinds
}
