// Package syntax provides the owned Python syntax tree that rewrite plugins
// inspect.
//
// Nodes are tagged with a Kind and keep their grammar fields in source
// order. Only named grammar nodes become Nodes; anonymous children that sit
// in a named field (operators, for example) are kept as attributes.
package syntax

import (
	"strings"

	"github.com/leapstack-labs/leapup/pkg/token"
)

// Field is one named slot of a node. A slot holds either a single child or a
// list of children.
type Field struct {
	Name  string
	Nodes []*Node
}

// Node is a syntax tree node.
type Node struct {
	Kind Kind
	// Type is the grammar name; it differs from Kind.String() only for
	// KindOther nodes.
	Type   string
	Text   string
	Span   token.Span
	Fields []Field
	Attrs  map[string]string
}

// Tree is a parsed source file.
type Tree struct {
	Root   *Node
	Source string
}

// Offset returns the position key of the node's first token.
func (n *Node) Offset() token.Offset {
	return n.Span.Start.Key()
}

// End returns the position key just past the node's last token.
func (n *Node) End() token.Offset {
	return n.Span.End.Key()
}

// Is returns true if the node has the given kind.
func (n *Node) Is(k Kind) bool {
	return n != nil && n.Kind == k
}

// Child returns the first child in the named field, or nil.
func (n *Node) Child(field string) *Node {
	for _, f := range n.Fields {
		if f.Name == field && len(f.Nodes) > 0 {
			return f.Nodes[0]
		}
	}
	return nil
}

// Children returns every child in fields with the given name.
func (n *Node) Children(field string) []*Node {
	var out []*Node
	for _, f := range n.Fields {
		if f.Name == field {
			out = append(out, f.Nodes...)
		}
	}
	return out
}

// NamedChildren returns all children in source order.
func (n *Node) NamedChildren() []*Node {
	var out []*Node
	for _, f := range n.Fields {
		out = append(out, f.Nodes...)
	}
	return out
}

// Attr returns the text of an anonymous field child, such as the operator of
// a binary expression.
func (n *Node) Attr(name string) string {
	return n.Attrs[name]
}

// IsName returns true if n is an identifier with the given text.
func (n *Node) IsName(name string) bool {
	return n.Is(KindIdentifier) && n.Text == name
}

// DottedName returns the dotted text of an identifier, attribute chain or
// dotted_name, with interior whitespace removed. It returns "" for any other
// node.
func (n *Node) DottedName() string {
	switch n.Kind {
	case KindIdentifier:
		return n.Text
	case KindDottedName:
		parts := make([]string, 0, len(n.Fields))
		for _, c := range n.NamedChildren() {
			if c.Kind == KindIdentifier {
				parts = append(parts, c.Text)
			}
		}
		return strings.Join(parts, ".")
	case KindAttribute:
		obj, attr := n.Child("object"), n.Child("attribute")
		if obj == nil || attr == nil {
			return ""
		}
		head := obj.DottedName()
		if head == "" {
			return ""
		}
		return head + "." + attr.Text
	}
	return ""
}

// annotationFields are the fields whose subtrees are type annotations.
var annotationFields = map[string]bool{
	"type":        true, // typed parameters, annotated assignments
	"return_type": true, // function definitions
}

// IsAnnotationField returns true if children of the named field are in an
// annotation context.
func IsAnnotationField(name string) bool {
	return annotationFields[name]
}
