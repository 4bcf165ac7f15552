package syntax

import "github.com/leapstack-labs/leapup/pkg/token"

// NewNode returns a leaf node of the given kind starting at (line, col). It
// is used to assemble trees outside the parser.
func NewNode(kind Kind, text string, line, col int) *Node {
	return &Node{
		Kind: kind,
		Type: kind.String(),
		Text: text,
		Span: token.Span{
			Start: token.Position{Line: line, Column: col},
			End:   token.Position{Line: line, Column: col + len(text)},
		},
	}
}

// Add appends children to the named field. Children appended right after a
// field of the same name join that field's list.
func (n *Node) Add(field string, children ...*Node) *Node {
	if k := len(n.Fields); k > 0 && n.Fields[k-1].Name == field {
		n.Fields[k-1].Nodes = append(n.Fields[k-1].Nodes, children...)
		return n
	}
	n.Fields = append(n.Fields, Field{Name: field, Nodes: children})
	return n
}

// SetAttr records an anonymous field child.
func (n *Node) SetAttr(name, text string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[name] = text
	return n
}

// Walk calls fn for n and its descendants in source order. When fn returns
// false the children of that node are skipped.
func (n *Node) Walk(fn func(*Node) bool) {
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(cur) {
			continue
		}
		for i := len(cur.Fields) - 1; i >= 0; i-- {
			nodes := cur.Fields[i].Nodes
			for j := len(nodes) - 1; j >= 0; j-- {
				stack = append(stack, nodes[j])
			}
		}
	}
}
