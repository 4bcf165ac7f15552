package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/leapstack-labs/leapup/pkg/syntax"
	"github.com/leapstack-labs/leapup/pkg/token"
)

type converter struct {
	src   string
	lines *token.LineIndex
}

func (c *converter) node(ts *sitter.Node) *syntax.Node {
	start, end := int(ts.StartByte()), int(ts.EndByte())
	kind := ts.Kind()
	return &syntax.Node{
		Kind: syntax.KindOf(kind),
		Type: kind,
		Text: c.src[start:end],
		Span: token.Span{Start: c.lines.Position(start), End: c.lines.Position(end)},
	}
}

// convert copies the named, non-extra nodes of the concrete tree. Anonymous
// children that occupy a field become attributes of their parent.
func (c *converter) convert(root *sitter.Node) *syntax.Node {
	type pending struct {
		ts  *sitter.Node
		out *syntax.Node
	}
	out := c.node(root)
	stack := []pending{{ts: root, out: out}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		count := p.ts.ChildCount()
		for i := uint(0); i < count; i++ {
			child := p.ts.Child(i)
			if child == nil || child.IsExtra() {
				continue
			}
			field := p.ts.FieldNameForChild(uint32(i))
			if !child.IsNamed() {
				if field != "" {
					p.out.SetAttr(field, c.src[child.StartByte():child.EndByte()])
				}
				continue
			}
			n := c.node(child)
			p.out.Add(field, n)
			stack = append(stack, pending{ts: child, out: n})
		}
	}
	return out
}

// tokenize emits one token per leaf of the concrete tree. String literals,
// including f-strings, are single tokens.
func (c *converter) tokenize(root *sitter.Node) token.Tokens {
	b := token.NewBuilder(c.src)
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.ChildCount() == 0 || n.Kind() == "string" {
			start, end := int(n.StartByte()), int(n.EndByte())
			text := c.src[start:end]
			if strings.TrimSpace(text) != "" {
				b.Add(leafType(n.Kind(), text), start, end)
			}
			continue
		}
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			if child := n.Child(uint(i)); child != nil {
				stack = append(stack, child)
			}
		}
	}
	return b.Tokens()
}

func leafType(kind, text string) token.TokenType {
	switch kind {
	case "string":
		return token.STRING
	case "comment":
		return token.COMMENT
	case "integer", "float":
		return token.NUMBER
	case "line_continuation":
		return token.ESCAPED_NL
	case "identifier":
		return token.NAME
	}
	if isWord(text) {
		return token.NAME
	}
	return token.OP
}

func isWord(s string) bool {
	for _, r := range s {
		if r != '_' && !('a' <= r && r <= 'z') && !('A' <= r && r <= 'Z') && !('0' <= r && r <= '9') && r < 0x80 {
			return false
		}
	}
	return s != ""
}
