// Package parser turns Python source into a syntax tree and the matching
// lossless token stream, using the tree-sitter Python grammar.
package parser

import (
	"errors"
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/leapstack-labs/leapup/pkg/syntax"
	"github.com/leapstack-labs/leapup/pkg/token"
)

// ErrSyntax is wrapped by errors for source the grammar cannot parse.
var ErrSyntax = errors.New("syntax error")

// SyntaxError locates the first parse error in a source file.
type SyntaxError struct {
	Pos     token.Position
	Snippet string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d near %q", e.Pos.Line, e.Pos.Column+1, e.Snippet)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

var language = sync.OnceValue(func() *sitter.Language {
	return sitter.NewLanguage(python.Language())
})

// Parse parses src. The returned tokens join back to src exactly, and every
// syntax node starts at the offset of one of them.
func Parse(src string) (*syntax.Tree, token.Tokens, error) {
	p := sitter.NewParser()
	defer p.Close()
	if err := p.SetLanguage(language()); err != nil {
		return nil, nil, fmt.Errorf("load python grammar: %w", err)
	}

	data := []byte(src)
	tree := p.Parse(data, nil)
	if tree == nil {
		return nil, nil, fmt.Errorf("parse: %w", ErrSyntax)
	}
	defer tree.Close()

	root := tree.RootNode()
	lines := token.NewLineIndex(src)
	if root.HasError() {
		return nil, nil, syntaxError(root, src, lines)
	}

	c := converter{src: src, lines: lines}
	return &syntax.Tree{Root: c.convert(root), Source: src}, c.tokenize(root), nil
}

// syntaxError finds the first ERROR or MISSING node in source order.
func syntaxError(root *sitter.Node, src string, lines *token.LineIndex) error {
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.IsError() || n.IsMissing() {
			start, end := int(n.StartByte()), int(n.EndByte())
			if end > start+20 {
				end = start + 20
			}
			return &SyntaxError{Pos: lines.Position(start), Snippet: src[start:end]}
		}
		if !n.HasError() {
			continue
		}
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, n.Child(uint(i)))
		}
	}
	return &SyntaxError{Pos: token.Position{Line: 1}}
}
