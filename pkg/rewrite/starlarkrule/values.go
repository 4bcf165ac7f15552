package starlarkrule

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/leapstack-labs/leapup/pkg/rewrite"
	"github.com/leapstack-labs/leapup/pkg/syntax"
)

// nodeValue exposes a syntax node to scripts as a read-only value.
type nodeValue struct {
	node *syntax.Node
}

var (
	_ starlark.Value    = (*nodeValue)(nil)
	_ starlark.HasAttrs = (*nodeValue)(nil)
)

func newNodeValue(n *syntax.Node) starlark.Value {
	if n == nil {
		return starlark.None
	}
	return &nodeValue{node: n}
}

func (v *nodeValue) String() string {
	return fmt.Sprintf("<node %s %d:%d>", v.node.Type, v.node.Span.Start.Line, v.node.Span.Start.Column)
}
func (v *nodeValue) Type() string         { return "node" }
func (v *nodeValue) Freeze()              {}
func (v *nodeValue) Truth() starlark.Bool { return starlark.True }
func (v *nodeValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: node")
}

var nodeAttrs = []string{"attr", "child", "children", "col", "dotted_name", "end_col", "end_line", "fields", "kind", "line", "named_children", "text"}

func (v *nodeValue) AttrNames() []string { return nodeAttrs }

func (v *nodeValue) Attr(name string) (starlark.Value, error) {
	n := v.node
	switch name {
	case "kind":
		return starlark.String(n.Type), nil
	case "text":
		return starlark.String(n.Text), nil
	case "line":
		return starlark.MakeInt(n.Span.Start.Line), nil
	case "col":
		return starlark.MakeInt(n.Span.Start.Column), nil
	case "end_line":
		return starlark.MakeInt(n.Span.End.Line), nil
	case "end_col":
		return starlark.MakeInt(n.Span.End.Column), nil
	case "dotted_name":
		return starlark.String(n.DottedName()), nil
	case "fields":
		names := make([]starlark.Value, 0, len(n.Fields))
		for _, f := range n.Fields {
			names = append(names, starlark.String(f.Name))
		}
		return starlark.NewList(names), nil
	case "named_children":
		return nodeList(n.NamedChildren()), nil
	case "child":
		return starlark.NewBuiltin("child", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var field string
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &field); err != nil {
				return nil, err
			}
			return newNodeValue(n.Child(field)), nil
		}), nil
	case "children":
		return starlark.NewBuiltin("children", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var field string
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &field); err != nil {
				return nil, err
			}
			return nodeList(n.Children(field)), nil
		}), nil
	case "attr":
		return starlark.NewBuiltin("attr", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var field string
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &field); err != nil {
				return nil, err
			}
			return starlark.String(n.Attr(field)), nil
		}), nil
	}
	return nil, nil
}

func nodeList(nodes []*syntax.Node) *starlark.List {
	vals := make([]starlark.Value, len(nodes))
	for i, c := range nodes {
		vals[i] = newNodeValue(c)
	}
	return starlark.NewList(vals)
}

func newStateValue(state rewrite.State) starlark.Value {
	s := state.Settings
	imports := state.FromImports
	return starlarkstruct.FromStringDict(starlark.String("state"), starlark.StringDict{
		"in_annotation":       starlark.Bool(state.InAnnotation),
		"min_version":         starlark.Tuple{starlark.MakeInt(s.MinVersion.Major), starlark.MakeInt(s.MinVersion.Minor)},
		"keep_percent_format": starlark.Bool(s.KeepPercentFormat),
		"keep_mock":           starlark.Bool(s.KeepMock),
		"keep_runtime_typing": starlark.Bool(s.KeepRuntimeTyping),
		"imported": starlark.NewBuiltin("imported", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var module, name string
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "module", &module, "name", &name); err != nil {
				return nil, err
			}
			return starlark.Bool(imports.Has(module, name)), nil
		}),
	})
}

// editValue carries a rewrite edit back from a script.
type editValue struct {
	edit rewrite.Edit
	desc string
}

func (e *editValue) String() string        { return e.desc }
func (e *editValue) Type() string          { return "edit" }
func (e *editValue) Freeze()               {}
func (e *editValue) Truth() starlark.Bool  { return starlark.True }
func (e *editValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: edit") }

// replaceBuiltin implements replace(node, src).
func replaceBuiltin(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var target starlark.Value
	var src string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "node", &target, "src", &src); err != nil {
		return nil, err
	}
	nv, ok := target.(*nodeValue)
	if !ok {
		return nil, fmt.Errorf("%s: expected node, got %s", b.Name(), target.Type())
	}
	return &editValue{
		edit: rewrite.Replace(nv.node, src),
		desc: fmt.Sprintf("<edit %s -> %q>", nv.node.Type, src),
	}, nil
}
