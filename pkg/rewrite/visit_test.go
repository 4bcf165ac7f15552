package rewrite

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapup/pkg/syntax"
	"github.com/leapstack-labs/leapup/pkg/token"
)

// sampleTree builds:
//
//	from typing import List, Dict as D
//	from .typing import Set
//	from collections import OrderedDict
//	def f(x: List, y) -> List:
//	    return List
func sampleTree() *syntax.Tree {
	root := syntax.NewNode(syntax.KindModule, "", 1, 0)
	root.Add("",
		syntax.NewImportFrom(1, 0, "typing", 0, syntax.ImportedName{Name: "List"}, syntax.ImportedName{Name: "Dict", AsName: "D"}),
		syntax.NewImportFrom(2, 0, "typing", 1, syntax.ImportedName{Name: "Set"}),
		syntax.NewImportFrom(3, 0, "collections", 0, syntax.ImportedName{Name: "OrderedDict"}),
	)

	fn := syntax.NewNode(syntax.KindFunctionDefinition, "def f(x: List, y) -> List:\n    return List", 4, 0)
	fn.Add("name", syntax.NewNode(syntax.KindIdentifier, "f", 4, 4))
	params := syntax.NewNode(syntax.KindParameters, "(x: List, y)", 4, 5)
	typed := syntax.NewNode(syntax.KindTypedParameter, "x: List", 4, 6)
	typed.Add("", syntax.NewNode(syntax.KindIdentifier, "x", 4, 6))
	typ := syntax.NewNode(syntax.KindType, "List", 4, 9)
	typ.Add("", syntax.NewNode(syntax.KindIdentifier, "List", 4, 9))
	typed.Add("type", typ)
	params.Add("", typed, syntax.NewNode(syntax.KindIdentifier, "y", 4, 15))
	fn.Add("parameters", params)
	ret := syntax.NewNode(syntax.KindType, "List", 4, 21)
	ret.Add("", syntax.NewNode(syntax.KindIdentifier, "List", 4, 21))
	fn.Add("return_type", ret)
	body := syntax.NewNode(syntax.KindBlock, "return List", 5, 4)
	stmt := syntax.NewNode(syntax.KindReturnStatement, "return List", 5, 4)
	stmt.Add("", syntax.NewNode(syntax.KindIdentifier, "List", 5, 11))
	body.Add("", stmt)
	fn.Add("body", body)
	root.Add("", fn)

	return &syntax.Tree{Root: root}
}

func countNodes(n *syntax.Node) int {
	count := 0
	n.Walk(func(*syntax.Node) bool { count++; return true })
	return count
}

type observation struct {
	kind         syntax.Kind
	text         string
	parent       *syntax.Node
	inAnnotation bool
	typingNames  []string
}

func observe(t *testing.T, settings Settings, tree *syntax.Tree, kinds ...syntax.Kind) []observation {
	t.Helper()
	var seen []observation
	fn := func(state State, node, parent *syntax.Node) []Edit {
		seen = append(seen, observation{
			kind:         node.Kind,
			text:         node.Text,
			parent:       parent,
			inAnnotation: state.InAnnotation,
			typingNames:  state.FromImports.Names("typing"),
		})
		return nil
	}
	var regs []Registration
	for _, k := range kinds {
		regs = append(regs, On(k, fn))
	}
	reg, err := Discover(NewModule("observer", regs...))
	require.NoError(t, err)
	table, err := settings.PluginFunctions(reg)
	require.NoError(t, err)
	Visit(table, tree, settings)
	return seen
}

func allKinds() []syntax.Kind {
	var kinds []syntax.Kind
	for k := 1; k < syntax.NumKinds; k++ {
		kinds = append(kinds, syntax.Kind(k))
	}
	return kinds
}

func TestVisitEveryNodeOnce(t *testing.T) {
	tree := sampleTree()
	seen := observe(t, DefaultSettings(), tree, allKinds()...)
	assert.Len(t, seen, countNodes(tree.Root))

	require.NotEmpty(t, seen)
	assert.Equal(t, syntax.KindModule, seen[0].kind)
	assert.Same(t, tree.Root, seen[0].parent, "root is its own parent")
}

func TestVisitSourceOrder(t *testing.T) {
	// f(x)
	// pass
	root := syntax.NewNode(syntax.KindModule, "", 1, 0)
	stmt := syntax.NewNode(syntax.KindExpressionStatement, "f(x)", 1, 0)
	call := syntax.NewNode(syntax.KindCall, "f(x)", 1, 0)
	call.Add("function", syntax.NewNode(syntax.KindIdentifier, "f", 1, 0))
	args := syntax.NewNode(syntax.KindArgumentList, "(x)", 1, 1)
	args.Add("", syntax.NewNode(syntax.KindIdentifier, "x", 1, 2))
	call.Add("arguments", args)
	stmt.Add("", call)
	root.Add("", stmt, syntax.NewNode(syntax.KindPassStatement, "pass", 2, 0))

	seen := observe(t, DefaultSettings(), &syntax.Tree{Root: root}, allKinds()...)
	got := make([]string, len(seen))
	for i, o := range seen {
		got[i] = o.kind.String() + " " + o.text
	}
	assert.Equal(t, []string{
		"module ",
		"expression_statement f(x)",
		"call f(x)",
		"identifier f",
		"argument_list (x)",
		"identifier x",
		"pass_statement pass",
	}, got)
}

func TestVisitAnnotationContext(t *testing.T) {
	seen := observe(t, DefaultSettings(), sampleTree(), syntax.KindIdentifier)

	var lists []observation
	for _, o := range seen {
		if o.text == "List" {
			lists = append(lists, o)
		}
	}
	require.Len(t, lists, 4)
	assert.False(t, lists[0].inAnnotation, "import")
	assert.True(t, lists[1].inAnnotation, "parameter annotation")
	assert.True(t, lists[2].inAnnotation, "return annotation")
	assert.False(t, lists[3].inAnnotation, "function body")

	for _, o := range seen {
		if o.text == "x" || o.text == "y" || o.text == "f" {
			assert.False(t, o.inAnnotation, "%s is outside the annotation", o.text)
		}
	}
}

func TestVisitTracksFromImports(t *testing.T) {
	seen := observe(t, DefaultSettings(), sampleTree(), syntax.KindImportFromStatement, syntax.KindReturnStatement)
	require.Len(t, seen, 4)

	// An import's own plugins run before it is recorded.
	assert.Empty(t, seen[0].typingNames)
	// Aliased and relative imports are not recorded.
	assert.Equal(t, []string{"List"}, seen[1].typingNames)
	assert.Equal(t, []string{"List"}, seen[2].typingNames)
	assert.Equal(t, []string{"List"}, seen[3].typingNames)
}

func TestVisitRecordsOnlyWatchedModules(t *testing.T) {
	root := syntax.NewNode(syntax.KindModule, "", 1, 0)
	root.Add("",
		syntax.NewImportFrom(1, 0, "typing", 0, syntax.ImportedName{Name: "List"}, syntax.ImportedName{Name: "Dict"}),
		syntax.NewImportFrom(2, 0, "collections", 0, syntax.ImportedName{Name: "OrderedDict"}),
		syntax.NewImportFrom(3, 0, "typing", 1, syntax.ImportedName{Name: "Set"}),
		syntax.NewNode(syntax.KindPassStatement, "pass", 4, 0),
	)

	var imports *FromImports
	fn := func(state State, _, _ *syntax.Node) []Edit {
		imports = state.FromImports
		return nil
	}
	reg, err := Discover(NewModule("recorder", On(syntax.KindPassStatement, fn)))
	require.NoError(t, err)
	table, err := DefaultSettings().PluginFunctions(reg)
	require.NoError(t, err)
	Visit(table, &syntax.Tree{Root: root}, DefaultSettings())

	require.NotNil(t, imports)
	assert.Equal(t, []string{"typing"}, imports.Modules())
	assert.Equal(t, []string{"Dict", "List"}, imports.Names("typing"))
	assert.True(t, imports.Has("typing", "List"))
	assert.False(t, imports.Has("typing", "Set"))
	assert.False(t, imports.Has("collections", "OrderedDict"))
}

func TestVisitOrdersModulesOnOneNode(t *testing.T) {
	var log []string
	edit := func(tag string) TokenFunc {
		return func(int, *token.Tokens) { log = append(log, tag) }
	}
	first := func(_ State, node, _ *syntax.Node) []Edit {
		return []Edit{
			{Offset: node.Offset(), Apply: edit("first:" + node.Text)},
			{Offset: node.Offset(), Apply: edit("first-again:" + node.Text)},
		}
	}
	second := func(_ State, node, _ *syntax.Node) []Edit {
		return []Edit{{Offset: node.Offset(), Apply: edit("second:" + node.Text)}}
	}
	reg, err := Discover(
		NewModule("a_first", On(syntax.KindIdentifier, first)),
		NewModule("b_second", On(syntax.KindIdentifier, second)),
	)
	require.NoError(t, err)
	table, err := DefaultSettings().PluginFunctions(reg)
	require.NoError(t, err)

	// The return annotation is the only identifier at 4:21.
	edits := Visit(table, sampleTree(), DefaultSettings())
	fns := edits[token.Offset{Line: 4, Col: 21}]
	require.Len(t, fns, 3)
	for _, fn := range fns {
		fn(0, nil)
	}
	assert.Equal(t, []string{"first:List", "first-again:List", "second:List"}, log)

	for off, fns := range edits {
		assert.NotEmpty(t, fns, "offset %v", off)
	}
	assert.Equal(t, 3*len(edits), edits.Count())
}

func TestVisitOrdersSiblingsAtSharedOffset(t *testing.T) {
	// x
	// pass
	root := syntax.NewNode(syntax.KindModule, "", 1, 0)
	root.Add("",
		syntax.NewNode(syntax.KindExpressionStatement, "x", 1, 0),
		syntax.NewNode(syntax.KindPassStatement, "pass", 2, 0),
	)

	var log []string
	shared := token.Offset{Line: 1, Col: 0}
	emit := func(tag string) ASTFunc {
		return func(State, *syntax.Node, *syntax.Node) []Edit {
			return []Edit{{Offset: shared, Apply: func(int, *token.Tokens) { log = append(log, tag) }}}
		}
	}
	// Module order is the reverse of visit order.
	reg, err := Discover(
		NewModule("a_pass", On(syntax.KindPassStatement, emit("pass"))),
		NewModule("b_expr", On(syntax.KindExpressionStatement, emit("expr"))),
	)
	require.NoError(t, err)
	table, err := DefaultSettings().PluginFunctions(reg)
	require.NoError(t, err)

	edits := Visit(table, &syntax.Tree{Root: root}, DefaultSettings())
	require.Len(t, edits, 1)
	for _, fn := range edits[shared] {
		fn(0, nil)
	}
	assert.Equal(t, []string{"expr", "pass"}, log)
}

func TestVisitImportFromEdits(t *testing.T) {
	root := syntax.NewNode(syntax.KindModule, "", 1, 0)
	root.Add("",
		syntax.NewImportFrom(1, 0, "typing", 0, syntax.ImportedName{Name: "List"}),
		syntax.NewImportFrom(2, 0, "collections", 0, syntax.ImportedName{Name: "OrderedDict"}),
		syntax.NewImportFrom(3, 0, "os.path", 0, syntax.ImportedName{Name: "join"}),
	)

	var last *FromImports
	fn := func(state State, node, _ *syntax.Node) []Edit {
		last = state.FromImports
		return []Edit{{Offset: node.Offset(), Apply: func(int, *token.Tokens) {}}}
	}
	reg, err := Discover(NewModule("imports", On(syntax.KindImportFromStatement, fn)))
	require.NoError(t, err)
	table, err := DefaultSettings().PluginFunctions(reg)
	require.NoError(t, err)

	edits := Visit(table, &syntax.Tree{Root: root}, DefaultSettings())
	assert.Equal(t, []token.Offset{{Line: 1, Col: 0}, {Line: 2, Col: 0}, {Line: 3, Col: 0}}, edits.Offsets())
	for off, fns := range edits {
		assert.Len(t, fns, 1, "offset %v", off)
	}

	require.NotNil(t, last)
	assert.Equal(t, []string{"os.path", "typing"}, last.Modules())
	assert.Equal(t, []string{"join"}, last.Names("os.path"))
}

func TestVisitRecordsWildcardImport(t *testing.T) {
	root := syntax.NewNode(syntax.KindModule, "", 1, 0)
	root.Add("",
		syntax.NewImportFrom(1, 0, "typing", 0, syntax.ImportedName{Name: "*"}),
		syntax.NewNode(syntax.KindPassStatement, "pass", 2, 0),
	)

	seen := observe(t, DefaultSettings(), &syntax.Tree{Root: root}, syntax.KindPassStatement)
	require.Len(t, seen, 1)
	assert.Equal(t, []string{"*"}, seen[0].typingNames)
}

func TestVisitIsDeterministic(t *testing.T) {
	settings := DefaultSettings()
	run := func() []string {
		var out []string
		fn := func(state State, node, _ *syntax.Node) []Edit {
			out = append(out, fmt.Sprintf("%s@%v:%v:%v", node.Text, node.Offset(), state.InAnnotation, state.FromImports.Names("typing")))
			return []Edit{{Offset: node.Offset(), Apply: func(int, *token.Tokens) {}}}
		}
		reg, err := Discover(NewModule("recorder", On(syntax.KindIdentifier, fn)))
		require.NoError(t, err)
		table, err := settings.PluginFunctions(reg)
		require.NoError(t, err)
		edits := Visit(table, sampleTree(), settings)
		for _, off := range edits.Offsets() {
			out = append(out, fmt.Sprintf("%v=%d", off, len(edits[off])))
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestVisitEmptyTable(t *testing.T) {
	reg, err := Discover()
	require.NoError(t, err)
	table, err := DefaultSettings().PluginFunctions(reg)
	require.NoError(t, err)
	assert.Empty(t, Visit(table, sampleTree(), DefaultSettings()))
	assert.Empty(t, Visit(table, nil, DefaultSettings()))
}

func TestVisitDeepTree(t *testing.T) {
	root := syntax.NewNode(syntax.KindModule, "", 1, 0)
	cur := root
	const depth = 100000
	for i := 0; i < depth; i++ {
		next := syntax.NewNode(syntax.KindParenthesizedExpression, "", 1, i)
		cur.Add("", next)
		cur = next
	}
	seen := observe(t, DefaultSettings(), &syntax.Tree{Root: root}, syntax.KindParenthesizedExpression)
	assert.Len(t, seen, depth)
}
