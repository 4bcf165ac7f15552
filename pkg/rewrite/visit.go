package rewrite

import "github.com/leapstack-labs/leapup/pkg/syntax"

type frame struct {
	state  State
	node   *syntax.Node
	parent *syntax.Node
}

// Visit walks the tree once in source pre-order and collects the edits of
// every plugin in table. Traversal uses an explicit stack, so tree depth is
// bounded only by memory.
//
// A node that is an absolute import-from of a recorded module adds its
// unaliased names to the shared FromImports after the node's own plugins
// ran, so plugins see only imports that precede them in the source.
func Visit(table *Table, tree *syntax.Tree, settings Settings) Edits {
	edits := make(Edits)
	if tree == nil || tree.Root == nil {
		return edits
	}

	initial := State{
		Settings:    &settings,
		FromImports: NewFromImports(),
	}
	stack := []frame{{state: initial, node: tree.Root, parent: tree.Root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, p := range table.For(f.node.Kind) {
			for _, ed := range p.Func(f.state, f.node, f.parent) {
				edits.add(ed)
			}
		}

		if imp, ok := syntax.ImportFromOf(f.node); ok && imp.Level == 0 && RecordedModules[imp.Module] {
			names := make([]string, 0, len(imp.Names))
			for _, n := range imp.Names {
				if n.AsName == "" {
					names = append(names, n.Name)
				}
			}
			f.state.FromImports.record(imp.Module, names)
		}

		for i := len(f.node.Fields) - 1; i >= 0; i-- {
			field := f.node.Fields[i]
			next := f.state
			if syntax.IsAnnotationField(field.Name) {
				next.InAnnotation = true
			}
			for j := len(field.Nodes) - 1; j >= 0; j-- {
				stack = append(stack, frame{state: next, node: field.Nodes[j], parent: f.node})
			}
		}
	}
	return edits
}
