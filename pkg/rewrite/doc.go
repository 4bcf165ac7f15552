// Package rewrite provides the plugin-dispatch core of leapup.
//
// # Architecture
//
// A rewrite run has three phases:
//
//  1. Discovery: rule packages contribute Modules, and Discover assembles
//     them into an immutable Registry.
//  2. Resolution: Settings decide which modules are active and produce a
//     Table from node kind to plugin functions.
//  3. Traversal: Visit walks a syntax tree once and collects the Edits each
//     plugin asks for, keyed by the token offset they apply to.
//
// Applying the collected edits to a token stream is left to the caller (see
// package patch).
//
// # Writing a Rule
//
// A rule package exposes a Module and registers one function per node kind
// it cares about:
//
//	var Module = rewrite.NewModule("io_open",
//		rewrite.On(syntax.KindCall, visitCall),
//	)
//
//	func visitCall(state rewrite.State, node, parent *syntax.Node) []rewrite.Edit {
//		...
//	}
//
// Functions must not mutate the tree. They read traversal context from
// State: the resolved Settings, names imported so far from watched modules,
// and whether the node sits inside a type annotation.
//
// # Enabling and Disabling
//
// Settings hold an optional enabled set and an optional disabled set of
// module names. Supplying both is an error, as is naming a module that was
// never discovered.
package rewrite
