// Package mock rewrites uses of the mock backport to unittest.mock.
package mock

import (
	"github.com/leapstack-labs/leapup/pkg/rewrite"
	"github.com/leapstack-labs/leapup/pkg/rewrite/plugins/internal/pyast"
	"github.com/leapstack-labs/leapup/pkg/syntax"
)

// Module is the mock rule.
var Module = rewrite.NewModule("mock",
	rewrite.On(syntax.KindImportStatement, visitImport),
	rewrite.On(syntax.KindImportFromStatement, visitImportFrom),
	rewrite.On(syntax.KindAttribute, visitAttribute),
).WithDescription("import mock from unittest instead of the mock backport")

var mockModules = map[string]bool{"mock": true, "mock.mock": true}

func visitImport(state rewrite.State, node, _ *syntax.Node) []rewrite.Edit {
	if state.Settings.KeepMock {
		return nil
	}
	names := node.Children("name")
	if len(names) != 1 || names[0].Kind != syntax.KindDottedName || !mockModules[names[0].DottedName()] {
		return nil
	}
	return []rewrite.Edit{rewrite.Replace(node, "from unittest import mock")}
}

func visitImportFrom(state rewrite.State, node, _ *syntax.Node) []rewrite.Edit {
	if state.Settings.KeepMock {
		return nil
	}
	imp, ok := syntax.ImportFromOf(node)
	if !ok || imp.Level != 0 || !mockModules[imp.Module] {
		return nil
	}
	return []rewrite.Edit{rewrite.Replace(node.Child("module_name"), "unittest.mock")}
}

func visitAttribute(state rewrite.State, node, _ *syntax.Node) []rewrite.Edit {
	if state.Settings.KeepMock || pyast.DottedName(node) != "mock.mock" {
		return nil
	}
	return []rewrite.Edit{rewrite.Replace(node, "mock")}
}
