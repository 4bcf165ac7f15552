// Package starlarkrule loads rewrite rules written in Starlark.
//
// Every .star file in a rules directory becomes one rewrite module named
// after the file. A script registers functions for node kinds and returns
// edits built with replace():
//
//	description = "use range instead of xrange"
//
//	def visit_call(node, state, parent):
//	    fn = node.child("function")
//	    if fn and fn.kind == "identifier" and fn.text == "xrange":
//	        return [replace(fn, "range")]
//	    return []
//
//	register("call", visit_call)
package starlarkrule

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/leapstack-labs/leapup/pkg/rewrite"
	"github.com/leapstack-labs/leapup/pkg/syntax"
)

// Loader scans a directory for .star rule files.
type Loader struct {
	dir  string
	pool *threadPool
}

// NewLoader creates a loader for the specified directory.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir, pool: newThreadPool(8)}
}

// Load is shorthand for NewLoader(dir).Load().
func Load(dir string) ([]rewrite.Module, error) {
	return NewLoader(dir).Load()
}

// Load executes every .star file in the directory and returns one module per
// file. A missing directory yields no modules.
func (l *Loader) Load() ([]rewrite.Module, error) {
	info, err := os.Stat(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to access rules directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("rules path is not a directory: %s", l.dir)
	}

	files, err := filepath.Glob(filepath.Join(l.dir, "*.star"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan rules directory: %w", err)
	}

	modules := make([]rewrite.Module, 0, len(files))
	for _, file := range files {
		m, err := l.loadFile(file)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, nil
}

func (l *Loader) loadFile(path string) (rewrite.Module, error) {
	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from a glob of the rules directory
	if err != nil {
		return rewrite.Module{}, &LoadError{File: path, Message: fmt.Sprintf("failed to read file: %v", err)}
	}

	name := strings.TrimSuffix(filepath.Base(path), ".star")
	var regs []rewrite.Registration

	register := starlark.NewBuiltin("register", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var kindName string
		var fn starlark.Callable
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "kind", &kindName, "fn", &fn); err != nil {
			return nil, err
		}
		kind := syntax.KindOf(kindName)
		if kind == syntax.KindOther {
			return nil, fmt.Errorf("register: unknown node kind %q", kindName)
		}
		regs = append(regs, rewrite.On(kind, l.astFunc(name, fn)))
		return starlark.None, nil
	})

	predeclared := starlark.StringDict{
		"register": register,
		"replace":  starlark.NewBuiltin("replace", replaceBuiltin),
		"struct":   starlark.NewBuiltin("struct", starlarkstruct.Make),
	}

	thread := &starlark.Thread{
		Name:  fmt.Sprintf("load:%s", name),
		Print: func(_ *starlark.Thread, _ string) {},
	}
	globals, err := starlark.ExecFile(thread, path, content, predeclared) //nolint:staticcheck // SA1019: will migrate to ExecFileOptions later
	if err != nil {
		return rewrite.Module{}, &LoadError{File: path, Message: fmt.Sprintf("Starlark execution error: %v", err)}
	}
	globals.Freeze()

	m := rewrite.NewModule(name, regs...)
	if desc, ok := globals["description"].(starlark.String); ok {
		m = m.WithDescription(string(desc))
	}
	return m, nil
}

// astFunc adapts a Starlark callable to a rewrite function. Script errors
// panic with a *rewrite.PluginError.
func (l *Loader) astFunc(module string, fn starlark.Callable) rewrite.ASTFunc {
	return func(state rewrite.State, node, parent *syntax.Node) []rewrite.Edit {
		thread := l.pool.Get(module)
		defer l.pool.Put(thread)

		args := starlark.Tuple{newNodeValue(node), newStateValue(state), newNodeValue(parent)}
		res, err := starlark.Call(thread, fn, args, nil)
		if err == nil {
			var edits []rewrite.Edit
			if edits, err = toEdits(res); err == nil {
				return edits
			}
		}
		panic(&rewrite.PluginError{Plugin: module, Offset: node.Offset(), Err: err})
	}
}

func toEdits(v starlark.Value) ([]rewrite.Edit, error) {
	switch v := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case *editValue:
		return []rewrite.Edit{v.edit}, nil
	case starlark.Iterable:
		var edits []rewrite.Edit
		it := v.Iterate()
		defer it.Done()
		var x starlark.Value
		for it.Next(&x) {
			e, ok := x.(*editValue)
			if !ok {
				return nil, fmt.Errorf("expected edit, got %s", x.Type())
			}
			edits = append(edits, e.edit)
		}
		return edits, nil
	}
	return nil, fmt.Errorf("rule must return None, an edit or a list of edits, got %s", v.Type())
}

// LoadError represents an error loading a rule file.
type LoadError struct {
	File    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("rules/%s: %s", filepath.Base(e.File), e.Message)
}
