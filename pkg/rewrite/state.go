package rewrite

import "sort"

// RecordedModules are the modules whose unaliased from-imports are tracked
// during traversal.
var RecordedModules = map[string]bool{
	"__future__":        true,
	"os.path":           true,
	"functools":         true,
	"mmap":              true,
	"select":            true,
	"six":               true,
	"six.moves":         true,
	"socket":            true,
	"subprocess":        true,
	"sys":               true,
	"typing":            true,
	"typing_extensions": true,
}

// FromImports accumulates the names imported without an alias from recorded
// modules. One instance is shared by the whole traversal; plugins only read
// it.
type FromImports struct {
	names map[string]map[string]struct{}
}

// NewFromImports returns an empty accumulator.
func NewFromImports() *FromImports {
	return &FromImports{names: make(map[string]map[string]struct{})}
}

// Has returns true if name has been imported from module so far.
func (f *FromImports) Has(module, name string) bool {
	_, ok := f.names[module][name]
	return ok
}

// Names returns the sorted names imported from module so far.
func (f *FromImports) Names(module string) []string {
	out := make([]string, 0, len(f.names[module]))
	for n := range f.names[module] {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Modules returns the sorted modules that have been imported from.
func (f *FromImports) Modules() []string {
	out := make([]string, 0, len(f.names))
	for m := range f.names {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func (f *FromImports) record(module string, names []string) {
	set, ok := f.names[module]
	if !ok {
		set = make(map[string]struct{}, len(names))
		f.names[module] = set
	}
	for _, n := range names {
		set[n] = struct{}{}
	}
}

// State is the traversal context handed to plugins. It is copied per
// branch: InAnnotation changes only for the subtree below an annotation,
// while Settings and FromImports are shared by every copy.
type State struct {
	Settings     *Settings
	FromImports  *FromImports
	InAnnotation bool
}
