package rewrite

import (
	"sort"

	"github.com/leapstack-labs/leapup/pkg/syntax"
)

// NameSet is a set of plugin names. A nil or empty set counts as absent.
type NameSet map[string]struct{}

// NewNameSet returns a set containing names.
func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has returns true if name is in the set.
func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the members in sorted order.
func (s NameSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Settings is the immutable configuration of one rewrite run.
type Settings struct {
	MinVersion        Version
	KeepPercentFormat bool
	KeepMock          bool
	KeepRuntimeTyping bool
	EnabledPlugins    NameSet
	DisabledPlugins   NameSet
}

// DefaultSettings returns settings with every plugin enabled.
func DefaultSettings() Settings {
	return Settings{MinVersion: DefaultMinVersion}
}

// IsPluginEnabled reports whether the named plugin is active.
func (s Settings) IsPluginEnabled(name string) (bool, error) {
	switch {
	case len(s.EnabledPlugins) > 0 && len(s.DisabledPlugins) > 0:
		return false, ErrConflictingPluginSets
	case len(s.EnabledPlugins) > 0:
		return s.EnabledPlugins.Has(name), nil
	case len(s.DisabledPlugins) > 0:
		return !s.DisabledPlugins.Has(name), nil
	default:
		return true, nil
	}
}

// PluginFunctions validates the plugin sets against reg and returns the
// table of active plugin functions.
func (s Settings) PluginFunctions(reg *Registry) (*Table, error) {
	if len(s.EnabledPlugins) > 0 && len(s.DisabledPlugins) > 0 {
		return nil, ErrConflictingPluginSets
	}

	var invalid []string
	for _, set := range []NameSet{s.EnabledPlugins, s.DisabledPlugins} {
		for name := range set {
			if !reg.Has(name) {
				invalid = append(invalid, name)
			}
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return nil, &UnknownPluginsError{Invalid: invalid, Valid: reg.Names()}
	}

	t := &Table{}
	for _, name := range reg.Names() {
		enabled, err := s.IsPluginEnabled(name)
		if err != nil {
			return nil, err
		}
		if !enabled {
			continue
		}
		t.modules = append(t.modules, name)
		for _, p := range reg.Plugins(name) {
			t.byKind[p.Kind] = append(t.byKind[p.Kind], p)
		}
	}
	return t, nil
}

// Table maps each node kind to the active plugins for it, in module-name
// then registration order.
type Table struct {
	byKind  [syntax.NumKinds][]Plugin
	modules []string
}

// For returns the plugins registered for kind.
func (t *Table) For(kind syntax.Kind) []Plugin {
	if !kind.IsValid() {
		return nil
	}
	return t.byKind[kind]
}

// Kinds returns the kinds that have at least one plugin.
func (t *Table) Kinds() []syntax.Kind {
	var kinds []syntax.Kind
	for k, ps := range t.byKind {
		if len(ps) > 0 {
			kinds = append(kinds, syntax.Kind(k))
		}
	}
	return kinds
}

// Modules returns the names of the active modules.
func (t *Table) Modules() []string {
	return append([]string(nil), t.modules...)
}
