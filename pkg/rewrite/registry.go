package rewrite

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/leapup/pkg/syntax"
)

// Registry holds every discovered plugin, keyed by module name. It is built
// once by Discover and read-only afterwards, so it is safe to share.
type Registry struct {
	modules map[string]Module
	plugins map[string][]Plugin
	names   []string // sorted
}

// Discover loads every module exactly once and returns the registry.
// Malformed modules abort discovery.
func Discover(modules ...Module) (*Registry, error) {
	r := &Registry{
		modules: make(map[string]Module, len(modules)),
		plugins: make(map[string][]Plugin, len(modules)),
	}
	for _, m := range modules {
		if err := validateModule(m); err != nil {
			return nil, err
		}
		if _, dup := r.modules[m.Name]; dup {
			return nil, fmt.Errorf("%w: %q registered twice", ErrInvalidModule, m.Name)
		}
		r.modules[m.Name] = m
		for _, reg := range m.Registrations {
			r.plugins[m.Name] = append(r.plugins[m.Name], Plugin{Name: m.Name, Kind: reg.Kind, Func: reg.Func})
		}
		r.names = append(r.names, m.Name)
	}
	sort.Strings(r.names)
	return r, nil
}

func validateModule(m Module) error {
	if !isModuleName(m.Name) {
		return fmt.Errorf("%w: invalid name %q", ErrInvalidModule, m.Name)
	}
	for i, reg := range m.Registrations {
		if reg.Func == nil {
			return fmt.Errorf("%w: %s registration %d has no function", ErrInvalidModule, m.Name, i)
		}
		if !reg.Kind.IsValid() || reg.Kind == syntax.KindOther {
			return fmt.Errorf("%w: %s registration %d has invalid kind %d", ErrInvalidModule, m.Name, i, reg.Kind)
		}
	}
	return nil
}

// isModuleName accepts lower-case identifiers such as "open_mode".
func isModuleName(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c == '_':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// Names returns the sorted module names.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Has returns true if a module with the given name was discovered.
func (r *Registry) Has(name string) bool {
	_, ok := r.modules[name]
	return ok
}

// Module returns the module with the given name.
func (r *Registry) Module(name string) (Module, bool) {
	m, ok := r.modules[name]
	return m, ok
}

// Plugins returns the plugins of one module in registration order.
func (r *Registry) Plugins(name string) []Plugin {
	return r.plugins[name]
}

// Len returns the number of modules.
func (r *Registry) Len() int {
	return len(r.names)
}
