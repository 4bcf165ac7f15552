package rewrite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapup/pkg/token"
)

var (
	// ErrConflictingPluginSets is returned when both an enabled and a
	// disabled plugin set are supplied.
	ErrConflictingPluginSets = errors.New("enabled and disabled plugin sets are mutually exclusive")

	// ErrInvalidModule is returned by Discover for malformed modules.
	ErrInvalidModule = errors.New("invalid rewrite module")
)

// UnknownPluginsError reports every plugin name that does not match a
// discovered module.
type UnknownPluginsError struct {
	Invalid []string // sorted
	Valid   []string // sorted
}

func (e *UnknownPluginsError) Error() string {
	return fmt.Sprintf("invalid plugins: %s, valid plugins include: %s", quoteList(e.Invalid), quoteList(e.Valid))
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// PluginError is the panic value of a plugin that failed while inspecting a
// node. Visit does not recover it.
type PluginError struct {
	Plugin string
	Offset token.Offset
	Err    error
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %s failed at %d:%d: %v", e.Plugin, e.Offset.Line, e.Offset.Col, e.Err)
}

func (e *PluginError) Unwrap() error {
	return e.Err
}
