// Package rewritetest runs rewrite modules over Python source in tests.
package rewritetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapup/pkg/parser"
	"github.com/leapstack-labs/leapup/pkg/patch"
	"github.com/leapstack-labs/leapup/pkg/rewrite"
)

// Fix parses src, visits it with modules under settings, and returns the
// patched source.
func Fix(t testing.TB, src string, settings rewrite.Settings, modules ...rewrite.Module) string {
	t.Helper()

	reg, err := rewrite.Discover(modules...)
	require.NoError(t, err)
	table, err := settings.PluginFunctions(reg)
	require.NoError(t, err)

	tree, toks, err := parser.Parse(src)
	require.NoError(t, err, "parse %q", src)

	edits := rewrite.Visit(table, tree, settings)
	return patch.Apply(toks, edits).String()
}

// Case is one rewrite expectation. An empty Want means the source must come
// back unchanged.
type Case struct {
	Name     string
	Src      string
	Want     string
	Settings *rewrite.Settings
}

// Run checks every case against module.
func Run(t *testing.T, module rewrite.Module, cases []Case) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			settings := rewrite.DefaultSettings()
			if tc.Settings != nil {
				settings = *tc.Settings
			}
			want := tc.Want
			if want == "" {
				want = tc.Src
			}
			assert.Equal(t, want, Fix(t, tc.Src, settings, module))
		})
	}
}

// MinVersion returns default settings targeting major.minor.
func MinVersion(major, minor int) *rewrite.Settings {
	s := rewrite.DefaultSettings()
	s.MinVersion = rewrite.Version{Major: major, Minor: minor}
	return &s
}
