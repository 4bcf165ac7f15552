package engine

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapup/internal/testutil"
	"github.com/leapstack-labs/leapup/pkg/rewrite"
	"github.com/leapstack-labs/leapup/pkg/syntax"
)

const legacySource = `import io

with io.open("data.txt", "rU") as f:
    pass

try:
    pass
except IOError:
    pass
`

const modernSource = `import io

with open("data.txt", "r") as f:
    pass

try:
    pass
except OSError:
    pass
`

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	if cfg.Settings.MinVersion == (rewrite.Version{}) {
		cfg.Settings.MinVersion = rewrite.DefaultMinVersion
	}
	cfg.Logger = testutil.NewTestLogger(t)
	e, err := New(cfg)
	require.NoError(t, err)
	return e
}

func failingModule() rewrite.Module {
	return rewrite.NewModule("explode", rewrite.On(syntax.KindCall,
		func(_ rewrite.State, node, _ *syntax.Node) []rewrite.Edit {
			panic(&rewrite.PluginError{Plugin: "explode", Offset: node.Offset(), Err: errors.New("boom")})
		}))
}

func TestNew(t *testing.T) {
	e := newTestEngine(t, Config{Settings: rewrite.DefaultSettings()})
	assert.True(t, e.Registry().Has("io_open"))
	assert.True(t, e.Registry().Has("oserror_aliases"))
	assert.Equal(t, rewrite.DefaultMinVersion, e.Settings().MinVersion)
}

func TestNew_ResolutionErrors(t *testing.T) {
	t.Run("conflicting sets", func(t *testing.T) {
		s := rewrite.DefaultSettings()
		s.EnabledPlugins = rewrite.NewNameSet("io_open")
		s.DisabledPlugins = rewrite.NewNameSet("mock")
		_, err := New(Config{Settings: s})
		assert.ErrorIs(t, err, rewrite.ErrConflictingPluginSets)
	})

	t.Run("unknown names", func(t *testing.T) {
		s := rewrite.DefaultSettings()
		s.DisabledPlugins = rewrite.NewNameSet("nope", "io_open")
		_, err := New(Config{Settings: s})
		var unknown *rewrite.UnknownPluginsError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, []string{"nope"}, unknown.Invalid)
	})

	t.Run("bad exclude pattern", func(t *testing.T) {
		_, err := New(Config{Settings: rewrite.DefaultSettings(), Exclude: []string{"[unterminated"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid exclude pattern")
	})
}

func TestNew_RulesDir(t *testing.T) {
	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{
		"xrange.star": `
def fix(node, state, parent):
    if node.text == "xrange":
        return [replace(node, "range")]
    return []

register("identifier", fix)
`,
	})
	e := newTestEngine(t, Config{Settings: rewrite.DefaultSettings(), RulesDir: dir})
	assert.True(t, e.Registry().Has("xrange"))

	out, err := e.FixSource("t.py", "for i in xrange(3):\n    pass\n")
	require.NoError(t, err)
	assert.Equal(t, "for i in range(3):\n    pass\n", out)
}

func TestFixSource(t *testing.T) {
	e := newTestEngine(t, Config{Settings: rewrite.DefaultSettings()})

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "rewrites", src: legacySource, want: modernSource},
		{name: "already modern", src: modernSource, want: modernSource},
		{name: "empty", src: "", want: ""},
		{name: "syntax error is left alone", src: "def f(:\n    io.open(x)\n", want: "def f(:\n    io.open(x)\n"},
		{name: "comments survive", src: "io.open(x)  # keep me\n", want: "open(x)  # keep me\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.FixSource("t.py", tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFixSource_Idempotent(t *testing.T) {
	e := newTestEngine(t, Config{Settings: rewrite.DefaultSettings()})
	once, err := e.FixSource("t.py", legacySource)
	require.NoError(t, err)
	twice, err := e.FixSource("t.py", once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestFixSource_DisabledPlugin(t *testing.T) {
	s := rewrite.DefaultSettings()
	s.DisabledPlugins = rewrite.NewNameSet("io_open")
	e := newTestEngine(t, Config{Settings: s})

	got, err := e.FixSource("t.py", "io.open(x)\n")
	require.NoError(t, err)
	assert.Equal(t, "io.open(x)\n", got)
}

func TestFixSource_PluginFailure(t *testing.T) {
	e := newTestEngine(t, Config{Settings: rewrite.DefaultSettings(), Modules: []rewrite.Module{failingModule()}})

	got, err := e.FixSource("t.py", "f()\n")
	var perr *rewrite.PluginError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "explode", perr.Plugin)
	assert.Equal(t, 1, perr.Offset.Line)
	assert.Equal(t, "f()\n", got)
	assert.Contains(t, err.Error(), "t.py")
}

func TestFixFile(t *testing.T) {
	e := newTestEngine(t, Config{Settings: rewrite.DefaultSettings()})
	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{
		"old.py": legacySource,
		"new.py": modernSource,
	})

	res, err := e.FixFile(filepath.Join(dir, "old.py"))
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, modernSource, testutil.ReadFile(t, filepath.Join(dir, "old.py")))

	res, err = e.FixFile(filepath.Join(dir, "new.py"))
	require.NoError(t, err)
	assert.False(t, res.Changed)
}

func TestFixFile_NonUTF8(t *testing.T) {
	e := newTestEngine(t, Config{Settings: rewrite.DefaultSettings()})
	path := filepath.Join(t.TempDir(), "latin1.py")
	require.NoError(t, os.WriteFile(path, []byte("x = '\xe9'\n"), 0o644))

	_, err := e.FixFile(path)
	assert.ErrorIs(t, err, ErrNonUTF8)
	assert.Contains(t, err.Error(), "latin1.py is non-utf-8")
}

func TestFixStream(t *testing.T) {
	e := newTestEngine(t, Config{Settings: rewrite.DefaultSettings()})
	var out bytes.Buffer

	changed, err := e.FixStream("-", strings.NewReader(legacySource), &out)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, modernSource, out.String())
}

func TestFixPaths(t *testing.T) {
	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{
		"pkg/a.py":               legacySource,
		"pkg/b.py":               modernSource,
		"pkg/sub/c.py":           legacySource,
		"pkg/notes.txt":          legacySource,
		"pkg/.venv/lib.py":       legacySource,
		"pkg/__pycache__/x.py":   legacySource,
		"pkg/generated/gen_1.py": legacySource,
	})
	e := newTestEngine(t, Config{
		Settings: rewrite.DefaultSettings(),
		Exclude:  []string{"**/generated/**"},
	})

	summary, err := e.FixPaths(context.Background(), []string{filepath.Join(dir, "pkg")}, 4)
	require.NoError(t, err)

	var paths []string
	for _, r := range summary.Results {
		rel, err := filepath.Rel(dir, r.Path)
		require.NoError(t, err)
		paths = append(paths, filepath.ToSlash(rel))
	}
	assert.Equal(t, []string{"pkg/a.py", "pkg/b.py", "pkg/sub/c.py"}, paths)
	assert.Len(t, summary.Changed(), 2)
	assert.Empty(t, summary.Failed())
	assert.Equal(t, 1, summary.ExitCode(false))
	assert.Equal(t, 0, summary.ExitCode(true))

	assert.Equal(t, legacySource, testutil.ReadFile(t, filepath.Join(dir, "pkg/.venv/lib.py")))
	assert.Equal(t, legacySource, testutil.ReadFile(t, filepath.Join(dir, "pkg/generated/gen_1.py")))
}

func TestFixPaths_Failures(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.py")
	require.NoError(t, os.WriteFile(bad, []byte{0xff, 0xfe, '\n'}, 0o644))
	e := newTestEngine(t, Config{Settings: rewrite.DefaultSettings()})

	summary, err := e.FixPaths(context.Background(), []string{bad}, 1)
	require.NoError(t, err)
	require.Len(t, summary.Failed(), 1)
	assert.ErrorIs(t, summary.Failed()[0].Err, ErrNonUTF8)
	assert.Equal(t, 1, summary.ExitCode(true))
}

func TestFixPaths_MissingPath(t *testing.T) {
	e := newTestEngine(t, Config{Settings: rewrite.DefaultSettings()})
	_, err := e.FixPaths(context.Background(), []string{filepath.Join(t.TempDir(), "missing")}, 1)
	assert.Error(t, err)
}

func TestFixPaths_Cancelled(t *testing.T) {
	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{"a.py": legacySource})
	e := newTestEngine(t, Config{Settings: rewrite.DefaultSettings()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.FixPaths(ctx, []string{dir}, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, legacySource, testutil.ReadFile(t, filepath.Join(dir, "a.py")))
}

func TestExcluded(t *testing.T) {
	e := newTestEngine(t, Config{
		Settings: rewrite.DefaultSettings(),
		Exclude:  []string{"*_pb2.py", "vendor/**"},
	})
	assert.True(t, e.Excluded("api/service_pb2.py"))
	assert.True(t, e.Excluded("vendor/six.py"))
	assert.False(t, e.Excluded("api/service.py"))
}
