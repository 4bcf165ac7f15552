package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapup/pkg/rewrite"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.Bool("verbose", false, "")
	BindFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "leapup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, DefaultMinVersion, cfg.MinVersion)
	assert.Equal(t, DefaultJobs, cfg.Jobs)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Empty(t, cfg.ConfigFile)
	assert.Empty(t, cfg.Enable)
	assert.False(t, cfg.Cache)
	assert.Equal(t, DefaultCachePath, cfg.CachePath)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Precedence(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	t.Chdir(dir)
	writeConfig(t, dir, `
min_version: "3.8"
keep_mock: true
jobs: 2
disable: [mock]
`)

	t.Run("file", func(t *testing.T) {
		cfg, err := Load("", newFlags(t))
		require.NoError(t, err)
		assert.Equal(t, "3.8", cfg.MinVersion)
		assert.True(t, cfg.KeepMock)
		assert.Equal(t, 2, cfg.Jobs)
		assert.Equal(t, []string{"mock"}, cfg.Disable)
		assert.Equal(t, filepath.Join(dir, "leapup.yaml"), cfg.ConfigFile)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("LEAPUP_JOBS", "6")
		t.Setenv("LEAPUP_DISABLE", "mock,io_open")
		cfg, err := Load("", newFlags(t))
		require.NoError(t, err)
		assert.Equal(t, 6, cfg.Jobs)
		assert.Equal(t, []string{"mock", "io_open"}, cfg.Disable)
	})

	t.Run("flags over env", func(t *testing.T) {
		t.Setenv("LEAPUP_JOBS", "6")
		cfg, err := Load("", newFlags(t, "--jobs", "3", "--min-version", "3.10"))
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Jobs)
		assert.Equal(t, "3.10", cfg.MinVersion)
	})

	t.Run("unset flags do not override", func(t *testing.T) {
		cfg, err := Load("", newFlags(t, "--keep-runtime-typing"))
		require.NoError(t, err)
		assert.Equal(t, "3.8", cfg.MinVersion)
		assert.True(t, cfg.KeepRuntimeTyping)
	})
}

func TestLoad_SearchesUpward(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	writeConfig(t, root, "keep_percent_format: true\nrules_dir: rules\ncache: true\ncache_path: tmp/c.db\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.True(t, cfg.KeepPercentFormat)
	assert.Equal(t, filepath.Join(root, "rules"), cfg.RulesDir)
	assert.True(t, cfg.Cache)
	assert.Equal(t, filepath.Join(root, "tmp", "c.db"), cfg.CachePath)
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	other := t.TempDir()
	path := filepath.Join(other, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("enable: [io_open]\n"), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"io_open"}, cfg.Enable)

	_, err = Load(filepath.Join(other, "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeConfig(t, dir, "jobs: [\n")

	_, err := Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_VersionFlags(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		args []string
		want string
	}{
		{args: []string{"--py3-plus"}, want: "3.0"},
		{args: []string{"--py36-plus"}, want: "3.6"},
		{args: []string{"--py311-plus"}, want: "3.11"},
		{args: []string{"--py38-plus", "--py310-plus"}, want: "3.10"},
		{args: []string{"--min-version", "3.7", "--py39-plus"}, want: "3.9"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			cfg, err := Load("", newFlags(t, tt.args...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.MinVersion)
		})
	}
}

func TestConfig_Settings(t *testing.T) {
	cfg := Default()
	cfg.MinVersion = "3.9"
	cfg.KeepMock = true
	cfg.Disable = []string{"io_open"}

	s, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, rewrite.Version{Major: 3, Minor: 9}, s.MinVersion)
	assert.True(t, s.KeepMock)
	assert.True(t, s.DisabledPlugins.Has("io_open"))
	assert.Empty(t, s.EnabledPlugins)

	cfg.MinVersion = "three"
	_, err = cfg.Settings()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad output", mutate: func(c *Config) { c.OutputFormat = "yaml" }, errSubstr: "invalid output"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "trace" }, errSubstr: "invalid log_level"},
		{name: "negative jobs", mutate: func(c *Config) { c.Jobs = -1 }, errSubstr: "jobs must be positive"},
		{name: "python 2", mutate: func(c *Config) { c.MinVersion = "2.7" }, errSubstr: "Python 3"},
		{name: "garbage version", mutate: func(c *Config) { c.MinVersion = "x" }, errSubstr: "invalid min_version"},
		{
			name: "both plugin sets",
			mutate: func(c *Config) {
				c.Enable = []string{"mock"}
				c.Disable = []string{"io_open"}
			},
			errSubstr: "mutually exclusive",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	var buf bytes.Buffer
	logger := NewLogger(&buf, "info", false)
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))

	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	NewLogger(&buf, "error", true).Debug("verbose wins")
	assert.Contains(t, buf.String(), "verbose wins")
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))

	cfg := Default()
	cfg.Jobs = 9
	assert.Same(t, cfg, FromContext(WithConfig(context.Background(), cfg)))
}
