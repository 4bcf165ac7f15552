// Package engine runs the rewrite pipeline over Python files.
//
// For every file it parses the source, visits the tree with the active
// plugins, and patches the token stream in reverse offset order. Files are
// independent: each gets its own traversal state, so they are processed
// concurrently.
package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"

	"github.com/leapstack-labs/leapup/pkg/parser"
	"github.com/leapstack-labs/leapup/pkg/patch"
	"github.com/leapstack-labs/leapup/pkg/rewrite"
	"github.com/leapstack-labs/leapup/pkg/rewrite/plugins"
	"github.com/leapstack-labs/leapup/pkg/rewrite/starlarkrule"
)

// ErrNonUTF8 is returned for files that are not valid UTF-8.
var ErrNonUTF8 = errors.New("non-utf-8 (not supported)")

// Engine rewrites Python sources with a fixed set of active plugins.
type Engine struct {
	settings rewrite.Settings
	registry *rewrite.Registry
	table    *rewrite.Table
	exclude  []glob.Glob
	cache    Cache
	key      string
	logger   *slog.Logger
}

// Cache remembers files known to need no rewrite. Implementations must be
// safe for concurrent use.
type Cache interface {
	Clean(path, contentHash, settingsKey string) (bool, error)
	MarkClean(path, contentHash, settingsKey string) error
}

// Config holds engine configuration.
type Config struct {
	// Settings select the target version and the active plugins
	Settings rewrite.Settings
	// Modules replaces the built-in rule modules when non-nil
	Modules []rewrite.Module
	// RulesDir is a directory of Starlark rule files (optional)
	RulesDir string
	// Exclude holds glob patterns of paths to skip
	Exclude []string
	// Cache skips files already known to be clean (optional)
	Cache Cache
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New discovers the rule modules and resolves the settings against them.
// Conflicting or unknown plugin names are reported here, before any file is
// touched.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	modules := cfg.Modules
	if modules == nil {
		modules = plugins.All()
	}
	if cfg.RulesDir != "" {
		scripted, err := starlarkrule.Load(cfg.RulesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load rules: %w", err)
		}
		logger.Debug("loaded scripted rules", "dir", cfg.RulesDir, "count", len(scripted))
		modules = append(append([]rewrite.Module(nil), modules...), scripted...)
	}

	reg, err := rewrite.Discover(modules...)
	if err != nil {
		return nil, err
	}
	table, err := cfg.Settings.PluginFunctions(reg)
	if err != nil {
		return nil, err
	}

	exclude := make([]glob.Glob, 0, len(cfg.Exclude))
	for _, pattern := range cfg.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		exclude = append(exclude, g)
	}

	var key string
	if cfg.Cache != nil {
		key, err = settingsKey(cfg.Settings, table, cfg.RulesDir)
		if err != nil {
			return nil, err
		}
	}

	logger.Debug("engine ready",
		"min_version", cfg.Settings.MinVersion.String(),
		"plugins", table.Modules(),
	)
	return &Engine{
		settings: cfg.Settings,
		registry: reg,
		table:    table,
		exclude:  exclude,
		cache:    cfg.Cache,
		key:      key,
		logger:   logger,
	}, nil
}

// Registry returns the discovered modules.
func (e *Engine) Registry() *rewrite.Registry {
	return e.registry
}

// Settings returns the resolved settings.
func (e *Engine) Settings() rewrite.Settings {
	return e.settings
}

// FixSource rewrites one source text. Source that does not parse is
// returned unchanged. A plugin failure is returned as a *rewrite.PluginError.
func (e *Engine) FixSource(name, src string) (out string, err error) {
	tree, toks, err := parser.Parse(src)
	if err != nil {
		if errors.Is(err, parser.ErrSyntax) {
			e.logger.Debug("skipping unparsable source", "file", name, "error", err)
			return src, nil
		}
		return src, err
	}

	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(*rewrite.PluginError)
			if !ok {
				panic(r)
			}
			out, err = src, fmt.Errorf("%s: %w", name, perr)
		}
	}()

	edits := rewrite.Visit(e.table, tree, e.settings)
	if len(edits) == 0 {
		return src, nil
	}
	e.logger.Debug("applying edits", "file", name, "offsets", len(edits), "callbacks", edits.Count())
	return patch.Apply(toks, edits).String(), nil
}

// settingsKey fingerprints everything that decides the output for a given
// input: the settings, the active modules and the scripted rule sources.
func settingsKey(s rewrite.Settings, table *rewrite.Table, rulesDir string) (string, error) {
	h := sha256.New()
	fmt.Fprintf(h, "min=%s percent=%t mock=%t typing=%t\n",
		s.MinVersion, s.KeepPercentFormat, s.KeepMock, s.KeepRuntimeTyping)
	fmt.Fprintf(h, "modules=%v\n", table.Modules())

	if rulesDir != "" {
		scripts, err := filepath.Glob(filepath.Join(rulesDir, "*.star"))
		if err != nil {
			return "", err
		}
		sort.Strings(scripts)
		for _, path := range scripts {
			data, err := os.ReadFile(path) //nolint:gosec // G304: rules dir comes from config
			if err != nil {
				return "", fmt.Errorf("failed to hash rule %s: %w", path, err)
			}
			fmt.Fprintf(h, "%s %x\n", filepath.Base(path), sha256.Sum256(data))
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
