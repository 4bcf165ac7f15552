package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/leapup/pkg/rewrite"
)

// EnvPrefix prefixes environment variables read as configuration.
const EnvPrefix = "LEAPUP_"

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// findConfigFileIn returns the first config file present in dir.
func findConfigFileIn(dir string) string {
	for _, name := range ConfigFileNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findConfigFileUpward searches startDir and its parents for a config file.
func findConfigFileUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if found := findConfigFileIn(dir); found != "" {
			return found
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// Load reads configuration with precedence flags > env vars > config file >
// defaults. cfgFile, when set, must exist; otherwise a config file is searched
// upward from the working directory. Relative rules_dir and cache_path values
// from a config file resolve against that file's directory.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	def := Default()
	if err := k.Load(confmap.Provider(map[string]any{
		"min_version": def.MinVersion,
		"jobs":        def.Jobs,
		"log_level":   def.LogLevel,
		"output":      def.OutputFormat,
		"rules_dir":   def.RulesDir,
		"cache_path":  def.CachePath,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfgFile = findConfigFileUpward(cwd)
		}
	} else if _, err := os.Stat(cfgFile); err != nil {
		return nil, fmt.Errorf("config file %s: %w", cfgFile, err)
	}
	if cfgFile != "" {
		fk := koanf.New(".")
		if err := fk.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
		for _, key := range []string{"rules_dir", "cache_path"} {
			if p := fk.String(key); p != "" && !filepath.IsAbs(p) {
				if err := fk.Set(key, filepath.Join(filepath.Dir(cfgFile), p)); err != nil {
					return nil, err
				}
			}
		}
		if err := k.Merge(fk); err != nil {
			return nil, fmt.Errorf("error merging config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment (LEAPUP_MIN_VERSION -> min_version)
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagKey(flags)), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
		if v, ok := versionFromFlags(flags); ok {
			if err := k.Set("min_version", v); err != nil {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
			Result:           &cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ConfigFile = cfgFile
	return &cfg, nil
}

// flagKey returns the posflag callback that keeps explicitly set flags only
// and turns kebab-case names into config keys. Version shorthand flags are
// handled by versionFromFlags.
func flagKey(flags *pflag.FlagSet) func(f *pflag.Flag) (string, any) {
	return func(f *pflag.Flag) (string, any) {
		if !f.Changed || f.Name == "config" {
			return "", nil
		}
		if _, ok := VersionFlags[f.Name]; ok {
			return "", nil
		}
		return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
	}
}

// VersionFlags maps --pyXY-plus shorthand flags to the version they select.
var VersionFlags = map[string]rewrite.Version{
	"py3-plus":   {Major: 3, Minor: 0},
	"py36-plus":  {Major: 3, Minor: 6},
	"py37-plus":  {Major: 3, Minor: 7},
	"py38-plus":  {Major: 3, Minor: 8},
	"py39-plus":  {Major: 3, Minor: 9},
	"py310-plus": {Major: 3, Minor: 10},
	"py311-plus": {Major: 3, Minor: 11},
	"py312-plus": {Major: 3, Minor: 12},
	"py313-plus": {Major: 3, Minor: 13},
	"py314-plus": {Major: 3, Minor: 14},
}

// versionFromFlags returns the highest version selected by a set shorthand
// flag.
func versionFromFlags(flags *pflag.FlagSet) (string, bool) {
	var best rewrite.Version
	found := false
	for name, v := range VersionFlags {
		set, err := flags.GetBool(name)
		if err != nil || !set {
			continue
		}
		if !found || v.AtLeast(best.Major, best.Minor) {
			best, found = v, true
		}
	}
	if !found {
		return "", false
	}
	return best.String(), true
}

// Settings converts the configuration into core rewrite settings.
func (c *Config) Settings() (rewrite.Settings, error) {
	v, err := rewrite.ParseVersion(c.MinVersion)
	if err != nil {
		return rewrite.Settings{}, fmt.Errorf("invalid min_version: %w", err)
	}
	return rewrite.Settings{
		MinVersion:        v,
		KeepPercentFormat: c.KeepPercentFormat,
		KeepMock:          c.KeepMock,
		KeepRuntimeTyping: c.KeepRuntimeTyping,
		EnabledPlugins:    rewrite.NewNameSet(c.Enable...),
		DisabledPlugins:   rewrite.NewNameSet(c.Disable...),
	}, nil
}
