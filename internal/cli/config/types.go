// Package config loads leapup configuration from defaults, a leapup.yaml
// file, LEAPUP_* environment variables and command-line flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	MinVersion            string   `koanf:"min_version"`
	KeepPercentFormat     bool     `koanf:"keep_percent_format"`
	KeepMock              bool     `koanf:"keep_mock"`
	KeepRuntimeTyping     bool     `koanf:"keep_runtime_typing"`
	Enable                []string `koanf:"enable"`
	Disable               []string `koanf:"disable"`
	RulesDir              string   `koanf:"rules_dir"`
	Exclude               []string `koanf:"exclude"`
	Jobs                  int      `koanf:"jobs"`
	Cache                 bool     `koanf:"cache"`
	CachePath             string   `koanf:"cache_path"`
	ExitZeroEvenIfChanged bool     `koanf:"exit_zero_even_if_changed"`
	Verbose               bool     `koanf:"verbose"`
	LogLevel              string   `koanf:"log_level"`
	OutputFormat          string   `koanf:"output"`

	// ConfigFile is the file the configuration was read from, if any.
	ConfigFile string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultMinVersion = "3.0"
	DefaultJobs       = 1
	DefaultLogLevel   = "warn"
	DefaultOutput     = "auto" // TTY=text, otherwise markdown
	DefaultRulesDir   = ".leapup/rules"
	DefaultCachePath  = ".leapup/cache.db"
)

// ConfigFileNames are the file names searched for, in order.
var ConfigFileNames = []string{"leapup.yaml", "leapup.yml", ".leapup.yaml"}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		MinVersion:   DefaultMinVersion,
		Jobs:         DefaultJobs,
		LogLevel:     DefaultLogLevel,
		OutputFormat: DefaultOutput,
		RulesDir:     DefaultRulesDir,
		CachePath:    DefaultCachePath,
	}
}
