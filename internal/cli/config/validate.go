package config

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/leapup/pkg/rewrite"
)

// OutputModes are the accepted values of the output option.
var OutputModes = []string{"auto", "text", "markdown", "json"}

// LogLevels are the accepted values of the log_level option.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.OutputFormat != "" && !slices.Contains(OutputModes, c.OutputFormat) {
		return fmt.Errorf("invalid output %q (want one of %v)", c.OutputFormat, OutputModes)
	}
	if c.LogLevel != "" && !slices.Contains(LogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level %q (want one of %v)", c.LogLevel, LogLevels)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must be positive, got %d", c.Jobs)
	}
	v, err := rewrite.ParseVersion(c.MinVersion)
	if err != nil {
		return fmt.Errorf("invalid min_version: %w", err)
	}
	if v.Major != 3 {
		return fmt.Errorf("min_version must be a Python 3 version, got %s", v)
	}
	if len(c.Enable) > 0 && len(c.Disable) > 0 {
		return fmt.Errorf("enable and disable: %w", rewrite.ErrConflictingPluginSets)
	}
	return nil
}
