package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapup/internal/cli/config"
)

// initFile is the document written by init. Field order is the file order.
type initFile struct {
	MinVersion            string   `yaml:"min_version"`
	KeepPercentFormat     bool     `yaml:"keep_percent_format"`
	KeepMock              bool     `yaml:"keep_mock"`
	KeepRuntimeTyping     bool     `yaml:"keep_runtime_typing"`
	Disable               []string `yaml:"disable"`
	Exclude               []string `yaml:"exclude"`
	RulesDir              string   `yaml:"rules_dir"`
	Jobs                  int      `yaml:"jobs"`
	ExitZeroEvenIfChanged bool     `yaml:"exit_zero_even_if_changed"`
}

const initHeader = `# leapup configuration.
# Values here are overridden by LEAPUP_* environment variables and flags.
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var minVersion string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a leapup.yaml configuration file",
		Long: `Create a leapup.yaml file with the default settings and an empty
directory for Starlark rule files.`,
		Example: `  # Initialize in current directory
  leapup init

  # Target Python 3.9 and newer
  leapup init --min-version 3.9

  # Force overwrite existing config
  leapup init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			cc := NewCommandContext(cmd)
			path, err := writeInitConfig(dir, minVersion, force)
			if err != nil {
				return err
			}
			cc.Renderer.Println(cc.Renderer.Styles().Success.Render("Created " + path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().StringVar(&minVersion, "min-version", config.DefaultMinVersion, "minimum Python version to record")

	return cmd
}

func writeInitConfig(dir, minVersion string, force bool) (string, error) {
	def := config.Default()
	def.MinVersion = minVersion
	if err := def.Validate(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Join(dir, def.RulesDir), 0o750); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, config.ConfigFileNames[0])
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s already exists. Use --force to overwrite", path)
	}

	var buf bytes.Buffer
	buf.WriteString(initHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(initFile{
		MinVersion: def.MinVersion,
		Disable:    []string{},
		Exclude:    []string{},
		RulesDir:   def.RulesDir,
		Jobs:       def.Jobs,
	}); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
