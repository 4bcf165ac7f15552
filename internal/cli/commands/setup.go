package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapup/internal/cache"
	"github.com/leapstack-labs/leapup/internal/cli/config"
	"github.com/leapstack-labs/leapup/internal/cli/output"
	"github.com/leapstack-labs/leapup/internal/engine"
)

// ExitError carries a non-zero exit status that needs no further message.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config and logger stored on the command
// context and builds a renderer for the configured output mode.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// OpenCache opens the cache database at the configured path.
func (c *CommandContext) OpenCache() (*cache.Store, error) {
	store, err := cache.Open(c.Cfg.CachePath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opened cache", "path", c.Cfg.CachePath)
	return store, nil
}

// Engine creates an engine from the configuration. store may be nil.
func (c *CommandContext) Engine(store *cache.Store) (*engine.Engine, error) {
	settings, err := c.Cfg.Settings()
	if err != nil {
		return nil, err
	}
	cfg := engine.Config{
		Settings: settings,
		RulesDir: c.Cfg.RulesDir,
		Exclude:  c.Cfg.Exclude,
		Logger:   c.Logger,
	}
	if store != nil {
		cfg.Cache = store
	}
	return engine.New(cfg)
}
