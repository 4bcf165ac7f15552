package commands

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapup/internal/cache"
	"github.com/leapstack-labs/leapup/internal/cli/output"
	"github.com/leapstack-labs/leapup/internal/engine"
	"github.com/leapstack-labs/leapup/internal/watch"
)

// StdinPath is the path argument that reads source from stdin.
const StdinPath = "-"

// FixJSONOutput is the JSON output of a fix run.
type FixJSONOutput struct {
	Changed []string        `json:"changed"`
	Failed  []FixJSONFailed `json:"failed"`
	Checked int             `json:"checked"`
	Skipped int             `json:"skipped"`
}

// FixJSONFailed describes a file that could not be processed.
type FixJSONFailed struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// RunFix rewrites the files under args. It returns an *ExitError when files
// changed or failed, following the exit_zero_even_if_changed option. With
// watchMode it keeps re-fixing changed files until the context is cancelled.
func RunFix(cmd *cobra.Command, args []string, watchMode bool) error {
	cc := NewCommandContext(cmd)
	if err := cc.Cfg.Validate(); err != nil {
		return err
	}
	stdin := len(args) == 1 && args[0] == StdinPath

	var store *cache.Store
	if cc.Cfg.Cache && !stdin {
		s, err := cc.OpenCache()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		store = s
	}
	eng, err := cc.Engine(store)
	if err != nil {
		return err
	}

	if stdin {
		changed, err := eng.FixStream("<stdin>", cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if changed && !cc.Cfg.ExitZeroEvenIfChanged {
			return &ExitError{Code: 1}
		}
		return nil
	}

	var runID string
	if store != nil {
		if runID, err = store.StartRun(cmd.Context()); err != nil {
			cc.Logger.Warn("failed to record run", "error", err)
		}
	}
	summary, err := eng.FixPaths(cmd.Context(), args, cc.Cfg.Jobs)
	if err != nil {
		return err
	}
	if runID != "" {
		err := store.FinishRun(cmd.Context(), runID,
			len(summary.Results), len(summary.Changed()), len(summary.Failed()), summary.Skipped())
		if err != nil {
			cc.Logger.Warn("failed to record run", "error", err)
		}
	}
	if err := reportFix(cc.Renderer, summary); err != nil {
		return err
	}

	if watchMode {
		return watchAndFix(cmd.Context(), cc, eng, args)
	}
	if code := summary.ExitCode(cc.Cfg.ExitZeroEvenIfChanged); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

func reportFix(r *output.Renderer, summary *engine.Summary) error {
	if r.EffectiveMode() == output.ModeJSON {
		out := FixJSONOutput{
			Changed: summary.Changed(),
			Failed:  []FixJSONFailed{},
			Checked: len(summary.Results),
			Skipped: summary.Skipped(),
		}
		if out.Changed == nil {
			out.Changed = []string{}
		}
		for _, f := range summary.Failed() {
			out.Failed = append(out.Failed, FixJSONFailed{Path: f.Path, Error: f.Err.Error()})
		}
		return r.JSON(out)
	}

	styles := r.Styles()
	for _, res := range summary.Results {
		switch {
		case res.Err != nil:
			r.Errorf("%s\n", styles.Error.Render(res.Err.Error()))
		case res.Changed:
			r.Errorf("Rewriting %s\n", res.Path)
		}
	}
	return nil
}

func watchAndFix(ctx context.Context, cc *CommandContext, eng *engine.Engine, paths []string) error {
	w, err := watch.New(watch.Config{Logger: cc.Logger})
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()
	if err := w.Add(paths...); err != nil {
		return err
	}

	cc.Renderer.Errorf("%s\n", cc.Renderer.Styles().Muted.Render("Watching for changes, press Ctrl+C to stop"))
	return w.Run(ctx, func(ctx context.Context, files []string) {
		var todo []string
		for _, f := range files {
			if _, err := os.Stat(f); err == nil && !eng.Excluded(f) {
				todo = append(todo, f)
			}
		}
		if len(todo) == 0 {
			return
		}
		summary, err := eng.FixPaths(ctx, todo, cc.Cfg.Jobs)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				cc.Logger.Warn("watch fix failed", "error", err)
			}
			return
		}
		if err := reportFix(cc.Renderer, summary); err != nil {
			cc.Logger.Warn("failed to report", "error", err)
		}
	})
}

// ExitCode returns the exit status carried by err, 1 for other errors and 0
// for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	return 1
}
