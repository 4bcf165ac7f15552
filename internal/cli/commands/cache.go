package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapup/internal/cache"
	"github.com/leapstack-labs/leapup/internal/cli/output"
)

// RunInfo is one recorded run in listings.
type RunInfo struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Checked    int        `json:"checked"`
	Changed    int        `json:"changed"`
	Failed     int        `json:"failed"`
	Skipped    int        `json:"skipped"`
}

// NewCacheCommand creates the cache command and its subcommands.
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the file cache",
		Long: `The cache records files that needed no rewrite, keyed by content and
settings, so --cache runs can skip them. It also keeps a history of runs.`,
	}
	cmd.AddCommand(newCacheClearCommand(), newCacheRunsCommand())
	return cmd
}

func newCacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget every cached file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			store, err := cc.OpenCache()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			n, err := store.Forget(cmd.Context())
			if err != nil {
				return err
			}
			if cc.Renderer.EffectiveMode() == output.ModeJSON {
				return cc.Renderer.JSON(map[string]int64{"removed": n})
			}
			cc.Renderer.Printf("Removed %d cached files\n", n)
			return nil
		},
	}
}

func newCacheRunsCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent runs",
		Example: `  # Show the last 5 runs
  leapup cache runs --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}
			cc := NewCommandContext(cmd)
			store, err := cc.OpenCache()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return renderRuns(cc.Renderer, runs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of runs to show")
	return cmd
}

func renderRuns(r *output.Renderer, runs []cache.Run) error {
	infos := make([]RunInfo, 0, len(runs))
	for _, run := range runs {
		info := RunInfo{
			ID:        run.ID,
			StartedAt: run.StartedAt,
			Checked:   run.Checked,
			Changed:   run.Changed,
			Failed:    run.Failed,
			Skipped:   run.Skipped,
		}
		if run.FinishedAt.Valid {
			t := run.FinishedAt.Time
			info.FinishedAt = &t
		}
		infos = append(infos, info)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(infos)
	}
	if len(infos) == 0 {
		r.Println("No runs recorded")
		return nil
	}

	rows := make([][]string, 0, len(infos))
	for _, run := range infos {
		finished := "-"
		if run.FinishedAt != nil {
			finished = run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
		}
		rows = append(rows, []string{
			run.ID[:8],
			run.StartedAt.Local().Format(time.DateTime),
			finished,
			fmt.Sprint(run.Checked),
			fmt.Sprint(run.Changed),
			fmt.Sprint(run.Failed),
			fmt.Sprint(run.Skipped),
		})
	}
	r.Table([]string{"Run", "Started", "Duration", "Checked", "Changed", "Failed", "Skipped"}, rows)
	return nil
}
