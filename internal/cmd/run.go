package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/taskflow/internal/config"
	"github.com/Iron-Ham/taskflow/internal/errors"
	"github.com/Iron-Ham/taskflow/internal/executor"
	"github.com/Iron-Ham/taskflow/internal/logging"
	"github.com/Iron-Ham/taskflow/internal/pipeline"
	"github.com/Iron-Ham/taskflow/internal/plan"
	"github.com/Iron-Ham/taskflow/internal/state"
	"github.com/Iron-Ham/taskflow/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run [pipeline-file]",
	Short: "Run a pipeline",
	Long: `Run the tasks in a pipeline file in dependency order.

Independent tasks run concurrently up to the worker limit. A task whose
dependencies did not all finish is withheld, not failed. When tasks fail,
state is kept so the next run with --resume skips finished work.

Examples:
  # Run pipeline.yaml in the current directory
  taskflow run

  # Run with 8 workers and one retry per task
  taskflow run -w 8 -r 1 build.yaml

  # Pick up where a failed run left off
  taskflow run --resume

  # Watch the run in a live dashboard
  taskflow run --ui`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

var (
	runResume bool
	runUI     bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("max-workers", "w", 4, "maximum tasks running concurrently within a level")
	runCmd.Flags().IntP("retries", "r", 0, "retry attempts after a task's first failure")
	runCmd.Flags().Int("timeout", 3600, "per-attempt timeout in seconds (0 disables)")
	runCmd.Flags().String("on-blocked", "skip", "what to do with blocked tasks (skip|abort)")
	runCmd.Flags().Bool("pty", false, "run tasks under a pseudo-terminal")
	runCmd.Flags().BoolVar(&runResume, "resume", false, "resume from the previous run's saved state")
	runCmd.Flags().BoolVar(&runUI, "ui", false, "show a live dashboard while the pipeline runs")

	_ = viper.BindPFlag("run.max_workers", runCmd.Flags().Lookup("max-workers"))
	_ = viper.BindPFlag("run.retries", runCmd.Flags().Lookup("retries"))
	_ = viper.BindPFlag("run.task_timeout_seconds", runCmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("run.on_blocked", runCmd.Flags().Lookup("on-blocked"))
	_ = viper.BindPFlag("run.use_pty", runCmd.Flags().Lookup("pty"))
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	path := pipeline.DefaultFileName
	if len(args) > 0 {
		path = args[0]
	}

	logger, err := newRunLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logger.Close()

	logger.Info("flow starting")
	logger.Info("running pipeline", "file", path)

	tasks, err := pipeline.Load(path)
	if err != nil {
		return err
	}
	logger.Info("loaded tasks", "count", len(tasks))

	opts := executor.Options{
		MaxWorkers: cfg.Run.MaxWorkers,
		Retries:    cfg.Run.Retries,
		Timeout:    cfg.Run.TaskTimeout(),
		OnBlocked:  cfg.Run.OnBlocked,
		Resume:     runResume,
	}
	store := state.NewStore(cfg.State.File, logger)
	command := executor.NewShellRunner(cfg.Run.UsePty)

	var summary *executor.Summary
	if runUI {
		summary, err = runWithDashboard(cmd.Context(), command, store, logger, opts, path, tasks, cfg)
	} else {
		// Let an interrupt stop the tasks and reach the state file
		// instead of killing the process outright.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		coord := executor.NewCoordinator(command, store, logger, opts)
		summary, err = coord.Run(ctx, tasks)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("run interrupted")
		}
		return err
	}

	printSummary(cmd.OutOrStdout(), summary)

	if summary.Aborted {
		return fmt.Errorf("run aborted with %d blocked tasks: %w", len(summary.Blocked), errors.ErrTaskFailed)
	}
	if !summary.Success() {
		return fmt.Errorf("run failed: %w", errors.ErrTaskFailed)
	}
	return nil
}

// runWithDashboard runs the pipeline underneath the TUI, feeding task
// output into the dashboard instead of the console.
func runWithDashboard(ctx context.Context, command executor.CommandRunner, store *state.Store, logger *logging.Logger, opts executor.Options, path string, tasks []pipeline.Task, cfg *config.Config) (*executor.Summary, error) {
	p, err := plan.Compute(tasks)
	if err != nil {
		return nil, err
	}

	// The line handler closes over the app, which needs the coordinator's
	// result map first; the run starts only once app.Run wires both up.
	var app *tui.App
	opts.OnLine = func(taskID, line string) {
		app.HandleLine(taskID, line)
	}

	coord := executor.NewCoordinator(command, store, logger, opts)
	model := tui.NewModel(path, p, tasks, coord.Results()).
		WithDisplayOptions(cfg.UI.RefreshRate(), cfg.UI.MaxOutputLines)
	app = tui.New(model, func(ctx context.Context) (*executor.Summary, error) {
		return coord.Run(ctx, tasks)
	})

	return app.Run(ctx)
}

// newRunLogger builds the run's file logger from config, or a no-op
// logger when logging is disabled.
func newRunLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	return logging.NewLoggerWithRotation(cfg.Logging.File, cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}

// printSummary writes the per-status counts and the blocked list.
func printSummary(w io.Writer, summary *executor.Summary) {
	fmt.Fprintln(w, formatCounts(summary.Counts))

	if len(summary.Blocked) > 0 {
		fmt.Fprintf(w, "blocked: %s\n", strings.Join(summary.Blocked, ", "))
	}
}

// formatCounts renders non-zero per-status counts in status order.
func formatCounts(counts map[state.TaskStatus]int) string {
	var parts []string
	for _, status := range state.ValidStatuses() {
		if n := counts[status]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, status))
		}
	}
	if len(parts) == 0 {
		return "no tasks"
	}
	return strings.Join(parts, ", ")
}
