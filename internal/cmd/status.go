package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/taskflow/internal/config"
	"github.com/Iron-Ham/taskflow/internal/logging"
	"github.com/Iron-Ham/taskflow/internal/state"
	"github.com/Iron-Ham/taskflow/internal/tui/styles"
	"github.com/Iron-Ham/taskflow/internal/util"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the previous run's task states",
	Long: `Display the task states saved by the previous run.

Shows nothing but "no previous run" once a run has finished cleanly,
since success clears the state file.`,
	RunE: runStatus,
}

var statusWatch bool

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusWatch, "watch", false, "redraw whenever the state file changes")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if statusWatch {
		return watchStatus(cmd, cfg.State.File)
	}
	return showStatus(cmd.OutOrStdout(), cfg.State.File)
}

func showStatus(w io.Writer, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(w, "no previous run")
		return nil
	}

	store := state.NewStore(path, logging.NopLogger())
	results := store.Load()
	if len(results) == 0 {
		fmt.Fprintln(w, "no tasks found")
		return nil
	}

	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	idWidth := 0
	for _, id := range ids {
		if len(id) > idWidth {
			idWidth = len(id)
		}
	}

	for _, id := range ids {
		fmt.Fprintln(w, formatTaskLine(results[id], idWidth))
	}

	counts := make(map[state.TaskStatus]int)
	for _, r := range results {
		counts[r.Status]++
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.Muted.Render(formatCounts(counts)))
	return nil
}

// formatTaskLine renders one task's saved state as a status row.
func formatTaskLine(r state.TaskResult, idWidth int) string {
	status := string(r.Status)
	icon := lipgloss.NewStyle().Foreground(styles.StatusColor(status)).Render(styles.StatusIcon(status))

	detail := fmt.Sprintf("%s · attempts %d", status, r.Attempts)
	if r.Error != "" {
		detail += " · " + util.TruncateString(r.Error, 80)
	}
	if d := r.Duration(); d > 0 {
		detail += fmt.Sprintf(" · %.1fs", d)
	}

	return fmt.Sprintf("%s %-*s  %s", icon, idWidth, r.TaskID, styles.Muted.Render(detail))
}

// watchStatus redraws the status whenever the state file changes, until
// interrupted.
func watchStatus(cmd *cobra.Command, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the state file's directory; the file itself disappears and
	// reappears across runs (fsnotify works better with directories)
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := cmd.OutOrStdout()
	redraw := func() error {
		fmt.Fprint(w, "\033[H\033[2J")
		if err := showStatus(w, path); err != nil {
			return err
		}
		fmt.Fprintln(w, styles.Muted.Render("watching · ctrl+c to stop"))
		return nil
	}
	if err := redraw(); err != nil {
		return err
	}

	// Debounce: an atomic save produces a burst of events
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	base := filepath.Base(path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			debounce.Reset(100 * time.Millisecond)

		case <-debounce.C:
			if err := redraw(); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)
		}
	}
}
