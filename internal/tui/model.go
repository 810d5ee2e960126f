package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"

	"github.com/Iron-Ham/taskflow/internal/executor"
	"github.com/Iron-Ham/taskflow/internal/pipeline"
	"github.com/Iron-Ham/taskflow/internal/plan"
	"github.com/Iron-Ham/taskflow/internal/state"
)

// Display defaults, overridable through WithDisplayOptions.
const (
	// defaultRefresh is how often task statuses are re-read.
	defaultRefresh = 100 * time.Millisecond

	// defaultOutputCap caps the per-task output kept for display. Older
	// lines roll off; the full output is still in the run's results.
	defaultOutputCap = 200
)

// Model holds the dashboard state for one pipeline run.
type Model struct {
	// Core components
	pipelinePath string
	plan         *plan.Plan
	tasks        map[string]pipeline.Task
	order        []string
	results      *state.ResultMap

	// Run outcome, set when the coordinator finishes
	finished bool
	summary  *executor.Summary
	runErr   error
	blocked  map[string]bool

	// UI state
	width      int
	height     int
	ready      bool
	quitting   bool
	selected   int
	outputs    map[string][]string
	outputCap  int
	refresh    time.Duration
	spinner    spinner.Model
	progress   progress.Model
	started    time.Time
	finishedAt time.Time

	// cancel stops the underlying run when the user quits early
	cancel context.CancelFunc
}

// NewModel creates a dashboard model for the given plan. Task statuses
// are read live from results, which the executor updates as it runs.
func NewModel(pipelinePath string, p *plan.Plan, tasks []pipeline.Task, results *state.ResultMap) Model {
	order := make([]string, 0, p.TaskCount())
	for _, level := range p.Levels {
		order = append(order, level...)
	}

	return Model{
		pipelinePath: pipelinePath,
		plan:         p,
		tasks:        pipeline.Index(tasks),
		order:        order,
		results:      results,
		blocked:      make(map[string]bool),
		outputs:      make(map[string][]string),
		outputCap:    defaultOutputCap,
		refresh:      defaultRefresh,
		spinner:      spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		progress:     progress.New(progress.WithDefaultGradient()),
	}
}

// WithDisplayOptions overrides the refresh interval and the per-task
// output cap. Zero values keep the defaults.
func (m Model) WithDisplayOptions(refresh time.Duration, outputCap int) Model {
	if refresh > 0 {
		m.refresh = refresh
	}
	if outputCap > 0 {
		m.outputCap = outputCap
	}
	return m
}

// displayStatus returns the status string shown for a task. Tasks the
// coordinator withheld render as "blocked", which is a display state,
// not a stored one.
func (m Model) displayStatus(snap map[string]state.TaskResult, id string) string {
	if m.blocked[id] {
		return "blocked"
	}
	if r, ok := snap[id]; ok {
		return string(r.Status)
	}
	return string(state.StatusPending)
}

// selectedTask returns the ID of the task the output pane follows.
func (m Model) selectedTask() string {
	if len(m.order) == 0 {
		return ""
	}
	if m.selected >= len(m.order) {
		return m.order[len(m.order)-1]
	}
	return m.order[m.selected]
}

// elapsed returns the run's wall-clock duration, frozen once finished.
func (m Model) elapsed() time.Duration {
	if m.started.IsZero() {
		return 0
	}
	if m.finished {
		return m.finishedAt.Sub(m.started)
	}
	return time.Since(m.started)
}
