package executor

import (
	"context"
	"fmt"

	"github.com/Iron-Ham/taskflow/internal/filelock"
	"github.com/Iron-Ham/taskflow/internal/logging"
	"github.com/Iron-Ham/taskflow/internal/pipeline"
	"github.com/Iron-Ham/taskflow/internal/plan"
	"github.com/Iron-Ham/taskflow/internal/state"
)

// Coordinator runs a pipeline level by level: it computes the plan,
// restores prior results on resume, decides per level which tasks are
// runnable versus blocked, and settles the run's outcome.
type Coordinator struct {
	store   *state.Store
	logger  *logging.Logger
	opts    Options
	results *state.ResultMap
	runner  *Runner
	levels  *LevelExecutor
}

// NewCoordinator wires a coordinator around the given command capability
// and state store.
func NewCoordinator(command CommandRunner, store *state.Store, logger *logging.Logger, opts Options) *Coordinator {
	if logger == nil {
		logger = logging.NopLogger()
	}
	results := state.NewResultMap()
	runner := NewRunner(command, results, store, logger, opts)
	return &Coordinator{
		store:   store,
		logger:  logger,
		opts:    opts,
		results: results,
		runner:  runner,
		levels:  NewLevelExecutor(runner, results, opts.MaxWorkers),
	}
}

// Results exposes the shared result map for live observers such as the
// dashboard. Readers must use its accessors; the map stays in use by
// worker goroutines for the whole run.
func (c *Coordinator) Results() *state.ResultMap {
	return c.results
}

// Run executes tasks level by level and reports the outcome. The
// returned error covers problems that prevent execution entirely, a
// dependency cycle or a concurrent run holding the state lock; task
// failures land in the Summary instead.
func (c *Coordinator) Run(ctx context.Context, tasks []pipeline.Task) (*Summary, error) {
	p, err := plan.Compute(tasks)
	if err != nil {
		return nil, err
	}

	lock := filelock.New(c.store.Path())
	if err := lock.Acquire(); err != nil {
		return nil, fmt.Errorf("another run may be active: %w", err)
	}
	defer func() { _ = lock.Release() }()

	if c.opts.Resume {
		for _, r := range c.store.Load() {
			c.results.Set(r)
		}
	}

	byID := pipeline.Index(tasks)
	summary := &Summary{Total: p.TaskCount()}

	for i, level := range p.Levels {
		levelLog := c.logger.WithLevel(i)
		levelLog.Debug("level starting", "tasks", len(level))

		runnable := make([]pipeline.Task, 0, len(level))
		blocked := 0
		for _, id := range level {
			task := byID[id]
			if dep, isBlocked := c.blockingDep(task); isBlocked {
				levelLog.WithTask(id).Error("blocked", "dependency", dep)
				summary.Blocked = append(summary.Blocked, id)
				blocked++
				continue
			}
			runnable = append(runnable, task)
		}

		if blocked > 0 && c.opts.OnBlocked == BlockedAbort {
			levelLog.Error("aborting, blocked tasks in level", "blocked", blocked)
			summary.Aborted = true
			break
		}

		if len(runnable) == 0 {
			continue
		}

		for _, r := range c.levels.Execute(ctx, runnable) {
			if r.Status == state.StatusFailed {
				summary.Failed++
			}
		}
	}

	summary.Counts = c.countStatuses(p)

	if summary.Success() {
		c.logger.Info("done")
		if err := c.store.Clear(); err != nil {
			c.logger.Warn("state clear failed", "error", err)
		}
	} else {
		c.logger.Error("failed", "failed_tasks", summary.Failed, "blocked_tasks", len(summary.Blocked))
	}
	return summary, nil
}

// blockingDep returns the first dependency of task that has not reached
// done. A dependency with no recorded result counts as unsatisfied.
func (c *Coordinator) blockingDep(task pipeline.Task) (string, bool) {
	for _, dep := range task.DependsOn {
		r, ok := c.results.Get(dep)
		if !ok || r.Status != state.StatusDone {
			return dep, true
		}
	}
	return "", false
}

// countStatuses tallies the planned tasks by status. Tasks that never
// got a result entry count as pending; stray state file entries from
// other pipelines are ignored.
func (c *Coordinator) countStatuses(p *plan.Plan) map[state.TaskStatus]int {
	counts := make(map[state.TaskStatus]int, len(state.ValidStatuses()))
	for _, s := range state.ValidStatuses() {
		counts[s] = 0
	}
	for _, level := range p.Levels {
		for _, id := range level {
			status := state.StatusPending
			if r, ok := c.results.Get(id); ok {
				status = r.Status
			}
			counts[status]++
		}
	}
	return counts
}
