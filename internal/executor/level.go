package executor

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	"github.com/Iron-Ham/taskflow/internal/pipeline"
	"github.com/Iron-Ham/taskflow/internal/state"
)

// LevelExecutor runs the tasks of one level concurrently under a worker
// cap. Tasks within a level are mutually independent, so order of
// completion carries no meaning.
type LevelExecutor struct {
	runner     *Runner
	results    *state.ResultMap
	maxWorkers int
}

// NewLevelExecutor returns an executor that keeps at most maxWorkers
// tasks in flight.
func NewLevelExecutor(runner *Runner, results *state.ResultMap, maxWorkers int) *LevelExecutor {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &LevelExecutor{runner: runner, results: results, maxWorkers: maxWorkers}
}

// Execute runs the level's not-yet-done tasks and returns one result per
// task, stored results included for tasks skipped as already done. The
// pool never holds more goroutines than tasks that actually need work.
func (e *LevelExecutor) Execute(ctx context.Context, tasks []pipeline.Task) []state.TaskResult {
	var need []pipeline.Task
	var done []state.TaskResult
	for _, t := range tasks {
		if r, ok := e.results.Get(t.ID); ok && r.Status == state.StatusDone {
			done = append(done, r)
			continue
		}
		need = append(need, t)
	}
	if len(need) == 0 {
		return done
	}

	out := make([]state.TaskResult, len(need))
	p := pool.New().WithMaxGoroutines(min(e.maxWorkers, len(need)))
	for i, t := range need {
		p.Go(func() {
			out[i] = e.runner.Execute(ctx, t)
		})
	}
	p.Wait()

	return append(out, done...)
}
