package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Iron-Ham/taskflow/internal/logging"
	"github.com/Iron-Ham/taskflow/internal/pipeline"
	"github.com/Iron-Ham/taskflow/internal/state"
)

// Runner drives a single task to a terminal result. It owns the task's
// result map entry for the duration of the attempts; the Level Executor
// guarantees no two runners work the same task concurrently.
type Runner struct {
	command CommandRunner
	results *state.ResultMap
	store   *state.Store
	logger  *logging.Logger
	onLine  LineHandler
	retries int
	timeout time.Duration
}

// NewRunner wires a task runner against the shared result map and store.
func NewRunner(command CommandRunner, results *state.ResultMap, store *state.Store, logger *logging.Logger, opts Options) *Runner {
	if logger == nil {
		logger = logging.NopLogger()
	}
	onLine := opts.OnLine
	if onLine == nil {
		onLine = ConsoleLineHandler(os.Stdout)
	}
	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}
	return &Runner{
		command: command,
		results: results,
		store:   store,
		logger:  logger,
		onLine:  onLine,
		retries: retries,
		timeout: opts.Timeout,
	}
}

// Execute runs task until it succeeds or its attempts are exhausted. A
// task already recorded as done is returned unchanged without spawning
// anything. The state file is written on terminal transitions only, not
// between retries.
func (r *Runner) Execute(ctx context.Context, task pipeline.Task) state.TaskResult {
	result, ok := r.results.Get(task.ID)
	if !ok {
		result = state.NewTaskResult(task.ID)
	}
	if result.Status == state.StatusDone {
		return result
	}

	log := r.logger.WithTask(task.ID)

	// The ceiling is relative to attempts carried over from a resumed
	// run, so a previously failed task re-runs with a fresh retry budget
	// while its attempt count keeps accumulating.
	maxAttempts := result.Attempts + r.retries + 1

	for result.Attempts < maxAttempts && ctx.Err() == nil {
		result.Attempts++
		if result.Attempts > 1 {
			result.Status = state.StatusRetrying
		} else {
			result.Status = state.StatusRunning
		}
		start := state.Now()
		result.StartTime = &start
		r.results.Set(result)
		log.Info(string(result.Status), "attempt", result.Attempts)

		var lines []string
		sink := func(line string) {
			lines = append(lines, line)
			r.onLine(task.ID, line)
		}

		attemptCtx := ctx
		cancel := func() {}
		if r.timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, r.timeout)
		}
		code, err := r.command.Run(attemptCtx, task.Run, sink)
		cancel()

		// Each attempt replaces the previous attempt's capture, partial
		// output from a timed-out attempt included.
		result.Output = strings.Join(lines, "\n")

		switch {
		case err == nil && code == 0:
			result.Status = state.StatusDone
			result.Error = ""
			r.results.Set(result)
			log.Info("done")
			r.persist()
			return result
		case errors.Is(err, context.DeadlineExceeded):
			result.Error = "timeout"
			log.Error("timeout")
		case err != nil:
			result.Error = err.Error()
			log.Error("error", "error", err)
		default:
			result.Error = fmt.Sprintf("exit %d", code)
			log.Error("failed", "exit", code)
		}
		r.results.Set(result)
	}

	result.Status = state.StatusFailed
	end := state.Now()
	result.EndTime = &end
	r.results.Set(result)
	r.persist()
	return result
}

func (r *Runner) persist() {
	if err := r.store.Save(r.results.Snapshot()); err != nil {
		r.logger.Warn("state save failed", "error", err)
	}
}
