package executor

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Iron-Ham/taskflow/internal/state"
)

// CommandRunner launches one shell command attempt and streams its
// output. Run blocks until the process exits or ctx ends; it returns the
// exit code when the process ran to completion, and an error when it
// could not be launched or was cut short by ctx.
type CommandRunner interface {
	Run(ctx context.Context, command string, sink LineSink) (exitCode int, err error)
}

// LineSink receives one cleaned output line at a time, in arrival order.
type LineSink func(line string)

// LineHandler receives task output lines for display.
type LineHandler func(taskID, line string)

// ConsoleLineHandler returns a LineHandler that writes each line to w
// prefixed with its task ID. Writes are serialized so lines from
// concurrent tasks never interleave mid-line.
func ConsoleLineHandler(w io.Writer) LineHandler {
	var mu sync.Mutex
	return func(taskID, line string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, "  %s | %s\n", taskID, line)
	}
}

// Blocked-task policies. Skip withholds blocked tasks and keeps going so
// independent branches still make progress; abort stops the run at the
// first level containing a blocked task.
const (
	BlockedSkip  = "skip"
	BlockedAbort = "abort"
)

// Options configure a run.
type Options struct {
	// MaxWorkers caps how many tasks of one level run at once.
	MaxWorkers int
	// Retries is the number of extra attempts after a failed one.
	Retries int
	// Timeout bounds a single attempt. Zero disables the bound.
	Timeout time.Duration
	// OnBlocked selects the blocked-task policy; anything other than
	// BlockedAbort behaves as BlockedSkip.
	OnBlocked string
	// Resume loads persisted results before the first level so finished
	// tasks are not repeated.
	Resume bool
	// OnLine receives task output lines. Nil means prefixed lines on
	// stdout.
	OnLine LineHandler
}

// Summary is the outcome of one run.
type Summary struct {
	// Counts tallies the planned tasks per final status.
	Counts map[state.TaskStatus]int
	// Blocked lists task IDs withheld because a dependency never reached
	// done, in level order.
	Blocked []string
	// Failed counts tasks that exhausted their attempts during this run.
	Failed int
	// Total is the number of planned tasks.
	Total int
	// Aborted reports that the abort policy stopped the run early.
	Aborted bool
}

// Success reports whether the run finished with nothing failed and
// nothing aborted. Blocked tasks alone do not fail a run; the failure
// that blocked them already counts.
func (s *Summary) Success() bool {
	return s.Failed == 0 && !s.Aborted
}
