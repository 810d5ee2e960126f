package executor

import (
	"context"
	"sync"
	"time"

	"github.com/Iron-Ham/taskflow/internal/pipeline"
)

// fakeResult scripts one invocation's behavior.
type fakeResult struct {
	code  int
	err   error
	lines []string
	delay time.Duration
}

// fakeCommand is a scripted CommandRunner. Results are keyed by command
// string and consumed in order; the last one repeats for further calls.
// An unscripted command succeeds silently.
type fakeCommand struct {
	mu          sync.Mutex
	scripts     map[string][]fakeResult
	calls       []string
	inFlight    int
	maxInFlight int
}

func newFakeCommand() *fakeCommand {
	return &fakeCommand{scripts: make(map[string][]fakeResult)}
}

func (f *fakeCommand) script(command string, results ...fakeResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[command] = results
}

func (f *fakeCommand) Run(ctx context.Context, command string, sink LineSink) (int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, command)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	var r fakeResult
	if rs := f.scripts[command]; len(rs) > 0 {
		r = rs[0]
		if len(rs) > 1 {
			f.scripts[command] = rs[1:]
		}
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if r.delay > 0 {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(r.delay):
		}
	}
	for _, line := range r.lines {
		sink(line)
	}
	if r.err != nil {
		return 0, r.err
	}
	return r.code, nil
}

func (f *fakeCommand) callCount(command string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == command {
			n++
		}
	}
	return n
}

func (f *fakeCommand) allCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeCommand) peakInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

func discardLines(string, string) {}

func testTask(id, run string, deps ...string) pipeline.Task {
	return pipeline.Task{ID: id, Run: run, DependsOn: deps}
}
