// Package internal contains integration tests that verify the taskflow
// packages work together: pipeline loading, plan computation, shell
// execution, and state persistence across runs.
package internal

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/Iron-Ham/taskflow/internal/executor"
	"github.com/Iron-Ham/taskflow/internal/logging"
	"github.com/Iron-Ham/taskflow/internal/pipeline"
	"github.com/Iron-Ham/taskflow/internal/state"
	"github.com/Iron-Ham/taskflow/internal/testutil"
)

// runPipeline executes pipeline.yaml in the current directory with a real
// shell and returns the summary plus the final per-task results.
func runPipeline(t *testing.T, opts executor.Options) (*executor.Summary, map[string]state.TaskResult, error) {
	t.Helper()
	testutil.SkipIfNoSh(t)

	tasks, err := pipeline.Load(pipeline.DefaultFileName)
	if err != nil {
		t.Fatalf("failed to load pipeline: %v", err)
	}

	if opts.OnLine == nil {
		opts.OnLine = func(taskID, line string) {}
	}
	store := state.NewStore("flow_state.json", logging.NopLogger())
	coord := executor.NewCoordinator(executor.NewShellRunner(false), store, logging.NopLogger(), opts)

	summary, err := coord.Run(context.Background(), tasks)
	return summary, coord.Results().Snapshot(), err
}

func TestPipelineRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	testutil.WritePipeline(t, dir, `tasks:
  - id: prepare
    run: echo data > input.txt
  - id: transform
    run: tr a-z A-Z < input.txt > output.txt
    depends_on: [prepare]
  - id: verify
    run: grep -q DATA output.txt
    depends_on: [transform]
`)

	summary, results, err := runPipeline(t, executor.Options{MaxWorkers: 2})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !summary.Success() {
		t.Errorf("summary.Success() = false, want true")
	}
	if summary.Counts[state.StatusDone] != 3 {
		t.Errorf("done count = %d, want 3", summary.Counts[state.StatusDone])
	}
	for _, id := range []string{"prepare", "transform", "verify"} {
		r := results[id]
		if r.Status != state.StatusDone {
			t.Errorf("task %s status = %s, want done", id, r.Status)
		}
		if r.Attempts != 1 {
			t.Errorf("task %s attempts = %d, want 1", id, r.Attempts)
		}
	}

	// The tasks really ran, in dependency order
	output, err := os.ReadFile("output.txt")
	if err != nil {
		t.Fatalf("transform output missing: %v", err)
	}
	if !strings.Contains(string(output), "DATA") {
		t.Errorf("output.txt = %q, want DATA", output)
	}

	// A clean run leaves no state behind
	if _, err := os.Stat("flow_state.json"); !os.IsNotExist(err) {
		t.Error("state file should be cleared after a successful run")
	}
}

func TestFailedRunResumesWhereItStopped(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	testutil.WritePipeline(t, dir, `tasks:
  - id: fetch
    run: echo fetched >> fetch_runs.txt
  - id: flaky
    run: test -f ready.txt
    depends_on: [fetch]
  - id: publish
    run: echo published > published.txt
    depends_on: [flaky]
`)

	summary, _, err := runPipeline(t, executor.Options{MaxWorkers: 2})
	if err != nil {
		t.Fatalf("first run errored: %v", err)
	}
	if summary.Failed != 1 {
		t.Errorf("first run failed count = %d, want 1", summary.Failed)
	}
	if len(summary.Blocked) != 1 || summary.Blocked[0] != "publish" {
		t.Errorf("first run blocked = %v, want [publish]", summary.Blocked)
	}
	if _, err := os.Stat("published.txt"); !os.IsNotExist(err) {
		t.Error("publish ran even though its dependency failed")
	}
	if _, err := os.Stat("flow_state.json"); err != nil {
		t.Fatalf("state file should survive a failed run: %v", err)
	}

	// Fix the failure and resume
	testutil.WriteFile(t, dir, "ready.txt", "")

	summary, results, err := runPipeline(t, executor.Options{MaxWorkers: 2, Resume: true})
	if err != nil {
		t.Fatalf("resumed run errored: %v", err)
	}
	if !summary.Success() {
		t.Errorf("resumed run should succeed, got %d failed", summary.Failed)
	}

	// Finished tasks are not repeated on resume
	fetchRuns, err := os.ReadFile("fetch_runs.txt")
	if err != nil {
		t.Fatalf("fetch never ran: %v", err)
	}
	if got := strings.Count(string(fetchRuns), "\n"); got != 1 {
		t.Errorf("fetch ran %d times across both runs, want 1", got)
	}

	// Attempts accumulate across runs
	if results["flaky"].Attempts != 2 {
		t.Errorf("flaky attempts = %d, want 2", results["flaky"].Attempts)
	}
	if _, err := os.Stat("published.txt"); err != nil {
		t.Errorf("publish should run once its dependency is fixed: %v", err)
	}
	if _, err := os.Stat("flow_state.json"); !os.IsNotExist(err) {
		t.Error("state file should be cleared after a successful resume")
	}
}

func TestTasksInALevelRunConcurrently(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	// Each side waits for the other's start marker, so the pipeline only
	// finishes if both tasks are in flight at once.
	testutil.WritePipeline(t, dir, `tasks:
  - id: left
    run: >
      touch left.started;
      i=0;
      while [ ! -f right.started ] && [ $i -lt 100 ]; do sleep 0.1; i=$((i+1)); done;
      test -f right.started
  - id: right
    run: >
      touch right.started;
      i=0;
      while [ ! -f left.started ] && [ $i -lt 100 ]; do sleep 0.1; i=$((i+1)); done;
      test -f left.started
`)

	summary, _, err := runPipeline(t, executor.Options{MaxWorkers: 2})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !summary.Success() {
		t.Error("tasks in the same level should run concurrently")
	}
}

func TestRetryRecoversFlakyTask(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	testutil.WritePipeline(t, dir, `tasks:
  - id: flaky
    run: if [ -f attempted.txt ]; then echo ok; else touch attempted.txt; exit 1; fi
`)

	summary, results, err := runPipeline(t, executor.Options{MaxWorkers: 1, Retries: 1})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !summary.Success() {
		t.Errorf("run should succeed after a retry, got %d failed", summary.Failed)
	}
	if results["flaky"].Status != state.StatusDone {
		t.Errorf("flaky status = %s, want done", results["flaky"].Status)
	}
	if results["flaky"].Attempts != 2 {
		t.Errorf("flaky attempts = %d, want 2", results["flaky"].Attempts)
	}
}

func TestAbortPolicyStopsDownstreamLevels(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	testutil.WritePipeline(t, dir, `tasks:
  - id: broken
    run: exit 1
  - id: indie
    run: touch indie.txt
  - id: after
    run: touch after.txt
    depends_on: [broken]
`)

	summary, _, err := runPipeline(t, executor.Options{MaxWorkers: 2, OnBlocked: executor.BlockedAbort})
	if err != nil {
		t.Fatalf("run errored: %v", err)
	}
	if !summary.Aborted {
		t.Error("summary.Aborted = false, want true")
	}

	// The failing task's level still ran to completion
	if _, err := os.Stat("indie.txt"); err != nil {
		t.Errorf("independent task in the failing level should run: %v", err)
	}
	// Nothing past the blocked level ran
	if _, err := os.Stat("after.txt"); !os.IsNotExist(err) {
		t.Error("downstream task ran after the run aborted")
	}
}
