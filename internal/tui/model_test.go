package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/taskflow/internal/executor"
	"github.com/Iron-Ham/taskflow/internal/pipeline"
	"github.com/Iron-Ham/taskflow/internal/plan"
	"github.com/Iron-Ham/taskflow/internal/state"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	tasks := []pipeline.Task{
		{ID: "build", Run: "make build"},
		{ID: "lint", Run: "make lint"},
		{ID: "test", Run: "make test", DependsOn: []string{"build", "lint"}},
	}
	p, err := plan.Compute(tasks)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	return NewModel("pipeline.yaml", p, tasks, state.NewResultMap())
}

func sized(m Model) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func keyPress(m Model, key string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestModelTaskOrderFollowsPlan(t *testing.T) {
	m := newTestModel(t)

	// Level 0 is sorted (build, lint), level 1 holds test.
	want := []string{"build", "lint", "test"}
	if len(m.order) != len(want) {
		t.Fatalf("order length = %d, want %d", len(m.order), len(want))
	}
	for i, id := range want {
		if m.order[i] != id {
			t.Errorf("order[%d] = %q, want %q", i, m.order[i], id)
		}
	}
}

func TestModelSelection(t *testing.T) {
	m := newTestModel(t)

	if got := m.selectedTask(); got != "build" {
		t.Errorf("selectedTask() = %q, want %q", got, "build")
	}

	m, _ = keyPress(m, "down")
	m, _ = keyPress(m, "down")
	if got := m.selectedTask(); got != "test" {
		t.Errorf("selectedTask() = %q, want %q", got, "test")
	}

	// Clamped at the last task.
	m, _ = keyPress(m, "down")
	if got := m.selectedTask(); got != "test" {
		t.Errorf("selectedTask() after extra down = %q, want %q", got, "test")
	}

	m, _ = keyPress(m, "up")
	m, _ = keyPress(m, "up")
	m, _ = keyPress(m, "up")
	if got := m.selectedTask(); got != "build" {
		t.Errorf("selectedTask() after ups = %q, want %q", got, "build")
	}
}

func TestModelLineBufferCap(t *testing.T) {
	m := newTestModel(t).WithDisplayOptions(0, 50)

	for range 55 {
		updated, _ := m.Update(lineMsg{taskID: "build", line: "line"})
		m = updated.(Model)
	}
	updated, _ := m.Update(lineMsg{taskID: "build", line: "newest"})
	m = updated.(Model)

	lines := m.outputs["build"]
	if len(lines) != 50 {
		t.Errorf("output length = %d, want %d", len(lines), 50)
	}
	if lines[len(lines)-1] != "newest" {
		t.Errorf("last line = %q, want %q", lines[len(lines)-1], "newest")
	}
}

func TestModelDisplayOptionDefaults(t *testing.T) {
	m := newTestModel(t).WithDisplayOptions(0, 0)
	if m.refresh != defaultRefresh {
		t.Errorf("refresh = %v, want %v", m.refresh, defaultRefresh)
	}
	if m.outputCap != defaultOutputCap {
		t.Errorf("outputCap = %d, want %d", m.outputCap, defaultOutputCap)
	}
}

func TestModelRunFinished(t *testing.T) {
	m := newTestModel(t)

	summary := &executor.Summary{Blocked: []string{"test"}, Failed: 1, Total: 3}
	updated, cmd := m.Update(runFinishedMsg{summary: summary})
	m = updated.(Model)

	if !m.finished {
		t.Error("finished = false, want true")
	}
	if !m.blocked["test"] {
		t.Error("blocked[test] = false, want true")
	}
	// The final screen stays up for the user.
	if cmd != nil {
		t.Error("cmd != nil, want nil")
	}
}

func TestModelRunFinishedWithErrorQuits(t *testing.T) {
	m := newTestModel(t)

	updated, cmd := m.Update(runFinishedMsg{err: errors.New("boom")})
	m = updated.(Model)

	if m.runErr == nil {
		t.Error("runErr = nil, want error")
	}
	if cmd == nil {
		t.Fatal("cmd = nil, want quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("cmd() = %T, want tea.QuitMsg", cmd())
	}
}

func TestModelQuitDuringRunCancels(t *testing.T) {
	m := newTestModel(t)
	canceled := false
	m.cancel = func() { canceled = true }

	m, cmd := keyPress(m, "q")

	if !m.quitting {
		t.Error("quitting = false, want true")
	}
	if !canceled {
		t.Error("cancel was not called")
	}
	// The quit happens once the run reports back.
	if cmd != nil {
		t.Error("cmd != nil, want nil")
	}

	updated, cmd := m.Update(runFinishedMsg{summary: &executor.Summary{}})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("cmd = nil, want quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("cmd() = %T, want tea.QuitMsg", cmd())
	}
}

func TestModelQuitAfterFinish(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(runFinishedMsg{summary: &executor.Summary{}})
	m = updated.(Model)

	_, cmd := keyPress(m, "q")
	if cmd == nil {
		t.Fatal("cmd = nil, want quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("cmd() = %T, want tea.QuitMsg", cmd())
	}
}

func TestModelDisplayStatus(t *testing.T) {
	m := newTestModel(t)
	m.results.Set(state.TaskResult{TaskID: "build", Status: state.StatusDone})
	m.blocked["test"] = true
	snap := m.results.Snapshot()

	tests := []struct {
		id       string
		expected string
	}{
		{"build", "done"},
		{"lint", "pending"},
		{"test", "blocked"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := m.displayStatus(snap, tt.id); got != tt.expected {
				t.Errorf("displayStatus(%q) = %q, want %q", tt.id, got, tt.expected)
			}
		})
	}
}

func TestModelViewSmoke(t *testing.T) {
	m := sized(newTestModel(t))
	m.results.Set(state.TaskResult{TaskID: "build", Status: state.StatusRunning, Attempts: 1})

	view := m.View()

	for _, want := range []string{"Taskflow: pipeline.yaml", "level 0", "level 1", "build", "lint", "test"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModelViewBeforeReady(t *testing.T) {
	m := newTestModel(t)
	if got := m.View(); got != "Starting..." {
		t.Errorf("View() = %q, want %q", got, "Starting...")
	}
}

func TestModelViewFinalScreen(t *testing.T) {
	m := sized(newTestModel(t))
	m.results.Set(state.TaskResult{TaskID: "build", Status: state.StatusDone})
	m.results.Set(state.TaskResult{TaskID: "lint", Status: state.StatusFailed, Error: "exit 1"})

	updated, _ := m.Update(runFinishedMsg{summary: &executor.Summary{
		Failed:  1,
		Blocked: []string{"test"},
		Total:   3,
	}})
	m = updated.(Model)

	view := m.View()
	for _, want := range []string{"failed", "exit 1", "blocked by lint"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
