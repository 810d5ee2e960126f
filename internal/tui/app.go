package tui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/taskflow/internal/executor"
)

// RunFunc starts the pipeline and blocks until it finishes. The
// dashboard cancels ctx when the user quits early.
type RunFunc func(ctx context.Context) (*executor.Summary, error)

// App wraps the Bubbletea program around a pipeline run.
type App struct {
	program *tea.Program
	model   Model
	run     RunFunc
}

// New creates a dashboard application. The run function is started once
// the terminal is set up.
func New(model Model, run RunFunc) *App {
	return &App{
		model: model,
		run:   run,
	}
}

// HandleLine feeds one line of task output into the dashboard. It is
// safe to call from executor worker goroutines.
func (a *App) HandleLine(taskID, line string) {
	if a.program != nil {
		a.program.Send(lineMsg{taskID: taskID, line: line})
	}
}

// Run starts the TUI, runs the pipeline underneath it, and returns the
// run's outcome after the user leaves the final screen. An interrupted
// run returns context.Canceled.
func (a *App) Run(ctx context.Context) (*executor.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.model.cancel = cancel
	a.model.started = time.Now()
	a.program = tea.NewProgram(a.model, tea.WithAltScreen())

	// Set up signal handling so a terminated dashboard still stops its
	// tasks before the process exits
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		<-sigChan
		cancel()
		a.program.Send(tea.Quit())
	}()

	go func() {
		summary, err := a.run(ctx)
		a.program.Send(runFinishedMsg{summary: summary, err: err})
	}()

	finalModel, err := a.program.Run()

	// Clean up signal handler
	signal.Stop(sigChan)

	if err != nil {
		return nil, fmt.Errorf("run dashboard: %w", err)
	}

	final, ok := finalModel.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", finalModel)
	}
	if final.runErr != nil {
		return nil, final.runErr
	}
	if final.summary == nil {
		return nil, context.Canceled
	}
	return final.summary, nil
}
