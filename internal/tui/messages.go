package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/taskflow/internal/executor"
)

// tickMsg is sent periodically to refresh task statuses from the shared
// result map
type tickMsg time.Time

// lineMsg carries one line of captured task output
type lineMsg struct {
	taskID string
	line   string
}

// runFinishedMsg is sent when the coordinator returns
type runFinishedMsg struct {
	summary *executor.Summary
	err     error
}

// Commands

// tick returns a command that sends a tickMsg after the refresh
// interval. This drives the periodic UI updates while tasks run.
func tick(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
