package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Init starts the spinner and the status poll loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick(m.refresh))
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(msg.Width-4, 60)
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		if m.finished {
			return m, nil
		}
		return m, tick(m.refresh)

	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case lineMsg:
		lines := append(m.outputs[msg.taskID], msg.line)
		if len(lines) > m.outputCap {
			lines = lines[len(lines)-m.outputCap:]
		}
		m.outputs[msg.taskID] = lines
		return m, nil

	case runFinishedMsg:
		m.finished = true
		m.finishedAt = time.Now()
		m.summary = msg.summary
		m.runErr = msg.err
		if msg.summary != nil {
			for _, id := range msg.summary.Blocked {
				m.blocked[id] = true
			}
		}
		// Nothing to show for a run that never started; otherwise leave
		// the final screen up until the user quits.
		if m.runErr != nil || m.quitting {
			return m, tea.Quit
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.finished {
			return m, tea.Quit
		}
		// Stop the run and wait for the coordinator to wind down; the
		// finish message quits for us.
		m.quitting = true
		if m.cancel != nil {
			m.cancel()
		}
		return m, nil

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case "down", "j":
		if m.selected < len(m.order)-1 {
			m.selected++
		}
		return m, nil
	}

	return m, nil
}
