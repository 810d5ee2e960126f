package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/taskflow/internal/state"
	"github.com/Iron-Ham/taskflow/internal/tui/styles"
	"github.com/Iron-Ham/taskflow/internal/util"
)

// Layout constants
const (
	// MinOutputLines is the smallest output pane worth drawing; below
	// this the pane is dropped entirely.
	MinOutputLines = 3
	MaxOutputPane  = 15
)

// View renders the dashboard.
func (m Model) View() string {
	if !m.ready {
		return "Starting..."
	}

	snap := m.results.Snapshot()

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine(snap))
	b.WriteString("\n")
	b.WriteString(m.renderProgress(snap))
	b.WriteString("\n\n")
	taskList := m.renderTasks(snap)
	b.WriteString(taskList)
	b.WriteString("\n")
	if pane := m.renderOutput(strings.Count(taskList, "\n") + 1); pane != "" {
		b.WriteString(pane)
		b.WriteString("\n")
	}
	b.WriteString(m.renderHelp())

	return b.String()
}

// renderHeader renders the header bar with the application title and
// the pipeline file being run.
func (m Model) renderHeader() string {
	title := "Taskflow"
	if m.pipelinePath != "" {
		title = fmt.Sprintf("Taskflow: %s", m.pipelinePath)
	}
	return styles.Header.Width(m.width).Render(title)
}

func (m Model) renderStatusLine(snap map[string]state.TaskResult) string {
	if m.quitting && !m.finished {
		return styles.WarningMsg.Render("stopping tasks...")
	}

	if m.finished {
		elapsed := m.elapsed().Round(time.Second)
		switch {
		case m.runErr != nil:
			return styles.ErrorMsg.Render(m.runErr.Error())
		case m.summary != nil && m.summary.Aborted:
			return styles.ErrorMsg.Render("aborted") +
				styles.Muted.Render(fmt.Sprintf(" · %d blocked · %s", len(m.summary.Blocked), elapsed))
		case m.summary != nil && !m.summary.Success():
			return styles.ErrorMsg.Render("failed") +
				styles.Muted.Render(fmt.Sprintf(" · %d failed · %d blocked · %s",
					m.summary.Failed, len(m.summary.Blocked), elapsed))
		default:
			return styles.SuccessMsg.Render("done") +
				styles.Muted.Render(fmt.Sprintf(" · %s", elapsed))
		}
	}

	var done, active int
	for _, id := range m.order {
		switch snap[id].Status {
		case state.StatusDone:
			done++
		case state.StatusRunning, state.StatusRetrying:
			active++
		}
	}

	return fmt.Sprintf("%s %s", m.spinner.View(),
		styles.Text.Render(fmt.Sprintf("%d running · %d/%d done · %s",
			active, done, len(m.order), m.elapsed().Round(time.Second))))
}

func (m Model) renderProgress(snap map[string]state.TaskResult) string {
	done := 0
	for _, id := range m.order {
		if snap[id].Status == state.StatusDone {
			done++
		}
	}
	if len(m.order) == 0 {
		return m.progress.ViewAs(0)
	}
	return m.progress.ViewAs(float64(done) / float64(len(m.order)))
}

// renderTasks renders the task list grouped by execution level.
func (m Model) renderTasks(snap map[string]state.TaskResult) string {
	idWidth := 0
	for _, id := range m.order {
		if len(id) > idWidth {
			idWidth = len(id)
		}
	}

	var b strings.Builder
	row := 0
	for i, level := range m.plan.Levels {
		b.WriteString(styles.LevelTitle.Render(fmt.Sprintf("level %d", i)))
		b.WriteString("\n")
		for _, id := range level {
			b.WriteString(m.renderTaskRow(snap, id, idWidth, row == m.selected))
			b.WriteString("\n")
			row++
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderTaskRow(snap map[string]state.TaskResult, id string, idWidth int, selected bool) string {
	status := m.displayStatus(snap, id)
	color := styles.StatusColor(status)

	icon := styles.StatusIcon(status)
	if !m.finished && (status == string(state.StatusRunning) || status == string(state.StatusRetrying)) {
		icon = m.spinner.View()
	}
	icon = lipgloss.NewStyle().Foreground(color).Render(icon)

	cursor := " "
	idStyle := styles.TaskID
	if selected {
		cursor = ">"
		idStyle = idStyle.Bold(true)
	}

	detail := m.taskDetail(snap, id, status)
	if detail != "" {
		detail = "  " + lipgloss.NewStyle().Foreground(color).Render(detail)
	}

	return fmt.Sprintf(" %s %s %s%s", cursor, icon, idStyle.Render(fmt.Sprintf("%-*s", idWidth, id)), detail)
}

// taskDetail returns the short annotation after a task's ID.
func (m Model) taskDetail(snap map[string]state.TaskResult, id, status string) string {
	r, ok := snap[id]
	switch status {
	case "running", "retrying":
		if !ok {
			return ""
		}
		detail := fmt.Sprintf("attempt %d", r.Attempts)
		if r.StartTime != nil {
			detail += fmt.Sprintf(" · %s", time.Since(state.Time(*r.StartTime)).Round(time.Second))
		}
		return detail
	case "done":
		if !ok || r.Duration() == 0 {
			return ""
		}
		return fmt.Sprintf("%.1fs", r.Duration())
	case "failed":
		if !ok {
			return ""
		}
		return util.TruncateString(r.Error, 60)
	case "blocked":
		if dep := m.unsatisfiedDep(snap, id); dep != "" {
			return "blocked by " + dep
		}
		return "blocked"
	default:
		return ""
	}
}

// unsatisfiedDep returns the first dependency that did not finish.
func (m Model) unsatisfiedDep(snap map[string]state.TaskResult, id string) string {
	for _, dep := range m.tasks[id].DependsOn {
		if snap[dep].Status != state.StatusDone {
			return dep
		}
	}
	return ""
}

// renderOutput renders the output pane for the selected task, sized to
// whatever vertical space the task list left over.
func (m Model) renderOutput(taskListLines int) string {
	id := m.selectedTask()
	if id == "" {
		return ""
	}

	// header (4) + status + progress + blanks (4) + help (2) + border (2)
	available := m.height - taskListLines - 12
	if available < MinOutputLines {
		return ""
	}
	if available > MaxOutputPane {
		available = MaxOutputPane
	}

	width := max(m.width-4, 20)
	lines := m.outputs[id]
	if len(lines) > available {
		lines = lines[len(lines)-available:]
	}
	clipped := make([]string, len(lines))
	for i, line := range lines {
		clipped[i] = util.TruncateANSI(line, width-2)
	}
	body := strings.Join(clipped, "\n")
	if body == "" {
		body = styles.Muted.Render("no output yet")
	}

	title := styles.OutputTitle.Render(fmt.Sprintf("output · %s", id))
	return styles.OutputArea.Width(width).Render(title + "\n" + body)
}

func (m Model) renderHelp() string {
	keys := []string{
		fmt.Sprintf("%s/%s task", styles.HelpKey.Render("↑"), styles.HelpKey.Render("↓")),
		fmt.Sprintf("%s quit", styles.HelpKey.Render("q")),
	}
	if !m.finished {
		keys[1] = fmt.Sprintf("%s stop", styles.HelpKey.Render("q"))
	}
	return styles.HelpBar.Render(strings.Join(keys, " · "))
}
