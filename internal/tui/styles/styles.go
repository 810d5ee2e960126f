package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - all colors meet WCAG AA contrast (4.5:1) on both black and dark surfaces
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple (violet-400)
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red (red-400)
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray (brighter for readability)
	SurfaceColor   = lipgloss.Color("#1F2937") // Dark surface
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray (gray-500)

	// Convenience styles for colors
	Primary   = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning   = lipgloss.NewStyle().Foreground(WarningColor)
	Error     = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted     = lipgloss.NewStyle().Foreground(MutedColor)
	Text      = lipgloss.NewStyle().Foreground(TextColor)

	// Status colors, one per task lifecycle state plus the blocked
	// display state
	StatusPending  = lipgloss.Color("#9CA3AF") // Gray
	StatusRunning  = lipgloss.Color("#10B981") // Green
	StatusRetrying = lipgloss.Color("#F59E0B") // Amber
	StatusDone     = lipgloss.Color("#A78BFA") // Purple
	StatusFailed   = lipgloss.Color("#F87171") // Red (red-400)
	StatusBlocked  = lipgloss.Color("#FB923C") // Orange

	// Header
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(BorderColor).
		MarginBottom(1).
		PaddingBottom(1)

	// Level captions in the task list
	LevelTitle = lipgloss.NewStyle().
			Foreground(MutedColor).
			MarginBottom(0)

	// Task rows
	TaskID = lipgloss.NewStyle().
		Foreground(TextColor)

	TaskDetail = lipgloss.NewStyle().
			Foreground(MutedColor)

	// Output area
	OutputArea = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	OutputTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	// Help bar
	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor).
		MarginTop(1)

	HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(SecondaryColor)

	// Error message
	ErrorMsg = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// Success message
	SuccessMsg = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	// Warning message
	WarningMsg = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)
)

// StatusColor returns the color for a given status
func StatusColor(status string) lipgloss.Color {
	switch status {
	case "pending":
		return StatusPending
	case "running":
		return StatusRunning
	case "retrying":
		return StatusRetrying
	case "done":
		return StatusDone
	case "failed":
		return StatusFailed
	case "blocked":
		return StatusBlocked
	default:
		return MutedColor
	}
}

// StatusIcon returns an icon for a given status
func StatusIcon(status string) string {
	switch status {
	case "pending":
		return "○"
	case "running":
		return "●"
	case "retrying":
		return "↻"
	case "done":
		return "✓"
	case "failed":
		return "✗"
	case "blocked":
		return "⊘"
	default:
		return "●"
	}
}
