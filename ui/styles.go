package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primary   = lipgloss.Color("99")  // purple
	secondary = lipgloss.Color("240") // gray
	accent    = lipgloss.Color("86")  // green
	danger    = lipgloss.Color("196") // red

	// App container
	appStyle = lipgloss.NewStyle().
			Padding(1, 2)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	// Borders
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(secondary)

	// Title
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			Padding(0, 1)

	// List items
	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	previewStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	// Detail pane
	labelStyle = lipgloss.NewStyle().
			Foreground(primary).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(danger)

	// Status messages
	successStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	// Help bar
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(primary).
			Bold(true)

	statusStyles = map[string]lipgloss.Style{
		"open":        lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
		"in-progress": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"testing":     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		"blocked":     lipgloss.NewStyle().Foreground(danger),
		"closed":      lipgloss.NewStyle().Foreground(secondary),
		"cancelled":   lipgloss.NewStyle().Foreground(secondary),
	}
)

func statusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return normalStyle
}
