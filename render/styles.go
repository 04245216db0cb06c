package render

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primary   = lipgloss.Color("99")  // purple
	secondary = lipgloss.Color("240") // gray
	accent    = lipgloss.Color("86")  // green
	danger    = lipgloss.Color("196") // red
	caution   = lipgloss.Color("214") // orange

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary)

	successStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(danger)

	warningStyle = lipgloss.NewStyle().
			Foreground(caution).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	borderStyle = lipgloss.NewStyle().
			Foreground(secondary)

	// Status colors keyed by the fixed enumeration
	statusStyles = map[string]lipgloss.Style{
		"open":        lipgloss.NewStyle().Foreground(danger),
		"in-progress": lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		"testing":     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		"blocked":     lipgloss.NewStyle().Foreground(caution),
		"closed":      lipgloss.NewStyle().Foreground(accent),
		"cancelled":   lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	}
)

// Symbols for the status column, shown in both color modes.
var statusSymbols = map[string]string{
	"open":        "●",
	"in-progress": "⚠",
	"testing":     "⚙",
	"blocked":     "⚠",
	"closed":      "✓",
	"cancelled":   "✗",
	"completed":   "✓",
	"done":        "✓",
}

func statusSymbol(status string) string {
	if sym, ok := statusSymbols[status]; ok {
		return sym
	}
	return "○"
}
