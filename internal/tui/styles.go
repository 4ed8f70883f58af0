package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Title styling
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			MarginBottom(1)

	// Selected item styling
	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	// Help text styling
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500"))

	// Detail lines below a project in the push summary
	SubtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// StyleSummary colors a rendered push summary line by line: project lines by
// outcome, indented detail lines subtle, the totals line as a title.
func StyleSummary(summary string) string {
	lines := strings.Split(strings.TrimRight(summary, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "✓"):
			lines[i] = SuccessStyle.Render(line)
		case strings.HasPrefix(line, "✗"):
			lines[i] = ErrorStyle.Render(line)
		case strings.HasPrefix(line, " "):
			lines[i] = SubtleStyle.Render(line)
		case i == len(lines)-1 && line != "":
			lines[i] = TitleStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
