package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// NewHuhTheme returns the charm theme with titles and the selector in the
// CLI accent color.
func NewHuhTheme() *huh.Theme {
	t := huh.ThemeCharm()

	accent := lipgloss.Color("#7D56F4")
	t.Focused.Title = t.Focused.Title.Foreground(accent)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(accent)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(lipgloss.Color("#04B575"))

	return t
}
