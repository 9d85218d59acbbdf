// Package tui provides an interactive terminal editor for the repolens config file.
package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}
	subtle = lipgloss.AdaptiveColor{Light: "#8C8FA1", Dark: "#6C7086"}
	green  = lipgloss.AdaptiveColor{Light: "#40A02B", Dark: "#A6E3A1"}
	red    = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"}
	peach  = lipgloss.AdaptiveColor{Light: "#FE640B", Dark: "#FAB387"}
)

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	PathStyle  = lipgloss.NewStyle().Foreground(subtle).Italic(true)

	// Menu rows
	SelectedStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	UnselectedStyle  = lipgloss.NewStyle()
	DescriptionStyle = lipgloss.NewStyle().Foreground(subtle)

	SuccessStyle = lipgloss.NewStyle().Foreground(green)
	ErrorStyle   = lipgloss.NewStyle().Foreground(red)

	ConfirmStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(peach).
			Padding(1, 2)

	HelpStyle = lipgloss.NewStyle().Foreground(subtle).MarginTop(1)
)

// GetTheme returns the huh theme for forms
func GetTheme() *huh.Theme {
	return huh.ThemeCatppuccin()
}

// GetAccessibleTheme returns a plain theme for screen readers
func GetAccessibleTheme() *huh.Theme {
	return huh.ThemeBase()
}
