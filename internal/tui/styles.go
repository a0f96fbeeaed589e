package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used across the views.
type Styles struct {
	Title     lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Faint     lipgloss.Style
	Selected  lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Pane      lipgloss.Style
	StatusBar lipgloss.Style
}

func DefaultStyles() Styles {
	faint := lipgloss.Color("240")
	accent := lipgloss.Color("39")
	errColor := lipgloss.Color("196")
	okColor := lipgloss.Color("42")
	warnColor := lipgloss.Color("214")

	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		Label:     lipgloss.NewStyle().Foreground(faint),
		Value:     lipgloss.NewStyle(),
		Faint:     lipgloss.NewStyle().Foreground(faint),
		Selected:  lipgloss.NewStyle().Background(lipgloss.Color("236")).Bold(true),
		Error:     lipgloss.NewStyle().Foreground(errColor),
		Success:   lipgloss.NewStyle().Foreground(okColor),
		Warning:   lipgloss.NewStyle().Foreground(warnColor),
		Pane:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		StatusBar: lipgloss.NewStyle().Foreground(faint),
	}
}
