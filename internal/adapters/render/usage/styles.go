package usage

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	border lipgloss.Style
	totals lipgloss.Style
	empty  lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true),
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1),
		cell:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Padding(0, 1),
		border: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		totals: lipgloss.NewStyle().MarginTop(1).Foreground(lipgloss.Color("245")),
		empty:  lipgloss.NewStyle().Faint(true),
	}
}
