package article

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	byline    lipgloss.Style
	message   lipgloss.Style
	section   lipgloss.Style
	heading   lipgloss.Style
	positive  lipgloss.Style
	negative  lipgloss.Style
	mixed     lipgloss.Style
	tag       lipgloss.Style
	pending   lipgloss.Style
	empty     lipgloss.Style
	listID    lipgloss.Style
	listTitle lipgloss.Style
	excerpt   lipgloss.Style
	owned     lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		byline:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		message:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:   lipgloss.NewStyle().MarginTop(1),
		heading:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		positive:  lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		negative:  lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		mixed:     lipgloss.NewStyle().Foreground(lipgloss.Color("178")),
		tag:       lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		pending:   lipgloss.NewStyle().Faint(true),
		empty:     lipgloss.NewStyle().Faint(true),
		listID:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		listTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		excerpt:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		owned:     lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}
}
