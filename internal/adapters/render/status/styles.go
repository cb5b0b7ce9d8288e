package status

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	provider   lipgloss.Style
	official   lipgloss.Style
	thirdParty lipgloss.Style
	detail     lipgloss.Style
	account    lipgloss.Style
	active     lipgloss.Style
	warning    lipgloss.Style
	section    lipgloss.Style
	empty      lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		provider:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		official:   lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		thirdParty: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		account:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		active:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("159")),
		warning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:    lipgloss.NewStyle().MarginTop(1),
		empty:      lipgloss.NewStyle().Faint(true),
	}
}
