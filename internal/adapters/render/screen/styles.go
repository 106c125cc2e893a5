package screen

import "github.com/charmbracelet/lipgloss"

var palette = []lipgloss.Color{"51", "46", "226", "201", "196", "33"}

type styles struct {
	title    lipgloss.Style
	banner   lipgloss.Style
	tagline  lipgloss.Style
	rule     lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	option   lipgloss.Style
	number   lipgloss.Style
	prompt   lipgloss.Style
	author   lipgloss.Style
	body     lipgloss.Style
	size     lipgloss.Style
	count    lipgloss.Style
	notice   lipgloss.Style
	warning  lipgloss.Style
	errorMsg lipgloss.Style
	faint    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51")),
		banner:   lipgloss.NewStyle().Bold(true).Border(lipgloss.DoubleBorder()).Padding(0, 2),
		tagline:  lipgloss.NewStyle().Bold(true),
		rule:     lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		label:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		value:    lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		option:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		number:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		prompt:   lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		author:   lipgloss.NewStyle().Foreground(lipgloss.Color("201")),
		body:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Width(lineWidth),
		size:     lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		count:    lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
		notice:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Faint(true),
		errorMsg: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		faint:    lipgloss.NewStyle().Faint(true),
	}
}

func colored(color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(color)
}
