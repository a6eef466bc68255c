package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used to render a listing.
type Styles struct {
	Header    lipgloss.Style
	Meta      lipgloss.Style
	Badge     lipgloss.Style
	Date      lipgloss.Style
	ItemTitle lipgloss.Style
	Image     lipgloss.Style
	Cursor    lipgloss.Style
	Control   lipgloss.Style
	Disabled  lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
	Label     lipgloss.Style
}

// DefaultStyles returns the colored terminal theme.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6600")),
		Meta:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Badge:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")).Padding(0, 1),
		Date:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		ItemTitle: lipgloss.NewStyle().Bold(true),
		Image:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Italic(true),
		Cursor:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6600")),
		Control:   lipgloss.NewStyle().Bold(true),
		Disabled:  lipgloss.NewStyle().Faint(true),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Label:     lipgloss.NewStyle().Width(8),
	}
}

// PlainStyles renders without color or attributes, for pipes and files.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:    plain,
		Meta:      plain,
		Badge:     plain,
		Date:      plain,
		ItemTitle: plain,
		Image:     plain,
		Cursor:    plain,
		Control:   plain,
		Disabled:  plain,
		Error:     plain,
		Help:      plain,
		Label:     plain.Width(8),
	}
}
