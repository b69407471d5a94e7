package ui

import "github.com/charmbracelet/lipgloss"

// Theme holds the adaptive colors and renderer-scoped styles shared by
// the widgets. Styles are built against an explicit renderer so widgets
// render correctly on any output, including test buffers.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor

	// Column accents
	Todo       lipgloss.AdaptiveColor
	InProgress lipgloss.AdaptiveColor
	Done       lipgloss.AdaptiveColor

	Base     lipgloss.Style
	Selected lipgloss.Style
}

// DefaultTheme returns the standard adaptive theme bound to the given
// renderer.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer:   r,
		Primary:    lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#A78BFA"},
		Secondary:  lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#89B4FA"},
		Muted:      lipgloss.AdaptiveColor{Light: "#9E9E9E", Dark: "#6C7086"},
		Highlight:  lipgloss.AdaptiveColor{Light: "#F5E0DC", Dark: "#313244"},
		Border:     lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#45475A"},
		Todo:       lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"},
		InProgress: lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"},
		Done:       lipgloss.AdaptiveColor{Light: "#40A02B", Dark: "#A6E3A1"},
	}
	t.Base = r.NewStyle()
	t.Selected = r.NewStyle().Bold(true).Foreground(t.Primary).Background(t.Highlight)
	return t
}

// ColumnColor returns the accent color for a column position.
func (t Theme) ColumnColor(idx int) lipgloss.AdaptiveColor {
	switch idx {
	case 0:
		return t.Todo
	case 1:
		return t.InProgress
	default:
		return t.Done
	}
}
