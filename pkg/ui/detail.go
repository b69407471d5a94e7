package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// DetailModel renders the notes of the selected node or card as
// markdown in a scrollable side panel. Content is re-rendered only when
// the selection changes.
type DetailModel struct {
	vp       viewport.Model
	renderer *glamour.TermRenderer
	lastID   string
	theme    Theme
}

// NewDetailModel creates the detail panel. A failed glamour setup
// degrades to raw markdown rather than failing the widget.
func NewDetailModel(theme Theme) DetailModel {
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(60),
	)
	return DetailModel{
		vp:       viewport.New(40, 20),
		renderer: renderer,
		theme:    theme,
	}
}

// SetSize updates the panel dimensions.
func (d *DetailModel) SetSize(width, height int) {
	if width < 20 {
		width = 20
	}
	if height < 5 {
		height = 5
	}
	d.vp.Width = width - 4
	d.vp.Height = height - 4
}

// Show updates the panel content for the given selection. Passing the
// same id twice is cheap; the markdown is only rendered on change.
func (d *DetailModel) Show(id, title, notes string) {
	if id == d.lastID {
		return
	}
	d.lastID = id

	md := fmt.Sprintf("## %s\n\n", title)
	if strings.TrimSpace(notes) == "" {
		md += "*No notes.*\n"
	} else {
		md += notes + "\n"
	}

	rendered := md
	if d.renderer != nil {
		if out, err := d.renderer.Render(md); err == nil {
			rendered = out
		}
	}
	d.vp.SetContent(rendered)
	d.vp.GotoTop()
}

// ScrollDown scrolls the panel content down.
func (d *DetailModel) ScrollDown(lines int) { d.vp.LineDown(lines) }

// ScrollUp scrolls the panel content up.
func (d *DetailModel) ScrollUp(lines int) { d.vp.LineUp(lines) }

// View renders the bordered panel.
func (d DetailModel) View() string {
	r := d.theme.Renderer
	title := r.NewStyle().Bold(true).Foreground(d.theme.Primary).
		Width(d.vp.Width).Align(lipgloss.Center).Render("DETAILS")

	panel := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(d.theme.Primary).
		Padding(0, 1)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left, title, d.vp.View()))
}
