package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const helpTree = `Tree View

  j/k, up/down    move cursor
  enter, space    expand / collapse (lazy nodes load after a delay)
  a               add child under selection
  A               add root node
  r               rename selection
  d               delete selection (with confirmation)
  m               grab / ungrab node for move
  p               drop grabbed node onto selection
  P               drop grabbed node at root level`

const helpBoard = `Kanban Board

  h/l, j/k        move between columns and cards
  a               add card to focused column
  r               rename selected card
  d               delete selected card
  H / L           move selected card one column left / right
  m               move selected card via column picker`

const helpGlobal = `Global

  tab             switch between tree and board
  v               toggle detail panel
  y               yank selected label to clipboard
  s               save snapshot
  ?               toggle this help
  q, ctrl+c       quit`

// RenderHelp renders the compact help modal for the active tab.
func RenderHelp(tab Tab, theme Theme, width int) string {
	content := helpTree
	if tab == TabBoard {
		content = helpBoard
	}
	content += "\n\n" + helpGlobal

	r := theme.Renderer
	modalWidth := 52
	if modalWidth > width-4 && width > 8 {
		modalWidth = width - 4
	}

	title := r.NewStyle().Bold(true).Foreground(theme.Primary).Render("Keys")
	body := r.NewStyle().Foreground(theme.Muted).Render(content)

	modal := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(1, 2).
		Width(modalWidth)

	return modal.Render(strings.Join([]string{title, "", body}, "\n"))
}
