// board.go - Kanban board widget: three fixed columns of cards with
// add/delete/rename and cross-column moves.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arborui/arbor/pkg/model"
)

type boardMode int

const (
	boardNormal boardMode = iota
	boardAdding
	boardRenaming
	boardPickingColumn
)

// BoardModel manages the Kanban board state. Columns have fixed
// identity; every mutation rebuilds the column sequence as one atomic
// transition, so a card is never observable in zero or two columns.
type BoardModel struct {
	columns []model.Column
	editing string // card id being renamed, "" = none

	focusedCol  int
	selectedRow []int // per-column selection memory

	mode   boardMode
	input  textinput.Model
	picker ColumnPickerModel
	moving string // card id a picker move applies to

	theme  Theme
	width  int
	height int

	onChange func([]model.Column)
	onEvent  func(op, target string)
	now      func() time.Time
}

// NewBoardModel creates a board widget owning a deep copy of the
// initial columns. A nil or empty initial value yields the default
// board; the widget never operates on zero columns.
func NewBoardModel(initial []model.Column, theme Theme) BoardModel {
	cols := model.CloneColumns(initial)
	if len(cols) == 0 {
		cols = model.DefaultColumns()
	}

	input := textinput.New()
	input.CharLimit = 120

	return BoardModel{
		columns:     cols,
		selectedRow: make([]int, len(cols)),
		input:       input,
		theme:       theme,
		now:         time.Now,
	}
}

// SetOnChange registers a listener invoked with the new column sequence
// exactly once per committed mutation.
func (b *BoardModel) SetOnChange(fn func([]model.Column)) { b.onChange = fn }

// SetOnEvent registers a listener for committed operation metadata.
func (b *BoardModel) SetOnEvent(fn func(op, target string)) { b.onEvent = fn }

// SetSize updates the available dimensions for the board view
func (b *BoardModel) SetSize(width, height int) {
	b.width = width
	b.height = height
}

// SetClock overrides the id-generation clock; used by tests to pin ids.
func (b *BoardModel) SetClock(now func() time.Time) { b.now = now }

// Columns returns a deep copy of the current column sequence.
func (b *BoardModel) Columns() []model.Column { return model.CloneColumns(b.columns) }

// EditingCardID returns the card id currently being renamed, or "".
func (b *BoardModel) EditingCardID() string { return b.editing }

// TotalCards returns the number of cards across all columns.
func (b *BoardModel) TotalCards() int { return model.TotalCards(b.columns) }

// FocusedColumn returns the id of the focused column.
func (b *BoardModel) FocusedColumn() model.ColumnID {
	return b.columns[b.focusedCol].ID
}

// SelectedCard returns a copy of the card under the cursor, or nil.
func (b *BoardModel) SelectedCard() *model.Card {
	cards := b.columns[b.focusedCol].Cards
	row := b.selectedRow[b.focusedCol]
	if row >= 0 && row < len(cards) {
		c := cards[row].Clone()
		return &c
	}
	return nil
}

// Navigation

func (b *BoardModel) MoveDown() {
	count := len(b.columns[b.focusedCol].Cards)
	if b.selectedRow[b.focusedCol] < count-1 {
		b.selectedRow[b.focusedCol]++
	}
}

func (b *BoardModel) MoveUp() {
	if b.selectedRow[b.focusedCol] > 0 {
		b.selectedRow[b.focusedCol]--
	}
}

func (b *BoardModel) MoveRight() {
	if b.focusedCol < len(b.columns)-1 {
		b.focusedCol++
	}
}

func (b *BoardModel) MoveLeft() {
	if b.focusedCol > 0 {
		b.focusedCol--
	}
}

// AddCard appends a new card with the given title to the column.
// Empty or whitespace-only titles abort, as does an unknown column id.
func (b *BoardModel) AddCard(columnID model.ColumnID, title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}
	idx := b.columnIndex(columnID)
	if idx < 0 {
		return false
	}

	card := model.Card{ID: fmt.Sprintf("card-%d", b.now().UnixNano()), Title: title}
	cols := model.CloneColumns(b.columns)
	cols[idx].Cards = append(cols[idx].Cards, card)
	b.columns = cols
	b.selectedRow[idx] = len(cols[idx].Cards) - 1
	b.emit("add", card.ID)
	return true
}

// DeleteCard removes the card from the column. Cards are leaf-only so
// no confirmation is required, unlike tree deletion.
func (b *BoardModel) DeleteCard(columnID model.ColumnID, cardID string) bool {
	idx := b.columnIndex(columnID)
	if idx < 0 {
		return false
	}

	cols := model.CloneColumns(b.columns)
	cards := cols[idx].Cards
	for i := range cards {
		if cards[i].ID == cardID {
			cols[idx].Cards = append(cards[:i], cards[i+1:]...)
			b.columns = cols
			b.clampSelection(idx)
			if b.editing == cardID {
				b.editing = ""
			}
			b.emit("delete", cardID)
			return true
		}
	}
	return false
}

// RenameCard replaces the title of the matching card, searching all
// columns. Empty and unchanged titles abort.
func (b *BoardModel) RenameCard(cardID, title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}

	cols := model.CloneColumns(b.columns)
	for ci := range cols {
		for i := range cols[ci].Cards {
			if cols[ci].Cards[i].ID == cardID {
				if cols[ci].Cards[i].Title == title {
					return false
				}
				cols[ci].Cards[i].Title = title
				b.columns = cols
				b.emit("rename", cardID)
				return true
			}
		}
	}
	return false
}

// MoveCard relocates a card from one column to another as a single
// atomic transition. Source equal to target is a no-op, as is a card
// that is not actually in the source column.
func (b *BoardModel) MoveCard(cardID string, from, to model.ColumnID) bool {
	if from == to {
		return false
	}
	fromIdx, toIdx := b.columnIndex(from), b.columnIndex(to)
	if fromIdx < 0 || toIdx < 0 {
		return false
	}

	cols := model.CloneColumns(b.columns)
	cards := cols[fromIdx].Cards
	for i := range cards {
		if cards[i].ID == cardID {
			card := cards[i]
			cols[fromIdx].Cards = append(cards[:i], cards[i+1:]...)
			cols[toIdx].Cards = append(cols[toIdx].Cards, card)
			b.columns = cols
			b.clampSelection(fromIdx)
			b.selectedRow[toIdx] = len(cols[toIdx].Cards) - 1
			b.emit("move", cardID)
			return true
		}
	}
	return false
}

// Update handles key input for the board.
func (b BoardModel) Update(msg tea.Msg) (BoardModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}

	switch b.mode {
	case boardAdding, boardRenaming:
		return b.updateEditing(key)
	case boardPickingColumn:
		return b.updatePicking(key)
	}

	switch key.String() {
	case "j", "down":
		b.MoveDown()
	case "k", "up":
		b.MoveUp()
	case "h", "left":
		b.MoveLeft()
	case "l", "right":
		b.MoveRight()

	case "a":
		b.mode = boardAdding
		b.input.Placeholder = "New card title"
		b.input.SetValue("")
		b.input.Focus()
		return b, textinput.Blink

	case "r":
		if card := b.SelectedCard(); card != nil {
			b.mode = boardRenaming
			b.editing = card.ID
			b.input.Placeholder = "Rename card"
			b.input.SetValue(card.Title)
			b.input.Focus()
			return b, textinput.Blink
		}

	case "d":
		if card := b.SelectedCard(); card != nil {
			b.DeleteCard(b.FocusedColumn(), card.ID)
		}

	case "m": // pick a destination column for the selected card
		if card := b.SelectedCard(); card != nil {
			b.mode = boardPickingColumn
			b.moving = card.ID
			b.picker = NewColumnPickerModel(b.columns, b.FocusedColumn(), b.theme)
			b.picker.SetSize(b.width, b.height)
		}

	case "H", "shift+left": // move selected card one column left
		if card := b.SelectedCard(); card != nil && b.focusedCol > 0 {
			from := b.FocusedColumn()
			to := b.columns[b.focusedCol-1].ID
			if b.MoveCard(card.ID, from, to) {
				b.focusedCol--
			}
		}

	case "L", "shift+right": // move selected card one column right
		if card := b.SelectedCard(); card != nil && b.focusedCol < len(b.columns)-1 {
			from := b.FocusedColumn()
			to := b.columns[b.focusedCol+1].ID
			if b.MoveCard(card.ID, from, to) {
				b.focusedCol++
			}
		}
	}
	return b, nil
}

func (b BoardModel) updateEditing(key tea.KeyMsg) (BoardModel, tea.Cmd) {
	switch key.String() {
	case "enter":
		value := b.input.Value()
		if b.mode == boardAdding {
			b.AddCard(b.FocusedColumn(), value)
		} else {
			b.RenameCard(b.editing, value)
		}
		b.closeInput()
		return b, nil
	case "esc":
		b.closeInput()
		return b, nil
	}

	var cmd tea.Cmd
	b.input, cmd = b.input.Update(key)
	return b, cmd
}

func (b BoardModel) updatePicking(key tea.KeyMsg) (BoardModel, tea.Cmd) {
	switch key.String() {
	case "j", "down":
		b.picker.MoveDown()
	case "k", "up":
		b.picker.MoveUp()
	case "enter":
		from := b.FocusedColumn()
		to := b.picker.SelectedColumn()
		if b.MoveCard(b.moving, from, to) {
			b.focusedCol = b.columnIndex(to)
		}
		b.mode = boardNormal
		b.moving = ""
	case "esc":
		b.mode = boardNormal
		b.moving = ""
	}
	return b, nil
}

func (b *BoardModel) closeInput() {
	b.mode = boardNormal
	b.editing = ""
	b.input.Blur()
	b.input.SetValue("")
}

// View renders the three columns side by side.
func (b BoardModel) View() string {
	t := b.theme
	r := t.Renderer

	numCols := len(b.columns)
	gaps := (numCols - 1) * 2
	colWidth := (b.width - gaps) / numCols
	if colWidth < 20 {
		colWidth = 20
	}
	colHeight := b.height - 4
	if colHeight < 6 {
		colHeight = 6
	}

	var rendered []string
	for i, col := range b.columns {
		focused := i == b.focusedCol
		accent := t.ColumnColor(i)

		headerStyle := r.NewStyle().Width(colWidth).Align(lipgloss.Center).Bold(true)
		if focused {
			headerStyle = headerStyle.Background(accent).Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1a1a1a"})
		} else {
			headerStyle = headerStyle.Foreground(accent)
		}
		header := headerStyle.Render(fmt.Sprintf("%s (%d)", col.Title, len(col.Cards)))

		var cards []string
		for row, card := range col.Cards {
			cards = append(cards, b.renderCard(card, colWidth-4, focused && row == b.selectedRow[i]))
		}
		if len(col.Cards) == 0 {
			empty := r.NewStyle().Width(colWidth - 4).Align(lipgloss.Center).
				Foreground(t.Muted).Italic(true).Render("(empty)")
			cards = append(cards, empty)
		}

		content := lipgloss.JoinVertical(lipgloss.Left, cards...)
		colStyle := r.NewStyle().Width(colWidth).Height(colHeight).Padding(0, 1).
			Border(lipgloss.RoundedBorder())
		if focused {
			colStyle = colStyle.BorderForeground(accent)
		} else {
			colStyle = colStyle.BorderForeground(t.Border)
		}

		rendered = append(rendered, lipgloss.JoinVertical(lipgloss.Center, header, colStyle.Render(content)))
	}

	board := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	switch b.mode {
	case boardAdding, boardRenaming:
		return board + "\n" + b.input.View()
	case boardPickingColumn:
		return b.picker.View()
	}
	return board
}

func (b BoardModel) renderCard(card model.Card, width int, selected bool) string {
	r := b.theme.Renderer
	style := r.NewStyle().Width(width).Padding(0, 1).MarginBottom(1).
		Border(lipgloss.RoundedBorder())
	if selected {
		style = style.BorderForeground(b.theme.Primary).Bold(true)
	} else {
		style = style.BorderForeground(b.theme.Border)
	}
	return style.Render(truncate(card.Title, width-2))
}

func (b *BoardModel) columnIndex(id model.ColumnID) int {
	for i := range b.columns {
		if b.columns[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *BoardModel) clampSelection(idx int) {
	if b.selectedRow[idx] >= len(b.columns[idx].Cards) {
		b.selectedRow[idx] = len(b.columns[idx].Cards) - 1
	}
	if b.selectedRow[idx] < 0 {
		b.selectedRow[idx] = 0
	}
}

func (b *BoardModel) emit(op, target string) {
	if b.onEvent != nil {
		b.onEvent(op, target)
	}
	if b.onChange != nil {
		b.onChange(model.CloneColumns(b.columns))
	}
}
