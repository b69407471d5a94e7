package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arborui/arbor/pkg/model"
)

// ColumnPickerModel is a modal for choosing the destination column of a
// card move, as an alternative to stepping with H/L.
type ColumnPickerModel struct {
	columns       []model.Column
	currentColumn model.ColumnID // column the card is in now
	selectedIndex int
	width         int
	height        int
	theme         Theme
}

// NewColumnPickerModel creates a picker with the card's current column
// preselected.
func NewColumnPickerModel(columns []model.Column, current model.ColumnID, theme Theme) ColumnPickerModel {
	selectedIdx := 0
	for i, c := range columns {
		if c.ID == current {
			selectedIdx = i
			break
		}
	}

	return ColumnPickerModel{
		columns:       columns,
		currentColumn: current,
		selectedIndex: selectedIdx,
		theme:         theme,
	}
}

// SetSize updates the picker dimensions.
func (m *ColumnPickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// MoveUp moves selection up.
func (m *ColumnPickerModel) MoveUp() {
	if m.selectedIndex > 0 {
		m.selectedIndex--
	}
}

// MoveDown moves selection down.
func (m *ColumnPickerModel) MoveDown() {
	if m.selectedIndex < len(m.columns)-1 {
		m.selectedIndex++
	}
}

// SelectedColumn returns the highlighted destination.
func (m *ColumnPickerModel) SelectedColumn() model.ColumnID {
	if m.selectedIndex >= 0 && m.selectedIndex < len(m.columns) {
		return m.columns[m.selectedIndex].ID
	}
	return ""
}

// View renders the picker overlay centered in the viewport.
func (m *ColumnPickerModel) View() string {
	if m.width == 0 {
		m.width = 60
	}
	if m.height == 0 {
		m.height = 20
	}

	t := m.theme

	boxWidth := 35
	if m.width < 45 {
		boxWidth = m.width - 10
	}
	if boxWidth < 25 {
		boxWidth = 25
	}

	var lines []string

	titleStyle := t.Renderer.NewStyle().
		Foreground(t.Primary).
		Bold(true).
		MarginBottom(1)
	lines = append(lines, titleStyle.Render("Move Card To"))
	lines = append(lines, "")

	for i, col := range m.columns {
		isSelected := i == m.selectedIndex
		isCurrent := col.ID == m.currentColumn

		itemStyle := t.Renderer.NewStyle()
		if isSelected {
			itemStyle = itemStyle.Foreground(t.ColumnColor(i)).Bold(true)
		} else {
			itemStyle = itemStyle.Foreground(t.Base.GetForeground())
		}

		prefix := "  "
		if isSelected {
			prefix = "> "
		}

		suffix := ""
		if isCurrent {
			checkStyle := t.Renderer.NewStyle().Foreground(t.Secondary)
			suffix = " " + checkStyle.Render("✓")
		}

		lines = append(lines, itemStyle.Render(prefix+col.Title)+suffix)
	}

	lines = append(lines, "")
	footerStyle := t.Renderer.NewStyle().
		Foreground(t.Secondary).
		Italic(true)
	lines = append(lines, footerStyle.Render("j/k: navigate | enter: move | esc: cancel"))

	content := strings.Join(lines, "\n")

	box := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(boxWidth).
		Render(content)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}
