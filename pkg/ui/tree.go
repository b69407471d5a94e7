// tree.go - Tree View widget: hierarchical outline with lazy loading,
// editing and keyboard-driven node moves.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arborui/arbor/pkg/forest"
	"github.com/arborui/arbor/pkg/model"
	"github.com/arborui/arbor/pkg/synth"
)

// treeMode is the widget's input mode. Prompts and confirmations are
// modal views inside the widget; the mutation methods themselves only
// ever see the final, already-collected input.
type treeMode int

const (
	treeNormal treeMode = iota
	treeAdding           // collecting a label for a new node
	treeRenaming         // collecting a new label for an existing node
	treeConfirmingDelete // awaiting y/n for a subtree delete
)

// visibleNode is one row of the flattened tree as currently displayed.
type visibleNode struct {
	id          string
	label       string
	depth       int
	placeholder bool
	expandable  bool
}

// TreeModel manages the tree view state: the forest itself plus the
// presentation state derived from it (expansion set, in-flight loads,
// editing cursor). The forest is owned exclusively by this widget;
// every mutation goes through the forest package and replaces the whole
// value.
type TreeModel struct {
	forest   []model.TreeNode
	expanded map[string]bool
	loading  map[string]bool
	editing  string // node id being renamed, "" = none

	cursor  int
	visible []visibleNode

	mode         treeMode
	input        textinput.Model
	addParent    string // "" = new root
	deleteTarget string
	dragID       string // grabbed node awaiting a drop, "" = none

	spin      spinner.Model
	theme     Theme
	width     int
	height    int
	loadDelay time.Duration

	onChange func([]model.TreeNode)
	onEvent  func(op, target string)
	now      func() time.Time
}

// NewTreeModel creates a tree widget owning a deep copy of the initial
// forest. Mutations never alias the caller's value back.
func NewTreeModel(initial []model.TreeNode, theme Theme) TreeModel {
	input := textinput.New()
	input.CharLimit = 120

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := TreeModel{
		forest:   forest.Clone(initial),
		expanded: make(map[string]bool),
		loading:  make(map[string]bool),
		input:    input,
		spin:     spin,
		theme:    theme,
		now:      time.Now,
	}
	m.rebuildVisible()
	return m
}

// SetOnChange registers a listener invoked with the new forest exactly
// once per committed mutation, never for aborted or no-op operations.
func (m *TreeModel) SetOnChange(fn func([]model.TreeNode)) { m.onChange = fn }

// SetOnEvent registers a listener for committed operation metadata,
// useful for journaling.
func (m *TreeModel) SetOnEvent(fn func(op, target string)) { m.onEvent = fn }

// SetSize updates the available dimensions for the tree view
func (m *TreeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetLoadDelay overrides the simulated fetch latency (demos, tests).
func (m *TreeModel) SetLoadDelay(d time.Duration) { m.loadDelay = d }

// SetClock overrides the id-generation clock; used by tests to pin ids.
func (m *TreeModel) SetClock(now func() time.Time) { m.now = now }

// Forest returns a deep copy of the current forest.
func (m *TreeModel) Forest() []model.TreeNode { return forest.Clone(m.forest) }

// IsExpanded reports presentation state for a node id.
func (m *TreeModel) IsExpanded(id string) bool { return m.expanded[id] }

// IsLoading reports whether a simulated fetch is in flight for id.
func (m *TreeModel) IsLoading(id string) bool { return m.loading[id] }

// ExpandedIDs returns a copy of the expansion state, keyed by node id.
func (m *TreeModel) ExpandedIDs() map[string]bool {
	out := make(map[string]bool, len(m.expanded))
	for id, v := range m.expanded {
		out[id] = v
	}
	return out
}

// RestoreExpanded re-applies persisted expansion state. Ids that no
// longer exist are ignored, and placeholders stay collapsed since
// their children would need a fresh load anyway.
func (m *TreeModel) RestoreExpanded(expanded map[string]bool) {
	for id, v := range expanded {
		if !v {
			continue
		}
		n := forest.Find(m.forest, id)
		if n == nil || n.IsPlaceholder() {
			continue
		}
		m.expanded[id] = true
	}
	m.rebuildVisible()
}

// EditingID returns the id currently being renamed, or "".
func (m *TreeModel) EditingID() string { return m.editing }

// DragID returns the id grabbed for a pending move, or "".
func (m *TreeModel) DragID() string { return m.dragID }

// NodeCount returns the number of currently visible rows.
func (m *TreeModel) NodeCount() int { return len(m.visible) }

// SelectedID returns the id under the cursor, or "".
func (m *TreeModel) SelectedID() string {
	if m.cursor >= 0 && m.cursor < len(m.visible) {
		return m.visible[m.cursor].id
	}
	return ""
}

// SelectedLabel returns the label under the cursor, or "".
func (m *TreeModel) SelectedLabel() string {
	if m.cursor >= 0 && m.cursor < len(m.visible) {
		return m.visible[m.cursor].label
	}
	return ""
}

// selectedNode returns a copy of the node under the cursor, or nil.
func (m *TreeModel) selectedNode() *model.TreeNode {
	id := m.SelectedID()
	if id == "" {
		return nil
	}
	return forest.Find(m.forest, id)
}

// SelectByID moves the cursor to the row with the given id. Returns
// false if the id is not currently visible.
func (m *TreeModel) SelectByID(id string) bool {
	for i, v := range m.visible {
		if v.id == id {
			m.cursor = i
			return true
		}
	}
	return false
}

// MoveDown moves the cursor down one visible row.
func (m *TreeModel) MoveDown() {
	if m.cursor < len(m.visible)-1 {
		m.cursor++
	}
}

// MoveUp moves the cursor up one visible row.
func (m *TreeModel) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

// JumpToTop moves the cursor to the first row.
func (m *TreeModel) JumpToTop() { m.cursor = 0 }

// JumpToBottom moves the cursor to the last row.
func (m *TreeModel) JumpToBottom() {
	if len(m.visible) > 0 {
		m.cursor = len(m.visible) - 1
	}
}

// ToggleExpand flips the expansion state of the node with the given id.
// Expanding a lazy placeholder marks it loading and schedules the
// simulated fetch; re-expanding while the fetch is in flight never
// schedules a second one. Collapsing never cancels an in-flight load.
func (m *TreeModel) ToggleExpand(id string) tea.Cmd {
	n := forest.Find(m.forest, id)
	if n == nil {
		return nil
	}

	if m.expanded[id] {
		delete(m.expanded, id)
		m.rebuildVisible()
		return nil
	}

	m.expanded[id] = true
	if n.IsPlaceholder() && !m.loading[id] {
		m.loading[id] = true
		m.rebuildVisible()
		return tea.Batch(m.spin.Tick, synth.LoadCmd(id, m.depthOf(id), m.loadDelay))
	}
	m.rebuildVisible()
	return nil
}

// AttachLoaded reconciles a completed simulated fetch into the forest.
// If the parent was deleted during the latency window the delivery is
// absorbed as a no-op.
func (m *TreeModel) AttachLoaded(parentID string, children []model.TreeNode) {
	delete(m.loading, parentID)
	if !forest.Contains(m.forest, parentID) {
		m.rebuildVisible()
		return
	}
	m.forest = forest.AttachChildren(m.forest, parentID, children)
	m.rebuildVisible()
	m.emit("load", parentID)
}

// AddChild creates a new node under parentID ("" = new root) with the
// given label. Empty or whitespace-only labels abort with no state
// change, as does an unknown parent id. The parent is marked expanded
// so the new child is visible immediately.
func (m *TreeModel) AddChild(parentID, label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return false
	}
	if parentID != "" && !forest.Contains(m.forest, parentID) {
		return false
	}

	node := model.TreeNode{ID: m.newID(parentID), Label: label}
	m.forest = forest.InsertAsChild(m.forest, parentID, node)
	if parentID != "" {
		m.expanded[parentID] = true
	}
	m.rebuildVisible()
	m.SelectByID(node.ID)
	m.emit("add", node.ID)
	return true
}

// DeleteNode removes the node and its entire subtree. Expansion and
// loading entries for every removed id are discarded. Returns false if
// the id does not exist.
func (m *TreeModel) DeleteNode(id string) bool {
	rest, removed := forest.Remove(m.forest, id)
	if removed == nil {
		return false
	}
	m.forest = rest
	for _, gone := range forest.IDs([]model.TreeNode{*removed}) {
		delete(m.expanded, gone)
		delete(m.loading, gone)
		if m.editing == gone {
			m.editing = ""
		}
	}
	m.rebuildVisible()
	m.emit("delete", id)
	return true
}

// RenameNode replaces the node's label. Empty labels and unchanged
// labels abort with no state change.
func (m *TreeModel) RenameNode(id, label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return false
	}
	n := forest.Find(m.forest, id)
	if n == nil || n.Label == label {
		return false
	}
	m.forest = forest.Relabel(m.forest, id, label)
	m.rebuildVisible()
	m.emit("rename", id)
	return true
}

// MoveNode relocates the dragged node (with its whole subtree) to be a
// new child of targetID, or back to root level when targetID is empty.
// Aborts without state change when source equals target, the source
// does not exist, the target no longer exists, or the target is a
// descendant of the source (which would detach the subtree).
func (m *TreeModel) MoveNode(draggedID, targetID string) bool {
	if draggedID == targetID {
		return false
	}
	if targetID != "" && forest.IsDescendant(m.forest, draggedID, targetID) {
		return false
	}

	rest, removed := forest.Remove(m.forest, draggedID)
	if removed == nil {
		return false
	}
	if targetID != "" && !forest.Contains(rest, targetID) {
		return false
	}

	m.forest = forest.InsertAsChild(rest, targetID, *removed)
	if targetID != "" {
		m.expanded[targetID] = true
	}
	m.rebuildVisible()
	m.SelectByID(draggedID)
	m.emit("move", draggedID)
	return true
}

// Update handles key input and load completions.
func (m TreeModel) Update(msg tea.Msg) (TreeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case synth.ChildrenLoadedMsg:
		m.AttachLoaded(msg.ParentID, msg.Children)
		return m, nil

	case spinner.TickMsg:
		if len(m.loading) == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.mode {
		case treeAdding, treeRenaming:
			return m.updateEditing(msg)
		case treeConfirmingDelete:
			return m.updateConfirming(msg)
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

func (m TreeModel) updateNormal(msg tea.KeyMsg) (TreeModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.MoveDown()
	case "k", "up":
		m.MoveUp()
	case "g", "home":
		m.JumpToTop()
	case "G", "end":
		m.JumpToBottom()

	case "enter", " ":
		if id := m.SelectedID(); id != "" {
			return m, m.ToggleExpand(id)
		}

	case "a": // add child under selection
		m.mode = treeAdding
		m.addParent = m.SelectedID()
		m.input.Placeholder = "New node label"
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case "A": // add root
		m.mode = treeAdding
		m.addParent = ""
		m.input.Placeholder = "New root label"
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case "r":
		if id := m.SelectedID(); id != "" {
			m.mode = treeRenaming
			m.editing = id
			m.input.Placeholder = "Rename"
			m.input.SetValue(m.SelectedLabel())
			m.input.Focus()
			return m, textinput.Blink
		}

	case "d":
		if id := m.SelectedID(); id != "" {
			m.mode = treeConfirmingDelete
			m.deleteTarget = id
		}

	case "m": // grab / ungrab for move
		if m.dragID != "" {
			m.dragID = ""
		} else {
			m.dragID = m.SelectedID()
		}

	case "p": // drop grabbed node onto selection
		if m.dragID != "" {
			m.MoveNode(m.dragID, m.SelectedID())
			m.dragID = ""
		}

	case "P": // drop grabbed node at root level
		if m.dragID != "" {
			m.MoveNode(m.dragID, "")
			m.dragID = ""
		}
	}
	return m, nil
}

func (m TreeModel) updateEditing(msg tea.KeyMsg) (TreeModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := m.input.Value()
		if m.mode == treeAdding {
			m.AddChild(m.addParent, value)
		} else {
			m.RenameNode(m.editing, value)
		}
		m.closeInput()
		return m, nil
	case "esc":
		// Abort with no mutation; rename clears the editing cursor.
		m.closeInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m TreeModel) updateConfirming(msg tea.KeyMsg) (TreeModel, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.DeleteNode(m.deleteTarget)
	}
	// Any other key declines: zero state change.
	m.mode = treeNormal
	m.deleteTarget = ""
	return m, nil
}

func (m *TreeModel) closeInput() {
	m.mode = treeNormal
	m.editing = ""
	m.addParent = ""
	m.input.Blur()
	m.input.SetValue("")
}

// View renders the visible rows plus any active modal line.
func (m TreeModel) View() string {
	r := m.theme.Renderer
	var sb strings.Builder

	if len(m.visible) == 0 {
		sb.WriteString(r.NewStyle().Foreground(m.theme.Muted).Render("Empty outline. Press A to add a root node."))
		sb.WriteString("\n")
	}

	maxRows := m.height - 2
	if maxRows <= 0 {
		maxRows = 20
	}
	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}
	end := start + maxRows
	if end > len(m.visible) {
		end = len(m.visible)
	}

	for i := start; i < end; i++ {
		v := m.visible[i]
		line := m.renderRow(v)
		if i == m.cursor {
			line = m.theme.Selected.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	switch m.mode {
	case treeAdding, treeRenaming:
		sb.WriteString("\n")
		sb.WriteString(m.input.View())
	case treeConfirmingDelete:
		warn := fmt.Sprintf("Delete %q and its whole subtree? (y/n)", m.deleteTarget)
		sb.WriteString("\n")
		sb.WriteString(r.NewStyle().Foreground(m.theme.Primary).Bold(true).Render(warn))
	}

	return sb.String()
}

func (m TreeModel) renderRow(v visibleNode) string {
	r := m.theme.Renderer
	var sb strings.Builder

	sb.WriteString(strings.Repeat("  ", v.depth))

	indicator := "•"
	switch {
	case m.loading[v.id]:
		indicator = m.spin.View()
	case v.expandable && m.expanded[v.id]:
		indicator = "▾"
	case v.expandable:
		indicator = "▸"
	}
	sb.WriteString(r.NewStyle().Foreground(m.theme.Secondary).Render(indicator))
	sb.WriteString(" ")

	labelWidth := m.width - v.depth*2 - 6
	if labelWidth < 12 {
		labelWidth = 12
	}
	sb.WriteString(truncate(v.label, labelWidth))

	if v.id == m.dragID {
		sb.WriteString(" ")
		sb.WriteString(r.NewStyle().Foreground(m.theme.Muted).Italic(true).Render("(moving)"))
	}
	return sb.String()
}

// rebuildVisible flattens the forest into the rows currently on screen,
// honoring the expansion set. Collapsed subtrees and children loaded
// invisibly during a collapse stay hidden until re-expanded.
func (m *TreeModel) rebuildVisible() {
	m.visible = m.visible[:0]
	var add func(nodes []model.TreeNode, depth int)
	add = func(nodes []model.TreeNode, depth int) {
		for i := range nodes {
			n := nodes[i]
			m.visible = append(m.visible, visibleNode{
				id:          n.ID,
				label:       n.Label,
				depth:       depth,
				placeholder: n.IsPlaceholder(),
				expandable:  n.IsPlaceholder() || len(n.Children) > 0,
			})
			if m.expanded[n.ID] {
				add(n.Children, depth+1)
			}
		}
	}
	add(m.forest, 0)

	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *TreeModel) depthOf(id string) int {
	depth := -1
	forest.Walk(m.forest, func(n model.TreeNode, d int) {
		if depth == -1 && n.ID == id {
			depth = d
		}
	})
	if depth == -1 {
		return 0
	}
	return depth
}

// newID builds a parent-scoped, time-based id. Uniqueness comes from
// the monotonic nanosecond clock; the engine itself never deduplicates.
func (m *TreeModel) newID(parentID string) string {
	scope := parentID
	if scope == "" {
		scope = "root"
	}
	return fmt.Sprintf("%s-%d", scope, m.now().UnixNano())
}

func (m *TreeModel) emit(op, target string) {
	if m.onEvent != nil {
		m.onEvent(op, target)
	}
	if m.onChange != nil {
		m.onChange(forest.Clone(m.forest))
	}
}
