// app.go - top-level bubbletea model hosting the tree and board widgets
// behind a tab switch, plus the host-side glue: change journaling,
// snapshot saving, live reload and clipboard yank.
package ui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arborui/arbor/pkg/model"
	"github.com/arborui/arbor/pkg/synth"
)

// Tab selects the active widget.
type Tab int

const (
	TabTree Tab = iota
	TabBoard
)

// Recorder receives committed operation metadata, typically backed by
// the store journal. Implementations must not block the UI thread.
type Recorder interface {
	Record(component, op, target string)
}

// SnapshotReloadedMsg replaces both widgets' state with an externally
// modified snapshot (file watcher).
type SnapshotReloadedMsg struct {
	Snapshot model.Snapshot
}

// App is the root model wiring the two widgets together. It is also the
// host on the far side of the widgets' change-notification boundary:
// it keeps the latest emitted state for saving and journaling.
type App struct {
	tree   TreeModel
	board  BoardModel
	detail DetailModel

	tab        Tab
	theme      Theme
	width      int
	height     int
	ready      bool
	showHelp   bool
	showDetail bool
	status     string
	dirty      bool

	// Latest state emitted by the widgets, assembled into snapshots.
	current model.Snapshot

	recorder Recorder
	saver    func(model.Snapshot) error
	reload   <-chan model.Snapshot
}

// AppOption configures optional host-side collaborators.
type AppOption func(*App)

// WithRecorder wires a journal for committed transitions.
func WithRecorder(r Recorder) AppOption {
	return func(a *App) { a.recorder = r }
}

// WithSaver wires the snapshot save target used by the s key.
func WithSaver(save func(model.Snapshot) error) AppOption {
	return func(a *App) { a.saver = save }
}

// WithReload wires a channel delivering externally modified snapshots.
func WithReload(ch <-chan model.Snapshot) AppOption {
	return func(a *App) { a.reload = ch }
}

// NewApp creates the root model. The initial snapshot is deep-copied by
// the widgets; the caller's value is never aliased.
func NewApp(initial model.Snapshot, theme Theme, opts ...AppOption) *App {
	a := &App{
		tree:    NewTreeModel(initial.Tree, theme),
		board:   NewBoardModel(initial.Columns, theme),
		detail:  NewDetailModel(theme),
		theme:   theme,
		current: initial.Clone(),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.wireCallbacks()
	return a
}

// Tree exposes the tree widget, mainly for tests and host inspection.
func (a *App) Tree() *TreeModel { return &a.tree }

// Board exposes the board widget.
func (a *App) Board() *BoardModel { return &a.board }

// Snapshot returns a deep copy of the latest committed state.
func (a *App) Snapshot() model.Snapshot { return a.current.Clone() }

// Dirty reports whether committed edits have not been saved yet.
func (a *App) Dirty() bool { return a.dirty }

func (a *App) Init() tea.Cmd {
	return a.waitForReload()
}

func (a *App) waitForReload() tea.Cmd {
	if a.reload == nil {
		return nil
	}
	ch := a.reload
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return SnapshotReloadedMsg{Snapshot: snap}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		return a, nil

	case SnapshotReloadedMsg:
		// External edit wins over unsaved local changes, matching the
		// file being the source of truth once a watcher is active.
		a.tree = NewTreeModel(msg.Snapshot.Tree, a.theme)
		a.board = NewBoardModel(msg.Snapshot.Columns, a.theme)
		a.wireCallbacks()
		a.current = msg.Snapshot.Clone()
		a.dirty = false
		a.status = "reloaded from disk"
		a.layout()
		return a, a.waitForReload()

	case synth.ChildrenLoadedMsg:
		var cmd tea.Cmd
		a.tree, cmd = a.tree.Update(msg)
		return a, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.tree, cmd = a.tree.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.updateKey(msg)
	}
	return a, nil
}

func (a *App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While a widget is collecting input, it owns the keyboard.
	if (a.tab == TabTree && a.tree.mode != treeNormal) ||
		(a.tab == TabBoard && a.board.mode != boardNormal) {
		return a.forward(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return a, tea.Quit

	case "tab":
		if a.tab == TabTree {
			a.tab = TabBoard
		} else {
			a.tab = TabTree
		}
		a.status = ""
		return a, nil

	case "?":
		a.showHelp = !a.showHelp
		return a, nil

	case "v":
		a.showDetail = !a.showDetail
		a.layout()
		return a, nil

	case "ctrl+j":
		if a.showDetail {
			a.detail.ScrollDown(3)
			return a, nil
		}

	case "ctrl+k":
		if a.showDetail {
			a.detail.ScrollUp(3)
			return a, nil
		}

	case "y":
		text := a.selectedText()
		if text == "" {
			return a, nil
		}
		if err := clipboard.WriteAll(text); err != nil {
			a.status = "clipboard unavailable"
		} else {
			a.status = fmt.Sprintf("yanked %q", text)
		}
		return a, nil

	case "s":
		if a.saver == nil {
			return a, nil
		}
		if err := a.saver(a.current.Clone()); err != nil {
			a.status = fmt.Sprintf("save failed: %v", err)
		} else {
			a.dirty = false
			a.status = "saved"
		}
		return a, nil
	}

	if a.showHelp {
		a.showHelp = false
		return a, nil
	}
	return a.forward(msg)
}

func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if a.tab == TabTree {
		a.tree, cmd = a.tree.Update(msg)
	} else {
		a.board, cmd = a.board.Update(msg)
	}
	return a, cmd
}

// wireCallbacks re-attaches the widget listeners after the widgets are
// replaced wholesale (snapshot reload).
func (a *App) wireCallbacks() {
	a.tree.SetOnChange(func(nodes []model.TreeNode) {
		a.current.Tree = nodes
		a.dirty = true
	})
	a.board.SetOnChange(func(cols []model.Column) {
		a.current.Columns = cols
		a.dirty = true
	})
	if a.recorder != nil {
		a.tree.SetOnEvent(func(op, target string) { a.recorder.Record("tree", op, target) })
		a.board.SetOnEvent(func(op, target string) { a.recorder.Record("board", op, target) })
	}
}

func (a *App) layout() {
	mainWidth := a.width
	if a.showDetail && a.width > 80 {
		detailWidth := a.width * 35 / 100
		if detailWidth > 70 {
			detailWidth = 70
		}
		mainWidth = a.width - detailWidth - 1
		a.detail.SetSize(detailWidth, a.height-2)
	}
	a.tree.SetSize(mainWidth, a.height-2)
	a.board.SetSize(mainWidth, a.height-2)
}

func (a *App) selectedText() string {
	if a.tab == TabTree {
		return a.tree.SelectedLabel()
	}
	if card := a.board.SelectedCard(); card != nil {
		return card.Title
	}
	return ""
}

func (a *App) View() string {
	if !a.ready {
		return "loading..."
	}

	if a.showHelp {
		return RenderHelp(a.tab, a.theme, a.width)
	}

	var main string
	if a.tab == TabTree {
		main = a.tree.View()
	} else {
		main = a.board.View()
	}

	if a.showDetail {
		a.refreshDetail()
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, a.detail.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.renderTabs(), main, a.renderStatus())
}

func (a *App) refreshDetail() {
	if a.tab == TabTree {
		id := a.tree.SelectedID()
		if n := a.tree.selectedNode(); n != nil {
			a.detail.Show(id, n.Label, n.Notes)
		}
		return
	}
	if card := a.board.SelectedCard(); card != nil {
		a.detail.Show(card.ID, card.Title, card.Notes)
	}
}

func (a *App) renderTabs() string {
	r := a.theme.Renderer
	active := r.NewStyle().Bold(true).Foreground(a.theme.Primary)
	inactive := r.NewStyle().Foreground(a.theme.Muted)

	tabTree, tabBoard := inactive, active
	if a.tab == TabTree {
		tabTree, tabBoard = active, inactive
	}
	return tabTree.Render(" Tree ") + inactive.Render("│") + tabBoard.Render(" Board ")
}

func (a *App) renderStatus() string {
	r := a.theme.Renderer
	status := a.status
	if status == "" && a.dirty {
		status = "unsaved changes"
	}
	return r.NewStyle().Foreground(a.theme.Muted).Render(status)
}
