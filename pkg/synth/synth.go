// Package synth fabricates children for lazy tree nodes, modeling an
// asynchronous backend fetch with a fixed round-trip latency. Child
// content is a pure function of (parentID, depth) so loads are
// reproducible across runs and in tests.
package synth

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arborui/arbor/pkg/model"
)

// LoadDelay is the simulated backend latency for a child fetch.
const LoadDelay = 500 * time.Millisecond

// childrenPerLoad is the fixed fan-out of every simulated fetch.
const childrenPerLoad = 2

// maxDepth is the last depth at which synthesized children are
// themselves expandable. Children generated for a parent at this depth
// or deeper are leaves.
const maxDepth = 3

// letters is the rotating label sequence, indexed by (position + depth)
// mod len(letters).
var letters = [...]string{"A", "B", "C", "D", "E"}

// Children synthesizes the child set for a parent node at the given
// depth (0 = root). Ids are parent-scoped so global uniqueness follows
// from the parent's.
func Children(parentID string, depth int) []model.TreeNode {
	kids := make([]model.TreeNode, 0, childrenPerLoad)
	for i := 0; i < childrenPerLoad; i++ {
		kids = append(kids, model.TreeNode{
			ID:          fmt.Sprintf("%s-%d", parentID, i+1),
			Label:       "Item " + letters[(i+depth)%len(letters)],
			HasChildren: depth < maxDepth,
		})
	}
	return kids
}

// ChildrenLoadedMsg delivers a completed simulated fetch. Delivery is
// not cancellable: collapsing or deleting the parent in the interim does
// not suppress the message, the receiving side absorbs it as a no-op.
type ChildrenLoadedMsg struct {
	ParentID string
	Children []model.TreeNode
}

// LoadCmd schedules delivery of the parent's synthesized children after
// the given delay (LoadDelay if zero or negative). The child set is
// computed eagerly so the message content does not depend on state
// changes during the latency window.
func LoadCmd(parentID string, depth int, delay time.Duration) tea.Cmd {
	if delay <= 0 {
		delay = LoadDelay
	}
	kids := Children(parentID, depth)
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ChildrenLoadedMsg{ParentID: parentID, Children: kids}
	})
}
