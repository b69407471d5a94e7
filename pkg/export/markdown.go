// Package export renders workspace state into shareable artifacts:
// a markdown report and an SVG diagram of the tree.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/arborui/arbor/pkg/forest"
	"github.com/arborui/arbor/pkg/model"
)

// GenerateMarkdown creates a markdown report of the whole workspace:
// outline first, then the board column by column.
func GenerateMarkdown(snap model.Snapshot, title string, now time.Time) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC1123)))

	// Summary
	nodeCount := len(forest.IDs(snap.Tree))
	pending := 0
	forest.Walk(snap.Tree, func(n model.TreeNode, depth int) {
		if n.IsPlaceholder() {
			pending++
		}
	})
	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Outline nodes**: %d\n", nodeCount))
	if pending > 0 {
		sb.WriteString(fmt.Sprintf("- **Unloaded branches**: %d\n", pending))
	}
	sb.WriteString(fmt.Sprintf("- **Cards**: %d\n\n", model.TotalCards(snap.Columns)))

	// Outline as a nested list
	sb.WriteString("## Outline\n\n")
	if len(snap.Tree) == 0 {
		sb.WriteString("_empty_\n")
	}
	forest.Walk(snap.Tree, func(n model.TreeNode, depth int) {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString("- ")
		sb.WriteString(n.Label)
		if n.IsPlaceholder() {
			sb.WriteString(" _(not loaded)_")
		}
		sb.WriteString("\n")
	})
	sb.WriteString("\n---\n\n")

	// Board
	sb.WriteString("## Board\n\n")
	for _, col := range snap.Columns {
		sb.WriteString(fmt.Sprintf("### %s (%d)\n\n", col.Title, len(col.Cards)))
		if len(col.Cards) == 0 {
			sb.WriteString("_empty_\n\n")
			continue
		}
		marker := "[ ]"
		if col.ID == model.ColDone {
			marker = "[x]"
		}
		for _, card := range col.Cards {
			sb.WriteString(fmt.Sprintf("- %s %s\n", marker, card.Title))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
