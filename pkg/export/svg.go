package export

import (
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/mattn/go-runewidth"

	"github.com/arborui/arbor/pkg/forest"
	"github.com/arborui/arbor/pkg/model"
)

// Layout constants for the SVG outline diagram.
const (
	svgRowHeight  = 36
	svgIndent     = 48
	svgBoxWidth   = 220
	svgBoxHeight  = 26
	svgMarginX    = 20
	svgMarginY    = 20
	svgLabelLimit = 28
)

// GenerateSVG draws the outline as a left-to-right indented diagram,
// one row per node in visual order, with connectors to each parent.
func GenerateSVG(w io.Writer, nodes []model.TreeNode) {
	rows := len(forest.IDs(nodes))
	width := svgMarginX*2 + svgIndent*maxDepth(nodes) + svgBoxWidth
	height := svgMarginY*2 + rows*svgRowHeight
	if rows == 0 {
		height = svgMarginY*2 + svgRowHeight
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#1e1e2e")

	if rows == 0 {
		canvas.Text(svgMarginX, svgMarginY+svgBoxHeight, "empty outline",
			"fill:#6c7086;font-family:monospace;font-size:13px")
		canvas.End()
		return
	}

	// rowOf remembers each drawn node's row so children can connect
	// back to their parent.
	rowOf := make(map[string]int, rows)
	parentOf := parentIndex(nodes)

	row := 0
	forest.Walk(nodes, func(n model.TreeNode, depth int) {
		x := svgMarginX + depth*svgIndent
		y := svgMarginY + row*svgRowHeight
		rowOf[n.ID] = row
		row++

		if pid, ok := parentOf[n.ID]; ok {
			px := svgMarginX + (depth-1)*svgIndent
			py := svgMarginY + rowOf[pid]*svgRowHeight + svgBoxHeight
			canvas.Line(px+12, py, px+12, y+svgBoxHeight/2, "stroke:#45475a;stroke-width:2")
			canvas.Line(px+12, y+svgBoxHeight/2, x, y+svgBoxHeight/2, "stroke:#45475a;stroke-width:2")
		}

		boxStyle := "fill:#313244;stroke:#89b4fa;stroke-width:1"
		if n.IsPlaceholder() {
			boxStyle = "fill:#313244;stroke:#6c7086;stroke-width:1;stroke-dasharray:4"
		}
		canvas.Roundrect(x, y, svgBoxWidth, svgBoxHeight, 4, 4, boxStyle)

		label := n.Label
		if runewidth.StringWidth(label) > svgLabelLimit {
			label = runewidth.Truncate(label, svgLabelLimit-1, "") + "…"
		}
		canvas.Text(x+8, y+svgBoxHeight-8, label,
			"fill:#cdd6f4;font-family:monospace;font-size:13px")
	})

	canvas.End()
}

// maxDepth returns the deepest level in the forest, zero for flat or
// empty input.
func maxDepth(nodes []model.TreeNode) int {
	deepest := 0
	forest.Walk(nodes, func(n model.TreeNode, depth int) {
		if depth > deepest {
			deepest = depth
		}
	})
	return deepest
}

// parentIndex maps each node id to its parent's id.
func parentIndex(nodes []model.TreeNode) map[string]string {
	parents := make(map[string]string)
	var visit func(n model.TreeNode)
	visit = func(n model.TreeNode) {
		for _, child := range n.Children {
			parents[child.ID] = n.ID
			visit(child)
		}
	}
	for _, root := range nodes {
		visit(root)
	}
	return parents
}
