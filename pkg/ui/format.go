package ui

import "github.com/mattn/go-runewidth"

// truncate shortens s to at most maxWidth display cells, appending an
// ellipsis when something was cut. Width is measured in terminal cells,
// not runes, so wide characters count double.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 1 {
		return "…"
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth-1, "") + "…"
}
