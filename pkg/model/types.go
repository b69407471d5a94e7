package model

import "fmt"

// TreeNode is a single node in the outline forest. Nodes own their
// children; a node appears in exactly one place in a forest.
//
// A node with HasChildren set and a nil Children slice is a lazy
// placeholder: its children have not been fetched yet. Once Children is
// non-nil (even empty) the node is loaded and HasChildren is no longer
// consulted. Children deliberately has no omitempty tag so that the
// nil/empty distinction survives a snapshot round-trip.
type TreeNode struct {
	ID          string     `json:"id"`
	Label       string     `json:"label"`
	Notes       string     `json:"notes,omitempty"`
	HasChildren bool       `json:"hasChildren,omitempty"`
	Children    []TreeNode `json:"children"`
}

// IsPlaceholder reports whether the node's children are still unfetched.
func (n TreeNode) IsPlaceholder() bool {
	return n.HasChildren && n.Children == nil
}

// Clone creates a deep copy of the node and its entire subtree.
func (n TreeNode) Clone() TreeNode {
	clone := n
	if n.Children != nil {
		clone.Children = make([]TreeNode, len(n.Children))
		for i := range n.Children {
			clone.Children[i] = n.Children[i].Clone()
		}
	}
	return clone
}

// Validate checks if the node data is logically valid
func (n *TreeNode) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("node ID cannot be empty")
	}
	if n.Label == "" {
		return fmt.Errorf("node label cannot be empty")
	}
	for i := range n.Children {
		if err := n.Children[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ColumnID identifies a board column. The set of valid ids is closed and
// does not change at runtime.
type ColumnID string

const (
	ColTodo       ColumnID = "todo"
	ColInProgress ColumnID = "in-progress"
	ColDone       ColumnID = "done"
)

// IsValid returns true for one of the known column ids
func (c ColumnID) IsValid() bool {
	switch c {
	case ColTodo, ColInProgress, ColDone:
		return true
	}
	return false
}

// Card is a single board card. A card belongs to exactly one column at
// all times.
type Card struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Notes string `json:"notes,omitempty"`
}

// Clone creates a copy of the card
func (c Card) Clone() Card {
	return c
}

// Validate checks if the card data is logically valid
func (c *Card) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("card ID cannot be empty")
	}
	if c.Title == "" {
		return fmt.Errorf("card title cannot be empty")
	}
	return nil
}

// Column is a fixed-identity bucket of cards
type Column struct {
	ID    ColumnID `json:"id"`
	Title string   `json:"title"`
	Cards []Card   `json:"cards"`
}

// Clone creates a deep copy of the column
func (c Column) Clone() Column {
	clone := c
	if c.Cards != nil {
		clone.Cards = make([]Card, len(c.Cards))
		copy(clone.Cards, c.Cards)
	}
	return clone
}

// Validate checks if the column data is logically valid
func (c *Column) Validate() error {
	if !c.ID.IsValid() {
		return fmt.Errorf("invalid column id: %s", c.ID)
	}
	if c.Title == "" {
		return fmt.Errorf("column title cannot be empty")
	}
	for i := range c.Cards {
		if err := c.Cards[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CloneColumns deep-copies a column sequence.
func CloneColumns(cols []Column) []Column {
	if cols == nil {
		return nil
	}
	out := make([]Column, len(cols))
	for i := range cols {
		out[i] = cols[i].Clone()
	}
	return out
}

// DefaultColumns returns the three-column board every new board starts
// with. Column identity is fixed; only titles are cosmetic.
func DefaultColumns() []Column {
	return []Column{
		{ID: ColTodo, Title: "To Do", Cards: []Card{}},
		{ID: ColInProgress, Title: "In Progress", Cards: []Card{}},
		{ID: ColDone, Title: "Done", Cards: []Card{}},
	}
}

// TotalCards returns the number of cards across all columns.
func TotalCards(cols []Column) int {
	total := 0
	for i := range cols {
		total += len(cols[i].Cards)
	}
	return total
}

// Snapshot bundles both widgets' state for host-side persistence. The
// widgets themselves never read or write snapshots; hosts build one from
// the change-notification values.
type Snapshot struct {
	Tree    []TreeNode `json:"tree"`
	Columns []Column   `json:"columns"`
}

// Clone creates a deep copy of the snapshot
func (s Snapshot) Clone() Snapshot {
	clone := Snapshot{Columns: CloneColumns(s.Columns)}
	if s.Tree != nil {
		clone.Tree = make([]TreeNode, len(s.Tree))
		for i := range s.Tree {
			clone.Tree[i] = s.Tree[i].Clone()
		}
	}
	return clone
}
