package model

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestColumnID_IsValid(t *testing.T) {
	tests := []struct {
		id    ColumnID
		valid bool
	}{
		{ColTodo, true},
		{ColInProgress, true},
		{ColDone, true},
		{ColumnID("archive"), false},
		{ColumnID(""), false},
	}

	for _, tt := range tests {
		if got := tt.id.IsValid(); got != tt.valid {
			t.Errorf("ColumnID(%q).IsValid() = %v, want %v", tt.id, got, tt.valid)
		}
	}
}

func TestTreeNode_IsPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		node TreeNode
		want bool
	}{
		{"unloaded with flag", TreeNode{ID: "a", HasChildren: true}, true},
		{"leaf without flag", TreeNode{ID: "a"}, false},
		{"loaded empty", TreeNode{ID: "a", HasChildren: true, Children: []TreeNode{}}, false},
		{"loaded populated", TreeNode{ID: "a", HasChildren: true, Children: []TreeNode{{ID: "b"}}}, false},
	}

	for _, tt := range tests {
		if got := tt.node.IsPlaceholder(); got != tt.want {
			t.Errorf("%s: IsPlaceholder() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// TestTreeNode_Clone verifies the clone shares no children storage with
// the original.
func TestTreeNode_Clone(t *testing.T) {
	orig := TreeNode{
		ID:    "1",
		Label: "Root",
		Children: []TreeNode{
			{ID: "1-1", Label: "Child", Children: []TreeNode{
				{ID: "1-1-1", Label: "Grandchild"},
			}},
		},
	}

	clone := orig.Clone()
	clone.Children[0].Label = "Changed"
	clone.Children[0].Children[0].ID = "mutated"

	if orig.Children[0].Label != "Child" {
		t.Errorf("mutating clone changed original child label: %q", orig.Children[0].Label)
	}
	if orig.Children[0].Children[0].ID != "1-1-1" {
		t.Errorf("mutating clone changed original grandchild: %q", orig.Children[0].Children[0].ID)
	}
}

func TestTreeNode_Clone_PreservesPlaceholder(t *testing.T) {
	placeholder := TreeNode{ID: "p", Label: "Lazy", HasChildren: true}
	if got := placeholder.Clone(); !got.IsPlaceholder() {
		t.Error("clone of placeholder should remain a placeholder")
	}

	loaded := TreeNode{ID: "l", Label: "Loaded", HasChildren: true, Children: []TreeNode{}}
	if got := loaded.Clone(); got.IsPlaceholder() {
		t.Error("clone of loaded node should not become a placeholder")
	}
}

func TestTreeNode_Validate(t *testing.T) {
	tests := []struct {
		name    string
		node    TreeNode
		wantErr bool
	}{
		{"valid", TreeNode{ID: "1", Label: "Root"}, false},
		{"missing id", TreeNode{Label: "Root"}, true},
		{"missing label", TreeNode{ID: "1"}, true},
		{"invalid child", TreeNode{ID: "1", Label: "Root", Children: []TreeNode{{ID: "2"}}}, true},
	}

	for _, tt := range tests {
		err := tt.node.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestColumn_Clone(t *testing.T) {
	orig := Column{ID: ColTodo, Title: "To Do", Cards: []Card{{ID: "c1", Title: "First"}}}
	clone := orig.Clone()
	clone.Cards[0].Title = "Changed"

	if orig.Cards[0].Title != "First" {
		t.Errorf("mutating clone changed original card: %q", orig.Cards[0].Title)
	}
}

func TestColumn_Validate(t *testing.T) {
	tests := []struct {
		name    string
		col     Column
		wantErr bool
	}{
		{"valid", Column{ID: ColDone, Title: "Done"}, false},
		{"unknown id", Column{ID: "later", Title: "Later"}, true},
		{"missing title", Column{ID: ColTodo}, true},
		{"bad card", Column{ID: ColTodo, Title: "To Do", Cards: []Card{{ID: "c1"}}}, true},
	}

	for _, tt := range tests {
		err := tt.col.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestDefaultColumns(t *testing.T) {
	cols := DefaultColumns()
	if len(cols) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(cols))
	}
	want := []ColumnID{ColTodo, ColInProgress, ColDone}
	for i, col := range cols {
		if col.ID != want[i] {
			t.Errorf("column %d: id = %q, want %q", i, col.ID, want[i])
		}
		if err := col.Validate(); err != nil {
			t.Errorf("column %d: %v", i, err)
		}
	}
	if TotalCards(cols) != 0 {
		t.Errorf("fresh board should have 0 cards, got %d", TotalCards(cols))
	}
}

// TestTreeNode_JSONPlaceholderRoundTrip pins the invariant that the
// nil-versus-empty children distinction survives serialization: a loaded
// node with zero children must not come back as a placeholder.
func TestTreeNode_JSONPlaceholderRoundTrip(t *testing.T) {
	loaded := TreeNode{ID: "a", Label: "A", HasChildren: true, Children: []TreeNode{}}
	data, err := json.Marshal(loaded)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back TreeNode
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.IsPlaceholder() {
		t.Error("loaded-empty node became a placeholder after round trip")
	}

	placeholder := TreeNode{ID: "b", Label: "B", HasChildren: true}
	data, err = json.Marshal(placeholder)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back2 TreeNode
	if err := json.Unmarshal(data, &back2); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back2.IsPlaceholder() {
		t.Error("placeholder node lost its placeholder state after round trip")
	}
}

func TestSnapshot_Clone(t *testing.T) {
	s := Snapshot{
		Tree:    []TreeNode{{ID: "1", Label: "Root", Children: []TreeNode{{ID: "2", Label: "Kid"}}}},
		Columns: []Column{{ID: ColTodo, Title: "To Do", Cards: []Card{{ID: "c1", Title: "First"}}}},
	}
	clone := s.Clone()
	clone.Tree[0].Children[0].Label = "Changed"
	clone.Columns[0].Cards[0].Title = "Changed"

	if s.Tree[0].Children[0].Label != "Kid" {
		t.Error("snapshot clone aliased tree storage")
	}
	if s.Columns[0].Cards[0].Title != "First" {
		t.Error("snapshot clone aliased column storage")
	}
}
