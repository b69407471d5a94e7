package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/arborui/arbor/pkg/model"
)

func sampleSnapshot() model.Snapshot {
	cols := model.DefaultColumns()
	cols[0].Cards = []model.Card{{ID: "c1", Title: "First"}}
	return model.Snapshot{
		Tree: []model.TreeNode{
			{ID: "1", Label: "Root", Children: []model.TreeNode{
				{ID: "1-1", Label: "Kid", HasChildren: true},
			}},
		},
		Columns: cols,
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	want := sampleSnapshot()

	if err := SaveSnapshot(path, want); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	got, ok, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if !ok {
		t.Fatal("expected snapshot to exist")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip changed state:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestSnapshotPreservesPlaceholderDistinction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	snap := model.Snapshot{
		Tree: []model.TreeNode{
			{ID: "pending", Label: "Pending", HasChildren: true},                               // placeholder
			{ID: "empty", Label: "Empty", HasChildren: true, Children: []model.TreeNode{}},     // loaded, no children
		},
		Columns: model.DefaultColumns(),
	}

	if err := SaveSnapshot(path, snap); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	got, _, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	if !got.Tree[0].IsPlaceholder() {
		t.Error("unloaded node must still be a placeholder after reload")
	}
	if got.Tree[1].IsPlaceholder() {
		t.Error("loaded-empty node must not regress to a placeholder after reload")
	}
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	_, ok, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if ok {
		t.Error("missing file should report ok=false")
	}
}

func TestLoadSnapshotRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadSnapshot(path); err == nil {
		t.Error("corrupt file should error")
	}
}

func TestLoadSnapshotRejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(`{"version": 99, "state": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadSnapshot(path); err == nil {
		t.Error("newer schema version should be refused, not misread")
	}
}

func TestLoadSnapshotDefaultsColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(`{"version": 1, "state": {"tree": []}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got, ok, err := LoadSnapshot(path)
	if err != nil || !ok {
		t.Fatalf("LoadSnapshot: ok=%v err=%v", ok, err)
	}
	if len(got.Columns) != 3 {
		t.Errorf("absent columns should default to the standard board, got %d", len(got.Columns))
	}
}

func TestLoadSnapshotDefaultsEmptyColumns(t *testing.T) {
	// Hand-edited files can carry an explicit empty array; the board
	// must still come back with its three columns.
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(`{"version": 1, "state": {"tree": [], "columns": []}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got, ok, err := LoadSnapshot(path)
	if err != nil || !ok {
		t.Fatalf("LoadSnapshot: ok=%v err=%v", ok, err)
	}
	if len(got.Columns) != 3 {
		t.Errorf("empty columns should default to the standard board, got %d", len(got.Columns))
	}
}

func TestLoadSnapshotRejectsInvalidColumns(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"bad id": `{"version": 1, "state": {"columns": [{"id": "bogus", "title": "X", "cards": []}]}}`,
		"no title": `{"version": 1, "state": {"columns": [{"id": "todo", "title": "", "cards": []}]}}`,
		"bad card": `{"version": 1, "state": {"columns": [{"id": "todo", "title": "X", "cards": [{"id": "", "title": "Y"}]}]}}`,
	} {
		path := filepath.Join(dir, "snapshot.json")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, _, err := LoadSnapshot(path); err == nil {
			t.Errorf("%s: invalid columns should be refused", name)
		}
	}
}

func TestSaveSnapshotLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")
	if err := SaveSnapshot(path, sampleSnapshot()); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "snapshot.json" {
		t.Errorf("unexpected directory contents: %v", entries)
	}
}
