package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestViewStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewstate.json")

	state := DefaultViewState()
	state.Expanded["1"] = true
	state.Expanded["1-2"] = true
	SaveViewState(path, state)

	got := LoadViewState(path)
	if len(got.Expanded) != 2 || !got.Expanded["1"] || !got.Expanded["1-2"] {
		t.Errorf("expanded map lost in round trip: %+v", got.Expanded)
	}
}

func TestViewStateMissingFile(t *testing.T) {
	got := LoadViewState(filepath.Join(t.TempDir(), "nope.json"))
	if got.Version != ViewStateVersion {
		t.Errorf("version = %d", got.Version)
	}
	if got.Expanded == nil || len(got.Expanded) != 0 {
		t.Errorf("missing file should yield empty defaults: %+v", got.Expanded)
	}
}

func TestViewStateCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewstate.json")
	if err := os.WriteFile(path, []byte("%%%"), 0o644); err != nil {
		t.Fatal(err)
	}
	got := LoadViewState(path)
	if len(got.Expanded) != 0 {
		t.Error("corrupt file should degrade to defaults")
	}
}

func TestViewStateUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewstate.json")
	if err := os.WriteFile(path, []byte(`{"version": 7, "expanded": {"x": true}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got := LoadViewState(path)
	if len(got.Expanded) != 0 {
		t.Error("unknown schema version should degrade to defaults")
	}
}
