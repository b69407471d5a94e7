package store

import (
	"log"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// ViewState is the persisted presentation state of the tree view,
// saved alongside the snapshot so expansion survives restarts.
//
// File format (JSON):
//
//	{
//	  "version": 1,
//	  "expanded": {
//	    "1-2": true
//	  }
//	}
//
// Only presentation state lives here; loaded children belong to the
// snapshot. A corrupted or missing file degrades to defaults.
type ViewState struct {
	Version  int             `json:"version"`
	Expanded map[string]bool `json:"expanded"`
}

// ViewStateVersion is the current schema version for view persistence.
const ViewStateVersion = 1

// DefaultViewState returns an empty view state.
func DefaultViewState() *ViewState {
	return &ViewState{
		Version:  ViewStateVersion,
		Expanded: make(map[string]bool),
	}
}

// LoadViewState restores the view state from disk. Missing or invalid
// files yield defaults; parse failures are logged, not fatal.
func LoadViewState(path string) *ViewState {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultViewState()
	}

	var state ViewState
	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("warning: invalid view state file, using defaults: %v", err)
		return DefaultViewState()
	}
	if state.Version != ViewStateVersion || state.Expanded == nil {
		return DefaultViewState()
	}
	return &state
}

// SaveViewState persists the view state. Errors are logged but do not
// interrupt the user experience.
func SaveViewState(path string, state *ViewState) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Printf("warning: failed to marshal view state: %v", err)
		return
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("warning: failed to create state directory %s: %v", dir, err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("warning: failed to write view state to %s: %v", path, err)
	}
}
