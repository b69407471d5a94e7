// Package store persists widget state for the host application: the
// snapshot file (tree + board), the view-state file (expansion memory),
// a change watcher for external edits, and a sqlite journal of
// committed transitions.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/arborui/arbor/pkg/model"
)

// snapshotVersion is the current schema version for the snapshot file.
const snapshotVersion = 1

// snapshotFile is the on-disk envelope around model.Snapshot. The
// version field enables future schema migrations.
type snapshotFile struct {
	Version int            `json:"version"`
	State   model.Snapshot `json:"state"`
}

// LoadSnapshot reads a snapshot file. A missing file returns ok=false
// with no error so first runs can seed a fresh state.
func LoadSnapshot(path string) (model.Snapshot, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.Snapshot{}, false, nil
	}
	if err != nil {
		return model.Snapshot{}, false, err
	}

	var f snapshotFile
	if err := json.Unmarshal(data, &f); err != nil {
		return model.Snapshot{}, false, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	if f.Version > snapshotVersion {
		return model.Snapshot{}, false, fmt.Errorf("snapshot %s has schema version %d, newer than supported %d", path, f.Version, snapshotVersion)
	}

	snap := f.State
	// A hand-edited file may carry "columns": []; treat that like an
	// absent board rather than leaving the widget with zero columns.
	if len(snap.Columns) == 0 {
		snap.Columns = model.DefaultColumns()
	}
	for i := range snap.Tree {
		if err := snap.Tree[i].Validate(); err != nil {
			return model.Snapshot{}, false, fmt.Errorf("snapshot %s: %w", path, err)
		}
	}
	for i := range snap.Columns {
		if err := snap.Columns[i].Validate(); err != nil {
			return model.Snapshot{}, false, fmt.Errorf("snapshot %s: %w", path, err)
		}
	}
	return snap, true, nil
}

// SaveSnapshot writes the snapshot atomically: the file is written to a
// temporary sibling and renamed into place, so a concurrent reader (or
// the file watcher) never observes a partial write.
func SaveSnapshot(path string, snap model.Snapshot) error {
	data, err := json.MarshalIndent(snapshotFile{Version: snapshotVersion, State: snap}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
