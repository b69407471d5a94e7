package store

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/arborui/arbor/pkg/model"
)

// Watcher reloads the snapshot file when another process rewrites it
// and delivers the fresh state on Snapshots. Rapid change bursts are
// debounced so an editor's save dance produces a single reload.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher

	snapshots chan model.Snapshot
	debounce  time.Duration

	cancel context.CancelFunc
	group  *errgroup.Group
}

// NewWatcher creates a watcher for the given snapshot path. The parent
// directory is watched rather than the file itself because atomic
// saves replace the file, which would drop a direct watch.
func NewWatcher(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	return &Watcher{
		path:      path,
		watcher:   fsw,
		snapshots: make(chan model.Snapshot, 1),
		debounce:  200 * time.Millisecond,
	}, nil
}

// Snapshots delivers reloaded state. The channel is never closed while
// the watcher runs; Stop ends delivery.
func (w *Watcher) Snapshots() <-chan model.Snapshot { return w.snapshots }

// Start begins watching. It returns immediately; events are processed
// until Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.group, ctx = errgroup.WithContext(ctx)
	w.group.Go(func() error { return w.watchLoop(ctx) })
}

// Stop shuts the watcher down and waits for the loop to exit.
func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	w.watcher.Close()
	if w.group != nil {
		return w.group.Wait()
	}
	return nil
}

func (w *Watcher) watchLoop(ctx context.Context) error {
	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}

			now := time.Now()
			if now.Sub(last) < w.debounce {
				continue
			}
			last = now

			snap, ok, err := LoadSnapshot(w.path)
			if err != nil || !ok {
				// Partial or invalid content; the next write will retry.
				continue
			}
			select {
			case w.snapshots <- snap:
			default:
				// Drop when the UI has not consumed the previous reload;
				// the latest state will arrive with the next event.
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}
