package session

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a Store when another process rewrites the session
// file. The parent directory is watched rather than the file itself:
// the store replaces the file by rename, which would otherwise detach a
// file watch.
type Watcher struct {
	store   *Store
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the store's session file
func NewWatcher(store *Store) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create session watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(store.path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch session directory: %w", err)
	}
	return &Watcher{store: store, watcher: w}, nil
}

// Run processes file events until the context is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	target := filepath.Clean(w.store.path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.store.Reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				return fmt.Errorf("session watcher: %w", err)
			}
		}
	}
}
