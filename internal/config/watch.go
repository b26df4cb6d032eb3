package config

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config whenever the file at path changes and delivers
// the new value on the returned channel. Edits to poll intervals or the
// server URL therefore apply without restarting the dashboard. The watcher
// stops when done is closed.
//
// The parent directory is watched rather than the file itself so that
// editors which replace-on-save (write temp, rename over) keep the watch
// alive.
func Watch(path string, done <-chan struct{}) (<-chan *Config, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	updates := make(chan *Config, 1)
	go func() {
		defer w.Close()
		defer close(updates)
		for {
			select {
			case <-done:
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				cfg, err := Load(path)
				if err != nil {
					// A half-written file during save; the next event will
					// carry the complete version.
					continue
				}
				if cfg.Validate() != nil {
					continue
				}
				// Drop a stale pending update in favor of the newest.
				select {
				case <-updates:
				default:
				}
				updates <- cfg
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return updates, nil
}
