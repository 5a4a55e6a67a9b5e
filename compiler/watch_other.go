//go:build !linux

package main

import (
	"context"
	"os"
	"time"
)

const pollInterval = 500 * time.Millisecond

// fileWatcher polls the modification time where inotify isn't available.
type fileWatcher struct {
	path    string
	modTime time.Time
	changed *debouncer
}

func newFileWatcher(path string, changed *debouncer) (*fileWatcher, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &fileWatcher{path: path, modTime: info.ModTime(), changed: changed}, nil
}

func (fw *fileWatcher) watch(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		info, err := os.Stat(fw.path)
		if err != nil {
			// Saving through a rename removes the file for a moment.
			continue
		}
		if !info.ModTime().Equal(fw.modTime) {
			fw.modTime = info.ModTime()
			fw.changed.trigger()
		}
	}
}

func (fw *fileWatcher) close() error {
	fw.changed.stop()
	return nil
}
