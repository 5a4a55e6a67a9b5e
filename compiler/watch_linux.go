//go:build linux

package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Editors that save through a temp file rename it over the source, which replaces the inode. The watch is put on
// the directory so the new file is seen as well.
const watchMask = unix.IN_MODIFY | unix.IN_CLOSE_WRITE | unix.IN_MOVED_TO | unix.IN_CREATE

type fileWatcher struct {
	fd      int
	path    string
	name    string
	changed *debouncer
}

func newFileWatcher(path string, changed *debouncer) (*fileWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("inotify_init failed: %w", err)
	}
	dir := filepath.Dir(absPath)
	_, err = unix.InotifyAddWatch(fd, dir, watchMask)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return &fileWatcher{fd: fd, path: absPath, name: filepath.Base(absPath), changed: changed}, nil
}

// watch reads inotify events until ctx is done. The fd is non blocking, an empty read waits a little.
func (fw *fileWatcher) watch(ctx context.Context) error {
	buf := make([]byte, 4096)
	for {
		n, err := unix.Read(fw.fd, buf)
		if err == unix.EAGAIN || err == unix.EINTR {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("read inotify events of %s: %w", fw.path, err)
		}
		for offset := 0; offset+unix.SizeofInotifyEvent <= n; {
			event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
			nameStart := offset + unix.SizeofInotifyEvent
			offset = nameStart + int(event.Len)
			if event.Mask&watchMask == 0 || offset > n {
				continue
			}
			if eventName(buf[nameStart:offset]) == fw.name {
				fw.changed.trigger()
			}
		}
	}
}

// eventName cuts the nul padding off the name that follows an inotify event.
func eventName(raw []byte) string {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return string(raw)
}

func (fw *fileWatcher) close() error {
	fw.changed.stop()
	return unix.Close(fw.fd)
}
