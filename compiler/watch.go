package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// Editors write a file in several steps, one compile per burst of events is enough.
const watchDebounce = 300 * time.Millisecond

var errWatchNeedsFile = errors.New("-watch reads the source from a file, use -i path")

type debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
	fn    func()
}

func newDebouncer(delay time.Duration, fn func()) *debouncer {
	return &debouncer{delay: delay, fn: fn}
}

// trigger calls fn once delay has passed without another trigger.
func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

// runWatch compiles the -i file, then again on every change until ctx is done.
func runWatch(ctx context.Context, opts *options, stdout, stderr io.Writer) int {
	if opts.input == "" || opts.expr != "" {
		reportError(stderr, errWatchNeedsFile)
		return 1
	}
	var mu sync.Mutex
	recompile := func() {
		mu.Lock()
		defer mu.Unlock()
		err := compileOnce(ctx, opts, stdout, stderr)
		if err != nil {
			reportError(stderr, err)
			return
		}
		fmt.Fprintf(stdout, "[Compiler]: %s -> %s\n", opts.input, opts.output)
	}
	recompile()

	watcher, err := newFileWatcher(opts.input, newDebouncer(watchDebounce, recompile))
	if err != nil {
		reportError(stderr, err)
		return 1
	}
	defer watcher.close()
	err = watcher.watch(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		reportError(stderr, err)
		return 1
	}
	return 0
}
