// Package watch polls a file for modification so the CLI can re-decode a
// card image while it is being re-shot or edited.
package watch

import (
	"context"
	"fmt"
	"time"

	"punchcard/internal/fsutil"
	"punchcard/internal/timeutil"
)

// stamp identifies one version of a file.
type stamp struct {
	modTime time.Time
	size    int64
}

// Watcher reports changes to a single file by comparing its modification
// time and size against a baseline.
type Watcher struct {
	fs       fsutil.FileSystem
	path     string
	interval time.Duration
	clock    timeutil.Clock
	baseline stamp
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithClock sets the clock that drives polling.
func WithClock(c timeutil.Clock) Option {
	return func(w *Watcher) { w.clock = c }
}

// New records the current state of path as the baseline.
func New(fs fsutil.FileSystem, path string, interval time.Duration, opts ...Option) (*Watcher, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("watch interval must be positive, got %s", interval)
	}
	w := &Watcher{fs: fs, path: path, interval: interval, clock: timeutil.RealClock{}}
	for _, opt := range opts {
		opt(w)
	}
	st, err := w.stat()
	if err != nil {
		return nil, err
	}
	w.baseline = st
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) stat() (stamp, error) {
	info, err := w.fs.Stat(w.path)
	if err != nil {
		return stamp{}, fmt.Errorf("watch %s: %w", w.path, err)
	}
	return stamp{modTime: info.ModTime(), size: info.Size()}, nil
}

// Changed reports whether the file differs from the baseline and, if so,
// moves the baseline forward. A file that is temporarily missing, as
// happens while an editor replaces it, is not a change.
func (w *Watcher) Changed() bool {
	st, err := w.stat()
	if err != nil {
		return false
	}
	if st == w.baseline {
		return false
	}
	w.baseline = st
	return true
}

// Run calls onChange after every detected change until ctx is done.
// onChange runs on the calling goroutine.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			if w.Changed() {
				onChange()
			}
		}
	}
}
