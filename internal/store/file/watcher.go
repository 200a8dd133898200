package file

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/davidbz/costsheet/internal/observability"
)

// ErrAlreadyWatching is returned when Watch is called on a store that is
// already being watched.
var ErrAlreadyWatching = errors.New("catalog file already watched")

// Watch enables the read snapshot and drops it whenever the catalog file is
// changed by another process. It blocks until ctx is done.
//
// The parent directory is watched rather than the file itself, since every
// save replaces the file through a rename.
func (s *Store) Watch(ctx context.Context) error {
	if s.Watching() {
		return ErrAlreadyWatching
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	s.setWatching(true)
	defer s.setWatching(false)

	d := newDebouncer(s.debounce)
	defer d.stop()

	logger := observability.FromContext(ctx)
	logger.Info("catalog file watcher started",
		observability.String("path", s.path),
		observability.Duration("debounce", s.debounce))

	for {
		select {
		case <-ctx.Done():
			logger.Info("catalog file watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}

			if !s.relevant(event) {
				continue
			}

			// Drop now so the next read cannot see the stale copy, and once
			// more after the burst settles.
			s.invalidate()
			d.trigger(func() {
				s.invalidate()
				logger.Info("catalog file changed",
					observability.String("op", event.Op.String()))
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			logger.Warn("catalog file watcher error", observability.Error(err))
		}
	}
}

func (s *Store) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	return filepath.Clean(event.Name) == s.path
}

// debouncer runs the last triggered callback after a quiet period.
type debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{interval: interval}
}

func (d *debouncer) trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, callback)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
