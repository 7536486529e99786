package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a resolver when its machine list file changes on disk.
// It debounces bursts of file events to prevent reload storms from editors
// and configuration management tools that write in multiple steps.
type Watcher struct {
	resolver SubClusterResolver
	path     string
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewWatcher creates a watcher that reloads resolver whenever the file at
// path changes. debounce controls how long to coalesce change events; zero
// selects a 200ms default.
func NewWatcher(resolver SubClusterResolver, path string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	return &Watcher{
		resolver: resolver,
		path:     path,
		debounce: debounce,
		logger:   slog.Default().With("component", "federation.resolver.watcher"),
	}
}

// Watch blocks, reloading the resolver on file changes, until the context
// is cancelled. The parent directory is watched rather than the file itself
// so rename-based atomic replacement is observed.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	w.logger.Info("machine list watcher started", "path", w.path, "debounce", w.debounce)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Restart the debounce window on every relevant event.
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			if err := w.resolver.Load(); err != nil {
				// Keep serving the previous mapping on a bad reload.
				w.logger.Warn("machine list reload failed", "path", w.path, "error", err)
				continue
			}
			w.logger.Info("machine list reloaded", "path", w.path)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}
