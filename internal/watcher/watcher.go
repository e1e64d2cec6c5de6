// Package watcher turns filesystem changes under the content
// directory into cache invalidations. It is purely an invalidation
// signal: no incremental indexing, no content interpretation. A change
// drops the affected cached resolutions and nothing else.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nafsi-health/contentcore/internal/content"
)

// Invalidator receives the keys whose cached resolutions must drop.
type Invalidator interface {
	Invalidate(ctx context.Context, ct content.ContentType, slug, locale string)
}

// DefaultDebounce is the quiet window before changes are acted on.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches the content directory recursively and feeds
// debounced changes through a KeyMapper into an Invalidator.
type Watcher struct {
	dir         string
	mapper      *KeyMapper
	invalidator Invalidator
	debouncer   *Debouncer
	logger      *slog.Logger

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	stopped bool
}

// New creates a watcher over dir. debounce zero means DefaultDebounce.
func New(dir string, locales []string, invalidator Invalidator, debounce time.Duration, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		dir:         dir,
		mapper:      NewKeyMapper(dir, locales),
		invalidator: invalidator,
		debouncer:   NewDebouncer(debounce),
		logger:      logger.With("component", "watcher"),
	}
}

// Start begins watching and blocks until ctx is cancelled or a fatal
// watcher error occurs.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	w.mu.Lock()
	w.fsw = fsw
	w.mu.Unlock()
	defer w.Stop()

	if err := w.addRecursive(w.dir); err != nil {
		return err
	}
	w.logger.Info("watching content directory", "dir", w.dir)

	go w.consume(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	const relevant = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename
	if event.Op&relevant == 0 {
		return
	}

	// New directories join the watch set so deeper changes are seen.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
		}
	}

	w.debouncer.Add(event.Name)
}

// consume drains debounced batches, maps paths to keys, and fires the
// invalidations. Duplicate keys within one batch collapse.
func (w *Watcher) consume(ctx context.Context) {
	for batch := range w.debouncer.Output() {
		seen := make(map[content.Key]bool)
		for _, path := range batch {
			for _, key := range w.mapper.Map(path) {
				if seen[key] {
					continue
				}
				seen[key] = true
				w.invalidator.Invalidate(ctx, key.Type, key.Slug, key.Locale)
				w.logger.Debug("invalidated", "key", key.String())
			}
		}
	}
}

// addRecursive registers path and every directory below it. Missing
// paths are fine; files are ignored by fsnotify's directory semantics.
func (w *Watcher) addRecursive(path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if base := filepath.Base(p); len(base) > 0 && base[0] == '.' && p != path {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			w.logger.Warn("cannot watch directory", "dir", p, "error", err)
		}
		return nil
	})
}

// Stop tears the watcher down. Safe to call multiple times.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	w.stopped = true
	if w.fsw != nil {
		w.fsw.Close()
	}
	w.debouncer.Stop()
}
