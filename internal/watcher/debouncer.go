package watcher

import (
	"log/slog"
	"sync"
	"time"
)

// Debouncer coalesces rapid file events so a burst of writes to the
// same document triggers one invalidation, not dozens. Events for the
// same path within the window are merged; batches are emitted once the
// window goes quiet.
type Debouncer struct {
	window  time.Duration
	mu      sync.Mutex
	pending map[string]time.Time
	output  chan []string
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a debouncer with the given quiet window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window:  window,
		pending: make(map[string]time.Time),
		output:  make(chan []string, 10),
	}
}

// Add records a changed path. Repeated adds for the same path within
// the window collapse into one emission.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[path] = time.Now()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || len(d.pending) == 0 {
		return
	}

	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	d.pending = make(map[string]time.Time)

	select {
	case d.output <- paths:
	default:
		slog.Warn("debouncer output full, dropping batch",
			slog.Int("batch_size", len(paths)))
	}
}

// Output returns the channel of debounced path batches.
func (d *Debouncer) Output() <-chan []string {
	return d.output
}

// Stop stops the debouncer and closes the output channel. Safe to
// call multiple times.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	close(d.output)
}
