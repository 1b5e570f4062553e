// Package watcher provides event coalescing and store-file watching: a
// debouncer that collapses rapid triggers into one callback, and an fsnotify
// watcher that reloads state when the backing store is edited externally.
package watcher

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid triggers into a single invocation of a fixed
// callback. Every Trigger restarts the window, so a burst of mutations (a
// continuous drag, say) results in exactly one callback carrying the most
// recent state.
type Debouncer struct {
	window time.Duration
	fn     func()

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewDebouncer creates a debouncer that invokes fn once per quiet window.
func NewDebouncer(window time.Duration, fn func()) *Debouncer {
	return &Debouncer{window: window, fn: fn}
}

// Trigger (re)arms the debounce window. The callback fires once the window
// elapses with no further triggers.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() {
		// The generation check invalidates callbacks whose timer already
		// fired when a newer Trigger or Cancel raced with Stop.
		d.mu.Lock()
		stale := gen != d.gen
		if !stale {
			d.timer = nil
		}
		d.mu.Unlock()
		if stale {
			return
		}
		d.fn()
	})
}

// Cancel drops any pending callback without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Flush cancels the pending window and runs the callback immediately if one
// was pending. Used at teardown so the final state is not lost.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	pending := d.timer != nil
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	if pending {
		d.fn()
	}
}

// Pending reports whether a callback is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Window returns the debounce window.
func (d *Debouncer) Window() time.Duration { return d.window }
