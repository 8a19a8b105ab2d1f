package watcher

import (
	"sync"
	"time"
)

// Debouncer collapses bursts of inbox activity into a single trigger emitted
// after a quiet period. Cameras upload in chunks, so every write resets the
// window; the trigger only fires once the inbox has settled.
type Debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	trigger  chan struct{}
}

// NewDebouncer creates a debouncer with the specified quiet interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		trigger:  make(chan struct{}, 1),
	}
}

// Trigger returns the channel that fires after the quiet period.
func (d *Debouncer) Trigger() <-chan struct{} {
	return d.trigger
}

// Poke restarts the quiet window.
func (d *Debouncer) Poke() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

// fire emits the trigger. An undrained pending trigger already covers this
// burst, so the send never blocks.
func (d *Debouncer) fire() {
	select {
	case d.trigger <- struct{}{}:
	default:
	}
}

// Stop cancels a pending trigger.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
}
