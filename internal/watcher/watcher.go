// Package watcher kicks housekeeping runs off inbox activity instead of
// waiting for the next scheduled tick. The inbox is flat, so a single
// non-recursive watch covers it.
package watcher

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aatumaykin/camkeeper/internal/logger"
)

// Watcher watches the inbox directory and emits a debounced trigger once
// upload activity settles.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	log       *logger.Logger
}

// New creates a watcher on the inbox directory. settle is the quiet period
// after the last event before a trigger fires.
func New(inboxDir string, settle time.Duration, log *logger.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(inboxDir); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	log.Info("watching inbox for uploads",
		logger.Field{Key: "path", Value: inboxDir},
		logger.Field{Key: "settle", Value: settle.String()})

	return &Watcher{
		fsWatcher: fsWatcher,
		debouncer: NewDebouncer(settle),
		log:       log,
	}, nil
}

// Trigger returns the channel that fires after inbox activity settles.
func (w *Watcher) Trigger() <-chan struct{} {
	return w.debouncer.Trigger()
}

// Run listens for inbox events until the context is canceled. Call it in a
// goroutine.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			// Deletions cannot produce work; everything else restarts
			// the settle window.
			if event.Has(fsnotify.Remove) {
				continue
			}
			w.log.Debug("inbox activity",
				logger.Field{Key: "path", Value: event.Name},
				logger.Field{Key: "op", Value: event.Op.String()})
			w.debouncer.Poke()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("inbox watcher error",
				logger.Field{Key: "error", Value: err})
		}
	}
}

// Close stops watching and cancels any pending trigger.
func (w *Watcher) Close() error {
	w.debouncer.Stop()
	return w.fsWatcher.Close()
}
