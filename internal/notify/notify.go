// Package notify delivers run reports over the configured channels.
// Channels are optional: a run without any configured channel simply logs.
package notify

import (
	"context"

	"github.com/aatumaykin/camkeeper/internal/housekeeper"
	"github.com/aatumaykin/camkeeper/internal/logger"
	"github.com/aatumaykin/camkeeper/internal/retry"
)

// Notify policies.
const (
	NotifyAlways = "always"
	NotifyErrors = "errors"
)

// Notifier delivers one run report to a channel.
type Notifier interface {
	// Name identifies the channel in logs.
	Name() string
	// Notify sends the report. A run that failed before producing a report
	// is delivered as a report with RunErr set.
	Notify(ctx context.Context, report *Event) error
}

// Event is what channels deliver: the run report, or the structural error
// that aborted the run before one was produced.
type Event struct {
	Report *housekeeper.Report `json:"report,omitempty"`
	RunErr string              `json:"error,omitempty"`
}

// Failed reports whether the run had any failures at all.
func (e *Event) Failed() bool {
	if e.RunErr != "" {
		return true
	}
	return e.Report != nil && e.Report.Failures() > 0
}

// Multi fans one event out to several channels. Delivery failures are logged
// and do not affect other channels or the run outcome.
type Multi struct {
	log      *logger.Logger
	channels []Notifier
}

// NewMulti creates a fan-out notifier. Nil channels are skipped.
func NewMulti(log *logger.Logger, channels ...Notifier) *Multi {
	m := &Multi{log: log}
	for _, ch := range channels {
		if ch != nil {
			m.channels = append(m.channels, ch)
		}
	}
	return m
}

// Notify delivers the event to every channel. Transient delivery errors
// (flood control, broker hiccups) are retried with backoff.
func (m *Multi) Notify(ctx context.Context, event *Event) {
	for _, ch := range m.channels {
		err := retry.Do(ctx, func() error {
			return ch.Notify(ctx, event)
		}, retry.Config{})
		if err != nil {
			m.log.Error("notification failed", err,
				logger.Field{Key: "channel", Value: ch.Name()})
		}
	}
}

// Len returns the number of active channels.
func (m *Multi) Len() int {
	return len(m.channels)
}
