// Package metrics exposes Prometheus collectors for housekeeping runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	registry prometheus.Registerer

	runsTotal   *prometheus.CounterVec
	runDuration prometheus.Histogram
	freeBytes   prometheus.Gauge

	filesDeleted   prometheus.Counter
	bytesReclaimed prometheus.Counter
	filesArchived  prometheus.Counter
	bytesArchived  prometheus.Counter
	dirsPruned     prometheus.Counter

	phaseFailures *prometheus.CounterVec
}

func Init(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		registry: reg,
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of housekeeping runs",
			},
			[]string{"result"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of housekeeping runs",
				Buckets:   []float64{.05, .1, .5, 1, 5, 15, 60, 300},
			},
		),
		freeBytes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "archive_free_bytes",
				Help:      "Free bytes on the filesystem backing the archive, as of the last run",
			},
		),
		filesDeleted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_deleted_total",
				Help:      "Recordings deleted by the reclamation phase",
			},
		),
		bytesReclaimed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bytes_reclaimed_total",
				Help:      "Bytes freed by the reclamation phase",
			},
		),
		filesArchived: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_archived_total",
				Help:      "Recordings moved from the inbox into the archive",
			},
		),
		bytesArchived: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bytes_archived_total",
				Help:      "Bytes moved from the inbox into the archive",
			},
		),
		dirsPruned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dirs_pruned_total",
				Help:      "Empty archive directories removed",
			},
		),
		phaseFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "phase_failures_total",
				Help:      "Per-item failures by housekeeping phase",
			},
			[]string{"phase"},
		),
	}

	reg.MustRegister(
		m.runsTotal,
		m.runDuration,
		m.freeBytes,
		m.filesDeleted,
		m.bytesReclaimed,
		m.filesArchived,
		m.bytesArchived,
		m.dirsPruned,
		m.phaseFailures,
	)

	return m
}

// All recorders are nil-safe so callers can run without metrics wired.

func (m *Metrics) RecordRun(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(result).Inc()
	m.runDuration.Observe(duration.Seconds())
}

func (m *Metrics) SetFreeBytes(v int64) {
	if m == nil {
		return
	}
	m.freeBytes.Set(float64(v))
}

func (m *Metrics) AddDeleted(files int, bytes int64) {
	if m == nil {
		return
	}
	m.filesDeleted.Add(float64(files))
	m.bytesReclaimed.Add(float64(bytes))
}

func (m *Metrics) AddArchived(files int, bytes int64) {
	if m == nil {
		return
	}
	m.filesArchived.Add(float64(files))
	m.bytesArchived.Add(float64(bytes))
}

func (m *Metrics) AddPruned(dirs int) {
	if m == nil {
		return
	}
	m.dirsPruned.Add(float64(dirs))
}

func (m *Metrics) AddPhaseFailures(phase string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.phaseFailures.WithLabelValues(phase).Add(float64(n))
}
