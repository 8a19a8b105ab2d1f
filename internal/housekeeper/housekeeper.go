// Package housekeeper runs the three-phase maintenance pass over a camera
// upload tree: reclaim archive space when the disk fills up, move settled
// uploads from the inbox into the date-partitioned archive, and prune the
// empty directories the first two phases leave behind.
package housekeeper

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/aatumaykin/camkeeper/internal/devices"
	"github.com/aatumaykin/camkeeper/internal/logger"
	"github.com/aatumaykin/camkeeper/internal/metrics"
	"github.com/aatumaykin/camkeeper/internal/recording"
)

// Config holds the settings for one run. It is constructed once and never
// mutated; there is no process-wide state.
type Config struct {
	InboxDir   string
	ArchiveDir string

	// MinUnmodified is the staleness gate: a file still being uploaded must
	// never be relocated, and absent an explicit completion signal the only
	// proxy is "unmodified for this long".
	MinUnmodified time.Duration

	// MinFreeBytes triggers reclamation when free space drops to or below it;
	// ExtraBytes is freed past the threshold to leave headroom.
	MinFreeBytes int64
	ExtraBytes   int64

	// Per-phase dry-run switches. A dry phase skips the destructive action
	// but still counts and reports it as performed.
	DryRunDelete bool
	DryRunMove   bool
	DryRunPrune  bool
}

// DryRun reports whether any phase runs in simulation mode.
func (c Config) DryRun() bool {
	return c.DryRunDelete || c.DryRunMove || c.DryRunPrune
}

// Deps carries optional collaborators. Zero values disable them: a nil
// Metrics records nothing, a nil Devices knows no cameras, a nil DiskFree
// falls back to the OS and a nil Clock to time.Now.
type Deps struct {
	Metrics  *metrics.Metrics
	Devices  *devices.Registry
	DiskFree DiskFreeFunc
	Clock    func() time.Time
}

// Housekeeper executes housekeeping runs. Runs are strictly sequential;
// callers must not invoke RunOnce concurrently.
type Housekeeper struct {
	fs      afero.Fs
	cfg     Config
	log     *logger.Logger
	scanner *recording.Scanner
	free    DiskFreeFunc
	metrics *metrics.Metrics
	devices *devices.Registry
	now     func() time.Time
}

// New creates a housekeeper over the given filesystem.
func New(fs afero.Fs, cfg Config, log *logger.Logger, deps Deps) *Housekeeper {
	if deps.DiskFree == nil {
		deps.DiskFree = diskFree
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Housekeeper{
		fs:      fs,
		cfg:     cfg,
		log:     log,
		scanner: recording.NewScannerWithClock(fs, log, deps.Clock),
		free:    deps.DiskFree,
		metrics: deps.Metrics,
		devices: deps.Devices,
		now:     deps.Clock,
	}
}

// RunOnce performs one full housekeeping pass: reclaim, archive, prune, in
// that order. Per-item failures are tallied in the report; only structural
// errors (unusable roots, unreadable archive hierarchy) abort the run.
func (h *Housekeeper) RunOnce() (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: h.now(),
		DryRun:    h.cfg.DryRun(),
	}
	log := h.log.With(logger.Field{Key: "run_id", Value: report.RunID})

	log.Info("housekeeping run started",
		logger.Field{Key: "inbox", Value: h.cfg.InboxDir},
		logger.Field{Key: "archive", Value: h.cfg.ArchiveDir})

	// Both roots must exist before any phase touches them.
	if err := h.fs.MkdirAll(h.cfg.ArchiveDir, 0755); err != nil {
		return nil, h.fatal(log, report, fmt.Errorf("cannot create archive root: %w", err))
	}
	if err := h.fs.MkdirAll(h.cfg.InboxDir, 0755); err != nil {
		return nil, h.fatal(log, report, fmt.Errorf("cannot create inbox root: %w", err))
	}

	free, target, deleted, err := h.reclaimSpace(log.With(logger.Field{Key: "phase", Value: "reclaim"}))
	if err != nil {
		return nil, h.fatal(log, report, err)
	}
	report.FreeBytes = free
	report.TargetBytes = target
	report.Deleted = deleted

	archived, err := h.archiveNewFiles(log.With(logger.Field{Key: "phase", Value: "archive"}))
	if err != nil {
		return nil, h.fatal(log, report, err)
	}
	report.Archived = archived

	pruned, pruneFailures, err := h.pruneEmptyDirs(log.With(logger.Field{Key: "phase", Value: "prune"}), h.cfg.ArchiveDir)
	if err != nil {
		return nil, h.fatal(log, report, err)
	}
	report.PrunedDirs = pruned
	report.PruneFailures = pruneFailures

	report.Duration = h.now().Sub(report.StartedAt)

	h.metrics.RecordRun("ok", report.Duration)
	h.metrics.SetFreeBytes(report.FreeBytes)
	h.metrics.AddDeleted(report.Deleted.Files, report.Deleted.Bytes)
	h.metrics.AddArchived(report.Archived.Files, report.Archived.Bytes)
	h.metrics.AddPruned(report.PrunedDirs)
	h.metrics.AddPhaseFailures("reclaim", report.Deleted.Failures)
	h.metrics.AddPhaseFailures("archive", report.Archived.Failures)
	h.metrics.AddPhaseFailures("prune", report.PruneFailures)

	log.Info("housekeeping run finished",
		logger.Field{Key: "deleted_files", Value: report.Deleted.Files},
		logger.Field{Key: "deleted_bytes", Value: report.Deleted.Bytes},
		logger.Field{Key: "archived_files", Value: report.Archived.Files},
		logger.Field{Key: "archived_bytes", Value: report.Archived.Bytes},
		logger.Field{Key: "pruned_dirs", Value: report.PrunedDirs},
		logger.Field{Key: "failures", Value: report.Failures()},
		logger.Field{Key: "duration_ms", Value: report.Duration.Milliseconds()})

	return report, nil
}

// fatal records a failed run and returns the structural error unchanged.
func (h *Housekeeper) fatal(log *logger.Logger, report *Report, err error) error {
	h.metrics.RecordRun("error", h.now().Sub(report.StartedAt))
	log.Error("housekeeping run aborted", err)
	return err
}

// warnUnknownDevice logs unregistered camera names, once per device per run.
func (h *Housekeeper) warnUnknownDevice(log *logger.Logger, seen map[string]bool, device string) {
	if h.devices == nil || h.devices.Len() == 0 {
		return
	}
	if h.devices.Known(device) || seen[device] {
		return
	}
	seen[device] = true
	log.Warn("recording from unregistered device",
		logger.Field{Key: "device", Value: device})
}
