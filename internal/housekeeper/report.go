package housekeeper

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// PhaseStats holds the outcome of one destructive phase.
type PhaseStats struct {
	Files    int   `json:"files"`
	Bytes    int64 `json:"bytes"`
	Failures int   `json:"failures"`
}

// Report summarizes a single housekeeping run.
type Report struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`

	// FreeBytes is the archive filesystem's free space measured at the start
	// of the run. TargetBytes is the amount the reclamation phase set out to
	// delete; zero when free space was above the threshold.
	FreeBytes   int64 `json:"free_bytes"`
	TargetBytes int64 `json:"target_bytes"`

	Deleted  PhaseStats `json:"deleted"`
	Archived PhaseStats `json:"archived"`

	PrunedDirs    int `json:"pruned_dirs"`
	PruneFailures int `json:"prune_failures"`

	DryRun bool `json:"dry_run,omitempty"`
}

// Failures returns the total per-item failure count across all phases.
func (r *Report) Failures() int {
	return r.Deleted.Failures + r.Archived.Failures + r.PruneFailures
}

// Summary renders a one-line human-readable digest of the run.
func (r *Report) Summary() string {
	s := fmt.Sprintf("deleted %d files (%s), archived %d files (%s), pruned %d dirs in %s",
		r.Deleted.Files, humanize.Bytes(uint64(r.Deleted.Bytes)),
		r.Archived.Files, humanize.Bytes(uint64(r.Archived.Bytes)),
		r.PrunedDirs,
		r.Duration.Round(time.Millisecond))
	if n := r.Failures(); n > 0 {
		s += fmt.Sprintf(", %d failures", n)
	}
	if r.DryRun {
		s += " (dry run)"
	}
	return s
}
