package housekeeper

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/aatumaykin/camkeeper/internal/logger"
	"github.com/aatumaykin/camkeeper/internal/recording"
)

// reclaimSpace deletes the oldest archived recordings once free space drops
// to or below the configured floor. It returns the measured free bytes, the
// computed deletion target (zero when nothing had to go) and the deletion
// stats. Only a failing free-space probe or an unreadable archive hierarchy
// is a structural error.
func (h *Housekeeper) reclaimSpace(log *logger.Logger) (free, target int64, stats PhaseStats, err error) {
	free, err = h.free(h.cfg.ArchiveDir)
	if err != nil {
		return 0, 0, stats, fmt.Errorf("cannot determine free space for %s: %w", h.cfg.ArchiveDir, err)
	}

	if free > h.cfg.MinFreeBytes {
		log.Info("free space above threshold, nothing to delete",
			logger.Field{Key: "free", Value: humanize.Bytes(uint64(free))},
			logger.Field{Key: "surplus", Value: humanize.Bytes(uint64(free - h.cfg.MinFreeBytes))})
		return free, 0, stats, nil
	}

	target = (h.cfg.MinFreeBytes - free) + h.cfg.ExtraBytes
	log.Warn("free space below threshold, reclaiming",
		logger.Field{Key: "free", Value: humanize.Bytes(uint64(free))},
		logger.Field{Key: "deficit", Value: humanize.Bytes(uint64(h.cfg.MinFreeBytes - free))},
		logger.Field{Key: "target", Value: humanize.Bytes(uint64(target))})

	toDelete, totalSize, err := h.collectOldestFiles(log, target)
	if err != nil {
		return free, target, stats, err
	}

	if len(toDelete) == 0 {
		log.Info("no archived recordings available to delete")
		return free, target, stats, nil
	}

	log.Info("deleting recordings",
		logger.Field{Key: "count", Value: len(toDelete)},
		logger.Field{Key: "total", Value: humanize.Bytes(uint64(totalSize))})

	stats = h.deleteFiles(log, toDelete)
	return free, target, stats, nil
}

// collectOldestFiles walks the archive's year/month/day hierarchy in name
// order and accumulates the oldest recordings until their combined size
// reaches targetBytes. Directory names are zero-padded numbers, so the
// lexicographic order afero.ReadDir yields equals chronological order; a day
// directory is only consumed as far as the remaining need.
func (h *Housekeeper) collectOldestFiles(log *logger.Logger, targetBytes int64) ([]*recording.File, int64, error) {
	var selected []*recording.File
	var total int64

	years, err := h.subDirs(h.cfg.ArchiveDir)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot list archive root: %w", err)
	}

	for _, yearDir := range years {
		if total >= targetBytes {
			break
		}
		months, err := h.subDirs(yearDir)
		if err != nil {
			return nil, 0, err
		}
		for _, monthDir := range months {
			if total >= targetBytes {
				break
			}
			days, err := h.subDirs(monthDir)
			if err != nil {
				return nil, 0, err
			}
			for _, dayDir := range days {
				if total >= targetBytes {
					break
				}
				files, err := h.scanner.Scan(dayDir, recording.Options{})
				if err != nil {
					// One unreadable day directory should not stop
					// reclamation in the rest of the archive.
					log.Warn("skipping unreadable archive directory",
						logger.Field{Key: "path", Value: dayDir},
						logger.Field{Key: "error", Value: err})
					continue
				}
				for _, file := range files {
					if total >= targetBytes {
						break
					}
					selected = append(selected, file)
					total += file.Size
				}
			}
		}
	}

	return selected, total, nil
}

// subDirs lists the directories directly under dir, as full paths, in name order.
func (h *Housekeeper) subDirs(dir string) ([]string, error) {
	entries, err := afero.ReadDir(h.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("cannot list directory %s: %w", dir, err)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(dir, entry.Name()))
		}
	}
	return dirs, nil
}

// deleteFiles removes the selected recordings best-effort: a failed delete is
// counted and the loop moves on.
func (h *Housekeeper) deleteFiles(log *logger.Logger, files []*recording.File) PhaseStats {
	var stats PhaseStats

	for _, file := range files {
		if h.cfg.DryRunDelete {
			log.Info("dry run: would delete recording",
				logger.Field{Key: "path", Value: file.Path})
		} else {
			if err := h.fs.Remove(file.Path); err != nil {
				log.Error("failed to delete recording", err,
					logger.Field{Key: "path", Value: file.Path})
				stats.Failures++
				continue
			}
			log.Debug("deleted recording",
				logger.Field{Key: "path", Value: file.Path},
				logger.Field{Key: "size", Value: file.Size})
		}
		stats.Files++
		stats.Bytes += file.Size
	}

	return stats
}
