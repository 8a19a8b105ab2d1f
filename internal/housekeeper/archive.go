package housekeeper

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/aatumaykin/camkeeper/internal/logger"
	"github.com/aatumaykin/camkeeper/internal/recording"
)

// archiveNewFiles moves settled inbox recordings to their date partitions
// under the archive root, oldest first. A failing inbox scan is structural;
// everything per-file is best-effort.
func (h *Housekeeper) archiveNewFiles(log *logger.Logger) (PhaseStats, error) {
	var stats PhaseStats

	files, err := h.scanner.Scan(h.cfg.InboxDir, recording.Options{
		MinUnmodified: h.cfg.MinUnmodified,
	})
	if err != nil {
		return stats, fmt.Errorf("cannot scan inbox: %w", err)
	}

	if len(files) == 0 {
		log.Info("no files to archive")
		return stats, nil
	}

	log.Info("archiving files", logger.Field{Key: "count", Value: len(files)})

	unknownSeen := make(map[string]bool)
	for _, file := range files {
		h.warnUnknownDevice(log, unknownSeen, file.Device)

		destDir := file.ArchivePath(h.cfg.ArchiveDir)
		destPath := filepath.Join(destDir, file.Name)

		if h.cfg.DryRunMove {
			log.Info("dry run: would move recording",
				logger.Field{Key: "from", Value: file.Path},
				logger.Field{Key: "to", Value: destPath})
			stats.Files++
			stats.Bytes += file.Size
			continue
		}

		if err := h.fs.MkdirAll(destDir, 0755); err != nil {
			log.Error("failed to create archive partition", err,
				logger.Field{Key: "path", Value: destDir})
			stats.Failures++
			continue
		}

		if err := h.moveFile(file.Path, destPath); err != nil {
			log.Error("failed to move recording", err,
				logger.Field{Key: "from", Value: file.Path},
				logger.Field{Key: "to", Value: destPath})
			stats.Failures++
			continue
		}

		log.Debug("archived recording",
			logger.Field{Key: "device", Value: h.devices.Label(file.Device)},
			logger.Field{Key: "kind", Value: file.Kind.String()},
			logger.Field{Key: "to", Value: destPath})
		stats.Files++
		stats.Bytes += file.Size
	}

	return stats, nil
}

// moveFile renames src to dst, falling back to copy+delete when the rename
// fails (the archive may live on a different filesystem than the inbox).
func (h *Housekeeper) moveFile(src, dst string) error {
	renameErr := h.fs.Rename(src, dst)
	if renameErr == nil {
		return nil
	}

	in, err := h.fs.Open(src)
	if err != nil {
		return fmt.Errorf("rename failed (%v), cannot reopen source: %w", renameErr, err)
	}
	defer in.Close()

	out, err := h.fs.Create(dst)
	if err != nil {
		return fmt.Errorf("rename failed (%v), cannot create destination: %w", renameErr, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		h.fs.Remove(dst)
		return fmt.Errorf("copy to %s failed: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		h.fs.Remove(dst)
		return fmt.Errorf("cannot finalize %s: %w", dst, err)
	}

	return h.fs.Remove(src)
}
