package housekeeper

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/aatumaykin/camkeeper/internal/logger"
)

// pruneEmptyDirs removes directories left empty under root. The walk is
// collected in lexical pre-order and replayed in reverse, so children are
// considered before their parents and removing a child can empty its parent
// within the same pass. root itself is never removed.
func (h *Housekeeper) pruneEmptyDirs(log *logger.Logger, root string) (removed, failures int, err error) {
	var dirs []string
	walkErr := afero.Walk(h.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal
			return nil
		}
		if info.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	if walkErr != nil {
		return 0, 0, fmt.Errorf("cannot walk %s: %w", root, walkErr)
	}

	for i := len(dirs) - 1; i >= 0; i-- {
		dir := dirs[i]
		if dir == root {
			continue
		}

		entries, err := afero.ReadDir(h.fs, dir)
		if err != nil {
			log.Error("failed to inspect directory", err,
				logger.Field{Key: "path", Value: dir})
			failures++
			continue
		}
		if len(entries) != 0 {
			continue
		}

		if h.cfg.DryRunPrune {
			log.Info("dry run: would remove empty directory",
				logger.Field{Key: "path", Value: dir})
			removed++
			continue
		}

		if err := h.fs.Remove(dir); err != nil {
			log.Error("failed to remove empty directory", err,
				logger.Field{Key: "path", Value: dir})
			failures++
			continue
		}

		log.Debug("removed empty directory", logger.Field{Key: "path", Value: dir})
		removed++
	}

	if removed == 0 {
		log.Info("no empty directories")
	} else {
		log.Info("removed empty directories", logger.Field{Key: "count", Value: removed})
	}

	return removed, failures, nil
}
