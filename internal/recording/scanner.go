package recording

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"

	"github.com/aatumaykin/camkeeper/internal/logger"
)

// Options controls a directory scan. The zero value scans for both recording
// kinds, applies no staleness gate, and returns the oldest recording first.
type Options struct {
	// MinUnmodified excludes files modified within this duration before now.
	// The comparison is strictly greater, so zero includes everything.
	MinUnmodified time.Duration

	ExcludePhotos bool
	ExcludeVideos bool

	// NewestFirst reverses the default oldest-first ordering.
	NewestFirst bool
}

// Scanner lists the recordings found directly inside a directory.
type Scanner struct {
	fs  afero.Fs
	log *logger.Logger
	now func() time.Time
}

// NewScanner creates a scanner backed by the given filesystem.
func NewScanner(fs afero.Fs, log *logger.Logger) *Scanner {
	return &Scanner{fs: fs, log: log, now: time.Now}
}

// NewScannerWithClock creates a scanner with an injectable clock for tests.
func NewScannerWithClock(fs afero.Fs, log *logger.Logger, now func() time.Time) *Scanner {
	return &Scanner{fs: fs, log: log, now: now}
}

// Scan classifies the direct children of dir and returns the recordings
// ordered by their recorded timestamp. A missing dir is created and treated
// as "no files yet". Files that fail classification are logged and skipped;
// they never abort the scan.
func (s *Scanner) Scan(dir string, opts Options) ([]*File, error) {
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create directory %s: %w", dir, err)
	}

	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("cannot list directory %s: %w", dir, err)
	}

	now := s.now()
	var files []*File

	for _, entry := range entries {
		if !entry.Mode().IsRegular() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		file, err := s.classifyEntry(entry.Name(), path, opts)
		if err != nil {
			s.log.Warn("skipping file that failed classification",
				logger.Field{Key: "path", Value: path},
				logger.Field{Key: "error", Value: err})
			continue
		}
		if file == nil {
			// Not a recording
			continue
		}

		// Staleness gate: include only files unmodified for longer than the
		// threshold. Strictly greater, matching the upload-completion heuristic.
		if !now.After(file.ModTime.Add(opts.MinUnmodified)) {
			continue
		}

		files = append(files, file)
	}

	sort.SliceStable(files, func(i, j int) bool {
		if opts.NewestFirst {
			return files[i].RecordedAt.After(files[j].RecordedAt)
		}
		return files[i].RecordedAt.Before(files[j].RecordedAt)
	})

	return files, nil
}

// classifyEntry tries the photo pattern first, then the video pattern. A name
// can only ever match one of the two. Returns (nil, nil) for non-recordings.
func (s *Scanner) classifyEntry(name, path string, opts Options) (*File, error) {
	if !opts.ExcludePhotos {
		file, err := Classify(s.fs, KindPhoto, name, path)
		if err == nil {
			return file, nil
		}
		if !errors.Is(err, ErrNoMatch) {
			return nil, err
		}
	}

	if !opts.ExcludeVideos {
		file, err := Classify(s.fs, KindVideo, name, path)
		if err == nil {
			return file, nil
		}
		if !errors.Is(err, ErrNoMatch) {
			return nil, err
		}
	}

	return nil, nil
}
