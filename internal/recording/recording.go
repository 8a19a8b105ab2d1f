// Package recording classifies camera upload files by name, carries their
// parsed metadata, and scans directories for them.
package recording

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/text/unicode/norm"
)

// Kind is the recording type, determined solely by the file name pattern.
type Kind int

const (
	KindPhoto Kind = iota
	KindVideo
)

// String returns the lowercase kind name for logs and reports.
func (k Kind) String() string {
	switch k {
	case KindPhoto:
		return "photo"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// Extension returns the file extension associated with the kind.
func (k Kind) Extension() string {
	switch k {
	case KindPhoto:
		return ".jpg"
	case KindVideo:
		return ".mp4"
	default:
		return ""
	}
}

// ErrNoMatch reports that a file name does not match the recording pattern
// for the requested kind. Such files are not recordings and are ignored by
// every housekeeping phase.
var ErrNoMatch = errors.New("file name does not match recording pattern")

// File represents one classified recording on disk. All fields are set at
// classification time and never updated; Size and ModTime are a single stat
// snapshot, not live state.
type File struct {
	Kind    Kind
	Name    string
	Path    string
	Size    int64
	ModTime time.Time

	// Device is the camera device name from the file name, NFC-normalized.
	Device string

	// Channel is the one-based channel index. Cameras number channels from
	// zero in file names while clients display them from one, so the parsed
	// digits are stored plus one. Zero means the name carried no channel.
	Channel int

	// RecordedAt is the calendar timestamp parsed from the file name.
	RecordedAt time.Time
}

// Classify matches name against the pattern for kind and builds a File from
// the match plus a stat snapshot of path. It returns ErrNoMatch when the name
// is not a recording of that kind, and a classification error when the path is
// not an existing regular file or the date fields do not form a valid
// calendar timestamp.
func Classify(fs afero.Fs, kind Kind, name, path string) (*File, error) {
	fields, ok := matchName(kind, name)
	if !ok {
		return nil, ErrNoMatch
	}

	info, err := fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}

	recordedAt, err := calendarTime(fields)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp in %s: %w", name, err)
	}

	channel := 0
	if fields.channelDigits != "" {
		parsed, _ := strconv.Atoi(fields.channelDigits)
		channel = parsed + 1
	}

	return &File{
		Kind:       kind,
		Name:       name,
		Path:       path,
		Size:       info.Size(),
		ModTime:    info.ModTime(),
		Device:     norm.NFC.String(fields.device),
		Channel:    channel,
		RecordedAt: recordedAt,
	}, nil
}

// calendarTime constructs the recording timestamp, rejecting values the loose
// name pattern lets through (month 13, day 32, hour 25). time.Date silently
// normalizes out-of-range components, so the result is compared back against
// the inputs.
func calendarTime(f nameFields) (time.Time, error) {
	t := time.Date(f.year, time.Month(f.month), f.day, f.hour, f.minute, f.second, 0, time.Local)
	if t.Year() != f.year || t.Month() != time.Month(f.month) || t.Day() != f.day ||
		t.Hour() != f.hour || t.Minute() != f.minute || t.Second() != f.second {
		return time.Time{}, fmt.Errorf("%04d-%02d-%02d %02d:%02d:%02d is not a valid calendar time",
			f.year, f.month, f.day, f.hour, f.minute, f.second)
	}
	return t, nil
}

// ArchivePath returns the date-partitioned directory under root where the
// recording belongs: <root>/<YYYY>/<MM>/<DD>. It is a pure function of
// RecordedAt, so recordings taken the same day land as siblings regardless of
// device or channel.
func (f *File) ArchivePath(root string) string {
	return filepath.Join(root,
		f.RecordedAt.Format("2006"),
		f.RecordedAt.Format("01"),
		f.RecordedAt.Format("02"))
}
