package housekeeper

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/camkeeper/internal/logger"
)

// testNow is the reference clock for housekeeper tests.
var testNow = time.Date(2023, 6, 15, 15, 0, 0, 0, time.Local)

const (
	testInbox   = "/data/uploads"
	testArchive = "/data/uploads/Archive"
)

func testConfig() Config {
	return Config{
		InboxDir:      testInbox,
		ArchiveDir:    testArchive,
		MinUnmodified: 5 * time.Minute,
		MinFreeBytes:  1000,
		ExtraBytes:    50,
	}
}

// newTestHousekeeper builds a housekeeper over an in-memory filesystem with a
// fixed clock and a fixed free-space probe.
func newTestHousekeeper(t *testing.T, fs afero.Fs, cfg Config, freeBytes int64) *Housekeeper {
	t.Helper()
	return New(fs, cfg, logger.Discard(), Deps{
		DiskFree: func(string) (int64, error) { return freeBytes, nil },
		Clock:    func() time.Time { return testNow },
	})
}

// addInboxFile creates a recording in the inbox with the given age.
func addInboxFile(t *testing.T, fs afero.Fs, name string, size int, age time.Duration) string {
	t.Helper()
	path := filepath.Join(testInbox, name)
	require.NoError(t, afero.WriteFile(fs, path, make([]byte, size), 0644))
	modTime := testNow.Add(-age)
	require.NoError(t, fs.Chtimes(path, modTime, modTime))
	return path
}

// addArchiveFile creates a recording in the archive partition matching its name.
func addArchiveFile(t *testing.T, fs afero.Fs, datePath, name string, size int) string {
	t.Helper()
	path := filepath.Join(testArchive, datePath, name)
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, make([]byte, size), 0644))
	modTime := testNow.Add(-24 * time.Hour)
	require.NoError(t, fs.Chtimes(path, modTime, modTime))
	return path
}

func fileExists(t *testing.T, fs afero.Fs, path string) bool {
	t.Helper()
	ok, err := afero.Exists(fs, path)
	require.NoError(t, err)
	return ok
}

func TestRunOnce_Idempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	// One settled file; plenty of free space
	addInboxFile(t, fs, "CamA_00_20230615143000.mp4", 100, 10*time.Minute)

	hk := newTestHousekeeper(t, fs, testConfig(), 5000)

	first, err := hk.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, 0, first.Deleted.Files)
	assert.Equal(t, 1, first.Archived.Files)
	assert.Equal(t, int64(100), first.Archived.Bytes)

	// Second run with no new uploads: zero deletions, zero moves
	second, err := hk.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, 0, second.Deleted.Files)
	assert.Equal(t, 0, second.Archived.Files)
	assert.Equal(t, 0, second.Failures())
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRunOnce_PhaseOrder(t *testing.T) {
	fs := afero.NewMemMapFs()

	// Low free space forces reclamation across the existing archive, the
	// inbox holds one settled file, and the deletions leave empty partitions
	// for the pruner.
	addArchiveFile(t, fs, "2023/06/10", "CamA_00_20230610120000.mp4", 600)
	addInboxFile(t, fs, "CamB_00_20230615143000.mp4", 50, 10*time.Minute)

	cfg := testConfig()
	hk := newTestHousekeeper(t, fs, cfg, 500) // deficit 500, extra 50

	report, err := hk.RunOnce()
	require.NoError(t, err)

	assert.Equal(t, int64(500), report.FreeBytes)
	assert.Equal(t, int64(550), report.TargetBytes)
	assert.Equal(t, 1, report.Deleted.Files)
	assert.Equal(t, int64(600), report.Deleted.Bytes)
	assert.Equal(t, 1, report.Archived.Files)

	// The emptied 2023/06/10 chain is pruned, but 2023/06/15 was created by
	// the archival phase in between and must survive.
	assert.False(t, fileExists(t, fs, filepath.Join(testArchive, "2023/06/10")))
	assert.True(t, fileExists(t, fs, filepath.Join(testArchive, "2023/06/15/CamB_00_20230615143000.mp4")))
	assert.True(t, fileExists(t, fs, testArchive))
	assert.GreaterOrEqual(t, report.PrunedDirs, 1)
}

func TestRunOnce_CreatesRoots(t *testing.T) {
	fs := afero.NewMemMapFs()
	hk := newTestHousekeeper(t, fs, testConfig(), 5000)

	report, err := hk.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, 0, report.Failures())

	assert.True(t, fileExists(t, fs, testInbox))
	assert.True(t, fileExists(t, fs, testArchive))
}

func TestRunOnce_FreeSpaceProbeFailureIsFatal(t *testing.T) {
	fs := afero.NewMemMapFs()
	hk := New(fs, testConfig(), logger.Discard(), Deps{
		DiskFree: func(string) (int64, error) { return 0, assert.AnError },
		Clock:    func() time.Time { return testNow },
	})

	_, err := hk.RunOnce()
	require.Error(t, err)
}

func TestRunOnce_NonRecordingsAreNeverTouched(t *testing.T) {
	fs := afero.NewMemMapFs()
	strayInbox := filepath.Join(testInbox, "notes.txt")
	require.NoError(t, afero.WriteFile(fs, strayInbox, []byte("keep me"), 0644))
	strayArchive := filepath.Join(testArchive, "2023/06/10/index.html")
	require.NoError(t, fs.MkdirAll(filepath.Dir(strayArchive), 0755))
	require.NoError(t, afero.WriteFile(fs, strayArchive, []byte("keep me too"), 0644))

	// Force reclamation; the only files around are not recordings
	hk := newTestHousekeeper(t, fs, testConfig(), 100)

	report, err := hk.RunOnce()
	require.NoError(t, err)

	assert.Equal(t, 0, report.Deleted.Files)
	assert.Equal(t, 0, report.Archived.Files)
	assert.True(t, fileExists(t, fs, strayInbox))
	assert.True(t, fileExists(t, fs, strayArchive))
}

func TestReport_Summary(t *testing.T) {
	report := &Report{
		Duration: 1230 * time.Millisecond,
		Deleted:  PhaseStats{Files: 3, Bytes: 300_000_000},
		Archived: PhaseStats{Files: 2, Bytes: 50_000_000, Failures: 1},
	}

	s := report.Summary()
	assert.Contains(t, s, "deleted 3 files")
	assert.Contains(t, s, "archived 2 files")
	assert.Contains(t, s, "1 failures")
	assert.NotContains(t, s, "dry run")

	report.DryRun = true
	assert.Contains(t, report.Summary(), "dry run")
}

func TestConfig_DryRun(t *testing.T) {
	assert.False(t, Config{}.DryRun())
	assert.True(t, Config{DryRunDelete: true}.DryRun())
	assert.True(t, Config{DryRunMove: true}.DryRun())
	assert.True(t, Config{DryRunPrune: true}.DryRun())
}
