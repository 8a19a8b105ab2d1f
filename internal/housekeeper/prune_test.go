package housekeeper

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/camkeeper/internal/logger"
)

func TestPruneEmptyDirs_RemovesEmptyChainsKeepsRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(filepath.Join(testArchive, "2022/11/30"), 0755))
	addArchiveFile(t, fs, "2023/06/10", "CamA_00_20230610120000.mp4", 10)

	hk := newTestHousekeeper(t, fs, testConfig(), 5000)

	removed, failures, err := hk.pruneEmptyDirs(logger.Discard(), testArchive)
	require.NoError(t, err)

	// The whole empty 2022 chain collapses in one pass
	assert.Equal(t, 3, removed)
	assert.Equal(t, 0, failures)
	assert.False(t, fileExists(t, fs, filepath.Join(testArchive, "2022")))
	assert.True(t, fileExists(t, fs, filepath.Join(testArchive, "2023/06/10")))
	assert.True(t, fileExists(t, fs, testArchive))
}

func TestPruneEmptyDirs_EmptyRootSurvives(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(testArchive, 0755))

	hk := newTestHousekeeper(t, fs, testConfig(), 5000)

	removed, failures, err := hk.pruneEmptyDirs(logger.Discard(), testArchive)
	require.NoError(t, err)

	assert.Equal(t, 0, removed)
	assert.Equal(t, 0, failures)
	assert.True(t, fileExists(t, fs, testArchive))
}

func TestPruneEmptyDirs_KeepsDirsWithFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	stray := filepath.Join(testArchive, "2023/06/10/leftover.txt")
	require.NoError(t, fs.MkdirAll(filepath.Dir(stray), 0755))
	require.NoError(t, afero.WriteFile(fs, stray, []byte("x"), 0644))

	hk := newTestHousekeeper(t, fs, testConfig(), 5000)

	removed, _, err := hk.pruneEmptyDirs(logger.Discard(), testArchive)
	require.NoError(t, err)

	assert.Equal(t, 0, removed)
	assert.True(t, fileExists(t, fs, stray))
}

func TestPruneEmptyDirs_DryRunKeepsDirs(t *testing.T) {
	fs := afero.NewMemMapFs()
	empty := filepath.Join(testArchive, "2022/01/01")
	require.NoError(t, fs.MkdirAll(empty, 0755))

	cfg := testConfig()
	cfg.DryRunPrune = true
	hk := newTestHousekeeper(t, fs, cfg, 5000)

	removed, failures, err := hk.pruneEmptyDirs(logger.Discard(), testArchive)
	require.NoError(t, err)

	// Dry-run counts every currently-empty directory but removes none, so
	// parents with empty children are not counted: they are not empty yet.
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, failures)
	assert.True(t, fileExists(t, fs, empty))
}
