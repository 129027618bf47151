package recregistry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
}

func TestScanFindsLockIdxPairsOnce(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.mp4.lock"))
	touch(t, filepath.Join(dir, "a.mp4.idx"))
	touch(t, filepath.Join(dir, "b.mp4.lock")) // no sibling .idx: not recoverable
	touch(t, filepath.Join(dir, "c.mp4.lock"))
	touch(t, filepath.Join(dir, "c.mp4.idx"))

	reg, err := Open(filepath.Join(dir, "registry.db"))
	require.NoError(t, err)
	defer reg.Close()

	pending, err := reg.Scan(dir)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		filepath.Join(dir, "a.mp4"),
		filepath.Join(dir, "c.mp4"),
	}, pending)

	require.NoError(t, reg.MarkRecovered(filepath.Join(dir, "a.mp4")))

	pending, err = reg.Scan(dir)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "c.mp4")}, pending)
}

func TestMarkRecoveredPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "registry.db")
	touch(t, filepath.Join(dir, "a.mp4.lock"))
	touch(t, filepath.Join(dir, "a.mp4.idx"))

	reg, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, reg.MarkRecovered(filepath.Join(dir, "a.mp4")))
	require.NoError(t, reg.Close())

	reg2, err := Open(dbPath)
	require.NoError(t, err)
	defer reg2.Close()

	pending, err := reg2.Scan(dir)
	require.NoError(t, err)
	require.Empty(t, pending)
}
