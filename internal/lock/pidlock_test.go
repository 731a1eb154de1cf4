package lock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquirePIDLockWritesPID(t *testing.T) {
	t.Parallel()

	lockPath := filepath.Join(t.TempDir(), FileName)
	l, err := AcquirePIDLock(lockPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Release() })

	assert.Equal(t, lockPath, l.Path())
	pid, err := ReadPID(lockPath)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
}

func TestAcquirePIDLockContention(t *testing.T) {
	t.Parallel()

	lockPath := filepath.Join(t.TempDir(), FileName)
	first, err := AcquirePIDLock(lockPath)
	require.NoError(t, err)

	// flock locks belong to the open file description, so a second open in
	// the same process still conflicts.
	_, err = AcquirePIDLock(lockPath)
	require.ErrorIs(t, err, ErrLocked)

	require.NoError(t, first.Release())

	second, err := AcquirePIDLock(lockPath)
	require.NoError(t, err)
	require.NoError(t, second.Release())
}

func TestReleaseIsIdempotent(t *testing.T) {
	t.Parallel()

	l, err := AcquirePIDLock(filepath.Join(t.TempDir(), "nested", FileName))
	require.NoError(t, err)
	require.NoError(t, l.Release())
	require.NoError(t, l.Release())

	var nilLock *PIDLock
	assert.NoError(t, nilLock.Release())
}

func TestAcquirePIDLockEmptyPath(t *testing.T) {
	_, err := AcquirePIDLock("")
	require.Error(t, err)
}

func TestPathFor(t *testing.T) {
	assert.Equal(t, filepath.Join("data", FileName), PathFor("data/state.db"))
}
