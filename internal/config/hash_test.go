package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBlake3Hash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	h1, err := ComputeBlake3Hash(path)
	require.NoError(t, err)
	assert.Len(t, h1, 64)

	h2, err := ComputeBlake3Hash(path)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	require.NoError(t, VerifyFileHash(path, h1))
	assert.Error(t, VerifyFileHash(path, "00"))
}

func TestLockThenLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "service:\n  name: locked\n")

	manifestPath, err := Lock(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ChecksumFile), manifestPath)

	manifest, err := LoadChecksums(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, manifest.Version)
	assert.Contains(t, manifest.Hashes, "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "locked", cfg.Service.Name)
}

func TestLoadDetectsTampering(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "service:\n  name: locked\n")
	_, err := Lock(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("service:\n  name: tampered\n"), 0o600))

	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config verification failed")
}

func TestLoadRejectsUnlistedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "service:\n  name: x\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ChecksumFile),
		[]byte("version: 1\nhashes:\n  other.yaml: abc\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no hash")
}

func TestLoadChecksumsMissing(t *testing.T) {
	_, err := LoadChecksums(t.TempDir())
	assert.ErrorIs(t, err, ErrNoChecksums)
}

func TestLoadChecksumsBadVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ChecksumFile), []byte("version: 2\n"), 0o600))
	_, err := LoadChecksums(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported checksums version")
}
