package velo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentTypeForKey(t *testing.T) {
	assert.Equal(t, "application/gzip", contentTypeForKey("VelocityDB-1.0.0-windows-amd64.tar.gz"))
	assert.Equal(t, "application/x-xz", contentTypeForKey("VelocityDB-1.0.0-windows-amd64.tar.xz"))
	assert.Equal(t, "application/zstd", contentTypeForKey("VelocityDB-1.0.0-windows-amd64.tar.zst"))
	assert.Equal(t, "text/markdown", contentTypeForKey("VelocityDB-1.0.0.tar.gz.RELEASE_NOTES.md"))
	assert.Equal(t, "application/octet-stream", contentTypeForKey("whatever.bin"))
}

func TestNewArtifactClientMissingConfig(t *testing.T) {
	cfg := &Config{Values: map[string]string{
		"ARTIFACT_ENDPOINT": "https://example.invalid",
	}}

	_, err := newArtifactClient(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ARTIFACT_BUCKET")
}

func TestLatestArchive(t *testing.T) {
	dir := t.TempDir()
	orig := distDir
	distDir = dir
	t.Cleanup(func() { distDir = orig })

	_, ok, err := latestArchive()
	require.NoError(t, err)
	assert.False(t, ok, "empty dist")

	older := filepath.Join(dir, "VelocityDB-1.0.0-windows-amd64.tar.gz")
	newer := filepath.Join(dir, "VelocityDB-1.1.0-windows-amd64.tar.zst")
	require.NoError(t, os.WriteFile(older, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte("b"), 0o644))
	base := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, base, base))
	require.NoError(t, os.Chtimes(newer, base.Add(time.Minute), base.Add(time.Minute)))

	// Notes and unrelated files are never picked up.
	require.NoError(t, os.WriteFile(filepath.Join(dir, notesFileName), []byte("# notes"), 0o644))

	got, ok, err := latestArchive()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, newer, got)
}
