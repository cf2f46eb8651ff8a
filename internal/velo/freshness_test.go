package velo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeedsInstall(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "package.json")
	installed := filepath.Join(dir, "node_modules")

	// No installed directory: always install, even without a manifest.
	assert.True(t, needsInstall(manifest, installed))

	require.NoError(t, os.MkdirAll(installed, 0o755))

	// Installed but no manifest: nothing to compare against, skip.
	assert.False(t, needsInstall(manifest, installed))

	base := time.Now().Add(-time.Hour)
	require.NoError(t, os.WriteFile(manifest, []byte("{}"), 0o644))
	require.NoError(t, os.Chtimes(manifest, base, base))
	require.NoError(t, os.Chtimes(installed, base.Add(time.Minute), base.Add(time.Minute)))

	// Install is newer than the manifest: up to date.
	assert.False(t, needsInstall(manifest, installed))

	// Manifest edited after the install: stale.
	require.NoError(t, os.Chtimes(manifest, base.Add(2*time.Minute), base.Add(2*time.Minute)))
	assert.True(t, needsInstall(manifest, installed))

	// Equal timestamps: comparison is strict, no reinstall.
	require.NoError(t, os.Chtimes(manifest, base, base))
	require.NoError(t, os.Chtimes(installed, base, base))
	assert.False(t, needsInstall(manifest, installed))
}
