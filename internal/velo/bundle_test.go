package velo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeWebOutput(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644))
}

func TestAssembleBundle(t *testing.T) {
	root := t.TempDir()
	binary := filepath.Join(root, "VelocityDB.exe")
	require.NoError(t, os.WriteFile(binary, []byte("binary"), 0o755))
	web := filepath.Join(root, "web-dist")
	makeWebOutput(t, web)
	dest := filepath.Join(root, "dist")

	info, err := assembleBundle(binary, web, dest)
	require.NoError(t, err)
	assert.Equal(t, dest, info.Dir)
	assert.Equal(t, 3, info.Files)
	assert.Positive(t, info.Size)

	assert.True(t, fileExists(filepath.Join(dest, "VelocityDB.exe")))
	assert.True(t, fileExists(filepath.Join(dest, "frontend", "index.html")))
	assert.True(t, fileExists(filepath.Join(dest, "frontend", "assets", "app.js")))
}

func TestAssembleBundleReplacesStaleBundle(t *testing.T) {
	root := t.TempDir()
	binary := filepath.Join(root, "VelocityDB.exe")
	require.NoError(t, os.WriteFile(binary, []byte("binary"), 0o755))
	web := filepath.Join(root, "web-dist")
	makeWebOutput(t, web)

	dest := filepath.Join(root, "dist")
	require.NoError(t, os.MkdirAll(dest, 0o755))
	stale := filepath.Join(dest, "leftover.dll")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	_, err := assembleBundle(binary, web, dest)
	require.NoError(t, err)
	assert.False(t, fileExists(stale), "previous bundle contents are deleted, never merged")
}

func TestAssembleBundleMissingInputs(t *testing.T) {
	root := t.TempDir()
	binary := filepath.Join(root, "VelocityDB.exe")
	web := filepath.Join(root, "web-dist")
	dest := filepath.Join(root, "dist")

	// Missing binary.
	makeWebOutput(t, web)
	_, err := assembleBundle(binary, web, dest)
	var aerr *AssemblyError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, binary, aerr.Missing)
	assert.False(t, dirExists(dest), "nothing is written before inputs are verified")

	// Missing web output.
	require.NoError(t, os.WriteFile(binary, []byte("binary"), 0o755))
	require.NoError(t, os.RemoveAll(web))
	_, err = assembleBundle(binary, web, dest)
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, web, aerr.Missing)
	assert.False(t, dirExists(dest))
}
