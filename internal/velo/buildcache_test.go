package velo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCache(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, cacheFileName), []byte(content), 0o644))
}

func TestCachedGenerator(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, "", cachedGenerator(dir), "no cache file")

	writeCache(t, dir, "CMAKE_BUILD_TYPE:STRING=Release\nCMAKE_GENERATOR:INTERNAL=Ninja\n")
	assert.Equal(t, "Ninja", cachedGenerator(dir))

	// Value keeps everything after the first '='.
	writeCache(t, dir, "CMAKE_GENERATOR:INTERNAL=Visual Studio 17 2022\n")
	assert.Equal(t, "Visual Studio 17 2022", cachedGenerator(dir))

	writeCache(t, dir, "SOME_OTHER:STRING=x\n")
	assert.Equal(t, "", cachedGenerator(dir), "no generator line")
}

func TestReconcileGeneratorNoop(t *testing.T) {
	dir := t.TempDir()

	action, err := reconcileGenerator(dir, "Ninja")
	require.NoError(t, err)
	assert.Equal(t, cacheNoop, action, "no cache at all")

	writeCache(t, dir, "CMAKE_GENERATOR:INTERNAL=Ninja\n")
	action, err = reconcileGenerator(dir, "Ninja")
	require.NoError(t, err)
	assert.Equal(t, cacheNoop, action, "generator matches")
	assert.True(t, fileExists(filepath.Join(dir, cacheFileName)), "matching cache is kept")
}

func TestReconcileGeneratorMismatch(t *testing.T) {
	dir := t.TempDir()
	writeCache(t, dir, "CMAKE_GENERATOR:INTERNAL=Visual Studio 17 2022\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, cacheFilesDir, "3.28"), 0o755))

	action, err := reconcileGenerator(dir, "Ninja")
	require.NoError(t, err)
	assert.Equal(t, cacheInvalidated, action)
	assert.False(t, fileExists(filepath.Join(dir, cacheFileName)))
	assert.False(t, dirExists(filepath.Join(dir, cacheFilesDir)))

	// After invalidation the next call sees a clean slate.
	action, err = reconcileGenerator(dir, "Ninja")
	require.NoError(t, err)
	assert.Equal(t, cacheNoop, action)
}
