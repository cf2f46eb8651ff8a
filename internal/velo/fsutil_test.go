package velo

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyTree(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "top.txt"), []byte("top"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a", "b", "deep.txt"), []byte("deep"), 0o644))

	dst := filepath.Join(t.TempDir(), "out")
	require.NoError(t, copyTree(src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "a", "b", "deep.txt"))
	require.NoError(t, err)
	assert.Equal(t, "deep", string(data))
	assert.True(t, fileExists(filepath.Join(dst, "top.txt")))
}

func TestCopyTreeRecreatesSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}

	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "real.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink("real.txt", filepath.Join(src, "link.txt")))

	dst := filepath.Join(t.TempDir(), "out")
	require.NoError(t, copyTree(src, dst))

	target, err := os.Readlink(filepath.Join(dst, "link.txt"))
	require.NoError(t, err)
	assert.Equal(t, "real.txt", target)
}

func TestDirStats(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.bin"), make([]byte, 10), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "two.bin"), make([]byte, 20), 0o644))

	files, size, err := dirStats(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, files, "directories are not counted")
	assert.Equal(t, int64(30), size)
}

func TestRemoveIfExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "victim")
	require.NoError(t, os.MkdirAll(filepath.Join(path, "nested"), 0o755))

	removed, err := removeIfExists(path)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, dirExists(path))

	removed, err = removeIfExists(path)
	require.NoError(t, err)
	assert.False(t, removed, "second removal reports nothing to do")
}
