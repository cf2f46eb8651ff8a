package velo

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveExtension(t *testing.T) {
	for format, want := range map[string]string{
		"gz":  ".tar.gz",
		"xz":  ".tar.xz",
		"zst": ".tar.zst",
	} {
		got, err := archiveExtension(format)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := archiveExtension("7z")
	assert.Error(t, err)
}

func TestCreateArchiveRoundTrip(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "bundle")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "frontend", "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "VelocityDB.exe"), []byte("binary"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "frontend", "index.html"), []byte("<html></html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "frontend", "assets", "app.js"), []byte("console.log(1)"), 0o644))

	dest := filepath.Join(root, "VelocityDB-1.0.0.tar.gz")
	require.NoError(t, createArchive(src, dest, "gz"))
	assert.False(t, fileExists(dest+".partial"), "partial file is cleaned up")

	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()
	zr, err := pgzip.NewReader(f)
	require.NoError(t, err)
	tr := tar.NewReader(zr)

	contents := make(map[string]string)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(tr)
		require.NoError(t, err)
		contents[hdr.Name] = string(data)
	}

	// Entries are archive-relative with forward slashes; directories carry
	// a trailing slash.
	assert.Equal(t, "binary", contents["VelocityDB.exe"])
	assert.Equal(t, "<html></html>", contents["frontend/index.html"])
	assert.Equal(t, "console.log(1)", contents["frontend/assets/app.js"])
	assert.Contains(t, contents, "frontend/")
	assert.Contains(t, contents, "frontend/assets/")
}

func TestCreateArchiveUnknownFormat(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "bundle")
	require.NoError(t, os.MkdirAll(src, 0o755))

	dest := filepath.Join(root, "out.tar.7z")
	require.Error(t, createArchive(src, dest, "7z"))
	assert.False(t, fileExists(dest))
	assert.False(t, fileExists(dest+".partial"))
}

func TestCreateArchiveMissingSource(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "out.tar.gz")

	require.Error(t, createArchive(filepath.Join(root, "nope"), dest, "gz"))
	assert.False(t, fileExists(dest), "a failed run leaves no archive behind")
	assert.False(t, fileExists(dest+".partial"))
}

func TestBlake3SumFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	sum1, err := blake3SumFile(path)
	require.NoError(t, err)
	assert.Len(t, sum1, 64, "hex of a 32-byte digest")

	sum2, err := blake3SumFile(path)
	require.NoError(t, err)
	assert.Equal(t, sum1, sum2)

	require.NoError(t, os.WriteFile(path, []byte("hello!"), 0o644))
	sum3, err := blake3SumFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, sum1, sum3)

	_, err = blake3SumFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
