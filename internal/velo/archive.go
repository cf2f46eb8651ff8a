package velo

import (
	"archive/tar"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/ulikunitz/xz"
	"lukechampine.com/blake3"
)

// archiveExtension maps a configured format to the archive file suffix.
func archiveExtension(format string) (string, error) {
	switch format {
	case "gz":
		return ".tar.gz", nil
	case "xz":
		return ".tar.xz", nil
	case "zst":
		return ".tar.zst", nil
	default:
		return "", fmt.Errorf("unsupported archive format %q: use gz, xz or zst", format)
	}
}

// newCompressor wraps w in the configured compressor.
func newCompressor(w io.Writer, format string) (io.WriteCloser, error) {
	switch format {
	case "gz":
		return pgzip.NewWriter(w), nil
	case "xz":
		return xz.NewWriter(w)
	case "zst":
		return zstd.NewWriter(w)
	default:
		return nil, fmt.Errorf("unsupported archive format %q", format)
	}
}

// createArchive compresses srcDir into destPath, preserving paths relative
// to srcDir. The archive is written to a temporary sibling and renamed only
// on success, so a failed run never leaves a half-written archive behind.
func createArchive(srcDir, destPath, format string) error {
	partial := destPath + ".partial"
	out, err := os.Create(partial)
	if err != nil {
		return err
	}
	defer os.Remove(partial)

	cw, err := newCompressor(out, format)
	if err != nil {
		out.Close()
		return err
	}
	tw := tar.NewWriter(cw)

	walkErr := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		var linkTarget string
		if info.Mode()&fs.ModeSymlink != 0 {
			linkTarget, err = os.Readlink(path)
			if err != nil {
				return fmt.Errorf("readlink %s: %w", path, err)
			}
		}

		hdr, err := tar.FileInfoHeader(info, linkTarget)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			hdr.Name += "/"
		}

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(tw, f)
		f.Close()
		return err
	})

	if err := tw.Close(); err != nil && walkErr == nil {
		walkErr = err
	}
	if err := cw.Close(); err != nil && walkErr == nil {
		walkErr = err
	}
	if err := out.Close(); err != nil && walkErr == nil {
		walkErr = err
	}
	if walkErr != nil {
		return fmt.Errorf("archiving %s: %w", srcDir, walkErr)
	}

	return os.Rename(partial, destPath)
}

// blake3SumFile computes the hex BLAKE3 digest of a file.
func blake3SumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
