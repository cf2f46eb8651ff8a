package velo

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
)

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// dirStats walks a directory and returns the regular file count and total size.
func dirStats(dir string) (files int, size int64, err error) {
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			files++
			size += info.Size()
		}
		return nil
	})
	return files, size, err
}

// copyTree copies src into dst (created if needed), preserving relative
// layout and file modes. Symlinks are recreated as links. A progress bar is
// drawn when stdout is a terminal and the tree holds more than a handful of
// files.
func copyTree(src, dst string) error {
	files, _, err := dirStats(src)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if stdoutIsTTY() && files > 10 {
		bar = progressbar.NewOptions(files,
			progressbar.OptionSetDescription("copying"),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionShowCount(),
		)
	}

	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			info, err := d.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, info.Mode().Perm())
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return fmt.Errorf("readlink %s: %w", path, err)
			}
			_ = os.Remove(target)
			return os.Symlink(link, target)
		default:
			if err := copyFile(path, target); err != nil {
				return err
			}
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		}
	})
	if bar != nil {
		_ = bar.Finish()
	}
	return err
}

// removeIfExists deletes a file or directory tree, reporting whether
// anything was removed.
func removeIfExists(path string) (bool, error) {
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := os.RemoveAll(path); err != nil {
		return false, err
	}
	return true, nil
}
