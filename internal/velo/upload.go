package velo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// latestArchive finds the newest release archive in dist/ by modification
// time. ok is false when dist/ holds no archive.
func latestArchive() (path string, ok bool, err error) {
	var candidates []string
	for _, pattern := range []string{"VelocityDB-*.tar.gz", "VelocityDB-*.tar.xz", "VelocityDB-*.tar.zst"} {
		matches, err := filepath.Glob(filepath.Join(distDir, pattern))
		if err != nil {
			return "", false, err
		}
		candidates = append(candidates, matches...)
	}
	if len(candidates) == 0 {
		return "", false, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		ii, ierr := os.Stat(candidates[i])
		ji, jerr := os.Stat(candidates[j])
		if ierr != nil || jerr != nil {
			return candidates[i] < candidates[j]
		}
		return ii.ModTime().After(ji.ModTime())
	})
	return candidates[0], true, nil
}

// uploadCmd pushes the newest release archive (and optionally the release
// notes) to the artifact mirror. Publishing stays interactive: every object
// is confirmed before it leaves the machine.
func uploadCmd(ctx context.Context, cfg *Config, withNotes bool) error {
	client, err := newArtifactClient(cfg)
	if err != nil {
		return err
	}

	archive, ok, err := latestArchive()
	if err != nil {
		return err
	}
	if !ok {
		return &PreconditionError{
			Op:      "upload",
			Missing: filepath.Join(distDir, "VelocityDB-*.tar.*"),
			Hint:    "run 'velo release' first",
		}
	}

	info, err := os.Stat(archive)
	if err != nil {
		return err
	}
	digest, err := blake3SumFile(archive)
	if err != nil {
		return err
	}
	step("Archive: %s (%s)", archive, humanSize(info.Size()))
	step("BLAKE3: %s", digest)

	key := filepath.Base(archive)
	colArrow.Print("-> ")
	if !askForConfirmation(colWarn, "Upload %s to bucket %s? ", key, client.BucketName) {
		colInfo.Println("Upload cancelled")
		return nil
	}
	step("Uploading %s", key)
	if err := client.UploadLocalFile(ctx, key, archive); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	if withNotes {
		notesPath := filepath.Join(distDir, notesFileName)
		if !fileExists(notesPath) {
			return &PreconditionError{
				Op:      "upload",
				Missing: notesPath,
				Hint:    "run 'velo release' first",
			}
		}
		notesKey := fmt.Sprintf("%s.%s", key, notesFileName)
		colArrow.Print("-> ")
		if askForConfirmation(colWarn, "Upload release notes as %s? ", notesKey) {
			step("Uploading %s", notesKey)
			if err := client.UploadLocalFile(ctx, notesKey, notesPath); err != nil {
				return fmt.Errorf("failed to upload %s: %w", notesKey, err)
			}
		}
	}

	colSuccess.Println("Upload complete")
	return nil
}
