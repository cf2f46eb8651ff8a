package velo

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	git "github.com/go-git/go-git/v5"
)

// releaseOptions configures the release pipeline.
type releaseOptions struct {
	ExplicitVersion string
	Bump            string
	Draft           bool
	SkipChecks      bool
}

// resolveReleaseVersion picks the version to release: an explicit argument
// wins, otherwise the latest version tag is bumped per the requested kind,
// and a repository with no version tags at all starts at 1.0.0. prevTag and
// havePrev report the previous latest tag regardless of which path chose
// the version; the notes stage needs it as the commit-range boundary.
func resolveReleaseVersion(repo *git.Repository, opts releaseOptions) (semver, string, bool, error) {
	prev, prevTag, havePrev, err := latestVersionTag(repo)
	if err != nil {
		return semver{}, "", false, err
	}

	switch {
	case opts.ExplicitVersion != "":
		v, err := parseSemver(opts.ExplicitVersion)
		return v, prevTag, havePrev, err
	case havePrev:
		v, err := bump(prev, opts.Bump)
		return v, prevTag, true, err
	default:
		return semver{Major: 1}, "", false, nil
	}
}

// runRelease cuts a release: resolve the next version, run checks, rebuild
// everything from clean, bundle, generate notes, archive. The stages run
// strictly in order and the first failure is terminal; the archive is only
// written after every prior stage succeeded, and no tag is ever created;
// the follow-up tag/publish commands are printed for the user to run.
func runRelease(execCtx *Executor, opts releaseOptions) error {
	repo, err := git.PlainOpenWithOptions(projectRoot, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return fmt.Errorf("opening repository at %s: %w", projectRoot, err)
	}

	// Resolving version
	banner("[1/6] Resolving version")
	version, prevTag, havePrev, err := resolveReleaseVersion(repo, opts)
	if err != nil {
		return err
	}
	if havePrev {
		step("Latest tag: %s", prevTag)
	} else {
		step("No version tags found")
	}
	step("Release version: %s", version)

	// Running checks
	if opts.SkipChecks {
		colWarn.Println("Skipping pre-release checks")
	} else {
		banner("[2/6] Running checks")
		if err := lintAll(execCtx, false, false); err != nil {
			return fmt.Errorf("pre-release lint failed: %w", err)
		}
		if err := testFrontend(execCtx, false); err != nil {
			return fmt.Errorf("pre-release tests failed: %w", err)
		}
	}

	// Building: a release never reuses a possibly stale incremental build.
	banner("[3/6] Building (clean, Release)")
	if err := buildAll(execCtx, buildRelease, true); err != nil {
		return err
	}

	// Packaging
	banner("[4/6] Packaging")
	binary, ok := findBinary(buildRelease)
	if !ok {
		return &AssemblyError{Missing: filepath.Join(buildDir, binaryName)}
	}
	bundleDir := filepath.Join(distDir, fmt.Sprintf("VelocityDB-%s", version))
	bundle, err := assembleBundle(binary, filepath.Join(frontendDir, "dist"), bundleDir)
	if err != nil {
		return err
	}

	// Generating notes
	banner("[5/6] Generating release notes")
	var sections []noteSection
	if havePrev {
		records, err := commitsSince(repo, prevTag)
		if err != nil {
			return err
		}
		step("Commits since %s: %d", prevTag, len(records))
		sections = categorizeCommits(records)
	} else {
		colInfo.Println("No previous version tag; notes will have no change sections")
	}

	notes := renderReleaseNotes(version.String(), time.Now(), sections)
	notesPath := filepath.Join(distDir, notesFileName)
	if err := os.WriteFile(notesPath, []byte(notes), 0o644); err != nil {
		return fmt.Errorf("writing release notes: %w", err)
	}
	step("Release notes: %s", notesPath)

	// Archiving
	banner("[6/6] Archiving")
	ext, err := archiveExtension(archiveFormat)
	if err != nil {
		return err
	}
	archiveName := fmt.Sprintf("VelocityDB-%s-%s-%s%s", version, runtime.GOOS, hostArch, ext)
	archivePath := filepath.Join(distDir, archiveName)
	if err := createArchive(bundle.Dir, archivePath, archiveFormat); err != nil {
		return err
	}

	info, err := os.Stat(archivePath)
	if err != nil {
		return err
	}
	digest, err := blake3SumFile(archivePath)
	if err != nil {
		return err
	}
	step("Archive: %s (%s)", archivePath, humanSize(info.Size()))
	step("BLAKE3: %s", digest)

	// Publishing stays a separate, human-gated step.
	fmt.Println()
	colInfo.Println("Release prepared. To tag and publish, run:")
	fmt.Printf("  git tag v%s\n", version)
	fmt.Printf("  git push origin v%s\n", version)
	publish := fmt.Sprintf("  gh release create v%s %s --notes-file %s", version, archivePath, notesPath)
	if opts.Draft {
		publish += " --draft"
	}
	fmt.Println(publish)
	fmt.Println("  (or 'velo upload' for the artifact mirror)")
	return nil
}
