package velo

import (
	"fmt"
	"os"
	"path/filepath"
)

// bundleInfo describes an assembled distribution directory.
type bundleInfo struct {
	Dir   string
	Files int
	Size  int64
}

// assembleBundle builds a fresh distribution directory from the built
// binary and the frontend output. Both inputs are verified before anything
// is touched: a missing input must never yield a partial bundle. Any
// previous bundle is deleted first, never merged into.
func assembleBundle(binaryPath, webOutputDir, destDir string) (bundleInfo, error) {
	if !fileExists(binaryPath) {
		return bundleInfo{}, &AssemblyError{Missing: binaryPath}
	}
	if !dirExists(webOutputDir) {
		return bundleInfo{}, &AssemblyError{Missing: webOutputDir}
	}

	if _, err := removeIfExists(destDir); err != nil {
		return bundleInfo{}, fmt.Errorf("removing previous bundle: %w", err)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return bundleInfo{}, err
	}

	if err := copyFile(binaryPath, filepath.Join(destDir, filepath.Base(binaryPath))); err != nil {
		return bundleInfo{}, fmt.Errorf("copying binary: %w", err)
	}
	step("Copied: %s", filepath.Base(binaryPath))

	frontendTarget := filepath.Join(destDir, "frontend")
	if err := copyTree(webOutputDir, frontendTarget); err != nil {
		return bundleInfo{}, fmt.Errorf("copying frontend assets: %w", err)
	}

	files, size, err := dirStats(destDir)
	if err != nil {
		return bundleInfo{}, err
	}
	step("Bundle assembled: %s (%d files, %s)", destDir, files, humanSize(size))
	return bundleInfo{Dir: destDir, Files: files, Size: size}, nil
}

// packageCmd is the package pipeline: full release build, then a fresh
// bundle. The existence checks after the build guard against a silent
// partial build.
func packageCmd(execCtx *Executor) error {
	banner("Packaging")

	if err := buildAll(execCtx, buildRelease, false); err != nil {
		return err
	}

	binary, ok := findBinary(buildRelease)
	if !ok {
		return &AssemblyError{Missing: filepath.Join(buildDir, binaryName)}
	}
	webOutput := filepath.Join(frontendDir, "dist")

	info, err := assembleBundle(binary, webOutput, distDir)
	if err != nil {
		return err
	}

	step("Package ready: %s (%s)", info.Dir, humanSize(info.Size))
	return nil
}
