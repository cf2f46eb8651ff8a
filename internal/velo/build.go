package velo

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
)

// Build types accepted by the backend pipeline.
const (
	buildDebug   = "Debug"
	buildRelease = "Release"
)

func validBuildType(t string) bool {
	return t == buildDebug || t == buildRelease
}

// clearFrontendCaches removes the bundler output and its on-disk caches.
func clearFrontendCaches() {
	caches := []string{
		filepath.Join(frontendDir, "dist"),
		filepath.Join(frontendDir, "node_modules", ".vite"),
		filepath.Join(frontendDir, ".vite"),
	}
	for _, cache := range caches {
		removed, err := removeIfExists(cache)
		if err != nil {
			colWarn.Printf("Failed to clear %s: %v\n", cache, err)
			continue
		}
		if removed {
			step("Cleared: %s", cache)
		}
	}
}

// clearWebviewCaches drops the embedded webview's per-binary cache so the
// next launch loads fresh frontend files instead of a stale snapshot.
func clearWebviewCaches() {
	for _, buildType := range []string{buildDebug, buildRelease} {
		cache := filepath.Join(buildDir, buildType, binaryName+".WebView2")
		removed, err := removeIfExists(cache)
		if err != nil {
			colWarn.Printf("Failed to clear webview cache %s: %v\n", cache, err)
			continue
		}
		if removed {
			step("Cleared webview cache: %s", cache)
		}
	}
}

// ensureFrontendDeps runs the package manager install step unless the
// installed tree is already at least as new as the manifest.
func ensureFrontendDeps(execCtx *Executor, pm pkgManager) error {
	manifest := filepath.Join(frontendDir, manifestFile)
	installed := filepath.Join(frontendDir, installedDirs)

	if !needsInstall(manifest, installed) {
		colInfo.Println("Dependencies up to date")
		return nil
	}
	step("Installing frontend dependencies (%s install)", pm.Name())
	return execCtx.RunLogged(pm.Install(frontendDir), "install")
}

// buildFrontend builds the web bundle: resolve a package manager, install
// dependencies when stale, run the bundler, report output size.
func buildFrontend(execCtx *Executor, clean bool) error {
	banner("Building Frontend")
	if clean {
		clearFrontendCaches()
	}

	pm, err := findPackageManager(execCtx)
	if err != nil {
		return err
	}
	step("Using %s: %s", pm.Name(), pm.Path)

	if err := ensureFrontendDeps(execCtx, pm); err != nil {
		return err
	}

	if err := execCtx.RunLogged(pm.RunScript(frontendDir, "build"), "frontend-build"); err != nil {
		return err
	}

	outDir := filepath.Join(frontendDir, "dist")
	files, size, err := dirStats(outDir)
	if err != nil {
		return fmt.Errorf("frontend build produced no readable output at %s: %w", outDir, err)
	}
	step("Frontend built: %s (%d files, %s)", outDir, files, humanSize(size))

	clearWebviewCaches()
	return nil
}

// buildBackend configures and builds the native binary under the
// bootstrapped compiler environment.
func buildBackend(execCtx *Executor, buildType string, clean bool) error {
	if !validBuildType(buildType) {
		return fmt.Errorf("invalid build type %q: use Debug or Release", buildType)
	}

	banner("Building Backend (%s)", buildType)
	if clean {
		if removed, err := removeIfExists(buildDir); err != nil {
			return err
		} else if removed {
			step("Removed: %s", buildDir)
		}
	}

	env, err := resolveCompilerEnv(execCtx.Context)
	if err != nil {
		return err
	}
	toolExec := execCtx.WithEnv(env)

	if err := checkCMake(toolExec); err != nil {
		return err
	}
	generator := findGenerator(toolExec)

	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return err
	}
	if action, err := reconcileGenerator(buildDir, generator); err != nil {
		return err
	} else if action == cacheInvalidated {
		step("Configure cache invalidated, reconfiguring from scratch")
	}

	var configure *exec.Cmd
	if generator == generatorNinja {
		configure = exec.Command("cmake", "-B", buildDir, "-G", generator,
			"-DCMAKE_BUILD_TYPE="+buildType)
	} else {
		configure = exec.Command("cmake", "-B", buildDir, "-G", generator, "-A", "x64")
	}
	configure.Dir = projectRoot
	step("Configuring (%s)", generator)
	if err := toolExec.RunLogged(configure, "configure"); err != nil {
		return err
	}

	build := exec.Command("cmake", "--build", buildDir, "--config", buildType, "--parallel")
	build.Dir = projectRoot
	step("Building")
	if err := toolExec.RunLogged(build, "build"); err != nil {
		return err
	}

	if bin, ok := findBinary(buildType); ok {
		if info, err := os.Stat(bin); err == nil {
			step("Binary: %s (%s)", bin, humanSize(info.Size()))
		}
	} else {
		colWarn.Printf("Could not find %s under %s\n", binaryName, buildDir)
	}

	stageFrontendAssets(buildType)
	clearWebviewCaches()
	return nil
}

// stageFrontendAssets copies the frontend bundle next to the binary so a
// local run serves the current assets. Missing bundle is a skip, not an
// error: backend-only rebuilds are routine.
func stageFrontendAssets(buildType string) {
	src := filepath.Join(frontendDir, "dist")
	if !dirExists(src) {
		colInfo.Println("Frontend dist not found, skipping asset staging (run 'velo build frontend' first)")
		return
	}
	target := filepath.Join(buildDir, buildType, "frontend")
	if _, err := removeIfExists(target); err != nil {
		colWarn.Printf("Failed to replace staged assets: %v\n", err)
		return
	}
	if err := copyTree(src, target); err != nil {
		colWarn.Printf("Failed to stage frontend assets: %v\n", err)
		return
	}
	if files, _, err := dirStats(target); err == nil {
		step("Staged frontend assets: %s (%d files)", target, files)
	}
}

// findBinary locates the built executable, checking the known output spots
// before falling back to a recursive search.
func findBinary(buildType string) (string, bool) {
	candidates := []string{
		filepath.Join(buildDir, binaryName),
		filepath.Join(buildDir, buildType, binaryName),
		filepath.Join(buildDir, "bin", binaryName),
		filepath.Join(buildDir, "bin", buildType, binaryName),
	}
	for _, c := range candidates {
		if fileExists(c) {
			return c, true
		}
	}

	var found string
	_ = filepath.WalkDir(buildDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && d.Name() == binaryName {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	return found, found != ""
}

// buildAll builds the frontend first, then the backend. The order is a hard
// dependency: the backend post-build step stages the frontend output.
func buildAll(execCtx *Executor, buildType string, clean bool) error {
	if err := buildFrontend(execCtx, clean); err != nil {
		return err
	}
	if err := buildBackend(execCtx, buildType, clean); err != nil {
		return err
	}
	step("All builds succeeded")
	return nil
}
