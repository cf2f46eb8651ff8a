package velo

import (
	"fmt"
	"os/exec"
)

// testBackend runs the native test suite via ctest. A prior successful
// backend build is a hard precondition; ctest against an empty tree produces
// a misleading "no tests found" pass.
func testBackend(execCtx *Executor, buildType string) error {
	if !validBuildType(buildType) {
		return fmt.Errorf("invalid build type %q: use Debug or Release", buildType)
	}

	banner("Backend Tests (%s)", buildType)
	if !dirExists(buildDir) {
		return &PreconditionError{
			Op:      "test backend",
			Missing: "a built backend (build directory not found)",
			Hint:    "run 'velo build backend' first",
		}
	}

	env, err := resolveCompilerEnv(execCtx.Context)
	if err != nil {
		return err
	}

	cmd := exec.Command("ctest",
		"--test-dir", buildDir,
		"--output-on-failure",
		"--parallel",
		"--build-config", buildType,
	)
	cmd.Dir = projectRoot
	if err := execCtx.WithEnv(env).RunLogged(cmd, "ctest"); err != nil {
		return err
	}
	step("All backend tests passed")
	return nil
}

// testFrontend runs the frontend test suite, optionally in watch mode.
func testFrontend(execCtx *Executor, watch bool) error {
	banner("Frontend Tests")

	pm, err := findPackageManager(execCtx)
	if err != nil {
		return err
	}
	step("Using %s: %s", pm.Name(), pm.Path)

	mode := "--run"
	if watch {
		mode = "--watch"
	}
	if err := execCtx.RunLogged(pm.RunScript(frontendDir, "test", mode), "frontend-test"); err != nil {
		return err
	}
	step("All frontend tests passed")
	return nil
}
