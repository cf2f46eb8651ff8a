package velo

import (
	"errors"
)

// devCmd starts the frontend dev server. It installs dependencies when
// stale and then blocks on the dev script until the user interrupts it.
func devCmd(execCtx *Executor) error {
	banner("Dev server")

	pm, err := findPackageManager(execCtx)
	if err != nil {
		return err
	}
	step("Using %s: %s", pm.Name(), pm.Path)

	if err := ensureFrontendDeps(execCtx, pm); err != nil {
		return err
	}

	step("Starting dev server (Ctrl+C to stop)")
	err = execCtx.Run(pm.RunScript(frontendDir, "dev"))
	if err != nil && execCtx.Context.Err() != nil {
		// A Ctrl+C is the normal way to leave the dev server, but the
		// interruption still travels up so the process exits 130.
		colInfo.Println("Dev server stopped")
	}
	return err
}

// checkCmd runs the full pre-merge gauntlet: lint, frontend tests, and a
// full build. Every stage runs even when an earlier one fails, so a single
// invocation reports everything that is broken.
func checkCmd(execCtx *Executor, buildType string) error {
	banner("Check (%s)", buildType)

	var failures []error
	if err := lintAll(execCtx, false, false); err != nil {
		colError.Printf("Lint failed: %v\n", err)
		failures = append(failures, err)
	}
	if err := testFrontend(execCtx, false); err != nil {
		colError.Printf("Tests failed: %v\n", err)
		failures = append(failures, err)
	}
	if err := buildAll(execCtx, buildType, false); err != nil {
		colError.Printf("Build failed: %v\n", err)
		failures = append(failures, err)
	}

	if len(failures) > 0 {
		colError.Printf("%d of 3 stages failed\n", len(failures))
		return errors.Join(failures...)
	}
	colSuccess.Println("All checks passed")
	return nil
}
