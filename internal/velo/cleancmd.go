package velo

import (
	"fmt"
	"path/filepath"
)

// Clean scopes. Each scope deletes exactly its own artifact class; sources
// and version-control state are never touched.
const (
	scopeLogs  = "logs"
	scopeCache = "cache"
	scopeAll   = "all"
)

func cleanScope(scope string) error {
	var targets []string
	switch scope {
	case scopeLogs:
		targets = []string{logsDir}
	case scopeCache:
		targets = []string{
			filepath.Join(buildDir, cacheFileName),
			filepath.Join(buildDir, cacheFilesDir),
			filepath.Join(frontendDir, "node_modules", ".vite"),
			filepath.Join(frontendDir, ".vite"),
			filepath.Join(buildDir, buildDebug, binaryName+".WebView2"),
			filepath.Join(buildDir, buildRelease, binaryName+".WebView2"),
		}
	case scopeAll:
		targets = []string{
			buildDir,
			distDir,
			filepath.Join(frontendDir, "dist"),
		}
	default:
		return fmt.Errorf("unknown clean scope %q: use logs, cache or all", scope)
	}

	banner("Cleaning (%s)", scope)
	removedAny := false
	for _, target := range targets {
		removed, err := removeIfExists(target)
		if err != nil {
			return fmt.Errorf("cleaning %s: %w", target, err)
		}
		if removed {
			step("Removed: %s", target)
			removedAny = true
		}
	}
	if !removedAny {
		colInfo.Println("Nothing to clean")
	}
	return nil
}
