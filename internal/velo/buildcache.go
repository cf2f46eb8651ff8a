package velo

import (
	"os"
	"path/filepath"
	"strings"
)

// cacheAction is the outcome of generator reconciliation.
type cacheAction int

const (
	cacheNoop cacheAction = iota
	cacheInvalidated
)

const cacheGeneratorKey = "CMAKE_GENERATOR:"

// cachedGenerator returns the generator recorded by a prior configure step,
// or "" when no cache exists or it cannot be read.
func cachedGenerator(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, cacheFileName))
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, cacheGeneratorKey) {
			if _, value, ok := strings.Cut(line, "="); ok {
				return strings.TrimSpace(value)
			}
		}
	}
	return ""
}

// clearConfigureCache deletes the persisted configure cache artifacts.
func clearConfigureCache(dir string) error {
	if removed, err := removeIfExists(filepath.Join(dir, cacheFileName)); err != nil {
		return err
	} else if removed {
		step("Removed: %s", filepath.Join(dir, cacheFileName))
	}
	if removed, err := removeIfExists(filepath.Join(dir, cacheFilesDir)); err != nil {
		return err
	} else if removed {
		step("Removed: %s", filepath.Join(dir, cacheFilesDir))
	}
	return nil
}

// reconcileGenerator compares the generator recorded in the configure cache
// with the one about to be used. On mismatch the stale cache is deleted so
// the next configure starts clean; mixing generators in one build directory
// produces confusing downstream build-tool errors.
func reconcileGenerator(dir, desired string) (cacheAction, error) {
	recorded := cachedGenerator(dir)
	if recorded == "" || recorded == desired {
		return cacheNoop, nil
	}

	colWarn.Printf("Generator mismatch detected:\n")
	colWarn.Printf("  Cached:  %s\n", recorded)
	colWarn.Printf("  Current: %s\n", desired)
	if err := clearConfigureCache(dir); err != nil {
		return cacheNoop, err
	}
	return cacheInvalidated, nil
}
