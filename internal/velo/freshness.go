package velo

import "os"

// needsInstall decides whether the dependency install step may be skipped.
// Install is required when the installed directory is absent, or when the
// manifest's modification time strictly exceeds the directory's. This is an
// mtime heuristic, not a content hash: a manifest edited and reverted within
// the filesystem's timestamp resolution will not trigger a reinstall. Known
// limitation, kept deliberately.
func needsInstall(manifestPath, installedDirPath string) bool {
	dirInfo, err := os.Stat(installedDirPath)
	if err != nil {
		return true
	}
	manifestInfo, err := os.Stat(manifestPath)
	if err != nil {
		return false
	}
	return manifestInfo.ModTime().After(dirInfo.ModTime())
}
