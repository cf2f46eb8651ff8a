package velo

import (
	"runtime"

	"github.com/gookit/color"
)

// Global variables
var (
	projectRoot string
	frontendDir string
	buildDir    string
	distDir     string
	logsDir     string

	binaryName    string
	archiveFormat string

	Debug bool

	toolVersion = "dev"     // overridden at build time
	buildDate   = "unknown" // overridden at build time
	hostArch    = runtime.GOARCH
)

// Well-known project files and directories, relative to projectRoot.
const (
	manifestFile  = "package.json"
	installedDirs = "node_modules"
	cacheFileName = "CMakeCache.txt"
	cacheFilesDir = "CMakeFiles"
	notesFileName = "RELEASE_NOTES.md"
)

// color helpers
var (
	colInfo    = color.Info // style provided by gookit/color
	colWarn    = color.Warn
	colError   = color.Error
	colSuccess = color.HEX("#1976D2")
	colArrow   = color.HEX("#FFEB3B")
)
