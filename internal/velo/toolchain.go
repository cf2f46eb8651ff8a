package velo

import (
	"os/exec"
	"strings"
)

// pmKind discriminates the two interchangeable package manager providers.
type pmKind int

const (
	pmBun pmKind = iota
	pmNpm
)

// pkgManager is a resolved frontend package manager. Both providers expose
// the same sub-commands (install, run <script>); the pipeline never cares
// which one it got beyond the name it prints.
type pkgManager struct {
	Kind pmKind
	Path string
}

func (p pkgManager) Name() string {
	if p.Kind == pmBun {
		return "bun"
	}
	return "npm"
}

// Install returns the dependency install command, rooted in dir.
func (p pkgManager) Install(dir string) *exec.Cmd {
	cmd := exec.Command(p.Path, "install")
	cmd.Dir = dir
	return cmd
}

// RunScript returns a `run <script>` command, rooted in dir.
func (p pkgManager) RunScript(dir, script string, extra ...string) *exec.Cmd {
	args := append([]string{"run", script}, extra...)
	cmd := exec.Command(p.Path, args...)
	cmd.Dir = dir
	return cmd
}

var pkgManagerHints = []string{
	`1. bun (recommended): powershell -c "irm bun.sh/install.ps1 | iex"`,
	"2. npm: winget install OpenJS.NodeJS",
}

// findPackageManager probes bun first, then npm. A candidate only counts
// when it is on PATH and answers a version query; a wedged install must not
// be selected silently.
func findPackageManager(execCtx *Executor) (pkgManager, error) {
	candidates := []pkgManager{{Kind: pmBun}, {Kind: pmNpm}}

	var probed []string
	for _, cand := range candidates {
		path, err := exec.LookPath(cand.Name())
		if err != nil {
			probed = append(probed, cand.Name()+" (not on PATH)")
			continue
		}
		if _, err := execCtx.Capture(exec.Command(path, "--version")); err != nil {
			probed = append(probed, cand.Name()+" (did not answer --version)")
			continue
		}
		cand.Path = path
		return cand, nil
	}

	return pkgManager{}, &ToolchainMissingError{
		Tool:       "package manager (bun or npm)",
		Candidates: probed,
		Hints:      pkgManagerHints,
	}
}

// compilerInitCandidates is the fixed, preference-ordered list of developer
// shell initialization scripts. The bootstrap primitive only ever executes
// paths from this table; see bootstrapCompilerEnv.
var compilerInitCandidates = []string{
	// VS 2022 (version 17)
	`C:\Program Files\Microsoft Visual Studio\2022\Community\VC\Auxiliary\Build\vcvars64.bat`,
	`C:\Program Files\Microsoft Visual Studio\2022\Professional\VC\Auxiliary\Build\vcvars64.bat`,
	`C:\Program Files\Microsoft Visual Studio\2022\Enterprise\VC\Auxiliary\Build\vcvars64.bat`,
	`D:\Program Files\Microsoft Visual Studio\2022\Community\VC\Auxiliary\Build\vcvars64.bat`,
	`C:\Program Files (x86)\Microsoft Visual Studio\2022\BuildTools\VC\Auxiliary\Build\vcvars64.bat`,
	// VS Preview / newer versions (version 18+)
	`C:\Program Files\Microsoft Visual Studio\18\Community\VC\Auxiliary\Build\vcvars64.bat`,
	`C:\Program Files\Microsoft Visual Studio\18\Professional\VC\Auxiliary\Build\vcvars64.bat`,
	`C:\Program Files\Microsoft Visual Studio\18\Enterprise\VC\Auxiliary\Build\vcvars64.bat`,
	// VS 2019 (version 16) fallback
	`C:\Program Files (x86)\Microsoft Visual Studio\2019\Community\VC\Auxiliary\Build\vcvars64.bat`,
	`C:\Program Files (x86)\Microsoft Visual Studio\2019\Professional\VC\Auxiliary\Build\vcvars64.bat`,
	`C:\Program Files (x86)\Microsoft Visual Studio\2019\Enterprise\VC\Auxiliary\Build\vcvars64.bat`,
}

// findCompilerInit returns the first existing developer shell init script.
func findCompilerInit() (string, error) {
	for _, path := range compilerInitCandidates {
		if fileExists(path) {
			return path, nil
		}
	}
	return "", &ToolchainMissingError{
		Tool:       "vcvars64.bat (Visual Studio C++ workload)",
		Candidates: compilerInitCandidates,
		Hints: []string{
			"1. Visual Studio Installer -> Modify -> 'Desktop development with C++'",
			"2. winget install Microsoft.VisualStudio.2022.Community",
		},
	}
}

// Build configuration generators, in preference order.
const (
	generatorNinja = "Ninja"
	generatorVS    = "Visual Studio 17 2022"
)

// findGenerator prefers Ninja when it is present and responsive, falling
// back to the IDE project generator. The result feeds generator
// reconciliation against the persisted configure cache.
func findGenerator(execCtx *Executor) string {
	path, err := exec.LookPath("ninja")
	if err != nil {
		colInfo.Println("Ninja: not found (will use Visual Studio generator)")
		return generatorVS
	}
	ver, err := execCtx.Capture(exec.Command(path, "--version"))
	if err != nil {
		colInfo.Println("Ninja: not responding (will use Visual Studio generator)")
		return generatorVS
	}
	colInfo.Printf("Ninja: %s\n", ver)
	return generatorNinja
}

// checkCMake verifies cmake is reachable under the given executor.
func checkCMake(execCtx *Executor) error {
	path, err := exec.LookPath("cmake")
	if err != nil {
		return &ToolchainMissingError{
			Tool:       "cmake",
			Candidates: []string{"cmake (not on PATH)"},
			Hints: []string{
				"1. https://cmake.org/download/",
				"2. winget install Kitware.CMake",
			},
		}
	}
	out, err := execCtx.Capture(exec.Command(path, "--version"))
	if err != nil {
		return &ToolchainMissingError{
			Tool:       "cmake",
			Candidates: []string{path + " (did not answer --version)"},
			Hints:      []string{"reinstall: winget install Kitware.CMake"},
		}
	}
	if line, _, ok := strings.Cut(out, "\n"); ok {
		colInfo.Printf("CMake: %s\n", line)
	} else {
		colInfo.Printf("CMake: %s\n", out)
	}
	return nil
}
