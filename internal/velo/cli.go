package velo

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gookit/color"
)

// printHelp prints the commands table
func printHelp() {
	colSuccess.Println("Usage: velo <command> [arguments]")
	colSuccess.Println("Run 'velo <command> -h' for command options")
	fmt.Println()
	color.Info.Println("Available Commands:")

	type cmdInfo struct {
		Cmd  string
		Args string
		Desc string
	}
	cmds := []cmdInfo{
		{"build, b", "[backend|frontend|all]", "Build the application (default: all, Release)"},
		{"debug", "", "Build the backend in Debug configuration"},
		{"test, t", "[backend|frontend]", "Run tests (default: frontend)"},
		{"lint, l", "[-f] [-u]", "Lint and format frontend + native sources"},
		{"dev, d", "", "Run the frontend dev server"},
		{"package, p", "", "Release build and assemble the dist bundle"},
		{"release", "[version]", "Full release: checks, build, notes, archive"},
		{"upload", "[-notes]", "Upload the newest release archive to the mirror"},
		{"check, c", "[Debug|Release]", "Run lint, tests and a full build"},
		{"clean", "[logs|cache|all]", "Remove generated artifacts (default: cache)"},
		{"version, --version", "", "Version information"},
	}

	// Dynamic padding: size the first column to the longest usage string.
	maxLen := 0
	for _, c := range cmds {
		length := len(c.Cmd) + len(c.Args)
		if c.Args != "" {
			length++
		}
		if length > maxLen {
			maxLen = length
		}
	}
	columnWidth := maxLen + 4

	for _, c := range cmds {
		var usageString string
		if c.Args != "" {
			usageString = fmt.Sprintf("  %s %s", c.Cmd, c.Args)
		} else {
			usageString = fmt.Sprintf("  %s", c.Cmd)
		}

		fmt.Print("  ")
		color.Bold.Print(c.Cmd)
		if c.Args != "" {
			fmt.Print(" ")
			color.Cyan.Print(c.Args)
		}

		pad := columnWidth - len(usageString)
		if pad < 1 {
			pad = 1
		}
		fmt.Print(strings.Repeat(" ", pad))

		color.Info.Println(c.Desc)
	}

	fmt.Println()
}

// fail prints the error and exits: 130 when the failure is a user
// interruption, 1 for everything else.
func fail(prefix string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", prefix, err)
	if errors.Is(err, context.Canceled) {
		os.Exit(130)
	}
	os.Exit(1)
}

// Main is the CLI entrypoint for the velo binary.
func Main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		for {
			select {
			case sig := <-sigs:
				colArrow.Print("\n-> ")
				color.Danger.Printf("Received %v. Cancelling process gracefully\n", sig)
				cancel()

				// Give the running command a moment to die and flush.
				time.Sleep(100 * time.Millisecond)

				select {
				case <-sigs:
					colArrow.Print("\n-> ")
					color.Danger.Printf("Second interrupt received. Forcing immediate exit.")
					os.Exit(130)
				case <-time.After(2 * time.Second):
					colArrow.Print("\n-> ")
					color.Danger.Printf("Graceful shutdown timeout. Exiting.")
					os.Exit(130)
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	if len(os.Args) < 2 {
		printHelp()
		return
	}

	// version works from anywhere; everything else needs a checkout.
	if os.Args[1] == "version" || os.Args[1] == "--version" {
		colInfo.Printf("velo %s (%s) built %s\n", toolVersion, hostArch, buildDate)
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		fail("Error", err)
	}
	root, err := findProjectRoot(cwd)
	if err != nil {
		fail("Error", err)
	}
	cfg, err := loadConfig(root)
	if err != nil {
		fail("Configuration error", err)
	}
	initConfig(root, cfg)
	debugf("Project root: %s\n", projectRoot)

	execCtx := NewExecutor(ctx)

	switch os.Args[1] {
	case "build", "b":
		buildCmd := flag.NewFlagSet("build", flag.ExitOnError)
		clean := buildCmd.Bool("c", false, "Delete caches and build directories first")
		buildCmd.BoolVar(clean, "clean", *clean, "Alias for -c")
		buildType := buildCmd.String("t", buildRelease, "Build type: Debug or Release")
		buildCmd.StringVar(buildType, "type", *buildType, "Alias for -t")
		if err := buildCmd.Parse(os.Args[2:]); err != nil {
			fail("Error parsing build flags", err)
		}
		if !validBuildType(*buildType) {
			fail("Build failed", fmt.Errorf("invalid build type %q: use Debug or Release", *buildType))
		}

		target := "all"
		if buildCmd.NArg() > 0 {
			target = buildCmd.Arg(0)
		}
		switch target {
		case "frontend":
			err = buildFrontend(execCtx, *clean)
		case "backend":
			err = buildBackend(execCtx, *buildType, *clean)
		case "all":
			err = buildAll(execCtx, *buildType, *clean)
		default:
			err = fmt.Errorf("unknown build target %q: use backend, frontend or all", target)
		}
		if err != nil {
			fail("Build failed", err)
		}

	case "debug":
		debugCmd := flag.NewFlagSet("debug", flag.ExitOnError)
		clean := debugCmd.Bool("c", false, "Delete caches and build directories first")
		debugCmd.BoolVar(clean, "clean", *clean, "Alias for -c")
		if err := debugCmd.Parse(os.Args[2:]); err != nil {
			fail("Error parsing debug flags", err)
		}
		if err := buildBackend(execCtx, buildDebug, *clean); err != nil {
			fail("Build failed", err)
		}

	case "test", "t":
		testCmd := flag.NewFlagSet("test", flag.ExitOnError)
		watch := testCmd.Bool("w", false, "Watch mode (frontend only)")
		testCmd.BoolVar(watch, "watch", *watch, "Alias for -w")
		buildType := testCmd.String("t", buildRelease, "Build configuration (backend only)")
		testCmd.StringVar(buildType, "type", *buildType, "Alias for -t")
		if err := testCmd.Parse(os.Args[2:]); err != nil {
			fail("Error parsing test flags", err)
		}

		target := "frontend"
		if testCmd.NArg() > 0 {
			target = testCmd.Arg(0)
		}
		switch target {
		case "frontend":
			err = testFrontend(execCtx, *watch)
		case "backend":
			err = testBackend(execCtx, *buildType)
		default:
			err = fmt.Errorf("unknown test target %q: use backend or frontend", target)
		}
		if err != nil {
			fail("Tests failed", err)
		}

	case "lint", "l":
		lintCmd := flag.NewFlagSet("lint", flag.ExitOnError)
		fix := lintCmd.Bool("f", false, "Apply fixes instead of just reporting")
		lintCmd.BoolVar(fix, "fix", *fix, "Alias for -f")
		unsafe := lintCmd.Bool("u", false, "Apply unsafe fixes (requires -f)")
		lintCmd.BoolVar(unsafe, "unsafe", *unsafe, "Alias for -u")
		if err := lintCmd.Parse(os.Args[2:]); err != nil {
			fail("Error parsing lint flags", err)
		}
		if *unsafe && !*fix {
			fail("Lint failed", fmt.Errorf("-u requires -f"))
		}
		if err := lintAll(execCtx, *fix, *unsafe); err != nil {
			fail("Lint failed", err)
		}

	case "dev", "d":
		if err := devCmd(execCtx); err != nil {
			fail("Dev server failed", err)
		}

	case "package", "p":
		if err := packageCmd(execCtx); err != nil {
			fail("Packaging failed", err)
		}

	case "release":
		relCmd := flag.NewFlagSet("release", flag.ExitOnError)
		bumpKind := relCmd.String("bump", bumpPatch, "Version component to bump: patch, minor or major")
		draft := relCmd.Bool("draft", false, "Print a draft publish command")
		skipChecks := relCmd.Bool("skip-checks", false, "Skip lint and tests (not recommended)")
		if err := relCmd.Parse(os.Args[2:]); err != nil {
			fail("Error parsing release flags", err)
		}

		opts := releaseOptions{
			Bump:       *bumpKind,
			Draft:      *draft,
			SkipChecks: *skipChecks,
		}
		if relCmd.NArg() > 0 {
			opts.ExplicitVersion = relCmd.Arg(0)
		}
		if err := runRelease(execCtx, opts); err != nil {
			fail("Release failed", err)
		}

	case "upload":
		upCmd := flag.NewFlagSet("upload", flag.ExitOnError)
		withNotes := upCmd.Bool("notes", false, "Also upload the release notes")
		if err := upCmd.Parse(os.Args[2:]); err != nil {
			fail("Error parsing upload flags", err)
		}
		if err := uploadCmd(ctx, cfg, *withNotes); err != nil {
			fail("Upload failed", err)
		}

	case "check", "c":
		buildType := buildRelease
		if len(os.Args) > 2 {
			buildType = os.Args[2]
		}
		if !validBuildType(buildType) {
			fail("Check failed", fmt.Errorf("invalid build type %q: use Debug or Release", buildType))
		}
		if err := checkCmd(execCtx, buildType); err != nil {
			fail("Check failed", err)
		}

	case "clean":
		scope := scopeCache
		if len(os.Args) > 2 {
			scope = os.Args[2]
		}
		if err := cleanScope(scope); err != nil {
			fail("Clean failed", err)
		}

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}
