package velo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Executor provides a consistent interface for invoking external tools,
// attaching the cancellation context and a per-invocation toolchain
// environment. The orchestrator's own process environment is never mutated;
// compiler variables travel on the Executor and are applied to each child.
type Executor struct {
	Context context.Context // The context to use for cancellation
	Env     []string        // Environment for spawned tools; nil means inherit
}

func NewExecutor(ctx context.Context) *Executor {
	return &Executor{Context: ctx}
}

// WithEnv returns a copy of the executor that runs children under env.
func (e *Executor) WithEnv(env []string) *Executor {
	return &Executor{Context: e.Context, Env: env}
}

// cmdString renders the exact command line for error messages.
func cmdString(cmd *exec.Cmd) string {
	return strings.Join(cmd.Args, " ")
}

// finalize rebuilds cmd under the executor's context and environment.
// Precedence for the child environment: cmd.Env, then e.Env, then inherit.
func (e *Executor) finalize(cmd *exec.Cmd) *exec.Cmd {
	final := exec.CommandContext(e.Context, cmd.Path, cmd.Args[1:]...)
	final.Dir = cmd.Dir

	switch {
	case len(cmd.Env) > 0:
		final.Env = cmd.Env
	case len(e.Env) > 0:
		final.Env = e.Env
	default:
		final.Env = os.Environ()
	}

	final.Stdin = cmd.Stdin
	final.Stdout = cmd.Stdout
	final.Stderr = cmd.Stderr

	// Give an interrupted tool a moment to flush before the hard kill.
	final.WaitDelay = 2 * time.Second
	return final
}

// Run executes the given command, streaming its output to the console.
// A non-zero exit becomes a SubprocessError carrying the exact command line;
// cancellations surface as the context's error.
func (e *Executor) Run(cmd *exec.Cmd) error {
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	final := e.finalize(cmd)
	debugf("exec: %s\n", cmdString(final))

	if err := final.Run(); err != nil {
		if e.Context.Err() != nil {
			return fmt.Errorf("command aborted: %w", e.Context.Err())
		}
		return &SubprocessError{Command: cmdString(final), Err: err}
	}
	return nil
}

// Capture executes the command silently and returns its trimmed stdout.
// Used for version probes and other short queries.
func (e *Executor) Capture(cmd *exec.Cmd) (string, error) {
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = io.Discard
	cmd.Stdin = nil

	final := e.finalize(cmd)
	final.Stdin = nil
	debugf("exec (capture): %s\n", cmdString(final))

	if err := final.Run(); err != nil {
		if e.Context.Err() != nil {
			return "", fmt.Errorf("command aborted: %w", e.Context.Err())
		}
		return "", &SubprocessError{Command: cmdString(final), Err: err}
	}
	return strings.TrimSpace(out.String()), nil
}

// RunLogged behaves like Run but additionally mirrors the tool's output into
// a transcript under build/logs. Transcript failures never fail the build;
// the console stream is authoritative.
func (e *Executor) RunLogged(cmd *exec.Cmd, stage string) error {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		debugf("cannot create log directory %s: %v\n", logsDir, err)
		return e.Run(cmd)
	}

	name := fmt.Sprintf("%s-%s.log", stage, time.Now().Format("20060102-150405"))
	f, err := os.Create(filepath.Join(logsDir, name))
	if err != nil {
		debugf("cannot create transcript %s: %v\n", name, err)
		return e.Run(cmd)
	}
	defer f.Close()

	fmt.Fprintf(f, "$ %s\n", cmdString(cmd))
	cmd.Stdout = io.MultiWriter(os.Stdout, f)
	cmd.Stderr = io.MultiWriter(os.Stderr, f)
	return e.Run(cmd)
}
