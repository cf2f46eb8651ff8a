package velo

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strings"
)

// shellChainEnvDump executes the developer shell init script and dumps the
// resulting environment table, via the platform shell. The script format
// requires shell chaining (`script && set`), so this is the one place the
// orchestrator goes through a shell. scriptPath MUST come from
// compilerInitCandidates; never route externally influenced strings here.
func shellChainEnvDump(ctx context.Context, scriptPath string) ([]byte, []byte, error) {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", fmt.Sprintf(`"%s" && set`, scriptPath))
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", fmt.Sprintf(`. "%s" && env`, scriptPath))
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// parseEnvBlock splits a KEY=VALUE environment dump into a map. Each line is
// split on the first '='; lines without one are ignored.
func parseEnvBlock(out []byte) map[string]string {
	env := make(map[string]string)
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimRight(line, "\r")
		key, value, ok := strings.Cut(line, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}

// bootstrapCompilerEnv derives the compiler toolchain environment from the
// given init script. An empty capture is treated as silent corruption, not
// success.
func bootstrapCompilerEnv(ctx context.Context, scriptPath string) (map[string]string, error) {
	step("Using compiler environment from: %s", scriptPath)

	stdout, stderr, err := shellChainEnvDump(ctx, scriptPath)
	if err != nil {
		reason := "script exited non-zero"
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			reason += ": " + msg
		}
		return nil, &BootstrapError{Script: scriptPath, Reason: reason, Err: err}
	}

	env := parseEnvBlock(stdout)
	if len(env) == 0 {
		return nil, &BootstrapError{Script: scriptPath, Reason: "no environment variables captured"}
	}
	return env, nil
}

// mergeEnviron builds the child process environment: the orchestrator's own
// environment with the captured toolchain variables layered on top. Sorted
// for deterministic output in debug dumps.
func mergeEnviron(overrides map[string]string) []string {
	merged := make(map[string]string)
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok {
			merged[key] = value
		}
	}
	for k, v := range overrides {
		merged[k] = v
	}

	out := make([]string, 0, len(merged))
	for k, v := range merged {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// resolveCompilerEnv is the full backend toolchain bootstrap: locate the
// init script, capture its environment, and return it as a ready-to-attach
// environment slice.
func resolveCompilerEnv(ctx context.Context) ([]string, error) {
	script, err := findCompilerInit()
	if err != nil {
		return nil, err
	}
	env, err := bootstrapCompilerEnv(ctx, script)
	if err != nil {
		return nil, err
	}
	return mergeEnviron(env), nil
}
