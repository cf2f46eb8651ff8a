package velo

import (
	"fmt"
	"strings"
)

// ToolchainMissingError reports a required external tool that could not be
// located. It always carries the full list of probed candidates so the user
// sees exactly where we looked.
type ToolchainMissingError struct {
	Tool       string
	Candidates []string
	Hints      []string
}

func (e *ToolchainMissingError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s not found", e.Tool)
	if len(e.Candidates) > 0 {
		b.WriteString("\n  Searched:")
		for _, c := range e.Candidates {
			b.WriteString("\n    - " + c)
		}
	}
	if len(e.Hints) > 0 {
		b.WriteString("\n  Install options:")
		for _, h := range e.Hints {
			b.WriteString("\n    " + h)
		}
	}
	return b.String()
}

// BootstrapError reports a failed compiler environment initialization.
type BootstrapError struct {
	Script string
	Reason string
	Err    error
}

func (e *BootstrapError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("environment bootstrap via %s failed: %s: %v", e.Script, e.Reason, e.Err)
	}
	return fmt.Sprintf("environment bootstrap via %s failed: %s", e.Script, e.Reason)
}

func (e *BootstrapError) Unwrap() error { return e.Err }

// PreconditionError reports an operation invoked before a required prior
// stage has run.
type PreconditionError struct {
	Op      string
	Missing string
	Hint    string
}

func (e *PreconditionError) Error() string {
	msg := fmt.Sprintf("%s requires %s", e.Op, e.Missing)
	if e.Hint != "" {
		msg += "\n  " + e.Hint
	}
	return msg
}

// AssemblyError reports expected build output missing at packaging time.
type AssemblyError struct {
	Missing string
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("cannot assemble distribution: %s does not exist", e.Missing)
}

// SubprocessError reports an external tool that exited non-zero. Command
// carries the exact command line for reproducibility.
type SubprocessError struct {
	Command string
	Err     error
}

func (e *SubprocessError) Error() string {
	return fmt.Sprintf("command failed: %s: %v", e.Command, e.Err)
}

func (e *SubprocessError) Unwrap() error { return e.Err }

// VersionParseError reports a malformed release version string.
type VersionParseError struct {
	Input string
}

func (e *VersionParseError) Error() string {
	return fmt.Sprintf("invalid version %q: expected MAJOR.MINOR.PATCH", e.Input)
}
