package velo

import (
	"context"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureTrimsOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}

	execCtx := NewExecutor(context.Background())
	out, err := execCtx.Capture(exec.Command("sh", "-c", "echo '  hello  '"))
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestRunFailureCarriesCommandLine(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}

	execCtx := NewExecutor(context.Background())
	err := execCtx.Run(exec.Command("sh", "-c", "exit 3"))

	var serr *SubprocessError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Command, "sh -c exit 3")
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	execCtx := NewExecutor(ctx)
	err := execCtx.Run(exec.Command("sh", "-c", "sleep 5"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithEnvIsolatesToolchainEnv(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}

	base := NewExecutor(context.Background())
	scoped := base.WithEnv([]string{"VELO_SCOPED=yes", "PATH=" + pathEnv(t)})

	out, err := scoped.Capture(exec.Command("sh", "-c", "echo $VELO_SCOPED"))
	require.NoError(t, err)
	assert.Equal(t, "yes", out)

	// The base executor still inherits the parent environment.
	out, err = base.Capture(exec.Command("sh", "-c", "echo ${VELO_SCOPED:-unset}"))
	require.NoError(t, err)
	assert.Equal(t, "unset", out)
}

func pathEnv(t *testing.T) string {
	t.Helper()
	out, err := NewExecutor(context.Background()).Capture(exec.Command("sh", "-c", "echo $PATH"))
	require.NoError(t, err)
	return out
}
