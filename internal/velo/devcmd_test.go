package velo

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevCmdInterruptSurfacesCancellation(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell stub")
	}

	// A stub package manager that answers the probe and then blocks on
	// `run dev` like a real dev server.
	bin := t.TempDir()
	stub := `#!/bin/sh
case "$1" in
--version) echo 1.0.0 ;;
install) exit 0 ;;
run) sleep 30 ;;
esac
`
	require.NoError(t, os.WriteFile(filepath.Join(bin, "bun"), []byte(stub), 0o755))
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))

	front := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(front, installedDirs), 0o755))
	origFrontend, origLogs := frontendDir, logsDir
	frontendDir = front
	logsDir = filepath.Join(t.TempDir(), "logs")
	t.Cleanup(func() {
		frontendDir, logsDir = origFrontend, origLogs
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- devCmd(NewExecutor(ctx)) }()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.Error(t, err, "an interrupted dev server must not report success")
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Second):
		t.Fatal("devCmd did not return after cancellation")
	}
}
