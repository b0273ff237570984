//go:build unix

package lock

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const helperEnv = "TRACKLIT_LOCK_HELPER_DB"

// TestHelperHoldLock is not a real test. It runs in a child process, takes
// the gate and holds it until killed.
func TestHelperHoldLock(t *testing.T) {
	dbPath := os.Getenv(helperEnv)
	if dbPath == "" {
		t.Skip("helper process only")
	}
	g := New(dbPath, WithAttempts(1))
	if !g.TryAcquireExclusive(context.Background()) {
		os.Exit(2)
	}
	os.Stdout.WriteString("locked\n")
	time.Sleep(time.Minute)
	os.Exit(0)
}

func TestGateReleasedWhenHolderProcessEnds(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "tracklit.db")

	cmd := exec.Command(os.Args[0], "-test.run=^TestHelperHoldLock$")
	cmd.Env = append(os.Environ(), helperEnv+"="+dbPath)
	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())
	defer func() { _ = cmd.Process.Kill() }()

	line, err := bufio.NewReader(stdout).ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "locked\n", line)

	contender := New(dbPath, WithAttempts(3), WithRetryDelay(20*time.Millisecond))
	require.Error(t, contender.Acquire(ctx), "lock held by a live process")

	require.NoError(t, cmd.Process.Kill())
	_ = cmd.Wait()

	next := New(dbPath)
	require.NoError(t, next.Acquire(ctx), "lock released by process termination")
	require.NoError(t, next.Release())
}
