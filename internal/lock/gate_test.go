package lock

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/julianstephens/tracklit/internal/errors"
)

type fakeProcess struct {
	pid  int
	name string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.name }

func TestGateExcludesSecondHolder(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "tracklit.db")

	first := New(dbPath, WithRetryDelay(5*time.Millisecond))
	require.True(t, first.TryAcquireExclusive(ctx))
	defer first.Release()
	assert.True(t, first.Held())

	second := New(dbPath, WithRetryDelay(5*time.Millisecond))
	assert.False(t, second.TryAcquireExclusive(ctx))
	assert.False(t, second.Held())

	require.NoError(t, first.Release())
	assert.True(t, second.TryAcquireExclusive(ctx), "lock is free once the holder lets go")
	require.NoError(t, second.Release())
}

func TestGateUsesWholeRetryBudget(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "tracklit.db")

	holder := New(dbPath)
	require.True(t, holder.TryAcquireExclusive(ctx))
	defer holder.Release()

	delay := 40 * time.Millisecond
	contender := New(dbPath, WithAttempts(3), WithRetryDelay(delay))

	start := time.Now()
	err := contender.Acquire(ctx)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrStorageUnavailable))
	assert.GreaterOrEqual(t, elapsed, 2*delay, "three attempts sleep twice between them")
}

func TestGateAcquireAfterLateRelease(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "tracklit.db")

	holder := New(dbPath)
	require.True(t, holder.TryAcquireExclusive(ctx))

	// release between the first and second attempt
	go func() {
		time.Sleep(30 * time.Millisecond)
		_ = holder.Release()
	}()

	contender := New(dbPath, WithAttempts(3), WithRetryDelay(100*time.Millisecond))
	require.NoError(t, contender.Acquire(ctx))
	require.NoError(t, contender.Release())
}

func TestGateRecordsHolder(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "tracklit.db")

	g := New(dbPath)
	require.True(t, g.TryAcquireExclusive(ctx))
	defer g.Release()

	h, err := g.ReadHolder()
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, os.Getpid(), h.PID)
	assert.NotEmpty(t, h.Owner)
	assert.WithinDuration(t, time.Now(), h.Acquired, time.Minute)
}

func TestGateErrorNamesHolder(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "tracklit.db")

	oldFind := findProcessFunc
	defer func() { findProcessFunc = oldFind }()
	findProcessFunc = func(pid int) (ps.Process, error) {
		return fakeProcess{pid: pid, name: "tracklit-desktop"}, nil
	}

	holder := New(dbPath)
	require.True(t, holder.TryAcquireExclusive(ctx))
	defer holder.Release()

	err := New(dbPath, WithAttempts(1)).Acquire(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tracklit-desktop")
	assert.Contains(t, err.Error(), "storage unavailable")
}

func TestGateCanceledContextStopsRetrying(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tracklit.db")

	holder := New(dbPath)
	require.True(t, holder.TryAcquireExclusive(context.Background()))
	defer holder.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	assert.False(t, New(dbPath, WithRetryDelay(time.Second)).TryAcquireExclusive(ctx))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestReleaseWhenNotHeld(t *testing.T) {
	g := New(filepath.Join(t.TempDir(), "tracklit.db"))
	assert.NoError(t, g.Release())

	h, err := g.ReadHolder()
	assert.NoError(t, err)
	assert.Nil(t, h)
}

func TestHolderGone(t *testing.T) {
	oldFind := findProcessFunc
	defer func() { findProcessFunc = oldFind }()
	findProcessFunc = func(pid int) (ps.Process, error) {
		if pid == 4242 {
			return fakeProcess{pid: pid, name: "tracklit"}, nil
		}
		return nil, nil
	}

	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}

	live := write("live.lock", "pid: 4242\nowner: tracklit\n")
	dead := write("dead.lock", "pid: 9999\nowner: tracklit\n")
	corrupt := write("corrupt.lock", "pid: [not a number\n")
	empty := write("empty.lock", "")

	assert.False(t, holderGone(live))
	assert.True(t, holderGone(dead))
	assert.True(t, holderGone(corrupt))
	assert.False(t, holderGone(empty))
	assert.False(t, holderGone(filepath.Join(dir, "missing.lock")))
}
