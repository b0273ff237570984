// Package lock implements the concurrency gate: exclusive ownership of a
// SQLite database file across processes. The gate is taken once at startup
// and held for the life of the process. A terminated holder releases it as
// a side effect of the operating system closing its descriptor.
package lock

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"time"

	"github.com/mitchellh/go-ps"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/tracklit/internal/constants"
	apperr "github.com/julianstephens/tracklit/internal/errors"
	"github.com/julianstephens/tracklit/internal/logger"
	"github.com/julianstephens/tracklit/internal/metrics"
)

var findProcessFunc = ps.FindProcess

// Holder is the diagnostic metadata the owner writes into the lock file.
// It is informational only; ownership is the OS lock itself.
type Holder struct {
	PID      int       `yaml:"pid"`
	Owner    string    `yaml:"owner"`
	Acquired time.Time `yaml:"acquired"`
}

// Gate guards one database file
type Gate struct {
	path     string
	attempts int
	delay    time.Duration
	file     *os.File
}

// Option configures a Gate
type Option func(*Gate)

// WithAttempts sets the number of acquisition attempts
func WithAttempts(n int) Option {
	return func(g *Gate) {
		if n > 0 {
			g.attempts = n
		}
	}
}

// WithRetryDelay sets the fixed back-off between attempts
func WithRetryDelay(d time.Duration) Option {
	return func(g *Gate) {
		if d >= 0 {
			g.delay = d
		}
	}
}

// New creates a gate for the database at dbPath. The lock file sits next to
// the database.
func New(dbPath string, opts ...Option) *Gate {
	g := &Gate{
		path:     dbPath + constants.LockFileSuffix,
		attempts: constants.LockMaxAttempts,
		delay:    constants.LockRetryDelay,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Path returns the lock file path
func (g *Gate) Path() string {
	return g.path
}

// Held reports whether this gate currently owns the lock
func (g *Gate) Held() bool {
	return g.file != nil
}

// TryAcquireExclusive makes up to the configured number of attempts with a
// fixed back-off between them. It reports whether the lock was obtained.
func (g *Gate) TryAcquireExclusive(ctx context.Context) bool {
	if g.file != nil {
		return true
	}

	for attempt := 1; attempt <= g.attempts; attempt++ {
		f, err := tryLock(g.path)
		if err == nil {
			g.file = f
			metrics.GateAttempt("acquired")
			g.writeHolder()
			logger.Debug("Acquired database lock", "path", g.path, "attempt", attempt)
			return true
		}

		metrics.GateAttempt("busy")
		logger.Debug("Database lock busy", "path", g.path, "attempt", attempt, "error", err)

		if attempt == g.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(g.delay):
		}
	}
	return false
}

// Acquire is TryAcquireExclusive that fails closed with
// ErrStorageUnavailable naming the current holder when it can.
func (g *Gate) Acquire(ctx context.Context) error {
	if g.TryAcquireExclusive(ctx) {
		return nil
	}
	return fmt.Errorf("%w: %s", apperr.ErrStorageUnavailable, g.describeHolder())
}

// Release gives up the lock. Safe to call when not held.
func (g *Gate) Release() error {
	if g.file == nil {
		return nil
	}
	f := g.file
	g.file = nil
	return unlock(f)
}

// ReadHolder returns the metadata recorded by the last holder, or nil when
// the lock file is absent or empty.
func (g *Gate) ReadHolder() (*Holder, error) {
	data, err := os.ReadFile(g.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read lock file: %w", err)
	}
	return parseHolder(data)
}

func parseHolder(data []byte) (*Holder, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var h Holder
	if err := yaml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parse lock file: %w", err)
	}
	return &h, nil
}

// holderGone reports whether the lock file at path names a process that no
// longer exists. An unreadable record counts as gone; a missing pid does not.
func holderGone(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	h, err := parseHolder(data)
	if err != nil {
		return true
	}
	if h == nil || h.PID == 0 {
		return false
	}
	p, err := findProcessFunc(h.PID)
	return err == nil && p == nil
}

func (g *Gate) writeHolder() {
	owner := "unknown"
	if u, err := user.Current(); err == nil {
		owner = u.Username
	}
	if host, err := os.Hostname(); err == nil {
		owner += "@" + host
	}

	data, err := yaml.Marshal(Holder{PID: os.Getpid(), Owner: owner, Acquired: time.Now().UTC()})
	if err != nil {
		return
	}
	if err := g.file.Truncate(0); err != nil {
		logger.Warn("Failed to truncate lock file", "path", g.path, "error", err)
		return
	}
	if _, err := g.file.WriteAt(data, 0); err != nil {
		logger.Warn("Failed to write lock holder", "path", g.path, "error", err)
	}
}

func (g *Gate) describeHolder() string {
	h, err := g.ReadHolder()
	if err != nil || h == nil || h.PID == 0 {
		return fmt.Sprintf("database is locked by another process (%s)", g.path)
	}

	name := "unknown process"
	if p, err := findProcessFunc(h.PID); err == nil && p != nil {
		name = p.Executable()
	}
	return fmt.Sprintf("database is locked by %s (pid %d, %s, since %s)",
		name, h.PID, h.Owner, h.Acquired.Format(time.RFC3339))
}
