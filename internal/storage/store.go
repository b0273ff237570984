// Package storage is the data layer: it owns one database through a driver,
// brings its schema and seeds up at open, and implements every domain
// operation once above the driver boundary.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/tracklit/internal/constants"
	apperr "github.com/julianstephens/tracklit/internal/errors"
	"github.com/julianstephens/tracklit/internal/lock"
	"github.com/julianstephens/tracklit/internal/logger"
	"github.com/julianstephens/tracklit/internal/storage/driver"
	"github.com/julianstephens/tracklit/internal/storage/schema"
	"github.com/julianstephens/tracklit/internal/storage/seed"
)

// Config selects and locates a backend
type Config struct {
	Backend string // sqlite or postgres
	Path    string // sqlite database file
	DSN     string // postgres connection string

	LockAttempts   int
	LockRetryDelay time.Duration
}

// Store is the single owner of one database. It is not safe for concurrent
// use; the worker serializes every call.
type Store struct {
	drv    driver.Driver
	schema *schema.Manager
	seeds  *seed.Manager
	gate   *lock.Gate

	now   func() time.Time
	intn  func(n int) int
	newID func() string
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces the wall clock used for timestamps and "today"
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRandom replaces the random source of the bored oracle
func WithRandom(r *rand.Rand) Option {
	return func(s *Store) { s.intn = r.IntN }
}

// WithIDGenerator replaces the record id generator
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// Open acquires the database, creates or migrates the schema, and applies
// pending seeds. On the SQLite backend the concurrency gate is taken first;
// failing to take it returns ErrStorageUnavailable and touches nothing.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{
		now:   time.Now,
		intn:  rand.IntN,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}

	backend := cfg.Backend
	if backend == "" {
		backend = constants.BackendSQLite
	}
	dialect, err := driver.ParseDialect(backend)
	if err != nil {
		return nil, fmt.Errorf("unknown backend %q: %w", cfg.Backend, err)
	}
	drv, err := driver.New(dialect)
	if err != nil {
		return nil, err
	}

	dsn := cfg.DSN
	if dialect == driver.DialectSQLite {
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite backend requires a database path")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}

		var gateOpts []lock.Option
		if cfg.LockAttempts > 0 {
			gateOpts = append(gateOpts, lock.WithAttempts(cfg.LockAttempts))
		}
		if cfg.LockRetryDelay > 0 {
			gateOpts = append(gateOpts, lock.WithRetryDelay(cfg.LockRetryDelay))
		}
		s.gate = lock.New(cfg.Path, gateOpts...)
		if err := s.gate.Acquire(ctx); err != nil {
			return nil, err
		}
		dsn = cfg.Path
	}

	if err := drv.Open(dsn); err != nil {
		if s.gate != nil {
			_ = s.gate.Release()
		}
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s.drv = drv

	if err := s.initialize(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	logger.Info("Storage ready", "backend", s.Backend())
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	m, err := schema.NewManager(s.drv)
	if err != nil {
		return err
	}
	if err := m.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	s.schema = m

	s.seeds = seed.NewManager(s.drv, s.now)
	if _, err := s.seeds.ApplyDefaultSeeds(ctx); err != nil {
		return fmt.Errorf("failed to apply default seeds: %w", err)
	}
	return nil
}

// Close releases the database and the gate
func (s *Store) Close() error {
	var err error
	if s.drv != nil {
		err = s.drv.Close()
	}
	if s.gate != nil {
		if gerr := s.gate.Release(); err == nil {
			err = gerr
		}
	}
	return err
}

// Backend returns the active backend name
func (s *Store) Backend() string {
	return string(s.drv.Dialect())
}

// Driver exposes the underlying driver for diagnostics
func (s *Store) Driver() driver.Driver {
	return s.drv
}

// Gate returns the concurrency gate, or nil on backends without one
func (s *Store) Gate() *lock.Gate {
	return s.gate
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(constants.TimestampFormat)
}

// today is the calendar day of the store clock in local time
func (s *Store) today() string {
	return s.now().Format(constants.DateFormat)
}

type scanner interface {
	Scan(dest ...any) error
}

// queryAll runs query and scans every row; the result is never nil.
func queryAll[T any](ctx context.Context, q driver.Querier, scan func(scanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// queryOne scans a single row, mapping no rows to a not-found error.
func queryOne[T any](ctx context.Context, q driver.Querier, kind, id string, scan func(scanner) (T, error), query string, args ...any) (T, error) {
	v, err := scan(q.QueryRow(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, apperr.NotFound(kind, id)
	}
	return v, err
}

// exists reports whether table has a row with id
func exists(ctx context.Context, q driver.Querier, table, id string) (bool, error) {
	var n int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM "+table+" WHERE id = ?", id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// mustExist fails with a not-found error when table has no row with id
func mustExist(ctx context.Context, q driver.Querier, table, kind, id string) error {
	ok, err := exists(ctx, q, table, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound(kind, id)
	}
	return nil
}

// affected turns a zero-row mutation into a not-found error
func affected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound(kind, id)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperr.ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// nullable maps an empty optional string to nil
func nullable(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	return p
}
