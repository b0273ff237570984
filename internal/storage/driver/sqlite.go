package driver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver
)

// sqlitePragmas are applied to every pooled connection through the DSN.
const sqlitePragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

var errNoSerialize = errors.New("sqlite connection has no serialize primitive")

// SQLiteDriver implements the Driver interface for SQLite.
type SQLiteDriver struct {
	db   *sql.DB
	path string
}

// NewSQLite creates a new SQLite driver.
func NewSQLite() *SQLiteDriver {
	return &SQLiteDriver{}
}

// Open opens a SQLite database at the given path, creating its directory.
func (d *SQLiteDriver) Open(dsn string) error {
	if dir := filepath.Dir(dsn); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn+sqlitePragmas)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}

	// One connection: the data layer is a single writer and in-flight
	// statements must see each other's effects.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping sqlite: %w", err)
	}

	d.db = db
	d.path = dsn
	return nil
}

// Close closes the database connection.
func (d *SQLiteDriver) Close() error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}

// Exec executes a query without returning rows.
func (d *SQLiteDriver) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.db.ExecContext(ctx, query, args...)
}

// Query executes a query that returns rows.
func (d *SQLiteDriver) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.db.QueryContext(ctx, query, args...)
}

// QueryRow executes a query that returns at most one row.
func (d *SQLiteDriver) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return d.db.QueryRowContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (d *SQLiteDriver) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &sqlTx{tx: tx, rebind: identity}, nil
}

// Dialect returns the SQLite dialect identifier.
func (d *SQLiteDriver) Dialect() Dialect {
	return DialectSQLite
}

// Path returns the database file path.
func (d *SQLiteDriver) Path() string {
	return d.path
}

// Serialize returns the whole database as the bytes of a SQLite file. It
// uses the engine's serialize primitive and falls back to VACUUM INTO a
// temporary file when the connection does not expose one.
func (d *SQLiteDriver) Serialize(ctx context.Context) ([]byte, error) {
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	var out []byte
	err = conn.Raw(func(driverConn any) error {
		s, ok := driverConn.(interface{ Serialize() ([]byte, error) })
		if !ok {
			return errNoSerialize
		}
		b, err := s.Serialize()
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	_ = conn.Close()

	if errors.Is(err, errNoSerialize) {
		return d.vacuumInto(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("serialize database: %w", err)
	}
	return out, nil
}

func (d *SQLiteDriver) vacuumInto(ctx context.Context) ([]byte, error) {
	dir, err := os.MkdirTemp("", "tracklit-serialize-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	target := filepath.Join(dir, "snapshot.db")
	if _, err := d.db.ExecContext(ctx, "VACUUM INTO ?", target); err != nil {
		return nil, fmt.Errorf("vacuum into: %w", err)
	}
	return os.ReadFile(target)
}

// Wipe closes the database, removes its file with any WAL side files, and
// reopens an empty database at the same path.
func (d *SQLiteDriver) Wipe() error {
	if err := d.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	for _, suffix := range []string{"", "-wal", "-shm", "-journal"} {
		if err := os.Remove(d.path + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", d.path+suffix, err)
		}
	}
	return d.Open(d.path)
}
