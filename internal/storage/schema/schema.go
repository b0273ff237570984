// Package schema declares the tables and indexes of the data layer, tracks
// the persisted schema version, and applies the forward-only migration
// ladder.
package schema

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/tracklit/internal/logger"
	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/storage/driver"
)

// BaselineVersion is the version of the first released schema. Migrations
// start above it.
const BaselineVersion = 1

//go:embed migrations/*.sql
var migrationFS embed.FS

// ErrSchemaTooNew is returned when the database was written by a newer build.
var ErrSchemaTooNew = errors.New("database schema is newer than supported")

// Migration represents a single step of the ladder
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Manager owns schema creation and migration for one driver
type Manager struct {
	drv        driver.Driver
	migrations []Migration
}

// NewManager creates a manager with the embedded migration ladder
func NewManager(drv driver.Driver) (*Manager, error) {
	sub, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to access migrations: %w", err)
	}
	migrations, err := ReadMigrations(sub)
	if err != nil {
		return nil, err
	}
	return &Manager{drv: drv, migrations: migrations}, nil
}

// NewManagerWith creates a manager with an explicit ladder
func NewManagerWith(drv driver.Driver, migrations []Migration) *Manager {
	sorted := append([]Migration(nil), migrations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })
	return &Manager{drv: drv, migrations: sorted}
}

// ReadMigrations reads NNN_name.sql files from fsys sorted by version
func ReadMigrations(fsys fs.FS) ([]Migration, error) {
	files, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		parts := strings.SplitN(file.Name(), "_", 2)
		if len(parts) < 2 {
			return nil, fmt.Errorf("invalid migration filename format: %s (expected NNN_name.sql)", file.Name())
		}

		version, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid version number in filename %s: %w", file.Name(), err)
		}
		if version <= BaselineVersion {
			return nil, fmt.Errorf("invalid version number in filename %s: must be above the baseline %d", file.Name(), BaselineVersion)
		}

		content, err := fs.ReadFile(fsys, file.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", file.Name(), err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    strings.TrimSuffix(parts[1], ".sql"),
			SQL:     string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version == migrations[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", migrations[i].Version)
		}
	}

	return migrations, nil
}

// Latest returns the version a fully migrated database is stamped with
func (m *Manager) Latest() int {
	if len(m.migrations) == 0 {
		return BaselineVersion
	}
	return max(BaselineVersion, m.migrations[len(m.migrations)-1].Version)
}

// Version returns the persisted schema version, or 0 for a fresh database.
// It only reads.
func (m *Manager) Version(ctx context.Context) (int, error) {
	exists, err := m.versionTableExists(ctx)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}

	var version int
	err = m.drv.QueryRow(ctx, "SELECT version FROM schema_version").Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}

func (m *Manager) versionTableExists(ctx context.Context) (bool, error) {
	query := "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'"
	if m.drv.Dialect() == driver.DialectPostgres {
		query = "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = 'schema_version'"
	}
	var n int
	if err := m.drv.QueryRow(ctx, query).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to look up schema_version table: %w", err)
	}
	return n > 0, nil
}

func (m *Manager) ensureVersionTable(ctx context.Context) error {
	if _, err := m.drv.Exec(ctx, Objects[0].SQL); err != nil {
		return fmt.Errorf("failed to ensure schema_version table: %w", err)
	}
	return nil
}

func setVersion(ctx context.Context, q driver.Querier, version int) error {
	if _, err := q.Exec(ctx, "DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to clear version: %w", err)
	}
	if _, err := q.Exec(ctx, "INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
		return fmt.Errorf("failed to set version: %w", err)
	}
	return nil
}

// EnsureSchema creates every table and index that does not exist yet, using
// the latest shape. It never alters existing tables.
func (m *Manager) EnsureSchema(ctx context.Context) error {
	return driver.InTx(ctx, m.drv, func(tx driver.Tx) error {
		for _, obj := range Objects {
			if _, err := tx.Exec(ctx, obj.SQL); err != nil {
				return fmt.Errorf("failed to create %s %s: %w", obj.Type, obj.Name, err)
			}
		}
		return nil
	})
}

// ApplyMigrations applies each registered step above the persisted version
// in order. Every step runs in its own transaction together with the
// version bump. The ladder stops at the first version with no step.
// Returns the number of steps applied.
func (m *Manager) ApplyMigrations(ctx context.Context) (int, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return 0, err
	}
	current, err := m.Version(ctx)
	if err != nil {
		return 0, err
	}
	if current > m.Latest() {
		return 0, fmt.Errorf("%w: database is at version %d, this build supports %d", ErrSchemaTooNew, current, m.Latest())
	}

	byVersion := make(map[int]Migration, len(m.migrations))
	for _, mig := range m.migrations {
		byVersion[mig.Version] = mig
	}

	start := time.Now()
	applied := 0
	for v := current + 1; ; v++ {
		mig, ok := byVersion[v]
		if !ok {
			break
		}

		logger.Info("Applying migration", "version", mig.Version, "name", mig.Name)
		err := driver.InTx(ctx, m.drv, func(tx driver.Tx) error {
			if _, err := tx.Exec(ctx, mig.SQL); err != nil {
				return fmt.Errorf("failed to apply migration %d (%s): %w", mig.Version, mig.Name, err)
			}
			return setVersion(ctx, tx, mig.Version)
		})
		if err != nil {
			return applied, err
		}
		applied++
	}

	if applied > 0 {
		logger.Info("Migrations applied", "count", applied, "duration", time.Since(start))
	}
	return applied, nil
}

// Initialize brings the database to the latest shape. A fresh database is
// created at the latest shape and stamped without replaying the ladder; an
// existing one is migrated and then has any missing tables created.
func (m *Manager) Initialize(ctx context.Context) error {
	current, err := m.Version(ctx)
	if err != nil {
		return err
	}

	if current == 0 {
		if err := m.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := setVersion(ctx, m.drv, m.Latest()); err != nil {
			return err
		}
		logger.Debug("Created schema", "version", m.Latest())
		return nil
	}

	if _, err := m.ApplyMigrations(ctx); err != nil {
		return err
	}
	return m.EnsureSchema(ctx)
}

// Introspect returns the persisted version and the creation DDL of every
// table and index.
func (m *Manager) Introspect(ctx context.Context) (models.SchemaInfo, error) {
	version, err := m.Version(ctx)
	if err != nil {
		return models.SchemaInfo{}, err
	}

	info := models.SchemaInfo{Backend: string(m.drv.Dialect()), Version: version}
	switch m.drv.Dialect() {
	case driver.DialectSQLite:
		info.Objects, err = introspectSQLite(ctx, m.drv)
	default:
		info.Objects, err = introspectPostgres(ctx, m.drv)
	}
	if err != nil {
		return models.SchemaInfo{}, err
	}
	return info, nil
}

func introspectSQLite(ctx context.Context, q driver.Querier) ([]models.SchemaObject, error) {
	rows, err := q.Query(ctx, `
		SELECT type, name, sql FROM sqlite_master
		WHERE sql IS NOT NULL AND name NOT LIKE 'sqlite_%'
		ORDER BY CASE type WHEN 'table' THEN 0 ELSE 1 END, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to read sqlite_master: %w", err)
	}
	defer rows.Close()

	var objects []models.SchemaObject
	for rows.Next() {
		var obj models.SchemaObject
		if err := rows.Scan(&obj.Type, &obj.Name, &obj.SQL); err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	return objects, rows.Err()
}

// introspectPostgres reports registry DDL for tables present in the current
// schema and the server's own definition for every index.
func introspectPostgres(ctx context.Context, q driver.Querier) ([]models.SchemaObject, error) {
	rows, err := q.Query(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = current_schema()`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	present := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, err
		}
		present[name] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var objects []models.SchemaObject
	for _, obj := range Objects {
		if obj.Type == "table" && present[obj.Name] {
			objects = append(objects, models.SchemaObject{Type: obj.Type, Name: obj.Name, SQL: obj.SQL})
		}
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })

	idx, err := q.Query(ctx, `
		SELECT indexname, indexdef FROM pg_indexes
		WHERE schemaname = current_schema()
		ORDER BY indexname`)
	if err != nil {
		return nil, fmt.Errorf("failed to read pg_indexes: %w", err)
	}
	defer idx.Close()
	for idx.Next() {
		obj := models.SchemaObject{Type: "index"}
		if err := idx.Scan(&obj.Name, &obj.SQL); err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	return objects, idx.Err()
}
