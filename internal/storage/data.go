package storage

import (
	"context"
	"fmt"

	apperr "github.com/julianstephens/tracklit/internal/errors"
	"github.com/julianstephens/tracklit/internal/logger"
	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/storage/driver"
	"github.com/julianstephens/tracklit/internal/storage/schema"
)

// ExportBinary returns the whole database as the engine's native file
// image. Only backends with a serialization primitive support it.
func (s *Store) ExportBinary(ctx context.Context) ([]byte, error) {
	ser, ok := s.drv.(driver.Serializer)
	if !ok {
		return nil, fmt.Errorf("binary export: %w", apperr.ErrUnsupported)
	}
	return ser.Serialize(ctx)
}

// Schema returns the persisted version and the DDL of every table and index
func (s *Store) Schema(ctx context.Context) (models.SchemaInfo, error) {
	return s.schema.Introspect(ctx)
}

// ClearAllData deletes every user row in one transaction. The seed ledger
// and the schema version survive, so defaults are not re-seeded.
func (s *Store) ClearAllData(ctx context.Context) error {
	err := driver.InTx(ctx, s.drv, func(tx driver.Tx) error {
		for _, table := range schema.DataTables {
			if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("Cleared all data")
	return nil
}

// WipeStorage removes the database file and brings a fresh one up with
// schema and seeds. Backends without file storage do nothing and report
// wiped=false.
func (s *Store) WipeStorage(ctx context.Context) (models.WipeResult, error) {
	fb, ok := s.drv.(driver.FileBacked)
	if !ok {
		logger.Debug("Wipe requested on a backend without file storage", "backend", s.Backend())
		return models.WipeResult{Wiped: false}, nil
	}
	if err := fb.Wipe(); err != nil {
		return models.WipeResult{}, fmt.Errorf("failed to wipe storage: %w", err)
	}
	if err := s.initialize(ctx); err != nil {
		return models.WipeResult{}, err
	}
	logger.Info("Wiped storage", "path", fb.Path())
	return models.WipeResult{Wiped: true}, nil
}

// AppliedDefaults lists the seed ledger
func (s *Store) AppliedDefaults(ctx context.Context) ([]models.AppliedDefault, error) {
	return s.seeds.Ledger(ctx)
}

// ResetDefaults clears the seed ledger and applies every seed again.
// Returns the keys that ran.
func (s *Store) ResetDefaults(ctx context.Context) ([]string, error) {
	keys, err := s.seeds.Reset(ctx)
	if err != nil {
		return nil, err
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}

// foreignKeys lists every child -> parent reference
var foreignKeys = []struct{ child, column, parent string }{
	{"habit_schedules", "habit_id", "habits"},
	{"completions", "habit_id", "habits"},
	{"habit_logs", "habit_id", "habits"},
	{"reminders", "habit_id", "habits"},
	{"checkin_questions", "template_id", "checkin_templates"},
	{"checkin_responses", "question_id", "checkin_questions"},
	{"checkin_reminders", "template_id", "checkin_templates"},
	{"bored_activities", "category_id", "bored_categories"},
	{"todos", "category_id", "bored_categories"},
}

// CheckIntegrity counts rows whose foreign key points at a missing parent
func (s *Store) CheckIntegrity(ctx context.Context) (models.IntegrityReport, error) {
	report := models.IntegrityReport{Orphans: map[string]int{}}
	for _, fk := range foreignKeys {
		var n int
		query := fmt.Sprintf(`SELECT COUNT(*) FROM %s c LEFT JOIN %s p ON p.id = c.%s
			WHERE c.%s IS NOT NULL AND p.id IS NULL`, fk.child, fk.parent, fk.column, fk.column)
		if err := s.drv.QueryRow(ctx, query).Scan(&n); err != nil {
			return report, fmt.Errorf("failed to check %s: %w", fk.child, err)
		}
		report.Orphans[fk.child+"."+fk.column] = n
	}
	return report, nil
}
