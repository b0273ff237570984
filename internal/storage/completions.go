package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/storage/codec"
	"github.com/julianstephens/tracklit/internal/validation"
)

func scanCompletion(sc scanner) (models.Completion, error) {
	var c models.Completion
	err := sc.Scan(codec.CompletionDest(&c)...)
	return c, err
}

func scanHabitLog(sc scanner) (models.HabitLog, error) {
	var r codec.HabitLogRow
	if err := sc.Scan(r.Dest()...); err != nil {
		return models.HabitLog{}, err
	}
	return codec.HabitLogFromRow(r), nil
}

// dateRange builds the WHERE fragment for an optional inclusive range
func dateRange(from, to string) (string, []any, error) {
	clause := ""
	var args []any
	if from != "" {
		if !validation.IsValidDate(from) {
			return "", nil, invalid("from must be YYYY-MM-DD")
		}
		clause += " AND date >= ?"
		args = append(args, from)
	}
	if to != "" {
		if !validation.IsValidDate(to) {
			return "", nil, invalid("to must be YYYY-MM-DD")
		}
		clause += " AND date <= ?"
		args = append(args, to)
	}
	return clause, args, nil
}

// ToggleCompletion deletes the completion for (habitID, date) when one
// exists and returns nil; otherwise it inserts one and returns it. The
// read-then-branch relies on the single writer.
func (s *Store) ToggleCompletion(ctx context.Context, habitID, date string) (*models.Completion, error) {
	if !validation.IsValidDate(date) {
		return nil, invalid("date must be YYYY-MM-DD")
	}
	if err := mustExist(ctx, s.drv, "habits", "habit", habitID); err != nil {
		return nil, err
	}

	var existing string
	err := s.drv.QueryRow(ctx, "SELECT id FROM completions WHERE habit_id = ? AND date = ?", habitID, date).Scan(&existing)
	switch {
	case err == nil:
		if _, err := s.drv.Exec(ctx, "DELETE FROM completions WHERE id = ?", existing); err != nil {
			return nil, fmt.Errorf("failed to delete completion: %w", err)
		}
		return nil, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("failed to read completion: %w", err)
	}

	c := models.Completion{ID: s.newID(), HabitID: habitID, Date: date, CreatedAt: s.timestamp()}
	if _, err := s.drv.Exec(ctx, "INSERT INTO completions ("+codec.CompletionColumns+") VALUES (?, ?, ?, ?)", codec.CompletionArgs(c)...); err != nil {
		return nil, fmt.Errorf("failed to insert completion: %w", err)
	}
	return &c, nil
}

// ListCompletions returns a habit's completions in an optional inclusive
// date range, newest first.
func (s *Store) ListCompletions(ctx context.Context, habitID, from, to string) ([]models.Completion, error) {
	clause, args, err := dateRange(from, to)
	if err != nil {
		return nil, err
	}
	return queryAll(ctx, s.drv, scanCompletion,
		"SELECT "+codec.CompletionColumns+" FROM completions WHERE habit_id = ?"+clause+" ORDER BY date DESC",
		append([]any{habitID}, args...)...)
}

// ListCompletionsByDate returns every completion on one date
func (s *Store) ListCompletionsByDate(ctx context.Context, date string) ([]models.Completion, error) {
	return queryAll(ctx, s.drv, scanCompletion,
		"SELECT "+codec.CompletionColumns+" FROM completions WHERE date = ? ORDER BY created_at, id", date)
}

// AddLog appends a numeric observation. Logs are never merged; a day's
// values are summed on read.
func (s *Store) AddLog(ctx context.Context, in models.HabitLogInput) (models.HabitLog, error) {
	if !validation.IsValidDate(in.Date) {
		return models.HabitLog{}, invalid("date must be YYYY-MM-DD")
	}
	if err := mustExist(ctx, s.drv, "habits", "habit", in.HabitID); err != nil {
		return models.HabitLog{}, err
	}

	l := models.HabitLog{
		ID:        s.newID(),
		HabitID:   in.HabitID,
		Date:      in.Date,
		Value:     in.Value,
		Notes:     nullable(in.Notes),
		CreatedAt: s.timestamp(),
	}
	if _, err := s.drv.Exec(ctx, "INSERT INTO habit_logs ("+codec.HabitLogColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		codec.HabitLogToRow(l).Args()...); err != nil {
		return models.HabitLog{}, fmt.Errorf("failed to insert log: %w", err)
	}
	return l, nil
}

// DeleteLog removes one log
func (s *Store) DeleteLog(ctx context.Context, id string) error {
	res, err := s.drv.Exec(ctx, "DELETE FROM habit_logs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete log: %w", err)
	}
	return affected(res, "habit log", id)
}

// ListLogs returns a habit's logs in an optional inclusive date range,
// newest first.
func (s *Store) ListLogs(ctx context.Context, habitID, from, to string) ([]models.HabitLog, error) {
	clause, args, err := dateRange(from, to)
	if err != nil {
		return nil, err
	}
	return queryAll(ctx, s.drv, scanHabitLog,
		"SELECT "+codec.HabitLogColumns+" FROM habit_logs WHERE habit_id = ?"+clause+" ORDER BY date DESC, created_at DESC",
		append([]any{habitID}, args...)...)
}

// ListLogsByDate returns every log on one date
func (s *Store) ListLogsByDate(ctx context.Context, date string) ([]models.HabitLog, error) {
	return queryAll(ctx, s.drv, scanHabitLog,
		"SELECT "+codec.HabitLogColumns+" FROM habit_logs WHERE date = ? ORDER BY created_at, id", date)
}
