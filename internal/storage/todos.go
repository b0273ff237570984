package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/storage/codec"
	"github.com/julianstephens/tracklit/internal/storage/driver"
	"github.com/julianstephens/tracklit/internal/validation"
)

func scanTodo(sc scanner) (models.Todo, error) {
	var r codec.TodoRow
	if err := sc.Scan(r.Dest()...); err != nil {
		return models.Todo{}, err
	}
	return codec.TodoFromRow(r), nil
}

func validateTodo(t models.Todo) error {
	if t.Title == "" {
		return invalid("todo title is required")
	}
	if t.DueDate != nil && !validation.IsValidDate(*t.DueDate) {
		return invalid("due_date must be YYYY-MM-DD")
	}
	return validateRecurrence(t.Recurrence)
}

// advanceDue moves a due date to the next occurrence of rule
func advanceDue(date, rule string) (string, error) {
	d, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return "", err
	}
	switch rule {
	case constants.RecurrenceDaily:
		d = d.AddDate(0, 0, 1)
	case constants.RecurrenceWeekly:
		d = d.AddDate(0, 0, 7)
	case constants.RecurrenceMonthly:
		d = d.AddDate(0, 1, 0)
	default:
		return "", fmt.Errorf("unknown recurrence %q", rule)
	}
	return d.Format(constants.DateFormat), nil
}

// ListTodos returns todos ordered by due date, undated last
func (s *Store) ListTodos(ctx context.Context, includeArchived bool) ([]models.Todo, error) {
	query := "SELECT " + codec.TodoColumns + " FROM todos"
	if !includeArchived {
		query += " WHERE archived_at IS NULL"
	}
	return queryAll(ctx, s.drv, scanTodo,
		query+" ORDER BY CASE WHEN due_date IS NULL THEN 1 ELSE 0 END, due_date, created_at, id")
}

func (s *Store) GetTodo(ctx context.Context, id string) (models.Todo, error) {
	return s.getTodo(ctx, s.drv, id)
}

func (s *Store) getTodo(ctx context.Context, q driver.Querier, id string) (models.Todo, error) {
	return queryOne(ctx, q, "todo", id, scanTodo, "SELECT "+codec.TodoColumns+" FROM todos WHERE id = ?", id)
}

func (s *Store) CreateTodo(ctx context.Context, in models.TodoInput) (models.Todo, error) {
	t := models.Todo{
		ID:               s.newID(),
		Title:            in.Title,
		Notes:            in.Notes,
		CategoryID:       nullable(in.CategoryID),
		DueDate:          nullable(in.DueDate),
		EstimatedMinutes: in.EstimatedMinutes,
		Recurrence:       nullable(in.Recurrence),
		IncludeInOracle:  in.IncludeInOracle,
		CreatedAt:        s.timestamp(),
	}
	if err := validateTodo(t); err != nil {
		return models.Todo{}, err
	}
	if t.CategoryID != nil {
		if err := mustExist(ctx, s.drv, "bored_categories", "category", *t.CategoryID); err != nil {
			return models.Todo{}, err
		}
	}
	if _, err := s.drv.Exec(ctx, "INSERT INTO todos ("+codec.TodoColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		codec.TodoToRow(t).Args()...); err != nil {
		return models.Todo{}, fmt.Errorf("failed to insert todo: %w", err)
	}
	return t, nil
}

func (s *Store) UpdateTodo(ctx context.Context, id string, p models.TodoPatch) (models.Todo, error) {
	var out models.Todo
	err := driver.InTx(ctx, s.drv, func(tx driver.Tx) error {
		t, err := s.getTodo(ctx, tx, id)
		if err != nil {
			return err
		}
		if p.Title != nil {
			t.Title = *p.Title
		}
		if p.Notes != nil {
			t.Notes = *p.Notes
		}
		if p.CategoryID != nil {
			t.CategoryID = nullable(p.CategoryID)
			if t.CategoryID != nil {
				if err := mustExist(ctx, tx, "bored_categories", "category", *t.CategoryID); err != nil {
					return err
				}
			}
		}
		if p.DueDate != nil {
			t.DueDate = nullable(p.DueDate)
		}
		if p.EstimatedMinutes != nil {
			t.EstimatedMinutes = p.EstimatedMinutes
			if *p.EstimatedMinutes <= 0 {
				t.EstimatedMinutes = nil
			}
		}
		if p.Recurrence != nil {
			t.Recurrence = nullable(p.Recurrence)
		}
		if p.IncludeInOracle != nil {
			t.IncludeInOracle = *p.IncludeInOracle
		}
		if err := validateTodo(t); err != nil {
			return err
		}

		r := codec.TodoToRow(t)
		if _, err := tx.Exec(ctx, `UPDATE todos SET title = ?, notes = ?, category_id = ?, due_date = ?,
			estimated_minutes = ?, recurrence = ?, include_in_oracle = ? WHERE id = ?`,
			r.Title, r.Notes, r.CategoryID, r.DueDate, r.EstimatedMinutes, r.Recurrence, r.IncludeInOracle, id); err != nil {
			return fmt.Errorf("failed to update todo: %w", err)
		}
		out = t
		return nil
	})
	return out, err
}

// ToggleTodo completes or reopens a todo. A recurring todo is never marked
// done: it counts the completion and its due date moves to the next
// occurrence, starting from today when it had none.
func (s *Store) ToggleTodo(ctx context.Context, id string) (models.Todo, error) {
	var out models.Todo
	err := driver.InTx(ctx, s.drv, func(tx driver.Tx) error {
		t, err := s.getTodo(ctx, tx, id)
		if err != nil {
			return err
		}
		now := s.timestamp()

		if t.IsRecurring() {
			base := s.today()
			if t.DueDate != nil {
				base = *t.DueDate
			}
			next, err := advanceDue(base, *t.Recurrence)
			if err != nil {
				return fmt.Errorf("failed to advance due date: %w", err)
			}
			t.DoneCount++
			t.LastDoneAt = &now
			t.DueDate = &next
			_, err = tx.Exec(ctx, "UPDATE todos SET done_count = ?, last_done_at = ?, due_date = ? WHERE id = ?",
				t.DoneCount, now, next, id)
			if err != nil {
				return fmt.Errorf("failed to toggle todo: %w", err)
			}
			out = t
			return nil
		}

		t.IsDone = !t.IsDone
		t.CompletedAt = nil
		if t.IsDone {
			t.CompletedAt = &now
		}
		r := codec.TodoToRow(t)
		if _, err := tx.Exec(ctx, "UPDATE todos SET is_done = ?, completed_at = ? WHERE id = ?",
			r.IsDone, r.CompletedAt, id); err != nil {
			return fmt.Errorf("failed to toggle todo: %w", err)
		}
		out = t
		return nil
	})
	return out, err
}

// ArchiveTodo hides a todo from lists and the oracle
func (s *Store) ArchiveTodo(ctx context.Context, id string) error {
	res, err := s.drv.Exec(ctx, "UPDATE todos SET archived_at = ? WHERE id = ?", s.timestamp(), id)
	if err != nil {
		return fmt.Errorf("failed to archive todo: %w", err)
	}
	return affected(res, "todo", id)
}

func (s *Store) DeleteTodo(ctx context.Context, id string) error {
	res, err := s.drv.Exec(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return affected(res, "todo", id)
}
