package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/tracklit/internal/analytics"
	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/storage/codec"
	"github.com/julianstephens/tracklit/internal/storage/driver"
	"github.com/julianstephens/tracklit/internal/validation"
)

func scanCategory(sc scanner) (models.BoredCategory, error) {
	var c models.BoredCategory
	err := sc.Scan(codec.CategoryDest(&c)...)
	return c, err
}

func scanActivity(sc scanner) (models.BoredActivity, error) {
	var r codec.ActivityRow
	if err := sc.Scan(r.Dest()...); err != nil {
		return models.BoredActivity{}, err
	}
	return codec.ActivityFromRow(r), nil
}

func validateRecurrence(r *string) error {
	if r != nil && !validation.IsRecurrence(*r) {
		return invalid("unknown recurrence %q", *r)
	}
	return nil
}

// ListCategories returns every bored category by name
func (s *Store) ListCategories(ctx context.Context) ([]models.BoredCategory, error) {
	return queryAll(ctx, s.drv, scanCategory,
		"SELECT "+codec.CategoryColumns+" FROM bored_categories ORDER BY name, id")
}

func (s *Store) CreateCategory(ctx context.Context, in models.CategoryInput) (models.BoredCategory, error) {
	if in.Name == "" {
		return models.BoredCategory{}, invalid("category name is required")
	}
	c := models.BoredCategory{ID: s.newID(), Name: in.Name, Icon: in.Icon, Color: in.Color, CreatedAt: s.timestamp()}
	if _, err := s.drv.Exec(ctx, "INSERT INTO bored_categories ("+codec.CategoryColumns+") VALUES (?, ?, ?, ?, ?)",
		codec.CategoryArgs(c)...); err != nil {
		return models.BoredCategory{}, fmt.Errorf("failed to insert category: %w", err)
	}
	return c, nil
}

// DeleteCategory removes a category and its activities. Todos in the
// category keep existing with no category.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.drv.Exec(ctx, "DELETE FROM bored_categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return affected(res, "category", id)
}

// ListActivities returns the activities of a category, or of all categories
// when categoryID is empty. Archived activities are included only on request.
func (s *Store) ListActivities(ctx context.Context, categoryID string, includeArchived bool) ([]models.BoredActivity, error) {
	query := "SELECT " + codec.ActivityColumns + " FROM bored_activities WHERE 1 = 1"
	var args []any
	if categoryID != "" {
		query += " AND category_id = ?"
		args = append(args, categoryID)
	}
	if !includeArchived {
		query += " AND archived_at IS NULL"
	}
	return queryAll(ctx, s.drv, scanActivity, query+" ORDER BY created_at, id", args...)
}

func (s *Store) GetActivity(ctx context.Context, id string) (models.BoredActivity, error) {
	return s.getActivity(ctx, s.drv, id)
}

func (s *Store) getActivity(ctx context.Context, q driver.Querier, id string) (models.BoredActivity, error) {
	return queryOne(ctx, q, "activity", id, scanActivity,
		"SELECT "+codec.ActivityColumns+" FROM bored_activities WHERE id = ?", id)
}

func (s *Store) CreateActivity(ctx context.Context, in models.ActivityInput) (models.BoredActivity, error) {
	if in.Title == "" {
		return models.BoredActivity{}, invalid("activity title is required")
	}
	if err := validateRecurrence(nullable(in.Recurrence)); err != nil {
		return models.BoredActivity{}, err
	}
	if err := mustExist(ctx, s.drv, "bored_categories", "category", in.CategoryID); err != nil {
		return models.BoredActivity{}, err
	}
	a := models.BoredActivity{
		ID:               s.newID(),
		CategoryID:       in.CategoryID,
		Title:            in.Title,
		Description:      in.Description,
		EstimatedMinutes: in.EstimatedMinutes,
		Recurrence:       nullable(in.Recurrence),
		CreatedAt:        s.timestamp(),
	}
	if _, err := s.drv.Exec(ctx, "INSERT INTO bored_activities ("+codec.ActivityColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		codec.ActivityToRow(a).Args()...); err != nil {
		return models.BoredActivity{}, fmt.Errorf("failed to insert activity: %w", err)
	}
	return a, nil
}

func (s *Store) UpdateActivity(ctx context.Context, id string, p models.ActivityPatch) (models.BoredActivity, error) {
	var out models.BoredActivity
	err := driver.InTx(ctx, s.drv, func(tx driver.Tx) error {
		a, err := s.getActivity(ctx, tx, id)
		if err != nil {
			return err
		}
		if p.CategoryID != nil {
			if err := mustExist(ctx, tx, "bored_categories", "category", *p.CategoryID); err != nil {
				return err
			}
			a.CategoryID = *p.CategoryID
		}
		if p.Title != nil {
			a.Title = *p.Title
		}
		if p.Description != nil {
			a.Description = *p.Description
		}
		if p.EstimatedMinutes != nil {
			a.EstimatedMinutes = p.EstimatedMinutes
			if *p.EstimatedMinutes <= 0 {
				a.EstimatedMinutes = nil
			}
		}
		if p.Recurrence != nil {
			a.Recurrence = nullable(p.Recurrence)
		}
		if a.Title == "" {
			return invalid("activity title is required")
		}
		if err := validateRecurrence(a.Recurrence); err != nil {
			return err
		}

		r := codec.ActivityToRow(a)
		if _, err := tx.Exec(ctx, `UPDATE bored_activities SET category_id = ?, title = ?, description = ?,
			estimated_minutes = ?, recurrence = ? WHERE id = ?`,
			r.CategoryID, r.Title, r.Description, r.EstimatedMinutes, r.Recurrence, id); err != nil {
			return fmt.Errorf("failed to update activity: %w", err)
		}
		out = a
		return nil
	})
	return out, err
}

// MarkActivityDone completes an activity. A recurring activity stays
// available and counts the completion; any other activity is flagged done.
func (s *Store) MarkActivityDone(ctx context.Context, id string) (models.BoredActivity, error) {
	var out models.BoredActivity
	err := driver.InTx(ctx, s.drv, func(tx driver.Tx) error {
		a, err := s.getActivity(ctx, tx, id)
		if err != nil {
			return err
		}
		now := s.timestamp()
		if a.IsRecurring() {
			a.DoneCount++
			a.LastDoneAt = &now
			_, err = tx.Exec(ctx, "UPDATE bored_activities SET done_count = ?, last_done_at = ? WHERE id = ?",
				a.DoneCount, now, id)
		} else {
			a.IsDone = true
			a.CompletedAt = &now
			_, err = tx.Exec(ctx, "UPDATE bored_activities SET is_done = 1, completed_at = ? WHERE id = ?", now, id)
		}
		if err != nil {
			return fmt.Errorf("failed to mark activity done: %w", err)
		}
		out = a
		return nil
	})
	return out, err
}

// ArchiveActivity hides an activity from lists and the oracle
func (s *Store) ArchiveActivity(ctx context.Context, id string) error {
	res, err := s.drv.Exec(ctx, "UPDATE bored_activities SET archived_at = ? WHERE id = ?", s.timestamp(), id)
	if err != nil {
		return fmt.Errorf("failed to archive activity: %w", err)
	}
	return affected(res, "activity", id)
}

func (s *Store) DeleteActivity(ctx context.Context, id string) error {
	res, err := s.drv.Exec(ctx, "DELETE FROM bored_activities WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return affected(res, "activity", id)
}

// oracleFilter renders the category and time filters shared by both pools
func oracleFilter(q models.OracleQuery, categoryCol string) (string, []any) {
	var clause strings.Builder
	var args []any
	if len(q.ExcludedCategoryIDs) > 0 {
		marks := strings.TrimSuffix(strings.Repeat("?, ", len(q.ExcludedCategoryIDs)), ", ")
		fmt.Fprintf(&clause, " AND (%s IS NULL OR %s NOT IN (%s))", categoryCol, categoryCol, marks)
		for _, id := range q.ExcludedCategoryIDs {
			args = append(args, id)
		}
	}
	if q.MaxMinutes != nil {
		clause.WriteString(" AND (estimated_minutes IS NULL OR estimated_minutes <= ?)")
		args = append(args, *q.MaxMinutes)
	}
	return clause.String(), args
}

// GetBoredOracle draws one suggestion uniformly at random from the eligible
// activities and todos. It returns nil when nothing is eligible.
func (s *Store) GetBoredOracle(ctx context.Context, q models.OracleQuery) (*models.OracleSuggestion, error) {
	filter, args := oracleFilter(q, "category_id")
	activities, err := queryAll(ctx, s.drv, scanActivity,
		"SELECT "+codec.ActivityColumns+` FROM bored_activities
		WHERE archived_at IS NULL AND (is_done = 0 OR (recurrence IS NOT NULL AND recurrence <> ''))`+filter+
			" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read activities: %w", err)
	}
	todos, err := queryAll(ctx, s.drv, scanTodo,
		"SELECT "+codec.TodoColumns+` FROM todos
		WHERE include_in_oracle = 1 AND archived_at IS NULL AND is_done = 0`+filter+
			" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read todos: %w", err)
	}

	pool := make([]models.OracleSuggestion, 0, len(activities)+len(todos))
	for i := range activities {
		pool = append(pool, models.OracleSuggestion{Kind: "activity", Activity: &activities[i]})
	}
	for i := range todos {
		pool = append(pool, models.OracleSuggestion{Kind: "todo", Todo: &todos[i]})
	}

	pick, ok := analytics.Pick(pool, s.intn)
	if !ok {
		return nil, nil
	}
	return &pick, nil
}
