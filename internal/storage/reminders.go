package storage

import (
	"context"
	"fmt"

	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/storage/codec"
	"github.com/julianstephens/tracklit/internal/storage/driver"
	"github.com/julianstephens/tracklit/internal/validation"
)

// reminderKind describes one of the two reminder tables
type reminderKind struct {
	table   string
	columns string
	parent  string // parent column
	owner   string // parent table
	noun    string
}

var (
	habitReminders = reminderKind{
		table: "reminders", columns: codec.ReminderColumns,
		parent: "habit_id", owner: "habits", noun: "habit",
	}
	checkinReminders = reminderKind{
		table: "checkin_reminders", columns: codec.CheckinReminderColumns,
		parent: "template_id", owner: "checkin_templates", noun: "template",
	}
)

func scanReminderRow(sc scanner) (codec.ReminderRow, error) {
	var r codec.ReminderRow
	err := sc.Scan(r.Dest()...)
	return r, err
}

func validateReminder(t string, days []int) error {
	if !validation.IsValidTime(t) {
		return invalid("time must be HH:MM")
	}
	if !validation.IsValidWeekdays(days) {
		return invalid("days must be weekdays 0-6")
	}
	return nil
}

func (s *Store) listReminderRows(ctx context.Context, k reminderKind, parentID string) ([]codec.ReminderRow, error) {
	query := "SELECT " + k.columns + " FROM " + k.table
	var args []any
	if parentID != "" {
		query += " WHERE " + k.parent + " = ?"
		args = append(args, parentID)
	}
	return queryAll(ctx, s.drv, scanReminderRow, query+" ORDER BY reminder_time, id", args...)
}

func (s *Store) createReminderRow(ctx context.Context, k reminderKind, parentID, t string, days []int, enabled *bool) (codec.ReminderRow, error) {
	if days == nil {
		days = []int{}
	}
	if err := validateReminder(t, days); err != nil {
		return codec.ReminderRow{}, err
	}
	if err := mustExist(ctx, s.drv, k.owner, k.noun, parentID); err != nil {
		return codec.ReminderRow{}, err
	}
	on := enabled == nil || *enabled
	r := codec.ReminderToRow(models.Reminder{
		ID:        s.newID(),
		HabitID:   parentID,
		Time:      t,
		Days:      days,
		Enabled:   on,
		CreatedAt: s.timestamp(),
	})
	if _, err := s.drv.Exec(ctx, "INSERT INTO "+k.table+" ("+k.columns+") VALUES (?, ?, ?, ?, ?, ?)", r.Args()...); err != nil {
		return codec.ReminderRow{}, fmt.Errorf("failed to insert reminder: %w", err)
	}
	return r, nil
}

func (s *Store) updateReminderRow(ctx context.Context, k reminderKind, id string, p models.ReminderPatch) (codec.ReminderRow, error) {
	var out codec.ReminderRow
	err := driver.InTx(ctx, s.drv, func(tx driver.Tx) error {
		r, err := queryOne(ctx, tx, "reminder", id, scanReminderRow,
			"SELECT "+k.columns+" FROM "+k.table+" WHERE id = ?", id)
		if err != nil {
			return err
		}
		m := codec.ReminderFromRow(r)
		if p.Time != nil {
			m.Time = *p.Time
		}
		if p.Days != nil {
			m.Days = *p.Days
		}
		if p.Enabled != nil {
			m.Enabled = *p.Enabled
		}
		if err := validateReminder(m.Time, m.Days); err != nil {
			return err
		}
		out = codec.ReminderToRow(m)
		if _, err := tx.Exec(ctx, "UPDATE "+k.table+" SET reminder_time = ?, days = ?, enabled = ? WHERE id = ?",
			out.Time, out.Days, out.Enabled, id); err != nil {
			return fmt.Errorf("failed to update reminder: %w", err)
		}
		return nil
	})
	return out, err
}

func (s *Store) deleteReminderRow(ctx context.Context, k reminderKind, id string) error {
	res, err := s.drv.Exec(ctx, "DELETE FROM "+k.table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return affected(res, "reminder", id)
}

// ListReminders returns the reminders of one habit, or of every habit when
// habitID is empty.
func (s *Store) ListReminders(ctx context.Context, habitID string) ([]models.Reminder, error) {
	rows, err := s.listReminderRows(ctx, habitReminders, habitID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Reminder, 0, len(rows))
	for _, r := range rows {
		out = append(out, codec.ReminderFromRow(r))
	}
	return out, nil
}

func (s *Store) CreateReminder(ctx context.Context, in models.ReminderInput) (models.Reminder, error) {
	r, err := s.createReminderRow(ctx, habitReminders, in.HabitID, in.Time, in.Days, in.Enabled)
	if err != nil {
		return models.Reminder{}, err
	}
	return codec.ReminderFromRow(r), nil
}

func (s *Store) UpdateReminder(ctx context.Context, id string, p models.ReminderPatch) (models.Reminder, error) {
	r, err := s.updateReminderRow(ctx, habitReminders, id, p)
	if err != nil {
		return models.Reminder{}, err
	}
	return codec.ReminderFromRow(r), nil
}

func (s *Store) DeleteReminder(ctx context.Context, id string) error {
	return s.deleteReminderRow(ctx, habitReminders, id)
}

// ListCheckinReminders returns the reminders of one template, or of every
// template when templateID is empty.
func (s *Store) ListCheckinReminders(ctx context.Context, templateID string) ([]models.CheckinReminder, error) {
	rows, err := s.listReminderRows(ctx, checkinReminders, templateID)
	if err != nil {
		return nil, err
	}
	out := make([]models.CheckinReminder, 0, len(rows))
	for _, r := range rows {
		out = append(out, codec.CheckinReminderFromRow(r))
	}
	return out, nil
}

func (s *Store) CreateCheckinReminder(ctx context.Context, in models.CheckinReminderInput) (models.CheckinReminder, error) {
	r, err := s.createReminderRow(ctx, checkinReminders, in.TemplateID, in.Time, in.Days, in.Enabled)
	if err != nil {
		return models.CheckinReminder{}, err
	}
	return codec.CheckinReminderFromRow(r), nil
}

func (s *Store) UpdateCheckinReminder(ctx context.Context, id string, p models.ReminderPatch) (models.CheckinReminder, error) {
	r, err := s.updateReminderRow(ctx, checkinReminders, id, p)
	if err != nil {
		return models.CheckinReminder{}, err
	}
	return codec.CheckinReminderFromRow(r), nil
}

func (s *Store) DeleteCheckinReminder(ctx context.Context, id string) error {
	return s.deleteReminderRow(ctx, checkinReminders, id)
}
