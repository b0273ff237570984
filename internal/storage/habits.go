package storage

import (
	"context"
	"fmt"

	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/storage/codec"
	"github.com/julianstephens/tracklit/internal/storage/driver"
	"github.com/julianstephens/tracklit/internal/validation"
)

var allWeekdays = []int{0, 1, 2, 3, 4, 5, 6}

func scanHabit(sc scanner) (models.Habit, error) {
	var r codec.HabitRow
	if err := sc.Scan(r.Dest()...); err != nil {
		return models.Habit{}, err
	}
	return codec.HabitFromRow(r), nil
}

func scanSchedule(sc scanner) (models.HabitSchedule, error) {
	var r codec.ScheduleRow
	if err := sc.Scan(r.Dest()...); err != nil {
		return models.HabitSchedule{}, err
	}
	return codec.ScheduleFromRow(r), nil
}

func validateHabit(h models.Habit) error {
	if h.Name == "" {
		return invalid("habit name is required")
	}
	if !validation.IsHabitType(h.Type) {
		return invalid("unknown habit type %q", h.Type)
	}
	if h.TargetValue < 0 {
		return invalid("target_value must not be negative")
	}
	if !validation.IsValidWeekdays(h.DaysActive) {
		return invalid("days_active must be weekdays 0-6")
	}
	if h.PausedUntil != nil && !validation.IsValidDate(*h.PausedUntil) {
		return invalid("paused_until must be YYYY-MM-DD")
	}
	return nil
}

// CreateHabit inserts a habit and its default daily schedule and returns the
// joined view. Names are not unique.
func (s *Store) CreateHabit(ctx context.Context, in models.HabitInput) (models.HabitWithSchedule, error) {
	h := models.Habit{
		ID:          s.newID(),
		Name:        in.Name,
		Description: in.Description,
		Color:       in.Color,
		Icon:        in.Icon,
		Frequency:   in.Frequency,
		DaysActive:  in.DaysActive,
		CreatedAt:   s.timestamp(),
		Tags:        in.Tags,
		Annotations: in.Annotations,
		Type:        in.Type,
		TargetValue: in.TargetValue,
		PausedUntil: nullable(in.PausedUntil),
	}
	if h.Color == "" {
		h.Color = constants.DefaultHabitColor
	}
	if h.Icon == "" {
		h.Icon = constants.DefaultHabitIcon
	}
	if h.Frequency == "" {
		h.Frequency = constants.DefaultHabitFrequency
	}
	if h.DaysActive == nil {
		h.DaysActive = append([]int(nil), allWeekdays...)
	}
	if h.Type == "" {
		h.Type = constants.HabitTypeBoolean
	}
	if h.Tags == nil {
		h.Tags = []string{}
	}
	if h.Annotations == nil {
		h.Annotations = map[string]string{}
	}
	if err := validateHabit(h); err != nil {
		return models.HabitWithSchedule{}, err
	}

	sched := models.HabitSchedule{
		ID:           s.newID(),
		HabitID:      h.ID,
		ScheduleType: constants.ScheduleDaily,
		DaysOfWeek:   []int{},
	}

	err := driver.InTx(ctx, s.drv, func(tx driver.Tx) error {
		if _, err := tx.Exec(ctx, "INSERT INTO habits ("+codec.HabitColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			codec.HabitToRow(h).Args()...); err != nil {
			return fmt.Errorf("failed to insert habit: %w", err)
		}
		if _, err := tx.Exec(ctx, "INSERT INTO habit_schedules ("+codec.ScheduleColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			codec.ScheduleToRow(sched).Args()...); err != nil {
			return fmt.Errorf("failed to insert schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.HabitWithSchedule{}, err
	}
	return models.HabitWithSchedule{Habit: h, Schedule: &sched}, nil
}

// GetHabit returns one habit, archived or not, with its schedule
func (s *Store) GetHabit(ctx context.Context, id string) (models.HabitWithSchedule, error) {
	return s.getHabit(ctx, s.drv, id)
}

func (s *Store) getHabit(ctx context.Context, q driver.Querier, id string) (models.HabitWithSchedule, error) {
	h, err := queryOne(ctx, q, "habit", id, scanHabit, "SELECT "+codec.HabitColumns+" FROM habits WHERE id = ?", id)
	if err != nil {
		return models.HabitWithSchedule{}, err
	}
	out := models.HabitWithSchedule{Habit: h}
	scheds, err := queryAll(ctx, q, scanSchedule, "SELECT "+codec.ScheduleColumns+" FROM habit_schedules WHERE habit_id = ?", id)
	if err != nil {
		return models.HabitWithSchedule{}, err
	}
	if len(scheds) > 0 {
		out.Schedule = &scheds[0]
	}
	return out, nil
}

// ListHabits returns active (not archived) habits in creation order
func (s *Store) ListHabits(ctx context.Context) ([]models.HabitWithSchedule, error) {
	return s.listHabits(ctx, "archived_at IS NULL")
}

// ListArchivedHabits returns archived habits in creation order
func (s *Store) ListArchivedHabits(ctx context.Context) ([]models.HabitWithSchedule, error) {
	return s.listHabits(ctx, "archived_at IS NOT NULL")
}

func (s *Store) listHabits(ctx context.Context, where string) ([]models.HabitWithSchedule, error) {
	habits, err := queryAll(ctx, s.drv, scanHabit, "SELECT "+codec.HabitColumns+" FROM habits WHERE "+where+" ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	scheds, err := queryAll(ctx, s.drv, scanSchedule, "SELECT "+codec.ScheduleColumns+" FROM habit_schedules")
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	byHabit := make(map[string]models.HabitSchedule, len(scheds))
	for _, sc := range scheds {
		byHabit[sc.HabitID] = sc
	}

	out := make([]models.HabitWithSchedule, 0, len(habits))
	for _, h := range habits {
		hw := models.HabitWithSchedule{Habit: h}
		if sc, ok := byHabit[h.ID]; ok {
			hw.Schedule = &sc
		}
		out = append(out, hw)
	}
	return out, nil
}

// UpdateHabit applies a patch to a habit
func (s *Store) UpdateHabit(ctx context.Context, id string, p models.HabitPatch) (models.HabitWithSchedule, error) {
	var out models.HabitWithSchedule
	err := driver.InTx(ctx, s.drv, func(tx driver.Tx) error {
		cur, err := s.getHabit(ctx, tx, id)
		if err != nil {
			return err
		}
		h := cur.Habit
		if p.Name != nil {
			h.Name = *p.Name
		}
		if p.Description != nil {
			h.Description = *p.Description
		}
		if p.Color != nil {
			h.Color = *p.Color
		}
		if p.Icon != nil {
			h.Icon = *p.Icon
		}
		if p.Frequency != nil {
			h.Frequency = *p.Frequency
		}
		if p.DaysActive != nil {
			h.DaysActive = *p.DaysActive
		}
		if p.Tags != nil {
			h.Tags = *p.Tags
		}
		if p.Annotations != nil {
			h.Annotations = *p.Annotations
		}
		if p.Type != nil {
			h.Type = *p.Type
		}
		if p.TargetValue != nil {
			h.TargetValue = *p.TargetValue
		}
		if p.PausedUntil != nil {
			h.PausedUntil = nullable(p.PausedUntil)
		}
		if err := validateHabit(h); err != nil {
			return err
		}

		r := codec.HabitToRow(h)
		_, err = tx.Exec(ctx, `UPDATE habits SET name = ?, description = ?, color = ?, icon = ?, frequency = ?,
			days_active = ?, tags = ?, annotations = ?, type = ?, target_value = ?, paused_until = ? WHERE id = ?`,
			r.Name, r.Description, r.Color, r.Icon, r.Frequency, r.DaysActive, r.Tags, r.Annotations,
			r.Type, r.TargetValue, r.PausedUntil, id)
		if err != nil {
			return fmt.Errorf("failed to update habit: %w", err)
		}
		out = models.HabitWithSchedule{Habit: h, Schedule: cur.Schedule}
		return nil
	})
	return out, err
}

// ArchiveHabit soft-deletes a habit; it stays readable by id
func (s *Store) ArchiveHabit(ctx context.Context, id string) error {
	res, err := s.drv.Exec(ctx, "UPDATE habits SET archived_at = ? WHERE id = ?", s.timestamp(), id)
	if err != nil {
		return fmt.Errorf("failed to archive habit: %w", err)
	}
	return affected(res, "habit", id)
}

// UnarchiveHabit returns an archived habit to the active list
func (s *Store) UnarchiveHabit(ctx context.Context, id string) error {
	res, err := s.drv.Exec(ctx, "UPDATE habits SET archived_at = NULL WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to unarchive habit: %w", err)
	}
	return affected(res, "habit", id)
}

// DeleteHabit hard-deletes a habit; completions, logs, the schedule and
// reminders cascade with it.
func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	res, err := s.drv.Exec(ctx, "DELETE FROM habits WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return affected(res, "habit", id)
}

// GetSchedule returns the schedule of a habit
func (s *Store) GetSchedule(ctx context.Context, habitID string) (models.HabitSchedule, error) {
	return queryOne(ctx, s.drv, "schedule", habitID, scanSchedule,
		"SELECT "+codec.ScheduleColumns+" FROM habit_schedules WHERE habit_id = ?", habitID)
}

// UpdateSchedule applies a patch to the schedule of a habit
func (s *Store) UpdateSchedule(ctx context.Context, habitID string, p models.SchedulePatch) (models.HabitSchedule, error) {
	var out models.HabitSchedule
	err := driver.InTx(ctx, s.drv, func(tx driver.Tx) error {
		sc, err := queryOne(ctx, tx, "schedule", habitID, scanSchedule,
			"SELECT "+codec.ScheduleColumns+" FROM habit_schedules WHERE habit_id = ?", habitID)
		if err != nil {
			return err
		}
		if p.ScheduleType != nil {
			sc.ScheduleType = *p.ScheduleType
		}
		if p.FrequencyCount != nil {
			sc.FrequencyCount = p.FrequencyCount
			if *p.FrequencyCount <= 0 {
				sc.FrequencyCount = nil
			}
		}
		if p.DaysOfWeek != nil {
			sc.DaysOfWeek = *p.DaysOfWeek
		}
		if p.DueTime != nil {
			sc.DueTime = nullable(p.DueTime)
		}
		if p.StartDate != nil {
			sc.StartDate = nullable(p.StartDate)
		}
		if p.EndDate != nil {
			sc.EndDate = nullable(p.EndDate)
		}

		switch {
		case !validation.IsScheduleType(sc.ScheduleType):
			return invalid("unknown schedule type %q", sc.ScheduleType)
		case !validation.IsValidWeekdays(sc.DaysOfWeek):
			return invalid("days_of_week must be weekdays 0-6")
		case sc.DueTime != nil && !validation.IsValidTime(*sc.DueTime):
			return invalid("due_time must be HH:MM")
		case sc.StartDate != nil && !validation.IsValidDate(*sc.StartDate):
			return invalid("start_date must be YYYY-MM-DD")
		case sc.EndDate != nil && !validation.IsValidDate(*sc.EndDate):
			return invalid("end_date must be YYYY-MM-DD")
		}

		r := codec.ScheduleToRow(sc)
		_, err = tx.Exec(ctx, `UPDATE habit_schedules SET schedule_type = ?, frequency_count = ?, days_of_week = ?,
			due_time = ?, start_date = ?, end_date = ? WHERE id = ?`,
			r.ScheduleType, r.FrequencyCount, r.DaysOfWeek, r.DueTime, r.StartDate, r.EndDate, r.ID)
		if err != nil {
			return fmt.Errorf("failed to update schedule: %w", err)
		}
		out = sc
		return nil
	})
	return out, err
}
