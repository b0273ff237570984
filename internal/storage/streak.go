package storage

import (
	"context"

	"github.com/julianstephens/tracklit/internal/analytics"
	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/validation"
)

// qualifyingDates loads a habit's raw rows and returns the dates on which
// it counts as done, newest first.
func (s *Store) qualifyingDates(ctx context.Context, habitID string) ([]string, error) {
	hw, err := s.GetHabit(ctx, habitID)
	if err != nil {
		return nil, err
	}
	h := hw.Habit

	var completions []models.Completion
	var logs []models.HabitLog
	if h.Type == "" || h.Type == constants.HabitTypeBoolean {
		completions, err = s.ListCompletions(ctx, habitID, "", "")
	} else {
		logs, err = s.ListLogs(ctx, habitID, "", "")
	}
	if err != nil {
		return nil, err
	}
	return analytics.QualifyingDates(h.Type, h.TargetValue, completions, logs), nil
}

// GetStreak computes the current and longest streak of a habit. today
// defaults to the store clock's date. Nothing is cached.
func (s *Store) GetStreak(ctx context.Context, habitID, today string) (models.Streak, error) {
	if today == "" {
		today = s.today()
	} else if !validation.IsValidDate(today) {
		return models.Streak{}, invalid("today must be YYYY-MM-DD")
	}

	dates, err := s.qualifyingDates(ctx, habitID)
	if err != nil {
		return models.Streak{}, err
	}
	current, longest := analytics.Streaks(dates, today)
	return models.Streak{HabitID: habitID, Current: current, Longest: longest}, nil
}

// GetHabitStats summarizes a habit over the inclusive range [from, to].
// Streaks are measured as of to.
func (s *Store) GetHabitStats(ctx context.Context, habitID, from, to string) (models.HabitStats, error) {
	if to == "" {
		to = s.today()
	}
	if !validation.IsValidDate(from) || !validation.IsValidDate(to) {
		return models.HabitStats{}, invalid("from and to must be YYYY-MM-DD")
	}
	if to < from {
		return models.HabitStats{}, invalid("from must not be after to")
	}

	dates, err := s.qualifyingDates(ctx, habitID)
	if err != nil {
		return models.HabitStats{}, err
	}

	stats := models.HabitStats{HabitID: habitID, From: from, To: to, Days: analytics.DaysBetween(from, to)}
	var inRange []string
	for _, d := range dates {
		if d >= from && d <= to {
			inRange = append(inRange, d)
		}
	}
	stats.QualifyingDays = len(inRange)
	if stats.Days > 0 {
		stats.CompletionRate = float64(stats.QualifyingDays) / float64(stats.Days)
	}
	stats.CurrentStreak, _ = analytics.Streaks(dates, to)
	_, stats.LongestStreak = analytics.Streaks(inRange, to)
	return stats, nil
}
