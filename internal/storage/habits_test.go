package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/tracklit/internal/constants"
	apperr "github.com/julianstephens/tracklit/internal/errors"
	"github.com/julianstephens/tracklit/internal/models"
)

func TestCreateHabitDefaults(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	hw, err := s.CreateHabit(ctx, models.HabitInput{Name: "Read"})
	require.NoError(t, err)
	assert.Equal(t, constants.HabitTypeBoolean, hw.Type)
	assert.Equal(t, constants.DefaultHabitColor, hw.Color)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, hw.DaysActive)
	assert.Equal(t, []string{}, hw.Tags)
	assert.Equal(t, map[string]string{}, hw.Annotations)
	require.NotNil(t, hw.Schedule)
	assert.Equal(t, constants.ScheduleDaily, hw.Schedule.ScheduleType)

	got, err := s.GetHabit(ctx, hw.ID)
	require.NoError(t, err)
	assert.Equal(t, hw, got)
}

func TestCreateHabitRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	_, err := s.CreateHabit(ctx, models.HabitInput{})
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)

	_, err = s.CreateHabit(ctx, models.HabitInput{Name: "x", Type: "SOMETIMES"})
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
}

func TestHabitTagsAndAnnotationsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	tests := []struct {
		name        string
		tags        []string
		annotations map[string]string
	}{
		{"populated", []string{"health", "morning", "with space"}, map[string]string{"why": "energy", "note": "\"quoted\""}},
		{"empty", []string{}, map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hw, err := s.CreateHabit(ctx, models.HabitInput{Name: tt.name, Tags: tt.tags, Annotations: tt.annotations})
			require.NoError(t, err)

			got, err := s.GetHabit(ctx, hw.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.tags, got.Tags)
			assert.Equal(t, tt.annotations, got.Annotations)
		})
	}
}

func TestMalformedTagsDoNotAffectSiblings(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	broken, err := s.CreateHabit(ctx, models.HabitInput{Name: "broken", Tags: []string{"a"}})
	require.NoError(t, err)
	fine, err := s.CreateHabit(ctx, models.HabitInput{Name: "fine", Tags: []string{"b"}})
	require.NoError(t, err)

	_, err = s.Driver().Exec(ctx, "UPDATE habits SET tags = ? WHERE id = ?", `["a",`, broken.ID)
	require.NoError(t, err)

	habits, err := s.ListHabits(ctx)
	require.NoError(t, err)
	require.Len(t, habits, 2)
	byID := map[string]models.HabitWithSchedule{}
	for _, h := range habits {
		byID[h.ID] = h
	}
	assert.Equal(t, []string{}, byID[broken.ID].Tags)
	assert.Equal(t, []string{"b"}, byID[fine.ID].Tags)
}

func TestUpdateHabit(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	hw, err := s.CreateHabit(ctx, models.HabitInput{Name: "Water", PausedUntil: ptr("2024-04-01")})
	require.NoError(t, err)

	got, err := s.UpdateHabit(ctx, hw.ID, models.HabitPatch{
		Type:        ptr(constants.HabitTypeNumeric),
		TargetValue: ptr(8.0),
		Tags:        &[]string{"hydration"},
		PausedUntil: ptr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Water", got.Name)
	assert.Equal(t, constants.HabitTypeNumeric, got.Type)
	assert.Equal(t, 8.0, got.TargetValue)
	assert.Nil(t, got.PausedUntil)

	reread, err := s.GetHabit(ctx, hw.ID)
	require.NoError(t, err)
	assert.Equal(t, got, reread)

	_, err = s.UpdateHabit(ctx, "missing", models.HabitPatch{Name: ptr("x")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestArchiveAndUnarchiveHabit(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	hw, err := s.CreateHabit(ctx, models.HabitInput{Name: "Stretch"})
	require.NoError(t, err)
	require.NoError(t, s.ArchiveHabit(ctx, hw.ID))

	active, err := s.ListHabits(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
	archived, err := s.ListArchivedHabits(ctx)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.NotNil(t, archived[0].ArchivedAt)

	require.NoError(t, s.UnarchiveHabit(ctx, hw.ID))
	active, err = s.ListHabits(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	assert.ErrorIs(t, s.ArchiveHabit(ctx, "missing"), apperr.ErrNotFound)
}

func TestDeleteHabitCascades(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	hw, err := s.CreateHabit(ctx, models.HabitInput{Name: "Run"})
	require.NoError(t, err)
	_, err = s.ToggleCompletion(ctx, hw.ID, "2024-03-10")
	require.NoError(t, err)
	_, err = s.AddLog(ctx, models.HabitLogInput{HabitID: hw.ID, Date: "2024-03-10", Value: 5})
	require.NoError(t, err)
	_, err = s.CreateReminder(ctx, models.ReminderInput{HabitID: hw.ID, Time: "07:30"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteHabit(ctx, hw.ID))
	for _, table := range []string{"habits", "habit_schedules", "completions", "habit_logs", "reminders"} {
		assert.Equal(t, 0, count(t, s, table), table)
	}
	assert.ErrorIs(t, s.DeleteHabit(ctx, hw.ID), apperr.ErrNotFound)
}

func TestUpdateSchedule(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	hw, err := s.CreateHabit(ctx, models.HabitInput{Name: "Gym"})
	require.NoError(t, err)

	sc, err := s.UpdateSchedule(ctx, hw.ID, models.SchedulePatch{
		ScheduleType:   ptr(constants.ScheduleTimesPerWeek),
		FrequencyCount: ptr(3),
		DaysOfWeek:     &[]int{1, 3, 5},
		DueTime:        ptr("18:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, constants.ScheduleTimesPerWeek, sc.ScheduleType)
	assert.Equal(t, ptr(3), sc.FrequencyCount)

	got, err := s.GetSchedule(ctx, hw.ID)
	require.NoError(t, err)
	assert.Equal(t, sc, got)

	cleared, err := s.UpdateSchedule(ctx, hw.ID, models.SchedulePatch{FrequencyCount: ptr(0), DueTime: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.FrequencyCount)
	assert.Nil(t, cleared.DueTime)

	_, err = s.UpdateSchedule(ctx, hw.ID, models.SchedulePatch{DueTime: ptr("25:00")})
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
}
