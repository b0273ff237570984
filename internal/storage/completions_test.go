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

func TestToggleCompletionIsItsOwnInverse(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	hw, err := s.CreateHabit(ctx, models.HabitInput{Name: "Meditate"})
	require.NoError(t, err)

	c, err := s.ToggleCompletion(ctx, hw.ID, "2024-03-10")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, hw.ID, c.HabitID)
	assert.Equal(t, 1, count(t, s, "completions"))

	c, err = s.ToggleCompletion(ctx, hw.ID, "2024-03-10")
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Equal(t, 0, count(t, s, "completions"))
}

func TestToggleCompletionErrors(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	_, err := s.ToggleCompletion(ctx, "missing", "2024-03-10")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	hw, err := s.CreateHabit(ctx, models.HabitInput{Name: "x"})
	require.NoError(t, err)
	_, err = s.ToggleCompletion(ctx, hw.ID, "10/03/2024")
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
}

func TestListCompletionsRange(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	hw, err := s.CreateHabit(ctx, models.HabitInput{Name: "Walk"})
	require.NoError(t, err)
	for _, d := range []string{"2024-03-01", "2024-03-05", "2024-03-09"} {
		_, err := s.ToggleCompletion(ctx, hw.ID, d)
		require.NoError(t, err)
	}

	all, err := s.ListCompletions(ctx, hw.ID, "", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-03-09", all[0].Date)

	ranged, err := s.ListCompletions(ctx, hw.ID, "2024-03-02", "2024-03-09")
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	byDate, err := s.ListCompletionsByDate(ctx, "2024-03-05")
	require.NoError(t, err)
	assert.Len(t, byDate, 1)

	none, err := s.ListCompletionsByDate(ctx, "2020-01-01")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestLogs(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	hw, err := s.CreateHabit(ctx, models.HabitInput{Name: "Water", Type: constants.HabitTypeNumeric, TargetValue: 8})
	require.NoError(t, err)

	first, err := s.AddLog(ctx, models.HabitLogInput{HabitID: hw.ID, Date: "2024-03-10", Value: 3, Notes: ptr("morning")})
	require.NoError(t, err)
	_, err = s.AddLog(ctx, models.HabitLogInput{HabitID: hw.ID, Date: "2024-03-10", Value: 5})
	require.NoError(t, err)
	_, err = s.AddLog(ctx, models.HabitLogInput{HabitID: hw.ID, Date: "2024-03-08", Value: 8})
	require.NoError(t, err)

	logs, err := s.ListLogs(ctx, hw.ID, "2024-03-09", "")
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	byDate, err := s.ListLogsByDate(ctx, "2024-03-10")
	require.NoError(t, err)
	require.Len(t, byDate, 2)

	require.NoError(t, s.DeleteLog(ctx, first.ID))
	assert.ErrorIs(t, s.DeleteLog(ctx, first.ID), apperr.ErrNotFound)

	_, err = s.AddLog(ctx, models.HabitLogInput{HabitID: "missing", Date: "2024-03-10", Value: 1})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
