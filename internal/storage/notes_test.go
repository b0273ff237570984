package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/julianstephens/tracklit/internal/errors"
	"github.com/julianstephens/tracklit/internal/models"
)

func TestScribbleLifecycle(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	sc, err := s.CreateScribble(ctx, models.ScribbleInput{Title: "Ideas", Content: "one", Tags: []string{"work"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{}, sc.Annotations)

	updated, err := s.UpdateScribble(ctx, sc.ID, models.ScribblePatch{
		Content:     ptr("two"),
		Annotations: &map[string]string{"source": "shower"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ideas", updated.Title)
	assert.Equal(t, "two", updated.Content)
	assert.Equal(t, []string{"work"}, updated.Tags)

	got, err := s.GetScribble(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	list, err := s.ListScribbles(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.DeleteScribble(ctx, sc.ID))
	_, err = s.GetScribble(ctx, sc.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestReminders(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	a, err := s.CreateHabit(ctx, models.HabitInput{Name: "a"})
	require.NoError(t, err)
	b, err := s.CreateHabit(ctx, models.HabitInput{Name: "b"})
	require.NoError(t, err)

	r, err := s.CreateReminder(ctx, models.ReminderInput{HabitID: a.ID, Time: "08:00", Days: []int{1, 2}})
	require.NoError(t, err)
	assert.True(t, r.Enabled)
	_, err = s.CreateReminder(ctx, models.ReminderInput{HabitID: b.ID, Time: "09:00", Enabled: ptr(false)})
	require.NoError(t, err)

	forA, err := s.ListReminders(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, forA, 1)
	assert.Equal(t, []int{1, 2}, forA[0].Days)

	all, err := s.ListReminders(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	updated, err := s.UpdateReminder(ctx, r.ID, models.ReminderPatch{Enabled: ptr(false), Time: ptr("08:30")})
	require.NoError(t, err)
	assert.False(t, updated.Enabled)
	assert.Equal(t, "08:30", updated.Time)
	assert.Equal(t, a.ID, updated.HabitID)

	_, err = s.CreateReminder(ctx, models.ReminderInput{HabitID: a.ID, Time: "8am"})
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
	_, err = s.CreateReminder(ctx, models.ReminderInput{HabitID: "missing", Time: "08:00"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, s.DeleteReminder(ctx, r.ID))
	assert.ErrorIs(t, s.DeleteReminder(ctx, r.ID), apperr.ErrNotFound)
}

func TestCheckinReminders(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	tmpl := createTemplate(t, s)

	r, err := s.CreateCheckinReminder(ctx, models.CheckinReminderInput{TemplateID: tmpl.ID, Time: "21:00"})
	require.NoError(t, err)
	assert.Equal(t, tmpl.ID, r.TemplateID)
	assert.Equal(t, []int{}, r.Days)

	updated, err := s.UpdateCheckinReminder(ctx, r.ID, models.ReminderPatch{Days: &[]int{0, 6}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 6}, updated.Days)
	assert.Equal(t, tmpl.ID, updated.TemplateID)

	list, err := s.ListCheckinReminders(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.CheckinReminder{updated}, list)

	require.NoError(t, s.DeleteCheckinReminder(ctx, r.ID))
}
