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

func createTemplate(t *testing.T, s *Store) models.CheckinTemplate {
	t.Helper()
	tmpl, err := s.CreateTemplate(context.Background(), models.TemplateInput{
		Name: "Evening",
		Questions: []models.QuestionInput{
			{Prompt: "Mood?", ResponseType: constants.ResponseScale},
			{Prompt: "Highlight?", ResponseType: constants.ResponseText},
			{Prompt: "Exercised?", ResponseType: constants.ResponseBoolean},
		},
	})
	require.NoError(t, err)
	return tmpl
}

func TestCreateAndGetTemplate(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	tmpl := createTemplate(t, s)
	require.Len(t, tmpl.Questions, 3)
	for i, q := range tmpl.Questions {
		assert.Equal(t, i, q.DisplayOrder)
	}

	got, err := s.GetTemplate(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, tmpl, got)

	all, err := s.ListTemplates(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3) // two seeded defaults

	_, err = s.CreateTemplate(ctx, models.TemplateInput{Name: "bad", Questions: []models.QuestionInput{{Prompt: "?", ResponseType: "EMOJI"}}})
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
	assert.Len(t, mustList(t, s), 3)
}

func mustList(t *testing.T, s *Store) []models.CheckinTemplate {
	t.Helper()
	all, err := s.ListTemplates(context.Background())
	require.NoError(t, err)
	return all
}

func TestQuestionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	tmpl := createTemplate(t, s)

	added, err := s.AddQuestion(ctx, tmpl.ID, models.QuestionInput{Prompt: "Sleep hours?", ResponseType: constants.ResponseScale})
	require.NoError(t, err)
	assert.Equal(t, 3, added.DisplayOrder)

	updated, err := s.UpdateQuestion(ctx, added.ID, models.QuestionPatch{Prompt: ptr("Hours slept?")})
	require.NoError(t, err)
	assert.Equal(t, "Hours slept?", updated.Prompt)

	ids := []string{added.ID, tmpl.Questions[2].ID, tmpl.Questions[1].ID, tmpl.Questions[0].ID}
	reordered, err := s.ReorderQuestions(ctx, tmpl.ID, ids)
	require.NoError(t, err)
	for i, q := range reordered {
		assert.Equal(t, ids[i], q.ID)
		assert.Equal(t, i, q.DisplayOrder)
	}

	_, err = s.ReorderQuestions(ctx, tmpl.ID, ids[:2])
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)

	require.NoError(t, s.DeleteQuestion(ctx, added.ID))
	got, err := s.GetTemplate(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Len(t, got.Questions, 3)

	_, err = s.AddQuestion(ctx, "missing", models.QuestionInput{Prompt: "?", ResponseType: constants.ResponseText})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpsertResponseReplaces(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	tmpl := createTemplate(t, s)
	q := tmpl.Questions[0]

	first, err := s.UpsertResponse(ctx, q.ID, "2024-03-10", "3")
	require.NoError(t, err)
	second, err := s.UpsertResponse(ctx, q.ID, "2024-03-10", "4")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "4", second.Value)

	_, err = s.UpsertResponse(ctx, tmpl.Questions[1].ID, "2024-03-10", "a good walk")
	require.NoError(t, err)

	responses, err := s.ListResponses(ctx, tmpl.ID, "2024-03-10")
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, q.ID, responses[0].QuestionID)
	assert.Equal(t, "4", responses[0].Value)

	_, err = s.UpsertResponse(ctx, "missing", "2024-03-10", "1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteTemplateCascades(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	tmpl := createTemplate(t, s)
	_, err := s.UpsertResponse(ctx, tmpl.Questions[0].ID, "2024-03-10", "5")
	require.NoError(t, err)
	_, err = s.CreateCheckinReminder(ctx, models.CheckinReminderInput{TemplateID: tmpl.ID, Time: "21:00"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteTemplate(ctx, tmpl.ID))
	assert.Equal(t, 0, count(t, s, "checkin_responses"))
	assert.Equal(t, 0, count(t, s, "checkin_reminders"))
	_, err = s.GetTemplate(ctx, tmpl.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestEntries(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	first, err := s.UpsertEntry(ctx, "2024-03-10", "draft")
	require.NoError(t, err)
	second, err := s.UpsertEntry(ctx, "2024-03-10", "final")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, count(t, s, "checkin_entries"))

	_, err = s.UpsertEntry(ctx, "2024-03-01", "older")
	require.NoError(t, err)

	got, err := s.GetEntry(ctx, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, "final", got.Content)

	entries, err := s.ListEntries(ctx, "2024-03-05", "")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, s.DeleteEntry(ctx, "2024-03-10"))
	_, err = s.GetEntry(ctx, "2024-03-10")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
