package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/tracklit/internal/models"
	"github.com/julianstephens/tracklit/internal/storage/codec"
	"github.com/julianstephens/tracklit/internal/storage/driver"
	"github.com/julianstephens/tracklit/internal/validation"
)

func scanTemplate(sc scanner) (models.CheckinTemplate, error) {
	var t models.CheckinTemplate
	err := sc.Scan(codec.TemplateDest(&t)...)
	return t, err
}

func scanQuestion(sc scanner) (models.CheckinQuestion, error) {
	var q models.CheckinQuestion
	err := sc.Scan(codec.QuestionDest(&q)...)
	return q, err
}

func scanResponse(sc scanner) (models.CheckinResponse, error) {
	var r models.CheckinResponse
	err := sc.Scan(codec.ResponseDest(&r)...)
	return r, err
}

func scanEntry(sc scanner) (models.CheckinEntry, error) {
	var e models.CheckinEntry
	err := sc.Scan(codec.EntryDest(&e)...)
	return e, err
}

func listQuestions(ctx context.Context, q driver.Querier, templateID string) ([]models.CheckinQuestion, error) {
	return queryAll(ctx, q, scanQuestion,
		"SELECT "+codec.QuestionColumns+" FROM checkin_questions WHERE template_id = ? ORDER BY display_order, id", templateID)
}

// ListTemplates returns every template with its questions in display order
func (s *Store) ListTemplates(ctx context.Context) ([]models.CheckinTemplate, error) {
	templates, err := queryAll(ctx, s.drv, scanTemplate,
		"SELECT "+codec.TemplateColumns+" FROM checkin_templates ORDER BY created_at, name")
	if err != nil {
		return nil, err
	}

	questions, err := queryAll(ctx, s.drv, scanQuestion,
		"SELECT "+codec.QuestionColumns+" FROM checkin_questions ORDER BY template_id, display_order, id")
	if err != nil {
		return nil, err
	}
	byTemplate := make(map[string][]models.CheckinQuestion)
	for _, q := range questions {
		byTemplate[q.TemplateID] = append(byTemplate[q.TemplateID], q)
	}
	for i := range templates {
		templates[i].Questions = byTemplate[templates[i].ID]
		if templates[i].Questions == nil {
			templates[i].Questions = []models.CheckinQuestion{}
		}
	}
	return templates, nil
}

// GetTemplate returns one template with its questions
func (s *Store) GetTemplate(ctx context.Context, id string) (models.CheckinTemplate, error) {
	return s.getTemplate(ctx, s.drv, id)
}

func (s *Store) getTemplate(ctx context.Context, q driver.Querier, id string) (models.CheckinTemplate, error) {
	t, err := queryOne(ctx, q, "template", id, scanTemplate,
		"SELECT "+codec.TemplateColumns+" FROM checkin_templates WHERE id = ?", id)
	if err != nil {
		return models.CheckinTemplate{}, err
	}
	if t.Questions, err = listQuestions(ctx, q, id); err != nil {
		return models.CheckinTemplate{}, err
	}
	return t, nil
}

func (s *Store) insertQuestion(ctx context.Context, tx driver.Tx, templateID string, order int, in models.QuestionInput) (models.CheckinQuestion, error) {
	if in.Prompt == "" {
		return models.CheckinQuestion{}, invalid("question prompt is required")
	}
	if !validation.IsResponseType(in.ResponseType) {
		return models.CheckinQuestion{}, invalid("unknown response type %q", in.ResponseType)
	}
	if in.DisplayOrder != nil {
		order = *in.DisplayOrder
	}
	q := models.CheckinQuestion{
		ID:           s.newID(),
		TemplateID:   templateID,
		Prompt:       in.Prompt,
		ResponseType: in.ResponseType,
		DisplayOrder: order,
	}
	if _, err := tx.Exec(ctx, "INSERT INTO checkin_questions ("+codec.QuestionColumns+") VALUES (?, ?, ?, ?, ?)",
		codec.QuestionArgs(q)...); err != nil {
		return models.CheckinQuestion{}, fmt.Errorf("failed to insert question: %w", err)
	}
	return q, nil
}

// CreateTemplate inserts a template and its questions in one transaction.
// Questions without an explicit order take their position in the input.
func (s *Store) CreateTemplate(ctx context.Context, in models.TemplateInput) (models.CheckinTemplate, error) {
	if in.Name == "" {
		return models.CheckinTemplate{}, invalid("template name is required")
	}
	t := models.CheckinTemplate{
		ID:          s.newID(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   s.timestamp(),
		Questions:   []models.CheckinQuestion{},
	}
	err := driver.InTx(ctx, s.drv, func(tx driver.Tx) error {
		if _, err := tx.Exec(ctx, "INSERT INTO checkin_templates ("+codec.TemplateColumns+") VALUES (?, ?, ?, ?)",
			codec.TemplateArgs(t)...); err != nil {
			return fmt.Errorf("failed to insert template: %w", err)
		}
		for i, qin := range in.Questions {
			q, err := s.insertQuestion(ctx, tx, t.ID, i, qin)
			if err != nil {
				return err
			}
			t.Questions = append(t.Questions, q)
		}
		return nil
	})
	if err != nil {
		return models.CheckinTemplate{}, err
	}
	return t, nil
}

// UpdateTemplate renames or redescribes a template
func (s *Store) UpdateTemplate(ctx context.Context, id string, p models.TemplatePatch) (models.CheckinTemplate, error) {
	var out models.CheckinTemplate
	err := driver.InTx(ctx, s.drv, func(tx driver.Tx) error {
		t, err := s.getTemplate(ctx, tx, id)
		if err != nil {
			return err
		}
		if p.Name != nil {
			t.Name = *p.Name
		}
		if p.Description != nil {
			t.Description = *p.Description
		}
		if t.Name == "" {
			return invalid("template name is required")
		}
		if _, err := tx.Exec(ctx, "UPDATE checkin_templates SET name = ?, description = ? WHERE id = ?",
			t.Name, t.Description, id); err != nil {
			return fmt.Errorf("failed to update template: %w", err)
		}
		out = t
		return nil
	})
	return out, err
}

// DeleteTemplate removes a template; its questions, their responses and
// its reminders cascade.
func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	res, err := s.drv.Exec(ctx, "DELETE FROM checkin_templates WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return affected(res, "template", id)
}

// AddQuestion appends a question to a template. Without an explicit order
// it goes after the current last question.
func (s *Store) AddQuestion(ctx context.Context, templateID string, in models.QuestionInput) (models.CheckinQuestion, error) {
	var out models.CheckinQuestion
	err := driver.InTx(ctx, s.drv, func(tx driver.Tx) error {
		if err := mustExist(ctx, tx, "checkin_templates", "template", templateID); err != nil {
			return err
		}
		var next int
		if err := tx.QueryRow(ctx, "SELECT COALESCE(MAX(display_order) + 1, 0) FROM checkin_questions WHERE template_id = ?",
			templateID).Scan(&next); err != nil {
			return fmt.Errorf("failed to read question order: %w", err)
		}
		q, err := s.insertQuestion(ctx, tx, templateID, next, in)
		out = q
		return err
	})
	return out, err
}

// UpdateQuestion applies a patch to a question
func (s *Store) UpdateQuestion(ctx context.Context, id string, p models.QuestionPatch) (models.CheckinQuestion, error) {
	var out models.CheckinQuestion
	err := driver.InTx(ctx, s.drv, func(tx driver.Tx) error {
		q, err := queryOne(ctx, tx, "question", id, scanQuestion,
			"SELECT "+codec.QuestionColumns+" FROM checkin_questions WHERE id = ?", id)
		if err != nil {
			return err
		}
		if p.Prompt != nil {
			q.Prompt = *p.Prompt
		}
		if p.ResponseType != nil {
			q.ResponseType = *p.ResponseType
		}
		if p.DisplayOrder != nil {
			q.DisplayOrder = *p.DisplayOrder
		}
		if q.Prompt == "" {
			return invalid("question prompt is required")
		}
		if !validation.IsResponseType(q.ResponseType) {
			return invalid("unknown response type %q", q.ResponseType)
		}
		if _, err := tx.Exec(ctx, "UPDATE checkin_questions SET prompt = ?, response_type = ?, display_order = ? WHERE id = ?",
			q.Prompt, q.ResponseType, q.DisplayOrder, id); err != nil {
			return fmt.Errorf("failed to update question: %w", err)
		}
		out = q
		return nil
	})
	return out, err
}

// DeleteQuestion removes a question and its responses
func (s *Store) DeleteQuestion(ctx context.Context, id string) error {
	res, err := s.drv.Exec(ctx, "DELETE FROM checkin_questions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return affected(res, "question", id)
}

// ReorderQuestions sets display_order to each question's index in ids.
// ids must name exactly the template's questions.
func (s *Store) ReorderQuestions(ctx context.Context, templateID string, ids []string) ([]models.CheckinQuestion, error) {
	var out []models.CheckinQuestion
	err := driver.InTx(ctx, s.drv, func(tx driver.Tx) error {
		if err := mustExist(ctx, tx, "checkin_templates", "template", templateID); err != nil {
			return err
		}
		current, err := listQuestions(ctx, tx, templateID)
		if err != nil {
			return err
		}
		known := make(map[string]bool, len(current))
		for _, q := range current {
			known[q.ID] = true
		}
		if len(ids) != len(current) {
			return invalid("expected %d question ids, got %d", len(current), len(ids))
		}
		seen := make(map[string]bool, len(ids))
		for i, id := range ids {
			if !known[id] || seen[id] {
				return invalid("question %s is not a distinct question of template %s", id, templateID)
			}
			seen[id] = true
			if _, err := tx.Exec(ctx, "UPDATE checkin_questions SET display_order = ? WHERE id = ?", i, id); err != nil {
				return fmt.Errorf("failed to reorder question: %w", err)
			}
		}
		out, err = listQuestions(ctx, tx, templateID)
		return err
	})
	return out, err
}

// UpsertResponse records the answer to a question on a date, replacing any
// earlier answer for the same pair.
func (s *Store) UpsertResponse(ctx context.Context, questionID, date, value string) (models.CheckinResponse, error) {
	if !validation.IsValidDate(date) {
		return models.CheckinResponse{}, invalid("date must be YYYY-MM-DD")
	}
	var out models.CheckinResponse
	err := driver.InTx(ctx, s.drv, func(tx driver.Tx) error {
		if err := mustExist(ctx, tx, "checkin_questions", "question", questionID); err != nil {
			return err
		}
		now := s.timestamp()
		cur, err := scanResponse(tx.QueryRow(ctx,
			"SELECT "+codec.ResponseColumns+" FROM checkin_responses WHERE question_id = ? AND date = ?", questionID, date))
		switch {
		case err == nil:
			cur.Value = value
			cur.UpdatedAt = now
			if _, err := tx.Exec(ctx, "UPDATE checkin_responses SET value = ?, updated_at = ? WHERE id = ?",
				value, now, cur.ID); err != nil {
				return fmt.Errorf("failed to update response: %w", err)
			}
			out = cur
			return nil
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("failed to read response: %w", err)
		}

		out = models.CheckinResponse{
			ID:         s.newID(),
			QuestionID: questionID,
			Date:       date,
			Value:      value,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if _, err := tx.Exec(ctx, "INSERT INTO checkin_responses ("+codec.ResponseColumns+") VALUES (?, ?, ?, ?, ?, ?)",
			codec.ResponseArgs(out)...); err != nil {
			return fmt.Errorf("failed to insert response: %w", err)
		}
		return nil
	})
	return out, err
}

// ListResponses returns the answers to a template's questions on a date,
// in question display order.
func (s *Store) ListResponses(ctx context.Context, templateID, date string) ([]models.CheckinResponse, error) {
	return queryAll(ctx, s.drv, scanResponse,
		`SELECT r.id, r.question_id, r.date, r.value, r.created_at, r.updated_at
		FROM checkin_responses r JOIN checkin_questions q ON q.id = r.question_id
		WHERE q.template_id = ? AND r.date = ?
		ORDER BY q.display_order, q.id`, templateID, date)
}

// UpsertEntry writes the journal entry of a date. There is at most one per
// date; a second write replaces the content.
func (s *Store) UpsertEntry(ctx context.Context, date, content string) (models.CheckinEntry, error) {
	if !validation.IsValidDate(date) {
		return models.CheckinEntry{}, invalid("date must be YYYY-MM-DD")
	}
	var out models.CheckinEntry
	err := driver.InTx(ctx, s.drv, func(tx driver.Tx) error {
		now := s.timestamp()
		cur, err := scanEntry(tx.QueryRow(ctx, "SELECT "+codec.EntryColumns+" FROM checkin_entries WHERE date = ?", date))
		switch {
		case err == nil:
			cur.Content = content
			cur.UpdatedAt = now
			if _, err := tx.Exec(ctx, "UPDATE checkin_entries SET content = ?, updated_at = ? WHERE id = ?",
				content, now, cur.ID); err != nil {
				return fmt.Errorf("failed to update entry: %w", err)
			}
			out = cur
			return nil
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("failed to read entry: %w", err)
		}

		out = models.CheckinEntry{ID: s.newID(), Date: date, Content: content, CreatedAt: now, UpdatedAt: now}
		if _, err := tx.Exec(ctx, "INSERT INTO checkin_entries ("+codec.EntryColumns+") VALUES (?, ?, ?, ?, ?)",
			codec.EntryArgs(out)...); err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}
		return nil
	})
	return out, err
}

// GetEntry returns the journal entry of a date
func (s *Store) GetEntry(ctx context.Context, date string) (models.CheckinEntry, error) {
	return queryOne(ctx, s.drv, "entry", date, scanEntry,
		"SELECT "+codec.EntryColumns+" FROM checkin_entries WHERE date = ?", date)
}

// ListEntries returns journal entries in an optional inclusive range,
// newest first.
func (s *Store) ListEntries(ctx context.Context, from, to string) ([]models.CheckinEntry, error) {
	clause, args, err := dateRange(from, to)
	if err != nil {
		return nil, err
	}
	return queryAll(ctx, s.drv, scanEntry,
		"SELECT "+codec.EntryColumns+" FROM checkin_entries WHERE 1 = 1"+clause+" ORDER BY date DESC", args...)
}

// DeleteEntry removes the journal entry of a date
func (s *Store) DeleteEntry(ctx context.Context, date string) error {
	res, err := s.drv.Exec(ctx, "DELETE FROM checkin_entries WHERE date = ?", date)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return affected(res, "entry", date)
}
