package codec

import "github.com/julianstephens/tracklit/internal/models"

// Check-in rows have no JSON or nullable columns, so the records scan
// directly.

const TemplateColumns = "id, name, description, created_at"

func TemplateDest(t *models.CheckinTemplate) []any {
	return []any{&t.ID, &t.Name, &t.Description, &t.CreatedAt}
}

func TemplateArgs(t models.CheckinTemplate) []any {
	return []any{t.ID, t.Name, t.Description, t.CreatedAt}
}

const QuestionColumns = "id, template_id, prompt, response_type, display_order"

func QuestionDest(q *models.CheckinQuestion) []any {
	return []any{&q.ID, &q.TemplateID, &q.Prompt, &q.ResponseType, &q.DisplayOrder}
}

func QuestionArgs(q models.CheckinQuestion) []any {
	return []any{q.ID, q.TemplateID, q.Prompt, q.ResponseType, q.DisplayOrder}
}

const ResponseColumns = "id, question_id, date, value, created_at, updated_at"

func ResponseDest(r *models.CheckinResponse) []any {
	return []any{&r.ID, &r.QuestionID, &r.Date, &r.Value, &r.CreatedAt, &r.UpdatedAt}
}

func ResponseArgs(r models.CheckinResponse) []any {
	return []any{r.ID, r.QuestionID, r.Date, r.Value, r.CreatedAt, r.UpdatedAt}
}

const EntryColumns = "id, date, content, created_at, updated_at"

func EntryDest(e *models.CheckinEntry) []any {
	return []any{&e.ID, &e.Date, &e.Content, &e.CreatedAt, &e.UpdatedAt}
}

func EntryArgs(e models.CheckinEntry) []any {
	return []any{e.ID, e.Date, e.Content, e.CreatedAt, e.UpdatedAt}
}
