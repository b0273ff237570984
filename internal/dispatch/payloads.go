package dispatch

import "github.com/julianstephens/tracklit/internal/models"

// Request payloads. Fields are named as they appear on the wire.

type idPayload struct {
	ID string `json:"id"`
}

type datePayload struct {
	Date string `json:"date"`
}

type rangePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type habitRangePayload struct {
	HabitID string `json:"habit_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

type habitDatePayload struct {
	HabitID string `json:"habit_id"`
	Date    string `json:"date"`
}

type streakPayload struct {
	HabitID string `json:"habit_id"`
	Today   string `json:"today"`
}

// patchPayload targets the record with ID
type patchPayload[P any] struct {
	ID    string `json:"id"`
	Patch P      `json:"patch"`
}

type habitPayload struct {
	HabitID string `json:"habit_id"`
}

type templatePayload struct {
	TemplateID string `json:"template_id"`
}

type addQuestionPayload struct {
	TemplateID string               `json:"template_id"`
	Question   models.QuestionInput `json:"question"`
}

type reorderPayload struct {
	TemplateID  string   `json:"template_id"`
	QuestionIDs []string `json:"question_ids"`
}

type responsePayload struct {
	QuestionID string `json:"question_id"`
	Date       string `json:"date"`
	Value      string `json:"value"`
}

type responsesPayload struct {
	TemplateID string `json:"template_id"`
	Date       string `json:"date"`
}

type entryPayload struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}

type activitiesPayload struct {
	CategoryID      string `json:"category_id"`
	IncludeArchived bool   `json:"include_archived"`
}

type todosPayload struct {
	IncludeArchived bool `json:"include_archived"`
}
