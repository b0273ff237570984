package models

// CheckinTemplate groups an ordered list of questions
type CheckinTemplate struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	CreatedAt   string            `json:"created_at"`
	Questions   []CheckinQuestion `json:"questions,omitempty"`
}

// CheckinQuestion is one prompt of a template
type CheckinQuestion struct {
	ID           string `json:"id"`
	TemplateID   string `json:"template_id"`
	Prompt       string `json:"prompt"`
	ResponseType string `json:"response_type"` // SCALE, TEXT or BOOLEAN
	DisplayOrder int    `json:"display_order"`
}

// CheckinResponse is unique per (question, date)
type CheckinResponse struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id"`
	Date       string `json:"date"`
	Value      string `json:"value"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// CheckinEntry is the single free-text journal entry of a calendar date
type CheckinEntry struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
