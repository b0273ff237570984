package models

// Reminder triggers at Time on Days (0=Sunday); empty Days means every day.
type Reminder struct {
	ID        string `json:"id"`
	HabitID   string `json:"habit_id"`
	Time      string `json:"time"` // HH:MM
	Days      []int  `json:"days"`
	Enabled   bool   `json:"enabled"`
	CreatedAt string `json:"created_at"`
}

// CheckinReminder is a Reminder attached to a check-in template
type CheckinReminder struct {
	ID         string `json:"id"`
	TemplateID string `json:"template_id"`
	Time       string `json:"time"`
	Days       []int  `json:"days"`
	Enabled    bool   `json:"enabled"`
	CreatedAt  string `json:"created_at"`
}
