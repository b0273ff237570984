package models

// Inputs carry caller-supplied fields for creates. Patches carry optional
// fields for updates: a nil field is left unchanged. For nullable text
// columns an empty string clears the value.

type HabitInput struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Color       string            `json:"color"`
	Icon        string            `json:"icon"`
	Frequency   string            `json:"frequency"`
	DaysActive  []int             `json:"days_active"`
	Tags        []string          `json:"tags"`
	Annotations map[string]string `json:"annotations"`
	Type        string            `json:"type"`
	TargetValue float64           `json:"target_value"`
	PausedUntil *string           `json:"paused_until"`
}

type HabitPatch struct {
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	Color       *string            `json:"color"`
	Icon        *string            `json:"icon"`
	Frequency   *string            `json:"frequency"`
	DaysActive  *[]int             `json:"days_active"`
	Tags        *[]string          `json:"tags"`
	Annotations *map[string]string `json:"annotations"`
	Type        *string            `json:"type"`
	TargetValue *float64           `json:"target_value"`
	PausedUntil *string            `json:"paused_until"`
}

// SchedulePatch updates a habit schedule. A FrequencyCount of zero or less
// clears it.
type SchedulePatch struct {
	ScheduleType   *string `json:"schedule_type"`
	FrequencyCount *int    `json:"frequency_count"`
	DaysOfWeek     *[]int  `json:"days_of_week"`
	DueTime        *string `json:"due_time"`
	StartDate      *string `json:"start_date"`
	EndDate        *string `json:"end_date"`
}

type HabitLogInput struct {
	HabitID string  `json:"habit_id"`
	Date    string  `json:"date"`
	Value   float64 `json:"value"`
	Notes   *string `json:"notes"`
}

type QuestionInput struct {
	Prompt       string `json:"prompt"`
	ResponseType string `json:"response_type"`
	DisplayOrder *int   `json:"display_order"`
}

type TemplateInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Questions   []QuestionInput `json:"questions"`
}

type TemplatePatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type QuestionPatch struct {
	Prompt       *string `json:"prompt"`
	ResponseType *string `json:"response_type"`
	DisplayOrder *int    `json:"display_order"`
}

type ScribbleInput struct {
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	Tags        []string          `json:"tags"`
	Annotations map[string]string `json:"annotations"`
}

type ScribblePatch struct {
	Title       *string            `json:"title"`
	Content     *string            `json:"content"`
	Tags        *[]string          `json:"tags"`
	Annotations *map[string]string `json:"annotations"`
}

// ReminderInput creates a habit reminder. Enabled defaults to true.
type ReminderInput struct {
	HabitID string `json:"habit_id"`
	Time    string `json:"time"`
	Days    []int  `json:"days"`
	Enabled *bool  `json:"enabled"`
}

type CheckinReminderInput struct {
	TemplateID string `json:"template_id"`
	Time       string `json:"time"`
	Days       []int  `json:"days"`
	Enabled    *bool  `json:"enabled"`
}

// ReminderPatch updates either kind of reminder
type ReminderPatch struct {
	Time    *string `json:"time"`
	Days    *[]int  `json:"days"`
	Enabled *bool   `json:"enabled"`
}

type CategoryInput struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type ActivityInput struct {
	CategoryID       string  `json:"category_id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	EstimatedMinutes *int    `json:"estimated_minutes"`
	Recurrence       *string `json:"recurrence"`
}

// ActivityPatch updates a bored activity. EstimatedMinutes of zero or less
// clears the estimate.
type ActivityPatch struct {
	CategoryID       *string `json:"category_id"`
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	EstimatedMinutes *int    `json:"estimated_minutes"`
	Recurrence       *string `json:"recurrence"`
}

type TodoInput struct {
	Title            string  `json:"title"`
	Notes            string  `json:"notes"`
	CategoryID       *string `json:"category_id"`
	DueDate          *string `json:"due_date"`
	EstimatedMinutes *int    `json:"estimated_minutes"`
	Recurrence       *string `json:"recurrence"`
	IncludeInOracle  bool    `json:"include_in_oracle"`
}

type TodoPatch struct {
	Title            *string `json:"title"`
	Notes            *string `json:"notes"`
	CategoryID       *string `json:"category_id"`
	DueDate          *string `json:"due_date"`
	EstimatedMinutes *int    `json:"estimated_minutes"`
	Recurrence       *string `json:"recurrence"`
	IncludeInOracle  *bool   `json:"include_in_oracle"`
}

// OracleQuery filters the bored oracle pool. A nil MaxMinutes means no
// time ceiling.
type OracleQuery struct {
	ExcludedCategoryIDs []string `json:"excluded_category_ids"`
	MaxMinutes          *int     `json:"max_minutes"`
}
