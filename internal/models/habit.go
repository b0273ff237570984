package models

// Habit represents a recurring practice to track
type Habit struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Color       string            `json:"color"`
	Icon        string            `json:"icon"`
	Frequency   string            `json:"frequency"`
	DaysActive  []int             `json:"days_active"`
	CreatedAt   string            `json:"created_at"`
	ArchivedAt  *string           `json:"archived_at"`
	Tags        []string          `json:"tags"`
	Annotations map[string]string `json:"annotations"`
	Type        string            `json:"type"`         // BOOLEAN, NUMERIC or LIMIT
	TargetValue float64           `json:"target_value"` // goal for NUMERIC, ceiling for LIMIT
	PausedUntil *string           `json:"paused_until"` // YYYY-MM-DD
}

// HabitSchedule is the one-to-one recurrence descriptor of a habit
type HabitSchedule struct {
	ID             string  `json:"id"`
	HabitID        string  `json:"habit_id"`
	ScheduleType   string  `json:"schedule_type"`
	FrequencyCount *int    `json:"frequency_count"`
	DaysOfWeek     []int   `json:"days_of_week"`
	DueTime        *string `json:"due_time"`   // HH:MM
	StartDate      *string `json:"start_date"` // YYYY-MM-DD
	EndDate        *string `json:"end_date"`   // YYYY-MM-DD
}

// HabitWithSchedule is the joined view returned by habit reads
type HabitWithSchedule struct {
	Habit
	Schedule *HabitSchedule `json:"schedule"`
}

// Completion marks a BOOLEAN habit as done on one calendar date
type Completion struct {
	ID        string `json:"id"`
	HabitID   string `json:"habit_id"`
	Date      string `json:"date"` // YYYY-MM-DD
	CreatedAt string `json:"created_at"`
}

// HabitLog is one numeric observation for a NUMERIC or LIMIT habit
type HabitLog struct {
	ID        string  `json:"id"`
	HabitID   string  `json:"habit_id"`
	Date      string  `json:"date"` // YYYY-MM-DD
	Value     float64 `json:"value"`
	Notes     *string `json:"notes"`
	CreatedAt string  `json:"created_at"`
}

// Streak is computed on read and never stored
type Streak struct {
	HabitID string `json:"habit_id"`
	Current int    `json:"current"`
	Longest int    `json:"longest"`
}

// HabitStats summarizes a habit over an inclusive date range
type HabitStats struct {
	HabitID        string  `json:"habit_id"`
	From           string  `json:"from"`
	To             string  `json:"to"`
	Days           int     `json:"days"`
	QualifyingDays int     `json:"qualifying_days"`
	CompletionRate float64 `json:"completion_rate"`
	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`
}
