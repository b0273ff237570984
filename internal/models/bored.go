package models

// BoredCategory groups bored activities
type BoredCategory struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	CreatedAt string `json:"created_at"`
}

// BoredActivity is a suggestion candidate. Recurring activities never
// become done; they accumulate DoneCount instead.
type BoredActivity struct {
	ID               string  `json:"id"`
	CategoryID       string  `json:"category_id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	EstimatedMinutes *int    `json:"estimated_minutes"`
	IsDone           bool    `json:"is_done"`
	DoneCount        int     `json:"done_count"`
	LastDoneAt       *string `json:"last_done_at"`
	CompletedAt      *string `json:"completed_at"`
	Recurrence       *string `json:"recurrence"` // daily, weekly, monthly
	ArchivedAt       *string `json:"archived_at"`
	CreatedAt        string  `json:"created_at"`
}

// IsRecurring reports whether the activity has a recurrence rule
func (a BoredActivity) IsRecurring() bool {
	return a.Recurrence != nil && *a.Recurrence != ""
}

// Todo is a task that may recur; a recurring todo advances DueDate when toggled
type Todo struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Notes            string  `json:"notes"`
	CategoryID       *string `json:"category_id"`
	DueDate          *string `json:"due_date"`
	EstimatedMinutes *int    `json:"estimated_minutes"`
	IsDone           bool    `json:"is_done"`
	DoneCount        int     `json:"done_count"`
	LastDoneAt       *string `json:"last_done_at"`
	CompletedAt      *string `json:"completed_at"`
	Recurrence       *string `json:"recurrence"`
	IncludeInOracle  bool    `json:"include_in_oracle"`
	ArchivedAt       *string `json:"archived_at"`
	CreatedAt        string  `json:"created_at"`
}

// IsRecurring reports whether the todo has a recurrence rule
func (t Todo) IsRecurring() bool {
	return t.Recurrence != nil && *t.Recurrence != ""
}

// OracleSuggestion is the single element drawn by the bored oracle
type OracleSuggestion struct {
	Kind     string         `json:"kind"` // "activity" or "todo"
	Activity *BoredActivity `json:"activity,omitempty"`
	Todo     *Todo          `json:"todo,omitempty"`
}
