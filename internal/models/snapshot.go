package models

// AppliedDefault records that the seed with Key has run
type AppliedDefault struct {
	Key       string `json:"key"`
	AppliedAt string `json:"applied_at"`
}

// Snapshot is the versioned whole-database JSON bundle
type Snapshot struct {
	Version          int               `json:"version"`
	ExportedAt       string            `json:"exported_at"`
	Habits           []Habit           `json:"habits,omitempty"`
	Completions      []Completion      `json:"completions,omitempty"`
	HabitLogs        []HabitLog        `json:"habit_logs,omitempty"`
	HabitSchedules   []HabitSchedule   `json:"habit_schedules,omitempty"`
	Reminders        []Reminder        `json:"reminders,omitempty"`
	CheckinTemplates []CheckinTemplate `json:"checkin_templates,omitempty"`
	CheckinQuestions []CheckinQuestion `json:"checkin_questions,omitempty"`
	CheckinResponses []CheckinResponse `json:"checkin_responses,omitempty"`
	CheckinReminders []CheckinReminder `json:"checkin_reminders,omitempty"`
	Scribbles        []Scribble        `json:"scribbles,omitempty"`
	CheckinEntries   []CheckinEntry    `json:"checkin_entries,omitempty"`
	Todos            []Todo            `json:"todos,omitempty"`
	BoredCategories  []BoredCategory   `json:"bored_categories,omitempty"`
	BoredActivities  []BoredActivity   `json:"bored_activities,omitempty"`
}

// ExportSelection chooses which families an export includes. A family
// carries its FK children with it.
type ExportSelection struct {
	Habits    bool `json:"habits"`    // habits, schedules, completions, logs, reminders
	Checkins  bool `json:"checkins"`  // templates, questions, responses, check-in reminders
	Journal   bool `json:"journal"`   // check-in entries
	Scribbles bool `json:"scribbles"` // scribbles
	Todos     bool `json:"todos"`     // todos
	Bored     bool `json:"bored"`     // bored categories and activities
}

// SelectAll returns a selection with every family enabled
func SelectAll() ExportSelection {
	return ExportSelection{Habits: true, Checkins: true, Journal: true, Scribbles: true, Todos: true, Bored: true}
}

// ImportReport counts rows actually inserted per table
type ImportReport struct {
	Inserted map[string]int `json:"inserted"`
	Skipped  map[string]int `json:"skipped"`
}

// SchemaObject is one table or index definition
type SchemaObject struct {
	Type string `json:"type"` // "table" or "index"
	Name string `json:"name"`
	SQL  string `json:"sql"`
}

// SchemaInfo is the diagnostic view of the live schema
type SchemaInfo struct {
	Backend string         `json:"backend"`
	Version int            `json:"version"`
	Objects []SchemaObject `json:"objects"`
}

// WipeResult reports whether storage was actually removed. Backends without
// local file storage report false.
type WipeResult struct {
	Wiped bool `json:"wiped"`
}

// IntegrityReport counts child rows whose parent row is missing, per table
type IntegrityReport struct {
	Orphans map[string]int `json:"orphans"`
}

// OK reports whether no orphans were found
func (r IntegrityReport) OK() bool {
	for _, n := range r.Orphans {
		if n > 0 {
			return false
		}
	}
	return true
}
