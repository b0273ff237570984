package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/tracklit/internal/constants"
	apperr "github.com/julianstephens/tracklit/internal/errors"
	"github.com/julianstephens/tracklit/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictMissingID     ConflictType = "missing_id"
	ConflictMissingParent ConflictType = "missing_parent"
	ConflictInvalidDate   ConflictType = "invalid_date"
	ConflictInvalidTime   ConflictType = "invalid_time"
	ConflictInvalidValue  ConflictType = "invalid_value"
)

// Conflict represents one problem found in a snapshot bundle
type Conflict struct {
	Type        ConflictType
	Table       string
	ID          string
	Description string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Err returns nil without conflicts, otherwise an ErrIntegrity error that
// carries the first conflict and the total count.
func (vr *ValidationResult) Err() error {
	if !vr.HasConflicts() {
		return nil
	}
	first := vr.Conflicts[0].Description
	if n := len(vr.Conflicts); n > 1 {
		return fmt.Errorf("%w: %s (and %d more)", apperr.ErrIntegrity, first, n-1)
	}
	return fmt.Errorf("%w: %s", apperr.ErrIntegrity, first)
}

func (vr *ValidationResult) add(t ConflictType, table, id, format string, args ...any) {
	vr.Conflicts = append(vr.Conflicts, Conflict{
		Type:        t,
		Table:       table,
		ID:          id,
		Description: fmt.Sprintf("%s %q: ", table, id) + fmt.Sprintf(format, args...),
	})
}

// IDSet is the set of parent ids known to exist, either in the bundle or in
// the database.
type IDSet map[string]bool

// Validator checks snapshot families before they are imported. Each family
// is validated at its own checkpoint against the parents known at that
// point.
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateHabitFamily checks habits and their children. habits must contain
// every habit id present in the bundle or the database.
func (v *Validator) ValidateHabitFamily(s models.Snapshot, habits IDSet) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	for _, h := range s.Habits {
		if h.ID == "" {
			result.add(ConflictMissingID, "habits", h.Name, "row has no id")
			continue
		}
		if h.Type != "" && !IsHabitType(h.Type) {
			result.add(ConflictInvalidValue, "habits", h.ID, "unknown type %q", h.Type)
		}
		if h.PausedUntil != nil && *h.PausedUntil != "" && !IsValidDate(*h.PausedUntil) {
			result.add(ConflictInvalidDate, "habits", h.ID, "invalid paused_until %q", *h.PausedUntil)
		}
	}
	for _, sc := range s.HabitSchedules {
		v.requireParent(&result, "habit_schedules", sc.ID, "habit", sc.HabitID, habits)
	}
	for _, c := range s.Completions {
		v.requireParent(&result, "completions", c.ID, "habit", c.HabitID, habits)
		if !IsValidDate(c.Date) {
			result.add(ConflictInvalidDate, "completions", c.ID, "invalid date %q", c.Date)
		}
	}
	for _, l := range s.HabitLogs {
		v.requireParent(&result, "habit_logs", l.ID, "habit", l.HabitID, habits)
		if !IsValidDate(l.Date) {
			result.add(ConflictInvalidDate, "habit_logs", l.ID, "invalid date %q", l.Date)
		}
	}
	for _, r := range s.Reminders {
		v.requireParent(&result, "reminders", r.ID, "habit", r.HabitID, habits)
		if !IsValidTime(r.Time) {
			result.add(ConflictInvalidTime, "reminders", r.ID, "invalid time %q", r.Time)
		}
	}
	return result
}

// ValidateCheckinFamily checks check-in templates and their children
func (v *Validator) ValidateCheckinFamily(s models.Snapshot, templates, questions IDSet) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	for _, t := range s.CheckinTemplates {
		if t.ID == "" {
			result.add(ConflictMissingID, "checkin_templates", t.Name, "row has no id")
		}
	}
	for _, q := range s.CheckinQuestions {
		v.requireParent(&result, "checkin_questions", q.ID, "template", q.TemplateID, templates)
		if !IsResponseType(q.ResponseType) {
			result.add(ConflictInvalidValue, "checkin_questions", q.ID, "unknown response_type %q", q.ResponseType)
		}
	}
	for _, r := range s.CheckinResponses {
		v.requireParent(&result, "checkin_responses", r.ID, "question", r.QuestionID, questions)
		if !IsValidDate(r.Date) {
			result.add(ConflictInvalidDate, "checkin_responses", r.ID, "invalid date %q", r.Date)
		}
	}
	for _, r := range s.CheckinReminders {
		v.requireParent(&result, "checkin_reminders", r.ID, "template", r.TemplateID, templates)
		if !IsValidTime(r.Time) {
			result.add(ConflictInvalidTime, "checkin_reminders", r.ID, "invalid time %q", r.Time)
		}
	}
	return result
}

// ValidateOtherFamily checks journal entries, scribbles, bored content, and
// todos. Todo categories are not checked: a todo whose category is gone is
// imported uncategorized.
func (v *Validator) ValidateOtherFamily(s models.Snapshot, categories IDSet) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	for _, e := range s.CheckinEntries {
		if !IsValidDate(e.Date) {
			result.add(ConflictInvalidDate, "checkin_entries", e.ID, "invalid date %q", e.Date)
		}
	}
	for _, a := range s.BoredActivities {
		v.requireParent(&result, "bored_activities", a.ID, "category", a.CategoryID, categories)
		if a.Recurrence != nil && *a.Recurrence != "" && !IsRecurrence(*a.Recurrence) {
			result.add(ConflictInvalidValue, "bored_activities", a.ID, "unknown recurrence %q", *a.Recurrence)
		}
	}
	for _, t := range s.Todos {
		if t.Recurrence != nil && *t.Recurrence != "" && !IsRecurrence(*t.Recurrence) {
			result.add(ConflictInvalidValue, "todos", t.ID, "unknown recurrence %q", *t.Recurrence)
		}
		if t.DueDate != nil && *t.DueDate != "" && !IsValidDate(*t.DueDate) {
			result.add(ConflictInvalidDate, "todos", t.ID, "invalid due_date %q", *t.DueDate)
		}
	}
	return result
}

func (v *Validator) requireParent(result *ValidationResult, table, id, parentKind, parentID string, known IDSet) {
	if id == "" {
		result.add(ConflictMissingID, table, parentID, "row has no id")
		return
	}
	if !known[parentID] {
		result.add(ConflictMissingParent, table, id, "references missing %s %q", parentKind, parentID)
	}
}

// IsValidDate checks a YYYY-MM-DD calendar date
func IsValidDate(s string) bool {
	if len(s) != len(constants.DateFormat) {
		return false
	}
	_, err := time.Parse(constants.DateFormat, s)
	return err == nil
}

// IsValidTime checks a zero-padded HH:MM time
func IsValidTime(s string) bool {
	if len(s) != len(constants.TimeFormat) {
		return false
	}
	_, err := time.Parse(constants.TimeFormat, s)
	return err == nil
}

// IsValidWeekdays checks that every day is in 0 (Sunday) through 6
func IsValidWeekdays(days []int) bool {
	for _, d := range days {
		if d < 0 || d > 6 {
			return false
		}
	}
	return true
}

func IsHabitType(s string) bool {
	switch s {
	case constants.HabitTypeBoolean, constants.HabitTypeNumeric, constants.HabitTypeLimit:
		return true
	}
	return false
}

func IsResponseType(s string) bool {
	switch s {
	case constants.ResponseScale, constants.ResponseText, constants.ResponseBoolean:
		return true
	}
	return false
}

func IsRecurrence(s string) bool {
	switch s {
	case constants.RecurrenceDaily, constants.RecurrenceWeekly, constants.RecurrenceMonthly:
		return true
	}
	return false
}

func IsScheduleType(s string) bool {
	switch s {
	case constants.ScheduleDaily, constants.ScheduleWeekly, constants.ScheduleSpecificDays, constants.ScheduleTimesPerWeek:
		return true
	}
	return false
}
