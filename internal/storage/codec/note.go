package codec

import (
	"database/sql"

	"github.com/julianstephens/tracklit/internal/models"
)

const ScribbleColumns = "id, title, content, tags, annotations, created_at, updated_at"

type ScribbleRow struct {
	ID          string
	Title       string
	Content     string
	Tags        sql.NullString
	Annotations sql.NullString
	CreatedAt   string
	UpdatedAt   string
}

func (r *ScribbleRow) Dest() []any {
	return []any{&r.ID, &r.Title, &r.Content, &r.Tags, &r.Annotations, &r.CreatedAt, &r.UpdatedAt}
}

func (r ScribbleRow) Args() []any {
	return []any{r.ID, r.Title, r.Content, r.Tags, r.Annotations, r.CreatedAt, r.UpdatedAt}
}

func ScribbleFromRow(r ScribbleRow) models.Scribble {
	return models.Scribble{
		ID:          r.ID,
		Title:       r.Title,
		Content:     r.Content,
		Tags:        Strings(r.Tags, "scribbles", "tags"),
		Annotations: StringMap(r.Annotations, "scribbles", "annotations"),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func ScribbleToRow(s models.Scribble) ScribbleRow {
	return ScribbleRow{
		ID:          s.ID,
		Title:       s.Title,
		Content:     s.Content,
		Tags:        jsonText(EncodeStrings(s.Tags)),
		Annotations: jsonText(EncodeStringMap(s.Annotations)),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ReminderColumns is shared by reminders and checkin_reminders; the parent
// column differs.
const (
	ReminderColumns        = "id, habit_id, reminder_time, days, enabled, created_at"
	CheckinReminderColumns = "id, template_id, reminder_time, days, enabled, created_at"
)

// ReminderRow is a reminders or checkin_reminders row. ParentID holds the
// habit or template id.
type ReminderRow struct {
	ID        string
	ParentID  string
	Time      string
	Days      sql.NullString
	Enabled   int64
	CreatedAt string
}

func (r *ReminderRow) Dest() []any {
	return []any{&r.ID, &r.ParentID, &r.Time, &r.Days, &r.Enabled, &r.CreatedAt}
}

func (r ReminderRow) Args() []any {
	return []any{r.ID, r.ParentID, r.Time, r.Days, r.Enabled, r.CreatedAt}
}

func ReminderFromRow(r ReminderRow) models.Reminder {
	return models.Reminder{
		ID:        r.ID,
		HabitID:   r.ParentID,
		Time:      r.Time,
		Days:      Ints(r.Days, "reminders", "days"),
		Enabled:   Bool(r.Enabled),
		CreatedAt: r.CreatedAt,
	}
}

func ReminderToRow(m models.Reminder) ReminderRow {
	return ReminderRow{
		ID:        m.ID,
		ParentID:  m.HabitID,
		Time:      m.Time,
		Days:      jsonText(EncodeInts(m.Days)),
		Enabled:   Int(m.Enabled),
		CreatedAt: m.CreatedAt,
	}
}

func CheckinReminderFromRow(r ReminderRow) models.CheckinReminder {
	return models.CheckinReminder{
		ID:         r.ID,
		TemplateID: r.ParentID,
		Time:       r.Time,
		Days:       Ints(r.Days, "checkin_reminders", "days"),
		Enabled:    Bool(r.Enabled),
		CreatedAt:  r.CreatedAt,
	}
}

func CheckinReminderToRow(m models.CheckinReminder) ReminderRow {
	return ReminderRow{
		ID:        m.ID,
		ParentID:  m.TemplateID,
		Time:      m.Time,
		Days:      jsonText(EncodeInts(m.Days)),
		Enabled:   Int(m.Enabled),
		CreatedAt: m.CreatedAt,
	}
}
