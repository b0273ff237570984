package codec

import (
	"database/sql"

	"github.com/julianstephens/tracklit/internal/models"
)

// HabitColumns lists habits columns in HabitRow field order.
const HabitColumns = "id, name, description, color, icon, frequency, days_active, created_at, archived_at, tags, annotations, type, target_value, paused_until"

// HabitRow is a habits row as stored.
type HabitRow struct {
	ID          string
	Name        string
	Description string
	Color       string
	Icon        string
	Frequency   string
	DaysActive  sql.NullString
	CreatedAt   string
	ArchivedAt  sql.NullString
	Tags        sql.NullString
	Annotations sql.NullString
	Type        string
	TargetValue float64
	PausedUntil sql.NullString
}

// Dest returns scan targets in HabitColumns order.
func (r *HabitRow) Dest() []any {
	return []any{&r.ID, &r.Name, &r.Description, &r.Color, &r.Icon, &r.Frequency, &r.DaysActive,
		&r.CreatedAt, &r.ArchivedAt, &r.Tags, &r.Annotations, &r.Type, &r.TargetValue, &r.PausedUntil}
}

// Args returns insert values in HabitColumns order.
func (r HabitRow) Args() []any {
	return []any{r.ID, r.Name, r.Description, r.Color, r.Icon, r.Frequency, r.DaysActive,
		r.CreatedAt, r.ArchivedAt, r.Tags, r.Annotations, r.Type, r.TargetValue, r.PausedUntil}
}

// HabitFromRow decodes a habits row.
func HabitFromRow(r HabitRow) models.Habit {
	return models.Habit{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		Icon:        r.Icon,
		Frequency:   r.Frequency,
		DaysActive:  Ints(r.DaysActive, "habits", "days_active"),
		CreatedAt:   r.CreatedAt,
		ArchivedAt:  StringPtr(r.ArchivedAt),
		Tags:        Strings(r.Tags, "habits", "tags"),
		Annotations: StringMap(r.Annotations, "habits", "annotations"),
		Type:        r.Type,
		TargetValue: r.TargetValue,
		PausedUntil: StringPtr(r.PausedUntil),
	}
}

// HabitToRow encodes a habit for storage.
func HabitToRow(h models.Habit) HabitRow {
	return HabitRow{
		ID:          h.ID,
		Name:        h.Name,
		Description: h.Description,
		Color:       h.Color,
		Icon:        h.Icon,
		Frequency:   h.Frequency,
		DaysActive:  jsonText(EncodeInts(h.DaysActive)),
		CreatedAt:   h.CreatedAt,
		ArchivedAt:  NullString(h.ArchivedAt),
		Tags:        jsonText(EncodeStrings(h.Tags)),
		Annotations: jsonText(EncodeStringMap(h.Annotations)),
		Type:        h.Type,
		TargetValue: h.TargetValue,
		PausedUntil: NullString(h.PausedUntil),
	}
}

// ScheduleColumns lists habit_schedules columns in ScheduleRow field order.
const ScheduleColumns = "id, habit_id, schedule_type, frequency_count, days_of_week, due_time, start_date, end_date"

// ScheduleRow is a habit_schedules row as stored.
type ScheduleRow struct {
	ID             string
	HabitID        string
	ScheduleType   string
	FrequencyCount sql.NullInt64
	DaysOfWeek     sql.NullString
	DueTime        sql.NullString
	StartDate      sql.NullString
	EndDate        sql.NullString
}

func (r *ScheduleRow) Dest() []any {
	return []any{&r.ID, &r.HabitID, &r.ScheduleType, &r.FrequencyCount, &r.DaysOfWeek, &r.DueTime, &r.StartDate, &r.EndDate}
}

func (r ScheduleRow) Args() []any {
	return []any{r.ID, r.HabitID, r.ScheduleType, r.FrequencyCount, r.DaysOfWeek, r.DueTime, r.StartDate, r.EndDate}
}

func ScheduleFromRow(r ScheduleRow) models.HabitSchedule {
	return models.HabitSchedule{
		ID:             r.ID,
		HabitID:        r.HabitID,
		ScheduleType:   r.ScheduleType,
		FrequencyCount: IntPtr(r.FrequencyCount),
		DaysOfWeek:     Ints(r.DaysOfWeek, "habit_schedules", "days_of_week"),
		DueTime:        StringPtr(r.DueTime),
		StartDate:      StringPtr(r.StartDate),
		EndDate:        StringPtr(r.EndDate),
	}
}

func ScheduleToRow(s models.HabitSchedule) ScheduleRow {
	return ScheduleRow{
		ID:             s.ID,
		HabitID:        s.HabitID,
		ScheduleType:   s.ScheduleType,
		FrequencyCount: NullInt(s.FrequencyCount),
		DaysOfWeek:     jsonText(EncodeInts(s.DaysOfWeek)),
		DueTime:        NullString(s.DueTime),
		StartDate:      NullString(s.StartDate),
		EndDate:        NullString(s.EndDate),
	}
}

// CompletionColumns lists completions columns in Completion field order.
const CompletionColumns = "id, habit_id, date, created_at"

// CompletionDest returns scan targets for a completions row.
func CompletionDest(c *models.Completion) []any {
	return []any{&c.ID, &c.HabitID, &c.Date, &c.CreatedAt}
}

func CompletionArgs(c models.Completion) []any {
	return []any{c.ID, c.HabitID, c.Date, c.CreatedAt}
}

// HabitLogColumns lists habit_logs columns in HabitLogRow field order.
const HabitLogColumns = "id, habit_id, date, value, notes, created_at"

type HabitLogRow struct {
	ID        string
	HabitID   string
	Date      string
	Value     float64
	Notes     sql.NullString
	CreatedAt string
}

func (r *HabitLogRow) Dest() []any {
	return []any{&r.ID, &r.HabitID, &r.Date, &r.Value, &r.Notes, &r.CreatedAt}
}

func (r HabitLogRow) Args() []any {
	return []any{r.ID, r.HabitID, r.Date, r.Value, r.Notes, r.CreatedAt}
}

func HabitLogFromRow(r HabitLogRow) models.HabitLog {
	return models.HabitLog{
		ID:        r.ID,
		HabitID:   r.HabitID,
		Date:      r.Date,
		Value:     r.Value,
		Notes:     StringPtr(r.Notes),
		CreatedAt: r.CreatedAt,
	}
}

func HabitLogToRow(l models.HabitLog) HabitLogRow {
	return HabitLogRow{
		ID:        l.ID,
		HabitID:   l.HabitID,
		Date:      l.Date,
		Value:     l.Value,
		Notes:     NullString(l.Notes),
		CreatedAt: l.CreatedAt,
	}
}
