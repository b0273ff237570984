package codec

import (
	"bytes"
	"database/sql"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/tracklit/internal/logger"
	"github.com/julianstephens/tracklit/internal/metrics"
	"github.com/julianstephens/tracklit/internal/models"
)

func text(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }

func ptr[T any](v T) *T { return &v }

func anomalyCount(t *testing.T, table, column string) float64 {
	t.Helper()
	families, err := metrics.Registry.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "tracklit_codec_anomalies_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["table"] == table && labels["column"] == column {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestHabitRoundTrip(t *testing.T) {
	tests := []struct {
		name        string
		tags        []string
		annotations map[string]string
	}{
		{"populated", []string{"health", "morning", "with \"quotes\""}, map[string]string{"source": "coach", "unit": "glasses"}},
		{"empty", []string{}, map[string]string{}},
		{"unicode", []string{"日本", "ü"}, map[string]string{"ключ": "значение"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := models.Habit{
				ID:          "h1",
				Name:        "Water",
				Frequency:   "daily",
				DaysActive:  []int{1, 3, 5},
				CreatedAt:   "2024-01-01T08:00:00.000Z",
				Tags:        tt.tags,
				Annotations: tt.annotations,
				Type:        "NUMERIC",
				TargetValue: 8,
				PausedUntil: ptr("2024-02-01"),
			}
			out := HabitFromRow(HabitToRow(in))
			assert.Equal(t, in, out)
		})
	}
}

func TestHabitNilCollectionsEncodeAsEmpty(t *testing.T) {
	row := HabitToRow(models.Habit{ID: "h1"})
	assert.Equal(t, "[]", row.Tags.String)
	assert.Equal(t, "{}", row.Annotations.String)
	assert.Equal(t, "[]", row.DaysActive.String)

	h := HabitFromRow(row)
	assert.NotNil(t, h.Tags)
	assert.Empty(t, h.Tags)
	assert.NotNil(t, h.Annotations)
}

func TestMalformedTagsReadAsEmpty(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf, log.WarnLevel)
	t.Cleanup(func() { logger.Logger = nil })

	before := anomalyCount(t, "habits", "tags")

	rows := []HabitRow{
		{ID: "bad", Name: "Broken", Tags: text(`["health", "mor`), Annotations: text(`{"a":"b"}`)},
		{ID: "good", Name: "Fine", Tags: text(`["x"]`), Annotations: text(`{}`)},
	}
	var habits []models.Habit
	for _, r := range rows {
		habits = append(habits, HabitFromRow(r))
	}

	assert.Equal(t, []string{}, habits[0].Tags)
	assert.Equal(t, map[string]string{"a": "b"}, habits[0].Annotations, "sibling columns still decode")
	assert.Equal(t, []string{"x"}, habits[1].Tags, "sibling rows are unaffected")

	assert.Equal(t, before+1, anomalyCount(t, "habits", "tags"))
	assert.Contains(t, buf.String(), "Malformed JSON column")
}

func TestGuardedDefaults(t *testing.T) {
	tests := []struct {
		name string
		raw  sql.NullString
	}{
		{"null column", sql.NullString{}},
		{"blank", text("  ")},
		{"json null", text("null")},
		{"wrong shape", text(`{"not":"a list"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, []string{}, Strings(tt.raw, "scribbles", "tags"))
			assert.Equal(t, []int{}, Ints(tt.raw, "reminders", "days"))
		})
	}
	assert.Equal(t, map[string]string{}, StringMap(text(`[1,2]`), "scribbles", "annotations"))
}

func TestBooleanCoercion(t *testing.T) {
	assert.True(t, Bool(1))
	assert.True(t, Bool(2))
	assert.False(t, Bool(0))
	assert.Equal(t, int64(1), Int(true))
	assert.Equal(t, int64(0), Int(false))

	r := ReminderFromRow(ReminderRow{ID: "r", ParentID: "h", Time: "07:30", Days: text("[1,2]"), Enabled: 1})
	assert.True(t, r.Enabled)
	assert.Equal(t, []int{1, 2}, r.Days)
	assert.Equal(t, "h", r.HabitID)
}

func TestTodoRoundTrip(t *testing.T) {
	in := models.Todo{
		ID:               "t1",
		Title:            "Laundry",
		CategoryID:       ptr("chores"),
		DueDate:          ptr("2024-03-01"),
		EstimatedMinutes: ptr(30),
		DoneCount:        4,
		Recurrence:       ptr("weekly"),
		IncludeInOracle:  true,
		CreatedAt:        "2024-01-01T08:00:00.000Z",
	}
	assert.Equal(t, in, TodoFromRow(TodoToRow(in)))

	in.CategoryID = nil
	in.EstimatedMinutes = nil
	row := TodoToRow(in)
	assert.False(t, row.CategoryID.Valid)
	assert.False(t, row.EstimatedMinutes.Valid)
	assert.Equal(t, in, TodoFromRow(row))
}

func TestActivityAndScheduleRoundTrip(t *testing.T) {
	a := models.BoredActivity{ID: "a1", CategoryID: "c1", Title: "Walk", IsDone: true, CompletedAt: ptr("2024-01-02T00:00:00.000Z"), CreatedAt: "2024-01-01T00:00:00.000Z"}
	assert.Equal(t, a, ActivityFromRow(ActivityToRow(a)))

	s := models.HabitSchedule{ID: "s1", HabitID: "h1", ScheduleType: "times_per_week", FrequencyCount: ptr(3), DaysOfWeek: []int{}, DueTime: ptr("21:00")}
	assert.Equal(t, s, ScheduleFromRow(ScheduleToRow(s)))

	sc := models.Scribble{ID: "n1", Title: "Idea", Tags: []string{"a"}, Annotations: map[string]string{}, CreatedAt: "x", UpdatedAt: "y"}
	assert.Equal(t, sc, ScribbleFromRow(ScribbleToRow(sc)))
}

func TestRowDestMatchesColumns(t *testing.T) {
	count := func(cols string) int {
		n := 1
		for _, c := range cols {
			if c == ',' {
				n++
			}
		}
		return n
	}
	assert.Len(t, (&HabitRow{}).Dest(), count(HabitColumns))
	assert.Len(t, HabitRow{}.Args(), count(HabitColumns))
	assert.Len(t, (&ScheduleRow{}).Dest(), count(ScheduleColumns))
	assert.Len(t, (&HabitLogRow{}).Dest(), count(HabitLogColumns))
	assert.Len(t, (&ScribbleRow{}).Dest(), count(ScribbleColumns))
	assert.Len(t, (&ReminderRow{}).Dest(), count(ReminderColumns))
	assert.Len(t, (&ActivityRow{}).Dest(), count(ActivityColumns))
	assert.Len(t, (&TodoRow{}).Dest(), count(TodoColumns))
	assert.Len(t, TemplateDest(&models.CheckinTemplate{}), count(TemplateColumns))
	assert.Len(t, QuestionDest(&models.CheckinQuestion{}), count(QuestionColumns))
	assert.Len(t, ResponseDest(&models.CheckinResponse{}), count(ResponseColumns))
	assert.Len(t, EntryDest(&models.CheckinEntry{}), count(EntryColumns))
	assert.Len(t, CategoryDest(&models.BoredCategory{}), count(CategoryColumns))
	assert.Len(t, CompletionDest(&models.Completion{}), count(CompletionColumns))
}
