package storage

import (
	"context"

	"github.com/julianstephens/tracklit/internal/models"
)

// Provider is the domain surface of the data layer. Store implements it for
// both backends; the dispatcher and the CLI depend only on this interface.
type Provider interface {
	// Lifecycle
	Close() error
	Backend() string

	// Habits
	CreateHabit(ctx context.Context, in models.HabitInput) (models.HabitWithSchedule, error)
	GetHabit(ctx context.Context, id string) (models.HabitWithSchedule, error)
	ListHabits(ctx context.Context) ([]models.HabitWithSchedule, error)
	ListArchivedHabits(ctx context.Context) ([]models.HabitWithSchedule, error)
	UpdateHabit(ctx context.Context, id string, p models.HabitPatch) (models.HabitWithSchedule, error)
	ArchiveHabit(ctx context.Context, id string) error
	UnarchiveHabit(ctx context.Context, id string) error
	DeleteHabit(ctx context.Context, id string) error
	GetSchedule(ctx context.Context, habitID string) (models.HabitSchedule, error)
	UpdateSchedule(ctx context.Context, habitID string, p models.SchedulePatch) (models.HabitSchedule, error)

	// Completions and logs
	ToggleCompletion(ctx context.Context, habitID, date string) (*models.Completion, error)
	ListCompletions(ctx context.Context, habitID, from, to string) ([]models.Completion, error)
	ListCompletionsByDate(ctx context.Context, date string) ([]models.Completion, error)
	AddLog(ctx context.Context, in models.HabitLogInput) (models.HabitLog, error)
	DeleteLog(ctx context.Context, id string) error
	ListLogs(ctx context.Context, habitID, from, to string) ([]models.HabitLog, error)
	ListLogsByDate(ctx context.Context, date string) ([]models.HabitLog, error)

	// Streaks
	GetStreak(ctx context.Context, habitID, today string) (models.Streak, error)
	GetHabitStats(ctx context.Context, habitID, from, to string) (models.HabitStats, error)

	// Check-ins
	ListTemplates(ctx context.Context) ([]models.CheckinTemplate, error)
	GetTemplate(ctx context.Context, id string) (models.CheckinTemplate, error)
	CreateTemplate(ctx context.Context, in models.TemplateInput) (models.CheckinTemplate, error)
	UpdateTemplate(ctx context.Context, id string, p models.TemplatePatch) (models.CheckinTemplate, error)
	DeleteTemplate(ctx context.Context, id string) error
	AddQuestion(ctx context.Context, templateID string, in models.QuestionInput) (models.CheckinQuestion, error)
	UpdateQuestion(ctx context.Context, id string, p models.QuestionPatch) (models.CheckinQuestion, error)
	DeleteQuestion(ctx context.Context, id string) error
	ReorderQuestions(ctx context.Context, templateID string, ids []string) ([]models.CheckinQuestion, error)
	UpsertResponse(ctx context.Context, questionID, date, value string) (models.CheckinResponse, error)
	ListResponses(ctx context.Context, templateID, date string) ([]models.CheckinResponse, error)
	UpsertEntry(ctx context.Context, date, content string) (models.CheckinEntry, error)
	GetEntry(ctx context.Context, date string) (models.CheckinEntry, error)
	ListEntries(ctx context.Context, from, to string) ([]models.CheckinEntry, error)
	DeleteEntry(ctx context.Context, date string) error

	// Scribbles
	ListScribbles(ctx context.Context) ([]models.Scribble, error)
	GetScribble(ctx context.Context, id string) (models.Scribble, error)
	CreateScribble(ctx context.Context, in models.ScribbleInput) (models.Scribble, error)
	UpdateScribble(ctx context.Context, id string, p models.ScribblePatch) (models.Scribble, error)
	DeleteScribble(ctx context.Context, id string) error

	// Reminders
	ListReminders(ctx context.Context, habitID string) ([]models.Reminder, error)
	CreateReminder(ctx context.Context, in models.ReminderInput) (models.Reminder, error)
	UpdateReminder(ctx context.Context, id string, p models.ReminderPatch) (models.Reminder, error)
	DeleteReminder(ctx context.Context, id string) error
	ListCheckinReminders(ctx context.Context, templateID string) ([]models.CheckinReminder, error)
	CreateCheckinReminder(ctx context.Context, in models.CheckinReminderInput) (models.CheckinReminder, error)
	UpdateCheckinReminder(ctx context.Context, id string, p models.ReminderPatch) (models.CheckinReminder, error)
	DeleteCheckinReminder(ctx context.Context, id string) error

	// Bored
	ListCategories(ctx context.Context) ([]models.BoredCategory, error)
	CreateCategory(ctx context.Context, in models.CategoryInput) (models.BoredCategory, error)
	DeleteCategory(ctx context.Context, id string) error
	ListActivities(ctx context.Context, categoryID string, includeArchived bool) ([]models.BoredActivity, error)
	GetActivity(ctx context.Context, id string) (models.BoredActivity, error)
	CreateActivity(ctx context.Context, in models.ActivityInput) (models.BoredActivity, error)
	UpdateActivity(ctx context.Context, id string, p models.ActivityPatch) (models.BoredActivity, error)
	MarkActivityDone(ctx context.Context, id string) (models.BoredActivity, error)
	ArchiveActivity(ctx context.Context, id string) error
	DeleteActivity(ctx context.Context, id string) error
	GetBoredOracle(ctx context.Context, q models.OracleQuery) (*models.OracleSuggestion, error)

	// Todos
	ListTodos(ctx context.Context, includeArchived bool) ([]models.Todo, error)
	GetTodo(ctx context.Context, id string) (models.Todo, error)
	CreateTodo(ctx context.Context, in models.TodoInput) (models.Todo, error)
	UpdateTodo(ctx context.Context, id string, p models.TodoPatch) (models.Todo, error)
	ToggleTodo(ctx context.Context, id string) (models.Todo, error)
	ArchiveTodo(ctx context.Context, id string) error
	DeleteTodo(ctx context.Context, id string) error

	// Import and export
	ExportSnapshot(ctx context.Context, sel models.ExportSelection) (models.Snapshot, error)
	ExportSnapshotJSON(ctx context.Context, sel models.ExportSelection) ([]byte, error)
	ImportSnapshotJSON(ctx context.Context, data []byte) (models.ImportReport, error)
	ImportSnapshot(ctx context.Context, snap models.Snapshot) (models.ImportReport, error)

	// Maintenance
	ExportBinary(ctx context.Context) ([]byte, error)
	Schema(ctx context.Context) (models.SchemaInfo, error)
	ClearAllData(ctx context.Context) error
	WipeStorage(ctx context.Context) (models.WipeResult, error)
	AppliedDefaults(ctx context.Context) ([]models.AppliedDefault, error)
	ResetDefaults(ctx context.Context) ([]string, error)
	CheckIntegrity(ctx context.Context) (models.IntegrityReport, error)
}

var _ Provider = (*Store)(nil)
