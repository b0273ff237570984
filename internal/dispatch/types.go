package dispatch

// Type is a request tag. The set is closed: a tag not listed here is an
// invalid request.
type Type string

const (
	// Habits
	GetHabits         Type = "GET_HABITS"
	GetArchivedHabits Type = "GET_ARCHIVED_HABITS"
	GetHabit          Type = "GET_HABIT"
	CreateHabit       Type = "CREATE_HABIT"
	UpdateHabit       Type = "UPDATE_HABIT"
	ArchiveHabit      Type = "ARCHIVE_HABIT"
	UnarchiveHabit    Type = "UNARCHIVE_HABIT"
	DeleteHabit       Type = "DELETE_HABIT"
	GetSchedule       Type = "GET_SCHEDULE"
	UpdateSchedule    Type = "UPDATE_SCHEDULE"

	// Completions, logs, streaks
	ToggleCompletion     Type = "TOGGLE_COMPLETION"
	GetCompletions       Type = "GET_COMPLETIONS"
	GetCompletionsByDate Type = "GET_COMPLETIONS_BY_DATE"
	AddLog               Type = "ADD_LOG"
	DeleteLog            Type = "DELETE_LOG"
	GetLogs              Type = "GET_LOGS"
	GetLogsByDate        Type = "GET_LOGS_BY_DATE"
	GetStreak            Type = "GET_STREAK"
	GetHabitStats        Type = "GET_HABIT_STATS"

	// Check-ins and journal
	GetCheckinTemplates     Type = "GET_CHECKIN_TEMPLATES"
	GetCheckinTemplate      Type = "GET_CHECKIN_TEMPLATE"
	CreateCheckinTemplate   Type = "CREATE_CHECKIN_TEMPLATE"
	UpdateCheckinTemplate   Type = "UPDATE_CHECKIN_TEMPLATE"
	DeleteCheckinTemplate   Type = "DELETE_CHECKIN_TEMPLATE"
	AddCheckinQuestion      Type = "ADD_CHECKIN_QUESTION"
	UpdateCheckinQuestion   Type = "UPDATE_CHECKIN_QUESTION"
	DeleteCheckinQuestion   Type = "DELETE_CHECKIN_QUESTION"
	ReorderCheckinQuestions Type = "REORDER_CHECKIN_QUESTIONS"
	UpsertCheckinResponse   Type = "UPSERT_CHECKIN_RESPONSE"
	GetCheckinResponses     Type = "GET_CHECKIN_RESPONSES"
	UpsertCheckinEntry      Type = "UPSERT_CHECKIN_ENTRY"
	GetCheckinEntry         Type = "GET_CHECKIN_ENTRY"
	GetCheckinEntries       Type = "GET_CHECKIN_ENTRIES"
	DeleteCheckinEntry      Type = "DELETE_CHECKIN_ENTRY"

	// Scribbles
	GetScribbles   Type = "GET_SCRIBBLES"
	GetScribble    Type = "GET_SCRIBBLE"
	CreateScribble Type = "CREATE_SCRIBBLE"
	UpdateScribble Type = "UPDATE_SCRIBBLE"
	DeleteScribble Type = "DELETE_SCRIBBLE"

	// Reminders
	GetReminders          Type = "GET_REMINDERS"
	CreateReminder        Type = "CREATE_REMINDER"
	UpdateReminder        Type = "UPDATE_REMINDER"
	DeleteReminder        Type = "DELETE_REMINDER"
	GetCheckinReminders   Type = "GET_CHECKIN_REMINDERS"
	CreateCheckinReminder Type = "CREATE_CHECKIN_REMINDER"
	UpdateCheckinReminder Type = "UPDATE_CHECKIN_REMINDER"
	DeleteCheckinReminder Type = "DELETE_CHECKIN_REMINDER"

	// Bored
	GetBoredCategories    Type = "GET_BORED_CATEGORIES"
	CreateBoredCategory   Type = "CREATE_BORED_CATEGORY"
	DeleteBoredCategory   Type = "DELETE_BORED_CATEGORY"
	GetBoredActivities    Type = "GET_BORED_ACTIVITIES"
	CreateBoredActivity   Type = "CREATE_BORED_ACTIVITY"
	UpdateBoredActivity   Type = "UPDATE_BORED_ACTIVITY"
	MarkBoredActivityDone Type = "MARK_BORED_ACTIVITY_DONE"
	ArchiveBoredActivity  Type = "ARCHIVE_BORED_ACTIVITY"
	DeleteBoredActivity   Type = "DELETE_BORED_ACTIVITY"
	GetBoredOracle        Type = "GET_BORED_ORACLE"

	// Todos
	GetTodos    Type = "GET_TODOS"
	CreateTodo  Type = "CREATE_TODO"
	UpdateTodo  Type = "UPDATE_TODO"
	ToggleTodo  Type = "TOGGLE_TODO"
	ArchiveTodo Type = "ARCHIVE_TODO"
	DeleteTodo  Type = "DELETE_TODO"

	// Data management
	ExportSnapshot     Type = "EXPORT_SNAPSHOT"
	ImportSnapshot     Type = "IMPORT_SNAPSHOT"
	ExportBinary       Type = "EXPORT_BINARY"
	GetSchema          Type = "GET_SCHEMA"
	ClearAllData       Type = "CLEAR_ALL_DATA"
	WipeStorage        Type = "WIPE_STORAGE"
	GetAppliedDefaults Type = "GET_APPLIED_DEFAULTS"
	ResetDefaults      Type = "RESET_DEFAULTS"
	CheckIntegrity     Type = "CHECK_INTEGRITY"
)
