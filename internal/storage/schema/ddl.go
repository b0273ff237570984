package schema

// Object is one table or index in the latest schema shape.
type Object struct {
	Type string
	Name string
	SQL  string
}

// Objects is the latest shape of every table and index, parents before
// children. The statements are valid for both SQLite and PostgreSQL:
// booleans are 0/1 integers, reals are DOUBLE PRECISION, and JSON fields
// are TEXT.
var Objects = []Object{
	{Type: "table", Name: "schema_version", SQL: `CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
)`},
	{Type: "table", Name: "applied_defaults", SQL: `CREATE TABLE IF NOT EXISTS applied_defaults (
	key TEXT PRIMARY KEY,
	applied_at TEXT NOT NULL
)`},
	{Type: "table", Name: "habits", SQL: `CREATE TABLE IF NOT EXISTS habits (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	color TEXT NOT NULL DEFAULT '',
	icon TEXT NOT NULL DEFAULT '',
	frequency TEXT NOT NULL DEFAULT 'daily',
	days_active TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL,
	archived_at TEXT,
	tags TEXT NOT NULL DEFAULT '[]',
	annotations TEXT NOT NULL DEFAULT '{}',
	type TEXT NOT NULL DEFAULT 'BOOLEAN' CHECK (type IN ('BOOLEAN', 'NUMERIC', 'LIMIT')),
	target_value DOUBLE PRECISION NOT NULL DEFAULT 0,
	paused_until TEXT
)`},
	{Type: "table", Name: "habit_schedules", SQL: `CREATE TABLE IF NOT EXISTS habit_schedules (
	id TEXT PRIMARY KEY,
	habit_id TEXT NOT NULL UNIQUE REFERENCES habits(id) ON DELETE CASCADE,
	schedule_type TEXT NOT NULL DEFAULT 'daily',
	frequency_count INTEGER,
	days_of_week TEXT NOT NULL DEFAULT '[]',
	due_time TEXT,
	start_date TEXT,
	end_date TEXT
)`},
	{Type: "table", Name: "completions", SQL: `CREATE TABLE IF NOT EXISTS completions (
	id TEXT PRIMARY KEY,
	habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
	date TEXT NOT NULL,
	created_at TEXT NOT NULL,
	UNIQUE (habit_id, date)
)`},
	{Type: "table", Name: "habit_logs", SQL: `CREATE TABLE IF NOT EXISTS habit_logs (
	id TEXT PRIMARY KEY,
	habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
	date TEXT NOT NULL,
	value DOUBLE PRECISION NOT NULL,
	notes TEXT,
	created_at TEXT NOT NULL
)`},
	{Type: "table", Name: "reminders", SQL: `CREATE TABLE IF NOT EXISTS reminders (
	id TEXT PRIMARY KEY,
	habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
	reminder_time TEXT NOT NULL,
	days TEXT NOT NULL DEFAULT '[]',
	enabled INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL
)`},
	{Type: "table", Name: "checkin_templates", SQL: `CREATE TABLE IF NOT EXISTS checkin_templates (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
)`},
	{Type: "table", Name: "checkin_questions", SQL: `CREATE TABLE IF NOT EXISTS checkin_questions (
	id TEXT PRIMARY KEY,
	template_id TEXT NOT NULL REFERENCES checkin_templates(id) ON DELETE CASCADE,
	prompt TEXT NOT NULL,
	response_type TEXT NOT NULL CHECK (response_type IN ('SCALE', 'TEXT', 'BOOLEAN')),
	display_order INTEGER NOT NULL DEFAULT 0
)`},
	{Type: "table", Name: "checkin_responses", SQL: `CREATE TABLE IF NOT EXISTS checkin_responses (
	id TEXT PRIMARY KEY,
	question_id TEXT NOT NULL REFERENCES checkin_questions(id) ON DELETE CASCADE,
	date TEXT NOT NULL,
	value TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	UNIQUE (question_id, date)
)`},
	{Type: "table", Name: "checkin_reminders", SQL: `CREATE TABLE IF NOT EXISTS checkin_reminders (
	id TEXT PRIMARY KEY,
	template_id TEXT NOT NULL REFERENCES checkin_templates(id) ON DELETE CASCADE,
	reminder_time TEXT NOT NULL,
	days TEXT NOT NULL DEFAULT '[]',
	enabled INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL
)`},
	{Type: "table", Name: "checkin_entries", SQL: `CREATE TABLE IF NOT EXISTS checkin_entries (
	id TEXT PRIMARY KEY,
	date TEXT NOT NULL UNIQUE,
	content TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`},
	{Type: "table", Name: "scribbles", SQL: `CREATE TABLE IF NOT EXISTS scribbles (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '[]',
	annotations TEXT NOT NULL DEFAULT '{}',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`},
	{Type: "table", Name: "bored_categories", SQL: `CREATE TABLE IF NOT EXISTS bored_categories (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	icon TEXT NOT NULL DEFAULT '',
	color TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
)`},
	{Type: "table", Name: "bored_activities", SQL: `CREATE TABLE IF NOT EXISTS bored_activities (
	id TEXT PRIMARY KEY,
	category_id TEXT NOT NULL REFERENCES bored_categories(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	estimated_minutes INTEGER,
	is_done INTEGER NOT NULL DEFAULT 0,
	done_count INTEGER NOT NULL DEFAULT 0,
	last_done_at TEXT,
	completed_at TEXT,
	recurrence TEXT,
	archived_at TEXT,
	created_at TEXT NOT NULL
)`},
	{Type: "table", Name: "todos", SQL: `CREATE TABLE IF NOT EXISTS todos (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	category_id TEXT REFERENCES bored_categories(id) ON DELETE SET NULL,
	due_date TEXT,
	estimated_minutes INTEGER,
	is_done INTEGER NOT NULL DEFAULT 0,
	done_count INTEGER NOT NULL DEFAULT 0,
	last_done_at TEXT,
	completed_at TEXT,
	recurrence TEXT,
	include_in_oracle INTEGER NOT NULL DEFAULT 0,
	archived_at TEXT,
	created_at TEXT NOT NULL
)`},
	{Type: "index", Name: "idx_habits_archived_at", SQL: `CREATE INDEX IF NOT EXISTS idx_habits_archived_at ON habits(archived_at)`},
	{Type: "index", Name: "idx_completions_date", SQL: `CREATE INDEX IF NOT EXISTS idx_completions_date ON completions(date)`},
	{Type: "index", Name: "idx_habit_logs_habit_date", SQL: `CREATE INDEX IF NOT EXISTS idx_habit_logs_habit_date ON habit_logs(habit_id, date)`},
	{Type: "index", Name: "idx_habit_logs_date", SQL: `CREATE INDEX IF NOT EXISTS idx_habit_logs_date ON habit_logs(date)`},
	{Type: "index", Name: "idx_reminders_habit", SQL: `CREATE INDEX IF NOT EXISTS idx_reminders_habit ON reminders(habit_id)`},
	{Type: "index", Name: "idx_checkin_questions_template", SQL: `CREATE INDEX IF NOT EXISTS idx_checkin_questions_template ON checkin_questions(template_id, display_order)`},
	{Type: "index", Name: "idx_checkin_responses_date", SQL: `CREATE INDEX IF NOT EXISTS idx_checkin_responses_date ON checkin_responses(date)`},
	{Type: "index", Name: "idx_checkin_reminders_template", SQL: `CREATE INDEX IF NOT EXISTS idx_checkin_reminders_template ON checkin_reminders(template_id)`},
	{Type: "index", Name: "idx_scribbles_updated_at", SQL: `CREATE INDEX IF NOT EXISTS idx_scribbles_updated_at ON scribbles(updated_at)`},
	{Type: "index", Name: "idx_bored_activities_category", SQL: `CREATE INDEX IF NOT EXISTS idx_bored_activities_category ON bored_activities(category_id)`},
	{Type: "index", Name: "idx_todos_category", SQL: `CREATE INDEX IF NOT EXISTS idx_todos_category ON todos(category_id)`},
	{Type: "index", Name: "idx_todos_due_date", SQL: `CREATE INDEX IF NOT EXISTS idx_todos_due_date ON todos(due_date)`},
}

// DataTables lists the user-data tables children first, the order rows
// must be deleted in when clearing data.
var DataTables = []string{
	"completions",
	"habit_logs",
	"reminders",
	"habit_schedules",
	"habits",
	"checkin_responses",
	"checkin_reminders",
	"checkin_questions",
	"checkin_templates",
	"checkin_entries",
	"scribbles",
	"todos",
	"bored_activities",
	"bored_categories",
}
