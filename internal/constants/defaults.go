package constants

// Seed ledger keys. A key is never reused for different content; new
// default content gets a new key.
const (
	SeedCheckinDaily  = "checkin_template_daily_v1"
	SeedCheckinWeekly = "checkin_template_weekly_v1"
	SeedBoredDefaults = "bored_defaults_v1"
)

// Habit types
const (
	HabitTypeBoolean = "BOOLEAN"
	HabitTypeNumeric = "NUMERIC"
	HabitTypeLimit   = "LIMIT"
)

// Check-in question response kinds
const (
	ResponseScale   = "SCALE"
	ResponseText    = "TEXT"
	ResponseBoolean = "BOOLEAN"
)

// Recurrence rules for bored activities and todos
const (
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
)

// Schedule kinds
const (
	ScheduleDaily        = "daily"
	ScheduleWeekly       = "weekly"
	ScheduleSpecificDays = "specific_days"
	ScheduleTimesPerWeek = "times_per_week"
)

const (
	DefaultHabitColor     = "#6366f1"
	DefaultHabitIcon      = "check"
	DefaultHabitFrequency = "daily"
)
