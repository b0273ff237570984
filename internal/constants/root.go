package constants

import "time"

const (
	AppName            = "tracklit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/tracklit"
	DefaultDBName      = "tracklit.db"
	Version            = "v0.3.0"

	// DateFormat is the calendar-day format used for scheduling and completion (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the reminder trigger format (HH:MM)
	TimeFormat = "15:04"

	// TimestampFormat is the ISO-8601 layout for created/updated/archived stamps
	TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

	// Backend names
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"

	// Concurrency gate constants
	LockFileSuffix     = ".lock"
	LockMaxAttempts    = 3
	LockRetryDelay     = 250 * time.Millisecond
	DefaultListenAddr  = "127.0.0.1:8787"
	DefaultWorkerQueue = 64

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "tracklit-"
	BackupFileSuffix = ".db"

	// SnapshotVersion is the only snapshot bundle version accepted on import
	SnapshotVersion = 1
)
