package constants

import "time"

// SessionState enumerates the views of a four-tab interface. No package in
// this repository reads it.
type SessionState int

const (
	AppName            = "taskplan"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/taskplan/taskplan.db"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD).
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM).
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "taskplan-"
	BackupFileSuffix = ".db"

	// Alert dispatch retry constants, reused by internal/alerts for delivering
	// deadline-risk notices through a pluggable sink.
	AlertMaxRetries = 3
	AlertRetryDelay = 100 * time.Millisecond

	// NumMainTabs is the number of main navigation tabs of that interface.
	NumMainTabs = 4 // Plan, Tasks, Unscheduled, Settings

	// Session states of that interface
	StatePlan SessionState = iota
	StateTasks
	StateUnscheduled
	StateSettings
	StateEditing
	StateConfirmDelete
	StateConfirmRestore
	StateEditSettings
)
