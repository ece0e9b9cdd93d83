package storage

import "github.com/kmosley/taskplan/internal/models"

// Provider persists the task-planning domain. Every concrete backend
// (sqlite, postgres) implements the same contract so the CLI commands never
// branch on which one is active.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.UserSettings, error)
	SaveSettings(models.UserSettings) error

	// Tasks
	AddTask(models.Task) error
	GetTask(id string) (models.Task, error)
	GetAllTasks() ([]models.Task, error)
	GetAllTasksIncludingDeleted() ([]models.Task, error)
	UpdateTask(models.Task) error
	DeleteTask(id string) error
	RestoreTask(id string) error

	// Commitments
	AddCommitment(models.FixedCommitment) error
	GetCommitment(id string) (models.FixedCommitment, error)
	GetAllCommitments() ([]models.FixedCommitment, error)
	GetAllCommitmentsIncludingDeleted() ([]models.FixedCommitment, error)
	UpdateCommitment(models.FixedCommitment) error
	DeleteCommitment(id string) error
	RestoreCommitment(id string) error

	// Plans
	SavePlan(models.StudyPlan) error
	GetPlan(date string) (models.StudyPlan, error)
	GetAllPlans() ([]models.StudyPlan, error)
	DeletePlan(date string) error

	// Redistribution audit log
	AppendRedistributionLog(entries []models.RemovedSessionLogEntry) error
	GetRedistributionLog(taskID string) ([]models.RemovedSessionLogEntry, error)

	// Unscheduled-work digest
	SaveUnscheduledDigest(models.UnscheduledDigest) error
	GetUnscheduledDigest(day string) (models.UnscheduledDigest, error)
	GetUnscheduledDigests(startDay, endDay string) ([]models.UnscheduledDigest, error)

	// Deadline-risk alerts
	AddAlert(models.Alert) error
	GetPendingAlerts() ([]models.Alert, error)
	GetAlertsForTask(taskID string) ([]models.Alert, error)
	MarkAlertFired(id string) error

	// Utils
	GetConfigPath() string
}
