package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kmosley/taskplan/internal/cli"
	"github.com/kmosley/taskplan/internal/models"
	"github.com/kmosley/taskplan/internal/storage"
	"github.com/kmosley/taskplan/internal/storage/postgres"
	"github.com/kmosley/taskplan/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to migrate data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	// If force flag is provided, delete existing database
	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		// Don't delete if it's the source (user error protection)
		if c.Source != "" {
			// Normalize paths to absolute for accurate comparison
			absDbPath, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = absDbPath
			}
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			// Database exists, close it first to prevent file locking issues
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			// Then delete it
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			// Some other error occurred while checking the database; surface it to the user
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	// Initialize destination store
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized taskplan storage at: %s\n", ctx.Store.GetConfigPath())

	// If source is provided, migrate data
	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}

	return nil
}

func (c *InitCmd) migrateData(ctx *cli.Context, sourcePath string) error {
	// Determine source store type and instantiate it
	var sourceStore storage.Provider
	if strings.HasPrefix(sourcePath, "postgres://") || strings.HasPrefix(sourcePath, "postgresql://") {
		// Validate source connection string for embedded credentials
		if valid, err := postgres.ValidateConnString(sourcePath); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			// For other validation errors, we can return them or proceed (and likely fail later).
			return err
		}
		sourceStore = postgres.New(sourcePath)
	} else {
		// Default to SQLite for file paths
		sourceStore = sqlite.NewStore(sourcePath)
	}

	// Load the source store
	if err := sourceStore.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer sourceStore.Close()

	// Migrate Settings
	fmt.Println("  Migrating settings...")
	settings, err := sourceStore.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	// Migrate Tasks
	fmt.Println("  Migrating tasks...")
	tasks, err := sourceStore.GetAllTasksIncludingDeleted()
	if err != nil {
		return fmt.Errorf("failed to get tasks from source: %w", err)
	}
	for _, task := range tasks {
		if err := ctx.Store.AddTask(task); err != nil {
			return fmt.Errorf("failed to add task %s: %w", task.ID, err)
		}
	}
	fmt.Printf("    Migrated %d tasks\n", len(tasks))

	// Migrate Commitments
	fmt.Println("  Migrating commitments...")
	commitments, err := sourceStore.GetAllCommitmentsIncludingDeleted()
	if err != nil {
		return fmt.Errorf("failed to get commitments from source: %w", err)
	}
	for _, commitment := range commitments {
		if err := ctx.Store.AddCommitment(commitment); err != nil {
			return fmt.Errorf("failed to add commitment %s: %w", commitment.ID, err)
		}
	}
	fmt.Printf("    Migrated %d commitments\n", len(commitments))

	// Migrate Plans
	fmt.Println("  Migrating plans...")
	plans, err := sourceStore.GetAllPlans()
	if err != nil {
		return fmt.Errorf("failed to get plans from source: %w", err)
	}
	for _, plan := range plans {
		if err := ctx.Store.SavePlan(plan); err != nil {
			return fmt.Errorf("failed to save plan for date %s: %w", plan.Date, err)
		}
	}
	fmt.Printf("    Migrated %d plans\n", len(plans))

	// Migrate the redistribution audit log, one task at a time since the
	// interface only exposes per-task lookups.
	fmt.Println("  Migrating redistribution log...")
	logEntries := 0
	for _, task := range tasks {
		entries, err := sourceStore.GetRedistributionLog(task.ID)
		if err != nil {
			return fmt.Errorf("failed to get redistribution log for task %s: %w", task.ID, err)
		}
		if len(entries) == 0 {
			continue
		}
		if err := ctx.Store.AppendRedistributionLog(entries); err != nil {
			return fmt.Errorf("failed to append redistribution log for task %s: %w", task.ID, err)
		}
		logEntries += len(entries)
	}
	fmt.Printf("    Migrated %d redistribution log entries\n", logEntries)

	// Migrate unscheduled digests covering the range of migrated plan dates.
	fmt.Println("  Migrating unscheduled digests...")
	if start, end, ok := planDateRange(plans); ok {
		digests, err := sourceStore.GetUnscheduledDigests(start, end)
		if err != nil {
			return fmt.Errorf("failed to get unscheduled digests from source: %w", err)
		}
		for _, digest := range digests {
			if err := ctx.Store.SaveUnscheduledDigest(digest); err != nil {
				return fmt.Errorf("failed to save unscheduled digest for %s: %w", digest.Day, err)
			}
		}
		fmt.Printf("    Migrated %d unscheduled digests\n", len(digests))
	} else {
		fmt.Println("    No plans migrated, skipping unscheduled digests")
	}

	// Migrate Alerts
	fmt.Println("  Migrating alerts...")
	alertCount := 0
	for _, task := range tasks {
		taskAlerts, err := sourceStore.GetAlertsForTask(task.ID)
		if err != nil {
			return fmt.Errorf("failed to get alerts for task %s: %w", task.ID, err)
		}
		for _, alert := range taskAlerts {
			if err := ctx.Store.AddAlert(alert); err != nil {
				return fmt.Errorf("failed to add alert %s: %w", alert.ID, err)
			}
		}
		alertCount += len(taskAlerts)
	}
	fmt.Printf("    Migrated %d alerts\n", alertCount)

	return nil
}

// planDateRange returns the earliest and latest plan date among the given
// plans, used to bound the unscheduled digest lookup during migration.
func planDateRange(plans []models.StudyPlan) (string, string, bool) {
	if len(plans) == 0 {
		return "", "", false
	}
	start, end := plans[0].Date, plans[0].Date
	for _, p := range plans[1:] {
		if p.Date < start {
			start = p.Date
		}
		if p.Date > end {
			end = p.Date
		}
	}
	return start, end, true
}
