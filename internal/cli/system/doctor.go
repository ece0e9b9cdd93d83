package system

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/kmosley/taskplan/internal/backup"
	"github.com/kmosley/taskplan/internal/cli"
	"github.com/kmosley/taskplan/internal/migration"
	"github.com/kmosley/taskplan/internal/storage/sqlite"
	"github.com/kmosley/taskplan/migrations"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	// Check 1: DB reachable
	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	// Check 2: Schema version valid (only if DB is reachable)
	if dbReachable {
		if err := checkSchemaVersion(ctx); err != nil {
			fmt.Printf("❌ Schema version: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Schema version: OK\n")
		}
	} else {
		fmt.Printf("⊘ Schema version: SKIPPED (database not reachable)\n")
	}

	// Check 3: Migrations complete (only if DB is reachable)
	if dbReachable {
		if err := checkMigrationsComplete(ctx); err != nil {
			fmt.Printf("❌ Migrations complete: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Migrations complete: OK\n")
		}
	} else {
		fmt.Printf("⊘ Migrations complete: SKIPPED (database not reachable)\n")
	}

	// Check 4: Backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	// Check 5: Validation passes (only if DB is reachable)
	if dbReachable {
		if err := checkValidation(ctx); err != nil {
			fmt.Printf("❌ Data validation: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Data validation: OK\n")
		}
	} else {
		fmt.Printf("⊘ Data validation: SKIPPED (database not reachable)\n")
	}

	// Check 6: Clock/timezone sanity
	if err := checkClockTimezone(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	// Check 7: Session integrity (only if DB is reachable)
	if dbReachable {
		if err := checkSessionsIntegrity(ctx); err != nil {
			fmt.Printf("❌ Session integrity: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Session integrity: OK\n")
		}
	} else {
		fmt.Printf("⊘ Session integrity: SKIPPED (database not reachable)\n")
	}

	// Check 8: Duplicate session numbers (only if DB is reachable)
	if dbReachable {
		if err := checkDuplicateSessionNumbers(ctx); err != nil {
			fmt.Printf("❌ Duplicate session numbers: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Duplicate session numbers: OK\n")
		}
	} else {
		fmt.Printf("⊘ Duplicate session numbers: SKIPPED (database not reachable)\n")
	}

	// Check 9: Alert integrity (only if DB is reachable)
	if dbReachable {
		if err := checkAlertsIntegrity(ctx); err != nil {
			fmt.Printf("❌ Alert integrity: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Alert integrity: OK\n")
		}
	} else {
		fmt.Printf("⊘ Alert integrity: SKIPPED (database not reachable)\n")
	}

	// Check 10: Date formats (only if DB is reachable)
	if dbReachable {
		if err := checkDateFormats(ctx); err != nil {
			fmt.Printf("❌ Date formats: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Date formats: OK\n")
		}
	} else {
		fmt.Printf("⊘ Date formats: SKIPPED (database not reachable)\n")
	}

	// Check 11: Timestamp integrity (only if DB is reachable)
	if dbReachable {
		if err := checkTimestampIntegrity(ctx); err != nil {
			fmt.Printf("❌ Timestamp integrity: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Timestamp integrity: OK\n")
		}
	} else {
		fmt.Printf("⊘ Timestamp integrity: SKIPPED (database not reachable)\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func migrationRunner(ctx *cli.Context) (*migration.Runner, bool, error) {
	sqliteStore, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil, false, nil
	}

	db := sqliteStore.GetDB()
	if db == nil {
		return nil, true, fmt.Errorf("database connection is nil")
	}

	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, true, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}

	return migration.NewRunner(db, subFS, migration.DriverSQLite), true, nil
}

func checkDBReachable(ctx *cli.Context) error {
	// Try to load the database
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	// For SQLite, also try a simple query
	if sqliteStore, ok := ctx.Store.(*sqlite.Store); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	runner, isSQLite, err := migrationRunner(ctx)
	if err != nil {
		return err
	}
	if !isSQLite {
		return nil
	}

	currentVersion, err := runner.GetCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	latestVersion, err := runner.GetLatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}

	if currentVersion > latestVersion {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", currentVersion, latestVersion)
	}

	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	runner, isSQLite, err := migrationRunner(ctx)
	if err != nil {
		return err
	}
	if !isSQLite {
		return nil
	}

	currentVersion, err := runner.GetCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	latestVersion, err := runner.GetLatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}

	if currentVersion < latestVersion {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", currentVersion, latestVersion)
	}

	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'taskplan backup create'")
	}

	return nil
}

func checkValidation(ctx *cli.Context) error {
	// Try to get settings
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	// Try to get all tasks
	tasks, err := ctx.Store.GetAllTasks()
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}

	// Basic validation: check for duplicate IDs
	taskIDs := make(map[string]bool)
	for _, task := range tasks {
		if taskIDs[task.ID] {
			return fmt.Errorf("duplicate task ID found: %s", task.ID)
		}
		taskIDs[task.ID] = true
	}

	commitments, err := ctx.Store.GetAllCommitments()
	if err != nil {
		return fmt.Errorf("failed to get commitments: %w", err)
	}
	commitmentIDs := make(map[string]bool)
	for _, c := range commitments {
		if commitmentIDs[c.ID] {
			return fmt.Errorf("duplicate commitment ID found: %s", c.ID)
		}
		commitmentIDs[c.ID] = true
	}

	return nil
}

func checkClockTimezone() error {
	// Check if system time is reasonable
	now := time.Now()

	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	return nil
}

func checkSessionsIntegrity(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil // Not SQLite, skip
	}

	db := sqliteStore.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	// Check for sessions referencing non-existent tasks
	var orphanedCount int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM sessions s
		LEFT JOIN tasks t ON s.task_id = t.id
		WHERE t.id IS NULL
	`).Scan(&orphanedCount)
	if err != nil {
		return fmt.Errorf("failed to check orphaned sessions: %w", err)
	}
	if orphanedCount > 0 {
		return fmt.Errorf("found %d sessions referencing non-existent tasks", orphanedCount)
	}

	return nil
}

func checkDuplicateSessionNumbers(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil // Not SQLite, skip
	}

	db := sqliteStore.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	// The primary key already forbids this, but catch any constraint drift.
	var duplicateCount int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM (
			SELECT plan_date, task_id, session_number, COUNT(*) as cnt
			FROM sessions
			GROUP BY plan_date, task_id, session_number
			HAVING cnt > 1
		)
	`).Scan(&duplicateCount)
	if err != nil {
		return fmt.Errorf("failed to check duplicate session numbers: %w", err)
	}
	if duplicateCount > 0 {
		return fmt.Errorf("found %d plan+task+session combinations with duplicate entries", duplicateCount)
	}

	return nil
}

func checkAlertsIntegrity(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil // Not SQLite, skip
	}

	db := sqliteStore.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	// Check for alerts referencing non-existent tasks
	var orphanedCount int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM alerts a
		LEFT JOIN tasks t ON a.task_id = t.id
		WHERE t.id IS NULL
	`).Scan(&orphanedCount)
	if err != nil {
		return fmt.Errorf("failed to check orphaned alerts: %w", err)
	}
	if orphanedCount > 0 {
		return fmt.Errorf("found %d alerts referencing non-existent tasks", orphanedCount)
	}

	return nil
}

func checkDateFormats(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil // Not SQLite, skip
	}

	db := sqliteStore.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	// Check for invalid date formats in plans
	var invalidCount int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM plans
		WHERE date NOT GLOB '[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]'
	`).Scan(&invalidCount)
	if err != nil {
		return fmt.Errorf("failed to check plan dates: %w", err)
	}
	if invalidCount > 0 {
		return fmt.Errorf("found %d plans with invalid date format", invalidCount)
	}

	// Check for invalid date formats in the unscheduled digest
	err = db.QueryRow(`
		SELECT COUNT(*)
		FROM unscheduled_digest
		WHERE day NOT GLOB '[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]'
	`).Scan(&invalidCount)
	if err != nil {
		return fmt.Errorf("failed to check unscheduled digest days: %w", err)
	}
	if invalidCount > 0 {
		return fmt.Errorf("found %d unscheduled digest entries with invalid date format", invalidCount)
	}

	return nil
}

func checkTimestampIntegrity(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil // Not SQLite, skip
	}

	db := sqliteStore.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	// Check tasks
	var corruptedCount int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM tasks
		WHERE created_at = ''
	`).Scan(&corruptedCount)
	if err != nil {
		return fmt.Errorf("failed to check task timestamps: %w", err)
	}
	if corruptedCount > 0 {
		return fmt.Errorf("found %d tasks with corrupted timestamps", corruptedCount)
	}

	// Check alerts
	err = db.QueryRow(`
		SELECT COUNT(*)
		FROM alerts
		WHERE created_at = ''
	`).Scan(&corruptedCount)
	if err != nil {
		return fmt.Errorf("failed to check alert timestamps: %w", err)
	}
	if corruptedCount > 0 {
		return fmt.Errorf("found %d alerts with corrupted timestamps", corruptedCount)
	}

	// Check redistribution log entries
	err = db.QueryRow(`
		SELECT COUNT(*)
		FROM redistribution_log
		WHERE created_at = ''
	`).Scan(&corruptedCount)
	if err != nil {
		return fmt.Errorf("failed to check redistribution log timestamps: %w", err)
	}
	if corruptedCount > 0 {
		return fmt.Errorf("found %d redistribution log entries with corrupted timestamps", corruptedCount)
	}

	return nil
}
