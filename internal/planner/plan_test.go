package planner

import (
	"testing"
	"time"

	"github.com/kmosley/taskplan/internal/models"
	"github.com/kmosley/taskplan/internal/timeutil"
)

func baseSettings() models.UserSettings {
	return models.UserSettings{
		DailyAvailableMinutes:        480,
		WorkDays:                     []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		StudyWindowStartMinute:       9 * 60,
		StudyWindowEndMinute:         17 * 60,
		BufferBetweenSessionsMinutes: 0,
		BufferDaysBeforeDeadline:     0,
		MinSessionMinutes:            30,
		StudyPlanMode:                models.ModeEven,
	}
}

func mustAddDays(t *testing.T, date string, n int) string {
	t.Helper()
	d, err := timeutil.AddDays(date, n)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

// S1: simple distribution of a daily task across the next four work days.
func TestGenerateInitialPlanSimpleDistribution(t *testing.T) {
	settings := baseSettings()
	today := "2026-08-03" // Monday

	task := models.Task{
		ID:                "t1",
		Title:             "Write report",
		EstimatedMinutes:  240,
		Deadline:          mustAddDays(t, today, 3), // Thursday, inclusive
		DeadlineType:      models.DeadlineSoft,
		TargetFrequency:   models.FrequencyDaily,
		StartDate:         today,
		MinSessionMinutes: 30,
		MaxSessionMinutes: 120,
		Status:            models.TaskPending,
		CreatedAt:         "2026-08-01T00:00:00Z",
	}

	plans, report, err := GenerateInitialPlan([]models.Task{task}, settings, nil, today)
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalUnscheduledMinutes() != 0 {
		t.Errorf("expected no unscheduled minutes, got %+v", report)
	}
	if len(plans) != 4 {
		t.Fatalf("expected 4 plans, got %d: %+v", len(plans), plans)
	}
	for _, p := range plans {
		if len(p.PlannedTasks) != 1 {
			t.Fatalf("expected 1 session on %s, got %d", p.Date, len(p.PlannedTasks))
		}
		s := p.PlannedTasks[0]
		if s.StartTime != "09:00" || s.AllocatedMinutes != 60 {
			t.Errorf("session on %s = %+v, want 09:00 for 60 minutes", p.Date, s)
		}
	}
}

// S2: a recurring commitment displaces each day's session later in the day.
func TestGenerateInitialPlanCommitmentDisplacement(t *testing.T) {
	settings := baseSettings()
	today := "2026-08-03" // Monday

	task := models.Task{
		ID: "t1", Title: "Write report", EstimatedMinutes: 240,
		Deadline: mustAddDays(t, today, 4), DeadlineType: models.DeadlineSoft,
		TargetFrequency: models.FrequencyDaily, StartDate: today,
		MinSessionMinutes: 30, MaxSessionMinutes: 120,
		Status: models.TaskPending, CreatedAt: "2026-08-01T00:00:00Z",
	}
	commitment := models.FixedCommitment{
		ID: "c1", Recurring: true,
		DaysOfWeek: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		StartTime:  "09:00", EndTime: "10:30",
	}

	plans, _, err := GenerateInitialPlan([]models.Task{task}, settings, []models.FixedCommitment{commitment}, today)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range plans {
		if len(p.PlannedTasks) != 1 {
			t.Fatalf("expected 1 session on %s, got %d", p.Date, len(p.PlannedTasks))
		}
		if p.PlannedTasks[0].StartTime != "10:30" {
			t.Errorf("session on %s should start at 10:30 after the commitment, got %s", p.Date, p.PlannedTasks[0].StartTime)
		}
	}
}

// S3: a hard-deadline task whose estimate exceeds the available capacity
// produces a critical unscheduled report entry with the expected remedies.
func TestGenerateInitialPlanHardDeadlineOverflow(t *testing.T) {
	settings := baseSettings()
	settings.StudyWindowStartMinute = 9 * 60
	settings.StudyWindowEndMinute = 11 * 60 // only 2 hours/day available
	today := "2026-08-03"                   // Monday

	task := models.Task{
		ID: "t1", Title: "Cram", EstimatedMinutes: 600,
		Deadline: mustAddDays(t, today, 2), DeadlineType: models.DeadlineHard,
		TargetFrequency: models.FrequencyFlexible, StartDate: today,
		MinSessionMinutes: 30, MaxSessionMinutes: 240,
		Status: models.TaskPending, CreatedAt: "2026-08-01T00:00:00Z",
	}

	_, report, err := GenerateInitialPlan([]models.Task{task}, settings, nil, today)
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalUnscheduledMinutes() == 0 {
		t.Fatal("expected unscheduled minutes when capacity can't absorb the estimate")
	}
	entry := report.Entries[0]
	if entry.Urgency != models.UrgencyCritical {
		t.Errorf("expected critical urgency, got %s", entry.Urgency)
	}
	hasRemedy := func(r models.Remedy) bool {
		for _, x := range entry.Remedies {
			if x == r {
				return true
			}
		}
		return false
	}
	if !hasRemedy(models.RemedyIncreaseDailyHours) || !hasRemedy(models.RemedyExtendDeadline) {
		t.Errorf("expected increase_daily_hours and extend_deadline remedies, got %v", entry.Remedies)
	}
}

func TestGenerateInitialPlanRejectsNonPositiveEstimate(t *testing.T) {
	settings := baseSettings()
	task := models.Task{ID: "t1", EstimatedMinutes: 0, Status: models.TaskPending}
	_, _, err := GenerateInitialPlan([]models.Task{task}, settings, nil, "2026-08-03")
	if err == nil {
		t.Fatal("expected an input-shape error for estimatedMinutes <= 0")
	}
}

func TestGenerateInitialPlanRejectsRecurringCommitmentWithNoDays(t *testing.T) {
	settings := baseSettings()
	commitment := models.FixedCommitment{ID: "c1", Recurring: true, StartTime: "09:00", EndTime: "10:00"}
	_, _, err := GenerateInitialPlan(nil, settings, []models.FixedCommitment{commitment}, "2026-08-03")
	if err == nil {
		t.Fatal("expected an input-shape error for a recurring commitment with no days of week")
	}
}
