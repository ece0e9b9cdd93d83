package validation

import (
	"testing"
	"time"

	"github.com/kmosley/taskplan/internal/models"
)

func TestValidateTasksDuplicateID(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Title: "A", Status: models.TaskPending},
		{ID: "1", Title: "B", Status: models.TaskPending},
	}
	result := ValidateTasks(tasks)
	if !result.HasConflicts() {
		t.Fatal("expected a duplicate task ID conflict")
	}
	if result.Conflicts[0].Type != ConflictDuplicateTaskID {
		t.Errorf("got %s", result.Conflicts[0].Type)
	}
}

func TestValidateTasksSkipsDeleted(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Title: "A", Status: models.TaskPending, DeletedAt: "2026-08-01T00:00:00Z"},
		{ID: "1", Title: "B", Status: models.TaskPending},
	}
	result := ValidateTasks(tasks)
	if result.HasConflicts() {
		t.Errorf("a soft-deleted task should not trigger a duplicate-ID conflict: %s", result.FormatReport())
	}
}

func TestValidateTasksStartAfterDeadline(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Title: "A", Status: models.TaskPending, StartDate: "2026-08-10", Deadline: "2026-08-05"},
	}
	result := ValidateTasks(tasks)
	if !result.HasConflicts() {
		t.Fatal("expected an invalid-datetime conflict for a start date after the deadline")
	}
}

func TestValidateTasksInvalidDateFormat(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Title: "A", Status: models.TaskPending, Deadline: "not-a-date"},
	}
	result := ValidateTasks(tasks)
	if !result.HasConflicts() {
		t.Fatal("expected an invalid-datetime conflict for a malformed deadline")
	}
}

func TestValidateCommitmentsDuplicateID(t *testing.T) {
	commitments := []models.FixedCommitment{
		{ID: "c1", Title: "A", StartTime: "09:00", EndTime: "10:00"},
		{ID: "c1", Title: "B", StartTime: "11:00", EndTime: "12:00"},
	}
	result := ValidateCommitments(commitments)
	if !result.HasConflicts() {
		t.Fatal("expected a duplicate commitment ID conflict")
	}
}

func TestValidateCommitmentsEndBeforeStart(t *testing.T) {
	commitments := []models.FixedCommitment{
		{ID: "c1", Title: "A", StartTime: "10:00", EndTime: "09:00"},
	}
	result := ValidateCommitments(commitments)
	if !result.HasConflicts() {
		t.Fatal("expected an invalid-datetime conflict for end before start")
	}
}

func TestValidateCommitmentsOverlapRespectsDisjointWeekdays(t *testing.T) {
	commitments := []models.FixedCommitment{
		{ID: "c1", Title: "Mon", Recurring: true, DaysOfWeek: []time.Weekday{time.Monday}, StartTime: "09:00", EndTime: "10:00"},
		{ID: "c2", Title: "Tue", Recurring: true, DaysOfWeek: []time.Weekday{time.Tuesday}, StartTime: "09:00", EndTime: "10:00"},
	}
	result := ValidateCommitments(commitments)
	if result.HasConflicts() {
		t.Errorf("disjoint weekdays should not conflict: %s", result.FormatReport())
	}
}

func TestValidateCommitmentsOverlapDetectsSharedWeekday(t *testing.T) {
	commitments := []models.FixedCommitment{
		{ID: "c1", Title: "MW", Recurring: true, DaysOfWeek: []time.Weekday{time.Monday, time.Wednesday}, StartTime: "09:00", EndTime: "10:00"},
		{ID: "c2", Title: "WF", Recurring: true, DaysOfWeek: []time.Weekday{time.Wednesday, time.Friday}, StartTime: "09:30", EndTime: "10:30"},
	}
	result := ValidateCommitments(commitments)
	if !result.HasConflicts() {
		t.Fatal("expected an overlap conflict for a shared weekday")
	}
}

func TestValidateCommitmentsMalformedOverrideDate(t *testing.T) {
	commitments := []models.FixedCommitment{
		{ID: "c1", Title: "A", StartTime: "09:00", EndTime: "10:00", DeletedOccurrences: []string{"not-a-date"}},
	}
	result := ValidateCommitments(commitments)
	if !result.HasConflicts() {
		t.Fatal("expected a malformed-override conflict")
	}
}

func TestValidateSessionReferencesDetectsOrphan(t *testing.T) {
	tasks := []models.Task{{ID: "t1", Title: "A", Status: models.TaskPending}}
	plans := []models.StudyPlan{
		{Date: "2026-08-05", PlannedTasks: []models.StudySession{
			{TaskID: "missing", PlanDate: "2026-08-05", StartTime: "09:00", EndTime: "10:00"},
		}},
	}
	result := ValidateSessionReferences(plans, tasks)
	if !result.HasConflicts() {
		t.Fatal("expected an orphaned-session conflict")
	}
}

func TestValidateSessionReferencesAcceptsKnownTask(t *testing.T) {
	tasks := []models.Task{{ID: "t1", Title: "A", Status: models.TaskPending}}
	plans := []models.StudyPlan{
		{Date: "2026-08-05", PlannedTasks: []models.StudySession{
			{TaskID: "t1", PlanDate: "2026-08-05", StartTime: "09:00", EndTime: "10:00"},
		}},
	}
	result := ValidateSessionReferences(plans, tasks)
	if result.HasConflicts() {
		t.Errorf("expected no conflicts for a valid reference: %s", result.FormatReport())
	}
}
