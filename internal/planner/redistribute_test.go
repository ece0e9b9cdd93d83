package planner

import (
	"testing"

	"github.com/kmosley/taskplan/internal/models"
)

func session(taskID, date string, num int, start, end string, status models.SessionStatus) models.StudySession {
	return models.StudySession{
		TaskID: taskID, PlanDate: date, SessionNumber: num,
		StartTime: start, EndTime: end,
		AllocatedMinutes: mustMinutes(start, end),
		Status:           status,
	}
}

func mustMinutes(start, end string) int {
	s := parseHHMMOrPanic(start)
	e := parseHHMMOrPanic(end)
	return e - s
}

func parseHHMMOrPanic(hhmm string) int {
	m, err := parseHHMM(hhmm)
	if err != nil {
		panic(err)
	}
	return m
}

// S4: a missed session from a past day gets pulled back into the task's
// remaining work and replanned starting today.
func TestRedistributeReplansMissedSession(t *testing.T) {
	settings := baseSettings()
	today := "2026-08-05" // Wednesday

	task := models.Task{
		ID: "t1", Title: "Write report", EstimatedMinutes: 120,
		Deadline: "2026-08-10", DeadlineType: models.DeadlineSoft,
		TargetFrequency: models.FrequencyDaily, StartDate: "2026-08-03",
		MinSessionMinutes: 15, MaxSessionMinutes: 120,
		Status: models.TaskPending, CreatedAt: "2026-08-01T00:00:00Z",
	}

	plans := []models.StudyPlan{
		{Date: "2026-08-04", PlannedTasks: []models.StudySession{
			session("t1", "2026-08-04", 1, "09:00", "10:00", models.SessionScheduled),
		}},
	}

	newPlans, report, err := Redistribute(plans, []models.Task{task}, settings, nil, today)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.RemovedSessions) != 1 {
		t.Fatalf("expected 1 removed session logged, got %d", len(report.RemovedSessions))
	}

	found := false
	for _, p := range newPlans {
		if p.Date < today {
			t.Errorf("redistribution should not leave sessions before today, found plan on %s", p.Date)
		}
		for _, s := range p.PlannedTasks {
			if s.TaskID == "t1" {
				found = true
				if len(s.RescheduleHistory) == 0 || s.RescheduleHistory[0].Reason != "redistribution" {
					t.Errorf("expected a redistribution reschedule entry, got %+v", s.RescheduleHistory)
				}
			}
		}
	}
	if !found {
		t.Fatal("expected task t1's remaining work to be replanned")
	}
}

// S5: a manually-overridden future session must survive redistribution
// untouched, and its minutes must count against the task's remaining work.
func TestRedistributePreservesManualOverride(t *testing.T) {
	settings := baseSettings()
	today := "2026-08-05" // Wednesday

	task := models.Task{
		ID: "t1", Title: "Write report", EstimatedMinutes: 120,
		Deadline: "2026-08-10", DeadlineType: models.DeadlineSoft,
		TargetFrequency: models.FrequencyDaily, StartDate: "2026-08-03",
		MinSessionMinutes: 15, MaxSessionMinutes: 120,
		Status: models.TaskPending, CreatedAt: "2026-08-01T00:00:00Z",
	}

	manual := session("t1", "2026-08-06", 1, "14:00", "15:00", models.SessionScheduled)
	manual.IsManualOverride = true
	missed := session("t1", "2026-08-04", 2, "09:00", "10:00", models.SessionScheduled)

	plans := []models.StudyPlan{
		{Date: "2026-08-04", PlannedTasks: []models.StudySession{missed}},
		{Date: "2026-08-06", PlannedTasks: []models.StudySession{manual}},
	}

	newPlans, _, err := Redistribute(plans, []models.Task{task}, settings, nil, today)
	if err != nil {
		t.Fatal(err)
	}

	var keptManual *models.StudySession
	for i := range newPlans {
		if newPlans[i].Date != "2026-08-06" {
			continue
		}
		for j := range newPlans[i].PlannedTasks {
			s := &newPlans[i].PlannedTasks[j]
			if s.TaskID == "t1" && s.IsManualOverride {
				keptManual = s
			}
		}
	}
	if keptManual == nil {
		t.Fatal("expected the manually-overridden session on 2026-08-06 to survive redistribution")
	}
	if keptManual.StartTime != "14:00" {
		t.Errorf("manual override should not be moved, got start time %s", keptManual.StartTime)
	}
}

// A task with only a future, non-manual session and no missed work still
// gets reprocessed: its session is pulled and the task's work is replanned
// over its eligible days, so it is still scheduled somewhere afterwards.
func TestRedistributeStableForUntouchedFutureSession(t *testing.T) {
	settings := baseSettings()
	today := "2026-08-05"

	task := models.Task{
		ID: "t2", Status: models.TaskPending, EstimatedMinutes: 60,
		Deadline: "2026-08-10", DeadlineType: models.DeadlineSoft,
		TargetFrequency: models.FrequencyDaily, StartDate: today,
		MinSessionMinutes: 15, MaxSessionMinutes: 120, CreatedAt: "2026-08-01T00:00:00Z",
	}
	future := session("t2", "2026-08-06", 1, "09:00", "10:00", models.SessionScheduled)

	plans := []models.StudyPlan{
		{Date: "2026-08-06", PlannedTasks: []models.StudySession{future}},
	}
	newPlans, report, err := Redistribute(plans, []models.Task{task}, settings, nil, today)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.RemovedSessions) != 1 {
		t.Fatalf("expected the future session to be pulled for replanning, got %d removed", len(report.RemovedSessions))
	}
	found := false
	for _, p := range newPlans {
		for _, s := range p.PlannedTasks {
			if s.TaskID == "t2" {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("expected task t2's work to still be scheduled somewhere after redistribution")
	}
}

func TestMarkMissedSessionsIsIdempotent(t *testing.T) {
	working := map[string]*models.StudyPlan{
		"2026-08-04": {Date: "2026-08-04", PlannedTasks: []models.StudySession{
			session("t1", "2026-08-04", 1, "09:00", "10:00", models.SessionCompleted),
			session("t1", "2026-08-04", 2, "10:00", "11:00", models.SessionScheduled),
		}},
	}
	markMissedSessions(working, "2026-08-05")
	markMissedSessions(working, "2026-08-05")

	p := working["2026-08-04"]
	if p.PlannedTasks[0].Status != models.SessionCompleted {
		t.Errorf("completed sessions must never be reclassified as missed, got %s", p.PlannedTasks[0].Status)
	}
	if p.PlannedTasks[1].Status != models.SessionMissed {
		t.Errorf("expected the scheduled past session to become missed, got %s", p.PlannedTasks[1].Status)
	}
}
