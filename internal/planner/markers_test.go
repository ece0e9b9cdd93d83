package planner

import (
	"testing"
	"time"

	"github.com/kmosley/taskplan/internal/models"
)

func onePlan(s models.StudySession) []models.StudyPlan {
	return []models.StudyPlan{{Date: s.PlanDate, PlannedTasks: []models.StudySession{s}}}
}

func TestMarkCompletedSetsStatusAndActualMinutes(t *testing.T) {
	plans := onePlan(session("t1", "2026-08-05", 1, "09:00", "10:00", models.SessionScheduled))
	result, err := MarkCompleted(plans, "2026-08-05", "t1", 1, 45)
	if err != nil {
		t.Fatal(err)
	}
	s := result[0].PlannedTasks[0]
	if s.Status != models.SessionCompleted || s.AllocatedMinutes != 45 {
		t.Errorf("got %+v", s)
	}
}

func TestMarkCompletedNotFound(t *testing.T) {
	plans := onePlan(session("t1", "2026-08-05", 1, "09:00", "10:00", models.SessionScheduled))
	_, err := MarkCompleted(plans, "2026-08-05", "t1", 2, 0)
	if err == nil {
		t.Fatal("expected a not-found error for a nonexistent session number")
	}
}

func TestSkipSessionFullMode(t *testing.T) {
	plans := onePlan(session("t1", "2026-08-05", 1, "09:00", "10:00", models.SessionScheduled))
	at := fixedTime()
	result, err := SkipSession(plans, "2026-08-05", "t1", 1, SkipFull, 0, "feeling sick", nil, baseSettings(), nil, at)
	if err != nil {
		t.Fatal(err)
	}
	s := result[0].PlannedTasks[0]
	if s.Status != models.SessionSkippedUser || s.SkipReason != "feeling sick" {
		t.Errorf("got %+v", s)
	}
	if s.SkippedAt == nil || !s.SkippedAt.Equal(at) {
		t.Errorf("expected SkippedAt to record the supplied timestamp, got %v", s.SkippedAt)
	}
}

func TestSkipSessionPartialPlacesRemainderSameDay(t *testing.T) {
	settings := baseSettings()
	plans := onePlan(session("t1", "2026-08-05", 1, "09:00", "10:00", models.SessionScheduled))
	at := fixedTime()

	result, err := SkipSession(plans, "2026-08-05", "t1", 1, SkipPartial, 20, "interrupted", nil, settings, nil, at)
	if err != nil {
		t.Fatal(err)
	}

	var original, remainder *models.StudySession
	for i := range result[0].PlannedTasks {
		s := &result[0].PlannedTasks[i]
		if s.SessionNumber == 1 {
			original = s
		} else {
			remainder = s
		}
	}
	if original == nil || original.AllocatedMinutes != 20 || original.EndTime != "09:20" {
		t.Fatalf("expected the original session shortened to 20 minutes, got %+v", original)
	}
	if remainder == nil {
		t.Fatal("expected a remainder session to be placed")
	}
	if remainder.AllocatedMinutes != 40 {
		t.Errorf("expected the 40-minute remainder placed, got %d", remainder.AllocatedMinutes)
	}
	if len(remainder.RescheduleHistory) == 0 || remainder.RescheduleHistory[0].Reason != "skip_remainder" {
		t.Errorf("expected a skip_remainder reschedule entry, got %+v", remainder.RescheduleHistory)
	}
}

func TestSkipSessionPartialUnplaceableEmitsFailedClone(t *testing.T) {
	settings := baseSettings()
	settings.StudyWindowStartMinute = 9 * 60
	settings.StudyWindowEndMinute = 9*60 + 30 // only 30 minutes in the window, too small for the 40-minute remainder

	plans := onePlan(session("t1", "2026-08-05", 1, "09:00", "10:00", models.SessionScheduled))
	at := fixedTime()

	result, err := SkipSession(plans, "2026-08-05", "t1", 1, SkipPartial, 20, "interrupted", nil, settings, nil, at)
	if err != nil {
		t.Fatal(err)
	}

	foundFailed := false
	for _, s := range result[0].PlannedTasks {
		if s.Status == models.SessionFailed {
			foundFailed = true
			if s.AllocatedMinutes != 40 {
				t.Errorf("expected the failed clone to carry the 40-minute remainder, got %d", s.AllocatedMinutes)
			}
		}
	}
	if !foundFailed {
		t.Fatal("expected a failed clone when the remainder can't be placed anywhere")
	}
}

// S6: cross-day moves are rejected unconditionally, before any slot search.
func TestMoveSessionRejectsCrossDayMove(t *testing.T) {
	settings := baseSettings()
	plans := onePlan(session("t1", "2026-08-05", 1, "09:00", "10:00", models.SessionScheduled))
	at := fixedTime()

	result, moveResult, err := MoveSession(plans, nil, settings, "2026-08-05", "t1", 1, "2026-08-06", 9*60, at)
	if moveResult != MoveRejected {
		t.Errorf("expected MoveRejected, got %s", moveResult)
	}
	if err == nil {
		t.Fatal("expected a rejection error for a cross-day move")
	}
	if len(result[0].PlannedTasks) != 1 || result[0].PlannedTasks[0].StartTime != "09:00" {
		t.Errorf("rejected move must leave the original plan untouched, got %+v", result)
	}
}

func TestMoveSessionExactTargetSucceeds(t *testing.T) {
	settings := baseSettings()
	plans := onePlan(session("t1", "2026-08-05", 1, "09:00", "10:00", models.SessionScheduled))
	at := fixedTime()

	result, moveResult, err := MoveSession(plans, nil, settings, "2026-08-05", "t1", 1, "2026-08-05", 11*60, at)
	if err != nil {
		t.Fatal(err)
	}
	if moveResult != MoveExact {
		t.Errorf("expected MoveExact, got %s", moveResult)
	}
	s := result[0].PlannedTasks[0]
	if s.StartTime != "11:00" || !s.IsManualOverride {
		t.Errorf("got %+v", s)
	}
	if s.OriginalStartTime != "09:00" || s.OriginalDate != "2026-08-05" {
		t.Errorf("expected original start time/date preserved, got %+v", s)
	}
	if s.RescheduledAt == nil || !s.RescheduledAt.Equal(at) {
		t.Errorf("expected RescheduledAt to record the supplied timestamp")
	}
}

func TestMoveSessionPreservesOriginalOnSecondMove(t *testing.T) {
	settings := baseSettings()
	s := session("t1", "2026-08-05", 1, "09:00", "10:00", models.SessionScheduled)
	s.IsManualOverride = true
	s.OriginalDate = "2026-08-05"
	s.OriginalStartTime = "08:00" // as if already moved once before
	plans := onePlan(s)
	at := fixedTime()

	result, _, err := MoveSession(plans, nil, settings, "2026-08-05", "t1", 1, "2026-08-05", 12*60, at)
	if err != nil {
		t.Fatal(err)
	}
	got := result[0].PlannedTasks[0]
	if got.OriginalStartTime != "08:00" {
		t.Errorf("a second move must not overwrite the originally recorded start time, got %s", got.OriginalStartTime)
	}
}

func TestMoveSessionRejectsNonScheduledSession(t *testing.T) {
	settings := baseSettings()
	plans := onePlan(session("t1", "2026-08-05", 1, "09:00", "10:00", models.SessionCompleted))
	at := fixedTime()

	_, moveResult, err := MoveSession(plans, nil, settings, "2026-08-05", "t1", 1, "2026-08-05", 11*60, at)
	if moveResult != MoveRejected || err == nil {
		t.Fatal("expected a rejection for moving a completed session")
	}
}

func fixedTime() time.Time {
	return time.Date(2026, time.August, 5, 12, 0, 0, 0, time.UTC)
}
