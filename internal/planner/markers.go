package planner

import (
	"fmt"
	"time"

	"github.com/kmosley/taskplan/internal/conflict"
	"github.com/kmosley/taskplan/internal/models"
	"github.com/kmosley/taskplan/internal/timeutil"
)

// NotFoundError reports that a (planDate, taskID, sessionNumber) reference
// does not resolve to any session in plans.
type NotFoundError struct {
	PlanDate      string
	TaskID        string
	SessionNumber int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no session for task %s #%d on %s", e.TaskID, e.SessionNumber, e.PlanDate)
}

func findSession(plans []models.StudyPlan, planDate, taskID string, sessionNumber int) (planIdx, sessionIdx int, ok bool) {
	for pi := range plans {
		if plans[pi].Date != planDate {
			continue
		}
		for si := range plans[pi].PlannedTasks {
			s := plans[pi].PlannedTasks[si]
			if s.TaskID == taskID && s.SessionNumber == sessionNumber {
				return pi, si, true
			}
		}
	}
	return 0, 0, false
}

// MarkCompleted sets a session's status to completed. actualMinutes, when
// non-zero, overrides AllocatedMinutes to record what was actually worked.
func MarkCompleted(plans []models.StudyPlan, planDate, taskID string, sessionNumber int, actualMinutes int) ([]models.StudyPlan, error) {
	result := clonePlans(plans)
	pi, si, ok := findSession(result, planDate, taskID, sessionNumber)
	if !ok {
		return nil, &NotFoundError{PlanDate: planDate, TaskID: taskID, SessionNumber: sessionNumber}
	}
	result[pi].PlannedTasks[si].Status = models.SessionCompleted
	if actualMinutes > 0 {
		result[pi].PlannedTasks[si].AllocatedMinutes = actualMinutes
	}
	result[pi].Recompute()
	return result, nil
}

// SkipMode selects whether SkipSession drops a session entirely or shortens
// it and tries to replace the remainder.
type SkipMode string

const (
	SkipFull    SkipMode = "full"
	SkipPartial SkipMode = "partial"
)

// SkipSession marks a session skipped-user. In SkipPartial mode the session
// is shortened to partialMinutes and the remainder is cloned into a new
// session placed via the slot finder, first on the same day and then on
// later days; if the remainder cannot be placed the clone is emitted with
// status failed.
func SkipSession(plans []models.StudyPlan, planDate, taskID string, sessionNumber int, mode SkipMode, partialMinutes int, reason string, commitments []models.FixedCommitment, settings models.UserSettings, laterDates []string, at time.Time) ([]models.StudyPlan, error) {
	models.ApplyDefaults(&settings)
	result := clonePlans(plans)
	pi, si, ok := findSession(result, planDate, taskID, sessionNumber)
	if !ok {
		return nil, &NotFoundError{PlanDate: planDate, TaskID: taskID, SessionNumber: sessionNumber}
	}

	original := result[pi].PlannedTasks[si]
	atCopy := at

	if mode == SkipFull || partialMinutes <= 0 || partialMinutes >= original.AllocatedMinutes {
		result[pi].PlannedTasks[si].Status = models.SessionSkippedUser
		result[pi].PlannedTasks[si].SkipReason = reason
		result[pi].PlannedTasks[si].SkippedAt = &atCopy
		result[pi].Recompute()
		return result, nil
	}

	remainder := original.AllocatedMinutes - partialMinutes
	result[pi].PlannedTasks[si].AllocatedMinutes = partialMinutes
	result[pi].PlannedTasks[si].Status = models.SessionSkippedUser
	result[pi].PlannedTasks[si].SkipReason = reason
	result[pi].PlannedTasks[si].SkippedAt = &atCopy
	newEnd, err := shortenEnd(original, partialMinutes)
	if err != nil {
		return nil, err
	}
	result[pi].PlannedTasks[si].EndTime = newEnd

	candidates := append([]string{planDate}, laterDates...)
	placed := false
	for _, date := range candidates {
		iv, ok, err := conflict.FindEarliestSlot(conflict.SearchInput{
			Date:             date,
			DurationMinutes:  remainder,
			ExistingSessions: allSessions(result),
			Commitments:      commitments,
			Settings:         settings,
		}, nil)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		clone, err := buildSession(models.Task{ID: taskID}, date, nextSessionNumberInPlans(result, taskID), iv)
		if err != nil {
			return nil, err
		}
		clone.RescheduleHistory = []models.RescheduleEntry{{
			FromDate: planDate, FromStart: original.StartTime, FromEnd: original.EndTime, Reason: "skip_remainder",
		}}
		result = appendSessionToPlans(result, clone)
		placed = true
		break
	}

	if !placed {
		failedClone := models.StudySession{
			TaskID:           taskID,
			PlanDate:         planDate,
			SessionNumber:    nextSessionNumberInPlans(result, taskID),
			AllocatedMinutes: remainder,
			Status:           models.SessionFailed,
		}
		result = appendSessionToPlans(result, failedClone)
	}

	result[pi].Recompute()
	return result, nil
}

// MoveResult reports how a manual move was satisfied.
type MoveResult string

const (
	MoveExact    MoveResult = "exact"
	MoveSnapped  MoveResult = "snapped_to_grid"
	MoveNearest  MoveResult = "nearest_available"
	MoveRejected MoveResult = "rejected"
)

// MoveRejectedError is returned when a move is refused outright, before any
// slot search: cross-day moves, or moving a session that isn't scheduled.
type MoveRejectedError struct {
	Reason string
}

func (e *MoveRejectedError) Error() string {
	return e.Reason
}

// MoveSession relocates a scheduled session within the same day. Cross-day
// moves are rejected unconditionally: planDate, the date the session lives
// on, must equal targetDate.
func MoveSession(plans []models.StudyPlan, commitments []models.FixedCommitment, settings models.UserSettings, planDate, taskID string, sessionNumber int, targetDate string, targetStart int, at time.Time) ([]models.StudyPlan, MoveResult, error) {
	models.ApplyDefaults(&settings)
	if targetDate != planDate {
		return plans, MoveRejected, &MoveRejectedError{Reason: "cross_day_move_not_allowed"}
	}

	result := clonePlans(plans)
	pi, si, ok := findSession(result, planDate, taskID, sessionNumber)
	if !ok {
		return nil, MoveRejected, &NotFoundError{PlanDate: planDate, TaskID: taskID, SessionNumber: sessionNumber}
	}
	session := result[pi].PlannedTasks[si]
	if session.Status != models.SessionScheduled {
		return plans, MoveRejected, &MoveRejectedError{Reason: "only_scheduled_sessions_are_movable"}
	}

	iv, found, err := conflict.FindNearestSlot(conflict.SearchInput{
		Date:             targetDate,
		DurationMinutes:  session.AllocatedMinutes,
		ExcludeSessionID: session.Key(),
		ExistingSessions: allSessions(result),
		Commitments:      commitments,
		Settings:         settings,
	}, targetStart)
	if err != nil {
		return nil, MoveRejected, err
	}
	if !found {
		return plans, MoveRejected, &MoveRejectedError{Reason: "no_available_slot_near_target"}
	}

	start, err := timeToString(iv.Start)
	if err != nil {
		return nil, MoveRejected, err
	}
	end, err := timeToString(iv.End)
	if err != nil {
		return nil, MoveRejected, err
	}

	if session.OriginalDate == "" {
		result[pi].PlannedTasks[si].OriginalDate = session.PlanDate
		result[pi].PlannedTasks[si].OriginalStartTime = session.StartTime
	}
	result[pi].PlannedTasks[si].StartTime = start
	result[pi].PlannedTasks[si].EndTime = end
	result[pi].PlannedTasks[si].IsManualOverride = true
	atCopy := at
	result[pi].PlannedTasks[si].RescheduledAt = &atCopy
	result[pi].PlannedTasks[si].RescheduleHistory = append(result[pi].PlannedTasks[si].RescheduleHistory, models.RescheduleEntry{
		FromDate:  session.PlanDate,
		FromStart: session.StartTime,
		FromEnd:   session.EndTime,
		Reason:    "manual_move",
		At:        at,
	})
	result[pi].Recompute()

	moveResult := MoveExact
	if iv.Start != targetStart {
		moveResult = MoveNearest
	}
	return result, moveResult, nil
}

func clonePlans(plans []models.StudyPlan) []models.StudyPlan {
	out := make([]models.StudyPlan, len(plans))
	for i, p := range plans {
		out[i] = p
		out[i].PlannedTasks = append([]models.StudySession(nil), p.PlannedTasks...)
	}
	return out
}

func allSessions(plans []models.StudyPlan) []models.StudySession {
	var all []models.StudySession
	for _, p := range plans {
		all = append(all, p.PlannedTasks...)
	}
	return all
}

func appendSessionToPlans(plans []models.StudyPlan, s models.StudySession) []models.StudyPlan {
	for i := range plans {
		if plans[i].Date == s.PlanDate {
			plans[i].PlannedTasks = append(plans[i].PlannedTasks, s)
			return plans
		}
	}
	return append(plans, models.StudyPlan{Date: s.PlanDate, PlannedTasks: []models.StudySession{s}})
}

func nextSessionNumberInPlans(plans []models.StudyPlan, taskID string) int {
	max := 0
	for _, s := range allSessions(plans) {
		if s.TaskID == taskID && s.SessionNumber > max {
			max = s.SessionNumber
		}
	}
	return max + 1
}

func shortenEnd(s models.StudySession, newAllocated int) (string, error) {
	start, err := parseHHMM(s.StartTime)
	if err != nil {
		return "", err
	}
	return timeToString(start + newAllocated)
}

func parseHHMM(hhmm string) (int, error) {
	return timeutil.ToMinutes(hhmm)
}

func timeToString(minute int) (string, error) {
	return timeutil.FromMinutes(minute)
}
