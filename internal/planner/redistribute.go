package planner

import (
	"sort"

	"github.com/kmosley/taskplan/internal/conflict"
	"github.com/kmosley/taskplan/internal/models"
)

// Redistribute reflows work at task granularity: every past-date session
// that wasn't completed or skipped is marked missed, then each affected
// pending task has its remaining work recomputed and replanned from today
// forward. It never touches sessions belonging to untouched tasks, never
// modifies completed sessions, and never moves a session flagged
// isManualOverride.
func Redistribute(plans []models.StudyPlan, tasks []models.Task, settings models.UserSettings, commitments []models.FixedCommitment, today string) ([]models.StudyPlan, models.RedistributionReport, error) {
	if err := validateInputShapes(tasks, commitments); err != nil {
		return nil, models.RedistributionReport{}, err
	}
	models.ApplyDefaults(&settings)

	working := map[string]*models.StudyPlan{}
	for _, p := range plans {
		copyOfP := p
		copyOfP.PlannedTasks = append([]models.StudySession(nil), p.PlannedTasks...)
		working[p.Date] = &copyOfP
	}

	markMissedSessions(working, today)

	taskByID := map[string]models.Task{}
	for _, t := range tasks {
		taskByID[t.ID] = t
	}

	affected := affectedTaskIDs(working, taskByID, today)
	ordered, err := orderAffectedTasks(affected, taskByID, today)
	if err != nil {
		return nil, models.RedistributionReport{}, err
	}

	report := models.RedistributionReport{}

	for _, task := range ordered {
		removed := removeTaskSessions(working, task.ID, today)

		completedMinutes, manualFutureMinutes := 0, 0
		for _, s := range flatten(working) {
			if s.TaskID != task.ID {
				continue
			}
			if s.Status.CountsAsWork() {
				completedMinutes += s.AllocatedMinutes
			}
			if s.PlanDate >= today && s.Status == models.SessionScheduled && s.IsManualOverride {
				manualFutureMinutes += s.AllocatedMinutes
			}
		}
		remainingMinutes := task.EstimatedMinutes - completedMinutes - manualFutureMinutes

		if remainingMinutes <= 0 {
			logRemoved(&report, removed, models.RemovedRedistributed)
			continue
		}

		eligible, err := eligibleDays(task, settings, today)
		if err != nil {
			return nil, models.RedistributionReport{}, err
		}
		if len(eligible) == 0 {
			logRemoved(&report, removed, models.RemovedFailed)
			report.Failures = append(report.Failures, models.UnscheduledEntry{
				TaskID:           task.ID,
				TaskTitle:        task.Title,
				RemainingMinutes: remainingMinutes,
				Urgency:          models.UrgencyCritical,
				Remedies:         []models.Remedy{models.RemedyExtendDeadline, models.RemedyIncreaseDailyHours},
			})
			continue
		}

		if task.IsOneSitting {
			placed, err := placeOneSittingRedistribution(task, eligible, remainingMinutes, working, commitments, settings, removed)
			if err != nil {
				return nil, models.RedistributionReport{}, err
			}
			if placed {
				logRemoved(&report, removed, models.RemovedRedistributed)
			} else {
				logRemoved(&report, removed, models.RemovedFailed)
				report.Failures = append(report.Failures, models.UnscheduledEntry{
					TaskID: task.ID, TaskTitle: task.Title, RemainingMinutes: remainingMinutes,
					Urgency: models.UrgencyHigh, Remedies: []models.Remedy{models.RemedyExtendDeadline},
				})
			}
			continue
		}

		leftover, err := redistributeNormal(task, eligible, remainingMinutes, working, commitments, settings, removed)
		if err != nil {
			return nil, models.RedistributionReport{}, err
		}
		logRemoved(&report, removed, models.RemovedRedistributed)
		if leftover > 0 {
			report.Failures = append(report.Failures, models.UnscheduledEntry{
				TaskID: task.ID, TaskTitle: task.Title, RemainingMinutes: leftover,
				Urgency: models.UrgencyMedium, Remedies: []models.Remedy{models.RemedyIncreaseDailyHours, models.RemedySplitTask},
			})
		}
	}

	return finalizePlans(working), report, nil
}

func markMissedSessions(working map[string]*models.StudyPlan, today string) {
	for _, p := range working {
		if p.Date >= today {
			continue
		}
		for i, s := range p.PlannedTasks {
			if s.Status == models.SessionCompleted || s.Status == models.SessionSkippedUser || s.Status == models.SessionSkippedSystem || s.Status == models.SessionMissed {
				continue
			}
			p.PlannedTasks[i].Status = models.SessionMissed
		}
	}
}

func affectedTaskIDs(working map[string]*models.StudyPlan, taskByID map[string]models.Task, today string) []string {
	seen := map[string]bool{}
	var ids []string
	for _, p := range working {
		for _, s := range p.PlannedTasks {
			t, ok := taskByID[s.TaskID]
			if !ok || t.Status != models.TaskPending {
				continue
			}
			isMissed := s.Status == models.SessionMissed
			isFutureScheduled := p.Date >= today && s.Status == models.SessionScheduled
			if !isMissed && !isFutureScheduled {
				continue
			}
			if !seen[s.TaskID] {
				seen[s.TaskID] = true
				ids = append(ids, s.TaskID)
			}
		}
	}
	return ids
}

// redistributionKey orders affected tasks during a redistribution pass:
// importance first, then nearer deadlines, then earlier createdAt. This
// differs from initial planning's priorityKey, which puts hard deadlines
// ahead of importance.
type redistributionKey struct {
	importanceFirst  int
	deadlineDistance int
	createdAt        string
	taskID           string
}

func (k redistributionKey) less(other redistributionKey) bool {
	if k.importanceFirst != other.importanceFirst {
		return k.importanceFirst < other.importanceFirst
	}
	if k.deadlineDistance != other.deadlineDistance {
		return k.deadlineDistance < other.deadlineDistance
	}
	if k.createdAt != other.createdAt {
		return k.createdAt < other.createdAt
	}
	return k.taskID < other.taskID
}

func orderAffectedTasks(ids []string, taskByID map[string]models.Task, today string) ([]models.Task, error) {
	tasksToOrder := make([]models.Task, 0, len(ids))
	for _, id := range ids {
		tasksToOrder = append(tasksToOrder, taskByID[id])
	}
	keys := map[string]redistributionKey{}
	for _, t := range tasksToOrder {
		pk, err := buildPriorityKey(t, today)
		if err != nil {
			return nil, err
		}
		keys[t.ID] = redistributionKey{
			importanceFirst:  pk.importanceFirst,
			deadlineDistance: pk.deadlineDistance,
			createdAt:        pk.createdAt,
			taskID:           pk.taskID,
		}
	}
	sort.Slice(tasksToOrder, func(i, j int) bool {
		return keys[tasksToOrder[i].ID].less(keys[tasksToOrder[j].ID])
	})
	return tasksToOrder, nil
}

// removeTaskSessions pulls every missed session and every future,
// non-manual scheduled session belonging to taskID out of working, and
// returns them as removal records (status assigned by the caller once the
// task's outcome is known).
func removeTaskSessions(working map[string]*models.StudyPlan, taskID string, today string) []models.StudySession {
	var removed []models.StudySession
	for _, p := range working {
		kept := p.PlannedTasks[:0:0]
		for _, s := range p.PlannedTasks {
			if s.TaskID != taskID {
				kept = append(kept, s)
				continue
			}
			isMissed := s.Status == models.SessionMissed
			isFutureNonManual := p.Date >= today && s.Status == models.SessionScheduled && !s.IsManualOverride
			if isMissed || isFutureNonManual {
				removed = append(removed, s)
				continue
			}
			kept = append(kept, s)
		}
		p.PlannedTasks = kept
	}
	return removed
}

func logRemoved(report *models.RedistributionReport, removed []models.StudySession, status models.RemovedSessionStatus) {
	for _, s := range removed {
		report.RemovedSessions = append(report.RemovedSessions, models.RemovedSessionLogEntry{
			TaskID:       s.TaskID,
			OriginalDate: s.PlanDate,
			StartTime:    s.StartTime,
			EndTime:      s.EndTime,
			Status:       status,
		})
	}
}

func redistributionHistory(removed []models.StudySession) []models.RescheduleEntry {
	history := make([]models.RescheduleEntry, 0, len(removed))
	for _, s := range removed {
		history = append(history, models.RescheduleEntry{
			FromDate:  s.PlanDate,
			FromStart: s.StartTime,
			FromEnd:   s.EndTime,
			Reason:    "redistribution",
		})
	}
	return history
}

func placeOneSittingRedistribution(task models.Task, eligible []string, remainingMinutes int, working map[string]*models.StudyPlan, commitments []models.FixedCommitment, settings models.UserSettings, removed []models.StudySession) (bool, error) {
	for _, date := range eligible {
		iv, ok, err := conflict.FindEarliestSlot(conflict.SearchInput{
			Date:             date,
			DurationMinutes:  remainingMinutes,
			ExistingSessions: flatten(working),
			Commitments:      commitments,
			Settings:         settings,
		}, task.PreferredTimeSlots)
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}
		session, err := buildSession(task, date, nextSessionNumber(working, task.ID), iv)
		if err != nil {
			return false, err
		}
		session.RescheduleHistory = redistributionHistory(removed)
		addSession(working, session)
		return true, nil
	}
	return false, nil
}

// redistributeNormal spreads remainingMinutes across eligible days at a
// clamped even size, then tops up any leftover budget with a second pass on
// already-used days. It returns any minutes that still could not be placed.
func redistributeNormal(task models.Task, eligible []string, remainingMinutes int, working map[string]*models.StudyPlan, commitments []models.FixedCommitment, settings models.UserSettings, removed []models.StudySession) (int, error) {
	size := clamp(ceilDiv(remainingMinutes, len(eligible)), task.MinSessionMinutes, task.MaxSessionMinutes)
	budget := remainingMinutes
	var usedDates []string

	for _, date := range eligible {
		if budget <= 0 {
			break
		}
		want := size
		if want > budget {
			want = budget
		}
		iv, ok, err := conflict.FindEarliestSlot(conflict.SearchInput{
			Date:             date,
			DurationMinutes:  want,
			ExistingSessions: flatten(working),
			Commitments:      commitments,
			Settings:         settings,
		}, task.PreferredTimeSlots)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		session, err := buildSession(task, date, nextSessionNumber(working, task.ID), iv)
		if err != nil {
			return 0, err
		}
		session.RescheduleHistory = redistributionHistory(removed)
		addSession(working, session)
		budget -= want
		usedDates = append(usedDates, date)
	}

	if budget > 0 {
		topUp := task.MaxSessionMinutes
		if topUp <= 0 || topUp > budget {
			topUp = budget
		}
		for _, date := range usedDates {
			if budget <= 0 {
				break
			}
			want := topUp
			if want > budget {
				want = budget
			}
			iv, ok, err := conflict.FindEarliestSlot(conflict.SearchInput{
				Date:             date,
				DurationMinutes:  want,
				ExistingSessions: flatten(working),
				Commitments:      commitments,
				Settings:         settings,
			}, task.PreferredTimeSlots)
			if err != nil {
				return 0, err
			}
			if !ok {
				continue
			}
			session, err := buildSession(task, date, nextSessionNumber(working, task.ID), iv)
			if err != nil {
				return 0, err
			}
			session.RescheduleHistory = redistributionHistory(removed)
			addSession(working, session)
			budget -= want
		}
	}

	return budget, nil
}

func nextSessionNumber(working map[string]*models.StudyPlan, taskID string) int {
	max := 0
	for _, s := range flatten(working) {
		if s.TaskID == taskID && s.SessionNumber > max {
			max = s.SessionNumber
		}
	}
	return max + 1
}
