package planner

import (
	"sort"

	"github.com/kmosley/taskplan/internal/conflict"
	"github.com/kmosley/taskplan/internal/models"
	"github.com/kmosley/taskplan/internal/timeutil"
)

// GenerateInitialPlan builds a fresh set of StudyPlans from tasks, settings,
// and commitments. It never mutates its inputs. today anchors "eligible
// starting from" computations; it is the only wall-clock-derived value the
// planner accepts.
func GenerateInitialPlan(tasks []models.Task, settings models.UserSettings, commitments []models.FixedCommitment, today string) ([]models.StudyPlan, models.UnscheduledReport, error) {
	if err := validateInputShapes(tasks, commitments); err != nil {
		return nil, models.UnscheduledReport{}, err
	}
	models.ApplyDefaults(&settings)

	ordered, err := prioritizeTasks(tasks, today)
	if err != nil {
		return nil, models.UnscheduledReport{}, err
	}

	plans := map[string]*models.StudyPlan{}
	report := models.UnscheduledReport{}

	for _, task := range ordered {
		eligible, err := eligibleDays(task, settings, today)
		if err != nil {
			return nil, models.UnscheduledReport{}, err
		}

		shape := computeSessionShape(task, eligible, task.EstimatedMinutes)

		unscheduledMinutes, err := placeTaskSessions(task, eligible, shape, plans, commitments, settings)
		if err != nil {
			return nil, models.UnscheduledReport{}, err
		}

		if unscheduledMinutes > 0 {
			urgency, remedies := classifyUnscheduled(task, unscheduledMinutes)
			report.Entries = append(report.Entries, models.UnscheduledEntry{
				TaskID:           task.ID,
				TaskTitle:        task.Title,
				RemainingMinutes: unscheduledMinutes,
				Urgency:          urgency,
				Remedies:         remedies,
			})
		}
	}

	return finalizePlans(plans), report, nil
}

// placeTaskSessions places one task's computed session shape into plans,
// trying each session first on the date the shape gave it and spilling to
// later eligible days when a day can't absorb the requested size, then
// shrinking unplaced sessions to minSessionMinutes and retrying from the
// first eligible day before giving up. It returns the total minutes that
// could not be placed: the unplaced sessions' full sizes minus whatever the
// shrunk retries absorbed.
func placeTaskSessions(task models.Task, eligible []string, shape sessionPlan, plans map[string]*models.StudyPlan, commitments []models.FixedCommitment, settings models.UserSettings) (int, error) {
	sessionNum := 1
	queue := append([]int(nil), shape.sizes...)
	dayIdx := 0

	for len(queue) > 0 && dayIdx < len(eligible) {
		// Advance to the date the shape assigned to the next session, unless
		// that date lies past the last eligible day.
		if k := len(shape.sizes) - len(queue); k < len(shape.dates) &&
			timeutil.CompareDates(eligible[dayIdx], shape.dates[k]) < 0 &&
			timeutil.CompareDates(shape.dates[k], eligible[len(eligible)-1]) <= 0 {
			dayIdx++
			continue
		}
		date := eligible[dayIdx]
		size := queue[0]

		iv, ok, err := conflict.FindEarliestSlot(conflict.SearchInput{
			Date:             date,
			DurationMinutes:  size,
			ExistingSessions: flatten(plans),
			Commitments:      commitments,
			Settings:         settings,
		}, task.PreferredTimeSlots)
		if err != nil {
			return 0, err
		}
		if ok {
			session, err := buildSession(task, date, sessionNum, iv)
			if err != nil {
				return 0, err
			}
			addSession(plans, session)
			sessionNum++
			queue = queue[1:]
		}
		dayIdx++
	}

	if len(queue) == 0 {
		return 0, nil
	}

	remaining := 0
	for _, sz := range queue {
		remaining += sz
	}

	minSize := task.MinSessionMinutes
	if minSize <= 0 {
		minSize = 1
	}
	shrunk := make([]int, len(queue))
	for i := range shrunk {
		shrunk[i] = minSize
	}

	dayIdx = 0
	for len(shrunk) > 0 && dayIdx < len(eligible) {
		date := eligible[dayIdx]
		size := shrunk[0]

		iv, ok, err := conflict.FindEarliestSlot(conflict.SearchInput{
			Date:             date,
			DurationMinutes:  size,
			ExistingSessions: flatten(plans),
			Commitments:      commitments,
			Settings:         settings,
		}, task.PreferredTimeSlots)
		if err != nil {
			return 0, err
		}
		if ok {
			session, err := buildSession(task, date, sessionNum, iv)
			if err != nil {
				return 0, err
			}
			addSession(plans, session)
			sessionNum++
			shrunk = shrunk[1:]
			remaining -= size
		}
		dayIdx++
	}

	return remaining, nil
}

func buildSession(task models.Task, date string, sessionNum int, iv timeutil.Interval) (models.StudySession, error) {
	start, err := timeutil.FromMinutes(iv.Start)
	if err != nil {
		return models.StudySession{}, err
	}
	end, err := timeutil.FromMinutes(iv.End)
	if err != nil {
		return models.StudySession{}, err
	}
	return models.StudySession{
		TaskID:           task.ID,
		PlanDate:         date,
		SessionNumber:    sessionNum,
		StartTime:        start,
		EndTime:          end,
		AllocatedMinutes: iv.Duration(),
		Status:           models.SessionScheduled,
	}, nil
}

func flatten(plans map[string]*models.StudyPlan) []models.StudySession {
	var all []models.StudySession
	for _, p := range plans {
		all = append(all, p.PlannedTasks...)
	}
	return all
}

func addSession(plans map[string]*models.StudyPlan, s models.StudySession) {
	p, ok := plans[s.PlanDate]
	if !ok {
		p = &models.StudyPlan{Date: s.PlanDate}
		plans[s.PlanDate] = p
	}
	p.PlannedTasks = append(p.PlannedTasks, s)
}

// finalizePlans recomputes and sorts every plan by date, dropping plans that
// ended up empty.
func finalizePlans(plans map[string]*models.StudyPlan) []models.StudyPlan {
	result := make([]models.StudyPlan, 0, len(plans))
	for _, p := range plans {
		p.Recompute()
		if !p.IsEmpty() {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})
	return result
}

// classifyUnscheduled assigns an urgency level and suggested remedies to a
// task that could not be fully scheduled, weighting hard deadlines and the
// proportion of work left unplaced.
func classifyUnscheduled(task models.Task, unscheduledMinutes int) (models.Urgency, []models.Remedy) {
	proportion := 0.0
	if task.EstimatedMinutes > 0 {
		proportion = float64(unscheduledMinutes) / float64(task.EstimatedMinutes)
	}

	switch {
	case task.DeadlineType == models.DeadlineHard && proportion > 0.3:
		return models.UrgencyCritical, []models.Remedy{models.RemedyIncreaseDailyHours, models.RemedyExtendDeadline, models.RemedyReduceBuffer}
	case task.DeadlineType == models.DeadlineHard:
		return models.UrgencyHigh, []models.Remedy{models.RemedyIncreaseDailyHours, models.RemedyPrioritize}
	case proportion > 0.5:
		return models.UrgencyMedium, []models.Remedy{models.RemedyAddWorkDays, models.RemedyReduceEstimate, models.RemedySplitTask}
	default:
		return models.UrgencyLow, []models.Remedy{models.RemedyReduceEstimate}
	}
}
