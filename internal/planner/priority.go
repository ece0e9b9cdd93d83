// Package planner implements the initial scheduler and the task-aware
// redistribution engine (L3): it turns tasks, commitments, and settings into
// a deterministic set of StudyPlans, and reflows missed work without
// touching sessions outside the affected tasks.
package planner

import (
	"fmt"
	"sort"

	"github.com/kmosley/taskplan/internal/models"
	"github.com/kmosley/taskplan/internal/timeutil"
)

// InputShapeError is a fatal, reject-the-call error: a task with a
// non-positive estimate, negative session-minute bounds, or a minimum
// session above its maximum, or a recurring commitment with no daysOfWeek.
// No partial mutation happens when one of these is returned.
type InputShapeError struct {
	Message string
}

func (e *InputShapeError) Error() string {
	return fmt.Sprintf("input shape error: %s", e.Message)
}

// validateInputShapes runs every fatal precondition check up front so a
// planning call either proceeds cleanly or rejects without partial work.
func validateInputShapes(tasks []models.Task, commitments []models.FixedCommitment) error {
	for _, t := range tasks {
		if t.IsDeleted() {
			continue
		}
		if t.EstimatedMinutes <= 0 {
			return &InputShapeError{Message: fmt.Sprintf("task %s: estimatedMinutes must be > 0", t.ID)}
		}
		if t.MinSessionMinutes < 0 || t.MaxSessionMinutes < 0 {
			return &InputShapeError{Message: fmt.Sprintf("task %s: session minute bounds must not be negative", t.ID)}
		}
		if t.MaxSessionMinutes > 0 && t.MinSessionMinutes > t.MaxSessionMinutes {
			return &InputShapeError{Message: fmt.Sprintf("task %s: minSessionMinutes exceeds maxSessionMinutes", t.ID)}
		}
	}
	for _, c := range commitments {
		if c.IsDeleted() {
			continue
		}
		if c.Recurring && len(c.DaysOfWeek) == 0 {
			return &InputShapeError{Message: fmt.Sprintf("commitment %s: recurring commitment needs at least one day of week", c.ID)}
		}
	}
	return nil
}

// priorityKey orders tasks for both initial planning and redistribution:
// hard deadlines first, then nearer deadlines, then important tasks, then
// earlier createdAt. All four components are total orderings, so the
// resulting order is deterministic.
type priorityKey struct {
	hardDeadlineFirst int // 0 = hard deadline, 1 = not
	deadlineDistance  int // smaller sorts first; tasks without a deadline get noDeadlineDistance
	importanceFirst   int // 0 = important, 1 = not
	createdAt         string
	taskID            string
}

const noDeadlineDistance = 1 << 30

func buildPriorityKey(t models.Task, today string) (priorityKey, error) {
	key := priorityKey{
		hardDeadlineFirst: 1,
		deadlineDistance:  noDeadlineDistance,
		importanceFirst:   1,
		createdAt:         t.CreatedAt,
		taskID:            t.ID,
	}
	if t.Importance {
		key.importanceFirst = 0
	}
	if t.HasDeadline() {
		if t.DeadlineType == models.DeadlineHard {
			key.hardDeadlineFirst = 0
		}
		distance, err := timeutil.DaysBetween(today, t.Deadline)
		if err != nil {
			return priorityKey{}, err
		}
		key.deadlineDistance = distance
	}
	return key, nil
}

func (k priorityKey) less(other priorityKey) bool {
	if k.hardDeadlineFirst != other.hardDeadlineFirst {
		return k.hardDeadlineFirst < other.hardDeadlineFirst
	}
	if k.deadlineDistance != other.deadlineDistance {
		return k.deadlineDistance < other.deadlineDistance
	}
	if k.importanceFirst != other.importanceFirst {
		return k.importanceFirst < other.importanceFirst
	}
	if k.createdAt != other.createdAt {
		return k.createdAt < other.createdAt
	}
	return k.taskID < other.taskID
}

// prioritizeTasks returns the pending, non-deleted tasks sorted by
// priorityKey.
func prioritizeTasks(tasks []models.Task, today string) ([]models.Task, error) {
	eligible := make([]models.Task, 0, len(tasks))
	keys := make(map[string]priorityKey, len(tasks))
	for _, t := range tasks {
		if t.IsDeleted() || t.Status != models.TaskPending {
			continue
		}
		key, err := buildPriorityKey(t, today)
		if err != nil {
			return nil, err
		}
		keys[t.ID] = key
		eligible = append(eligible, t)
	}
	sort.Slice(eligible, func(i, j int) bool {
		return keys[eligible[i].ID].less(keys[eligible[j].ID])
	})
	return eligible, nil
}

// eligibleDays computes the dates task may be scheduled on: from
// max(today, task.startDate) through the deadline (inclusive), less
// bufferDaysBeforeDeadline for hard deadlines only, intersected with
// settings.WorkDays. A task without a
// deadline is bounded by a one-year horizon so the search space stays
// finite.
func eligibleDays(t models.Task, settings models.UserSettings, today string) ([]string, error) {
	start := today
	if t.StartDate != "" && timeutil.CompareDates(t.StartDate, today) > 0 {
		start = t.StartDate
	}

	end := ""
	if t.HasDeadline() {
		buffer := settings.BufferDaysBeforeDeadline
		if t.DeadlineType != models.DeadlineHard {
			buffer = 0
		}
		deadlineMinusBuffer, err := timeutil.AddDays(t.Deadline, -buffer)
		if err != nil {
			return nil, err
		}
		end = deadlineMinusBuffer
	} else {
		horizon, err := timeutil.AddDays(start, 365)
		if err != nil {
			return nil, err
		}
		end = horizon
	}

	all, err := timeutil.DateRange(start, end, true)
	if err != nil {
		return nil, err
	}

	days := make([]string, 0, len(all))
	for _, d := range all {
		wd, err := timeutil.DayOfWeek(d)
		if err != nil {
			return nil, err
		}
		if settings.IsWorkDay(wd) {
			days = append(days, d)
		}
	}
	return days, nil
}
