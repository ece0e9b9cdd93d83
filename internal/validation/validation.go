// Package validation checks whole collections of tasks, commitments, and
// sessions for data-integrity problems before they reach the planner or
// storage: duplicate IDs, dangling references, malformed overrides. This is
// distinct from internal/conflict, which checks one candidate placement at a
// time against a single day's commitments and sessions.
package validation

import (
	"fmt"
	"sort"

	"github.com/kmosley/taskplan/internal/models"
	"github.com/kmosley/taskplan/internal/timeutil"
)

// ConflictType classifies a detected data-integrity problem.
type ConflictType string

const (
	ConflictDuplicateTaskID        ConflictType = "duplicate_task_id"
	ConflictDuplicateCommitmentID  ConflictType = "duplicate_commitment_id"
	ConflictInvalidDateTime        ConflictType = "invalid_datetime"
	ConflictOrphanedSession        ConflictType = "orphaned_session"
	ConflictOverlappingCommitments ConflictType = "overlapping_commitments"
	ConflictMalformedOverride      ConflictType = "malformed_override"
)

// Conflict is one detected problem.
type Conflict struct {
	Type        ConflictType
	Description string
	IDs         []string // task/commitment/session IDs involved, for auto-fixing
}

// Result accumulates every conflict found by a single validation pass; it
// never short-circuits on the first problem.
type Result struct {
	Conflicts []Conflict
}

// HasConflicts reports whether any conflicts were detected.
func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// FormatReport renders every conflict as a human-readable report.
func (r *Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts detected."
	}
	report := "Conflicts detected:\n"
	for _, c := range r.Conflicts {
		report += fmt.Sprintf("- %s\n", c.Description)
	}
	return report
}

func (r *Result) add(kind ConflictType, description string, ids ...string) {
	r.Conflicts = append(r.Conflicts, Conflict{Type: kind, Description: description, IDs: ids})
}

// ValidateTasks checks a task collection for duplicate IDs and malformed
// date fields, skipping soft-deleted tasks.
func ValidateTasks(tasks []models.Task) Result {
	result := Result{}
	seen := map[string][]string{}

	for _, t := range tasks {
		if t.IsDeleted() {
			continue
		}
		if t.ID == "" {
			result.add(ConflictInvalidDateTime, "task has an empty ID")
			continue
		}
		seen[t.ID] = append(seen[t.ID], t.Title)

		if t.Deadline != "" {
			if _, err := timeutil.ParseDate(t.Deadline); err != nil {
				result.add(ConflictInvalidDateTime, fmt.Sprintf("task %q has an invalid deadline: %s", t.Title, t.Deadline), t.ID)
			}
		}
		if t.StartDate != "" {
			if _, err := timeutil.ParseDate(t.StartDate); err != nil {
				result.add(ConflictInvalidDateTime, fmt.Sprintf("task %q has an invalid start date: %s", t.Title, t.StartDate), t.ID)
			}
		}
		if t.Deadline != "" && t.StartDate != "" && timeutil.CompareDates(t.StartDate, t.Deadline) > 0 {
			result.add(ConflictInvalidDateTime, fmt.Sprintf("task %q starts (%s) after its deadline (%s)", t.Title, t.StartDate, t.Deadline), t.ID)
		}
	}

	for id, titles := range seen {
		if len(titles) > 1 {
			result.add(ConflictDuplicateTaskID, fmt.Sprintf("duplicate task ID %q used by %d tasks", id, len(titles)), id)
		}
	}

	return result
}

// ValidateCommitments checks a commitment collection for duplicate IDs,
// malformed timing, and recurring commitments whose weekly schedule overlaps
// another's in the literal time-of-day sense (ignoring which calendar dates
// they actually land on — a conservative, cheap-to-compute check upstream of
// the precise day-by-day checking internal/conflict performs during
// placement).
func ValidateCommitments(commitments []models.FixedCommitment) Result {
	result := Result{}
	seen := map[string]int{}

	var timed []models.FixedCommitment
	for _, c := range commitments {
		if c.IsDeleted() {
			continue
		}
		if c.ID == "" {
			result.add(ConflictInvalidDateTime, "commitment has an empty ID")
			continue
		}
		seen[c.ID]++

		if !c.IsAllDay && c.StartTime != "" && c.EndTime != "" {
			start, err1 := timeutil.ToMinutes(c.StartTime)
			end, err2 := timeutil.ToMinutes(c.EndTime)
			if err1 != nil || err2 != nil {
				result.add(ConflictInvalidDateTime, fmt.Sprintf("commitment %q has a malformed time range", c.Title), c.ID)
				continue
			}
			if end <= start {
				result.add(ConflictInvalidDateTime, fmt.Sprintf("commitment %q ends (%s) at or before it starts (%s)", c.Title, c.EndTime, c.StartTime), c.ID)
				continue
			}
			timed = append(timed, c)
		}

		for date := range c.ModifiedOccurrences {
			if _, err := timeutil.ParseDate(date); err != nil {
				result.add(ConflictMalformedOverride, fmt.Sprintf("commitment %q has a malformed modified-occurrence date: %s", c.Title, date), c.ID)
			}
		}
		for _, date := range c.DeletedOccurrences {
			if _, err := timeutil.ParseDate(date); err != nil {
				result.add(ConflictMalformedOverride, fmt.Sprintf("commitment %q has a malformed deleted-occurrence date: %s", c.Title, date), c.ID)
			}
		}
	}

	for id, count := range seen {
		if count > 1 {
			result.add(ConflictDuplicateCommitmentID, fmt.Sprintf("duplicate commitment ID %q used by %d commitments", id, count), id)
		}
	}

	sort.Slice(timed, func(i, j int) bool { return timed[i].StartTime < timed[j].StartTime })
	for i := 0; i < len(timed); i++ {
		for j := i + 1; j < len(timed); j++ {
			a, b := timed[i], timed[j]
			if !weekdayMasksOverlap(a, b) {
				continue
			}
			if timesOverlap(a.StartTime, a.EndTime, b.StartTime, b.EndTime) {
				result.add(ConflictOverlappingCommitments,
					fmt.Sprintf("commitments %q (%s-%s) and %q (%s-%s) may overlap", a.Title, a.StartTime, a.EndTime, b.Title, b.StartTime, b.EndTime),
					a.ID, b.ID)
			}
		}
	}

	return result
}

// ValidateSessionReferences checks that every session in plans references a
// task that actually exists in tasks and is not soft-deleted.
func ValidateSessionReferences(plans []models.StudyPlan, tasks []models.Task) Result {
	result := Result{}
	known := map[string]bool{}
	for _, t := range tasks {
		if !t.IsDeleted() {
			known[t.ID] = true
		}
	}
	for _, p := range plans {
		for _, s := range p.PlannedTasks {
			if !known[s.TaskID] {
				result.add(ConflictOrphanedSession, fmt.Sprintf("session on %s references unknown task %q", p.Date, s.TaskID), s.TaskID)
			}
		}
	}
	return result
}

func weekdayMasksOverlap(a, b models.FixedCommitment) bool {
	if !a.Recurring || !b.Recurring {
		return true // non-recurring or mixed: can't rule out a shared date, assume overlap
	}
	if len(a.DaysOfWeek) == 0 || len(b.DaysOfWeek) == 0 {
		return true
	}
	for _, da := range a.DaysOfWeek {
		for _, db := range b.DaysOfWeek {
			if da == db {
				return true
			}
		}
	}
	return false
}

func timesOverlap(startA, endA, startB, endB string) bool {
	sa, err := timeutil.ToMinutes(startA)
	if err != nil {
		return false
	}
	ea, err := timeutil.ToMinutes(endA)
	if err != nil {
		return false
	}
	sb, err := timeutil.ToMinutes(startB)
	if err != nil {
		return false
	}
	eb, err := timeutil.ToMinutes(endB)
	if err != nil {
		return false
	}
	return sa < eb && sb < ea
}
