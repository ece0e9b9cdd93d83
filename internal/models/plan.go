package models

// StudyPlan is the ordered set of sessions for a single date.
type StudyPlan struct {
	Date                  string         `json:"date"` // YYYY-MM-DD
	PlannedTasks          []StudySession `json:"planned_tasks"`
	TotalScheduledMinutes int            `json:"total_scheduled_minutes"`
}

// Recompute sorts PlannedTasks by start time and recalculates
// TotalScheduledMinutes from non-skipped sessions.
func (p *StudyPlan) Recompute() {
	sortSessionsByStart(p.PlannedTasks)
	total := 0
	for _, s := range p.PlannedTasks {
		if s.Status != SessionSkippedUser && s.Status != SessionSkippedSystem {
			total += s.AllocatedMinutes
		}
	}
	p.TotalScheduledMinutes = total
}

// IsEmpty reports whether the plan holds no sessions, in which case the
// owning collection should drop it.
func (p StudyPlan) IsEmpty() bool {
	return len(p.PlannedTasks) == 0
}

func sortSessionsByStart(sessions []StudySession) {
	// insertion sort: plans hold at most a few dozen sessions, and this
	// keeps the sort stable without pulling in sort.Slice per call site.
	for i := 1; i < len(sessions); i++ {
		for j := i; j > 0 && sessions[j].StartTime < sessions[j-1].StartTime; j-- {
			sessions[j], sessions[j-1] = sessions[j-1], sessions[j]
		}
	}
}
