package models

// Urgency classifies how badly a task's unscheduled remainder needs
// attention, derived from deadline distance and proportion unscheduled.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

// Remedy is a suggested fix a caller can surface to the user for unscheduled
// work; the engine never applies these itself.
type Remedy string

const (
	RemedyIncreaseDailyHours Remedy = "increase_daily_hours"
	RemedyAddWorkDays        Remedy = "add_work_days"
	RemedyExtendDeadline     Remedy = "extend_deadline"
	RemedyReduceBuffer       Remedy = "reduce_buffer"
	RemedyReduceEstimate     Remedy = "reduce_estimate"
	RemedySplitTask          Remedy = "split_task"
	RemedyPrioritize         Remedy = "prioritize"
)

// UnscheduledEntry reports a task whose estimated minutes could not be
// fully placed within its eligible date range.
type UnscheduledEntry struct {
	TaskID           string   `json:"task_id"`
	TaskTitle        string   `json:"task_title"`
	RemainingMinutes int      `json:"remaining_minutes"`
	Urgency          Urgency  `json:"urgency"`
	Remedies         []Remedy `json:"remedies"`
}

// UnscheduledReport is returned alongside a freshly generated plan.
type UnscheduledReport struct {
	Entries []UnscheduledEntry `json:"entries"`
}

// TotalUnscheduledMinutes sums RemainingMinutes across all entries.
func (r UnscheduledReport) TotalUnscheduledMinutes() int {
	total := 0
	for _, e := range r.Entries {
		total += e.RemainingMinutes
	}
	return total
}

// RemovedSessionStatus is the audit status a session is tagged with once
// the redistribution engine removes it from its plan.
type RemovedSessionStatus string

const (
	RemovedRedistributed RemovedSessionStatus = "redistributed"
	RemovedFailed        RemovedSessionStatus = "failed"
)

// RemovedSessionLogEntry is one audit record of a session the redistribution
// engine pulled out of a plan during a redistribution pass.
type RemovedSessionLogEntry struct {
	TaskID       string               `json:"task_id"`
	OriginalDate string               `json:"original_date"`
	StartTime    string               `json:"start_time"`
	EndTime      string               `json:"end_time"`
	Status       RemovedSessionStatus `json:"status"`
	Reason       string               `json:"reason,omitempty"`
}

// RedistributionReport is returned from every redistribute() call.
type RedistributionReport struct {
	RemovedSessions []RemovedSessionLogEntry `json:"removed_sessions"`
	Failures        []UnscheduledEntry       `json:"failures"`
}
