package models

import "time"

// UnscheduledDigest is a day-keyed singleton summarizing that date's slice of
// the most recent unscheduled-work report: one row per day, holding the
// unscheduled/urgency picture for that date.
type UnscheduledDigest struct {
	Day                     string    `json:"day"` // YYYY-MM-DD, primary key
	TotalUnscheduledMinutes int       `json:"total_unscheduled_minutes"`
	Urgency                 Urgency   `json:"urgency"`
	Remedies                []Remedy  `json:"remedies,omitempty"`
	UpdatedAt               time.Time `json:"updated_at"`
}
