// Package conflict implements the conflict checker and slot finder (L2): it
// reports every constraint a candidate StudySession placement violates, and
// searches a day's free time for a placement that violates none.
package conflict

import (
	"github.com/kmosley/taskplan/internal/commitment"
	"github.com/kmosley/taskplan/internal/models"
	"github.com/kmosley/taskplan/internal/timeutil"
)

// Kind identifies a category of constraint violation. Validate reports every
// violated kind for a candidate placement rather than stopping at the first.
type Kind string

const (
	KindInvalidTimeRange   Kind = "invalid_time_range"
	KindOutsideStudyWindow Kind = "outside_study_window"
	KindNotWorkDay         Kind = "not_work_day"
	KindSessionOverlap     Kind = "session_overlap"
	KindCommitmentConflict Kind = "commitment_conflict"
	KindDailyLimitExceeded Kind = "daily_limit_exceeded"
)

// Violation is one detected constraint breach.
type Violation struct {
	Kind        Kind
	Description string
}

// Result accumulates every violation found for one candidate placement.
type Result struct {
	Violations []Violation
}

// OK reports whether the candidate placement violates nothing.
func (r Result) OK() bool {
	return len(r.Violations) == 0
}

func (r *Result) add(kind Kind, description string) {
	r.Violations = append(r.Violations, Violation{Kind: kind, Description: description})
}

// Input bundles everything Validate needs to check one candidate placement
// against a day's existing sessions and commitments.
type Input struct {
	Date             string
	Candidate        timeutil.Interval
	ExcludeSessionID string // session being moved, excluded from overlap checks
	ExistingSessions []models.StudySession
	Commitments      []models.FixedCommitment
	Settings         models.UserSettings
}

// Validate reports every constraint violated by placing Candidate on Date,
// checking time-range validity, the study window, the work-day calendar,
// overlap against other sessions, overlap against fixed commitments, and the
// daily scheduled-minutes limit. An invalid time range is reported alone,
// since the other checks need a valid interval; past that it never
// short-circuits: all violated constraints are reported together.
func Validate(in Input) (Result, error) {
	var result Result

	if !in.Candidate.Valid() {
		result.add(KindInvalidTimeRange, "candidate interval end must be after start")
		return result, nil
	}

	window := timeutil.Interval{Start: in.Settings.StudyWindowStartMinute, End: in.Settings.StudyWindowEndMinute}
	if in.Candidate.Start < window.Start || in.Candidate.End > window.End {
		result.add(KindOutsideStudyWindow, "candidate falls outside the configured study window")
	}

	wd, err := timeutil.DayOfWeek(in.Date)
	if err != nil {
		return Result{}, err
	}
	if !in.Settings.IsWorkDay(wd) {
		result.add(KindNotWorkDay, "date is not a configured work day")
	}

	buffer := in.Settings.BufferBetweenSessionsMinutes
	widened := in.Candidate.Widen(buffer)

	for _, s := range in.ExistingSessions {
		if s.PlanDate != in.Date {
			continue
		}
		if in.ExcludeSessionID != "" && s.Key() == in.ExcludeSessionID {
			continue
		}
		if s.Status == models.SessionSkippedUser || s.Status == models.SessionSkippedSystem {
			continue
		}
		start, err := timeutil.ToMinutes(s.StartTime)
		if err != nil {
			continue
		}
		end, err := timeutil.ToMinutes(s.EndTime)
		if err != nil {
			continue
		}
		existing := timeutil.Interval{Start: start, End: end}
		if timeutil.Overlap(widened, existing) {
			result.add(KindSessionOverlap, "candidate overlaps an existing session once the buffer is applied")
			break
		}
	}

	busy, err := commitmentIntervals(in.Commitments, in.Date)
	if err != nil {
		return Result{}, err
	}
	for _, b := range busy {
		if timeutil.Overlap(in.Candidate, b) {
			result.add(KindCommitmentConflict, "candidate overlaps a fixed commitment")
			break
		}
	}

	if in.Settings.DailyAvailableMinutes > 0 {
		total := in.Candidate.Duration()
		for _, s := range in.ExistingSessions {
			if s.PlanDate != in.Date || s.Status == models.SessionSkippedUser || s.Status == models.SessionSkippedSystem {
				continue
			}
			if in.ExcludeSessionID != "" && s.Key() == in.ExcludeSessionID {
				continue
			}
			total += s.AllocatedMinutes
		}
		if total > in.Settings.DailyAvailableMinutes {
			result.add(KindDailyLimitExceeded, "placing the candidate would exceed the configured daily available minutes")
		}
	}

	return result, nil
}

// commitmentIntervals expands every commitment against date and returns the
// busy intervals it occupies, with all-day commitments expanded to the whole
// [0, MinutesPerDay) range.
func commitmentIntervals(commitments []models.FixedCommitment, date string) ([]timeutil.Interval, error) {
	var busy []timeutil.Interval
	for _, c := range commitments {
		if c.IsDeleted() {
			continue
		}
		exp, ok, err := commitment.Expand(c, date)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		busy = append(busy, exp.Interval)
	}
	return busy, nil
}
