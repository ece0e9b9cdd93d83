// Package commitment implements the commitment expander (L1): given a
// FixedCommitment and a date, it resolves the zero-or-one effective
// interval for that date, applying recurrence, date-range clipping,
// deleted occurrences, and the override precedence chain.
package commitment

import (
	"fmt"
	"time"

	"github.com/kmosley/taskplan/internal/models"
	"github.com/kmosley/taskplan/internal/timeutil"
)

// Expansion is the resolved effective interval for one (commitment, date)
// pair.
type Expansion struct {
	IsAllDay bool
	Interval timeutil.Interval
}

// Expand resolves the effective interval of c on date: deleted-occurrence
// check, then applicability, then timing resolution with override
// precedence. ok is false when the commitment does not apply to date at all
// (deleted occurrence, recurrence rule doesn't match, or outside its date
// range).
func Expand(c models.FixedCommitment, date string) (exp Expansion, ok bool, err error) {
	for _, deleted := range c.DeletedOccurrences {
		if deleted == date {
			return Expansion{}, false, nil
		}
	}

	applicable, err := isApplicable(c, date)
	if err != nil {
		return Expansion{}, false, err
	}
	if !applicable {
		return Expansion{}, false, nil
	}

	isAllDay := c.IsAllDay
	startTime, endTime := c.StartTime, c.EndTime

	dow, err := timeutil.DayOfWeek(date)
	if err != nil {
		return Expansion{}, false, err
	}
	if override, found := c.DaySpecificTimings[dow]; found {
		isAllDay = override.IsAllDay
		startTime, endTime = override.StartTime, override.EndTime
	}
	if override, found := c.ModifiedOccurrences[date]; found {
		isAllDay = override.IsAllDay
		startTime, endTime = override.StartTime, override.EndTime
	}

	if isAllDay {
		return Expansion{IsAllDay: true, Interval: timeutil.Interval{Start: 0, End: timeutil.MinutesPerDay}}, true, nil
	}

	start, err := timeutil.ToMinutes(startTime)
	if err != nil {
		return Expansion{}, false, fmt.Errorf("commitment %s: %w", c.ID, err)
	}
	end, err := timeutil.ToMinutes(endTime)
	if err != nil {
		return Expansion{}, false, fmt.Errorf("commitment %s: %w", c.ID, err)
	}
	iv := timeutil.Interval{Start: start, End: end}
	if !iv.Valid() {
		return Expansion{}, false, fmt.Errorf("commitment %s: end (%s) must be after start (%s) on %s; overnight commitments are rejected at configuration time", c.ID, endTime, startTime, date)
	}

	return Expansion{IsAllDay: false, Interval: iv}, true, nil
}

func isApplicable(c models.FixedCommitment, date string) (bool, error) {
	if c.Recurring {
		dow, err := timeutil.DayOfWeek(date)
		if err != nil {
			return false, err
		}
		if !containsWeekday(c.DaysOfWeek, dow) {
			return false, nil
		}
		if c.DateRange != nil {
			if c.DateRange.Start != "" && timeutil.CompareDates(date, c.DateRange.Start) < 0 {
				return false, nil
			}
			if c.DateRange.End != "" && timeutil.CompareDates(date, c.DateRange.End) > 0 {
				return false, nil
			}
		}
		return true, nil
	}

	for _, d := range c.SpecificDates {
		if d == date {
			return true, nil
		}
	}
	return false, nil
}

func containsWeekday(days []time.Weekday, d time.Weekday) bool {
	for _, wd := range days {
		if wd == d {
			return true
		}
	}
	return false
}
