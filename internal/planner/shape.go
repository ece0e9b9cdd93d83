package planner

import (
	"strconv"

	"github.com/kmosley/taskplan/internal/models"
	"github.com/kmosley/taskplan/internal/timeutil"
)

// sessionPlan is one task's computed session shape: which dates get a
// session and how big each one is, before placement is attempted.
type sessionPlan struct {
	dates      []string
	sizes      []int
	oneSitting bool
}

func clamp(v, min, max int) int {
	if max > 0 && v > max {
		v = max
	}
	if v < min {
		v = min
	}
	return v
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

// computeSessionShape turns a task's targetFrequency and remaining minutes
// into a set of candidate (date, size) pairs, before any slot search has
// been attempted. One-sitting tasks collapse to a single candidate on the
// deadline day.
func computeSessionShape(t models.Task, eligible []string, remaining int) sessionPlan {
	minSize := t.MinSessionMinutes
	maxSize := t.MaxSessionMinutes

	if t.IsOneSitting {
		date := t.Deadline
		if date == "" && len(eligible) > 0 {
			date = eligible[len(eligible)-1]
		}
		if date == "" {
			return sessionPlan{oneSitting: true}
		}
		return sessionPlan{dates: []string{date}, sizes: []int{remaining}, oneSitting: true}
	}

	if len(eligible) == 0 {
		return sessionPlan{}
	}

	switch t.TargetFrequency {
	case models.FrequencyThreeXWeek:
		if len(eligible) < 7 {
			return dailyShape(eligible, remaining, minSize, maxSize)
		}
		picked := pickEveryOther(eligible)
		return sizeEvenly(picked, remaining, minSize, maxSize)

	case models.FrequencyWeekly:
		if len(eligible) < 14 {
			return dailyShape(eligible, remaining, minSize, maxSize)
		}
		picked := pickOnePerISOWeek(eligible)
		return sizeEvenly(picked, remaining, minSize, maxSize)

	case models.FrequencyFlexible:
		return flexibleShape(eligible, remaining, minSize, maxSize)

	default: // daily
		return dailyShape(eligible, remaining, minSize, maxSize)
	}
}

func dailyShape(eligible []string, remaining, minSize, maxSize int) sessionPlan {
	return sizeEvenly(eligible, remaining, minSize, maxSize)
}

func sizeEvenly(dates []string, remaining, minSize, maxSize int) sessionPlan {
	if len(dates) == 0 {
		return sessionPlan{}
	}
	per := clamp(ceilDiv(remaining, len(dates)), minSize, maxSize)
	sizes := make([]int, len(dates))
	for i := range dates {
		sizes[i] = per
	}
	return sessionPlan{dates: dates, sizes: sizes}
}

// flexibleShape packs sessions preferring maxSessionMinutes-sized chunks,
// using as many eligible days as the remaining budget needs.
func flexibleShape(eligible []string, remaining, minSize, maxSize int) sessionPlan {
	chunk := maxSize
	if chunk <= 0 {
		chunk = remaining
	}
	var dates []string
	var sizes []int
	budget := remaining
	for _, d := range eligible {
		if budget <= 0 {
			break
		}
		size := budget
		if size > chunk {
			size = chunk
		}
		size = clamp(size, minSize, maxSize)
		dates = append(dates, d)
		sizes = append(sizes, size)
		budget -= size
	}
	return sessionPlan{dates: dates, sizes: sizes}
}

func pickEveryOther(dates []string) []string {
	picked := make([]string, 0, (len(dates)+1)/2)
	for i := 0; i < len(dates); i += 2 {
		picked = append(picked, dates[i])
	}
	return picked
}

func pickOnePerISOWeek(dates []string) []string {
	var picked []string
	seen := map[string]bool{}
	for _, d := range dates {
		t, err := timeutil.ParseDate(d)
		if err != nil {
			continue
		}
		year, week := t.ISOWeek()
		key := isoWeekKey(year, week)
		if seen[key] {
			continue
		}
		seen[key] = true
		picked = append(picked, d)
	}
	return picked
}

func isoWeekKey(year, week int) string {
	return strconv.Itoa(year) + "-" + strconv.Itoa(week)
}
