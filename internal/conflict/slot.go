package conflict

import (
	"sort"

	"github.com/kmosley/taskplan/internal/models"
	"github.com/kmosley/taskplan/internal/timeutil"
)

// SearchInput bundles everything the slot finders need to compute a day's
// free time, separately from a specific candidate interval.
type SearchInput struct {
	Date             string
	DurationMinutes  int
	ExcludeSessionID string
	ExistingSessions []models.StudySession
	Commitments      []models.FixedCommitment
	Settings         models.UserSettings
}

// FreeGap is one contiguous span of free time within the study window, after
// widening every busy interval by the configured buffer.
type FreeGap struct {
	Interval timeutil.Interval
}

// freeGaps computes the free gaps in in.Date's study window, after merging
// and buffer-widening every existing session and commitment.
func freeGaps(in SearchInput) ([]FreeGap, error) {
	window := timeutil.Interval{Start: in.Settings.StudyWindowStartMinute, End: in.Settings.StudyWindowEndMinute}
	if !window.Valid() {
		return nil, nil
	}

	buffer := in.Settings.BufferBetweenSessionsMinutes
	var busy []timeutil.Interval

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
		busy = append(busy, timeutil.Interval{Start: start, End: end}.Widen(buffer))
	}

	commitmentBusy, err := commitmentIntervals(in.Commitments, in.Date)
	if err != nil {
		return nil, err
	}
	for _, b := range commitmentBusy {
		if b.Duration() >= timeutil.MinutesPerDay {
			busy = append(busy, b) // all-day: no widening needed, already covers everything
			continue
		}
		busy = append(busy, b.Widen(buffer))
	}

	merged := timeutil.Merge(busy)

	var gaps []FreeGap
	cursor := window.Start
	for _, b := range merged {
		if b.End <= window.Start {
			continue
		}
		if b.Start >= window.End {
			break
		}
		if b.Start > cursor {
			gaps = append(gaps, FreeGap{Interval: timeutil.Interval{Start: cursor, End: b.Start}})
		}
		if b.End > cursor {
			cursor = b.End
		}
	}
	if cursor < window.End {
		gaps = append(gaps, FreeGap{Interval: timeutil.Interval{Start: cursor, End: window.End}})
	}

	return gaps, nil
}

// FindEarliestSlot searches in.Date's free time for the earliest interval of
// at least in.DurationMinutes. When preferredBands is non-empty, the earliest
// start inside one of the preferred bands is tried first (a gap that opens
// before a band is entered at the band's first minute), falling back to the
// plain earliest-then-shortest-gap order when no preferred start fits.
func FindEarliestSlot(in SearchInput, preferredBands []models.TimeSlotBand) (timeutil.Interval, bool, error) {
	gaps, err := freeGaps(in)
	if err != nil {
		return timeutil.Interval{}, false, err
	}
	if len(gaps) == 0 {
		return timeutil.Interval{}, false, nil
	}

	fitting := make([]FreeGap, 0, len(gaps))
	for _, g := range gaps {
		if g.Interval.Duration() >= in.DurationMinutes {
			fitting = append(fitting, g)
		}
	}
	if len(fitting) == 0 {
		return timeutil.Interval{}, false, nil
	}

	sort.Slice(fitting, func(i, j int) bool {
		if fitting[i].Interval.Start != fitting[j].Interval.Start {
			return fitting[i].Interval.Start < fitting[j].Interval.Start
		}
		return fitting[i].Interval.Duration() < fitting[j].Interval.Duration()
	})

	if len(preferredBands) > 0 {
		bandStart := map[models.TimeSlotBand]int{models.SlotAfternoon: 12 * 60, models.SlotEvening: 17 * 60}
		for _, g := range fitting {
			best := -1
			for _, b := range preferredBands {
				start := g.Interval.Start
				if bs := bandStart[b]; start < bs {
					start = bs
				}
				if bandOf(start) == b && start+in.DurationMinutes <= g.Interval.End && (best < 0 || start < best) {
					best = start
				}
			}
			if best >= 0 {
				return timeutil.Interval{Start: best, End: best + in.DurationMinutes}, true, nil
			}
		}
	}

	best := fitting[0]
	return timeutil.Interval{Start: best.Interval.Start, End: best.Interval.Start + in.DurationMinutes}, true, nil
}

func bandMatches(startMinute int, bands []models.TimeSlotBand) bool {
	band := bandOf(startMinute)
	for _, b := range bands {
		if b == band {
			return true
		}
	}
	return false
}

func bandOf(startMinute int) models.TimeSlotBand {
	switch {
	case startMinute < 12*60:
		return models.SlotMorning
	case startMinute < 17*60:
		return models.SlotAfternoon
	default:
		return models.SlotEvening
	}
}

// nearestSlotGrid is the step size used when walking outward from a target
// minute while searching for a nearby free slot.
const nearestSlotGrid = 5

// nearestSlotRadius bounds how far FindNearestSlot will walk from the target
// minute before giving up.
const nearestSlotRadius = 6 * 60

// FindNearestSlot searches for a fitting interval as close as possible to
// targetStart, trying the exact target first and then alternating +delta and
// -delta on a 5-minute grid out to a 6-hour radius. Used by manual moves,
// where the user has a specific time in mind and only needs nearby relief
// from a conflict.
func FindNearestSlot(in SearchInput, targetStart int) (timeutil.Interval, bool, error) {
	gaps, err := freeGaps(in)
	if err != nil {
		return timeutil.Interval{}, false, err
	}

	fits := func(start int) bool {
		end := start + in.DurationMinutes
		if start < 0 || end > timeutil.MinutesPerDay {
			return false
		}
		for _, g := range gaps {
			if start >= g.Interval.Start && end <= g.Interval.End {
				return true
			}
		}
		return false
	}

	if fits(targetStart) {
		return timeutil.Interval{Start: targetStart, End: targetStart + in.DurationMinutes}, true, nil
	}

	for delta := nearestSlotGrid; delta <= nearestSlotRadius; delta += nearestSlotGrid {
		if fits(targetStart + delta) {
			start := targetStart + delta
			return timeutil.Interval{Start: start, End: start + in.DurationMinutes}, true, nil
		}
		if fits(targetStart - delta) {
			start := targetStart - delta
			return timeutil.Interval{Start: start, End: start + in.DurationMinutes}, true, nil
		}
	}

	return timeutil.Interval{}, false, nil
}
