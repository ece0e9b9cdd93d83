package commitment

import (
	"testing"
	"time"

	"github.com/kmosley/taskplan/internal/models"
	"github.com/kmosley/taskplan/internal/timeutil"
)

func TestExpandDeletedOccurrenceSuppressed(t *testing.T) {
	c := models.FixedCommitment{
		ID:                 "c1",
		Recurring:          true,
		DaysOfWeek:         []time.Weekday{time.Monday},
		StartTime:          "09:00",
		EndTime:            "10:00",
		DeletedOccurrences: []string{"2026-08-03"},
	}
	_, ok, err := Expand(c, "2026-08-03")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("deleted occurrence should not yield an expansion")
	}
}

func TestExpandRecurringDayOfWeekMatch(t *testing.T) {
	c := models.FixedCommitment{
		ID:         "c1",
		Recurring:  true,
		DaysOfWeek: []time.Weekday{time.Monday, time.Wednesday},
		StartTime:  "09:00",
		EndTime:    "10:00",
	}
	// 2026-08-03 is a Monday.
	exp, ok, err := Expand(c, "2026-08-03")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a match on Monday")
	}
	want := timeutil.Interval{Start: 540, End: 600}
	if exp.Interval != want || exp.IsAllDay {
		t.Errorf("got %+v, want %+v", exp, want)
	}

	// 2026-08-04 is a Tuesday, not in DaysOfWeek.
	_, ok, err = Expand(c, "2026-08-04")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Tuesday should not match Mon/Wed recurrence")
	}
}

func TestExpandDateRangeClipsInclusive(t *testing.T) {
	c := models.FixedCommitment{
		ID:         "c1",
		Recurring:  true,
		DaysOfWeek: []time.Weekday{time.Monday},
		DateRange:  &models.DateRange{Start: "2026-08-01", End: "2026-08-10"},
		StartTime:  "09:00",
		EndTime:    "10:00",
	}
	// 2026-08-03 (Monday) is inside the range.
	if _, ok, err := Expand(c, "2026-08-03"); err != nil || !ok {
		t.Errorf("expected match within range, ok=%v err=%v", ok, err)
	}
	// 2026-08-10 is the inclusive end boundary; it's a Monday too.
	if _, ok, err := Expand(c, "2026-08-10"); err != nil || !ok {
		t.Errorf("expected match on inclusive end boundary, ok=%v err=%v", ok, err)
	}
	// 2026-08-17 (Monday) is outside the range.
	if _, ok, err := Expand(c, "2026-08-17"); err != nil || ok {
		t.Errorf("expected no match past the range end, ok=%v err=%v", ok, err)
	}
}

func TestExpandNonRecurringSpecificDates(t *testing.T) {
	c := models.FixedCommitment{
		ID:            "c2",
		Recurring:     false,
		SpecificDates: []string{"2026-08-05", "2026-08-12"},
		StartTime:     "14:00",
		EndTime:       "15:30",
	}
	if _, ok, err := Expand(c, "2026-08-05"); err != nil || !ok {
		t.Errorf("expected match on listed specific date, ok=%v err=%v", ok, err)
	}
	if _, ok, err := Expand(c, "2026-08-06"); err != nil || ok {
		t.Errorf("expected no match on unlisted date, ok=%v err=%v", ok, err)
	}
}

func TestExpandOverridePrecedence(t *testing.T) {
	c := models.FixedCommitment{
		ID:         "c1",
		Recurring:  true,
		DaysOfWeek: []time.Weekday{time.Monday},
		StartTime:  "09:00",
		EndTime:    "10:00",
		DaySpecificTimings: map[time.Weekday]models.TimingOverride{
			time.Monday: {StartTime: "11:00", EndTime: "12:00"},
		},
		ModifiedOccurrences: map[string]models.TimingOverride{
			"2026-08-03": {StartTime: "13:00", EndTime: "13:30"},
		},
	}

	// 2026-08-03 is a Monday: the modified-occurrence override should win
	// over both the day-specific timing and the commitment-wide default.
	exp, ok, err := Expand(c, "2026-08-03")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a match")
	}
	want := timeutil.Interval{Start: 780, End: 810}
	if exp.Interval != want {
		t.Errorf("modified occurrence should take precedence, got %+v want %+v", exp.Interval, want)
	}

	// 2026-08-10 is also a Monday with no modified occurrence: the
	// day-specific timing should win over the commitment-wide default.
	exp, ok, err = Expand(c, "2026-08-10")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a match")
	}
	want = timeutil.Interval{Start: 660, End: 720}
	if exp.Interval != want {
		t.Errorf("day-specific timing should take precedence over default, got %+v want %+v", exp.Interval, want)
	}
}

func TestExpandAllDay(t *testing.T) {
	c := models.FixedCommitment{
		ID:            "c3",
		Recurring:     false,
		SpecificDates: []string{"2026-08-05"},
		IsAllDay:      true,
	}
	exp, ok, err := Expand(c, "2026-08-05")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || !exp.IsAllDay {
		t.Fatalf("expected an all-day match, got %+v ok=%v", exp, ok)
	}
	want := timeutil.Interval{Start: 0, End: timeutil.MinutesPerDay}
	if exp.Interval != want {
		t.Errorf("all-day interval = %+v, want %+v", exp.Interval, want)
	}
}

func TestExpandRejectsOvernightInterval(t *testing.T) {
	c := models.FixedCommitment{
		ID:            "c4",
		Recurring:     false,
		SpecificDates: []string{"2026-08-05"},
		StartTime:     "22:00",
		EndTime:       "06:00",
	}
	_, _, err := Expand(c, "2026-08-05")
	if err == nil {
		t.Error("expected an error rejecting an overnight (end <= start) interval")
	}
}
