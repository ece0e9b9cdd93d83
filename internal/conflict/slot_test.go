package conflict

import (
	"testing"

	"github.com/kmosley/taskplan/internal/models"
	"github.com/kmosley/taskplan/internal/timeutil"
)

func TestFindEarliestSlotEmptyDay(t *testing.T) {
	in := SearchInput{
		Date:            "2026-08-03",
		DurationMinutes: 60,
		Settings:        testSettings(),
	}
	iv, ok, err := FindEarliestSlot(in, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a slot on an empty day")
	}
	want := timeutil.Interval{Start: testSettings().StudyWindowStartMinute, End: testSettings().StudyWindowStartMinute + 60}
	if iv != want {
		t.Errorf("FindEarliestSlot = %+v, want %+v", iv, want)
	}
}

func TestFindEarliestSlotFullyBlockedDay(t *testing.T) {
	settings := testSettings()
	existing := models.StudySession{
		TaskID:           "t1",
		PlanDate:         "2026-08-03",
		StartTime:        timeMustFormat(settings.StudyWindowStartMinute),
		EndTime:          timeMustFormat(settings.StudyWindowEndMinute),
		AllocatedMinutes: settings.StudyWindowEndMinute - settings.StudyWindowStartMinute,
		Status:           models.SessionScheduled,
	}
	in := SearchInput{
		Date:             "2026-08-03",
		DurationMinutes:  30,
		ExistingSessions: []models.StudySession{existing},
		Settings:         settings,
	}
	_, ok, err := FindEarliestSlot(in, nil)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected no slot on a fully-blocked day")
	}
}

func TestFindEarliestSlotBufferLargerThanGap(t *testing.T) {
	settings := testSettings()
	settings.BufferBetweenSessionsMinutes = 60
	start := settings.StudyWindowStartMinute
	first := models.StudySession{
		TaskID: "t1", PlanDate: "2026-08-03",
		StartTime: timeMustFormat(start), EndTime: timeMustFormat(start + 60),
		Status: models.SessionScheduled,
	}
	second := models.StudySession{
		TaskID: "t2", PlanDate: "2026-08-03",
		StartTime: timeMustFormat(start + 90), EndTime: timeMustFormat(start + 150),
		Status: models.SessionScheduled,
	}
	in := SearchInput{
		Date:             "2026-08-03",
		DurationMinutes:  30,
		ExistingSessions: []models.StudySession{first, second},
		Settings:         settings,
	}
	iv, ok, err := FindEarliestSlot(in, nil)
	if err != nil {
		t.Fatal(err)
	}
	// The 30-minute gap between sessions is swallowed by the 60-minute
	// buffer on each side, so the earliest fit must land after both.
	if ok && iv.Start < start+150+60 {
		t.Errorf("expected the buffer to swallow the narrow gap, got %+v", iv)
	}
}

func TestFindEarliestSlotBoundaryTouching(t *testing.T) {
	settings := testSettings()
	settings.BufferBetweenSessionsMinutes = 0
	start := settings.StudyWindowStartMinute
	existing := models.StudySession{
		TaskID: "t1", PlanDate: "2026-08-03",
		StartTime: timeMustFormat(start), EndTime: timeMustFormat(start + 60),
		Status: models.SessionScheduled,
	}
	in := SearchInput{
		Date:             "2026-08-03",
		DurationMinutes:  30,
		ExistingSessions: []models.StudySession{existing},
		Settings:         settings,
	}
	iv, ok, err := FindEarliestSlot(in, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || iv.Start != start+60 {
		t.Errorf("expected the slot to start exactly at the boundary, got %+v ok=%v", iv, ok)
	}
}

func TestFindEarliestSlotPrefersBand(t *testing.T) {
	settings := testSettings()
	in := SearchInput{
		Date:            "2026-08-03",
		DurationMinutes: 30,
		Settings:        settings,
	}
	iv, ok, err := FindEarliestSlot(in, []models.TimeSlotBand{models.SlotAfternoon})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a slot")
	}
	if iv.Start < 12*60 {
		t.Errorf("expected an afternoon-band slot, got start=%d", iv.Start)
	}
}

func TestFindNearestSlotExactTargetFits(t *testing.T) {
	settings := testSettings()
	in := SearchInput{Date: "2026-08-03", DurationMinutes: 30, Settings: settings}
	target := settings.StudyWindowStartMinute + 60
	iv, ok, err := FindNearestSlot(in, target)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || iv.Start != target {
		t.Errorf("expected exact target to fit, got %+v ok=%v", iv, ok)
	}
}

func TestFindNearestSlotWalksOutward(t *testing.T) {
	settings := testSettings()
	start := settings.StudyWindowStartMinute
	blocking := models.StudySession{
		TaskID: "t1", PlanDate: "2026-08-03",
		StartTime: timeMustFormat(start + 55), EndTime: timeMustFormat(start + 85),
		Status: models.SessionScheduled,
	}
	in := SearchInput{
		Date:             "2026-08-03",
		DurationMinutes:  30,
		ExistingSessions: []models.StudySession{blocking},
		Settings:         settings,
	}
	iv, ok, err := FindNearestSlot(in, start+60)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a nearby slot")
	}
	if iv.Start == start+60 {
		t.Error("target itself overlaps the blocking session and should not be returned")
	}
}

func timeMustFormat(m int) string {
	s, err := timeutil.FromMinutes(m)
	if err != nil {
		panic(err)
	}
	return s
}
