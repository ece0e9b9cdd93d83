package conflict

import (
	"testing"

	"github.com/kmosley/taskplan/internal/models"
	"github.com/kmosley/taskplan/internal/timeutil"
)

func testSettings() models.UserSettings {
	s := models.UserSettings{}
	models.ApplyDefaults(&s)
	return s
}

func TestValidateAcceptsCleanCandidate(t *testing.T) {
	in := Input{
		Date:      "2026-08-03", // Monday
		Candidate: timeutil.Interval{Start: 600, End: 660},
		Settings:  testSettings(),
	}
	result, err := Validate(in)
	if err != nil {
		t.Fatal(err)
	}
	if !result.OK() {
		t.Errorf("expected no violations, got %+v", result.Violations)
	}
}

func TestValidateReportsAllViolationsAtOnce(t *testing.T) {
	settings := testSettings()
	in := Input{
		Date:      "2026-08-08", // Saturday, not a work day by default
		Candidate: timeutil.Interval{Start: 0, End: 30},
		Settings:  settings,
	}
	result, err := Validate(in)
	if err != nil {
		t.Fatal(err)
	}
	hasKind := func(k Kind) bool {
		for _, v := range result.Violations {
			if v.Kind == k {
				return true
			}
		}
		return false
	}
	if !hasKind(KindOutsideStudyWindow) {
		t.Error("expected outside_study_window violation")
	}
	if !hasKind(KindNotWorkDay) {
		t.Error("expected not_work_day violation")
	}
}

func TestValidateInvalidTimeRange(t *testing.T) {
	in := Input{
		Date:      "2026-08-03",
		Candidate: timeutil.Interval{Start: 600, End: 600},
		Settings:  testSettings(),
	}
	result, err := Validate(in)
	if err != nil {
		t.Fatal(err)
	}
	if result.OK() || result.Violations[0].Kind != KindInvalidTimeRange {
		t.Errorf("expected invalid_time_range, got %+v", result.Violations)
	}
}

func TestValidateSessionOverlapWithBuffer(t *testing.T) {
	settings := testSettings()
	settings.BufferBetweenSessionsMinutes = 10
	existing := models.StudySession{
		TaskID:    "t1",
		PlanDate:  "2026-08-03",
		StartTime: "10:00",
		EndTime:   "11:00",
		Status:    models.SessionScheduled,
	}
	in := Input{
		Date:             "2026-08-03",
		Candidate:        timeutil.Interval{Start: 665, End: 700}, // 11:05-11:40, within buffer of existing
		ExistingSessions: []models.StudySession{existing},
		Settings:         settings,
	}
	result, err := Validate(in)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, v := range result.Violations {
		if v.Kind == KindSessionOverlap {
			found = true
		}
	}
	if !found {
		t.Error("expected session_overlap once the buffer widens the existing session")
	}
}

func TestValidateExcludeSessionIDSkipsItself(t *testing.T) {
	existing := models.StudySession{
		TaskID:    "t1",
		PlanDate:  "2026-08-03",
		StartTime: "10:00",
		EndTime:   "11:00",
		Status:    models.SessionScheduled,
	}
	in := Input{
		Date:             "2026-08-03",
		Candidate:        timeutil.Interval{Start: 600, End: 660},
		ExcludeSessionID: existing.Key(),
		ExistingSessions: []models.StudySession{existing},
		Settings:         testSettings(),
	}
	result, err := Validate(in)
	if err != nil {
		t.Fatal(err)
	}
	if !result.OK() {
		t.Errorf("excluded session should not conflict with itself, got %+v", result.Violations)
	}
}

func TestValidateCommitmentConflict(t *testing.T) {
	c := models.FixedCommitment{
		ID:            "c1",
		SpecificDates: []string{"2026-08-03"},
		StartTime:     "10:00",
		EndTime:       "11:00",
	}
	in := Input{
		Date:        "2026-08-03",
		Candidate:   timeutil.Interval{Start: 630, End: 690},
		Commitments: []models.FixedCommitment{c},
		Settings:    testSettings(),
	}
	result, err := Validate(in)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, v := range result.Violations {
		if v.Kind == KindCommitmentConflict {
			found = true
		}
	}
	if !found {
		t.Error("expected commitment_conflict")
	}
}

func TestValidateDailyLimitExceeded(t *testing.T) {
	settings := testSettings()
	settings.DailyAvailableMinutes = 60
	existing := models.StudySession{
		TaskID:           "t1",
		PlanDate:         "2026-08-03",
		StartTime:        "09:00",
		EndTime:          "09:45",
		AllocatedMinutes: 45,
		Status:           models.SessionScheduled,
	}
	in := Input{
		Date:             "2026-08-03",
		Candidate:        timeutil.Interval{Start: 600, End: 630}, // 30 more minutes, total 75 > 60
		ExistingSessions: []models.StudySession{existing},
		Settings:         settings,
	}
	result, err := Validate(in)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, v := range result.Violations {
		if v.Kind == KindDailyLimitExceeded {
			found = true
		}
	}
	if !found {
		t.Error("expected daily_limit_exceeded")
	}
}
