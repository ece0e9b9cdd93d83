package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/kmosley/taskplan/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "taskplan.db"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInitSeedsDefaultSettings(t *testing.T) {
	s := newTestStore(t)

	settings, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error: %v", err)
	}
	if settings.DailyAvailableMinutes != models.DefaultDailyAvailableMinutes {
		t.Errorf("DailyAvailableMinutes = %d, want %d", settings.DailyAvailableMinutes, models.DefaultDailyAvailableMinutes)
	}
	if len(settings.WorkDays) != 5 {
		t.Errorf("WorkDays = %v, want 5 entries", settings.WorkDays)
	}
}

func TestLoadRequiresInit(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "taskplan.db"))
	if err := s.Load(); err == nil {
		t.Error("Load() on an uninitialized store should error")
	}
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	want := models.UserSettings{
		DailyAvailableMinutes:        180,
		WorkDays:                     []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		StudyWindowStartMinute:       8 * 60,
		StudyWindowEndMinute:         16 * 60,
		BufferBetweenSessionsMinutes: 10,
		BufferDaysBeforeDeadline:     2,
		MinSessionMinutes:            20,
		StudyPlanMode:                models.ModeFrontLoaded,
	}

	if err := s.SaveSettings(want); err != nil {
		t.Fatalf("SaveSettings() error: %v", err)
	}

	got, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error: %v", err)
	}
	if got.DailyAvailableMinutes != want.DailyAvailableMinutes || got.StudyPlanMode != want.StudyPlanMode {
		t.Errorf("GetSettings() = %+v, want %+v", got, want)
	}
	if len(got.WorkDays) != len(want.WorkDays) {
		t.Errorf("WorkDays = %v, want %v", got.WorkDays, want.WorkDays)
	}
}
