package sqlite

import (
	"testing"

	"github.com/kmosley/taskplan/internal/models"
)

func TestAppendAndGetRedistributionLog(t *testing.T) {
	s := newTestStore(t)
	entries := []models.RemovedSessionLogEntry{
		{
			TaskID:       "task-1",
			OriginalDate: "2026-08-01",
			StartTime:    "09:00",
			EndTime:      "10:00",
			Status:       models.RemovedRedistributed,
			Reason:       "commitment conflict",
		},
		{
			TaskID:       "task-1",
			OriginalDate: "2026-08-02",
			StartTime:    "09:00",
			EndTime:      "09:30",
			Status:       models.RemovedFailed,
			Reason:       "no eligible slot remaining",
		},
	}

	if err := s.AppendRedistributionLog(entries); err != nil {
		t.Fatalf("AppendRedistributionLog() error: %v", err)
	}

	got, err := s.GetRedistributionLog("task-1")
	if err != nil {
		t.Fatalf("GetRedistributionLog() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetRedistributionLog() = %d entries, want 2", len(got))
	}
	if got[0].OriginalDate != "2026-08-01" || got[1].Status != models.RemovedFailed {
		t.Errorf("GetRedistributionLog() = %+v, unexpected order/content", got)
	}
}

func TestAppendRedistributionLogEmpty(t *testing.T) {
	s := newTestStore(t)
	if err := s.AppendRedistributionLog(nil); err != nil {
		t.Errorf("AppendRedistributionLog(nil) error: %v", err)
	}
}

func TestGetRedistributionLogForUnknownTask(t *testing.T) {
	s := newTestStore(t)
	entries, err := s.GetRedistributionLog("nonexistent")
	if err != nil {
		t.Fatalf("GetRedistributionLog() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("GetRedistributionLog() = %v, want none", entries)
	}
}
