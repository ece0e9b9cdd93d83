package planner

import (
	"testing"

	"github.com/kmosley/taskplan/internal/models"
	"github.com/kmosley/taskplan/internal/timeutil"
)

func eligibleFixture(n int) []string {
	dates := make([]string, n)
	for i := range dates {
		d, err := timeutil.AddDays("2026-08-03", i)
		if err != nil {
			panic(err)
		}
		dates[i] = d
	}
	return dates
}

func TestComputeSessionShapeDailySplitsEvenly(t *testing.T) {
	eligible := eligibleFixture(4)
	task := models.Task{TargetFrequency: models.FrequencyDaily, MinSessionMinutes: 15, MaxSessionMinutes: 120}
	shape := computeSessionShape(task, eligible, 240)
	if len(shape.sizes) != 4 {
		t.Fatalf("expected 4 sessions, got %d", len(shape.sizes))
	}
	for _, sz := range shape.sizes {
		if sz != 60 {
			t.Errorf("expected 60-minute sessions, got %d", sz)
		}
	}
}

func TestComputeSessionShapeThreeXWeekFallsBackToDaily(t *testing.T) {
	eligible := eligibleFixture(5) // fewer than 7 eligible days
	task := models.Task{TargetFrequency: models.FrequencyThreeXWeek, MinSessionMinutes: 15, MaxSessionMinutes: 120}
	shape := computeSessionShape(task, eligible, 250)
	if len(shape.sizes) != 5 {
		t.Fatalf("expected fallback to daily (5 sessions), got %d", len(shape.sizes))
	}
}

func TestComputeSessionShapeThreeXWeekPicksEveryOtherDay(t *testing.T) {
	eligible := eligibleFixture(10)
	task := models.Task{TargetFrequency: models.FrequencyThreeXWeek, MinSessionMinutes: 15, MaxSessionMinutes: 240}
	shape := computeSessionShape(task, eligible, 250)
	if len(shape.sizes) != 5 {
		t.Fatalf("expected every-other-day selection (5 of 10 days), got %d", len(shape.sizes))
	}
}

func TestComputeSessionShapeWeeklyFallsBackToDaily(t *testing.T) {
	eligible := eligibleFixture(10) // fewer than 14 eligible days
	task := models.Task{TargetFrequency: models.FrequencyWeekly, MinSessionMinutes: 15, MaxSessionMinutes: 240}
	shape := computeSessionShape(task, eligible, 250)
	if len(shape.sizes) != 10 {
		t.Fatalf("expected fallback to daily (10 sessions), got %d", len(shape.sizes))
	}
}

func TestComputeSessionShapeFlexiblePacksMaxChunks(t *testing.T) {
	eligible := eligibleFixture(10)
	task := models.Task{TargetFrequency: models.FrequencyFlexible, MinSessionMinutes: 15, MaxSessionMinutes: 90}
	shape := computeSessionShape(task, eligible, 200)
	if len(shape.sizes) != 3 {
		t.Fatalf("expected 3 chunks (90+90+20), got %d: %v", len(shape.sizes), shape.sizes)
	}
	if shape.sizes[0] != 90 || shape.sizes[1] != 90 {
		t.Errorf("expected the first two chunks at max size, got %v", shape.sizes)
	}
}

func TestComputeSessionShapeOneSittingSingleSession(t *testing.T) {
	eligible := eligibleFixture(4)
	task := models.Task{IsOneSitting: true, Deadline: eligible[2], MinSessionMinutes: 15, MaxSessionMinutes: 240}
	shape := computeSessionShape(task, eligible, 180)
	if !shape.oneSitting || len(shape.sizes) != 1 || shape.sizes[0] != 180 {
		t.Fatalf("expected a single 180-minute session on the deadline day, got %+v", shape)
	}
	if shape.dates[0] != eligible[2] {
		t.Errorf("expected the session on the deadline day, got %s", shape.dates[0])
	}
}

func TestClampRespectsZeroMaxAsUnbounded(t *testing.T) {
	if got := clamp(500, 15, 0); got != 500 {
		t.Errorf("clamp with max=0 should be unbounded, got %d", got)
	}
	if got := clamp(5, 15, 0); got != 15 {
		t.Errorf("clamp should raise below-min values to min, got %d", got)
	}
}
