// Package alerts raises and delivers one-time deadline-risk notices: a hard
// deadline task whose remaining eligible workdays have dropped to a
// configurable threshold gets a single Alert, delivered through a pluggable
// Sink with retry-with-backoff.
package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kmosley/taskplan/internal/constants"
	"github.com/kmosley/taskplan/internal/models"
	"github.com/kmosley/taskplan/internal/timeutil"
)

// DefaultThreshold is the eligible-workday count at or below which a
// deadline-risk alert fires for a hard-deadline task.
const DefaultThreshold = 3

// ScanDeadlineRisk returns one Alert per pending, hard-deadline, non-deleted
// task whose count of remaining eligible workdays (today through
// deadline-bufferDaysBeforeDeadline, inclusive) has dropped to threshold or
// below. A task that already has an alert dated today, fired or not, is
// skipped by the caller via its existing alerts, not here.
func ScanDeadlineRisk(tasks []models.Task, settings models.UserSettings, today string, threshold int) ([]models.Alert, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	var out []models.Alert
	for _, t := range tasks {
		if t.IsDeleted() || t.Status != models.TaskPending {
			continue
		}
		if !t.HasDeadline() || t.DeadlineType != models.DeadlineHard {
			continue
		}

		count, err := eligibleWorkdayCount(t, settings, today)
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", t.ID, err)
		}
		if count > threshold {
			continue
		}

		out = append(out, models.Alert{
			ID:        uuid.NewString(),
			TaskID:    t.ID,
			Message:   fmt.Sprintf("%q has only %d eligible day(s) left before its deadline (%s)", t.Title, count, t.Deadline),
			Date:      today,
			Fired:     false,
			CreatedAt: time.Now().UTC(),
		})
	}
	return out, nil
}

// eligibleWorkdayCount counts the work days between today and the task's
// deadline (minus its buffer), inclusive, on which it could still be
// scheduled. Mirrors the planner's own eligible-day window without pulling
// in its unexported internals.
func eligibleWorkdayCount(t models.Task, settings models.UserSettings, today string) (int, error) {
	start := today
	if t.StartDate != "" && timeutil.CompareDates(t.StartDate, today) > 0 {
		start = t.StartDate
	}

	deadlineMinusBuffer, err := timeutil.AddDays(t.Deadline, -settings.BufferDaysBeforeDeadline)
	if err != nil {
		return 0, err
	}

	if timeutil.CompareDates(start, deadlineMinusBuffer) > 0 {
		return 0, nil
	}

	all, err := timeutil.DateRange(start, deadlineMinusBuffer, true)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, d := range all {
		wd, err := timeutil.DayOfWeek(d)
		if err != nil {
			return 0, err
		}
		if settings.IsWorkDay(wd) {
			count++
		}
	}
	return count, nil
}

// Sink delivers a single alert to an external destination.
type Sink interface {
	Send(ctx context.Context, a models.Alert) error
}

// Dispatcher delivers alerts through a Sink, retrying transient failures
// with a fixed backoff.
type Dispatcher struct {
	Sink       Sink
	MaxRetries int
	RetryDelay time.Duration
}

// NewDispatcher returns a Dispatcher using the package's default retry
// policy.
func NewDispatcher(sink Sink) *Dispatcher {
	return &Dispatcher{
		Sink:       sink,
		MaxRetries: constants.AlertMaxRetries,
		RetryDelay: constants.AlertRetryDelay,
	}
}

// Dispatch delivers a to the sink, making up to MaxRetries attempts in total
// (at least one) with RetryDelay between attempts. Returns the last error on
// exhaustion.
func (d *Dispatcher) Dispatch(ctx context.Context, a models.Alert) error {
	var lastErr error
	attempts := d.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d.RetryDelay):
			}
		}
		if lastErr = d.Sink.Send(ctx, a); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("dispatch alert for task %s: %w", a.TaskID, lastErr)
}
