package task

import (
	"fmt"
	"strings"

	"github.com/kmosley/taskplan/internal/cli"
	"github.com/kmosley/taskplan/internal/models"
)

type EditCmd struct {
	ID string `arg:"" help:"Task ID."`

	Title        *string `help:"New title."`
	Category     *string `help:"New category."`
	Minutes      *int    `short:"m" help:"New estimated total minutes."`
	Deadline     *string `short:"d" help:"New deadline date (YYYY-MM-DD), or empty string to clear."`
	DeadlineType *string `help:"New deadline strictness: hard|soft|none."`
	Important    *bool   `help:"Set importance."`
	Status       *string `help:"New status: pending|completed."`

	Frequency  *string `help:"New target frequency: daily|3x-week|weekly|flexible."`
	MinSession *int    `name:"min-session" help:"New minimum session length in minutes."`
	MaxSession *int    `name:"max-session" help:"New maximum session length in minutes."`
	OneSitting *bool   `name:"one-sitting" help:"Set single-sitting requirement."`
	Slots      *string `help:"New comma-separated preferred time bands, or empty string to clear."`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	t, err := ctx.Store.GetTask(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find task: %w", err)
	}

	if c.Title != nil {
		t.Title = *c.Title
	}
	if c.Category != nil {
		t.Category = *c.Category
	}
	if c.Minutes != nil {
		if *c.Minutes <= 0 {
			return fmt.Errorf("minutes must be positive")
		}
		t.EstimatedMinutes = *c.Minutes
	}
	if c.Deadline != nil {
		if *c.Deadline == "" {
			t.Deadline = ""
		} else {
			d, err := cli.ResolveDate(*c.Deadline)
			if err != nil {
				return err
			}
			t.Deadline = d
		}
	}
	if c.DeadlineType != nil {
		dt := models.DeadlineType(*c.DeadlineType)
		switch dt {
		case models.DeadlineHard, models.DeadlineSoft, models.DeadlineNone:
			t.DeadlineType = dt
		default:
			return fmt.Errorf("invalid deadline type: %s", *c.DeadlineType)
		}
	}
	if c.Important != nil {
		t.Importance = *c.Important
	}
	if c.Status != nil {
		status := models.TaskStatus(*c.Status)
		switch status {
		case models.TaskPending, models.TaskCompleted:
			t.Status = status
		default:
			return fmt.Errorf("invalid status: %s", *c.Status)
		}
	}
	if c.Frequency != nil {
		freq := models.TargetFrequency(*c.Frequency)
		switch freq {
		case models.FrequencyDaily, models.FrequencyThreeXWeek, models.FrequencyWeekly, models.FrequencyFlexible:
			t.TargetFrequency = freq
		default:
			return fmt.Errorf("invalid frequency: %s", *c.Frequency)
		}
	}
	if c.MinSession != nil {
		t.MinSessionMinutes = *c.MinSession
	}
	if c.MaxSession != nil {
		t.MaxSessionMinutes = *c.MaxSession
	}
	if t.MaxSessionMinutes > 0 && t.MinSessionMinutes > t.MaxSessionMinutes {
		return fmt.Errorf("min-session exceeds max-session")
	}
	if c.OneSitting != nil {
		t.IsOneSitting = *c.OneSitting
	}
	if c.Slots != nil {
		if *c.Slots == "" {
			t.PreferredTimeSlots = nil
		} else {
			var slots []models.TimeSlotBand
			for _, s := range strings.Split(*c.Slots, ",") {
				band := models.TimeSlotBand(strings.TrimSpace(strings.ToLower(s)))
				switch band {
				case models.SlotMorning, models.SlotAfternoon, models.SlotEvening:
					slots = append(slots, band)
				default:
					return fmt.Errorf("invalid time slot band: %s", s)
				}
			}
			t.PreferredTimeSlots = slots
		}
	}

	if err := ctx.Store.UpdateTask(t); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	fmt.Printf("Task updated: %s\n", t.Title)
	return nil
}
