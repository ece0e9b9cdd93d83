package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kmosley/taskplan/internal/cli"
	"github.com/kmosley/taskplan/internal/models"
)

type AddCmd struct {
	Title    string `arg:"" help:"Task title."`
	Category string `help:"Category label."`

	Minutes      int    `short:"m" required:"" help:"Estimated total minutes of work."`
	Deadline     string `short:"d" help:"Deadline date (YYYY-MM-DD)."`
	DeadlineType string `help:"Deadline strictness: hard|soft|none." default:"none"`
	Important    bool   `help:"Mark the task important."`

	Frequency                   string `help:"Target spread: daily|3x-week|weekly|flexible." default:"flexible"`
	RespectFrequencyForDeadline bool   `name:"respect-frequency-for-deadline" help:"Keep the target frequency even as the deadline approaches."`

	MinSession int  `name:"min-session" help:"Minimum session length in minutes."`
	MaxSession int  `name:"max-session" help:"Maximum session length in minutes."`
	OneSitting bool `name:"one-sitting" help:"Require the whole task to be scheduled in a single session."`

	Start string `help:"Earliest date eligible for scheduling (YYYY-MM-DD or 'today')." default:"today"`
	Slots string `help:"Comma-separated preferred time bands: morning,afternoon,evening."`
}

func (c *AddCmd) Validate() error {
	if c.Minutes <= 0 {
		return fmt.Errorf("minutes must be positive")
	}
	switch models.DeadlineType(c.DeadlineType) {
	case models.DeadlineHard, models.DeadlineSoft, models.DeadlineNone:
	default:
		return fmt.Errorf("invalid deadline type: %s", c.DeadlineType)
	}
	switch models.TargetFrequency(c.Frequency) {
	case models.FrequencyDaily, models.FrequencyThreeXWeek, models.FrequencyWeekly, models.FrequencyFlexible:
	default:
		return fmt.Errorf("invalid frequency: %s", c.Frequency)
	}
	if c.MinSession > 0 && c.MaxSession > 0 && c.MinSession > c.MaxSession {
		return fmt.Errorf("min-session exceeds max-session")
	}
	return nil
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	startDate, err := cli.ResolveDate(c.Start)
	if err != nil {
		return err
	}

	var deadline string
	if c.Deadline != "" {
		deadline, err = cli.ResolveDate(c.Deadline)
		if err != nil {
			return err
		}
	}

	var slots []models.TimeSlotBand
	if c.Slots != "" {
		for _, s := range strings.Split(c.Slots, ",") {
			band := models.TimeSlotBand(strings.TrimSpace(strings.ToLower(s)))
			switch band {
			case models.SlotMorning, models.SlotAfternoon, models.SlotEvening:
				slots = append(slots, band)
			default:
				return fmt.Errorf("invalid time slot band: %s", s)
			}
		}
	}

	t := models.Task{
		ID:                           uuid.NewString(),
		Title:                        c.Title,
		Category:                     c.Category,
		EstimatedMinutes:             c.Minutes,
		Deadline:                     deadline,
		DeadlineType:                 models.DeadlineType(c.DeadlineType),
		Importance:                   c.Important,
		Status:                       models.TaskPending,
		TargetFrequency:              models.TargetFrequency(c.Frequency),
		RespectFrequencyForDeadlines: c.RespectFrequencyForDeadline,
		MinSessionMinutes:            c.MinSession,
		MaxSessionMinutes:            c.MaxSession,
		IsOneSitting:                 c.OneSitting,
		StartDate:                    startDate,
		PreferredTimeSlots:           slots,
		CreatedAt:                    time.Now().UTC().Format(time.RFC3339),
	}

	if err := ctx.Store.AddTask(t); err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}

	fmt.Printf("Added task: %s (ID: %s)\n", t.Title, t.ID)
	return nil
}
