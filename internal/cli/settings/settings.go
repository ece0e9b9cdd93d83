// Package settings implements the settings get/set subcommands over the
// singleton UserSettings planning configuration.
package settings

import (
	"fmt"
	"strings"
	"time"

	"github.com/kmosley/taskplan/internal/cli"
	"github.com/kmosley/taskplan/internal/models"
)

type GetCmd struct{}

func (c *GetCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	fmt.Println("Current settings:")
	fmt.Printf("  Daily available minutes:        %d\n", s.DailyAvailableMinutes)
	fmt.Printf("  Work days:                      %s\n", formatWeekdays(s.WorkDays))
	fmt.Printf("  Study window:                    %s - %s\n", formatMinute(s.StudyWindowStartMinute), formatMinute(s.StudyWindowEndMinute))
	fmt.Printf("  Buffer between sessions:        %d min\n", s.BufferBetweenSessionsMinutes)
	fmt.Printf("  Buffer days before deadline:     %d\n", s.BufferDaysBeforeDeadline)
	fmt.Printf("  Minimum session length:          %d min\n", s.MinSessionMinutes)
	fmt.Printf("  Study plan mode:                 %s\n", s.StudyPlanMode)
	return nil
}

type SetCmd struct {
	DailyAvailableMinutes *int    `name:"daily-available-minutes" help:"Total minutes available for scheduled work per day."`
	WorkDays              *string `name:"work-days" help:"Comma-separated work days."`
	StudyWindowStart      *string `name:"study-window-start" help:"Study window start time (HH:MM)."`
	StudyWindowEnd        *string `name:"study-window-end" help:"Study window end time (HH:MM)."`
	BufferBetweenSessions *int    `name:"buffer-between-sessions" help:"Minutes required between two sessions."`
	BufferBeforeDeadline  *int    `name:"buffer-before-deadline" help:"Days of slack to keep before a hard deadline."`
	MinSessionMinutes     *int    `name:"min-session-minutes" help:"Minimum length of a single session."`
	Mode                  *string `help:"Study plan mode: even|front-loaded|balanced."`
}

func (c *SetCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	changed := false

	if c.DailyAvailableMinutes != nil {
		if *c.DailyAvailableMinutes <= 0 {
			return fmt.Errorf("daily-available-minutes must be positive")
		}
		s.DailyAvailableMinutes = *c.DailyAvailableMinutes
		changed = true
	}
	if c.WorkDays != nil {
		weekdays, err := cli.ParseWeekdays(*c.WorkDays)
		if err != nil {
			return err
		}
		s.WorkDays = weekdays
		changed = true
	}
	if c.StudyWindowStart != nil {
		m, err := cli.ParseTimeToMinutes(*c.StudyWindowStart)
		if err != nil {
			return fmt.Errorf("invalid study-window-start: %w", err)
		}
		s.StudyWindowStartMinute = m
		changed = true
	}
	if c.StudyWindowEnd != nil {
		m, err := cli.ParseTimeToMinutes(*c.StudyWindowEnd)
		if err != nil {
			return fmt.Errorf("invalid study-window-end: %w", err)
		}
		s.StudyWindowEndMinute = m
		changed = true
	}
	if s.StudyWindowEndMinute <= s.StudyWindowStartMinute {
		return fmt.Errorf("study-window-end must be after study-window-start")
	}
	if c.BufferBetweenSessions != nil {
		if *c.BufferBetweenSessions < 0 {
			return fmt.Errorf("buffer-between-sessions must not be negative")
		}
		s.BufferBetweenSessionsMinutes = *c.BufferBetweenSessions
		changed = true
	}
	if c.BufferBeforeDeadline != nil {
		if *c.BufferBeforeDeadline < 0 {
			return fmt.Errorf("buffer-before-deadline must not be negative")
		}
		s.BufferDaysBeforeDeadline = *c.BufferBeforeDeadline
		changed = true
	}
	if c.MinSessionMinutes != nil {
		if *c.MinSessionMinutes <= 0 {
			return fmt.Errorf("min-session-minutes must be positive")
		}
		s.MinSessionMinutes = *c.MinSessionMinutes
		changed = true
	}
	if c.Mode != nil {
		mode := models.StudyPlanMode(*c.Mode)
		switch mode {
		case models.ModeEven, models.ModeFrontLoaded, models.ModeBalanced:
			s.StudyPlanMode = mode
			changed = true
		default:
			return fmt.Errorf("invalid study plan mode: %s", *c.Mode)
		}
	}

	if !changed {
		fmt.Println("No changes specified. Use 'settings get' to view current settings.")
		return nil
	}

	if err := ctx.Store.SaveSettings(s); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Println("Settings updated successfully.")
	return nil
}

func formatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func formatWeekdays(days []time.Weekday) string {
	var names []string
	for _, d := range days {
		names = append(names, d.String())
	}
	return strings.Join(names, ", ")
}
