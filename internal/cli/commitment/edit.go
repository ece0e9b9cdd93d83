package commitment

import (
	"fmt"
	"time"

	"github.com/kmosley/taskplan/internal/cli"
	"github.com/kmosley/taskplan/internal/constants"
)

type EditCmd struct {
	ID string `arg:"" help:"Commitment ID."`

	Title    *string `help:"New title."`
	Category *string `help:"New category."`

	Weekdays *string `help:"New comma-separated days of week (recurring only)."`

	Start  *string `help:"New start time (HH:MM)."`
	End    *string `help:"New end time (HH:MM)."`
	AllDay *bool   `name:"all-day" help:"Set all-day flag."`

	CountsTowardDailyHours *bool `name:"counts-toward-daily-hours" help:"Set whether this counts toward daily available minutes."`

	SkipDate     string `name:"skip-date" help:"Suppress a single occurrence (YYYY-MM-DD)."`
	UnskipDate   string `name:"unskip-date" help:"Restore a previously skipped occurrence (YYYY-MM-DD)."`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	fc, err := ctx.Store.GetCommitment(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find commitment: %w", err)
	}

	if c.Title != nil {
		fc.Title = *c.Title
	}
	if c.Category != nil {
		fc.Category = *c.Category
	}
	if c.Weekdays != nil {
		weekdays, err := cli.ParseWeekdays(*c.Weekdays)
		if err != nil {
			return err
		}
		fc.DaysOfWeek = weekdays
	}
	if c.AllDay != nil {
		fc.IsAllDay = *c.AllDay
	}
	if c.Start != nil {
		if _, err := time.Parse(constants.TimeFormat, *c.Start); err != nil {
			return fmt.Errorf("invalid start time: %w", err)
		}
		fc.StartTime = *c.Start
	}
	if c.End != nil {
		if _, err := time.Parse(constants.TimeFormat, *c.End); err != nil {
			return fmt.Errorf("invalid end time: %w", err)
		}
		fc.EndTime = *c.End
	}
	if c.CountsTowardDailyHours != nil {
		fc.CountsTowardDailyHours = *c.CountsTowardDailyHours
	}
	if c.SkipDate != "" {
		date, err := cli.ResolveDate(c.SkipDate)
		if err != nil {
			return err
		}
		fc.DeletedOccurrences = deleteOccurrence(fc.DeletedOccurrences, date) // de-dupe first
		fc.DeletedOccurrences = append(fc.DeletedOccurrences, date)
	}
	if c.UnskipDate != "" {
		date, err := cli.ResolveDate(c.UnskipDate)
		if err != nil {
			return err
		}
		fc.DeletedOccurrences = deleteOccurrence(fc.DeletedOccurrences, date)
	}

	if err := ctx.Store.UpdateCommitment(fc); err != nil {
		return fmt.Errorf("failed to update commitment: %w", err)
	}

	fmt.Printf("Commitment updated: %s\n", fc.Title)
	return nil
}

// deleteOccurrence returns dates with date removed, if present.
func deleteOccurrence(dates []string, date string) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		if d != date {
			out = append(out, d)
		}
	}
	return out
}
