package commitment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kmosley/taskplan/internal/cli"
	"github.com/kmosley/taskplan/internal/constants"
	"github.com/kmosley/taskplan/internal/models"
)

type AddCmd struct {
	Title    string `arg:"" help:"Commitment title."`
	Category string `help:"Category label."`

	Recurring bool   `help:"Recurring on a weekly day-of-week schedule instead of specific dates."`
	Weekdays  string `help:"Comma-separated days of week (required when --recurring)."`

	RangeStart string `name:"range-start" help:"Date range start (YYYY-MM-DD), recurring only."`
	RangeEnd   string `name:"range-end" help:"Date range end (YYYY-MM-DD), recurring only."`

	Dates string `help:"Comma-separated specific dates (YYYY-MM-DD), required when not --recurring."`

	Start string `short:"s" help:"Start time (HH:MM)."`
	End   string `short:"e" help:"End time (HH:MM)."`
	AllDay bool  `name:"all-day" help:"Block the whole day instead of a time range."`

	CountsTowardDailyHours bool `name:"counts-toward-daily-hours" help:"Count this commitment's time against the daily available minutes."`
}

func (c *AddCmd) Validate() error {
	if c.Recurring && c.Weekdays == "" {
		return fmt.Errorf("--weekdays is required for a recurring commitment")
	}
	if !c.Recurring && c.Dates == "" {
		return fmt.Errorf("--dates is required for a non-recurring commitment")
	}
	if !c.AllDay && (c.Start == "" || c.End == "") {
		return fmt.Errorf("--start and --end are required unless --all-day is set")
	}
	return nil
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	fc := models.FixedCommitment{
		ID:                     uuid.NewString(),
		Title:                  c.Title,
		Category:               c.Category,
		Recurring:              c.Recurring,
		IsAllDay:               c.AllDay,
		CountsTowardDailyHours: c.CountsTowardDailyHours,
	}

	if !c.AllDay {
		if _, err := time.Parse(constants.TimeFormat, c.Start); err != nil {
			return fmt.Errorf("invalid start time: %w", err)
		}
		if _, err := time.Parse(constants.TimeFormat, c.End); err != nil {
			return fmt.Errorf("invalid end time: %w", err)
		}
		fc.StartTime = c.Start
		fc.EndTime = c.End
	}

	if c.Recurring {
		weekdays, err := cli.ParseWeekdays(c.Weekdays)
		if err != nil {
			return err
		}
		fc.DaysOfWeek = weekdays

		if c.RangeStart != "" || c.RangeEnd != "" {
			var start, end string
			if c.RangeStart != "" {
				start, err = cli.ResolveDate(c.RangeStart)
				if err != nil {
					return err
				}
			}
			if c.RangeEnd != "" {
				end, err = cli.ResolveDate(c.RangeEnd)
				if err != nil {
					return err
				}
			}
			fc.DateRange = &models.DateRange{Start: start, End: end}
		}
	} else {
		var dates []string
		for _, d := range strings.Split(c.Dates, ",") {
			date, err := cli.ResolveDate(strings.TrimSpace(d))
			if err != nil {
				return err
			}
			dates = append(dates, date)
		}
		fc.SpecificDates = dates
	}

	if err := ctx.Store.AddCommitment(fc); err != nil {
		return fmt.Errorf("failed to add commitment: %w", err)
	}

	fmt.Printf("Added commitment: %s (ID: %s)\n", fc.Title, fc.ID)
	return nil
}
