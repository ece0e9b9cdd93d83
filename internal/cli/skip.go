package cli

import (
	"fmt"
	"time"

	"github.com/kmosley/taskplan/internal/planner"
)

// SkipCmd marks a scheduled session skipped. A full skip drops the whole
// session; a partial skip places the remainder later the same day if it
// fits, else on the first of the given later dates that has room, and
// records it as a failed session when none does.
type SkipCmd struct {
	TaskID        string `arg:"" help:"Task ID of the session to skip."`
	SessionNumber int    `arg:"" help:"Session number within its plan date."`
	Date          string `arg:"" help:"Plan date the session lives on (YYYY-MM-DD)."`

	Partial        int      `help:"Minutes actually completed before skipping the rest. Zero means a full skip."`
	Reason         string   `help:"Reason for skipping."`
	LaterDates     []string `help:"Candidate dates to place the remainder on, in preference order." name:"later-date"`
}

func (c *SkipCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	date, err := ResolveDate(c.Date)
	if err != nil {
		return err
	}

	mode := planner.SkipFull
	if c.Partial > 0 {
		mode = planner.SkipPartial
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	commitments, err := ctx.Store.GetAllCommitments()
	if err != nil {
		return fmt.Errorf("failed to get commitments: %w", err)
	}
	plans, err := ctx.Store.GetAllPlans()
	if err != nil {
		return fmt.Errorf("failed to get plans: %w", err)
	}

	updated, err := planner.SkipSession(plans, date, c.TaskID, c.SessionNumber, mode, c.Partial, c.Reason, commitments, settings, c.LaterDates, time.Now())
	if err != nil {
		return fmt.Errorf("failed to skip session: %w", err)
	}

	for _, p := range updated {
		if err := ctx.Store.SavePlan(p); err != nil {
			return fmt.Errorf("failed to save plan for %s: %w", p.Date, err)
		}
	}

	fmt.Printf("Skipped session #%d for task %s on %s.\n", c.SessionNumber, c.TaskID, date)
	return nil
}
