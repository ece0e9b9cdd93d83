package cli

import (
	"fmt"

	"github.com/kmosley/taskplan/internal/planner"
)

// CompleteCmd marks a scheduled session completed, recording the actual
// minutes spent.
type CompleteCmd struct {
	TaskID        string `arg:"" help:"Task ID of the session to complete."`
	SessionNumber int    `arg:"" help:"Session number within its plan date."`
	Date          string `arg:"" help:"Plan date the session lives on (YYYY-MM-DD)."`
	Minutes       int    `arg:"" help:"Actual minutes spent on the session."`
}

func (c *CompleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	date, err := ResolveDate(c.Date)
	if err != nil {
		return err
	}
	if c.Minutes <= 0 {
		return fmt.Errorf("minutes must be positive")
	}

	plans, err := ctx.Store.GetAllPlans()
	if err != nil {
		return fmt.Errorf("failed to get plans: %w", err)
	}

	updated, err := planner.MarkCompleted(plans, date, c.TaskID, c.SessionNumber, c.Minutes)
	if err != nil {
		return fmt.Errorf("failed to mark session completed: %w", err)
	}

	for _, p := range updated {
		if p.Date == date {
			if err := ctx.Store.SavePlan(p); err != nil {
				return fmt.Errorf("failed to save plan: %w", err)
			}
			break
		}
	}

	fmt.Printf("Completed session #%d for task %s on %s (%d min).\n", c.SessionNumber, c.TaskID, date, c.Minutes)
	return nil
}
