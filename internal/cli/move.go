package cli

import (
	"fmt"
	"time"

	"github.com/kmosley/taskplan/internal/planner"
)

// MoveCmd relocates a single scheduled session within its own date to a
// new start time, snapping to the nearest open slot if the exact target is
// unavailable. Cross-day moves are rejected; use redistribute for that.
type MoveCmd struct {
	TaskID        string `arg:"" help:"Task ID of the session to move."`
	SessionNumber int    `arg:"" help:"Session number within its plan date."`
	Date          string `arg:"" help:"Plan date the session currently lives on (YYYY-MM-DD)."`
	Target        string `arg:"" help:"New target start time (HH:MM)."`
}

func (c *MoveCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	date, err := ResolveDate(c.Date)
	if err != nil {
		return err
	}
	targetStart, err := ParseTimeToMinutes(c.Target)
	if err != nil {
		return fmt.Errorf("invalid target time: %w", err)
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

	updated, result, err := planner.MoveSession(plans, commitments, settings, date, c.TaskID, c.SessionNumber, date, targetStart, time.Now())
	if err != nil {
		return fmt.Errorf("failed to move session: %w", err)
	}

	for _, p := range updated {
		if p.Date == date {
			if err := ctx.Store.SavePlan(p); err != nil {
				return fmt.Errorf("failed to save plan: %w", err)
			}
			break
		}
	}

	switch result {
	case planner.MoveExact:
		fmt.Printf("Moved session to %s.\n", c.Target)
	case planner.MoveSnapped:
		fmt.Printf("Moved session, snapped to the nearest valid grid slot near %s.\n", c.Target)
	case planner.MoveNearest:
		fmt.Printf("Moved session to the nearest open slot since %s was unavailable.\n", c.Target)
	}
	return nil
}
