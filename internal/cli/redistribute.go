package cli

import (
	"fmt"

	"github.com/kmosley/taskplan/internal/planner"
)

// RedistributeCmd reflows missed and newly-unschedulable work across the
// affected tasks' plans without touching sessions outside them.
type RedistributeCmd struct {
	Today string `arg:"" default:"today" help:"Date to redistribute from (YYYY-MM-DD or 'today')."`
}

func (c *RedistributeCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	today, err := ResolveDate(c.Today)
	if err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	tasks, err := ctx.Store.GetAllTasks()
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}
	commitments, err := ctx.Store.GetAllCommitments()
	if err != nil {
		return fmt.Errorf("failed to get commitments: %w", err)
	}
	plans, err := ctx.Store.GetAllPlans()
	if err != nil {
		return fmt.Errorf("failed to get plans: %w", err)
	}

	updated, report, err := planner.Redistribute(plans, tasks, settings, commitments, today)
	if err != nil {
		return fmt.Errorf("failed to redistribute: %w", err)
	}

	for _, p := range updated {
		if err := ctx.Store.SavePlan(p); err != nil {
			return fmt.Errorf("failed to save plan for %s: %w", p.Date, err)
		}
	}
	if err := ctx.Store.AppendRedistributionLog(report.RemovedSessions); err != nil {
		return fmt.Errorf("failed to append redistribution log: %w", err)
	}

	fmt.Printf("Redistributed %d session(s) across %d plan day(s).\n", len(report.RemovedSessions), len(updated))
	if len(report.Failures) > 0 {
		fmt.Printf("%d task(s) still have unscheduled work after redistribution:\n", len(report.Failures))
		for _, f := range report.Failures {
			fmt.Printf("  - %s: %d min remaining (%s)\n", f.TaskTitle, f.RemainingMinutes, f.Urgency)
		}
	}
	return nil
}
