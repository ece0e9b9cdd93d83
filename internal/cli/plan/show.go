package plan

import (
	"fmt"

	"github.com/kmosley/taskplan/internal/cli"
)

type ShowCmd struct {
	Date string `arg:"" default:"today" help:"Date to show (YYYY-MM-DD or 'today')."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	date, err := cli.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	p, err := ctx.Store.GetPlan(date)
	if err != nil {
		return fmt.Errorf("failed to get plan: %w", err)
	}

	if p.IsEmpty() {
		fmt.Printf("No plan for %s.\n", date)
		return nil
	}

	fmt.Printf("Plan for %s (%d min scheduled):\n\n", date, p.TotalScheduledMinutes)
	for _, s := range p.PlannedTasks {
		task, err := ctx.Store.GetTask(s.TaskID)
		title := s.TaskID
		if err == nil {
			title = task.Title
		}
		fmt.Printf("%s-%s  #%d  %-30s  %5d min  %s\n", s.StartTime, s.EndTime, s.SessionNumber, title, s.AllocatedMinutes, s.Status)
	}
	return nil
}
