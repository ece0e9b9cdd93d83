package plan

import (
	"fmt"

	"github.com/kmosley/taskplan/internal/cli"
)

type DeleteCmd struct {
	Date string `arg:"" help:"Date of the plan to delete (YYYY-MM-DD)."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	date, err := cli.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	if err := ctx.Store.DeletePlan(date); err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}

	fmt.Printf("Deleted plan for date: %s\n", date)
	return nil
}
