package task

import (
	"fmt"

	"github.com/kmosley/taskplan/internal/cli"
)

type DeleteCmd struct {
	ID string `arg:"" help:"Task ID to delete."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Store.GetTask(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find task with ID %s: %w", c.ID, err)
	}

	if err := ctx.Store.DeleteTask(c.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	fmt.Printf("Deleted task: %s (ID: %s)\n", t.Title, c.ID)
	return nil
}
