package commitment

import (
	"fmt"

	"github.com/kmosley/taskplan/internal/cli"
)

type DeleteCmd struct {
	ID string `arg:"" help:"Commitment ID to delete."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	fc, err := ctx.Store.GetCommitment(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find commitment with ID %s: %w", c.ID, err)
	}

	if err := ctx.Store.DeleteCommitment(c.ID); err != nil {
		return fmt.Errorf("failed to delete commitment: %w", err)
	}

	fmt.Printf("Deleted commitment: %s (ID: %s)\n", fc.Title, c.ID)
	return nil
}
