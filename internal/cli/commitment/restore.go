package commitment

import (
	"fmt"

	"github.com/kmosley/taskplan/internal/cli"
)

type RestoreCmd struct {
	ID string `arg:"" help:"Commitment ID to restore."`
}

func (c *RestoreCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.RestoreCommitment(c.ID); err != nil {
		return fmt.Errorf("failed to restore commitment: %w", err)
	}

	fmt.Printf("Restored commitment with ID: %s\n", c.ID)
	return nil
}
