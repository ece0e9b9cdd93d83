package commitment

import (
	"fmt"

	"github.com/kmosley/taskplan/internal/cli"
	"github.com/kmosley/taskplan/internal/models"
)

type ListCmd struct {
	IncludeDeleted bool `name:"include-deleted" help:"Include soft-deleted commitments."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	var (
		commitments []models.FixedCommitment
		err         error
	)
	if c.IncludeDeleted {
		commitments, err = ctx.Store.GetAllCommitmentsIncludingDeleted()
	} else {
		commitments, err = ctx.Store.GetAllCommitments()
	}
	if err != nil {
		return fmt.Errorf("failed to list commitments: %w", err)
	}

	if len(commitments) == 0 {
		fmt.Println("No commitments found.")
		return nil
	}

	for _, fc := range commitments {
		timing := fmt.Sprintf("%s-%s", fc.StartTime, fc.EndTime)
		if fc.IsAllDay {
			timing = "all-day"
		}
		schedule := fmt.Sprintf("%d specific date(s)", len(fc.SpecificDates))
		if fc.Recurring {
			schedule = fmt.Sprintf("recurring on %v", fc.DaysOfWeek)
		}
		marker := ""
		if fc.IsDeleted() {
			marker = " [deleted]"
		}
		fmt.Printf("%s  %-30s  %-10s  %s%s\n", fc.ID, fc.Title, timing, schedule, marker)
	}
	return nil
}
