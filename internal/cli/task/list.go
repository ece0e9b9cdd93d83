package task

import (
	"fmt"

	"github.com/kmosley/taskplan/internal/cli"
	"github.com/kmosley/taskplan/internal/models"
)

type ListCmd struct {
	IncludeDeleted bool `name:"include-deleted" help:"Include soft-deleted tasks."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	var (
		tasks []models.Task
		err   error
	)
	if c.IncludeDeleted {
		tasks, err = ctx.Store.GetAllTasksIncludingDeleted()
	} else {
		tasks, err = ctx.Store.GetAllTasks()
	}
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	for _, t := range tasks {
		deadline := "none"
		if t.HasDeadline() {
			deadline = fmt.Sprintf("%s (%s)", t.Deadline, t.DeadlineType)
		}
		marker := ""
		if t.IsDeleted() {
			marker = " [deleted]"
		}
		fmt.Printf("%s  %-30s  %5d min  deadline=%-20s  status=%s%s\n",
			t.ID, t.Title, t.EstimatedMinutes, deadline, t.Status, marker)
	}
	return nil
}
