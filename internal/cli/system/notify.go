package system

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kmosley/taskplan/internal/alerts"
	"github.com/kmosley/taskplan/internal/cli"
	"github.com/kmosley/taskplan/internal/models"
)

// NotifyCmd scans pending tasks for deadline risk and dispatches alerts for
// any that cross the eligible-workday threshold.
type NotifyCmd struct {
	DryRun     bool   `help:"Print alerts to stdout instead of dispatching them."`
	WebhookURL string `name:"webhook-url" help:"Webhook endpoint to POST alerts to. Falls back to TASKPLAN_WEBHOOK_URL."`
	Threshold  int    `help:"Eligible workdays remaining before a hard deadline triggers an alert." default:"3"`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
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

	today := time.Now().Format("2006-01-02")

	threshold := c.Threshold
	if threshold <= 0 {
		threshold = alerts.DefaultThreshold
	}

	risky, err := alerts.ScanDeadlineRisk(tasks, settings, today, threshold)
	if err != nil {
		return fmt.Errorf("failed to scan for deadline risk: %w", err)
	}

	if len(risky) == 0 {
		fmt.Println("No deadline-risk alerts to raise.")
		return nil
	}

	var sink alerts.Sink
	webhookURL := c.WebhookURL
	if webhookURL == "" {
		webhookURL = os.Getenv("TASKPLAN_WEBHOOK_URL")
	}
	if webhookURL != "" && !c.DryRun {
		sink = alerts.NewWebhookSink(webhookURL, os.Getenv("TASKPLAN_WEBHOOK_SECRET"))
	}

	dispatcher := alerts.NewDispatcher(sink)
	ctxBg := context.Background()

	raised := 0
	for _, a := range risky {
		existing, err := ctx.Store.GetAlertsForTask(a.TaskID)
		if err != nil {
			return fmt.Errorf("failed to check existing alerts for task %s: %w", a.TaskID, err)
		}
		if alreadyRaisedToday(existing, today) {
			continue
		}

		if c.DryRun || sink == nil {
			fmt.Printf("[DryRun] %s\n", a.Message)
		} else if err := dispatcher.Dispatch(ctxBg, a); err != nil {
			fmt.Fprintf(os.Stderr, "failed to dispatch alert for task %s: %v\n", a.TaskID, err)
			continue
		}

		if err := ctx.Store.AddAlert(a); err != nil {
			return fmt.Errorf("failed to record alert for task %s: %w", a.TaskID, err)
		}
		raised++
	}

	fmt.Printf("Raised %d deadline-risk alert(s).\n", raised)
	return nil
}

func alreadyRaisedToday(existing []models.Alert, today string) bool {
	for _, a := range existing {
		if strings.EqualFold(a.Date, today) {
			return true
		}
	}
	return false
}
