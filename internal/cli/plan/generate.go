package plan

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/kmosley/taskplan/internal/alerts"
	"github.com/kmosley/taskplan/internal/cli"
	"github.com/kmosley/taskplan/internal/models"
	"github.com/kmosley/taskplan/internal/planner"
)

type GenerateCmd struct {
	Today string `arg:"" default:"today" help:"Anchor date to plan from (YYYY-MM-DD or 'today')."`
	Force bool   `help:"Regenerate without confirming when a plan already exists for the anchor date."`
}

func (c *GenerateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	today, err := cli.ResolveDate(c.Today)
	if err != nil {
		return err
	}

	if !c.Force {
		if existing, err := ctx.Store.GetPlan(today); err == nil && !existing.IsEmpty() {
			fmt.Printf("A plan already exists for %s. Regenerating will replace scheduled sessions with new ones.\n", today)
			fmt.Print("Continue? [y/N]: ")
			reader := bufio.NewReader(os.Stdin)
			response, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				fmt.Println("Plan generation cancelled.")
				return nil
			}
		}
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

	plans, report, err := planner.GenerateInitialPlan(tasks, settings, commitments, today)
	if err != nil {
		return fmt.Errorf("failed to generate plan: %w", err)
	}

	for _, p := range plans {
		if err := ctx.Store.SavePlan(p); err != nil {
			return fmt.Errorf("failed to save plan for %s: %w", p.Date, err)
		}
	}

	if err := saveDigest(ctx, today, report); err != nil {
		return fmt.Errorf("failed to save unscheduled digest: %w", err)
	}

	if err := raiseDeadlineAlerts(ctx, tasks, settings, today); err != nil {
		return fmt.Errorf("failed to scan deadline risk: %w", err)
	}

	fmt.Printf("Generated %d plan day(s) starting %s.\n", len(plans), today)
	if total := report.TotalUnscheduledMinutes(); total > 0 {
		fmt.Printf("%d minute(s) across %d task(s) could not be scheduled:\n", total, len(report.Entries))
		for _, entry := range report.Entries {
			fmt.Printf("  - %s: %d min remaining (%s)\n", entry.TaskTitle, entry.RemainingMinutes, entry.Urgency)
		}
	}
	return nil
}

func saveDigest(ctx *cli.Context, day string, report models.UnscheduledReport) error {
	digest := models.UnscheduledDigest{
		Day:                     day,
		TotalUnscheduledMinutes: report.TotalUnscheduledMinutes(),
		Urgency:                 worstUrgency(report.Entries),
		Remedies:                uniqueRemedies(report.Entries),
	}
	return ctx.Store.SaveUnscheduledDigest(digest)
}

func worstUrgency(entries []models.UnscheduledEntry) models.Urgency {
	rank := map[models.Urgency]int{
		models.UrgencyLow:      0,
		models.UrgencyMedium:   1,
		models.UrgencyHigh:     2,
		models.UrgencyCritical: 3,
	}
	worst := models.Urgency("")
	best := -1
	for _, e := range entries {
		if r := rank[e.Urgency]; r > best {
			best = r
			worst = e.Urgency
		}
	}
	return worst
}

func uniqueRemedies(entries []models.UnscheduledEntry) []models.Remedy {
	seen := make(map[models.Remedy]bool)
	var out []models.Remedy
	for _, e := range entries {
		for _, r := range e.Remedies {
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
	}
	return out
}

func raiseDeadlineAlerts(ctx *cli.Context, tasks []models.Task, settings models.UserSettings, today string) error {
	risky, err := alerts.ScanDeadlineRisk(tasks, settings, today, alerts.DefaultThreshold)
	if err != nil {
		return err
	}
	for _, a := range risky {
		existing, err := ctx.Store.GetAlertsForTask(a.TaskID)
		if err != nil {
			return err
		}
		if alreadyRaisedToday(existing, today) {
			continue
		}
		if err := ctx.Store.AddAlert(a); err != nil {
			return err
		}
	}
	return nil
}

func alreadyRaisedToday(existing []models.Alert, today string) bool {
	for _, a := range existing {
		if a.Date == today {
			return true
		}
	}
	return false
}
