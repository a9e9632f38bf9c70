package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/limphasa/schemectl/pkg/api"
	"github.com/limphasa/schemectl/pkg/policy"
	"github.com/limphasa/schemectl/pkg/scheme"
)

func newDisciplineCommand(app *App) *Command {
	cmd := &Command{
		Name:        "discipline",
		Description: "Manage discipline cases",
		Subcommands: make(map[string]*Command),
		Flags:       flag.NewFlagSet("discipline", flag.ExitOnError),
	}

	cmd.Subcommands["list"] = newDisciplineListCommand(app)
	cmd.Subcommands["open"] = newDisciplineOpenCommand(app)
	cmd.Subcommands["update"] = newDisciplineUpdateCommand(app)
	cmd.Subcommands["resolve"] = newDisciplineResolveCommand(app)
	cmd.Subcommands["stats"] = newDisciplineStatsCommand(app)

	return cmd
}

func newDisciplineListCommand(app *App) *Command {
	cmd := &Command{
		Name:        "list",
		Description: "List discipline cases",
		Flags:       flag.NewFlagSet("discipline list", flag.ExitOnError),
	}

	block := cmd.Flags.Int64("block", 0, "Filter by block ID")
	section := cmd.Flags.Int64("section", 0, "Filter by section ID")
	status := cmd.Flags.String("status", "", "Filter by status (open, investigating, resolved, dismissed)")
	severity := cmd.Flags.String("severity", "", "Filter by severity")
	search := cmd.Flags.String("search", "", "Search text")
	page := cmd.Flags.Int("page", 0, "Page number")

	cmd.Run = func(ctx context.Context, args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if err := app.requireView(policy.ViewDiscipline); err != nil {
			return err
		}
		result, err := app.Services.Discipline.List(ctx, api.DisciplineFilter{
			Block:    *block,
			Section:  *section,
			Status:   scheme.CaseStatus(*status),
			Severity: scheme.CaseSeverity(*severity),
			Search:   *search,
			Page:     *page,
		})
		if err != nil {
			return err
		}
		return app.printJSON(result)
	}

	return cmd
}

func newDisciplineOpenCommand(app *App) *Command {
	cmd := &Command{
		Name:        "open",
		Description: "Open a discipline case against a farmer",
		Flags:       flag.NewFlagSet("discipline open", flag.ExitOnError),
	}

	farmer := cmd.Flags.Int64("farmer", 0, "Farmer ID")
	offence := cmd.Flags.String("offence", "", "Offence type")
	description := cmd.Flags.String("description", "", "What happened")
	severity := cmd.Flags.String("severity", "", "Severity (minor, moderate, serious, critical)")
	penalty := cmd.Flags.Int64("penalty", 0, "Penalty points")
	incident := cmd.Flags.String("date", "", "Incident date (YYYY-MM-DD)")
	attachment := cmd.Flags.String("attachment", "", "Path to an evidence file to attach")

	cmd.Run = func(ctx context.Context, args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if err := app.requireView(policy.ViewDiscipline); err != nil {
			return err
		}
		var file *api.FileField
		if *attachment != "" {
			f, err := os.Open(*attachment)
			if err != nil {
				return fmt.Errorf("failed to open attachment: %w", err)
			}
			defer f.Close()
			file = &api.FileField{Field: "attachment", Name: filepath.Base(*attachment), Content: f}
		}
		opened, err := app.Services.Discipline.Create(ctx, api.CaseDraft{
			Farmer:             *farmer,
			OffenceType:        *offence,
			OffenceDescription: *description,
			Severity:           scheme.CaseSeverity(*severity),
			PenaltyPoints:      *penalty,
			DateIncident:       *incident,
		}, file)
		if err != nil {
			return err
		}
		return app.printJSON(opened)
	}

	return cmd
}

func newDisciplineUpdateCommand(app *App) *Command {
	cmd := &Command{
		Name:        "update",
		Description: "Update fields on a discipline case",
		Flags:       flag.NewFlagSet("discipline update", flag.ExitOnError),
	}

	id := cmd.Flags.Int64("id", 0, "Case ID")
	offence := cmd.Flags.String("offence", "", "Offence type")
	description := cmd.Flags.String("description", "", "What happened")
	severity := cmd.Flags.String("severity", "", "Severity (minor, moderate, serious, critical)")
	status := cmd.Flags.String("status", "", "Status (open, investigating, resolved, dismissed)")
	penalty := cmd.Flags.Int64("penalty", 0, "Penalty points")
	comment := cmd.Flags.String("comment", "", "Comment on the change")

	cmd.Run = func(ctx context.Context, args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if err := app.requireView(policy.ViewDiscipline); err != nil {
			return err
		}
		if *id == 0 {
			return fmt.Errorf("id is required")
		}
		var patch api.CasePatch
		cmd.Flags.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "offence":
				patch.OffenceType = offence
			case "description":
				patch.OffenceDescription = description
			case "severity":
				sev := scheme.CaseSeverity(*severity)
				patch.Severity = &sev
			case "status":
				st := scheme.CaseStatus(*status)
				patch.Status = &st
			case "penalty":
				patch.PenaltyPoints = penalty
			case "comment":
				patch.Comment = comment
			}
		})
		updated, err := app.Services.Discipline.Update(ctx, *id, patch)
		if err != nil {
			return err
		}
		return app.printJSON(updated)
	}

	return cmd
}

func newDisciplineResolveCommand(app *App) *Command {
	cmd := &Command{
		Name:        "resolve",
		Description: "Resolve a discipline case",
		Flags:       flag.NewFlagSet("discipline resolve", flag.ExitOnError),
	}

	id := cmd.Flags.Int64("id", 0, "Case ID")
	action := cmd.Flags.String("action", "", "Action taken")

	cmd.Run = func(ctx context.Context, args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if err := app.requireView(policy.ViewDiscipline); err != nil {
			return err
		}
		if *id == 0 {
			return fmt.Errorf("id is required")
		}
		resolved, err := app.Services.Discipline.Resolve(ctx, *id, *action)
		if err != nil {
			return err
		}
		return app.printJSON(resolved)
	}

	return cmd
}

func newDisciplineStatsCommand(app *App) *Command {
	return &Command{
		Name:        "stats",
		Description: "Show discipline case totals",
		Flags:       flag.NewFlagSet("discipline stats", flag.ExitOnError),
		Run: func(ctx context.Context, args []string) error {
			if err := app.requireView(policy.ViewDiscipline); err != nil {
				return err
			}
			stats, err := app.Services.Discipline.Stats(ctx)
			if err != nil {
				return err
			}
			return app.printJSON(stats)
		},
	}
}
