package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/limphasa/schemectl/pkg/api"
	"github.com/limphasa/schemectl/pkg/policy"
	"github.com/limphasa/schemectl/pkg/scheme"
)

func newAttendanceCommand(app *App) *Command {
	cmd := &Command{
		Name:        "attendance",
		Description: "Record and review activity attendance",
		Subcommands: make(map[string]*Command),
		Flags:       flag.NewFlagSet("attendance", flag.ExitOnError),
	}

	cmd.Subcommands["list"] = newAttendanceListCommand(app)
	cmd.Subcommands["record"] = newAttendanceRecordCommand(app)
	cmd.Subcommands["stats"] = newAttendanceStatsCommand(app)
	cmd.Subcommands["reset-penalties"] = newResetPenaltiesCommand(app)

	return cmd
}

func newAttendanceListCommand(app *App) *Command {
	cmd := &Command{
		Name:        "list",
		Description: "List attendance records",
		Flags:       flag.NewFlagSet("attendance list", flag.ExitOnError),
	}

	block := cmd.Flags.Int64("block", 0, "Filter by block ID")
	section := cmd.Flags.Int64("section", 0, "Filter by section ID")
	status := cmd.Flags.String("status", "", "Filter by status")
	date := cmd.Flags.String("date", "", "Filter by date (YYYY-MM-DD)")
	page := cmd.Flags.Int("page", 0, "Page number")

	cmd.Run = func(ctx context.Context, args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if err := app.requireView(policy.ViewAttendance); err != nil {
			return err
		}
		result, err := app.Services.Attendance.List(ctx, api.AttendanceFilter{
			Block:   *block,
			Section: *section,
			Status:  scheme.AttendanceStatus(*status),
			Date:    *date,
			Page:    *page,
		})
		if err != nil {
			return err
		}
		return app.printJSON(result)
	}

	return cmd
}

func newAttendanceRecordCommand(app *App) *Command {
	cmd := &Command{
		Name:        "record",
		Description: "Record a farmer's attendance at an activity",
		Flags:       flag.NewFlagSet("attendance record", flag.ExitOnError),
	}

	farmer := cmd.Flags.Int64("farmer", 0, "Farmer ID")
	date := cmd.Flags.String("date", "", "Activity date (YYYY-MM-DD)")
	activity := cmd.Flags.String("activity", "", "Activity type")
	status := cmd.Flags.String("status", "", "Status (present, absent, late, excused)")
	comment := cmd.Flags.String("comment", "", "Comment")
	penalty := cmd.Flags.Int64("penalty", 0, "Penalty points (absences only)")

	cmd.Run = func(ctx context.Context, args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if err := app.requireView(policy.ViewAttendance); err != nil {
			return err
		}
		record, err := app.Services.Attendance.Record(ctx, api.AttendanceDraft{
			Farmer:         *farmer,
			Date:           *date,
			AttendanceType: *activity,
			Status:         scheme.AttendanceStatus(*status),
			Comment:        *comment,
			PenaltyPoints:  *penalty,
		})
		if err != nil {
			return err
		}
		return app.printJSON(record)
	}

	return cmd
}

func newAttendanceStatsCommand(app *App) *Command {
	cmd := &Command{
		Name:        "stats",
		Description: "Show attendance totals",
		Flags:       flag.NewFlagSet("attendance stats", flag.ExitOnError),
	}

	block := cmd.Flags.Int64("block", 0, "Restrict to one block")

	cmd.Run = func(ctx context.Context, args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if err := app.requireView(policy.ViewAttendance); err != nil {
			return err
		}
		stats, err := app.Services.Attendance.Stats(ctx, *block)
		if err != nil {
			return err
		}
		return app.printJSON(stats)
	}

	return cmd
}

func newResetPenaltiesCommand(app *App) *Command {
	cmd := &Command{
		Name:        "reset-penalties",
		Description: "Clear a farmer's accumulated penalty points",
		Flags:       flag.NewFlagSet("attendance reset-penalties", flag.ExitOnError),
	}

	farmer := cmd.Flags.Int64("farmer", 0, "Farmer ID")

	cmd.Run = func(ctx context.Context, args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if err := app.requireView(policy.ViewAttendance); err != nil {
			return err
		}
		if *farmer == 0 {
			return fmt.Errorf("farmer is required")
		}
		if err := app.Services.Attendance.ResetPenalties(ctx, *farmer); err != nil {
			return err
		}
		fmt.Fprintf(app.Out, "Reset penalties for farmer %d\n", *farmer)
		return nil
	}

	return cmd
}
