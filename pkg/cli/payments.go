package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/limphasa/schemectl/pkg/api"
	"github.com/limphasa/schemectl/pkg/policy"
)

func newPaymentsCommand(app *App) *Command {
	cmd := &Command{
		Name:        "payments",
		Description: "Record and verify payments",
		Subcommands: make(map[string]*Command),
		Flags:       flag.NewFlagSet("payments", flag.ExitOnError),
	}

	cmd.Subcommands["list"] = newPaymentsListCommand(app)
	cmd.Subcommands["record"] = newPaymentsRecordCommand(app)
	cmd.Subcommands["verify"] = newPaymentsVerifyCommand(app)
	cmd.Subcommands["stats"] = newPaymentsStatsCommand(app)

	return cmd
}

func newPaymentsListCommand(app *App) *Command {
	cmd := &Command{
		Name:        "list",
		Description: "List payments",
		Flags:       flag.NewFlagSet("payments list", flag.ExitOnError),
	}

	farmer := cmd.Flags.Int64("farmer", 0, "Filter by farmer ID")
	paymentType := cmd.Flags.String("type", "", "Filter by payment type")
	method := cmd.Flags.String("method", "", "Filter by payment method")
	search := cmd.Flags.String("search", "", "Search text")
	page := cmd.Flags.Int("page", 0, "Page number")

	cmd.Run = func(ctx context.Context, args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if err := app.requireView(policy.ViewPayments); err != nil {
			return err
		}
		result, err := app.Services.Payments.List(ctx, api.PaymentFilter{
			Farmer:      *farmer,
			PaymentType: *paymentType,
			Method:      *method,
			Search:      *search,
			Page:        *page,
		})
		if err != nil {
			return err
		}
		return app.printJSON(result)
	}

	return cmd
}

func newPaymentsRecordCommand(app *App) *Command {
	cmd := &Command{
		Name:        "record",
		Description: "Record a payment from a farmer",
		Flags:       flag.NewFlagSet("payments record", flag.ExitOnError),
	}

	farmer := cmd.Flags.Int64("farmer", 0, "Farmer ID")
	amount := cmd.Flags.Float64("amount", 0, "Amount paid")
	paymentType := cmd.Flags.String("type", "", "Payment type (plot_fee, fine, contribution, other)")
	description := cmd.Flags.String("description", "", "What the payment covers")
	datePaid := cmd.Flags.String("date", "", "Date paid (YYYY-MM-DD)")
	method := cmd.Flags.String("method", "", "Method (cash, airtel, tnm, bank, other)")
	reference := cmd.Flags.String("reference", "", "Transaction reference code")
	notes := cmd.Flags.String("notes", "", "Notes")
	receipt := cmd.Flags.String("receipt", "", "Path to a receipt image to attach")

	cmd.Run = func(ctx context.Context, args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if err := app.requireView(policy.ViewPayments); err != nil {
			return err
		}

		draft := api.PaymentDraft{
			Farmer:        *farmer,
			Amount:        *amount,
			PaymentType:   *paymentType,
			Description:   *description,
			DatePaid:      *datePaid,
			Method:        *method,
			ReferenceCode: *reference,
			Notes:         *notes,
		}

		var file *api.FileField
		if *receipt != "" {
			f, err := os.Open(*receipt)
			if err != nil {
				return fmt.Errorf("failed to open receipt: %w", err)
			}
			defer f.Close()
			file = &api.FileField{Field: "receipt", Name: filepath.Base(*receipt), Content: f}
		}

		payment, err := app.Services.Payments.Create(ctx, draft, file)
		if err != nil {
			return err
		}
		return app.printJSON(payment)
	}

	return cmd
}

func newPaymentsVerifyCommand(app *App) *Command {
	cmd := &Command{
		Name:        "verify",
		Description: "Mark a payment as verified",
		Flags:       flag.NewFlagSet("payments verify", flag.ExitOnError),
	}

	id := cmd.Flags.Int64("id", 0, "Payment ID")

	cmd.Run = func(ctx context.Context, args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if err := app.requireView(policy.ViewPayments); err != nil {
			return err
		}
		if *id == 0 {
			return fmt.Errorf("id is required")
		}
		payment, err := app.Services.Payments.Verify(ctx, *id)
		if err != nil {
			return err
		}
		return app.printJSON(payment)
	}

	return cmd
}

func newPaymentsStatsCommand(app *App) *Command {
	return &Command{
		Name:        "stats",
		Description: "Show payment totals",
		Flags:       flag.NewFlagSet("payments stats", flag.ExitOnError),
		Run: func(ctx context.Context, args []string) error {
			if err := app.requireView(policy.ViewPayments); err != nil {
				return err
			}
			stats, err := app.Services.Payments.Stats(ctx)
			if err != nil {
				return err
			}
			return app.printJSON(stats)
		},
	}
}
