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

func newFarmersCommand(app *App) *Command {
	cmd := &Command{
		Name:        "farmers",
		Description: "Manage registered farmers",
		Subcommands: make(map[string]*Command),
		Flags:       flag.NewFlagSet("farmers", flag.ExitOnError),
	}

	cmd.Subcommands["list"] = newFarmersListCommand(app)
	cmd.Subcommands["create"] = newFarmersCreateCommand(app)
	cmd.Subcommands["update"] = newFarmersUpdateCommand(app)
	cmd.Subcommands["delete"] = newFarmersDeleteCommand(app)

	return cmd
}

func newFarmersListCommand(app *App) *Command {
	cmd := &Command{
		Name:        "list",
		Description: "List farmers",
		Flags:       flag.NewFlagSet("farmers list", flag.ExitOnError),
	}

	block := cmd.Flags.Int64("block", 0, "Filter by block ID")
	section := cmd.Flags.Int64("section", 0, "Filter by section ID")
	location := cmd.Flags.Int64("location", 0, "Filter by location ID")
	search := cmd.Flags.String("search", "", "Search by name or registration number")
	page := cmd.Flags.Int("page", 0, "Page number")

	cmd.Run = func(ctx context.Context, args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if err := app.requireView(policy.ViewFarmers); err != nil {
			return err
		}
		result, err := app.Services.Farmers.List(ctx, api.FarmerFilter{
			Block:    *block,
			Section:  *section,
			Location: *location,
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

func newFarmersCreateCommand(app *App) *Command {
	cmd := &Command{
		Name:        "create",
		Description: "Register a new farmer",
		Flags:       flag.NewFlagSet("farmers create", flag.ExitOnError),
	}

	firstName := cmd.Flags.String("first-name", "", "First name")
	lastName := cmd.Flags.String("last-name", "", "Last name")
	gender := cmd.Flags.String("gender", "", "Gender (male, female, other)")
	phone := cmd.Flags.String("phone", "", "Phone number")
	email := cmd.Flags.String("email", "", "Email address")
	plots := cmd.Flags.Int64("plots", 0, "Number of plots")
	amount := cmd.Flags.Float64("amount-per-plot", 0, "Fee per plot")
	location := cmd.Flags.Int64("location", 0, "Location ID")
	block := cmd.Flags.Int64("block", 0, "Block ID")
	section := cmd.Flags.Int64("section", 0, "Section ID")
	nextOfKin := cmd.Flags.String("next-of-kin", "", "Next of kin")
	photo := cmd.Flags.String("photo", "", "Path to a photo to attach")

	cmd.Run = func(ctx context.Context, args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if err := app.requireView(policy.ViewFarmers); err != nil {
			return err
		}

		draft := api.FarmerDraft{
			FirstName:     *firstName,
			LastName:      *lastName,
			Gender:        *gender,
			PhoneNumber:   *phone,
			Email:         *email,
			NumberOfPlots: *plots,
			AmountPerPlot: *amount,
			Location:      *location,
			Block:         *block,
			Section:       *section,
			NextOfKin:     *nextOfKin,
		}

		var file *api.FileField
		if *photo != "" {
			f, err := os.Open(*photo)
			if err != nil {
				return fmt.Errorf("failed to open photo: %w", err)
			}
			defer f.Close()
			file = &api.FileField{Field: "photo", Name: filepath.Base(*photo), Content: f}
		}

		farmer, err := app.Services.Farmers.Create(ctx, draft, file)
		if err != nil {
			return err
		}
		return app.printJSON(farmer)
	}

	return cmd
}

func newFarmersUpdateCommand(app *App) *Command {
	cmd := &Command{
		Name:        "update",
		Description: "Update a farmer record",
		Flags:       flag.NewFlagSet("farmers update", flag.ExitOnError),
	}

	id := cmd.Flags.Int64("id", 0, "Farmer ID")
	phone := cmd.Flags.String("phone", "", "Phone number")
	email := cmd.Flags.String("email", "", "Email address")
	plots := cmd.Flags.Int64("plots", 0, "Number of plots")
	amount := cmd.Flags.Float64("amount-per-plot", 0, "Fee per plot")
	block := cmd.Flags.Int64("block", 0, "Block ID")
	section := cmd.Flags.Int64("section", 0, "Section ID")
	active := cmd.Flags.Bool("active", true, "Whether the farmer is active")
	photo := cmd.Flags.String("photo", "", "Path to a replacement photo")

	cmd.Run = func(ctx context.Context, args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if err := app.requireView(policy.ViewFarmers); err != nil {
			return err
		}
		if *id == 0 {
			return fmt.Errorf("id is required")
		}

		if *photo != "" {
			f, err := os.Open(*photo)
			if err != nil {
				return fmt.Errorf("failed to open photo: %w", err)
			}
			defer f.Close()
			farmer, err := app.Services.Farmers.UpdatePhoto(ctx, *id,
				api.FileField{Field: "photo", Name: filepath.Base(*photo), Content: f})
			if err != nil {
				return err
			}
			return app.printJSON(farmer)
		}

		// Only flags the caller actually passed become part of the patch
		var patch api.FarmerPatch
		cmd.Flags.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "phone":
				patch.PhoneNumber = phone
			case "email":
				patch.Email = email
			case "plots":
				patch.NumberOfPlots = plots
			case "amount-per-plot":
				patch.AmountPerPlot = amount
			case "block":
				patch.Block = block
			case "section":
				patch.Section = section
			case "active":
				patch.IsActive = active
			}
		})

		farmer, err := app.Services.Farmers.Update(ctx, *id, patch)
		if err != nil {
			return err
		}
		return app.printJSON(farmer)
	}

	return cmd
}

func newFarmersDeleteCommand(app *App) *Command {
	cmd := &Command{
		Name:        "delete",
		Description: "Remove a farmer record",
		Flags:       flag.NewFlagSet("farmers delete", flag.ExitOnError),
	}

	id := cmd.Flags.Int64("id", 0, "Farmer ID")

	cmd.Run = func(ctx context.Context, args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if err := app.requireView(policy.ViewFarmers); err != nil {
			return err
		}
		if *id == 0 {
			return fmt.Errorf("id is required")
		}
		if err := app.Services.Farmers.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintf(app.Out, "Deleted farmer %d\n", *id)
		return nil
	}

	return cmd
}
