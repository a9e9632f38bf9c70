package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/limphasa/schemectl/pkg/api"
	"github.com/limphasa/schemectl/pkg/policy"
	"github.com/limphasa/schemectl/pkg/scheme"
)

// Account administration lives under the main dashboard view, so these
// commands gate on it.
func newUsersCommand(app *App) *Command {
	cmd := &Command{
		Name:        "users",
		Description: "Manage user accounts",
		Subcommands: make(map[string]*Command),
		Flags:       flag.NewFlagSet("users", flag.ExitOnError),
	}

	cmd.Subcommands["list"] = newUsersListCommand(app)
	cmd.Subcommands["approve"] = newUsersApproveCommand(app)
	cmd.Subcommands["assign-role"] = newUsersAssignRoleCommand(app)

	return cmd
}

func newUsersListCommand(app *App) *Command {
	cmd := &Command{
		Name:        "list",
		Description: "List user accounts",
		Flags:       flag.NewFlagSet("users list", flag.ExitOnError),
	}

	role := cmd.Flags.String("role", "", "Filter by role")
	search := cmd.Flags.String("search", "", "Search by name or username")
	pending := cmd.Flags.Bool("pending", false, "Only accounts awaiting approval")
	page := cmd.Flags.Int("page", 0, "Page number")

	cmd.Run = func(ctx context.Context, args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if err := app.requireView(policy.ViewDashboard); err != nil {
			return err
		}
		filter := api.UserFilter{
			Role:   scheme.Role(*role),
			Search: *search,
			Page:   *page,
		}
		if *pending {
			approved := false
			filter.Approved = &approved
		}
		result, err := app.Services.Accounts.ListUsers(ctx, filter)
		if err != nil {
			return err
		}
		return app.printJSON(result)
	}

	return cmd
}

func newUsersApproveCommand(app *App) *Command {
	cmd := &Command{
		Name:        "approve",
		Description: "Approve a pending account",
		Flags:       flag.NewFlagSet("users approve", flag.ExitOnError),
	}

	id := cmd.Flags.Int64("id", 0, "User ID")

	cmd.Run = func(ctx context.Context, args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if err := app.requireView(policy.ViewDashboard); err != nil {
			return err
		}
		if *id == 0 {
			return fmt.Errorf("id is required")
		}
		user, err := app.Services.Accounts.ApproveUser(ctx, *id)
		if err != nil {
			return err
		}
		return app.printJSON(user)
	}

	return cmd
}

func newUsersAssignRoleCommand(app *App) *Command {
	cmd := &Command{
		Name:        "assign-role",
		Description: "Assign a role to a user",
		Flags:       flag.NewFlagSet("users assign-role", flag.ExitOnError),
	}

	id := cmd.Flags.Int64("id", 0, "User ID")
	role := cmd.Flags.String("role", "", "Role to assign")
	block := cmd.Flags.Int64("block", 0, "Block ID (block chairs only)")
	section := cmd.Flags.Int64("section", 0, "Section ID (block chairs only)")

	cmd.Run = func(ctx context.Context, args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		if err := app.requireView(policy.ViewDashboard); err != nil {
			return err
		}
		if *id == 0 {
			return fmt.Errorf("id is required")
		}
		newRole := scheme.Role(*role)
		if !newRole.Valid() {
			return fmt.Errorf("unknown role: %s", *role)
		}

		patch := api.UserPatch{Role: &newRole}
		if *block > 0 {
			patch.Block = block
		}
		if *section > 0 {
			patch.Section = section
		}

		user, err := app.Services.Accounts.UpdateUser(ctx, *id, patch)
		if err != nil {
			return err
		}
		return app.printJSON(user)
	}

	return cmd
}
