package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/limphasa/schemectl/pkg/policy"
	"github.com/limphasa/schemectl/pkg/scheme"
)

// newDashboardCommand renders whichever dashboard the role lands on:
// the main stats for admins, the payment ledger for the treasurer, and
// block attendance totals for a block chair.
func newDashboardCommand(app *App) *Command {
	return &Command{
		Name:        "dashboard",
		Description: "Show the dashboard for your role",
		Flags:       flag.NewFlagSet("dashboard", flag.ExitOnError),
		Run: func(ctx context.Context, args []string) error {
			sess := app.Sessions.Current()
			if sess == nil {
				return fmt.Errorf("not logged in: run 'schemectl login' first")
			}

			switch policy.DefaultView(sess.User.Role) {
			case policy.ViewTreasurerDashboard:
				return runTreasurerDashboard(ctx, app)
			case policy.ViewBlockChairDashboard:
				return runBlockChairDashboard(ctx, app, sess.User)
			case policy.ViewDashboard:
				return runMainDashboard(ctx, app)
			}
			return fmt.Errorf("your role has no dashboard")
		},
	}
}

func runMainDashboard(ctx context.Context, app *App) error {
	if err := app.requireView(policy.ViewDashboard); err != nil {
		return err
	}
	stats, err := app.Services.Farmers.DashboardStats(ctx)
	if err != nil {
		return err
	}
	return app.printJSON(stats)
}

func runTreasurerDashboard(ctx context.Context, app *App) error {
	if err := app.requireView(policy.ViewTreasurerDashboard); err != nil {
		return err
	}
	dash, err := app.Loader.LoadTreasurerDashboard(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "Farmers: %d, payments recorded: %d, outstanding balances: %d\n",
		len(dash.Farmers), len(dash.Payments), len(dash.Outstanding))
	for i := range dash.Outstanding {
		f := &dash.Outstanding[i]
		fmt.Fprintf(app.Out, "  %s %s owes %.2f\n",
			f.FirstName, f.LastName, scheme.Balance(f, dash.Payments))
	}
	return app.printJSON(dash.Stats)
}

func runBlockChairDashboard(ctx context.Context, app *App, user *scheme.User) error {
	if err := app.requireView(policy.ViewBlockChairDashboard); err != nil {
		return err
	}
	stats, err := app.Services.Attendance.Stats(ctx, user.Block)
	if err != nil {
		return err
	}
	return app.printJSON(stats)
}
