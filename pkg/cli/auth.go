package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/limphasa/schemectl/pkg/api"
	"github.com/limphasa/schemectl/pkg/policy"
)

func newLoginCommand(app *App) *Command {
	cmd := &Command{
		Name:        "login",
		Description: "Log in and store the session",
		Flags:       flag.NewFlagSet("login", flag.ExitOnError),
	}

	username := cmd.Flags.String("username", "", "Account username")
	password := cmd.Flags.String("password", "", "Account password (prompted when omitted)")

	cmd.Run = func(ctx context.Context, args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}

		pass := *password
		if pass == "" {
			fmt.Fprint(app.Out, "Password: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			pass = strings.TrimSpace(line)
		}

		user, err := app.Services.Accounts.Login(ctx, api.Credentials{
			Username: *username,
			Password: pass,
		})
		if err != nil {
			return err
		}

		landing := policy.DefaultView(user.Role)
		if landing == "" {
			fmt.Fprintf(app.Out, "Logged in as %s (%s); this role has no administrative views\n",
				user.FullName(), user.Role)
			return nil
		}
		fmt.Fprintf(app.Out, "Logged in as %s (%s), landing view: %s\n",
			user.FullName(), user.Role, landing)
		return nil
	}

	return cmd
}

func newLogoutCommand(app *App) *Command {
	return &Command{
		Name:        "logout",
		Description: "End the session and clear stored credentials",
		Flags:       flag.NewFlagSet("logout", flag.ExitOnError),
		Run: func(ctx context.Context, args []string) error {
			if err := app.Services.Accounts.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, "Logged out")
			return nil
		},
	}
}

func newRegisterCommand(app *App) *Command {
	cmd := &Command{
		Name:        "register",
		Description: "Request a new account (starts unapproved)",
		Flags:       flag.NewFlagSet("register", flag.ExitOnError),
	}

	username := cmd.Flags.String("username", "", "Desired username")
	password := cmd.Flags.String("password", "", "Password (minimum 8 characters)")
	firstName := cmd.Flags.String("first-name", "", "First name")
	lastName := cmd.Flags.String("last-name", "", "Last name")
	email := cmd.Flags.String("email", "", "Email address")

	cmd.Run = func(ctx context.Context, args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		user, err := app.Services.Accounts.Register(ctx, api.RegisterDraft{
			Username:  *username,
			Password:  *password,
			FirstName: *firstName,
			LastName:  *lastName,
			Email:     *email,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(app.Out, "Registered %s; an administrator must approve the account before login\n", user.Username)
		return nil
	}

	return cmd
}

func newWhoamiCommand(app *App) *Command {
	cmd := &Command{
		Name:        "whoami",
		Description: "Show the logged-in user and visible views",
		Flags:       flag.NewFlagSet("whoami", flag.ExitOnError),
	}

	remote := cmd.Flags.Bool("remote", false, "Fetch the profile from the server instead of the stored session")

	cmd.Run = func(ctx context.Context, args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		sess := app.Sessions.Current()
		if sess == nil {
			fmt.Fprintln(app.Out, "Not logged in")
			return nil
		}
		user := sess.User
		if *remote {
			fetched, err := app.Services.Accounts.Profile(ctx)
			if err != nil {
				return err
			}
			user = fetched
		}
		fmt.Fprintf(app.Out, "%s (%s)\n", user.FullName(), user.Role)
		for _, view := range policy.VisibleViews(user.Role) {
			fmt.Fprintf(app.Out, "  %s\n", view)
		}
		return nil
	}

	return cmd
}
