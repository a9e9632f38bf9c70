package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/limphasa/schemectl/pkg/api"
	"github.com/limphasa/schemectl/pkg/config"
	"github.com/limphasa/schemectl/pkg/gate"
	"github.com/limphasa/schemectl/pkg/observability"
	"github.com/limphasa/schemectl/pkg/policy"
	"github.com/limphasa/schemectl/pkg/session"
	"github.com/limphasa/schemectl/pkg/viewdata"
)

// Command represents a CLI command
type Command struct {
	Name        string
	Description string
	Run         func(ctx context.Context, args []string) error
	Subcommands map[string]*Command
	Flags       *flag.FlagSet
}

// App wires the client stack the commands run against
type App struct {
	Config   *config.Config
	Logger   *observability.Logger
	Sessions *session.Store
	Services *api.Services
	Gate     *gate.Gate
	Loader   *viewdata.Loader
	Out      io.Writer
}

// NewApp builds the client stack from config
func NewApp(cfg *config.Config, logger *observability.Logger) (*App, error) {
	sessions := session.NewStore(cfg.Session.Path)
	client, err := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, sessions, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build API client: %w", err)
	}
	services := api.NewServices(client)
	return &App{
		Config:   cfg,
		Logger:   logger,
		Sessions: sessions,
		Services: services,
		Gate:     gate.New(sessions),
		Loader:   viewdata.NewLoader(services),
		Out:      os.Stdout,
	}, nil
}

// NewRootCommand creates the root command
func NewRootCommand(app *App) *Command {
	root := &Command{
		Name:        "schemectl",
		Description: "Limphasa Rice Scheme administration CLI",
		Subcommands: make(map[string]*Command),
		Flags:       flag.NewFlagSet("schemectl", flag.ExitOnError),
	}

	root.Subcommands["login"] = newLoginCommand(app)
	root.Subcommands["logout"] = newLogoutCommand(app)
	root.Subcommands["register"] = newRegisterCommand(app)
	root.Subcommands["whoami"] = newWhoamiCommand(app)
	root.Subcommands["routes"] = newRoutesCommand(app)
	root.Subcommands["dashboard"] = newDashboardCommand(app)
	root.Subcommands["farmers"] = newFarmersCommand(app)
	root.Subcommands["attendance"] = newAttendanceCommand(app)
	root.Subcommands["discipline"] = newDisciplineCommand(app)
	root.Subcommands["payments"] = newPaymentsCommand(app)
	root.Subcommands["users"] = newUsersCommand(app)
	root.Subcommands["blocks"] = newBlocksCommand(app)
	root.Subcommands["sections"] = newSectionsCommand(app)
	root.Subcommands["locations"] = newLocationsCommand(app)

	return root
}

func newRoutesCommand(app *App) *Command {
	return &Command{
		Name:        "routes",
		Description: "List application routes and whether the current session may open them",
		Flags:       flag.NewFlagSet("routes", flag.ExitOnError),
		Run: func(ctx context.Context, args []string) error {
			routes := gate.Routes()
			sort.Strings(routes)
			for _, route := range routes {
				decision := app.Gate.Check(route)
				switch {
				case decision.Allowed:
					fmt.Fprintf(app.Out, "%-22s allowed\n", route)
				case decision.RedirectTo != "":
					fmt.Fprintf(app.Out, "%-22s login required\n", route)
				default:
					fmt.Fprintf(app.Out, "%-22s denied\n", route)
				}
			}
			return nil
		},
	}
}

// Execute dispatches args down the command tree
func (c *Command) Execute(ctx context.Context, args []string) error {
	if len(args) > 0 {
		if args[0] == "-h" || args[0] == "--help" {
			return c.usage()
		}
		if subcmd, ok := c.Subcommands[args[0]]; ok {
			return subcmd.Execute(ctx, args[1:])
		}
	}

	if c.Run != nil {
		return c.Run(ctx, args)
	}
	if len(args) == 0 {
		return c.usage()
	}
	return fmt.Errorf("unknown command: %s", args[0])
}

// usage prints the command usage
func (c *Command) usage() error {
	fmt.Printf("Usage: %s <command> [args]\n\n", c.Name)
	fmt.Printf("Commands:\n")
	names := make([]string, 0, len(c.Subcommands))
	for name := range c.Subcommands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-16s %s\n", name, c.Subcommands[name].Description)
	}
	return nil
}

// requireView checks the gate before a data command runs
func (a *App) requireView(view policy.View) error {
	decision := a.Gate.CheckView(view)
	if decision.Allowed {
		return nil
	}
	if decision.RedirectTo != "" {
		return fmt.Errorf("not logged in: run 'schemectl login' first")
	}
	return fmt.Errorf("your role is not allowed to open %s", view)
}

// printJSON writes v as indented JSON
func (a *App) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
