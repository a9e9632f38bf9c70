package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/limphasa/schemectl/pkg/api"
	"github.com/limphasa/schemectl/pkg/policy"
)

func newBlocksCommand(app *App) *Command {
	cmd := &Command{
		Name:        "blocks",
		Description: "List or add scheme blocks",
		Subcommands: make(map[string]*Command),
		Flags:       flag.NewFlagSet("blocks", flag.ExitOnError),
	}

	cmd.Subcommands["list"] = &Command{
		Name:        "list",
		Description: "List blocks",
		Flags:       flag.NewFlagSet("blocks list", flag.ExitOnError),
		Run: func(ctx context.Context, args []string) error {
			if err := app.requireView(policy.ViewFarmers); err != nil {
				return err
			}
			blocks, err := app.Services.RefData.Blocks(ctx)
			if err != nil {
				return err
			}
			return app.printJSON(blocks)
		},
	}

	create := &Command{
		Name:        "create",
		Description: "Add a block",
		Flags:       flag.NewFlagSet("blocks create", flag.ExitOnError),
	}
	name := create.Flags.String("name", "", "Block name")
	description := create.Flags.String("description", "", "Description")
	create.Run = func(ctx context.Context, args []string) error {
		if err := create.Flags.Parse(args); err != nil {
			return err
		}
		if err := app.requireView(policy.ViewFarmers); err != nil {
			return err
		}
		block, err := app.Services.RefData.CreateBlock(ctx, api.BlockDraft{
			Name:        *name,
			Description: *description,
		})
		if err != nil {
			return err
		}
		return app.printJSON(block)
	}
	cmd.Subcommands["create"] = create

	return cmd
}

func newSectionsCommand(app *App) *Command {
	cmd := &Command{
		Name:        "sections",
		Description: "List or add block sections",
		Subcommands: make(map[string]*Command),
		Flags:       flag.NewFlagSet("sections", flag.ExitOnError),
	}

	list := &Command{
		Name:        "list",
		Description: "List sections",
		Flags:       flag.NewFlagSet("sections list", flag.ExitOnError),
	}
	listBlock := list.Flags.Int64("block", 0, "Restrict to one block")
	list.Run = func(ctx context.Context, args []string) error {
		if err := list.Flags.Parse(args); err != nil {
			return err
		}
		if err := app.requireView(policy.ViewFarmers); err != nil {
			return err
		}
		sections, err := app.Services.RefData.Sections(ctx, *listBlock)
		if err != nil {
			return err
		}
		return app.printJSON(sections)
	}
	cmd.Subcommands["list"] = list

	create := &Command{
		Name:        "create",
		Description: "Add a section to a block",
		Flags:       flag.NewFlagSet("sections create", flag.ExitOnError),
	}
	name := create.Flags.String("name", "", "Section name")
	block := create.Flags.Int64("block", 0, "Block ID")
	create.Run = func(ctx context.Context, args []string) error {
		if err := create.Flags.Parse(args); err != nil {
			return err
		}
		if err := app.requireView(policy.ViewFarmers); err != nil {
			return err
		}
		if *block == 0 {
			return fmt.Errorf("block is required")
		}
		section, err := app.Services.RefData.CreateSection(ctx, api.SectionDraft{
			Name:  *name,
			Block: *block,
		})
		if err != nil {
			return err
		}
		return app.printJSON(section)
	}
	cmd.Subcommands["create"] = create

	return cmd
}

func newLocationsCommand(app *App) *Command {
	cmd := &Command{
		Name:        "locations",
		Description: "List or add scheme locations",
		Subcommands: make(map[string]*Command),
		Flags:       flag.NewFlagSet("locations", flag.ExitOnError),
	}

	cmd.Subcommands["list"] = &Command{
		Name:        "list",
		Description: "List locations",
		Flags:       flag.NewFlagSet("locations list", flag.ExitOnError),
		Run: func(ctx context.Context, args []string) error {
			if err := app.requireView(policy.ViewFarmers); err != nil {
				return err
			}
			locations, err := app.Services.RefData.Locations(ctx)
			if err != nil {
				return err
			}
			return app.printJSON(locations)
		},
	}

	create := &Command{
		Name:        "create",
		Description: "Add a location",
		Flags:       flag.NewFlagSet("locations create", flag.ExitOnError),
	}
	name := create.Flags.String("name", "", "Location name")
	create.Run = func(ctx context.Context, args []string) error {
		if err := create.Flags.Parse(args); err != nil {
			return err
		}
		if err := app.requireView(policy.ViewFarmers); err != nil {
			return err
		}
		location, err := app.Services.RefData.CreateLocation(ctx, api.LocationDraft{Name: *name})
		if err != nil {
			return err
		}
		return app.printJSON(location)
	}
	cmd.Subcommands["create"] = create

	return cmd
}
