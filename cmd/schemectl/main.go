package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/limphasa/schemectl/pkg/api"
	"github.com/limphasa/schemectl/pkg/cli"
	"github.com/limphasa/schemectl/pkg/config"
	"github.com/limphasa/schemectl/pkg/observability"
	"github.com/limphasa/schemectl/pkg/session"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Log.Level, os.Stderr)

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Pick up logins and logouts made by other schemectl processes
	if cfg.Session.Watch {
		watcher, err := session.NewWatcher(app.Sessions)
		if err != nil {
			logger.WithError(err).Warn("session watcher unavailable")
		} else {
			go func() {
				if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
					logger.WithError(err).Warn("session watcher stopped")
				}
			}()
		}
	}

	ctx = observability.WithLogger(ctx, logger)
	if user := app.Sessions.User(); user != nil {
		ctx = observability.WithUsername(ctx, user.Username)
	}

	rootCmd := cli.NewRootCommand(app)
	if err := rootCmd.Execute(ctx, os.Args[1:]); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// printError renders API failures for a terminal, field errors included
func printError(err error) {
	switch {
	case api.IsValidation(err) && len(api.FieldErrors(err)) > 0:
		fmt.Fprintln(os.Stderr, "Error: the request was rejected:")
		for field, message := range api.FieldErrors(err) {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, message)
		}
	case api.IsUnauthenticated(err):
		fmt.Fprintln(os.Stderr, "Error: not logged in or session expired; run 'schemectl login'")
	case api.IsUnreachable(err):
		fmt.Fprintf(os.Stderr, "Error: cannot reach the server: %v\n", err)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
