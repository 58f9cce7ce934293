// Package main provides electionctl, the operator CLI for the election
// engine. Commands run against the same Postgres database as the API and
// apply the same permission checks, with the caller named by --admin.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"kura/internal/app/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var adminID string

	cmd := &cobra.Command{
		Use:   "electionctl",
		Short: "Operate the student council election",
		Long: `electionctl drives the election lifecycle from the command line.

Configuration is read from the environment (and an optional .env file)
exactly as the API process reads it. STORAGE_DRIVER must be postgres.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&adminID, "admin", os.Getenv("KURA_ADMIN_ID"), "Acting admin user id (default $KURA_ADMIN_ID)")

	cmd.AddCommand(
		phaseCmd(&adminID),
		tallyCmd(&adminID),
		resetCmd(&adminID),
		rolesCmd(&adminID),
		migrateCmd(),
		studentsCmd(),
	)
	return cmd
}

// withApp builds the CLI wiring for one command and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *bootstrap.CLIApp) error) error {
	ctx := cmd.Context()
	app, err := bootstrap.BuildCLI(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close failed: %v\n", err)
		}
	}()
	return fn(ctx, app)
}

// asAdmin is withApp plus a permission check for the --admin caller.
func asAdmin(
	cmd *cobra.Command,
	adminID *string,
	permission string,
	fn func(ctx context.Context, app *bootstrap.CLIApp, adminID string) error,
) error {
	return withApp(cmd, func(ctx context.Context, app *bootstrap.CLIApp) error {
		if err := app.RequirePermission(ctx, *adminID, permission); err != nil {
			return err
		}
		return fn(ctx, app, *adminID)
	})
}
