package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	authz "kura/contexts/identity-access/authorization-service/domain/entities"
	"kura/internal/app/bootstrap"
)

func tallyCmd(adminID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tally",
		Short: "Re-run the delegate tally and print the winners",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return asAdmin(cmd, adminID, authz.PermissionResultsTally, func(ctx context.Context, app *bootstrap.CLIApp, admin string) error {
				result, err := app.Election.Handler.TallyDelegatesHandler(ctx, admin)
				if err != nil {
					return err
				}
				printElected(cmd.OutOrStdout(), result.Items)
				return nil
			})
		},
	}
}

func resetCmd(adminID *string) *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all votes, candidacies, delegates and parties and return to Registration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirmed {
				return errors.New("reset is destructive; pass --yes to confirm")
			}
			return asAdmin(cmd, adminID, authz.PermissionReset, func(ctx context.Context, app *bootstrap.CLIApp, admin string) error {
				summary, err := app.Election.Handler.ResetElectionHandler(ctx, admin)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "election reset to %s (version %d)\n", summary.Phase.Name, summary.Phase.Version)
				fmt.Fprintf(out, "  delegate votes:    %s\n", humanize.Comma(summary.DelegateVotesDeleted))
				fmt.Fprintf(out, "  council votes:     %s\n", humanize.Comma(summary.CouncilVotesDeleted))
				fmt.Fprintf(out, "  candidacies:       %s\n", humanize.Comma(summary.CandidatesDeleted))
				fmt.Fprintf(out, "  elected delegates: %s\n", humanize.Comma(summary.ElectedDelegatesDeleted))
				fmt.Fprintf(out, "  parties:           %s\n", humanize.Comma(summary.PartiesDeleted))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm the reset")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and seed ELECTION_ADMIN_IDS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.CLIApp) error {
				if err := app.Migrate(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
				return nil
			})
		},
	}
}

func studentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "students",
		Short: "Manage the student eligibility register",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Upsert students from a YAML register",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.CLIApp) error {
				count, err := app.ImportStudents(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s students imported from %s\n", humanize.Comma(int64(count)), args[0])
				return nil
			})
		},
	})
	return cmd
}
