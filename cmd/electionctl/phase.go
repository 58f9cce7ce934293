package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	authz "kura/contexts/identity-access/authorization-service/domain/entities"
	electiontransport "kura/contexts/student-governance/election-engine/transport/http"
	"kura/internal/app/bootstrap"
)

func phaseCmd(adminID *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Inspect and change the election phase",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "current",
		Short: "Show the current phase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.CLIApp) error {
				phase, err := app.Election.Handler.CurrentPhaseHandler(ctx)
				if err != nil {
					return err
				}
				printPhase(cmd.OutOrStdout(), phase)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "advance",
		Short: "Advance to the next phase (tallies delegates when leaving Delegate Voting)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return asAdmin(cmd, adminID, authz.PermissionPhaseManage, func(ctx context.Context, app *bootstrap.CLIApp, admin string) error {
				result, err := app.Election.Handler.AdvancePhaseHandler(ctx, admin)
				if err != nil {
					return err
				}
				printTransition(cmd.OutOrStdout(), result)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <phase>",
		Short: "Jump to a phase by number (0-6)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("phase must be a number: %w", err)
			}
			return asAdmin(cmd, adminID, authz.PermissionPhaseManage, func(ctx context.Context, app *bootstrap.CLIApp, admin string) error {
				result, err := app.Election.Handler.SetPhaseHandler(ctx, admin, electiontransport.SetPhaseRequest{Phase: target})
				if err != nil {
					return err
				}
				printTransition(cmd.OutOrStdout(), result)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "log",
		Short: "Print the phase log, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return asAdmin(cmd, adminID, authz.PermissionAuditRead, func(ctx context.Context, app *bootstrap.CLIApp, _ string) error {
				log, err := app.Election.Handler.PhaseLogHandler(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "VERSION\tPHASE\tREASON\tCHANGED BY\tSTARTED")
				for _, entry := range log.Items {
					fmt.Fprintf(tw, "%d\t%d %s\t%s\t%s\t%s\n",
						entry.Version, entry.Phase, entry.Name, entry.Reason, entry.ChangedBy, humanize.Time(entry.StartedAt))
				}
				return tw.Flush()
			})
		},
	})

	return cmd
}

func printPhase(w io.Writer, phase electiontransport.PhaseResponse) {
	fmt.Fprintf(w, "phase %d (%s), version %d, %s by %s %s\n",
		phase.Phase, phase.Name, phase.Version, phase.Reason, phase.ChangedBy, humanize.Time(phase.StartedAt))
}

func printTransition(w io.Writer, result electiontransport.PhaseTransitionResponse) {
	fmt.Fprintf(w, "%s -> %s (version %d)\n", result.Previous.Name, result.Current.Name, result.Current.Version)
	if result.Tallied {
		printElected(w, result.Elected)
	}
}

func printElected(w io.Writer, elected []electiontransport.ElectedDelegateResponse) {
	fmt.Fprintf(w, "%s delegates elected\n", humanize.Comma(int64(len(elected))))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCHOOL\tDEPARTMENT\tDELEGATE\tREG NO\tVOTES")
	for _, delegate := range elected {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			delegate.SchoolID, delegate.DepartmentID, delegate.Name, delegate.RegistrationNumber, humanize.Comma(int64(delegate.VoteCount)))
	}
	_ = tw.Flush()
}
