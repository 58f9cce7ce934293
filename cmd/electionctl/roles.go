package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	authz "kura/contexts/identity-access/authorization-service/domain/entities"
	authtransport "kura/contexts/identity-access/authorization-service/transport/http"
	"kura/internal/app/bootstrap"
)

func rolesCmd(adminID *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Grant, revoke and list admin roles",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list [user_id]",
		Short: "List the role catalog, or a user's assignments when a user is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return withApp(cmd, func(ctx context.Context, app *bootstrap.CLIApp) error {
					catalog := app.Authz.Handler.ListRolesHandler(ctx)
					tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ROLE\tNAME\tPERMISSIONS")
					for _, role := range catalog.Roles {
						fmt.Fprintf(tw, "%s\t%s\t%s\n", role.RoleID, role.RoleName, strings.Join(role.Permissions, ","))
					}
					return tw.Flush()
				})
			}
			return asAdmin(cmd, adminID, authz.PermissionAuditRead, func(ctx context.Context, app *bootstrap.CLIApp, _ string) error {
				roles, err := app.Authz.Handler.ListUserRolesHandler(ctx, args[0])
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ROLE\tACTIVE\tASSIGNED BY\tASSIGNED\tEXPIRES")
				for _, role := range roles.Roles {
					fmt.Fprintf(tw, "%s\t%t\t%s\t%s\t%s\n",
						role.RoleID, role.IsActive, role.AssignedBy, humanize.Time(role.AssignedAt), expiry(role.ExpiresAt))
				}
				return tw.Flush()
			})
		},
	})

	var (
		grantReason string
		expiresIn   time.Duration
	)
	grant := &cobra.Command{
		Use:   "grant <user_id> <role_id>",
		Short: "Grant a role (requires election.roles.manage)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The grant use case checks roles.manage itself.
			return withApp(cmd, func(ctx context.Context, app *bootstrap.CLIApp) error {
				request := authtransport.GrantRoleRequest{RoleID: args[1], Reason: grantReason}
				if expiresIn > 0 {
					expiresAt := time.Now().UTC().Add(expiresIn)
					request.ExpiresAt = &expiresAt
				}
				assignment, err := app.Authz.Handler.GrantRoleHandler(ctx, args[0], *adminID, request)
				if err != nil {
					return err
				}
				printAssignment(cmd.OutOrStdout(), "granted", assignment)
				return nil
			})
		},
	}
	grant.Flags().StringVar(&grantReason, "reason", "", "Reason recorded with the grant")
	grant.Flags().DurationVar(&expiresIn, "expires-in", 0, "Grant lifetime, e.g. 720h (default never)")
	cmd.AddCommand(grant)

	var revokeReason string
	revoke := &cobra.Command{
		Use:   "revoke <user_id> <role_id>",
		Short: "Revoke an active role (requires election.roles.manage)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.CLIApp) error {
				assignment, err := app.Authz.Handler.RevokeRoleHandler(ctx, args[0], *adminID, authtransport.RevokeRoleRequest{
					RoleID: args[1],
					Reason: revokeReason,
				})
				if err != nil {
					return err
				}
				printAssignment(cmd.OutOrStdout(), "revoked", assignment)
				return nil
			})
		},
	}
	revoke.Flags().StringVar(&revokeReason, "reason", "", "Reason recorded with the revocation")
	cmd.AddCommand(revoke)

	return cmd
}

func printAssignment(w io.Writer, verb string, assignment authtransport.RoleAssignmentDTO) {
	fmt.Fprintf(w, "%s %s for %s (assignment %s, expires %s)\n",
		verb, assignment.RoleID, assignment.UserID, assignment.AssignmentID, expiry(assignment.ExpiresAt))
}

func expiry(expiresAt *time.Time) string {
	if expiresAt == nil {
		return "never"
	}
	return humanize.Time(*expiresAt)
}
