package bootstrap

import (
	"context"
	"errors"
	"fmt"

	authorization "kura/contexts/identity-access/authorization-service"
	authpostgres "kura/contexts/identity-access/authorization-service/adapters/postgres"
	authtransport "kura/contexts/identity-access/authorization-service/transport/http"
	electionengine "kura/contexts/student-governance/election-engine"
	electionpostgres "kura/contexts/student-governance/election-engine/adapters/postgres"
	"kura/contexts/student-governance/election-engine/adapters/seed"
	"kura/internal/platform/config"
)

// ErrPermissionDenied is returned when the --admin caller lacks a permission.
var ErrPermissionDenied = errors.New("permission denied")

// CLIApp exposes the modules to electionctl. It always runs against Postgres;
// a memory store would be gone by the time the command exits.
type CLIApp struct {
	Election electionengine.Module
	Authz    authorization.Module
	rt       *runtime
}

func BuildCLI(ctx context.Context) (*CLIApp, error) {
	rt, err := buildRuntime(ctx, "cli")
	if err != nil {
		return nil, err
	}
	if rt.cfg.StorageDriver != config.StoragePostgres {
		_ = rt.close()
		return nil, errors.New("electionctl requires STORAGE_DRIVER=postgres")
	}
	return &CLIApp{Election: rt.election, Authz: rt.authz, rt: rt}, nil
}

// Migrate applies both context schemas and then seeds ELECTION_ADMIN_IDS.
func (c *CLIApp) Migrate(ctx context.Context) error {
	if err := electionpostgres.Migrate(ctx, c.rt.postgres.DB); err != nil {
		return fmt.Errorf("election schema: %w", err)
	}
	if err := authpostgres.Migrate(ctx, c.rt.postgres.DB); err != nil {
		return fmt.Errorf("authorization schema: %w", err)
	}
	return c.rt.seedAdmins(ctx)
}

// ImportStudents upserts the YAML register at path and returns the row count.
func (c *CLIApp) ImportStudents(ctx context.Context, path string) (int, error) {
	students, err := seed.ReadStudentsFile(path)
	if err != nil {
		return 0, err
	}
	return c.rt.students.UpsertStudents(ctx, students)
}

// RequirePermission applies the same check the HTTP admin routes use.
func (c *CLIApp) RequirePermission(ctx context.Context, adminID string, permission string) error {
	if adminID == "" {
		return errors.New("--admin is required")
	}
	decision, err := c.Authz.Handler.CheckPermissionHandler(ctx, adminID, authtransport.CheckPermissionRequest{
		Permission: permission,
	})
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return fmt.Errorf("%w: %s lacks %s", ErrPermissionDenied, adminID, permission)
	}
	return nil
}

func (c *CLIApp) Close() error {
	return c.rt.close()
}
