package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "kura/contexts/identity-access/authorization-service/application"
	"kura/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "kura/contexts/identity-access/authorization-service/domain/errors"
	"kura/contexts/identity-access/authorization-service/ports"
)

// SystemActor is recorded as AssignedBy for grants made at process start.
const SystemActor = "system"

// SeedAdminsUseCase grants election_admin to configured bootstrap ids without
// an actor check. Users who already hold the role are skipped.
type SeedAdminsUseCase struct {
	Repository      ports.Repository
	PermissionCache ports.PermissionCache
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	Logger          *slog.Logger
}

// Execute returns how many new assignments were written.
func (u SeedAdminsUseCase) Execute(ctx context.Context, userIDs []string) (int, error) {
	logger := application.ResolveLogger(u.Logger)
	now := resolveNow(u.Clock)
	seeded := 0
	for _, raw := range userIDs {
		userID := strings.TrimSpace(raw)
		if userID == "" {
			continue
		}
		_, err := grantRole(ctx, u.Repository, u.PermissionCache, u.IDGenerator, logger, ports.GrantRoleInput{
			UserID:     userID,
			RoleID:     entities.RoleElectionAdmin,
			AdminID:    SystemActor,
			Reason:     "bootstrap",
			AssignedAt: now,
		})
		if errors.Is(err, domainerrors.ErrRoleAlreadyAssigned) {
			continue
		}
		if err != nil {
			return seeded, err
		}
		seeded++
	}
	logger.Info("election admins seeded",
		"event", "authz_admins_seeded",
		"module", "identity-access/authorization-service",
		"layer", "application",
		"requested", len(userIDs),
		"seeded", seeded,
	)
	return seeded, nil
}
