package commands

import (
	"context"
	"log/slog"
	"strings"

	application "kura/contexts/identity-access/authorization-service/application"
	"kura/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "kura/contexts/identity-access/authorization-service/domain/errors"
	"kura/contexts/identity-access/authorization-service/ports"
)

type RevokeRoleCommand struct {
	UserID  string
	RoleID  string
	AdminID string
	Reason  string
}

type RevokeRoleUseCase struct {
	Repository      ports.Repository
	PermissionCache ports.PermissionCache
	Clock           ports.Clock
	Logger          *slog.Logger
}

func (u RevokeRoleUseCase) Execute(ctx context.Context, cmd RevokeRoleCommand) (entities.RoleAssignment, error) {
	logger := application.ResolveLogger(u.Logger)
	userID := strings.TrimSpace(cmd.UserID)
	roleID := strings.TrimSpace(cmd.RoleID)
	adminID := strings.TrimSpace(cmd.AdminID)

	if userID == "" {
		return entities.RoleAssignment{}, domainerrors.ErrInvalidUserID
	}
	if roleID == "" {
		return entities.RoleAssignment{}, domainerrors.ErrInvalidRoleID
	}
	if adminID == "" {
		return entities.RoleAssignment{}, domainerrors.ErrInvalidAdminID
	}
	if _, ok := entities.LookupRole(roleID); !ok {
		return entities.RoleAssignment{}, domainerrors.ErrRoleNotFound
	}

	now := resolveNow(u.Clock)
	if err := ensureActorPermission(ctx, u.Repository, adminID, entities.PermissionRolesManage, now); err != nil {
		return entities.RoleAssignment{}, err
	}
	// Admins cannot revoke their own election_admin grant.
	if userID == adminID && roleID == entities.RoleElectionAdmin {
		return entities.RoleAssignment{}, domainerrors.ErrForbidden
	}

	assignment, err := u.Repository.RevokeRole(ctx, ports.RevokeRoleInput{
		UserID:    userID,
		RoleID:    roleID,
		AdminID:   adminID,
		Reason:    strings.TrimSpace(cmd.Reason),
		RevokedAt: now,
	})
	if err != nil {
		logger.Error("revoke role write failed",
			"event", "authz_revoke_role_write_failed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"user_id", userID,
			"admin_id", adminID,
			"role_id", roleID,
			"error", err.Error(),
		)
		return entities.RoleAssignment{}, err
	}

	if err := invalidateCache(ctx, u.PermissionCache, userID); err != nil {
		logger.Warn("permission cache invalidate failed after role revoke",
			"event", "authz_cache_invalidation_failed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"user_id", userID,
			"error", err.Error(),
		)
	}

	logger.Info("revoke role completed",
		"event", "authz_revoke_role_completed",
		"module", "identity-access/authorization-service",
		"layer", "application",
		"user_id", userID,
		"admin_id", adminID,
		"role_id", roleID,
	)
	return assignment, nil
}
