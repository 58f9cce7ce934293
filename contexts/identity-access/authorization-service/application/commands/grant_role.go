package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "kura/contexts/identity-access/authorization-service/application"
	"kura/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "kura/contexts/identity-access/authorization-service/domain/errors"
	"kura/contexts/identity-access/authorization-service/ports"
)

// GrantRoleCommand contains transport-agnostic input for role assignment.
type GrantRoleCommand struct {
	UserID    string
	RoleID    string
	AdminID   string
	Reason    string
	ExpiresAt *time.Time
}

// GrantRoleUseCase assigns a catalog role on behalf of an admin holding
// election.roles.manage.
type GrantRoleUseCase struct {
	Repository      ports.Repository
	PermissionCache ports.PermissionCache
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	Logger          *slog.Logger
}

func (u GrantRoleUseCase) Execute(ctx context.Context, cmd GrantRoleCommand) (entities.RoleAssignment, error) {
	logger := application.ResolveLogger(u.Logger)
	userID := strings.TrimSpace(cmd.UserID)
	roleID := strings.TrimSpace(cmd.RoleID)
	adminID := strings.TrimSpace(cmd.AdminID)
	logger.Info("grant role started",
		"event", "authz_grant_role_started",
		"module", "identity-access/authorization-service",
		"layer", "application",
		"user_id", userID,
		"admin_id", adminID,
		"role_id", roleID,
	)

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
	if cmd.ExpiresAt != nil && !cmd.ExpiresAt.After(now) {
		return entities.RoleAssignment{}, domainerrors.ErrInvalidInput
	}
	if err := ensureActorPermission(ctx, u.Repository, adminID, entities.PermissionRolesManage, now); err != nil {
		logger.Warn("grant role rejected",
			"event", "authz_grant_role_forbidden",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"admin_id", adminID,
			"role_id", roleID,
			"error", err.Error(),
		)
		return entities.RoleAssignment{}, err
	}

	return grantRole(ctx, u.Repository, u.PermissionCache, u.IDGenerator, logger, ports.GrantRoleInput{
		UserID:     userID,
		RoleID:     roleID,
		AdminID:    adminID,
		Reason:     strings.TrimSpace(cmd.Reason),
		AssignedAt: now,
		ExpiresAt:  cmd.ExpiresAt,
	})
}

func grantRole(
	ctx context.Context,
	repository ports.Repository,
	cache ports.PermissionCache,
	ids ports.IDGenerator,
	logger *slog.Logger,
	input ports.GrantRoleInput,
) (entities.RoleAssignment, error) {
	assignmentID, err := ids.NewID(ctx)
	if err != nil {
		return entities.RoleAssignment{}, err
	}
	input.AssignmentID = assignmentID

	assignment, err := repository.GrantRole(ctx, input)
	if err != nil {
		logger.Error("grant role write failed",
			"event", "authz_grant_role_write_failed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"user_id", input.UserID,
			"admin_id", input.AdminID,
			"role_id", input.RoleID,
			"error", err.Error(),
		)
		return entities.RoleAssignment{}, err
	}

	if err := invalidateCache(ctx, cache, input.UserID); err != nil {
		logger.Warn("permission cache invalidate failed after role grant",
			"event", "authz_cache_invalidation_failed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"user_id", input.UserID,
			"error", err.Error(),
		)
	}

	logger.Info("grant role completed",
		"event", "authz_grant_role_completed",
		"module", "identity-access/authorization-service",
		"layer", "application",
		"user_id", input.UserID,
		"admin_id", input.AdminID,
		"role_id", input.RoleID,
		"assignment_id", assignment.AssignmentID,
	)
	return assignment, nil
}
