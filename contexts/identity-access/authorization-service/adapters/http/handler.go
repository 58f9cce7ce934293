package httpadapter

import (
	"context"
	"log/slog"

	application "kura/contexts/identity-access/authorization-service/application"
	"kura/contexts/identity-access/authorization-service/application/commands"
	"kura/contexts/identity-access/authorization-service/application/queries"
	"kura/contexts/identity-access/authorization-service/domain/entities"
	httptransport "kura/contexts/identity-access/authorization-service/transport/http"
)

// Handler adapts the role and permission use cases to transport DTOs. Both
// the HTTP server and electionctl call it.
type Handler struct {
	CheckPermission queries.CheckPermissionUseCase
	ListUserRoles   queries.ListUserRolesUseCase
	ListRoles       queries.ListRolesUseCase
	GrantRole       commands.GrantRoleUseCase
	RevokeRole      commands.RevokeRoleUseCase
	Logger          *slog.Logger
}

func (h Handler) log() *slog.Logger {
	return application.ResolveLogger(h.Logger).With(
		"module", "identity-access/authorization-service",
		"layer", "transport",
	)
}

func (h Handler) CheckPermissionHandler(
	ctx context.Context,
	userID string,
	request httptransport.CheckPermissionRequest,
) (httptransport.CheckPermissionResponse, error) {
	decision, err := h.CheckPermission.Execute(ctx, queries.CheckPermissionQuery{
		UserID:     userID,
		Permission: request.Permission,
		Route:      request.Route,
	})
	if err != nil {
		return httptransport.CheckPermissionResponse{}, err
	}
	return httptransport.CheckPermissionResponse{
		UserID:     decision.UserID,
		Permission: decision.Permission,
		Allowed:    decision.Allowed,
		Reason:     decision.Reason,
		CheckedAt:  decision.CheckedAt,
		CacheHit:   decision.CacheHit,
	}, nil
}

// ListRolesHandler returns the fixed role catalog. It never fails.
func (h Handler) ListRolesHandler(_ context.Context) httptransport.ListRolesResponse {
	catalog := h.ListRoles.Execute()
	resp := httptransport.ListRolesResponse{Roles: make([]httptransport.RoleDTO, len(catalog))}
	for i, role := range catalog {
		resp.Roles[i] = httptransport.RoleDTO{
			RoleID:      role.RoleID,
			RoleName:    role.RoleName,
			Permissions: append([]string(nil), role.Permissions...),
		}
	}
	return resp
}

// ListUserRolesHandler returns a user's assignments, revoked and expired ones
// included.
func (h Handler) ListUserRolesHandler(ctx context.Context, userID string) (httptransport.ListUserRolesResponse, error) {
	assignments, err := h.ListUserRoles.Execute(ctx, userID)
	if err != nil {
		h.log().Error("list user roles failed",
			"event", "authz_http_list_user_roles_failed",
			"user_id", userID,
			"error", err.Error(),
		)
		return httptransport.ListUserRolesResponse{}, err
	}
	resp := httptransport.ListUserRolesResponse{
		UserID: userID,
		Roles:  make([]httptransport.RoleAssignmentDTO, len(assignments)),
	}
	for i, assignment := range assignments {
		resp.Roles[i] = toAssignmentDTO(assignment)
	}
	return resp, nil
}

func (h Handler) GrantRoleHandler(
	ctx context.Context,
	userID string,
	adminID string,
	request httptransport.GrantRoleRequest,
) (httptransport.RoleAssignmentDTO, error) {
	h.log().Info("role grant requested",
		"event", "authz_http_grant_requested",
		"user_id", userID,
		"admin_id", adminID,
		"role_id", request.RoleID,
	)
	assignment, err := h.GrantRole.Execute(ctx, commands.GrantRoleCommand{
		UserID:    userID,
		RoleID:    request.RoleID,
		AdminID:   adminID,
		Reason:    request.Reason,
		ExpiresAt: request.ExpiresAt,
	})
	if err != nil {
		return httptransport.RoleAssignmentDTO{}, err
	}
	return toAssignmentDTO(assignment), nil
}

func (h Handler) RevokeRoleHandler(
	ctx context.Context,
	userID string,
	adminID string,
	request httptransport.RevokeRoleRequest,
) (httptransport.RoleAssignmentDTO, error) {
	h.log().Info("role revoke requested",
		"event", "authz_http_revoke_requested",
		"user_id", userID,
		"admin_id", adminID,
		"role_id", request.RoleID,
	)
	assignment, err := h.RevokeRole.Execute(ctx, commands.RevokeRoleCommand{
		UserID:  userID,
		RoleID:  request.RoleID,
		AdminID: adminID,
		Reason:  request.Reason,
	})
	if err != nil {
		return httptransport.RoleAssignmentDTO{}, err
	}
	return toAssignmentDTO(assignment), nil
}

func toAssignmentDTO(assignment entities.RoleAssignment) httptransport.RoleAssignmentDTO {
	return httptransport.RoleAssignmentDTO{
		AssignmentID: assignment.AssignmentID,
		UserID:       assignment.UserID,
		RoleID:       assignment.RoleID,
		RoleName:     assignment.RoleName,
		AssignedBy:   assignment.AssignedBy,
		Reason:       assignment.Reason,
		AssignedAt:   assignment.AssignedAt,
		ExpiresAt:    assignment.ExpiresAt,
		IsActive:     assignment.IsActive,
		RevokedAt:    assignment.RevokedAt,
	}
}
