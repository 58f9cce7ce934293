package ports

import (
	"context"
	"time"

	"kura/contexts/identity-access/authorization-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts id generation for assignment rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// PermissionCache stores effective permissions with TTL semantics.
type PermissionCache interface {
	Get(ctx context.Context, userID string, now time.Time) ([]string, bool, error)
	Set(ctx context.Context, userID string, permissions []string, expiresAt time.Time) error
	Invalidate(ctx context.Context, userID string) error
}

// GrantRoleInput is written as one assignment row.
type GrantRoleInput struct {
	AssignmentID string
	UserID       string
	RoleID       string
	AdminID      string
	Reason       string
	AssignedAt   time.Time
	ExpiresAt    *time.Time
}

// RevokeRoleInput deactivates the active assignment for (UserID, RoleID).
type RevokeRoleInput struct {
	UserID    string
	RoleID    string
	AdminID   string
	Reason    string
	RevokedAt time.Time
}

// Repository persists role assignments. GrantRole fails with
// ErrRoleAlreadyAssigned when an effective assignment exists; RevokeRole
// fails with ErrRoleNotAssigned when none does.
type Repository interface {
	ListEffectivePermissions(ctx context.Context, userID string, now time.Time) ([]string, error)
	ListUserRoles(ctx context.Context, userID string) ([]entities.RoleAssignment, error)
	GrantRole(ctx context.Context, input GrantRoleInput) (entities.RoleAssignment, error)
	RevokeRole(ctx context.Context, input RevokeRoleInput) (entities.RoleAssignment, error)
}
