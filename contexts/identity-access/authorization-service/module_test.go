package authorization_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	authorization "kura/contexts/identity-access/authorization-service"
	"kura/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "kura/contexts/identity-access/authorization-service/domain/errors"
	httptransport "kura/contexts/identity-access/authorization-service/transport/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModule(t *testing.T, admins ...string) authorization.Module {
	t.Helper()
	module := authorization.NewInMemoryModule(slog.New(slog.NewTextHandler(io.Discard, nil)))
	seeded, err := module.SeedAdmins.Execute(context.Background(), admins)
	require.NoError(t, err)
	require.Equal(t, len(admins), seeded)
	return module
}

func check(t *testing.T, module authorization.Module, userID, permission string) httptransport.CheckPermissionResponse {
	t.Helper()
	decision, err := module.Handler.CheckPermissionHandler(context.Background(), userID, httptransport.CheckPermissionRequest{
		Permission: permission,
	})
	require.NoError(t, err)
	return decision
}

func TestSeededAdminHoldsEveryPermission(t *testing.T) {
	module := newModule(t, "admin-1")

	for _, permission := range []string{
		entities.PermissionPhaseManage,
		entities.PermissionCandidacyReview,
		entities.PermissionResultsTally,
		entities.PermissionReset,
		entities.PermissionAuditRead,
		entities.PermissionRolesManage,
	} {
		decision := check(t, module, "admin-1", permission)
		assert.True(t, decision.Allowed, permission)
		assert.Equal(t, "permission_granted", decision.Reason)
	}

	decision := check(t, module, "someone-else", entities.PermissionPhaseManage)
	assert.False(t, decision.Allowed)
	assert.Equal(t, "permission_missing", decision.Reason)
}

func TestSeedAdminsSkipsExistingGrants(t *testing.T) {
	module := newModule(t, "admin-1")

	seeded, err := module.SeedAdmins.Execute(context.Background(), []string{"admin-1", " ", "admin-2"})
	require.NoError(t, err)
	assert.Equal(t, 1, seeded)

	roles, err := module.Handler.ListUserRolesHandler(context.Background(), "admin-1")
	require.NoError(t, err)
	require.Len(t, roles.Roles, 1)
	assert.Equal(t, "system", roles.Roles[0].AssignedBy)
}

func TestCheckPermissionUsesCacheAfterFirstLookup(t *testing.T) {
	module := newModule(t, "admin-1")

	first := check(t, module, "admin-1", entities.PermissionReset)
	second := check(t, module, "admin-1", entities.PermissionReset)
	assert.False(t, first.CacheHit)
	assert.True(t, second.CacheHit)
	assert.True(t, second.Allowed)
}

func TestCheckPermissionValidatesInput(t *testing.T) {
	module := newModule(t)

	_, err := module.Handler.CheckPermissionHandler(context.Background(), "", httptransport.CheckPermissionRequest{
		Permission: entities.PermissionReset,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidUserID)

	_, err = module.Handler.CheckPermissionHandler(context.Background(), "u1", httptransport.CheckPermissionRequest{})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidPermission)
}

func TestGrantAndRevokeReturningOfficer(t *testing.T) {
	ctx := context.Background()
	module := newModule(t, "admin-1")

	assignment, err := module.Handler.GrantRoleHandler(ctx, "officer-1", "admin-1", httptransport.GrantRoleRequest{
		RoleID: entities.RoleReturningOfficer,
		Reason: "returning officer for 2026",
	})
	require.NoError(t, err)
	assert.True(t, assignment.IsActive)
	assert.Equal(t, "admin-1", assignment.AssignedBy)

	assert.True(t, check(t, module, "officer-1", entities.PermissionCandidacyReview).Allowed)
	assert.True(t, check(t, module, "officer-1", entities.PermissionResultsTally).Allowed)
	assert.False(t, check(t, module, "officer-1", entities.PermissionReset).Allowed)

	_, err = module.Handler.GrantRoleHandler(ctx, "officer-1", "admin-1", httptransport.GrantRoleRequest{
		RoleID: entities.RoleReturningOfficer,
	})
	assert.ErrorIs(t, err, domainerrors.ErrRoleAlreadyAssigned)

	revoked, err := module.Handler.RevokeRoleHandler(ctx, "officer-1", "admin-1", httptransport.RevokeRoleRequest{
		RoleID: entities.RoleReturningOfficer,
	})
	require.NoError(t, err)
	assert.False(t, revoked.IsActive)
	require.NotNil(t, revoked.RevokedAt)

	// Revoking drops the cached permission set.
	assert.False(t, check(t, module, "officer-1", entities.PermissionCandidacyReview).Allowed)

	_, err = module.Handler.RevokeRoleHandler(ctx, "officer-1", "admin-1", httptransport.RevokeRoleRequest{
		RoleID: entities.RoleReturningOfficer,
	})
	assert.ErrorIs(t, err, domainerrors.ErrRoleNotAssigned)
}

func TestGrantRoleRequiresRolesManage(t *testing.T) {
	ctx := context.Background()
	module := newModule(t, "admin-1")

	_, err := module.Handler.GrantRoleHandler(ctx, "officer-1", "admin-1", httptransport.GrantRoleRequest{
		RoleID: entities.RoleReturningOfficer,
	})
	require.NoError(t, err)

	_, err = module.Handler.GrantRoleHandler(ctx, "officer-2", "officer-1", httptransport.GrantRoleRequest{
		RoleID: entities.RoleReturningOfficer,
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = module.Handler.GrantRoleHandler(ctx, "officer-2", "admin-1", httptransport.GrantRoleRequest{
		RoleID: "superuser",
	})
	assert.ErrorIs(t, err, domainerrors.ErrRoleNotFound)
}

func TestAdminCannotRevokeOwnAdminRole(t *testing.T) {
	module := newModule(t, "admin-1")

	_, err := module.Handler.RevokeRoleHandler(context.Background(), "admin-1", "admin-1", httptransport.RevokeRoleRequest{
		RoleID: entities.RoleElectionAdmin,
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	assert.True(t, check(t, module, "admin-1", entities.PermissionRolesManage).Allowed)
}

func TestExpiredGrantStopsApplying(t *testing.T) {
	ctx := context.Background()
	module := newModule(t, "admin-1")
	now := time.Now().UTC()
	module.Store.SetClock(func() time.Time { return now })

	expires := now.Add(time.Hour)
	_, err := module.Handler.GrantRoleHandler(ctx, "officer-1", "admin-1", httptransport.GrantRoleRequest{
		RoleID:    entities.RoleReturningOfficer,
		ExpiresAt: &expires,
	})
	require.NoError(t, err)
	assert.True(t, check(t, module, "officer-1", entities.PermissionResultsTally).Allowed)

	// Past both the grant expiry and the permission cache TTL.
	module.Store.SetClock(func() time.Time { return now.Add(2 * time.Hour) })
	assert.False(t, check(t, module, "officer-1", entities.PermissionResultsTally).Allowed)

	past := now.Add(time.Minute)
	_, err = module.Handler.GrantRoleHandler(ctx, "officer-2", "admin-1", httptransport.GrantRoleRequest{
		RoleID:    entities.RoleReturningOfficer,
		ExpiresAt: &past,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestListRolesReturnsCatalog(t *testing.T) {
	module := newModule(t)
	roles := module.Handler.ListRolesHandler(context.Background())
	require.Len(t, roles.Roles, 2)
	assert.Equal(t, entities.RoleElectionAdmin, roles.Roles[0].RoleID)
	assert.Equal(t, entities.RoleReturningOfficer, roles.Roles[1].RoleID)
}
