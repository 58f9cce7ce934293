package services

import (
	"testing"
	"time"

	"kura/contexts/identity-access/authorization-service/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectivePermissionsUnionsActiveRoles(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	permissions := EffectivePermissions([]entities.RoleAssignment{
		{UserID: "u1", RoleID: entities.RoleReturningOfficer, IsActive: true, ExpiresAt: &future},
		{UserID: "u1", RoleID: entities.RoleElectionAdmin, IsActive: true, ExpiresAt: &past},
		{UserID: "u1", RoleID: "unknown", IsActive: true},
	}, now)

	require.Equal(t, []string{
		entities.PermissionCandidacyReview,
		entities.PermissionPartyRegister,
		entities.PermissionResultsTally,
	}, permissions)
	assert.True(t, GrantsPermission(permissions, entities.PermissionResultsTally))
	assert.False(t, GrantsPermission(permissions, entities.PermissionReset))
}

func TestEffectivePermissionsIgnoresRevoked(t *testing.T) {
	now := time.Now().UTC()
	permissions := EffectivePermissions([]entities.RoleAssignment{
		{UserID: "u1", RoleID: entities.RoleElectionAdmin, IsActive: false, RevokedAt: &now},
	}, now)
	assert.Empty(t, permissions)
}

func TestCatalogAdminHoldsEveryPermission(t *testing.T) {
	admin, ok := entities.LookupRole(entities.RoleElectionAdmin)
	require.True(t, ok)
	for _, role := range entities.Catalog() {
		for _, permission := range role.Permissions {
			assert.True(t, GrantsPermission(admin.Permissions, permission), permission)
		}
	}
}
