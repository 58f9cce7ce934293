package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"kura/contexts/identity-access/authorization-service/adapters/memory"
	"kura/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "kura/contexts/identity-access/authorization-service/domain/errors"
	"kura/contexts/identity-access/authorization-service/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepository struct {
	ports.Repository
}

func (failingRepository) ListEffectivePermissions(context.Context, string, time.Time) ([]string, error) {
	return nil, errors.Join(domainerrors.ErrStoreUnavailable, errors.New("connection refused"))
}

func TestCheckPermissionDeniesWhenLookupFails(t *testing.T) {
	useCase := CheckPermissionUseCase{Repository: failingRepository{}}

	decision, err := useCase.Execute(context.Background(), CheckPermissionQuery{
		UserID:     "admin-1",
		Permission: entities.PermissionReset,
	})
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, entities.ReasonDenyDefault, decision.Reason)
	assert.False(t, decision.CacheHit)
}

func TestCheckPermissionCachesForTTL(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })
	_, err := store.GrantRole(context.Background(), ports.GrantRoleInput{
		AssignmentID: "asg-1",
		UserID:       "officer-1",
		RoleID:       entities.RoleReturningOfficer,
		AdminID:      "system",
		AssignedAt:   now,
	})
	require.NoError(t, err)

	useCase := CheckPermissionUseCase{
		Repository:         store,
		PermissionCache:    store,
		Clock:              store,
		PermissionCacheTTL: time.Minute,
	}
	query := CheckPermissionQuery{UserID: "officer-1", Permission: entities.PermissionCandidacyReview}

	first, err := useCase.Execute(context.Background(), query)
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	assert.False(t, first.CacheHit)

	second, err := useCase.Execute(context.Background(), query)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)

	now = now.Add(2 * time.Minute)
	third, err := useCase.Execute(context.Background(), query)
	require.NoError(t, err)
	assert.False(t, third.CacheHit)
	assert.Equal(t, entities.ReasonGranted, third.Reason)
}
