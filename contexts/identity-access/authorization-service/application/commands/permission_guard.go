package commands

import (
	"context"
	"time"

	domainerrors "kura/contexts/identity-access/authorization-service/domain/errors"
	"kura/contexts/identity-access/authorization-service/domain/services"
	"kura/contexts/identity-access/authorization-service/ports"
)

func ensureActorPermission(
	ctx context.Context,
	repository ports.Repository,
	actorID string,
	permission string,
	now time.Time,
) error {
	permissions, err := repository.ListEffectivePermissions(ctx, actorID, now)
	if err != nil {
		return err
	}
	if !services.GrantsPermission(permissions, permission) {
		return domainerrors.ErrForbidden
	}
	return nil
}

func invalidateCache(ctx context.Context, cache ports.PermissionCache, userID string) error {
	if cache == nil {
		return nil
	}
	return cache.Invalidate(ctx, userID)
}

func resolveNow(clock ports.Clock) time.Time {
	if clock != nil {
		return clock.Now().UTC()
	}
	return time.Now().UTC()
}
