package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "kura/contexts/identity-access/authorization-service/application"
	"kura/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "kura/contexts/identity-access/authorization-service/domain/errors"
	"kura/contexts/identity-access/authorization-service/domain/services"
	"kura/contexts/identity-access/authorization-service/ports"
)

const defaultPermissionCacheTTL = 30 * time.Second

// CheckPermissionQuery asks whether UserID currently holds Permission.
// Route only travels into the decision log.
type CheckPermissionQuery struct {
	UserID     string
	Permission string
	Route      string
}

// CheckPermissionUseCase answers admin-route guards. The effective permission
// set of a user is cached until its TTL passes; any lookup failure denies.
type CheckPermissionUseCase struct {
	Repository         ports.Repository
	PermissionCache    ports.PermissionCache
	Clock              ports.Clock
	PermissionCacheTTL time.Duration
	Logger             *slog.Logger
}

func (u CheckPermissionUseCase) Execute(ctx context.Context, query CheckPermissionQuery) (entities.PermissionDecision, error) {
	userID := strings.TrimSpace(query.UserID)
	permission := strings.TrimSpace(query.Permission)
	switch {
	case userID == "":
		return entities.PermissionDecision{}, domainerrors.ErrInvalidUserID
	case permission == "":
		return entities.PermissionDecision{}, domainerrors.ErrInvalidPermission
	}

	logger := application.ResolveLogger(u.Logger).With(
		"module", "identity-access/authorization-service",
		"layer", "application",
		"user_id", userID,
		"permission", permission,
		"route", query.Route,
	)
	checkedAt := resolveNow(u.Clock)

	granted, cacheHit, err := u.effectivePermissions(ctx, userID, checkedAt)
	if err != nil {
		logger.Error("permission lookup failed, denying",
			"event", "authz_permission_lookup_failed",
			"error", err.Error(),
		)
		return entities.DenyByDefault(userID, permission, checkedAt), nil
	}

	decision := entities.NewPermissionDecision(userID, permission,
		services.GrantsPermission(granted, permission), cacheHit, checkedAt)
	level := slog.LevelDebug
	if !decision.Allowed {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, "permission checked",
		"event", "authz_check_completed",
		"allowed", decision.Allowed,
		"reason", decision.Reason,
		"cache_hit", cacheHit,
	)
	return decision, nil
}

// effectivePermissions prefers the cache and refills it after a store read.
func (u CheckPermissionUseCase) effectivePermissions(ctx context.Context, userID string, now time.Time) ([]string, bool, error) {
	if u.PermissionCache != nil {
		cached, hit, err := u.PermissionCache.Get(ctx, userID, now)
		if err != nil {
			return nil, false, err
		}
		if hit {
			return cached, true, nil
		}
	}

	granted, err := u.Repository.ListEffectivePermissions(ctx, userID, now)
	if err != nil {
		return nil, false, err
	}
	if u.PermissionCache != nil {
		ttl := u.PermissionCacheTTL
		if ttl <= 0 {
			ttl = defaultPermissionCacheTTL
		}
		_ = u.PermissionCache.Set(ctx, userID, granted, now.Add(ttl))
	}
	return granted, false, nil
}

func resolveNow(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}
