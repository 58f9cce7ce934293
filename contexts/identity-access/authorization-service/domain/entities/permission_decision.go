package entities

import "time"

// Decision reasons reported by CheckPermission.
const (
	ReasonGranted     = "permission_granted"
	ReasonMissing     = "permission_missing"
	ReasonDenyDefault = "deny_by_default"
)

// PermissionDecision is the outcome of one permission check. Allowed is only
// true when Reason is ReasonGranted.
type PermissionDecision struct {
	UserID     string    `json:"user_id"`
	Permission string    `json:"permission"`
	Allowed    bool      `json:"allowed"`
	Reason     string    `json:"reason"`
	CheckedAt  time.Time `json:"checked_at"`
	CacheHit   bool      `json:"cache_hit"`
}

func NewPermissionDecision(userID string, permission string, allowed bool, cacheHit bool, checkedAt time.Time) PermissionDecision {
	reason := ReasonMissing
	if allowed {
		reason = ReasonGranted
	}
	return PermissionDecision{
		UserID:     userID,
		Permission: permission,
		Allowed:    allowed,
		Reason:     reason,
		CheckedAt:  checkedAt,
		CacheHit:   cacheHit,
	}
}

// DenyByDefault is returned when the permission set could not be loaded.
func DenyByDefault(userID string, permission string, checkedAt time.Time) PermissionDecision {
	return PermissionDecision{
		UserID:     userID,
		Permission: permission,
		Reason:     ReasonDenyDefault,
		CheckedAt:  checkedAt,
	}
}
