package services

import (
	"sort"
	"time"

	"kura/contexts/identity-access/authorization-service/domain/entities"
)

// GrantsPermission reports whether permission is in the effective set.
func GrantsPermission(permissions []string, permission string) bool {
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// EffectivePermissions folds the permissions of every assignment that is in
// force at now into a sorted, de-duplicated list. Assignments naming a role
// outside the catalog grant nothing.
func EffectivePermissions(assignments []entities.RoleAssignment, now time.Time) []string {
	set := make(map[string]struct{})
	for _, assignment := range assignments {
		if !assignment.Effective(now) {
			continue
		}
		role, ok := entities.LookupRole(assignment.RoleID)
		if !ok {
			continue
		}
		for _, permission := range role.Permissions {
			set[permission] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for permission := range set {
		out = append(out, permission)
	}
	sort.Strings(out)
	return out
}
