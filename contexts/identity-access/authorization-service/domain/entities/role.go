package entities

import "sort"

const (
	PermissionPhaseManage     = "election.phase.manage"
	PermissionCandidacyReview = "election.candidacy.review"
	PermissionResultsTally    = "election.results.tally"
	PermissionReset           = "election.reset"
	PermissionAuditRead       = "election.audit.read"
	PermissionRolesManage     = "election.roles.manage"
	PermissionPartyRegister   = "election.party.register"
)

const (
	RoleElectionAdmin    = "election_admin"
	RoleReturningOfficer = "returning_officer"
)

// Role models a permission bundle that can be assigned to users.
type Role struct {
	RoleID      string   `json:"role_id"`
	RoleName    string   `json:"role_name"`
	Permissions []string `json:"permissions"`
}

// Catalog returns the fixed election roles ordered by id.
func Catalog() []Role {
	roles := []Role{
		{
			RoleID:   RoleElectionAdmin,
			RoleName: "Election administrator",
			Permissions: []string{
				PermissionPhaseManage,
				PermissionCandidacyReview,
				PermissionResultsTally,
				PermissionReset,
				PermissionAuditRead,
				PermissionRolesManage,
				PermissionPartyRegister,
			},
		},
		{
			RoleID:   RoleReturningOfficer,
			RoleName: "Returning officer",
			Permissions: []string{
				PermissionCandidacyReview,
				PermissionResultsTally,
				PermissionPartyRegister,
			},
		},
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].RoleID < roles[j].RoleID })
	return roles
}

func LookupRole(roleID string) (Role, bool) {
	for _, role := range Catalog() {
		if role.RoleID == roleID {
			return role, true
		}
	}
	return Role{}, false
}
