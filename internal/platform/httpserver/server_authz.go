package httpserver

import (
	"net/http"

	authzentities "kura/contexts/identity-access/authorization-service/domain/entities"
	authzhttp "kura/contexts/identity-access/authorization-service/transport/http"
)

func (s *Server) registerAuthzRoutes() {
	s.mux.HandleFunc("POST /api/authz/v1/check", s.handleAuthzCheck)
	s.mux.HandleFunc("GET /api/authz/v1/roles", s.handleAuthzListRoles)
	s.mux.HandleFunc("GET /api/authz/v1/users/{user_id}/roles", s.handleAuthzListUserRoles)
	s.mux.HandleFunc("POST /api/authz/v1/users/{user_id}/roles/grant", s.handleAuthzGrantRole)
	s.mux.HandleFunc("POST /api/authz/v1/users/{user_id}/roles/revoke", s.handleAuthzRevokeRole)
}

// handleAuthzCheck evaluates a permission for the calling user only.
func (s *Server) handleAuthzCheck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req authzhttp.CheckPermissionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.authorization.Handler.CheckPermissionHandler(r.Context(), userID, req)
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAuthzListRoles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.authorization.Handler.ListRolesHandler(r.Context()))
}

func (s *Server) handleAuthzListUserRoles(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r, authzentities.PermissionAuditRead); !ok {
		return
	}
	resp, err := s.authorization.Handler.ListUserRolesHandler(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Grant and revoke check election.roles.manage inside the use case.
func (s *Server) handleAuthzGrantRole(w http.ResponseWriter, r *http.Request) {
	adminID, ok := requireAdminHeader(w, r)
	if !ok {
		return
	}
	var req authzhttp.GrantRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.authorization.Handler.GrantRoleHandler(r.Context(), r.PathValue("user_id"), adminID, req)
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAuthzRevokeRole(w http.ResponseWriter, r *http.Request) {
	adminID, ok := requireAdminHeader(w, r)
	if !ok {
		return
	}
	var req authzhttp.RevokeRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.authorization.Handler.RevokeRoleHandler(r.Context(), r.PathValue("user_id"), adminID, req)
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
