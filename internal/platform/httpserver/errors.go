package httpserver

import (
	"errors"
	"net/http"

	authzerrors "kura/contexts/identity-access/authorization-service/domain/errors"
	electionerrors "kura/contexts/student-governance/election-engine/domain/errors"
	electionhttp "kura/contexts/student-governance/election-engine/transport/http"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Specific not-found kinds precede the generic ErrNotFound they wrap.
var electionErrorMappings = []errorMapping{
	{electionerrors.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{electionerrors.ErrInvalidPhase, http.StatusBadRequest, "invalid_phase"},
	{electionerrors.ErrSkippedPhase, http.StatusBadRequest, "skipped_phase"},
	{electionerrors.ErrIncompleteSlate, http.StatusBadRequest, "incomplete_slate"},
	{electionerrors.ErrIncompleteBallot, http.StatusBadRequest, "incomplete_ballot"},
	{electionerrors.ErrDuplicateNominee, http.StatusBadRequest, "duplicate_nominee"},

	{electionerrors.ErrPhaseClosed, http.StatusForbidden, "phase_closed"},
	{electionerrors.ErrNotEligible, http.StatusForbidden, "not_eligible"},
	{electionerrors.ErrSelfVote, http.StatusForbidden, "self_vote"},
	{electionerrors.ErrDepartmentMismatch, http.StatusForbidden, "department_mismatch"},
	{electionerrors.ErrNotDelegate, http.StatusForbidden, "not_delegate"},
	{electionerrors.ErrDelegateConflict, http.StatusForbidden, "delegate_conflict"},

	{electionerrors.ErrStudentNotFound, http.StatusNotFound, "student_not_found"},
	{electionerrors.ErrCandidateNotFound, http.StatusNotFound, "candidate_not_found"},
	{electionerrors.ErrPartyNotFound, http.StatusNotFound, "party_not_found"},
	{electionerrors.ErrNotFound, http.StatusNotFound, "not_found"},

	{electionerrors.ErrDuplicateCandidacy, http.StatusConflict, "duplicate_candidacy"},
	{electionerrors.ErrDuplicateName, http.StatusConflict, "duplicate_name"},
	{electionerrors.ErrAlreadyReviewed, http.StatusConflict, "already_reviewed"},
	{electionerrors.ErrAlreadyVoted, http.StatusConflict, "already_voted"},
	{electionerrors.ErrAlreadyAssigned, http.StatusConflict, "already_assigned"},
	{electionerrors.ErrPhaseConflict, http.StatusConflict, "phase_conflict"},
	{electionerrors.ErrTerminalPhase, http.StatusConflict, "terminal_phase"},
}

var authzErrorMappings = []errorMapping{
	{authzerrors.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{authzerrors.ErrInvalidPermission, http.StatusBadRequest, "invalid_permission"},
	{authzerrors.ErrInvalidUserID, http.StatusBadRequest, "invalid_user_id"},
	{authzerrors.ErrInvalidRoleID, http.StatusBadRequest, "invalid_role_id"},
	{authzerrors.ErrInvalidAdminID, http.StatusBadRequest, "invalid_admin_id"},
	{authzerrors.ErrForbidden, http.StatusForbidden, "forbidden"},
	{authzerrors.ErrRoleNotFound, http.StatusNotFound, "role_not_found"},
	{authzerrors.ErrRoleAlreadyAssigned, http.StatusConflict, "role_already_assigned"},
	{authzerrors.ErrRoleNotAssigned, http.StatusConflict, "role_not_assigned"},
}

func writeElectionDomainError(w http.ResponseWriter, err error) {
	if errors.Is(err, electionerrors.ErrStoreUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "election store is temporarily unavailable")
		return
	}
	writeMappedError(w, err, electionErrorMappings)
}

func writeAuthzDomainError(w http.ResponseWriter, err error) {
	if errors.Is(err, authzerrors.ErrStoreUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "authorization store is temporarily unavailable")
		return
	}
	writeMappedError(w, err, authzErrorMappings)
}

func writeMappedError(w http.ResponseWriter, err error, mappings []errorMapping) {
	for _, mapping := range mappings {
		if errors.Is(err, mapping.target) {
			writeError(w, mapping.status, mapping.code, err.Error())
			return
		}
	}
	writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, electionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
