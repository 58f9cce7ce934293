package httpserver

import (
	"net/http"

	authzentities "kura/contexts/identity-access/authorization-service/domain/entities"
	electionhttp "kura/contexts/student-governance/election-engine/transport/http"
)

func (s *Server) registerElectionRoutes() {
	s.mux.HandleFunc("GET /api/election/v1/phase", s.handleCurrentPhase)
	s.mux.HandleFunc("PUT /api/election/v1/phase", s.handleSetPhase)
	s.mux.HandleFunc("POST /api/election/v1/phase/advance", s.handleAdvancePhase)
	s.mux.HandleFunc("GET /api/election/v1/phase/log", s.handlePhaseLog)

	s.mux.HandleFunc("POST /api/election/v1/candidacies", s.handleApplyCandidacy)
	s.mux.HandleFunc("GET /api/election/v1/candidacies/me", s.handleCandidacyStatus)
	s.mux.HandleFunc("GET /api/election/v1/candidacies/by-registration/{registration_number}", s.handleCandidacyStatusByRegistration)
	s.mux.HandleFunc("GET /api/election/v1/candidacies/pending", s.handlePendingCandidacies)
	s.mux.HandleFunc("POST /api/election/v1/candidacies/{candidate_id}/review", s.handleReviewCandidacy)
	s.mux.HandleFunc("GET /api/election/v1/schools/{school_id}/departments/{department_id}/candidates", s.handleApprovedCandidates)

	s.mux.HandleFunc("POST /api/election/v1/delegate-votes", s.handleCastDelegateVote)
	s.mux.HandleFunc("GET /api/election/v1/delegate-votes/me", s.handleDelegateVotingStatus)
	s.mux.HandleFunc("GET /api/election/v1/delegates", s.handleAllDelegateResults)
	s.mux.HandleFunc("GET /api/election/v1/delegates/me", s.handleMyDepartmentResult)
	s.mux.HandleFunc("POST /api/election/v1/delegates/tally", s.handleTallyDelegates)
	s.mux.HandleFunc("GET /api/election/v1/schools/{school_id}/departments/{department_id}/delegate", s.handleElectedForDepartment)

	s.mux.HandleFunc("POST /api/election/v1/parties", s.handleRegisterParty)
	s.mux.HandleFunc("GET /api/election/v1/parties", s.handleListParties)
	s.mux.HandleFunc("GET /api/election/v1/parties/{party_id}", s.handleGetParty)

	s.mux.HandleFunc("POST /api/election/v1/council-votes", s.handleCastCouncilBallot)
	s.mux.HandleFunc("GET /api/election/v1/council-votes/me", s.handleCouncilVotingStatus)
	s.mux.HandleFunc("GET /api/election/v1/council-votes", s.handleAllCouncilVotes)
	s.mux.HandleFunc("GET /api/election/v1/council/results", s.handleCouncilResults)

	s.mux.HandleFunc("POST /api/election/v1/admin/reset", s.handleResetElection)
}

func (s *Server) handleCurrentPhase(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.CurrentPhaseHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetPhase(w http.ResponseWriter, r *http.Request) {
	adminID, ok := s.requireAdmin(w, r, authzentities.PermissionPhaseManage)
	if !ok {
		return
	}
	var req electionhttp.SetPhaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.election.Handler.SetPhaseHandler(r.Context(), adminID, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdvancePhase(w http.ResponseWriter, r *http.Request) {
	adminID, ok := s.requireAdmin(w, r, authzentities.PermissionPhaseManage)
	if !ok {
		return
	}
	resp, err := s.election.Handler.AdvancePhaseHandler(r.Context(), adminID)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePhaseLog(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r, authzentities.PermissionAuditRead); !ok {
		return
	}
	resp, err := s.election.Handler.PhaseLogHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApplyCandidacy(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req electionhttp.ApplyCandidacyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.election.Handler.ApplyCandidacyHandler(r.Context(), studentID, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCandidacyStatus(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.election.Handler.CandidacyStatusHandler(r.Context(), studentID)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCandidacyStatusByRegistration(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.CandidacyStatusByRegistrationHandler(r.Context(), r.PathValue("registration_number"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePendingCandidacies(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r, authzentities.PermissionCandidacyReview); !ok {
		return
	}
	resp, err := s.election.Handler.PendingCandidaciesHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewCandidacy(w http.ResponseWriter, r *http.Request) {
	adminID, ok := s.requireAdmin(w, r, authzentities.PermissionCandidacyReview)
	if !ok {
		return
	}
	var req electionhttp.ReviewCandidacyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.election.Handler.ReviewCandidacyHandler(r.Context(), adminID, r.PathValue("candidate_id"), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApprovedCandidates(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.ApprovedCandidatesHandler(r.Context(), r.PathValue("school_id"), r.PathValue("department_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastDelegateVote(w http.ResponseWriter, r *http.Request) {
	voterID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req electionhttp.CastDelegateVoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.election.Handler.CastDelegateVoteHandler(r.Context(), voterID, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleDelegateVotingStatus(w http.ResponseWriter, r *http.Request) {
	voterID, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.election.Handler.DelegateVotingStatusHandler(r.Context(), voterID)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAllDelegateResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.AllDelegateResultsHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMyDepartmentResult(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.election.Handler.MyDepartmentResultHandler(r.Context(), studentID)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTallyDelegates(w http.ResponseWriter, r *http.Request) {
	adminID, ok := s.requireAdmin(w, r, authzentities.PermissionResultsTally)
	if !ok {
		return
	}
	resp, err := s.election.Handler.TallyDelegatesHandler(r.Context(), adminID)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleElectedForDepartment(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.ElectedForDepartmentHandler(r.Context(), r.PathValue("school_id"), r.PathValue("department_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegisterParty(w http.ResponseWriter, r *http.Request) {
	adminID, ok := s.requireAdmin(w, r, authzentities.PermissionPartyRegister)
	if !ok {
		return
	}
	var req electionhttp.RegisterPartyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.election.Handler.RegisterPartyHandler(r.Context(), adminID, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListParties(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.ListPartiesHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetParty(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.GetPartyHandler(r.Context(), r.PathValue("party_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastCouncilBallot(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req electionhttp.CastCouncilBallotRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.election.Handler.CastCouncilBallotHandler(r.Context(), delegateID, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCouncilVotingStatus(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.election.Handler.CouncilVotingStatusHandler(r.Context(), delegateID)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAllCouncilVotes(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r, authzentities.PermissionAuditRead); !ok {
		return
	}
	resp, err := s.election.Handler.AllCouncilVotesHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCouncilResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.CouncilResultsHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResetElection(w http.ResponseWriter, r *http.Request) {
	adminID, ok := s.requireAdmin(w, r, authzentities.PermissionReset)
	if !ok {
		return
	}
	resp, err := s.election.Handler.ResetElectionHandler(r.Context(), adminID)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
