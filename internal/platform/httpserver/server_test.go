package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	authorization "kura/contexts/identity-access/authorization-service"
	electionengine "kura/contexts/student-governance/election-engine"
	"kura/contexts/student-governance/election-engine/domain/entities"
	electionhttp "kura/contexts/student-governance/election-engine/transport/http"
	"kura/internal/platform/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdmin = "admin-1"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	students := []entities.Student{
		{StudentID: "s1", RegistrationNumber: "REG-1", Name: "Amina", SchoolID: "sch-1", DepartmentID: "dep-1", MeanScore: 72},
		{StudentID: "s2", RegistrationNumber: "REG-2", Name: "Brian", SchoolID: "sch-1", DepartmentID: "dep-1", MeanScore: 55},
	}
	election := electionengine.NewInMemoryModule(students, logger)
	authz := authorization.NewInMemoryModule(logger)
	_, err := authz.SeedAdmins.Execute(context.Background(), []string{testAdmin})
	require.NoError(t, err)
	return New(election, authz, metrics.New(), logger, ":0")
}

func do(t *testing.T, server *Server, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) electionhttp.ErrorResponse {
	t.Helper()
	var resp electionhttp.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func admin() map[string]string { return map[string]string{headerAdminID: testAdmin} }

func TestHealthz(t *testing.T) {
	rr := do(t, newTestServer(t), http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAdminRoutesRequireAdminHeader(t *testing.T) {
	server := newTestServer(t)

	rr := do(t, server, http.MethodPost, "/api/election/v1/phase/advance", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "missing_admin", decodeError(t, rr).Code)
}

func TestAdminRoutesDenyCallersWithoutPermission(t *testing.T) {
	server := newTestServer(t)

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/election/v1/phase/advance"},
		{http.MethodPut, "/api/election/v1/phase"},
		{http.MethodGet, "/api/election/v1/phase/log"},
		{http.MethodGet, "/api/election/v1/candidacies/pending"},
		{http.MethodPost, "/api/election/v1/delegates/tally"},
		{http.MethodPost, "/api/election/v1/parties"},
		{http.MethodGet, "/api/election/v1/council-votes"},
		{http.MethodPost, "/api/election/v1/admin/reset"},
	} {
		rr := do(t, server, route.method, route.path, nil, map[string]string{headerAdminID: "s1"})
		assert.Equal(t, http.StatusForbidden, rr.Code, route.path)
		assert.Equal(t, "forbidden", decodeError(t, rr).Code, route.path)
	}
}

func TestPhaseFlowAndErrorMapping(t *testing.T) {
	server := newTestServer(t)

	rr := do(t, server, http.MethodGet, "/api/election/v1/phase", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var phase electionhttp.PhaseResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &phase))
	assert.Equal(t, 0, phase.Phase)

	rr = do(t, server, http.MethodPut, "/api/election/v1/phase", electionhttp.SetPhaseRequest{Phase: 3}, admin())
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "skipped_phase", decodeError(t, rr).Code)

	rr = do(t, server, http.MethodPut, "/api/election/v1/phase", electionhttp.SetPhaseRequest{Phase: 9}, admin())
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_phase", decodeError(t, rr).Code)

	rr = do(t, server, http.MethodPost, "/api/election/v1/candidacies", electionhttp.ApplyCandidacyRequest{}, map[string]string{headerUserID: "s1"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "phase_closed", decodeError(t, rr).Code)

	rr = do(t, server, http.MethodPost, "/api/election/v1/phase/advance", nil, admin())
	require.Equal(t, http.StatusOK, rr.Code)
	var transition electionhttp.PhaseTransitionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &transition))
	assert.Equal(t, 1, transition.Current.Phase)
}

func TestCandidacyOverHTTP(t *testing.T) {
	server := newTestServer(t)
	require.Equal(t, http.StatusOK, do(t, server, http.MethodPut, "/api/election/v1/phase", electionhttp.SetPhaseRequest{Phase: 1}, admin()).Code)

	rr := do(t, server, http.MethodPost, "/api/election/v1/candidacies", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, server, http.MethodPost, "/api/election/v1/candidacies", electionhttp.ApplyCandidacyRequest{Manifesto: "x"}, map[string]string{headerUserID: "s2"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "not_eligible", decodeError(t, rr).Code)

	rr = do(t, server, http.MethodPost, "/api/election/v1/candidacies", electionhttp.ApplyCandidacyRequest{Manifesto: "x"}, map[string]string{headerUserID: "ghost"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "student_not_found", decodeError(t, rr).Code)

	rr = do(t, server, http.MethodPost, "/api/election/v1/candidacies", electionhttp.ApplyCandidacyRequest{Manifesto: "x"}, map[string]string{headerUserID: "s1"})
	require.Equal(t, http.StatusCreated, rr.Code)
	var candidacy electionhttp.CandidacyResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &candidacy))

	rr = do(t, server, http.MethodPost, "/api/election/v1/candidacies", electionhttp.ApplyCandidacyRequest{Manifesto: "x"}, map[string]string{headerUserID: "s1"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "duplicate_candidacy", decodeError(t, rr).Code)

	path := "/api/election/v1/candidacies/" + candidacy.CandidateID + "/review"
	rr = do(t, server, http.MethodPost, path, electionhttp.ReviewCandidacyRequest{Decision: "approved"}, admin())
	require.Equal(t, http.StatusOK, rr.Code)
	rr = do(t, server, http.MethodPost, path, electionhttp.ReviewCandidacyRequest{Decision: "rejected"}, admin())
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "already_reviewed", decodeError(t, rr).Code)

	rr = do(t, server, http.MethodGet, "/api/election/v1/schools/sch-1/departments/dep-1/candidates", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var approved electionhttp.CandidacyListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &approved))
	require.Len(t, approved.Items, 1)
	assert.Equal(t, "s1", approved.Items[0].StudentID)
}

func TestInvalidJSONBody(t *testing.T) {
	server := newTestServer(t)
	req := httptest.NewRequest(http.MethodPut, "/api/election/v1/phase", bytes.NewReader([]byte(`{"phase":`)))
	req.Header.Set(headerAdminID, testAdmin)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_json", decodeError(t, rr).Code)
}

func TestAuthzGrantEnablesReturningOfficer(t *testing.T) {
	server := newTestServer(t)

	rr := do(t, server, http.MethodGet, "/api/election/v1/candidacies/pending", nil, map[string]string{headerAdminID: "officer-1"})
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = do(t, server, http.MethodPost, "/api/authz/v1/users/officer-1/roles/grant",
		map[string]string{"role_id": "returning_officer"}, admin())
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = do(t, server, http.MethodGet, "/api/election/v1/candidacies/pending", nil, map[string]string{headerAdminID: "officer-1"})
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, server, http.MethodPost, "/api/election/v1/admin/reset", nil, map[string]string{headerAdminID: "officer-1"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = do(t, server, http.MethodPost, "/api/authz/v1/users/officer-2/roles/grant",
		map[string]string{"role_id": "returning_officer"}, map[string]string{headerAdminID: "officer-1"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "forbidden", decodeError(t, rr).Code)

	rr = do(t, server, http.MethodPost, "/api/authz/v1/users/officer-1/roles/grant",
		map[string]string{"role_id": "returning_officer"}, admin())
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "role_already_assigned", decodeError(t, rr).Code)
}

func TestResetOverHTTP(t *testing.T) {
	server := newTestServer(t)
	require.Equal(t, http.StatusOK, do(t, server, http.MethodPut, "/api/election/v1/phase", electionhttp.SetPhaseRequest{Phase: 4}, admin()).Code)

	rr := do(t, server, http.MethodPost, "/api/election/v1/admin/reset", nil, admin())
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, server, http.MethodGet, "/api/election/v1/phase/log", nil, admin())
	require.Equal(t, http.StatusOK, rr.Code)
	var log electionhttp.PhaseLogResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &log))
	require.NotEmpty(t, log.Items)
	assert.Equal(t, 0, log.Items[len(log.Items)-1].Phase)
}

func TestMetricsEndpointCountsRequests(t *testing.T) {
	server := newTestServer(t)
	do(t, server, http.MethodGet, "/api/election/v1/parties/missing", nil, nil)

	rr := do(t, server, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `route="GET /api/election/v1/parties/{party_id}"`)
}

func TestErrorMappingTable(t *testing.T) {
	rr := httptest.NewRecorder()
	writeElectionDomainError(rr, io.ErrUnexpectedEOF)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "internal_error", decodeError(t, rr).Code)
}
