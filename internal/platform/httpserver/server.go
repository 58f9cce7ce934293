package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	authorization "kura/contexts/identity-access/authorization-service"
	authzhttp "kura/contexts/identity-access/authorization-service/transport/http"
	electionengine "kura/contexts/student-governance/election-engine"
	_ "kura/internal/platform/httpserver/docs"
	"kura/internal/platform/metrics"

	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	headerUserID  = "X-User-Id"
	headerAdminID = "X-Admin-Id"
	maxBodyBytes  = 1 << 20
)

type Server struct {
	mux           *http.ServeMux
	handler       http.Handler
	httpServer    *http.Server
	logger        *slog.Logger
	addr          string
	election      electionengine.Module
	authorization authorization.Module
	metrics       *metrics.Registry
}

// New wires routes for both contexts. A nil registry disables /metrics and
// the request instrumentation.
func New(
	election electionengine.Module,
	authorizationModule authorization.Module,
	registry *metrics.Registry,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		election:      election,
		authorization: authorizationModule,
		metrics:       registry,
	}
	s.registerRoutes()
	s.handler = registry.Middleware(s.mux)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down",
		"event", "http_server_shutdown",
		"module", "internal/platform/httpserver",
		"layer", "platform",
	)
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}

	s.registerElectionRoutes()
	s.registerAuthzRoutes()
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireUser reads the caller's student id set by the upstream auth proxy.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get(headerUserID))
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", headerUserID+" header is required")
		return "", false
	}
	return userID, true
}

func requireAdminHeader(w http.ResponseWriter, r *http.Request) (string, bool) {
	adminID := strings.TrimSpace(r.Header.Get(headerAdminID))
	if adminID == "" {
		writeError(w, http.StatusUnauthorized, "missing_admin", headerAdminID+" header is required")
		return "", false
	}
	return adminID, true
}

// requireAdmin resolves X-Admin-Id and asks the authorization module whether
// it holds permission. Lookup failures deny.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request, permission string) (string, bool) {
	adminID, ok := requireAdminHeader(w, r)
	if !ok {
		return "", false
	}
	decision, err := s.authorization.Handler.CheckPermissionHandler(r.Context(), adminID, authzhttp.CheckPermissionRequest{
		Permission: permission,
		Route:      r.Pattern,
	})
	if err != nil {
		writeAuthzDomainError(w, err)
		return "", false
	}
	if !decision.Allowed {
		s.logger.Warn("admin route denied",
			"event", "http_admin_denied",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"admin_id", adminID,
			"permission", permission,
			"route", r.Pattern,
		)
		writeError(w, http.StatusForbidden, "forbidden", "missing permission "+permission)
		return "", false
	}
	return adminID, true
}

// decodeJSON reads an optional JSON body; an empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
	return false
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
