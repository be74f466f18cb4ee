package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	accesscontrol "sitesense/contexts/identity-access/access-control"
	achttp "sitesense/contexts/identity-access/access-control/adapters/http"
	accountservice "sitesense/contexts/identity-access/account-service"
	accounterrors "sitesense/contexts/identity-access/account-service/domain/errors"
	accounthttp "sitesense/contexts/identity-access/account-service/transport/http"
	attendanceservice "sitesense/contexts/site-operations/attendance-service"
	registryservice "sitesense/contexts/site-operations/registry-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "sitesense/internal/platform/httpserver/docs"
)

type Server struct {
	mux        *http.ServeMux
	handler    http.Handler
	logger     *slog.Logger
	addr       string
	access     accesscontrol.Module
	accounts   accountservice.Module
	registry   registryservice.Module
	attendance attendanceservice.Module
}

// New builds the API server. Every registered route flows through the
// access-control pipeline: authentication first, then authorization.
func New(
	access accesscontrol.Module,
	accounts accountservice.Module,
	registry registryservice.Module,
	attendance attendanceservice.Module,
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
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		access:     access,
		accounts:   accounts,
		registry:   registry,
		attendance: attendance,
	}
	s.registerRoutes()
	s.handler = access.Wrap(s.mux)
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.handler)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /auth/jwt/login", s.handleLogin)

	s.mux.HandleFunc("GET /users/me", s.handleMe)
	s.mux.HandleFunc("GET /users", s.handleListUsers)
	s.mux.HandleFunc("PATCH /users/{user_id}", s.handleUpdateUser)
	s.mux.HandleFunc("DELETE /users/{user_id}", s.handleDeactivateUser)
	s.mux.HandleFunc("POST /users/set-role", s.handleSetRole)
	s.mux.HandleFunc("POST /users/set-access", s.handleSetAccess)

	s.mux.HandleFunc("GET /projects", s.handleListProjects)
	s.mux.HandleFunc("POST /projects", s.handleCreateProject)
	s.mux.HandleFunc("GET /projects/{project_id}", s.handleGetProject)
	s.mux.HandleFunc("DELETE /projects/{project_id}", s.handleDeleteProject)
	s.mux.HandleFunc("GET /projects/{project_id}/worksites", s.handleListProjectWorksites)

	s.mux.HandleFunc("POST /worksites", s.handleCreateWorksite)
	s.mux.HandleFunc("GET /worksites/{worksite_id}", s.handleGetWorksite)
	s.mux.HandleFunc("PATCH /worksites/{worksite_id}", s.handleUpdateWorksite)
	s.mux.HandleFunc("DELETE /worksites/{worksite_id}", s.handleDeleteWorksite)
	s.mux.HandleFunc("GET /worksites/{worksite_id}/zones", s.handleListWorksiteZones)

	s.mux.HandleFunc("POST /zones", s.handleCreateZone)
	s.mux.HandleFunc("GET /zones/{zone_id}", s.handleGetZone)
	s.mux.HandleFunc("PATCH /zones/{zone_id}", s.handleUpdateZone)
	s.mux.HandleFunc("DELETE /zones/{zone_id}", s.handleDeleteZone)

	s.mux.HandleFunc("POST /employees/attendance", s.handleAttendance)
	s.mux.HandleFunc("GET /employees", s.handleListEmployees)
	s.mux.HandleFunc("POST /employees", s.handleCreateEmployee)
	s.mux.HandleFunc("GET /employees/{employee_id}", s.handleGetEmployee)
	s.mux.HandleFunc("PATCH /employees/{employee_id}", s.handleUpdateEmployee)
	s.mux.HandleFunc("DELETE /employees/{employee_id}", s.handleDeleteEmployee)
}

// actorUsername reads the identity the authentication stage resolved
// for this request.
func actorUsername(r *http.Request) string {
	resolution, ok := achttp.ResolutionFromContext(r.Context())
	if !ok {
		return ""
	}
	if resolution.IsAnonymous() {
		return ""
	}
	return resolution.Username
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req accounthttp.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.accounts.Handler.RegisterHandler(r.Context(), req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := readLoginRequest(r)
	if err != nil {
		writeAccountError(w, http.StatusBadRequest, "invalid_login_request", err.Error())
		return
	}
	resp, err := s.accounts.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// readLoginRequest accepts both JSON and the form encoding used by the
// original clients of /auth/jwt/login.
func readLoginRequest(r *http.Request) (accounthttp.LoginRequest, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return accounthttp.LoginRequest{}, err
		}
		return accounthttp.LoginRequest{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}, nil
	}
	var req accounthttp.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return accounthttp.LoginRequest{}, err
	}
	return req, nil
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	username := actorUsername(r)
	resp, err := s.accounts.Handler.MeHandler(r.Context(), username)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	resp, err := s.accounts.Handler.ListHandler(r.Context(), actorUsername(r))
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req accounthttp.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.accounts.Handler.UpdateHandler(r.Context(), actorUsername(r), r.PathValue("user_id"), req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeactivateUser(w http.ResponseWriter, r *http.Request) {
	if err := s.accounts.Handler.DeactivateHandler(r.Context(), actorUsername(r), r.PathValue("user_id")); err != nil {
		writeAccountDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetRole(w http.ResponseWriter, r *http.Request) {
	var req accounthttp.SetRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.accounts.Handler.SetRoleHandler(r.Context(), actorUsername(r), req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetAccess(w http.ResponseWriter, r *http.Request) {
	var req accounthttp.SetAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccountError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.accounts.Handler.SetAccessHandler(r.Context(), actorUsername(r), req); err != nil {
		writeAccountDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeAccountDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accounterrors.ErrInvalidRegistration),
		errors.Is(err, accounterrors.ErrInvalidResourceType),
		errors.Is(err, accounterrors.ErrInvalidAccessSetting):
		writeAccountError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, accounterrors.ErrInvalidCredentials),
		errors.Is(err, accounterrors.ErrTokenInvalid):
		writeAccountError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, accounterrors.ErrAccountInactive):
		writeAccountError(w, http.StatusForbidden, "account_inactive", err.Error())
	case errors.Is(err, accounterrors.ErrAdminRequired):
		writeAccountError(w, http.StatusForbidden, "admin_required", err.Error())
	case errors.Is(err, accounterrors.ErrAccountNotFound),
		errors.Is(err, accounterrors.ErrResourceNotFound):
		writeAccountError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, accounterrors.ErrUsernameExists),
		errors.Is(err, accounterrors.ErrEmailExists):
		writeAccountError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeAccountError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAccountError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, accounthttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
