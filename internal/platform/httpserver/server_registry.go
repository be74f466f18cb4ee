package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	registryerrors "sitesense/contexts/site-operations/registry-service/domain/errors"
	registryhttp "sitesense/contexts/site-operations/registry-service/transport/http"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.ListProjectsHandler(r.Context())
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req registryhttp.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.CreateProjectHandler(r.Context(), actorUsername(r), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.GetProjectHandler(r.Context(), r.PathValue("project_id"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Handler.DeleteProjectHandler(r.Context(), actorUsername(r), r.PathValue("project_id")); err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListProjectWorksites(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.ListWorksitesByProjectHandler(r.Context(), r.PathValue("project_id"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateWorksite(w http.ResponseWriter, r *http.Request) {
	var req registryhttp.CreateWorksiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.CreateWorksiteHandler(r.Context(), actorUsername(r), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetWorksite(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.GetWorksiteHandler(r.Context(), r.PathValue("worksite_id"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateWorksite(w http.ResponseWriter, r *http.Request) {
	var req registryhttp.UpdateWorksiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.UpdateWorksiteHandler(r.Context(), actorUsername(r), r.PathValue("worksite_id"), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteWorksite(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Handler.DeleteWorksiteHandler(r.Context(), actorUsername(r), r.PathValue("worksite_id")); err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListWorksiteZones(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.ListZonesByWorksiteHandler(r.Context(), r.PathValue("worksite_id"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateZone(w http.ResponseWriter, r *http.Request) {
	var req registryhttp.CreateZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.CreateZoneHandler(r.Context(), actorUsername(r), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetZone(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.GetZoneHandler(r.Context(), r.PathValue("zone_id"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateZone(w http.ResponseWriter, r *http.Request) {
	var req registryhttp.UpdateZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.UpdateZoneHandler(r.Context(), actorUsername(r), r.PathValue("zone_id"), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteZone(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Handler.DeleteZoneHandler(r.Context(), actorUsername(r), r.PathValue("zone_id")); err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeRegistryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registryerrors.ErrInvalidInput):
		writeRegistryError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, registryerrors.ErrAdminRequired):
		writeRegistryError(w, http.StatusForbidden, "admin_required", err.Error())
	case errors.Is(err, registryerrors.ErrProjectNotFound),
		errors.Is(err, registryerrors.ErrWorksiteNotFound),
		errors.Is(err, registryerrors.ErrZoneNotFound):
		writeRegistryError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, registryerrors.ErrProjectNameExists),
		errors.Is(err, registryerrors.ErrWorksiteNameExists),
		errors.Is(err, registryerrors.ErrZoneNameExists):
		writeRegistryError(w, http.StatusConflict, "name_exists", err.Error())
	default:
		writeRegistryError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRegistryError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, registryhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
