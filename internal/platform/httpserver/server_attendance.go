package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	attendanceerrors "sitesense/contexts/site-operations/attendance-service/domain/errors"
	attendancehttp "sitesense/contexts/site-operations/attendance-service/transport/http"
)

func (s *Server) handleAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendancehttp.AttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAttendanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.attendance.Handler.AttendanceHandler(r.Context(), req); err != nil {
		writeAttendanceDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	resp, err := s.attendance.Handler.ListEmployeesHandler(r.Context())
	if err != nil {
		writeAttendanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req attendancehttp.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAttendanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.attendance.Handler.CreateEmployeeHandler(r.Context(), req)
	if err != nil {
		writeAttendanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	resp, err := s.attendance.Handler.GetEmployeeHandler(r.Context(), r.PathValue("employee_id"))
	if err != nil {
		writeAttendanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req attendancehttp.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAttendanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.attendance.Handler.UpdateEmployeeHandler(r.Context(), r.PathValue("employee_id"), req)
	if err != nil {
		writeAttendanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := s.attendance.Handler.DeleteEmployeeHandler(r.Context(), r.PathValue("employee_id")); err != nil {
		writeAttendanceDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeAttendanceDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, attendanceerrors.ErrInvalidInput):
		writeAttendanceError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, attendanceerrors.ErrEmployeeNotFound),
		errors.Is(err, attendanceerrors.ErrWorksiteNotFound):
		writeAttendanceError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeAttendanceError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAttendanceError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, attendancehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
