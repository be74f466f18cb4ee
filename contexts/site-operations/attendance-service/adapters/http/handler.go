package httpadapter

import (
	"context"
	"log/slog"

	"sitesense/contexts/site-operations/attendance-service/application"
	"sitesense/contexts/site-operations/attendance-service/domain/entities"
	httptransport "sitesense/contexts/site-operations/attendance-service/transport/http"
)

// Handler maps HTTP DTOs to application operations.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) GetEmployeeHandler(ctx context.Context, employeeID string) (httptransport.EmployeeResponse, error) {
	employee, err := h.Service.GetEmployee(ctx, employeeID)
	if err != nil {
		return httptransport.EmployeeResponse{}, err
	}
	return employeeResponse(employee), nil
}

func (h Handler) ListEmployeesHandler(ctx context.Context) ([]httptransport.EmployeeResponse, error) {
	employees, err := h.Service.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.EmployeeResponse, 0, len(employees))
	for _, employee := range employees {
		items = append(items, employeeResponse(employee))
	}
	return items, nil
}

func (h Handler) CreateEmployeeHandler(ctx context.Context, req httptransport.CreateEmployeeRequest) (httptransport.EmployeeResponse, error) {
	employee, err := h.Service.CreateEmployee(ctx, application.CreateEmployeeInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         req.Role,
		Organization: req.Organization,
	})
	if err != nil {
		return httptransport.EmployeeResponse{}, err
	}
	return employeeResponse(employee), nil
}

func (h Handler) UpdateEmployeeHandler(ctx context.Context, employeeID string, req httptransport.UpdateEmployeeRequest) (httptransport.EmployeeResponse, error) {
	employee, err := h.Service.UpdateEmployee(ctx, employeeID, application.UpdateEmployeeInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         req.Role,
		Organization: req.Organization,
	})
	if err != nil {
		return httptransport.EmployeeResponse{}, err
	}
	return employeeResponse(employee), nil
}

func (h Handler) DeleteEmployeeHandler(ctx context.Context, employeeID string) error {
	return h.Service.DeleteEmployee(ctx, employeeID)
}

func (h Handler) AttendanceHandler(ctx context.Context, req httptransport.AttendanceRequest) error {
	return h.Service.RecordAttendance(ctx, req.WorksiteID, req.EmployeeID)
}

func employeeResponse(employee entities.Employee) httptransport.EmployeeResponse {
	return httptransport.EmployeeResponse{
		ID:           employee.ID,
		FirstName:    employee.FirstName,
		LastName:     employee.LastName,
		Phone:        employee.Phone,
		Role:         employee.Role,
		Organization: employee.Organization,
	}
}
