package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sitesense/contexts/site-operations/attendance-service/domain/entities"
	domainerrors "sitesense/contexts/site-operations/attendance-service/domain/errors"
	"sitesense/contexts/site-operations/attendance-service/ports"
	"sitesense/internal/shared/events"
)

// TopicAttendanceLogs is the bus topic the indexing worker consumes.
const TopicAttendanceLogs = "attendance.logs"

// EventTypeAttendanceRecorded marks one attendance envelope.
const EventTypeAttendanceRecorded = "attendance.recorded"

// AttendancePayload is the envelope payload for one attendance event.
type AttendancePayload struct {
	EmployeeID string    `json:"employee_id"`
	WorksiteID string    `json:"worksite_id"`
	RecordedAt time.Time `json:"recorded_at"`
}

type Service struct {
	Repo   ports.Repository
	Sites  ports.SiteReader
	Bus    ports.Publisher
	Clock  ports.Clock
	IDs    ports.IDGenerator
	Logger *slog.Logger
}

type CreateEmployeeInput struct {
	FirstName    string
	LastName     string
	Phone        int64
	Role         string
	Organization string
}

func (s Service) GetEmployee(ctx context.Context, employeeID string) (entities.Employee, error) {
	return s.Repo.Get(ctx, employeeID)
}

func (s Service) ListEmployees(ctx context.Context) ([]entities.Employee, error) {
	return s.Repo.List(ctx)
}

func (s Service) CreateEmployee(ctx context.Context, input CreateEmployeeInput) (entities.Employee, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if len(firstName) < entities.MinFirstNameLength || len(firstName) > entities.MaxNameLength {
		return entities.Employee{}, domainerrors.ErrInvalidInput
	}
	if len(lastName) > entities.MaxNameLength {
		return entities.Employee{}, domainerrors.ErrInvalidInput
	}
	if len(input.Role) > entities.MaxLabelLength || len(input.Organization) > entities.MaxLabelLength {
		return entities.Employee{}, domainerrors.ErrInvalidInput
	}

	id, err := s.IDs.NewID(ctx)
	if err != nil {
		return entities.Employee{}, fmt.Errorf("generate employee id: %w", err)
	}
	employee := entities.Employee{
		ID:           id,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        input.Phone,
		Role:         strings.TrimSpace(input.Role),
		Organization: strings.TrimSpace(input.Organization),
		CreatedAt:    s.now(),
	}
	if err := s.Repo.Create(ctx, employee); err != nil {
		return entities.Employee{}, err
	}

	resolveLogger(s.Logger).Info("employee created",
		"event", "employee_created",
		"module", "site-operations/attendance-service",
		"layer", "application",
		"employee_id", employee.ID,
	)
	return employee, nil
}

type UpdateEmployeeInput struct {
	FirstName    *string
	LastName     *string
	Phone        *int64
	Role         *string
	Organization *string
}

func (s Service) UpdateEmployee(ctx context.Context, employeeID string, input UpdateEmployeeInput) (entities.Employee, error) {
	if input.FirstName != nil {
		trimmed := strings.TrimSpace(*input.FirstName)
		if len(trimmed) < entities.MinFirstNameLength || len(trimmed) > entities.MaxNameLength {
			return entities.Employee{}, domainerrors.ErrInvalidInput
		}
		input.FirstName = &trimmed
	}
	if input.LastName != nil && len(*input.LastName) > entities.MaxNameLength {
		return entities.Employee{}, domainerrors.ErrInvalidInput
	}
	if input.Role != nil && len(*input.Role) > entities.MaxLabelLength {
		return entities.Employee{}, domainerrors.ErrInvalidInput
	}
	if input.Organization != nil && len(*input.Organization) > entities.MaxLabelLength {
		return entities.Employee{}, domainerrors.ErrInvalidInput
	}

	if _, err := s.Repo.Get(ctx, employeeID); err != nil {
		return entities.Employee{}, err
	}
	update := ports.EmployeeUpdate{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Role:         input.Role,
		Organization: input.Organization,
	}
	if err := s.Repo.Update(ctx, employeeID, update); err != nil {
		return entities.Employee{}, err
	}
	return s.Repo.Get(ctx, employeeID)
}

func (s Service) DeleteEmployee(ctx context.Context, employeeID string) error {
	if _, err := s.Repo.Get(ctx, employeeID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, employeeID)
}

// RecordAttendance verifies both sides of the attendance pair exist and
// publishes the log event. Indexing happens asynchronously in the
// worker; the API call returns once the event is on the bus.
func (s Service) RecordAttendance(ctx context.Context, worksiteID string, employeeID string) error {
	exists, err := s.Sites.WorksiteExists(ctx, worksiteID)
	if err != nil {
		return err
	}
	if !exists {
		return domainerrors.ErrWorksiteNotFound
	}
	if _, err := s.Repo.Get(ctx, employeeID); err != nil {
		return err
	}

	eventID, err := s.IDs.NewID(ctx)
	if err != nil {
		return fmt.Errorf("generate event id: %w", err)
	}
	recordedAt := s.now()
	envelope := events.Envelope{
		EventID:        eventID,
		EventType:      EventTypeAttendanceRecorded,
		SourceService:  "site-operations/attendance-service",
		OccurredAtUTC:  recordedAt,
		EntityType:     "employee",
		EntityID:       employeeID,
		PayloadVersion: 1,
		Payload: AttendancePayload{
			EmployeeID: employeeID,
			WorksiteID: worksiteID,
			RecordedAt: recordedAt,
		},
	}
	if err := s.Bus.Publish(ctx, TopicAttendanceLogs, envelope); err != nil {
		return fmt.Errorf("publish attendance event: %w", err)
	}

	resolveLogger(s.Logger).Info("attendance recorded",
		"event", "attendance_recorded",
		"module", "site-operations/attendance-service",
		"layer", "application",
		"employee_id", employeeID,
		"worksite_id", worksiteID,
		"event_id", eventID,
	)
	return nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
