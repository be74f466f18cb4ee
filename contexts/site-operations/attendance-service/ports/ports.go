package ports

import (
	"context"
	"time"

	"sitesense/contexts/site-operations/attendance-service/domain/entities"
	"sitesense/internal/shared/events"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for employees and event IDs.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// EmployeeUpdate carries the mutable employee fields. Nil fields are
// left untouched.
type EmployeeUpdate struct {
	FirstName    *string
	LastName     *string
	Phone        *int64
	Role         *string
	Organization *string
}

// Repository is the write/read boundary for employee state.
type Repository interface {
	Get(ctx context.Context, employeeID string) (entities.Employee, error)
	Create(ctx context.Context, employee entities.Employee) error
	Update(ctx context.Context, employeeID string, update EmployeeUpdate) error
	Delete(ctx context.Context, employeeID string) error
	List(ctx context.Context) ([]entities.Employee, error)
}

// SiteReader validates that an attendance target worksite exists.
// Backed by the registry store; injected by bootstrap.
type SiteReader interface {
	WorksiteExists(ctx context.Context, worksiteID string) (bool, error)
}

// Publisher forwards attendance events to the bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

// LogIndex is the searchable attendance log store maintained by the
// worker. Index must reject a previously seen event ID with
// domainerrors.ErrDuplicateEvent.
type LogIndex interface {
	Index(ctx context.Context, entry entities.AttendanceEntry) error
	Search(ctx context.Context, query string) ([]entities.AttendanceEntry, error)
}
