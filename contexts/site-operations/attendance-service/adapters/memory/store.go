package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"sitesense/contexts/site-operations/attendance-service/domain/entities"
	domainerrors "sitesense/contexts/site-operations/attendance-service/domain/errors"
	"sitesense/contexts/site-operations/attendance-service/ports"
)

// Store is the in-memory attendance adapter used by tests and
// development wiring. It satisfies Repository, LogIndex, Clock, and
// IDGenerator.
type Store struct {
	mu sync.RWMutex

	employees map[string]entities.Employee
	entries   map[string]entities.AttendanceEntry
}

func NewStore() *Store {
	return &Store{
		employees: make(map[string]entities.Employee),
		entries:   make(map[string]entities.AttendanceEntry),
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) Get(_ context.Context, employeeID string) (entities.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employee, ok := s.employees[employeeID]
	if !ok {
		return entities.Employee{}, domainerrors.ErrEmployeeNotFound
	}
	return employee, nil
}

func (s *Store) Create(_ context.Context, employee entities.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.employees[employee.ID] = employee
	return nil
}

func (s *Store) Update(_ context.Context, employeeID string, update ports.EmployeeUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	employee, ok := s.employees[employeeID]
	if !ok {
		return domainerrors.ErrEmployeeNotFound
	}
	if update.FirstName != nil {
		employee.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		employee.LastName = *update.LastName
	}
	if update.Phone != nil {
		employee.Phone = *update.Phone
	}
	if update.Role != nil {
		employee.Role = *update.Role
	}
	if update.Organization != nil {
		employee.Organization = *update.Organization
	}
	s.employees[employeeID] = employee
	return nil
}

func (s *Store) Delete(_ context.Context, employeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[employeeID]; !ok {
		return domainerrors.ErrEmployeeNotFound
	}
	delete(s.employees, employeeID)
	return nil
}

func (s *Store) List(_ context.Context) ([]entities.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Employee, 0, len(s.employees))
	for _, employee := range s.employees {
		items = append(items, employee)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].LastName != items[j].LastName {
			return items[i].LastName < items[j].LastName
		}
		return items[i].FirstName < items[j].FirstName
	})
	return items, nil
}

func (s *Store) Index(_ context.Context, entry entities.AttendanceEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, seen := s.entries[entry.EventID]; seen {
		return domainerrors.ErrDuplicateEvent
	}
	s.entries[entry.EventID] = entry
	return nil
}

// Search matches the query as a substring against employee and
// worksite IDs. An empty query returns everything, newest first.
func (s *Store) Search(_ context.Context, query string) ([]entities.AttendanceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	items := make([]entities.AttendanceEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		if needle == "" ||
			strings.Contains(strings.ToLower(entry.EmployeeID), needle) ||
			strings.Contains(strings.ToLower(entry.WorksiteID), needle) {
			items = append(items, entry)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].RecordedAt.After(items[j].RecordedAt) })
	return items, nil
}
