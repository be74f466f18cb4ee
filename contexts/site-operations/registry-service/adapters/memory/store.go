package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"sitesense/contexts/site-operations/registry-service/domain/entities"
	domainerrors "sitesense/contexts/site-operations/registry-service/domain/errors"
	"sitesense/contexts/site-operations/registry-service/ports"
)

// Store is the in-memory registry adapter used by tests and development
// wiring. It satisfies Repository, Clock, and IDGenerator.
type Store struct {
	mu sync.RWMutex

	projects  map[string]entities.Project
	worksites map[string]entities.Worksite
	zones     map[string]entities.Zone
}

func NewStore() *Store {
	return &Store{
		projects:  make(map[string]entities.Project),
		worksites: make(map[string]entities.Worksite),
		zones:     make(map[string]entities.Zone),
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) GetProject(_ context.Context, projectID string) (entities.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	project, ok := s.projects[projectID]
	if !ok {
		return entities.Project{}, domainerrors.ErrProjectNotFound
	}
	return project, nil
}

func (s *Store) CreateProject(_ context.Context, project entities.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.projects {
		if existing.Name == project.Name {
			return domainerrors.ErrProjectNameExists
		}
	}
	s.projects[project.ID] = project
	return nil
}

func (s *Store) DeleteProject(_ context.Context, projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[projectID]; !ok {
		return domainerrors.ErrProjectNotFound
	}
	delete(s.projects, projectID)
	for id, worksite := range s.worksites {
		if worksite.ProjectID == projectID {
			delete(s.worksites, id)
		}
	}
	for id, zone := range s.zones {
		if zone.ProjectID == projectID {
			delete(s.zones, id)
		}
	}
	return nil
}

func (s *Store) ListProjects(_ context.Context) ([]entities.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Project, 0, len(s.projects))
	for _, project := range s.projects {
		items = append(items, project)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (s *Store) GetWorksite(_ context.Context, worksiteID string) (entities.Worksite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	worksite, ok := s.worksites[worksiteID]
	if !ok {
		return entities.Worksite{}, domainerrors.ErrWorksiteNotFound
	}
	return worksite, nil
}

func (s *Store) CreateWorksite(_ context.Context, worksite entities.Worksite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.worksites {
		if existing.ProjectID == worksite.ProjectID && existing.Name == worksite.Name {
			return domainerrors.ErrWorksiteNameExists
		}
	}
	s.worksites[worksite.ID] = worksite
	return nil
}

func (s *Store) UpdateWorksite(_ context.Context, worksiteID string, update ports.WorksiteUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	worksite, ok := s.worksites[worksiteID]
	if !ok {
		return domainerrors.ErrWorksiteNotFound
	}
	if update.Description != nil {
		worksite.Description = *update.Description
	}
	s.worksites[worksiteID] = worksite
	return nil
}

func (s *Store) DeleteWorksite(_ context.Context, worksiteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.worksites[worksiteID]; !ok {
		return domainerrors.ErrWorksiteNotFound
	}
	delete(s.worksites, worksiteID)
	for id, zone := range s.zones {
		if zone.WorksiteID == worksiteID {
			delete(s.zones, id)
		}
	}
	return nil
}

func (s *Store) ListWorksitesByProject(_ context.Context, projectID string) ([]entities.Worksite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Worksite, 0)
	for _, worksite := range s.worksites {
		if worksite.ProjectID == projectID {
			items = append(items, worksite)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (s *Store) GetZone(_ context.Context, zoneID string) (entities.Zone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	zone, ok := s.zones[zoneID]
	if !ok {
		return entities.Zone{}, domainerrors.ErrZoneNotFound
	}
	return zone, nil
}

func (s *Store) CreateZone(_ context.Context, zone entities.Zone) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.zones {
		if existing.WorksiteID == zone.WorksiteID && existing.Name == zone.Name {
			return domainerrors.ErrZoneNameExists
		}
	}
	s.zones[zone.ID] = zone
	return nil
}

func (s *Store) UpdateZone(_ context.Context, zoneID string, update ports.ZoneUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	zone, ok := s.zones[zoneID]
	if !ok {
		return domainerrors.ErrZoneNotFound
	}
	if update.Description != nil {
		zone.Description = *update.Description
	}
	if update.FeedURI != nil {
		zone.FeedURI = *update.FeedURI
	}
	s.zones[zoneID] = zone
	return nil
}

func (s *Store) DeleteZone(_ context.Context, zoneID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.zones[zoneID]; !ok {
		return domainerrors.ErrZoneNotFound
	}
	delete(s.zones, zoneID)
	return nil
}

func (s *Store) ListZonesByWorksite(_ context.Context, worksiteID string) ([]entities.Zone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Zone, 0)
	for _, zone := range s.zones {
		if zone.WorksiteID == worksiteID {
			items = append(items, zone)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}
