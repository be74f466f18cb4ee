package ports

import (
	"context"
	"time"

	"sitesense/contexts/site-operations/registry-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for new resources.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// ActorGate answers whether an acting user may administer the registry.
// Backed by the account store; injected by bootstrap.
type ActorGate interface {
	IsSuperuser(ctx context.Context, username string) (bool, error)
}

// WorksiteUpdate carries the mutable worksite fields.
type WorksiteUpdate struct {
	Description *string
}

// ZoneUpdate carries the mutable zone fields.
type ZoneUpdate struct {
	Description *string
	FeedURI     *string
}

// Repository is the write/read boundary for registry state.
type Repository interface {
	GetProject(ctx context.Context, projectID string) (entities.Project, error)
	CreateProject(ctx context.Context, project entities.Project) error
	DeleteProject(ctx context.Context, projectID string) error
	ListProjects(ctx context.Context) ([]entities.Project, error)

	GetWorksite(ctx context.Context, worksiteID string) (entities.Worksite, error)
	CreateWorksite(ctx context.Context, worksite entities.Worksite) error
	UpdateWorksite(ctx context.Context, worksiteID string, update WorksiteUpdate) error
	DeleteWorksite(ctx context.Context, worksiteID string) error
	ListWorksitesByProject(ctx context.Context, projectID string) ([]entities.Worksite, error)

	GetZone(ctx context.Context, zoneID string) (entities.Zone, error)
	CreateZone(ctx context.Context, zone entities.Zone) error
	UpdateZone(ctx context.Context, zoneID string, update ZoneUpdate) error
	DeleteZone(ctx context.Context, zoneID string) error
	ListZonesByWorksite(ctx context.Context, worksiteID string) ([]entities.Zone, error)
}
