package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"sitesense/contexts/site-operations/registry-service/application"
	"sitesense/contexts/site-operations/registry-service/domain/entities"
	httptransport "sitesense/contexts/site-operations/registry-service/transport/http"
)

// Handler maps HTTP DTOs to application operations.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) GetProjectHandler(ctx context.Context, projectID string) (httptransport.ProjectResponse, error) {
	project, err := h.Service.GetProject(ctx, projectID)
	if err != nil {
		return httptransport.ProjectResponse{}, err
	}
	return projectResponse(project), nil
}

func (h Handler) ListProjectsHandler(ctx context.Context) ([]httptransport.ProjectResponse, error) {
	projects, err := h.Service.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.ProjectResponse, 0, len(projects))
	for _, project := range projects {
		items = append(items, projectResponse(project))
	}
	return items, nil
}

func (h Handler) CreateProjectHandler(ctx context.Context, actorUsername string, req httptransport.CreateProjectRequest) (httptransport.ProjectResponse, error) {
	project, err := h.Service.CreateProject(ctx, actorUsername, application.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.ProjectResponse{}, err
	}
	return projectResponse(project), nil
}

func (h Handler) DeleteProjectHandler(ctx context.Context, actorUsername string, projectID string) error {
	return h.Service.DeleteProject(ctx, actorUsername, projectID)
}

func (h Handler) ListWorksitesByProjectHandler(ctx context.Context, projectID string) ([]httptransport.WorksiteResponse, error) {
	worksites, err := h.Service.ListWorksitesByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.WorksiteResponse, 0, len(worksites))
	for _, worksite := range worksites {
		items = append(items, worksiteResponse(worksite))
	}
	return items, nil
}

func (h Handler) GetWorksiteHandler(ctx context.Context, worksiteID string) (httptransport.WorksiteResponse, error) {
	worksite, err := h.Service.GetWorksite(ctx, worksiteID)
	if err != nil {
		return httptransport.WorksiteResponse{}, err
	}
	return worksiteResponse(worksite), nil
}

func (h Handler) CreateWorksiteHandler(ctx context.Context, actorUsername string, req httptransport.CreateWorksiteRequest) (httptransport.WorksiteResponse, error) {
	worksite, err := h.Service.CreateWorksite(ctx, actorUsername, application.CreateWorksiteInput{
		Name:        req.Name,
		Description: req.Description,
		ProjectID:   req.ProjectID,
	})
	if err != nil {
		return httptransport.WorksiteResponse{}, err
	}
	return worksiteResponse(worksite), nil
}

func (h Handler) UpdateWorksiteHandler(ctx context.Context, actorUsername string, worksiteID string, req httptransport.UpdateWorksiteRequest) (httptransport.WorksiteResponse, error) {
	worksite, err := h.Service.UpdateWorksite(ctx, actorUsername, worksiteID, application.UpdateWorksiteInput{
		Description: req.Description,
	})
	if err != nil {
		return httptransport.WorksiteResponse{}, err
	}
	return worksiteResponse(worksite), nil
}

func (h Handler) DeleteWorksiteHandler(ctx context.Context, actorUsername string, worksiteID string) error {
	return h.Service.DeleteWorksite(ctx, actorUsername, worksiteID)
}

func (h Handler) ListZonesByWorksiteHandler(ctx context.Context, worksiteID string) ([]httptransport.ZoneResponse, error) {
	zones, err := h.Service.ListZonesByWorksite(ctx, worksiteID)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.ZoneResponse, 0, len(zones))
	for _, zone := range zones {
		items = append(items, zoneResponse(zone))
	}
	return items, nil
}

func (h Handler) GetZoneHandler(ctx context.Context, zoneID string) (httptransport.ZoneResponse, error) {
	zone, err := h.Service.GetZone(ctx, zoneID)
	if err != nil {
		return httptransport.ZoneResponse{}, err
	}
	return zoneResponse(zone), nil
}

func (h Handler) CreateZoneHandler(ctx context.Context, actorUsername string, req httptransport.CreateZoneRequest) (httptransport.ZoneResponse, error) {
	zone, err := h.Service.CreateZone(ctx, actorUsername, application.CreateZoneInput{
		Name:        req.Name,
		Description: req.Description,
		FeedURI:     req.FeedURI,
		WorksiteID:  req.WorksiteID,
	})
	if err != nil {
		return httptransport.ZoneResponse{}, err
	}
	return zoneResponse(zone), nil
}

func (h Handler) UpdateZoneHandler(ctx context.Context, actorUsername string, zoneID string, req httptransport.UpdateZoneRequest) (httptransport.ZoneResponse, error) {
	zone, err := h.Service.UpdateZone(ctx, actorUsername, zoneID, application.UpdateZoneInput{
		Description: req.Description,
		FeedURI:     req.FeedURI,
	})
	if err != nil {
		return httptransport.ZoneResponse{}, err
	}
	return zoneResponse(zone), nil
}

func (h Handler) DeleteZoneHandler(ctx context.Context, actorUsername string, zoneID string) error {
	return h.Service.DeleteZone(ctx, actorUsername, zoneID)
}

func projectResponse(project entities.Project) httptransport.ProjectResponse {
	return httptransport.ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		CreatedAt:   project.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func worksiteResponse(worksite entities.Worksite) httptransport.WorksiteResponse {
	return httptransport.WorksiteResponse{
		ID:          worksite.ID,
		Name:        worksite.Name,
		Description: worksite.Description,
		ProjectID:   worksite.ProjectID,
		CreatedAt:   worksite.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func zoneResponse(zone entities.Zone) httptransport.ZoneResponse {
	return httptransport.ZoneResponse{
		ID:          zone.ID,
		Name:        zone.Name,
		Description: zone.Description,
		FeedURI:     zone.FeedURI,
		WorksiteID:  zone.WorksiteID,
		ProjectID:   zone.ProjectID,
		CreatedAt:   zone.CreatedAt.UTC().Format(time.RFC3339),
	}
}
