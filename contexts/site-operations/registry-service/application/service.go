package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sitesense/contexts/site-operations/registry-service/domain/entities"
	domainerrors "sitesense/contexts/site-operations/registry-service/domain/errors"
	"sitesense/contexts/site-operations/registry-service/ports"
)

type Service struct {
	Repo   ports.Repository
	Gate   ports.ActorGate
	Clock  ports.Clock
	IDs    ports.IDGenerator
	Logger *slog.Logger
}

type CreateProjectInput struct {
	Name        string
	Description string
}

func (s Service) GetProject(ctx context.Context, projectID string) (entities.Project, error) {
	return s.Repo.GetProject(ctx, projectID)
}

func (s Service) ListProjects(ctx context.Context) ([]entities.Project, error) {
	return s.Repo.ListProjects(ctx)
}

func (s Service) CreateProject(ctx context.Context, actorUsername string, input CreateProjectInput) (entities.Project, error) {
	if err := s.requireSuperuser(ctx, actorUsername); err != nil {
		return entities.Project{}, err
	}
	name, description, err := validateNaming(input.Name, input.Description)
	if err != nil {
		return entities.Project{}, err
	}

	id, err := s.IDs.NewID(ctx)
	if err != nil {
		return entities.Project{}, fmt.Errorf("generate project id: %w", err)
	}
	project := entities.Project{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedAt:   s.now(),
	}
	if err := s.Repo.CreateProject(ctx, project); err != nil {
		return entities.Project{}, err
	}

	resolveLogger(s.Logger).Info("project created",
		"event", "project_created",
		"module", "site-operations/registry-service",
		"layer", "application",
		"project_id", project.ID,
		"name", project.Name,
	)
	return project, nil
}

// DeleteProject removes a project and everything beneath it. The
// repository cascades to worksites and zones.
func (s Service) DeleteProject(ctx context.Context, actorUsername string, projectID string) error {
	if err := s.requireSuperuser(ctx, actorUsername); err != nil {
		return err
	}
	if _, err := s.Repo.GetProject(ctx, projectID); err != nil {
		return err
	}
	if err := s.Repo.DeleteProject(ctx, projectID); err != nil {
		return err
	}
	resolveLogger(s.Logger).Info("project deleted",
		"event", "project_deleted",
		"module", "site-operations/registry-service",
		"layer", "application",
		"project_id", projectID,
	)
	return nil
}

type CreateWorksiteInput struct {
	Name        string
	Description string
	ProjectID   string
}

func (s Service) GetWorksite(ctx context.Context, worksiteID string) (entities.Worksite, error) {
	return s.Repo.GetWorksite(ctx, worksiteID)
}

func (s Service) ListWorksitesByProject(ctx context.Context, projectID string) ([]entities.Worksite, error) {
	if _, err := s.Repo.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.Repo.ListWorksitesByProject(ctx, projectID)
}

func (s Service) CreateWorksite(ctx context.Context, actorUsername string, input CreateWorksiteInput) (entities.Worksite, error) {
	if err := s.requireSuperuser(ctx, actorUsername); err != nil {
		return entities.Worksite{}, err
	}
	name, description, err := validateNaming(input.Name, input.Description)
	if err != nil {
		return entities.Worksite{}, err
	}
	if _, err := s.Repo.GetProject(ctx, input.ProjectID); err != nil {
		return entities.Worksite{}, err
	}

	id, err := s.IDs.NewID(ctx)
	if err != nil {
		return entities.Worksite{}, fmt.Errorf("generate worksite id: %w", err)
	}
	worksite := entities.Worksite{
		ID:          id,
		Name:        name,
		Description: description,
		ProjectID:   input.ProjectID,
		CreatedAt:   s.now(),
	}
	if err := s.Repo.CreateWorksite(ctx, worksite); err != nil {
		return entities.Worksite{}, err
	}

	resolveLogger(s.Logger).Info("worksite created",
		"event", "worksite_created",
		"module", "site-operations/registry-service",
		"layer", "application",
		"worksite_id", worksite.ID,
		"project_id", worksite.ProjectID,
	)
	return worksite, nil
}

type UpdateWorksiteInput struct {
	Description *string
}

func (s Service) UpdateWorksite(ctx context.Context, actorUsername string, worksiteID string, input UpdateWorksiteInput) (entities.Worksite, error) {
	if err := s.requireSuperuser(ctx, actorUsername); err != nil {
		return entities.Worksite{}, err
	}
	if input.Description != nil && len(*input.Description) > entities.MaxDescriptionLength {
		return entities.Worksite{}, domainerrors.ErrInvalidInput
	}
	if _, err := s.Repo.GetWorksite(ctx, worksiteID); err != nil {
		return entities.Worksite{}, err
	}
	if err := s.Repo.UpdateWorksite(ctx, worksiteID, ports.WorksiteUpdate{Description: input.Description}); err != nil {
		return entities.Worksite{}, err
	}
	return s.Repo.GetWorksite(ctx, worksiteID)
}

func (s Service) DeleteWorksite(ctx context.Context, actorUsername string, worksiteID string) error {
	if err := s.requireSuperuser(ctx, actorUsername); err != nil {
		return err
	}
	if _, err := s.Repo.GetWorksite(ctx, worksiteID); err != nil {
		return err
	}
	if err := s.Repo.DeleteWorksite(ctx, worksiteID); err != nil {
		return err
	}
	resolveLogger(s.Logger).Info("worksite deleted",
		"event", "worksite_deleted",
		"module", "site-operations/registry-service",
		"layer", "application",
		"worksite_id", worksiteID,
	)
	return nil
}

type CreateZoneInput struct {
	Name        string
	Description string
	FeedURI     string
	WorksiteID  string
}

func (s Service) GetZone(ctx context.Context, zoneID string) (entities.Zone, error) {
	return s.Repo.GetZone(ctx, zoneID)
}

func (s Service) ListZonesByWorksite(ctx context.Context, worksiteID string) ([]entities.Zone, error) {
	if _, err := s.Repo.GetWorksite(ctx, worksiteID); err != nil {
		return nil, err
	}
	return s.Repo.ListZonesByWorksite(ctx, worksiteID)
}

func (s Service) CreateZone(ctx context.Context, actorUsername string, input CreateZoneInput) (entities.Zone, error) {
	if err := s.requireSuperuser(ctx, actorUsername); err != nil {
		return entities.Zone{}, err
	}
	name, description, err := validateNaming(input.Name, input.Description)
	if err != nil {
		return entities.Zone{}, err
	}
	worksite, err := s.Repo.GetWorksite(ctx, input.WorksiteID)
	if err != nil {
		return entities.Zone{}, err
	}

	id, err := s.IDs.NewID(ctx)
	if err != nil {
		return entities.Zone{}, fmt.Errorf("generate zone id: %w", err)
	}
	zone := entities.Zone{
		ID:          id,
		Name:        name,
		Description: description,
		FeedURI:     strings.TrimSpace(input.FeedURI),
		WorksiteID:  worksite.ID,
		ProjectID:   worksite.ProjectID,
		CreatedAt:   s.now(),
	}
	if err := s.Repo.CreateZone(ctx, zone); err != nil {
		return entities.Zone{}, err
	}

	resolveLogger(s.Logger).Info("zone created",
		"event", "zone_created",
		"module", "site-operations/registry-service",
		"layer", "application",
		"zone_id", zone.ID,
		"worksite_id", zone.WorksiteID,
		"project_id", zone.ProjectID,
	)
	return zone, nil
}

type UpdateZoneInput struct {
	Description *string
	FeedURI     *string
}

func (s Service) UpdateZone(ctx context.Context, actorUsername string, zoneID string, input UpdateZoneInput) (entities.Zone, error) {
	if err := s.requireSuperuser(ctx, actorUsername); err != nil {
		return entities.Zone{}, err
	}
	if input.Description != nil && len(*input.Description) > entities.MaxDescriptionLength {
		return entities.Zone{}, domainerrors.ErrInvalidInput
	}
	if _, err := s.Repo.GetZone(ctx, zoneID); err != nil {
		return entities.Zone{}, err
	}
	update := ports.ZoneUpdate{Description: input.Description, FeedURI: input.FeedURI}
	if err := s.Repo.UpdateZone(ctx, zoneID, update); err != nil {
		return entities.Zone{}, err
	}
	return s.Repo.GetZone(ctx, zoneID)
}

func (s Service) DeleteZone(ctx context.Context, actorUsername string, zoneID string) error {
	if err := s.requireSuperuser(ctx, actorUsername); err != nil {
		return err
	}
	if _, err := s.Repo.GetZone(ctx, zoneID); err != nil {
		return err
	}
	if err := s.Repo.DeleteZone(ctx, zoneID); err != nil {
		return err
	}
	resolveLogger(s.Logger).Info("zone deleted",
		"event", "zone_deleted",
		"module", "site-operations/registry-service",
		"layer", "application",
		"zone_id", zoneID,
	)
	return nil
}

// ProjectExists and WorksiteExists serve existence checks without
// leaking entities across the context boundary.
func (s Service) ProjectExists(ctx context.Context, projectID string) (bool, error) {
	_, err := s.Repo.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrProjectNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s Service) WorksiteExists(ctx context.Context, worksiteID string) (bool, error) {
	_, err := s.Repo.GetWorksite(ctx, worksiteID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrWorksiteNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s Service) requireSuperuser(ctx context.Context, actorUsername string) error {
	if s.Gate == nil {
		return nil
	}
	super, err := s.Gate.IsSuperuser(ctx, strings.TrimSpace(actorUsername))
	if err != nil {
		return err
	}
	if !super {
		return domainerrors.ErrAdminRequired
	}
	return nil
}

func validateNaming(name string, description string) (string, string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || len(trimmed) > entities.MaxNameLength {
		return "", "", domainerrors.ErrInvalidInput
	}
	if len(description) > entities.MaxDescriptionLength {
		return "", "", domainerrors.ErrInvalidInput
	}
	return trimmed, description, nil
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
