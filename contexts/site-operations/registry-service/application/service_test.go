package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sitesense/contexts/site-operations/registry-service/adapters/memory"
	domainerrors "sitesense/contexts/site-operations/registry-service/domain/errors"
)

type allowAllGate struct{}

func (allowAllGate) IsSuperuser(_ context.Context, _ string) (bool, error) {
	return true, nil
}

type denyGate struct{}

func (denyGate) IsSuperuser(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func newService(t *testing.T) (Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	service := Service{
		Repo:  store,
		Gate:  allowAllGate{},
		Clock: store,
		IDs:   store,
	}
	return service, store
}

func TestCreateProjectAndGet(t *testing.T) {
	service, _ := newService(t)

	project, err := service.CreateProject(context.Background(), "admin", CreateProjectInput{
		Name:        "Harbor Expansion",
		Description: "north pier works",
	})
	if err != nil {
		t.Fatalf("create project failed: %v", err)
	}
	if project.ID == "" {
		t.Fatal("expected generated project id")
	}

	got, err := service.GetProject(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("get project failed: %v", err)
	}
	if got.Name != "Harbor Expansion" {
		t.Fatalf("unexpected project name %q", got.Name)
	}
}

func TestCreateProjectValidation(t *testing.T) {
	service, _ := newService(t)

	_, err := service.CreateProject(context.Background(), "admin", CreateProjectInput{Name: "   "})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank name, got %v", err)
	}

	_, err = service.CreateProject(context.Background(), "admin", CreateProjectInput{
		Name: strings.Repeat("x", 65),
	})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for long name, got %v", err)
	}
}

func TestCreateProjectDuplicateName(t *testing.T) {
	service, _ := newService(t)

	if _, err := service.CreateProject(context.Background(), "admin", CreateProjectInput{Name: "Depot"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := service.CreateProject(context.Background(), "admin", CreateProjectInput{Name: "Depot"})
	if !errors.Is(err, domainerrors.ErrProjectNameExists) {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
}

func TestCreateProjectRequiresSuperuser(t *testing.T) {
	service, _ := newService(t)
	service.Gate = denyGate{}

	_, err := service.CreateProject(context.Background(), "worker", CreateProjectInput{Name: "Depot"})
	if !errors.Is(err, domainerrors.ErrAdminRequired) {
		t.Fatalf("expected admin required, got %v", err)
	}
}

func TestCreateWorksiteRequiresExistingProject(t *testing.T) {
	service, _ := newService(t)

	_, err := service.CreateWorksite(context.Background(), "admin", CreateWorksiteInput{
		Name:      "Pier A",
		ProjectID: "missing",
	})
	if !errors.Is(err, domainerrors.ErrProjectNotFound) {
		t.Fatalf("expected project not found, got %v", err)
	}
}

func TestZoneInheritsProjectFromWorksite(t *testing.T) {
	service, _ := newService(t)

	project, err := service.CreateProject(context.Background(), "admin", CreateProjectInput{Name: "Harbor"})
	if err != nil {
		t.Fatalf("create project failed: %v", err)
	}
	worksite, err := service.CreateWorksite(context.Background(), "admin", CreateWorksiteInput{
		Name:      "Pier A",
		ProjectID: project.ID,
	})
	if err != nil {
		t.Fatalf("create worksite failed: %v", err)
	}
	zone, err := service.CreateZone(context.Background(), "admin", CreateZoneInput{
		Name:       "Gate 1",
		FeedURI:    "rtsp://cam-1/stream",
		WorksiteID: worksite.ID,
	})
	if err != nil {
		t.Fatalf("create zone failed: %v", err)
	}
	if zone.ProjectID != project.ID {
		t.Fatalf("expected zone project %s, got %s", project.ID, zone.ProjectID)
	}
	if zone.WorksiteID != worksite.ID {
		t.Fatalf("expected zone worksite %s, got %s", worksite.ID, zone.WorksiteID)
	}
}

func TestUpdateZoneFields(t *testing.T) {
	service, _ := newService(t)

	project, _ := service.CreateProject(context.Background(), "admin", CreateProjectInput{Name: "Harbor"})
	worksite, _ := service.CreateWorksite(context.Background(), "admin", CreateWorksiteInput{
		Name:      "Pier A",
		ProjectID: project.ID,
	})
	zone, err := service.CreateZone(context.Background(), "admin", CreateZoneInput{
		Name:       "Gate 1",
		WorksiteID: worksite.ID,
	})
	if err != nil {
		t.Fatalf("create zone failed: %v", err)
	}

	description := "loading dock camera"
	feed := "rtsp://cam-2/stream"
	updated, err := service.UpdateZone(context.Background(), "admin", zone.ID, UpdateZoneInput{
		Description: &description,
		FeedURI:     &feed,
	})
	if err != nil {
		t.Fatalf("update zone failed: %v", err)
	}
	if updated.Description != description {
		t.Fatalf("unexpected description %q", updated.Description)
	}
	if updated.FeedURI != feed {
		t.Fatalf("unexpected feed uri %q", updated.FeedURI)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	service, _ := newService(t)

	project, _ := service.CreateProject(context.Background(), "admin", CreateProjectInput{Name: "Harbor"})
	worksite, _ := service.CreateWorksite(context.Background(), "admin", CreateWorksiteInput{
		Name:      "Pier A",
		ProjectID: project.ID,
	})
	zone, _ := service.CreateZone(context.Background(), "admin", CreateZoneInput{
		Name:       "Gate 1",
		WorksiteID: worksite.ID,
	})

	if err := service.DeleteProject(context.Background(), "admin", project.ID); err != nil {
		t.Fatalf("delete project failed: %v", err)
	}
	if _, err := service.GetWorksite(context.Background(), worksite.ID); !errors.Is(err, domainerrors.ErrWorksiteNotFound) {
		t.Fatalf("expected worksite removed, got %v", err)
	}
	if _, err := service.GetZone(context.Background(), zone.ID); !errors.Is(err, domainerrors.ErrZoneNotFound) {
		t.Fatalf("expected zone removed, got %v", err)
	}
}

func TestExistenceChecks(t *testing.T) {
	service, _ := newService(t)

	project, _ := service.CreateProject(context.Background(), "admin", CreateProjectInput{Name: "Harbor"})

	exists, err := service.ProjectExists(context.Background(), project.ID)
	if err != nil || !exists {
		t.Fatalf("expected project to exist, got %v %v", exists, err)
	}
	exists, err = service.ProjectExists(context.Background(), "missing")
	if err != nil || exists {
		t.Fatalf("expected project to be missing, got %v %v", exists, err)
	}
	exists, err = service.WorksiteExists(context.Background(), "missing")
	if err != nil || exists {
		t.Fatalf("expected worksite to be missing, got %v %v", exists, err)
	}
}
