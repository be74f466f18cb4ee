package bootstrap

import (
	"context"
	"errors"

	acerrors "sitesense/contexts/identity-access/access-control/domain/errors"
	acports "sitesense/contexts/identity-access/access-control/ports"
	accountapp "sitesense/contexts/identity-access/account-service/application"
	accounterrors "sitesense/contexts/identity-access/account-service/domain/errors"
	accountports "sitesense/contexts/identity-access/account-service/ports"
	registryerrors "sitesense/contexts/site-operations/registry-service/domain/errors"
	registryports "sitesense/contexts/site-operations/registry-service/ports"
)

// Context services stay isolated from each other; these small adapters
// bridge one service's port onto another service's surface. They live
// here so the contexts/ tree keeps zero cross-context imports.

// accountTokenVerifier exposes account token verification as the
// access-control TokenVerifier port, translating sentinel errors so the
// resolver can tell credential failures from backend outages.
type accountTokenVerifier struct {
	accounts accountapp.Service
}

func (v accountTokenVerifier) Verify(ctx context.Context, token string) (acports.Principal, error) {
	account, err := v.accounts.VerifyToken(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, accounterrors.ErrTokenInvalid):
			return acports.Principal{}, acerrors.ErrTokenInvalid
		case errors.Is(err, accounterrors.ErrAccountNotFound),
			errors.Is(err, accounterrors.ErrAccountInactive):
			return acports.Principal{}, acerrors.ErrPrincipalNotFound
		default:
			return acports.Principal{}, err
		}
	}
	return acports.Principal{
		ID:        account.ID,
		Username:  account.Username,
		Superuser: account.IsSuperuser,
	}, nil
}

// accountActorGate answers registry superuser checks from the account
// repository. Unknown actors are simply not superusers.
type accountActorGate struct {
	repo accountports.Repository
}

func (g accountActorGate) IsSuperuser(ctx context.Context, username string) (bool, error) {
	account, err := g.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, accounterrors.ErrAccountNotFound) {
			return false, nil
		}
		return false, err
	}
	return account.IsSuperuser, nil
}

// accountGrantReader exposes account resource grants to the
// access-control ownership fallback.
type accountGrantReader struct {
	repo accountports.Repository
}

func (g accountGrantReader) ListGrants(ctx context.Context, username string) (acports.Grants, error) {
	projectIDs, worksiteIDs, err := g.repo.ListGrants(ctx, username)
	if err != nil {
		if errors.Is(err, accounterrors.ErrAccountNotFound) {
			return acports.Grants{}, nil
		}
		return acports.Grants{}, err
	}
	return acports.Grants{
		ProjectIDs:  projectIDs,
		WorksiteIDs: worksiteIDs,
	}, nil
}

// registryOwnershipReader resolves registry resources to their owning
// chains for the access-control ownership fallback.
type registryOwnershipReader struct {
	repo registryports.Repository
}

func (o registryOwnershipReader) ProjectChain(ctx context.Context, projectID string) (acports.ResourceChain, error) {
	project, err := o.repo.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, registryerrors.ErrProjectNotFound) {
			return acports.ResourceChain{}, nil
		}
		return acports.ResourceChain{}, err
	}
	return acports.ResourceChain{Found: true, ProjectID: project.ID}, nil
}

func (o registryOwnershipReader) WorksiteChain(ctx context.Context, worksiteID string) (acports.ResourceChain, error) {
	worksite, err := o.repo.GetWorksite(ctx, worksiteID)
	if err != nil {
		if errors.Is(err, registryerrors.ErrWorksiteNotFound) {
			return acports.ResourceChain{}, nil
		}
		return acports.ResourceChain{}, err
	}
	return acports.ResourceChain{
		Found:      true,
		ProjectID:  worksite.ProjectID,
		WorksiteID: worksite.ID,
	}, nil
}

func (o registryOwnershipReader) ZoneChain(ctx context.Context, zoneID string) (acports.ResourceChain, error) {
	zone, err := o.repo.GetZone(ctx, zoneID)
	if err != nil {
		if errors.Is(err, registryerrors.ErrZoneNotFound) {
			return acports.ResourceChain{}, nil
		}
		return acports.ResourceChain{}, err
	}
	return acports.ResourceChain{
		Found:      true,
		ProjectID:  zone.ProjectID,
		WorksiteID: zone.WorksiteID,
	}, nil
}

// registryResourceReader validates granted resources for account
// access mutations.
type registryResourceReader struct {
	repo registryports.Repository
}

func (r registryResourceReader) ProjectExists(ctx context.Context, projectID string) (bool, error) {
	_, err := r.repo.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, registryerrors.ErrProjectNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r registryResourceReader) WorksiteExists(ctx context.Context, worksiteID string) (bool, error) {
	_, err := r.repo.GetWorksite(ctx, worksiteID)
	if err != nil {
		if errors.Is(err, registryerrors.ErrWorksiteNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
