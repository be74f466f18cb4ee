package ports

import "context"

// Principal is the verified caller a token resolves to.
type Principal struct {
	ID        string
	Username  string
	Superuser bool
}

// TokenVerifier turns a bearer token into a principal.
// Implementations must return domainerrors.ErrTokenInvalid for
// signature/expiry failures and domainerrors.ErrPrincipalNotFound for
// tokens bound to unknown accounts, so the resolver can distinguish
// credential failures from verifier-backend outages.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}

// RuleEngine evaluates one (subject, object, action) request against
// the loaded rule table.
type RuleEngine interface {
	Enforce(ctx context.Context, subject string, object string, action string) (bool, error)
}

// PolicyWriter mutates the rule table. Used by account access grants,
// not by the request pipeline.
type PolicyWriter interface {
	AddRule(ctx context.Context, subject string, object string, action string) error
	RemoveRule(ctx context.Context, subject string, object string, action string) error
	AddRoleLink(ctx context.Context, subject string, role string) error
	RemoveRoleLink(ctx context.Context, subject string, role string) error
}

// ResourceChain is the owning chain of a registry resource.
type ResourceChain struct {
	Found      bool
	ProjectID  string
	WorksiteID string
}

// OwnershipReader resolves a registry resource to its owning chain.
// Backed by the registry-service repository.
type OwnershipReader interface {
	ProjectChain(ctx context.Context, projectID string) (ResourceChain, error)
	WorksiteChain(ctx context.Context, worksiteID string) (ResourceChain, error)
	ZoneChain(ctx context.Context, zoneID string) (ResourceChain, error)
}

// Grants is the set of resources a user has been granted directly.
type Grants struct {
	ProjectIDs  []string
	WorksiteIDs []string
}

// GrantReader lists a user's direct resource grants.
// Backed by the account-service repository.
type GrantReader interface {
	ListGrants(ctx context.Context, username string) (Grants, error)
}
