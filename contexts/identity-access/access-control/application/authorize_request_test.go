package application

import (
	"context"
	"errors"
	"testing"

	"sitesense/contexts/identity-access/access-control/domain"
	"sitesense/contexts/identity-access/access-control/ports"
)

type fakeRules struct {
	allow bool
	err   error
}

func (f fakeRules) Enforce(_ context.Context, _, _, _ string) (bool, error) {
	return f.allow, f.err
}

type fakeOwnership struct {
	projects  map[string]ports.ResourceChain
	worksites map[string]ports.ResourceChain
	zones     map[string]ports.ResourceChain
}

func (f fakeOwnership) ProjectChain(_ context.Context, id string) (ports.ResourceChain, error) {
	return f.projects[id], nil
}

func (f fakeOwnership) WorksiteChain(_ context.Context, id string) (ports.ResourceChain, error) {
	return f.worksites[id], nil
}

func (f fakeOwnership) ZoneChain(_ context.Context, id string) (ports.ResourceChain, error) {
	return f.zones[id], nil
}

type fakeGrants struct {
	grants ports.Grants
	err    error
}

func (f fakeGrants) ListGrants(_ context.Context, _ string) (ports.Grants, error) {
	return f.grants, f.err
}

func TestAuthorizePolicyAllow(t *testing.T) {
	authorizer := AuthorizeRequestUseCase{Rules: fakeRules{allow: true}}

	decision := authorizer.Execute(context.Background(), "alice", "/projects", "GET")
	if !decision.Allowed {
		t.Fatal("expected allow")
	}
	if decision.Reason != domain.DecisionPolicyAllowed {
		t.Fatalf("expected policy_allowed, got %s", decision.Reason)
	}
}

func TestAuthorizePolicyDeny(t *testing.T) {
	authorizer := AuthorizeRequestUseCase{Rules: fakeRules{}}

	decision := authorizer.Execute(context.Background(), "alice", "/projects", "DELETE")
	if decision.Allowed {
		t.Fatal("expected deny")
	}
	if decision.Reason != domain.DecisionPolicyDenied {
		t.Fatalf("expected policy_denied, got %s", decision.Reason)
	}
}

func TestAuthorizeEngineErrorDenies(t *testing.T) {
	authorizer := AuthorizeRequestUseCase{Rules: fakeRules{err: errors.New("adapter down")}}

	decision := authorizer.Execute(context.Background(), "alice", "/projects", "GET")
	if decision.Allowed {
		t.Fatal("expected deny on engine error")
	}
	if decision.Reason != domain.DecisionEngineError {
		t.Fatalf("expected engine_error, got %s", decision.Reason)
	}
}

func TestAuthorizeBlankIdentityTreatedAsAnonymous(t *testing.T) {
	authorizer := AuthorizeRequestUseCase{Rules: fakeRules{}}

	decision := authorizer.Execute(context.Background(), "  ", "/projects", "GET")
	if decision.Identity != domain.AnonymousIdentity {
		t.Fatalf("expected anonymous identity, got %q", decision.Identity)
	}
}

func TestOwnershipFallbackDirectProject(t *testing.T) {
	authorizer := AuthorizeRequestUseCase{
		Rules: fakeRules{},
		Ownership: fakeOwnership{
			projects: map[string]ports.ResourceChain{
				"proj-1": {Found: true, ProjectID: "proj-1"},
			},
		},
		Grants:                  fakeGrants{grants: ports.Grants{ProjectIDs: []string{"proj-1"}}},
		EnableOwnershipFallback: true,
	}

	decision := authorizer.Execute(context.Background(), "alice", "/projects/proj-1", "GET")
	if !decision.Allowed {
		t.Fatal("expected ownership fallback to allow")
	}
	if decision.Reason != domain.DecisionOwnershipAllowed {
		t.Fatalf("expected ownership_allowed, got %s", decision.Reason)
	}
}

func TestOwnershipFallbackWorksiteInheritsProject(t *testing.T) {
	authorizer := AuthorizeRequestUseCase{
		Rules: fakeRules{},
		Ownership: fakeOwnership{
			worksites: map[string]ports.ResourceChain{
				"site-1": {Found: true, ProjectID: "proj-1", WorksiteID: "site-1"},
			},
		},
		Grants:                  fakeGrants{grants: ports.Grants{ProjectIDs: []string{"proj-1"}}},
		EnableOwnershipFallback: true,
	}

	decision := authorizer.Execute(context.Background(), "alice", "/worksites/site-1", "GET")
	if !decision.Allowed {
		t.Fatal("expected project grant to cover worksite")
	}
}

func TestOwnershipFallbackZoneInheritsChain(t *testing.T) {
	ownership := fakeOwnership{
		zones: map[string]ports.ResourceChain{
			"zone-1": {Found: true, ProjectID: "proj-1", WorksiteID: "site-1"},
		},
	}

	byWorksite := AuthorizeRequestUseCase{
		Rules:                   fakeRules{},
		Ownership:               ownership,
		Grants:                  fakeGrants{grants: ports.Grants{WorksiteIDs: []string{"site-1"}}},
		EnableOwnershipFallback: true,
	}
	if decision := byWorksite.Execute(context.Background(), "alice", "/zones/zone-1", "GET"); !decision.Allowed {
		t.Fatal("expected worksite grant to cover zone")
	}

	byProject := AuthorizeRequestUseCase{
		Rules:                   fakeRules{},
		Ownership:               ownership,
		Grants:                  fakeGrants{grants: ports.Grants{ProjectIDs: []string{"proj-1"}}},
		EnableOwnershipFallback: true,
	}
	if decision := byProject.Execute(context.Background(), "alice", "/zones/zone-1", "GET"); !decision.Allowed {
		t.Fatal("expected project grant to cover zone")
	}
}

func TestOwnershipFallbackMissingResourceDenies(t *testing.T) {
	authorizer := AuthorizeRequestUseCase{
		Rules:                   fakeRules{},
		Ownership:               fakeOwnership{},
		Grants:                  fakeGrants{grants: ports.Grants{ProjectIDs: []string{"proj-1"}}},
		EnableOwnershipFallback: true,
	}

	decision := authorizer.Execute(context.Background(), "alice", "/projects/unknown", "GET")
	if decision.Allowed {
		t.Fatal("expected deny for unknown resource")
	}
}

func TestOwnershipFallbackSkippedForAnonymous(t *testing.T) {
	authorizer := AuthorizeRequestUseCase{
		Rules: fakeRules{},
		Ownership: fakeOwnership{
			projects: map[string]ports.ResourceChain{
				"proj-1": {Found: true, ProjectID: "proj-1"},
			},
		},
		Grants:                  fakeGrants{grants: ports.Grants{ProjectIDs: []string{"proj-1"}}},
		EnableOwnershipFallback: true,
	}

	decision := authorizer.Execute(context.Background(), domain.AnonymousIdentity, "/projects/proj-1", "GET")
	if decision.Allowed {
		t.Fatal("expected anonymous to bypass ownership fallback")
	}
}

func TestOwnershipFallbackDisabled(t *testing.T) {
	authorizer := AuthorizeRequestUseCase{
		Rules: fakeRules{},
		Ownership: fakeOwnership{
			projects: map[string]ports.ResourceChain{
				"proj-1": {Found: true, ProjectID: "proj-1"},
			},
		},
		Grants: fakeGrants{grants: ports.Grants{ProjectIDs: []string{"proj-1"}}},
	}

	decision := authorizer.Execute(context.Background(), "alice", "/projects/proj-1", "GET")
	if decision.Allowed {
		t.Fatal("expected deny when fallback disabled")
	}
}
