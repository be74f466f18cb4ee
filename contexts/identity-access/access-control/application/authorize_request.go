package application

import (
	"context"
	"log/slog"
	"strings"

	"sitesense/contexts/identity-access/access-control/domain"
	"sitesense/contexts/identity-access/access-control/ports"
)

// AuthorizeRequestUseCase evaluates one request against the rule table,
// with an optional ownership fallback for concrete registry resources.
// Rule-engine failures deny; they never widen access.
type AuthorizeRequestUseCase struct {
	Rules                   ports.RuleEngine
	Ownership               ports.OwnershipReader
	Grants                  ports.GrantReader
	EnableOwnershipFallback bool
	Logger                  *slog.Logger
}

func (u AuthorizeRequestUseCase) Execute(ctx context.Context, identity string, path string, method string) domain.Decision {
	logger := resolveLogger(u.Logger)
	if strings.TrimSpace(identity) == "" {
		identity = domain.AnonymousIdentity
	}

	decision := domain.Decision{
		Identity: identity,
		Path:     path,
		Method:   method,
	}

	allowed, err := u.Rules.Enforce(ctx, identity, path, method)
	if err != nil {
		logger.Error("rule engine evaluation failed, denying",
			"event", "authz_engine_error",
			"module", "identity-access/access-control",
			"layer", "application",
			"identity", identity,
			"path", path,
			"method", method,
			"error", err.Error(),
		)
		decision.Reason = domain.DecisionEngineError
		return decision
	}
	if allowed {
		decision.Allowed = true
		decision.Reason = domain.DecisionPolicyAllowed
		return decision
	}

	if u.EnableOwnershipFallback && identity != domain.AnonymousIdentity {
		owned, ok := u.ownershipAllows(ctx, identity, path)
		if ok && owned {
			decision.Allowed = true
			decision.Reason = domain.DecisionOwnershipAllowed
			return decision
		}
	}

	logger.Debug("request denied by policy",
		"event", "authz_denied",
		"module", "identity-access/access-control",
		"layer", "application",
		"identity", identity,
		"path", path,
		"method", method,
	)
	decision.Reason = domain.DecisionPolicyDenied
	return decision
}

// ownershipAllows checks whether the path targets a concrete registry
// resource whose owning chain intersects the user's grants. The second
// return value is false when the path has no ownership semantics or a
// lookup failed.
func (u AuthorizeRequestUseCase) ownershipAllows(ctx context.Context, username string, path string) (bool, bool) {
	if u.Ownership == nil || u.Grants == nil {
		return false, false
	}

	resourceType, resourceID := splitResourcePath(path)
	if resourceID == "" {
		return false, false
	}

	var (
		chain ports.ResourceChain
		err   error
	)
	switch resourceType {
	case "projects":
		chain, err = u.Ownership.ProjectChain(ctx, resourceID)
	case "worksites":
		chain, err = u.Ownership.WorksiteChain(ctx, resourceID)
	case "zones":
		chain, err = u.Ownership.ZoneChain(ctx, resourceID)
	default:
		return false, false
	}
	if err != nil || !chain.Found {
		return false, err == nil
	}

	grants, err := u.Grants.ListGrants(ctx, username)
	if err != nil {
		resolveLogger(u.Logger).Error("grant lookup failed during ownership fallback",
			"event", "authz_grant_lookup_failed",
			"module", "identity-access/access-control",
			"layer", "application",
			"identity", username,
			"error", err.Error(),
		)
		return false, false
	}

	switch resourceType {
	case "projects":
		return containsID(grants.ProjectIDs, resourceID), true
	case "worksites":
		return containsID(grants.WorksiteIDs, resourceID) ||
			containsID(grants.ProjectIDs, chain.ProjectID), true
	default: // zones
		return containsID(grants.ProjectIDs, chain.ProjectID) ||
			containsID(grants.WorksiteIDs, chain.WorksiteID), true
	}
}

// splitResourcePath extracts ("projects", "<id>") from paths shaped
// like /projects/<id> or /projects/<id>/worksites. Collection paths
// (/projects, /projects/) yield an empty id.
func splitResourcePath(path string) (string, string) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "", ""
	}
	segments := strings.Split(trimmed, "/")
	if len(segments) < 2 {
		return segments[0], ""
	}
	return segments[0], segments[1]
}

func containsID(items []string, target string) bool {
	if target == "" {
		return false
	}
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
