package accesscontrol

import (
	"log/slog"
	"net/http"

	httpadapter "sitesense/contexts/identity-access/access-control/adapters/http"
	"sitesense/contexts/identity-access/access-control/application"
	"sitesense/contexts/identity-access/access-control/ports"
)

// Module is the access-control composition root exposed to runtime wiring.
type Module struct {
	Resolve   application.ResolveCredentialUseCase
	Authorize application.AuthorizeRequestUseCase
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Verifier                ports.TokenVerifier
	Rules                   ports.RuleEngine
	Ownership               ports.OwnershipReader
	Grants                  ports.GrantReader
	EnableOwnershipFallback bool
	Logger                  *slog.Logger
}

// NewModule wires the credential resolver and the request authorizer
// using explicit ports.
func NewModule(deps Dependencies) Module {
	return Module{
		Resolve: application.ResolveCredentialUseCase{
			Verifier: deps.Verifier,
			Logger:   deps.Logger,
		},
		Authorize: application.AuthorizeRequestUseCase{
			Rules:                   deps.Rules,
			Ownership:               deps.Ownership,
			Grants:                  deps.Grants,
			EnableOwnershipFallback: deps.EnableOwnershipFallback,
			Logger:                  deps.Logger,
		},
	}
}

// Wrap applies both pipeline stages to a handler in the fixed order:
// authenticate runs first so the authorizer always observes the
// resolved identity. Reversing the stages would make every caller look
// anonymous to the rule engine.
func (m Module) Wrap(next http.Handler) http.Handler {
	authorize := httpadapter.Authorize(m.Authorize)
	authenticate := httpadapter.Authenticate(m.Resolve)
	return authenticate(authorize(next))
}
