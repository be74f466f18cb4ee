package accountservice

import (
	"log/slog"
	"time"

	bcryptadapter "sitesense/contexts/identity-access/account-service/adapters/bcrypt"
	httpadapter "sitesense/contexts/identity-access/account-service/adapters/http"
	jwtadapter "sitesense/contexts/identity-access/account-service/adapters/jwt"
	"sitesense/contexts/identity-access/account-service/adapters/memory"
	"sitesense/contexts/identity-access/account-service/application"
	"sitesense/contexts/identity-access/account-service/ports"
)

// Module is the account-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository ports.Repository
	Hasher     ports.PasswordHasher
	Tokens     ports.TokenStrategy
	Policy     ports.PolicyWriter
	Registry   ports.RegistryReader
	Clock      ports.Clock
	IDs        ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:     deps.Repository,
		Hasher:   deps.Hasher,
		Tokens:   deps.Tokens,
		Policy:   deps.Policy,
		Registry: deps.Registry,
		Clock:    deps.Clock,
		IDs:      deps.IDs,
		Logger:   deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters and an HS256 token strategy using the given secret.
func NewInMemoryModule(secret string, policy ports.PolicyWriter, registry ports.RegistryReader, logger *slog.Logger) (Module, error) {
	store := memory.NewStore()
	tokens, err := jwtadapter.NewStrategy(secret, time.Hour, store)
	if err != nil {
		return Module{}, err
	}
	module := NewModule(Dependencies{
		Repository: store,
		Hasher:     bcryptadapter.Hasher{},
		Tokens:     tokens,
		Policy:     policy,
		Registry:   registry,
		Clock:      store,
		IDs:        store,
		Logger:     logger,
	})
	module.Store = store
	return module, nil
}
