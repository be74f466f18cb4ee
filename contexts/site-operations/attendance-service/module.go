package attendanceservice

import (
	"log/slog"

	httpadapter "sitesense/contexts/site-operations/attendance-service/adapters/http"
	"sitesense/contexts/site-operations/attendance-service/adapters/memory"
	"sitesense/contexts/site-operations/attendance-service/application"
	"sitesense/contexts/site-operations/attendance-service/ports"
)

// Module is the attendance-service composition root exposed to runtime
// wiring. Indexer is consumed by the worker process only.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Indexer application.Indexer
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository ports.Repository
	Sites      ports.SiteReader
	Bus        ports.Publisher
	Logs       ports.LogIndex
	Clock      ports.Clock
	IDs        ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:   deps.Repository,
		Sites:  deps.Sites,
		Bus:    deps.Bus,
		Clock:  deps.Clock,
		IDs:    deps.IDs,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
		Indexer: application.Indexer{
			Logs:   deps.Logs,
			Logger: deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters. The store doubles as the log index.
func NewInMemoryModule(sites ports.SiteReader, bus ports.Publisher, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Sites:      sites,
		Bus:        bus,
		Logs:       store,
		Clock:      store,
		IDs:        store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
