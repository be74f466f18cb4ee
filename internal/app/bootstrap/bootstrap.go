package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	accesscontrol "sitesense/contexts/identity-access/access-control"
	casbinadapter "sitesense/contexts/identity-access/access-control/adapters/casbin"
	accountservice "sitesense/contexts/identity-access/account-service"
	accountbcrypt "sitesense/contexts/identity-access/account-service/adapters/bcrypt"
	accountjwt "sitesense/contexts/identity-access/account-service/adapters/jwt"
	accountpostgres "sitesense/contexts/identity-access/account-service/adapters/postgres"
	attendanceservice "sitesense/contexts/site-operations/attendance-service"
	attendancememory "sitesense/contexts/site-operations/attendance-service/adapters/memory"
	attendancepostgres "sitesense/contexts/site-operations/attendance-service/adapters/postgres"
	attendanceapp "sitesense/contexts/site-operations/attendance-service/application"
	registryservice "sitesense/contexts/site-operations/registry-service"
	registrypostgres "sitesense/contexts/site-operations/registry-service/adapters/postgres"
	"sitesense/internal/platform/config"
	"sitesense/internal/platform/db"
	"sitesense/internal/platform/httpserver"
	"sitesense/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	bus             *messaging.Kafka
	indexer         attendanceapp.Indexer
	consumerEnabled bool
	logger          *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	if strings.TrimSpace(cfg.TokenSecret) == "" {
		return nil, errors.New("TOKEN_SECRET is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	models := accountpostgres.Models()
	models = append(models, registrypostgres.Models()...)
	models = append(models, attendancepostgres.Models()...)
	if err := pg.Migrate(models...); err != nil {
		return nil, err
	}

	// A process without a loaded rule table must not serve traffic.
	enforcer, err := casbinadapter.NewEnforcerFromFiles(cfg.PolicyModelPath, cfg.PolicyCSVPath, logger)
	if err != nil {
		return nil, err
	}

	bus, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	accountRepo := accountpostgres.NewRepository(pg.DB, logger)
	registryRepo := registrypostgres.NewRepository(pg.DB, logger)
	attendanceRepo := attendancepostgres.NewRepository(pg.DB, logger)

	tokens, err := accountjwt.NewStrategy(
		cfg.TokenSecret,
		time.Duration(cfg.TokenLifetimeHours)*time.Hour,
		accountpostgres.SystemClock{},
	)
	if err != nil {
		return nil, err
	}

	accounts := accountservice.NewModule(accountservice.Dependencies{
		Repository: accountRepo,
		Hasher:     accountbcrypt.Hasher{},
		Tokens:     tokens,
		Policy:     enforcer,
		Registry:   registryResourceReader{repo: registryRepo},
		Clock:      accountpostgres.SystemClock{},
		IDs:        accountpostgres.UUIDGenerator{},
		Logger:     logger,
	})

	registry := registryservice.NewModule(registryservice.Dependencies{
		Repository: registryRepo,
		Gate:       accountActorGate{repo: accountRepo},
		Clock:      registrypostgres.SystemClock{},
		IDs:        registrypostgres.UUIDGenerator{},
		Logger:     logger,
	})

	attendance := attendanceservice.NewModule(attendanceservice.Dependencies{
		Repository: attendanceRepo,
		Sites:      registryResourceReader{repo: registryRepo},
		Bus:        bus,
		Logs:       attendancememory.NewStore(),
		Clock:      attendancepostgres.SystemClock{},
		IDs:        attendancepostgres.UUIDGenerator{},
		Logger:     logger,
	})

	access := accesscontrol.NewModule(accesscontrol.Dependencies{
		Verifier:                accountTokenVerifier{accounts: accounts.Service},
		Rules:                   enforcer,
		Ownership:               registryOwnershipReader{repo: registryRepo},
		Grants:                  accountGrantReader{repo: accountRepo},
		EnableOwnershipFallback: cfg.EnableOwnershipFallback,
		Logger:                  logger,
	})

	server := httpserver.New(access, accounts, registry, attendance, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")

	bus, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	// The memory adapter backs the searchable log index; swapping in an
	// external search engine is an adapter change only.
	logs := attendancememory.NewStore()
	return &WorkerApp{
		bus: bus,
		indexer: attendanceapp.Indexer{
			Logs:   logs,
			Logger: logger,
		},
		consumerEnabled: cfg.EnableAttendanceConsumer,
		logger:          logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.consumerEnabled {
		err := w.bus.Subscribe(ctx, attendanceapp.TopicAttendanceLogs, "attendance-indexer-cg", w.indexer.HandleEnvelope)
		if err != nil {
			return err
		}
	}

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"consumer_enabled", w.consumerEnabled,
	)

	<-ctx.Done()
	return nil
}

func (w *WorkerApp) Close() error {
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
