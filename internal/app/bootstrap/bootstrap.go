package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	authorization "kura/contexts/identity-access/authorization-service"
	authmemory "kura/contexts/identity-access/authorization-service/adapters/memory"
	authpostgres "kura/contexts/identity-access/authorization-service/adapters/postgres"
	electionengine "kura/contexts/student-governance/election-engine"
	electionpostgres "kura/contexts/student-governance/election-engine/adapters/postgres"
	"kura/contexts/student-governance/election-engine/adapters/seed"
	"kura/contexts/student-governance/election-engine/domain/entities"
	"kura/contexts/student-governance/election-engine/ports"
	"kura/internal/platform/config"
	"kura/internal/platform/db"
	"kura/internal/platform/httpserver"
	"kura/internal/platform/messaging"
	"kura/internal/platform/metrics"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type eventBus interface {
	ports.EventPublisher
	Close() error
}

// runtime holds everything the api, worker and cli processes share.
type runtime struct {
	cfg      config.Config
	logger   *slog.Logger
	postgres *db.Postgres
	students *electionpostgres.Repository
	election electionengine.Module
	authz    authorization.Module
	bus      eventBus
	metrics  *metrics.Registry
}

type APIApp struct {
	server *httpserver.Server
	relay  *RelayScheduler
	rt     *runtime
}

type WorkerApp struct {
	relay *RelayScheduler
	rt    *runtime
}

func BuildAPI(ctx context.Context) (*APIApp, error) {
	rt, err := buildRuntime(ctx, "api")
	if err != nil {
		return nil, err
	}
	if err := rt.seedAdmins(ctx); err != nil {
		_ = rt.close()
		return nil, err
	}

	app := &APIApp{
		server: httpserver.New(rt.election, rt.authz, rt.metrics, rt.logger, normalizeAddr(rt.cfg.HTTPPort)),
		rt:     rt,
	}
	// The memory outbox lives in this process, so nothing else can drain it.
	if rt.cfg.StorageDriver == config.StorageMemory {
		app.relay = NewRelayScheduler(rt.election.Relay, rt.cfg.OutboxPollInterval, rt.logger)
	}
	return app, nil
}

func BuildWorker(ctx context.Context) (*WorkerApp, error) {
	rt, err := buildRuntime(ctx, "worker")
	if err != nil {
		return nil, err
	}
	if rt.cfg.StorageDriver != config.StoragePostgres {
		_ = rt.close()
		return nil, errors.New("worker requires STORAGE_DRIVER=postgres")
	}
	return &WorkerApp{
		relay: NewRelayScheduler(rt.election.Relay, rt.cfg.OutboxPollInterval, rt.logger),
		rt:    rt,
	}, nil
}

func buildRuntime(ctx context.Context, process string) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg, process)

	rt := &runtime{cfg: cfg, logger: logger}
	if cfg.MetricsEnabled {
		rt.metrics = metrics.New()
	}

	switch cfg.StorageDriver {
	case config.StorageMemory:
		if err := rt.buildMemory(); err != nil {
			return nil, err
		}
	case config.StoragePostgres:
		if err := rt.buildPostgres(ctx); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	bus, err := newEventBus(cfg, logger)
	if err != nil {
		_ = rt.close()
		return nil, err
	}
	rt.bus = bus
	rt.election.Relay.Publisher = bus
	rt.election.Relay.TopicPrefix = cfg.EventSubjectPrefix
	rt.election.Relay.BatchSize = cfg.OutboxBatchSize
	rt.election.Relay.OnPublished = rt.metrics.OutboxPublished

	logger.Info("runtime built",
		"event", "bootstrap_runtime_built",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"storage_driver", cfg.StorageDriver,
		"event_bus", cfg.EventBus,
		"metrics_enabled", cfg.MetricsEnabled,
	)
	return rt, nil
}

func (rt *runtime) buildMemory() error {
	var students []entities.Student
	if path := strings.TrimSpace(rt.cfg.StudentSeedFile); path != "" {
		loaded, err := seed.ReadStudentsFile(path)
		if err != nil {
			return err
		}
		students = loaded
		rt.logger.Info("student register loaded",
			"event", "bootstrap_students_loaded",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"path", path,
			"count", len(students),
		)
	}
	rt.election = electionengine.NewInMemoryModule(students, rt.logger)

	authStore := authmemory.NewStore()
	rt.authz = authorization.NewModule(authorization.Dependencies{
		Repository:         authStore,
		PermissionCache:    authStore,
		Clock:              authStore,
		IDGenerator:        authStore,
		PermissionCacheTTL: rt.cfg.PermissionCacheTTL,
		Logger:             rt.logger,
	})
	rt.authz.Store = authStore
	return nil
}

func (rt *runtime) buildPostgres(ctx context.Context) error {
	pg, err := db.Connect(ctx, rt.cfg.PostgresDSN)
	if err != nil {
		return err
	}
	rt.postgres = pg

	repo := electionpostgres.NewRepository(pg.DB, rt.logger)
	rt.students = repo
	rt.election = electionengine.NewModule(electionengine.Dependencies{
		Students:      repo,
		Phases:        repo,
		Candidates:    repo,
		DelegateVotes: repo,
		Elected:       repo,
		Parties:       repo,
		CouncilVotes:  repo,
		Reset:         repo,
		Outbox:        repo,
		OutboxReader:  repo,
		Clock:         electionpostgres.SystemClock{},
		IDGen:         electionpostgres.UUIDGenerator{},
		Logger:        rt.logger,
	})

	// Permission sets are cached per process; staleness is bounded by the TTL.
	authCache := authmemory.NewStore()
	rt.authz = authorization.NewModule(authorization.Dependencies{
		Repository:         authpostgres.NewRepository(pg.DB, rt.logger),
		PermissionCache:    authCache,
		Clock:              authpostgres.SystemClock{},
		IDGenerator:        authpostgres.UUIDGenerator{},
		PermissionCacheTTL: rt.cfg.PermissionCacheTTL,
		Logger:             rt.logger,
	})
	return nil
}

func newEventBus(cfg config.Config, logger *slog.Logger) (eventBus, error) {
	switch cfg.EventBus {
	case config.EventBusNATS:
		bus, err := messaging.NewNATS(cfg.NATSURL, cfg.ServiceName, logger)
		if err != nil {
			return nil, err
		}
		return bus, nil
	default:
		// Nothing in this repo subscribes in-process, so relayed rows are
		// marked published without a listener.
		logger.Warn("in-process event bus has no consumers; set EVENT_BUS=nats to deliver election events",
			"event", "bootstrap_inprocess_bus_sink",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		return messaging.NewInProcess(logger), nil
	}
}

func newLogger(cfg config.Config, process string) *slog.Logger {
	level := cfg.SlogLevel()
	if process == "cli" && level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("service", cfg.ServiceName, "process", process)
}

func (rt *runtime) seedAdmins(ctx context.Context) error {
	if len(rt.cfg.ElectionAdminIDs) == 0 {
		rt.logger.Warn("no election admins configured",
			"event", "bootstrap_admins_missing",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		return nil
	}
	_, err := rt.authz.SeedAdmins.Execute(ctx, rt.cfg.ElectionAdminIDs)
	return err
}

func (rt *runtime) close() error {
	var errs []error
	if rt.bus != nil {
		errs = append(errs, rt.bus.Close())
	}
	if rt.postgres != nil {
		errs = append(errs, rt.postgres.Close())
	}
	return errors.Join(errs...)
}

// Run serves HTTP until Shutdown is called. It also runs the relay when the
// outbox is held in memory.
func (a *APIApp) Run(_ context.Context) error {
	a.rt.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"embedded_relay", a.relay != nil,
	)
	if a.relay != nil {
		if err := a.relay.Start(); err != nil {
			return err
		}
	}
	return a.server.Start()
}

func (a *APIApp) Shutdown(ctx context.Context) error {
	if a.relay != nil {
		a.relay.Stop()
	}
	return a.server.Shutdown(ctx)
}

func (a *APIApp) Close() error {
	return a.rt.close()
}

// Run schedules the relay and blocks until ctx is cancelled.
func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.relay.Start(); err != nil {
		return err
	}
	w.rt.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.rt.cfg.OutboxPollInterval.String(),
	)
	<-ctx.Done()
	w.relay.Stop()
	w.rt.logger.Info("worker app stopped",
		"event", "bootstrap_worker_stopped",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return nil
}

func (w *WorkerApp) Close() error {
	return w.rt.close()
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
