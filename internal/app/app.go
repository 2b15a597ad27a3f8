package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Ardidini12/XBHL/external/ea"
	"github.com/Ardidini12/XBHL/internal/config"
	"github.com/Ardidini12/XBHL/internal/interfaces/httpapi"
	idgen "github.com/Ardidini12/XBHL/internal/platform/id"
	"github.com/Ardidini12/XBHL/internal/platform/logging"
	"github.com/Ardidini12/XBHL/internal/platform/resilience"
	"github.com/Ardidini12/XBHL/internal/usecase"
)

// App owns the long-lived pieces of the ingestion service.
type App struct {
	Server    *http.Server
	Scheduler *usecase.SchedulerService

	logger  *logging.Logger
	closeDB func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, closeDB, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	ids := idgen.NewUUIDGenerator()
	gateway := ea.NewClient(ea.ClientConfig{
		BaseURL:           cfg.EABaseURL,
		Platform:          cfg.EAPlatform,
		MatchType:         cfg.EAMatchType,
		Timeout:           cfg.EATimeout,
		RequestsPerMinute: cfg.EARequestsPerMinute,
		MaxRetries:        cfg.EAMaxRetries,
		Logger:            logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.EACircuitEnabled,
			FailureThreshold: cfg.EACircuitFailureCount,
			OpenTimeout:      cfg.EACircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.EACircuitHalfOpenMaxReq,
		},
	})

	audit := usecase.NewRunAuditLog(repos.runs, ids, logger)
	ingestion := usecase.NewIngestionService(usecase.IngestionDependencies{
		Configs:  repos.configs,
		Seasons:  repos.leagues,
		Clubs:    repos.clubs,
		Matches:  repos.matches,
		Players:  repos.players,
		Stats:    repos.stats,
		Gateway:  gateway,
		Audit:    audit,
		IDs:      ids,
		Location: cfg.SchedulerLocation,
		Logger:   logger,
	})

	schedulerSvc, err := usecase.NewSchedulerService(repos.configs, audit, ingestion, usecase.SchedulerOptions{
		Location: cfg.SchedulerLocation,
		PoolSize: cfg.SchedulerWorkerPoolSize,
		Logger:   logger,
	})
	if err != nil {
		_ = closeDB()
		return nil, err
	}

	handler := httpapi.NewHandler(
		usecase.NewSchedulerAdminService(repos.configs, repos.leagues, repos.matches, audit, schedulerSvc, ids, logger),
		usecase.NewMatchService(repos.matches, repos.leagues, repos.clubs),
		usecase.NewPlayerService(repos.players, repos.stats),
		logger,
	)
	if cfg.AdminToken == "" {
		logger.Warn("ADMIN_TOKEN is empty: scheduler admin routes are unauthenticated")
	}

	return &App{
		Server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.AdminToken),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		Scheduler: schedulerSvc,
		logger:    logger,
		closeDB:   closeDB,
	}, nil
}

// StartScheduler recovers state left by a previous process and starts the
// timer loop.
func (a *App) StartScheduler(ctx context.Context) error {
	if err := a.Scheduler.LoadActiveOnStartup(ctx); err != nil {
		return fmt.Errorf("load active schedulers: %w", err)
	}
	a.Scheduler.Run()
	return nil
}

// Shutdown stops accepting requests, drains in-flight cycles and closes
// storage. Every step runs even when an earlier one fails.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.Server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	if err := a.Scheduler.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown scheduler: %w", err))
	}
	if err := a.closeDB(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}
