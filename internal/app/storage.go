package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	dbmigrations "github.com/Ardidini12/XBHL/db"
	"github.com/Ardidini12/XBHL/internal/config"
	"github.com/Ardidini12/XBHL/internal/domain/club"
	"github.com/Ardidini12/XBHL/internal/domain/league"
	"github.com/Ardidini12/XBHL/internal/domain/match"
	"github.com/Ardidini12/XBHL/internal/domain/player"
	"github.com/Ardidini12/XBHL/internal/domain/scheduler"
	cacherepo "github.com/Ardidini12/XBHL/internal/infrastructure/repository/cache"
	"github.com/Ardidini12/XBHL/internal/infrastructure/repository/memory"
	"github.com/Ardidini12/XBHL/internal/infrastructure/repository/postgres"
	basecache "github.com/Ardidini12/XBHL/internal/platform/cache"
	"github.com/Ardidini12/XBHL/internal/platform/logging"
)

const dbPingTimeout = 5 * time.Second

type repositories struct {
	leagues league.Repository
	clubs   club.Repository
	configs scheduler.ConfigRepository
	runs    scheduler.RunRepository
	matches match.Repository
	players player.Repository
	stats   player.StatsRepository
}

func openRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, func() error, error) {
	var (
		repos   repositories
		cleanup = func() error { return nil }
	)

	switch cfg.StorageDriver {
	case config.StorageMemory:
		store := memory.NewStore()
		if cfg.SeedFile != "" {
			if err := memory.LoadSeedFile(store, cfg.SeedFile); err != nil {
				return repositories{}, nil, fmt.Errorf("load seed file: %w", err)
			}
			logger.Info("memory store seeded", "path", cfg.SeedFile)
		}
		repos = repositories{
			leagues: memory.NewLeagueRepository(store),
			clubs:   memory.NewClubRepository(store),
			configs: memory.NewSchedulerConfigRepository(store),
			runs:    memory.NewSchedulerRunRepository(store),
			matches: memory.NewMatchRepository(store),
			players: memory.NewPlayerRepository(store),
			stats:   memory.NewPlayerStatsRepository(store),
		}
	case config.StoragePostgres:
		db, err := openPostgres(ctx, cfg, logger)
		if err != nil {
			return repositories{}, nil, err
		}
		cleanup = db.Close
		repos = repositories{
			leagues: postgres.NewLeagueRepository(db),
			clubs:   postgres.NewClubRepository(db),
			configs: postgres.NewSchedulerConfigRepository(db),
			runs:    postgres.NewSchedulerRunRepository(db),
			matches: postgres.NewMatchRepository(db),
			players: postgres.NewPlayerRepository(db),
			stats:   postgres.NewPlayerStatsRepository(db),
		}
	default:
		return repositories{}, nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.leagues = cacherepo.NewLeagueRepository(repos.leagues, store)
		repos.clubs = cacherepo.NewClubRepository(repos.clubs, store)
	}

	return repos, cleanup, nil
}

func openPostgres(ctx context.Context, cfg config.Config, logger *logging.Logger) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	if cfg.DBAutoMigrate {
		version, err := dbmigrations.MigrateUp(dsn)
		if err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		logger.Info("database migrated", "version", version)
	}

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("postgres connected", "db_name", dbNameFromURL(cfg.DBURL), "max_open_conns", cfg.DBMaxOpenConns)
	return db, nil
}
