package scheduler

import (
	"context"
	"time"
)

// ConfigRepository persists per-season schedules. GetBySeason reports false
// when the season has no config.
type ConfigRepository interface {
	GetBySeason(ctx context.Context, seasonID string) (Config, bool, error)
	List(ctx context.Context) ([]Config, error)
	Create(ctx context.Context, cfg Config) error
	Update(ctx context.Context, cfg Config) error
	SetState(ctx context.Context, seasonID string, active, paused bool, at time.Time) error
	DeleteBySeason(ctx context.Context, seasonID string) error
}

// RunRepository persists the run audit log.
type RunRepository interface {
	Create(ctx context.Context, run Run) error
	// Finish writes the terminal fields of a run that is still running and
	// reports whether a row was updated.
	Finish(ctx context.Context, run Run) (bool, error)
	ListByConfig(ctx context.Context, configID string, offset, limit int) ([]Run, error)
	CountByConfig(ctx context.Context, configID string) (int, error)
	LatestByConfig(ctx context.Context, configID string) (Run, bool, error)
	// FailRunning marks every running run failed with message and returns
	// how many were changed.
	FailRunning(ctx context.Context, message string, at time.Time) (int, error)
	// Prune deletes all but the keep newest runs of a config by started_at.
	Prune(ctx context.Context, configID string, keep int) (int, error)
}
