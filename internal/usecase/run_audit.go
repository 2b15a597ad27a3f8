package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/Ardidini12/XBHL/internal/domain/scheduler"
	"github.com/Ardidini12/XBHL/internal/platform/id"
	"github.com/Ardidini12/XBHL/internal/platform/logging"
)

const pruneConcurrency = 4

// RunAuditLog owns the bounded per-config run history.
type RunAuditLog struct {
	runs   scheduler.RunRepository
	ids    id.Generator
	logger *logging.Logger
	now    func() time.Time
}

func NewRunAuditLog(runs scheduler.RunRepository, ids id.Generator, logger *logging.Logger) *RunAuditLog {
	if logger == nil {
		logger = logging.Default()
	}
	return &RunAuditLog{
		runs:   runs,
		ids:    ids,
		logger: logger,
		now:    time.Now,
	}
}

// Begin records a running run for cfg and persists it before any work starts.
// The config's history is pruned right away so the running row counts
// against scheduler.RunRetention.
func (a *RunAuditLog) Begin(ctx context.Context, cfg scheduler.Config) (scheduler.Run, error) {
	runID, err := a.ids.NewID()
	if err != nil {
		return scheduler.Run{}, fmt.Errorf("generate run id: %w", err)
	}

	run := scheduler.Run{
		ID:        runID,
		ConfigID:  cfg.ID,
		SeasonID:  cfg.SeasonID,
		StartedAt: a.now().UTC(),
		Status:    scheduler.RunStatusRunning,
	}
	if err := a.runs.Create(ctx, run); err != nil {
		return scheduler.Run{}, fmt.Errorf("create run: %w", err)
	}
	// Finish prunes again, so a failure here only delays the cap.
	if err := a.Prune(ctx, cfg.ID); err != nil {
		a.logger.WarnContext(ctx, "prune on run start failed", "config_id", cfg.ID, "error", err)
	}
	return run, nil
}

// Finish completes run with cause, persists the terminal state once and
// prunes the config's history. The returned run reflects what was written.
func (a *RunAuditLog) Finish(ctx context.Context, run scheduler.Run, cause error) (scheduler.Run, error) {
	if !run.Complete(a.now().UTC(), cause) {
		return run, fmt.Errorf("%w: run %s already finished", ErrInvalidState, run.ID)
	}

	updated, err := a.runs.Finish(ctx, run)
	if err != nil {
		return run, fmt.Errorf("finish run: %w", err)
	}
	if !updated {
		a.logger.WarnContext(ctx, "run was no longer running when finished", "run_id", run.ID, "config_id", run.ConfigID)
	}

	if err := a.Prune(ctx, run.ConfigID); err != nil {
		return run, err
	}
	return run, nil
}

// Prune keeps the newest scheduler.RunRetention runs of a config.
func (a *RunAuditLog) Prune(ctx context.Context, configID string) error {
	removed, err := a.runs.Prune(ctx, configID, scheduler.RunRetention)
	if err != nil {
		return fmt.Errorf("prune runs of config %s: %w", configID, err)
	}
	if removed > 0 {
		a.logger.DebugContext(ctx, "pruned scheduler runs", "config_id", configID, "removed", removed)
	}
	return nil
}

// PruneAll prunes every config concurrently; errors are joined.
func (a *RunAuditLog) PruneAll(ctx context.Context, configIDs []string) error {
	p := pool.New().WithMaxGoroutines(pruneConcurrency).WithErrors().WithContext(ctx)
	for _, configID := range configIDs {
		p.Go(func(ctx context.Context) error {
			return a.Prune(ctx, configID)
		})
	}
	return p.Wait()
}

// RecoverOrphans fails every run left running by a previous process.
func (a *RunAuditLog) RecoverOrphans(ctx context.Context) (int, error) {
	recovered, err := a.runs.FailRunning(ctx, scheduler.OrphanedRunMessage, a.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("fail orphaned runs: %w", err)
	}
	if recovered > 0 {
		a.logger.WarnContext(ctx, "marked orphaned scheduler runs as failed", "count", recovered)
	}
	return recovered, nil
}

// List returns one page of a config's runs, newest first, and the total count.
func (a *RunAuditLog) List(ctx context.Context, configID string, skip, limit int) ([]scheduler.Run, int, error) {
	runs, err := a.runs.ListByConfig(ctx, configID, skip, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list runs: %w", err)
	}
	total, err := a.runs.CountByConfig(ctx, configID)
	if err != nil {
		return nil, 0, fmt.Errorf("count runs: %w", err)
	}
	return runs, total, nil
}

func (a *RunAuditLog) Latest(ctx context.Context, configID string) (scheduler.Run, bool, error) {
	run, ok, err := a.runs.LatestByConfig(ctx, configID)
	if err != nil {
		return scheduler.Run{}, false, fmt.Errorf("latest run: %w", err)
	}
	return run, ok, nil
}
