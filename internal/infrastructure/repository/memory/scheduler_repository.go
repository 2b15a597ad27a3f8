package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Ardidini12/XBHL/internal/domain/scheduler"
)

type SchedulerConfigRepository struct {
	store *Store
}

func NewSchedulerConfigRepository(store *Store) *SchedulerConfigRepository {
	return &SchedulerConfigRepository{store: store}
}

func (r *SchedulerConfigRepository) GetBySeason(_ context.Context, seasonID string) (scheduler.Config, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	cfg, ok := r.store.configs[seasonID]
	if !ok {
		return scheduler.Config{}, false, nil
	}
	return cloneConfig(cfg), true, nil
}

func (r *SchedulerConfigRepository) List(_ context.Context) ([]scheduler.Config, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]scheduler.Config, 0, len(r.store.configs))
	for _, cfg := range r.store.configs {
		out = append(out, cloneConfig(cfg))
	}
	slices.SortFunc(out, func(a, b scheduler.Config) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

func (r *SchedulerConfigRepository) Create(_ context.Context, cfg scheduler.Config) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.configs[cfg.SeasonID]; exists {
		return scheduler.ErrConfigExists
	}
	r.store.configs[cfg.SeasonID] = cloneConfig(cfg)
	return nil
}

func (r *SchedulerConfigRepository) Update(_ context.Context, cfg scheduler.Config) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.configs[cfg.SeasonID]
	if !ok {
		return fmt.Errorf("scheduler config for season %s not found", cfg.SeasonID)
	}
	current.DaysOfWeek = slices.Clone(cfg.DaysOfWeek)
	current.StartHour = cfg.StartHour
	current.EndHour = cfg.EndHour
	current.IntervalMinutes = cfg.IntervalMinutes
	current.IntervalSeconds = cfg.IntervalSeconds
	current.UpdatedAt = cfg.UpdatedAt
	r.store.configs[cfg.SeasonID] = current
	return nil
}

func (r *SchedulerConfigRepository) SetState(_ context.Context, seasonID string, active, paused bool, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cfg, ok := r.store.configs[seasonID]
	if !ok {
		return nil
	}
	cfg.IsActive = active
	cfg.IsPaused = paused
	cfg.UpdatedAt = at
	r.store.configs[seasonID] = cfg
	return nil
}

// DeleteBySeason removes the config and, like the database cascade, its runs.
func (r *SchedulerConfigRepository) DeleteBySeason(_ context.Context, seasonID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cfg, ok := r.store.configs[seasonID]
	if !ok {
		return nil
	}
	delete(r.store.configs, seasonID)
	for runID, run := range r.store.runs {
		if run.ConfigID == cfg.ID {
			delete(r.store.runs, runID)
		}
	}
	return nil
}

type SchedulerRunRepository struct {
	store *Store
}

func NewSchedulerRunRepository(store *Store) *SchedulerRunRepository {
	return &SchedulerRunRepository{store: store}
}

func (r *SchedulerRunRepository) Create(_ context.Context, run scheduler.Run) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.runs[run.ID]; exists {
		return fmt.Errorf("scheduler run %s already exists", run.ID)
	}
	r.store.runs[run.ID] = run
	return nil
}

func (r *SchedulerRunRepository) Finish(_ context.Context, run scheduler.Run) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.runs[run.ID]
	if !ok || current.Status != scheduler.RunStatusRunning {
		return false, nil
	}
	current.FinishedAt = run.FinishedAt
	current.Status = run.Status
	current.MatchesFetched = run.MatchesFetched
	current.MatchesNew = run.MatchesNew
	current.ErrorMessage = run.ErrorMessage
	r.store.runs[run.ID] = current
	return true, nil
}

// byConfig returns a config's runs sorted by started_at desc. Caller holds the lock.
func (r *SchedulerRunRepository) byConfig(configID string) []scheduler.Run {
	out := make([]scheduler.Run, 0)
	for _, run := range r.store.runs {
		if run.ConfigID == configID {
			out = append(out, run)
		}
	}
	slices.SortFunc(out, func(a, b scheduler.Run) int {
		if c := b.StartedAt.Compare(a.StartedAt); c != 0 {
			return c
		}
		return compareStrings(b.ID, a.ID)
	})
	return out
}

func (r *SchedulerRunRepository) ListByConfig(_ context.Context, configID string, offset, limit int) ([]scheduler.Run, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return page(r.byConfig(configID), offset, limit), nil
}

func (r *SchedulerRunRepository) CountByConfig(_ context.Context, configID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return len(r.byConfig(configID)), nil
}

func (r *SchedulerRunRepository) LatestByConfig(_ context.Context, configID string) (scheduler.Run, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	runs := r.byConfig(configID)
	if len(runs) == 0 {
		return scheduler.Run{}, false, nil
	}
	return runs[0], true, nil
}

func (r *SchedulerRunRepository) FailRunning(_ context.Context, message string, at time.Time) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	changed := 0
	for runID, run := range r.store.runs {
		if run.Status != scheduler.RunStatusRunning {
			continue
		}
		msg := message
		finishedAt := at
		run.Status = scheduler.RunStatusFailed
		run.ErrorMessage = &msg
		run.FinishedAt = &finishedAt
		r.store.runs[runID] = run
		changed++
	}
	return changed, nil
}

func (r *SchedulerRunRepository) Prune(_ context.Context, configID string, keep int) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	runs := r.byConfig(configID)
	if len(runs) <= keep {
		return 0, nil
	}
	for _, run := range runs[keep:] {
		delete(r.store.runs, run.ID)
	}
	return len(runs) - keep, nil
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
