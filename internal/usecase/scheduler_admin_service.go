package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Ardidini12/XBHL/internal/domain/league"
	"github.com/Ardidini12/XBHL/internal/domain/match"
	"github.com/Ardidini12/XBHL/internal/domain/scheduler"
	"github.com/Ardidini12/XBHL/internal/platform/id"
	"github.com/Ardidini12/XBHL/internal/platform/logging"
)

const (
	defaultRunsLimit = 50
	maxPageLimit     = 500
)

// schedulerController is the slice of SchedulerService the admin surface drives.
type schedulerController interface {
	Start(ctx context.Context, cfg scheduler.Config) error
	Stop(ctx context.Context, seasonID string) error
	Pause(ctx context.Context, seasonID string) error
	Resume(ctx context.Context, seasonID string) error
	Restart(ctx context.Context, cfg scheduler.Config) error
	Delete(ctx context.Context, seasonID string) error
	RunNow(ctx context.Context, seasonID string) error
	IsRunning(seasonID string) bool
}

// SchedulerView is a config enriched with names, last run and live status.
type SchedulerView struct {
	Config        scheduler.Config
	SeasonName    *string
	LeagueName    *string
	LastRunAt     *time.Time
	LastRunStatus *scheduler.RunStatus
	TotalMatches  int
	IsRunning     bool
}

// CreateSchedulerInput holds creation fields; nil means the default.
type CreateSchedulerInput struct {
	DaysOfWeek      []int
	StartHour       *int
	EndHour         *int
	IntervalMinutes *int
	IntervalSeconds *int
}

// UpdateSchedulerInput holds a partial update; nil fields are left unchanged.
type UpdateSchedulerInput struct {
	DaysOfWeek      *[]int
	StartHour       *int
	EndHour         *int
	IntervalMinutes *int
	IntervalSeconds *int
}

func (in UpdateSchedulerInput) empty() bool {
	return in.DaysOfWeek == nil && in.StartHour == nil && in.EndHour == nil &&
		in.IntervalMinutes == nil && in.IntervalSeconds == nil
}

type SchedulerAdminService struct {
	configs   scheduler.ConfigRepository
	seasons   league.Repository
	matches   match.Repository
	audit     *RunAuditLog
	scheduler schedulerController
	ids       id.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewSchedulerAdminService(
	configs scheduler.ConfigRepository,
	seasons league.Repository,
	matches match.Repository,
	audit *RunAuditLog,
	controller schedulerController,
	ids id.Generator,
	logger *logging.Logger,
) *SchedulerAdminService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SchedulerAdminService{
		configs:   configs,
		seasons:   seasons,
		matches:   matches,
		audit:     audit,
		scheduler: controller,
		ids:       ids,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *SchedulerAdminService) List(ctx context.Context) ([]SchedulerView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SchedulerAdminService.List")
	defer span.End()

	configs, err := s.configs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scheduler configs: %w", err)
	}

	out := make([]SchedulerView, 0, len(configs))
	for _, cfg := range configs {
		view, err := s.enrich(ctx, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *SchedulerAdminService) Get(ctx context.Context, seasonID string) (SchedulerView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SchedulerAdminService.Get")
	defer span.End()

	cfg, ok, err := s.configs.GetBySeason(ctx, strings.TrimSpace(seasonID))
	if err != nil {
		return SchedulerView{}, fmt.Errorf("get scheduler config: %w", err)
	}
	if !ok {
		return SchedulerView{}, fmt.Errorf("%w: Scheduler config not found for this season.", ErrNotFound)
	}
	return s.enrich(ctx, cfg)
}

// Create stores an inactive config for the season.
func (s *SchedulerAdminService) Create(ctx context.Context, seasonID string, in CreateSchedulerInput) (scheduler.Config, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SchedulerAdminService.Create")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	_, ok, err := s.seasons.GetSeason(ctx, seasonID)
	if err != nil {
		return scheduler.Config{}, fmt.Errorf("get season: %w", err)
	}
	if !ok {
		return scheduler.Config{}, fmt.Errorf("%w: Season not found.", ErrNotFound)
	}

	_, exists, err := s.configs.GetBySeason(ctx, seasonID)
	if err != nil {
		return scheduler.Config{}, fmt.Errorf("get scheduler config: %w", err)
	}
	if exists {
		return scheduler.Config{}, errSchedulerExists()
	}

	configID, err := s.ids.NewID()
	if err != nil {
		return scheduler.Config{}, fmt.Errorf("generate scheduler config id: %w", err)
	}

	now := s.now().UTC()
	cfg := scheduler.Config{
		ID:              configID,
		SeasonID:        seasonID,
		DaysOfWeek:      normalizeDays(in.DaysOfWeek),
		StartHour:       intOr(in.StartHour, scheduler.DefaultStartHour),
		EndHour:         intOr(in.EndHour, scheduler.DefaultEndHour),
		IntervalMinutes: intOr(in.IntervalMinutes, scheduler.DefaultIntervalMinutes),
		IntervalSeconds: intOr(in.IntervalSeconds, scheduler.DefaultIntervalSeconds),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := cfg.Validate(); err != nil {
		return scheduler.Config{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.configs.Create(ctx, cfg); err != nil {
		if errors.Is(err, scheduler.ErrConfigExists) {
			return scheduler.Config{}, errSchedulerExists()
		}
		return scheduler.Config{}, fmt.Errorf("create scheduler config: %w", err)
	}
	s.logger.InfoContext(ctx, "scheduler config created", "season_id", seasonID, "config_id", cfg.ID)
	return cfg, nil
}

// Update applies a partial change and restarts the timer of a running config.
func (s *SchedulerAdminService) Update(ctx context.Context, seasonID string, in UpdateSchedulerInput) (scheduler.Config, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SchedulerAdminService.Update")
	defer span.End()

	cfg, err := s.mustConfig(ctx, seasonID)
	if err != nil {
		return scheduler.Config{}, err
	}
	if in.empty() {
		return cfg, nil
	}

	if in.DaysOfWeek != nil {
		cfg.DaysOfWeek = normalizeDays(*in.DaysOfWeek)
	}
	cfg.StartHour = intOr(in.StartHour, cfg.StartHour)
	cfg.EndHour = intOr(in.EndHour, cfg.EndHour)
	cfg.IntervalMinutes = intOr(in.IntervalMinutes, cfg.IntervalMinutes)
	cfg.IntervalSeconds = intOr(in.IntervalSeconds, cfg.IntervalSeconds)
	cfg.UpdatedAt = s.now().UTC()
	if err := cfg.Validate(); err != nil {
		return scheduler.Config{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.configs.Update(ctx, cfg); err != nil {
		return scheduler.Config{}, fmt.Errorf("update scheduler config: %w", err)
	}
	if cfg.Running() {
		if err := s.scheduler.Restart(ctx, cfg); err != nil {
			return scheduler.Config{}, err
		}
	}
	return cfg, nil
}

func (s *SchedulerAdminService) Delete(ctx context.Context, seasonID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SchedulerAdminService.Delete")
	defer span.End()

	cfg, err := s.mustConfig(ctx, seasonID)
	if err != nil {
		return err
	}
	return s.scheduler.Delete(ctx, cfg.SeasonID)
}

func (s *SchedulerAdminService) Start(ctx context.Context, seasonID string) (scheduler.Config, error) {
	cfg, err := s.mustConfig(ctx, seasonID)
	if err != nil {
		return scheduler.Config{}, err
	}
	if err := s.scheduler.Start(ctx, cfg); err != nil {
		return scheduler.Config{}, err
	}
	return s.mustConfig(ctx, seasonID)
}

func (s *SchedulerAdminService) Stop(ctx context.Context, seasonID string) (scheduler.Config, error) {
	cfg, err := s.mustConfig(ctx, seasonID)
	if err != nil {
		return scheduler.Config{}, err
	}
	if err := s.scheduler.Stop(ctx, cfg.SeasonID); err != nil {
		return scheduler.Config{}, err
	}
	return s.mustConfig(ctx, seasonID)
}

func (s *SchedulerAdminService) Pause(ctx context.Context, seasonID string) (scheduler.Config, error) {
	cfg, err := s.mustConfig(ctx, seasonID)
	if err != nil {
		return scheduler.Config{}, err
	}
	if !cfg.IsActive {
		return scheduler.Config{}, fmt.Errorf("%w: Scheduler is not running.", ErrInvalidState)
	}
	if err := s.scheduler.Pause(ctx, cfg.SeasonID); err != nil {
		return scheduler.Config{}, err
	}
	return s.mustConfig(ctx, seasonID)
}

func (s *SchedulerAdminService) Resume(ctx context.Context, seasonID string) (scheduler.Config, error) {
	cfg, err := s.mustConfig(ctx, seasonID)
	if err != nil {
		return scheduler.Config{}, err
	}
	if err := s.scheduler.Resume(ctx, cfg.SeasonID); err != nil {
		return scheduler.Config{}, err
	}
	return s.mustConfig(ctx, seasonID)
}

// RunNow queues a manual cycle; it returns before the cycle finishes.
func (s *SchedulerAdminService) RunNow(ctx context.Context, seasonID string) error {
	cfg, err := s.mustConfig(ctx, seasonID)
	if err != nil {
		return err
	}
	return s.scheduler.RunNow(ctx, cfg.SeasonID)
}

// ListRuns returns one page of a season's runs, newest first, with the total.
func (s *SchedulerAdminService) ListRuns(ctx context.Context, seasonID string, skip, limit int) ([]scheduler.Run, int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SchedulerAdminService.ListRuns")
	defer span.End()

	cfg, err := s.mustConfig(ctx, seasonID)
	if err != nil {
		return nil, 0, err
	}
	skip, limit, err = normalizePage(skip, limit, defaultRunsLimit)
	if err != nil {
		return nil, 0, err
	}
	return s.audit.List(ctx, cfg.ID, skip, limit)
}

func (s *SchedulerAdminService) mustConfig(ctx context.Context, seasonID string) (scheduler.Config, error) {
	cfg, ok, err := s.configs.GetBySeason(ctx, strings.TrimSpace(seasonID))
	if err != nil {
		return scheduler.Config{}, fmt.Errorf("get scheduler config: %w", err)
	}
	if !ok {
		return scheduler.Config{}, fmt.Errorf("%w: Scheduler config not found.", ErrNotFound)
	}
	return cfg, nil
}

func (s *SchedulerAdminService) enrich(ctx context.Context, cfg scheduler.Config) (SchedulerView, error) {
	view := SchedulerView{
		Config:    cfg,
		IsRunning: s.scheduler.IsRunning(cfg.SeasonID),
	}

	season, ok, err := s.seasons.GetSeason(ctx, cfg.SeasonID)
	if err != nil {
		return SchedulerView{}, fmt.Errorf("get season: %w", err)
	}
	if ok {
		view.SeasonName = &season.Name
		lg, ok, err := s.seasons.GetLeague(ctx, season.LeagueID)
		if err != nil {
			return SchedulerView{}, fmt.Errorf("get league: %w", err)
		}
		if ok {
			view.LeagueName = &lg.Name
		}
	}

	last, ok, err := s.audit.Latest(ctx, cfg.ID)
	if err != nil {
		return SchedulerView{}, err
	}
	if ok {
		view.LastRunAt = &last.StartedAt
		view.LastRunStatus = &last.Status
	}

	view.TotalMatches, err = s.matches.CountBySeason(ctx, cfg.SeasonID)
	if err != nil {
		return SchedulerView{}, fmt.Errorf("count season matches: %w", err)
	}
	return view, nil
}

func errSchedulerExists() error {
	return fmt.Errorf("%w: Scheduler already exists for this season. Use PATCH to update.", ErrConflict)
}

// normalizeDays sorts and de-duplicates weekday indexes.
func normalizeDays(days []int) []int {
	out := slices.Clone(days)
	slices.Sort(out)
	out = slices.Compact(out)
	if out == nil {
		return []int{}
	}
	return out
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

// normalizePage applies the default limit and rejects negative values.
func normalizePage(skip, limit, defaultLimit int) (int, int, error) {
	if skip < 0 {
		return 0, 0, fmt.Errorf("%w: skip must be >= 0", ErrInvalidInput)
	}
	if limit < 0 {
		return 0, 0, fmt.Errorf("%w: limit must be >= 0", ErrInvalidInput)
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return skip, limit, nil
}
