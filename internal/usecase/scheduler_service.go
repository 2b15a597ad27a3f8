package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/robfig/cron/v3"

	"github.com/Ardidini12/XBHL/internal/domain/scheduler"
	"github.com/Ardidini12/XBHL/internal/platform/logging"
)

const (
	defaultSchedulerPoolSize = 8
	defaultShutdownWait      = 30 * time.Second
)

// CycleRunner executes one ingestion cycle synchronously.
type CycleRunner interface {
	RunCycle(ctx context.Context, seasonID string, trigger Trigger) (CycleResult, error)
}

type SchedulerOptions struct {
	Location *time.Location
	PoolSize int
	Logger   *logging.Logger
}

// seasonJob is the in-process timer handle of one season. A paused job has
// no cron entry but remembers its interval for Resume.
type seasonJob struct {
	entryID  cron.EntryID
	interval time.Duration
	paused   bool
}

// SchedulerService keeps one recurring timer per running season. Timer
// firings only enqueue work; cycles execute on a bounded worker pool and a
// season never overlaps itself.
type SchedulerService struct {
	configs scheduler.ConfigRepository
	audit   *RunAuditLog
	runner  CycleRunner
	cron    *cron.Cron
	pool    *ants.Pool
	logger  *logging.Logger
	now     func() time.Time

	baseCtx context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	jobs    map[string]*seasonJob
	locks   map[string]*sync.Mutex
	started bool
}

func NewSchedulerService(
	configs scheduler.ConfigRepository,
	audit *RunAuditLog,
	runner CycleRunner,
	opts SchedulerOptions,
) (*SchedulerService, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.With("component", "scheduler")

	location := opts.Location
	if location == nil {
		location = time.UTC
	}
	poolSize := opts.PoolSize
	if poolSize <= 0 {
		poolSize = defaultSchedulerPoolSize
	}

	pool, err := ants.NewPool(poolSize,
		ants.WithNonblocking(true),
		ants.WithLogger(logger),
		ants.WithPanicHandler(func(p any) {
			logger.Error("scheduler worker panicked", "panic", fmt.Sprint(p))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create scheduler worker pool: %w", err)
	}

	cronLog := cronLogger{logger: logger}
	baseCtx, cancel := context.WithCancel(context.Background())

	return &SchedulerService{
		configs: configs,
		audit:   audit,
		runner:  runner,
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog)),
		),
		pool:    pool,
		logger:  logger,
		now:     time.Now,
		baseCtx: baseCtx,
		cancel:  cancel,
		jobs:    make(map[string]*seasonJob),
		locks:   make(map[string]*sync.Mutex),
	}, nil
}

// Run starts the timer loop. Timers installed before Run fire once it starts.
func (s *SchedulerService) Run() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.cron.Start()
	s.started = true
	s.logger.Info("scheduler started", "jobs", len(s.jobs))
}

// Start persists the config as active and unpaused and (re)installs its timer.
func (s *SchedulerService) Start(ctx context.Context, cfg scheduler.Config) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SchedulerService.Start")
	defer span.End()

	if err := s.configs.SetState(ctx, cfg.SeasonID, true, false, s.now().UTC()); err != nil {
		return fmt.Errorf("activate scheduler config: %w", err)
	}
	s.install(cfg.SeasonID, cfg.Interval())
	s.logger.InfoContext(ctx, "scheduler job started", "season_id", cfg.SeasonID, "interval", cfg.Interval().String())
	return nil
}

// Stop removes the season's timer and persists the config as inactive.
func (s *SchedulerService) Stop(ctx context.Context, seasonID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SchedulerService.Stop")
	defer span.End()

	s.uninstall(seasonID)
	if err := s.configs.SetState(ctx, seasonID, false, false, s.now().UTC()); err != nil {
		return fmt.Errorf("deactivate scheduler config: %w", err)
	}
	s.logger.InfoContext(ctx, "scheduler job stopped", "season_id", seasonID)
	return nil
}

// Pause suspends future firings of an active season.
func (s *SchedulerService) Pause(ctx context.Context, seasonID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SchedulerService.Pause")
	defer span.End()

	cfg, err := s.mustConfig(ctx, seasonID)
	if err != nil {
		return err
	}
	if !cfg.IsActive {
		return fmt.Errorf("%w: Scheduler is not running.", ErrInvalidState)
	}

	s.suspend(seasonID, cfg.Interval())
	if err := s.configs.SetState(ctx, seasonID, true, true, s.now().UTC()); err != nil {
		return fmt.Errorf("pause scheduler config: %w", err)
	}
	s.logger.InfoContext(ctx, "scheduler job paused", "season_id", seasonID)
	return nil
}

// Resume reactivates a suspended timer, or rebuilds it from the stored
// config when none exists in this process.
func (s *SchedulerService) Resume(ctx context.Context, seasonID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SchedulerService.Resume")
	defer span.End()

	cfg, err := s.mustConfig(ctx, seasonID)
	if err != nil {
		return err
	}
	if err := s.configs.SetState(ctx, seasonID, true, false, s.now().UTC()); err != nil {
		return fmt.Errorf("resume scheduler config: %w", err)
	}
	s.reactivate(seasonID, cfg.Interval())
	s.logger.InfoContext(ctx, "scheduler job resumed", "season_id", seasonID)
	return nil
}

// Restart applies a changed config by stopping and starting the season.
func (s *SchedulerService) Restart(ctx context.Context, cfg scheduler.Config) error {
	if err := s.Stop(ctx, cfg.SeasonID); err != nil {
		return err
	}
	return s.Start(ctx, cfg)
}

// Delete stops the season and removes its config; runs go with it.
func (s *SchedulerService) Delete(ctx context.Context, seasonID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SchedulerService.Delete")
	defer span.End()

	if err := s.Stop(ctx, seasonID); err != nil {
		return err
	}
	if err := s.configs.DeleteBySeason(ctx, seasonID); err != nil {
		return fmt.Errorf("delete scheduler config: %w", err)
	}
	return nil
}

// IsRunning reports whether the season has an unpaused timer registered.
func (s *SchedulerService) IsRunning(seasonID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[seasonID]
	if !ok || job.paused {
		return false
	}
	return s.cron.Entry(job.entryID).Valid()
}

// RunNow enqueues an immediate manual cycle for the season.
func (s *SchedulerService) RunNow(ctx context.Context, seasonID string) error {
	if _, err := s.mustConfig(ctx, seasonID); err != nil {
		return err
	}
	return s.enqueue(seasonID, TriggerManual)
}

// LoadActiveOnStartup fails runs orphaned by a previous process, installs a
// timer for every running config and trims every config's run history.
func (s *SchedulerService) LoadActiveOnStartup(ctx context.Context) error {
	recovered, err := s.audit.RecoverOrphans(ctx)
	if err != nil {
		return err
	}

	configs, err := s.configs.List(ctx)
	if err != nil {
		return fmt.Errorf("list scheduler configs: %w", err)
	}

	configIDs := make([]string, 0, len(configs))
	installed := 0
	for _, cfg := range configs {
		configIDs = append(configIDs, cfg.ID)
		if !cfg.Running() {
			continue
		}
		s.install(cfg.SeasonID, cfg.Interval())
		installed++
	}

	if err := s.audit.PruneAll(ctx, configIDs); err != nil {
		s.logger.WarnContext(ctx, "startup run pruning incomplete", "error", err)
	}

	s.logger.InfoContext(ctx, "scheduler jobs restored", "installed", installed, "configs", len(configs), "orphaned_runs", recovered)
	return nil
}

// Shutdown stops new firings, waits for in-flight cycles until ctx expires,
// then cancels whatever is still running.
func (s *SchedulerService) Shutdown(ctx context.Context) error {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
	}

	wait := defaultShutdownWait
	if deadline, ok := ctx.Deadline(); ok {
		wait = time.Until(deadline)
	}
	if wait <= 0 {
		wait = time.Millisecond
	}

	err := s.pool.ReleaseTimeout(wait)
	s.cancel()
	if err != nil {
		return fmt.Errorf("release scheduler worker pool: %w", err)
	}
	s.logger.Info("scheduler stopped")
	return nil
}

func (s *SchedulerService) mustConfig(ctx context.Context, seasonID string) (scheduler.Config, error) {
	cfg, ok, err := s.configs.GetBySeason(ctx, seasonID)
	if err != nil {
		return scheduler.Config{}, fmt.Errorf("get scheduler config: %w", err)
	}
	if !ok {
		return scheduler.Config{}, fmt.Errorf("%w: Scheduler config not found.", ErrNotFound)
	}
	return cfg, nil
}

func (s *SchedulerService) install(seasonID string, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job, ok := s.jobs[seasonID]; ok && !job.paused {
		s.cron.Remove(job.entryID)
	}
	s.jobs[seasonID] = &seasonJob{
		entryID:  s.schedule(seasonID, interval),
		interval: interval,
	}
}

func (s *SchedulerService) uninstall(seasonID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[seasonID]
	if !ok {
		return
	}
	if !job.paused {
		s.cron.Remove(job.entryID)
	}
	delete(s.jobs, seasonID)
}

func (s *SchedulerService) suspend(seasonID string, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[seasonID]
	if !ok {
		s.jobs[seasonID] = &seasonJob{interval: interval, paused: true}
		return
	}
	if job.paused {
		return
	}
	s.cron.Remove(job.entryID)
	job.entryID = 0
	job.paused = true
}

func (s *SchedulerService) reactivate(seasonID string, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[seasonID]
	if !ok {
		s.jobs[seasonID] = &seasonJob{entryID: s.schedule(seasonID, interval), interval: interval}
		return
	}
	if !job.paused {
		return
	}
	job.entryID = s.schedule(seasonID, job.interval)
	job.paused = false
}

// schedule must be called with s.mu held.
func (s *SchedulerService) schedule(seasonID string, interval time.Duration) cron.EntryID {
	return s.cron.Schedule(cron.Every(interval), cron.FuncJob(func() {
		_ = s.enqueue(seasonID, TriggerTimer)
	}))
}

func (s *SchedulerService) enqueue(seasonID string, trigger Trigger) error {
	err := s.pool.Submit(func() {
		s.runSeason(seasonID, trigger)
	})
	if err == nil {
		return nil
	}

	s.logger.Warn("cycle not enqueued", "season_id", seasonID, "trigger", string(trigger), "error", err)
	if errors.Is(err, ants.ErrPoolOverload) || errors.Is(err, ants.ErrPoolClosed) {
		return fmt.Errorf("%w: scheduler worker pool: %v", ErrDependencyUnavailable, err)
	}
	return fmt.Errorf("enqueue cycle: %w", err)
}

func (s *SchedulerService) runSeason(seasonID string, trigger Trigger) {
	lock := s.seasonLock(seasonID)
	if !lock.TryLock() {
		s.logger.Warn("cycle skipped: previous cycle still running", "season_id", seasonID, "trigger", string(trigger))
		return
	}
	defer lock.Unlock()

	if _, err := s.runner.RunCycle(s.baseCtx, seasonID, trigger); err != nil {
		s.logger.Error("ingestion cycle could not run", "season_id", seasonID, "trigger", string(trigger), "error", err)
	}
}

func (s *SchedulerService) seasonLock(seasonID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[seasonID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[seasonID] = lock
	}
	return lock
}

// cronLogger routes robfig/cron's logr-style output into the service logger.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
