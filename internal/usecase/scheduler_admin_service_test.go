package usecase

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Ardidini12/XBHL/internal/domain/match"
	"github.com/Ardidini12/XBHL/internal/domain/scheduler"
	schedulermock "github.com/Ardidini12/XBHL/internal/mocks/domain/scheduler"
	"github.com/Ardidini12/XBHL/internal/platform/logging"
)

func (e *testEnv) admin(t *testing.T) (*SchedulerAdminService, *SchedulerService) {
	t.Helper()

	sched := e.scheduler(t, newRecordingRunner())
	svc := NewSchedulerAdminService(e.configs, e.leagues, e.matches, e.audit, sched, e.ids, logging.NewNop())
	svc.now = e.clock.Now
	return svc, sched
}

func TestSchedulerAdminCreateAppliesDefaults(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc, sched := env.admin(t)

	cfg, err := svc.Create(context.Background(), testSeasonID, CreateSchedulerInput{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if cfg.IsActive || cfg.IsPaused {
		t.Fatalf("expected new config to be stopped, got %+v", cfg)
	}
	if cfg.StartHour != 18 || cfg.EndHour != 23 || cfg.IntervalMinutes != 30 || cfg.IntervalSeconds != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DaysOfWeek == nil || len(cfg.DaysOfWeek) != 0 {
		t.Fatalf("expected empty day set, got %#v", cfg.DaysOfWeek)
	}
	if sched.IsRunning(testSeasonID) {
		t.Fatalf("expected create not to start a timer")
	}
}

func TestSchedulerAdminCreateNormalizesDays(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc, _ := env.admin(t)

	cfg, err := svc.Create(context.Background(), testSeasonID, CreateSchedulerInput{
		DaysOfWeek:      []int{4, 0, 4, 2},
		IntervalMinutes: intPtr(0),
		IntervalSeconds: intPtr(45),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !slices.Equal(cfg.DaysOfWeek, []int{0, 2, 4}) {
		t.Fatalf("expected sorted unique days, got %v", cfg.DaysOfWeek)
	}
	if cfg.Interval() != 45*time.Second {
		t.Fatalf("expected 45s interval, got %s", cfg.Interval())
	}
}

func TestSchedulerAdminCreateErrors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc, _ := env.admin(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "missing", CreateSchedulerInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown season, got %v", err)
	}
	if _, err := svc.Create(ctx, testSeasonID, CreateSchedulerInput{StartHour: intPtr(24)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for start_hour 24, got %v", err)
	}
	if _, err := svc.Create(ctx, testSeasonID, CreateSchedulerInput{DaysOfWeek: []int{7}}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for weekday 7, got %v", err)
	}
	if _, err := svc.Create(ctx, testSeasonID, CreateSchedulerInput{IntervalMinutes: intPtr(0)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero interval, got %v", err)
	}

	if _, err := svc.Create(ctx, testSeasonID, CreateSchedulerInput{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, testSeasonID, CreateSchedulerInput{}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for second config, got %v", err)
	}
}

func TestSchedulerAdminCreateConflictFromRepository(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	configs := schedulermock.NewConfigRepository(t)
	configs.On("GetBySeason", mock.Anything, testSeasonID).Return(scheduler.Config{}, false, nil).Once()
	configs.On("Create", mock.Anything, mock.MatchedBy(func(cfg scheduler.Config) bool {
		return cfg.SeasonID == testSeasonID && !cfg.IsActive
	})).Return(scheduler.ErrConfigExists).Once()

	svc := NewSchedulerAdminService(configs, env.leagues, env.matches, env.audit, env.scheduler(t, newRecordingRunner()), env.ids, logging.NewNop())

	_, err := svc.Create(context.Background(), testSeasonID, CreateSchedulerInput{})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected concurrent insert to map to ErrConflict, got %v", err)
	}
}

func TestSchedulerAdminGetRepositoryError(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	configs := schedulermock.NewConfigRepository(t)
	configs.On("GetBySeason", mock.Anything, testSeasonID).Return(scheduler.Config{}, false, errors.New("db down")).Once()

	svc := NewSchedulerAdminService(configs, env.leagues, env.matches, env.audit, env.scheduler(t, newRecordingRunner()), env.ids, logging.NewNop())

	_, err := svc.Get(context.Background(), testSeasonID)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected repository error to pass through, got %v", err)
	}
}

func TestSchedulerAdminGetEnrichesView(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc, _ := env.admin(t)
	ctx := context.Background()

	if _, err := svc.Get(ctx, testSeasonID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before create, got %v", err)
	}

	cfg, err := svc.Create(ctx, testSeasonID, CreateSchedulerInput{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Start(ctx, testSeasonID); err != nil {
		t.Fatalf("start: %v", err)
	}
	for _, id := range []string{"m-1", "m-2"} {
		if _, err := env.matches.Insert(ctx, match.Match{ID: "row-" + id, EAMatchID: id, EATimestamp: 1, SeasonID: testSeasonID, ClubID: testClubID}); err != nil {
			t.Fatalf("insert match: %v", err)
		}
	}
	run, _ := env.audit.Begin(ctx, cfg)
	if _, err := env.audit.Finish(ctx, run, nil); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	view, err := svc.Get(ctx, " "+testSeasonID+" ")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.SeasonName == nil || *view.SeasonName != "Season 1" || view.LeagueName == nil || *view.LeagueName != "XBHL" {
		t.Fatalf("expected season and league names, got %+v", view)
	}
	if !view.IsRunning || !view.Config.IsActive {
		t.Fatalf("expected running view, got %+v", view)
	}
	if view.TotalMatches != 2 {
		t.Fatalf("expected 2 matches, got %d", view.TotalMatches)
	}
	if view.LastRunStatus == nil || *view.LastRunStatus != scheduler.RunStatusSuccess || view.LastRunAt == nil {
		t.Fatalf("expected last run summary, got %+v", view)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Config.ID != cfg.ID {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestSchedulerAdminUpdateRestartsRunningTimer(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc, sched := env.admin(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, testSeasonID, CreateSchedulerInput{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Start(ctx, testSeasonID); err != nil {
		t.Fatalf("start: %v", err)
	}

	updated, err := svc.Update(ctx, testSeasonID, UpdateSchedulerInput{IntervalMinutes: intPtr(5)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.IntervalMinutes != 5 || updated.StartHour != 18 {
		t.Fatalf("expected partial update, got %+v", updated)
	}
	if !sched.IsRunning(testSeasonID) {
		t.Fatalf("expected timer to keep running after update")
	}
	if n := len(sched.cron.Entries()); n != 1 {
		t.Fatalf("expected exactly one timer after restart, got %d", n)
	}
	stored, _, _ := env.configs.GetBySeason(ctx, testSeasonID)
	if stored.IntervalMinutes != 5 || !stored.IsActive {
		t.Fatalf("expected stored update, got %+v", stored)
	}
}

func TestSchedulerAdminUpdateStoppedConfig(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc, sched := env.admin(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, testSeasonID, CreateSchedulerInput{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	same, err := svc.Update(ctx, testSeasonID, UpdateSchedulerInput{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if !same.UpdatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("expected empty update to be a no-op")
	}

	days := []int{6, 5}
	updated, err := svc.Update(ctx, testSeasonID, UpdateSchedulerInput{DaysOfWeek: &days, EndHour: intPtr(24)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !slices.Equal(updated.DaysOfWeek, []int{5, 6}) || updated.EndHour != 24 {
		t.Fatalf("unexpected update: %+v", updated)
	}
	if sched.IsRunning(testSeasonID) {
		t.Fatalf("expected update of a stopped config not to start it")
	}

	if _, err := svc.Update(ctx, testSeasonID, UpdateSchedulerInput{IntervalSeconds: intPtr(60)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Update(ctx, "missing", UpdateSchedulerInput{StartHour: intPtr(1)}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSchedulerAdminStateTransitions(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc, _ := env.admin(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, testSeasonID, CreateSchedulerInput{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Pause(ctx, testSeasonID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected pause of stopped config to be rejected, got %v", err)
	}

	cfg, err := svc.Start(ctx, testSeasonID)
	if err != nil || !cfg.IsActive || cfg.IsPaused {
		t.Fatalf("expected started config, got %+v err=%v", cfg, err)
	}
	cfg, err = svc.Pause(ctx, testSeasonID)
	if err != nil || !cfg.IsPaused {
		t.Fatalf("expected paused config, got %+v err=%v", cfg, err)
	}
	cfg, err = svc.Resume(ctx, testSeasonID)
	if err != nil || cfg.IsPaused || !cfg.IsActive {
		t.Fatalf("expected resumed config, got %+v err=%v", cfg, err)
	}
	cfg, err = svc.Stop(ctx, testSeasonID)
	if err != nil || cfg.IsActive {
		t.Fatalf("expected stopped config, got %+v err=%v", cfg, err)
	}

	if err := svc.Delete(ctx, testSeasonID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, testSeasonID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected second delete to be ErrNotFound, got %v", err)
	}
	if err := svc.RunNow(ctx, testSeasonID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected run-now without config to be ErrNotFound, got %v", err)
	}
}

func TestSchedulerAdminListRunsPages(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc, _ := env.admin(t)
	ctx := context.Background()

	cfg, err := svc.Create(ctx, testSeasonID, CreateSchedulerInput{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 4; i++ {
		env.clock.Advance(time.Minute)
		run, _ := env.audit.Begin(ctx, cfg)
		if _, err := env.audit.Finish(ctx, run, nil); err != nil {
			t.Fatalf("finish run %d: %v", i, err)
		}
	}

	runs, total, err := svc.ListRuns(ctx, testSeasonID, 1, 2)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if total != 4 || len(runs) != 2 {
		t.Fatalf("expected page of 2 out of 4, got %d of %d", len(runs), total)
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Fatalf("expected newest first")
	}

	if _, _, err := svc.ListRuns(ctx, testSeasonID, -1, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected negative skip to be rejected, got %v", err)
	}
	if _, _, err := svc.ListRuns(ctx, "missing", 0, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNormalizePage(t *testing.T) {
	t.Parallel()

	skip, limit, err := normalizePage(3, 0, 50)
	if err != nil || skip != 3 || limit != 50 {
		t.Fatalf("expected default limit, got skip=%d limit=%d err=%v", skip, limit, err)
	}
	if _, limit, _ := normalizePage(0, 10_000, 50); limit != maxPageLimit {
		t.Fatalf("expected limit cap %d, got %d", maxPageLimit, limit)
	}
	if _, _, err := normalizePage(0, -1, 50); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected negative limit to be rejected, got %v", err)
	}
}
