package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Ardidini12/XBHL/internal/domain/club"
	"github.com/Ardidini12/XBHL/internal/domain/match"
	"github.com/Ardidini12/XBHL/internal/domain/scheduler"
)

func TestRunCycleStoresNewMatchAndPlayerLines(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.addConfig(t, nil)

	gw := newMockGateway(t)
	gw.On("ResolveClubID", mock.Anything, testClubName).Return(testClubEAID, true, nil).Once()
	gw.On("FetchMatches", mock.Anything, testClubEAID).Return([]ExternalMatch{
		externalMatch("m-1", 1772571600, playerLine("p-1", "Sniper", 2), playerLine("p-2", "Wall", 0)),
	}, nil).Once()

	result, err := env.ingestion(gw).RunCycle(context.Background(), testSeasonID, TriggerTimer)
	if err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if result.Gate != scheduler.GateOpen || result.Run == nil {
		t.Fatalf("expected an open gate with a run, got %+v", result)
	}
	run := *result.Run
	if run.Status != scheduler.RunStatusSuccess || run.MatchesFetched != 1 || run.MatchesNew != 1 {
		t.Fatalf("unexpected run: %+v", run)
	}
	if run.FinishedAt == nil || run.ErrorMessage != nil {
		t.Fatalf("expected finished run without error, got %+v", run)
	}

	matches, total, err := env.matches.List(context.Background(), match.ListQuery{SeasonID: testSeasonID, Limit: 10})
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if total != 1 || matches[0].ClubID != testClubID || matches[0].EAMatchID != "m-1" {
		t.Fatalf("unexpected stored matches: total=%d %+v", total, matches)
	}
	if !strings.Contains(string(matches[0].RawJSON), `"matchId":"m-1"`) {
		t.Fatalf("expected raw payload to be kept, got %s", matches[0].RawJSON)
	}

	p, ok, err := env.players.GetByEAID(context.Background(), "p-1")
	if err != nil || !ok {
		t.Fatalf("expected player p-1, ok=%v err=%v", ok, err)
	}
	if p.Gamertag != "Sniper" {
		t.Fatalf("expected gamertag Sniper, got %q", p.Gamertag)
	}

	lines, err := env.stats.ListByPlayer(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("list stats: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected one stats line, got %d", len(lines))
	}
	line := lines[0]
	if line.PlayerID != p.ID || line.EAMatchID != "m-1" {
		t.Fatalf("unexpected stats identity: %+v", line)
	}
	if line.MatchID == nil || *line.MatchID != matches[0].ID {
		t.Fatalf("expected stats to reference stored match %s, got %v", matches[0].ID, line.MatchID)
	}
	if line.EATimestamp == nil || *line.EATimestamp != 1772571600 {
		t.Fatalf("expected match timestamp on stats, got %v", line.EATimestamp)
	}
	if line.SkGoals == nil || *line.SkGoals != 2 {
		t.Fatalf("expected parsed goals to be stored, got %v", line.SkGoals)
	}
}

func TestRunCycleReplayIsIdempotent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cfg := env.addConfig(t, nil)
	payload := []ExternalMatch{externalMatch("m-1", 1772571600, playerLine("p-1", "Sniper", 1))}

	gw := newMockGateway(t)
	gw.On("ResolveClubID", mock.Anything, testClubName).Return(testClubEAID, true, nil).Twice()
	gw.On("FetchMatches", mock.Anything, testClubEAID).Return(payload, nil).Twice()

	svc := env.ingestion(gw)
	if _, err := svc.RunCycle(context.Background(), testSeasonID, TriggerTimer); err != nil {
		t.Fatalf("first cycle: %v", err)
	}
	env.clock.Advance(30 * time.Minute)
	second, err := svc.RunCycle(context.Background(), testSeasonID, TriggerTimer)
	if err != nil {
		t.Fatalf("second cycle: %v", err)
	}

	if second.Run.MatchesFetched != 1 || second.Run.MatchesNew != 0 {
		t.Fatalf("expected replay to fetch 1 and store 0, got %+v", second.Run)
	}
	if n, _ := env.matches.CountBySeason(context.Background(), testSeasonID); n != 1 {
		t.Fatalf("expected one stored match, got %d", n)
	}
	if lines, _ := env.stats.ListByPlayer(context.Background(), "p-1"); len(lines) != 1 {
		t.Fatalf("expected one stats line after replay, got %d", len(lines))
	}
	if n, _ := env.runs.CountByConfig(context.Background(), cfg.ID); n != 2 {
		t.Fatalf("expected two audited runs, got %d", n)
	}
}

func TestRunCycleSkipsMatchesWithoutIdentity(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.addConfig(t, nil)

	noTimestamp := externalMatch("m-2", 0)
	noTimestamp.Timestamp = nil
	gw := newMockGateway(t)
	gw.On("ResolveClubID", mock.Anything, testClubName).Return("", false, nil).Once()
	gw.On("FetchMatches", mock.Anything, testClubEAID).Return([]ExternalMatch{
		externalMatch("", 1772571600),
		noTimestamp,
		externalMatch("m-3", 1772575200),
	}, nil).Once()

	result, err := env.ingestion(gw).RunCycle(context.Background(), testSeasonID, TriggerTimer)
	if err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if result.Run.MatchesFetched != 3 || result.Run.MatchesNew != 1 {
		t.Fatalf("expected fetched=3 new=1, got %+v", result.Run)
	}
	if result.Run.Status != scheduler.RunStatusSuccess {
		t.Fatalf("expected success, got %s", result.Run.Status)
	}
}

func TestRunCycleGatewayFailureFailsRun(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.addConfig(t, nil)

	gw := newMockGateway(t)
	gw.On("ResolveClubID", mock.Anything, testClubName).Return(testClubEAID, true, nil).Once()
	gw.On("FetchMatches", mock.Anything, testClubEAID).
		Return(nil, fmt.Errorf("%w: circuit open", ErrDependencyUnavailable)).Once()

	result, err := env.ingestion(gw).RunCycle(context.Background(), testSeasonID, TriggerTimer)
	if err != nil {
		t.Fatalf("expected cycle failures to stay on the run, got %v", err)
	}
	run := result.Run
	if run.Status != scheduler.RunStatusFailed {
		t.Fatalf("expected failed run, got %s", run.Status)
	}
	if run.ErrorMessage == nil || !strings.Contains(*run.ErrorMessage, "circuit open") {
		t.Fatalf("expected gateway error on run, got %v", run.ErrorMessage)
	}

	stored, ok, err := env.runs.LatestByConfig(context.Background(), "cfg-1")
	if err != nil || !ok {
		t.Fatalf("expected persisted run, ok=%v err=%v", ok, err)
	}
	if stored.Status != scheduler.RunStatusFailed || stored.FinishedAt == nil {
		t.Fatalf("expected persisted failed run, got %+v", stored)
	}
}

func TestRunCycleRecoversFromPanic(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.addConfig(t, nil)

	gw := newMockGateway(t)
	gw.On("ResolveClubID", mock.Anything, testClubName).Return(testClubEAID, true, nil).Once()
	gw.On("FetchMatches", mock.Anything, testClubEAID).
		Run(func(mock.Arguments) { panic("decoder exploded") }).
		Return(nil, nil).Once()

	result, err := env.ingestion(gw).RunCycle(context.Background(), testSeasonID, TriggerTimer)
	if err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if result.Run.Status != scheduler.RunStatusFailed {
		t.Fatalf("expected failed run after panic, got %s", result.Run.Status)
	}
	if !strings.Contains(*result.Run.ErrorMessage, "panicked") {
		t.Fatalf("expected panic to be recorded, got %q", *result.Run.ErrorMessage)
	}
}

func TestRunCycleGamertagLastWriteWins(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.addConfig(t, nil)

	gw := newMockGateway(t)
	gw.On("ResolveClubID", mock.Anything, testClubName).Return(testClubEAID, true, nil).Twice()
	gw.On("FetchMatches", mock.Anything, testClubEAID).
		Return([]ExternalMatch{externalMatch("m-1", 1772571600, playerLine("p-1", "OldTag", 1))}, nil).Once()
	gw.On("FetchMatches", mock.Anything, testClubEAID).
		Return([]ExternalMatch{externalMatch("m-2", 1772575200, playerLine("p-1", "NewTag", 3))}, nil).Once()

	svc := env.ingestion(gw)
	if _, err := svc.RunCycle(context.Background(), testSeasonID, TriggerTimer); err != nil {
		t.Fatalf("first cycle: %v", err)
	}
	first, _, _ := env.players.GetByEAID(context.Background(), "p-1")

	env.clock.Advance(time.Hour)
	if _, err := svc.RunCycle(context.Background(), testSeasonID, TriggerTimer); err != nil {
		t.Fatalf("second cycle: %v", err)
	}

	p, _, _ := env.players.GetByEAID(context.Background(), "p-1")
	if p.ID != first.ID {
		t.Fatalf("expected player identity to be stable, got %s then %s", first.ID, p.ID)
	}
	if p.Gamertag != "NewTag" {
		t.Fatalf("expected last observed gamertag, got %q", p.Gamertag)
	}
	if !p.UpdatedAt.After(first.UpdatedAt) {
		t.Fatalf("expected updated_at to move forward")
	}
	if lines, _ := env.stats.ListByPlayer(context.Background(), "p-1"); len(lines) != 2 {
		t.Fatalf("expected one stats line per match, got %d", len(lines))
	}
}

func TestRunCycleKeepsNewestFiveRuns(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cfg := env.addConfig(t, nil)

	gw := newMockGateway(t)
	gw.On("ResolveClubID", mock.Anything, testClubName).Return(testClubEAID, true, nil)
	gw.On("FetchMatches", mock.Anything, testClubEAID).Return([]ExternalMatch{}, nil)

	svc := env.ingestion(gw)
	var last time.Time
	for i := 0; i < 7; i++ {
		env.clock.Advance(time.Minute)
		result, err := svc.RunCycle(context.Background(), testSeasonID, TriggerTimer)
		if err != nil {
			t.Fatalf("cycle %d: %v", i, err)
		}
		last = result.Run.StartedAt
	}

	runs, err := env.runs.ListByConfig(context.Background(), cfg.ID, 0, 50)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != scheduler.RunRetention {
		t.Fatalf("expected %d retained runs, got %d", scheduler.RunRetention, len(runs))
	}
	if !runs[0].StartedAt.Equal(last) {
		t.Fatalf("expected newest run first, got %s want %s", runs[0].StartedAt, last)
	}
	for i := 1; i < len(runs); i++ {
		if runs[i].StartedAt.After(runs[i-1].StartedAt) {
			t.Fatalf("runs not ordered newest first at %d", i)
		}
	}
}

func TestRunCycleCapsRunsWhileRunning(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cfg := env.addConfig(t, nil)

	var stored []int
	gw := newMockGateway(t)
	gw.On("ResolveClubID", mock.Anything, testClubName).Return(testClubEAID, true, nil)
	gw.On("FetchMatches", mock.Anything, testClubEAID).Run(func(args mock.Arguments) {
		n, err := env.runs.CountByConfig(context.Background(), cfg.ID)
		if err != nil {
			t.Errorf("count runs: %v", err)
		}
		stored = append(stored, n)
	}).Return([]ExternalMatch{}, nil)

	svc := env.ingestion(gw)
	for i := 0; i < 7; i++ {
		env.clock.Advance(time.Minute)
		result, err := svc.RunCycle(context.Background(), testSeasonID, TriggerTimer)
		if err != nil {
			t.Fatalf("cycle %d: %v", i, err)
		}

		runs, err := env.runs.ListByConfig(context.Background(), cfg.ID, 0, 50)
		if err != nil {
			t.Fatalf("list runs: %v", err)
		}
		if runs[0].ID != result.Run.ID {
			t.Fatalf("cycle %d: expected current run to be kept as newest", i)
		}
	}

	want := []int{1, 2, 3, 4, 5, 5, 5}
	if len(stored) != len(want) {
		t.Fatalf("expected %d gateway calls, got %d", len(want), len(stored))
	}
	for i := range want {
		if stored[i] != want[i] {
			t.Fatalf("runs stored during cycle %d: expected %d, got %d (all: %v)", i, want[i], stored[i], stored)
		}
	}
}

func TestRunCycleHourWindow(t *testing.T) {
	t.Parallel()

	cases := []struct {
		hour int
		want scheduler.GateResult
	}{
		{hour: 17, want: scheduler.GateOutsideHours},
		{hour: 20, want: scheduler.GateOpen},
		{hour: 23, want: scheduler.GateOutsideHours},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("hour %d", tc.hour), func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			env.addConfig(t, nil)
			env.clock.Set(time.Date(2026, 3, 3, tc.hour, 0, 0, 0, eastern))

			gw := newMockGateway(t)
			if tc.want == scheduler.GateOpen {
				gw.On("ResolveClubID", mock.Anything, testClubName).Return(testClubEAID, true, nil).Once()
				gw.On("FetchMatches", mock.Anything, testClubEAID).Return([]ExternalMatch{}, nil).Once()
			}

			result, err := env.ingestion(gw).RunCycle(context.Background(), testSeasonID, TriggerTimer)
			if err != nil {
				t.Fatalf("run cycle: %v", err)
			}
			if result.Gate != tc.want {
				t.Fatalf("expected gate %q, got %q", tc.want, result.Gate)
			}
			if (result.Run != nil) != (tc.want == scheduler.GateOpen) {
				t.Fatalf("expected a run only when the gate is open, got %+v", result.Run)
			}
		})
	}
}

func TestRunCycleGatesWithoutRun(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*scheduler.Config)
		at     time.Time
		want   scheduler.GateResult
	}{
		{name: "inactive", mutate: func(c *scheduler.Config) { c.IsActive = false }, want: scheduler.GateInactive},
		{name: "paused", mutate: func(c *scheduler.Config) { c.IsPaused = true }, want: scheduler.GatePaused},
		{name: "out of season", at: time.Date(2027, 1, 5, 19, 0, 0, 0, eastern), want: scheduler.GateOutOfSeason},
		{name: "day excluded", mutate: func(c *scheduler.Config) { c.DaysOfWeek = []int{5, 6} }, want: scheduler.GateDayExcluded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			cfg := env.addConfig(t, tc.mutate)
			if !tc.at.IsZero() {
				env.clock.Set(tc.at)
			}

			result, err := env.ingestion(newMockGateway(t)).RunCycle(context.Background(), testSeasonID, TriggerTimer)
			if err != nil {
				t.Fatalf("run cycle: %v", err)
			}
			if result.Gate != tc.want || result.Run != nil {
				t.Fatalf("expected gate %q without run, got %+v", tc.want, result)
			}
			if n, _ := env.runs.CountByConfig(context.Background(), cfg.ID); n != 0 {
				t.Fatalf("expected no audited runs, got %d", n)
			}
		})
	}
}

func TestRunCycleWithoutConfigIsInactive(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	result, err := env.ingestion(newMockGateway(t)).RunCycle(context.Background(), testSeasonID, TriggerManual)
	if err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if result.Gate != scheduler.GateInactive || result.Run != nil {
		t.Fatalf("expected inactive gate without run, got %+v", result)
	}
}

func TestRunCycleManualTriggerBypassesGates(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.addConfig(t, func(c *scheduler.Config) {
		c.IsActive = false
		c.IsPaused = true
		c.DaysOfWeek = []int{6}
	})
	env.clock.Set(time.Date(2026, 3, 3, 9, 0, 0, 0, eastern))

	gw := newMockGateway(t)
	gw.On("ResolveClubID", mock.Anything, testClubName).Return(testClubEAID, true, nil).Once()
	gw.On("FetchMatches", mock.Anything, testClubEAID).Return([]ExternalMatch{externalMatch("m-1", 1772571600)}, nil).Once()

	result, err := env.ingestion(gw).RunCycle(context.Background(), testSeasonID, TriggerManual)
	if err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if result.Run == nil || result.Run.Status != scheduler.RunStatusSuccess || result.Run.MatchesNew != 1 {
		t.Fatalf("expected manual run to ingest, got %+v", result)
	}
}

func TestRunCycleRefreshesClubEAID(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.addConfig(t, nil)

	gw := newMockGateway(t)
	gw.On("ResolveClubID", mock.Anything, testClubName).Return("3003", true, nil).Once()
	gw.On("FetchMatches", mock.Anything, "3003").Return([]ExternalMatch{}, nil).Once()

	if _, err := env.ingestion(gw).RunCycle(context.Background(), testSeasonID, TriggerTimer); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	c, _, _ := env.clubs.GetByID(context.Background(), testClubID)
	if c.EAID != "3003" {
		t.Fatalf("expected refreshed EA id 3003, got %q", c.EAID)
	}
}

func TestRunCycleSkipsClubWithoutEAID(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.addConfig(t, nil)
	env.store.PutClub(club.Club{ID: "club-2", Name: "Ghosts"})
	env.store.LinkClub(testSeasonID, "club-2")

	gw := newMockGateway(t)
	gw.On("ResolveClubID", mock.Anything, testClubName).Return("", false, nil).Once()
	gw.On("ResolveClubID", mock.Anything, "Ghosts").Return("", false, nil).Once()
	gw.On("FetchMatches", mock.Anything, testClubEAID).Return([]ExternalMatch{}, nil).Once()

	result, err := env.ingestion(gw).RunCycle(context.Background(), testSeasonID, TriggerTimer)
	if err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if result.Run.Status != scheduler.RunStatusSuccess {
		t.Fatalf("expected unresolved club to be skipped, got %+v", result.Run)
	}
	gw.AssertNotCalled(t, "FetchMatches", mock.Anything, "")
}

func TestRunCycleCancelledContextStillFinishesRun(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.addConfig(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	gw := newMockGateway(t)
	gw.On("ResolveClubID", mock.Anything, testClubName).
		Run(func(mock.Arguments) { cancel() }).
		Return("", false, context.Canceled).Once()

	result, err := env.ingestion(gw).RunCycle(ctx, testSeasonID, TriggerTimer)
	if err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if result.Run.Status != scheduler.RunStatusFailed || !errors.Is(ctx.Err(), context.Canceled) {
		t.Fatalf("expected failed run after cancellation, got %+v", result.Run)
	}
	stored, _, _ := env.runs.LatestByConfig(context.Background(), "cfg-1")
	if stored.Status != scheduler.RunStatusFailed {
		t.Fatalf("expected terminal run to be persisted, got %s", stored.Status)
	}
}
