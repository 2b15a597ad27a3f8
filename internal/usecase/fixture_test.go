package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Ardidini12/XBHL/internal/domain/club"
	"github.com/Ardidini12/XBHL/internal/domain/league"
	"github.com/Ardidini12/XBHL/internal/domain/player"
	"github.com/Ardidini12/XBHL/internal/domain/scheduler"
	"github.com/Ardidini12/XBHL/internal/infrastructure/repository/memory"
	"github.com/Ardidini12/XBHL/internal/platform/logging"
)

// eastern is a fixed stand-in for America/New_York so tests do not need tzdata.
var eastern = time.FixedZone("EST", -5*60*60)

const (
	testLeagueID = "league-1"
	testSeasonID = "season-1"
	testClubID   = "club-1"
	testClubName = "Wolves"
	testClubEAID = "1001"
	testRivalEA  = "2002"
)

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%04d", g.n), nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type mockGateway struct {
	mock.Mock
}

func newMockGateway(t *testing.T) *mockGateway {
	gw := &mockGateway{}
	gw.Test(t)
	t.Cleanup(func() { gw.AssertExpectations(t) })
	return gw
}

func (m *mockGateway) ResolveClubID(ctx context.Context, clubName string) (string, bool, error) {
	args := m.Called(ctx, clubName)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockGateway) FetchMatches(ctx context.Context, clubEAID string) ([]ExternalMatch, error) {
	args := m.Called(ctx, clubEAID)
	matches, _ := args.Get(0).([]ExternalMatch)
	return matches, args.Error(1)
}

type testEnv struct {
	store   *memory.Store
	leagues *memory.LeagueRepository
	clubs   *memory.ClubRepository
	configs *memory.SchedulerConfigRepository
	runs    *memory.SchedulerRunRepository
	matches *memory.MatchRepository
	players *memory.PlayerRepository
	stats   *memory.PlayerStatsRepository
	ids     *seqIDs
	clock   *testClock
	audit   *RunAuditLog
}

// newTestEnv seeds one league, one 2026 season and one linked club with a
// known EA id. The clock starts on Tuesday 2026-03-03 at 19:00 local.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	store.PutLeague(league.League{ID: testLeagueID, Name: "XBHL"})
	store.PutSeason(league.Season{
		ID:        testSeasonID,
		LeagueID:  testLeagueID,
		Name:      "Season 1",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   &end,
	})
	store.PutClub(club.Club{ID: testClubID, Name: testClubName, EAID: testClubEAID})
	store.LinkClub(testSeasonID, testClubID)

	env := &testEnv{
		store:   store,
		leagues: memory.NewLeagueRepository(store),
		clubs:   memory.NewClubRepository(store),
		configs: memory.NewSchedulerConfigRepository(store),
		runs:    memory.NewSchedulerRunRepository(store),
		matches: memory.NewMatchRepository(store),
		players: memory.NewPlayerRepository(store),
		stats:   memory.NewPlayerStatsRepository(store),
		ids:     &seqIDs{},
		clock:   &testClock{now: time.Date(2026, 3, 3, 19, 0, 0, 0, eastern)},
	}
	env.audit = NewRunAuditLog(env.runs, env.ids, logging.NewNop())
	env.audit.now = env.clock.Now
	return env
}

// addConfig stores an active 18:00-23:00 config for the test season.
func (e *testEnv) addConfig(t *testing.T, mutate func(*scheduler.Config)) scheduler.Config {
	t.Helper()

	cfg := scheduler.Config{
		ID:              "cfg-1",
		SeasonID:        testSeasonID,
		IsActive:        true,
		DaysOfWeek:      []int{},
		StartHour:       scheduler.DefaultStartHour,
		EndHour:         scheduler.DefaultEndHour,
		IntervalMinutes: scheduler.DefaultIntervalMinutes,
		CreatedAt:       e.clock.Now().UTC(),
		UpdatedAt:       e.clock.Now().UTC(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	if err := e.configs.Create(context.Background(), cfg); err != nil {
		t.Fatalf("create config: %v", err)
	}
	return cfg
}

func (e *testEnv) ingestion(gw MatchGateway) *IngestionService {
	svc := NewIngestionService(IngestionDependencies{
		Configs:  e.configs,
		Seasons:  e.leagues,
		Clubs:    e.clubs,
		Matches:  e.matches,
		Players:  e.players,
		Stats:    e.stats,
		Gateway:  gw,
		Audit:    e.audit,
		IDs:      e.ids,
		Location: eastern,
		Logger:   logging.NewNop(),
	})
	svc.now = e.clock.Now
	return svc
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func playerLine(eaPlayerID, gamertag string, goals int64) ExternalPlayerStat {
	return ExternalPlayerStat{
		ClubEAID:   testClubEAID,
		EAPlayerID: eaPlayerID,
		Gamertag:   gamertag,
		Stats: player.MatchStats{
			SkGoals:  int64Ptr(goals),
			Position: strPtr("center"),
		},
	}
}

func externalMatch(matchID string, ts int64, lines ...ExternalPlayerStat) ExternalMatch {
	return ExternalMatch{
		MatchID:      matchID,
		Timestamp:    int64Ptr(ts),
		HomeClubEAID: strPtr(testClubEAID),
		AwayClubEAID: strPtr(testRivalEA),
		HomeScore:    intPtr(4),
		AwayScore:    intPtr(2),
		Players:      lines,
		Raw:          []byte(fmt.Sprintf(`{"matchId":%q,"timestamp":%d}`, matchID, ts)),
	}
}
