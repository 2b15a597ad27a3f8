package memory

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ardidini12/XBHL/internal/domain/match"
	"github.com/Ardidini12/XBHL/internal/domain/player"
	"github.com/Ardidini12/XBHL/internal/domain/scheduler"
)

func TestSchedulerRunRepository_PruneKeepsNewest(t *testing.T) {
	ctx := context.Background()
	runs := NewSchedulerRunRepository(NewStore())
	base := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

	for i := 0; i < 8; i++ {
		require.NoError(t, runs.Create(ctx, scheduler.Run{
			ID:        fmt.Sprintf("r-%d", i),
			ConfigID:  "cfg-1",
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Status:    scheduler.RunStatusSuccess,
		}))
	}
	require.NoError(t, runs.Create(ctx, scheduler.Run{ID: "other", ConfigID: "cfg-2", StartedAt: base}))

	removed, err := runs.Prune(ctx, "cfg-1", scheduler.RunRetention)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	kept, err := runs.ListByConfig(ctx, "cfg-1", 0, 50)
	require.NoError(t, err)
	require.Len(t, kept, 5)
	assert.Equal(t, "r-7", kept[0].ID)
	assert.Equal(t, "r-3", kept[4].ID)

	count, err := runs.CountByConfig(ctx, "cfg-2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSchedulerRunRepository_FinishOnlyRunning(t *testing.T) {
	ctx := context.Background()
	runs := NewSchedulerRunRepository(NewStore())
	started := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	require.NoError(t, runs.Create(ctx, scheduler.Run{ID: "r-1", ConfigID: "cfg-1", StartedAt: started, Status: scheduler.RunStatusRunning}))

	failed, err := runs.FailRunning(ctx, scheduler.OrphanedRunMessage, started.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, failed)

	run := scheduler.Run{ID: "r-1", Status: scheduler.RunStatusSuccess}
	updated, err := runs.Finish(ctx, run)
	require.NoError(t, err)
	assert.False(t, updated)

	latest, ok, err := runs.LatestByConfig(ctx, "cfg-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, scheduler.RunStatusFailed, latest.Status)
	require.NotNil(t, latest.ErrorMessage)
	assert.Equal(t, scheduler.OrphanedRunMessage, *latest.ErrorMessage)
}

func TestSchedulerConfigRepository_DeleteCascadesRuns(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	configs := NewSchedulerConfigRepository(store)
	runs := NewSchedulerRunRepository(store)

	cfg := scheduler.Config{ID: "cfg-1", SeasonID: "s-1", DaysOfWeek: []int{0, 2}}
	require.NoError(t, configs.Create(ctx, cfg))
	assert.ErrorIs(t, configs.Create(ctx, cfg), scheduler.ErrConfigExists)
	require.NoError(t, runs.Create(ctx, scheduler.Run{ID: "r-1", ConfigID: "cfg-1"}))

	got, ok, err := configs.GetBySeason(ctx, "s-1")
	require.NoError(t, err)
	require.True(t, ok)
	got.DaysOfWeek[0] = 6
	again, _, _ := configs.GetBySeason(ctx, "s-1")
	assert.Equal(t, []int{0, 2}, again.DaysOfWeek)

	require.NoError(t, configs.DeleteBySeason(ctx, "s-1"))
	count, err := runs.CountByConfig(ctx, "cfg-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMatchRepository_DedupPerClubAndOrder(t *testing.T) {
	ctx := context.Background()
	matches := NewMatchRepository(NewStore())

	insert := func(id, eaID string, ts int64, clubID string) bool {
		inserted, err := matches.Insert(ctx, match.Match{ID: id, EAMatchID: eaID, EATimestamp: ts, SeasonID: "s-1", ClubID: clubID})
		require.NoError(t, err)
		return inserted
	}

	assert.True(t, insert("m-1", "100", 10, "c-1"))
	assert.False(t, insert("m-2", "100", 10, "c-1"))
	assert.True(t, insert("m-3", "100", 10, "c-2"))
	assert.True(t, insert("m-4", "101", 20, "c-1"))

	items, total, err := matches.List(ctx, match.ListQuery{SeasonID: "s-1", ClubID: "c-1", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, items, 1)
	assert.Equal(t, "m-4", items[0].ID)

	count, err := matches.CountBySeason(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestPlayerRepositories(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	players := NewPlayerRepository(store)
	stats := NewPlayerStatsRepository(store)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	first, err := players.Create(ctx, player.Player{ID: "p-1", EAPlayerID: "900", Gamertag: "Snipe"})
	require.NoError(t, err)
	raced, err := players.Create(ctx, player.Player{ID: "p-2", EAPlayerID: "900", Gamertag: "Other"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, raced.ID)

	_, err = players.Create(ctx, player.Player{ID: "p-3", EAPlayerID: "901", Gamertag: "alpha"})
	require.NoError(t, err)
	require.NoError(t, players.UpdateGamertag(ctx, "p-1", "SnipeShow", now))

	items, total, err := players.List(ctx, player.ListQuery{Search: "SNIPE"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "SnipeShow", items[0].Gamertag)

	all, _, err := players.List(ctx, player.ListQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, strings.Compare(all[0].Gamertag, all[1].Gamertag) < 0)

	older, newer := int64(10), int64(20)
	inserted, err := stats.Insert(ctx, player.MatchStats{ID: "st-1", EAPlayerID: "900", EAMatchID: "100", EATimestamp: &older})
	require.NoError(t, err)
	assert.True(t, inserted)
	inserted, err = stats.Insert(ctx, player.MatchStats{ID: "st-2", EAPlayerID: "900", EAMatchID: "100", EATimestamp: &older})
	require.NoError(t, err)
	assert.False(t, inserted)
	_, err = stats.Insert(ctx, player.MatchStats{ID: "st-3", EAPlayerID: "900", EAMatchID: "101", EATimestamp: &newer})
	require.NoError(t, err)

	exists, err := stats.Exists(ctx, "900", "101")
	require.NoError(t, err)
	assert.True(t, exists)

	lines, err := stats.ListByPlayer(ctx, "900")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "st-3", lines[0].ID)
}
