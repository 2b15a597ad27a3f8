package postgres

import (
	"strings"
	"testing"

	"github.com/Ardidini12/XBHL/internal/domain/match"
	"github.com/Ardidini12/XBHL/internal/domain/player"
	qb "github.com/Ardidini12/XBHL/internal/platform/querybuilder"
)

func TestPruneRunsQuery(t *testing.T) {
	query, args, err := pruneRunsQuery("cfg-1", 5)
	if err != nil {
		t.Fatalf("build prune query: %v", err)
	}
	want := "DELETE FROM scheduler_runs WHERE scheduler_config_id = $1 AND id NOT IN (SELECT id FROM scheduler_runs WHERE scheduler_config_id = $2 ORDER BY started_at DESC, id DESC LIMIT $3)"
	if query != want {
		t.Fatalf("unexpected prune query:\n%s", query)
	}
	if len(args) != 3 || args[0] != "cfg-1" || args[2] != 5 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertMatchQuery(t *testing.T) {
	query, args, err := insertMatchQuery(match.Match{ID: "m-1", EAMatchID: "100", EATimestamp: 1700000000, SeasonID: "s-1", ClubID: "c-1"})
	if err != nil {
		t.Fatalf("build insert match query: %v", err)
	}
	if !strings.HasSuffix(query, "ON CONFLICT (ea_match_id, ea_timestamp, club_id) DO NOTHING RETURNING id") {
		t.Fatalf("expected insert-or-detect suffix, got %s", query)
	}
	if len(args) != 11 || args[9] != "{}" {
		t.Fatalf("expected empty raw json to default to {}, got %+v", args[9])
	}
}

func TestPlayerMatchStatsColumnsCoverEveryStat(t *testing.T) {
	cols := qb.Columns(playerMatchStatsTableModel{})
	seen := map[string]bool{}
	for _, c := range cols {
		if seen[c] {
			t.Fatalf("duplicate column %s", c)
		}
		seen[c] = true
	}
	for _, want := range []string{"ea_player_id", "glsavepct", "skgoals", "player_dnf", "toiseconds", "client_platform"} {
		if !seen[want] {
			t.Fatalf("expected column %s", want)
		}
	}

	goals := int64(2)
	row := newPlayerMatchStatsTableModel(player.MatchStats{ID: "st-1", SkGoals: &goals})
	if back := row.toDomain(); back.SkGoals == nil || *back.SkGoals != 2 {
		t.Fatalf("expected stat to survive conversion")
	}
}
