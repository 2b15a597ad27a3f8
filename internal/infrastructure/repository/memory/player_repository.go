package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Ardidini12/XBHL/internal/domain/player"
)

type PlayerRepository struct {
	store *Store
}

func NewPlayerRepository(store *Store) *PlayerRepository {
	return &PlayerRepository{store: store}
}

func (r *PlayerRepository) GetByEAID(_ context.Context, eaPlayerID string) (player.Player, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.players[eaPlayerID]
	return p, ok, nil
}

func (r *PlayerRepository) Create(_ context.Context, p player.Player) (player.Player, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if existing, ok := r.store.players[p.EAPlayerID]; ok {
		return existing, nil
	}
	r.store.players[p.EAPlayerID] = p
	return p, nil
}

func (r *PlayerRepository) UpdateGamertag(_ context.Context, playerID, gamertag string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for eaID, p := range r.store.players {
		if p.ID != playerID {
			continue
		}
		p.Gamertag = gamertag
		p.UpdatedAt = at
		r.store.players[eaID] = p
		return nil
	}
	return fmt.Errorf("player %s not found", playerID)
}

func (r *PlayerRepository) List(_ context.Context, query player.ListQuery) ([]player.Player, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	needle := strings.ToLower(query.Search)
	filtered := make([]player.Player, 0, len(r.store.players))
	for _, p := range r.store.players {
		if needle != "" && !strings.Contains(strings.ToLower(p.Gamertag), needle) {
			continue
		}
		filtered = append(filtered, p)
	}
	slices.SortFunc(filtered, func(a, b player.Player) int {
		if c := compareStrings(a.Gamertag, b.Gamertag); c != 0 {
			return c
		}
		return compareStrings(a.EAPlayerID, b.EAPlayerID)
	})
	return page(filtered, query.Offset, query.Limit), len(filtered), nil
}

type PlayerStatsRepository struct {
	store *Store
}

func NewPlayerStatsRepository(store *Store) *PlayerStatsRepository {
	return &PlayerStatsRepository{store: store}
}

func (r *PlayerStatsRepository) Exists(_ context.Context, eaPlayerID, eaMatchID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.statKey[statsKey{eaPlayerID: eaPlayerID, eaMatchID: eaMatchID}]
	return ok, nil
}

func (r *PlayerStatsRepository) Insert(_ context.Context, s player.MatchStats) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := statsKey{eaPlayerID: s.EAPlayerID, eaMatchID: s.EAMatchID}
	if _, ok := r.store.statKey[key]; ok {
		return false, nil
	}
	r.store.statKey[key] = struct{}{}
	r.store.stats = append(r.store.stats, s)
	return true, nil
}

// ListByPlayer returns a player's lines newest first; lines without a
// timestamp sort last.
func (r *PlayerStatsRepository) ListByPlayer(_ context.Context, eaPlayerID string) ([]player.MatchStats, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]player.MatchStats, 0)
	for _, s := range r.store.stats {
		if s.EAPlayerID == eaPlayerID {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b player.MatchStats) int {
		switch {
		case a.EATimestamp == nil && b.EATimestamp == nil:
			return 0
		case a.EATimestamp == nil:
			return 1
		case b.EATimestamp == nil:
			return -1
		case *a.EATimestamp > *b.EATimestamp:
			return -1
		case *a.EATimestamp < *b.EATimestamp:
			return 1
		default:
			return 0
		}
	})
	return out, nil
}
