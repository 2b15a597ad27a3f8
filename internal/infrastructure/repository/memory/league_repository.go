package memory

import (
	"context"

	"github.com/Ardidini12/XBHL/internal/domain/league"
)

type LeagueRepository struct {
	store *Store
}

func NewLeagueRepository(store *Store) *LeagueRepository {
	return &LeagueRepository{store: store}
}

func (r *LeagueRepository) GetLeague(_ context.Context, leagueID string) (league.League, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	l, ok := r.store.leagues[leagueID]
	return l, ok, nil
}

func (r *LeagueRepository) GetSeason(_ context.Context, seasonID string) (league.Season, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.seasons[seasonID]
	return s, ok, nil
}
