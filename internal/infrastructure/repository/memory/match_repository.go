package memory

import (
	"context"
	"slices"

	"github.com/Ardidini12/XBHL/internal/domain/match"
)

type MatchRepository struct {
	store *Store
}

func NewMatchRepository(store *Store) *MatchRepository {
	return &MatchRepository{store: store}
}

func (r *MatchRepository) Insert(_ context.Context, m match.Match) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := m.Key()
	if _, exists := r.store.matchKeys[key]; exists {
		return false, nil
	}
	m.RawJSON = slices.Clone(m.RawJSON)
	r.store.matchKeys[key] = struct{}{}
	r.store.matches = append(r.store.matches, m)
	return true, nil
}

func (r *MatchRepository) CountBySeason(_ context.Context, seasonID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, m := range r.store.matches {
		if m.SeasonID == seasonID {
			count++
		}
	}
	return count, nil
}

// List returns matches newest first by EA timestamp.
func (r *MatchRepository) List(_ context.Context, query match.ListQuery) ([]match.Match, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	filtered := make([]match.Match, 0)
	for _, m := range r.store.matches {
		if query.SeasonID != "" && m.SeasonID != query.SeasonID {
			continue
		}
		if query.ClubID != "" && m.ClubID != query.ClubID {
			continue
		}
		filtered = append(filtered, m)
	}
	slices.SortStableFunc(filtered, func(a, b match.Match) int {
		switch {
		case a.EATimestamp > b.EATimestamp:
			return -1
		case a.EATimestamp < b.EATimestamp:
			return 1
		default:
			return 0
		}
	})
	return page(filtered, query.Offset, query.Limit), len(filtered), nil
}
