package memory

import (
	"context"
	"fmt"

	"github.com/Ardidini12/XBHL/internal/domain/club"
)

type ClubRepository struct {
	store *Store
}

func NewClubRepository(store *Store) *ClubRepository {
	return &ClubRepository{store: store}
}

func (r *ClubRepository) GetByID(_ context.Context, clubID string) (club.Club, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.clubs[clubID]
	return c, ok, nil
}

// ListBySeason returns linked clubs in link order.
func (r *ClubRepository) ListBySeason(_ context.Context, seasonID string) ([]club.Club, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ids := r.store.clubSeasons[seasonID]
	out := make([]club.Club, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.store.clubs[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *ClubRepository) UpdateEAID(_ context.Context, clubID, eaID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.clubs[clubID]
	if !ok {
		return fmt.Errorf("club %s not found", clubID)
	}
	c.EAID = eaID
	r.store.clubs[clubID] = c
	return nil
}
