package cache

import (
	"context"

	"github.com/Ardidini12/XBHL/internal/domain/club"
	"github.com/Ardidini12/XBHL/internal/domain/league"
	basecache "github.com/Ardidini12/XBHL/internal/platform/cache"
)

type cachedLookup[T any] struct {
	value  T
	exists bool
}

// LeagueRepository caches league and season reads. Both are managed
// outside this service and change rarely.
type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) GetLeague(ctx context.Context, leagueID string) (league.League, bool, error) {
	got, err := basecache.Load(ctx, r.cache, "league:id:"+leagueID, func(ctx context.Context) (cachedLookup[league.League], error) {
		item, exists, err := r.next.GetLeague(ctx, leagueID)
		return cachedLookup[league.League]{value: item, exists: exists}, err
	})
	if err != nil {
		return league.League{}, false, err
	}
	return got.value, got.exists, nil
}

func (r *LeagueRepository) GetSeason(ctx context.Context, seasonID string) (league.Season, bool, error) {
	got, err := basecache.Load(ctx, r.cache, "season:id:"+seasonID, func(ctx context.Context) (cachedLookup[league.Season], error) {
		item, exists, err := r.next.GetSeason(ctx, seasonID)
		return cachedLookup[league.Season]{value: item, exists: exists}, err
	})
	if err != nil {
		return league.Season{}, false, err
	}
	return got.value, got.exists, nil
}

// ClubRepository caches club reads and drops them when an EA id changes.
type ClubRepository struct {
	next  club.Repository
	cache *basecache.Store
}

func NewClubRepository(next club.Repository, cache *basecache.Store) *ClubRepository {
	return &ClubRepository{next: next, cache: cache}
}

func (r *ClubRepository) GetByID(ctx context.Context, clubID string) (club.Club, bool, error) {
	got, err := basecache.Load(ctx, r.cache, "club:id:"+clubID, func(ctx context.Context) (cachedLookup[club.Club], error) {
		item, exists, err := r.next.GetByID(ctx, clubID)
		return cachedLookup[club.Club]{value: item, exists: exists}, err
	})
	if err != nil {
		return club.Club{}, false, err
	}
	return got.value, got.exists, nil
}

func (r *ClubRepository) ListBySeason(ctx context.Context, seasonID string) ([]club.Club, error) {
	items, err := basecache.Load(ctx, r.cache, "club:season:"+seasonID, func(ctx context.Context) ([]club.Club, error) {
		items, err := r.next.ListBySeason(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return append([]club.Club(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]club.Club(nil), items...), nil
}

func (r *ClubRepository) UpdateEAID(ctx context.Context, clubID, eaID string) error {
	if err := r.next.UpdateEAID(ctx, clubID, eaID); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "club:")
	return nil
}
