package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Ardidini12/XBHL/internal/domain/club"
	"github.com/Ardidini12/XBHL/internal/infrastructure/repository/memory"
	basecache "github.com/Ardidini12/XBHL/internal/platform/cache"
)

type countingClubs struct {
	club.Repository
	listCalls int
}

func (c *countingClubs) ListBySeason(ctx context.Context, seasonID string) ([]club.Club, error) {
	c.listCalls++
	return c.Repository.ListBySeason(ctx, seasonID)
}

func TestClubRepository_CachesUntilEAIDChanges(t *testing.T) {
	store := memory.NewStore()
	store.PutClub(club.Club{ID: "c-1", Name: "Ice Wolves"})
	store.LinkClub("s-1", "c-1")

	next := &countingClubs{Repository: memory.NewClubRepository(store)}
	repo := NewClubRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := repo.ListBySeason(ctx, "s-1"); err != nil {
			t.Fatalf("list clubs: %v", err)
		}
	}
	if next.listCalls != 1 {
		t.Fatalf("expected one backend call, got %d", next.listCalls)
	}

	if err := repo.UpdateEAID(ctx, "c-1", "4411"); err != nil {
		t.Fatalf("update ea id: %v", err)
	}
	clubs, err := repo.ListBySeason(ctx, "s-1")
	if err != nil {
		t.Fatalf("list clubs: %v", err)
	}
	if next.listCalls != 2 {
		t.Fatalf("expected reload after update, got %d calls", next.listCalls)
	}
	if len(clubs) != 1 || clubs[0].EAID != "4411" {
		t.Fatalf("expected refreshed EA id, got %+v", clubs)
	}
}

func TestLeagueRepository_CachesMisses(t *testing.T) {
	store := memory.NewStore()
	repo := NewLeagueRepository(memory.NewLeagueRepository(store), basecache.NewStore(time.Minute))

	_, ok, err := repo.GetSeason(context.Background(), "missing")
	if err != nil || ok {
		t.Fatalf("expected cached miss, got ok=%v err=%v", ok, err)
	}
}
