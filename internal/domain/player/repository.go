package player

import (
	"context"
	"time"
)

// Repository persists player identities.
type Repository interface {
	GetByEAID(ctx context.Context, eaPlayerID string) (Player, bool, error)
	// Create inserts p, or returns the stored row when another writer
	// created the same EA player first.
	Create(ctx context.Context, p Player) (Player, error)
	UpdateGamertag(ctx context.Context, playerID, gamertag string, at time.Time) error
	List(ctx context.Context, query ListQuery) ([]Player, int, error)
}

// StatsRepository persists per-match player lines. Rows are never updated.
type StatsRepository interface {
	Exists(ctx context.Context, eaPlayerID, eaMatchID string) (bool, error)
	// Insert stores s unless (EAPlayerID, EAMatchID) exists; inserted is
	// false for a duplicate.
	Insert(ctx context.Context, s MatchStats) (inserted bool, err error)
	ListByPlayer(ctx context.Context, eaPlayerID string) ([]MatchStats, error)
}
