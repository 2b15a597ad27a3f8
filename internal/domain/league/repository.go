package league

import "context"

// Repository describes league and season reads needed by use cases.
type Repository interface {
	GetLeague(ctx context.Context, leagueID string) (League, bool, error)
	GetSeason(ctx context.Context, seasonID string) (Season, bool, error)
}
