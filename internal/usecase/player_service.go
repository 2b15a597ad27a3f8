package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ardidini12/XBHL/internal/domain/player"
)

const defaultPlayersLimit = 50

// PlayerDetail is a player with every stats line, newest match first.
type PlayerDetail struct {
	Player player.Player
	Stats  []player.MatchStats
}

type PlayerService struct {
	players player.Repository
	stats   player.StatsRepository
}

func NewPlayerService(players player.Repository, stats player.StatsRepository) *PlayerService {
	return &PlayerService{
		players: players,
		stats:   stats,
	}
}

// List searches players by gamertag substring, ordered by gamertag.
func (s *PlayerService) List(ctx context.Context, search string, skip, limit int) ([]player.Player, int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.List")
	defer span.End()

	skip, limit, err := normalizePage(skip, limit, defaultPlayersLimit)
	if err != nil {
		return nil, 0, err
	}

	players, total, err := s.players.List(ctx, player.ListQuery{
		Search: strings.TrimSpace(search),
		Offset: skip,
		Limit:  limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list players: %w", err)
	}
	return players, total, nil
}

func (s *PlayerService) Get(ctx context.Context, eaPlayerID string) (PlayerDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Get")
	defer span.End()

	eaPlayerID = strings.TrimSpace(eaPlayerID)
	if eaPlayerID == "" {
		return PlayerDetail{}, fmt.Errorf("%w: ea player id is required", ErrInvalidInput)
	}

	p, ok, err := s.players.GetByEAID(ctx, eaPlayerID)
	if err != nil {
		return PlayerDetail{}, fmt.Errorf("get player: %w", err)
	}
	if !ok {
		return PlayerDetail{}, fmt.Errorf("%w: Player not found.", ErrNotFound)
	}

	stats, err := s.stats.ListByPlayer(ctx, eaPlayerID)
	if err != nil {
		return PlayerDetail{}, fmt.Errorf("list player stats: %w", err)
	}
	return PlayerDetail{Player: p, Stats: stats}, nil
}
