package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ardidini12/XBHL/internal/domain/club"
	"github.com/Ardidini12/XBHL/internal/domain/league"
	"github.com/Ardidini12/XBHL/internal/domain/match"
)

const defaultMatchesLimit = 100

// MatchView is a stored match seen from its reporting club.
type MatchView struct {
	Match        match.Match
	SeasonName   *string
	LeagueName   *string
	IsHome       *bool
	OpponentEAID *string
}

type MatchService struct {
	matches match.Repository
	seasons league.Repository
	clubs   club.Repository
}

func NewMatchService(matches match.Repository, seasons league.Repository, clubs club.Repository) *MatchService {
	return &MatchService{
		matches: matches,
		seasons: seasons,
		clubs:   clubs,
	}
}

func (s *MatchService) ListBySeason(ctx context.Context, seasonID string, skip, limit int) ([]MatchView, int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListBySeason")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	_, ok, err := s.seasons.GetSeason(ctx, seasonID)
	if err != nil {
		return nil, 0, fmt.Errorf("get season: %w", err)
	}
	if !ok {
		return nil, 0, fmt.Errorf("%w: Season not found.", ErrNotFound)
	}

	return s.list(ctx, match.ListQuery{SeasonID: seasonID}, skip, limit)
}

func (s *MatchService) ListByClub(ctx context.Context, clubID string, skip, limit int) ([]MatchView, int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListByClub")
	defer span.End()

	clubID = strings.TrimSpace(clubID)
	_, ok, err := s.clubs.GetByID(ctx, clubID)
	if err != nil {
		return nil, 0, fmt.Errorf("get club: %w", err)
	}
	if !ok {
		return nil, 0, fmt.Errorf("%w: Club not found.", ErrNotFound)
	}

	return s.list(ctx, match.ListQuery{ClubID: clubID}, skip, limit)
}

func (s *MatchService) list(ctx context.Context, query match.ListQuery, skip, limit int) ([]MatchView, int, error) {
	skip, limit, err := normalizePage(skip, limit, defaultMatchesLimit)
	if err != nil {
		return nil, 0, err
	}
	query.Offset, query.Limit = skip, limit

	matches, total, err := s.matches.List(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("list matches: %w", err)
	}

	enricher := newMatchEnricher(s.seasons, s.clubs)
	out := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		view, err := enricher.enrich(ctx, m)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, view)
	}
	return out, total, nil
}

// matchEnricher memoizes season, league and club lookups for one page.
type matchEnricher struct {
	seasons league.Repository
	clubs   club.Repository

	seasonNames map[string]*string
	leagueNames map[string]*string
	clubEAIDs   map[string]string
}

func newMatchEnricher(seasons league.Repository, clubs club.Repository) *matchEnricher {
	return &matchEnricher{
		seasons:     seasons,
		clubs:       clubs,
		seasonNames: make(map[string]*string),
		leagueNames: make(map[string]*string),
		clubEAIDs:   make(map[string]string),
	}
}

func (e *matchEnricher) enrich(ctx context.Context, m match.Match) (MatchView, error) {
	view := MatchView{Match: m}

	if err := e.loadSeason(ctx, m.SeasonID); err != nil {
		return MatchView{}, err
	}
	view.SeasonName = e.seasonNames[m.SeasonID]
	view.LeagueName = e.leagueNames[m.SeasonID]

	eaID, ok := e.clubEAIDs[m.ClubID]
	if !ok {
		c, found, err := e.clubs.GetByID(ctx, m.ClubID)
		if err != nil {
			return MatchView{}, fmt.Errorf("get club: %w", err)
		}
		if found {
			eaID = c.EAID
		}
		e.clubEAIDs[m.ClubID] = eaID
	}

	if home, ok := m.IsHome(eaID); ok {
		view.IsHome = &home
		view.OpponentEAID = m.OpponentEAID(eaID)
	}
	return view, nil
}

func (e *matchEnricher) loadSeason(ctx context.Context, seasonID string) error {
	if _, ok := e.seasonNames[seasonID]; ok {
		return nil
	}

	season, found, err := e.seasons.GetSeason(ctx, seasonID)
	if err != nil {
		return fmt.Errorf("get season: %w", err)
	}
	if !found {
		e.seasonNames[seasonID] = nil
		return nil
	}
	e.seasonNames[seasonID] = &season.Name

	lg, found, err := e.seasons.GetLeague(ctx, season.LeagueID)
	if err != nil {
		return fmt.Errorf("get league: %w", err)
	}
	if found {
		e.leagueNames[seasonID] = &lg.Name
	}
	return nil
}
