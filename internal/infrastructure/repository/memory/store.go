package memory

import (
	"slices"
	"sync"

	"github.com/Ardidini12/XBHL/internal/domain/club"
	"github.com/Ardidini12/XBHL/internal/domain/league"
	"github.com/Ardidini12/XBHL/internal/domain/match"
	"github.com/Ardidini12/XBHL/internal/domain/player"
	"github.com/Ardidini12/XBHL/internal/domain/scheduler"
)

type statsKey struct {
	eaPlayerID string
	eaMatchID  string
}

// Store is the shared in-process dataset behind every memory repository.
// Repositories share one lock so cascades stay consistent.
type Store struct {
	mu sync.RWMutex

	leagues     map[string]league.League
	seasons     map[string]league.Season
	clubs       map[string]club.Club
	clubSeasons map[string][]string

	configs map[string]scheduler.Config
	runs    map[string]scheduler.Run

	matches   []match.Match
	matchKeys map[match.Key]struct{}

	players map[string]player.Player
	stats   []player.MatchStats
	statKey map[statsKey]struct{}
}

func NewStore() *Store {
	return &Store{
		leagues:     make(map[string]league.League),
		seasons:     make(map[string]league.Season),
		clubs:       make(map[string]club.Club),
		clubSeasons: make(map[string][]string),
		configs:     make(map[string]scheduler.Config),
		runs:        make(map[string]scheduler.Run),
		matchKeys:   make(map[match.Key]struct{}),
		players:     make(map[string]player.Player),
		statKey:     make(map[statsKey]struct{}),
	}
}

func (s *Store) PutLeague(l league.League) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leagues[l.ID] = l
}

func (s *Store) PutSeason(season league.Season) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seasons[season.ID] = season
}

func (s *Store) PutClub(c club.Club) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clubs[c.ID] = c
}

// LinkClub registers a club for a season; linking twice is a no-op.
func (s *Store) LinkClub(seasonID, clubID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.clubSeasons[seasonID], clubID) {
		return
	}
	s.clubSeasons[seasonID] = append(s.clubSeasons[seasonID], clubID)
}

func cloneConfig(cfg scheduler.Config) scheduler.Config {
	cfg.DaysOfWeek = slices.Clone(cfg.DaysOfWeek)
	if cfg.DaysOfWeek == nil {
		cfg.DaysOfWeek = []int{}
	}
	return cfg
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return slices.Clone(items)
}
