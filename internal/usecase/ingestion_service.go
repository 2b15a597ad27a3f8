package usecase

import (
	"context"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/panics"

	"github.com/Ardidini12/XBHL/internal/domain/club"
	"github.com/Ardidini12/XBHL/internal/domain/league"
	"github.com/Ardidini12/XBHL/internal/domain/match"
	"github.com/Ardidini12/XBHL/internal/domain/player"
	"github.com/Ardidini12/XBHL/internal/domain/scheduler"
	"github.com/Ardidini12/XBHL/internal/platform/id"
	"github.com/Ardidini12/XBHL/internal/platform/logging"
)

// Trigger names what started a cycle.
type Trigger string

const (
	TriggerTimer  Trigger = "timer"
	TriggerManual Trigger = "manual"
)

// CycleResult describes one RunCycle call. Run is nil when a gate closed
// before a run was recorded.
type CycleResult struct {
	SeasonID string
	Gate     scheduler.GateResult
	Run      *scheduler.Run
}

type IngestionDependencies struct {
	Configs  scheduler.ConfigRepository
	Seasons  league.Repository
	Clubs    club.Repository
	Matches  match.Repository
	Players  player.Repository
	Stats    player.StatsRepository
	Gateway  MatchGateway
	Audit    *RunAuditLog
	IDs      id.Generator
	Location *time.Location
	Logger   *logging.Logger
}

// IngestionService runs one ingestion cycle for one season.
type IngestionService struct {
	configs  scheduler.ConfigRepository
	seasons  league.Repository
	clubs    club.Repository
	matches  match.Repository
	players  player.Repository
	stats    player.StatsRepository
	gateway  MatchGateway
	audit    *RunAuditLog
	ids      id.Generator
	location *time.Location
	logger   *logging.Logger
	now      func() time.Time
}

type cycleTally struct {
	fetched int
	new     int
}

func NewIngestionService(deps IngestionDependencies) *IngestionService {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	location := deps.Location
	if location == nil {
		location = time.UTC
	}
	return &IngestionService{
		configs:  deps.Configs,
		seasons:  deps.Seasons,
		clubs:    deps.Clubs,
		matches:  deps.Matches,
		players:  deps.Players,
		stats:    deps.Stats,
		gateway:  deps.Gateway,
		audit:    deps.Audit,
		ids:      deps.IDs,
		location: location,
		logger:   logger.With("component", "ingestion"),
		now:      time.Now,
	}
}

// RunCycle checks the season's gates and, when open, ingests every linked
// club and records exactly one run. Manual triggers bypass the gates but
// still need a config to audit against. Failures inside the club loop are
// stored on the run and are not returned; the error result only reports
// problems reading the gates or writing the run itself.
func (s *IngestionService) RunCycle(ctx context.Context, seasonID string, trigger Trigger) (CycleResult, error) {
	ctx, span := startCycleSpan(ctx, "usecase.IngestionService.RunCycle", seasonID)
	defer span.End()

	result := CycleResult{SeasonID: seasonID}
	logger := s.logger.With("season_id", seasonID)

	cfg, ok, err := s.configs.GetBySeason(ctx, seasonID)
	if err != nil {
		recordSpanError(span, err)
		return result, fmt.Errorf("get scheduler config: %w", err)
	}
	if !ok {
		result.Gate = scheduler.GateInactive
		logger.DebugContext(ctx, "cycle skipped: no scheduler config")
		return result, nil
	}

	season, ok, err := s.seasons.GetSeason(ctx, seasonID)
	if err != nil {
		recordSpanError(span, err)
		return result, fmt.Errorf("get season: %w", err)
	}
	if !ok {
		result.Gate = scheduler.GateOutOfSeason
		logger.DebugContext(ctx, "cycle skipped: season missing")
		return result, nil
	}

	now := s.now().In(s.location)
	if gate := cfg.Gate(now, season.ActiveOn); gate != scheduler.GateOpen && trigger != TriggerManual {
		result.Gate = gate
		logger.DebugContext(ctx, "cycle skipped", "reason", string(gate), "local_time", now.Format(time.RFC3339))
		return result, nil
	}

	run, err := s.audit.Begin(ctx, cfg)
	if err != nil {
		recordSpanError(span, err)
		return result, err
	}
	logger = logger.With("run_id", run.ID, "trigger", string(trigger))
	logger.InfoContext(ctx, "ingestion cycle started")

	tally := &cycleTally{}
	var catcher panics.Catcher
	var cycleErr error
	catcher.Try(func() {
		cycleErr = s.ingestSeason(ctx, seasonID, tally, logger)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		cycleErr = crerr.Wrap(recovered.AsError(), "ingestion cycle panicked")
	}

	run.MatchesFetched = tally.fetched
	run.MatchesNew = tally.new

	// The run must reach a terminal state even when ctx was cancelled mid-cycle.
	finished, err := s.audit.Finish(context.WithoutCancel(ctx), run, cycleErr)
	result.Run = &finished
	if cycleErr != nil {
		recordSpanError(span, cycleErr)
		logger.ErrorContext(ctx, "ingestion cycle failed", "error", cycleErr, "matches_fetched", tally.fetched, "matches_new", tally.new)
	} else {
		logger.InfoContext(ctx, "ingestion cycle finished", "matches_fetched", tally.fetched, "matches_new", tally.new)
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

func (s *IngestionService) ingestSeason(ctx context.Context, seasonID string, tally *cycleTally, logger *logging.Logger) error {
	clubs, err := s.clubs.ListBySeason(ctx, seasonID)
	if err != nil {
		return fmt.Errorf("list clubs: %w", err)
	}

	for _, c := range clubs {
		if err := ctx.Err(); err != nil {
			return err
		}

		eaID, err := s.resolveClubEAID(ctx, c, logger)
		if err != nil {
			return err
		}
		if eaID == "" {
			logger.WarnContext(ctx, "club skipped: no EA id", "club_id", c.ID, "club_name", c.Name)
			continue
		}

		matches, err := s.gateway.FetchMatches(ctx, eaID)
		if err != nil {
			return fmt.Errorf("fetch matches for club %s: %w", c.Name, err)
		}
		tally.fetched += len(matches)

		for _, em := range matches {
			if s.storeMatch(ctx, seasonID, c, em, logger) {
				tally.new++
			}
		}
	}
	return nil
}

// resolveClubEAID refreshes the club's EA id by name. A lookup miss keeps
// the stored id.
func (s *IngestionService) resolveClubEAID(ctx context.Context, c club.Club, logger *logging.Logger) (string, error) {
	resolved, found, err := s.gateway.ResolveClubID(ctx, c.Name)
	if err != nil {
		return "", fmt.Errorf("resolve club %s: %w", c.Name, err)
	}
	if !found || resolved == "" || resolved == c.EAID {
		return c.EAID, nil
	}

	if err := s.clubs.UpdateEAID(ctx, c.ID, resolved); err != nil {
		return "", fmt.Errorf("update EA id of club %s: %w", c.Name, err)
	}
	logger.InfoContext(ctx, "club EA id updated", "club_id", c.ID, "previous_ea_id", c.EAID, "ea_id", resolved)
	return resolved, nil
}

// storeMatch inserts em for the reporting club and reports whether it was new.
func (s *IngestionService) storeMatch(ctx context.Context, seasonID string, c club.Club, em ExternalMatch, logger *logging.Logger) bool {
	if !em.Identified() {
		logger.DebugContext(ctx, "match skipped: missing id or timestamp", "club_id", c.ID, "ea_match_id", em.MatchID)
		return false
	}

	matchID, err := s.ids.NewID()
	if err != nil {
		logger.WarnContext(ctx, "match skipped: id generation failed", "error", err)
		return false
	}

	m := match.Match{
		ID:           matchID,
		EAMatchID:    em.MatchID,
		EATimestamp:  *em.Timestamp,
		SeasonID:     seasonID,
		ClubID:       c.ID,
		HomeClubEAID: em.HomeClubEAID,
		AwayClubEAID: em.AwayClubEAID,
		HomeScore:    em.HomeScore,
		AwayScore:    em.AwayScore,
		RawJSON:      em.Raw,
		CreatedAt:    s.now().UTC(),
	}

	inserted, err := s.matches.Insert(ctx, m)
	if err != nil {
		logger.WarnContext(ctx, "match insert failed", "error", err, "club_id", c.ID, "ea_match_id", em.MatchID)
		return false
	}
	if !inserted {
		return false
	}

	for _, line := range em.Players {
		if err := s.storePlayerLine(ctx, m, line); err != nil {
			logger.WarnContext(ctx, "player stats skipped", "error", err, "ea_match_id", m.EAMatchID, "ea_player_id", line.EAPlayerID)
		}
	}
	return true
}

func (s *IngestionService) storePlayerLine(ctx context.Context, m match.Match, line ExternalPlayerStat) error {
	if line.EAPlayerID == "" {
		return fmt.Errorf("%w: player line without EA player id", ErrInvalidInput)
	}

	p, err := s.upsertPlayer(ctx, line.EAPlayerID, line.Gamertag)
	if err != nil {
		return err
	}

	exists, err := s.stats.Exists(ctx, line.EAPlayerID, m.EAMatchID)
	if err != nil {
		return fmt.Errorf("check player stats: %w", err)
	}
	if exists {
		return nil
	}

	statsID, err := s.ids.NewID()
	if err != nil {
		return fmt.Errorf("generate stats id: %w", err)
	}

	stats := line.Stats
	stats.ID = statsID
	stats.PlayerID = p.ID
	stats.EAPlayerID = line.EAPlayerID
	stats.EAMatchID = m.EAMatchID
	stats.EATimestamp = &m.EATimestamp
	stats.MatchID = &m.ID
	stats.CreatedAt = s.now().UTC()

	if _, err := s.stats.Insert(ctx, stats); err != nil {
		return fmt.Errorf("insert player stats: %w", err)
	}
	return nil
}

// upsertPlayer creates the player or refreshes a changed gamertag.
func (s *IngestionService) upsertPlayer(ctx context.Context, eaPlayerID, gamertag string) (player.Player, error) {
	existing, ok, err := s.players.GetByEAID(ctx, eaPlayerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}

	now := s.now().UTC()
	if !ok {
		playerID, err := s.ids.NewID()
		if err != nil {
			return player.Player{}, fmt.Errorf("generate player id: %w", err)
		}
		created, err := s.players.Create(ctx, player.Player{
			ID:         playerID,
			EAPlayerID: eaPlayerID,
			Gamertag:   gamertag,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return player.Player{}, fmt.Errorf("create player: %w", err)
		}
		return created, nil
	}

	if gamertag != "" && existing.Gamertag != gamertag {
		if err := s.players.UpdateGamertag(ctx, existing.ID, gamertag, now); err != nil {
			return player.Player{}, fmt.Errorf("update gamertag: %w", err)
		}
		existing.Gamertag = gamertag
		existing.UpdatedAt = now
	}
	return existing, nil
}
