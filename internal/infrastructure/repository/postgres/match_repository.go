package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Ardidini12/XBHL/internal/domain/match"
	qb "github.com/Ardidini12/XBHL/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Insert relies on uq_match_ea_club: a conflicting row returns no id.
func (r *MatchRepository) Insert(ctx context.Context, m match.Match) (bool, error) {
	query, args, err := insertMatchQuery(m)
	if err != nil {
		return false, fmt.Errorf("build insert match query: %w", err)
	}

	var insertedID string
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&insertedID); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert match: %w", err)
	}
	return true, nil
}

func insertMatchQuery(m match.Match) (string, []any, error) {
	raw := string(m.RawJSON)
	if raw == "" {
		raw = "{}"
	}
	return qb.InsertInto("matches").
		Columns(
			"id", "ea_match_id", "ea_timestamp", "season_id", "club_id",
			"home_club_ea_id", "away_club_ea_id", "home_score", "away_score",
			"raw_json", "created_at",
		).
		Values(
			m.ID, m.EAMatchID, m.EATimestamp, m.SeasonID, m.ClubID,
			m.HomeClubEAID, m.AwayClubEAID, m.HomeScore, m.AwayScore,
			raw, m.CreatedAt,
		).
		Suffix("ON CONFLICT (ea_match_id, ea_timestamp, club_id) DO NOTHING RETURNING id").
		ToSQL()
}

func (r *MatchRepository) CountBySeason(ctx context.Context, seasonID string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("matches").
		Where(qb.Eq("season_id", seasonID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count matches query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return count, nil
}

func (r *MatchRepository) List(ctx context.Context, q match.ListQuery) ([]match.Match, int, error) {
	conds := matchConditions(q)

	query, args, err := qb.Select(qb.Columns(matchTableModel{})...).From("matches").
		Where(conds...).
		OrderBy("ea_timestamp DESC", "id").
		Limit(q.Limit).
		Offset(q.Offset).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list matches: %w", err)
	}

	countQuery, countArgs, err := qb.Select("COUNT(*)").From("matches").Where(conds...).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build count listed matches query: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count listed matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, total, nil
}

func matchConditions(q match.ListQuery) []qb.Condition {
	var conds []qb.Condition
	if q.SeasonID != "" {
		conds = append(conds, qb.Eq("season_id", q.SeasonID))
	}
	if q.ClubID != "" {
		conds = append(conds, qb.Eq("club_id", q.ClubID))
	}
	return conds
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:           m.ID,
		EAMatchID:    m.EAMatchID,
		EATimestamp:  m.EATimestamp,
		SeasonID:     m.SeasonID,
		ClubID:       m.ClubID,
		HomeClubEAID: m.HomeClubEAID,
		AwayClubEAID: m.AwayClubEAID,
		HomeScore:    m.HomeScore,
		AwayScore:    m.AwayScore,
		RawJSON:      m.RawJSON,
		CreatedAt:    m.CreatedAt,
	}
}
