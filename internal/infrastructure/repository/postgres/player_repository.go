package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Ardidini12/XBHL/internal/domain/player"
	qb "github.com/Ardidini12/XBHL/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByEAID(ctx context.Context, eaPlayerID string) (player.Player, bool, error) {
	query, args, err := qb.Select(qb.Columns(playerTableModel{})...).From("players").
		Where(qb.Eq("ea_player_id", eaPlayerID)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}
	return row.toDomain(), true, nil
}

// Create inserts p. When a concurrent writer created the same EA player
// first, the stored row is returned instead.
func (r *PlayerRepository) Create(ctx context.Context, p player.Player) (player.Player, error) {
	query, args, err := qb.InsertModel("players", playerTableModel{
		ID:         p.ID,
		EAPlayerID: p.EAPlayerID,
		Gamertag:   p.Gamertag,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}, "ON CONFLICT (ea_player_id) DO NOTHING RETURNING id")
	if err != nil {
		return player.Player{}, fmt.Errorf("build insert player query: %w", err)
	}

	var insertedID string
	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&insertedID)
	if err == nil {
		return p, nil
	}
	if !isNotFound(err) {
		return player.Player{}, fmt.Errorf("insert player: %w", err)
	}

	existing, ok, err := r.GetByEAID(ctx, p.EAPlayerID)
	if err != nil {
		return player.Player{}, err
	}
	if !ok {
		return player.Player{}, fmt.Errorf("player %s vanished after conflicting insert", p.EAPlayerID)
	}
	return existing, nil
}

func (r *PlayerRepository) UpdateGamertag(ctx context.Context, playerID, gamertag string, at time.Time) error {
	query, args, err := qb.Update("players").
		Set("gamertag", gamertag).
		Set("updated_at", at).
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update gamertag query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update gamertag: %w", err)
	}
	return nil
}

func (r *PlayerRepository) List(ctx context.Context, q player.ListQuery) ([]player.Player, int, error) {
	var conds []qb.Condition
	if q.Search != "" {
		conds = append(conds, qb.ILikeContains("gamertag", q.Search))
	}

	query, args, err := qb.Select(qb.Columns(playerTableModel{})...).From("players").
		Where(conds...).
		OrderBy("gamertag", "ea_player_id").
		Limit(q.Limit).
		Offset(q.Offset).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list players: %w", err)
	}

	countQuery, countArgs, err := qb.Select("COUNT(*)").From("players").Where(conds...).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build count players query: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, total, nil
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:         m.ID,
		EAPlayerID: m.EAPlayerID,
		Gamertag:   m.Gamertag,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

type PlayerStatsRepository struct {
	db *sqlx.DB
}

func NewPlayerStatsRepository(db *sqlx.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

func (r *PlayerStatsRepository) Exists(ctx context.Context, eaPlayerID, eaMatchID string) (bool, error) {
	query, args, err := qb.Select("1").From("player_match_stats").
		Where(
			qb.Eq("ea_player_id", eaPlayerID),
			qb.Eq("ea_match_id", eaMatchID),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build player stats exists query: %w", err)
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("check player stats: %w", err)
	}
	return true, nil
}

func (r *PlayerStatsRepository) Insert(ctx context.Context, s player.MatchStats) (bool, error) {
	query, args, err := qb.InsertModel("player_match_stats", newPlayerMatchStatsTableModel(s),
		"ON CONFLICT (ea_player_id, ea_match_id) DO NOTHING RETURNING id")
	if err != nil {
		return false, fmt.Errorf("build insert player stats query: %w", err)
	}

	var insertedID string
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&insertedID); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert player stats: %w", err)
	}
	return true, nil
}

func (r *PlayerStatsRepository) ListByPlayer(ctx context.Context, eaPlayerID string) ([]player.MatchStats, error) {
	query, args, err := qb.Select(qb.Columns(playerMatchStatsTableModel{})...).From("player_match_stats").
		Where(qb.Eq("ea_player_id", eaPlayerID)).
		OrderBy("ea_timestamp DESC NULLS LAST", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player stats query: %w", err)
	}

	var rows []playerMatchStatsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player stats: %w", err)
	}

	out := make([]player.MatchStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
