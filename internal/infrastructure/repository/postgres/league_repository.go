package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Ardidini12/XBHL/internal/domain/league"
	qb "github.com/Ardidini12/XBHL/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) GetLeague(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select(qb.Columns(leagueTableModel{})...).From("leagues").
		Where(qb.Eq("id", leagueID)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league: %w", err)
	}

	return league.League{ID: row.ID, Name: row.Name}, true, nil
}

func (r *LeagueRepository) GetSeason(ctx context.Context, seasonID string) (league.Season, bool, error) {
	query, args, err := qb.Select(qb.Columns(seasonTableModel{})...).From("seasons").
		Where(qb.Eq("id", seasonID)).
		ToSQL()
	if err != nil {
		return league.Season{}, false, fmt.Errorf("build get season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.Season{}, false, nil
		}
		return league.Season{}, false, fmt.Errorf("get season: %w", err)
	}

	return league.Season{
		ID:        row.ID,
		LeagueID:  row.LeagueID,
		Name:      row.Name,
		StartDate: row.StartDate,
		EndDate:   row.EndDate,
	}, true, nil
}
