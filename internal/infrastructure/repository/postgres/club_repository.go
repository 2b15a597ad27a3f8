package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Ardidini12/XBHL/internal/domain/club"
	qb "github.com/Ardidini12/XBHL/internal/platform/querybuilder"
)

type ClubRepository struct {
	db *sqlx.DB
}

func NewClubRepository(db *sqlx.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

func (r *ClubRepository) GetByID(ctx context.Context, clubID string) (club.Club, bool, error) {
	query, args, err := qb.Select(qb.Columns(clubTableModel{})...).From("clubs").
		Where(qb.Eq("id", clubID)).
		ToSQL()
	if err != nil {
		return club.Club{}, false, fmt.Errorf("build get club query: %w", err)
	}

	var row clubTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return club.Club{}, false, nil
		}
		return club.Club{}, false, fmt.Errorf("get club: %w", err)
	}
	return row.toDomain(), true, nil
}

// ListBySeason returns the clubs linked to a season ordered by name.
func (r *ClubRepository) ListBySeason(ctx context.Context, seasonID string) ([]club.Club, error) {
	query, args, err := qb.Select("c.id", "c.name", "c.ea_id", "c.logo_url").
		From("clubs c JOIN club_seasons cs ON cs.club_id = c.id").
		Where(qb.Eq("cs.season_id", seasonID)).
		OrderBy("c.name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list season clubs query: %w", err)
	}

	var rows []clubTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list season clubs: %w", err)
	}

	out := make([]club.Club, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ClubRepository) UpdateEAID(ctx context.Context, clubID, eaID string) error {
	query, args, err := qb.Update("clubs").
		Set("ea_id", nullableString(eaID)).
		Set("updated_at", time.Now().UTC()).
		Where(qb.Eq("id", clubID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update club ea id query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update club ea id: %w", err)
	}
	return nil
}

func (m clubTableModel) toDomain() club.Club {
	return club.Club{
		ID:      m.ID,
		Name:    m.Name,
		EAID:    m.EAID.String,
		LogoURL: m.LogoURL,
	}
}
