package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Ardidini12/XBHL/internal/domain/scheduler"
	qb "github.com/Ardidini12/XBHL/internal/platform/querybuilder"
)

type SchedulerConfigRepository struct {
	db *sqlx.DB
}

func NewSchedulerConfigRepository(db *sqlx.DB) *SchedulerConfigRepository {
	return &SchedulerConfigRepository{db: db}
}

func (r *SchedulerConfigRepository) GetBySeason(ctx context.Context, seasonID string) (scheduler.Config, bool, error) {
	query, args, err := qb.Select(qb.Columns(schedulerConfigTableModel{})...).From("scheduler_configs").
		Where(qb.Eq("season_id", seasonID)).
		ToSQL()
	if err != nil {
		return scheduler.Config{}, false, fmt.Errorf("build get scheduler config query: %w", err)
	}

	var row schedulerConfigTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return scheduler.Config{}, false, nil
		}
		return scheduler.Config{}, false, fmt.Errorf("get scheduler config: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *SchedulerConfigRepository) List(ctx context.Context) ([]scheduler.Config, error) {
	query, args, err := qb.Select(qb.Columns(schedulerConfigTableModel{})...).From("scheduler_configs").
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scheduler configs query: %w", err)
	}

	var rows []schedulerConfigTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list scheduler configs: %w", err)
	}

	out := make([]scheduler.Config, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Create inserts cfg; a second config for the same season yields
// scheduler.ErrConfigExists.
func (r *SchedulerConfigRepository) Create(ctx context.Context, cfg scheduler.Config) error {
	query, args, err := qb.InsertModel("scheduler_configs", newSchedulerConfigTableModel(cfg), "")
	if err != nil {
		return fmt.Errorf("build insert scheduler config query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return scheduler.ErrConfigExists
		}
		return fmt.Errorf("insert scheduler config: %w", err)
	}
	return nil
}

func (r *SchedulerConfigRepository) Update(ctx context.Context, cfg scheduler.Config) error {
	query, args, err := qb.Update("scheduler_configs").
		Set("days_of_week", intsToArray(cfg.DaysOfWeek)).
		Set("start_hour", cfg.StartHour).
		Set("end_hour", cfg.EndHour).
		Set("interval_minutes", cfg.IntervalMinutes).
		Set("interval_seconds", cfg.IntervalSeconds).
		Set("updated_at", cfg.UpdatedAt).
		Where(qb.Eq("season_id", cfg.SeasonID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update scheduler config query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update scheduler config: %w", err)
	}
	return nil
}

func (r *SchedulerConfigRepository) SetState(ctx context.Context, seasonID string, active, paused bool, at time.Time) error {
	query, args, err := qb.Update("scheduler_configs").
		Set("is_active", active).
		Set("is_paused", paused).
		Set("updated_at", at).
		Where(qb.Eq("season_id", seasonID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set scheduler state query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set scheduler state: %w", err)
	}
	return nil
}

// DeleteBySeason removes the config; its runs go with it by foreign key cascade.
func (r *SchedulerConfigRepository) DeleteBySeason(ctx context.Context, seasonID string) error {
	query, args, err := qb.DeleteFrom("scheduler_configs").
		Where(qb.Eq("season_id", seasonID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete scheduler config query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete scheduler config: %w", err)
	}
	return nil
}

func newSchedulerConfigTableModel(cfg scheduler.Config) schedulerConfigTableModel {
	return schedulerConfigTableModel{
		ID:              cfg.ID,
		SeasonID:        cfg.SeasonID,
		IsActive:        cfg.IsActive,
		IsPaused:        cfg.IsPaused,
		DaysOfWeek:      intsToArray(cfg.DaysOfWeek),
		StartHour:       cfg.StartHour,
		EndHour:         cfg.EndHour,
		IntervalMinutes: cfg.IntervalMinutes,
		IntervalSeconds: cfg.IntervalSeconds,
		CreatedAt:       cfg.CreatedAt,
		UpdatedAt:       cfg.UpdatedAt,
	}
}

func (m schedulerConfigTableModel) toDomain() scheduler.Config {
	return scheduler.Config{
		ID:              m.ID,
		SeasonID:        m.SeasonID,
		IsActive:        m.IsActive,
		IsPaused:        m.IsPaused,
		DaysOfWeek:      arrayToInts(m.DaysOfWeek),
		StartHour:       m.StartHour,
		EndHour:         m.EndHour,
		IntervalMinutes: m.IntervalMinutes,
		IntervalSeconds: m.IntervalSeconds,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
