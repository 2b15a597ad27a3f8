package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Ardidini12/XBHL/internal/domain/scheduler"
	qb "github.com/Ardidini12/XBHL/internal/platform/querybuilder"
)

type SchedulerRunRepository struct {
	db *sqlx.DB
}

func NewSchedulerRunRepository(db *sqlx.DB) *SchedulerRunRepository {
	return &SchedulerRunRepository{db: db}
}

func (r *SchedulerRunRepository) Create(ctx context.Context, run scheduler.Run) error {
	query, args, err := qb.InsertModel("scheduler_runs", newSchedulerRunTableModel(run), "")
	if err != nil {
		return fmt.Errorf("build insert scheduler run query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert scheduler run: %w", err)
	}
	return nil
}

func (r *SchedulerRunRepository) Finish(ctx context.Context, run scheduler.Run) (bool, error) {
	query, args, err := qb.Update("scheduler_runs").
		Set("finished_at", run.FinishedAt).
		Set("status", string(run.Status)).
		Set("matches_fetched", run.MatchesFetched).
		Set("matches_new", run.MatchesNew).
		Set("error_message", run.ErrorMessage).
		Where(
			qb.Eq("id", run.ID),
			qb.Eq("status", string(scheduler.RunStatusRunning)),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build finish scheduler run query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("finish scheduler run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("finish scheduler run rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *SchedulerRunRepository) ListByConfig(ctx context.Context, configID string, offset, limit int) ([]scheduler.Run, error) {
	query, args, err := qb.Select(qb.Columns(schedulerRunTableModel{})...).From("scheduler_runs").
		Where(qb.Eq("scheduler_config_id", configID)).
		OrderBy("started_at DESC", "id DESC").
		Limit(limit).
		Offset(offset).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scheduler runs query: %w", err)
	}

	var rows []schedulerRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list scheduler runs: %w", err)
	}

	out := make([]scheduler.Run, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *SchedulerRunRepository) CountByConfig(ctx context.Context, configID string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("scheduler_runs").
		Where(qb.Eq("scheduler_config_id", configID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count scheduler runs query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count scheduler runs: %w", err)
	}
	return count, nil
}

func (r *SchedulerRunRepository) LatestByConfig(ctx context.Context, configID string) (scheduler.Run, bool, error) {
	runs, err := r.ListByConfig(ctx, configID, 0, 1)
	if err != nil {
		return scheduler.Run{}, false, err
	}
	if len(runs) == 0 {
		return scheduler.Run{}, false, nil
	}
	return runs[0], true, nil
}

func (r *SchedulerRunRepository) FailRunning(ctx context.Context, message string, at time.Time) (int, error) {
	query, args, err := qb.Update("scheduler_runs").
		Set("status", string(scheduler.RunStatusFailed)).
		Set("error_message", message).
		Set("finished_at", at).
		Where(qb.Eq("status", string(scheduler.RunStatusRunning))).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build fail running runs query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("fail running runs: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("fail running runs rows affected: %w", err)
	}
	return int(affected), nil
}

func (r *SchedulerRunRepository) Prune(ctx context.Context, configID string, keep int) (int, error) {
	query, args, err := pruneRunsQuery(configID, keep)
	if err != nil {
		return 0, fmt.Errorf("build prune scheduler runs query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune scheduler runs: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune scheduler runs rows affected: %w", err)
	}
	return int(affected), nil
}

func pruneRunsQuery(configID string, keep int) (string, []any, error) {
	return qb.DeleteFrom("scheduler_runs").
		Where(
			qb.Eq("scheduler_config_id", configID),
			qb.Expr("id NOT IN (SELECT id FROM scheduler_runs WHERE scheduler_config_id = ? ORDER BY started_at DESC, id DESC LIMIT ?)", configID, keep),
		).
		ToSQL()
}

func newSchedulerRunTableModel(run scheduler.Run) schedulerRunTableModel {
	return schedulerRunTableModel{
		ID:             run.ID,
		ConfigID:       run.ConfigID,
		SeasonID:       run.SeasonID,
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
		Status:         string(run.Status),
		MatchesFetched: run.MatchesFetched,
		MatchesNew:     run.MatchesNew,
		ErrorMessage:   run.ErrorMessage,
	}
}

func (m schedulerRunTableModel) toDomain() scheduler.Run {
	return scheduler.Run{
		ID:             m.ID,
		ConfigID:       m.ConfigID,
		SeasonID:       m.SeasonID,
		StartedAt:      m.StartedAt,
		FinishedAt:     m.FinishedAt,
		Status:         scheduler.RunStatus(m.Status),
		MatchesFetched: m.MatchesFetched,
		MatchesNew:     m.MatchesNew,
		ErrorMessage:   m.ErrorMessage,
	}
}
