package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/covatech/replengo/internal/domain"
)

// RunRepository persists pipeline run bookkeeping.
type RunRepository struct {
	db *DB
}

func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) CreateRun(ctx context.Context, run *domain.PipelineRun) error {
	query := `
		INSERT INTO pipeline_runs (reference_date, status, total_articles, started_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	err := r.db.QueryRowContext(ctx, query,
		run.ReferenceDate, run.Status, run.TotalArticles, run.StartedAt,
	).Scan(&run.ID)
	if err != nil {
		return fmt.Errorf("failed to create pipeline run: %w", err)
	}
	return nil
}

func (r *RunRepository) CompleteRun(ctx context.Context, run *domain.PipelineRun) error {
	query := `
		UPDATE pipeline_runs
		SET status = $1, total_articles = $2, completed_at = $3, error_message = $4
		WHERE id = $5`

	now := time.Now()
	run.CompletedAt = &now

	if _, err := r.db.ExecContext(ctx, query,
		run.Status, run.TotalArticles, run.CompletedAt, run.ErrorMessage, run.ID,
	); err != nil {
		return fmt.Errorf("failed to complete pipeline run: %w", err)
	}
	return nil
}
