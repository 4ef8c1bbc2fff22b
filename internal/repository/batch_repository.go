package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campusflow/course-select-api/internal/models"
)

// BatchRepository reads elective batch (enrollment round) records.
type BatchRepository struct {
	db *sqlx.DB
}

// NewBatchRepository constructs the repository.
func NewBatchRepository(db *sqlx.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// List returns all batches, most recent first.
func (r *BatchRepository) List(ctx context.Context) ([]models.ElectiveBatch, error) {
	const query = `SELECT batch_id, batch_name, round_name, start_time, end_time,
        selection_mode, selection_strategy, description
        FROM elective_batches ORDER BY start_time DESC`
	var batches []models.ElectiveBatch
	if err := r.db.SelectContext(ctx, &batches, query); err != nil {
		return nil, fmt.Errorf("list elective batches: %w", err)
	}
	return batches, nil
}

// FindByID returns one batch.
func (r *BatchRepository) FindByID(ctx context.Context, id int64) (*models.ElectiveBatch, error) {
	const query = `SELECT batch_id, batch_name, round_name, start_time, end_time,
        selection_mode, selection_strategy, description
        FROM elective_batches WHERE batch_id = $1`
	var batch models.ElectiveBatch
	if err := r.db.GetContext(ctx, &batch, query, id); err != nil {
		return nil, err
	}
	return &batch, nil
}
