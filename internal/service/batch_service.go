package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/campusflow/course-select-api/internal/models"
	appErrors "github.com/campusflow/course-select-api/pkg/errors"
)

type batchRepository interface {
	List(ctx context.Context) ([]models.ElectiveBatch, error)
	FindByID(ctx context.Context, id int64) (*models.ElectiveBatch, error)
}

// BatchService lists elective rounds with their derived status.
type BatchService struct {
	batches batchRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewBatchService constructs a BatchService.
func NewBatchService(batches batchRepository, logger *zap.Logger) *BatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{batches: batches, logger: logger, now: time.Now}
}

// List returns all elective batches, newest first, with status derived from
// the current time.
func (s *BatchService) List(ctx context.Context) ([]models.ElectiveBatch, error) {
	batches, err := s.batches.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list elective batches")
	}
	now := s.now().UTC()
	for i := range batches {
		batches[i].Status = batches[i].StatusAt(now)
	}
	return batches, nil
}

// Get returns one batch by id with its derived status.
func (s *BatchService) Get(ctx context.Context, id int64) (*models.ElectiveBatch, error) {
	batch, err := s.batches.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "elective batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load elective batch")
	}
	batch.Status = batch.StatusAt(s.now().UTC())
	return batch, nil
}
