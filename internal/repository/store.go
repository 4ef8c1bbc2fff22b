package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Postgres SQLSTATE codes that warrant a transaction retry.
const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// Store owns the database handle and runs enrollment transactions. All writes
// to the enrolled_count denormalization go through RunInTx; nothing else is
// allowed to touch it.
type Store struct {
	db      *sqlx.DB
	retries int
}

// NewStore constructs a Store. retries bounds re-execution of transactions
// that abort with a serialization failure.
func NewStore(db *sqlx.DB, retries int) *Store {
	if retries < 1 {
		retries = 1
	}
	return &Store{db: db, retries: retries}
}

// DB exposes the underlying handle for read-only repositories.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// RunInTx executes fn inside a REPEATABLE READ transaction. Concurrent
// enrollments against the same course either serialize on the row lock taken
// by fn or abort with SQLSTATE 40001, in which case the whole function is
// retried from scratch.
func (s *Store) RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	var lastErr error
	for attempt := 0; attempt < s.retries; attempt++ {
		tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		if err := fn(tx); err != nil {
			tx.Rollback() //nolint:errcheck
			if retryable(err) {
				lastErr = err
				continue
			}
			return err
		}
		if err := tx.Commit(); err != nil {
			if retryable(err) {
				lastErr = err
				continue
			}
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	}
	return fmt.Errorf("tx retries exhausted: %w", lastErr)
}

// retryable reports whether the error is a serialization failure or deadlock.
func retryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		return code == pqSerializationFailure || code == pqDeadlockDetected
	}
	return false
}
