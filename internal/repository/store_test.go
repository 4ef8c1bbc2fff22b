package repository

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRunInTxCommits(t *testing.T) {
	db, mock, cleanup := newStoreMock(t)
	defer cleanup()
	store := NewStore(db, 3)

	mock.ExpectBegin()
	mock.ExpectCommit()

	calls := 0
	err := store.RunInTx(context.Background(), func(tx *sqlx.Tx) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newStoreMock(t)
	defer cleanup()
	store := NewStore(db, 3)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := store.RunInTx(context.Background(), func(tx *sqlx.Tx) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTxRetriesSerializationFailure(t *testing.T) {
	db, mock, cleanup := newStoreMock(t)
	defer cleanup()
	store := NewStore(db, 3)

	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	calls := 0
	err := store.RunInTx(context.Background(), func(tx *sqlx.Tx) error {
		calls++
		if calls == 1 {
			return &pq.Error{Code: "40001"}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTxExhaustsRetries(t *testing.T) {
	db, mock, cleanup := newStoreMock(t)
	defer cleanup()
	store := NewStore(db, 2)

	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := store.RunInTx(context.Background(), func(tx *sqlx.Tx) error {
		return &pq.Error{Code: "40P01"}
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tx retries exhausted")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTxDoesNotRetryPlainErrors(t *testing.T) {
	db, mock, cleanup := newStoreMock(t)
	defer cleanup()
	store := NewStore(db, 5)

	mock.ExpectBegin()
	mock.ExpectRollback()

	calls := 0
	err := store.RunInTx(context.Background(), func(tx *sqlx.Tx) error {
		calls++
		return errors.New("constraint violation")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}
