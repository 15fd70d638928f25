package database

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&pq.Error{Code: "40001"}))
	assert.True(t, IsRetryable(&pq.Error{Code: "40P01"}))
	assert.False(t, IsRetryable(&pq.Error{Code: "23505"}))
	assert.True(t, IsRetryable(errors.New("database is locked (5) (SQLITE_BUSY)")))
	assert.False(t, IsRetryable(errors.New("boom")))
	assert.False(t, IsRetryable(nil))
}

func TestRetryStopsOnSuccess(t *testing.T) {
	calls := 0
	retried := 0
	err := Retry(context.Background(), RetryPolicy{
		MaxAttempts: 5,
		Backoff:     time.Millisecond,
		OnRetry:     func(int, error) { retried++ },
	}, func(context.Context) error {
		calls++
		if calls < 3 {
			return &pq.Error{Code: "40001"}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, retried)
}

func TestRetryExhausted(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond}, func(context.Context) error {
		calls++
		return &pq.Error{Code: "40P01"}
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 3, calls)
}

func TestRetryDoesNotRetryPermanentErrors(t *testing.T) {
	permanent := errors.New("constraint violated")
	calls := 0
	err := Retry(context.Background(), RetryPolicy{MaxAttempts: 3}, func(context.Context) error {
		calls++
		return permanent
	})
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestInTxRollsBackOnError(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	db := sqlx.NewDb(raw, "sqlmock")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE inventory").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err = InTx(context.Background(), db, func(tx *sqlx.Tx) error {
		_, err := tx.Exec("UPDATE inventory SET quantity = 1")
		return err
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInTxCommits(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	db := sqlx.NewDb(raw, "sqlmock")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE inventory").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, InTx(context.Background(), db, func(tx *sqlx.Tx) error {
		_, err := tx.Exec("UPDATE inventory SET quantity = 1")
		return err
	}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newMigratedDB(t)
	require.NoError(t, Migrate(db))

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM camp_requests"))
	assert.Zero(t, count)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "40001"}))
	assert.False(t, IsUniqueViolation(nil))

	db := newMigratedDB(t)
	_, err := db.Exec("INSERT INTO id_counters (name, value) VALUES ('CAMP', 1)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO id_counters (name, value) VALUES ('CAMP', 2)")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func newMigratedDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(db))
	return db
}
