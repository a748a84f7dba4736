package db_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/being/internal/db"
)

func openUOW(t *testing.T) (*db.SQLiteUnitOfWork, *sql.DB) {
	t.Helper()
	database, err := db.OpenDB(":memory:", db.ClientSchema)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database), database
}

func pendingExists(t *testing.T, database *sql.DB, id string) bool {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM pending_sessions WHERE id = ?`, id).Scan(&n))
	return n == 1
}

func insertPending(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO pending_sessions (id, duration_seconds, recorded_at) VALUES (?, 60, '2024-02-01T07:00:00Z')`, id)
	return err
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow, database := openUOW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertPending(ctx, tx, "k1")
	})
	require.NoError(t, err)
	assert.True(t, pendingExists(t, database, "k1"))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow, database := openUOW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertPending(ctx, tx, "k2"); err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")
	assert.False(t, pendingExists(t, database, "k2"))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow, database := openUOW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertPending(ctx, tx, "k3")
			panic("boom")
		})
	})
	assert.False(t, pendingExists(t, database, "k3"))
}

func TestWithinTx_RetriesWhenBusy(t *testing.T) {
	uow, database := openUOW(t)
	uow.WithBusyRetries(2, time.Millisecond)

	calls := 0
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		calls++
		if err := insertPending(ctx, tx, "k4"); err != nil {
			return err
		}
		if calls == 1 {
			return errors.New("database is locked (5) (SQLITE_BUSY)")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.True(t, pendingExists(t, database, "k4"))
}

func TestWithinTx_GivesUpAfterBusyRetries(t *testing.T) {
	uow, database := openUOW(t)
	uow.WithBusyRetries(2, time.Millisecond)

	calls := 0
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		calls++
		_ = insertPending(ctx, tx, "k5")
		return errors.New("database is locked")
	})
	assert.True(t, db.IsBusy(err))
	assert.Equal(t, 3, calls)
	assert.False(t, pendingExists(t, database, "k5"))
}

func TestWithinTx_OtherErrorsAreNotRetried(t *testing.T) {
	uow, _ := openUOW(t)

	calls := 0
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		calls++
		return errors.New("UNIQUE constraint failed: users.email")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestIsBusy(t *testing.T) {
	assert.False(t, db.IsBusy(nil))
	assert.True(t, db.IsBusy(fmt.Errorf("committing transaction: %w", errors.New("database is locked (5) (SQLITE_BUSY)"))))
	assert.False(t, db.IsBusy(errors.New("no such table: users")))
}
