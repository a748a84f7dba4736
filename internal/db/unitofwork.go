package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// UnitOfWork runs a callback inside one transaction. Repositories built on
// the callback's DBTX take part in it; any error or panic rolls back.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// DefaultBusyRetries is how many times a transaction that lost the write
// lock is run again. The dev server takes concurrent requests against one
// file, so two writers can collide.
const DefaultBusyRetries = 3

// SQLiteUnitOfWork implements UnitOfWork with database/sql transactions.
type SQLiteUnitOfWork struct {
	db          *sql.DB
	busyRetries int
	backoff     time.Duration
}

func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db, busyRetries: DefaultBusyRetries, backoff: 20 * time.Millisecond}
}

// WithBusyRetries sets how often a busy transaction is retried and the
// base wait between tries, which doubles each time.
func (u *SQLiteUnitOfWork) WithBusyRetries(n int, backoff time.Duration) *SQLiteUnitOfWork {
	u.busyRetries = n
	u.backoff = backoff
	return u
}

// WithinTx runs fn in a transaction. When fn or the commit fails because
// the database is locked, the whole transaction runs again; fn must not
// have side effects outside tx.
func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	wait := u.backoff
	for attempt := 0; ; attempt++ {
		err := u.runOnce(ctx, fn)
		if err == nil || !IsBusy(err) || attempt >= u.busyRetries {
			return err
		}
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(wait):
		}
		wait *= 2
	}
}

func (u *SQLiteUnitOfWork) runOnce(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// IsBusy reports whether err is SQLite refusing a write because another
// connection holds the lock.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
