package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// SQLite reports SQLITE_BUSY when another connection, usually a concurrent
// `par doctor` or a test harness, holds the write lock past busy_timeout.
const (
	sqliteBusy   = 5
	busyAttempts = 5
	busyBackoff  = 10 * time.Millisecond
	busyCeiling  = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func busy(err error) bool {
	var coded interface{ Code() int }
	if errors.As(err, &coded) {
		return coded.Code()&0xff == sqliteBusy
	}
	return err != nil && (strings.Contains(err.Error(), "SQLITE_BUSY") || strings.Contains(err.Error(), "database is locked"))
}

// withBusyRetry runs op until it succeeds, fails with a non-busy error, or
// runs out of attempts. The wait doubles between attempts up to busyCeiling.
func withBusyRetry(ctx context.Context, op func() error) error {
	wait := busyBackoff
	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil || !busy(err) || attempt == busyAttempts {
			return err
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait = min(wait*2, busyCeiling)
	}
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return withBusyRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

// inTx runs fn in a transaction. A busy failure anywhere in the unit
// restarts the whole transaction.
func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	ctx = ensureContext(ctx)
	return withBusyRetry(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if err := fn(tx); err != nil {
			_ = tx.Rollback()
			return err
		}
		return tx.Commit()
	})
}
