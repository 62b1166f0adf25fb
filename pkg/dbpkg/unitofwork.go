package dbpkg

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// UnitOfWork is a single database transaction shared by every repository taking part in one
// workflow. The workflow commits it once; any error path rolls it back.
type UnitOfWork struct {
	tx   *sql.Tx
	done bool
}

// Begin starts a unit of work on conn.
//
// A positive lockTimeout bounds how long any statement of the unit waits for a row lock.
func Begin(ctx context.Context, conn *sql.DB, lockTimeout time.Duration) (*UnitOfWork, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	if lockTimeout > 0 {
		if _, err := tx.ExecContext(ctx, lockTimeoutStmt(lockTimeout)); err != nil {
			_ = tx.Rollback()
			return nil, err
		}
	}

	return &UnitOfWork{tx: tx}, nil
}

// lockTimeoutStmt rounds d up to whole milliseconds. Postgres reads 0 as no timeout.
func lockTimeoutStmt(d time.Duration) string {
	ms := int64((d + time.Millisecond - 1) / time.Millisecond)

	return fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", ms)
}

// Tx returns the query runner bound to the unit of work.
func (u *UnitOfWork) Tx() SQLInterface {
	return u.tx
}

// Commit commits the unit of work.
func (u *UnitOfWork) Commit() error {
	if u.done {
		return sql.ErrTxDone
	}

	u.done = true

	return u.tx.Commit()
}

// Rollback aborts the unit of work. It is a no-op once Commit or Rollback has been called,
// so it is safe to defer right after Begin.
func (u *UnitOfWork) Rollback() error {
	if u.done {
		return nil
	}

	u.done = true

	return u.tx.Rollback()
}
