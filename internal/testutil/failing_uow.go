package testutil

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/DaWei8/phasely/internal/db"
)

// FailWritesUoW is a test UoW whose transactions reject every ExecContext
// call with Err while reads pass through. It lets service tests check that a
// failed write leaves the stored plan untouched.
type FailWritesUoW struct {
	DB  *sql.DB
	Err error
}

func (u *FailWritesUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if fnErr := fn(ctx, &failWrites{DBTX: tx, err: u.Err}); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failWrites struct {
	db.DBTX
	err error
}

func (f *failWrites) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, f.err
}
