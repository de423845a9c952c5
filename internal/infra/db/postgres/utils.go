package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"apostila-generator/internal/domain/ports/repository"
)

// execSQL runs a statement against the tx when present, the pool otherwise.
func execSQL(ctx context.Context, pool *pgxpool.Pool, tx repository.Tx, sql string, args ...interface{}) error {
	ex, err := getExecutor(pool, tx)
	if err != nil {
		return err
	}
	_, err = ex.Exec(ctx, sql, args...)
	return err
}

// pickRow is the QueryRow counterpart of execSQL. Executor resolution errors
// surface on Scan via errRow.
func pickRow(ctx context.Context, pool *pgxpool.Pool, tx repository.Tx, sql string, args ...interface{}) pgx.Row {
	ex, err := getExecutor(pool, tx)
	if err != nil {
		return errRow{err}
	}
	return ex.QueryRow(ctx, sql, args...)
}

type errRow struct{ err error }

func (r errRow) Scan(...interface{}) error { return r.err }
