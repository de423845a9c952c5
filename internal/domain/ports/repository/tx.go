package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

// TransactionManager executes a function within a database transaction,
// passing the underlying handle via `tx`.
//
// Repositories accept a nil tx for the non-transactional path; the concrete
// type of tx is infra-defined (pgx.Tx for Postgres). Keeping the interface
// this small keeps transaction types out of the use-case layer.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
