package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the query surface repositories run against. *pgxpool.Pool,
// pgx.Tx and pgxmock pools all satisfy it.
type Database interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// TxDatabase additionally opens transactions. Used by repositories whose
// operations must commit as one unit.
type TxDatabase interface {
	Database
	Begin(ctx context.Context) (pgx.Tx, error)
}
