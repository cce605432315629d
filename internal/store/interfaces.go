package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"assessmate.app/casenote/internal/model"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type LLMUsageStore interface {
	Create(ctx context.Context, usage *model.LLMUsage) error
	ListRecent(ctx context.Context, limit int32) ([]model.LLMUsage, error)
}
