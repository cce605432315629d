package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"assessmate.app/casenote/internal/model"
)

const createLLMUsageTable = `
CREATE TABLE IF NOT EXISTS llm_usage (
	id          BIGINT PRIMARY KEY,
	operation   TEXT NOT NULL,
	provider    TEXT NOT NULL,
	model       TEXT NOT NULL,
	status      TEXT NOT NULL,
	duration_ms BIGINT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const insertLLMUsage = `
INSERT INTO llm_usage (id, operation, provider, model, status, duration_ms, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const listRecentLLMUsage = `
SELECT id, operation, provider, model, status, duration_ms, created_at
FROM llm_usage
ORDER BY created_at DESC
LIMIT $1`

type llmUsageStore struct {
	db DBTX
}

func newLLMUsageStore(db DBTX) LLMUsageStore {
	return &llmUsageStore{db: db}
}

func (s *llmUsageStore) Create(ctx context.Context, usage *model.LLMUsage) error {
	if usage.CreatedAt.IsZero() {
		usage.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(ctx, insertLLMUsage,
		usage.ID,
		usage.Operation,
		usage.Provider,
		usage.Model,
		usage.Status,
		usage.DurationMs,
		usage.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting llm usage: %w", err)
	}
	return nil
}

func (s *llmUsageStore) ListRecent(ctx context.Context, limit int32) ([]model.LLMUsage, error) {
	rows, err := s.db.Query(ctx, listRecentLLMUsage, limit)
	if err != nil {
		return nil, fmt.Errorf("listing llm usage: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.LLMUsage, error) {
		var u model.LLMUsage
		err := row.Scan(&u.ID, &u.Operation, &u.Provider, &u.Model, &u.Status, &u.DurationMs, &u.CreatedAt)
		return u, err
	})
}

// EnsureSchema creates the llm_usage table if it does not exist.
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, createLLMUsageTable); err != nil {
		return fmt.Errorf("creating llm_usage table: %w", err)
	}
	return nil
}

// discardUsageStore is used when no database is configured.
type discardUsageStore struct{}

func (discardUsageStore) Create(context.Context, *model.LLMUsage) error {
	return nil
}

func (discardUsageStore) ListRecent(context.Context, int32) ([]model.LLMUsage, error) {
	return nil, nil
}
