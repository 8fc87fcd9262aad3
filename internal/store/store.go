// Package store persists depgraph's project/build metadata and graph
// snapshots in Postgres, grounded on the teacher's internal/store — same
// pgxpool wrapper and hand-written-query style as its postgres/*_ext.go
// files, but without the sqlc-generated base layer those files
// supplemented (the retrieval pack never carried it, so this package
// writes its queries by hand throughout rather than half-adapting a
// generator output that isn't present).
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps a pgxpool.Pool with depgraph's project/build/graph queries.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// NewPool opens a pgxpool against dsn with the given bounds, verifying
// connectivity with a ping before returning.
func NewPool(ctx context.Context, dsn string, maxConns, minConns int32) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = maxConns
	poolCfg.MinConns = minConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// WithTx runs fn inside a transaction, rolling back unless fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Migrate creates depgraph's tables if they don't already exist. Idempotent,
// meant to run once at process startup rather than through a migration tool.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schemaSQL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS projects (
	id          uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	name        text NOT NULL,
	root_path   text NOT NULL,
	created_at  timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS builds (
	id           uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	project_id   uuid NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	status       text NOT NULL,
	error        text,
	file_count   int NOT NULL DEFAULT 0,
	symbol_count int NOT NULL DEFAULT 0,
	edge_count   int NOT NULL DEFAULT 0,
	graph_json   jsonb,
	started_at   timestamptz NOT NULL DEFAULT now(),
	finished_at  timestamptz
);

CREATE INDEX IF NOT EXISTS idx_builds_project_id ON builds(project_id);

CREATE TABLE IF NOT EXISTS symbol_embeddings (
	symbol_id   text NOT NULL,
	build_id    uuid NOT NULL REFERENCES builds(id) ON DELETE CASCADE,
	embedding   real[] NOT NULL,
	model       text NOT NULL,
	created_at  timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (build_id, symbol_id)
);
`
