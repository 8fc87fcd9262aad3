package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// embeddingsBatchSize bounds how many upserts are pipelined in a single
// pgx.Batch round-trip, matching the teacher's bulk-embedding batching.
const embeddingsBatchSize = 500

const upsertEmbeddingSQL = `
INSERT INTO symbol_embeddings (symbol_id, build_id, embedding, model)
VALUES ($1, $2, $3, $4)
ON CONFLICT (build_id, symbol_id) DO UPDATE SET embedding = $3, model = $4, created_at = now()
`

// UpsertSymbolEmbeddingsBatch bulk-upserts symbol embeddings for one build
// using pgx pipelined batches, same technique as the teacher's
// UpsertSymbolEmbeddingsBatch — one network round-trip per
// embeddingsBatchSize rows — adapted to depgraph's string symbol ids and
// plain []float32 vectors (pgvector-go isn't wired; embeddings are stored
// as a Postgres real[] column).
func (s *Store) UpsertSymbolEmbeddingsBatch(ctx context.Context, buildID uuid.UUID, symbolIDs []string, vectors [][]float32, model string) error {
	if len(symbolIDs) == 0 {
		return nil
	}
	if len(symbolIDs) != len(vectors) {
		return fmt.Errorf("symbol IDs and vectors length mismatch: %d vs %d", len(symbolIDs), len(vectors))
	}

	for start := 0; start < len(symbolIDs); start += embeddingsBatchSize {
		end := min(start+embeddingsBatchSize, len(symbolIDs))

		batch := &pgx.Batch{}
		for i := start; i < end; i++ {
			batch.Queue(upsertEmbeddingSQL, symbolIDs[i], buildID, vectors[i], model)
		}

		results := s.pool.SendBatch(ctx, batch)
		for i := start; i < end; i++ {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("upsert embedding %d: %w", i, err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("close batch results: %w", err)
		}
	}
	return nil
}

// SymbolEmbedding pairs a symbol id with its stored vector, as returned by
// ListEmbeddings. Nothing in depgraph ranks symbols by these vectors.
type SymbolEmbedding struct {
	SymbolID string
	Vector   []float32
}

// ListEmbeddings returns every embedding stored for a build.
func (s *Store) ListEmbeddings(ctx context.Context, buildID uuid.UUID) ([]SymbolEmbedding, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT symbol_id, embedding FROM symbol_embeddings WHERE build_id = $1`, buildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []SymbolEmbedding
	for rows.Next() {
		var e SymbolEmbedding
		if err := rows.Scan(&e.SymbolID, &e.Vector); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}
