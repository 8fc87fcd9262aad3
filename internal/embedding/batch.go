package embedding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/depgraph-dev/depgraph/internal/graph"
	"github.com/depgraph-dev/depgraph/internal/store"
	"github.com/depgraph-dev/depgraph/pkg/models"
)

// EmbedGraph generates and stores embeddings for every real symbol in g
// (the synthetic file-scope nodes are skipped — they anchor imports, not
// content worth ranking by semantic search). Returns the number embedded.
func EmbedGraph(ctx context.Context, client Embedder, s *store.Store, buildID uuid.UUID, g *graph.Graph, logger *slog.Logger) (int, error) {
	var symbols []models.Symbol
	for _, sym := range g.Symbols() {
		if sym.Kind == models.SymbolKindImport {
			continue
		}
		symbols = append(symbols, sym)
	}
	if len(symbols) == 0 {
		return 0, nil
	}

	logger.Info("embedding symbols", slog.Int("count", len(symbols)))

	texts := make([]string, len(symbols))
	for i, sym := range symbols {
		texts[i] = BuildEmbeddingText(sym)
	}

	embeddings, err := client.EmbedBatch(ctx, texts, "search_document")
	if err != nil {
		return 0, fmt.Errorf("embed batch: %w", err)
	}
	if len(embeddings) != len(symbols) {
		return 0, fmt.Errorf("embedding count mismatch: got %d, expected %d", len(embeddings), len(symbols))
	}

	ids := make([]string, len(symbols))
	for i, sym := range symbols {
		ids[i] = sym.ID
	}

	if err := s.UpsertSymbolEmbeddingsBatch(ctx, buildID, ids, embeddings, client.ModelID()); err != nil {
		return 0, fmt.Errorf("store embeddings: %w", err)
	}

	return len(symbols), nil
}
