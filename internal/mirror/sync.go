package mirror

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/depgraph-dev/depgraph/internal/graph"
	"github.com/depgraph-dev/depgraph/pkg/models"
)

const batchSize = 500

// SyncGraph projects g into Neo4j under buildID, replacing whatever was
// previously mirrored for that build. Safe to call repeatedly — every
// write is a MERGE keyed by the build's tag.
func (c *Client) SyncGraph(ctx context.Context, buildID string, g *graph.Graph) error {
	if err := c.ClearBuild(ctx, buildID); err != nil {
		return fmt.Errorf("clear previous mirror: %w", err)
	}
	if err := c.syncSymbols(ctx, buildID, g.Symbols()); err != nil {
		return err
	}
	return c.syncEdges(ctx, buildID, g.Edges())
}

func (c *Client) syncSymbols(ctx context.Context, buildID string, symbols []models.Symbol) error {
	session := c.Session(ctx)
	defer session.Close(ctx)

	for i := 0; i < len(symbols); i += batchSize {
		end := min(i+batchSize, len(symbols))
		batch := symbols[i:end]

		params := make([]map[string]any, len(batch))
		for j, sym := range batch {
			params[j] = map[string]any{
				"id":        sym.ID,
				"name":      sym.Name,
				"kind":      string(sym.Kind),
				"filePath":  sym.FilePath,
				"buildId":   buildID,
				"startLine": sym.StartLine,
				"endLine":   sym.EndLine,
				"exported":  sym.Exported,
			}
		}

		_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
			_, err := tx.Run(ctx, UpsertSymbolNode, map[string]any{"symbols": params})
			return struct{}{}, err
		})
		if err != nil {
			return fmt.Errorf("sync symbols batch %d: %w", i/batchSize, err)
		}
	}
	return nil
}

func (c *Client) syncEdges(ctx context.Context, buildID string, edges []models.Edge) error {
	session := c.Session(ctx)
	defer session.Close(ctx)

	for i := 0; i < len(edges); i += batchSize {
		end := min(i+batchSize, len(edges))
		batch := edges[i:end]

		params := make([]map[string]any, len(batch))
		for j, edge := range batch {
			params[j] = map[string]any{
				"sourceId": edge.Source,
				"targetId": edge.Target,
				"kind":     string(edge.Kind),
				"buildId":  buildID,
				"filePath": edge.FilePath,
				"line":     edge.Line,
			}
		}

		_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
			_, err := tx.Run(ctx, UpsertEdge, map[string]any{"edges": params})
			return struct{}{}, err
		})
		if err != nil {
			return fmt.Errorf("sync edges batch %d: %w", i/batchSize, err)
		}
	}
	return nil
}

// ClearBuild removes all mirrored graph data for one build.
func (c *Client) ClearBuild(ctx context.Context, buildID string) error {
	session := c.Session(ctx)
	defer session.Close(ctx)

	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, ClearBuildNodes, map[string]any{"buildId": buildID})
		return struct{}{}, err
	})
	return err
}
