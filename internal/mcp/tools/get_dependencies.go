package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/depgraph-dev/depgraph/internal/mcp"
	"github.com/depgraph-dev/depgraph/internal/query"
	"github.com/depgraph-dev/depgraph/internal/store"
	"github.com/depgraph-dev/depgraph/pkg/models"
)

// GetDependenciesParams are the parameters for the get_dependencies tool.
type GetDependenciesParams struct {
	BuildID           string `json:"build_id"`
	SymbolID          string `json:"symbol_id"`
	MaxResponseTokens int    `json:"max_response_tokens,omitempty"`
}

type GetDependenciesHandler struct {
	store  *store.Store
	logger *slog.Logger
}

func NewGetDependenciesHandler(s *store.Store, logger *slog.Logger) *GetDependenciesHandler {
	return &GetDependenciesHandler{store: s, logger: logger}
}

func (h *GetDependenciesHandler) Handle(ctx context.Context, params GetDependenciesParams) (string, error) {
	if params.SymbolID == "" {
		return "", fmt.Errorf("symbol_id is required")
	}
	engine, err := loadEngine(ctx, h.store, params.BuildID)
	if err != nil {
		return "", err
	}
	return renderEdges(engine, params.SymbolID, engine.GetDependencies(params.SymbolID), params.MaxResponseTokens, "depends on")
}

// renderEdges renders edges whose "other" endpoint is the edge target
// (dependencies) or the edge source (dependents), selected by which of
// source/target equals symbolID.
func renderEdges(engine *query.Engine, symbolID string, edges []models.Edge, maxTokens int, verb string) (string, error) {
	if len(edges) == 0 {
		return fmt.Sprintf("%s has no %s.", symbolID, verb), nil
	}

	rb := mcp.NewResponseBuilder(maxTokens)
	rb.AddHeader(fmt.Sprintf("**%s** %s (%d edges)", symbolID, verb, len(edges)))

	for _, edge := range edges {
		otherID := edge.Target
		if otherID == symbolID {
			otherID = edge.Source
		}
		other, ok := engine.Symbol(otherID)
		if !ok {
			continue
		}
		if !rb.AddEdgeLine(edge, other) {
			break
		}
	}

	return rb.Finalize(len(edges)), nil
}
