package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/depgraph-dev/depgraph/internal/mcp"
	"github.com/depgraph-dev/depgraph/internal/store"
)

// SearchSymbolsParams are the parameters for the search_symbols tool.
type SearchSymbolsParams struct {
	BuildID           string `json:"build_id"`
	Query             string `json:"query"`
	Exact             bool   `json:"exact,omitempty"`
	Limit             int    `json:"limit,omitempty"`
	MaxResponseTokens int    `json:"max_response_tokens,omitempty"`
}

type SearchSymbolsHandler struct {
	store  *store.Store
	logger *slog.Logger
}

func NewSearchSymbolsHandler(s *store.Store, logger *slog.Logger) *SearchSymbolsHandler {
	return &SearchSymbolsHandler{store: s, logger: logger}
}

func (h *SearchSymbolsHandler) Handle(ctx context.Context, params SearchSymbolsParams) (string, error) {
	if params.Query == "" {
		return "", fmt.Errorf("query is required")
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}

	engine, err := loadEngine(ctx, h.store, params.BuildID)
	if err != nil {
		return "", err
	}

	if params.Exact {
		matches := engine.FindSymbols(params.Query)
		if len(matches) == 0 {
			return fmt.Sprintf("No symbols found matching '%s'.", params.Query), nil
		}

		rb := mcp.NewResponseBuilder(params.MaxResponseTokens)
		rb.AddHeader(fmt.Sprintf("**Search results for: %s** (%d matches)", params.Query, len(matches)))

		for i, m := range matches {
			if i >= params.Limit {
				break
			}
			if !rb.AddSymbolMatchCard(m.Symbol, m.DependentCount) {
				break
			}
		}
		return rb.Finalize(len(matches)), nil
	}

	results := engine.SearchSymbols(params.Query)
	if len(results) == 0 {
		return fmt.Sprintf("No symbols found matching '%s'.", params.Query), nil
	}

	rb := mcp.NewResponseBuilder(params.MaxResponseTokens)
	rb.AddHeader(fmt.Sprintf("**Search results for: %s** (%d matches)", params.Query, len(results)))

	for i, sym := range results {
		if i >= params.Limit {
			break
		}
		if !rb.AddSymbolCard(sym) {
			break
		}
	}

	return rb.Finalize(len(results)), nil
}
