package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/depgraph-dev/depgraph/internal/mcp"
	"github.com/depgraph-dev/depgraph/internal/query"
	"github.com/depgraph-dev/depgraph/internal/store"
)

// GetImpactParams are the parameters for the get_impact tool.
type GetImpactParams struct {
	BuildID           string `json:"build_id"`
	SymbolID          string `json:"symbol_id"`
	ChangeType        string `json:"change_type,omitempty"` // "modify" or "delete"
	MaxDepth          int    `json:"max_depth,omitempty"`
	MaxResponseTokens int    `json:"max_response_tokens,omitempty"`
}

type GetImpactHandler struct {
	store  *store.Store
	logger *slog.Logger
}

func NewGetImpactHandler(s *store.Store, logger *slog.Logger) *GetImpactHandler {
	return &GetImpactHandler{store: s, logger: logger}
}

func (h *GetImpactHandler) Handle(ctx context.Context, params GetImpactParams) (string, error) {
	if params.SymbolID == "" {
		return "", fmt.Errorf("symbol_id is required")
	}
	engine, err := loadEngine(ctx, h.store, params.BuildID)
	if err != nil {
		return "", err
	}

	changeType := query.ChangeType(params.ChangeType)
	if changeType == "" {
		changeType = query.ChangeModify
	}

	result, err := engine.GetImpact(params.SymbolID, changeType, params.MaxDepth)
	if err != nil {
		return "", fmt.Errorf("get impact: %w", err)
	}

	rb := mcp.NewResponseBuilder(params.MaxResponseTokens)
	rb.AddHeader(fmt.Sprintf("**Impact of %s on %s** — %d affected symbol(s)",
		changeType, result.Root.Name, result.TotalAffected))

	shown := 0
	for _, node := range result.Direct {
		if !rb.AddLine(fmt.Sprintf("- [direct, %s] **%s** (%s) via %s — `%s:%d`",
			node.Severity, node.Symbol.Name, node.Symbol.Kind, node.EdgeKind, node.Symbol.FilePath, node.Symbol.StartLine)) {
			break
		}
		shown++
	}
	for _, node := range result.Transitive {
		if node.Depth == 1 {
			continue // already listed under Direct above
		}
		if !rb.AddLine(fmt.Sprintf("- [depth %d, %s] **%s** (%s) via %s — `%s:%d`",
			node.Depth, node.Severity, node.Symbol.Name, node.Symbol.Kind, node.EdgeKind, node.Symbol.FilePath, node.Symbol.StartLine)) {
			break
		}
		shown++
	}

	return rb.Finalize(result.TotalAffected), nil
}
