package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/depgraph-dev/depgraph/internal/store"
)

// GetDependentsParams are the parameters for the get_dependents tool.
type GetDependentsParams struct {
	BuildID           string `json:"build_id"`
	SymbolID          string `json:"symbol_id"`
	MaxResponseTokens int    `json:"max_response_tokens,omitempty"`
}

type GetDependentsHandler struct {
	store  *store.Store
	logger *slog.Logger
}

func NewGetDependentsHandler(s *store.Store, logger *slog.Logger) *GetDependentsHandler {
	return &GetDependentsHandler{store: s, logger: logger}
}

func (h *GetDependentsHandler) Handle(ctx context.Context, params GetDependentsParams) (string, error) {
	if params.SymbolID == "" {
		return "", fmt.Errorf("symbol_id is required")
	}
	engine, err := loadEngine(ctx, h.store, params.BuildID)
	if err != nil {
		return "", err
	}
	return renderEdges(engine, params.SymbolID, engine.GetDependents(params.SymbolID), params.MaxResponseTokens, "is depended on by")
}
