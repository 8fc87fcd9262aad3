package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/depgraph-dev/depgraph/internal/query"
	"github.com/depgraph-dev/depgraph/internal/store"
	"github.com/google/uuid"
)

// ToolHandler is the interface every tool handler implements.
type ToolHandler[P any] interface {
	Handle(ctx context.Context, params P) (string, error)
}

// WrapHandler adapts a ToolHandler into the SDK's AddTool callback: nil
// params become a zero value, and a handler error becomes an IsError tool
// result instead of a protocol-level failure.
func WrapHandler[P any](h ToolHandler[P]) func(context.Context, *sdkmcp.CallToolRequest, *P) (*sdkmcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, params *P) (*sdkmcp.CallToolResult, any, error) {
		if params == nil {
			params = new(P)
		}
		result, err := h.Handle(ctx, *params)
		if err != nil {
			return &sdkmcp.CallToolResult{
				IsError: true,
				Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: err.Error()}},
			}, nil, nil
		}
		return &sdkmcp.CallToolResult{
			Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: result}},
		}, nil, nil
	}
}

// loadEngine parses buildID and loads its graph into a fresh query.Engine.
func loadEngine(ctx context.Context, s *store.Store, buildID string) (*query.Engine, error) {
	id, err := uuid.Parse(buildID)
	if err != nil {
		return nil, fmt.Errorf("invalid build_id %q: %w", buildID, err)
	}
	g, err := s.LoadGraph(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load build %s: %w", buildID, err)
	}
	return query.NewEngine(g), nil
}
