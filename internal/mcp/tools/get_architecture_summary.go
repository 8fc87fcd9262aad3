package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/depgraph-dev/depgraph/internal/analytics"
	"github.com/depgraph-dev/depgraph/internal/store"
)

var layerOrder = []analytics.Layer{
	analytics.LayerAPI,
	analytics.LayerBusiness,
	analytics.LayerData,
	analytics.LayerInfrastructure,
	analytics.LayerCrossCutting,
	analytics.LayerUnknown,
}

// GetArchitectureSummaryParams are the parameters for the
// get_architecture_summary tool.
type GetArchitectureSummaryParams struct {
	BuildID string `json:"build_id"`
}

type GetArchitectureSummaryHandler struct {
	store  *store.Store
	logger *slog.Logger
}

func NewGetArchitectureSummaryHandler(s *store.Store, logger *slog.Logger) *GetArchitectureSummaryHandler {
	return &GetArchitectureSummaryHandler{store: s, logger: logger}
}

func (h *GetArchitectureSummaryHandler) Handle(ctx context.Context, params GetArchitectureSummaryParams) (string, error) {
	engine, err := loadEngine(ctx, h.store, params.BuildID)
	if err != nil {
		return "", err
	}

	summary := engine.GetArchitectureSummary()

	var b strings.Builder
	fmt.Fprintf(&b, "**Architecture summary**\n\n")
	fmt.Fprintf(&b, "- Files: %d\n", summary.FileCount)
	fmt.Fprintf(&b, "- Symbols: %d\n", summary.SymbolCount)
	fmt.Fprintf(&b, "- Edges: %d\n", summary.EdgeCount)
	fmt.Fprintf(&b, "- Orphan files (no cross-file edges): %d\n", summary.OrphanFileCount)

	if len(summary.LayerCounts) > 0 {
		b.WriteString("\n**Layer distribution:**\n")
		for _, layer := range layerOrder {
			if n := summary.LayerCounts[layer]; n > 0 {
				fmt.Fprintf(&b, "- %s: %d\n", layer, n)
			}
		}
	}

	if len(summary.ClusterSizes) > 0 {
		fmt.Fprintf(&b, "\n**Module clusters:** %d (size >= 3)\n", len(summary.ClusterSizes))
	}

	if summary.OrphanFileCount > 0 {
		b.WriteString("\n**Orphan files:**\n")
		limit := 30
		for i, f := range summary.OrphanFiles {
			if i >= limit {
				fmt.Fprintf(&b, "- ... and %d more\n", summary.OrphanFileCount-limit)
				break
			}
			fmt.Fprintf(&b, "- `%s`\n", f)
		}
	}

	return b.String(), nil
}
