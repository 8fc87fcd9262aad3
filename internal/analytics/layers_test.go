package analytics

import (
	"testing"

	"github.com/depgraph-dev/depgraph/internal/graph"
	"github.com/depgraph-dev/depgraph/internal/parser"
	"github.com/depgraph-dev/depgraph/pkg/models"
)

func TestClassifyLayersByPath(t *testing.T) {
	b := graph.NewBuilder(nil)
	b.Add(&parser.ParsedFile{
		FilePath: "internal/repository/user.go",
		Symbols: []models.Symbol{
			{ID: "a", Name: "Find", Kind: models.SymbolKindFunction, FilePath: "internal/repository/user.go"},
		},
	})
	b.Add(&parser.ParsedFile{
		FilePath: "internal/handler/user.go",
		Symbols: []models.Symbol{
			{ID: "b", Name: "Serve", Kind: models.SymbolKindFunction, FilePath: "internal/handler/user.go"},
		},
	})
	g := b.Build()

	assignments, counts := ClassifyLayers(g)

	if assignments["a"] != LayerData {
		t.Errorf("repository symbol classified as %q, want %q", assignments["a"], LayerData)
	}
	if assignments["b"] != LayerAPI {
		t.Errorf("handler symbol classified as %q, want %q", assignments["b"], LayerAPI)
	}
	if counts[LayerData] != 1 || counts[LayerAPI] != 1 {
		t.Errorf("counts = %+v, want one data and one api", counts)
	}
}
