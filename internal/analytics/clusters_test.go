package analytics

import (
	"testing"

	"github.com/depgraph-dev/depgraph/internal/graph"
	"github.com/depgraph-dev/depgraph/internal/parser"
	"github.com/depgraph-dev/depgraph/pkg/models"
)

func TestComputeClustersGroupsConnectedSymbols(t *testing.T) {
	b := graph.NewBuilder(nil)
	b.Add(&parser.ParsedFile{
		FilePath: "a.go",
		Symbols: []models.Symbol{
			{ID: "a1", Name: "One", Kind: models.SymbolKindFunction, FilePath: "a.go"},
			{ID: "a2", Name: "Two", Kind: models.SymbolKindFunction, FilePath: "a.go"},
			{ID: "a3", Name: "Three", Kind: models.SymbolKindFunction, FilePath: "a.go"},
		},
		Edges: []models.Edge{
			{Source: "a1", Target: "Two", Kind: models.EdgeKindCalls, FilePath: "a.go"},
			{Source: "a2", Target: "Three", Kind: models.EdgeKindCalls, FilePath: "a.go"},
		},
	})
	g := b.Build()

	assignment, sizes := ComputeClusters(g)

	if len(assignment) != 3 {
		t.Fatalf("assignment has %d entries, want 3", len(assignment))
	}
	c1 := assignment["a1"]
	if c1 == 0 {
		t.Fatalf("a1 expected to be in a cluster of size >= %d, got unclustered", clusterMinSize)
	}
	if assignment["a2"] != c1 || assignment["a3"] != c1 {
		t.Errorf("connected symbols should share a cluster: %+v", assignment)
	}
	if sizes[c1] != 3 {
		t.Errorf("cluster %d size = %d, want 3", c1, sizes[c1])
	}
}

func TestComputeClustersEmptyGraph(t *testing.T) {
	g := graph.NewBuilder(nil).Build()
	assignment, sizes := ComputeClusters(g)
	if len(assignment) != 0 || len(sizes) != 0 {
		t.Fatalf("expected empty results for an empty graph, got %+v / %+v", assignment, sizes)
	}
}
