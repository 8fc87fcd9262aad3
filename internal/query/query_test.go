package query

import (
	"testing"

	"github.com/depgraph-dev/depgraph/internal/graph"
	"github.com/depgraph-dev/depgraph/internal/parser"
	"github.com/depgraph-dev/depgraph/pkg/models"
)

func buildTestGraph(t *testing.T) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder(nil)
	b.Add(&parser.ParsedFile{
		FilePath: "main.go",
		Symbols: []models.Symbol{
			{ID: "main.go::Main", Name: "Main", Kind: models.SymbolKindFunction, FilePath: "main.go", StartLine: 1, EndLine: 5},
		},
		Edges: []models.Edge{
			{Source: "main.go::Main", Target: "Helper", Kind: models.EdgeKindCalls, FilePath: "main.go", Line: 2},
		},
	})
	b.Add(&parser.ParsedFile{
		FilePath: "helper.go",
		Symbols: []models.Symbol{
			{ID: "helper.go::Helper", Name: "Helper", Kind: models.SymbolKindFunction, FilePath: "helper.go", StartLine: 1, EndLine: 3},
			models.NewFileScopeSymbol("orphan.go"),
		},
	})
	b.Add(&parser.ParsedFile{
		FilePath: "orphan.go",
		Symbols:  []models.Symbol{models.NewFileScopeSymbol("orphan.go")},
	})
	return b.Build()
}

func TestFindAndSearchSymbols(t *testing.T) {
	e := NewEngine(buildTestGraph(t))

	got := e.FindSymbols("Helper")
	if len(got) != 1 {
		t.Fatalf("FindSymbols(Helper) = %d results, want 1", len(got))
	}
	if got[0].DependentCount != 1 {
		t.Fatalf("FindSymbols(Helper) dependentCount = %d, want 1", got[0].DependentCount)
	}

	exact := e.FindSymbols("helper.go::Helper")
	if len(exact) != 1 || exact[0].Symbol.ID != "helper.go::Helper" {
		t.Fatalf("FindSymbols(helper.go::Helper) = %+v, want exact id match", exact)
	}

	if got := e.SearchSymbols("help"); len(got) != 1 {
		t.Fatalf("SearchSymbols(help) = %d results, want 1", len(got))
	}
}

func TestGetDependenciesAndDependents(t *testing.T) {
	e := NewEngine(buildTestGraph(t))

	deps := e.GetDependencies("main.go::Main")
	if len(deps) != 1 || deps[0].Target != "helper.go::Helper" {
		t.Fatalf("GetDependencies = %+v, want single edge to helper.go::Helper", deps)
	}

	dependents := e.GetDependents("helper.go::Helper")
	if len(dependents) != 1 || dependents[0].Source != "main.go::Main" {
		t.Fatalf("GetDependents = %+v, want single edge from main.go::Main", dependents)
	}
}

func TestGetCrossFileEdges(t *testing.T) {
	e := NewEngine(buildTestGraph(t))
	edges := e.GetCrossFileEdges()
	if len(edges) != 1 {
		t.Fatalf("GetCrossFileEdges() = %d edges, want 1", len(edges))
	}
}

func TestArchitectureSummaryFindsOrphan(t *testing.T) {
	e := NewEngine(buildTestGraph(t))
	summary := e.GetArchitectureSummary()

	if summary.FileCount != 3 {
		t.Fatalf("FileCount = %d, want 3", summary.FileCount)
	}
	if summary.OrphanFileCount != 1 || summary.OrphanFiles[0] != "orphan.go" {
		t.Fatalf("orphan files = %+v, want [orphan.go]", summary.OrphanFiles)
	}
	if len(summary.MostConnectedFiles) != 2 {
		t.Fatalf("MostConnectedFiles = %+v, want 2 non-orphan files", summary.MostConnectedFiles)
	}
	if summary.MostConnectedFiles[0].FilePath != "helper.go" && summary.MostConnectedFiles[0].FilePath != "main.go" {
		t.Fatalf("MostConnectedFiles[0] = %+v, want main.go or helper.go first", summary.MostConnectedFiles[0])
	}
}

func TestGetImpactDirectAndUnknown(t *testing.T) {
	e := NewEngine(buildTestGraph(t))

	result, err := e.GetImpact("helper.go::Helper", ChangeDelete, 0)
	if err != nil {
		t.Fatalf("GetImpact() error: %v", err)
	}
	if len(result.Direct) != 1 || result.Direct[0].Symbol.ID != "main.go::Main" {
		t.Fatalf("Direct impact = %+v, want [main.go::Main]", result.Direct)
	}
	if result.Direct[0].Severity != "critical" {
		t.Errorf("severity = %q, want critical for a deleted direct call target", result.Direct[0].Severity)
	}
	if len(result.Transitive) != 1 || result.Transitive[0].Symbol.ID != result.Direct[0].Symbol.ID {
		t.Fatalf("Transitive = %+v, want it to contain the same depth-1 node as Direct", result.Transitive)
	}
	if len(result.AffectedFiles) != 1 || result.AffectedFiles[0] != "main.go" {
		t.Fatalf("AffectedFiles = %+v, want [main.go]", result.AffectedFiles)
	}

	if _, err := e.GetImpact("nope", ChangeModify, 0); err == nil {
		t.Fatalf("GetImpact() with unknown id should error")
	}
}
