package resolver

import (
	"testing"

	"github.com/depgraph-dev/depgraph/pkg/models"
)

func sym(id, name, file string) models.Symbol {
	return models.Symbol{ID: id, Name: name, FilePath: file, Kind: models.SymbolKindFunction}
}

func TestResolveLocalFileScopeWins(t *testing.T) {
	symbols := []models.Symbol{
		sym("a.go::Helper", "Helper", "a.go"),
		sym("b.go::Helper", "Helper", "b.go"),
	}
	table := NewTable(symbols)

	edge := models.Edge{Source: "a.go::Main", Target: "Helper", Kind: models.EdgeKindCalls, FilePath: "a.go"}
	got, ok := table.Resolve(edge)
	if !ok || got != "a.go::Helper" {
		t.Fatalf("Resolve() = (%q, %v), want (a.go::Helper, true)", got, ok)
	}
}

func TestResolveUnambiguousShortName(t *testing.T) {
	symbols := []models.Symbol{sym("pkg.go::Fetch", "Fetch", "pkg.go")}
	table := NewTable(symbols)

	edge := models.Edge{Source: "caller.go::Main", Target: "Fetch", Kind: models.EdgeKindCalls, FilePath: "caller.go"}
	got, ok := table.Resolve(edge)
	if !ok || got != "pkg.go::Fetch" {
		t.Fatalf("Resolve() = (%q, %v), want (pkg.go::Fetch, true)", got, ok)
	}
}

func TestResolveAmbiguousShortNameUnresolved(t *testing.T) {
	symbols := []models.Symbol{
		sym("a.go::Run", "Run", "a.go"),
		sym("b.go::Run", "Run", "b.go"),
	}
	table := NewTable(symbols)

	edge := models.Edge{Source: "c.go::Main", Target: "Run", Kind: models.EdgeKindCalls, FilePath: "c.go"}
	if _, ok := table.Resolve(edge); ok {
		t.Fatalf("Resolve() should not disambiguate between two files declaring Run")
	}
}

func TestResolveAllDropsUnresolvedCallsButKeepsImports(t *testing.T) {
	symbols := []models.Symbol{sym("a.go::Known", "Known", "a.go")}
	table := NewTable(symbols)

	edges := []models.Edge{
		{Source: "a.go::X", Target: "Known", Kind: models.EdgeKindCalls, FilePath: "a.go"},
		{Source: "a.go::X", Target: "nonexistent", Kind: models.EdgeKindCalls, FilePath: "a.go"},
		{Source: models.FileScopeID("a.go"), Target: "some/external/pkg", Kind: models.EdgeKindImports, FilePath: "a.go"},
	}

	got := ResolveAll(table, edges)
	if len(got) != 2 {
		t.Fatalf("ResolveAll() returned %d edges, want 2", len(got))
	}
	if got[0].Target != "a.go::Known" {
		t.Errorf("resolved calls edge target = %q, want a.go::Known", got[0].Target)
	}
	if got[1].Kind != models.EdgeKindImports || got[1].Target != "some/external/pkg" {
		t.Errorf("imports edge should pass through unresolved, got %+v", got[1])
	}
}
