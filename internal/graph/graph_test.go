package graph

import (
	"testing"

	"github.com/depgraph-dev/depgraph/internal/parser"
	"github.com/depgraph-dev/depgraph/pkg/models"
)

func sym(id, name, file string, kind models.SymbolKind) models.Symbol {
	return models.Symbol{ID: id, Name: name, FilePath: file, Kind: kind, StartLine: 1, EndLine: 1}
}

func TestBuildResolvesCrossFileEdge(t *testing.T) {
	b := NewBuilder(nil)
	b.Add(&parser.ParsedFile{
		FilePath: "a.go",
		Symbols:  []models.Symbol{sym("a.go::Main", "Main", "a.go", models.SymbolKindFunction)},
		Edges: []models.Edge{
			{Source: "a.go::Main", Target: "Helper", Kind: models.EdgeKindCalls, FilePath: "a.go", Line: 3},
		},
	})
	b.Add(&parser.ParsedFile{
		FilePath: "b.go",
		Symbols:  []models.Symbol{sym("b.go::Helper", "Helper", "b.go", models.SymbolKindFunction)},
	})

	g := b.Build()

	if g.SymbolCount() != 2 {
		t.Fatalf("SymbolCount() = %d, want 2", g.SymbolCount())
	}
	out := g.OutEdges("a.go::Main")
	if len(out) != 1 || out[0].Target != "b.go::Helper" {
		t.Fatalf("OutEdges(a.go::Main) = %+v, want single edge to b.go::Helper", out)
	}
	in := g.InEdges("b.go::Helper")
	if len(in) != 1 {
		t.Fatalf("InEdges(b.go::Helper) = %+v, want 1 edge", in)
	}
}

func TestBuildDropsUnresolvedEdge(t *testing.T) {
	b := NewBuilder(nil)
	b.Add(&parser.ParsedFile{
		FilePath: "a.go",
		Symbols:  []models.Symbol{sym("a.go::Main", "Main", "a.go", models.SymbolKindFunction)},
		Edges: []models.Edge{
			{Source: "a.go::Main", Target: "NeverDeclared", Kind: models.EdgeKindCalls, FilePath: "a.go"},
		},
	})

	g := b.Build()
	if g.EdgeCount() != 0 {
		t.Fatalf("EdgeCount() = %d, want 0 (unresolved edge should be dropped)", g.EdgeCount())
	}
}

func TestBuildDropsDanglingImportEdge(t *testing.T) {
	b := NewBuilder(nil)
	b.Add(&parser.ParsedFile{
		FilePath: "a.go",
		Symbols:  []models.Symbol{models.NewFileScopeSymbol("a.go")},
		Edges: []models.Edge{
			// The candidate names no file the builder knows about (no
			// "external/pkg.go" was ever added), so it must be dropped
			// rather than committed with a dangling target.
			{Source: models.FileScopeID("a.go"), Target: models.FileScopeID("external/pkg.go"), Kind: models.EdgeKindImports, FilePath: "a.go"},
		},
	})

	g := b.Build()
	if g.EdgeCount() != 0 {
		t.Fatalf("EdgeCount() = %d, want 0 (import edge to an unknown file must be dropped)", g.EdgeCount())
	}
}

func TestBuildKeepsImportEdgeToKnownFile(t *testing.T) {
	b := NewBuilder(nil)
	b.Add(&parser.ParsedFile{
		FilePath: "b.go",
		Symbols:  []models.Symbol{models.NewFileScopeSymbol("b.go")},
		Edges: []models.Edge{
			{Source: models.FileScopeID("b.go"), Target: models.FileScopeID("a.go"), Kind: models.EdgeKindImports, FilePath: "b.go"},
		},
	})
	b.Add(&parser.ParsedFile{
		FilePath: "a.go",
		Symbols:  []models.Symbol{models.NewFileScopeSymbol("a.go")},
	})

	g := b.Build()
	out := g.OutEdges(models.FileScopeID("b.go"))
	if len(out) != 1 || out[0].Target != models.FileScopeID("a.go") {
		t.Fatalf("OutEdges(b.go::__file__) = %+v, want single imports edge to a.go::__file__", out)
	}
}

func TestBuildCoalescesDuplicateEdges(t *testing.T) {
	b := NewBuilder(nil)
	b.Add(&parser.ParsedFile{
		FilePath: "a.go",
		Symbols: []models.Symbol{
			sym("a.go::Main", "Main", "a.go", models.SymbolKindFunction),
			sym("a.go::Helper", "Helper", "a.go", models.SymbolKindFunction),
		},
		Edges: []models.Edge{
			{Source: "a.go::Main", Target: "Helper", Kind: models.EdgeKindCalls, FilePath: "a.go", Line: 3},
			{Source: "a.go::Main", Target: "Helper", Kind: models.EdgeKindCalls, FilePath: "a.go", Line: 7},
		},
	})

	g := b.Build()
	if g.EdgeCount() != 1 {
		t.Fatalf("EdgeCount() = %d, want 1 (same source/target/kind triple coalesces)", g.EdgeCount())
	}
}

func TestUpdaterReplacesFileAtomically(t *testing.T) {
	u := NewUpdater(nil)
	g := u.Seed([]*parser.ParsedFile{
		{FilePath: "a.go", Symbols: []models.Symbol{sym("a.go::Old", "Old", "a.go", models.SymbolKindFunction)}},
	})
	if _, ok := g.Symbol("a.go::Old"); !ok {
		t.Fatalf("seed graph missing a.go::Old")
	}

	g2 := u.Update(&parser.ParsedFile{
		FilePath: "a.go",
		Symbols:  []models.Symbol{sym("a.go::New", "New", "a.go", models.SymbolKindFunction)},
	})
	if _, ok := g2.Symbol("a.go::Old"); ok {
		t.Fatalf("updated graph should drop a.go::Old entirely")
	}
	if _, ok := g2.Symbol("a.go::New"); !ok {
		t.Fatalf("updated graph missing a.go::New")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	b := NewBuilder(nil)
	b.Add(&parser.ParsedFile{
		FilePath: "a.go",
		Symbols: []models.Symbol{
			sym("a.go::Main", "Main", "a.go", models.SymbolKindFunction),
			sym("a.go::Helper", "Helper", "a.go", models.SymbolKindFunction),
		},
		Edges: []models.Edge{
			{Source: "a.go::Main", Target: "Helper", Kind: models.EdgeKindCalls, FilePath: "a.go", Line: 3},
		},
	})
	g := b.Build()

	data, err := Export(g)
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	g2, err := Import(data)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if g2.SymbolCount() != g.SymbolCount() || g2.EdgeCount() != g.EdgeCount() {
		t.Fatalf("round-trip mismatch: got %d/%d symbols/edges, want %d/%d",
			g2.SymbolCount(), g2.EdgeCount(), g.SymbolCount(), g.EdgeCount())
	}

	data2, err := Export(g2)
	if err != nil {
		t.Fatalf("re-Export() error: %v", err)
	}
	if string(data) != string(data2) {
		t.Fatalf("Export is not stable across a round trip")
	}
}
