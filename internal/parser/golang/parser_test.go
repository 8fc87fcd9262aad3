package golang

import (
	"testing"

	"github.com/depgraph-dev/depgraph/internal/parser"
	"github.com/depgraph-dev/depgraph/pkg/models"
)

func parseGo(t *testing.T, relPath, src string) *parser.ParsedFile {
	t.Helper()
	pf, err := New().Parse(parser.FileInput{RelativePath: relPath, Content: []byte(src)})
	if err != nil {
		t.Fatalf("Parse(%s) error: %v", relPath, err)
	}
	return pf
}

func TestImportEmitsPackageDirectoryCandidate(t *testing.T) {
	pf := parseGo(t, "cmd/main.go", `package main

import "github.com/depgraph-dev/depgraph/internal/graph"

func main() {}
`)

	want := models.FileScopeID("internal/graph/graph.go")
	var found bool
	for _, e := range pf.Edges {
		if e.Kind == models.EdgeKindImports && e.Target == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("no import edge candidate targeted %q; edges: %+v", want, pf.Edges)
	}
}

func TestStdlibImportCandidatesNeverMatchSingleSegmentFile(t *testing.T) {
	candidates := resolveGoImportCandidates("fmt")
	if len(candidates) != 1 || candidates[0] != "fmt/fmt.go" {
		t.Fatalf("resolveGoImportCandidates(fmt) = %v, want [fmt/fmt.go] (won't match a real project file)", candidates)
	}
}
