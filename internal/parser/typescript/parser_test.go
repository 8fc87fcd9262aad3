package typescript

import (
	"testing"

	"github.com/depgraph-dev/depgraph/internal/parser"
	"github.com/depgraph-dev/depgraph/pkg/models"
)

func parseTS(t *testing.T, relPath, src string) *parser.ParsedFile {
	t.Helper()
	pf, err := NewTS().Parse(parser.FileInput{RelativePath: relPath, Content: []byte(src)})
	if err != nil {
		t.Fatalf("Parse(%s) error: %v", relPath, err)
	}
	return pf
}

func TestImportEmitsResolvedCandidates(t *testing.T) {
	pf := parseTS(t, "src/b.ts", `import { A } from "./a";`)

	var found bool
	want := models.FileScopeID("src/a.ts")
	for _, e := range pf.Edges {
		if e.Kind != models.EdgeKindImports {
			continue
		}
		if e.Source != models.FileScopeID("src/b.ts") {
			t.Errorf("import edge source = %q, want src/b.ts::__file__", e.Source)
		}
		if e.Target == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("no import edge candidate targeted %q; edges: %+v", want, pf.Edges)
	}
}

func TestExternalSpecifierNeverGeneratesRelativeCandidate(t *testing.T) {
	// A bare package specifier like "react" is only ever tried rooted at
	// the project root, never relative to the importing file's own
	// directory — so it can't accidentally collide with a real sibling
	// file the way "./react" would.
	candidates := resolveModulePaths("src/b.ts", "react")
	for _, c := range candidates {
		if c == "src/react" || c == "src/react.ts" {
			t.Fatalf("bare specifier %q must not resolve relative to the importing file's directory, got %q", "react", c)
		}
	}
}

func TestNewExpressionEmitsInstantiates(t *testing.T) {
	pf := parseTS(t, "service.ts", `
function run() {
	const svc = new UserService();
	return svc;
}
`)

	var got *models.Edge
	for i, e := range pf.Edges {
		if e.Kind == models.EdgeKindInstantiates {
			got = &pf.Edges[i]
		}
	}
	if got == nil {
		t.Fatalf("no instantiates edge emitted; edges: %+v", pf.Edges)
	}
	if got.Target != "UserService" {
		t.Errorf("instantiates target = %q, want UserService", got.Target)
	}
}
