package python

import (
	"testing"

	"github.com/depgraph-dev/depgraph/internal/parser"
	"github.com/depgraph-dev/depgraph/pkg/models"
)

func parsePy(t *testing.T, relPath, src string) *parser.ParsedFile {
	t.Helper()
	pf, err := New().Parse(parser.FileInput{RelativePath: relPath, Content: []byte(src)})
	if err != nil {
		t.Fatalf("Parse(%s) error: %v", relPath, err)
	}
	return pf
}

func TestRelativeImportFromEmitsResolvedCandidate(t *testing.T) {
	pf := parsePy(t, "pkg/b.py", "from .a import thing\n")

	want := models.FileScopeID("pkg/a.py")
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

func TestPlainImportTriesProjectRootCandidates(t *testing.T) {
	pf := parsePy(t, "pkg/sub/b.py", "import pkg.a\n")

	want := models.FileScopeID("pkg/a.py")
	var found bool
	for _, e := range pf.Edges {
		if e.Kind == models.EdgeKindImports && e.Target == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("no import edge candidate targeted %q (project-root-relative); edges: %+v", want, pf.Edges)
	}
}

func TestStdlibImportNeverMatchesAProjectPath(t *testing.T) {
	candidates := resolveModulePaths("pkg/b.py", "os")
	for _, c := range candidates {
		if c == "pkg/os.py" {
			t.Fatalf("bare module %q must resolve project-root-relative, not relative to the importing file, got %q", "os", c)
		}
	}
}
