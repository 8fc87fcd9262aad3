// Package resolver turns an adapter's raw edge targets (bare names dropped
// by the parser) into resolved Symbol ids. Grounded on the teacher's
// project-wide symbol table and resolveTarget order, adapted to run over an
// in-memory symbol set instead of a Postgres-backed project.
package resolver

import (
	"strings"

	"github.com/depgraph-dev/depgraph/pkg/models"
)

// Table indexes every symbol contributed by a build for fast lookup during
// resolution.
type Table struct {
	byID        map[string]models.Symbol
	byShortName map[string][]string // short name -> candidate ids
	byFile      map[string][]string // file path -> ids declared in that file
}

func NewTable(symbols []models.Symbol) *Table {
	t := &Table{
		byID:        make(map[string]models.Symbol, len(symbols)),
		byShortName: make(map[string][]string),
		byFile:      make(map[string][]string),
	}
	for _, s := range symbols {
		t.byID[s.ID] = s
		t.byShortName[s.Name] = append(t.byShortName[s.Name], s.ID)
		t.byFile[s.FilePath] = append(t.byFile[s.FilePath], s.ID)
	}
	return t
}

// Resolve maps one edge's Target (a bare name emitted by an adapter) to a
// symbol id. Order (spec §4.C): local file scope → unambiguous project-wide
// short name → case-insensitive short name → unresolved (edge dropped).
//
// edge.Source's file is used for local-scope lookup: an adapter-emitted
// target is always resolved relative to the file that referenced it, never
// globally first, so that two files declaring the same short name don't
// shadow each other.
func (t *Table) Resolve(e models.Edge) (string, bool) {
	if sym, ok := t.byID[e.Target]; ok {
		return sym.ID, true
	}

	for _, id := range t.byFile[e.FilePath] {
		sym := t.byID[id]
		if sym.Name == e.Target {
			return id, true
		}
	}

	candidates := t.byShortName[e.Target]
	if len(candidates) == 1 {
		return candidates[0], true
	}

	lowerTarget := strings.ToLower(e.Target)
	var ciMatch string
	ciCount := 0
	for name, ids := range t.byShortName {
		if strings.ToLower(name) == lowerTarget {
			ciCount += len(ids)
			ciMatch = ids[0]
		}
	}
	if ciCount == 1 {
		return ciMatch, true
	}

	return "", false
}

// ResolveAll resolves every edge in place, dropping edges whose target never
// names a known symbol (spec §4.D: "an edge whose target cannot be resolved
// is omitted from the graph, not retained as a dangling reference").
//
// EdgeKindImports skips short-name resolution: its adapter already resolved
// the raw module specifier to a candidate file-scope id (language-aware path
// resolution happens in the adapter, which knows the importing file's own
// path and that language's specifier syntax — see each adapter's
// resolveModulePaths/resolveGoImportCandidates helpers), so Target is
// already a symbol id rather than a bare name. Whether that candidate
// actually names a project file is decided by the graph builder's
// endpoint-existence guard, not here — an external package's specifier
// simply never matches a real file-scope node and is dropped there.
func ResolveAll(table *Table, edges []models.Edge) []models.Edge {
	resolved := make([]models.Edge, 0, len(edges))
	for _, e := range edges {
		if e.Kind == models.EdgeKindImports {
			resolved = append(resolved, e)
			continue
		}
		if target, ok := table.Resolve(e); ok {
			e.Target = target
			resolved = append(resolved, e)
		}
	}
	return resolved
}
