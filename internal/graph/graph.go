// Package graph holds the core in-memory dependency graph (spec §4.D): a
// value type built from every file's parsed symbols/edges, queried
// read-only by internal/query, and rebuilt (or incrementally patched) by
// Builder. Unlike the teacher, which treats Postgres/Neo4j as the graph's
// source of truth, depgraph keeps the graph itself as a plain Go value —
// the stores under internal/store and internal/mirror are projections of
// it, never the other way around.
package graph

import (
	"github.com/depgraph-dev/depgraph/pkg/models"
)

// Graph is the committed, queryable dependency graph for one project
// snapshot. All fields are read-only to callers outside this package; use
// Builder to construct or Updater to patch one.
type Graph struct {
	symbols map[string]models.Symbol
	// edgesByKey coalesces duplicate (source, target, kind) triples, per
	// spec §4.D's multigraph rule, keeping the first line number seen.
	edgesByKey map[models.EdgeKey]models.Edge
	outbound   map[string][]models.EdgeKey // source id -> edges
	inbound    map[string][]models.EdgeKey // target id -> edges
	filesOf    map[string][]string         // file path -> symbol ids declared there
}

func newGraph() *Graph {
	return &Graph{
		symbols:    make(map[string]models.Symbol),
		edgesByKey: make(map[models.EdgeKey]models.Edge),
		outbound:   make(map[string][]models.EdgeKey),
		inbound:    make(map[string][]models.EdgeKey),
		filesOf:    make(map[string][]string),
	}
}

// Symbol looks up a symbol by id.
func (g *Graph) Symbol(id string) (models.Symbol, bool) {
	s, ok := g.symbols[id]
	return s, ok
}

// Symbols returns every symbol in the graph, in no particular order.
func (g *Graph) Symbols() []models.Symbol {
	out := make([]models.Symbol, 0, len(g.symbols))
	for _, s := range g.symbols {
		out = append(out, s)
	}
	return out
}

// SymbolsInFile returns the symbol ids declared by one file, including its
// synthetic file-scope node.
func (g *Graph) SymbolsInFile(filePath string) []string {
	return g.filesOf[filePath]
}

// Files returns every file path with at least one symbol in the graph.
func (g *Graph) Files() []string {
	out := make([]string, 0, len(g.filesOf))
	for fp := range g.filesOf {
		out = append(out, fp)
	}
	return out
}

// Edges returns every coalesced edge in the graph.
func (g *Graph) Edges() []models.Edge {
	out := make([]models.Edge, 0, len(g.edgesByKey))
	for _, e := range g.edgesByKey {
		out = append(out, e)
	}
	return out
}

// OutEdges returns the edges whose Source is id.
func (g *Graph) OutEdges(id string) []models.Edge {
	keys := g.outbound[id]
	out := make([]models.Edge, 0, len(keys))
	for _, k := range keys {
		out = append(out, g.edgesByKey[k])
	}
	return out
}

// InEdges returns the edges whose Target is id.
func (g *Graph) InEdges(id string) []models.Edge {
	keys := g.inbound[id]
	out := make([]models.Edge, 0, len(keys))
	for _, k := range keys {
		out = append(out, g.edgesByKey[k])
	}
	return out
}

// SymbolCount and EdgeCount back the architecture summary query.
func (g *Graph) SymbolCount() int { return len(g.symbols) }
func (g *Graph) EdgeCount() int   { return len(g.edgesByKey) }
