package graph

import (
	"log/slog"

	"github.com/depgraph-dev/depgraph/internal/parser"
	"github.com/depgraph-dev/depgraph/internal/resolver"
	"github.com/depgraph-dev/depgraph/pkg/models"
)

// Builder assembles a Graph from a set of parsed files in three passes
// (spec §4.D): symbol nodes, then synthetic per-file nodes, then resolved
// edges. The three-pass split exists because edge resolution needs every
// file's symbols indexed first — an edge can legally target a symbol
// declared in a file parsed after it.
type Builder struct {
	logger *slog.Logger
	files  map[string]*parser.ParsedFile // last-write-wins per file path
}

func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger, files: make(map[string]*parser.ParsedFile)}
}

// Add registers (or replaces) one file's parse result. Calling Add twice
// with the same FilePath replaces the prior contribution — this is what
// backs the incremental re-parse in Updater.
func (b *Builder) Add(pf *parser.ParsedFile) {
	b.files[pf.FilePath] = pf
}

// Build runs all three passes and returns the committed graph.
func (b *Builder) Build() *Graph {
	g := newGraph()

	// Pass 1: symbol nodes. A file-scope node always accompanies a file's
	// symbols (the adapter emits it itself), so this pass alone is enough
	// to let every edge in pass 3 find its source.
	var allSymbols []models.Symbol
	for _, pf := range b.files {
		for _, s := range pf.Symbols {
			g.symbols[s.ID] = s
			g.filesOf[s.FilePath] = append(g.filesOf[s.FilePath], s.ID)
			allSymbols = append(allSymbols, s)
		}
	}

	// Pass 2 is implicit: file-scope nodes are regular symbols emitted by
	// the adapter (models.NewFileScopeSymbol), already indexed above.

	// Pass 3: resolve and commit edges.
	table := resolver.NewTable(allSymbols)
	var allEdges []models.Edge
	for _, pf := range b.files {
		allEdges = append(allEdges, pf.Edges...)
	}
	resolved := resolver.ResolveAll(table, allEdges)

	var dangling int
	for _, e := range resolved {
		// Every edge endpoint must resolve to a node in G (spec §8); a
		// resolved-but-stale target (e.g. an import candidate that never
		// matched a real project file) is dropped here rather than
		// committed with a dangling Target.
		if _, ok := g.symbols[e.Source]; !ok {
			dangling++
			continue
		}
		if _, ok := g.symbols[e.Target]; !ok {
			dangling++
			continue
		}

		key := e.Key()
		if _, exists := g.edgesByKey[key]; exists {
			continue // multigraph coalescing (spec §4.D)
		}
		g.edgesByKey[key] = e
		g.outbound[e.Source] = append(g.outbound[e.Source], key)
		g.inbound[e.Target] = append(g.inbound[e.Target], key)
	}

	b.logger.Info("graph built",
		slog.Int("files", len(b.files)),
		slog.Int("symbols", len(g.symbols)),
		slog.Int("edges", len(g.edgesByKey)),
		slog.Int("dangling_edges_dropped", dangling))

	return g
}

// Updater supports the incremental protocol (spec §4.E): reparsing a single
// file atomically drops its old contribution before the new one lands, then
// rebuilds — edge resolution is re-run over the whole project because a
// changed file's symbols may be the target of edges elsewhere.
type Updater struct {
	builder *Builder
}

func NewUpdater(logger *slog.Logger) *Updater {
	return &Updater{builder: NewBuilder(logger)}
}

// Seed loads the initial full-project parse results.
func (u *Updater) Seed(files []*parser.ParsedFile) *Graph {
	for _, pf := range files {
		u.builder.Add(pf)
	}
	return u.builder.Build()
}

// Update drops filePath's old contribution (if any) and installs the new
// parse result, then rebuilds the whole graph. Returns the new graph; the
// old one is left untouched since Graph is an immutable value.
func (u *Updater) Update(pf *parser.ParsedFile) *Graph {
	u.builder.Add(pf)
	return u.builder.Build()
}

// Remove drops a file's contribution entirely (e.g. on file deletion) and
// rebuilds.
func (u *Updater) Remove(filePath string) *Graph {
	delete(u.builder.files, filePath)
	return u.builder.Build()
}
