package graph

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/depgraph-dev/depgraph/pkg/models"
)

// exportDoc is the on-disk JSON shape (spec §4.G): symbols and edges sorted
// into a stable order so two builds of identical input produce a
// byte-identical export, independent of map iteration order.
type exportDoc struct {
	Version int             `json:"version"`
	Symbols []models.Symbol `json:"symbols"`
	Edges   []models.Edge   `json:"edges"`
}

const exportVersion = 1

// Export serializes the graph to its documented JSON form. Symbols are
// sorted by ID, edges by (Source, Target, Kind) — the same triple that
// coalesces them — so Export(g1) == Export(g2) whenever g1 and g2 contain
// the same symbols and edges, regardless of build order.
func Export(g *Graph) ([]byte, error) {
	doc := exportDoc{Version: exportVersion}

	doc.Symbols = g.Symbols()
	sort.Slice(doc.Symbols, func(i, j int) bool { return doc.Symbols[i].ID < doc.Symbols[j].ID })

	doc.Edges = g.Edges()
	sort.Slice(doc.Edges, func(i, j int) bool {
		a, b := doc.Edges[i], doc.Edges[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Kind < b.Kind
	})

	return json.MarshalIndent(doc, "", "  ")
}

// Import reconstructs a Graph from its exported JSON form. The round-trip
// law this upholds: Import(Export(g)) produces a graph with the same
// symbols and edges as g (duplicate edges, impossible in an exported doc
// since Export always coalesces first, are rejected as malformed input).
func Import(data []byte) (*Graph, error) {
	var doc exportDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode graph export: %w", err)
	}
	if doc.Version != exportVersion {
		return nil, fmt.Errorf("unsupported graph export version %d (want %d)", doc.Version, exportVersion)
	}

	g := newGraph()
	for _, s := range doc.Symbols {
		if _, dup := g.symbols[s.ID]; dup {
			return nil, fmt.Errorf("malformed export: duplicate symbol id %q", s.ID)
		}
		g.symbols[s.ID] = s
		g.filesOf[s.FilePath] = append(g.filesOf[s.FilePath], s.ID)
	}
	for _, e := range doc.Edges {
		key := e.Key()
		if _, dup := g.edgesByKey[key]; dup {
			return nil, fmt.Errorf("malformed export: duplicate edge %+v", key)
		}
		g.edgesByKey[key] = e
		g.outbound[e.Source] = append(g.outbound[e.Source], key)
		g.inbound[e.Target] = append(g.inbound[e.Target], key)
	}

	return g, nil
}
