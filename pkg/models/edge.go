package models

// EdgeKind is a closed enumeration of the semantic categories of a
// reference between two symbols.
type EdgeKind string

const (
	EdgeKindCalls        EdgeKind = "calls"
	EdgeKindReferences   EdgeKind = "references"
	EdgeKindExtends      EdgeKind = "extends"
	EdgeKindImplements   EdgeKind = "implements"
	EdgeKindImports      EdgeKind = "imports"
	EdgeKindInstantiates EdgeKind = "instantiates"
)

// Edge is a directed reference from one symbol to another. The graph is a
// multigraph keyed by (Source, Target, Kind); duplicates of that triple
// collapse into a single edge when committed.
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Kind   EdgeKind `json:"kind"`
	// FilePath is the file where the reference occurs. For cross-file
	// edges this equals the source symbol's file.
	FilePath string `json:"filePath"`
	Line     int    `json:"line"`
}

// Key returns the multigraph coalescing key for this edge.
func (e Edge) Key() EdgeKey {
	return EdgeKey{Source: e.Source, Target: e.Target, Kind: e.Kind}
}

// EdgeKey is the (source, target, kind) triple edges are coalesced under.
type EdgeKey struct {
	Source string
	Target string
	Kind   EdgeKind
}
