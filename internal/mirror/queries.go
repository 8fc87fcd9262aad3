package mirror

// Cypher query constants for the Neo4j mirror. Every node and relationship
// carries a buildID so that ClearBuild can drop one build's projection
// without touching another's.
const (
	// CreateConstraintSymbolID ensures Symbol(id) is unique and indexed.
	CreateConstraintSymbolID = `CREATE CONSTRAINT symbol_id IF NOT EXISTS FOR (s:Symbol) REQUIRE s.id IS UNIQUE`

	// UpsertSymbolNode merges a symbol node by its ID and sets all properties.
	UpsertSymbolNode = `
UNWIND $symbols AS sym
MERGE (s:Symbol {id: sym.id, buildId: sym.buildId})
SET s.name = sym.name,
    s.kind = sym.kind,
    s.filePath = sym.filePath,
    s.startLine = sym.startLine,
    s.endLine = sym.endLine,
    s.exported = sym.exported
`

	// UpsertEdge merges a relationship between source and target symbols,
	// keyed by (source, target, kind) to match the in-memory multigraph.
	UpsertEdge = `
UNWIND $edges AS edge
MATCH (src:Symbol {id: edge.sourceId, buildId: edge.buildId})
MATCH (tgt:Symbol {id: edge.targetId, buildId: edge.buildId})
MERGE (src)-[r:DEPENDS_ON {kind: edge.kind}]->(tgt)
SET r.buildId = edge.buildId,
    r.filePath = edge.filePath,
    r.line = edge.line
`

	// ClearBuildNodes removes all nodes and relationships mirrored from one build.
	ClearBuildNodes = `
MATCH (n {buildId: $buildId})
DETACH DELETE n
`

	// DependencyPath finds dependency chains reachable from a symbol, up to
	// depth %d hops, following DEPENDS_ON forward to downstream symbols (the
	// outbound counterpart of ImpactPath), as a Cypher traversal for
	// callers already in a Neo4j workflow.
	DependencyPath = `
MATCH path = (source:Symbol {id: $symbolId})-[:DEPENDS_ON*1..%d]->(downstream)
RETURN path
`

	// ImpactPath finds everything upstream of a symbol, i.e. what would be
	// affected if it changed.
	ImpactPath = `
MATCH path = (upstream)-[:DEPENDS_ON*1..%d]->(target:Symbol {id: $symbolId})
RETURN path
`
)
