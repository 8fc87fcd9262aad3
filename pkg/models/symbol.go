// Package models defines the symbol/edge data model shared by every layer of
// depgraph: the parser adapters emit these types, the graph builder
// assembles them, the query engine reads them, and the JSON codec
// round-trips them.
package models

// SymbolKind is a closed enumeration of the kinds of declarations an adapter
// may emit.
type SymbolKind string

const (
	SymbolKindFunction  SymbolKind = "function"
	SymbolKindMethod    SymbolKind = "method"
	SymbolKindClass     SymbolKind = "class"
	SymbolKindInterface SymbolKind = "interface"
	SymbolKindTypeAlias SymbolKind = "type_alias"
	SymbolKindEnum      SymbolKind = "enum"
	SymbolKindVariable  SymbolKind = "variable"
	SymbolKindConstant  SymbolKind = "constant"
	// SymbolKindImport marks the synthetic per-file node that anchors
	// imports edges. Adapters never emit it directly; NewFileScopeSymbol does.
	SymbolKindImport SymbolKind = "import"
)

// Symbol is a declared named entity: a function, type, class, variable, or
// the synthetic file-scope node that anchors a file's imports.
type Symbol struct {
	// ID is "<filePath>::<qualifiedName>", globally unique and stable
	// under re-parse of unchanged file content.
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Kind SymbolKind `json:"kind"`
	// FilePath is relative to the project root, forward slashes.
	FilePath string `json:"filePath"`
	// StartLine and EndLine are 1-based and inclusive; StartLine <= EndLine.
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`
	// Exported is true iff the symbol is visible to other files under the
	// source language's own visibility rules.
	Exported bool `json:"exported"`
	// Scope is the enclosing qualified name (e.g. the class name for a
	// method), absent for top-level declarations.
	Scope string `json:"scope,omitempty"`
}

// MakeID builds the canonical symbol id from a file path and a qualified
// name (see Qualify).
func MakeID(filePath, qualifiedName string) string {
	return filePath + "::" + qualifiedName
}

// Qualify builds the qualifiedName component of a symbol id: name alone at
// top level, or "scope.name" when nested inside scope.
func Qualify(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "." + name
}

// FileScopeName is the literal qualifiedName of a file-scope node.
const FileScopeName = "__file__"

// FileScopeID returns the id of the synthetic per-file node that anchors a
// file's imports edges, independent of any top-level symbol in that file.
func FileScopeID(filePath string) string {
	return MakeID(filePath, FileScopeName)
}

// NewFileScopeSymbol constructs the synthetic node a file contributes even
// when it declares no top-level symbols, so imports edges always have a
// source.
func NewFileScopeSymbol(filePath string) Symbol {
	return Symbol{
		ID:        FileScopeID(filePath),
		Name:      FileScopeName,
		Kind:      SymbolKindImport,
		FilePath:  filePath,
		StartLine: 1,
		EndLine:   1,
		Exported:  false,
	}
}
