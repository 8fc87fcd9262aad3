// Package parser defines the AST-adapter contract (spec §4.B/§6): a
// pluggable per-language front end that turns one source file into a
// normalized ParsedFile. The core graph builder and query engine never
// import a specific language package — only this contract.
package parser

import "github.com/depgraph-dev/depgraph/pkg/models"

// FileInput is one file handed to an adapter.
type FileInput struct {
	// AbsolutePath is used for reading/erroring; RelativePath (forward
	// slashes, relative to the project root) is what ends up in every
	// Symbol.FilePath and Edge.FilePath the adapter produces.
	AbsolutePath string
	RelativePath string
	Content      []byte
}

// ParsedFile is the adapter's output: a normalized, ordered (symbols, edges)
// tuple for one file. Edges may target a symbol in another file; if that
// target never appears in the final graph the edge is dropped by the
// builder (spec §4.D), never by the adapter.
type ParsedFile struct {
	FilePath string
	Symbols  []models.Symbol
	Edges    []models.Edge
}

// Parser is the per-language AST adapter contract. A returned error is
// non-fatal: the caller reports it upstream and omits the file from the
// graph (spec §7's ParseError).
type Parser interface {
	Parse(input FileInput) (*ParsedFile, error)
	// Language is the canonical name this adapter handles (e.g.
	// "typescript", "python", "go").
	Language() string
	// Extensions lists the file extensions (including the leading dot)
	// this adapter claims in the registry.
	Extensions() []string
}

// ParseFailure reports a non-fatal per-file parse error. The file is
// omitted from the graph; the build continues with the rest.
type ParseFailure struct {
	RelativePath string
	Err          error
}

func (f *ParseFailure) Error() string {
	return "parse " + f.RelativePath + ": " + f.Err.Error()
}

func (f *ParseFailure) Unwrap() error { return f.Err }
