// Package golang is the Go adapter (spec §4.B), grounded on viant-linager's
// inspector/golang tree-sitter inspector: walk source_file's direct
// children by node type rather than drive everything through queries.
package golang

import (
	"context"
	"path"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/depgraph-dev/depgraph/internal/parser"
	"github.com/depgraph-dev/depgraph/pkg/models"
)

// resolveGoImportCandidates turns a Go import path into the set of
// project-relative .go files it might name (spec §4.B: module-path
// resolution is language-aware). Go has no relative-import syntax and an
// import path is a package (directory), not a file, and the adapter has no
// access to this project's own module path at parse time — so instead of
// computing one answer, it tries every path suffix of the import as a
// project-relative directory (dropping leading segments one at a time,
// which absorbs an unknown module-path prefix like
// "github.com/org/repo/"), guessing the file named after that directory's
// last segment, the idiom this very adapter's own packages follow
// (graph/graph.go, store/store.go, parser/parser.go). Whichever candidate
// (if any) names a real project file is decided by the graph builder's
// endpoint-existence check; a stdlib or third-party import simply never
// matches one.
func resolveGoImportCandidates(importPath string) []string {
	segments := strings.Split(importPath, "/")
	var candidates []string
	for length := len(segments); length >= 1; length-- {
		dir := strings.Join(segments[len(segments)-length:], "/")
		last := segments[len(segments)-1]
		candidates = append(candidates, path.Join(dir, last+".go"))
	}
	return candidates
}

type Parser struct {
	sitterLang *sitter.Parser
}

func New() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(golang.GetLanguage())
	return &Parser{sitterLang: p}
}

func (p *Parser) Language() string     { return "go" }
func (p *Parser) Extensions() []string { return []string{".go"} }

type callable struct {
	id        string
	startLine int
	endLine   int
}

func (p *Parser) Parse(input parser.FileInput) (*parser.ParsedFile, error) {
	tree, err := p.sitterLang.ParseCtx(context.Background(), nil, input.Content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	src := input.Content
	fp := input.RelativePath

	out := &parser.ParsedFile{FilePath: fp}
	out.Symbols = append(out.Symbols, models.NewFileScopeSymbol(fp))

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "import_declaration":
			out.Edges = append(out.Edges, p.extractImports(child, src, fp)...)
		case "function_declaration":
			if sym, ok := p.extractFunc(child, src, fp); ok {
				out.Symbols = append(out.Symbols, sym)
			}
		case "method_declaration":
			if sym, ok := p.extractMethod(child, src, fp); ok {
				out.Symbols = append(out.Symbols, sym)
			}
		case "type_declaration":
			syms, edges := p.extractTypeDecl(child, src, fp)
			out.Symbols = append(out.Symbols, syms...)
			out.Edges = append(out.Edges, edges...)
		case "const_declaration":
			out.Symbols = append(out.Symbols, p.extractValueDecl(child, src, fp, models.SymbolKindConstant)...)
		case "var_declaration":
			out.Symbols = append(out.Symbols, p.extractValueDecl(child, src, fp, models.SymbolKindVariable)...)
		}
	}

	var callables []callable
	for _, s := range out.Symbols {
		if s.Kind == models.SymbolKindFunction || s.Kind == models.SymbolKindMethod {
			callables = append(callables, callable{id: s.ID, startLine: s.StartLine, endLine: s.EndLine})
		}
	}
	out.Edges = append(out.Edges, p.extractCallEdges(root, src, fp, callables)...)

	return out, nil
}

func exported(name string) bool {
	if name == "" {
		return false
	}
	r := rune(name[0])
	return r >= 'A' && r <= 'Z'
}

func (p *Parser) extractImports(node *sitter.Node, src []byte, fp string) []models.Edge {
	var edges []models.Edge
	line := int(node.StartPoint().Row) + 1
	walkTree(node, func(n *sitter.Node) {
		if n.Type() != "interpreted_string_literal" {
			return
		}
		importPath := strings.Trim(n.Content(src), "\"")
		if importPath == "" {
			return
		}
		for _, candidate := range resolveGoImportCandidates(importPath) {
			edges = append(edges, models.Edge{Source: models.FileScopeID(fp), Target: models.FileScopeID(candidate), Kind: models.EdgeKindImports, FilePath: fp, Line: line})
		}
	})
	return edges
}

func (p *Parser) extractFunc(node *sitter.Node, src []byte, fp string) (models.Symbol, bool) {
	name := childContent(node, "identifier", src)
	if name == "" {
		return models.Symbol{}, false
	}
	return models.Symbol{
		ID: models.MakeID(fp, name), Name: name, Kind: models.SymbolKindFunction, FilePath: fp,
		StartLine: int(node.StartPoint().Row) + 1, EndLine: int(node.EndPoint().Row) + 1,
		Exported: exported(name),
	}, true
}

func (p *Parser) extractMethod(node *sitter.Node, src []byte, fp string) (models.Symbol, bool) {
	recv := findChild(node, "parameter_list")
	recvType := ""
	if recv != nil {
		walkTree(recv, func(n *sitter.Node) {
			if recvType != "" {
				return
			}
			if n.Type() == "type_identifier" {
				recvType = n.Content(src)
			}
			if n.Type() == "pointer_type" {
				if ti := findChild(n, "type_identifier"); ti != nil {
					recvType = ti.Content(src)
				}
			}
		})
	}
	var name string
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c.Type() == "field_identifier" {
			name = c.Content(src)
			break
		}
	}
	if name == "" {
		return models.Symbol{}, false
	}
	qname := models.Qualify(recvType, name)
	return models.Symbol{
		ID: models.MakeID(fp, qname), Name: name, Kind: models.SymbolKindMethod, FilePath: fp,
		StartLine: int(node.StartPoint().Row) + 1, EndLine: int(node.EndPoint().Row) + 1,
		Exported: exported(name), Scope: recvType,
	}, true
}

func (p *Parser) extractTypeDecl(node *sitter.Node, src []byte, fp string) ([]models.Symbol, []models.Edge) {
	var symbols []models.Symbol
	var edges []models.Edge

	for i := 0; i < int(node.ChildCount()); i++ {
		spec := node.Child(i)
		if spec.Type() != "type_spec" {
			continue
		}
		name := childContent(spec, "type_identifier", src)
		if name == "" {
			continue
		}
		kind := models.SymbolKindTypeAlias
		var ifaceEmbeds []string
		for j := 0; j < int(spec.ChildCount()); j++ {
			switch spec.Child(j).Type() {
			case "struct_type":
				kind = models.SymbolKindClass
			case "interface_type":
				kind = models.SymbolKindInterface
				ifaceEmbeds = embeddedInterfaceNames(spec.Child(j), src)
			}
		}
		symID := models.MakeID(fp, name)
		symbols = append(symbols, models.Symbol{
			ID: symID, Name: name, Kind: kind, FilePath: fp,
			StartLine: int(spec.StartPoint().Row) + 1, EndLine: int(spec.EndPoint().Row) + 1,
			Exported: exported(name),
		})
		line := int(spec.StartPoint().Row) + 1
		for _, embed := range ifaceEmbeds {
			edges = append(edges, models.Edge{Source: symID, Target: embed, Kind: models.EdgeKindExtends, FilePath: fp, Line: line})
		}
	}
	return symbols, edges
}

func embeddedInterfaceNames(node *sitter.Node, src []byte) []string {
	var names []string
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c.Type() == "type_identifier" {
			names = append(names, c.Content(src))
		}
	}
	return names
}

func (p *Parser) extractValueDecl(node *sitter.Node, src []byte, fp string, kind models.SymbolKind) []models.Symbol {
	var symbols []models.Symbol
	walkTree(node, func(n *sitter.Node) {
		if n.Type() != "identifier" {
			return
		}
		parent := n.Parent()
		if parent == nil || parent.Type() != "var_spec" && parent.Type() != "const_spec" {
			return
		}
		name := n.Content(src)
		symbols = append(symbols, models.Symbol{
			ID: models.MakeID(fp, name), Name: name, Kind: kind, FilePath: fp,
			StartLine: int(parent.StartPoint().Row) + 1, EndLine: int(parent.EndPoint().Row) + 1,
			Exported: exported(name),
		})
	})
	return symbols
}

func (p *Parser) extractCallEdges(root *sitter.Node, src []byte, fp string, callables []callable) []models.Edge {
	var edges []models.Edge
	findEnclosing := func(line int) string {
		best := ""
		bestSpan := 1 << 30
		for _, c := range callables {
			if line >= c.startLine && line <= c.endLine {
				if span := c.endLine - c.startLine; span < bestSpan {
					bestSpan = span
					best = c.id
				}
			}
		}
		return best
	}

	walkTree(root, func(node *sitter.Node) {
		if node.Type() != "call_expression" {
			return
		}
		line := int(node.StartPoint().Row) + 1
		from := findEnclosing(line)
		if from == "" {
			return
		}
		fn := node.Child(0)
		if fn == nil {
			return
		}
		var name string
		switch fn.Type() {
		case "identifier":
			name = fn.Content(src)
		case "selector_expression":
			if field := findChild(fn, "field_identifier"); field != nil {
				name = field.Content(src)
			}
		}
		if name == "" {
			return
		}
		edges = append(edges, models.Edge{Source: from, Target: name, Kind: models.EdgeKindCalls, FilePath: fp, Line: line})
	})
	return edges
}

func childContent(node *sitter.Node, nodeType string, src []byte) string {
	if c := findChild(node, nodeType); c != nil {
		return c.Content(src)
	}
	return ""
}

func findChild(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c.Type() == nodeType {
			return c
		}
	}
	return nil
}

func walkTree(node *sitter.Node, fn func(*sitter.Node)) {
	fn(node)
	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(i), fn)
	}
}
