// Package typescript is the TypeScript/JavaScript adapter (spec §4.B):
// tree-sitter grammar walking that emits the normalized Symbol/Edge model.
// Grounded on the teacher's internal/parser/javascript adapter, trimmed to
// the edge kinds the core graph understands (calls, references, extends,
// implements, imports, instantiates) and reworked onto models.Symbol ids.
package typescript

import (
	"context"
	"path"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/depgraph-dev/depgraph/internal/parser"
	"github.com/depgraph-dev/depgraph/pkg/models"
)

// jsModuleExtensions are tried, in order, against a specifier that doesn't
// already name a file directly — both as a same-name file and as an
// index file of a same-name directory, the two forms a bare "./foo"
// specifier can resolve to under Node/ESM resolution rules.
var jsModuleExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// resolveModulePaths turns a raw import specifier into the set of
// project-relative file paths it might name, given the file it was
// imported from. Resolution happens here, at the adapter, because only the
// adapter knows the importing file's own path and this language's
// specifier syntax (spec §4.B: "module-path resolution is language-aware").
// It returns candidates, not a single answer — whichever one (if any)
// actually names a real project file is decided later by the graph
// builder's endpoint-existence check, which is also what makes an external
// package specifier (e.g. "react", "lodash/debounce") resolve to nothing
// and drop its edge rather than float as a dangling reference.
func resolveModulePaths(fromFile, spec string) []string {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil
	}

	var base string
	if strings.HasPrefix(spec, ".") {
		base = path.Clean(path.Join(path.Dir(fromFile), spec))
	} else {
		// Not a relative specifier: it may still be an internal import
		// resolved against a bundler/tsconfig baseUrl, so try it rooted at
		// the project root too. A genuine external package specifier
		// simply won't match any project file either way.
		base = path.Clean(spec)
	}

	candidates := []string{base}
	for _, ext := range jsModuleExtensions {
		candidates = append(candidates, base+ext)
		candidates = append(candidates, path.Join(base, "index"+ext))
	}
	return candidates
}

// Parser is a tree-sitter based JavaScript/TypeScript adapter. NewJS and
// NewTS select the grammar; both share the same extraction logic since the
// TS grammar is a superset of the JS one for every node type we walk.
type Parser struct {
	sitterLang *sitter.Parser
	lang       string
	exts       []string
}

func NewJS() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())
	return &Parser{sitterLang: p, lang: "javascript", exts: []string{".js", ".jsx", ".mjs", ".cjs"}}
}

func NewTS() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(typescript.GetLanguage())
	return &Parser{sitterLang: p, lang: "typescript", exts: []string{".ts", ".tsx"}}
}

func (p *Parser) Language() string     { return p.lang }
func (p *Parser) Extensions() []string { return p.exts }

// callable is a symbol range used to resolve a call site to its enclosing
// symbol.
type callable struct {
	id        string
	name      string
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

	var byShortName []callable

	for i := 0; i < int(root.ChildCount()); i++ {
		syms, edges := p.extractTopLevel(root.Child(i), src, fp, "")
		out.Symbols = append(out.Symbols, syms...)
		out.Edges = append(out.Edges, edges...)
	}

	for _, s := range out.Symbols {
		switch s.Kind {
		case models.SymbolKindFunction, models.SymbolKindMethod:
			byShortName = append(byShortName, callable{id: s.ID, name: s.Name, startLine: s.StartLine, endLine: s.EndLine})
		}
	}

	out.Edges = append(out.Edges, p.extractCallEdges(root, src, fp, byShortName)...)

	return out, nil
}

func (p *Parser) extractTopLevel(node *sitter.Node, src []byte, fp, scope string) ([]models.Symbol, []models.Edge) {
	switch node.Type() {
	case "function_declaration":
		return p.extractFunctionDecl(node, src, fp, scope)
	case "class_declaration":
		return p.extractClassDecl(node, src, fp, scope)
	case "lexical_declaration", "variable_declaration":
		return p.extractVarDecl(node, src, fp, scope)
	case "export_statement":
		return p.extractExportStatement(node, src, fp, scope)
	case "import_statement":
		return nil, p.extractImportStatement(node, src, fp)
	case "interface_declaration":
		return p.extractInterfaceDecl(node, src, fp, scope)
	case "type_alias_declaration":
		return []models.Symbol{p.extractTypeAlias(node, src, fp, scope)}, nil
	case "enum_declaration":
		return []models.Symbol{p.extractEnumDecl(node, src, fp, scope)}, nil
	}
	return nil, nil
}

func (p *Parser) extractFunctionDecl(node *sitter.Node, src []byte, fp, scope string) ([]models.Symbol, []models.Edge) {
	name := ""
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c.Type() == "identifier" && name == "" {
			name = c.Content(src)
		}
	}
	if name == "" {
		return nil, nil
	}
	qname := models.Qualify(scope, name)
	sym := models.Symbol{
		ID: models.MakeID(fp, qname), Name: name, Kind: models.SymbolKindFunction,
		FilePath: fp, StartLine: int(node.StartPoint().Row) + 1, EndLine: int(node.EndPoint().Row) + 1,
		Scope: scope,
	}
	return []models.Symbol{sym}, nil
}

func (p *Parser) extractClassDecl(node *sitter.Node, src []byte, fp, scope string) ([]models.Symbol, []models.Edge) {
	var symbols []models.Symbol
	var edges []models.Edge

	name := ""
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); (c.Type() == "identifier" || c.Type() == "type_identifier") && name == "" {
			name = c.Content(src)
			break
		}
	}
	if name == "" {
		return nil, nil
	}

	qname := models.Qualify(scope, name)
	classID := models.MakeID(fp, qname)
	symbols = append(symbols, models.Symbol{
		ID: classID, Name: name, Kind: models.SymbolKindClass, FilePath: fp,
		StartLine: int(node.StartPoint().Row) + 1, EndLine: int(node.EndPoint().Row) + 1,
		Scope: scope,
	})

	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c.Type() == "class_heritage" {
			edges = append(edges, p.extractHeritage(c, src, fp, classID)...)
		}
	}

	if body := findChild(node, "class_body"); body != nil {
		memberSyms, memberEdges := p.extractClassMembers(body, src, fp, qname)
		symbols = append(symbols, memberSyms...)
		edges = append(edges, memberEdges...)
	}

	return symbols, edges
}

func (p *Parser) extractHeritage(node *sitter.Node, src []byte, fp, fromID string) []models.Edge {
	var edges []models.Edge
	line := int(node.StartPoint().Row) + 1

	emit := func(name string, kind models.EdgeKind) {
		edges = append(edges, models.Edge{Source: fromID, Target: name, Kind: kind, FilePath: fp, Line: line})
	}

	hasClause := false
	for i := 0; i < int(node.ChildCount()); i++ {
		if t := node.Child(i).Type(); t == "extends_clause" || t == "implements_clause" {
			hasClause = true
			break
		}
	}

	if !hasClause {
		for i := 0; i < int(node.ChildCount()); i++ {
			if c := node.Child(i); c.Type() == "identifier" || c.Type() == "member_expression" {
				emit(c.Content(src), models.EdgeKindExtends)
			}
		}
		return edges
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "extends_clause":
			for j := 0; j < int(child.ChildCount()); j++ {
				if gc := child.Child(j); gc.Type() == "identifier" || gc.Type() == "member_expression" {
					emit(gc.Content(src), models.EdgeKindExtends)
				}
			}
		case "implements_clause":
			for j := 0; j < int(child.ChildCount()); j++ {
				gc := child.Child(j)
				switch gc.Type() {
				case "type_identifier", "identifier", "generic_type":
					typeName := gc.Content(src)
					if gc.Type() == "generic_type" {
						for k := 0; k < int(gc.ChildCount()); k++ {
							if ggc := gc.Child(k); ggc.Type() == "type_identifier" || ggc.Type() == "identifier" {
								typeName = ggc.Content(src)
								break
							}
						}
					}
					emit(typeName, models.EdgeKindImplements)
				}
			}
		}
	}
	return edges
}

func (p *Parser) extractClassMembers(body *sitter.Node, src []byte, fp, className string) ([]models.Symbol, []models.Edge) {
	var symbols []models.Symbol
	var edges []models.Edge

	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Type() {
		case "method_definition":
			if sym, ok := p.extractMethodDef(child, src, fp, className); ok {
				symbols = append(symbols, sym)
			}
		case "public_field_definition", "field_definition":
			if name := extractPropertyName(child, src); name != "" {
				qname := models.Qualify(className, name)
				symbols = append(symbols, models.Symbol{
					ID: models.MakeID(fp, qname), Name: name, Kind: models.SymbolKindVariable,
					FilePath: fp, StartLine: int(child.StartPoint().Row) + 1, EndLine: int(child.EndPoint().Row) + 1,
					Scope: className,
				})
			}
		}
	}
	return symbols, edges
}

func (p *Parser) extractMethodDef(node *sitter.Node, src []byte, fp, className string) (models.Symbol, bool) {
	name := ""
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c.Type() == "property_identifier" {
			name = c.Content(src)
		}
	}
	if name == "" {
		return models.Symbol{}, false
	}
	qname := models.Qualify(className, name)
	return models.Symbol{
		ID: models.MakeID(fp, qname), Name: name, Kind: models.SymbolKindMethod, FilePath: fp,
		StartLine: int(node.StartPoint().Row) + 1, EndLine: int(node.EndPoint().Row) + 1,
		Scope: className,
	}, true
}

func extractPropertyName(node *sitter.Node, src []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c.Type() == "property_identifier" || c.Type() == "identifier" {
			return c.Content(src)
		}
	}
	return ""
}

func (p *Parser) extractVarDecl(node *sitter.Node, src []byte, fp, scope string) ([]models.Symbol, []models.Edge) {
	var symbols []models.Symbol
	walkChildren(node, func(child *sitter.Node) {
		if child.Type() != "variable_declarator" {
			return
		}
		name := ""
		isFn := false
		for j := 0; j < int(child.ChildCount()); j++ {
			gc := child.Child(j)
			if gc.Type() == "identifier" && name == "" {
				name = gc.Content(src)
			}
			if gc.Type() == "arrow_function" || gc.Type() == "function" || gc.Type() == "function_expression" {
				isFn = true
			}
		}
		if name == "" || !isFn {
			return
		}
		qname := models.Qualify(scope, name)
		symbols = append(symbols, models.Symbol{
			ID: models.MakeID(fp, qname), Name: name, Kind: models.SymbolKindFunction, FilePath: fp,
			StartLine: int(node.StartPoint().Row) + 1, EndLine: int(node.EndPoint().Row) + 1,
			Scope: scope,
		})
	})
	return symbols, nil
}

func (p *Parser) extractExportStatement(node *sitter.Node, src []byte, fp, scope string) ([]models.Symbol, []models.Edge) {
	var symbols []models.Symbol
	var edges []models.Edge

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "function_declaration":
			syms, eds := p.extractFunctionDecl(child, src, fp, scope)
			symbols = append(symbols, markExported(syms)...)
			edges = append(edges, eds...)
		case "class_declaration":
			syms, eds := p.extractClassDecl(child, src, fp, scope)
			symbols = append(symbols, markExported(syms)...)
			edges = append(edges, eds...)
		case "lexical_declaration", "variable_declaration":
			syms, eds := p.extractVarDecl(child, src, fp, scope)
			symbols = append(symbols, markExported(syms)...)
			edges = append(edges, eds...)
		case "interface_declaration":
			syms, eds := p.extractInterfaceDecl(child, src, fp, scope)
			symbols = append(symbols, markExported(syms)...)
			edges = append(edges, eds...)
		case "type_alias_declaration":
			sym := p.extractTypeAlias(child, src, fp, scope)
			sym.Exported = true
			symbols = append(symbols, sym)
		case "enum_declaration":
			sym := p.extractEnumDecl(child, src, fp, scope)
			sym.Exported = true
			symbols = append(symbols, sym)
		}
	}

	if source := findChild(node, "string"); source != nil {
		if s := extractStringContent(source, src); s != "" {
			line := int(source.StartPoint().Row) + 1
			for _, candidate := range resolveModulePaths(fp, s) {
				edges = append(edges, models.Edge{
					Source: models.FileScopeID(fp), Target: models.FileScopeID(candidate), Kind: models.EdgeKindImports,
					FilePath: fp, Line: line,
				})
			}
		}
	}

	return symbols, edges
}

func markExported(syms []models.Symbol) []models.Symbol {
	for i := range syms {
		syms[i].Exported = true
	}
	return syms
}

func (p *Parser) extractImportStatement(node *sitter.Node, src []byte, fp string) []models.Edge {
	source := findChild(node, "string")
	if source == nil {
		return nil
	}
	s := extractStringContent(source, src)
	if s == "" {
		return nil
	}
	line := int(node.StartPoint().Row) + 1
	var edges []models.Edge
	for _, candidate := range resolveModulePaths(fp, s) {
		edges = append(edges, models.Edge{
			Source: models.FileScopeID(fp), Target: models.FileScopeID(candidate), Kind: models.EdgeKindImports,
			FilePath: fp, Line: line,
		})
	}
	return edges
}

func (p *Parser) extractInterfaceDecl(node *sitter.Node, src []byte, fp, scope string) ([]models.Symbol, []models.Edge) {
	name := ""
	var edges []models.Edge
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "type_identifier", "identifier":
			if name == "" {
				name = child.Content(src)
			}
		case "extends_type_clause":
			for j := 0; j < int(child.ChildCount()); j++ {
				if gc := child.Child(j); gc.Type() == "type_identifier" || gc.Type() == "identifier" || gc.Type() == "generic_type" {
					edges = append(edges, models.Edge{
						Source: models.MakeID(fp, models.Qualify(scope, name)), Target: gc.Content(src),
						Kind: models.EdgeKindExtends, FilePath: fp, Line: int(gc.StartPoint().Row) + 1,
					})
				}
			}
		}
	}
	if name == "" {
		return nil, nil
	}
	qname := models.Qualify(scope, name)
	sym := models.Symbol{
		ID: models.MakeID(fp, qname), Name: name, Kind: models.SymbolKindInterface, FilePath: fp,
		StartLine: int(node.StartPoint().Row) + 1, EndLine: int(node.EndPoint().Row) + 1, Scope: scope,
	}
	return []models.Symbol{sym}, edges
}

func (p *Parser) extractTypeAlias(node *sitter.Node, src []byte, fp, scope string) models.Symbol {
	name := ""
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); (c.Type() == "type_identifier" || c.Type() == "identifier") && name == "" {
			name = c.Content(src)
		}
	}
	qname := models.Qualify(scope, name)
	return models.Symbol{
		ID: models.MakeID(fp, qname), Name: name, Kind: models.SymbolKindTypeAlias, FilePath: fp,
		StartLine: int(node.StartPoint().Row) + 1, EndLine: int(node.EndPoint().Row) + 1, Scope: scope,
	}
}

func (p *Parser) extractEnumDecl(node *sitter.Node, src []byte, fp, scope string) models.Symbol {
	name := ""
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c.Type() == "identifier" && name == "" {
			name = c.Content(src)
		}
	}
	qname := models.Qualify(scope, name)
	return models.Symbol{
		ID: models.MakeID(fp, qname), Name: name, Kind: models.SymbolKindEnum, FilePath: fp,
		StartLine: int(node.StartPoint().Row) + 1, EndLine: int(node.EndPoint().Row) + 1, Scope: scope,
	}
}

// extractCallEdges walks every call_expression and new_expression inside a
// function or method and emits a "calls" or "instantiates" edge from the
// innermost enclosing callable (spec §4.B: "a constructor call new X(...)
// emits instantiates to X"). The edge Target is the bare callee/constructor
// name whether or not this file declares it; mapping it to a symbol id is
// left to the resolver (spec §4.C): this adapter only ever names a target,
// never resolves package-qualified paths.
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
		var kind models.EdgeKind
		switch node.Type() {
		case "call_expression":
			kind = models.EdgeKindCalls
		case "new_expression":
			kind = models.EdgeKindInstantiates
		default:
			return
		}

		line := int(node.StartPoint().Row) + 1
		from := findEnclosing(line)
		if from == "" {
			return
		}

		var calleeName string
		if ident := findChild(node, "identifier"); ident != nil {
			calleeName = ident.Content(src)
		} else if typeIdent := findChild(node, "type_identifier"); typeIdent != nil {
			calleeName = typeIdent.Content(src)
		} else if member := findChild(node, "member_expression"); member != nil {
			for i := int(member.ChildCount()) - 1; i >= 0; i-- {
				if c := member.Child(i); c.Type() == "property_identifier" {
					calleeName = c.Content(src)
					break
				}
			}
		}
		if calleeName == "" {
			return
		}
		edges = append(edges, models.Edge{Source: from, Target: calleeName, Kind: kind, FilePath: fp, Line: line})
	})

	return edges
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

func walkChildren(node *sitter.Node, fn func(*sitter.Node)) {
	for i := 0; i < int(node.ChildCount()); i++ {
		fn(node.Child(i))
	}
}

func extractStringContent(node *sitter.Node, src []byte) string {
	text := node.Content(src)
	if len(text) >= 2 {
		return strings.Trim(text, "\"'`")
	}
	return ""
}
