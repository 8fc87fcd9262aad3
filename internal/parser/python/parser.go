// Package python is the Python adapter (spec §4.B), grounded on the
// tree-sitter walking technique shown in AleutianFOSS's code_buddy/ast
// Python parser, trimmed to depgraph's Symbol/Edge model and comment
// density.
package python

import (
	"context"
	"path"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/depgraph-dev/depgraph/internal/parser"
	"github.com/depgraph-dev/depgraph/pkg/models"
)

// resolveModulePaths turns a raw import module name into the set of
// project-relative file paths it might name, given the importing file's
// own path (spec §4.B: module-path resolution is language-aware). A
// leading-dot module ("relative_import" node content, e.g. ".", ".mod",
// "..pkg.sub") ascends from fromFile's directory one level per dot beyond
// the first (the first dot means "this package"); an absolute dotted
// module ("foo.bar") is tried rooted at the project root. Both forms try
// the module as a plain file and as a package's __init__.py — whichever
// (if any) names a real project file is decided by the graph builder's
// endpoint-existence check, which also drops stdlib/third-party modules
// like "os" or "requests" since they never match a project file.
func resolveModulePaths(fromFile, module string) []string {
	dots := 0
	for dots < len(module) && module[dots] == '.' {
		dots++
	}
	rest := module[dots:]

	var base string
	if dots > 0 {
		dir := path.Dir(fromFile)
		for i := 1; i < dots; i++ {
			dir = path.Dir(dir)
		}
		if rest == "" {
			base = dir
		} else {
			base = path.Join(dir, strings.ReplaceAll(rest, ".", "/"))
		}
	} else {
		if rest == "" {
			return nil
		}
		base = strings.ReplaceAll(rest, ".", "/")
	}

	return []string{base + ".py", path.Join(base, "__init__.py")}
}

type Parser struct {
	sitterLang *sitter.Parser
}

func New() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{sitterLang: p}
}

func (p *Parser) Language() string     { return "python" }
func (p *Parser) Extensions() []string { return []string{".py"} }

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
		syms, edges := p.extractStatement(root.Child(i), src, fp, "")
		out.Symbols = append(out.Symbols, syms...)
		out.Edges = append(out.Edges, edges...)
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

func (p *Parser) extractStatement(node *sitter.Node, src []byte, fp, scope string) ([]models.Symbol, []models.Edge) {
	switch node.Type() {
	case "function_definition":
		return p.extractFunctionDef(node, src, fp, scope)
	case "class_definition":
		return p.extractClassDef(node, src, fp, scope)
	case "import_statement":
		return nil, p.extractImport(node, src, fp)
	case "import_from_statement":
		return nil, p.extractImportFrom(node, src, fp)
	case "assignment":
		return p.extractModuleAssignment(node, src, fp, scope)
	case "decorated_definition":
		return p.extractDecorated(node, src, fp, scope)
	}
	return nil, nil
}

func (p *Parser) extractDecorated(node *sitter.Node, src []byte, fp, scope string) ([]models.Symbol, []models.Edge) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "function_definition" || child.Type() == "class_definition" {
			return p.extractStatement(child, src, fp, scope)
		}
	}
	return nil, nil
}

func (p *Parser) extractFunctionDef(node *sitter.Node, src []byte, fp, scope string) ([]models.Symbol, []models.Edge) {
	name := childContent(node, "identifier", src)
	if name == "" {
		return nil, nil
	}
	kind := models.SymbolKindFunction
	if scope != "" {
		kind = models.SymbolKindMethod
	}
	qname := models.Qualify(scope, name)
	sym := models.Symbol{
		ID: models.MakeID(fp, qname), Name: name, Kind: kind, FilePath: fp,
		StartLine: int(node.StartPoint().Row) + 1, EndLine: int(node.EndPoint().Row) + 1,
		Exported: !strings.HasPrefix(name, "_"), Scope: scope,
	}

	var symbols []models.Symbol
	var edges []models.Edge
	symbols = append(symbols, sym)

	if body := findChild(node, "block"); body != nil && scope == "" {
		for i := 0; i < int(body.ChildCount()); i++ {
			syms, eds := p.extractStatement(body.Child(i), src, fp, qname)
			symbols = append(symbols, syms...)
			edges = append(edges, eds...)
		}
	}

	return symbols, edges
}

func (p *Parser) extractClassDef(node *sitter.Node, src []byte, fp, scope string) ([]models.Symbol, []models.Edge) {
	name := childContent(node, "identifier", src)
	if name == "" {
		return nil, nil
	}
	qname := models.Qualify(scope, name)
	classID := models.MakeID(fp, qname)

	var symbols []models.Symbol
	var edges []models.Edge
	symbols = append(symbols, models.Symbol{
		ID: classID, Name: name, Kind: models.SymbolKindClass, FilePath: fp,
		StartLine: int(node.StartPoint().Row) + 1, EndLine: int(node.EndPoint().Row) + 1,
		Exported: !strings.HasPrefix(name, "_"), Scope: scope,
	})

	if bases := findChild(node, "argument_list"); bases != nil {
		line := int(node.StartPoint().Row) + 1
		for i := 0; i < int(bases.ChildCount()); i++ {
			if c := bases.Child(i); c.Type() == "identifier" || c.Type() == "attribute" {
				baseName := c.Content(src)
				if baseName == "object" {
					continue
				}
				edges = append(edges, models.Edge{Source: classID, Target: baseName, Kind: models.EdgeKindExtends, FilePath: fp, Line: line})
			}
		}
	}

	if body := findChild(node, "block"); body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			child := body.Child(i)
			t := child.Type()
			if t == "decorated_definition" {
				child = unwrapDecorated(child)
				t = child.Type()
			}
			if t == "function_definition" {
				syms, eds := p.extractFunctionDef(child, src, fp, qname)
				symbols = append(symbols, syms...)
				edges = append(edges, eds...)
			}
		}
	}

	return symbols, edges
}

func unwrapDecorated(node *sitter.Node) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c.Type() == "function_definition" || c.Type() == "class_definition" {
			return c
		}
	}
	return node
}

func (p *Parser) extractImport(node *sitter.Node, src []byte, fp string) []models.Edge {
	var edges []models.Edge
	line := int(node.StartPoint().Row) + 1
	emit := func(module string) {
		for _, candidate := range resolveModulePaths(fp, module) {
			edges = append(edges, models.Edge{Source: models.FileScopeID(fp), Target: models.FileScopeID(candidate), Kind: models.EdgeKindImports, FilePath: fp, Line: line})
		}
	}
	walkChildren(node, func(child *sitter.Node) {
		switch child.Type() {
		case "dotted_name", "identifier":
			emit(child.Content(src))
		case "aliased_import":
			if name := findChild(child, "dotted_name"); name != nil {
				emit(name.Content(src))
			}
		}
	})
	return edges
}

func (p *Parser) extractImportFrom(node *sitter.Node, src []byte, fp string) []models.Edge {
	line := int(node.StartPoint().Row) + 1

	module := ""
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "dotted_name" && module == "" {
			module = child.Content(src)
			break
		}
		if child.Type() == "relative_import" {
			module = child.Content(src)
			break
		}
	}
	if module == "" {
		return nil
	}
	var edges []models.Edge
	for _, candidate := range resolveModulePaths(fp, module) {
		edges = append(edges, models.Edge{Source: models.FileScopeID(fp), Target: models.FileScopeID(candidate), Kind: models.EdgeKindImports, FilePath: fp, Line: line})
	}
	return edges
}

// extractModuleAssignment captures top-level `NAME = ...` constants/variables.
func (p *Parser) extractModuleAssignment(node *sitter.Node, src []byte, fp, scope string) ([]models.Symbol, []models.Edge) {
	if scope != "" {
		return nil, nil
	}
	left := node.Child(0)
	if left == nil || left.Type() != "identifier" {
		return nil, nil
	}
	name := left.Content(src)
	kind := models.SymbolKindVariable
	if strings.ToUpper(name) == name {
		kind = models.SymbolKindConstant
	}
	return []models.Symbol{{
		ID: models.MakeID(fp, name), Name: name, Kind: kind, FilePath: fp,
		StartLine: int(node.StartPoint().Row) + 1, EndLine: int(node.EndPoint().Row) + 1,
		Exported: !strings.HasPrefix(name, "_"),
	}}, nil
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
		if node.Type() != "call" {
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
		case "attribute":
			if attr := findChild(fn, "identifier"); attr != nil {
				for i := int(fn.ChildCount()) - 1; i >= 0; i-- {
					if c := fn.Child(i); c.Type() == "identifier" {
						name = c.Content(src)
					}
				}
				_ = attr
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

func walkChildren(node *sitter.Node, fn func(*sitter.Node)) {
	for i := 0; i < int(node.ChildCount()); i++ {
		fn(node.Child(i))
	}
}
