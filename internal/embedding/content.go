package embedding

import (
	"fmt"

	"github.com/depgraph-dev/depgraph/pkg/models"
)

// BuildEmbeddingText creates the text representation of a symbol for
// embedding, adapted from the teacher's per-kind formatting but over
// depgraph's Symbol (qualified name via Scope, no signature/doc-comment
// columns to draw on).
func BuildEmbeddingText(sym models.Symbol) string {
	qualified := models.Qualify(sym.Scope, sym.Name)

	switch sym.Kind {
	case models.SymbolKindFunction:
		return fmt.Sprintf("Function %s in %s", qualified, sym.FilePath)

	case models.SymbolKindMethod:
		return fmt.Sprintf("Method %s in %s", qualified, sym.FilePath)

	case models.SymbolKindClass:
		return fmt.Sprintf("Class %s in %s", qualified, sym.FilePath)

	case models.SymbolKindInterface:
		return fmt.Sprintf("Interface %s in %s", qualified, sym.FilePath)

	case models.SymbolKindTypeAlias:
		return fmt.Sprintf("Type %s in %s", qualified, sym.FilePath)

	case models.SymbolKindEnum:
		return fmt.Sprintf("Enum %s in %s", qualified, sym.FilePath)

	case models.SymbolKindConstant:
		return fmt.Sprintf("Constant %s in %s", qualified, sym.FilePath)

	case models.SymbolKindVariable:
		return fmt.Sprintf("Variable %s in %s", qualified, sym.FilePath)

	default:
		return fmt.Sprintf("%s %s in %s", sym.Kind, qualified, sym.FilePath)
	}
}
