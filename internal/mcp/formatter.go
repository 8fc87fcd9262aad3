// Package mcp implements depgraph's Model Context Protocol tool surface
// (spec's MCP tool surface), grounded on the teacher's internal/mcp: a
// token-budgeted Markdown ResponseBuilder feeding five tool handlers, each
// a thin wrapper over internal/query.Engine. Trimmed of the teacher's
// per-tenant ranking/session/navigator machinery — depgraph's tools answer
// one build's graph at a time with no cross-session state to track.
package mcp

import (
	"fmt"
	"strings"

	"github.com/depgraph-dev/depgraph/pkg/models"
)

const defaultMaxTokens = 4000

// ResponseBuilder accumulates a Markdown response capped at an approximate
// token budget (chars/4, same rough estimator the teacher used — good
// enough to stay well under a tool result size limit without invoking a
// real tokenizer for every line).
type ResponseBuilder struct {
	buf           strings.Builder
	tokenEstimate int
	maxTokens     int
	truncated     bool
	itemCount     int
}

func NewResponseBuilder(maxTokens int) *ResponseBuilder {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &ResponseBuilder{maxTokens: maxTokens}
}

func (rb *ResponseBuilder) AddHeader(text string) {
	line := text + "\n\n"
	rb.buf.WriteString(line)
	rb.tokenEstimate += len(line) / 4
}

// AddLine writes one line, counted as one result item, returning false
// (and marking truncated) if it would exceed the budget.
func (rb *ResponseBuilder) AddLine(text string) bool {
	line := text + "\n"
	cost := len(line) / 4
	if rb.tokenEstimate+cost > rb.maxTokens {
		rb.truncated = true
		return false
	}
	rb.buf.WriteString(line)
	rb.tokenEstimate += cost
	rb.itemCount++
	return true
}

// AddSymbolCard renders one symbol as a Markdown bullet.
func (rb *ResponseBuilder) AddSymbolCard(sym models.Symbol) bool {
	card := formatSymbolCard(sym)
	cost := len(card) / 4
	if rb.tokenEstimate+cost > rb.maxTokens {
		rb.truncated = true
		return false
	}
	rb.buf.WriteString(card)
	rb.tokenEstimate += cost
	rb.itemCount++
	return true
}

// AddSymbolMatchCard renders one findSymbols hit, including its
// dependentCount, as a Markdown bullet.
func (rb *ResponseBuilder) AddSymbolMatchCard(sym models.Symbol, dependentCount int) bool {
	card := formatSymbolMatchCard(sym, dependentCount)
	cost := len(card) / 4
	if rb.tokenEstimate+cost > rb.maxTokens {
		rb.truncated = true
		return false
	}
	rb.buf.WriteString(card)
	rb.tokenEstimate += cost
	rb.itemCount++
	return true
}

func formatSymbolMatchCard(sym models.Symbol, dependentCount int) string {
	exported := ""
	if sym.Exported {
		exported = ", exported"
	}
	return fmt.Sprintf("- **%s** (%s%s) — `%s:%d-%d` | %d dependent(s) | ID: `%s`\n",
		sym.Name, sym.Kind, exported, sym.FilePath, sym.StartLine, sym.EndLine, dependentCount, sym.ID)
}

func formatSymbolCard(sym models.Symbol) string {
	exported := ""
	if sym.Exported {
		exported = ", exported"
	}
	return fmt.Sprintf("- **%s** (%s%s) — `%s:%d-%d` | ID: `%s`\n",
		sym.Name, sym.Kind, exported, sym.FilePath, sym.StartLine, sym.EndLine, sym.ID)
}

// AddEdgeLine renders one edge as a Markdown bullet.
func (rb *ResponseBuilder) AddEdgeLine(edge models.Edge, other models.Symbol) bool {
	line := fmt.Sprintf("- %s **%s** (%s) — `%s:%d`\n",
		edge.Kind, other.Name, other.Kind, other.FilePath, edge.Line)
	cost := len(line) / 4
	if rb.tokenEstimate+cost > rb.maxTokens {
		rb.truncated = true
		return false
	}
	rb.buf.WriteString(line)
	rb.tokenEstimate += cost
	rb.itemCount++
	return true
}

// Finalize appends a truncation footer when the budget was hit and returns
// the accumulated text.
func (rb *ResponseBuilder) Finalize(total int) string {
	if rb.truncated {
		rb.buf.WriteString(fmt.Sprintf("\n_Showing %d of %d results (response size limit reached)._\n", rb.itemCount, total))
	}
	return rb.buf.String()
}
