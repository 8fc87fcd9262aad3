package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/depgraph-dev/depgraph/internal/graph"
	"github.com/depgraph-dev/depgraph/internal/query"
)

var (
	queryInPath     string
	queryOp         string
	querySymbolID   string
	querySymbolName string
	queryExact      bool
	queryChangeType string
	queryMaxDepth   int
	queryFilePath   string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run one read-only query against an exported graph",
	Long: `Loads a graph previously written by "depgraph build --out", runs a
single query operation against it, and prints the result as JSON.

Operations (--op):
  find-symbols          requires --name
  search-symbols        requires --name
  dependencies          requires --symbol
  dependents            requires --symbol
  impact                requires --symbol; optional --change-type, --max-depth
  cross-file-edges
  file-summary          requires --path
  architecture-summary`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryInPath, "in", "", "path to a graph export JSON file (required)")
	queryCmd.Flags().StringVar(&queryOp, "op", "", "query operation to run (required)")
	queryCmd.Flags().StringVar(&querySymbolID, "symbol", "", "symbol id, for dependencies/dependents/impact")
	queryCmd.Flags().StringVar(&querySymbolName, "name", "", "symbol name, for find-symbols/search-symbols")
	queryCmd.Flags().BoolVar(&queryExact, "exact", false, "unused; find-symbols is always exact, search-symbols always substring")
	queryCmd.Flags().StringVar(&queryChangeType, "change-type", string(query.ChangeModify), "modify or delete, for impact")
	queryCmd.Flags().IntVar(&queryMaxDepth, "max-depth", 0, "maximum BFS depth for impact (0 = engine default)")
	queryCmd.Flags().StringVar(&queryFilePath, "path", "", "file path, for file-summary")
	_ = queryCmd.MarkFlagRequired("in")
	_ = queryCmd.MarkFlagRequired("op")
}

func runQuery(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(queryInPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", queryInPath, err)
	}
	g, err := graph.Import(data)
	if err != nil {
		return fmt.Errorf("import graph: %w", err)
	}
	engine := query.NewEngine(g)

	var result any
	switch queryOp {
	case "find-symbols":
		if querySymbolName == "" {
			return fmt.Errorf("--name is required for find-symbols")
		}
		result = engine.FindSymbols(querySymbolName)
	case "search-symbols":
		if querySymbolName == "" {
			return fmt.Errorf("--name is required for search-symbols")
		}
		result = engine.SearchSymbols(querySymbolName)
	case "dependencies":
		if querySymbolID == "" {
			return fmt.Errorf("--symbol is required for dependencies")
		}
		result = engine.GetDependencies(querySymbolID)
	case "dependents":
		if querySymbolID == "" {
			return fmt.Errorf("--symbol is required for dependents")
		}
		result = engine.GetDependents(querySymbolID)
	case "impact":
		if querySymbolID == "" {
			return fmt.Errorf("--symbol is required for impact")
		}
		impact, err := engine.GetImpact(querySymbolID, query.ChangeType(queryChangeType), queryMaxDepth)
		if err != nil {
			return fmt.Errorf("get impact: %w", err)
		}
		result = impact
	case "cross-file-edges":
		result = engine.GetCrossFileEdges()
	case "file-summary":
		if queryFilePath == "" {
			return fmt.Errorf("--path is required for file-summary")
		}
		result = engine.GetFileSummary(queryFilePath)
	case "architecture-summary":
		result = engine.GetArchitectureSummary()
	default:
		return fmt.Errorf("unknown --op %q", queryOp)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
