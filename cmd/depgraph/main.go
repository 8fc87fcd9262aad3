// Command depgraph is the standalone, database-free front end to the
// dependency graph: build a project's graph to a JSON export, run a single
// query against that export, or watch a project tree and keep the export
// current as files change. Grounded on the cobra command style in
// jinterlante1206-AleutianLocal's cmd/aleutian (the one example repo with
// an interactive CLI built on cobra in this pack) — trimmed to the three
// operations this domain calls for instead of that repo's full command
// tree.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "depgraph",
	Short: "Build and query a cross-file symbol dependency graph",
	Long: `depgraph parses a project's source files into a cross-file symbol
dependency graph: who calls, imports, or extends whom, across file and
language boundaries.`,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
