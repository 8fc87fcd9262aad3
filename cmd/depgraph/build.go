package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/depgraph-dev/depgraph/internal/discover"
	"github.com/depgraph-dev/depgraph/internal/graph"
	"github.com/depgraph-dev/depgraph/internal/parser"
)

var buildOutPath string

var buildCmd = &cobra.Command{
	Use:   "build [path]",
	Short: "Walk, parse, and build the dependency graph for a project",
	Long: `Discovers source files under path (default: current directory),
parses each with the matching language adapter, builds the cross-file
symbol graph, and writes the exported JSON to --out (default: stdout).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutPath, "out", "o", "", "write the graph export to this file instead of stdout")
}

func runBuild(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	registry := parser.DefaultRegistry()
	walker := discover.NewWalker(registry.Extensions())

	files, err := walker.ReadAll(ctx, root)
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no source files found under %s", root)
	}

	builder := graph.NewBuilder(logger)
	parsed := 0
	for _, f := range files {
		pf, err := registry.ParseFile(parser.FileInput{
			AbsolutePath: f.AbsolutePath,
			RelativePath: f.RelativePath,
			Content:      f.Content,
		})
		if err != nil {
			logger.Warn("parse failed, skipping file", slog.String("file", f.RelativePath), slog.String("error", err.Error()))
			continue
		}
		builder.Add(pf)
		parsed++
	}

	g := builder.Build()
	data, err := graph.Export(g)
	if err != nil {
		return fmt.Errorf("export graph: %w", err)
	}

	fmt.Fprintf(os.Stderr, "parsed %d/%d files, %d symbols, %d edges\n", parsed, len(files), g.SymbolCount(), g.EdgeCount())

	if buildOutPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(buildOutPath, data, 0o644)
}
