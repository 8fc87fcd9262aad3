// Package ingestion orchestrates one project's walk-parse-build-persist
// run end to end, grounded on the teacher's internal/ingestion
// Pipeline/Stage shape but collapsed from a Postgres-row-per-stage design
// (the teacher tracked SQL-dialect detection and migration/schema
// classification per stage) into depgraph's simpler four-step build:
// discover files, parse each with the adapter registry, build the graph,
// persist it. Mirror sync and embedding generation are optional
// post-steps, each skipped when its client is nil.
package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/depgraph-dev/depgraph/internal/discover"
	"github.com/depgraph-dev/depgraph/internal/embedding"
	"github.com/depgraph-dev/depgraph/internal/graph"
	"github.com/depgraph-dev/depgraph/internal/mirror"
	"github.com/depgraph-dev/depgraph/internal/parser"
	"github.com/depgraph-dev/depgraph/internal/store"
)

// Pipeline runs a full build for one project. Mirror and Embedder are
// optional external collaborators (spec's "optional" domain-stack
// components) — a nil value skips that step entirely rather than erroring.
type Pipeline struct {
	walker   *discover.Walker
	registry *parser.Registry
	store    *store.Store
	mirror   *mirror.Client
	embedder embedding.Embedder
	logger   *slog.Logger
}

func NewPipeline(registry *parser.Registry, s *store.Store, m *mirror.Client, embedder embedding.Embedder, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		walker:   discover.NewWalker(registry.Extensions()),
		registry: registry,
		store:    s,
		mirror:   m,
		embedder: embedder,
		logger:   logger,
	}
}

// Run discovers every source file under rootPath, parses it, builds the
// graph, and persists the result as a new build row. Per-file parse
// failures are logged and the file is omitted from the graph rather than
// aborting the whole run (spec §7's ParseError is non-fatal by design).
func (p *Pipeline) Run(ctx context.Context, projectID uuid.UUID, rootPath string) (*store.Build, error) {
	build, err := p.store.CreateBuild(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create build: %w", err)
	}

	g, fileCount, err := p.parseProject(ctx, rootPath)
	if err != nil {
		_ = p.store.FailBuild(ctx, build.ID, err)
		return nil, err
	}
	if fileCount == 0 {
		ferr := fmt.Errorf("no source files found under %s", rootPath)
		_ = p.store.FailBuild(ctx, build.ID, ferr)
		return nil, ferr
	}

	if err := p.store.CompleteBuild(ctx, build.ID, g); err != nil {
		_ = p.store.FailBuild(ctx, build.ID, err)
		return nil, fmt.Errorf("persist build: %w", err)
	}

	if p.mirror != nil {
		if err := p.mirror.SyncGraph(ctx, build.ID.String(), g); err != nil {
			p.logger.Error("mirror sync failed", slog.String("error", err.Error()), slog.String("build_id", build.ID.String()))
		}
	}
	if p.embedder != nil {
		if _, err := embedding.EmbedGraph(ctx, p.embedder, p.store, build.ID, g, p.logger); err != nil {
			p.logger.Error("embedding failed", slog.String("error", err.Error()), slog.String("build_id", build.ID.String()))
		}
	}

	p.logger.Info("build complete",
		slog.String("build_id", build.ID.String()),
		slog.Int("files", fileCount),
		slog.Int("symbols", g.SymbolCount()),
		slog.Int("edges", g.EdgeCount()))

	return p.store.GetBuild(ctx, build.ID)
}

func (p *Pipeline) parseProject(ctx context.Context, rootPath string) (*graph.Graph, int, error) {
	files, err := p.walker.ReadAll(ctx, rootPath)
	if err != nil {
		return nil, 0, fmt.Errorf("walk %s: %w", rootPath, err)
	}

	builder := graph.NewBuilder(p.logger)
	parsed := 0
	for _, f := range files {
		pf, err := p.registry.ParseFile(parser.FileInput{
			AbsolutePath: f.AbsolutePath,
			RelativePath: f.RelativePath,
			Content:      f.Content,
		})
		if err != nil {
			p.logger.Warn("parse failed, skipping file",
				slog.String("file", f.RelativePath), slog.String("error", err.Error()))
			continue
		}
		builder.Add(pf)
		parsed++
	}

	return builder.Build(), parsed, nil
}
