package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/depgraph-dev/depgraph/internal/discover"
	"github.com/depgraph-dev/depgraph/internal/graph"
	"github.com/depgraph-dev/depgraph/internal/parser"
	"github.com/depgraph-dev/depgraph/internal/store"
)

// Indexer holds one project's live graph.Updater in memory, for the
// incremental path (spec §4.E / watch mode): re-parsing a changed file
// drops its old contribution and rebuilds, without re-walking the whole
// project tree. It is seeded once by its own full walk and parse
// (NewIndexer) and then fed
// file-change events for the lifetime of a watch session or queue worker.
type Indexer struct {
	projectRoot string
	buildID     uuid.UUID
	registry    *parser.Registry
	walker      *discover.Walker
	updater     *graph.Updater
	store       *store.Store
	logger      *slog.Logger
}

// NewIndexer seeds an Indexer by walking and parsing the whole project once.
func NewIndexer(ctx context.Context, registry *parser.Registry, s *store.Store, projectRoot string, buildID uuid.UUID, logger *slog.Logger) (*Indexer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	walker := discover.NewWalker(registry.Extensions())
	files, err := walker.ReadAll(ctx, projectRoot)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", projectRoot, err)
	}

	updater := graph.NewUpdater(logger)
	var parsedFiles []*parser.ParsedFile
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
		parsedFiles = append(parsedFiles, pf)
	}
	updater.Seed(parsedFiles)

	return &Indexer{
		projectRoot: projectRoot,
		buildID:     buildID,
		registry:    registry,
		walker:      walker,
		updater:     updater,
		store:       s,
		logger:      logger,
	}, nil
}

// UpdateFile re-parses one changed file, rebuilds the graph, and persists
// the new snapshot over the same build row.
func (ix *Indexer) UpdateFile(ctx context.Context, relPath string) error {
	f, err := ix.walker.Read(ctx, ix.projectRoot, relPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", relPath, err)
	}
	pf, err := ix.registry.ParseFile(parser.FileInput{
		AbsolutePath: f.AbsolutePath,
		RelativePath: f.RelativePath,
		Content:      f.Content,
	})
	if err != nil {
		return fmt.Errorf("parse %s: %w", relPath, err)
	}

	g := ix.updater.Update(pf)
	if err := ix.store.CompleteBuild(ctx, ix.buildID, g); err != nil {
		return fmt.Errorf("persist updated build: %w", err)
	}
	ix.logger.Info("file updated", slog.String("file", relPath),
		slog.Int("symbols", g.SymbolCount()), slog.Int("edges", g.EdgeCount()))
	return nil
}

// RemoveFile drops a deleted file's contribution and persists the rebuilt
// graph.
func (ix *Indexer) RemoveFile(ctx context.Context, relPath string) error {
	g := ix.updater.Remove(relPath)
	if err := ix.store.CompleteBuild(ctx, ix.buildID, g); err != nil {
		return fmt.Errorf("persist updated build: %w", err)
	}
	ix.logger.Info("file removed", slog.String("file", relPath),
		slog.Int("symbols", g.SymbolCount()), slog.Int("edges", g.EdgeCount()))
	return nil
}
