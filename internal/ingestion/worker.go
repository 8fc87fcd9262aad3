package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/depgraph-dev/depgraph/internal/parser"
	"github.com/depgraph-dev/depgraph/internal/store"
)

// Worker drains the re-index queue and applies each job via a Pipeline
// (full rebuild) or a cached Indexer (single-file incremental update),
// adapted from the teacher's ParseWorker — trimmed of its Valkey-counter
// chunk-completion signaling since depgraph's jobs are already
// one-job-per-file rather than a fan-out of parse chunks awaiting a
// resume message.
type Worker struct {
	consumer *Consumer
	registry *parser.Registry
	store    *store.Store
	pipeline *Pipeline
	logger   *slog.Logger

	mu       sync.Mutex
	indexers map[string]*Indexer // keyed by buildID string
}

func NewWorker(consumer *Consumer, registry *parser.Registry, s *store.Store, pipeline *Pipeline, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		consumer: consumer,
		registry: registry,
		store:    s,
		pipeline: pipeline,
		logger:   logger,
		indexers: make(map[string]*Indexer),
	}
}

// Run blocks, consuming jobs until ctx is canceled.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.consumer.EnsureGroup(ctx); err != nil {
		return fmt.Errorf("ensure consumer group: %w", err)
	}
	return w.consumer.Consume(ctx, w.handle)
}

func (w *Worker) handle(ctx context.Context, job ReindexJob) error {
	if job.RelPath == "" && !job.Removed {
		_, err := w.pipeline.Run(ctx, job.ProjectID, job.RootPath)
		return err
	}

	ix, err := w.indexerFor(ctx, job)
	if err != nil {
		return err
	}
	if job.Removed {
		return ix.RemoveFile(ctx, job.RelPath)
	}
	return ix.UpdateFile(ctx, job.RelPath)
}

func (w *Worker) indexerFor(ctx context.Context, job ReindexJob) (*Indexer, error) {
	key := job.BuildID.String()

	w.mu.Lock()
	defer w.mu.Unlock()

	if ix, ok := w.indexers[key]; ok {
		return ix, nil
	}

	ix, err := NewIndexer(ctx, w.registry, w.store, job.RootPath, job.BuildID, w.logger)
	if err != nil {
		return nil, fmt.Errorf("seed indexer for build %s: %w", key, err)
	}
	w.indexers[key] = ix
	return ix, nil
}
