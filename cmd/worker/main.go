package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/depgraph-dev/depgraph/internal/config"
	"github.com/depgraph-dev/depgraph/internal/embedding"
	"github.com/depgraph-dev/depgraph/internal/ingestion"
	"github.com/depgraph-dev/depgraph/internal/mirror"
	"github.com/depgraph-dev/depgraph/internal/parser"
	"github.com/depgraph-dev/depgraph/internal/store"
	vk "github.com/depgraph-dev/depgraph/internal/store/valkey"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := store.NewPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")
	s := store.New(pool)

	vkClient, err := vk.NewClient(cfg.Valkey)
	if err != nil {
		logger.Error("failed to connect to valkey", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer vkClient.Close()
	logger.Info("connected to valkey")

	var mirrorClient *mirror.Client
	mc, err := mirror.NewClient(cfg.Neo4j)
	if err != nil {
		logger.Warn("neo4j connection failed, lineage mirror disabled", slog.String("error", err.Error()))
	} else if verr := mc.Verify(ctx); verr != nil {
		logger.Warn("neo4j unreachable, lineage mirror disabled", slog.String("error", verr.Error()))
	} else {
		mirrorClient = mc
		defer mc.Close(ctx)
		logger.Info("connected to neo4j")
	}

	embedder, err := embedding.NewEmbedder(cfg)
	if err != nil {
		logger.Warn("embedder init failed, embedding disabled", slog.String("error", err.Error()))
		embedder = nil
	} else if embedder != nil {
		logger.Info("embeddings enabled", slog.String("model", embedder.ModelID()))
	}

	registry := parser.DefaultRegistry()
	pipeline := ingestion.NewPipeline(registry, s, mirrorClient, embedder, logger)

	consumer := ingestion.NewConsumer(vkClient, "worker-1", logger)
	worker := ingestion.NewWorker(consumer, registry, s, pipeline, logger)

	logger.Info("starting worker, consuming from stream", slog.String("stream", ingestion.StreamName))
	if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("worker error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("worker stopped")
}
