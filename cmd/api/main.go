package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/depgraph-dev/depgraph/internal/api"
	"github.com/depgraph-dev/depgraph/internal/auth"
	"github.com/depgraph-dev/depgraph/internal/config"
	"github.com/depgraph-dev/depgraph/internal/embedding"
	"github.com/depgraph-dev/depgraph/internal/ingestion"
	"github.com/depgraph-dev/depgraph/internal/mirror"
	"github.com/depgraph-dev/depgraph/internal/parser"
	"github.com/depgraph-dev/depgraph/internal/store"
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

	ctx := context.Background()
	pool, err := store.NewPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	s := store.New(pool)
	if err := s.Migrate(ctx); err != nil {
		logger.Error("migration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	registry := parser.DefaultRegistry()

	// Neo4j mirror (optional)
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

	// Embeddings (auto-selects: OpenRouter > Bedrock > disabled)
	embedder, err := embedding.NewEmbedder(cfg)
	if err != nil {
		logger.Warn("embedder init failed, semantic search disabled", slog.String("error", err.Error()))
		embedder = nil
	} else if embedder != nil {
		logger.Info("embeddings enabled", slog.String("provider", fmt.Sprintf("%T", embedder)), slog.String("model", embedder.ModelID()))
	}

	pipeline := ingestion.NewPipeline(registry, s, mirrorClient, embedder, logger)

	// Auth (dev mode when no issuer is configured)
	var verifier *auth.Verifier
	if cfg.Auth.IssuerURL != "" {
		verifier, err = auth.NewVerifier(ctx, cfg.Auth.IssuerURL, cfg.Auth.Audience)
		if err != nil {
			logger.Error("failed to init OIDC verifier", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("OIDC auth enabled", slog.String("issuer", cfg.Auth.IssuerURL))
	}

	router := api.NewRouter(api.Deps{
		Logger:   logger,
		Pool:     pool,
		Store:    s,
		Pipeline: pipeline,
		Verifier: verifier,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting API server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-shutdownCtx.Done()
	logger.Info("shutting down server")

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(timeoutCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
