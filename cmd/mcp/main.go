package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkauth "github.com/modelcontextprotocol/go-sdk/auth"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/modelcontextprotocol/go-sdk/oauthex"

	"github.com/depgraph-dev/depgraph/internal/auth"
	"github.com/depgraph-dev/depgraph/internal/config"
	"github.com/depgraph-dev/depgraph/internal/mcp"
	"github.com/depgraph-dev/depgraph/internal/mcp/tools"
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

	mcp.NewServer(mcp.ServerDeps{Store: s, Logger: logger})

	searchSymbols := tools.NewSearchSymbolsHandler(s, logger)
	getDependencies := tools.NewGetDependenciesHandler(s, logger)
	getDependents := tools.NewGetDependentsHandler(s, logger)
	getImpact := tools.NewGetImpactHandler(s, logger)
	getArchitectureSummary := tools.NewGetArchitectureSummaryHandler(s, logger)

	sdkServer := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "depgraph", Version: "1.0.0"}, nil)

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "search_symbols",
		Description: "Search for symbols by name within a build's graph. Set exact=true for an exact-name match instead of a substring search.",
	}, tools.WrapHandler[tools.SearchSymbolsParams](searchSymbols))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "get_dependencies",
		Description: "List the symbols a given symbol directly depends on.",
	}, tools.WrapHandler[tools.GetDependenciesParams](getDependencies))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "get_dependents",
		Description: "List the symbols that directly depend on a given symbol.",
	}, tools.WrapHandler[tools.GetDependentsParams](getDependents))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "get_impact",
		Description: "Analyze the blast radius of modifying or deleting a symbol: direct and transitive dependents with severity classification.",
	}, tools.WrapHandler[tools.GetImpactParams](getImpact))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "get_architecture_summary",
		Description: "Get project-wide totals (files, symbols, edges) and the set of orphan files with no cross-file edges.",
	}, tools.WrapHandler[tools.GetArchitectureSummaryParams](getArchitectureSummary))

	// Stateless mode: every request gets a pre-initialized temporary
	// session, so a server restart never leaves a client holding a stale
	// session id that would otherwise 404.
	sdkHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return sdkServer },
		&sdkmcp.StreamableHTTPOptions{Stateless: true},
	)

	mux := http.NewServeMux()

	var mcpHandler http.Handler = sdkHandler
	if cfg.Auth.IssuerURL != "" {
		verifier, err := auth.NewVerifier(ctx, cfg.Auth.IssuerURL, cfg.Auth.Audience)
		if err != nil {
			logger.Error("failed to init OIDC verifier for MCP", slog.String("error", err.Error()))
			os.Exit(1)
		}

		resourceMetadataURL := ""
		if cfg.MCP.BaseURL != "" {
			resourceMetadataURL = cfg.MCP.BaseURL + "/.well-known/oauth-protected-resource"
			prm := &oauthex.ProtectedResourceMetadata{
				Resource:               cfg.MCP.BaseURL,
				AuthorizationServers:   []string{cfg.Auth.IssuerURL},
				ScopesSupported:        []string{"openid"},
				BearerMethodsSupported: []string{"header"},
				ResourceName:           "depgraph MCP Server",
			}
			mux.Handle("/.well-known/oauth-protected-resource", sdkauth.ProtectedResourceMetadataHandler(prm))
			logger.Info("RFC 9728 metadata endpoint enabled", slog.String("url", resourceMetadataURL))
		}

		mcpVerifier := auth.NewMCPTokenVerifier(verifier)
		mcpHandler = sdkauth.RequireBearerToken(mcpVerifier, &sdkauth.RequireBearerTokenOptions{
			ResourceMetadataURL: resourceMetadataURL,
		})(sdkHandler)
		logger.Info("MCP OIDC auth enabled", slog.String("issuer", cfg.Auth.IssuerURL))
	} else {
		mcpHandler = auth.DevModeMiddleware(logger)(sdkHandler)
	}

	mux.Handle("/mcp", mcpHandler)
	mux.Handle("/", mcpHandler)

	httpServer := &http.Server{Addr: cfg.MCP.Addr, Handler: mux}

	go func() {
		logger.Info("MCP server listening", slog.String("addr", cfg.MCP.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP HTTP server error", slog.String("error", err.Error()))
		}
	}()

	<-ctx.Done()
	logger.Info("MCP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("MCP HTTP shutdown", slog.String("error", err.Error()))
	}
	logger.Info("MCP server stopped")
}
