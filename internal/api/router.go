// Package api wires depgraph's HTTP surface together: chi routing, auth
// middleware selection, and the handler set, grounded on the teacher's
// internal/api/router.go wiring shape — generalized from its
// GraphQL/REST hybrid gateway down to the plain REST surface spec.md's
// DOMAIN STACK calls for (project/build CRUD plus the query engine).
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/depgraph-dev/depgraph/internal/api/handler"
	"github.com/depgraph-dev/depgraph/internal/auth"
	"github.com/depgraph-dev/depgraph/internal/ingestion"
	"github.com/depgraph-dev/depgraph/internal/store"
)

// Deps bundles everything a handler needs, already constructed by cmd/api's
// main. Verifier is nil in dev mode (AUTH_ISSUER_URL unset), which selects
// auth.DevModeMiddleware instead of auth.RequireAuth.
type Deps struct {
	Logger   *slog.Logger
	Pool     *pgxpool.Pool
	Store    *store.Store
	Pipeline *ingestion.Pipeline
	Verifier *auth.Verifier
}

// NewRouter builds the full chi router.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(d.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	health := handler.NewHealthHandler(d.Pool)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	authMiddleware := authMiddlewareFor(d)

	r.Route("/v1", func(r chi.Router) {
		r.Use(authMiddleware)

		projects := handler.NewProjectHandler(d.Logger, d.Store)
		builds := handler.NewBuildHandler(d.Logger, d.Store, d.Pipeline)

		r.Route("/projects", func(r chi.Router) {
			r.Post("/", projects.Create)
			r.Get("/", projects.List)
			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", projects.Get)
				r.Delete("/", projects.Delete)
				r.Post("/builds", builds.Create)
				r.Get("/builds", builds.List)
			})
		})

		queryHandler := handler.NewQueryHandler(d.Logger, d.Store)
		r.Route("/builds/{buildID}", func(r chi.Router) {
			r.Get("/", builds.Get)
			r.Get("/export", builds.Export)
			r.Get("/symbols", queryHandler.FindSymbols)
			r.Get("/symbols/search", queryHandler.SearchSymbols)
			r.Get("/summary", queryHandler.GetArchitectureSummary)
			r.Get("/files/summary", queryHandler.GetFileSummary)
			r.Get("/edges/cross-file", queryHandler.GetCrossFileEdges)
			r.Get("/symbols/{symbolID}/dependencies", queryHandler.GetDependencies)
			r.Get("/symbols/{symbolID}/dependents", queryHandler.GetDependents)
			r.Get("/symbols/{symbolID}/impact", queryHandler.GetImpact)
		})
	})

	return r
}

func authMiddlewareFor(d Deps) func(http.Handler) http.Handler {
	if d.Verifier == nil {
		return auth.DevModeMiddleware(d.Logger)
	}
	return auth.RequireAuth(d.Verifier, d.Logger)
}

// requestLogger emits one structured log line per request, grounded on the
// teacher's slog-based access log rather than chi's default text logger.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
