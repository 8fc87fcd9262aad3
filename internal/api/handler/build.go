package handler

import (
	"log/slog"
	"net/http"

	"github.com/depgraph-dev/depgraph/internal/graph"
	"github.com/depgraph-dev/depgraph/internal/ingestion"
	"github.com/depgraph-dev/depgraph/internal/store"
	"github.com/depgraph-dev/depgraph/pkg/apierr"
)

// BuildHandler triggers and inspects graph builds. The build itself runs
// synchronously in the request goroutine — depgraph's builds are a local
// filesystem walk plus an in-memory graph pass, fast enough not to need
// the async queue; internal/ingestion's queue exists for watch-mode
// incremental updates instead (spec §4.F).
type BuildHandler struct {
	logger   *slog.Logger
	store    *store.Store
	pipeline *ingestion.Pipeline
}

func NewBuildHandler(logger *slog.Logger, s *store.Store, pipeline *ingestion.Pipeline) *BuildHandler {
	return &BuildHandler{logger: logger, store: s, pipeline: pipeline}
}

func (h *BuildHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, h.logger, r, "projectID")
	if !ok {
		return
	}

	project, err := h.store.GetProject(r.Context(), projectID)
	if err != nil {
		writeAPIError(w, h.logger, apierr.ProjectNotFound(projectID.String()))
		return
	}

	build, err := h.pipeline.Run(r.Context(), project.ID, project.RootPath)
	if err != nil {
		writeAPIError(w, h.logger, apierr.BuildFailed(err))
		return
	}
	writeJSON(w, http.StatusCreated, build)
}

func (h *BuildHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, h.logger, r, "projectID")
	if !ok {
		return
	}
	builds, err := h.store.ListBuilds(r.Context(), projectID)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}
	writeJSON(w, http.StatusOK, builds)
}

func (h *BuildHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, h.logger, r, "buildID")
	if !ok {
		return
	}
	b, err := h.store.GetBuild(r.Context(), id)
	if err != nil {
		writeAPIError(w, h.logger, apierr.BuildNotFound(id.String()))
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Export returns the build's graph as the spec §1 JSON round-trip format
// (graph.Export's own output, already the wire shape).
func (h *BuildHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, h.logger, r, "buildID")
	if !ok {
		return
	}
	g, err := h.store.LoadGraph(r.Context(), id)
	if err != nil {
		writeAPIError(w, h.logger, apierr.BuildNotFound(id.String()))
		return
	}
	data, err := graph.Export(g)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
