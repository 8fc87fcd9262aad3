package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/depgraph-dev/depgraph/internal/query"
	"github.com/depgraph-dev/depgraph/internal/store"
	"github.com/depgraph-dev/depgraph/pkg/apierr"
)

// QueryHandler answers the read-only graph queries (spec §4.F) against one
// build's persisted graph. Each request loads the build's graph fresh from
// storage rather than caching an Engine — depgraph's builds are small
// enough that LoadGraph is cheap, and this keeps a handler from ever
// serving a stale graph after a new build completes.
type QueryHandler struct {
	logger *slog.Logger
	store  *store.Store
}

func NewQueryHandler(logger *slog.Logger, s *store.Store) *QueryHandler {
	return &QueryHandler{logger: logger, store: s}
}

func (h *QueryHandler) engineFor(w http.ResponseWriter, r *http.Request) *query.Engine {
	id, ok := parseUUIDParam(w, h.logger, r, "buildID")
	if !ok {
		return nil
	}
	g, err := h.store.LoadGraph(r.Context(), id)
	if err != nil {
		writeAPIError(w, h.logger, apierr.BuildNotFound(id.String()))
		return nil
	}
	return query.NewEngine(g)
}

func (h *QueryHandler) FindSymbols(w http.ResponseWriter, r *http.Request) {
	e := h.engineFor(w, r)
	if e == nil {
		return
	}
	name := r.URL.Query().Get("name")
	writeJSON(w, http.StatusOK, e.FindSymbols(name))
}

func (h *QueryHandler) SearchSymbols(w http.ResponseWriter, r *http.Request) {
	e := h.engineFor(w, r)
	if e == nil {
		return
	}
	q := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, e.SearchSymbols(q))
}

func (h *QueryHandler) GetDependencies(w http.ResponseWriter, r *http.Request) {
	e := h.engineFor(w, r)
	if e == nil {
		return
	}
	writeJSON(w, http.StatusOK, e.GetDependencies(chi.URLParam(r, "symbolID")))
}

func (h *QueryHandler) GetDependents(w http.ResponseWriter, r *http.Request) {
	e := h.engineFor(w, r)
	if e == nil {
		return
	}
	writeJSON(w, http.StatusOK, e.GetDependents(chi.URLParam(r, "symbolID")))
}

func (h *QueryHandler) GetImpact(w http.ResponseWriter, r *http.Request) {
	e := h.engineFor(w, r)
	if e == nil {
		return
	}
	changeType := query.ChangeType(r.URL.Query().Get("changeType"))
	if changeType == "" {
		changeType = query.ChangeModify
	}
	maxDepth, _ := strconv.Atoi(r.URL.Query().Get("maxDepth"))

	result, err := e.GetImpact(chi.URLParam(r, "symbolID"), changeType, maxDepth)
	if err != nil {
		writeAPIError(w, h.logger, apierr.UnknownSymbol(chi.URLParam(r, "symbolID")))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *QueryHandler) GetCrossFileEdges(w http.ResponseWriter, r *http.Request) {
	e := h.engineFor(w, r)
	if e == nil {
		return
	}
	writeJSON(w, http.StatusOK, e.GetCrossFileEdges())
}

func (h *QueryHandler) GetFileSummary(w http.ResponseWriter, r *http.Request) {
	e := h.engineFor(w, r)
	if e == nil {
		return
	}
	filePath := r.URL.Query().Get("path")
	writeJSON(w, http.StatusOK, e.GetFileSummary(filePath))
}

func (h *QueryHandler) GetArchitectureSummary(w http.ResponseWriter, r *http.Request) {
	e := h.engineFor(w, r)
	if e == nil {
		return
	}
	writeJSON(w, http.StatusOK, e.GetArchitectureSummary())
}
