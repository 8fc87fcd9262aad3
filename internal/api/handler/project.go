package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/depgraph-dev/depgraph/internal/store"
	"github.com/depgraph-dev/depgraph/pkg/apierr"
)

type ProjectHandler struct {
	logger *slog.Logger
	store  *store.Store
}

func NewProjectHandler(logger *slog.Logger, s *store.Store) *ProjectHandler {
	return &ProjectHandler{logger: logger, store: s}
}

type createProjectRequest struct {
	Name     string `json:"name"`
	RootPath string `json:"rootPath"`
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		writeAPIError(w, h.logger, apiErr)
		return
	}
	if req.Name == "" || req.RootPath == "" {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	p, err := h.store.CreateProject(r.Context(), req.Name, req.RootPath)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.ListProjects(r.Context())
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, h.logger, r, "projectID")
	if !ok {
		return
	}
	p, err := h.store.GetProject(r.Context(), id)
	if err != nil {
		writeAPIError(w, h.logger, apierr.ProjectNotFound(id.String()))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, h.logger, r, "projectID")
	if !ok {
		return
	}
	if err := h.store.DeleteProject(r.Context(), id); err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseUUIDParam(w http.ResponseWriter, logger *slog.Logger, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeAPIError(w, logger, apierr.InvalidRequestBody())
		return uuid.UUID{}, false
	}
	return id, true
}
