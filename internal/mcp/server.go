package mcp

import (
	"log/slog"

	"github.com/depgraph-dev/depgraph/internal/store"
)

// Server holds the infrastructure depgraph's MCP tool handlers share. Each
// tool call loads its own query.Engine from the requested build rather than
// caching one server-side, matching internal/api/handler/query.go's
// always-fresh-from-storage approach.
type Server struct {
	Store  *store.Store
	Logger *slog.Logger
}

type ServerDeps struct {
	Store  *store.Store
	Logger *slog.Logger
}

func NewServer(deps ServerDeps) *Server {
	return &Server{Store: deps.Store, Logger: deps.Logger}
}
