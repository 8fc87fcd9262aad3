package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/depgraph-dev/depgraph/internal/graph"
)

type BuildStatus string

const (
	BuildPending BuildStatus = "pending"
	BuildRunning BuildStatus = "running"
	BuildSucceeded BuildStatus = "succeeded"
	BuildFailed  BuildStatus = "failed"
)

// Build is one graph-build run against a project's sources.
type Build struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	Status      BuildStatus
	Error       *string
	FileCount   int
	SymbolCount int
	EdgeCount   int
	StartedAt   time.Time
	FinishedAt  *time.Time
}

// CreateBuild inserts a pending build row for a project.
func (s *Store) CreateBuild(ctx context.Context, projectID uuid.UUID) (*Build, error) {
	var b Build
	err := s.pool.QueryRow(ctx,
		`INSERT INTO builds (project_id, status) VALUES ($1, $2)
		 RETURNING id, project_id, status, error, file_count, symbol_count, edge_count, started_at, finished_at`,
		projectID, BuildPending,
	).Scan(&b.ID, &b.ProjectID, &b.Status, &b.Error, &b.FileCount, &b.SymbolCount, &b.EdgeCount, &b.StartedAt, &b.FinishedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBuild looks up a build by id.
func (s *Store) GetBuild(ctx context.Context, id uuid.UUID) (*Build, error) {
	var b Build
	err := s.pool.QueryRow(ctx,
		`SELECT id, project_id, status, error, file_count, symbol_count, edge_count, started_at, finished_at
		 FROM builds WHERE id = $1`, id,
	).Scan(&b.ID, &b.ProjectID, &b.Status, &b.Error, &b.FileCount, &b.SymbolCount, &b.EdgeCount, &b.StartedAt, &b.FinishedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBuilds returns every build for a project, most recent first.
func (s *Store) ListBuilds(ctx context.Context, projectID uuid.UUID) ([]Build, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, project_id, status, error, file_count, symbol_count, edge_count, started_at, finished_at
		 FROM builds WHERE project_id = $1 ORDER BY started_at DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Build
	for rows.Next() {
		var b Build
		if err := rows.Scan(&b.ID, &b.ProjectID, &b.Status, &b.Error, &b.FileCount, &b.SymbolCount, &b.EdgeCount, &b.StartedAt, &b.FinishedAt); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

// CompleteBuild stores the finished graph's snapshot and counts, marking the
// build succeeded. The snapshot is g's Export JSON — builds.graph_json is
// the only durable copy of a build's graph; internal/mirror holds an
// optional, disposable projection of the same data.
func (s *Store) CompleteBuild(ctx context.Context, id uuid.UUID, g *graph.Graph) error {
	snapshot, err := graph.Export(g)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`UPDATE builds
		 SET status = $2, file_count = $3, symbol_count = $4, edge_count = $5,
		     graph_json = $6, finished_at = now()
		 WHERE id = $1`,
		id, BuildSucceeded, len(g.Files()), g.SymbolCount(), g.EdgeCount(), snapshot)
	return err
}

// FailBuild marks a build failed with the given error message.
func (s *Store) FailBuild(ctx context.Context, id uuid.UUID, cause error) error {
	msg := cause.Error()
	_, err := s.pool.Exec(ctx,
		`UPDATE builds SET status = $2, error = $3, finished_at = now() WHERE id = $1`,
		id, BuildFailed, msg)
	return err
}

// LoadGraph reconstructs the Graph persisted for a succeeded build.
func (s *Store) LoadGraph(ctx context.Context, id uuid.UUID) (*graph.Graph, error) {
	var snapshot []byte
	err := s.pool.QueryRow(ctx, `SELECT graph_json FROM builds WHERE id = $1`, id).Scan(&snapshot)
	if err != nil {
		return nil, err
	}
	return graph.Import(snapshot)
}
