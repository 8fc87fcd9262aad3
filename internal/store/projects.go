package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Project is a registered codebase root that builds run against.
type Project struct {
	ID        uuid.UUID
	Name      string
	RootPath  string
	CreatedAt time.Time
}

// CreateProject inserts a new project and returns it with its generated ID.
func (s *Store) CreateProject(ctx context.Context, name, rootPath string) (*Project, error) {
	var p Project
	err := s.pool.QueryRow(ctx,
		`INSERT INTO projects (name, root_path) VALUES ($1, $2)
		 RETURNING id, name, root_path, created_at`,
		name, rootPath,
	).Scan(&p.ID, &p.Name, &p.RootPath, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProject looks up a project by id.
func (s *Store) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	var p Project
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, root_path, created_at FROM projects WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.RootPath, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjects returns every registered project, newest first.
func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, root_path, created_at FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.RootPath, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// DeleteProject removes a project and (via ON DELETE CASCADE) every build
// and embedding row that belongs to it.
func (s *Store) DeleteProject(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}
