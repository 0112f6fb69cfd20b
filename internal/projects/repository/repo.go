package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/folio-labs/portfolio-backend/internal/projects/domain"
)

// ProjectRepository provides PostgreSQL persistence for projects
type ProjectRepository struct {
	db *pgxpool.Pool
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, title, description, image_url, project_url, github_url, technologies, created_at, updated_at`

// FindOne returns the project with the given id.
func (r *ProjectRepository) FindOne(ctx context.Context, id int64) (*domain.Project, error) {
	const q = `
select ` + projectColumns + `
from projects
where id = $1;
`
	p, err := scanProject(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapPgError("find project", err)
	}
	return p, nil
}

// FindAll returns every project, newest first.
func (r *ProjectRepository) FindAll(ctx context.Context) ([]domain.Project, error) {
	const q = `
select ` + projectColumns + `
from projects
order by created_at desc, id desc;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, wrapPgError("list projects", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, wrapPgError("scan project", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgError("list projects", err)
	}
	return out, nil
}

// Insert creates a project; id and timestamps are assigned by the database.
func (r *ProjectRepository) Insert(ctx context.Context, f domain.ProjectFields) (*domain.Project, error) {
	const q = `
insert into projects (title, description, image_url, project_url, github_url, technologies)
values ($1, $2, $3, $4, $5, $6)
returning ` + projectColumns + `;
`
	p, err := scanProject(r.db.QueryRow(ctx, q,
		f.Title, f.Description, f.ImageURL, f.ProjectURL, f.GithubURL, technologies(f.Technologies)))
	if err != nil {
		return nil, wrapPgError("insert project", err)
	}
	return p, nil
}

// Update overwrites the writable fields and refreshes updated_at.
func (r *ProjectRepository) Update(ctx context.Context, id int64, f domain.ProjectFields) (*domain.Project, error) {
	const q = `
update projects
set title = $2, description = $3, image_url = $4, project_url = $5, github_url = $6,
    technologies = $7, updated_at = now()
where id = $1
returning ` + projectColumns + `;
`
	p, err := scanProject(r.db.QueryRow(ctx, q,
		id, f.Title, f.Description, f.ImageURL, f.ProjectURL, f.GithubURL, technologies(f.Technologies)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapPgError("update project", err)
	}
	return p, nil
}

// Delete removes the row and returns it.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) (*domain.Project, error) {
	const q = `
delete from projects
where id = $1
returning ` + projectColumns + `;
`
	p, err := scanProject(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapPgError("delete project", err)
	}
	return p, nil
}

func (r *ProjectRepository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return wrapPgError("ping", err)
	}
	return nil
}

func (r *ProjectRepository) Close() error {
	r.db.Close()
	return nil
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	if err := row.Scan(
		&p.ID, &p.Title, &p.Description,
		&p.ImageURL, &p.ProjectURL, &p.GithubURL,
		&p.Technologies, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	return &p, nil
}

// technologies keeps an empty list from being sent as SQL NULL.
func technologies(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

// wrapPgError marks connectivity problems as ErrStoreUnavailable so the
// service can tell them apart from constraint violations.
func wrapPgError(op string, err error) error {
	var connErr *pgconn.ConnectError
	if pgconn.Timeout(err) || errors.As(err, &connErr) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %s (%s): %w", op, pgErr.Message, pgErr.Code, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
