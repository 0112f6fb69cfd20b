package service

import (
	"context"

	"github.com/folio-labs/portfolio-backend/internal/projects/domain"
)

// Store is the persistence boundary for projects.
//
// FindOne reports a missing record with domain.ErrNotFound. FindAll returns
// records newest first by creation time. Update and Delete are only called
// after FindOne confirmed the record exists.
type Store interface {
	FindOne(ctx context.Context, id int64) (*domain.Project, error)
	FindAll(ctx context.Context) ([]domain.Project, error)
	Insert(ctx context.Context, fields domain.ProjectFields) (*domain.Project, error)
	Update(ctx context.Context, id int64, fields domain.ProjectFields) (*domain.Project, error)
	Delete(ctx context.Context, id int64) (*domain.Project, error)
	Ping(ctx context.Context) error
	Close() error
}
