package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/folio-labs/portfolio-backend/internal/logging"
	"github.com/folio-labs/portfolio-backend/internal/projects/domain"
	"github.com/folio-labs/portfolio-backend/internal/projects/validation"
)

const DefaultStoreTimeout = 5 * time.Second

// ProjectService handles project-related business logic
type ProjectService struct {
	store   Store
	timeout time.Duration
}

// NewProjectService creates a new project service. Every store call is bounded
// by timeout; a non-positive value falls back to DefaultStoreTimeout.
func NewProjectService(store Store, timeout time.Duration) *ProjectService {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &ProjectService{
		store:   store,
		timeout: timeout,
	}
}

// ParseID converts a path parameter into a project id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q", domain.ErrInvalidID, raw)
	}
	return id, nil
}

// List returns all projects, newest first
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	var items []domain.Project
	err := s.call(ctx, "list_projects", func(ctx context.Context) (err error) {
		items, err = s.store.FindAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Project{}
	}
	return items, nil
}

// Create validates the payload and inserts a new project
func (s *ProjectService) Create(ctx context.Context, p *domain.Payload) (*domain.Project, error) {
	techs, ok := p.TechnologyList()
	if !ok {
		return nil, domain.ErrTechnologiesNotList
	}

	if err := validation.Validate(validation.FromPayload(p)).Err(); err != nil {
		return nil, err
	}

	fields := domain.ProjectFields{
		Title:        p.Title.Value,
		Description:  p.Description.Value,
		ImageURL:     p.ImageURL.Ptr(),
		ProjectURL:   p.ProjectURL.Ptr(),
		GithubURL:    p.GithubURL.Ptr(),
		Technologies: techs,
	}

	var created *domain.Project
	err := s.call(ctx, "create_project", func(ctx context.Context) (err error) {
		created, err = s.store.Insert(ctx, fields)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get returns a single project
func (s *ProjectService) Get(ctx context.Context, rawID string) (*domain.Project, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, "get_project", id)
}

// Update merges the supplied fields into an existing project
func (s *ProjectService) Update(ctx context.Context, rawID string, p *domain.Payload) (*domain.Project, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidatePatch(p).Err(); err != nil {
		return nil, err
	}

	existing, err := s.find(ctx, "update_project", id)
	if err != nil {
		return nil, err
	}

	fields := merge(existing, p)

	var updated *domain.Project
	err = s.call(ctx, "update_project", func(ctx context.Context) (err error) {
		updated, err = s.store.Update(ctx, id, fields)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete hard-deletes a project and returns the removed record
func (s *ProjectService) Delete(ctx context.Context, rawID string) (*domain.Project, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}

	if _, err := s.find(ctx, "delete_project", id); err != nil {
		return nil, err
	}

	var removed *domain.Project
	err = s.call(ctx, "delete_project", func(ctx context.Context) (err error) {
		removed, err = s.store.Delete(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// Ping checks that the store is reachable. Health checks are not counted in
// the store-call metrics.
func (s *ProjectService) Ping(ctx context.Context) error {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.Ping(cctx); err != nil {
		return fmt.Errorf("ping_store: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *ProjectService) find(ctx context.Context, op string, id int64) (*domain.Project, error) {
	var p *domain.Project
	err := s.call(ctx, op, func(ctx context.Context) (err error) {
		p, err = s.store.FindOne(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// merge applies a partial update: every present field overwrites, except
// technologies which only overwrite when supplied as a proper array.
func merge(existing *domain.Project, p *domain.Payload) domain.ProjectFields {
	fields := existing.Fields()

	if p.Title.Set {
		fields.Title = p.Title.Value
	}
	if p.Description.Set {
		fields.Description = p.Description.Value
	}
	if p.ImageURL.Set {
		fields.ImageURL = p.ImageURL.Ptr()
	}
	if p.ProjectURL.Set {
		fields.ProjectURL = p.ProjectURL.Ptr()
	}
	if p.GithubURL.Set {
		fields.GithubURL = p.GithubURL.Ptr()
	}
	if techs, ok := p.TechnologyList(); ok {
		fields.Technologies = techs
	}
	return fields
}

// call runs fn under the store timeout and converts its error into the
// domain taxonomy. Not-found passes through unchanged.
func (s *ProjectService) call(ctx context.Context, op string, fn func(context.Context) error) error {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := fn(cctx)
	duration := time.Since(start)

	if err == nil || errors.Is(err, domain.ErrNotFound) {
		recordStoreCall(duration, nil, false)
		return err
	}

	logger := logging.NewLogger(ctx)
	timedOut := errors.Is(err, context.DeadlineExceeded) || errors.Is(cctx.Err(), context.DeadlineExceeded)
	recordStoreCall(duration, err, timedOut)

	if timedOut || errors.Is(err, domain.ErrStoreUnavailable) {
		logger.LogErrorf(op, "store unavailable after %s: %v", duration, err)
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	}

	logger.LogError(op, err)
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreFailure, err)
}
