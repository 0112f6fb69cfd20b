package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/folio-labs/portfolio-backend/internal/projects/domain"
)

// MemoryRepository keeps projects in process memory. It backs STORE_DRIVER=memory
// and serves as the store double in tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	items  map[int64]domain.Project
	nextID int64
	now    func() time.Time
}

// NewMemoryRepository creates an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items:  make(map[int64]domain.Project),
		nextID: 1,
		now:    time.Now,
	}
}

// WithClock replaces the timestamp source.
func (r *MemoryRepository) WithClock(now func() time.Time) *MemoryRepository {
	r.now = now
	return r
}

func (r *MemoryRepository) FindOne(ctx context.Context, id int64) (*domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(p), nil
}

func (r *MemoryRepository) FindAll(ctx context.Context) ([]domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Project, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, *clone(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) Insert(ctx context.Context, fields domain.ProjectFields) (*domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	p := apply(domain.Project{ID: r.nextID, CreatedAt: now}, fields, now)
	r.items[p.ID] = p
	r.nextID++
	return clone(p), nil
}

func (r *MemoryRepository) Update(ctx context.Context, id int64, fields domain.ProjectFields) (*domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p := apply(existing, fields, r.now().UTC())
	r.items[id] = p
	return clone(p), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int64) (*domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(r.items, id)
	return clone(p), nil
}

// Count returns the number of stored projects.
func (r *MemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *MemoryRepository) Ping(ctx context.Context) error { return ctx.Err() }

func (r *MemoryRepository) Close() error { return nil }

func apply(p domain.Project, f domain.ProjectFields, updatedAt time.Time) domain.Project {
	p.Title = f.Title
	p.Description = f.Description
	p.ImageURL = f.ImageURL
	p.ProjectURL = f.ProjectURL
	p.GithubURL = f.GithubURL
	p.Technologies = copyStrings(f.Technologies)
	p.UpdatedAt = updatedAt
	return p
}

func clone(p domain.Project) *domain.Project {
	c := p
	c.Technologies = copyStrings(p.Technologies)
	c.ImageURL = copyString(p.ImageURL)
	c.ProjectURL = copyString(p.ProjectURL)
	c.GithubURL = copyString(p.GithubURL)
	return &c
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
