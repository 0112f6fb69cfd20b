package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-labs/portfolio-backend/internal/projects/domain"
	"github.com/folio-labs/portfolio-backend/internal/projects/repository"
	"github.com/folio-labs/portfolio-backend/internal/projects/service"
	"github.com/folio-labs/portfolio-backend/internal/projects/validation"
)

const validBody = `{
	"title": "Test Portfolio Website",
	"description": "A test portfolio website built with Next.js",
	"imageUrl": "https://cdn.example.com/test-project.jpg",
	"projectUrl": "https://test-portfolio.vercel.app",
	"githubUrl": "https://github.com/testuser/portfolio",
	"technologies": ["Next.js", "Tailwind CSS", "React"]
}`

func payload(t *testing.T, body string) *domain.Payload {
	t.Helper()
	var p domain.Payload
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return &p
}

func setupService(t *testing.T) (*service.ProjectService, *repository.MemoryRepository) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	return service.NewProjectService(repo, time.Second), repo
}

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("valid payload round-trips", func(t *testing.T) {
		svc, _ := setupService(t)

		p, err := svc.Create(ctx, payload(t, validBody))
		require.NoError(t, err)

		assert.NotZero(t, p.ID)
		assert.Equal(t, "Test Portfolio Website", p.Title)
		assert.Equal(t, "A test portfolio website built with Next.js", p.Description)
		require.NotNil(t, p.ImageURL)
		assert.Equal(t, "https://cdn.example.com/test-project.jpg", *p.ImageURL)
		require.NotNil(t, p.ProjectURL)
		assert.Equal(t, "https://test-portfolio.vercel.app", *p.ProjectURL)
		require.NotNil(t, p.GithubURL)
		assert.Equal(t, "https://github.com/testuser/portfolio", *p.GithubURL)
		assert.Equal(t, []string{"Next.js", "Tailwind CSS", "React"}, p.Technologies)
		assert.False(t, p.CreatedAt.IsZero())
		assert.False(t, p.UpdatedAt.IsZero())
	})

	t.Run("missing optional fields are stored as null", func(t *testing.T) {
		svc, _ := setupService(t)

		p, err := svc.Create(ctx, payload(t, `{"title":"Test Minimal Project","description":"A minimal test project","technologies":["JavaScript"],"imageUrl":""}`))
		require.NoError(t, err)
		assert.Nil(t, p.ImageURL)
		assert.Nil(t, p.ProjectURL)
		assert.Nil(t, p.GithubURL)
	})

	t.Run("whitespace url is stored as null", func(t *testing.T) {
		svc, _ := setupService(t)

		p, err := svc.Create(ctx, payload(t, `{"title":"T","description":"D","technologies":["Go"],"imageUrl":"   ","projectUrl":" \n "}`))
		require.NoError(t, err)
		assert.Nil(t, p.ImageURL)
		assert.Nil(t, p.ProjectURL)

		got, err := svc.Get(ctx, "1")
		require.NoError(t, err)
		assert.Nil(t, got.ImageURL)
	})

	t.Run("technologies not an array is rejected before any write", func(t *testing.T) {
		for _, body := range []string{
			`{"title":"T","description":"D"}`,
			`{"title":"T","description":"D","technologies":"React"}`,
			`{"title":"T","description":"D","technologies":null}`,
			`{"title":"T","description":"D","technologies":[1,2]}`,
		} {
			svc, repo := setupService(t)
			_, err := svc.Create(ctx, payload(t, body))
			assert.ErrorIs(t, err, domain.ErrInvalidInput, body)
			assert.Equal(t, 0, repo.Count(), body)
		}
	})

	t.Run("field rules are enforced server side", func(t *testing.T) {
		svc, repo := setupService(t)

		_, err := svc.Create(ctx, payload(t, `{"description":"Missing title","technologies":[],"githubUrl":"github"}`))
		require.ErrorIs(t, err, domain.ErrInvalidInput)

		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, map[string]string{
			"title":        validation.MsgTitleRequired,
			"technologies": validation.MsgTechnologyRequired,
			"githubUrl":    validation.MsgInvalidURL,
		}, ve.Fields)
		assert.Equal(t, 0, repo.Count())
	})
}

func TestProjectService_List(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	a, err := svc.Create(ctx, payload(t, `{"title":"A","description":"D","technologies":["Go"]}`))
	require.NoError(t, err)
	b, err := svc.Create(ctx, payload(t, `{"title":"B","description":"D","technologies":["Go"]}`))
	require.NoError(t, err)

	items, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, a.ID, items[1].ID)
}

func TestProjectService_Get(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	created, err := svc.Create(ctx, payload(t, validBody))
	require.NoError(t, err)

	got, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.Get(ctx, "99999")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for _, raw := range []string{"abc", "", "1.5", "12abc"} {
		_, err = svc.Get(ctx, raw)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, raw)
	}
}

func TestProjectService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update keeps omitted fields", func(t *testing.T) {
		svc, _ := setupService(t)
		created, err := svc.Create(ctx, payload(t, validBody))
		require.NoError(t, err)

		updated, err := svc.Update(ctx, "1", payload(t, `{"title":"Updated Test Project"}`))
		require.NoError(t, err)

		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Updated Test Project", updated.Title)
		assert.Equal(t, created.Description, updated.Description)
		assert.Equal(t, created.GithubURL, updated.GithubURL)
		assert.Equal(t, created.Technologies, updated.Technologies)
		assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
	})

	t.Run("proper technologies array replaces wholesale", func(t *testing.T) {
		svc, _ := setupService(t)
		_, err := svc.Create(ctx, payload(t, validBody))
		require.NoError(t, err)

		updated, err := svc.Update(ctx, "1", payload(t, `{"technologies":["Next.js","TypeScript"]}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"Next.js", "TypeScript"}, updated.Technologies)
	})

	t.Run("malformed technologies keep the stored value", func(t *testing.T) {
		svc, _ := setupService(t)
		created, err := svc.Create(ctx, payload(t, validBody))
		require.NoError(t, err)

		updated, err := svc.Update(ctx, "1", payload(t, `{"technologies":"Go"}`))
		require.NoError(t, err)
		assert.Equal(t, created.Technologies, updated.Technologies)
	})

	t.Run("explicit null clears an optional url", func(t *testing.T) {
		svc, _ := setupService(t)
		_, err := svc.Create(ctx, payload(t, validBody))
		require.NoError(t, err)

		updated, err := svc.Update(ctx, "1", payload(t, `{"projectUrl":null,"imageUrl":""}`))
		require.NoError(t, err)
		assert.Nil(t, updated.ProjectURL)
		assert.Nil(t, updated.ImageURL)
		assert.NotNil(t, updated.GithubURL)
	})

	t.Run("whitespace url is stored as null", func(t *testing.T) {
		svc, _ := setupService(t)
		_, err := svc.Create(ctx, payload(t, validBody))
		require.NoError(t, err)

		updated, err := svc.Update(ctx, "1", payload(t, `{"imageUrl":"   ","githubUrl":"\t"}`))
		require.NoError(t, err)
		assert.Nil(t, updated.ImageURL)
		assert.Nil(t, updated.GithubURL)
		assert.NotNil(t, updated.ProjectURL)
	})

	t.Run("invalid supplied fields", func(t *testing.T) {
		svc, _ := setupService(t)
		_, err := svc.Create(ctx, payload(t, validBody))
		require.NoError(t, err)

		_, err = svc.Update(ctx, "1", payload(t, `{"title":"  "}`))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = svc.Update(ctx, "1", payload(t, `{"technologies":[]}`))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing and malformed ids", func(t *testing.T) {
		svc, _ := setupService(t)

		_, err := svc.Update(ctx, "99999", payload(t, `{"title":"Updated Title"}`))
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = svc.Update(ctx, "abc", payload(t, `{"title":"Updated Title"}`))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestProjectService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, repo := setupService(t)

	created, err := svc.Create(ctx, payload(t, validBody))
	require.NoError(t, err)

	removed, err := svc.Delete(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)
	assert.Equal(t, 0, repo.Count())

	_, err = svc.Get(ctx, "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Delete(ctx, "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Delete(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// faultyStore fails every call with err, or blocks until the context ends when
// err is nil.
type faultyStore struct {
	err   error
	calls int
}

func (s *faultyStore) wait(ctx context.Context) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *faultyStore) FindOne(ctx context.Context, id int64) (*domain.Project, error) {
	return nil, s.wait(ctx)
}
func (s *faultyStore) FindAll(ctx context.Context) ([]domain.Project, error) {
	return nil, s.wait(ctx)
}
func (s *faultyStore) Insert(ctx context.Context, f domain.ProjectFields) (*domain.Project, error) {
	return nil, s.wait(ctx)
}
func (s *faultyStore) Update(ctx context.Context, id int64, f domain.ProjectFields) (*domain.Project, error) {
	return nil, s.wait(ctx)
}
func (s *faultyStore) Delete(ctx context.Context, id int64) (*domain.Project, error) {
	return nil, s.wait(ctx)
}
func (s *faultyStore) Ping(ctx context.Context) error { return s.wait(ctx) }
func (s *faultyStore) Close() error                   { return nil }

func TestProjectService_StoreErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("generic failure", func(t *testing.T) {
		store := &faultyStore{err: errors.New("duplicate key value violates unique constraint")}
		svc := service.NewProjectService(store, time.Second)

		_, err := svc.List(ctx)
		assert.ErrorIs(t, err, domain.ErrStoreFailure)
		assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)

		_, err = svc.Get(ctx, "1")
		assert.ErrorIs(t, err, domain.ErrStoreFailure)
	})

	t.Run("unavailable store", func(t *testing.T) {
		store := &faultyStore{err: domain.ErrStoreUnavailable}
		svc := service.NewProjectService(store, time.Second)

		_, err := svc.Create(ctx, payload(t, validBody))
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})

	t.Run("timeout surfaces as unavailable without retries", func(t *testing.T) {
		service.ResetMetrics()
		store := &faultyStore{}
		svc := service.NewProjectService(store, 20*time.Millisecond)

		_, err := svc.List(ctx)
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
		assert.Equal(t, 1, store.calls)

		m := service.GetMetrics()
		assert.Equal(t, int64(1), m.StoreCalls)
		assert.Equal(t, int64(1), m.StoreTimeout)
		assert.Equal(t, float64(100), m.StoreErrorRate())
	})

	t.Run("not found stops update before the write", func(t *testing.T) {
		store := &faultyStore{err: domain.ErrNotFound}
		svc := service.NewProjectService(store, time.Second)

		_, err := svc.Update(ctx, "7", payload(t, `{"title":"x"}`))
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, 1, store.calls)
	})
}

func TestProjectService_PingIsNotMetered(t *testing.T) {
	ctx := context.Background()
	service.ResetMetrics()

	svc, _ := setupService(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Ping(ctx))
	}
	assert.Equal(t, int64(0), service.GetMetrics().StoreCalls)

	down := service.NewProjectService(&faultyStore{err: errors.New("connection refused")}, time.Second)
	assert.ErrorIs(t, down.Ping(ctx), domain.ErrStoreUnavailable)

	m := service.GetMetrics()
	assert.Equal(t, int64(0), m.StoreCalls)
	assert.Equal(t, int64(0), m.StoreErrors)

	_, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), service.GetMetrics().StoreCalls)
}

func TestParseID(t *testing.T) {
	id, err := service.ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = service.ParseID("forty-two")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
