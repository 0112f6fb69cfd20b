package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-labs/portfolio-backend/internal/projects/domain"
)

// projectStore is the method set shared by every repository in this package.
type projectStore interface {
	FindOne(ctx context.Context, id int64) (*domain.Project, error)
	FindAll(ctx context.Context) ([]domain.Project, error)
	Insert(ctx context.Context, fields domain.ProjectFields) (*domain.Project, error)
	Update(ctx context.Context, id int64, fields domain.ProjectFields) (*domain.Project, error)
	Delete(ctx context.Context, id int64) (*domain.Project, error)
	Ping(ctx context.Context) error
}

func strPtr(s string) *string { return &s }

func testFields(title string) domain.ProjectFields {
	return domain.ProjectFields{
		Title:        title,
		Description:  "A portfolio website built with Next.js",
		ProjectURL:   strPtr("https://portfolio.vercel.app"),
		GithubURL:    strPtr("https://github.com/me/portfolio"),
		Technologies: []string{"Next.js", "Tailwind CSS", "React"},
	}
}

// runStoreContract exercises the behaviour every store must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) projectStore) {
	ctx := context.Background()

	t.Run("insert assigns id and timestamps", func(t *testing.T) {
		s := newStore(t)
		in := testFields("Test Portfolio Website")

		p, err := s.Insert(ctx, in)
		require.NoError(t, err)

		assert.NotZero(t, p.ID)
		assert.Equal(t, in.Title, p.Title)
		assert.Equal(t, in.Description, p.Description)
		assert.Nil(t, p.ImageURL)
		require.NotNil(t, p.ProjectURL)
		assert.Equal(t, *in.ProjectURL, *p.ProjectURL)
		assert.Equal(t, in.Technologies, p.Technologies)
		assert.False(t, p.CreatedAt.IsZero())
		assert.False(t, p.UpdatedAt.IsZero())
	})

	t.Run("find one", func(t *testing.T) {
		s := newStore(t)
		created, err := s.Insert(ctx, testFields("Test Project"))
		require.NoError(t, err)

		found, err := s.FindOne(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, created.Technologies, found.Technologies)

		_, err = s.FindOne(ctx, 99999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("find all is newest first", func(t *testing.T) {
		s := newStore(t)
		first, err := s.Insert(ctx, testFields("Test Project 1"))
		require.NoError(t, err)
		second, err := s.Insert(ctx, testFields("Test Project 2"))
		require.NoError(t, err)

		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, second.ID, all[0].ID)
		assert.Equal(t, first.ID, all[1].ID)
	})

	t.Run("update overwrites fields and keeps createdAt", func(t *testing.T) {
		s := newStore(t)
		created, err := s.Insert(ctx, testFields("Test Project"))
		require.NoError(t, err)

		f := created.Fields()
		f.Title = "Updated Test Project"
		f.ProjectURL = nil
		f.Technologies = []string{"Next.js", "TypeScript"}

		updated, err := s.Update(ctx, created.ID, f)
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Updated Test Project", updated.Title)
		assert.Nil(t, updated.ProjectURL)
		assert.Equal(t, []string{"Next.js", "TypeScript"}, updated.Technologies)
		assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
	})

	t.Run("delete removes the record", func(t *testing.T) {
		s := newStore(t)
		created, err := s.Insert(ctx, testFields("Test Project"))
		require.NoError(t, err)

		removed, err := s.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, removed.ID)

		_, err = s.FindOne(ctx, created.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = s.Delete(ctx, created.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(ctx))
	})
}
