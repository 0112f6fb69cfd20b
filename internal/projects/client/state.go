package client

import (
	"context"

	"github.com/folio-labs/portfolio-backend/internal/projects/domain"
)

const MsgLoadFailed = "Unable to load projects."

// Lister is the part of the API the list page reads from.
type Lister interface {
	List(ctx context.Context) ([]domain.Project, error)
}

// ListState is the projects page's local list.
type ListState struct {
	Items   []domain.Project
	Loading bool
	Error   string
}

// Load replaces Items with the server's list. On failure Error is set and the
// previous items are kept.
func (s *ListState) Load(ctx context.Context, api Lister) error {
	s.Loading = true
	defer func() { s.Loading = false }()

	items, err := api.List(ctx)
	if err != nil {
		s.Error = MsgLoadFailed
		return err
	}
	s.Items = items
	s.Error = ""
	return nil
}

// Prepend records a project created from this page. The list is not
// re-fetched, so it shows most recent create first until the next Load.
func (s *ListState) Prepend(p domain.Project) {
	s.Items = append([]domain.Project{p}, s.Items...)
}
