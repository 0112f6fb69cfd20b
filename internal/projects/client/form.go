package client

import (
	"context"
	"errors"

	"github.com/folio-labs/portfolio-backend/internal/projects/domain"
	"github.com/folio-labs/portfolio-backend/internal/projects/validation"
)

const MsgSubmitFailed = "Unable to create project."

// ErrInvalidForm is returned by Submit when local validation fails.
var ErrInvalidForm = errors.New("form has invalid fields")

// Creator is the part of the API the form writes to.
type Creator interface {
	Create(ctx context.Context, d Draft) (*domain.Project, error)
}

// Form is the create-project form.
type Form struct {
	Title       string
	Description string
	ImageURL    string
	ProjectURL  string
	GithubURL   string
	Tech        TechnologyEditor

	// Errors maps field names, plus "submit", to messages.
	Errors     validation.Errors
	Submitting bool
}

func (f *Form) draft() Draft {
	return Draft{
		Title:        f.Title,
		Description:  f.Description,
		ImageURL:     f.ImageURL,
		ProjectURL:   f.ProjectURL,
		GithubURL:    f.GithubURL,
		Technologies: f.Tech.Tags(),
	}
}

// Validate runs the shared rules and stores the result in Errors.
func (f *Form) Validate() bool {
	d := f.draft()
	f.Errors = validation.Validate(validation.Input{
		Title:        d.Title,
		Description:  d.Description,
		ImageURL:     d.ImageURL,
		ProjectURL:   d.ProjectURL,
		GithubURL:    d.GithubURL,
		Technologies: d.Technologies,
	})
	return f.Errors.Valid()
}

// Submit validates locally and only then creates the project. On success the
// form is cleared and the project is prepended to list; on failure the
// fields are kept and Errors["submit"] is set.
func (f *Form) Submit(ctx context.Context, api Creator, list *ListState) (*domain.Project, error) {
	if !f.Validate() {
		return nil, ErrInvalidForm
	}

	f.Submitting = true
	defer func() { f.Submitting = false }()

	p, err := api.Create(ctx, f.draft())
	if err != nil {
		f.Errors = validation.Errors{"submit": MsgSubmitFailed}
		return nil, err
	}

	if list != nil {
		list.Prepend(*p)
	}
	f.Reset()
	return p, nil
}

func (f *Form) Reset() {
	f.Title, f.Description = "", ""
	f.ImageURL, f.ProjectURL, f.GithubURL = "", "", ""
	f.Tech.Reset()
	f.Errors = validation.Errors{}
}
