package domain

import "time"

// Project is a single portfolio entry.
// It is storage-agnostic and used across repository, service and HTTP layers.
type Project struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ImageURL     *string   `json:"imageUrl"`
	ProjectURL   *string   `json:"projectUrl"`
	GithubURL    *string   `json:"githubUrl"`
	Technologies []string  `json:"technologies"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProjectFields is the writable part of a Project. Stores receive the complete
// set on insert and on update; merging a partial update happens before that.
type ProjectFields struct {
	Title        string
	Description  string
	ImageURL     *string
	ProjectURL   *string
	GithubURL    *string
	Technologies []string
}

// Fields returns the writable fields of p.
func (p *Project) Fields() ProjectFields {
	return ProjectFields{
		Title:        p.Title,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		ProjectURL:   p.ProjectURL,
		GithubURL:    p.GithubURL,
		Technologies: append([]string(nil), p.Technologies...),
	}
}
