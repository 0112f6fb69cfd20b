package client

import (
	"errors"
	"slices"
	"strings"
)

var (
	ErrBlankTechnology     = errors.New("technology cannot be blank")
	ErrDuplicateTechnology = errors.New("technology already added")
)

// QuickAdd is the vocabulary offered as one-click suggestions.
var QuickAdd = []string{
	"JavaScript", "TypeScript", "React", "Next.js", "Node.js", "Express",
	"HTML", "CSS", "Tailwind CSS", "Bootstrap", "Python", "Java",
	"PostgreSQL", "MongoDB", "MySQL", "Prisma", "GraphQL", "REST API",
	"Git", "Docker", "AWS", "Vercel", "Figma", "Photoshop",
}

// TechnologyEditor holds the ordered technology tags of a form.
type TechnologyEditor struct {
	tags []string
}

// Add appends a trimmed tag. Blank tags and exact (case-sensitive)
// duplicates are rejected and leave the list unchanged.
func (e *TechnologyEditor) Add(tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ErrBlankTechnology
	}
	if slices.Contains(e.tags, tag) {
		return ErrDuplicateTechnology
	}
	e.tags = append(e.tags, tag)
	return nil
}

// Remove drops tag if present.
func (e *TechnologyEditor) Remove(tag string) {
	e.tags = slices.DeleteFunc(e.tags, func(t string) bool { return t == tag })
}

// Tags returns a copy of the current tags.
func (e *TechnologyEditor) Tags() []string {
	return slices.Clone(e.tags)
}

func (e *TechnologyEditor) Reset() {
	e.tags = nil
}

// Available lists the quick-add entries not selected yet.
func (e *TechnologyEditor) Available() []string {
	out := make([]string, 0, len(QuickAdd))
	for _, t := range QuickAdd {
		if !slices.Contains(e.tags, t) {
			out = append(out, t)
		}
	}
	return out
}
