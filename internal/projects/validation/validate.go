// Package validation holds the project payload rules shared by the API
// service and the client-side form.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/folio-labs/portfolio-backend/internal/projects/domain"
)

const (
	MsgTitleRequired       = "Title is required."
	MsgDescriptionRequired = "Description is required."
	MsgTechnologyRequired  = "At least one technology is required."
	MsgTechnologyBlank     = "Technologies cannot be blank."
	MsgInvalidURL          = "Please enter a valid URL."
)

var urlPattern = regexp.MustCompile(`^https?://.+\..+`)

// Errors maps a field name to its error message. Empty means valid.
type Errors map[string]string

func (e Errors) Valid() bool { return len(e) == 0 }

// Err returns nil for a valid result and a *domain.ValidationError otherwise.
func (e Errors) Err() error {
	if e.Valid() {
		return nil
	}
	return &domain.ValidationError{Fields: map[string]string(e)}
}

// Input is a candidate project. Empty URL strings mean "absent".
type Input struct {
	Title        string   `json:"title" validate:"notblank"`
	Description  string   `json:"description" validate:"notblank"`
	ImageURL     string   `json:"imageUrl" validate:"httpurl"`
	ProjectURL   string   `json:"projectUrl" validate:"httpurl"`
	GithubURL    string   `json:"githubUrl" validate:"httpurl"`
	Technologies []string `json:"technologies" validate:"min=1,dive,notblank"`
}

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return strings.TrimSpace(s) == "" || IsURL(s)
		})
	})
	return v
}

// IsURL reports whether s has a scheme of http or https and a host containing a dot.
func IsURL(s string) bool {
	return urlPattern.MatchString(s)
}

// Validate checks every rule and reports all violations together.
func Validate(in Input) Errors {
	errs := Errors{}

	err := instance().Struct(in)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errs
	}

	for _, fe := range fieldErrs {
		field := fe.Field()
		if strings.HasPrefix(field, "technologies[") {
			field = "technologies"
		}
		if _, seen := errs[field]; seen {
			continue
		}
		errs[field] = message(field, fe.Tag())
	}
	return errs
}

// ValidatePatch applies the same rules to the fields a partial update supplies.
// Technologies are only checked when they form a proper array; any other shape
// leaves the stored value untouched and is not an error.
func ValidatePatch(p *domain.Payload) Errors {
	errs := Errors{}
	val := instance()

	check := func(field string, f domain.Field[string], tag string) {
		if !f.Set {
			return
		}
		if err := val.Var(f.Value, tag); err != nil {
			errs[field] = message(field, tag)
		}
	}
	check("title", p.Title, "notblank")
	check("description", p.Description, "notblank")
	check("imageUrl", p.ImageURL, "httpurl")
	check("projectUrl", p.ProjectURL, "httpurl")
	check("githubUrl", p.GithubURL, "httpurl")

	if techs, ok := p.TechnologyList(); ok {
		if err := val.Var(techs, "min=1"); err != nil {
			errs["technologies"] = MsgTechnologyRequired
		} else if err := val.Var(techs, "dive,notblank"); err != nil {
			errs["technologies"] = MsgTechnologyBlank
		}
	}
	return errs
}

// FromPayload converts a create payload into an Input. Technologies that are
// not a proper array become absent.
func FromPayload(p *domain.Payload) Input {
	techs, _ := p.TechnologyList()
	return Input{
		Title:        p.Title.Value,
		Description:  p.Description.Value,
		ImageURL:     p.ImageURL.Value,
		ProjectURL:   p.ProjectURL.Value,
		GithubURL:    p.GithubURL.Value,
		Technologies: techs,
	}
}

func message(field, tag string) string {
	switch field {
	case "title":
		return MsgTitleRequired
	case "description":
		return MsgDescriptionRequired
	case "technologies":
		if tag == "notblank" {
			return MsgTechnologyBlank
		}
		return MsgTechnologyRequired
	default:
		return MsgInvalidURL
	}
}
